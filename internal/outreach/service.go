// Package outreach runs a single outreach campaign trigger: it optionally
// calls the external workflow webhook and reports the campaign metrics.
package outreach

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"outreach/internal/metrics"
	"outreach/internal/models"
	"outreach/internal/validation"
	"outreach/internal/webhook"
)

var (
	// ErrWebhookFailed is returned in fail-closed mode when the workflow
	// webhook is unreachable or answers with a non-2xx status.
	ErrWebhookFailed = errors.New("webhook failed")

	// ErrInvalidResult is returned when the metrics source produced a result
	// outside the published bounds.
	ErrInvalidResult = errors.New("invalid outreach result")
)

// Webhook starts the external workflow.
type Webhook interface {
	Trigger(ctx context.Context, call webhook.Call) (*webhook.Response, error)
}

// Recorder receives trigger and webhook observations.
type Recorder interface {
	ObserveTrigger(outcome string, d time.Duration)
	ObserveWebhook(result string)
}

// Options configures a Service.
type Options struct {
	Webhook         Webhook // nil runs every trigger in demo mode
	Source          Source
	Recorder        Recorder
	Logger          *slog.Logger
	WebhookSource   string // default "source" query parameter
	FailClosed      bool
	ProcessingDelay time.Duration
	ExecutionFloor  time.Duration
	Now             func() time.Time
}

// Request carries the per-trigger inputs. Zero values fall back to the
// service defaults.
type Request struct {
	RunID     string
	Source    string
	Timestamp time.Time
}

// Service runs campaign triggers. It keeps no per-request state, so a single
// Service may serve concurrent triggers.
type Service struct {
	webhook    Webhook
	source     Source
	recorder   Recorder
	logger     *slog.Logger
	src        string
	failClosed bool
	delay      time.Duration
	floor      time.Duration
	now        func() time.Time
}

// NewService creates a trigger service.
func NewService(opts Options) *Service {
	s := &Service{
		webhook:    opts.Webhook,
		source:     opts.Source,
		recorder:   opts.Recorder,
		logger:     opts.Logger,
		src:        opts.WebhookSource,
		failClosed: opts.FailClosed,
		delay:      opts.ProcessingDelay,
		floor:      opts.ExecutionFloor,
		now:        opts.Now,
	}
	if s.source == nil {
		s.source = Deterministic{}
	}
	if s.recorder == nil {
		s.recorder = (*metrics.Recorder)(nil)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.src == "" {
		s.src = "web-app"
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Trigger runs one campaign and returns its metrics.
func (s *Service) Trigger(ctx context.Context, req Request) (models.OutreachResult, error) {
	start := s.now()
	log := s.logger.With("run_id", req.RunID)
	log.Info("starting outreach campaign")

	result, err := s.run(ctx, log, start, req)
	if err != nil {
		s.recorder.ObserveTrigger(metrics.OutcomeFailure, s.now().Sub(start))
		log.Error("outreach campaign failed", "error", err)
		return models.OutreachResult{}, err
	}

	s.recorder.ObserveTrigger(metrics.OutcomeSuccess, s.now().Sub(start))
	log.Info("campaign completed successfully",
		"clients_reached", result.ClientsReached,
		"execution_time", result.ExecutionTime,
		"emails_sent", result.EmailsSent,
		"success_rate", result.SuccessRate,
		"avg_personalization", result.AvgPersonalization,
	)
	return result, nil
}

func (s *Service) run(ctx context.Context, log *slog.Logger, start time.Time, req Request) (models.OutreachResult, error) {
	// Fail-closed runs call the webhook before the processing delay.
	steps := []func() error{
		func() error { return s.process(ctx) },
		func() error { return s.callWebhook(ctx, log, req) },
	}
	if s.failClosed {
		steps[0], steps[1] = steps[1], steps[0]
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return models.OutreachResult{}, err
		}
	}

	elapsed := int(s.now().Sub(start) / time.Second)
	if floor := int(s.floor / time.Second); elapsed < floor {
		elapsed = floor
	}

	result := s.source.Generate(elapsed)
	if err := validation.ValidateResult(result); err != nil {
		return models.OutreachResult{}, fmt.Errorf("%w: %w", ErrInvalidResult, err)
	}
	return result, nil
}

// callWebhook invokes the workflow. Failures only surface in fail-closed mode.
func (s *Service) callWebhook(ctx context.Context, log *slog.Logger, req Request) error {
	if s.webhook == nil {
		s.recorder.ObserveWebhook(metrics.WebhookSkipped)
		log.Info("no webhook configured, running in demo mode")
		return nil
	}

	call := webhook.Call{Timestamp: req.Timestamp, Source: req.Source}
	if call.Timestamp.IsZero() {
		call.Timestamp = s.now()
	}
	if call.Source == "" {
		call.Source = s.src
	}

	log.Info("calling workflow webhook", "source", call.Source)
	resp, err := s.webhook.Trigger(ctx, call)
	if err != nil {
		s.recorder.ObserveWebhook(metrics.WebhookError)
		if s.failClosed {
			return fmt.Errorf("%w: %w", ErrWebhookFailed, err)
		}
		log.Warn("webhook not available, running in demo mode", "error", err)
		return nil
	}

	log.Info("webhook responded", "status", resp.StatusCode)
	log.Debug("webhook response headers", "headers", resp.Header)

	if !resp.OK() {
		s.recorder.ObserveWebhook(metrics.WebhookNonSuccess)
		if s.failClosed {
			log.Warn("webhook error response", "body", string(resp.Body))
			return fmt.Errorf("%w with status: %d - %s", ErrWebhookFailed, resp.StatusCode, resp.Body)
		}
		log.Warn("webhook not available, running in demo mode", "status", resp.StatusCode)
		return nil
	}

	s.recorder.ObserveWebhook(metrics.WebhookOK)
	if data, ok := resp.JSON(); ok {
		log.Info("webhook response data", "data", data)
	} else {
		log.Info("webhook response was not JSON")
	}
	return nil
}

func (s *Service) process(ctx context.Context) error {
	if err := sleep(ctx, s.delay); err != nil {
		return fmt.Errorf("processing interrupted: %w", err)
	}
	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
