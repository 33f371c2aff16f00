package outreach

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"outreach/internal/metrics"
	"outreach/internal/models"
	"outreach/internal/testutil"
	"outreach/internal/webhook"
)

type fakeRecorder struct {
	mu       sync.Mutex
	triggers []string
	webhooks []string
}

func (f *fakeRecorder) ObserveTrigger(outcome string, _ time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.triggers = append(f.triggers, outcome)
}

func (f *fakeRecorder) ObserveWebhook(result string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.webhooks = append(f.webhooks, result)
}

// steppingClock advances by step on every call.
func steppingClock(step time.Duration) func() time.Time {
	var mu sync.Mutex
	t := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		now := t
		t = t.Add(step)
		return now
	}
}

func newTestService(opts Options) *Service {
	if opts.Logger == nil {
		opts.Logger = testutil.DiscardLogger()
	}
	if opts.ExecutionFloor == 0 {
		opts.ExecutionFloor = 8 * time.Second
	}
	return NewService(opts)
}

func TestTriggerDemoModeAppliesFloor(t *testing.T) {
	rec := &fakeRecorder{}
	svc := newTestService(Options{Source: Deterministic{}, Recorder: rec})

	got, err := svc.Trigger(context.Background(), Request{RunID: "r1"})
	if err != nil {
		t.Fatalf("Trigger() error = %v", err)
	}
	want := models.OutreachResult{ClientsReached: 50, ExecutionTime: 8, EmailsSent: 50, SuccessRate: 100, AvgPersonalization: 95}
	if got != want {
		t.Errorf("Trigger() = %+v, want %+v", got, want)
	}
	if len(rec.webhooks) != 1 || rec.webhooks[0] != metrics.WebhookSkipped {
		t.Errorf("webhook observations = %v, want [skipped]", rec.webhooks)
	}
	if len(rec.triggers) != 1 || rec.triggers[0] != metrics.OutcomeSuccess {
		t.Errorf("trigger observations = %v, want [success]", rec.triggers)
	}
}

func TestTriggerReportsElapsedAboveFloor(t *testing.T) {
	svc := newTestService(Options{
		Source: Deterministic{},
		Now:    steppingClock(12700 * time.Millisecond),
	})

	got, err := svc.Trigger(context.Background(), Request{})
	if err != nil {
		t.Fatalf("Trigger() error = %v", err)
	}
	if got.ExecutionTime != 12 {
		t.Errorf("ExecutionTime = %d, want 12 (whole seconds)", got.ExecutionTime)
	}
}

func TestTriggerCallsWebhook(t *testing.T) {
	hook := testutil.NewWebhookServer(t, http.StatusOK, `{"message":"Workflow was started"}`)
	rec := &fakeRecorder{}
	svc := newTestService(Options{
		Webhook:       webhook.New(hook.URL, time.Second),
		Source:        Deterministic{},
		Recorder:      rec,
		WebhookSource: "web-app",
	})

	if _, err := svc.Trigger(context.Background(), Request{}); err != nil {
		t.Fatalf("Trigger() error = %v", err)
	}

	calls := hook.Calls()
	if len(calls) != 1 {
		t.Fatalf("webhook calls = %d, want 1", len(calls))
	}
	if calls[0].Method != http.MethodGet {
		t.Errorf("method = %s", calls[0].Method)
	}
	if calls[0].Query.Get("source") != "web-app" {
		t.Errorf("source = %q", calls[0].Query.Get("source"))
	}
	if _, err := time.Parse(time.RFC3339, calls[0].Query.Get("timestamp")); err != nil {
		t.Errorf("timestamp %q is not ISO-8601: %v", calls[0].Query.Get("timestamp"), err)
	}
	if len(rec.webhooks) != 1 || rec.webhooks[0] != metrics.WebhookOK {
		t.Errorf("webhook observations = %v, want [ok]", rec.webhooks)
	}
}

func TestTriggerRequestOverridesSourceAndTimestamp(t *testing.T) {
	hook := testutil.NewWebhookServer(t, http.StatusOK, "accepted")
	svc := newTestService(Options{Webhook: webhook.New(hook.URL, time.Second), WebhookSource: "web-app"})

	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	if _, err := svc.Trigger(context.Background(), Request{Source: "cli", Timestamp: at}); err != nil {
		t.Fatalf("Trigger() error = %v", err)
	}

	q := hook.Calls()[0].Query
	if q.Get("source") != "cli" {
		t.Errorf("source = %q, want cli", q.Get("source"))
	}
	if q.Get("timestamp") != "2026-01-02T03:04:05.000Z" {
		t.Errorf("timestamp = %q", q.Get("timestamp"))
	}
}

func TestTriggerWebhookFailures(t *testing.T) {
	tests := []struct {
		name        string
		url         func(t *testing.T) string
		failClosed  bool
		wantErr     bool
		wantMsg     string
		wantWebhook string
	}{
		{
			name:        "fail-open non-success",
			url:         func(t *testing.T) string { return testutil.NewWebhookServer(t, http.StatusNotFound, "workflow inactive").URL },
			wantWebhook: metrics.WebhookNonSuccess,
		},
		{
			name:        "fail-open unreachable",
			url:         testutil.UnreachableURL,
			wantWebhook: metrics.WebhookError,
		},
		{
			name:        "fail-closed non-success",
			url:         func(t *testing.T) string { return testutil.NewWebhookServer(t, http.StatusNotFound, "workflow inactive").URL },
			failClosed:  true,
			wantErr:     true,
			wantMsg:     "webhook failed with status: 404 - workflow inactive",
			wantWebhook: metrics.WebhookNonSuccess,
		},
		{
			name:        "fail-closed unreachable",
			url:         testutil.UnreachableURL,
			failClosed:  true,
			wantErr:     true,
			wantMsg:     "webhook failed: call webhook",
			wantWebhook: metrics.WebhookError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &fakeRecorder{}
			svc := newTestService(Options{
				Webhook:    webhook.New(tt.url(t), time.Second),
				Source:     Deterministic{},
				Recorder:   rec,
				FailClosed: tt.failClosed,
			})

			got, err := svc.Trigger(context.Background(), Request{})
			if len(rec.webhooks) != 1 || rec.webhooks[0] != tt.wantWebhook {
				t.Errorf("webhook observations = %v, want [%s]", rec.webhooks, tt.wantWebhook)
			}

			if !tt.wantErr {
				if err != nil {
					t.Fatalf("Trigger() error = %v", err)
				}
				if got.SuccessRate != 100 {
					t.Errorf("expected demo metrics, got %+v", got)
				}
				return
			}

			if !errors.Is(err, ErrWebhookFailed) {
				t.Fatalf("error = %v, want ErrWebhookFailed", err)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error = %q, want containing %q", err, tt.wantMsg)
			}
			if len(rec.triggers) != 1 || rec.triggers[0] != metrics.OutcomeFailure {
				t.Errorf("trigger observations = %v, want [failure]", rec.triggers)
			}
		})
	}
}

func TestTriggerRejectsOutOfBoundsResult(t *testing.T) {
	bad := testutil.SampleResult()
	bad.SuccessRate = 140
	svc := newTestService(Options{Source: Fixed(bad)})

	_, err := svc.Trigger(context.Background(), Request{})
	if !errors.Is(err, ErrInvalidResult) {
		t.Fatalf("error = %v, want ErrInvalidResult", err)
	}
}

func TestTriggerProcessingDelayHonoursCancellation(t *testing.T) {
	svc := newTestService(Options{ProcessingDelay: time.Hour})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Trigger(ctx, Request{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
}

func TestTriggerProcessingDelayWaits(t *testing.T) {
	svc := newTestService(Options{ProcessingDelay: 30 * time.Millisecond, ExecutionFloor: time.Nanosecond})

	start := time.Now()
	if _, err := svc.Trigger(context.Background(), Request{}); err != nil {
		t.Fatalf("Trigger() error = %v", err)
	}
	if elapsed := time.Since(start); elapsed < 30*time.Millisecond {
		t.Errorf("Trigger returned after %v, want at least 30ms", elapsed)
	}
}

func TestTriggerFailClosedSkipsDelayOnDeadWebhook(t *testing.T) {
	svc := newTestService(Options{
		Webhook:         webhook.New(testutil.UnreachableURL(t), time.Second),
		FailClosed:      true,
		ProcessingDelay: time.Hour,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := svc.Trigger(ctx, Request{})
	if !errors.Is(err, ErrWebhookFailed) {
		t.Fatalf("error = %v, want ErrWebhookFailed before the delay", err)
	}
}

func TestTriggerFailClosedDelaysAfterWebhook(t *testing.T) {
	hook := testutil.NewWebhookServer(t, http.StatusOK, "")
	svc := newTestService(Options{
		Webhook:         webhook.New(hook.URL, time.Second),
		FailClosed:      true,
		ProcessingDelay: 30 * time.Millisecond,
		ExecutionFloor:  time.Nanosecond,
	})

	start := time.Now()
	if _, err := svc.Trigger(context.Background(), Request{}); err != nil {
		t.Fatalf("Trigger() error = %v", err)
	}
	if elapsed := time.Since(start); elapsed < 30*time.Millisecond {
		t.Errorf("Trigger returned after %v, want at least 30ms", elapsed)
	}
	if len(hook.Calls()) != 1 {
		t.Errorf("webhook calls = %d, want 1", len(hook.Calls()))
	}
}

func TestSequentialTriggersAreIndependent(t *testing.T) {
	svc := newTestService(Options{Source: NewRandomized(1)})

	first, err := svc.Trigger(context.Background(), Request{RunID: "a"})
	if err != nil {
		t.Fatalf("first Trigger() error = %v", err)
	}
	firstCopy := first

	second, err := svc.Trigger(context.Background(), Request{RunID: "b"})
	if err != nil {
		t.Fatalf("second Trigger() error = %v", err)
	}

	if first != firstCopy {
		t.Error("first result changed after second trigger")
	}
	for _, r := range []models.OutreachResult{first, second} {
		if r.ClientsReached != r.EmailsSent {
			t.Errorf("clientsReached %d != emailsSent %d", r.ClientsReached, r.EmailsSent)
		}
		if r.ExecutionTime < 8 {
			t.Errorf("executionTime %d below floor", r.ExecutionTime)
		}
	}
}

func TestConcurrentTriggers(t *testing.T) {
	svc := newTestService(Options{Source: NewRandomized(3)})

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.Trigger(context.Background(), Request{}); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent Trigger() error = %v", err)
	}
}
