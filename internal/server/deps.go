package server

import (
	"fmt"
	"log/slog"

	"outreach/internal/config"
	"outreach/internal/jobs"
	"outreach/internal/metrics"
	"outreach/internal/outreach"
	"outreach/internal/random"
	"outreach/internal/webhook"
)

// BuildDeps constructs the trigger service and its collaborators from cfg.
func BuildDeps(cfg *config.Config) (Deps, error) {
	recorder := metrics.New()

	var source outreach.Source
	switch cfg.MetricsMode {
	case config.MetricsDeterministic:
		source = outreach.Deterministic{}
	default:
		seed, err := random.NewSeed()
		if err != nil {
			return Deps{}, fmt.Errorf("seed metrics source: %w", err)
		}
		source = outreach.NewRandomized(seed)
	}

	opts := outreach.Options{
		Source:          source,
		Recorder:        recorder,
		Logger:          slog.Default(),
		WebhookSource:   cfg.WebhookSource,
		FailClosed:      cfg.FailClosed(),
		ProcessingDelay: cfg.ProcessingDelay,
		ExecutionFloor:  cfg.ExecutionFloor,
	}

	var monitor *jobs.WebhookMonitor
	if !cfg.IsDemoMode() {
		client := webhook.New(cfg.WebhookURL, cfg.WebhookTimeout)
		opts.Webhook = client
		if cfg.WebhookMonitorInterval > 0 {
			monitor = jobs.NewWebhookMonitor(client, recorder, cfg.WebhookMonitorInterval)
		}
	}

	return Deps{
		Service:  outreach.NewService(opts),
		Recorder: recorder,
		Monitor:  monitor,
	}, nil
}
