package jobs

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"
)

// Pinger checks that the webhook endpoint is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Gauge records the latest check result.
type Gauge interface {
	SetWebhookUp(up bool)
}

// WebhookMonitor periodically checks webhook reachability in the background.
type WebhookMonitor struct {
	pinger   Pinger
	gauge    Gauge
	interval time.Duration
	timeout  time.Duration
	healthy  atomic.Bool
}

// NewWebhookMonitor creates a new monitor. The webhook is assumed healthy
// until the first check says otherwise.
func NewWebhookMonitor(pinger Pinger, gauge Gauge, interval time.Duration) *WebhookMonitor {
	m := &WebhookMonitor{
		pinger:   pinger,
		gauge:    gauge,
		interval: interval,
		timeout:  10 * time.Second,
	}
	m.healthy.Store(true)
	return m
}

// Start begins the background check loop. It returns when ctx is cancelled.
func (m *WebhookMonitor) Start(ctx context.Context) {
	slog.Info("webhook monitor started", "interval", m.interval)

	// Run immediately on start
	m.check(ctx)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("webhook monitor stopped")
			return
		case <-ticker.C:
			m.check(ctx)
		}
	}
}

// Healthy returns the result of the latest check. A nil monitor is healthy.
func (m *WebhookMonitor) Healthy() bool {
	if m == nil {
		return true
	}
	return m.healthy.Load()
}

func (m *WebhookMonitor) check(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	err := m.pinger.Ping(ctx)
	up := err == nil
	if was := m.healthy.Swap(up); was != up {
		if up {
			slog.Info("webhook reachable again")
		} else {
			slog.Warn("webhook unreachable", "error", err)
		}
	}
	if m.gauge != nil {
		m.gauge.SetWebhookUp(up)
	}
}
