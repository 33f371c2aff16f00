package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Trigger outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Webhook call results.
const (
	WebhookOK         = "ok"
	WebhookNonSuccess = "non_success"
	WebhookError      = "error"
	WebhookSkipped    = "skipped"
)

// Recorder exposes the service's Prometheus metrics.
type Recorder struct {
	registry  *prometheus.Registry
	triggers  *prometheus.CounterVec
	webhooks  *prometheus.CounterVec
	duration  prometheus.Histogram
	webhookUp prometheus.Gauge
}

// New creates a recorder with its own registry, including Go runtime and
// process collectors.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		triggers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "outreach_triggers_total",
			Help: "Total campaign trigger requests by outcome",
		}, []string{"outcome"}),
		webhooks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "outreach_webhook_calls_total",
			Help: "Total outbound webhook calls by result",
		}, []string{"result"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "outreach_trigger_duration_seconds",
			Help:    "Wall-clock duration of campaign trigger requests",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 8, 10, 15, 30, 60},
		}),
		webhookUp: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "outreach_webhook_up",
			Help: "Whether the last webhook reachability check succeeded (1) or failed (0)",
		}),
	}

	r.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.triggers,
		r.webhooks,
		r.duration,
		r.webhookUp,
	)
	return r
}

// ObserveTrigger records a finished trigger request.
func (r *Recorder) ObserveTrigger(outcome string, d time.Duration) {
	if r == nil {
		return
	}
	r.triggers.WithLabelValues(outcome).Inc()
	r.duration.Observe(d.Seconds())
}

// ObserveWebhook records an outbound webhook call result.
func (r *Recorder) ObserveWebhook(result string) {
	if r == nil {
		return
	}
	r.webhooks.WithLabelValues(result).Inc()
}

// SetWebhookUp records the latest reachability check.
func (r *Recorder) SetWebhookUp(up bool) {
	if r == nil {
		return
	}
	if up {
		r.webhookUp.Set(1)
	} else {
		r.webhookUp.Set(0)
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// Registry returns the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}
