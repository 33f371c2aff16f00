package handlers

import (
	"github.com/gofiber/fiber/v3"
)

// WebhookStatus reports the last known webhook reachability.
type WebhookStatus interface {
	Healthy() bool
}

// ProbeHandler handles Kubernetes health probe endpoints.
type ProbeHandler struct {
	webhook    WebhookStatus
	failClosed bool
}

// NewProbeHandler creates a new probe handler. status may be nil when no
// webhook monitor runs.
func NewProbeHandler(status WebhookStatus, failClosed bool) *ProbeHandler {
	return &ProbeHandler{webhook: status, failClosed: failClosed}
}

// Liveness handles the /healthz endpoint for Kubernetes liveness probes.
// Returns 200 OK if the application is running.
func (h *ProbeHandler) Liveness(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "ok",
	})
}

// Readiness handles the /readyz endpoint for Kubernetes readiness probes.
// In fail-closed mode every trigger needs the webhook, so an unreachable
// webhook makes the service unready. In fail-open mode it only degrades.
func (h *ProbeHandler) Readiness(c fiber.Ctx) error {
	if h.webhook == nil || h.webhook.Healthy() {
		return c.JSON(fiber.Map{
			"status": "ok",
		})
	}

	if h.failClosed {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "error",
			"error":  "webhook unavailable",
		})
	}

	return c.JSON(fiber.Map{
		"status":  "degraded",
		"webhook": "unavailable",
	})
}
