package server

import (
	"github.com/gofiber/fiber/v3/middleware/adaptor"

	"outreach/internal/handlers"
	"outreach/internal/handlers/api"
	"outreach/internal/jobs"
	"outreach/internal/metrics"
	"outreach/internal/outreach"
)

// Deps are the collaborators the routes are wired to.
type Deps struct {
	Service  *outreach.Service
	Recorder *metrics.Recorder
	Monitor  *jobs.WebhookMonitor // nil when the monitor is disabled
}

// RegisterRoutes registers all application routes.
func (s *Server) RegisterRoutes(deps Deps) {
	campaignHandler := handlers.NewCampaignHandler(deps.Service, s.Cfg)
	outreachHandler := api.NewOutreachHandler(deps.Service)

	var status handlers.WebhookStatus
	if deps.Monitor != nil {
		status = deps.Monitor
	}
	probeHandler := handlers.NewProbeHandler(status, s.Cfg.FailClosed())

	// Web UI
	s.App.Get("/", campaignHandler.Index)
	s.App.Post("/campaign/run", campaignHandler.Run)
	s.App.Get("/campaign/reset", campaignHandler.Reset)

	// JSON API
	s.App.Post("/api/outreach/trigger", outreachHandler.Trigger)

	// Operations
	s.App.Get("/healthz", probeHandler.Liveness)
	s.App.Get("/readyz", probeHandler.Readiness)
	if deps.Recorder != nil {
		s.App.Get("/metrics", adaptor.HTTPHandler(deps.Recorder.Handler()))
	}
}
