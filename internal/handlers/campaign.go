package handlers

import (
	"context"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"outreach/internal/config"
	"outreach/internal/models"
	"outreach/internal/outreach"
)

// Triggerer runs one outreach campaign.
type Triggerer interface {
	Trigger(ctx context.Context, req outreach.Request) (models.OutreachResult, error)
}

// failureToast is shown whenever a run from the web UI fails, whatever the cause.
var failureToast = Toast{
	Title:       "Outreach Failed",
	Description: "Failed to trigger outreach workflow. Please try again.",
	Variant:     "destructive",
}

// SetFailureToast raises the run failure toast on the client.
func SetFailureToast(c fiber.Ctx) {
	htmxToast(c, failureToast)
}

// CampaignHandler serves the single-page campaign UI.
type CampaignHandler struct {
	svc Triggerer
	cfg *config.Config
}

// NewCampaignHandler creates a new campaign UI handler.
func NewCampaignHandler(svc Triggerer, cfg *config.Config) *CampaignHandler {
	return &CampaignHandler{svc: svc, cfg: cfg}
}

// Index renders the page in its initial state.
func (h *CampaignHandler) Index(c fiber.Ctx) error {
	return c.Render("index", MergeBranding(fiber.Map{
		"Title": "Launch campaign",
	}, h.cfg))
}

// Run triggers a campaign and swaps in the success view, or the initial view
// plus a failure toast.
func (h *CampaignHandler) Run(c fiber.Ctx) error {
	result, err := h.svc.Trigger(c.Context(), outreach.Request{RunID: uuid.NewString()})
	if err != nil {
		SetFailureToast(c)
		return c.Render("partials/initial", MergeBranding(fiber.Map{}, h.cfg), "")
	}

	return c.Render("partials/success", fiber.Map{
		"Result": result,
	}, "")
}

// Reset swaps the initial call-to-action back in.
func (h *CampaignHandler) Reset(c fiber.Ctx) error {
	return c.Render("partials/initial", MergeBranding(fiber.Map{}, h.cfg), "")
}
