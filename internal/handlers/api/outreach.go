package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"outreach/internal/models"
	"outreach/internal/outreach"
	"outreach/internal/validation"
)

// Messages returned in the error body.
const (
	MsgTriggerFailed  = "Failed to trigger outreach workflow"
	MsgInvalidRequest = "Invalid trigger request"
)

// RunIDHeader carries the run ID of a trigger request.
const RunIDHeader = "X-Run-ID"

// Triggerer runs one outreach campaign.
type Triggerer interface {
	Trigger(ctx context.Context, req outreach.Request) (models.OutreachResult, error)
}

// OutreachHandler serves the campaign trigger endpoint.
type OutreachHandler struct {
	svc Triggerer
}

// NewOutreachHandler creates a new outreach API handler.
func NewOutreachHandler(svc Triggerer) *OutreachHandler {
	return &OutreachHandler{svc: svc}
}

// Trigger handles POST /api/outreach/trigger.
func (h *OutreachHandler) Trigger(c fiber.Ctx) error {
	req, err := ParseTriggerRequest(c.Body())
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, MsgInvalidRequest, err)
	}

	req.RunID = uuid.NewString()
	c.Set(RunIDHeader, req.RunID)

	result, err := h.svc.Trigger(c.Context(), req)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, MsgTriggerFailed, err)
	}

	return c.JSON(result)
}

// ParseTriggerRequest decodes the optional trigger body. An empty body is valid.
func ParseTriggerRequest(body []byte) (outreach.Request, error) {
	var req outreach.Request
	if len(bytes.TrimSpace(body)) == 0 {
		return req, nil
	}

	var in models.TriggerRequest
	if err := json.Unmarshal(body, &in); err != nil {
		return req, fmt.Errorf("decode body: %w", err)
	}
	if err := validation.ValidateTriggerRequest(in); err != nil {
		return req, err
	}

	req.Source = in.Source
	if in.Timestamp != "" {
		ts, err := time.Parse(time.RFC3339, in.Timestamp)
		if err != nil {
			return req, fmt.Errorf("parse timestamp: %w", err)
		}
		req.Timestamp = ts
	}
	return req, nil
}
