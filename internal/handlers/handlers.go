package handlers

import (
	"encoding/json"

	"github.com/gofiber/fiber/v3"
)

// Toast is the payload of the client-side "showToast" event.
type Toast struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Variant     string `json:"variant,omitempty"`
}

// htmxToast asks htmx to raise a single "showToast" event on the client once
// the response is swapped in.
func htmxToast(c fiber.Ctx, toast Toast) {
	payload, err := json.Marshal(map[string]Toast{"showToast": toast})
	if err != nil {
		return
	}
	c.Set("HX-Trigger", string(payload))
}
