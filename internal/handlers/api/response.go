package api

import (
	"github.com/gofiber/fiber/v3"

	"outreach/internal/models"
)

// jsonError returns a {message, error} body with the given HTTP status code.
func jsonError(c fiber.Ctx, status int, message string, err error) error {
	detail := "Unknown error"
	if err != nil {
		detail = err.Error()
	}
	return c.Status(status).JSON(models.ErrorResponse{
		Message: message,
		Error:   detail,
	})
}
