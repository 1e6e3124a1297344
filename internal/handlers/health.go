package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mergington/activities-api/internal/models"
)

// HealthCheck handles GET /health.
// It answers without touching the directory, so load balancers and container
// probes can tell "the process is up" apart from anything else.
//
// Handlers in Fiber take a *fiber.Ctx, which wraps the request and response.
// c.JSON serializes the struct and sets Content-Type: application/json.
func HealthCheck(c *fiber.Ctx) error {
	return c.JSON(models.HealthResponse{Status: "ok"})
}
