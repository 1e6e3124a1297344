// Package middleware contains Fiber middleware for the Mergington Activities API.
// Middleware sits between the HTTP server and route handlers, making it the right place
// for cross-cutting concerns: validating shared inputs, logging, and metrics.
package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/mergington/activities-api/internal/models"
)

// EmailKey is the c.Locals key holding the validated student email.
const EmailKey = "email"

// RequireEmail returns a middleware that rejects requests without an ?email= query
// parameter with 422 Unprocessable Entity. On success the email is stored in c.Locals
// under EmailKey so handlers don't re-read and re-check the query string.
//
// The email is taken verbatim: whatever the student typed is what ends up on the roster.
func RequireEmail() fiber.Handler {
	return func(c *fiber.Ctx) error {
		email := c.Query("email")
		if strings.TrimSpace(email) == "" {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(models.ErrorResponse{
				Detail: "email query parameter is required",
			})
		}

		c.Locals(EmailKey, email)
		return c.Next()
	}
}

// Email returns the address stored by RequireEmail, or "" if the middleware didn't run.
func Email(c *fiber.Ctx) string {
	email, _ := c.Locals(EmailKey).(string)
	return email
}
