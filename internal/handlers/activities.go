// Package handlers contains the HTTP route handlers for the Mergington Activities API.
// This file handles the /activities routes: listing activities, signing students up,
// and removing signups.
//
// Each exported function follows the "handler factory" pattern: it takes its
// dependencies (the activity directory, the roster hub, a logger) and returns a
// fiber.Handler. Nothing is read from package-level state, so tests can build a fresh
// directory per case.
package handlers

import (
	"encoding/json"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/mergington/activities-api/internal/metrics"
	"github.com/mergington/activities-api/internal/middleware"
	"github.com/mergington/activities-api/internal/models"
	"github.com/mergington/activities-api/internal/stream"
)

// ActivityDirectory is the subset of *store.Directory the handlers need.
type ActivityDirectory interface {
	List() map[string]models.ActivityRecord
	Get(name string) (models.ActivityRecord, error)
	Signup(name, email string) ([]string, error)
	Unregister(name, email string) ([]string, error)
}

// RosterHub is the subset of *stream.Hub the handlers need: publishing roster changes
// and (for the stream endpoint) managing subscribers.
type RosterHub interface {
	Publish(activity string, data []byte)
	Register(client *stream.Client) error
	Unregister(client *stream.Client)
}

// ListActivities returns a handler for GET /activities.
// The body maps each activity name to its description, schedule, capacity, and roster.
func ListActivities(dir ActivityDirectory) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(dir.List())
	}
}

// GetActivity returns a handler for GET /activities/:name.
func GetActivity(dir ActivityDirectory) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rec, err := dir.Get(c.Params("name"))
		if err != nil {
			return writeDirectoryError(c, err)
		}
		return c.JSON(rec)
	}
}

// Signup returns a handler for POST /activities/:name/signup?email=...
// Must be mounted behind middleware.RequireEmail.
//   - 404 if the activity doesn't exist
//   - 400 if the student is already on the roster
//   - 200 with a confirmation message otherwise
func Signup(dir ActivityDirectory, hub RosterHub, log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		name := c.Params("name")
		email := middleware.Email(c)

		roster, err := dir.Signup(name, email)
		metrics.Signups.WithLabelValues(activityLabel(name, err), resultLabel(err)).Inc()
		if err != nil {
			log.Info("signup rejected",
				zap.String("activity", name),
				zap.String("email", email),
				zap.Error(err),
			)
			return writeDirectoryError(c, err)
		}

		metrics.SetParticipants(name, len(roster))
		publish(hub, log, models.RosterEvent{
			Type:         models.RosterEventSignup,
			Activity:     name,
			Email:        email,
			Participants: roster,
		})
		log.Info("student signed up", zap.String("activity", name), zap.String("email", email))

		return c.JSON(models.MessageResponse{
			Message: fmt.Sprintf("Signed up %s for %s", email, name),
		})
	}
}

// Unregister returns a handler for DELETE /activities/:name/unregister?email=...
// Must be mounted behind middleware.RequireEmail.
//   - 404 if the activity doesn't exist
//   - 400 if the student isn't on the roster
//   - 200 with a confirmation message otherwise
func Unregister(dir ActivityDirectory, hub RosterHub, log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		name := c.Params("name")
		email := middleware.Email(c)

		roster, err := dir.Unregister(name, email)
		metrics.Unregistrations.WithLabelValues(activityLabel(name, err), resultLabel(err)).Inc()
		if err != nil {
			log.Info("unregister rejected",
				zap.String("activity", name),
				zap.String("email", email),
				zap.Error(err),
			)
			return writeDirectoryError(c, err)
		}

		metrics.SetParticipants(name, len(roster))
		publish(hub, log, models.RosterEvent{
			Type:         models.RosterEventUnregister,
			Activity:     name,
			Email:        email,
			Participants: roster,
		})
		log.Info("student unregistered", zap.String("activity", name), zap.String("email", email))

		return c.JSON(models.MessageResponse{
			Message: fmt.Sprintf("Unregistered %s from %s", email, name),
		})
	}
}

// publish pushes a roster event to stream subscribers. A marshalling failure is logged
// and swallowed: the directory change already happened and the caller still gets 200.
func publish(hub RosterHub, log *zap.Logger, event models.RosterEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Error("encode roster event", zap.String("activity", event.Activity), zap.Error(err))
		return
	}
	hub.Publish(event.Activity, data)
}
