package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"go.uber.org/zap"

	"github.com/mergington/activities-api/internal/metrics"
	"github.com/mergington/activities-api/internal/models"
	"github.com/mergington/activities-api/internal/store"
)

// Client-facing error details. Clients match on these strings, so keep them stable.
const (
	detailActivityNotFound = "Activity not found"
	detailAlreadySignedUp  = "Student is already signed up for this activity"
	detailNotSignedUp      = "Student is not signed up for this activity"
)

// ErrorHandler renders any error that escapes a handler as {"detail": "..."}, the same
// shape the activity endpoints use for their own failures.
func ErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		detail := utils.StatusMessage(code)

		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
			detail = fe.Message
			// Fiber's routing errors embed the raw method and path; keep the body generic.
			if code == fiber.StatusNotFound || code == fiber.StatusMethodNotAllowed {
				detail = utils.StatusMessage(code)
			}
		} else {
			log.Error("unhandled error", zap.String("path", c.Path()), zap.Error(err))
		}

		return c.Status(code).JSON(models.ErrorResponse{Detail: detail})
	}
}

// writeDirectoryError maps directory errors to HTTP responses:
//   - ErrActivityNotFound → 404
//   - ErrAlreadySignedUp / ErrNotSignedUp → 400
//
// Anything else is handed back to Fiber, which routes it through ErrorHandler as a 500.
func writeDirectoryError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, store.ErrActivityNotFound):
		return c.Status(fiber.StatusNotFound).JSON(models.ErrorResponse{Detail: detailActivityNotFound})
	case errors.Is(err, store.ErrAlreadySignedUp):
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{Detail: detailAlreadySignedUp})
	case errors.Is(err, store.ErrNotSignedUp):
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{Detail: detailNotSignedUp})
	default:
		return err
	}
}

// resultLabel classifies a directory error for the signup/unregister counters.
func resultLabel(err error) string {
	switch {
	case err == nil:
		return metrics.ResultOK
	case errors.Is(err, store.ErrActivityNotFound):
		return metrics.ResultNotFound
	case errors.Is(err, store.ErrAlreadySignedUp), errors.Is(err, store.ErrNotSignedUp):
		return metrics.ResultConflict
	default:
		return metrics.ResultError
	}
}

// activityLabel keeps unknown names out of metric labels, so a client probing random
// activity names can't grow the series count without bound.
func activityLabel(name string, err error) string {
	if errors.Is(err, store.ErrActivityNotFound) {
		return "unknown"
	}
	return name
}
