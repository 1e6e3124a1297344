package handlers

import (
	"bufio"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/mergington/activities-api/internal/models"
	"github.com/mergington/activities-api/internal/stream"
)

// StreamRoster returns a handler for GET /activities/:name/stream.
// It answers with a server-sent event stream: first a "snapshot" event carrying the
// current roster, then one event per signup or unregister until the client leaves or
// the server shuts down.
//
// Between events the writer sends an SSE comment every heartbeat. A write to a closed
// connection fails, which is the only way a quiet stream notices its client has left.
func StreamRoster(dir ActivityDirectory, hub RosterHub, heartbeat time.Duration, log *zap.Logger) fiber.Handler {
	if heartbeat <= 0 {
		heartbeat = DefaultStreamHeartbeat
	}
	return func(c *fiber.Ctx) error {
		name := c.Params("name")

		// Subscribe before reading the roster so no change can slip in between.
		// A change that lands in both the snapshot and the stream is harmless.
		client := stream.NewClient(name)
		if err := hub.Register(client); err != nil {
			return fiber.NewError(fiber.StatusServiceUnavailable, "roster stream unavailable")
		}

		rec, err := dir.Get(name)
		if err != nil {
			hub.Unregister(client)
			return writeDirectoryError(c, err)
		}

		snapshot, err := json.Marshal(models.RosterEvent{
			Type:         models.RosterEventSnapshot,
			Activity:     name,
			Participants: rec.Participants,
		})
		if err != nil {
			hub.Unregister(client)
			return err
		}

		c.Set(fiber.HeaderContentType, "text/event-stream")
		c.Set(fiber.HeaderCacheControl, "no-cache")
		c.Set(fiber.HeaderConnection, "keep-alive")

		log.Debug("roster stream opened", zap.String("activity", name), zap.String("client_id", client.ID))

		// The writer runs after this handler returns, on fasthttp's connection goroutine.
		c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
			defer hub.Unregister(client)

			if err := writeEvent(w, snapshot); err != nil {
				return
			}

			ticker := time.NewTicker(heartbeat)
			defer ticker.Stop()

			for {
				var err error
				select {
				case msg, ok := <-client.Send:
					if !ok {
						// The hub dropped us (slow reader or shutdown).
						return
					}
					err = writeEvent(w, msg)
				case <-ticker.C:
					err = writeHeartbeat(w)
				}
				if err != nil {
					log.Debug("roster stream closed",
						zap.String("activity", name),
						zap.String("client_id", client.ID),
						zap.Error(err),
					)
					return
				}
			}
		})
		return nil
	}
}

// writeEvent writes one SSE "data:" frame and flushes it to the client.
func writeEvent(w *bufio.Writer, data []byte) error {
	if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
		return err
	}
	return w.Flush()
}

// writeHeartbeat writes an SSE comment line. EventSource ignores it.
func writeHeartbeat(w *bufio.Writer) error {
	if _, err := w.WriteString(": ping\n\n"); err != nil {
		return err
	}
	return w.Flush()
}
