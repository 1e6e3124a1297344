// cmd/server/main.go
// This is the entry point for the Mergington Activities API server.
// In Go, the "main" package and its "main()" function is where the program starts executing.
// The cmd/ folder holds executable binaries, while internal/ holds packages that other
// modules are not allowed to import.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	// zap is a structured, leveled logger. Fields are typed (zap.String, zap.Error)
	// so log lines stay machine-parseable in production.
	"go.uber.org/zap"

	// Internal packages: our own code, imported by module path
	"github.com/mergington/activities-api/internal/config"
	"github.com/mergington/activities-api/internal/handlers"
	"github.com/mergington/activities-api/internal/logger"
	"github.com/mergington/activities-api/internal/metrics"
	"github.com/mergington/activities-api/internal/models"
	"github.com/mergington/activities-api/internal/store"
	"github.com/mergington/activities-api/internal/stream"
)

func main() {
	// Load configuration from environment variables (and optionally a .env file).
	// cfg is a pointer (*Config) containing all runtime settings like port and log level.
	cfg := config.Load()

	// Build the structured logger. Until it exists we fall back to the standard
	// library's log package, which is why log.Fatal appears here and nowhere else.
	zl, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatal("Failed to build logger:", err)
	}
	// Sync flushes any buffered log entries. defer runs it when main returns.
	defer func() { _ = zl.Sync() }()

	// The directory is the in-memory source of truth for every activity and roster.
	// It lives for the whole process; restarting the server resets it to the seed.
	dir, err := newDirectory(cfg)
	if err != nil {
		zl.Fatal("failed to load activities", zap.Error(err))
	}
	// Prime the participants gauge so /metrics shows every activity from the first scrape,
	// not only the ones that have changed since startup.
	for name, rec := range dir.List() {
		metrics.SetParticipants(name, len(rec.Participants))
	}
	zl.Info("activities loaded", zap.Strings("activities", dir.Names()))

	// Create the roster stream Hub and start it in a goroutine.
	// "go hub.Run(ctx)" runs the Hub's event loop in the background without blocking
	// startup. Cancelling ctx stops the loop and closes every open stream.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	hub := stream.NewHub()
	go hub.Run(ctx)

	// NewApp registers every route and middleware. The same constructor is used by the
	// handler tests, so what they exercise is exactly what runs here.
	app := handlers.NewApp(handlers.AppConfig{
		StaticDir:       cfg.StaticDir,
		CORSOrigins:     cfg.CORSOrigins,
		StreamHeartbeat: cfg.StreamHeartbeat,
	}, dir, hub, zl)

	// signal.Notify forwards SIGINT (Ctrl+C) and SIGTERM (sent by container runtimes on stop)
	// into shutdownCh instead of killing the process immediately.
	// The channel is buffered so a signal arriving before we start waiting isn't lost.
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	// app.Listen blocks until the server stops, so it gets its own goroutine and main
	// is free to wait for a shutdown signal below.
	go func() {
		zl.Info("starting server", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
		if err := app.Listen(":" + cfg.Port); err != nil {
			zl.Fatal("server error", zap.Error(err))
		}
	}()

	// Receiving from a channel blocks until a value arrives: here, until a signal.
	<-shutdownCh
	zl.Info("shutting down")

	// Stop the hub first. Open roster streams are long-lived responses, and Fiber's
	// graceful shutdown waits for them; closing their Send channels lets them finish.
	cancel()
	if err := app.ShutdownWithTimeout(cfg.ShutdownTimeout); err != nil {
		zl.Error("graceful shutdown failed", zap.Error(err))
	}
}

// newDirectory builds the activity directory from SEED_FILE when set, otherwise from
// the built-in catalog.
func newDirectory(cfg *config.Config) (*store.Directory, error) {
	if cfg.SeedFile == "" {
		return store.NewSeeded(), nil
	}
	catalog, err := models.LoadSeedFile(cfg.SeedFile)
	if err != nil {
		return nil, err
	}
	return store.New(catalog)
}
