package handlers

import (
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/mergington/activities-api/internal/middleware"
)

// DefaultStreamHeartbeat is used when AppConfig.StreamHeartbeat is zero.
const DefaultStreamHeartbeat = 15 * time.Second

// AppConfig holds the HTTP-layer settings taken from config.Config.
type AppConfig struct {
	StaticDir       string        // Served under /static when the directory exists
	CORSOrigins     string        // Passed to the cors middleware
	StreamHeartbeat time.Duration // Idle interval between keep-alive frames on roster streams
}

// NewApp builds the Fiber app with every route and middleware registered.
// main and the handler tests share it, so tests exercise the real routing table.
func NewApp(cfg AppConfig, dir ActivityDirectory, hub RosterHub, log *zap.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName: "Mergington Activities API",
		// Params and query values outlive the request (they end up on rosters and in
		// metric labels), so Fiber must hand out copies rather than reused buffers.
		Immutable: true,
		// Activity names contain spaces: /activities/Chess%20Club/signup → "Chess Club".
		UnescapePath: true,
		ErrorHandler: ErrorHandler(log),
	})

	// --- Global middleware ---
	app.Use(middleware.RequestID())
	app.Use(middleware.RequestLogger(log))
	app.Use(middleware.Metrics())
	origins := cfg.CORSOrigins
	if origins == "" {
		origins = "*"
	}
	app.Use(cors.New(cors.Config{AllowOrigins: origins}))

	// --- Front-end and operational routes ---
	app.Get("/", func(c *fiber.Ctx) error {
		return c.Redirect("/static/index.html", fiber.StatusTemporaryRedirect)
	})
	if info, err := os.Stat(cfg.StaticDir); err == nil && info.IsDir() {
		app.Static("/static", cfg.StaticDir)
	}
	app.Get("/health", HealthCheck)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// --- Activity routes ---
	// GET    /activities                          every activity with its roster
	// GET    /activities/:name                    one activity
	// GET    /activities/:name/stream             server-sent roster updates
	// POST   /activities/:name/signup?email=      add a student
	// DELETE /activities/:name/unregister?email=  remove a student
	app.Get("/activities", ListActivities(dir))
	app.Get("/activities/:name", GetActivity(dir))
	app.Get("/activities/:name/stream", StreamRoster(dir, hub, cfg.StreamHeartbeat, log))
	app.Post("/activities/:name/signup", middleware.RequireEmail(), Signup(dir, hub, log))
	app.Delete("/activities/:name/unregister", middleware.RequireEmail(), Unregister(dir, hub, log))

	return app
}
