package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tsidhwani/Stoic-Companion-AI/internal/config"
	"github.com/tsidhwani/Stoic-Companion-AI/internal/handler"
	"github.com/tsidhwani/Stoic-Companion-AI/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	ChatHandler  *handler.ChatHandler
	ScoreHandler *handler.ScoreHandler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})

	api.Get("/health", handler.HealthCheck(cfg))
	api.Get("/metrics", observability.MetricsHandler())

	if deps.ChatHandler != nil {
		deps.ChatHandler.Register(api)
	}

	if deps.ScoreHandler != nil {
		deps.ScoreHandler.Register(api)
	}
}
