package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/tsidhwani/Stoic-Companion-AI/internal/config"
	"github.com/tsidhwani/Stoic-Companion-AI/internal/utils"
)

// HealthResponse represents the payload returned by the health endpoint.
type HealthResponse struct {
	Status      string    `json:"status"`
	Service     string    `json:"service,omitempty"`
	Environment string    `json:"environment,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// HealthCheck reports liveness. It has no dependencies and always answers 200.
func HealthCheck(cfg config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return utils.SendJSON(c, fiber.StatusOK, HealthResponse{
			Status:      "ok",
			Service:     cfg.AppName,
			Environment: cfg.AppEnv,
			Timestamp:   time.Now().UTC(),
		})
	}
}
