package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/tsidhwani/Stoic-Companion-AI/internal/middleware"
	"github.com/tsidhwani/Stoic-Companion-AI/internal/service"
	"github.com/tsidhwani/Stoic-Companion-AI/internal/utils"
	"github.com/tsidhwani/Stoic-Companion-AI/pkg/ai"
)

const (
	detailInvalidPayload = "invalid payload"
	detailSchema         = "Unexpected response schema from OpenRouter"
	detailInternal       = "internal server error"
)

func requestLogger(base zerolog.Logger, c *fiber.Ctx) *zerolog.Logger {
	logger := base
	if c != nil {
		if correlation := middleware.GetCorrelationID(c); correlation != "" {
			logger = base.With().Str("correlation_id", correlation).Logger()
		}
	}
	return &logger
}

// sendServiceError maps service and upstream failures onto status codes.
func sendServiceError(c *fiber.Ctx, logger *zerolog.Logger, err error) error {
	var upstreamErr *ai.UpstreamError

	switch {
	case errors.Is(err, service.ErrInvalidRequest):
		return utils.SendError(c, fiber.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, ai.ErrNotConfigured):
		logger.Error().Err(err).Msg("upstream credential missing")
		return utils.SendError(c, fiber.StatusInternalServerError, ai.ErrNotConfigured.Error())
	case errors.As(err, &upstreamErr) && upstreamErr.Kind == ai.KindTransport:
		return utils.SendError(c, fiber.StatusBadGateway, "Upstream error: "+upstreamErr.Error())
	case errors.As(err, &upstreamErr) && upstreamErr.Kind == ai.KindSchema:
		return utils.SendError(c, fiber.StatusInternalServerError, detailSchema)
	default:
		logger.Error().Err(err).Msg("request failed")
		return utils.SendError(c, fiber.StatusInternalServerError, detailInternal)
	}
}

// ErrorHandler renders errors that escape handlers, such as unknown routes, as {"detail": ...}.
func ErrorHandler(logger zerolog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return utils.SendError(c, fiberErr.Code, fiberErr.Message)
		}

		requestLogger(logger, c).Error().Err(err).Str("path", c.Path()).Msg("unhandled error")
		return utils.SendError(c, fiber.StatusInternalServerError, detailInternal)
	}
}
