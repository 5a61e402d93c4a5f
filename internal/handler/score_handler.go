package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/tsidhwani/Stoic-Companion-AI/internal/dto"
	"github.com/tsidhwani/Stoic-Companion-AI/internal/service"
	"github.com/tsidhwani/Stoic-Companion-AI/internal/utils"
)

// ScoreHandler serves the Stoic scoring endpoint.
type ScoreHandler struct {
	service service.ScoreService
	logger  zerolog.Logger
}

// NewScoreHandler creates a score handler instance.
func NewScoreHandler(service service.ScoreService, logger zerolog.Logger) *ScoreHandler {
	return &ScoreHandler{
		service: service,
		logger:  logger.With().Str("component", "score_handler").Logger(),
	}
}

// Register binds the score route under the provided router.
func (h *ScoreHandler) Register(router fiber.Router) {
	router.Post("/score", h.score)
}

func (h *ScoreHandler) score(c *fiber.Ctx) error {
	var payload dto.ScoreRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, detailInvalidPayload)
	}

	response, err := h.service.Score(c.UserContext(), payload)
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err)
	}

	return utils.SendJSON(c, fiber.StatusOK, response)
}
