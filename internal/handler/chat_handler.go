package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/tsidhwani/Stoic-Companion-AI/internal/dto"
	"github.com/tsidhwani/Stoic-Companion-AI/internal/service"
	"github.com/tsidhwani/Stoic-Companion-AI/internal/utils"
)

// ChatHandler serves the persona chat endpoint.
type ChatHandler struct {
	service service.ChatService
	logger  zerolog.Logger
}

// NewChatHandler creates a chat handler instance.
func NewChatHandler(service service.ChatService, logger zerolog.Logger) *ChatHandler {
	return &ChatHandler{
		service: service,
		logger:  logger.With().Str("component", "chat_handler").Logger(),
	}
}

// Register binds the chat route under the provided router.
func (h *ChatHandler) Register(router fiber.Router) {
	router.Post("/chat", h.chat)
}

func (h *ChatHandler) chat(c *fiber.Ctx) error {
	var payload dto.ChatRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, detailInvalidPayload)
	}

	response, err := h.service.Chat(c.UserContext(), payload)
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err)
	}

	return utils.SendJSON(c, fiber.StatusOK, response)
}
