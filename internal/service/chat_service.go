package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tsidhwani/Stoic-Companion-AI/internal/dto"
	"github.com/tsidhwani/Stoic-Companion-AI/internal/middleware"
	"github.com/tsidhwani/Stoic-Companion-AI/internal/stoic"
	"github.com/tsidhwani/Stoic-Companion-AI/pkg/ai"
)

const chatTemperature = 0.7

// ErrInvalidRequest wraps request validation failures.
var ErrInvalidRequest = errors.New("invalid request")

// ChatService relays a single chat turn to the upstream model.
type ChatService interface {
	Chat(ctx context.Context, req dto.ChatRequest) (dto.ChatResponse, error)
}

type chatService struct {
	completer    ai.Completer
	validator    *validator.Validate
	defaultModel string
	logger       zerolog.Logger
	tracer       trace.Tracer
}

// NewChatService creates a chat service backed by completer.
func NewChatService(completer ai.Completer, validate *validator.Validate, defaultModel string, logger zerolog.Logger) ChatService {
	return &chatService{
		completer:    completer,
		validator:    validate,
		defaultModel: defaultModel,
		logger:       logger.With().Str("component", "chat_service").Logger(),
		tracer:       otel.Tracer("github.com/tsidhwani/Stoic-Companion-AI/internal/service/chat"),
	}
}

func (s *chatService) Chat(ctx context.Context, req dto.ChatRequest) (dto.ChatResponse, error) {
	ctx, span := s.tracer.Start(ctx, "chat.reply")
	defer span.End()

	if err := s.validator.Struct(req); err != nil {
		span.SetStatus(codes.Error, "validation failed")
		return dto.ChatResponse{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	model := resolveModel(req.Model, s.defaultModel)
	span.SetAttributes(attribute.String("model", model), attribute.Bool("custom_persona", req.SystemPersona != ""))

	reply, err := s.completer.Complete(ctx, ai.CompletionRequest{
		Model:        model,
		SystemPrompt: stoic.BuildSystemPrompt(req.SystemPersona),
		UserPrompt:   req.Message,
		Temperature:  chatTemperature,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "completion failed")
		return dto.ChatResponse{}, fmt.Errorf("chat completion: %w", err)
	}

	s.logger.Debug().
		Str("correlation_id", middleware.CorrelationIDFromContext(ctx)).
		Str("model", model).
		Int("reply_length", len(reply)).
		Msg("chat reply relayed")

	return dto.ChatResponse{Reply: reply, Model: model}, nil
}

func resolveModel(requested, fallback string) string {
	if requested != "" {
		return requested
	}
	return fallback
}
