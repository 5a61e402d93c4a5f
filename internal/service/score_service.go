package service

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tsidhwani/Stoic-Companion-AI/internal/dto"
	"github.com/tsidhwani/Stoic-Companion-AI/internal/middleware"
	"github.com/tsidhwani/Stoic-Companion-AI/internal/observability"
	"github.com/tsidhwani/Stoic-Companion-AI/internal/stoic"
	"github.com/tsidhwani/Stoic-Companion-AI/pkg/ai"
)

const scoreTemperature = 0.0

// ScoreService classifies a proposed response against the Stoic rubric.
type ScoreService interface {
	Score(ctx context.Context, req dto.ScoreRequest) (dto.ScoreResponse, error)
}

type scoreService struct {
	completer    ai.Completer
	validator    *validator.Validate
	defaultModel string
	logger       zerolog.Logger
	tracer       trace.Tracer
}

// NewScoreService creates a scoring service backed by completer.
func NewScoreService(completer ai.Completer, validate *validator.Validate, defaultModel string, logger zerolog.Logger) ScoreService {
	return &scoreService{
		completer:    completer,
		validator:    validate,
		defaultModel: defaultModel,
		logger:       logger.With().Str("component", "score_service").Logger(),
		tracer:       otel.Tracer("github.com/tsidhwani/Stoic-Companion-AI/internal/service/score"),
	}
}

func (s *scoreService) Score(ctx context.Context, req dto.ScoreRequest) (dto.ScoreResponse, error) {
	ctx, span := s.tracer.Start(ctx, "score.classify")
	defer span.End()

	if err := s.validator.Struct(req); err != nil {
		span.SetStatus(codes.Error, "validation failed")
		return dto.ScoreResponse{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	model := resolveModel(req.Model, s.defaultModel)
	span.SetAttributes(attribute.String("model", model))

	raw, err := s.completer.Complete(ctx, ai.CompletionRequest{
		Model:        model,
		SystemPrompt: stoic.EvaluatorPersona,
		UserPrompt:   stoic.BuildScoringPrompt(req.Problem, req.ProposedResponse),
		Temperature:  scoreTemperature,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "completion failed")
		return dto.ScoreResponse{}, fmt.Errorf("score completion: %w", err)
	}

	classification, stage := stoic.InterpretWithStage(raw)
	observability.Interpretations().WithLabelValues(string(stage), string(classification.Medal)).Inc()
	span.SetAttributes(
		attribute.String("stage", string(stage)),
		attribute.String("medal", string(classification.Medal)),
	)

	if stage == stoic.StageHeuristic {
		s.logger.Warn().
			Str("correlation_id", middleware.CorrelationIDFromContext(ctx)).
			Str("model", model).
			Int("reply_length", len(raw)).
			Str("medal", string(classification.Medal)).
			Msg("model reply was not a structured classification, used keyword fallback")
	}

	return dto.ScoreResponse{Classification: classification, Model: model}, nil
}
