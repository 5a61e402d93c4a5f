package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"
	defaultOpenRouterModel   = "qwen/qwen-2.5-instruct"
	defaultOpenRouterTimeout = 60 * time.Second
)

var (
	upstreamDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "stoic",
		Subsystem: "upstream",
		Name:      "completion_duration_seconds",
		Help:      "Duration of upstream chat completion requests",
	}, []string{"model"})

	upstreamFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "stoic",
		Subsystem: "upstream",
		Name:      "completion_failures_total",
		Help:      "Number of failed upstream chat completion requests",
	}, []string{"model", "kind"})
)

var _ Completer = (*OpenRouterClient)(nil)

// OpenRouterConfig defines configuration options for the OpenRouter client.
type OpenRouterConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	AppURL  string
	AppName string
	Timeout time.Duration
	Logger  zerolog.Logger
}

// OpenRouterClient implements Completer against OpenRouter's OpenAI-compatible API.
type OpenRouterClient struct {
	client *openai.Client
	cfg    OpenRouterConfig
	tracer trace.Tracer
	logger zerolog.Logger
}

// NewOpenRouterClient builds a client. An empty API key is accepted so the
// service can start; every Complete call then returns ErrNotConfigured.
func NewOpenRouterClient(cfg OpenRouterConfig) *OpenRouterClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultOpenRouterBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = defaultOpenRouterModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultOpenRouterTimeout
	}

	headers := http.Header{}
	if cfg.AppURL != "" {
		headers.Set("HTTP-Referer", cfg.AppURL)
	}
	if cfg.AppName != "" {
		headers.Set("X-Title", cfg.AppName)
	}

	config := openai.DefaultConfig(cfg.APIKey)
	config.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	config.HTTPClient = &http.Client{
		Timeout:   cfg.Timeout,
		Transport: &headerTransport{base: http.DefaultTransport, headers: headers},
	}

	return &OpenRouterClient{
		client: openai.NewClientWithConfig(config),
		cfg:    cfg,
		tracer: otel.Tracer("github.com/tsidhwani/Stoic-Companion-AI/pkg/ai/openrouter"),
		logger: cfg.Logger.With().Str("component", "openrouter_client").Logger(),
	}
}

// DefaultModel returns the model used when a request does not name one.
func (c *OpenRouterClient) DefaultModel() string {
	return c.cfg.Model
}

// Complete sends one chat completion. Failures are never retried.
func (c *OpenRouterClient) Complete(parent context.Context, req CompletionRequest) (string, error) {
	if strings.TrimSpace(c.cfg.APIKey) == "" {
		return "", ErrNotConfigured
	}

	model := req.Model
	if model == "" {
		model = c.cfg.Model
	}

	ctx, span := c.tracer.Start(parent, "openrouter.complete", trace.WithAttributes(
		attribute.String("model", model),
		attribute.Float64("temperature", float64(req.Temperature)),
	))
	defer span.End()

	temperature := req.Temperature
	if temperature == 0 {
		// go-openai omits a zero temperature from the payload.
		temperature = math.SmallestNonzeroFloat32
	}

	request := openai.ChatCompletionRequest{
		Model:       model,
		Temperature: temperature,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: req.SystemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: req.UserPrompt,
			},
		},
	}

	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, request)
	upstreamDuration.WithLabelValues(model).Observe(time.Since(start).Seconds())
	if err != nil {
		return "", c.fail(span, model, classifyError(err))
	}

	if len(resp.Choices) == 0 {
		return "", c.fail(span, model, &UpstreamError{Kind: KindSchema, Err: errors.New("no choices returned")})
	}

	content := resp.Choices[0].Message.Content
	if content == "" {
		return "", c.fail(span, model, &UpstreamError{Kind: KindSchema, Err: errors.New("first choice has no message content")})
	}

	span.SetAttributes(attribute.Int("reply_length", len(content)))
	return strings.TrimSpace(content), nil
}

func (c *OpenRouterClient) fail(span trace.Span, model string, err *UpstreamError) error {
	upstreamFailures.WithLabelValues(model, string(err.Kind)).Inc()
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	c.logger.Error().Err(err).Str("model", model).Str("kind", string(err.Kind)).Int("status", err.StatusCode).Msg("upstream completion failed")
	return err
}

func classifyError(err error) *UpstreamError {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &UpstreamError{Kind: KindTransport, StatusCode: apiErr.HTTPStatusCode, Err: errors.New(apiErr.Message)}
	}

	var requestErr *openai.RequestError
	if errors.As(err, &requestErr) {
		cause := requestErr.Err
		if cause == nil {
			cause = errors.New(requestErr.HTTPStatus)
		}
		return &UpstreamError{Kind: KindTransport, StatusCode: requestErr.HTTPStatusCode, Err: cause}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return &UpstreamError{Kind: KindTransport, Err: urlErr}
	}

	// A 2xx response whose body does not decode as a completion.
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) || errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return &UpstreamError{Kind: KindSchema, Err: err}
	}

	return &UpstreamError{Kind: KindTransport, Err: fmt.Errorf("request failed: %w", err)}
}

// headerTransport adds the OpenRouter attribution headers to every request.
type headerTransport struct {
	base    http.RoundTripper
	headers http.Header
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	for key, values := range t.headers {
		clone.Header[key] = append([]string(nil), values...)
	}
	return t.base.RoundTrip(clone)
}
