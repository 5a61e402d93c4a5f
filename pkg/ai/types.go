package ai

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotConfigured is returned when no upstream credential is available.
// No network call is attempted in that case.
var ErrNotConfigured = errors.New("OPENROUTER_API_KEY not configured")

// ErrorKind classifies upstream failures.
type ErrorKind string

const (
	// KindTransport covers network failures, timeouts and non-2xx responses.
	KindTransport ErrorKind = "transport"
	// KindSchema means the upstream answered but not with the expected completion shape.
	KindSchema ErrorKind = "schema"
)

// UpstreamError describes a failed completion call.
type UpstreamError struct {
	Kind       ErrorKind
	StatusCode int
	Err        error
}

func (e *UpstreamError) Error() string {
	switch {
	case e.Kind == KindSchema:
		return fmt.Sprintf("unexpected response schema: %v", e.Err)
	case e.StatusCode > 0:
		return fmt.Sprintf("status %d: %v", e.StatusCode, e.Err)
	default:
		return e.Err.Error()
	}
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// IsTransport reports whether err is an upstream transport failure.
func IsTransport(err error) bool {
	var upstreamErr *UpstreamError
	return errors.As(err, &upstreamErr) && upstreamErr.Kind == KindTransport
}

// IsSchema reports whether err is an unexpected upstream response shape.
func IsSchema(err error) bool {
	var upstreamErr *UpstreamError
	return errors.As(err, &upstreamErr) && upstreamErr.Kind == KindSchema
}

// CompletionRequest is a single system+user exchange sent upstream.
type CompletionRequest struct {
	Model        string
	SystemPrompt string
	UserPrompt   string
	Temperature  float32
}

// Completer sends one chat completion and returns the trimmed reply text.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}
