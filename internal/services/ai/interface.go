// File: internal/services/ai/interface.go
package ai

import (
	"context"

	"google.golang.org/genai"

	"github.com/vikihealth/viki-backend/internal/domain"
)

// Request is the per-call generation request. It is constructed fresh for
// every call, never mutated afterwards, and never persisted.
type Request struct {
	Turns             []domain.ChatTurn
	SystemInstruction string
	ResponseMIMEType  string
	ResponseSchema    *genai.Schema
}

// Service is the capability every generation backend satisfies.
//
// GenerateResponse blocks until the full answer is available and returns a
// generation error on any upstream failure; the caller turns that into the
// user-facing error response.
//
// GenerateStream delivers the answer as ordered text fragments through
// onDelta. Blank fragments from the model are skipped. If generation fails
// mid-stream the fragments already delivered stand; the failure is the
// returned error. Streams are finite, forward-only and not restartable.
type Service interface {
	GenerateResponse(ctx context.Context, req Request) (string, error)
	GenerateStream(ctx context.Context, req Request, onDelta func(string) error) error
}

// Logger is the logging dependency of the generation backends.
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}
