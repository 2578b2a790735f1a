// File: internal/services/ai/errors.go
package ai

import "fmt"

type ErrorType string

const (
	ErrTypeRole       ErrorType = "ROLE"
	ErrTypeBackend    ErrorType = "BACKEND"
	ErrTypeGeneration ErrorType = "GENERATION"
	ErrTypeSchema     ErrorType = "SCHEMA"
	ErrTypeConfig     ErrorType = "CONFIG"
)

// AIError is the typed error surface of the generation layer. Callers
// discriminate on Type with errors.As; Cause carries the upstream failure.
type AIError struct {
	Type      ErrorType
	Message   string
	Operation string
	Cause     error
}

func (e *AIError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("AI %s error in %s: %s (caused by: %v)",
			e.Type, e.Operation, e.Message, e.Cause)
	}
	return fmt.Sprintf("AI %s error in %s: %s", e.Type, e.Operation, e.Message)
}

func (e *AIError) Unwrap() error { return e.Cause }

// NewRoleError reports a chat turn whose role is outside {user, assistant}.
// This is a caller bug and is never retried.
func NewRoleError(role string) *AIError {
	return &AIError{
		Type:      ErrTypeRole,
		Operation: "adapt",
		Message:   fmt.Sprintf("unknown chat turn role %q", role),
	}
}

// NewBackendError reports an unrecognized backend name given to the factory.
func NewBackendError(name string) *AIError {
	return &AIError{
		Type:      ErrTypeBackend,
		Operation: "resolve",
		Message:   fmt.Sprintf("unsupported AI backend %q", name),
	}
}

// NewGenerationError reports an upstream model, network or quota failure. It
// propagates verbatim to the HTTP-facing caller; no retry happens here.
func NewGenerationError(operation, msg string, cause error) *AIError {
	return &AIError{Type: ErrTypeGeneration, Operation: operation, Message: msg, Cause: cause}
}

// NewSchemaError reports model output that does not parse as the requested
// schema. Only the extraction consumer sees this; it degrades to a skipped
// merge rather than failing the enclosing request.
func NewSchemaError(operation, msg string, cause error) *AIError {
	return &AIError{Type: ErrTypeSchema, Operation: operation, Message: msg, Cause: cause}
}

func NewConfigError(msg string) *AIError {
	return &AIError{Type: ErrTypeConfig, Operation: "config", Message: msg}
}

// IsType reports whether err is an *AIError of the given type.
func IsType(err error, t ErrorType) bool {
	aiErr, ok := err.(*AIError)
	if !ok {
		return false
	}
	return aiErr.Type == t
}
