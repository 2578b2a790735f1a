// File: internal/services/ai/factory.go
package ai

// Factory resolves a symbolic backend name to a concrete Service. The
// registry is closed: an unrecognized name is a backend error, never a
// silent fallback to a default.
type Factory struct {
	models  ModelsClient
	useMock bool
	logger  Logger
}

// NewFactory holds the shared live client and the mock switch the clinical
// backend latches at construction.
func NewFactory(models ModelsClient, useMock bool, logger Logger) *Factory {
	return &Factory{models: models, useMock: useMock, logger: logger}
}

// Resolve returns a ready Service for the given backend name, or a backend
// error with no partial service object.
func (f *Factory) Resolve(name string) (Service, error) {
	switch name {
	case BackendGemini:
		return NewGeminiService(f.models, f.logger)
	case BackendMedicalLM:
		return NewMedicalLMService(f.models, f.useMock, f.logger)
	default:
		return nil, NewBackendError(name)
	}
}
