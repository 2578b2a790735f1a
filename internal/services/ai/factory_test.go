// File: internal/services/ai/factory_test.go
package ai

import "testing"

func TestFactoryResolvesRegisteredBackends(t *testing.T) {
	f := NewFactory(&stubModels{}, false, nil)

	for _, name := range []string{BackendGemini, BackendMedicalLM} {
		service, err := f.Resolve(name)
		if err != nil {
			t.Errorf("Resolve(%q) returned error: %v", name, err)
		}
		if service == nil {
			t.Errorf("Resolve(%q) returned nil service", name)
		}
	}
}

func TestFactoryRejectsUnknownBackend(t *testing.T) {
	f := NewFactory(&stubModels{}, false, nil)

	service, err := f.Resolve("gpt4")
	if !IsType(err, ErrTypeBackend) {
		t.Fatalf("expected BACKEND error, got %v", err)
	}
	if service != nil {
		t.Fatal("expected nil service for unknown backend")
	}
}

func TestFactoryMockModeNeedsNoClient(t *testing.T) {
	f := NewFactory(nil, true, nil)

	if _, err := f.Resolve(BackendMedicalLM); err != nil {
		t.Fatalf("mock clinical backend must resolve without a client: %v", err)
	}
	// The general backend has no offline mode and still requires the client.
	if _, err := f.Resolve(BackendGemini); !IsType(err, ErrTypeConfig) {
		t.Fatalf("expected CONFIG error for gemini without client, got %v", err)
	}
}
