// File: internal/services/ai/client.go
package ai

import (
	"context"
	"iter"

	"google.golang.org/genai"
)

// ModelsClient is the slice of the Gemini SDK the backends call. Holding it
// as an explicit dependency (instead of a process-wide client) lets tests
// substitute a stub without touching process state.
type ModelsClient interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
	GenerateContentStream(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) iter.Seq2[*genai.GenerateContentResponse, error]
}

// ClientConfig selects how the live SDK client authenticates: a Vertex
// project/location pair, or a plain Gemini API key.
type ClientConfig struct {
	Project  string
	Location string
	APIKey   string
}

// NewModelsClient builds the one long-lived SDK client shared by the live
// backends.
func NewModelsClient(ctx context.Context, cfg ClientConfig) (ModelsClient, error) {
	clientCfg := &genai.ClientConfig{}
	if cfg.Project != "" {
		clientCfg.Backend = genai.BackendVertexAI
		clientCfg.Project = cfg.Project
		clientCfg.Location = cfg.Location
	} else {
		clientCfg.Backend = genai.BackendGeminiAPI
		clientCfg.APIKey = cfg.APIKey
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, NewGenerationError("client", "failed to create genai client", err)
	}
	return client.Models, nil
}
