// File: internal/services/ai/gemini_service.go
package ai

import (
	"context"
	"strings"

	"google.golang.org/genai"
)

// GeminiService is the general-purpose conversational backend: a thin
// pass-through to the live model with the conversational tuning profile.
// It has no offline mode.
type GeminiService struct {
	models  ModelsClient
	profile Profile
	logger  Logger
}

func NewGeminiService(models ModelsClient, logger Logger) (*GeminiService, error) {
	if models == nil {
		return nil, NewConfigError("gemini backend requires a models client")
	}
	profile, ok := ProfileFor(BackendGemini)
	if !ok {
		return nil, NewConfigError("no generation profile registered for gemini")
	}
	return &GeminiService{models: models, profile: profile, logger: logger}, nil
}

func (s *GeminiService) GenerateResponse(ctx context.Context, req Request) (string, error) {
	return liveGenerate(ctx, s.models, s.profile, s.logger, req)
}

func (s *GeminiService) GenerateStream(ctx context.Context, req Request, onDelta func(string) error) error {
	return liveStream(ctx, s.models, s.profile, s.logger, req, onDelta)
}

// liveGenerate runs one whole-result generation call against the live model.
// Shared by both backend variants; the profile is the only difference.
func liveGenerate(ctx context.Context, models ModelsClient, profile Profile, logger Logger, req Request) (string, error) {
	contents, err := ToContents(req.Turns)
	if err != nil {
		return "", err
	}
	cfg := BuildGenerateConfig(profile, req.SystemInstruction, req.ResponseMIMEType, req.ResponseSchema)
	logOutboundPrompt(logger, profile, req)

	resp, err := models.GenerateContent(ctx, profile.Model, contents, cfg)
	if err != nil {
		return "", NewGenerationError("generate", "model call failed", err)
	}
	text := visibleText(resp)
	if text == "" {
		return "", NewGenerationError("generate", "empty model response", nil)
	}
	return text, nil
}

// liveStream runs one streaming generation call. Whitespace-only chunks are
// skipped; a mid-stream failure leaves the delivered prefix intact and is
// returned after the last delivered fragment.
func liveStream(ctx context.Context, models ModelsClient, profile Profile, logger Logger, req Request, onDelta func(string) error) error {
	contents, err := ToContents(req.Turns)
	if err != nil {
		return err
	}
	cfg := BuildGenerateConfig(profile, req.SystemInstruction, req.ResponseMIMEType, req.ResponseSchema)
	logOutboundPrompt(logger, profile, req)

	for resp, err := range models.GenerateContentStream(ctx, profile.Model, contents, cfg) {
		if err != nil {
			return NewGenerationError("stream", "stream receive error", err)
		}
		chunk := visibleText(resp)
		if strings.TrimSpace(chunk) == "" {
			continue
		}
		if cbErr := onDelta(chunk); cbErr != nil {
			// Caller aborted; propagate its error verbatim.
			return cbErr
		}
	}
	return nil
}

// logOutboundPrompt records the resolved system instruction and the outbound
// prompt payload for traceability. No effect on generation output.
func logOutboundPrompt(logger Logger, profile Profile, req Request) {
	if logger == nil {
		return
	}
	logger.Info("dispatching generation request",
		"backend", profile.Name,
		"model", profile.Model,
		"system_instruction", req.SystemInstruction,
		"turns", len(req.Turns),
		"structured", req.ResponseSchema != nil,
	)
	for i, turn := range req.Turns {
		logger.Debug("prompt turn", "index", i, "role", string(turn.Role), "text", turn.Text)
	}
}

// visibleText concatenates the text parts of the first candidate, skipping
// thought parts.
func visibleText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0] == nil || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part == nil || part.Thought || part.Text == "" {
			continue
		}
		sb.WriteString(part.Text)
	}
	return sb.String()
}
