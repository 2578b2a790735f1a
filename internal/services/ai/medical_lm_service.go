// File: internal/services/ai/medical_lm_service.go
package ai

import (
	"context"
	"math/rand"
	"strings"
	"sync"
	"time"
)

// Streaming emulation constants for offline mode. The synthesized text is
// split into fixed-size fragments with a short delay between them so callers
// keep the suspension points their incremental rendering depends on.
const (
	mockStreamChunkRunes = 24
	mockStreamChunkDelay = 40 * time.Millisecond
)

// MedicalLMService is the domain-tuned clinical backend. Its profile favors
// determinism (low temperature). When constructed in mock mode, both
// operations route to the mock synthesizer instead of any live call; the
// public contract is identical between modes, so callers cannot tell offline
// from live except by content plausibility.
type MedicalLMService struct {
	models  ModelsClient
	profile Profile
	logger  Logger
	mock    bool

	mu  sync.Mutex
	rng *rand.Rand
}

// NewMedicalLMService builds the clinical backend. The mock switch is latched
// here, once, from process configuration; it never changes for the lifetime
// of the instance.
func NewMedicalLMService(models ModelsClient, mock bool, logger Logger) (*MedicalLMService, error) {
	if !mock && models == nil {
		return nil, NewConfigError("medical_lm backend requires a models client when not in mock mode")
	}
	profile, ok := ProfileFor(BackendMedicalLM)
	if !ok {
		return nil, NewConfigError("no generation profile registered for medical_lm")
	}
	return &MedicalLMService{
		models:  models,
		profile: profile,
		logger:  logger,
		mock:    mock,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}, nil
}

// newMedicalLMServiceWithRand is the test seam for seeded mock output.
func newMedicalLMServiceWithRand(models ModelsClient, mock bool, logger Logger, rng *rand.Rand) (*MedicalLMService, error) {
	s, err := NewMedicalLMService(models, mock, logger)
	if err != nil {
		return nil, err
	}
	s.rng = rng
	return s, nil
}

func (s *MedicalLMService) GenerateResponse(ctx context.Context, req Request) (string, error) {
	if s.mock {
		return s.mockResponse(req)
	}
	return liveGenerate(ctx, s.models, s.profile, s.logger, req)
}

func (s *MedicalLMService) GenerateStream(ctx context.Context, req Request, onDelta func(string) error) error {
	if s.mock {
		text, err := s.mockResponse(req)
		if err != nil {
			return err
		}
		return streamInChunks(ctx, text, onDelta)
	}
	return liveStream(ctx, s.models, s.profile, s.logger, req, onDelta)
}

// mockResponse synthesizes offline output. Role validation matches the live
// path so malformed input fails identically in both modes; mock paths never
// produce generation errors.
func (s *MedicalLMService) mockResponse(req Request) (string, error) {
	if _, err := ToContents(req.Turns); err != nil {
		return "", err
	}
	logOutboundPrompt(s.logger, s.profile, req)

	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case req.ResponseSchema != nil:
		return mockStructured(s.rng, req.ResponseSchema), nil
	case strings.Contains(strings.ToUpper(req.SystemInstruction), "SOAP"):
		return mockSOAPNarrative(s.rng), nil
	default:
		return mockGeneralText(s.rng), nil
	}
}

// streamInChunks emulates streaming by yielding fixed-size rune chunks with a
// fixed inter-fragment delay.
func streamInChunks(ctx context.Context, text string, onDelta func(string) error) error {
	runes := []rune(text)
	for start := 0; start < len(runes); start += mockStreamChunkRunes {
		end := start + mockStreamChunkRunes
		if end > len(runes) {
			end = len(runes)
		}
		if start > 0 {
			select {
			case <-time.After(mockStreamChunkDelay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		if err := onDelta(string(runes[start:end])); err != nil {
			return err
		}
	}
	return nil
}
