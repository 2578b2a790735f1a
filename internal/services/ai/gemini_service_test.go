// File: internal/services/ai/gemini_service_test.go
package ai

import (
	"context"
	"errors"
	"iter"
	"strings"
	"testing"

	"google.golang.org/genai"

	"github.com/vikihealth/viki-backend/internal/domain"
)

// stubModels satisfies ModelsClient with canned responses.
type stubModels struct {
	resp      *genai.GenerateContentResponse
	err       error
	stream    []*genai.GenerateContentResponse
	streamErr error

	lastModel  string
	lastConfig *genai.GenerateContentConfig
}

func (s *stubModels) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	s.lastModel = model
	s.lastConfig = config
	return s.resp, s.err
}

func (s *stubModels) GenerateContentStream(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) iter.Seq2[*genai.GenerateContentResponse, error] {
	s.lastModel = model
	s.lastConfig = config
	return func(yield func(*genai.GenerateContentResponse, error) bool) {
		for _, r := range s.stream {
			if !yield(r, nil) {
				return
			}
		}
		if s.streamErr != nil {
			yield(nil, s.streamErr)
		}
	}
}

func textResponse(parts ...*genai.Part) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: parts}},
		},
	}
}

func userTurns(text string) []domain.ChatTurn {
	return []domain.ChatTurn{{Role: domain.RoleUser, Text: text}}
}

func TestNewGeminiServiceRequiresClient(t *testing.T) {
	if _, err := NewGeminiService(nil, nil); !IsType(err, ErrTypeConfig) {
		t.Fatalf("expected CONFIG error, got %v", err)
	}
}

func TestGeminiGenerateResponse(t *testing.T) {
	stub := &stubModels{resp: textResponse(
		&genai.Part{Text: "Hello, "},
		&genai.Part{Text: "patient."},
	)}
	s, err := NewGeminiService(stub, nil)
	if err != nil {
		t.Fatalf("constructing service: %v", err)
	}

	reply, err := s.GenerateResponse(context.Background(), Request{Turns: userTurns("hi")})
	if err != nil {
		t.Fatalf("GenerateResponse returned error: %v", err)
	}
	if reply != "Hello, patient." {
		t.Errorf("reply = %q", reply)
	}
	if stub.lastModel != "gemini-2.0-flash-001" {
		t.Errorf("model = %q", stub.lastModel)
	}
	if stub.lastConfig == nil || *stub.lastConfig.Temperature != 1.0 {
		t.Error("conversational tuning profile not applied")
	}
}

func TestGeminiGenerateResponseSkipsThoughtParts(t *testing.T) {
	stub := &stubModels{resp: textResponse(
		&genai.Part{Text: "internal reasoning", Thought: true},
		&genai.Part{Text: "visible answer"},
	)}
	s, _ := NewGeminiService(stub, nil)

	reply, err := s.GenerateResponse(context.Background(), Request{Turns: userTurns("hi")})
	if err != nil {
		t.Fatalf("GenerateResponse returned error: %v", err)
	}
	if reply != "visible answer" {
		t.Errorf("reply = %q, thought parts must be skipped", reply)
	}
}

func TestGeminiGenerateResponseUpstreamFailure(t *testing.T) {
	upstream := errors.New("quota exceeded")
	s, _ := NewGeminiService(&stubModels{err: upstream}, nil)

	_, err := s.GenerateResponse(context.Background(), Request{Turns: userTurns("hi")})
	if !IsType(err, ErrTypeGeneration) {
		t.Fatalf("expected GENERATION error, got %v", err)
	}
	if !errors.Is(err, upstream) {
		t.Error("upstream cause not preserved")
	}
}

func TestGeminiGenerateResponseEmptyModelOutput(t *testing.T) {
	s, _ := NewGeminiService(&stubModels{resp: &genai.GenerateContentResponse{}}, nil)

	_, err := s.GenerateResponse(context.Background(), Request{Turns: userTurns("hi")})
	if !IsType(err, ErrTypeGeneration) {
		t.Fatalf("expected GENERATION error for empty output, got %v", err)
	}
}

func TestGeminiGenerateStreamSkipsBlankChunks(t *testing.T) {
	stub := &stubModels{stream: []*genai.GenerateContentResponse{
		textResponse(&genai.Part{Text: "first "}),
		textResponse(&genai.Part{Text: "   \n"}),
		textResponse(&genai.Part{Text: "second"}),
	}}
	s, _ := NewGeminiService(stub, nil)

	var fragments []string
	err := s.GenerateStream(context.Background(), Request{Turns: userTurns("hi")}, func(delta string) error {
		fragments = append(fragments, delta)
		return nil
	})
	if err != nil {
		t.Fatalf("GenerateStream returned error: %v", err)
	}
	if got := strings.Join(fragments, "|"); got != "first |second" {
		t.Errorf("fragments = %q", got)
	}
}

func TestGeminiGenerateStreamMidStreamFailure(t *testing.T) {
	upstream := errors.New("connection reset")
	stub := &stubModels{
		stream:    []*genai.GenerateContentResponse{textResponse(&genai.Part{Text: "partial"})},
		streamErr: upstream,
	}
	s, _ := NewGeminiService(stub, nil)

	var delivered []string
	err := s.GenerateStream(context.Background(), Request{Turns: userTurns("hi")}, func(delta string) error {
		delivered = append(delivered, delta)
		return nil
	})
	if !IsType(err, ErrTypeGeneration) {
		t.Fatalf("expected GENERATION error, got %v", err)
	}
	// The prefix delivered before the failure stands.
	if len(delivered) != 1 || delivered[0] != "partial" {
		t.Errorf("delivered prefix = %v", delivered)
	}
}

func TestGeminiGenerateStreamRoleErrorBeforeAnyFragment(t *testing.T) {
	s, _ := NewGeminiService(&stubModels{}, nil)

	err := s.GenerateStream(context.Background(), Request{
		Turns: []domain.ChatTurn{{Role: "narrator", Text: "x"}},
	}, func(string) error {
		t.Fatal("no fragment may be delivered for malformed input")
		return nil
	})
	if !IsType(err, ErrTypeRole) {
		t.Fatalf("expected ROLE error, got %v", err)
	}
}
