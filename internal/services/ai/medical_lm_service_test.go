// File: internal/services/ai/medical_lm_service_test.go
package ai

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"testing"

	"google.golang.org/genai"

	"github.com/vikihealth/viki-backend/internal/domain"
)

func newMockService(t *testing.T, seed int64) *MedicalLMService {
	t.Helper()
	s, err := newMedicalLMServiceWithRand(nil, true, nil, rand.New(rand.NewSource(seed)))
	if err != nil {
		t.Fatalf("constructing mock service: %v", err)
	}
	return s
}

func TestNewMedicalLMServiceRequiresClientWhenLive(t *testing.T) {
	if _, err := NewMedicalLMService(nil, false, nil); !IsType(err, ErrTypeConfig) {
		t.Fatalf("expected CONFIG error for live mode without client, got %v", err)
	}
	if _, err := NewMedicalLMService(nil, true, nil); err != nil {
		t.Fatalf("mock mode must not require a client, got %v", err)
	}
}

func TestMockGenerateResponseNonEmpty(t *testing.T) {
	s := newMockService(t, 1)
	reply, err := s.GenerateResponse(context.Background(), Request{
		Turns: []domain.ChatTurn{{Role: domain.RoleUser, Text: "I feel dizzy"}},
	})
	if err != nil {
		t.Fatalf("GenerateResponse returned error: %v", err)
	}
	if strings.TrimSpace(reply) == "" {
		t.Fatal("mock reply is empty")
	}
}

func TestMockValidatesRolesLikeLivePath(t *testing.T) {
	s := newMockService(t, 1)
	_, err := s.GenerateResponse(context.Background(), Request{
		Turns: []domain.ChatTurn{{Role: "tool", Text: "x"}},
	})
	if !IsType(err, ErrTypeRole) {
		t.Fatalf("expected ROLE error, got %v", err)
	}

	err = s.GenerateStream(context.Background(), Request{
		Turns: []domain.ChatTurn{{Role: "tool", Text: "x"}},
	}, func(string) error {
		t.Fatal("no fragment may be delivered for malformed input")
		return nil
	})
	if !IsType(err, ErrTypeRole) {
		t.Fatalf("expected ROLE error from stream, got %v", err)
	}
}

func TestMockStreamConcatenationMatchesWholeResponse(t *testing.T) {
	const seed = 42
	req := Request{
		Turns: []domain.ChatTurn{{Role: domain.RoleUser, Text: "I have chest pain"}},
	}

	whole, err := newMockService(t, seed).GenerateResponse(context.Background(), req)
	if err != nil {
		t.Fatalf("whole response failed: %v", err)
	}

	var fragments []string
	err = newMockService(t, seed).GenerateStream(context.Background(), req, func(delta string) error {
		fragments = append(fragments, delta)
		return nil
	})
	if err != nil {
		t.Fatalf("stream failed: %v", err)
	}

	if len(fragments) == 0 {
		t.Fatal("stream delivered no fragments")
	}
	for i, f := range fragments {
		if f == "" {
			t.Errorf("fragment %d is empty", i)
		}
	}
	if got := strings.Join(fragments, ""); got != whole {
		t.Errorf("stream concatenation differs from whole response:\n%q\nvs\n%q", got, whole)
	}
}

func TestMockStreamHonorsCallbackAbort(t *testing.T) {
	abort := errors.New("renderer closed")
	err := newMockService(t, 7).GenerateStream(context.Background(), Request{
		Turns: []domain.ChatTurn{{Role: domain.RoleUser, Text: "hello"}},
	}, func(string) error {
		return abort
	})
	if !errors.Is(err, abort) {
		t.Fatalf("expected callback error verbatim, got %v", err)
	}
}

func TestMockSchemaDispatch(t *testing.T) {
	s := newMockService(t, 3)

	// A schema request must come back as valid JSON regardless of instruction.
	reply, err := s.GenerateResponse(context.Background(), Request{
		Turns:             []domain.ChatTurn{{Role: domain.RoleUser, Text: "transcript"}},
		SystemInstruction: "Generate SOAP notes as JSON.",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"Risk": {Type: genai.TypeString},
			},
		},
	})
	if err != nil {
		t.Fatalf("schema request failed: %v", err)
	}
	if !strings.HasPrefix(strings.TrimSpace(reply), "{") {
		t.Errorf("schema request did not produce a JSON object: %q", reply)
	}

	// A SOAP instruction without a schema produces the markdown narrative.
	reply, err = s.GenerateResponse(context.Background(), Request{
		Turns:             []domain.ChatTurn{{Role: domain.RoleUser, Text: "transcript"}},
		SystemInstruction: "Generate soap notes from the transcript.",
	})
	if err != nil {
		t.Fatalf("narrative request failed: %v", err)
	}
	if !strings.Contains(reply, "#") {
		t.Errorf("narrative request did not produce markdown: %q", reply)
	}
}
