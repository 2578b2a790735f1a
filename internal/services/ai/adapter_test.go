// File: internal/services/ai/adapter_test.go
package ai

import (
	"testing"

	"google.golang.org/genai"

	"github.com/vikihealth/viki-backend/internal/domain"
)

func TestToContentsMapsRolesAndPreservesOrder(t *testing.T) {
	turns := []domain.ChatTurn{
		{Role: domain.RoleUser, Text: "I have a headache"},
		{Role: domain.RoleAssistant, Text: "How long has it lasted?"},
		{Role: domain.RoleUser, Text: "Three days"},
	}

	contents, err := ToContents(turns)
	if err != nil {
		t.Fatalf("ToContents returned error: %v", err)
	}
	if len(contents) != len(turns) {
		t.Fatalf("expected %d contents, got %d", len(turns), len(contents))
	}

	wantRoles := []genai.Role{genai.RoleUser, genai.RoleModel, genai.RoleUser}
	for i, c := range contents {
		if c.Role != string(wantRoles[i]) {
			t.Errorf("content %d: role = %q, want %q", i, c.Role, wantRoles[i])
		}
		if len(c.Parts) != 1 || c.Parts[0].Text != turns[i].Text {
			t.Errorf("content %d: text not preserved", i)
		}
	}
}

func TestToContentsEmptyHistory(t *testing.T) {
	contents, err := ToContents(nil)
	if err != nil {
		t.Fatalf("ToContents(nil) returned error: %v", err)
	}
	if len(contents) != 0 {
		t.Fatalf("expected empty contents, got %d", len(contents))
	}
}

func TestToContentsUnknownRole(t *testing.T) {
	turns := []domain.ChatTurn{
		{Role: domain.RoleUser, Text: "hello"},
		{Role: "system", Text: "be terse"},
	}

	contents, err := ToContents(turns)
	if err == nil {
		t.Fatal("expected a role error, got nil")
	}
	if !IsType(err, ErrTypeRole) {
		t.Fatalf("expected ROLE error, got %v", err)
	}
	if contents != nil {
		t.Fatal("expected no partial contents on role error")
	}
}
