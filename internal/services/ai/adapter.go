// File: internal/services/ai/adapter.go
package ai

import (
	"google.golang.org/genai"

	"github.com/vikihealth/viki-backend/internal/domain"
)

// ToContents converts the provider-agnostic conversation history into the
// content representation the Gemini SDK expects. The mapping is exactly
// user -> RoleUser and assistant -> RoleModel; anything else is a role error.
//
// Order and length are preserved one to one. No truncation, windowing or
// deduplication happens here; trimming history to a viable size is the
// caller's job. Pure function: no I/O, no side effects.
func ToContents(turns []domain.ChatTurn) ([]*genai.Content, error) {
	contents := make([]*genai.Content, 0, len(turns))
	for _, turn := range turns {
		var role genai.Role
		switch turn.Role {
		case domain.RoleUser:
			role = genai.RoleUser
		case domain.RoleAssistant:
			role = genai.RoleModel
		default:
			return nil, NewRoleError(string(turn.Role))
		}
		contents = append(contents, &genai.Content{
			Role:  string(role),
			Parts: []*genai.Part{{Text: turn.Text}},
		})
	}
	return contents, nil
}
