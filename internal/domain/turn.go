// File: internal/domain/turn.go
package domain

// TurnRole identifies who authored a chat turn.
type TurnRole string

const (
	RoleUser      TurnRole = "user"
	RoleAssistant TurnRole = "assistant"
)

// ChatTurn is one message in a conversation. Order within a slice of turns is
// the conversation order and must be preserved end to end.
type ChatTurn struct {
	Role TurnRole `json:"type"`
	Text string   `json:"content"`
}
