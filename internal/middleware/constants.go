// File: internal/middleware/constants.go
package middleware

// Context keys for middleware communication
type contextKey string

const (
	SubjectIDKey contextKey = "subject_id"
	RoleKey      contextKey = "role"
)
