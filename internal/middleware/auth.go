// File: internal/middleware/auth.go
package middleware

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/vikihealth/viki-backend/internal/auth"
)

const AuthCookieName = "auth_token"

// SessionValidator validates a session token and returns the subject and role.
type SessionValidator interface {
	ValidateSession(token string) (uint, auth.Role, error)
}

// NewJWTMiddleware validates the session cookie and puts the subject ID and
// role on the request context.
func NewJWTMiddleware(sessions SessionValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(AuthCookieName)
			if err != nil {
				unauthorized(w, "Authentication required")
				return
			}

			subjectID, role, err := sessions.ValidateSession(cookie.Value)
			if err != nil {
				log.Printf("[AuthMiddleware] Invalid token: %v", err)
				// Clear invalid cookie
				http.SetCookie(w, &http.Cookie{
					Name:     AuthCookieName,
					Value:    "",
					Path:     "/",
					Expires:  time.Unix(0, 0),
					HttpOnly: true,
					Secure:   true,
					SameSite: http.SameSiteLaxMode,
				})
				unauthorized(w, "Invalid or expired session")
				return
			}

			ctx := context.WithValue(r.Context(), SubjectIDKey, subjectID)
			ctx = context.WithValue(ctx, RoleKey, role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireDoctor guards doctor-only routes. It must run after the JWT
// middleware.
func RequireDoctor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role, ok := r.Context().Value(RoleKey).(auth.Role)
		if !ok || role != auth.RoleDoctor {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			json.NewEncoder(w).Encode(map[string]string{"error": "Doctor access required"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// SubjectFromContext reads the authenticated subject off the request context.
func SubjectFromContext(ctx context.Context) (uint, auth.Role, bool) {
	subjectID, ok := ctx.Value(SubjectIDKey).(uint)
	if !ok {
		return 0, "", false
	}
	role, ok := ctx.Value(RoleKey).(auth.Role)
	if !ok {
		return 0, "", false
	}
	return subjectID, role, true
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
