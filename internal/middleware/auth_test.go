// File: internal/middleware/auth_test.go
package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/vikihealth/viki-backend/internal/auth"
)

type stubSessions struct {
	subjectID uint
	role      auth.Role
	err       error
}

func (s *stubSessions) ValidateSession(token string) (uint, auth.Role, error) {
	return s.subjectID, s.role, s.err
}

func TestJWTMiddlewarePutsSubjectOnContext(t *testing.T) {
	mw := NewJWTMiddleware(&stubSessions{subjectID: 12, role: auth.RolePatient})

	var gotID uint
	var gotRole auth.Role
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, role, ok := SubjectFromContext(r.Context())
		if !ok {
			t.Fatal("subject missing from context")
		}
		gotID, gotRole = id, role
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/history", nil)
	req.AddCookie(&http.Cookie{Name: AuthCookieName, Value: "token"})
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if gotID != 12 || gotRole != auth.RolePatient {
		t.Errorf("context subject = (%d, %q)", gotID, gotRole)
	}
}

func TestJWTMiddlewareRejectsMissingCookie(t *testing.T) {
	mw := NewJWTMiddleware(&stubSessions{})
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run without a session cookie")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/history", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestJWTMiddlewareClearsInvalidCookie(t *testing.T) {
	mw := NewJWTMiddleware(&stubSessions{err: errors.New("expired")})
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run with an invalid session")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/history", nil)
	req.AddCookie(&http.Cookie{Name: AuthCookieName, Value: "stale"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	cleared := false
	for _, c := range rec.Result().Cookies() {
		if c.Name == AuthCookieName && c.Value == "" {
			cleared = true
		}
	}
	if !cleared {
		t.Error("invalid session cookie was not cleared")
	}
}

func TestRequireDoctor(t *testing.T) {
	protected := RequireDoctor(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	// A doctor passes through.
	mw := NewJWTMiddleware(&stubSessions{subjectID: 1, role: auth.RoleDoctor})
	req := httptest.NewRequest(http.MethodGet, "/api/doctor/patients", nil)
	req.AddCookie(&http.Cookie{Name: AuthCookieName, Value: "token"})
	rec := httptest.NewRecorder()
	mw(protected).ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("doctor blocked: status = %d", rec.Code)
	}

	// A patient is forbidden.
	mw = NewJWTMiddleware(&stubSessions{subjectID: 2, role: auth.RolePatient})
	req = httptest.NewRequest(http.MethodGet, "/api/doctor/patients", nil)
	req.AddCookie(&http.Cookie{Name: AuthCookieName, Value: "token"})
	rec = httptest.NewRecorder()
	mw(protected).ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("patient not blocked: status = %d", rec.Code)
	}
}
