// File: internal/handlers/auth_handlers.go
package handlers

import (
	"crypto/rand"
	"encoding/hex"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/vikihealth/viki-backend/internal/auth"
	"github.com/vikihealth/viki-backend/internal/dtos"
	"github.com/vikihealth/viki-backend/internal/middleware"
	"github.com/vikihealth/viki-backend/internal/services/account"
)

const stateCookieName = "oauth_state"

// AuthHandler holds the dependencies for the federated sign-in handlers.
type AuthHandler struct {
	OAuth    *auth.GoogleOAuthClient
	Accounts *account.Service
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(oauth *auth.GoogleOAuthClient, accounts *account.Service) *AuthHandler {
	return &AuthHandler{OAuth: oauth, Accounts: accounts}
}

// Login starts the Google authorization code flow for the requested role
// (patient or doctor). The role rides along in the state cookie so the
// callback knows which repository to upsert into.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	role := auth.Role(mux.Vars(r)["role"])
	if role != auth.RolePatient && role != auth.RoleDoctor {
		writeError(w, "Unknown sign-in role", http.StatusBadRequest)
		return
	}

	state, err := randomState()
	if err != nil {
		log.Printf("[AuthHandler] State generation failed: %v", err)
		writeError(w, "Could not start sign-in", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    state + "|" + string(role),
		Path:     "/",
		Expires:  time.Now().Add(10 * time.Minute),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, h.OAuth.AuthCodeURL(state), http.StatusSeeOther)
}

// Callback finishes the authorization code flow: it verifies the state,
// exchanges the code for the Google identity, upserts the account, and sets
// the session cookie.
func (h *AuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(stateCookieName)
	if err != nil {
		writeError(w, "Sign-in session expired. Please try again.", http.StatusBadRequest)
		return
	}
	clearCookie(w, stateCookieName)

	state, roleStr, ok := strings.Cut(cookie.Value, "|")
	if !ok || state == "" || r.URL.Query().Get("state") != state {
		writeError(w, "Invalid sign-in state", http.StatusBadRequest)
		return
	}
	role := auth.Role(roleStr)

	code := r.URL.Query().Get("code")
	if code == "" {
		writeError(w, "Sign-in was cancelled", http.StatusBadRequest)
		return
	}

	identity, err := h.OAuth.Exchange(r.Context(), code)
	if err != nil {
		log.Printf("[AuthHandler] Code exchange failed: %v", err)
		writeError(w, "Google sign-in failed. Please try again.", http.StatusBadGateway)
		return
	}

	token, _, err := h.Accounts.SignIn(r.Context(), role, identity)
	if err != nil {
		log.Printf("[AuthHandler] Sign-in failed: %v", err)
		writeError(w, "Could not complete sign-in", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AuthCookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(24 * time.Hour),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Logout clears the session cookie.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	clearCookie(w, middleware.AuthCookieName)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Signed out"})
}

// Session reports the signed-in subject. Runs behind the JWT middleware.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	subjectID, role, ok := middleware.SubjectFromContext(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, dtos.SessionDTO{SubjectID: subjectID, Role: string(role)})
}

func randomState() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func clearCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
}
