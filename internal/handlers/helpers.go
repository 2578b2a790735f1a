// File: internal/handlers/helpers.go
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/vikihealth/viki-backend/internal/services/ai"
)

// writeJSON is a helper for sending JSON responses.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError is a helper for sending JSON error responses.
func writeError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeAIError maps a generation-layer error to an HTTP status. Malformed
// input (bad roles, bad backend names) is the caller's fault; upstream model
// failures are a bad gateway.
func writeAIError(w http.ResponseWriter, err error) {
	switch {
	case ai.IsType(err, ai.ErrTypeRole), ai.IsType(err, ai.ErrTypeBackend):
		writeError(w, err.Error(), http.StatusBadRequest)
	case ai.IsType(err, ai.ErrTypeGeneration):
		writeError(w, "The AI service is temporarily unavailable. Please try again.", http.StatusBadGateway)
	default:
		writeError(w, "Could not process the request", http.StatusInternalServerError)
	}
}
