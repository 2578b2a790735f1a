// File: internal/handlers/chat_handler.go
package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/vikihealth/viki-backend/internal/dtos"
	"github.com/vikihealth/viki-backend/internal/services/ai"
)

// ChatHandler serves the conversational generation endpoints. Patient chat
// always runs on the general backend; the clinical backend is reserved for
// the doctor note endpoints.
type ChatHandler struct {
	Backends *ai.Factory
}

func NewChatHandler(backends *ai.Factory) *ChatHandler {
	return &ChatHandler{Backends: backends}
}

// Generate handles a whole (non-streamed) chat completion.
func (h *ChatHandler) Generate(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeGenerateRequest(w, r)
	if !ok {
		return
	}

	service, err := h.Backends.Resolve(ai.BackendGemini)
	if err != nil {
		log.Printf("[ChatHandler] Backend resolution failed: %v", err)
		writeAIError(w, err)
		return
	}

	reply, err := service.GenerateResponse(r.Context(), ai.Request{
		Turns:             req.Messages,
		SystemInstruction: req.SystemInstruction,
	})
	if err != nil {
		writeAIError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dtos.GenerateResponseDTO{Reply: reply})
}

// GenerateStream handles a streamed chat completion over server-sent events.
// Each fragment is one `data:` event carrying a JSON chunk; the stream ends
// with a `[DONE]` sentinel. Fragments already flushed stand even if
// generation fails afterwards; the failure becomes a terminal error event.
func (h *ChatHandler) GenerateStream(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeGenerateRequest(w, r)
	if !ok {
		return
	}

	service, err := h.Backends.Resolve(ai.BackendGemini)
	if err != nil {
		log.Printf("[ChatHandler] Backend resolution failed: %v", err)
		writeAIError(w, err)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	streamErr := service.GenerateStream(r.Context(), ai.Request{
		Turns:             req.Messages,
		SystemInstruction: req.SystemInstruction,
	}, func(delta string) error {
		payload, err := json.Marshal(map[string]string{"delta": delta})
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
			return err
		}
		flusher.Flush()
		return nil
	})

	if streamErr != nil {
		// Headers are gone; report the failure in-band.
		log.Printf("[ChatHandler] Stream failed: %v", streamErr)
		fmt.Fprintf(w, "event: error\ndata: %s\n\n", sseErrorPayload(streamErr))
		flusher.Flush()
		return
	}

	fmt.Fprint(w, "data: [DONE]\n\n")
	flusher.Flush()
}

func decodeGenerateRequest(w http.ResponseWriter, r *http.Request) (dtos.GenerateRequestDTO, bool) {
	var req dtos.GenerateRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Bad Request", http.StatusBadRequest)
		return req, false
	}
	if len(req.Messages) == 0 {
		writeError(w, "At least one message is required", http.StatusBadRequest)
		return req, false
	}
	return req, true
}

func sseErrorPayload(err error) []byte {
	msg := "The AI service is temporarily unavailable. Please try again."
	if ai.IsType(err, ai.ErrTypeRole) {
		msg = err.Error()
	}
	payload, _ := json.Marshal(map[string]string{"error": msg})
	return payload
}
