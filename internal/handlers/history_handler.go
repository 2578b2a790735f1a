// File: internal/handlers/history_handler.go
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/vikihealth/viki-backend/internal/auth"
	"github.com/vikihealth/viki-backend/internal/dtos"
	"github.com/vikihealth/viki-backend/internal/middleware"
	"github.com/vikihealth/viki-backend/internal/services/extraction"
	"github.com/vikihealth/viki-backend/internal/storage"
)

// extractionTimeout bounds the background metadata extraction that follows a
// patient transcript save.
const extractionTimeout = 60 * time.Second

// HistoryHandler reads and writes chat transcript blobs. Patients and doctors
// each have their own bucket; the blob key is "{subject_id}/chat_history".
type HistoryHandler struct {
	PatientBlobs storage.BlobStore
	DoctorBlobs  storage.BlobStore
	Extraction   *extraction.Service
}

func NewHistoryHandler(patientBlobs, doctorBlobs storage.BlobStore, extractionSvc *extraction.Service) *HistoryHandler {
	return &HistoryHandler{
		PatientBlobs: patientBlobs,
		DoctorBlobs:  doctorBlobs,
		Extraction:   extractionSvc,
	}
}

// GetHistory returns the caller's own transcript. A missing blob is an empty
// history, not an error.
func (h *HistoryHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	subjectID, role, ok := middleware.SubjectFromContext(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	history, err := h.storeFor(role).DownloadText(r.Context(), historyKey(subjectID))
	if err != nil {
		log.Printf("[HistoryHandler] Download failed for subject %d: %v", subjectID, err)
		writeError(w, "Could not load chat history", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, dtos.ChatHistoryDTO{History: history})
}

// SaveHistory overwrites the caller's transcript. For patients the save also
// kicks off the background metadata extraction; the save response never waits
// on it and never reflects its outcome.
func (h *HistoryHandler) SaveHistory(w http.ResponseWriter, r *http.Request) {
	subjectID, role, ok := middleware.SubjectFromContext(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req dtos.ChatHistoryDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Bad Request", http.StatusBadRequest)
		return
	}

	if err := h.storeFor(role).UploadText(r.Context(), req.History, historyKey(subjectID)); err != nil {
		log.Printf("[HistoryHandler] Upload failed for subject %d: %v", subjectID, err)
		writeError(w, "Could not save chat history", http.StatusInternalServerError)
		return
	}

	if role == auth.RolePatient && h.Extraction != nil {
		go func(patientID uint, transcript string) {
			ctx, cancel := context.WithTimeout(context.Background(), extractionTimeout)
			defer cancel()
			h.Extraction.ExtractAndMerge(ctx, patientID, transcript)
		}(subjectID, req.History)
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Chat history saved"})
}

// GetPatientHistory lets a doctor read a patient's transcript. Runs behind
// the doctor guard.
func (h *HistoryHandler) GetPatientHistory(w http.ResponseWriter, r *http.Request) {
	patientID, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		writeError(w, "Invalid patient ID", http.StatusBadRequest)
		return
	}

	history, err := h.PatientBlobs.DownloadText(r.Context(), historyKey(uint(patientID)))
	if err != nil {
		log.Printf("[HistoryHandler] Download failed for patient %d: %v", patientID, err)
		writeError(w, "Could not load chat history", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, dtos.ChatHistoryDTO{History: history})
}

func (h *HistoryHandler) storeFor(role auth.Role) storage.BlobStore {
	if role == auth.RoleDoctor {
		return h.DoctorBlobs
	}
	return h.PatientBlobs
}

func historyKey(subjectID uint) string {
	return fmt.Sprintf("%d/%s", subjectID, storage.ChatHistoryBlob)
}
