// File: internal/handlers/notes_handler.go
package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"google.golang.org/genai"

	"github.com/vikihealth/viki-backend/internal/domain"
	"github.com/vikihealth/viki-backend/internal/dtos"
	"github.com/vikihealth/viki-backend/internal/middleware"
	"github.com/vikihealth/viki-backend/internal/services/ai"
	"github.com/vikihealth/viki-backend/internal/storage"
)

// Default system prompts used when the doctor has not uploaded a custom
// template to their prompt blobs.
const (
	defaultSOAPPrompt = "You are a clinical documentation assistant. Generate " +
		"SOAP notes (Subjective, Objective, Assessment, Plan) from the patient " +
		"chat transcript. Be concise and use standard medical terminology."
	defaultDVXPrompt = "You are a clinical decision support assistant. From the " +
		"patient chat transcript, produce a differential diagnosis ranked by " +
		"confidence, with a risk level and next steps for each condition."
)

// markdownRenderer converts narrative notes to HTML for the doctor dashboard.
var markdownRenderer = goldmark.New(goldmark.WithExtensions(extension.GFM))

// NotesHandler serves the doctor-only note generation endpoints. All notes run
// on the clinical backend; the transcript comes from the patient's stored chat
// history and the system prompt from the doctor's own prompt blob when one
// exists.
type NotesHandler struct {
	Backends     *ai.Factory
	PatientBlobs storage.BlobStore
	DoctorBlobs  storage.BlobStore
}

func NewNotesHandler(backends *ai.Factory, patientBlobs, doctorBlobs storage.BlobStore) *NotesHandler {
	return &NotesHandler{
		Backends:     backends,
		PatientBlobs: patientBlobs,
		DoctorBlobs:  doctorBlobs,
	}
}

// GenerateSOAP produces a SOAP note for a patient: structured JSON when
// requested, otherwise a markdown narrative rendered to HTML as well.
func (h *NotesHandler) GenerateSOAP(w http.ResponseWriter, r *http.Request) {
	doctorID, req, transcript, ok := h.prepare(w, r)
	if !ok {
		return
	}

	prompt, err := h.doctorPrompt(r, doctorID, storage.SOAPPromptBlob, defaultSOAPPrompt)
	if err != nil {
		writeError(w, "Could not load note template", http.StatusInternalServerError)
		return
	}

	aiReq := ai.Request{
		Turns:             []domain.ChatTurn{{Role: domain.RoleUser, Text: transcript}},
		SystemInstruction: prompt,
	}
	if req.Structured {
		aiReq.ResponseMIMEType = "application/json"
		aiReq.ResponseSchema = soapSchema()
	}

	note, err := h.generate(r, aiReq)
	if err != nil {
		writeAIError(w, err)
		return
	}

	resp := dtos.NotesResponseDTO{Note: note}
	if !req.Structured {
		resp.HTML = renderMarkdown(note)
	}
	writeJSON(w, http.StatusOK, resp)
}

// GenerateDVX produces a schema-constrained differential diagnosis for a
// patient.
func (h *NotesHandler) GenerateDVX(w http.ResponseWriter, r *http.Request) {
	doctorID, _, transcript, ok := h.prepare(w, r)
	if !ok {
		return
	}

	prompt, err := h.doctorPrompt(r, doctorID, storage.DVXPromptBlob, defaultDVXPrompt)
	if err != nil {
		writeError(w, "Could not load note template", http.StatusInternalServerError)
		return
	}

	note, err := h.generate(r, ai.Request{
		Turns:             []domain.ChatTurn{{Role: domain.RoleUser, Text: transcript}},
		SystemInstruction: prompt,
		ResponseMIMEType:  "application/json",
		ResponseSchema:    differentialSchema(),
	})
	if err != nil {
		writeAIError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dtos.NotesResponseDTO{Note: note})
}

// SavePrompt stores the doctor's custom prompt template for the given note
// kind (soap or dvx).
func (h *NotesHandler) SavePrompt(w http.ResponseWriter, r *http.Request) {
	doctorID, _, ok := middleware.SubjectFromContext(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	kind := mux.Vars(r)["kind"]
	if kind != storage.SOAPPromptBlob && kind != storage.DVXPromptBlob {
		writeError(w, "Unknown prompt kind", http.StatusBadRequest)
		return
	}

	var req struct {
		Prompt string `json:"prompt"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Bad Request", http.StatusBadRequest)
		return
	}

	key := fmt.Sprintf("%d/%s", doctorID, kind)
	if err := h.DoctorBlobs.UploadText(r.Context(), req.Prompt, key); err != nil {
		log.Printf("[NotesHandler] Prompt upload failed for doctor %d: %v", doctorID, err)
		writeError(w, "Could not save prompt template", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Prompt template saved"})
}

// prepare decodes the request and loads the patient transcript the note is
// generated from.
func (h *NotesHandler) prepare(w http.ResponseWriter, r *http.Request) (uint, dtos.NotesRequestDTO, string, bool) {
	doctorID, _, ok := middleware.SubjectFromContext(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return 0, dtos.NotesRequestDTO{}, "", false
	}

	var req dtos.NotesRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PatientID == 0 {
		writeError(w, "A patient_id is required", http.StatusBadRequest)
		return 0, req, "", false
	}

	key := fmt.Sprintf("%d/%s", req.PatientID, storage.ChatHistoryBlob)
	transcript, err := h.PatientBlobs.DownloadText(r.Context(), key)
	if err != nil {
		log.Printf("[NotesHandler] Transcript download failed for patient %d: %v", req.PatientID, err)
		writeError(w, "Could not load patient chat history", http.StatusInternalServerError)
		return 0, req, "", false
	}
	if transcript == "" {
		writeError(w, "The patient has no chat history yet", http.StatusNotFound)
		return 0, req, "", false
	}

	return doctorID, req, transcript, true
}

// doctorPrompt returns the doctor's custom prompt template for the given blob,
// falling back to the built-in default when none is stored.
func (h *NotesHandler) doctorPrompt(r *http.Request, doctorID uint, blob, fallback string) (string, error) {
	key := fmt.Sprintf("%d/%s", doctorID, blob)
	prompt, err := h.DoctorBlobs.DownloadText(r.Context(), key)
	if err != nil {
		log.Printf("[NotesHandler] Prompt download failed for doctor %d: %v", doctorID, err)
		return "", err
	}
	if prompt == "" {
		return fallback, nil
	}
	return prompt, nil
}

func (h *NotesHandler) generate(r *http.Request, req ai.Request) (string, error) {
	service, err := h.Backends.Resolve(ai.BackendMedicalLM)
	if err != nil {
		return "", err
	}
	return service.GenerateResponse(r.Context(), req)
}

// soapSchema constrains structured SOAP notes to four string-array sections.
func soapSchema() *genai.Schema {
	section := func() *genai.Schema {
		return &genai.Schema{Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}}
	}
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"subjective": section(),
			"objective":  section(),
			"assessment": section(),
			"plan":       section(),
		},
		Required: []string{"subjective", "objective", "assessment", "plan"},
	}
}

// differentialSchema constrains differential output to a ranked condition
// list.
func differentialSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeArray,
		Items: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"condition":  {Type: genai.TypeString},
				"risk":       {Type: genai.TypeString, Enum: []string{"Low", "Moderate", "Critical"}},
				"confidence": {Type: genai.TypeInteger},
				"steps":      {Type: genai.TypeString},
			},
			Required: []string{"condition", "risk", "confidence"},
		},
	}
}

func renderMarkdown(src string) string {
	var buf bytes.Buffer
	if err := markdownRenderer.Convert([]byte(src), &buf); err != nil {
		log.Printf("[NotesHandler] Markdown rendering failed: %v", err)
		return ""
	}
	return buf.String()
}
