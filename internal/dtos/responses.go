// File: internal/dtos/responses.go
package dtos

import (
	"time"

	"github.com/vikihealth/viki-backend/internal/domain"
)

// PatientSummaryDTO defines what fields to expose for a patient in doctor-facing
// API responses. SSO identifiers stay internal.
type PatientSummaryDTO struct {
	PatientID uint           `json:"patient_id"`
	Email     string         `json:"email"`
	FullName  string         `json:"full_name"`
	Metadata  map[string]any `json:"metadata"`
	CreatedAt string         `json:"created_at"`
	UpdatedAt string         `json:"updated_at"`
}

// DoctorProfileDTO is the doctor's own profile response.
type DoctorProfileDTO struct {
	DoctorID  uint   `json:"doctor_id"`
	Email     string `json:"email"`
	FullName  string `json:"full_name"`
	CreatedAt string `json:"created_at"`
}

// SessionDTO describes the signed-in subject.
type SessionDTO struct {
	SubjectID uint   `json:"subject_id"`
	Role      string `json:"role"`
}

// GenerateRequestDTO is the payload for the chat generation endpoints.
type GenerateRequestDTO struct {
	Messages          []domain.ChatTurn `json:"messages"`
	SystemInstruction string            `json:"system_instruction,omitempty"`
}

// GenerateResponseDTO carries a whole (non-streamed) model reply.
type GenerateResponseDTO struct {
	Reply string `json:"reply"`
}

// NotesRequestDTO is the payload for the doctor note-generation endpoints.
type NotesRequestDTO struct {
	PatientID uint `json:"patient_id"`
	// Structured selects schema-constrained JSON output instead of a
	// markdown narrative.
	Structured bool `json:"structured,omitempty"`
}

// NotesResponseDTO carries a generated clinical note. HTML is only set for
// narrative notes, rendered from the markdown body.
type NotesResponseDTO struct {
	Note string `json:"note"`
	HTML string `json:"html,omitempty"`
}

// ChatHistoryDTO wraps a stored transcript blob.
type ChatHistoryDTO struct {
	History string `json:"history"`
}

// FromPatient maps a domain.Patient to its doctor-facing summary.
func FromPatient(p domain.Patient) PatientSummaryDTO {
	return PatientSummaryDTO{
		PatientID: p.ID,
		Email:     p.Email,
		FullName:  p.FullName,
		Metadata:  p.Metadata,
		CreatedAt: p.CreatedAt.Format(time.RFC3339),
		UpdatedAt: p.UpdatedAt.Format(time.RFC3339),
	}
}

// FromPatientSlice maps a slice of patients to summaries.
func FromPatientSlice(patients []domain.Patient) []PatientSummaryDTO {
	out := make([]PatientSummaryDTO, len(patients))
	for i, p := range patients {
		out[i] = FromPatient(p)
	}
	return out
}

// FromDoctor maps a domain.Doctor to its profile response.
func FromDoctor(d domain.Doctor) DoctorProfileDTO {
	return DoctorProfileDTO{
		DoctorID:  d.ID,
		Email:     d.Email,
		FullName:  d.FullName,
		CreatedAt: d.CreatedAt.Format(time.RFC3339),
	}
}
