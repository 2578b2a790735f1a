// File: internal/handlers/patients_handler.go
package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/vikihealth/viki-backend/internal/dtos"
	"github.com/vikihealth/viki-backend/internal/middleware"
	"github.com/vikihealth/viki-backend/internal/repository/doctor"
	"github.com/vikihealth/viki-backend/internal/repository/patient"
)

// recentPatientsLimit caps the doctor dashboard patient list.
const recentPatientsLimit = 20

// PatientsHandler serves the doctor-facing patient roster endpoints.
type PatientsHandler struct {
	Patients patient.Repository
	Doctors  doctor.Repository
}

func NewPatientsHandler(patients patient.Repository, doctors doctor.Repository) *PatientsHandler {
	return &PatientsHandler{Patients: patients, Doctors: doctors}
}

// ListRecent returns the most recently updated patients with their clinical
// metadata for the dashboard.
func (h *PatientsHandler) ListRecent(w http.ResponseWriter, r *http.Request) {
	patients, err := h.Patients.ListRecent(r.Context(), recentPatientsLimit)
	if err != nil {
		log.Printf("[PatientsHandler] Listing failed: %v", err)
		writeError(w, "Could not retrieve patients", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, dtos.FromPatientSlice(patients))
}

// GetPatient returns one patient's summary.
func (h *PatientsHandler) GetPatient(w http.ResponseWriter, r *http.Request) {
	patientID, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		writeError(w, "Invalid patient ID", http.StatusBadRequest)
		return
	}

	p, err := h.Patients.FindByID(r.Context(), uint(patientID))
	if err != nil {
		if errors.Is(err, patient.ErrPatientNotFound) {
			writeError(w, "Patient not found", http.StatusNotFound)
			return
		}
		log.Printf("[PatientsHandler] Lookup failed for patient %d: %v", patientID, err)
		writeError(w, "Could not retrieve patient", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, dtos.FromPatient(*p))
}

// Profile returns the signed-in doctor's own profile.
func (h *PatientsHandler) Profile(w http.ResponseWriter, r *http.Request) {
	doctorID, _, ok := middleware.SubjectFromContext(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	d, err := h.Doctors.FindByID(r.Context(), doctorID)
	if err != nil {
		log.Printf("[PatientsHandler] Doctor lookup failed for %d: %v", doctorID, err)
		writeError(w, "Could not retrieve profile", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, dtos.FromDoctor(*d))
}
