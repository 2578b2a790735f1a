// File: internal/services/extraction/service.go
package extraction

import (
	"context"
	"encoding/json"
	"sync"

	"google.golang.org/genai"

	"github.com/vikihealth/viki-backend/internal/domain"
	"github.com/vikihealth/viki-backend/internal/services/ai"
)

// systemInstruction directs the model to extract the fixed clinical fields
// from a patient transcript.
const systemInstruction = "You are a medical assistant. Extract the patient's " +
	"risk level, primary condition, age, and last visit date from the chat " +
	"transcript. Respond with JSON only, using the fields Risk, Condition, " +
	"Age, and LastVisit."

// PatientMetadataStore is the slice of the patient repository this service
// writes through.
type PatientMetadataStore interface {
	MergeMetadata(ctx context.Context, patientID uint, fields map[string]any) error
}

type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}

// Service derives structured clinical fields from a patient's chat transcript
// and folds them into the patient's persisted metadata. The whole path is
// best-effort: the triggering chat-history save has already succeeded, so no
// failure here may propagate back to it.
type Service struct {
	ai       ai.Service
	patients PatientMetadataStore
	logger   Logger

	// one mutex per patient ID; concurrent merges for the same patient are
	// serialized to avoid lost updates.
	locks sync.Map
}

func NewService(aiService ai.Service, patients PatientMetadataStore, logger Logger) *Service {
	return &Service{ai: aiService, patients: patients, logger: logger}
}

// extractionSchema is the fixed schema for the risk-assessment extraction.
func extractionSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"Risk":      {Type: genai.TypeString, Enum: []string{"Low", "Medium", "High"}},
			"Condition": {Type: genai.TypeString},
			"Age":       {Type: genai.TypeInteger},
			"LastVisit": {Type: genai.TypeString, Format: "date"},
		},
		Required: []string{"Risk", "Condition"},
	}
}

// ExtractAndMerge runs the schema-constrained generation call for the given
// transcript and merges the parsed fields into the patient's metadata. Errors
// are logged and swallowed by design.
func (s *Service) ExtractAndMerge(ctx context.Context, patientID uint, transcript string) {
	if transcript == "" {
		return
	}

	text, err := s.ai.GenerateResponse(ctx, ai.Request{
		Turns:             []domain.ChatTurn{{Role: domain.RoleUser, Text: transcript}},
		SystemInstruction: systemInstruction,
		ResponseMIMEType:  "application/json",
		ResponseSchema:    extractionSchema(),
	})
	if err != nil {
		s.logger.Warn("metadata extraction call failed; skipping merge",
			"patient_id", patientID, "error", err)
		return
	}

	fields, err := parseExtraction(text)
	if err != nil {
		s.logger.Warn("metadata extraction output unparsable; skipping merge",
			"patient_id", patientID, "error", err)
		return
	}
	if len(fields) == 0 {
		return
	}

	lock := s.lockFor(patientID)
	lock.Lock()
	defer lock.Unlock()

	if err := s.patients.MergeMetadata(ctx, patientID, fields); err != nil {
		s.logger.Error("metadata merge failed", "patient_id", patientID, "error", err)
		return
	}
	s.logger.Info("patient metadata merged", "patient_id", patientID, "fields", len(fields))
}

func (s *Service) lockFor(patientID uint) *sync.Mutex {
	v, _ := s.locks.LoadOrStore(patientID, &sync.Mutex{})
	return v.(*sync.Mutex)
}

// parseExtraction parses the model output. It tries a strict JSON parse
// first; on failure it falls back to the first balanced {...} span in the
// text (models occasionally wrap JSON in prose or code fences).
func parseExtraction(text string) (map[string]any, error) {
	var fields map[string]any
	if err := json.Unmarshal([]byte(text), &fields); err == nil {
		return fields, nil
	}

	span := firstBalancedObject(text)
	if span == "" {
		return nil, ai.NewSchemaError("extract", "no JSON object found in model output", nil)
	}
	if err := json.Unmarshal([]byte(span), &fields); err != nil {
		return nil, ai.NewSchemaError("extract", "model output does not conform to the extraction schema", err)
	}
	return fields, nil
}

// firstBalancedObject returns the first balanced {...} span in text, or ""
// when none exists. Braces inside JSON strings are not counted.
func firstBalancedObject(text string) string {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i, c := range text {
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			if start >= 0 {
				inString = true
			}
		case '{':
			if start < 0 {
				start = i
			}
			depth++
		case '}':
			if start >= 0 {
				depth--
				if depth == 0 {
					return text[start : i+1]
				}
			}
		}
	}
	return ""
}
