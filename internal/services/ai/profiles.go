// File: internal/services/ai/profiles.go
package ai

import "google.golang.org/genai"

// Backend names accepted by the factory.
const (
	BackendGemini    = "gemini"
	BackendMedicalLM = "medical_lm"
)

// Profile is the static tuning profile of one generation backend. Profiles
// live in a fixed in-process registry, are loaded once at startup and stay
// read-only for the process lifetime.
type Profile struct {
	Name            string
	Model           string
	Temperature     float32
	TopP            float32
	MaxOutputTokens int32
	SafetySettings  []*genai.SafetySetting
}

// Safety thresholds are OFF for all four harm categories; clinical review of
// model output happens downstream of this service.
func defaultSafetySettings() []*genai.SafetySetting {
	return []*genai.SafetySetting{
		{Category: genai.HarmCategoryHateSpeech, Threshold: genai.HarmBlockThresholdOff},
		{Category: genai.HarmCategoryDangerousContent, Threshold: genai.HarmBlockThresholdOff},
		{Category: genai.HarmCategorySexuallyExplicit, Threshold: genai.HarmBlockThresholdOff},
		{Category: genai.HarmCategoryHarassment, Threshold: genai.HarmBlockThresholdOff},
	}
}

var profiles = map[string]Profile{
	BackendGemini: {
		Name:            BackendGemini,
		Model:           "gemini-2.0-flash-001",
		Temperature:     1.0,
		TopP:            0.95,
		MaxOutputTokens: 1024,
		SafetySettings:  defaultSafetySettings(),
	},
	// Lower temperature: the clinical backend favors determinism over variety.
	BackendMedicalLM: {
		Name:            BackendMedicalLM,
		Model:           "gemini-2.0-flash-001",
		Temperature:     0.2,
		TopP:            0.95,
		MaxOutputTokens: 1024,
		SafetySettings:  defaultSafetySettings(),
	},
}

// ProfileFor returns the static profile registered under name.
func ProfileFor(name string) (Profile, bool) {
	p, ok := profiles[name]
	return p, ok
}
