// File: internal/services/ai/genconfig.go
package ai

import "google.golang.org/genai"

// BuildGenerateConfig assembles the immutable per-call generation config from
// a backend profile and the optional per-call overrides. Temperature, top-p,
// the output token cap and the safety thresholds always come from the
// profile. The system instruction is attached verbatim when present — no
// template interpolation and no length limit enforced here. The response
// schema is attached as-is; coercing the model into conforming JSON is the
// backend's job, not this builder's.
//
// Building is deterministic and side-effect free: equal inputs produce equal
// configuration values.
func BuildGenerateConfig(p Profile, systemInstruction, mimeType string, schema *genai.Schema) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		Temperature:        genai.Ptr(p.Temperature),
		TopP:               genai.Ptr(p.TopP),
		MaxOutputTokens:    p.MaxOutputTokens,
		ResponseModalities: []string{"TEXT"},
		SafetySettings:     p.SafetySettings,
	}

	if systemInstruction != "" {
		cfg.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: systemInstruction}},
		}
	}
	if mimeType != "" {
		cfg.ResponseMIMEType = mimeType
	}
	if schema != nil {
		cfg.ResponseSchema = schema
	}

	return cfg
}
