// File: internal/services/ai/mock_test.go
package ai

import (
	"encoding/json"
	"math/rand"
	"strings"
	"testing"
	"time"

	"google.golang.org/genai"
)

// The mock synthesizer contract: shape is deterministic per schema, content is
// random. Tests only assert on shape.

func testRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

func TestMockStructuredSOAPShape(t *testing.T) {
	for seed := int64(0); seed < 20; seed++ {
		out := mockStructured(testRand(seed), soapTestSchema())

		var note map[string][]string
		if err := json.Unmarshal([]byte(out), &note); err != nil {
			t.Fatalf("seed %d: output is not a string-array object: %v", seed, err)
		}
		if len(note) != 4 {
			t.Fatalf("seed %d: expected exactly 4 sections, got %d", seed, len(note))
		}
		for _, key := range []string{"subjective", "objective", "assessment", "plan"} {
			lines, ok := note[key]
			if !ok {
				t.Fatalf("seed %d: missing section %q", seed, key)
			}
			if len(lines) < 3 || len(lines) > 4 {
				t.Errorf("seed %d: section %q has %d fragments, want 3-4", seed, key, len(lines))
			}
			for _, line := range lines {
				if strings.TrimSpace(line) == "" {
					t.Errorf("seed %d: section %q contains a blank fragment", seed, key)
				}
			}
		}
	}
}

func TestMockDifferentialShape(t *testing.T) {
	for seed := int64(0); seed < 20; seed++ {
		out := mockStructured(testRand(seed), differentialTestSchema())

		var entries []struct {
			Condition  string `json:"condition"`
			Risk       string `json:"risk"`
			Confidence int    `json:"confidence"`
		}
		if err := json.Unmarshal([]byte(out), &entries); err != nil {
			t.Fatalf("seed %d: output is not an entry array: %v", seed, err)
		}
		if len(entries) < 3 || len(entries) > 5 {
			t.Fatalf("seed %d: %d entries, want 3-5", seed, len(entries))
		}

		seen := map[string]bool{}
		for i, e := range entries {
			if e.Condition == "" {
				t.Errorf("seed %d: entry %d has empty condition", seed, i)
			}
			if seen[e.Condition] {
				t.Errorf("seed %d: duplicate condition %q", seed, e.Condition)
			}
			seen[e.Condition] = true
			if e.Risk != "Low" && e.Risk != "Moderate" && e.Risk != "Critical" {
				t.Errorf("seed %d: entry %d risk = %q", seed, i, e.Risk)
			}
			if e.Confidence < 0 || e.Confidence > 100 {
				t.Errorf("seed %d: entry %d confidence = %d", seed, i, e.Confidence)
			}
			if i > 0 && entries[i-1].Confidence < e.Confidence {
				t.Errorf("seed %d: entries not sorted by descending confidence", seed)
			}
		}
	}
}

func TestMockGenericFieldsShape(t *testing.T) {
	schema := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"Risk":      {Type: genai.TypeString, Enum: []string{"Low", "Medium", "High"}},
			"Condition": {Type: genai.TypeString},
			"Age":       {Type: genai.TypeInteger},
			"LastVisit": {Type: genai.TypeString, Format: "date"},
			"Unknown":   {Type: genai.TypeString},
		},
	}

	for seed := int64(0); seed < 20; seed++ {
		out := mockStructured(testRand(seed), schema)

		var fields map[string]any
		if err := json.Unmarshal([]byte(out), &fields); err != nil {
			t.Fatalf("seed %d: output not a JSON object: %v", seed, err)
		}

		risk, _ := fields["Risk"].(string)
		if risk != "Low" && risk != "Medium" && risk != "High" {
			t.Errorf("seed %d: Risk = %q, not in declared enum", seed, risk)
		}
		if cond, _ := fields["Condition"].(string); cond == "" {
			t.Errorf("seed %d: Condition missing or empty", seed)
		}
		age, ok := fields["Age"].(float64)
		if !ok || age < 25 || age > 80 {
			t.Errorf("seed %d: Age = %v, want 25-80", seed, fields["Age"])
		}

		lastVisit, _ := fields["LastVisit"].(string)
		visit, err := time.Parse("2006-01-02", lastVisit)
		if err != nil {
			t.Fatalf("seed %d: LastVisit %q not in YYYY-MM-DD form", seed, lastVisit)
		}
		sinceVisit := time.Since(visit)
		if sinceVisit < 0 || sinceVisit > 91*24*time.Hour {
			t.Errorf("seed %d: LastVisit %q not within the last 90 days", seed, lastVisit)
		}

		if _, present := fields["Unknown"]; present {
			t.Errorf("seed %d: unrecognized property was filled", seed)
		}
	}
}

func TestMockSOAPNarrativeMentionsAllSections(t *testing.T) {
	for seed := int64(0); seed < 10; seed++ {
		note := mockSOAPNarrative(testRand(seed))
		lower := strings.ToLower(note)
		for _, section := range []string{"subjective", "objective", "assessment", "plan"} {
			if !strings.Contains(lower, section) {
				t.Errorf("seed %d: narrative missing %q section", seed, section)
			}
		}
	}
}

func soapTestSchema() *genai.Schema {
	section := &genai.Schema{Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}}
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"subjective": section,
			"objective":  section,
			"assessment": section,
			"plan":       section,
		},
	}
}

func differentialTestSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeArray,
		Items: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"condition":  {Type: genai.TypeString},
				"risk":       {Type: genai.TypeString},
				"confidence": {Type: genai.TypeInteger},
			},
		},
	}
}
