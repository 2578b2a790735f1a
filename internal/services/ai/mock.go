// File: internal/services/ai/mock.go
package ai

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"google.golang.org/genai"
)

// Mock synthesizer for offline development and testing. Output shape is
// schema-conformant on every invocation (required fields present, enums drawn
// from the declared enum, numbers within bounds); the content itself is
// randomized on purpose. Callers must only ever assert on shape, never on
// literal text.

type randSource interface {
	Intn(n int) int
	Float64() float64
}

func pick(r randSource, options []string) string {
	return options[r.Intn(len(options))]
}

var mockGeneralResponses = []string{
	"Based on the information provided, I recommend the patient follow up with their primary care physician for further evaluation.",
	"The symptoms described are consistent with a viral upper respiratory infection. Rest, hydration, and over-the-counter analgesics are recommended.",
	"From the medical history, this appears to be a case of mild to moderate anxiety that could benefit from cognitive behavioral therapy.",
	"The patient's description suggests possible gastroesophageal reflux disease. Dietary modifications and antacid therapy would be appropriate initial steps.",
	"These symptoms could indicate several conditions ranging from muscle strain to more serious issues. A physical examination is necessary for proper diagnosis.",
}

// mockGeneralText picks one canned clinical-sounding sentence.
func mockGeneralText(r randSource) string {
	return pick(r, mockGeneralResponses)
}

var (
	mockSymptoms = []string{
		"persistent cough", "lower back pain", "recurring headaches",
		"joint pain", "chest discomfort",
	}
	mockDurations = []string{
		"the past 3 days", "approximately 2 weeks", "over a month",
		"several days", "about a week",
	}
	mockComplaints = []string{
		"Also notes fatigue", "Reports difficulty sleeping",
		"Mentions loss of appetite", "Complains of nausea after eating",
		"Also experiencing mild dizziness",
	}
	mockPainDescriptions = []string{
		"dull and constant", "sharp and intermittent", "throbbing",
		"burning", "aching that worsens with movement",
	}
	mockPhysicalFindings = []string{
		"tenderness to palpation in the right lower quadrant",
		"decreased range of motion in the lumbar spine",
		"erythema and swelling in the affected joint",
		"clear lung sounds bilaterally",
		"mild tenderness over the sinuses",
	}
	mockDiagnoses = []string{
		"Acute Bronchitis", "Lumbar Strain", "Tension Headache",
		"Osteoarthritis", "Gastroesophageal Reflux Disease",
	}
	mockDiagnosisDetails = []string{
		"likely viral in origin", "due to mechanical factors",
		"likely stress-related", "showing signs of progression",
		"moderately controlled",
	}
	mockMedicationPlans = []string{
		"Prescribed amoxicillin 500mg TID for 7 days",
		"Recommended ibuprofen 400mg q6h PRN for pain",
		"Started on omeprazole 20mg daily",
		"Prescribed cyclobenzaprine 10mg QHS for 5 days",
		"Recommended acetaminophen 500mg q6h PRN for pain and fever",
	}
	mockFollowupPlans = []string{
		"Obtain chest X-ray to rule out pneumonia",
		"Complete blood count to check for infection markers",
		"Refer to physical therapy for evaluation and treatment",
		"Schedule for MRI of the affected area",
		"Advised to maintain food diary for two weeks",
	}
	mockFollowupTimings = []string{"1 week", "2 weeks", "10 days", "3-4 weeks", "one month"}
	mockChiefComplaints = []string{
		"severe headache", "shortness of breath", "abdominal pain",
		"dizziness", "chest pain",
	}
	mockOnsetTimes = []string{
		"yesterday", "two days ago", "this morning",
		"gradually over the past week", "suddenly while exercising",
	}
	mockGeneralAppearances = []string{
		"Alert and oriented x3, in mild distress",
		"Well-appearing, no acute distress",
		"Appears uncomfortable, shifting positions frequently",
		"Fatigued but alert and cooperative",
		"Mildly anxious but cooperative with exam",
	}
	mockPrimaryDiagnoses = []string{
		"Migraine without aura", "Community-acquired pneumonia", "Gastritis",
		"Benign paroxysmal positional vertigo", "Acute coronary syndrome",
	}
	mockChronicConditions = []string{
		"Hypertension", "Type 2 diabetes mellitus", "Asthma",
		"Osteoarthritis", "GERD",
	}
	mockConditions = []string{
		"Hypertension", "Type 2 Diabetes", "Migraine", "Anxiety Disorder",
		"GERD", "Osteoarthritis", "Asthma", "Depression",
	}
)

// mockVitals draws a vitals set from clinically plausible ranges so mock
// notes stay superficially realistic.
type mockVitals struct {
	systolic, diastolic, heartRate, respRate, spo2 int
	temp                                           float64
}

func drawVitals(r randSource) mockVitals {
	return mockVitals{
		systolic:  110 + r.Intn(31),
		diastolic: 70 + r.Intn(21),
		heartRate: 65 + r.Intn(31),
		respRate:  12 + r.Intn(9),
		spo2:      95 + r.Intn(5),
		temp:      97.6 + r.Float64()*1.8,
	}
}

// mockSOAPNarrative fills one of two markdown SOAP templates with randomly
// chosen clinical vocabulary.
func mockSOAPNarrative(r randSource) string {
	v := drawVitals(r)
	if r.Intn(2) == 0 {
		return fmt.Sprintf(`# SOAP Notes

## Subjective
Patient reports %s for %s. %s. Patient describes the pain as %s. No reported fever or chills.

## Objective
- BP: %d/%d mmHg
- HR: %d bpm
- RR: %d breaths/min
- Temp: %.1f°F
- SpO2: %d%% on room air

Physical examination reveals %s.

## Assessment
1. %s - %s

## Plan
1. %s
2. %s
3. Follow up in %s to reassess.
`,
			pick(r, mockSymptoms), pick(r, mockDurations), pick(r, mockComplaints),
			pick(r, mockPainDescriptions),
			v.systolic, v.diastolic, v.heartRate, v.respRate, v.temp, v.spo2,
			pick(r, mockPhysicalFindings),
			pick(r, mockDiagnoses), pick(r, mockDiagnosisDetails),
			pick(r, mockMedicationPlans), pick(r, mockFollowupPlans),
			pick(r, mockFollowupTimings))
	}

	age := 25 + r.Intn(51)
	painLevel := 4 + r.Intn(5)
	return fmt.Sprintf(`# Patient SOAP Documentation

### S (Subjective)
Patient is a %d-year-old presenting with chief complaint of "%s" that started %s. Patient rates pain as %d/10.

### O (Objective)
Vitals: T %.1f°F, BP %d/%d, HR %d, RR %d, O2 Sat %d%%
General: %s

### A (Assessment)
1. %s
2. %s (pre-existing)

### P (Plan)
1. Medications: %s
2. Diagnostics: %s
3. Follow-up: follow up with PCP in %s.
`,
		age, pick(r, mockChiefComplaints), pick(r, mockOnsetTimes), painLevel,
		v.temp, v.systolic, v.diastolic, v.heartRate, v.respRate, v.spo2,
		pick(r, mockGeneralAppearances),
		pick(r, mockPrimaryDiagnoses), pick(r, mockChronicConditions),
		pick(r, mockMedicationPlans), pick(r, mockFollowupPlans),
		pick(r, mockFollowupTimings))
}

// mockStructured synthesizes schema-conformant JSON for the given response
// schema: structured SOAP, differential diagnosis, or the generic field
// fallback.
func mockStructured(r randSource, schema *genai.Schema) string {
	switch {
	case isSOAPSchema(schema):
		return mockStructuredSOAP(r)
	case isDifferentialSchema(schema):
		return mockDifferential(r)
	default:
		return mockGenericFields(r, schema)
	}
}

// isSOAPSchema matches an object schema whose top-level fields are exactly
// subjective/objective/assessment/plan.
func isSOAPSchema(schema *genai.Schema) bool {
	if schema == nil || schema.Type != genai.TypeObject || len(schema.Properties) != 4 {
		return false
	}
	for _, key := range []string{"subjective", "objective", "assessment", "plan"} {
		if _, ok := schema.Properties[key]; !ok {
			return false
		}
	}
	return true
}

// isDifferentialSchema matches an array-of-objects schema whose item fields
// include "condition".
func isDifferentialSchema(schema *genai.Schema) bool {
	if schema == nil || schema.Type != genai.TypeArray || schema.Items == nil {
		return false
	}
	_, ok := schema.Items.Properties["condition"]
	return ok
}

var (
	mockSubjectiveLines = []string{
		"Patient reports symptom onset within the last two weeks.",
		"Pain is described as intermittent and activity-related.",
		"Denies fever, chills, or recent weight loss.",
		"Reports partial relief with over-the-counter analgesics.",
		"Notes disrupted sleep secondary to discomfort.",
	}
	mockObjectiveLines = []string{
		"Vital signs within normal limits.",
		"No acute distress on examination.",
		"Mild tenderness to palpation at the affected site.",
		"Lungs clear to auscultation bilaterally.",
		"Regular heart rate and rhythm, no murmurs.",
	}
	mockAssessmentLines = []string{
		"Presentation consistent with a benign, self-limited process.",
		"Symptoms likely mechanical in origin.",
		"No red-flag findings identified at this visit.",
		"Differential includes musculoskeletal strain versus early degenerative change.",
		"Chronic comorbidities stable.",
	}
	mockPlanLines = []string{
		"Continue conservative management with analgesics as needed.",
		"Order baseline laboratory studies.",
		"Refer to physical therapy for evaluation.",
		"Patient educated on warning signs requiring urgent return.",
		"Follow up in two weeks to reassess.",
	}
)

func sampleLines(r randSource, options []string) []string {
	n := 3 + r.Intn(2) // 3-4 fragments per section
	perm := make([]int, len(options))
	for i := range perm {
		perm[i] = i
	}
	for i := len(perm) - 1; i > 0; i-- {
		j := r.Intn(i + 1)
		perm[i], perm[j] = perm[j], perm[i]
	}
	out := make([]string, 0, n)
	for _, idx := range perm[:n] {
		out = append(out, options[idx])
	}
	return out
}

func mockStructuredSOAP(r randSource) string {
	note := map[string][]string{
		"subjective": sampleLines(r, mockSubjectiveLines),
		"objective":  sampleLines(r, mockObjectiveLines),
		"assessment": sampleLines(r, mockAssessmentLines),
		"plan":       sampleLines(r, mockPlanLines),
	}
	data, _ := json.MarshalIndent(note, "", "  ")
	return string(data)
}

type differentialEntry struct {
	Condition  string `json:"condition"`
	Risk       string `json:"risk"`
	Confidence int    `json:"confidence"`
	Steps      string `json:"steps"`
}

var (
	mockRiskLevels = []string{"Low", "Moderate", "Critical"}
	mockNextSteps  = []string{
		"Order confirmatory laboratory workup.",
		"Obtain imaging of the affected region.",
		"Trial of first-line therapy and reassess in one week.",
		"Refer to the appropriate specialist for evaluation.",
		"Monitor symptoms and return if condition worsens.",
	}
)

// mockDifferential returns 3-5 sampled condition entries sorted by
// descending confidence.
func mockDifferential(r randSource) string {
	n := 3 + r.Intn(3)
	perm := make([]int, len(mockConditions))
	for i := range perm {
		perm[i] = i
	}
	for i := len(perm) - 1; i > 0; i-- {
		j := r.Intn(i + 1)
		perm[i], perm[j] = perm[j], perm[i]
	}

	entries := make([]differentialEntry, 0, n)
	for _, idx := range perm[:n] {
		entries = append(entries, differentialEntry{
			Condition:  mockConditions[idx],
			Risk:       pick(r, mockRiskLevels),
			Confidence: r.Intn(101),
			Steps:      pick(r, mockNextSteps),
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Confidence > entries[j].Confidence
	})

	data, _ := json.MarshalIndent(entries, "", "  ")
	return string(data)
}

// mockGenericFields inspects the requested property names and fills each
// recognized one with a plausible random value. Unrecognized properties are
// left absent, not null-filled.
func mockGenericFields(r randSource, schema *genai.Schema) string {
	result := map[string]any{}
	var props map[string]*genai.Schema
	if schema != nil {
		props = schema.Properties
	}

	if riskSchema, ok := props["Risk"]; ok {
		levels := riskSchema.Enum
		if len(levels) == 0 {
			levels = []string{"Low", "Medium", "High"}
		}
		result["Risk"] = pick(r, levels)
	}
	if _, ok := props["Condition"]; ok {
		result["Condition"] = pick(r, mockConditions)
	}
	if _, ok := props["Age"]; ok {
		result["Age"] = 25 + r.Intn(56)
	}
	if _, ok := props["LastVisit"]; ok {
		daysAgo := 1 + r.Intn(90)
		result["LastVisit"] = time.Now().AddDate(0, 0, -daysAgo).Format("2006-01-02")
	}

	data, _ := json.MarshalIndent(result, "", "  ")
	return string(data)
}
