package pipeline

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Regex-based entity extraction standing in for an NLP stage. Patterns cover
// the vocabulary the synthesizer can emit.

var medicationPattern = regexp.MustCompile(
	`(metformin|lisinopril|atorvastatin|amlodipine|glipizide|losartan|furosemide|semaglutide)\s*(\d+\s*mg)?`)

var diagnosisPatterns = []struct {
	re      *regexp.Regexp
	icd10   string
	display string
}{
	{regexp.MustCompile(`type\s+2\s+diabetes`), "E11.9", "Type 2 Diabetes"},
	{regexp.MustCompile(`hypertension`), "I10", "Essential Hypertension"},
	{regexp.MustCompile(`hyperlipidemia`), "E78.5", "Hyperlipidemia"},
	{regexp.MustCompile(`chronic\s+kidney\s+disease`), "N18.3", "Chronic kidney disease"},
	{regexp.MustCompile(`obesity`), "E66.9", "Obesity"},
}

var labPatterns = []struct {
	re   *regexp.Regexp
	name string
}{
	{regexp.MustCompile(`a1c:?\s*(\d+\.?\d*)\s*%`), "hemoglobin_a1c"},
	{regexp.MustCompile(`glucose:?\s*(\d+)\s*mg/dl`), "glucose"},
	{regexp.MustCompile(`creatinine:?\s*(\d+\.?\d*)\s*mg/dl`), "creatinine"},
	{regexp.MustCompile(`egfr:?\s*(\d+)`), "egfr"},
	{regexp.MustCompile(`ldl\s+cholesterol:?\s*(\d+)`), "ldl_cholesterol"},
	{regexp.MustCompile(`hdl\s+cholesterol:?\s*(\d+)`), "hdl_cholesterol"},
}

var rxnormCodes = map[string]string{
	"metformin":    "6809",
	"lisinopril":   "29046",
	"atorvastatin": "83367",
	"amlodipine":   "17767",
}

var loincCodes = map[string]string{
	"hemoglobin_a1c": "4548-4",
	"glucose":        "2345-7",
	"creatinine":     "2160-0",
	"egfr":           "33914-3",
}

// Extract runs all entity extractors over one document body.
func Extract(patientID, content string, now time.Time) []SilverEntity {
	text := strings.ToLower(content)

	var entities []SilverEntity
	entities = append(entities, extractMedications(patientID, text, now)...)
	entities = append(entities, extractDiagnoses(patientID, text, now)...)
	entities = append(entities, extractLabValues(patientID, text, now)...)
	return entities
}

func extractMedications(patientID, text string, now time.Time) []SilverEntity {
	var out []SilverEntity
	for _, m := range medicationPattern.FindAllStringSubmatch(text, -1) {
		name := m[1]
		value := name
		if dose := strings.TrimSpace(m[2]); dose != "" {
			value = name + " " + dose
		}
		e := SilverEntity{
			PatientID:       patientID,
			EntityType:      "medication",
			EntityValue:     value,
			ConfidenceScore: 0.9,
			ExtractedFrom:   strings.TrimSpace(m[0]),
			NormalizedCode:  rxnormCodes[name],
			ProcessedAt:     now,
		}
		e.QualityScore = e.qualityScore()
		out = append(out, e)
	}
	return out
}

func extractDiagnoses(patientID, text string, now time.Time) []SilverEntity {
	var out []SilverEntity
	for _, p := range diagnosisPatterns {
		for _, m := range p.re.FindAllString(text, -1) {
			e := SilverEntity{
				PatientID:       patientID,
				EntityType:      "diagnosis",
				EntityValue:     p.display,
				ConfidenceScore: 0.95,
				ExtractedFrom:   m,
				NormalizedCode:  p.icd10,
				ProcessedAt:     now,
			}
			e.QualityScore = e.qualityScore()
			out = append(out, e)
		}
	}
	return out
}

func extractLabValues(patientID, text string, now time.Time) []SilverEntity {
	var out []SilverEntity
	for _, p := range labPatterns {
		for _, m := range p.re.FindAllStringSubmatch(text, -1) {
			e := SilverEntity{
				PatientID:       patientID,
				EntityType:      "lab_value",
				EntityValue:     p.name + ": " + m[1],
				ConfidenceScore: 0.85,
				ExtractedFrom:   strings.TrimSpace(m[0]),
				NormalizedCode:  loincCodes[p.name],
				ProcessedAt:     now,
			}
			e.QualityScore = e.qualityScore()
			out = append(out, e)
		}
	}
	return out
}

// -- Clinical assessments over extracted entities --

func assessDiabetesControl(entities []SilverEntity) string {
	a1c, ok := firstLabValue(entities, "hemoglobin_a1c")
	if !ok {
		return "unknown"
	}
	switch {
	case a1c < 7.0:
		return "well_controlled"
	case a1c < 8.0:
		return "moderately_controlled"
	default:
		return "poorly_controlled"
	}
}

func assessRenalFunction(entities []SilverEntity) string {
	egfr, ok := firstLabValue(entities, "egfr")
	if !ok {
		return "unknown"
	}
	switch {
	case egfr >= 90:
		return "normal"
	case egfr >= 60:
		return "mild_impairment"
	case egfr >= 30:
		return "moderate_impairment"
	default:
		return "severe_impairment"
	}
}

func assessCardiacRisk(entities []SilverEntity) string {
	factors := 0
	for _, marker := range []string{"hypertension", "hyperlipidemia", "diabetes"} {
		for _, e := range entities {
			if e.EntityType == "diagnosis" && strings.Contains(strings.ToLower(e.EntityValue), marker) {
				factors++
				break
			}
		}
	}
	switch {
	case factors >= 3:
		return "high"
	case factors >= 2:
		return "moderate"
	case factors >= 1:
		return "low"
	default:
		return "minimal"
	}
}

func firstLabValue(entities []SilverEntity, name string) (float64, bool) {
	for _, e := range entities {
		if e.EntityType != "lab_value" || !strings.HasPrefix(e.EntityValue, name+":") {
			continue
		}
		raw := strings.TrimSpace(strings.TrimPrefix(e.EntityValue, name+":"))
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			continue
		}
		return v, true
	}
	return 0, false
}
