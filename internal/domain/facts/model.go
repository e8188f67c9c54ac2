package facts

import "time"

// Diagnosis is one coded condition carried over from the patient archetype.
type Diagnosis struct {
	Code  string `json:"code"`
	Text  string `json:"text"`
	Since string `json:"since,omitempty"`
}

// KeyLabs holds the eligibility-relevant lab values. These are resampled
// from the archetype ranges at extraction time, independently of the values
// embedded in any generated document.
type KeyLabs struct {
	A1C  float64 `json:"a1c"`
	EGFR float64 `json:"eGFR"`
	LDL  float64 `json:"ldl"`
	SBP  float64 `json:"sbp"`
	DBP  float64 `json:"dbp"`
}

// DerivedClinicalFacts is the compact structured projection of a patient's
// archetype used for eligibility-style display.
type DerivedClinicalFacts struct {
	PatientID   string      `json:"patientId"`
	AgeYears    int         `json:"ageYears"`
	Sex         string      `json:"sex"`
	Diagnoses   []Diagnosis `json:"diagnoses"`
	Medications []string    `json:"medications"`
	KeyLabs     KeyLabs     `json:"keyLabs"`
	Exclusions  []string    `json:"exclusions"`
	Location    string      `json:"location"`
	ExtractedAt time.Time   `json:"extractedAt"`
}
