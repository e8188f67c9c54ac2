package pipeline

import "time"

// BronzeDocument is a raw document as ingested, before any extraction.
type BronzeDocument struct {
	DocumentID   string    `json:"documentId"`
	PatientID    string    `json:"patientId"`
	SourceSystem string    `json:"sourceSystem"`
	DocumentType string    `json:"documentType"`
	RawContent   string    `json:"rawContent"`
	IngestedAt   time.Time `json:"ingestedAt"`
}

// SilverEntity is one clinical entity extracted and normalized from a
// bronze document.
type SilverEntity struct {
	PatientID       string    `json:"patientId"`
	EntityType      string    `json:"entityType"` // medication, diagnosis, lab_value
	EntityValue     string    `json:"entityValue"`
	ConfidenceScore float64   `json:"confidenceScore"`
	ExtractedFrom   string    `json:"extractedFrom"`
	NormalizedCode  string    `json:"normalizedCode,omitempty"` // RxNorm, ICD-10, LOINC
	QualityScore    float64   `json:"qualityScore"`
	ProcessedAt     time.Time `json:"processedAt"`
}

// qualityScore rates completeness: confidence plus a bonus for carrying a
// normalized code, capped at 1.
func (e *SilverEntity) qualityScore() float64 {
	score := e.ConfidenceScore
	if e.NormalizedCode != "" {
		score += 0.2
	}
	if score > 1 {
		score = 1
	}
	return score
}

// GoldProfile is the trial-matching-ready aggregation of a patient's
// extracted entities.
type GoldProfile struct {
	PatientID          string            `json:"patientId"`
	AgeYears           int               `json:"ageYears"`
	Sex                string            `json:"sex"`
	PrimaryConditions  []string          `json:"primaryConditions"`
	Comorbidities      []string          `json:"comorbidities"`
	CurrentMedications []string          `json:"currentMedications"`
	Contraindications  []string          `json:"contraindications"`
	GeographicLocation string            `json:"geographicLocation"`
	TrialEligibility   map[string]string `json:"trialEligibilityFactors"`
	BusinessValue      float64           `json:"businessValue"`
	EnrichedAt         time.Time         `json:"enrichedAt"`
}

// businessValue scores trial-matching readiness: 70% field completeness,
// 30% clinical richness.
func (p *GoldProfile) businessValue() float64 {
	present := 0
	if len(p.PrimaryConditions) > 0 {
		present++
	}
	if len(p.CurrentMedications) > 0 {
		present++
	}
	if p.GeographicLocation != "" {
		present++
	}
	if p.AgeYears > 0 {
		present++
	}
	if p.Sex != "" {
		present++
	}
	completeness := float64(present) / 5

	richness := float64(len(p.PrimaryConditions))*0.2 +
		float64(len(p.Comorbidities))*0.1 +
		float64(len(p.CurrentMedications))*0.1
	if richness > 1 {
		richness = 1
	}
	return completeness*0.7 + richness*0.3
}

// LayerCounts is the per-layer document tally shown on dashboard tiles.
type LayerCounts struct {
	BronzeDocuments int `json:"bronzeDocuments"`
	SilverEntities  int `json:"silverEntities"`
	GoldProfiles    int `json:"goldProfiles"`
}

// Stats is the cosmetic pipeline-stats payload.
type Stats struct {
	Layers               LayerCounts `json:"layers"`
	TotalTransformations int         `json:"totalTransformations"`
	AvgEntityConfidence  float64     `json:"avgEntityConfidence"`
	AvgBusinessValue     float64     `json:"avgBusinessValue"`
	LastTransformation   *time.Time  `json:"lastTransformation,omitempty"`
}

// ProcessResult reports one document's trip through the three layers.
type ProcessResult struct {
	BronzeDocumentID        string         `json:"bronzeDocumentId"`
	SilverEntitiesExtracted int            `json:"silverEntitiesExtracted"`
	GoldProfileUpdated      bool           `json:"goldProfileUpdated"`
	BusinessValue           float64        `json:"businessValue"`
	SilverEntities          []SilverEntity `json:"silverEntities"`
	GoldProfile             *GoldProfile   `json:"goldProfile,omitempty"`
}
