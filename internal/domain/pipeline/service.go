package pipeline

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/trialmatch/trialmatch/internal/domain/facts"
	"github.com/trialmatch/trialmatch/internal/domain/resource"
)

// Demographics supplies patient age/sex/location for gold-profile
// enrichment. Satisfied by the derived-facts service.
type Demographics interface {
	GetByPatient(ctx context.Context, patientID string) (*facts.DerivedClinicalFacts, error)
}

// Service runs documents through the bronze/silver/gold layers and keeps the
// layer contents in memory. Regeneration resets all three layers.
type Service struct {
	demographics Demographics

	mu       sync.RWMutex
	bronze   []BronzeDocument
	silver   []SilverEntity
	gold     map[string]*GoldProfile
	goldIDs  []string // insertion order for stable listings
	lastRun  time.Time
	runCount int
}

func NewService(demographics Demographics) *Service {
	return &Service{
		demographics: demographics,
		gold:         map[string]*GoldProfile{},
	}
}

// ProcessDocument ingests one raw document: bronze record, silver entity
// extraction, and a gold-profile refresh for the owning patient.
func (s *Service) ProcessDocument(ctx context.Context, patientID, documentType, content string) (*ProcessResult, error) {
	if patientID == "" {
		return nil, fmt.Errorf("patient id is required")
	}
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("document content is required")
	}

	now := time.Now().UTC()
	doc := BronzeDocument{
		DocumentID:   "doc_" + uuid.NewString(),
		PatientID:    patientID,
		SourceSystem: "API_Upload",
		DocumentType: documentType,
		RawContent:   content,
		IngestedAt:   now,
	}
	entities := Extract(patientID, content, now)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.bronze = append(s.bronze, doc)
	s.silver = append(s.silver, entities...)
	s.runCount++
	s.lastRun = now

	result := &ProcessResult{
		BronzeDocumentID:        doc.DocumentID,
		SilverEntitiesExtracted: len(entities),
		SilverEntities:          entities,
	}

	profile := s.refreshGoldLocked(ctx, patientID, now)
	if profile != nil {
		result.GoldProfileUpdated = true
		result.BusinessValue = profile.BusinessValue
		result.GoldProfile = profile
	}
	return result, nil
}

// Seed primes the pipeline from a freshly generated batch: every synthesized
// document is ingested as a bronze record so the dashboard tiles have
// non-zero layer counts before any manual upload.
func (s *Service) Seed(ctx context.Context, batch []*resource.EHRResource) {
	now := time.Now().UTC()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.bronze = nil
	s.silver = nil
	s.gold = map[string]*GoldProfile{}
	s.goldIDs = nil
	s.runCount = 0

	seen := map[string]bool{}
	for _, r := range batch {
		pid := r.Metadata.Identifier.PatientID
		s.bronze = append(s.bronze, BronzeDocument{
			DocumentID:   "doc_" + r.Metadata.Identifier.Key,
			PatientID:    pid,
			SourceSystem: "SyntheticBatch",
			DocumentType: r.Metadata.ResourceType,
			RawContent:   r.HumanReadableStr,
			IngestedAt:   now,
		})
		s.silver = append(s.silver, Extract(pid, r.HumanReadableStr, now)...)
		s.runCount++
		seen[pid] = true
	}
	s.lastRun = now

	for _, r := range batch {
		pid := r.Metadata.Identifier.PatientID
		if seen[pid] {
			s.refreshGoldLocked(ctx, pid, now)
			seen[pid] = false
		}
	}
}

// refreshGoldLocked rebuilds a patient's gold profile from the entities
// accumulated so far. Caller holds s.mu.
func (s *Service) refreshGoldLocked(ctx context.Context, patientID string, now time.Time) *GoldProfile {
	var medications, diagnoses, contraindications []string
	seenMed := map[string]bool{}
	seenDx := map[string]bool{}
	var entities []SilverEntity
	for _, e := range s.silver {
		if e.PatientID != patientID {
			continue
		}
		entities = append(entities, e)
		switch e.EntityType {
		case "medication":
			name := strings.Fields(e.EntityValue)[0]
			if !seenMed[name] {
				seenMed[name] = true
				medications = append(medications, e.EntityValue)
			}
		case "diagnosis":
			if !seenDx[e.EntityValue] {
				seenDx[e.EntityValue] = true
				diagnoses = append(diagnoses, e.EntityValue)
			}
		case "contraindication":
			contraindications = append(contraindications, e.EntityValue)
		}
	}

	primary := diagnoses
	var comorbidities []string
	if len(diagnoses) > 3 {
		primary = diagnoses[:3]
		comorbidities = diagnoses[3:]
	}

	profile := &GoldProfile{
		PatientID:          patientID,
		PrimaryConditions:  primary,
		Comorbidities:      comorbidities,
		CurrentMedications: medications,
		Contraindications:  contraindications,
		TrialEligibility: map[string]string{
			"diabetes_controlled": assessDiabetesControl(entities),
			"renal_function":      assessRenalFunction(entities),
			"cardiac_risk":        assessCardiacRisk(entities),
		},
		EnrichedAt: now,
	}
	if s.demographics != nil {
		if df, err := s.demographics.GetByPatient(ctx, patientID); err == nil {
			profile.AgeYears = df.AgeYears
			profile.Sex = df.Sex
			profile.GeographicLocation = df.Location
		}
	}
	profile.BusinessValue = profile.businessValue()

	if _, exists := s.gold[patientID]; !exists {
		s.goldIDs = append(s.goldIDs, patientID)
	}
	s.gold[patientID] = profile
	return profile
}

// GoldProfiles lists profiles in first-enrichment order.
func (s *Service) GoldProfiles(context.Context) ([]*GoldProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*GoldProfile, 0, len(s.goldIDs))
	for _, id := range s.goldIDs {
		out = append(out, s.gold[id])
	}
	return out, nil
}

// SilverEntities lists extracted entities, optionally filtered.
func (s *Service) SilverEntities(_ context.Context, entityType, patientID string) ([]SilverEntity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []SilverEntity{}
	for _, e := range s.silver {
		if entityType != "" && e.EntityType != entityType {
			continue
		}
		if patientID != "" && e.PatientID != patientID {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

// Stats reports per-layer counts and quality averages for dashboard tiles.
func (s *Service) Stats(context.Context) (*Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := &Stats{
		Layers: LayerCounts{
			BronzeDocuments: len(s.bronze),
			SilverEntities:  len(s.silver),
			GoldProfiles:    len(s.gold),
		},
		TotalTransformations: s.runCount,
	}
	if len(s.silver) > 0 {
		sum := 0.0
		for _, e := range s.silver {
			sum += e.ConfidenceScore
		}
		st.AvgEntityConfidence = sum / float64(len(s.silver))
	}
	if len(s.gold) > 0 {
		sum := 0.0
		for _, p := range s.gold {
			sum += p.BusinessValue
		}
		st.AvgBusinessValue = sum / float64(len(s.gold))
	}
	if !s.lastRun.IsZero() {
		t := s.lastRun
		st.LastTransformation = &t
	}
	return st, nil
}
