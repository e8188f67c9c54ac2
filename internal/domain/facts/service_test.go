package facts

import (
	"context"
	"errors"
	"testing"
	"time"
)

func testFacts() []*DerivedClinicalFacts {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	return []*DerivedClinicalFacts{
		{
			PatientID: "P001",
			AgeYears:  58,
			Sex:       "female",
			Diagnoses: []Diagnosis{
				{Code: "E11.9", Text: "Type 2 Diabetes without complications", Since: "2017"},
			},
			Medications: []string{"metformin", "lisinopril"},
			KeyLabs:     KeyLabs{A1C: 8.4, EGFR: 92, LDL: 120, SBP: 144, DBP: 88},
			Exclusions:  []string{},
			Location:    "53703",
			ExtractedAt: now,
		},
		{PatientID: "P002", AgeYears: 63, Sex: "male", ExtractedAt: now},
	}
}

func TestGetByPatient(t *testing.T) {
	svc := NewService(NewMemoryRepo(testFacts()))

	f, err := svc.GetByPatient(context.Background(), "P001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.KeyLabs.A1C != 8.4 {
		t.Errorf("expected a1c 8.4, got %v", f.KeyLabs.A1C)
	}

	if _, err := svc.GetByPatient(context.Background(), "P404"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := svc.GetByPatient(context.Background(), ""); err == nil {
		t.Error("expected error for empty patient id")
	}
}

func TestListAndReplace(t *testing.T) {
	svc := NewService(NewMemoryRepo(testFacts()))

	all, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 fact sets, got %d", len(all))
	}

	if err := svc.Replace(context.Background(), testFacts()[:1]); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	all, _ = svc.List(context.Background())
	if len(all) != 1 {
		t.Fatalf("expected 1 after replace, got %d", len(all))
	}
}
