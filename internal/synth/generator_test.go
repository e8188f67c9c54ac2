package synth

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/trialmatch/trialmatch/internal/domain/resource"
)

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func testGenerator(seed uint64) *Generator {
	return New(Options{Seed: seed, Now: testNow})
}

func TestGenerateOnePatientPerArchetype(t *testing.T) {
	ds := testGenerator(1).Generate(DefaultArchetypes)

	if len(ds.Patients) != len(DefaultArchetypes) {
		t.Fatalf("expected %d patients, got %d", len(DefaultArchetypes), len(ds.Patients))
	}
	for i, p := range ds.Patients {
		want := fmt.Sprintf("P%03d", i+1)
		if p.ID != want {
			t.Errorf("patient %d: expected id %s, got %s", i, want, p.ID)
		}
		if p.Preferences == nil {
			t.Fatalf("patient %s has no preferences", p.ID)
		}
		focus := strings.Join(p.Preferences.ConditionFocus, ",")
		wantFocus := strings.Join(DefaultArchetypes[i].ConditionFocus, ",")
		if focus != wantFocus {
			t.Errorf("patient %s: condition focus %q, want archetype's %q", p.ID, focus, wantFocus)
		}
	}
}

func TestGenerateResourceCountBounds(t *testing.T) {
	archetypes := DefaultArchetypes[:3]
	ds := testGenerator(2).Generate(archetypes)

	if n := len(ds.Resources); n < 9 || n > 18 {
		t.Fatalf("3 archetypes at 3..6 each must yield 9..18 resources, got %d", n)
	}
	if ds.Manifest.ResourceCount != len(ds.Resources) {
		t.Errorf("manifest count %d != %d", ds.Manifest.ResourceCount, len(ds.Resources))
	}
}

func TestGeneratedResourcesAreValid(t *testing.T) {
	ds := testGenerator(3).Generate(DefaultArchetypes)

	for _, r := range ds.Resources {
		if err := r.Validate(); err != nil {
			t.Errorf("resource %s: %v", r.Metadata.Identifier.Key, err)
		}
	}
}

func TestLifecycleInvariants(t *testing.T) {
	ds := testGenerator(4).Generate(DefaultArchetypes)

	for _, r := range ds.Resources {
		m := r.Metadata
		if m.FetchTime.Before(m.CreatedTime) {
			t.Errorf("%s: fetchTime before createdTime", m.Identifier.Key)
		}
		switch m.State {
		case resource.StateCompleted:
			if m.ProcessedTime == nil {
				t.Errorf("%s: COMPLETED without processedTime", m.Identifier.Key)
			} else if m.ProcessedTime.Before(m.FetchTime) {
				t.Errorf("%s: processedTime before fetchTime", m.Identifier.Key)
			}
			if r.AISummary == nil || *r.AISummary == "" {
				t.Errorf("%s: COMPLETED without aiSummary", m.Identifier.Key)
			}
		default:
			if m.ProcessedTime != nil {
				t.Errorf("%s: state %s with processedTime", m.Identifier.Key, m.State)
			}
			if r.AISummary != nil {
				t.Errorf("%s: state %s with aiSummary", m.Identifier.Key, m.State)
			}
		}
	}
}

func TestUIDsUniqueAcrossBatch(t *testing.T) {
	ds := testGenerator(5).Generate(DefaultArchetypes)

	uids := make(map[string]bool)
	prev := 0
	for _, r := range ds.Resources {
		uid := r.Metadata.Identifier.UID
		if uids[uid] {
			t.Fatalf("duplicate uid %s", uid)
		}
		uids[uid] = true

		var n int
		if _, err := fmt.Sscanf(uid, "%04d", &n); err != nil {
			t.Fatalf("uid %q not numeric: %v", uid, err)
		}
		if n != prev+1 {
			t.Fatalf("uid %s breaks the counter after %d", uid, prev)
		}
		prev = n
	}
}

func TestKeysScopedPerPatient(t *testing.T) {
	ds := testGenerator(6).Generate(DefaultArchetypes)

	seq := make(map[string]int)
	keys := make(map[string]bool)
	for _, r := range ds.Resources {
		id := r.Metadata.Identifier
		seq[id.PatientID]++
		want := fmt.Sprintf("res_%s_%04d", id.PatientID, seq[id.PatientID])
		if id.Key != want {
			t.Errorf("expected key %s, got %s", want, id.Key)
		}
		if keys[id.Key] {
			t.Errorf("duplicate key %s", id.Key)
		}
		keys[id.Key] = true
	}
}

func TestSameSeedSameDataset(t *testing.T) {
	a := testGenerator(42).Generate(DefaultArchetypes)
	b := testGenerator(42).Generate(DefaultArchetypes)

	if len(a.Resources) != len(b.Resources) {
		t.Fatalf("resource counts differ: %d vs %d", len(a.Resources), len(b.Resources))
	}
	for i := range a.Resources {
		ra, rb := a.Resources[i], b.Resources[i]
		if ra.Metadata.Identifier != rb.Metadata.Identifier {
			t.Errorf("resource %d: identifiers differ", i)
		}
		if ra.Metadata.State != rb.Metadata.State {
			t.Errorf("resource %d: states differ", i)
		}
		if !ra.Metadata.CreatedTime.Equal(rb.Metadata.CreatedTime) {
			t.Errorf("resource %d: createdTime differs", i)
		}
		if ra.HumanReadableStr != rb.HumanReadableStr {
			t.Errorf("resource %d: bodies differ", i)
		}
	}
	for i := range a.Patients {
		if a.Patients[i].Name != b.Patients[i].Name {
			t.Errorf("patient %d: names differ", i)
		}
	}
}

func TestDifferentSeedsDiverge(t *testing.T) {
	a := testGenerator(1).Generate(DefaultArchetypes)
	b := testGenerator(2).Generate(DefaultArchetypes)

	if len(a.Resources) == len(b.Resources) {
		same := true
		for i := range a.Resources {
			if a.Resources[i].HumanReadableStr != b.Resources[i].HumanReadableStr {
				same = false
				break
			}
		}
		if same {
			t.Fatal("different seeds produced identical document bodies")
		}
	}
}

func TestDerivedFactsPerPatient(t *testing.T) {
	ds := testGenerator(7).Generate(DefaultArchetypes)

	if len(ds.DerivedFacts) != len(ds.Patients) {
		t.Fatalf("expected %d fact sets, got %d", len(ds.Patients), len(ds.DerivedFacts))
	}
	for i, f := range ds.DerivedFacts {
		a := DefaultArchetypes[i]
		if f.PatientID != ds.Patients[i].ID {
			t.Errorf("facts %d: patient id %s, want %s", i, f.PatientID, ds.Patients[i].ID)
		}
		if f.AgeYears < a.AgeMin || f.AgeYears > a.AgeMax {
			t.Errorf("facts %d: age %d outside %d..%d", i, f.AgeYears, a.AgeMin, a.AgeMax)
		}
		if f.Sex != a.Sex {
			t.Errorf("facts %d: sex %s, want %s", i, f.Sex, a.Sex)
		}
		if f.KeyLabs.A1C < a.A1CMin || f.KeyLabs.A1C > a.A1CMax+0.1 {
			t.Errorf("facts %d: a1c %.1f outside archetype range", i, f.KeyLabs.A1C)
		}
		if len(f.Diagnoses) != len(a.Diagnoses) {
			t.Errorf("facts %d: %d diagnoses, want %d", i, len(f.Diagnoses), len(a.Diagnoses))
		}
	}
}

func TestCustomResourceBounds(t *testing.T) {
	gen := New(Options{Seed: 8, Now: testNow, MinResources: 2, MaxResources: 2})
	ds := gen.Generate(DefaultArchetypes)

	if want := 2 * len(DefaultArchetypes); len(ds.Resources) != want {
		t.Fatalf("expected exactly %d resources, got %d", want, len(ds.Resources))
	}
}

func TestZeroSeedIsReplaced(t *testing.T) {
	g := New(Options{Now: testNow})
	if g.seed == 0 {
		t.Fatal("expected a non-zero seed to be chosen")
	}
}
