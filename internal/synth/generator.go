package synth

import (
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/segmentio/ksuid"

	"github.com/trialmatch/trialmatch/internal/domain/facts"
	"github.com/trialmatch/trialmatch/internal/domain/patient"
	"github.com/trialmatch/trialmatch/internal/domain/resource"
)

// Options configures one generation run.
type Options struct {
	// Seed makes the run reproducible. Zero picks an arbitrary seed.
	Seed uint64
	// MinResources/MaxResources bound the per-patient resource count.
	// Zero values default to 3 and 6.
	MinResources int
	MaxResources int
	// Now anchors all time windows. Zero value means time.Now().
	Now time.Time
}

// Manifest describes one generated batch.
type Manifest struct {
	BatchID       string    `json:"batchId"`
	Seed          uint64    `json:"seed"`
	PatientCount  int       `json:"patientCount"`
	ResourceCount int       `json:"resourceCount"`
	GeneratedAt   time.Time `json:"generatedAt"`
}

// Dataset is the complete output of one batch job: the three persisted
// documents plus the batch manifest.
type Dataset struct {
	Manifest     Manifest                      `json:"manifest"`
	Patients     []*patient.Profile            `json:"patients"`
	Resources    []*resource.EHRResource       `json:"resources"`
	DerivedFacts []*facts.DerivedClinicalFacts `json:"derivedFacts"`
}

// Generator synthesizes patients, EHR resources, and derived facts from a
// fixed archetype table. It is a pure batch step over its own seeded
// randomness; two generators with the same seed and clock produce identical
// datasets.
type Generator struct {
	faker *gofakeit.Faker
	seed  uint64
	now   time.Time

	minResources int
	maxResources int
}

// New builds a Generator from Options.
func New(opts Options) *Generator {
	seed := opts.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}
	minRes, maxRes := opts.MinResources, opts.MaxResources
	if minRes <= 0 {
		minRes = 3
	}
	if maxRes < minRes {
		maxRes = minRes + 3
	}
	return &Generator{
		faker:        gofakeit.New(seed),
		seed:         seed,
		now:          now,
		minResources: minRes,
		maxResources: maxRes,
	}
}

// Generate produces one complete dataset, one patient per archetype in list
// order.
func (g *Generator) Generate(archetypes []Archetype) *Dataset {
	ds := &Dataset{}

	for i, a := range archetypes {
		ds.Patients = append(ds.Patients, g.profile(i, a))
	}

	uid := 0
	for i, a := range archetypes {
		ds.Resources = append(ds.Resources, g.resources(ds.Patients[i].ID, a, &uid)...)
	}

	for i, a := range archetypes {
		ds.DerivedFacts = append(ds.DerivedFacts, g.derivedFacts(ds.Patients[i].ID, a))
	}

	ds.Manifest = Manifest{
		BatchID:       ksuid.New().String(),
		Seed:          g.seed,
		PatientCount:  len(ds.Patients),
		ResourceCount: len(ds.Resources),
		GeneratedAt:   g.now,
	}
	return ds
}

func (g *Generator) profile(index int, a Archetype) *patient.Profile {
	return &patient.Profile{
		ID:           fmt.Sprintf("P%03d", index+1),
		Name:         g.faker.Name(),
		Email:        g.faker.Email(),
		ConsentGiven: true,
		Preferences: &patient.Preferences{
			PreferredLocation:    midTierCities[g.faker.Number(0, len(midTierCities)-1)],
			WillingToTravel:      g.faker.Bool(),
			ConditionFocus:       a.ConditionFocus,
			TrialPhasePreference: g.sample(trialPhases, g.faker.Number(1, 2)),
			TrialType:            g.sample(trialTypes, g.faker.Number(1, 2)),
		},
		CreatedAt: g.faker.DateRange(g.now.AddDate(-1, 0, 0), g.now),
	}
}

func (g *Generator) resources(patientID string, a Archetype, uid *int) []*resource.EHRResource {
	types := resource.Types()
	count := g.faker.Number(g.minResources, g.maxResources)

	out := make([]*resource.EHRResource, 0, count)
	for seq := 1; seq <= count; seq++ {
		*uid++
		resourceType := types[g.faker.Number(0, len(types)-1)]

		created := g.faker.DateRange(g.now.AddDate(-1, 0, 0), g.now)
		fetched := created.Add(time.Duration(g.faker.Number(1000, 10000)) * time.Millisecond)
		state := g.state()

		r := &resource.EHRResource{
			Metadata: resource.Metadata{
				State:       state,
				CreatedTime: created,
				FetchTime:   fetched,
				Identifier: resource.Identifier{
					Key:       fmt.Sprintf("res_%s_%04d", patientID, seq),
					UID:       fmt.Sprintf("%04d", *uid),
					PatientID: patientID,
				},
				ResourceType: resourceType,
				Version:      g.version(),
			},
			HumanReadableStr: g.document(resourceType, patientID, a),
		}
		if state == resource.StateCompleted {
			processed := fetched.Add(time.Duration(g.faker.Number(5000, 59999)) * time.Millisecond)
			r.Metadata.ProcessedTime = &processed
			summary := g.Summary(resourceType)
			r.AISummary = &summary
		}
		out = append(out, r)
	}
	return out
}

// state draws a processing state from the weighted distribution
// {COMPLETED: 70, PROCESSING: 15, FAILED: 10, NOT_STARTED: 5}.
func (g *Generator) state() resource.ProcessingState {
	roll := g.faker.Number(1, 100)
	switch {
	case roll <= 70:
		return resource.StateCompleted
	case roll <= 85:
		return resource.StateProcessing
	case roll <= 95:
		return resource.StateFailed
	default:
		return resource.StateNotStarted
	}
}

func (g *Generator) version() resource.SchemaVersion {
	if g.faker.Bool() {
		return resource.VersionR4
	}
	return resource.VersionR4B
}

func (g *Generator) derivedFacts(patientID string, a Archetype) *facts.DerivedClinicalFacts {
	return &facts.DerivedClinicalFacts{
		PatientID:   patientID,
		AgeYears:    g.faker.Number(a.AgeMin, a.AgeMax),
		Sex:         a.Sex,
		Diagnoses:   a.Diagnoses,
		Medications: a.Medications,
		KeyLabs: facts.KeyLabs{
			A1C:  round1(g.faker.Float64Range(a.A1CMin, a.A1CMax)),
			EGFR: float64(g.faker.Number(75, 105)),
			LDL:  float64(g.faker.Number(100, 150)),
			SBP:  float64(g.faker.Number(135, 155)),
			DBP:  float64(g.faker.Number(85, 95)),
		},
		Exclusions:  g.sample(exclusionVocabulary, g.faker.Number(0, 1)),
		Location:    g.faker.Zip(),
		ExtractedAt: g.now,
	}
}

// sample draws n distinct elements from list, preserving list order.
func (g *Generator) sample(list []string, n int) []string {
	if n >= len(list) {
		n = len(list)
	}
	out := []string{}
	if n <= 0 {
		return out
	}
	picked := make(map[int]bool, n)
	for len(picked) < n {
		picked[g.faker.Number(0, len(list)-1)] = true
	}
	for i, s := range list {
		if picked[i] {
			out = append(out, s)
		}
	}
	return out
}
