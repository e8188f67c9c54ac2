package synth

import "github.com/trialmatch/trialmatch/internal/domain/resource"

// Fixed AI-summary pools keyed by resource type. COMPLETED resources get one
// line drawn uniformly from the pool for their type.
var summaryPools = map[string][]string{
	resource.TypeLabReport: {
		"Poor glycemic control indicated by elevated A1C; lipid management needed.",
		"Diabetes well-controlled; renal function stable for continued metformin use.",
		"Suboptimal glucose control; consider medication intensification.",
	},
	resource.TypeClinicalNote: {
		"Diabetes and hypertension with elevated BP; lifestyle counseling reinforced.",
		"Stable chronic conditions; medication adherence good; routine follow-up planned.",
		"Multiple comorbidities requiring ongoing management and monitoring.",
	},
	resource.TypeDischargeSummary: {
		"Hypoglycemia episode resolved; patient education provided on prevention.",
		"Brief hospitalization for diabetes-related complication; stable at discharge.",
		"Routine discharge after successful management of acute episode.",
	},
	resource.TypeMedicationList: {
		"Standard diabetes and hypertension regimen; adherence generally acceptable.",
		"Current medications appropriate for comorbidities; no immediate changes needed.",
		"Multi-drug regimen for diabetes management; monitoring for drug interactions.",
	},
}

const genericSummary = "Standard clinical documentation reviewed."

// Summary picks one AI-summary line for the given resource type, falling back
// to a generic line for types without a dedicated pool.
func (g *Generator) Summary(resourceType string) string {
	pool, ok := summaryPools[resourceType]
	if !ok {
		return genericSummary
	}
	return pool[g.faker.Number(0, len(pool)-1)]
}
