package synth

import "github.com/trialmatch/trialmatch/internal/domain/facts"

// Archetype is a fixed template of clinical characteristics. Every random
// draw the synthesizer makes is parameterized by one of these, so the text,
// labs, and medications of a patient's documents stay internally consistent.
type Archetype struct {
	AgeMin, AgeMax int
	Sex            string
	Diagnoses      []facts.Diagnosis
	Medications    []string
	A1CMin, A1CMax float64
	ConditionFocus []string
}

// DefaultArchetypes is the hand-authored diabetes/hypertension archetype
// table. Never mutated at runtime.
var DefaultArchetypes = []Archetype{
	{
		AgeMin: 45, AgeMax: 65,
		Sex: "female",
		Diagnoses: []facts.Diagnosis{
			{Code: "E11.9", Text: "Type 2 Diabetes without complications", Since: "2017"},
			{Code: "I10", Text: "Essential Hypertension", Since: "2019"},
		},
		Medications:    []string{"metformin", "lisinopril"},
		A1CMin:         7.8, A1CMax: 9.2,
		ConditionFocus: []string{"type 2 diabetes", "hypertension"},
	},
	{
		AgeMin: 50, AgeMax: 70,
		Sex: "male",
		Diagnoses: []facts.Diagnosis{
			{Code: "E11.9", Text: "Type 2 Diabetes without complications", Since: "2015"},
			{Code: "I10", Text: "Essential Hypertension", Since: "2018"},
			{Code: "E78.5", Text: "Hyperlipidemia", Since: "2020"},
		},
		Medications:    []string{"metformin", "amlodipine", "atorvastatin"},
		A1CMin:         8.0, A1CMax: 10.1,
		ConditionFocus: []string{"type 2 diabetes", "cardiovascular disease"},
	},
	{
		AgeMin: 40, AgeMax: 60,
		Sex: "female",
		Diagnoses: []facts.Diagnosis{
			{Code: "E11.9", Text: "Type 2 Diabetes without complications", Since: "2020"},
		},
		Medications:    []string{"metformin", "glipizide"},
		A1CMin:         7.2, A1CMax: 8.5,
		ConditionFocus: []string{"type 2 diabetes"},
	},
	{
		AgeMin: 55, AgeMax: 75,
		Sex: "male",
		Diagnoses: []facts.Diagnosis{
			{Code: "E11.9", Text: "Type 2 Diabetes without complications", Since: "2014"},
			{Code: "I10", Text: "Essential Hypertension", Since: "2016"},
			{Code: "N18.3", Text: "Chronic kidney disease stage 3", Since: "2021"},
		},
		Medications:    []string{"metformin", "losartan", "furosemide"},
		A1CMin:         8.5, A1CMax: 10.8,
		ConditionFocus: []string{"type 2 diabetes", "chronic kidney disease"},
	},
	{
		AgeMin: 35, AgeMax: 55,
		Sex: "female",
		Diagnoses: []facts.Diagnosis{
			{Code: "E11.9", Text: "Type 2 Diabetes without complications", Since: "2019"},
			{Code: "E66.9", Text: "Obesity, unspecified", Since: "2018"},
		},
		Medications:    []string{"metformin", "semaglutide"},
		A1CMin:         6.8, A1CMax: 8.0,
		ConditionFocus: []string{"type 2 diabetes", "obesity", "weight management"},
	},
}

// Mid-tier American cities plausible for a diabetes/hypertension clinic.
var midTierCities = []string{
	"Springfield, IL", "Madison, WI", "Fort Wayne, IN", "Grand Rapids, MI",
	"Chattanooga, TN", "Spokane, WA", "Boise, ID", "Reno, NV",
	"Lansing, MI", "Peoria, IL", "Cedar Rapids, IA", "Green Bay, WI",
	"Evansville, IN", "Dayton, OH", "Rockford, IL", "Springfield, MO",
	"Fargo, ND", "Sioux Falls, SD", "Burlington, VT", "Manchester, NH",
}

var trialPhases = []string{"Phase I", "Phase II", "Phase III"}

var trialTypes = []string{"drug", "observational", "behavioral"}

var exclusionVocabulary = []string{"pregnancy", "type1_diabetes", "severe_renal_disease"}
