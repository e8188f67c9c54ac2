package synth

import (
	"fmt"
	"strings"

	"github.com/trialmatch/trialmatch/internal/domain/resource"
)

const docDateLayout = "01/02/2006"

// document renders the human-readable body for one resource type. Types
// outside the templated set fall back to a one-line placeholder rather than
// erroring.
func (g *Generator) document(resourceType, patientID string, a Archetype) string {
	switch resourceType {
	case resource.TypeLabReport:
		return g.labReport(a)
	case resource.TypeClinicalNote:
		return g.clinicalNote(a)
	case resource.TypeDischargeSummary:
		return g.dischargeSummary(a)
	case resource.TypeMedicationList:
		return g.medicationList(a)
	default:
		return fmt.Sprintf("%s document for patient %s", resourceType, patientID)
	}
}

func (g *Generator) docDate(daysBack int) string {
	d := g.faker.DateRange(g.now.AddDate(0, 0, -daysBack), g.now)
	return d.Format(docDateLayout)
}

func (g *Generator) labReport(a Archetype) string {
	a1c := round1(g.faker.Float64Range(a.A1CMin, a.A1CMax))
	glucose := g.faker.Number(140, 220)
	creatinine := round1(g.faker.Float64Range(0.8, 1.2))
	egfr := g.faker.Number(75, 105)
	ldl := g.faker.Number(100, 150)
	hdl := g.faker.Number(40, 60)
	if a.Sex != "female" {
		hdl = g.faker.Number(35, 55)
	}
	triglycerides := g.faker.Number(150, 220)
	microalbumin := round1(g.faker.Float64Range(15, 45))

	return fmt.Sprintf(`Laboratory Results - %s

Hemoglobin A1C: %.1f%% (ref <5.7%%)
Fasting Glucose: %d mg/dL (ref 70-99 mg/dL)
Creatinine: %.1f mg/dL (ref 0.6-1.2 mg/dL)
eGFR: %d mL/min/1.73 m2
Lipid Panel:
  - LDL Cholesterol: %d mg/dL
  - HDL Cholesterol: %d mg/dL
  - Triglycerides: %d mg/dL
Microalbumin/Creatinine Ratio: %.1f mg/g`,
		g.docDate(30), a1c, glucose, creatinine, egfr, ldl, hdl, triglycerides, microalbumin)
}

func (g *Generator) clinicalNote(a Archetype) string {
	age := g.faker.Number(a.AgeMin, a.AgeMax)
	weight := g.faker.Number(70, 95)
	bmi := round1(g.faker.Float64Range(28, 35))
	sbp := g.faker.Number(135, 155)
	dbp := g.faker.Number(85, 95)
	a1c := round1(g.faker.Float64Range(a.A1CMin, a.A1CMax))

	diagnoses := make([]string, len(a.Diagnoses))
	for i, d := range a.Diagnoses {
		diagnoses[i] = d.Text
	}
	meds := make([]string, len(a.Medications))
	for i, m := range a.Medications {
		dose := "10mg daily"
		if m == "metformin" {
			dose = "1000mg BID"
		}
		meds[i] = m + " " + dose
	}

	return fmt.Sprintf(`Clinical Visit Note - %s

%d-year-old %s with history of %s.

Current medications: %s.

Vital Signs:
- Blood Pressure: %d/%d mmHg
- Weight: %d kg
- BMI: %.1f

Assessment: Patient continues to have suboptimal glycemic control with A1C of %.1f%%.
Blood pressure remains elevated despite current antihypertensive therapy.

Plan:
- Continue current diabetes medications
- Reinforce dietary counseling and exercise recommendations
- Consider medication adjustment if A1C remains >8%% at next visit
- Recheck labs in 12 weeks
- Ophthalmology referral for diabetic retinal screening`,
		g.docDate(60), age, a.Sex, strings.Join(diagnoses, ", "),
		strings.Join(meds, ", "), sbp, dbp, weight, bmi, a1c)
}

var admissionReasons = []string{
	"hypoglycemia episode",
	"diabetic ketoacidosis",
	"hypertensive urgency",
	"chest pain evaluation",
}

func (g *Generator) dischargeSummary(a Archetype) string {
	reason := admissionReasons[g.faker.Number(0, len(admissionReasons)-1)]
	glucose := g.faker.Number(55, 75)

	return fmt.Sprintf(`Hospital Discharge Summary - %s

Admission Diagnosis: %s
Discharge Diagnosis: %s, resolved

Hospital Course:
Patient presented to ED with %s. Glucose level was %d mg/dL on arrival.
Treated with oral glucose and IV dextrose with good response. Blood sugar normalized within 2 hours.

Medications at Discharge: %s - no changes made

Discharge Instructions:
- Follow up with primary care provider in 1-2 weeks
- Continue current medications as prescribed
- Blood glucose monitoring 2x daily
- Return to ED if symptoms recur`,
		g.docDate(90), reason, reason, reason, glucose, strings.Join(a.Medications, ", "))
}

var medDoses = []string{"5mg", "10mg", "20mg"}

func (g *Generator) medicationList(a Archetype) string {
	lines := []string{"1. Metformin 1000 mg PO BID - for diabetes"}
	if len(a.Medications) > 1 {
		dose := medDoses[g.faker.Number(0, len(medDoses)-1)]
		lines = append(lines, fmt.Sprintf("2. %s %s PO daily - for hypertension", a.Medications[1], dose))
	}
	if len(a.Medications) > 2 {
		lines = append(lines, fmt.Sprintf("3. %s 20 mg PO QHS - for hyperlipidemia", a.Medications[2]))
	}

	return fmt.Sprintf(`Current Medication List - Updated %s

Active Medications:
%s

Allergies: NKDA (No Known Drug Allergies)

Adherence: Patient reports good adherence, occasionally misses evening doses
Last pharmacy refill: %s`,
		g.docDate(14), strings.Join(lines, "\n"), g.docDate(20))
}

func round1(f float64) float64 {
	return float64(int(f*10+0.5)) / 10
}
