package resource

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// ProcessingState is the lifecycle tag of an EHR resource. The wire
// representation is the string token; the legacy integer codes produced by
// older pipelines (0-4) are accepted on input and normalized here so the
// dual representation never propagates past the boundary.
type ProcessingState string

const (
	StateUnspecified ProcessingState = "UNSPECIFIED"
	StateNotStarted  ProcessingState = "NOT_STARTED"
	StateProcessing  ProcessingState = "PROCESSING"
	StateCompleted   ProcessingState = "COMPLETED"
	StateFailed      ProcessingState = "FAILED"
)

// States lists all meaningful processing states in lifecycle order.
func States() []ProcessingState {
	return []ProcessingState{StateNotStarted, StateProcessing, StateCompleted, StateFailed}
}

var stateCodes = map[int]ProcessingState{
	0: StateUnspecified,
	1: StateNotStarted,
	2: StateProcessing,
	3: StateCompleted,
	4: StateFailed,
}

var stateTokens = map[string]ProcessingState{
	"UNSPECIFIED": StateUnspecified,
	"NOT_STARTED": StateNotStarted,
	"PROCESSING":  StateProcessing,
	"COMPLETED":   StateCompleted,
	"FAILED":      StateFailed,
}

// ParseProcessingState normalizes either representation of a state: the
// string token (with or without the legacy PROCESSING_STATE_ prefix) or the
// integer code as a decimal string.
func ParseProcessingState(s string) (ProcessingState, error) {
	token := strings.ToUpper(strings.TrimSpace(s))
	token = strings.TrimPrefix(token, "PROCESSING_STATE_")
	if st, ok := stateTokens[token]; ok {
		return st, nil
	}
	if len(s) == 1 && s[0] >= '0' && s[0] <= '4' {
		return stateCodes[int(s[0]-'0')], nil
	}
	return StateUnspecified, fmt.Errorf("unknown processing state %q", s)
}

func (s *ProcessingState) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case string:
		st, err := ParseProcessingState(v)
		if err != nil {
			return err
		}
		*s = st
		return nil
	case float64:
		st, ok := stateCodes[int(v)]
		if !ok {
			return fmt.Errorf("unknown processing state code %v", v)
		}
		*s = st
		return nil
	default:
		return fmt.Errorf("processing state must be a string or integer, got %T", raw)
	}
}

// SchemaVersion tags a resource with the FHIR schema it was extracted from.
// Like ProcessingState, the legacy integer codes are accepted on input.
type SchemaVersion string

const (
	VersionUnspecified SchemaVersion = "UNSPECIFIED"
	VersionR4          SchemaVersion = "R4"
	VersionR4B         SchemaVersion = "R4B"
)

var versionCodes = map[int]SchemaVersion{
	0: VersionUnspecified,
	1: VersionR4,
	2: VersionR4B,
}

func (v *SchemaVersion) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch val := raw.(type) {
	case string:
		switch strings.ToUpper(strings.TrimPrefix(strings.ToUpper(val), "FHIR_VERSION_")) {
		case "R4":
			*v = VersionR4
		case "R4B":
			*v = VersionR4B
		case "UNSPECIFIED", "":
			*v = VersionUnspecified
		default:
			return fmt.Errorf("unknown schema version %q", val)
		}
		return nil
	case float64:
		sv, ok := versionCodes[int(val)]
		if !ok {
			return fmt.Errorf("unknown schema version code %v", val)
		}
		*v = sv
		return nil
	default:
		return fmt.Errorf("schema version must be a string or integer, got %T", raw)
	}
}

// Resource type tags. The set is fixed; text generation falls back to a
// generic template for anything outside it.
const (
	TypeLabReport        = "LabReport"
	TypeClinicalNote     = "ClinicalNote"
	TypeDischargeSummary = "DischargeSummary"
	TypeMedicationList   = "MedicationList"
	TypeVitalSigns       = "VitalSigns"
	TypeRadiologyReport  = "RadiologyReport"
	TypeReferralNote     = "ReferralNote"
)

// Types lists every resource type the synthesizer can emit.
func Types() []string {
	return []string{
		TypeLabReport, TypeClinicalNote, TypeDischargeSummary,
		TypeMedicationList, TypeVitalSigns, TypeRadiologyReport, TypeReferralNote,
	}
}

// Identifier uniquely names a resource within a generated batch.
type Identifier struct {
	Key       string `json:"key"`
	UID       string `json:"uid"`
	PatientID string `json:"patientId"`
}

// Metadata carries the processing lifecycle of a resource.
type Metadata struct {
	State         ProcessingState `json:"state"`
	CreatedTime   time.Time       `json:"createdTime"`
	FetchTime     time.Time       `json:"fetchTime"`
	ProcessedTime *time.Time      `json:"processedTime,omitempty"`
	Identifier    Identifier      `json:"identifier"`
	ResourceType  string          `json:"resourceType"`
	Version       SchemaVersion   `json:"version"`
}

// EHRResource is one synthesized clinical document plus its processing
// metadata, the unit served and displayed.
type EHRResource struct {
	Metadata         Metadata `json:"metadata"`
	HumanReadableStr string   `json:"humanReadableStr"`
	AISummary        *string  `json:"aiSummary,omitempty"`
}

// Validate checks the lifecycle invariants of a single resource.
func (r *EHRResource) Validate() error {
	m := r.Metadata
	if m.Identifier.UID == "" || m.Identifier.Key == "" || m.Identifier.PatientID == "" {
		return fmt.Errorf("resource %s: incomplete identifier", m.Identifier.UID)
	}
	if m.FetchTime.Before(m.CreatedTime) {
		return fmt.Errorf("resource %s: fetchTime before createdTime", m.Identifier.UID)
	}
	if m.State == StateCompleted {
		if m.ProcessedTime == nil {
			return fmt.Errorf("resource %s: COMPLETED without processedTime", m.Identifier.UID)
		}
		if m.ProcessedTime.Before(m.FetchTime) {
			return fmt.Errorf("resource %s: processedTime before fetchTime", m.Identifier.UID)
		}
		if r.AISummary == nil {
			return fmt.Errorf("resource %s: COMPLETED without aiSummary", m.Identifier.UID)
		}
	} else {
		if m.ProcessedTime != nil {
			return fmt.Errorf("resource %s: processedTime set in state %s", m.Identifier.UID, m.State)
		}
		if r.AISummary != nil {
			return fmt.Errorf("resource %s: aiSummary set in state %s", m.Identifier.UID, m.State)
		}
	}
	return nil
}
