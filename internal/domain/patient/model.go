package patient

import "time"

// Preferences captures trial-matching preferences collected at enrollment.
type Preferences struct {
	PreferredLocation    string   `json:"preferredLocation,omitempty"`
	WillingToTravel      bool     `json:"willingToTravel"`
	ConditionFocus       []string `json:"conditionFocus,omitempty"`
	TrialPhasePreference []string `json:"trialPhasePreference,omitempty"`
	TrialType            []string `json:"trialType,omitempty"`
}

// Profile is one mock patient. Profiles are generated once per batch and
// never mutated afterwards.
type Profile struct {
	ID           string       `json:"id"`
	Name         string       `json:"name,omitempty"`
	Email        string       `json:"email,omitempty"`
	ConsentGiven bool         `json:"consentGiven"`
	Preferences  *Preferences `json:"preferences,omitempty"`
	CreatedAt    time.Time    `json:"createdAt"`
}
