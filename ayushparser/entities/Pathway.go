package entities

// PathwayPhase is one stage of an editorial treatment pathway.
type PathwayPhase struct {
	Name          string   `json:"name"`
	Duration      string   `json:"duration"`
	Interventions []string `json:"interventions"`
}

// ClinicalPathway is the editorial treatment-pathway bundle for one
// condition, keyed by its NAMC code.
type ClinicalPathway struct {
	NAMCCode      string         `json:"namc_code"`
	Condition     string         `json:"condition"`
	System        string         `json:"system"`
	Phases        []PathwayPhase `json:"phases"`
	Medications   []string       `json:"medications"`
	DietaryAdvice []string       `json:"dietary_advice"`
	References    []string       `json:"references"`
}
