package entities

// Duration flags whether a condition presents as acute, chronic or both.
type Duration struct {
	Acute   bool `json:"acute"`
	Chronic bool `json:"chronic"`
}

// ICDMapping is an editorial, pre-vetted cross-reference from an AYUSH
// condition to an ICD-11 code. These are curated, never computed.
type ICDMapping struct {
	Code       string  `json:"code"`
	Confidence float64 `json:"confidence"`
}

// Question is a clinical clarifying question attached to a condition entry.
// Scoring maps an answer value to per-tag numeric adjustments; tags are
// either duration markers ("acute"/"chronic") or dosha/humor involvement
// markers matched against the entry's DoshaInvolvement list.
type Question struct {
	ID      string                        `json:"id"`
	Text    string                        `json:"text"`
	Scoring map[string]map[string]float64 `json:"scoring"`
}

// ConditionEntry is one entry of the enhanced AYUSH dataset used by the
// relevance scorer, the cross-system mapper and the guided question engine.
// Code is unique within the combined corpus; question IDs are unique within
// an entry but may repeat across entries.
type ConditionEntry struct {
	Code               string       `json:"code"`
	EnglishTerm        string       `json:"english_term"`
	DiacriticalForm    string       `json:"diacritical_form"`
	System             string       `json:"system"`
	Category           string       `json:"category"`
	PrimarySymptoms    []string     `json:"primary_symptoms"`
	AssociatedSymptoms []string     `json:"associated_symptoms"`
	AgeGroups          []string     `json:"age_groups"`
	Gender             string       `json:"gender"`
	Duration           Duration     `json:"duration"`
	DoshaInvolvement   []string     `json:"dosha_involvement"`
	ICDMappings        []ICDMapping `json:"icd_mappings"`
	ClinicalQuestions  []Question   `json:"clinical_questions"`
}

// HasAgeGroup reports whether the entry applies to the given age group.
// An empty list or the "all" wildcard matches every group.
func (c ConditionEntry) HasAgeGroup(group string) bool {
	if len(c.AgeGroups) == 0 {
		return true
	}
	for _, g := range c.AgeGroups {
		if g == "all" || g == group {
			return true
		}
	}
	return false
}

// HasDosha reports whether the given involvement marker appears in the
// entry's dosha/humor list.
func (c ConditionEntry) HasDosha(tag string) bool {
	for _, d := range c.DoshaInvolvement {
		if d == tag {
			return true
		}
	}
	return false
}
