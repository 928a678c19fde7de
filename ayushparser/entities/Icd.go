package entities

// ICDEntity is one ICD-11 entity as returned by the WHO API, already
// normalized to a single shape (the upstream payload uses theCode or code
// depending on the endpoint; the gateway adapter resolves that before this
// struct is ever built). Title may still contain search-highlight markup.
type ICDEntity struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Code       string `json:"code"`
	Definition string `json:"definition,omitempty"`
}

// AYUSHReference is an editorial cross-reference from an ICD-11 code back to
// an AYUSH condition, merged into the ICD proxy responses.
type AYUSHReference struct {
	NAMCCode    string  `json:"namc_code"`
	EnglishTerm string  `json:"english_term"`
	System      string  `json:"system"`
	Confidence  float64 `json:"confidence"`
}
