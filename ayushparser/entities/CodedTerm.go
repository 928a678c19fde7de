// Package entities defines the canonical data shapes for the AYUSH
// terminology corpus. All heterogeneous source records are converted into
// these shapes at load time, so business logic never has to guess field names.
package entities

// System identifiers for the three traditional medicine coding systems.
const (
	SystemAyurveda = "ayurveda"
	SystemSiddha   = "siddha"
	SystemUnani    = "unani"
)

// CodedTerm is a single entry of one of the plain per-system term datasets.
// EnglishName is the primary matching key for lexical search.
type CodedTerm struct {
	Code            string `json:"code"`
	TermNative      string `json:"term"`
	TermDiacritical string `json:"diacritical"`
	TermDevanagari  string `json:"devanagari"`
	EnglishName     string `json:"english"`
}

// TaggedTerm is a CodedTerm annotated with its system of origin and a
// FHIR-style source URI, used by the flattened terminology search endpoint.
type TaggedTerm struct {
	CodedTerm
	System string `json:"system"`
	Source string `json:"source"`
}
