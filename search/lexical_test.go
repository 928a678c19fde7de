package search

import (
	"testing"

	"github.com/ayushsync/terminology-api/ayushparser/entities"
)

func sampleTerms() []entities.CodedTerm {
	return []entities.CodedTerm{
		{Code: "AY-EA3", TermNative: "ज्वरः", TermDiacritical: "jvaraḥ", TermDevanagari: "ज्वरः", EnglishName: "Fever"},
		{Code: "AY-EB1", TermNative: "कासः", TermDiacritical: "kāsaḥ", TermDevanagari: "कासः", EnglishName: "Cough"},
		{Code: "AY-EC4", TermNative: "अतिसारः", TermDiacritical: "atisāraḥ", TermDevanagari: "अतिसारः", EnglishName: "Diarrhea"},
		{Code: "AY-ED2", TermNative: "पाण्डुः", TermDiacritical: "pāṇḍuḥ", TermDevanagari: "पाण्डुः", EnglishName: "Anemia"},
	}
}

func TestLexicalEnglishMatch(t *testing.T) {
	results, err := Lexical("fever", sampleTerms())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(results) != 1 || results[0].Code != "AY-EA3" {
		t.Errorf("Expected single match AY-EA3, got %+v", results)
	}
}

func TestLexicalDiacriticalMatch(t *testing.T) {
	// Plain-ASCII query against the diacritical form.
	results, err := Lexical("jvarah", sampleTerms())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(results) != 1 || results[0].Code != "AY-EA3" {
		t.Errorf("Expected jvarah to match jvaraḥ, got %+v", results)
	}
}

func TestLexicalDevanagariMatch(t *testing.T) {
	results, err := Lexical("कासः", sampleTerms())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(results) != 1 || results[0].Code != "AY-EB1" {
		t.Errorf("Expected devanagari match AY-EB1, got %+v", results)
	}
}

func TestLexicalCaseInsensitive(t *testing.T) {
	results, err := Lexical("  FeVeR  ", sampleTerms())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(results) != 1 {
		t.Errorf("Expected case and whitespace to be ignored, got %d results", len(results))
	}
}

func TestLexicalQueryContainsField(t *testing.T) {
	// The query contains the candidate's english name.
	results, err := Lexical("high fever at night", sampleTerms())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(results) != 1 || results[0].Code != "AY-EA3" {
		t.Errorf("Expected field-in-query containment to match, got %+v", results)
	}
}

func TestLexicalPreservesDatasetOrder(t *testing.T) {
	terms := sampleTerms()
	// "a" is contained in every english name except Cough.
	results, err := Lexical("a", terms)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	for i := 1; i < len(results); i++ {
		prev, cur := -1, -1
		for j, term := range terms {
			if term.Code == results[i-1].Code {
				prev = j
			}
			if term.Code == results[i].Code {
				cur = j
			}
		}
		if cur < prev {
			t.Errorf("Results must preserve dataset order, %s came after %s",
				results[i-1].Code, results[i].Code)
		}
	}
}

func TestLexicalNoMatches(t *testing.T) {
	results, err := Lexical("xyzzy", sampleTerms())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if results == nil {
		t.Error("Expected empty slice for no matches, got nil")
	}
	if len(results) != 0 {
		t.Errorf("Expected no matches, got %d", len(results))
	}
}

func TestLexicalEmptyTerm(t *testing.T) {
	tests := []string{"", "   ", "\t\n"}
	for _, term := range tests {
		if _, err := Lexical(term, sampleTerms()); err != ErrEmptyTerm {
			t.Errorf("Lexical(%q) expected ErrEmptyTerm, got %v", term, err)
		}
	}
}
