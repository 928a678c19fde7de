package search

import (
	"errors"
	"strings"

	"github.com/ayushsync/terminology-api/ayushparser/entities"
)

// ErrEmptyTerm is returned when a search term is missing or blank.
var ErrEmptyTerm = errors.New("search term is required")

// Lexical filters a plain term dataset by substring containment against the
// query. A candidate matches when any of its name fields contains the
// normalized query, or the query contains that field. Matches keep dataset
// order; this endpoint is intentionally unranked.
func Lexical(term string, dataset []entities.CodedTerm) ([]entities.CodedTerm, error) {
	query := Normalize(term)
	if query == "" {
		return nil, ErrEmptyTerm
	}

	results := make([]entities.CodedTerm, 0)
	for _, candidate := range dataset {
		if matchesTerm(query, candidate) {
			results = append(results, candidate)
		}
	}
	return results, nil
}

func matchesTerm(query string, candidate entities.CodedTerm) bool {
	fields := []string{
		candidate.EnglishName,
		candidate.TermDiacritical,
		candidate.TermDevanagari,
		candidate.TermNative,
	}
	for _, field := range fields {
		if field == "" {
			continue
		}
		normalized := Normalize(field)
		if strings.Contains(normalized, query) || strings.Contains(query, normalized) {
			return true
		}
	}
	return false
}
