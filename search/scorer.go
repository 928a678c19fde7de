package search

import (
	"math"
	"sort"
	"strings"

	"github.com/ayushsync/terminology-api/ayushparser/entities"
)

// Score weights. Symptom hits are additive per symptom; name/category hits
// fire at most once each.
const (
	scoreExactEnglish      = 100
	scoreEnglishContains   = 80
	scoreDiacriticContains = 75
	scorePrimarySymptom    = 60
	scoreAssociatedSymptom = 40
	scoreCategoryContains  = 30

	// Entries scoring at or below this are treated as noise.
	minRelevanceScore = 20
)

// Filter penalty multipliers, applied only when the caller supplied a value.
const (
	penaltyAgeGroup = 0.5
	penaltyGender   = 0.7
	penaltyDuration = 0.6
)

// Filters carries the optional demographic/duration narrowing of a search.
// Empty fields are not applied.
type Filters struct {
	AgeGroup string
	Gender   string
	Duration string // "acute" or "chronic"
}

// ScoredEntry is a condition entry with its computed relevance.
type ScoredEntry struct {
	Entry      entities.ConditionEntry `json:"entry"`
	Score      int                     `json:"relevance_score"`
	Confidence float64                 `json:"confidence"`
}

// Score computes the weighted relevance of one enhanced corpus entry against
// a search term and optional filters. The additive part accumulates name,
// symptom and category matches; supplied filters then shrink the total
// multiplicatively. Penalties deliberately stack (age x gender x duration can
// compound to x0.21).
func Score(term string, entry entities.ConditionEntry, filters Filters) int {
	query := Normalize(term)
	if query == "" {
		return 0
	}

	score := 0.0

	english := Normalize(entry.EnglishTerm)
	switch {
	case english == query:
		score += scoreExactEnglish
	case strings.Contains(english, query):
		score += scoreEnglishContains
	}

	if strings.Contains(Normalize(entry.DiacriticalForm), query) {
		score += scoreDiacriticContains
	}

	for _, symptom := range entry.PrimarySymptoms {
		if symptomMatches(query, symptom) {
			score += scorePrimarySymptom
		}
	}
	for _, symptom := range entry.AssociatedSymptoms {
		if symptomMatches(query, symptom) {
			score += scoreAssociatedSymptom
		}
	}

	if entry.Category != "" && strings.Contains(Normalize(entry.Category), query) {
		score += scoreCategoryContains
	}

	if filters.AgeGroup != "" && !entry.HasAgeGroup(filters.AgeGroup) {
		score *= penaltyAgeGroup
	}
	if filters.Gender != "" && entry.Gender != "all" && entry.Gender != filters.Gender {
		score *= penaltyGender
	}
	if filters.Duration == "acute" && !entry.Duration.Acute {
		score *= penaltyDuration
	} else if filters.Duration == "chronic" && !entry.Duration.Chronic {
		score *= penaltyDuration
	}

	return int(math.Round(score))
}

// symptomMatches uses bidirectional containment: "high fever" matches a
// query of "fever" and a query of "sudden high fever with chills".
func symptomMatches(query, symptom string) bool {
	normalized := Normalize(symptom)
	if normalized == "" {
		return false
	}
	return strings.Contains(normalized, query) || strings.Contains(query, normalized)
}

// Confidence converts a raw relevance score to the [0,1] confidence scale.
func Confidence(score int) float64 {
	return math.Min(float64(score)/100.0, 1.0)
}

// IntelligentSearch scores every corpus entry against the term and filters,
// drops the noise floor and returns the survivors sorted by descending score.
// The sort is stable so tied entries keep corpus order.
func IntelligentSearch(term string, corpus []entities.ConditionEntry, filters Filters) ([]ScoredEntry, error) {
	if Normalize(term) == "" {
		return nil, ErrEmptyTerm
	}

	results := make([]ScoredEntry, 0)
	for _, entry := range corpus {
		score := Score(term, entry, filters)
		if score <= minRelevanceScore {
			continue
		}
		results = append(results, ScoredEntry{
			Entry:      entry,
			Score:      score,
			Confidence: Confidence(score),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	return results, nil
}
