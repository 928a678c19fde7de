package search

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/ayushsync/terminology-api/ayushparser/entities"
)

// Mapping types attached to each ICD cross-reference in a result.
const (
	MappingPreDefined = "pre_defined"
	MappingSemantic   = "semantic"
)

const (
	// Editorial mapping confidence boosts the combined confidence by a
	// tenth of its value, capped at 1.0.
	preDefinedBoost = 0.1

	// Semantic fallback matches are confidence-pinned so they can never
	// outrank a curated mapping, and capped to avoid flooding results.
	semanticConfidence  = 0.7
	maxSemanticMappings = 3
)

var markupPattern = regexp.MustCompile(`<[^>]*>`)

// MappedICD is one ICD-11 cross-reference attached to a search result.
type MappedICD struct {
	Entity      entities.ICDEntity `json:"entity"`
	Confidence  float64            `json:"confidence"`
	MappingType string             `json:"mapping_type"`
}

// MappedResult is a scored AYUSH entry enriched with ICD-11 mappings.
type MappedResult struct {
	ScoredEntry
	ICDMappings        []MappedICD `json:"icd_mappings"`
	CombinedConfidence float64     `json:"combined_confidence"`
}

// MapWithICD merges scored AYUSH entries with an ICD-11 lookup result set.
// Curated editorial mappings are resolved first by exact code match; the
// textual semantic fallback only runs for entries no curator has covered.
// The merged set is sorted descending by combined confidence.
func MapWithICD(scored []ScoredEntry, icdResults []entities.ICDEntity) []MappedResult {
	byCode := make(map[string]entities.ICDEntity, len(icdResults))
	for _, entity := range icdResults {
		if entity.Code != "" {
			byCode[entity.Code] = entity
		}
	}

	results := make([]MappedResult, 0, len(scored))
	for _, entry := range scored {
		mapped := MappedResult{
			ScoredEntry:        entry,
			ICDMappings:        make([]MappedICD, 0),
			CombinedConfidence: entry.Confidence,
		}

		for _, editorial := range entry.Entry.ICDMappings {
			entity, ok := byCode[editorial.Code]
			if !ok {
				continue
			}
			mapped.ICDMappings = append(mapped.ICDMappings, MappedICD{
				Entity:      entity,
				Confidence:  editorial.Confidence,
				MappingType: MappingPreDefined,
			})
			mapped.CombinedConfidence = math.Min(
				mapped.CombinedConfidence+editorial.Confidence*preDefinedBoost, 1.0)
		}

		if len(mapped.ICDMappings) == 0 {
			mapped.ICDMappings = semanticMatches(entry.Entry, icdResults)
		}

		results = append(results, mapped)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].CombinedConfidence > results[j].CombinedConfidence
	})

	return results
}

// semanticMatches finds ICD entities whose stripped title textually relates
// to the entry's english term, primary symptoms or category. The heuristic
// checks the title against each candidate term, and each candidate term
// against the first word of the title.
func semanticMatches(entry entities.ConditionEntry, icdResults []entities.ICDEntity) []MappedICD {
	candidates := make([]string, 0, len(entry.PrimarySymptoms)+2)
	candidates = append(candidates, Normalize(entry.EnglishTerm))
	for _, symptom := range entry.PrimarySymptoms {
		candidates = append(candidates, Normalize(symptom))
	}
	if entry.Category != "" {
		candidates = append(candidates, Normalize(entry.Category))
	}

	matches := make([]MappedICD, 0, maxSemanticMappings)
	for _, entity := range icdResults {
		if len(matches) >= maxSemanticMappings {
			break
		}

		title := Normalize(StripMarkup(entity.Title))
		if title == "" {
			continue
		}
		firstWord := title
		if idx := strings.IndexByte(title, ' '); idx > 0 {
			firstWord = title[:idx]
		}

		for _, candidate := range candidates {
			if candidate == "" {
				continue
			}
			if strings.Contains(title, candidate) || strings.Contains(candidate, firstWord) {
				matches = append(matches, MappedICD{
					Entity:      entity,
					Confidence:  semanticConfidence,
					MappingType: MappingSemantic,
				})
				break
			}
		}
	}
	return matches
}

// StripMarkup removes HTML tags from ICD titles, which carry search
// highlight markup like <em class='found'>.
func StripMarkup(s string) string {
	if !strings.ContainsRune(s, '<') {
		return s
	}
	return markupPattern.ReplaceAllString(s, "")
}
