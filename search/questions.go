package search

import (
	"math"
	"sort"
)

const (
	// Questions are drawn from the top candidates only; asking about a
	// low-ranked condition wastes a round-trip.
	questionCandidatePool = 3

	// The UI asks one or two questions per round-trip, not a whole form.
	maxQuestionsPerRound = 2

	// Answer-scoring multipliers. Kept small so no single answer can
	// dominate the ranking.
	durationAdjustment = 0.1
	doshaAdjustment    = 0.15
)

// GuidedQuestion is a clarifying question proposed to the caller, with the
// condition codes that reference it. A question shared by more top candidates
// discriminates better and is asked first.
type GuidedQuestion struct {
	ID               string   `json:"id"`
	Text             string   `json:"text"`
	RelevanceSources []string `json:"relevance_sources"`
}

// NextQuestions collects unanswered clinical questions from the top mapped
// results, deduplicates them by ID across entries and returns at most two,
// ordered by how many top candidates share them.
func NextQuestions(results []MappedResult, previousAnswers map[string]string) []GuidedQuestion {
	pool := results
	if len(pool) > questionCandidatePool {
		pool = pool[:questionCandidatePool]
	}

	var ordered []string
	byID := make(map[string]*GuidedQuestion)

	for _, result := range pool {
		for _, question := range result.Entry.ClinicalQuestions {
			if _, answered := previousAnswers[question.ID]; answered {
				continue
			}
			existing, seen := byID[question.ID]
			if !seen {
				byID[question.ID] = &GuidedQuestion{
					ID:               question.ID,
					Text:             question.Text,
					RelevanceSources: []string{result.Entry.Code},
				}
				ordered = append(ordered, question.ID)
				continue
			}
			existing.RelevanceSources = append(existing.RelevanceSources, result.Entry.Code)
		}
	}

	questions := make([]GuidedQuestion, 0, len(ordered))
	for _, id := range ordered {
		questions = append(questions, *byID[id])
	}

	// Stable, so questions with equal spread keep candidate-rank order.
	sort.SliceStable(questions, func(i, j int) bool {
		return len(questions[i].RelevanceSources) > len(questions[j].RelevanceSources)
	})

	if len(questions) > maxQuestionsPerRound {
		questions = questions[:maxQuestionsPerRound]
	}
	return questions
}

// RefineWithAnswers rescales each result's combined confidence from the
// caller's answers. For every answered question the answer's scoring map is
// applied: duration tags adjust by weight x0.1 when the entry's flag agrees,
// dosha/humor tags by weight x0.15 when the entry lists that involvement.
// The result is clamped to [0,1] and the set re-sorted.
func RefineWithAnswers(results []MappedResult, answers map[string]string) []MappedResult {
	if len(answers) == 0 {
		return results
	}

	refined := make([]MappedResult, len(results))
	copy(refined, results)

	for i := range refined {
		adjustment := 0.0
		for _, question := range refined[i].Entry.ClinicalQuestions {
			answer, ok := answers[question.ID]
			if !ok {
				continue
			}
			weights, ok := question.Scoring[answer]
			if !ok {
				continue
			}
			for tag, weight := range weights {
				switch tag {
				case "acute":
					if refined[i].Entry.Duration.Acute {
						adjustment += weight * durationAdjustment
					}
				case "chronic":
					if refined[i].Entry.Duration.Chronic {
						adjustment += weight * durationAdjustment
					}
				default:
					if refined[i].Entry.HasDosha(tag) {
						adjustment += weight * doshaAdjustment
					}
				}
			}
		}
		refined[i].CombinedConfidence = clamp01(refined[i].CombinedConfidence + adjustment)
	}

	sort.SliceStable(refined, func(i, j int) bool {
		return refined[i].CombinedConfidence > refined[j].CombinedConfidence
	})

	return refined
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(v, 1))
}
