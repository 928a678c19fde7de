package search

import (
	"testing"

	"github.com/ayushsync/terminology-api/ayushparser/entities"
)

func mappedResult(code string, confidence float64, questions ...entities.Question) MappedResult {
	entry := feverEntry()
	entry.Code = code
	entry.ClinicalQuestions = questions
	return MappedResult{
		ScoredEntry:        ScoredEntry{Entry: entry, Score: 80, Confidence: 0.8},
		CombinedConfidence: confidence,
	}
}

func question(id, text string) entities.Question {
	return entities.Question{ID: id, Text: text}
}

func TestNextQuestionsLimit(t *testing.T) {
	results := []MappedResult{
		mappedResult("A", 0.9,
			question("q1", "one"), question("q2", "two"), question("q3", "three")),
	}

	questions := NextQuestions(results, nil)
	if len(questions) > maxQuestionsPerRound {
		t.Errorf("Expected at most %d questions, got %d", maxQuestionsPerRound, len(questions))
	}
}

func TestNextQuestionsSkipsAnswered(t *testing.T) {
	results := []MappedResult{
		mappedResult("A", 0.9, question("q_onset", "onset"), question("q_pattern", "pattern")),
	}

	questions := NextQuestions(results, map[string]string{"q_onset": "sudden"})
	for _, q := range questions {
		if q.ID == "q_onset" {
			t.Error("Answered question should not be asked again")
		}
	}
	if len(questions) != 1 || questions[0].ID != "q_pattern" {
		t.Errorf("Expected only q_pattern, got %+v", questions)
	}
}

func TestNextQuestionsDedupeAndOrdering(t *testing.T) {
	// q_shared appears in two candidates, q_solo in one, so q_shared must
	// come first even though q_solo is seen earlier.
	results := []MappedResult{
		mappedResult("A", 0.9, question("q_solo", "solo"), question("q_shared", "shared")),
		mappedResult("B", 0.8, question("q_shared", "shared")),
	}

	questions := NextQuestions(results, nil)
	if len(questions) != 2 {
		t.Fatalf("Expected 2 questions, got %d", len(questions))
	}
	if questions[0].ID != "q_shared" {
		t.Errorf("Expected q_shared first, got %s", questions[0].ID)
	}
	if len(questions[0].RelevanceSources) != 2 {
		t.Errorf("Expected q_shared sourced from 2 candidates, got %d", len(questions[0].RelevanceSources))
	}
}

func TestNextQuestionsIgnoresLowRankedCandidates(t *testing.T) {
	results := []MappedResult{
		mappedResult("A", 0.9),
		mappedResult("B", 0.8),
		mappedResult("C", 0.7),
		mappedResult("D", 0.6, question("q_deep", "from outside the pool")),
	}

	questions := NextQuestions(results, nil)
	for _, q := range questions {
		if q.ID == "q_deep" {
			t.Error("Questions must only come from the top candidates")
		}
	}
}

func TestNextQuestionsAllAnswered(t *testing.T) {
	results := []MappedResult{
		mappedResult("A", 0.9, question("q1", "one")),
	}

	questions := NextQuestions(results, map[string]string{"q1": "yes"})
	if len(questions) != 0 {
		t.Errorf("Expected no questions when everything is answered, got %d", len(questions))
	}
}

func TestRefineWithAnswersDurationAdjustment(t *testing.T) {
	q := entities.Question{
		ID:   "q_onset",
		Text: "onset",
		Scoring: map[string]map[string]float64{
			"sudden": {"acute": 2},
		},
	}

	result := mappedResult("A", 0.5, q)
	result.Entry.Duration = entities.Duration{Acute: true, Chronic: false}

	refined := RefineWithAnswers([]MappedResult{result}, map[string]string{"q_onset": "sudden"})

	want := 0.5 + 2*durationAdjustment
	if diff := refined[0].CombinedConfidence - want; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("Expected confidence %f, got %f", want, refined[0].CombinedConfidence)
	}
}

func TestRefineWithAnswersDurationFlagMustAgree(t *testing.T) {
	q := entities.Question{
		ID:      "q_onset",
		Text:    "onset",
		Scoring: map[string]map[string]float64{"sudden": {"acute": 2}},
	}

	result := mappedResult("A", 0.5, q)
	result.Entry.Duration = entities.Duration{Acute: false, Chronic: true}

	refined := RefineWithAnswers([]MappedResult{result}, map[string]string{"q_onset": "sudden"})
	if refined[0].CombinedConfidence != 0.5 {
		t.Errorf("Acute weight must not apply to a chronic-only entry, got %f", refined[0].CombinedConfidence)
	}
}

func TestRefineWithAnswersDoshaAdjustment(t *testing.T) {
	q := entities.Question{
		ID:      "q_pattern",
		Text:    "pattern",
		Scoring: map[string]map[string]float64{"continuous": {"pitta": 2}},
	}

	result := mappedResult("A", 0.4, q)
	result.Entry.DoshaInvolvement = []string{"pitta"}

	refined := RefineWithAnswers([]MappedResult{result}, map[string]string{"q_pattern": "continuous"})

	want := 0.4 + 2*doshaAdjustment
	if diff := refined[0].CombinedConfidence - want; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("Expected confidence %f, got %f", want, refined[0].CombinedConfidence)
	}
}

func TestRefineWithAnswersClamped(t *testing.T) {
	q := entities.Question{
		ID:      "q_big",
		Text:    "big",
		Scoring: map[string]map[string]float64{"yes": {"pitta": 100}},
	}

	result := mappedResult("A", 0.9, q)
	result.Entry.DoshaInvolvement = []string{"pitta"}

	refined := RefineWithAnswers([]MappedResult{result}, map[string]string{"q_big": "yes"})
	if refined[0].CombinedConfidence > 1.0 {
		t.Errorf("Confidence must be clamped to 1.0, got %f", refined[0].CombinedConfidence)
	}
}

func TestRefineWithAnswersReorders(t *testing.T) {
	q := entities.Question{
		ID:      "q_onset",
		Text:    "onset",
		Scoring: map[string]map[string]float64{"sudden": {"acute": 3}},
	}

	leader := mappedResult("LEADER", 0.6)
	challenger := mappedResult("CHALLENGER", 0.5, q)
	challenger.Entry.Duration = entities.Duration{Acute: true}

	refined := RefineWithAnswers([]MappedResult{leader, challenger}, map[string]string{"q_onset": "sudden"})
	if refined[0].Entry.Code != "CHALLENGER" {
		t.Errorf("Expected boosted entry to overtake the leader, got %s first", refined[0].Entry.Code)
	}
}

func TestRefineWithAnswersNoAnswers(t *testing.T) {
	results := []MappedResult{mappedResult("A", 0.5)}

	refined := RefineWithAnswers(results, nil)
	if len(refined) != 1 || refined[0].CombinedConfidence != 0.5 {
		t.Errorf("No answers must leave confidences untouched")
	}
}

func TestRefineWithAnswersUnknownAnswerValue(t *testing.T) {
	q := entities.Question{
		ID:      "q_onset",
		Text:    "onset",
		Scoring: map[string]map[string]float64{"sudden": {"acute": 2}},
	}

	result := mappedResult("A", 0.5, q)
	refined := RefineWithAnswers([]MappedResult{result}, map[string]string{"q_onset": "sideways"})
	if refined[0].CombinedConfidence != 0.5 {
		t.Errorf("Answers outside the scoring map must be ignored, got %f", refined[0].CombinedConfidence)
	}
}
