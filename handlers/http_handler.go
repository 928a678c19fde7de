// Package handlers provides HTTP request handlers for the terminology API
// endpoints, with dependency injection of the data store, validator and
// ICD-11 gateway.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/ayushsync/terminology-api/ayushparser/entities"
	"github.com/ayushsync/terminology-api/interfaces"
	"github.com/ayushsync/terminology-api/logging"
	"github.com/ayushsync/terminology-api/metrics"
	"github.com/ayushsync/terminology-api/search"
	"github.com/go-chi/chi/v5"
)

const (
	// Bound on the outbound WHO API call so a slow upstream degrades the
	// search to AYUSH-only results instead of hanging the request.
	defaultICDTimeout = 8 * time.Second

	maxOtherMatches    = 5
	maxRefinedResults  = 3
	highConfidence     = 0.8
	improvedConfidence = 0.85
)

// FHIR-style source URIs for the flattened terminology search.
var sourceURIs = map[string]string{
	entities.SystemAyurveda: "https://terminology.ayushsync.in/CodeSystem/namaste-ayurveda",
	entities.SystemSiddha:   "https://terminology.ayushsync.in/CodeSystem/namaste-siddha",
	entities.SystemUnani:    "https://terminology.ayushsync.in/CodeSystem/namaste-unani",
}

// HTTPHandlerImpl serves every API endpoint from injected dependencies.
type HTTPHandlerImpl struct {
	dataStore  interfaces.DataStore
	validator  interfaces.DataValidator
	gateway    interfaces.ICDGateway
	icdTimeout time.Duration
}

// NewHTTPHandler creates a new HTTP handler with injected dependencies
func NewHTTPHandler(dataStore interfaces.DataStore, validator interfaces.DataValidator, gateway interfaces.ICDGateway) *HTTPHandlerImpl {
	return &HTTPHandlerImpl{
		dataStore:  dataStore,
		validator:  validator,
		gateway:    gateway,
		icdTimeout: defaultICDTimeout,
	}
}

// RespondWithJSON writes a JSON response
func (h *HTTPHandlerImpl) RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		logging.Error("Failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Last-Modified", time.Now().UTC().Format(http.TimeFormat))
	w.WriteHeader(code)
	if _, err := w.Write(data); err != nil {
		logging.Warn("Failed to write response", "error", err)
	}
}

// RespondWithError writes a JSON error response
func (h *HTTPHandlerImpl) RespondWithError(w http.ResponseWriter, code int, message string) {
	errorResponse := map[string]interface{}{
		"error":   http.StatusText(code),
		"message": message,
		"code":    code,
	}
	h.RespondWithJSON(w, code, errorResponse)
}

// Disease serves GET /disease?term= — the raw per-system lexical lookup.
func (h *HTTPHandlerImpl) Disease(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("term")
	if term == "" {
		h.RespondWithError(w, http.StatusBadRequest, "Missing required query parameter: term")
		return
	}
	if err := h.validator.ValidateInput(term); err != nil {
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	ayurveda, err := search.Lexical(term, h.dataStore.GetAyurvedaTerms())
	if err != nil {
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	siddha, _ := search.Lexical(term, h.dataStore.GetSiddhaTerms())
	unani, _ := search.Lexical(term, h.dataStore.GetUnaniTerms())

	metrics.SearchesTotal.WithLabelValues("disease").Inc()

	h.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"ayurveda": ayurveda,
		"siddha":   siddha,
		"unani":    unani,
	})
}

// TerminologySearch serves GET /terminology/search?query=&includeIcd= — a
// flattened cross-system lookup tagging each hit with its system and a
// FHIR-style source URI.
func (h *HTTPHandlerImpl) TerminologySearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	if query == "" {
		h.RespondWithError(w, http.StatusBadRequest, "Missing required query parameter: query")
		return
	}
	if err := h.validator.ValidateInput(query); err != nil {
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	datasets := []struct {
		system string
		terms  []entities.CodedTerm
	}{
		{entities.SystemAyurveda, h.dataStore.GetAyurvedaTerms()},
		{entities.SystemSiddha, h.dataStore.GetSiddhaTerms()},
		{entities.SystemUnani, h.dataStore.GetUnaniTerms()},
	}

	results := make([]entities.TaggedTerm, 0)
	for _, dataset := range datasets {
		hits, err := search.Lexical(query, dataset.terms)
		if err != nil {
			h.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		for _, hit := range hits {
			results = append(results, entities.TaggedTerm{
				CodedTerm: hit,
				System:    dataset.system,
				Source:    sourceURIs[dataset.system],
			})
		}
	}

	response := map[string]interface{}{
		"query":   query,
		"total":   len(results),
		"results": results,
	}

	if r.URL.Query().Get("includeIcd") == "true" {
		response["icd"] = h.lookupICD(r.Context(), query)
	}

	metrics.SearchesTotal.WithLabelValues("terminology_search").Inc()

	h.RespondWithJSON(w, http.StatusOK, response)
}

// lookupICD queries the gateway with a bounded timeout. Upstream failure
// degrades to an empty result set; partial results beat no results.
func (h *HTTPHandlerImpl) lookupICD(ctx context.Context, term string) []entities.ICDEntity {
	ctx, cancel := context.WithTimeout(ctx, h.icdTimeout)
	defer cancel()

	icdResults, err := h.gateway.SearchICD(ctx, term)
	if err != nil {
		logging.Warn("ICD-11 lookup failed, continuing with AYUSH data only",
			"term", term, "error", err)
		return []entities.ICDEntity{}
	}
	return icdResults
}

// IntelligentSearch serves GET /api/intelligent-search — the ranked
// cross-system search with guided questions.
func (h *HTTPHandlerImpl) IntelligentSearch(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	term := params.Get("term")
	if term == "" {
		h.RespondWithError(w, http.StatusBadRequest, "Missing required query parameter: term")
		return
	}
	if err := h.validator.ValidateInput(term); err != nil {
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	previousAnswers := make(map[string]string)
	if raw := params.Get("previous_answers"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &previousAnswers); err != nil {
			h.RespondWithError(w, http.StatusBadRequest, "previous_answers must be a JSON object of questionId to answer")
			return
		}
	}

	filters := search.Filters{
		AgeGroup: params.Get("age_group"),
		Gender:   params.Get("gender"),
		Duration: params.Get("duration"),
	}

	scored, err := search.IntelligentSearch(term, h.dataStore.GetConditions(), filters)
	if err != nil {
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	icdResults := []entities.ICDEntity{}
	if params.Get("include_icd") == "true" {
		icdResults = h.lookupICD(r.Context(), term)
	}

	mapped := search.MapWithICD(scored, icdResults)
	if len(previousAnswers) > 0 {
		mapped = search.RefineWithAnswers(mapped, previousAnswers)
	}
	questions := search.NextQuestions(mapped, previousAnswers)

	var topMatch *search.MappedResult
	otherMatches := []search.MappedResult{}
	if len(mapped) > 0 {
		topMatch = &mapped[0]
		end := len(mapped)
		if end > maxOtherMatches+1 {
			end = maxOtherMatches + 1
		}
		otherMatches = mapped[1:end]
	}

	metrics.SearchesTotal.WithLabelValues("intelligent_search").Inc()

	h.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"search_term": term,
		"filters_applied": map[string]string{
			"age_group": filters.AgeGroup,
			"gender":    filters.Gender,
			"duration":  filters.Duration,
		},
		"total_results":             len(mapped),
		"top_match":                 topMatch,
		"other_matches":             otherMatches,
		"guided_questions":          questions,
		"has_high_confidence_match": topMatch != nil && topMatch.CombinedConfidence > highConfidence,
		"timestamp":                 time.Now().UTC().Format(time.RFC3339),
	})
}

// guidedQuestionsRequest is the POST /api/guided-questions body.
type guidedQuestionsRequest struct {
	SearchTerm string            `json:"search_term"`
	Answers    map[string]string `json:"answers"`
}

// GuidedQuestions serves POST /api/guided-questions — re-scores the current
// candidates from the caller's answers. The engine is stateless: the caller
// echoes the full answers map on every round-trip.
func (h *HTTPHandlerImpl) GuidedQuestions(w http.ResponseWriter, r *http.Request) {
	var req guidedQuestionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondWithError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if req.SearchTerm == "" {
		h.RespondWithError(w, http.StatusBadRequest, "Missing required field: search_term")
		return
	}
	if err := h.validator.ValidateInput(req.SearchTerm); err != nil {
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Answers == nil {
		req.Answers = make(map[string]string)
	}

	scored, err := search.IntelligentSearch(req.SearchTerm, h.dataStore.GetConditions(), search.Filters{})
	if err != nil {
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	// Answer refinement is a pure AYUSH-side re-ranking; no ICD round-trip.
	mapped := search.MapWithICD(scored, nil)
	refined := search.RefineWithAnswers(mapped, req.Answers)
	questions := search.NextQuestions(refined, req.Answers)

	if len(refined) > maxRefinedResults {
		refined = refined[:maxRefinedResults]
	}

	confidenceImproved := len(refined) > 0 && refined[0].CombinedConfidence > improvedConfidence

	metrics.SearchesTotal.WithLabelValues("guided_questions").Inc()

	h.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"refined_results":     refined,
		"next_questions":      questions,
		"answers_processed":   len(req.Answers),
		"confidence_improved": confidenceImproved,
	})
}

// ClinicalPathway serves GET /api/clinical-pathway/{namcCode}.
func (h *HTTPHandlerImpl) ClinicalPathway(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "namcCode")
	if err := h.validator.ValidateCode(code); err != nil {
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	pathway, exists := h.dataStore.GetPathways()[code]
	if !exists {
		h.RespondWithError(w, http.StatusNotFound, "No clinical pathway for code "+code)
		return
	}

	h.RespondWithJSON(w, http.StatusOK, pathway)
}
