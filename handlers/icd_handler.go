package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/ayushsync/terminology-api/ayushparser"
	"github.com/ayushsync/terminology-api/ayushparser/entities"
	"github.com/ayushsync/terminology-api/logging"
)

// ICD browser proxies. Gateway failures are never surfaced as fatal errors;
// the response carries icd_available=false and whatever local editorial
// cross-references exist.

// ICDRoot serves GET /icd — the linearization root.
func (h *HTTPHandlerImpl) ICDRoot(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.icdTimeout)
	defer cancel()

	root, err := h.gateway.GetRoot(ctx)
	if err != nil {
		logging.Warn("ICD-11 root lookup failed", "error", err)
		h.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
			"icd_available": false,
		})
		return
	}

	h.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"icd_available": true,
		"root":          json.RawMessage(root),
	})
}

// ICDNode serves GET /icd/node?id= — one entity, with any editorial AYUSH
// cross-references merged in.
func (h *HTTPHandlerImpl) ICDNode(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		h.RespondWithError(w, http.StatusBadRequest, "Missing required query parameter: id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.icdTimeout)
	defer cancel()

	raw, err := h.gateway.GetEntity(ctx, id)
	if err != nil {
		logging.Warn("ICD-11 entity lookup failed", "id", id, "error", err)
		h.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
			"icd_available": false,
		})
		return
	}

	response := map[string]interface{}{
		"icd_available": true,
		"entity":        json.RawMessage(raw),
	}
	if entity, ok := ayushparser.AdaptICDEntity(raw); ok && entity.Code != "" {
		response["ayush_references"] = h.ayushReferencesFor(entity.Code)
	}

	h.RespondWithJSON(w, http.StatusOK, response)
}

// ICDSearch serves GET /icd/search?q= — a gateway search with editorial
// AYUSH cross-references attached per entity.
func (h *HTTPHandlerImpl) ICDSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		h.RespondWithError(w, http.StatusBadRequest, "Missing required query parameter: q")
		return
	}
	if err := h.validator.ValidateInput(query); err != nil {
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.icdTimeout)
	defer cancel()

	icdResults, err := h.gateway.SearchICD(ctx, query)
	available := err == nil
	if err != nil {
		logging.Warn("ICD-11 search failed", "query", query, "error", err)
		icdResults = []entities.ICDEntity{}
	}

	type annotatedEntity struct {
		entities.ICDEntity
		AYUSHReferences []entities.AYUSHReference `json:"ayush_references,omitempty"`
	}

	annotated := make([]annotatedEntity, 0, len(icdResults))
	for _, entity := range icdResults {
		annotated = append(annotated, annotatedEntity{
			ICDEntity:       entity,
			AYUSHReferences: h.ayushReferencesFor(entity.Code),
		})
	}

	h.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"icd_available": available,
		"query":         query,
		"total":         len(annotated),
		"results":       annotated,
	})
}

// ayushReferencesFor returns the editorial AYUSH cross-references pointing at
// an ICD-11 code.
func (h *HTTPHandlerImpl) ayushReferencesFor(icdCode string) []entities.AYUSHReference {
	if icdCode == "" {
		return nil
	}

	var refs []entities.AYUSHReference
	for _, entry := range h.dataStore.GetConditions() {
		for _, mapping := range entry.ICDMappings {
			if mapping.Code != icdCode {
				continue
			}
			refs = append(refs, entities.AYUSHReference{
				NAMCCode:    entry.Code,
				EnglishTerm: entry.EnglishTerm,
				System:      entry.System,
				Confidence:  mapping.Confidence,
			})
		}
	}
	return refs
}
