package handlers

import (
	"net/http"
	"runtime"
	"strconv"
	"time"

	"github.com/ayushsync/terminology-api/logging"
	"github.com/go-chi/chi/v5"
)

const conditionsPageSize = 10

// ServeAllConditions returns the whole enhanced condition corpus.
func (h *HTTPHandlerImpl) ServeAllConditions(w http.ResponseWriter, r *http.Request) {
	h.RespondWithJSON(w, http.StatusOK, h.dataStore.GetConditions())
}

// ServePagedConditions returns one page of the enhanced condition corpus.
func (h *HTTPHandlerImpl) ServePagedConditions(w http.ResponseWriter, r *http.Request) {
	pageNumber := chi.URLParam(r, "pageNumber")
	page, err := strconv.Atoi(pageNumber)
	if err != nil || page < 1 {
		logging.Warn("Unusual user input", "pageNumber", pageNumber)
		h.RespondWithError(w, http.StatusBadRequest, "Invalid page number")
		return
	}

	conditions := h.dataStore.GetConditions()
	start := (page - 1) * conditionsPageSize
	end := start + conditionsPageSize

	if start >= len(conditions) {
		h.RespondWithError(w, http.StatusNotFound, "Page not found")
		return
	}
	if end > len(conditions) {
		end = len(conditions)
	}

	totalItems := len(conditions)
	maxPage := (totalItems + conditionsPageSize - 1) / conditionsPageSize

	h.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"data":       conditions[start:end],
		"page":       page,
		"pageSize":   conditionsPageSize,
		"totalItems": totalItems,
		"maxPage":    maxPage,
	})
}

// FindConditionByCode returns one condition entry by its NAMC code.
func (h *HTTPHandlerImpl) FindConditionByCode(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "namcCode")
	if err := h.validator.ValidateCode(code); err != nil {
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	entry, exists := h.dataStore.GetConditionsMap()[code]
	if !exists {
		h.RespondWithError(w, http.StatusNotFound, "Condition not found")
		return
	}

	h.RespondWithJSON(w, http.StatusOK, entry)
}

// HealthCheck reports service status and corpus statistics.
func (h *HTTPHandlerImpl) HealthCheck(w http.ResponseWriter, r *http.Request) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	lastUpdate := h.dataStore.GetLastUpdated()
	uptime := time.Since(h.dataStore.GetServerStartTime())

	status := "healthy"
	if len(h.dataStore.GetConditions()) == 0 {
		status = "degraded"
	}

	h.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"status":          status,
		"uptime_seconds":  int(uptime.Seconds()),
		"memory_usage_mb": int(m.Alloc / 1024 / 1024),
		"last_updated":    lastUpdate.Format(time.RFC3339),
		"is_updating":     h.dataStore.IsUpdating(),
		"ayurveda_count":  len(h.dataStore.GetAyurvedaTerms()),
		"siddha_count":    len(h.dataStore.GetSiddhaTerms()),
		"unani_count":     len(h.dataStore.GetUnaniTerms()),
		"condition_count": len(h.dataStore.GetConditions()),
		"pathway_count":   len(h.dataStore.GetPathways()),
	})
}
