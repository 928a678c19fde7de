// Package data provides thread-safe storage for the AYUSH reference corpus.
// It includes the DataContainer struct with atomic operations for
// zero-downtime reloads and thread-safe access to the per-system term
// datasets, the enhanced condition corpus and the clinical pathways.
package data

import (
	"sync/atomic"
	"time"

	"github.com/ayushsync/terminology-api/ayushparser"
	"github.com/ayushsync/terminology-api/ayushparser/entities"
	"github.com/ayushsync/terminology-api/interfaces"
	"github.com/ayushsync/terminology-api/logging"
)

// Compile-time check to ensure DataContainer implements DataStore
var _ interfaces.DataStore = (*DataContainer)(nil)

// DataContainer holds all the reference data with atomic pointers for
// zero-downtime reloads. Derived per-request objects never land here; the
// only mutation is a whole-corpus swap.
type DataContainer struct {
	ayurveda        atomic.Value // []entities.CodedTerm
	siddha          atomic.Value // []entities.CodedTerm
	unani           atomic.Value // []entities.CodedTerm
	conditions      atomic.Value // []entities.ConditionEntry
	conditionsMap   atomic.Value // map[string]entities.ConditionEntry
	pathways        atomic.Value // map[string]entities.ClinicalPathway
	lastUpdated     atomic.Value // time.Time
	updating        atomic.Bool
	serverStartTime atomic.Value // time.Time
}

// NewDataContainer creates a new DataContainer with empty data
func NewDataContainer() *DataContainer {
	dc := &DataContainer{}
	dc.ayurveda.Store(make([]entities.CodedTerm, 0))
	dc.siddha.Store(make([]entities.CodedTerm, 0))
	dc.unani.Store(make([]entities.CodedTerm, 0))
	dc.conditions.Store(make([]entities.ConditionEntry, 0))
	dc.conditionsMap.Store(make(map[string]entities.ConditionEntry))
	dc.pathways.Store(make(map[string]entities.ClinicalPathway))
	dc.lastUpdated.Store(time.Time{})
	dc.serverStartTime.Store(time.Time{})
	return dc
}

func loadTerms(v *atomic.Value, name string) []entities.CodedTerm {
	if raw := v.Load(); raw != nil {
		if terms, ok := raw.([]entities.CodedTerm); ok {
			return terms
		}
	}
	logging.Warn("Term dataset is empty or invalid", "dataset", name)
	return []entities.CodedTerm{}
}

// GetAyurvedaTerms returns the Ayurveda term dataset
func (dc *DataContainer) GetAyurvedaTerms() []entities.CodedTerm {
	return loadTerms(&dc.ayurveda, entities.SystemAyurveda)
}

// GetSiddhaTerms returns the Siddha term dataset
func (dc *DataContainer) GetSiddhaTerms() []entities.CodedTerm {
	return loadTerms(&dc.siddha, entities.SystemSiddha)
}

// GetUnaniTerms returns the Unani term dataset
func (dc *DataContainer) GetUnaniTerms() []entities.CodedTerm {
	return loadTerms(&dc.unani, entities.SystemUnani)
}

// GetConditions returns the enhanced condition corpus in dataset order
func (dc *DataContainer) GetConditions() []entities.ConditionEntry {
	if v := dc.conditions.Load(); v != nil {
		if conditions, ok := v.([]entities.ConditionEntry); ok {
			return conditions
		}
	}

	logging.Warn("Condition corpus is empty or invalid")
	return []entities.ConditionEntry{}
}

// GetConditionsMap returns the condition corpus keyed by NAMC code for O(1) lookups
func (dc *DataContainer) GetConditionsMap() map[string]entities.ConditionEntry {
	if v := dc.conditionsMap.Load(); v != nil {
		if conditionsMap, ok := v.(map[string]entities.ConditionEntry); ok {
			return conditionsMap
		}
	}

	logging.Warn("Condition map is empty or invalid")
	return make(map[string]entities.ConditionEntry)
}

// GetPathways returns the editorial clinical pathways keyed by NAMC code
func (dc *DataContainer) GetPathways() map[string]entities.ClinicalPathway {
	if v := dc.pathways.Load(); v != nil {
		if pathways, ok := v.(map[string]entities.ClinicalPathway); ok {
			return pathways
		}
	}

	logging.Warn("Pathway map is empty or invalid")
	return make(map[string]entities.ClinicalPathway)
}

// GetLastUpdated returns the timestamp of the last data load
func (dc *DataContainer) GetLastUpdated() time.Time {
	if v := dc.lastUpdated.Load(); v != nil {
		if lastUpdated, ok := v.(time.Time); ok {
			return lastUpdated
		}
	}

	logging.Warn("Could not get the last updated value")
	return time.Time{}
}

// IsUpdating returns true if a data reload is currently in progress
func (dc *DataContainer) IsUpdating() bool {
	return dc.updating.Load()
}

// SetServerStartTime sets the server start time
func (dc *DataContainer) SetServerStartTime(startTime time.Time) {
	dc.serverStartTime.Store(startTime)
}

// GetServerStartTime returns the server start time
func (dc *DataContainer) GetServerStartTime() time.Time {
	if v := dc.serverStartTime.Load(); v != nil {
		if startTime, ok := v.(time.Time); ok {
			return startTime
		}
	}

	logging.Warn("Could not get the server start time value")
	return time.Time{}
}

// UpdateData atomically swaps in a freshly loaded corpus
func (dc *DataContainer) UpdateData(corpus *ayushparser.Corpus) {
	conditionsMap := make(map[string]entities.ConditionEntry, len(corpus.Conditions))
	for _, entry := range corpus.Conditions {
		conditionsMap[entry.Code] = entry
	}

	// Atomic swap (zero downtime replacement)
	dc.ayurveda.Store(corpus.Ayurveda)
	dc.siddha.Store(corpus.Siddha)
	dc.unani.Store(corpus.Unani)
	dc.conditions.Store(corpus.Conditions)
	dc.conditionsMap.Store(conditionsMap)
	dc.pathways.Store(corpus.Pathways)
	dc.lastUpdated.Store(time.Now())
}

// BeginUpdate marks the start of a data reload.
// Returns true if the reload can proceed, false if another is in progress.
func (dc *DataContainer) BeginUpdate() bool {
	return dc.updating.CompareAndSwap(false, true)
}

// EndUpdate marks the end of a data reload
func (dc *DataContainer) EndUpdate() {
	dc.updating.Store(false)
}
