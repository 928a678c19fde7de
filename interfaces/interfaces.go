// Package interfaces defines core abstractions for the terminology API
// to improve testability, maintainability, and separation of concerns.
package interfaces

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ayushsync/terminology-api/ayushparser"
	"github.com/ayushsync/terminology-api/ayushparser/entities"
)

// DataQualityReport provides a summary of corpus quality issues
type DataQualityReport struct {
	DuplicateCodes             []string
	ConditionsWithoutSymptoms  int
	ConditionsWithoutQuestions int
	DanglingPathwayCodes       []string
	EditorialMappingsNoCode    int
}

// DataStore defines the contract for reference data access. It provides
// thread-safe access to the per-system term datasets, the enhanced condition
// corpus and the clinical pathways, with atomic whole-corpus swaps.
type DataStore interface {
	GetAyurvedaTerms() []entities.CodedTerm
	GetSiddhaTerms() []entities.CodedTerm
	GetUnaniTerms() []entities.CodedTerm
	GetConditions() []entities.ConditionEntry
	GetConditionsMap() map[string]entities.ConditionEntry
	GetPathways() map[string]entities.ClinicalPathway
	GetLastUpdated() time.Time
	IsUpdating() bool
	GetServerStartTime() time.Time

	UpdateData(corpus *ayushparser.Corpus)
	BeginUpdate() bool
	EndUpdate()
}

// Parser defines the contract for loading the reference datasets from their
// source files into the canonical corpus shape.
type Parser interface {
	ParseAll() (*ayushparser.Corpus, error)
}

// Scheduler defines the contract for job scheduling and health monitoring.
type Scheduler interface {
	Start() error
	Stop()
}

// ICDGateway defines the contract of the WHO ICD-11 collaborator. Any error
// it returns is a degradation signal, not a fatal condition: callers proceed
// with an empty ICD result set.
type ICDGateway interface {
	GetToken(ctx context.Context) (string, error)
	SearchICD(ctx context.Context, term string) ([]entities.ICDEntity, error)
	GetEntity(ctx context.Context, id string) (json.RawMessage, error)
	GetRoot(ctx context.Context) (json.RawMessage, error)
}

// DataValidator defines the contract for input and corpus validation.
type DataValidator interface {
	// ValidateInput validates user-supplied search terms
	ValidateInput(input string) error

	// ValidateCode validates NAMC condition codes
	ValidateCode(input string) error

	// ValidateDataIntegrity rejects a corpus unfit to serve
	ValidateDataIntegrity(corpus *ayushparser.Corpus) error

	// ReportDataQuality generates a corpus quality report with all issues found
	ReportDataQuality(corpus *ayushparser.Corpus) *DataQualityReport
}
