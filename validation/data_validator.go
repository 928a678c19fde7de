// Package validation provides input and corpus validation for the
// terminology API.
package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ayushsync/terminology-api/ayushparser"
	"github.com/ayushsync/terminology-api/interfaces"
	"github.com/ayushsync/terminology-api/logging"
)

// Pre-compiled patterns, compiled once at package initialization.
var (
	// Search terms may contain any script (Devanagari, Tamil, Arabic,
	// IAST diacritics), digits and safe punctuation.
	inputRegex = regexp.MustCompile(`^[\p{L}\p{M}\p{N}\s\-\.\+'()/,]+$`)

	// NAMC condition codes: latin letters, digits, dash, dot, parentheses.
	codeRegex = regexp.MustCompile(`^[A-Za-z0-9\-\.()]+$`)

	// Dangerous substrings rejected outright; strings.Contains beats a
	// regex for simple pattern lists like this.
	dangerousPatterns = []string{
		"<script", "</script>", "javascript:", "vbscript:", "onload=", "onerror=",
		"onclick=", "eval(", "expression(", "@import",
		"' or ", "\" or ", "union select", "drop table", "delete from", "insert into",
		"--", "/*", "*/", "exec(", "execute(",
		"`", "$(", "${",
		"../", "..\\", "%2e%2e", "file://",
		"{$ne:", "{$gt:", "{$where:", "{$regex:",
	}
)

const (
	maxInputLength = 100
	maxCodeLength  = 32
)

// DataValidatorImpl implements the interfaces.DataValidator interface
type DataValidatorImpl struct{}

// NewDataValidator creates a new data validator
func NewDataValidator() interfaces.DataValidator {
	return &DataValidatorImpl{}
}

// ValidateInput validates a user-supplied search term before any scoring
// work begins.
func (v *DataValidatorImpl) ValidateInput(input string) error {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return fmt.Errorf("search term cannot be empty")
	}
	if len(trimmed) > maxInputLength {
		return fmt.Errorf("search term too long: %d characters (max %d)", len(trimmed), maxInputLength)
	}

	lowered := strings.ToLower(trimmed)
	for _, pattern := range dangerousPatterns {
		if strings.Contains(lowered, pattern) {
			logging.Warn("Rejected dangerous input pattern", "pattern", pattern)
			return fmt.Errorf("search term contains invalid characters")
		}
	}

	if !inputRegex.MatchString(trimmed) {
		return fmt.Errorf("search term contains invalid characters")
	}
	return nil
}

// ValidateCode validates a NAMC condition code.
func (v *DataValidatorImpl) ValidateCode(input string) error {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return fmt.Errorf("code cannot be empty")
	}
	if len(trimmed) > maxCodeLength {
		return fmt.Errorf("code too long: %d characters (max %d)", len(trimmed), maxCodeLength)
	}
	if !codeRegex.MatchString(trimmed) {
		return fmt.Errorf("code contains invalid characters")
	}
	return nil
}

// ValidateDataIntegrity rejects a corpus that cannot safely serve searches.
// Duplicate condition codes break map lookups and question merging, so they
// are fatal; everything else is reported, not rejected.
func (v *DataValidatorImpl) ValidateDataIntegrity(corpus *ayushparser.Corpus) error {
	if corpus == nil {
		return fmt.Errorf("corpus is nil")
	}
	if len(corpus.Conditions) == 0 {
		return fmt.Errorf("enhanced condition corpus is empty")
	}

	seen := make(map[string]bool, len(corpus.Conditions))
	for _, entry := range corpus.Conditions {
		if seen[entry.Code] {
			return fmt.Errorf("duplicate condition code in corpus: %s", entry.Code)
		}
		seen[entry.Code] = true

		for _, question := range entry.ClinicalQuestions {
			if question.ID == "" {
				return fmt.Errorf("condition %s has a question without an id", entry.Code)
			}
		}
	}

	return nil
}

// ReportDataQuality generates a corpus quality report with all issues found.
func (v *DataValidatorImpl) ReportDataQuality(corpus *ayushparser.Corpus) *interfaces.DataQualityReport {
	report := &interfaces.DataQualityReport{}
	if corpus == nil {
		return report
	}

	counts := make(map[string]int)
	for _, entry := range corpus.Conditions {
		counts[entry.Code]++

		if len(entry.PrimarySymptoms) == 0 && len(entry.AssociatedSymptoms) == 0 {
			report.ConditionsWithoutSymptoms++
		}
		if len(entry.ClinicalQuestions) == 0 {
			report.ConditionsWithoutQuestions++
		}
		for _, mapping := range entry.ICDMappings {
			if mapping.Code == "" {
				report.EditorialMappingsNoCode++
			}
		}
	}
	for code, count := range counts {
		if count > 1 {
			report.DuplicateCodes = append(report.DuplicateCodes, code)
		}
	}

	known := make(map[string]bool, len(corpus.Conditions))
	for _, entry := range corpus.Conditions {
		known[entry.Code] = true
	}
	for code := range corpus.Pathways {
		if !known[code] {
			report.DanglingPathwayCodes = append(report.DanglingPathwayCodes, code)
		}
	}

	return report
}
