package ayushparser

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ayushsync/terminology-api/ayushparser/entities"
	"github.com/ayushsync/terminology-api/logging"
)

// Corpus is the fully loaded reference data set. It is built once per load
// and never mutated afterwards.
type Corpus struct {
	Ayurveda   []entities.CodedTerm
	Siddha     []entities.CodedTerm
	Unani      []entities.CodedTerm
	Conditions []entities.ConditionEntry
	Pathways   map[string]entities.ClinicalPathway
}

// Parser loads reference datasets from a directory of JSON files.
type Parser struct {
	dataDir string
}

// NewParser creates a parser reading from the given data directory.
func NewParser(dataDir string) *Parser {
	return &Parser{dataDir: dataDir}
}

// ParseAll loads and adapts every reference dataset. A missing per-system
// file is an error: the service cannot answer anything without its corpus.
func (p *Parser) ParseAll() (*Corpus, error) {
	corpus := &Corpus{Pathways: make(map[string]entities.ClinicalPathway)}

	var err error
	if corpus.Ayurveda, err = p.parseTermFile("ayurveda.json"); err != nil {
		return nil, err
	}
	if corpus.Siddha, err = p.parseTermFile("siddha.json"); err != nil {
		return nil, err
	}
	if corpus.Unani, err = p.parseTermFile("unani.json"); err != nil {
		return nil, err
	}
	if corpus.Conditions, err = p.parseConditions("enhanced_conditions.json"); err != nil {
		return nil, err
	}
	if err = p.parsePathways("clinical_pathways.json", corpus.Pathways); err != nil {
		return nil, err
	}

	logging.Info("Reference datasets loaded",
		"ayurveda", len(corpus.Ayurveda),
		"siddha", len(corpus.Siddha),
		"unani", len(corpus.Unani),
		"conditions", len(corpus.Conditions),
		"pathways", len(corpus.Pathways))

	return corpus, nil
}

func (p *Parser) readRecords(name string) ([]rawRecord, error) {
	path := filepath.Join(p.dataDir, name)
	cleanPath := filepath.Clean(path)

	content, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset %s: %w", name, err)
	}

	var records []rawRecord
	if err := json.Unmarshal(content, &records); err != nil {
		return nil, fmt.Errorf("failed to parse dataset %s: %w", name, err)
	}
	return records, nil
}

func (p *Parser) parseTermFile(name string) ([]entities.CodedTerm, error) {
	records, err := p.readRecords(name)
	if err != nil {
		return nil, err
	}

	terms := make([]entities.CodedTerm, 0, len(records))
	for _, rec := range records {
		term := adaptCodedTerm(rec)
		if term.Code == "" {
			logging.Warn("Skipping term without code", "dataset", name)
			continue
		}
		terms = append(terms, term)
	}
	return terms, nil
}

func (p *Parser) parseConditions(name string) ([]entities.ConditionEntry, error) {
	records, err := p.readRecords(name)
	if err != nil {
		return nil, err
	}

	conditions := make([]entities.ConditionEntry, 0, len(records))
	for _, rec := range records {
		entry := adaptCondition(rec)
		if entry.Code == "" || entry.EnglishTerm == "" {
			logging.Warn("Skipping condition without code or english term", "dataset", name)
			continue
		}
		conditions = append(conditions, entry)
	}
	return conditions, nil
}

func (p *Parser) parsePathways(name string, into map[string]entities.ClinicalPathway) error {
	path := filepath.Join(p.dataDir, name)

	content, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		// Pathways are an optional editorial add-on; the search engine
		// works without them.
		if os.IsNotExist(err) {
			logging.Warn("Clinical pathways file not found, pathway lookups disabled", "path", path)
			return nil
		}
		return fmt.Errorf("failed to read dataset %s: %w", name, err)
	}

	var pathways []entities.ClinicalPathway
	if err := json.Unmarshal(content, &pathways); err != nil {
		return fmt.Errorf("failed to parse dataset %s: %w", name, err)
	}

	for _, pw := range pathways {
		if pw.NAMCCode == "" {
			continue
		}
		into[pw.NAMCCode] = pw
	}
	return nil
}
