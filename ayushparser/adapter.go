// Package ayushparser loads the static AYUSH reference datasets from disk
// and converts them into the canonical entity shapes. The source files come
// from several export pipelines and do not agree on field naming, so every
// record goes through the adapters in this file exactly once, at load time.
package ayushparser

import (
	"encoding/json"

	"github.com/ayushsync/terminology-api/ayushparser/entities"
)

// rawRecord is a loosely typed source record. Field access goes through the
// helpers below so alternate field names are resolved in one place.
type rawRecord map[string]json.RawMessage

func (r rawRecord) text(keys ...string) string {
	for _, k := range keys {
		raw, ok := r[k]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil && s != "" {
			return s
		}
	}
	return ""
}

func (r rawRecord) textList(keys ...string) []string {
	for _, k := range keys {
		raw, ok := r[k]
		if !ok {
			continue
		}
		var list []string
		if err := json.Unmarshal(raw, &list); err == nil {
			return list
		}
	}
	return nil
}

func (r rawRecord) number(keys ...string) float64 {
	for _, k := range keys {
		raw, ok := r[k]
		if !ok {
			continue
		}
		var f float64
		if err := json.Unmarshal(raw, &f); err == nil {
			return f
		}
	}
	return 0
}

func (r rawRecord) object(key string) rawRecord {
	raw, ok := r[key]
	if !ok {
		return nil
	}
	var obj rawRecord
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil
	}
	return obj
}

func (r rawRecord) objectList(keys ...string) []rawRecord {
	for _, k := range keys {
		raw, ok := r[k]
		if !ok {
			continue
		}
		var list []rawRecord
		if err := json.Unmarshal(raw, &list); err == nil {
			return list
		}
	}
	return nil
}

func (r rawRecord) boolean(key string) bool {
	raw, ok := r[key]
	if !ok {
		return false
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err != nil {
		return false
	}
	return b
}

// adaptCodedTerm converts one plain dataset record to a CodedTerm.
// Exports variously use code/NAMC_CODE, english/english_name and so on.
func adaptCodedTerm(r rawRecord) entities.CodedTerm {
	return entities.CodedTerm{
		Code:            r.text("code", "NAMC_CODE", "namc_code"),
		TermNative:      r.text("term", "NAMC_term", "native_term"),
		TermDiacritical: r.text("diacritical", "NAMC_term_diacritical", "term_diacritical"),
		TermDevanagari:  r.text("devanagari", "NAMC_term_DEVANAGARI", "term_devanagari"),
		EnglishName:     r.text("english", "english_name", "englishName", "Name_English"),
	}
}

// adaptCondition converts one enhanced dataset record to a ConditionEntry.
func adaptCondition(r rawRecord) entities.ConditionEntry {
	entry := entities.ConditionEntry{
		Code:               r.text("code", "namc_code"),
		EnglishTerm:        r.text("english_term", "english", "english_name"),
		DiacriticalForm:    r.text("diacritical_form", "diacritical"),
		System:             r.text("system"),
		Category:           r.text("category"),
		PrimarySymptoms:    r.textList("primary_symptoms", "primarySymptoms"),
		AssociatedSymptoms: r.textList("associated_symptoms", "associatedSymptoms"),
		AgeGroups:          r.textList("age_groups", "ageGroups"),
		Gender:             r.text("gender"),
		DoshaInvolvement:   r.textList("dosha_involvement", "dosha", "humor_involvement"),
	}
	if entry.Gender == "" {
		entry.Gender = "all"
	}

	if dur := r.object("duration"); dur != nil {
		entry.Duration = entities.Duration{
			Acute:   dur.boolean("acute"),
			Chronic: dur.boolean("chronic"),
		}
	}

	for _, m := range r.objectList("icd_mappings", "icdMappings") {
		entry.ICDMappings = append(entry.ICDMappings, entities.ICDMapping{
			Code:       m.text("code", "theCode", "icd_code"),
			Confidence: m.number("confidence"),
		})
	}

	for _, q := range r.objectList("clinical_questions", "clinicalQuestions") {
		question := entities.Question{
			ID:   q.text("id"),
			Text: q.text("text", "question"),
		}
		if raw, ok := q["scoring"]; ok {
			_ = json.Unmarshal(raw, &question.Scoring)
		}
		entry.ClinicalQuestions = append(entry.ClinicalQuestions, question)
	}

	return entry
}

// adaptICDEntity converts a raw WHO payload record to an ICDEntity, picking
// whichever of theCode/code the upstream endpoint happened to use.
func adaptICDEntity(r rawRecord) entities.ICDEntity {
	// Title is a plain string in search payloads but a language-tagged
	// object on entity endpoints.
	title := r.text("title")
	if title == "" {
		if obj := r.object("title"); obj != nil {
			title = obj.text("@value")
		}
	}
	definition := r.text("definition")
	if definition == "" {
		if obj := r.object("definition"); obj != nil {
			definition = obj.text("@value")
		}
	}
	return entities.ICDEntity{
		ID:         r.text("id", "@id", "stemId"),
		Title:      title,
		Code:       r.text("theCode", "code"),
		Definition: definition,
	}
}

// AdaptICDEntity normalizes a single raw WHO record. Exported for the
// ICD-11 gateway and the proxy handlers, which sit at the other
// data-loading boundary.
func AdaptICDEntity(raw json.RawMessage) (entities.ICDEntity, bool) {
	var rec rawRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return entities.ICDEntity{}, false
	}
	return adaptICDEntity(rec), true
}

// AdaptICDEntities normalizes a list of raw WHO records. Exported for the
// ICD-11 gateway, which sits at the other data-loading boundary.
func AdaptICDEntities(raw []json.RawMessage) []entities.ICDEntity {
	result := make([]entities.ICDEntity, 0, len(raw))
	for _, item := range raw {
		var rec rawRecord
		if err := json.Unmarshal(item, &rec); err != nil {
			continue
		}
		result = append(result, adaptICDEntity(rec))
	}
	return result
}
