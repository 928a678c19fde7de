package data

import (
	"testing"
	"time"

	"github.com/ayushsync/terminology-api/ayushparser"
	"github.com/ayushsync/terminology-api/ayushparser/entities"
)

func sampleCorpus() *ayushparser.Corpus {
	return &ayushparser.Corpus{
		Ayurveda: []entities.CodedTerm{{Code: "AY-1", EnglishName: "Fever"}},
		Siddha:   []entities.CodedTerm{{Code: "SI-1", EnglishName: "Fever"}},
		Unani:    []entities.CodedTerm{{Code: "UN-1", EnglishName: "Fever"}},
		Conditions: []entities.ConditionEntry{
			{Code: "EH001", EnglishTerm: "Fever"},
			{Code: "EH002", EnglishTerm: "Cough"},
		},
		Pathways: map[string]entities.ClinicalPathway{
			"EH001": {NAMCCode: "EH001", Condition: "Fever"},
		},
	}
}

func TestNewDataContainerEmpty(t *testing.T) {
	dc := NewDataContainer()

	if got := dc.GetAyurvedaTerms(); len(got) != 0 {
		t.Errorf("Expected empty ayurveda dataset, got %d", len(got))
	}
	if got := dc.GetConditions(); len(got) != 0 {
		t.Errorf("Expected empty conditions, got %d", len(got))
	}
	if got := dc.GetConditionsMap(); len(got) != 0 {
		t.Errorf("Expected empty conditions map, got %d", len(got))
	}
	if got := dc.GetPathways(); len(got) != 0 {
		t.Errorf("Expected empty pathways, got %d", len(got))
	}
	if !dc.GetLastUpdated().IsZero() {
		t.Error("Expected zero last-updated before the first load")
	}
	if dc.IsUpdating() {
		t.Error("New container must not report an update in progress")
	}
}

func TestUpdateDataSwapsEverything(t *testing.T) {
	dc := NewDataContainer()
	dc.UpdateData(sampleCorpus())

	if got := len(dc.GetAyurvedaTerms()); got != 1 {
		t.Errorf("Expected 1 ayurveda term, got %d", got)
	}
	if got := len(dc.GetSiddhaTerms()); got != 1 {
		t.Errorf("Expected 1 siddha term, got %d", got)
	}
	if got := len(dc.GetUnaniTerms()); got != 1 {
		t.Errorf("Expected 1 unani term, got %d", got)
	}
	if got := len(dc.GetConditions()); got != 2 {
		t.Errorf("Expected 2 conditions, got %d", got)
	}
	if dc.GetLastUpdated().IsZero() {
		t.Error("Expected last-updated to be set after a load")
	}
}

func TestUpdateDataBuildsConditionsMap(t *testing.T) {
	dc := NewDataContainer()
	dc.UpdateData(sampleCorpus())

	byCode := dc.GetConditionsMap()
	if len(byCode) != 2 {
		t.Fatalf("Expected 2 map entries, got %d", len(byCode))
	}
	if entry, ok := byCode["EH002"]; !ok || entry.EnglishTerm != "Cough" {
		t.Errorf("Expected EH002 -> Cough, got %+v", entry)
	}
}

func TestBeginUpdateIsExclusive(t *testing.T) {
	dc := NewDataContainer()

	if !dc.BeginUpdate() {
		t.Fatal("First BeginUpdate must succeed")
	}
	if dc.BeginUpdate() {
		t.Error("Second BeginUpdate must fail while a reload is in progress")
	}
	if !dc.IsUpdating() {
		t.Error("IsUpdating must report true during a reload")
	}

	dc.EndUpdate()
	if dc.IsUpdating() {
		t.Error("IsUpdating must report false after EndUpdate")
	}
	if !dc.BeginUpdate() {
		t.Error("BeginUpdate must succeed again after EndUpdate")
	}
}

func TestServerStartTime(t *testing.T) {
	dc := NewDataContainer()

	start := time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)
	dc.SetServerStartTime(start)

	if got := dc.GetServerStartTime(); !got.Equal(start) {
		t.Errorf("Expected start time %v, got %v", start, got)
	}
}

func TestConcurrentReadsDuringUpdate(t *testing.T) {
	dc := NewDataContainer()
	dc.UpdateData(sampleCorpus())

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 1000; i++ {
			dc.UpdateData(sampleCorpus())
		}
	}()

	for i := 0; i < 1000; i++ {
		if got := len(dc.GetConditions()); got != 2 {
			t.Fatalf("Reader observed a partial corpus: %d conditions", got)
		}
	}
	<-done
}
