// Package scheduler provides automated data reloads and health monitoring
// for the terminology API. It handles cron-based corpus reloads, ICD
// response-cache sweeps, and staleness checks, coordinating with the data
// container through dependency injection.
package scheduler

import (
	"fmt"
	"time"

	"github.com/ayushsync/terminology-api/interfaces"
	"github.com/ayushsync/terminology-api/logging"
	"github.com/ayushsync/terminology-api/validation"
	"github.com/go-co-op/gocron"
)

// Compile-time check to ensure Scheduler implements Scheduler interface
var _ interfaces.Scheduler = (*Scheduler)(nil)

// CacheSweeper removes expired entries from a cache.
type CacheSweeper interface {
	Sweep() int
}

// Scheduler handles corpus reloads and health monitoring using dependency injection
type Scheduler struct {
	dataStore interfaces.DataStore
	parser    interfaces.Parser
	sweeper   CacheSweeper
	scheduler *gocron.Scheduler
}

// NewScheduler creates a new scheduler instance with injected dependencies
func NewScheduler(dataStore interfaces.DataStore, parser interfaces.Parser, sweeper CacheSweeper) *Scheduler {
	return &Scheduler{
		dataStore: dataStore,
		parser:    parser,
		sweeper:   sweeper,
		scheduler: gocron.NewScheduler(time.Local),
	}
}

// Start performs the initial corpus load and schedules the recurring jobs
func (s *Scheduler) Start() error {
	// Initial load
	if err := s.reloadData(); err != nil {
		logging.Error("Failed to perform initial data load", "error", err)
		return fmt.Errorf("initial data load failed: %w", err)
	}

	// Reference files are editorial; a daily reload picks up curation.
	_, err := s.scheduler.Every(1).Days().At("03:00").Do(func() {
		if err := s.reloadData(); err != nil {
			logging.Error("Failed to reload data", "error", err)
		}
	})
	if err != nil {
		logging.Error("Failed to schedule reloads", "error", err)
		return fmt.Errorf("failed to schedule reloads: %w", err)
	}

	if s.sweeper != nil {
		_, err = s.scheduler.Every(10).Minutes().Do(func() {
			if removed := s.sweeper.Sweep(); removed > 0 {
				logging.Debug("Swept ICD response cache", "removed", removed)
			}
		})
		if err != nil {
			logging.Error("Failed to schedule cache sweep", "error", err)
			return fmt.Errorf("failed to schedule cache sweep: %w", err)
		}
	}

	s.scheduler.StartAsync()

	s.startHealthMonitoring()

	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// reloadData performs a complete corpus reload using injected dependencies
func (s *Scheduler) reloadData() error {
	// Prevent concurrent reloads
	if !s.dataStore.BeginUpdate() {
		logging.Info("Reload already in progress, skipping...")
		return nil
	}
	defer s.dataStore.EndUpdate()

	start := time.Now()

	corpus, err := s.parser.ParseAll()
	if err != nil {
		logging.Error("Failed to parse reference datasets", "error", err)
		return fmt.Errorf("failed to parse reference datasets: %w", err)
	}

	validator := validation.NewDataValidator()
	if err := validator.ValidateDataIntegrity(corpus); err != nil {
		logging.Error("Corpus failed integrity validation", "error", err)
		return fmt.Errorf("corpus integrity validation failed: %w", err)
	}

	report := validator.ReportDataQuality(corpus)
	if len(report.DuplicateCodes) > 0 {
		logging.Warn("Duplicate condition codes detected",
			"total", len(report.DuplicateCodes),
			"codes", report.DuplicateCodes)
	}
	if report.ConditionsWithoutSymptoms > 0 {
		logging.Warn("Conditions without any symptoms",
			"count", report.ConditionsWithoutSymptoms)
	}
	if report.ConditionsWithoutQuestions > 0 {
		logging.Warn("Conditions without clinical questions",
			"count", report.ConditionsWithoutQuestions)
	}
	if len(report.DanglingPathwayCodes) > 0 {
		logging.Warn("Pathways referencing unknown condition codes",
			"codes", report.DanglingPathwayCodes)
	}
	if report.EditorialMappingsNoCode > 0 {
		logging.Warn("Editorial ICD mappings without a code",
			"count", report.EditorialMappingsNoCode)
	}

	// Atomic swap using injected data store
	s.dataStore.UpdateData(corpus)

	elapsed := time.Since(start)
	logging.Info("Reference data reload completed",
		"duration", elapsed.String(),
		"condition_count", len(corpus.Conditions))

	return nil
}

// startHealthMonitoring warns when the corpus has gone stale
func (s *Scheduler) startHealthMonitoring() {
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()

		for range ticker.C {
			lastUpdate := s.dataStore.GetLastUpdated()
			if time.Since(lastUpdate) > 25*time.Hour {
				logging.Warn("Reference data hasn't been reloaded in over 25 hours")
			}
		}
	}()
}
