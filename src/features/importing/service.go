package importing

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"cancionero/src/features/catalog"
	"cancionero/src/features/config"
	"cancionero/src/features/jobs"
	"cancionero/src/songs"
)

// Observer is notified with the totals of every finished import batch.
type Observer interface {
	ObserveImport(inserted, duplicates, failed int)
}

// ItemResult is the outcome of one candidate in a batch, in submission order.
type ItemResult struct {
	Song *songs.Song `json:"song"`
	Err  error       `json:"-"`
}

// Report summarizes an import batch.
type Report struct {
	Layout     Layout       `json:"layout"`
	Parsed     int          `json:"parsed"`
	Duplicates int          `json:"duplicates"`
	Inserted   int          `json:"inserted"`
	Failed     int          `json:"failed"`
	Results    []ItemResult `json:"results"`
}

// Service is the domain service for the importing feature.
type Service struct {
	catalog    *catalog.Service
	config     *config.Manager
	jobService jobs.JobService
	observer   Observer
	watcher    *Watcher
}

// NewService creates a new importing service.
func NewService(catalogService *catalog.Service, cfg *config.Manager, jobService jobs.JobService, observer Observer) *Service {
	return &Service{
		catalog:    catalogService,
		config:     cfg,
		jobService: jobService,
		observer:   observer,
	}
}

// Import parses a CSV payload, drops candidates already in the catalog and
// creates the rest sequentially. A single item failure is recorded and
// skipped; only a payload-level parse failure aborts the batch.
func (s *Service) Import(ctx context.Context, payload string) (*Report, error) {
	candidates, layout, err := ParseCSV(payload)
	if err != nil {
		slog.Error("Import aborted, payload did not parse", "error", err)
		return nil, err
	}

	accepted := FilterDuplicates(candidates, s.catalog.Songs())
	report := &Report{
		Layout:     layout,
		Parsed:     len(candidates),
		Duplicates: len(candidates) - len(accepted),
	}
	slog.Info("Import batch starting", "layout", layout.String(), "parsed", report.Parsed, "duplicates", report.Duplicates)

	// One create in flight at a time: bounded load on the store and a
	// deterministic per-item outcome order.
	for _, draft := range accepted {
		created, err := s.catalog.Add(ctx, draft)
		if err != nil {
			slog.Error("Import item failed", "artist", draft.ArtistName, "song", draft.SongName, "error", err)
			report.Failed++
			report.Results = append(report.Results, ItemResult{Song: draft, Err: err})
			continue
		}
		report.Inserted++
		report.Results = append(report.Results, ItemResult{Song: created})
	}

	if s.observer != nil {
		s.observer.ObserveImport(report.Inserted, report.Duplicates, report.Failed)
	}
	slog.Info("Import batch finished", "inserted", report.Inserted, "duplicates", report.Duplicates, "failed", report.Failed)
	return report, nil
}

// ImportFile reads a CSV file and runs Import on its content.
func (s *Service) ImportFile(ctx context.Context, path string) (*Report, error) {
	slog.Debug("ImportFile service called", "path", path)
	payload, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read import file %s: %w", path, err)
	}
	return s.Import(ctx, string(payload))
}

// StartImportJob queues a csv_import job for a file in the drop directory.
func (s *Service) StartImportJob(path string) (string, error) {
	slog.Debug("StartImportJob service called", "path", path)
	jobID, err := s.jobService.StartJob("csv_import", "CSV Import", map[string]any{
		"path": path,
	})
	if err != nil {
		slog.Error("Service.StartImportJob: failed to start job", "error", err)
		return "", fmt.Errorf("failed to start csv import job: %w", err)
	}
	return jobID, nil
}

// StartWatcher begins watching the drop directory for CSV files.
func (s *Service) StartWatcher(ctx context.Context) error {
	if s.watcher != nil {
		return fmt.Errorf("watcher already running")
	}
	watcher, err := NewWatcher(s)
	if err != nil {
		return err
	}
	if err := watcher.Start(ctx, s.config.Get().Import.DropPath); err != nil {
		return err
	}
	s.watcher = watcher
	return nil
}

// StopWatcher stops the drop directory watcher.
func (s *Service) StopWatcher() {
	if s.watcher != nil {
		s.watcher.Stop()
		s.watcher = nil
	}
}
