package exporting

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"cancionero/src/features/catalog"
	"cancionero/src/features/config"
)

// Service is the domain service for the exporting feature.
type Service struct {
	catalog       *catalog.Service
	configManager *config.Manager
	pdf           PDFRenderer
}

// NewService creates a new exporting service. pdf may be nil when no renderer
// is configured.
func NewService(catalogService *catalog.Service, cfgManager *config.Manager, pdf PDFRenderer) *Service {
	return &Service{
		catalog:       catalogService,
		configManager: cfgManager,
		pdf:           pdf,
	}
}

// CSV renders the whole catalog (or the filtered view) as CSV text.
func (s *Service) CSV(filteredOnly bool) string {
	if filteredOnly {
		return GenerateCSV(s.catalog.Filtered())
	}
	return GenerateCSV(s.catalog.Songs())
}

// WriteCSVFile writes a timestamped CSV export under the configured export
// path and returns the file name.
func (s *Service) WriteCSVFile() (string, error) {
	dir := s.configManager.Get().Export.Path
	name := fmt.Sprintf("catalogo-%s.csv", time.Now().Format("2006-01-02-150405"))
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(s.CSV(false)), 0644); err != nil {
		slog.Error("Failed to write CSV export", "path", path, "error", err)
		return "", err
	}
	slog.Info("CSV export written", "path", path, "songs", s.catalog.Count())
	return path, nil
}

// PDF renders the catalog through the configured renderer.
func (s *Service) PDF(ctx context.Context) ([]byte, error) {
	if s.pdf == nil {
		return nil, fmt.Errorf("no PDF renderer configured")
	}
	return s.pdf.Render(ctx, s.catalog.Songs())
}
