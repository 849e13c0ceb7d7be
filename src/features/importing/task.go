package importing

import (
	"context"
	"fmt"

	"cancionero/src/features/jobs"
)

// CSVImportTask runs a CSV file import as a tracked job.
type CSVImportTask struct {
	service *Service
}

// NewCSVImportTask creates the csv_import job task.
func NewCSVImportTask(service *Service) *CSVImportTask {
	return &CSVImportTask{service: service}
}

// MetadataKeys lists the metadata entries a csv_import job requires.
func (t *CSVImportTask) MetadataKeys() []string {
	return []string{"path"}
}

// Execute imports the file named in the job metadata.
func (t *CSVImportTask) Execute(ctx context.Context, job *jobs.Job, progress func(int, string)) (map[string]any, error) {
	path, ok := job.Metadata["path"].(string)
	if !ok {
		return nil, fmt.Errorf("path metadata is not a string")
	}

	progress(0, "reading "+path)
	report, err := t.service.ImportFile(ctx, path)
	if err != nil {
		return nil, err
	}
	progress(100, fmt.Sprintf("imported %d of %d rows", report.Inserted, report.Parsed))

	return map[string]any{
		"layout":     report.Layout.String(),
		"parsed":     report.Parsed,
		"duplicates": report.Duplicates,
		"inserted":   report.Inserted,
		"failed":     report.Failed,
	}, nil
}
