package jobs

import (
	"context"
	"fmt"
	"testing"
	"time"
)

// blockingTask runs until its release channel closes.
type blockingTask struct {
	release chan struct{}
	fail    error
}

func (t *blockingTask) MetadataKeys() []string { return []string{"path"} }

func (t *blockingTask) Execute(ctx context.Context, job *Job, progress func(int, string)) (map[string]any, error) {
	progress(50, "working")
	select {
	case <-t.release:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if t.fail != nil {
		return nil, t.fail
	}
	return map[string]any{"rows": 3}, nil
}

func waitForStatus(t *testing.T, service *Service, jobID string, want JobStatus) *Job {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		job, ok := service.GetJob(jobID)
		if ok && job.Status == want {
			return job
		}
		time.Sleep(5 * time.Millisecond)
	}
	job, _ := service.GetJob(jobID)
	t.Fatalf("job %s never reached %s, last status %v", jobID, want, job)
	return nil
}

func TestStartJobRequiresMetadata(t *testing.T) {
	service := NewService()
	service.RegisterTask("import", &blockingTask{release: make(chan struct{})})

	if _, err := service.StartJob("import", "Import", map[string]any{}); err == nil {
		t.Error("StartJob() without required metadata should fail")
	}
	if _, err := service.StartJob("unknown", "Nope", nil); err == nil {
		t.Error("StartJob() for an unregistered type should fail")
	}
}

func TestStartJobCompletesAndMergesStats(t *testing.T) {
	service := NewService()
	task := &blockingTask{release: make(chan struct{})}
	service.RegisterTask("import", task)

	id, err := service.StartJob("import", "Import", map[string]any{"path": "a.csv"})
	if err != nil {
		t.Fatalf("StartJob() error = %v", err)
	}
	close(task.release)

	job := waitForStatus(t, service, id, JobStatusCompleted)
	if job.Progress != 100 {
		t.Errorf("completed job progress = %d, want 100", job.Progress)
	}
	if job.Metadata["rows"] != 3 {
		t.Errorf("job metadata rows = %v, task stats should be merged", job.Metadata["rows"])
	}
}

func TestStartJobOneRunningPerType(t *testing.T) {
	service := NewService()
	task := &blockingTask{release: make(chan struct{})}
	service.RegisterTask("import", task)

	id, err := service.StartJob("import", "Import", map[string]any{"path": "a.csv"})
	if err != nil {
		t.Fatalf("StartJob() error = %v", err)
	}
	if _, err := service.StartJob("import", "Import", map[string]any{"path": "b.csv"}); err == nil {
		t.Error("StartJob() should refuse a second running job of the same type")
	}

	close(task.release)
	waitForStatus(t, service, id, JobStatusCompleted)

	if _, err := service.StartJob("import", "Import", map[string]any{"path": "b.csv"}); err != nil {
		t.Errorf("StartJob() after completion error = %v", err)
	}
}

func TestCancelJob(t *testing.T) {
	service := NewService()
	task := &blockingTask{release: make(chan struct{})}
	service.RegisterTask("import", task)

	id, err := service.StartJob("import", "Import", map[string]any{"path": "a.csv"})
	if err != nil {
		t.Fatalf("StartJob() error = %v", err)
	}
	waitForStatus(t, service, id, JobStatusRunning)

	if err := service.CancelJob(id); err != nil {
		t.Fatalf("CancelJob() error = %v", err)
	}
	waitForStatus(t, service, id, JobStatusCancelled)
}

func TestCleanupOldJobsKeepsRecentAndRunning(t *testing.T) {
	service := NewService()

	running := &blockingTask{release: make(chan struct{})}
	service.RegisterTask("import", running)
	runningID, err := service.StartJob("import", "Import", map[string]any{"path": "a.csv"})
	if err != nil {
		t.Fatalf("StartJob() error = %v", err)
	}
	waitForStatus(t, service, runningID, JobStatusRunning)

	// Backdate a finished job past the sweep horizon.
	service.mu.Lock()
	service.jobs["stale"] = &Job{
		ID:        "stale",
		Type:      "import",
		Status:    JobStatusCompleted,
		UpdatedAt: time.Now().Add(-48 * time.Hour),
	}
	service.mu.Unlock()

	service.CleanupOldJobs(24 * time.Hour)

	if _, ok := service.GetJob("stale"); ok {
		t.Error("CleanupOldJobs() should drop old finished jobs")
	}
	if _, ok := service.GetJob(runningID); !ok {
		t.Error("CleanupOldJobs() must not touch a running job")
	}

	close(running.release)
	waitForStatus(t, service, runningID, JobStatusCompleted)
}

func TestJobFailureRecordsError(t *testing.T) {
	service := NewService()
	task := &blockingTask{release: make(chan struct{}), fail: fmt.Errorf("disk full")}
	service.RegisterTask("import", task)

	id, err := service.StartJob("import", "Import", map[string]any{"path": "a.csv"})
	if err != nil {
		t.Fatalf("StartJob() error = %v", err)
	}
	close(task.release)

	job := waitForStatus(t, service, id, JobStatusFailed)
	if job.Error != "disk full" {
		t.Errorf("job error = %q, want %q", job.Error, "disk full")
	}
}
