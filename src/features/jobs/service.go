package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
	JobStatusCancelled JobStatus = "cancelled"
)

// Job is one tracked background operation.
type Job struct {
	ID         string
	Type       string
	Name       string
	Status     JobStatus
	Progress   int
	Message    string
	Error      string
	CreatedAt  time.Time
	UpdatedAt  time.Time
	Metadata   map[string]any
	cancelFunc context.CancelFunc
}

// Task defines the specific logic for a job type.
type Task interface {
	// MetadataKeys lists the metadata entries a job of this type requires.
	MetadataKeys() []string
	// Execute runs the task; returned stats are merged into the job metadata.
	Execute(ctx context.Context, job *Job, progress func(int, string)) (map[string]any, error)
}

// JobService defines the interface for job management that other services use.
type JobService interface {
	StartJob(jobType string, name string, metadata map[string]any) (string, error)
	GetJob(jobID string) (*Job, bool)
	GetJobs() []*Job
	CancelJob(jobID string) error
}

// Service runs registered tasks as tracked in-memory jobs, one running job per
// type at a time.
type Service struct {
	mu    sync.RWMutex
	jobs  map[string]*Job
	tasks map[string]Task
}

// NewService creates a new job service.
func NewService() *Service {
	return &Service{
		jobs:  make(map[string]*Job),
		tasks: make(map[string]Task),
	}
}

// RegisterTask registers the task implementation for a job type.
func (s *Service) RegisterTask(jobType string, task Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks[jobType] = task
	slog.Debug("Registered job task", "type", jobType)
}

// StartJob creates and launches a job of the given type.
func (s *Service) StartJob(jobType string, name string, metadata map[string]any) (string, error) {
	s.mu.Lock()
	task, ok := s.tasks[jobType]
	if !ok {
		s.mu.Unlock()
		return "", fmt.Errorf("no task registered for job type %s", jobType)
	}
	for _, key := range task.MetadataKeys() {
		if _, ok := metadata[key]; !ok {
			s.mu.Unlock()
			return "", fmt.Errorf("missing %s in job metadata", key)
		}
	}
	for _, j := range s.jobs {
		if j.Type == jobType && (j.Status == JobStatusPending || j.Status == JobStatusRunning) {
			s.mu.Unlock()
			return "", fmt.Errorf("a %s job is already running", jobType)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	job := &Job{
		ID:         uuid.New().String(),
		Type:       jobType,
		Name:       name,
		Status:     JobStatusPending,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
		Metadata:   metadata,
		cancelFunc: cancel,
	}
	s.jobs[job.ID] = job
	s.mu.Unlock()

	go s.executeJob(ctx, job, task)
	slog.Info("Job started", "id", job.ID, "type", jobType, "name", name)
	return job.ID, nil
}

func (s *Service) executeJob(ctx context.Context, job *Job, task Task) {
	s.updateStatus(job.ID, JobStatusRunning, "running", "")

	progress := func(percentage int, message string) {
		s.mu.Lock()
		defer s.mu.Unlock()
		job.Progress = percentage
		job.Message = message
		job.UpdatedAt = time.Now()
	}

	stats, err := task.Execute(ctx, job, progress)
	if stats != nil {
		s.mu.Lock()
		if job.Metadata == nil {
			job.Metadata = make(map[string]any)
		}
		maps.Copy(job.Metadata, stats)
		s.mu.Unlock()
	}

	switch {
	case ctx.Err() != nil:
		s.updateStatus(job.ID, JobStatusCancelled, "cancelled", "")
	case err != nil:
		slog.Error("Job failed", "id", job.ID, "type", job.Type, "error", err)
		s.updateStatus(job.ID, JobStatusFailed, "failed", err.Error())
	default:
		s.updateStatus(job.ID, JobStatusCompleted, "completed", "")
		slog.Info("Job finished", "id", job.ID, "type", job.Type)
	}
}

func (s *Service) updateStatus(jobID string, status JobStatus, message, errMsg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[jobID]
	if !ok {
		return
	}
	job.Status = status
	job.Message = message
	job.Error = errMsg
	job.UpdatedAt = time.Now()
	if status == JobStatusCompleted {
		job.Progress = 100
	}
}

// GetJob returns a snapshot of a job by id.
func (s *Service) GetJob(jobID string) (*Job, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[jobID]
	if !ok {
		return nil, false
	}
	return snapshot(job), true
}

// GetJobs returns snapshots of all tracked jobs, newest first.
func (s *Service) GetJobs() []*Job {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Job, 0, len(s.jobs))
	for _, j := range s.jobs {
		out = append(out, snapshot(j))
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func snapshot(job *Job) *Job {
	copied := *job
	copied.cancelFunc = nil
	copied.Metadata = maps.Clone(job.Metadata)
	return &copied
}

// CancelJob cancels a pending or running job.
func (s *Service) CancelJob(jobID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[jobID]
	if !ok {
		return fmt.Errorf("job %s not found", jobID)
	}
	if job.Status != JobStatusPending && job.Status != JobStatusRunning {
		return fmt.Errorf("job %s is not running", jobID)
	}
	job.cancelFunc()
	return nil
}

// CleanupOldJobs drops finished jobs older than maxAge.
func (s *Service) CleanupOldJobs(maxAge time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := time.Now().Add(-maxAge)
	for id, job := range s.jobs {
		done := job.Status == JobStatusCompleted || job.Status == JobStatusFailed || job.Status == JobStatusCancelled
		if done && job.UpdatedAt.Before(cutoff) {
			delete(s.jobs, id)
		}
	}
}
