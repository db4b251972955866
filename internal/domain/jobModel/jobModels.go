package jobModel

import (
	"context"
	"time"
)

type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// IsTerminal reports whether a job in this status is done for good.
// Terminal jobs are never reopened; a re-run requires a fresh enqueue.
func (s JobStatus) IsTerminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

type Job struct {
	Id         string     `json:"id"`
	DocumentId string     `json:"document_id"`
	CaseId     string     `json:"case_id"`
	OwnerId    string     `json:"owner_id"`
	Status     JobStatus  `json:"status"`
	Priority   int        `json:"priority"`
	Attempts   int        `json:"attempts"`
	RetryAfter *time.Time `json:"retry_after,omitempty"`
	LastError  string     `json:"last_error,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// Claimable reports whether the job may be picked up at the given time.
func (j Job) Claimable(now time.Time) bool {
	if j.Status != JobStatusPending {
		return false
	}
	return j.RetryAfter == nil || !j.RetryAfter.After(now)
}

type StatusCounts struct {
	Pending    int `json:"pending"`
	Processing int `json:"processing"`
	Completed  int `json:"completed"`
	Failed     int `json:"failed"`
}

// JobStore is the only shared mutable surface between the enqueue path and
// the batch processor. ClaimBatch must combine selection and the
// pending->processing transition into one atomic step so two concurrent
// processor invocations can never claim the same job.
type JobStore interface {
	SaveJob(ctx context.Context, job Job) error
	GetJob(ctx context.Context, jobId string) (Job, bool)
	DeleteJob(ctx context.Context, jobId string)

	// ClaimBatch selects up to limit claimable jobs ordered by priority
	// descending then CreatedAt ascending and marks each processing.
	ClaimBatch(ctx context.Context, limit int, now time.Time) ([]Job, error)

	// CreateIfNoActive inserts a fresh pending job unless the document
	// already has a pending or processing one. The check and the insert
	// are one atomic step; false means an active job won the document.
	CreateIfNoActive(ctx context.Context, job Job) (bool, error)

	// FindActiveByDocument returns the pending or processing job for a
	// document, if one exists.
	FindActiveByDocument(ctx context.Context, documentId string) (Job, bool)

	CountByStatus(ctx context.Context, caseId string) (StatusCounts, error)
	ListByCase(ctx context.Context, caseId string, ownerId string) ([]Job, error)
	CountPending(ctx context.Context, now time.Time) (int, error)
}
