package pipeline

import (
	"context"
	"errors"

	"github.com/avemuri/CaseDocAPI/internal/config"
	"github.com/avemuri/CaseDocAPI/internal/domain/docModel"
	"github.com/avemuri/CaseDocAPI/internal/domain/jobModel"
	"github.com/avemuri/CaseDocAPI/internal/extraction"
)

// isTransient reports whether an error is worth retrying. Provider chain
// errors classify themselves; context deadlines and store errors are
// treated as transient since a later attempt may succeed.
func isTransient(err error) bool {
	if chainErr, ok := extraction.AsChainError(err); ok {
		return chainErr.Transient()
	}
	var provErr *extraction.ProviderError
	if errors.As(err, &provErr) {
		switch provErr.Kind {
		case extraction.KindRateLimit, extraction.KindServer, extraction.KindTimeout:
			return true
		}
		return false
	}
	//store and I/O errors default to retryable
	return true
}

// retryOrFail bumps the attempt counter and either schedules the job for
// a later retry or fails it once the attempt budget is spent.
func (p *Processor) retryOrFail(ctx context.Context, job jobModel.Job, doc *docModel.Document, cause error) jobModel.Job {
	job.Attempts++
	job.LastError = cause.Error()
	job.UpdatedAt = p.now()

	if job.Attempts >= config.MaxAttempts {
		return p.markFailed(ctx, job, doc)
	}

	step := job.Attempts - 1
	if step >= len(config.Backoff) {
		step = len(config.Backoff) - 1
	}
	retryAt := p.now().Add(config.Backoff[step])
	job.RetryAfter = &retryAt
	job.Status = jobModel.JobStatusPending
	if err := p.jobs.SaveJob(ctx, job); err != nil {
		p.logger.Error("failed to reschedule job", "jobId", job.Id, "error", err)
	}
	p.logger.Warn("job scheduled for retry",
		"jobId", job.Id, "attempts", job.Attempts, "retryAfter", retryAt, "error", cause)
	return job
}

// failJob fails a job immediately, without consuming further retries.
func (p *Processor) failJob(ctx context.Context, job jobModel.Job, doc *docModel.Document, cause error) jobModel.Job {
	job.Attempts++
	job.LastError = cause.Error()
	job.UpdatedAt = p.now()
	return p.markFailed(ctx, job, doc)
}

func (p *Processor) markFailed(ctx context.Context, job jobModel.Job, doc *docModel.Document) jobModel.Job {
	job.Status = jobModel.JobStatusFailed
	job.RetryAfter = nil
	if err := p.jobs.SaveJob(ctx, job); err != nil {
		p.logger.Error("failed to save failed job", "jobId", job.Id, "error", err)
	}
	if doc != nil {
		doc.FailureReason = job.LastError
		doc.UpdatedAt = p.now()
		if err := p.docs.SaveDocument(ctx, *doc); err != nil {
			p.logger.Error("failed to record document failure", "documentId", doc.Id, "error", err)
		}
	}
	p.logger.Error("job failed", "jobId", job.Id, "attempts", job.Attempts, "error", job.LastError)
	return job
}
