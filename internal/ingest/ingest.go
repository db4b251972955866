package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avemuri/CaseDocAPI/internal/domain/docModel"
	"github.com/avemuri/CaseDocAPI/internal/domain/jobModel"
	"github.com/avemuri/CaseDocAPI/pkg/logger_i"
	"github.com/google/uuid"
)

// ErrForbidden is returned when the caller does not own the case they
// are trying to enqueue against.
var ErrForbidden = errors.New("caller does not own this case")

// SkipReason explains why a requested document was not queued.
type SkipReason string

const (
	SkipNotFound         SkipReason = "not_found"
	SkipWrongCase        SkipReason = "wrong_case"
	SkipNoFile           SkipReason = "no_file"
	SkipAlreadyProcessed SkipReason = "already_processed"
)

type SkippedDocument struct {
	DocumentId string     `json:"document_id"`
	Reason     SkipReason `json:"reason"`
}

type EnqueueResult struct {
	Queued        int               `json:"queued"`
	AlreadyActive int               `json:"already_active"`
	Skipped       int               `json:"skipped"`
	JobIds        []string          `json:"job_ids"`
	SkippedDocs   []SkippedDocument `json:"skipped_documents,omitempty"`
}

// Service turns upload and enqueue requests into document rows and
// pending jobs. It owns the only-one-active-job-per-document rule.
type Service struct {
	jobs   jobModel.JobStore
	docs   docModel.DocumentStore
	cases  docModel.CaseStore
	files  docModel.FileStore
	logger *logger_i.Logger
	now    func() time.Time
}

func NewService(jobs jobModel.JobStore, docs docModel.DocumentStore, cases docModel.CaseStore, files docModel.FileStore) *Service {
	return &Service{
		jobs:   jobs,
		docs:   docs,
		cases:  cases,
		files:  files,
		logger: logger_i.NewLogger("Ingest"),
		now:    time.Now,
	}
}

// NewServiceWithClock is NewService with an injected clock.
func NewServiceWithClock(jobs jobModel.JobStore, docs docModel.DocumentStore, cases docModel.CaseStore, files docModel.FileStore, now func() time.Time) *Service {
	s := NewService(jobs, docs, cases, files)
	s.now = now
	return s
}

// Enqueue queues extraction jobs for the given documents. Documents that
// are missing, outside the case, file-less or already extracted are
// skipped; documents with a live job are reported, not duplicated.
func (s *Service) Enqueue(ctx context.Context, callerId, caseId string, documentIds []string, priority int) (EnqueueResult, error) {
	log := s.logger.WithTrace(ctx).With("caseId", caseId)

	owner, found := s.cases.CaseOwner(ctx, caseId)
	if !found || owner != callerId {
		return EnqueueResult{}, ErrForbidden
	}

	result := EnqueueResult{JobIds: []string{}}
	seen := make(map[string]bool, len(documentIds))
	for _, documentId := range documentIds {
		if seen[documentId] {
			continue
		}
		seen[documentId] = true

		if reason, skip := s.skipReason(ctx, documentId, caseId); skip {
			result.Skipped++
			result.SkippedDocs = append(result.SkippedDocs, SkippedDocument{DocumentId: documentId, Reason: reason})
			continue
		}

		job := jobModel.Job{
			Id:         uuid.New().String(),
			DocumentId: documentId,
			CaseId:     caseId,
			OwnerId:    callerId,
			Status:     jobModel.JobStatusPending,
			Priority:   priority,
			CreatedAt:  s.now(),
			UpdatedAt:  s.now(),
		}
		//the store decides atomically; a lost race counts as already active
		created, err := s.jobs.CreateIfNoActive(ctx, job)
		if err != nil {
			return result, fmt.Errorf("saving job for document %s: %w", documentId, err)
		}
		if !created {
			log.Debug("document already has an active job", "documentId", documentId)
			result.AlreadyActive++
			continue
		}
		result.Queued++
		result.JobIds = append(result.JobIds, job.Id)
	}

	log.Info("enqueue complete",
		"queued", result.Queued, "alreadyActive", result.AlreadyActive, "skipped", result.Skipped)
	return result, nil
}

func (s *Service) skipReason(ctx context.Context, documentId, caseId string) (SkipReason, bool) {
	doc, found := s.docs.GetDocument(ctx, documentId)
	if !found {
		return SkipNotFound, true
	}
	if doc.CaseId != caseId {
		return SkipWrongCase, true
	}
	if doc.FileKey == "" {
		return SkipNoFile, true
	}
	if doc.OcrProcessed {
		return SkipAlreadyProcessed, true
	}
	return "", false
}

// Upload stores a raw file and registers the document it backs. The
// returned document is not yet queued for extraction.
func (s *Service) Upload(ctx context.Context, callerId, caseId, name, mimeType string, data []byte) (docModel.Document, error) {
	owner, found := s.cases.CaseOwner(ctx, caseId)
	if !found || owner != callerId {
		return docModel.Document{}, ErrForbidden
	}
	if len(data) == 0 {
		return docModel.Document{}, errors.New("empty file")
	}

	doc := docModel.Document{
		Id:          uuid.New().String(),
		CaseId:      caseId,
		OwnerId:     callerId,
		Name:        name,
		ContentType: docModel.DetectType(name, mimeType),
		CreatedAt:   s.now(),
		UpdatedAt:   s.now(),
	}
	doc.FileKey = fmt.Sprintf("cases/%s/%s/%s", caseId, doc.Id, name)

	if err := s.files.Put(ctx, doc.FileKey, data, mimeType); err != nil {
		return docModel.Document{}, fmt.Errorf("storing file: %w", err)
	}
	if err := s.docs.SaveDocument(ctx, doc); err != nil {
		return docModel.Document{}, fmt.Errorf("saving document: %w", err)
	}
	s.logger.WithTrace(ctx).Info("document uploaded", "documentId", doc.Id, "name", name, "type", doc.ContentType)
	return doc, nil
}

// Status summarises job state for a case the caller owns.
func (s *Service) Status(ctx context.Context, callerId, caseId string) (jobModel.StatusCounts, []jobModel.Job, error) {
	owner, found := s.cases.CaseOwner(ctx, caseId)
	if !found || owner != callerId {
		return jobModel.StatusCounts{}, nil, ErrForbidden
	}
	counts, err := s.jobs.CountByStatus(ctx, caseId)
	if err != nil {
		return jobModel.StatusCounts{}, nil, err
	}
	jobs, err := s.jobs.ListByCase(ctx, caseId, callerId)
	if err != nil {
		return counts, nil, err
	}
	return counts, jobs, nil
}
