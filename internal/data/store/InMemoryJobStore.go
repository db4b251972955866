package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/avemuri/CaseDocAPI/internal/domain/jobModel"
)

// InMemoryJobStore is the Redis-offline fallback and the default store in
// tests. Same semantics as RedisJobStore, guarded by one mutex, so the
// claim transition is trivially atomic.
type InMemoryJobStore struct {
	mu     sync.Mutex
	jobMap map[string]jobModel.Job
}

func InitInMemoryJobStore() *InMemoryJobStore {
	return &InMemoryJobStore{
		jobMap: make(map[string]jobModel.Job),
	}
}

func (s *InMemoryJobStore) SaveJob(ctx context.Context, job jobModel.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobMap[job.Id] = job
	return nil
}

// CreateIfNoActive holds the mutex across the active-scan and the insert,
// so concurrent enqueues for one document produce exactly one job.
func (s *InMemoryJobStore) CreateIfNoActive(ctx context.Context, job jobModel.Job) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.jobMap {
		if existing.DocumentId == job.DocumentId && !existing.Status.IsTerminal() {
			return false, nil
		}
	}
	s.jobMap[job.Id] = job
	return true, nil
}

func (s *InMemoryJobStore) GetJob(ctx context.Context, jobId string) (jobModel.Job, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, found := s.jobMap[jobId]
	return job, found
}

func (s *InMemoryJobStore) DeleteJob(ctx context.Context, jobId string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.jobMap, jobId)
}

func (s *InMemoryJobStore) ClaimBatch(ctx context.Context, limit int, now time.Time) ([]jobModel.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var candidates []jobModel.Job
	for _, job := range s.jobMap {
		if job.Claimable(now) {
			candidates = append(candidates, job)
		}
	}
	//priority descending, FIFO within a priority
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Priority != candidates[j].Priority {
			return candidates[i].Priority > candidates[j].Priority
		}
		return candidates[i].CreatedAt.Before(candidates[j].CreatedAt)
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	for i := range candidates {
		candidates[i].Status = jobModel.JobStatusProcessing
		candidates[i].UpdatedAt = now
		s.jobMap[candidates[i].Id] = candidates[i]
	}
	return candidates, nil
}

func (s *InMemoryJobStore) FindActiveByDocument(ctx context.Context, documentId string) (jobModel.Job, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, job := range s.jobMap {
		if job.DocumentId == documentId && !job.Status.IsTerminal() {
			return job, true
		}
	}
	return jobModel.Job{}, false
}

func (s *InMemoryJobStore) CountByStatus(ctx context.Context, caseId string) (jobModel.StatusCounts, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var counts jobModel.StatusCounts
	for _, job := range s.jobMap {
		if caseId != "" && job.CaseId != caseId {
			continue
		}
		switch job.Status {
		case jobModel.JobStatusPending:
			counts.Pending++
		case jobModel.JobStatusProcessing:
			counts.Processing++
		case jobModel.JobStatusCompleted:
			counts.Completed++
		case jobModel.JobStatusFailed:
			counts.Failed++
		}
	}
	return counts, nil
}

func (s *InMemoryJobStore) ListByCase(ctx context.Context, caseId string, ownerId string) ([]jobModel.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var jobs []jobModel.Job
	for _, job := range s.jobMap {
		if caseId != "" && job.CaseId != caseId {
			continue
		}
		if ownerId != "" && job.OwnerId != ownerId {
			continue
		}
		jobs = append(jobs, job)
	}
	sort.Slice(jobs, func(i, j int) bool { return jobs[i].CreatedAt.Before(jobs[j].CreatedAt) })
	return jobs, nil
}

func (s *InMemoryJobStore) CountPending(ctx context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, job := range s.jobMap {
		if job.Claimable(now) {
			count++
		}
	}
	return count, nil
}
