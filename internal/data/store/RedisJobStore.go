package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/avemuri/CaseDocAPI/internal/config"
	"github.com/avemuri/CaseDocAPI/internal/data/redisStore"
	"github.com/avemuri/CaseDocAPI/internal/domain/jobModel"
	"github.com/avemuri/CaseDocAPI/pkg/logger_i"
)

const (
	jobKeyPrefix    = "job:"
	docActivePrefix = "doc_active:"
	caseJobsPrefix  = "case_jobs:"
	pendingIndexKey = "jobs:pending"
)

type RedisJobStore struct {
	store  *redisStore.Store
	logger *logger_i.Logger
}

func GetRedisJobStore(ctx context.Context, addr, password string) *RedisJobStore {
	inner := redisStore.GetRedisStore(ctx, addr, password, config.RedisJobDB)
	if inner == nil {
		return nil
	}
	return &RedisJobStore{
		store:  inner,
		logger: logger_i.NewLogger("RedisJobStore"),
	}
}

// pendingScore orders the pending index by priority descending then
// creation time ascending. Priority dominates the millisecond term by
// twelve orders of magnitude.
func pendingScore(job jobModel.Job) float64 {
	return float64(job.CreatedAt.UnixMilli()) - float64(job.Priority)*1e12
}

func (s *RedisJobStore) SaveJob(ctx context.Context, job jobModel.Job) error {
	log := s.logger.WithTrace(ctx).With("jobId", job.Id)

	data, err := json.Marshal(job)
	if err != nil {
		return err
	}
	if err := s.store.Set(ctx, jobKeyPrefix+job.Id, data, config.RedisJobTTL); err != nil {
		return err
	}
	if err := s.store.SAdd(ctx, caseJobsPrefix+job.CaseId, job.Id); err != nil {
		return err
	}

	switch {
	case job.Status == jobModel.JobStatusPending:
		if err := s.store.ZAdd(ctx, pendingIndexKey, pendingScore(job), job.Id); err != nil {
			return err
		}
		if _, err := s.store.SetNX(ctx, docActivePrefix+job.DocumentId, job.Id, config.RedisJobTTL); err != nil {
			return err
		}
	case job.Status.IsTerminal():
		//terminal jobs leave both the queue and the dedup index
		if _, err := s.store.ZRem(ctx, pendingIndexKey, job.Id); err != nil {
			return err
		}
		if err := s.store.Del(ctx, docActivePrefix+job.DocumentId); err != nil {
			return err
		}
	}

	log.Debug("saved job", "status", job.Status)
	return nil
}

// CreateIfNoActive makes the enqueue dedup atomic: winning the SetNX on
// the doc_active key is the insert permit. A loser writes nothing, so two
// concurrent enqueues for one document produce exactly one job.
func (s *RedisJobStore) CreateIfNoActive(ctx context.Context, job jobModel.Job) (bool, error) {
	activeKey := docActivePrefix + job.DocumentId
	won, err := s.store.SetNX(ctx, activeKey, job.Id, config.RedisJobTTL)
	if err != nil {
		return false, err
	}
	if !won {
		if _, active := s.FindActiveByDocument(ctx, job.DocumentId); active {
			return false, nil
		}
		//the key points at an expired job record; take it over
		if err := s.store.Set(ctx, activeKey, job.Id, config.RedisJobTTL); err != nil {
			return false, err
		}
	}
	return true, s.SaveJob(ctx, job)
}

func (s *RedisJobStore) GetJob(ctx context.Context, jobId string) (jobModel.Job, bool) {
	var job jobModel.Job
	val, err := s.store.Get(ctx, jobKeyPrefix+jobId)
	if s.store.IsNil(err) || err != nil {
		return job, false
	}
	if err := json.Unmarshal([]byte(val), &job); err != nil {
		return job, false
	}
	return job, true
}

func (s *RedisJobStore) DeleteJob(ctx context.Context, jobId string) {
	job, found := s.GetJob(ctx, jobId)
	if found {
		_, _ = s.store.ZRem(ctx, pendingIndexKey, jobId)
		_ = s.store.Del(ctx, docActivePrefix+job.DocumentId)
	}
	if err := s.store.Del(ctx, jobKeyPrefix+jobId); err != nil {
		s.logger.Error("Error deleting job from Redis", "jobId", jobId, "error", err)
	}
}

// ClaimBatch walks the pending index in priority order, one window at a
// time, so claimable jobs parked behind a run of backoff-held members are
// still reached. Winning the ZRem for a member is the atomic claim:
// exactly one concurrent invocation can remove a given job id, so
// double-processing is impossible.
func (s *RedisJobStore) ClaimBatch(ctx context.Context, limit int, now time.Time) ([]jobModel.Job, error) {
	log := s.logger.WithTrace(ctx)

	window := int64(limit * 4)
	var claimed []jobModel.Job
	//members we leave in the set shift later windows by their count
	skipped := int64(0)
	for len(claimed) < limit {
		candidates, err := s.store.ZRangeWindow(ctx, pendingIndexKey, skipped, window)
		if err != nil {
			return claimed, err
		}
		if len(candidates) == 0 {
			break
		}
		for _, jobId := range candidates {
			if len(claimed) == limit {
				break
			}
			job, found := s.GetJob(ctx, jobId)
			if !found {
				_, _ = s.store.ZRem(ctx, pendingIndexKey, jobId)
				continue
			}
			if !job.Claimable(now) {
				//backoff not elapsed yet; leave it for a later batch
				skipped++
				continue
			}

			won, err := s.store.ZRem(ctx, pendingIndexKey, jobId)
			if err != nil {
				return claimed, err
			}
			if won == 0 {
				continue //another processor got there first
			}

			job.Status = jobModel.JobStatusProcessing
			job.UpdatedAt = now
			if err := s.SaveJob(ctx, job); err != nil {
				return claimed, err
			}
			claimed = append(claimed, job)
		}
		if int64(len(candidates)) < window {
			break
		}
	}

	log.Debug("claimed batch", "count", len(claimed))
	return claimed, nil
}

func (s *RedisJobStore) FindActiveByDocument(ctx context.Context, documentId string) (jobModel.Job, bool) {
	val, err := s.store.Get(ctx, docActivePrefix+documentId)
	if s.store.IsNil(err) || err != nil {
		return jobModel.Job{}, false
	}
	job, found := s.GetJob(ctx, val)
	if !found || job.Status.IsTerminal() {
		return jobModel.Job{}, false
	}
	return job, true
}

func (s *RedisJobStore) CountByStatus(ctx context.Context, caseId string) (jobModel.StatusCounts, error) {
	var counts jobModel.StatusCounts
	members, err := s.store.SMembers(ctx, caseJobsPrefix+caseId)
	if err != nil {
		return counts, err
	}
	for _, jobId := range members {
		job, found := s.GetJob(ctx, jobId)
		if !found {
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

func (s *RedisJobStore) ListByCase(ctx context.Context, caseId string, ownerId string) ([]jobModel.Job, error) {
	members, err := s.store.SMembers(ctx, caseJobsPrefix+caseId)
	if err != nil {
		return nil, err
	}
	var jobs []jobModel.Job
	for _, jobId := range members {
		job, found := s.GetJob(ctx, jobId)
		if !found {
			continue
		}
		if ownerId != "" && job.OwnerId != ownerId {
			continue
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

func (s *RedisJobStore) CountPending(ctx context.Context, now time.Time) (int, error) {
	members, err := s.store.ZRangeLimit(ctx, pendingIndexKey, -1)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, jobId := range members {
		if job, found := s.GetJob(ctx, jobId); found && job.Claimable(now) {
			count++
		}
	}
	return count, nil
}

// TestJobStore builds a store over an injected redis wrapper for tests.
func TestJobStore(store *redisStore.Store) *RedisJobStore {
	return &RedisJobStore{
		store:  store,
		logger: logger_i.NewLogger("test redis"),
	}
}
