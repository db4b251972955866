package pipeline

import (
	"context"
	"time"

	"github.com/avemuri/CaseDocAPI/internal/analysis"
	"github.com/avemuri/CaseDocAPI/internal/cache"
	"github.com/avemuri/CaseDocAPI/internal/chunker"
	"github.com/avemuri/CaseDocAPI/internal/config"
	"github.com/avemuri/CaseDocAPI/internal/domain/docModel"
	"github.com/avemuri/CaseDocAPI/internal/domain/jobModel"
	"github.com/avemuri/CaseDocAPI/internal/extraction"
	"github.com/avemuri/CaseDocAPI/internal/metrics"
	"github.com/avemuri/CaseDocAPI/pkg/logger_i"
	"golang.org/x/sync/errgroup"
)

// Caches groups the per-operation result caches. Instances are injected
// so tests can pass deterministic or zero-capacity ones.
type Caches struct {
	Extraction *cache.Cache
	Analysis   *cache.Cache
	Chunks     *cache.Cache
}

func DefaultCaches() Caches {
	return Caches{
		Extraction: cache.New("extraction", config.ExtractionCacheSize, config.ExtractionCacheTTL),
		Analysis:   cache.New("analysis", config.AnalysisCacheSize, config.AnalysisCacheTTL),
		Chunks:     cache.New("chunks", config.ChunkCacheSize, config.ChunkCacheTTL),
	}
}

// Processor owns the job lifecycle. It is invoked per batch by an
// external trigger and never runs a loop of its own, which keeps it
// testable and cancellable.
type Processor struct {
	jobs      jobModel.JobStore
	docs      docModel.DocumentStore
	files     docModel.FileStore
	ocr       *extraction.Chain
	analyzer  *analysis.Chain
	caches    Caches
	batchSize int
	logger    *logger_i.Logger
	now       func() time.Time
}

type Config struct {
	Jobs      jobModel.JobStore
	Docs      docModel.DocumentStore
	Files     docModel.FileStore
	Ocr       *extraction.Chain
	Analyzer  *analysis.Chain
	Caches    Caches
	BatchSize int
	Now       func() time.Time
}

func NewProcessor(cfg Config) *Processor {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = config.BatchSize
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Processor{
		jobs:      cfg.Jobs,
		docs:      cfg.Docs,
		files:     cfg.Files,
		ocr:       cfg.Ocr,
		analyzer:  cfg.Analyzer,
		caches:    cfg.Caches,
		batchSize: cfg.BatchSize,
		logger:    logger_i.NewLogger("Pipeline"),
		now:       cfg.Now,
	}
}

type JobOutcome struct {
	Id         string              `json:"id"`
	DocumentId string              `json:"document_id"`
	Status     jobModel.JobStatus  `json:"status"`
	Error      string              `json:"error,omitempty"`
}

type BatchReport struct {
	Processed int          `json:"processed"`
	Remaining int          `json:"remaining"`
	Failed    int          `json:"failed"`
	Jobs      []JobOutcome `json:"jobs"`
}

// RunOnce claims and processes one bounded batch. Jobs are independent
// once claimed, so the batch runs with bounded concurrency; per-job
// failures become state transitions, never errors out of RunOnce.
func (p *Processor) RunOnce(ctx context.Context) (BatchReport, error) {
	log := p.logger.WithTrace(ctx)
	now := p.now()

	claimed, err := p.jobs.ClaimBatch(ctx, p.batchSize, now)
	if err != nil {
		return BatchReport{}, err
	}
	log.Debug("claimed batch", "count", len(claimed))

	outcomes := make([]JobOutcome, len(claimed))
	g, groupCtx := errgroup.WithContext(ctx)
	g.SetLimit(p.batchSize)
	for i, job := range claimed {
		g.Go(func() error {
			outcomes[i] = p.processJob(groupCtx, job)
			return nil
		})
	}
	_ = g.Wait()

	report := BatchReport{Jobs: outcomes}
	for _, o := range outcomes {
		switch o.Status {
		case jobModel.JobStatusCompleted:
			report.Processed++
		case jobModel.JobStatusFailed:
			report.Failed++
		}
	}
	if remaining, err := p.jobs.CountPending(ctx, p.now()); err == nil {
		report.Remaining = remaining
		metrics.SetPendingJobs(remaining)
	}
	return report, nil
}

// InvalidateDocument drops every cached result for a document. Called
// when its source content changes.
func (p *Processor) InvalidateDocument(documentId string) {
	prefix := cache.DocumentPrefix(documentId)
	p.caches.Extraction.DeletePrefix(prefix)
	p.caches.Analysis.DeletePrefix(prefix)
	p.caches.Chunks.DeletePrefix(prefix)
}

// ChunkDocument serves the retrieval surface: chunked extracted text for
// an already processed document, cache-backed per options.
func (p *Processor) ChunkDocument(doc docModel.Document, opts chunker.Options) []docModel.Chunk {
	return p.chunksFor(doc.Id, doc.ExtractedText, nil, opts)
}
