package job

import (
	"github.com/avemuri/CaseDocAPI/internal/domain/docModel"
	"github.com/avemuri/CaseDocAPI/internal/domain/jobModel"
	"github.com/avemuri/CaseDocAPI/internal/ingest"
	"github.com/avemuri/CaseDocAPI/internal/pipeline"
)

// Service bundles everything the HTTP handlers need: the stores for
// reads, the ingestor for writes and the processor for batch draining.
type Service struct {
	JobStore      jobModel.JobStore
	DocumentStore docModel.DocumentStore
	Ingestor      *ingest.Service
	Processor     *pipeline.Processor
}

type ServiceConfig struct {
	JobStore      jobModel.JobStore
	DocumentStore docModel.DocumentStore
	Ingestor      *ingest.Service
	Processor     *pipeline.Processor
}

func InitJobService(cfg ServiceConfig) *Service {
	return &Service{
		JobStore:      cfg.JobStore,
		DocumentStore: cfg.DocumentStore,
		Ingestor:      cfg.Ingestor,
		Processor:     cfg.Processor,
	}
}
