package handlers

import (
	"context"
	"sync"

	"github.com/avemuri/CaseDocAPI/internal/chunker"
	"github.com/avemuri/CaseDocAPI/internal/domain/docModel"
	"github.com/avemuri/CaseDocAPI/internal/domain/jobModel"
	"github.com/avemuri/CaseDocAPI/internal/ingest"
	"github.com/avemuri/CaseDocAPI/internal/job"
	"github.com/avemuri/CaseDocAPI/internal/pipeline"
	"github.com/avemuri/CaseDocAPI/pkg/logger_i"
)

var (
	handlerInstance *ServiceHandler //private singleton
	once            sync.Once
	logSH           *logger_i.Logger
)

type ServiceHandler struct {
	service *job.Service
}

func InitServiceHandler(jobService *job.Service) {
	once.Do(func() {
		handlerInstance = &ServiceHandler{service: jobService}

		logSH = logger_i.NewLogger("ServiceHandler")
		logRH = logger_i.NewLogger("RequestHandler")
		logSH.Info("Starting service handler")
	})
}

func UploadDocument(ctx context.Context, callerId, caseId, name, mimeType string, data []byte) (docModel.Document, error) {
	return handlerInstance.service.Ingestor.Upload(ctx, callerId, caseId, name, mimeType, data)
}

func EnqueueDocuments(ctx context.Context, callerId, caseId string, documentIds []string, priority int) (ingest.EnqueueResult, error) {
	return handlerInstance.service.Ingestor.Enqueue(ctx, callerId, caseId, documentIds, priority)
}

func DrainBatch(ctx context.Context) (pipeline.BatchReport, error) {
	return handlerInstance.service.Processor.RunOnce(ctx)
}

func CaseStatus(ctx context.Context, callerId, caseId string) (jobModel.StatusCounts, []jobModel.Job, error) {
	return handlerInstance.service.Ingestor.Status(ctx, callerId, caseId)
}

func GetDocument(ctx context.Context, id string) (docModel.Document, bool) {
	return handlerInstance.service.DocumentStore.GetDocument(ctx, id)
}

func ChunkDocument(doc docModel.Document, opts chunker.Options) []docModel.Chunk {
	return handlerInstance.service.Processor.ChunkDocument(doc, opts)
}
