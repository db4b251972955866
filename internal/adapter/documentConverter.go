package adapter

import (
	"github.com/avemuri/CaseDocAPI/internal/api"
	"github.com/avemuri/CaseDocAPI/internal/domain/docModel"
	"github.com/avemuri/CaseDocAPI/internal/domain/jobModel"
	"github.com/avemuri/CaseDocAPI/internal/ingest"
	"github.com/avemuri/CaseDocAPI/internal/pipeline"
)

func ToUploadResponse(doc docModel.Document) api.UploadResponse {
	return api.UploadResponse{
		Id:          doc.Id,
		Name:        doc.Name,
		ContentType: string(doc.ContentType),
		FileKey:     doc.FileKey,
	}
}

func ToEnqueueResponse(result ingest.EnqueueResult) api.EnqueueResponse {
	resp := api.EnqueueResponse{
		Queued:        result.Queued,
		AlreadyActive: result.AlreadyActive,
		Skipped:       result.Skipped,
		JobIds:        result.JobIds,
	}
	for _, skipped := range result.SkippedDocs {
		resp.SkippedDocs = append(resp.SkippedDocs, api.SkippedDoc{
			DocumentId: skipped.DocumentId,
			Reason:     string(skipped.Reason),
		})
	}
	return resp
}

func ToProcessResponse(report pipeline.BatchReport) api.ProcessResponse {
	resp := api.ProcessResponse{
		Processed: report.Processed,
		Remaining: report.Remaining,
		Failed:    report.Failed,
		Jobs:      []api.JobResultRow{},
	}
	for _, outcome := range report.Jobs {
		resp.Jobs = append(resp.Jobs, api.JobResultRow{
			Id:         outcome.Id,
			DocumentId: outcome.DocumentId,
			Status:     string(outcome.Status),
			Error:      outcome.Error,
		})
	}
	return resp
}

func ToStatusResponse(caseId string, counts jobModel.StatusCounts, jobs []jobModel.Job) api.StatusResponse {
	resp := api.StatusResponse{
		CaseId:     caseId,
		Pending:    counts.Pending,
		Processing: counts.Processing,
		Completed:  counts.Completed,
		Failed:     counts.Failed,
		Jobs:       []api.JobStatusRow{},
	}
	for _, job := range jobs {
		resp.Jobs = append(resp.Jobs, api.JobStatusRow{
			Id:         job.Id,
			DocumentId: job.DocumentId,
			Status:     string(job.Status),
			Attempts:   job.Attempts,
			RetryAfter: job.RetryAfter,
			LastError:  job.LastError,
			CreatedAt:  job.CreatedAt,
		})
	}
	return resp
}

func ToChunksResponse(documentId string, chunks []docModel.Chunk) api.ChunksResponse {
	resp := api.ChunksResponse{
		DocumentId:  documentId,
		TotalChunks: len(chunks),
		Chunks:      []api.ChunkRow{},
	}
	for _, chunk := range chunks {
		resp.Chunks = append(resp.Chunks, api.ChunkRow{
			Id:              chunk.Id,
			Content:         chunk.Content,
			ChunkIndex:      chunk.ChunkIndex,
			StartIndex:      chunk.StartIndex,
			EndIndex:        chunk.EndIndex,
			PageNumber:      chunk.PageNumber,
			WordCount:       chunk.WordCount,
			CharCount:       chunk.CharCount,
			PreviousChunkId: chunk.PreviousChunkId,
			NextChunkId:     chunk.NextChunkId,
		})
	}
	return resp
}

func BadRequest(id string, message string, code int) api.ErrorResponse {
	return api.ErrorResponse{
		Code:    code,
		Message: message,
		Id:      id,
	}
}
