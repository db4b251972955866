package api

import "time"

type ErrorResponse struct {
	Code    int    `json:"code" example:"400"`
	Message string `json:"message" example:"Bad Request"`
	Id      string `json:"id,omitempty" example:"doc_4821"`
}

type UploadResponse struct {
	Id          string `json:"id" example:"0b7d3c2e"`
	Name        string `json:"name" example:"deposition.pdf"`
	ContentType string `json:"content_type" example:"pdf"`
	FileKey     string `json:"file_key"`
}

type EnqueueResponse struct {
	Queued        int          `json:"queued" example:"3"`
	AlreadyActive int          `json:"already_active" example:"1"`
	Skipped       int          `json:"skipped" example:"0"`
	JobIds        []string     `json:"job_ids"`
	SkippedDocs   []SkippedDoc `json:"skipped_documents,omitempty"`
}

type SkippedDoc struct {
	DocumentId string `json:"document_id"`
	Reason     string `json:"reason" example:"no_file"`
}

type ProcessResponse struct {
	Processed int            `json:"processed" example:"4"`
	Remaining int            `json:"remaining" example:"11"`
	Failed    int            `json:"failed" example:"1"`
	Jobs      []JobResultRow `json:"jobs"`
}

type JobResultRow struct {
	Id         string `json:"id"`
	DocumentId string `json:"document_id"`
	Status     string `json:"status" example:"completed"`
	Error      string `json:"error,omitempty"`
}

type StatusResponse struct {
	CaseId     string         `json:"case_id"`
	Pending    int            `json:"pending"`
	Processing int            `json:"processing"`
	Completed  int            `json:"completed"`
	Failed     int            `json:"failed"`
	Jobs       []JobStatusRow `json:"jobs"`
}

type JobStatusRow struct {
	Id         string     `json:"id"`
	DocumentId string     `json:"document_id"`
	Status     string     `json:"status" example:"pending"`
	Attempts   int        `json:"attempts" example:"1"`
	RetryAfter *time.Time `json:"retry_after,omitempty"`
	LastError  string     `json:"last_error,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

type ChunksResponse struct {
	DocumentId  string     `json:"document_id"`
	TotalChunks int        `json:"total_chunks"`
	Chunks      []ChunkRow `json:"chunks"`
}

type ChunkRow struct {
	Id              string `json:"id"`
	Content         string `json:"content"`
	ChunkIndex      int    `json:"chunk_index"`
	StartIndex      int    `json:"start_index"`
	EndIndex        int    `json:"end_index"`
	PageNumber      int    `json:"page_number,omitempty"`
	WordCount       int    `json:"word_count"`
	CharCount       int    `json:"char_count"`
	PreviousChunkId string `json:"previous_chunk_id,omitempty"`
	NextChunkId     string `json:"next_chunk_id,omitempty"`
}

// requests---------------------

type EnqueueRequest struct {
	CaseId      string   `json:"case_id" validate:"required"`
	DocumentIds []string `json:"document_ids" validate:"required"`
	Priority    int      `json:"priority,omitempty"`
}
