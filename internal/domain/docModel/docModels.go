package docModel

import (
	"context"
	"time"
)

type DocType string

const (
	PDF   DocType = "pdf"
	Image DocType = "image"
	Word  DocType = "word"
	Text  DocType = "text"
	Audio DocType = "audio"
	Video DocType = "video"
	Other DocType = "other"
)

// RequiresOCR reports whether extraction must go through the provider chain.
// Text-bearing types are read directly; audio/video and unknown types get a
// placeholder marker instead of failing.
func (t DocType) RequiresOCR() bool {
	return t == PDF || t == Image
}

type Document struct {
	Id            string    `json:"id"`
	CaseId        string    `json:"case_id"`
	OwnerId       string    `json:"owner_id"`
	Name          string    `json:"name"`
	FileKey       string    `json:"file_key"`
	ContentType   DocType   `json:"content_type"`
	OcrProcessed  bool      `json:"ocr_processed"`
	OcrProvider   string    `json:"ocr_provider,omitempty"`
	ExtractedText string    `json:"extracted_text,omitempty"`
	Tables        []Table   `json:"tables,omitempty"`
	Analyzed      bool      `json:"analyzed"`
	Summary       string    `json:"summary,omitempty"`
	KeyFacts      []string  `json:"key_facts,omitempty"`
	Favorable     []string  `json:"favorable_findings,omitempty"`
	Adverse       []string  `json:"adverse_findings,omitempty"`
	ActionItems   []string  `json:"action_items,omitempty"`
	FailureReason string    `json:"failure_reason,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type Table struct {
	PageNumber int        `json:"page_number,omitempty"`
	Rows       [][]string `json:"rows"`
}

type ExtractionResult struct {
	Text     string  `json:"text"`
	Provider string  `json:"provider"`
	Tables   []Table `json:"tables,omitempty"`
}

type Importance string

const (
	ImportanceLow    Importance = "low"
	ImportanceMedium Importance = "medium"
	ImportanceHigh   Importance = "high"
)

type EventType string

const (
	EventFiling   EventType = "filing"
	EventHearing  EventType = "hearing"
	EventDeadline EventType = "deadline"
	EventMeeting  EventType = "meeting"
	EventIncident EventType = "incident"
	EventOther    EventType = "other"
)

// TimelineEvent is a derived row tagged with the source document so a
// later re-run can cleanly replace it.
type TimelineEvent struct {
	Id          string     `json:"id,omitempty"`
	DocumentId  string     `json:"document_id,omitempty"`
	Date        string     `json:"date"` // YYYY-MM-DD
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Importance  Importance `json:"importance"`
	EventType   EventType  `json:"event_type"`
}

type AnalysisResult struct {
	Summary        string          `json:"summary"`
	KeyFacts       []string        `json:"key_facts"`
	Favorable      []string        `json:"favorable_findings"`
	Adverse        []string        `json:"adverse_findings"`
	ActionItems    []string        `json:"action_items"`
	TimelineEvents []TimelineEvent `json:"timeline_events"`
	Provider       string          `json:"provider"` // "ai:<name>", "heuristic" or "none"
}

// Empty reports whether the analysis carries no usable signal. An AI
// provider returning an empty shape is treated the same as a failure.
func (a *AnalysisResult) Empty() bool {
	if a == nil {
		return true
	}
	return a.Summary == "" && len(a.KeyFacts) == 0 && len(a.Favorable) == 0 &&
		len(a.Adverse) == 0 && len(a.ActionItems) == 0 && len(a.TimelineEvents) == 0
}

type Chunk struct {
	Id              string `json:"id"`
	Content         string `json:"content"`
	StartIndex      int    `json:"start_index"`
	EndIndex        int    `json:"end_index"`
	ChunkIndex      int    `json:"chunk_index"`
	TotalChunks     int    `json:"total_chunks"`
	PageNumber      int    `json:"page_number,omitempty"`
	WordCount       int    `json:"word_count"`
	CharCount       int    `json:"char_count"`
	PreviousChunkId string `json:"previous_chunk_id,omitempty"`
	NextChunkId     string `json:"next_chunk_id,omitempty"`
}

// DocumentStore owns the durable document records and their derived
// timeline rows once the pipeline persists results.
type DocumentStore interface {
	SaveDocument(ctx context.Context, doc Document) error
	GetDocument(ctx context.Context, id string) (Document, bool)
	ListByCase(ctx context.Context, caseId string) ([]Document, error)

	// ReplaceTimelineEvents is delete-then-insert for the document's
	// auto-derived rows so re-processing never leaves stale duplicates.
	ReplaceTimelineEvents(ctx context.Context, documentId string, events []TimelineEvent) error
	ListTimelineEvents(ctx context.Context, documentId string) ([]TimelineEvent, error)
}

// CaseStore answers the ownership question enqueue and status need.
type CaseStore interface {
	CaseOwner(ctx context.Context, caseId string) (string, bool)
}

// FileStore hands the processor the raw bytes behind a document's FileKey.
type FileStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, data []byte, contentType string) error
}
