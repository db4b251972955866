package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/avemuri/CaseDocAPI/internal/cache"
	"github.com/avemuri/CaseDocAPI/internal/chunker"
	"github.com/avemuri/CaseDocAPI/internal/config"
	"github.com/avemuri/CaseDocAPI/internal/domain/docModel"
	"github.com/avemuri/CaseDocAPI/internal/domain/jobModel"
	"github.com/avemuri/CaseDocAPI/internal/extraction"
	"github.com/avemuri/CaseDocAPI/internal/metrics"
	"github.com/google/uuid"
)

// extractionPayload is what the extraction cache stores: the result plus
// page structure when the source had one.
type extractionPayload struct {
	Result *docModel.ExtractionResult
	Pages  []extraction.RawPage
}

func (p *Processor) processJob(ctx context.Context, job jobModel.Job) JobOutcome {
	start := time.Now()
	log := p.logger.WithTrace(ctx).With("jobId", job.Id, "documentId", job.DocumentId)

	jobCtx, cancel := context.WithTimeout(ctx, config.JobTimeout)
	defer cancel()

	outcome := func(j jobModel.Job) JobOutcome {
		metrics.CaptureJobOutcome(string(j.Status), time.Since(start))
		return JobOutcome{Id: j.Id, DocumentId: j.DocumentId, Status: j.Status, Error: j.LastError}
	}

	doc, found := p.docs.GetDocument(jobCtx, job.DocumentId)
	if !found {
		return outcome(p.failJob(jobCtx, job, nil, errors.New("document not found")))
	}
	if doc.FileKey == "" {
		//non-retryable: there is nothing to extract from
		return outcome(p.failJob(jobCtx, job, &doc, errors.New("document has no source file")))
	}

	payload, err := p.extractFor(jobCtx, doc)
	if err != nil {
		log.Warn("extraction failed", "error", err)
		if isTransient(err) {
			return outcome(p.retryOrFail(jobCtx, job, &doc, err))
		}
		return outcome(p.failJob(jobCtx, job, &doc, err))
	}

	text := payload.Result.Text
	log.Debug("extraction complete", "provider", payload.Result.Provider, "chars", len(text))

	doc.ExtractedText = text
	doc.OcrProvider = payload.Result.Provider
	doc.OcrProcessed = true
	doc.Tables = payload.Result.Tables
	doc.FailureReason = ""

	//analysis is an enhancement: too-short texts skip it, and the chain
	//itself degrades to the heuristic rather than erroring
	var events []docModel.TimelineEvent
	if len(text) >= config.MinAnalyzeLength {
		result := p.analysisFor(jobCtx, doc.Id, text)
		doc.Analyzed = result.Provider != "none"
		doc.Summary = result.Summary
		doc.KeyFacts = result.KeyFacts
		doc.Favorable = result.Favorable
		doc.Adverse = result.Adverse
		doc.ActionItems = result.ActionItems
		//copied before tagging: the result may be shared via the cache
		events = append([]docModel.TimelineEvent(nil), result.TimelineEvents...)
	} else {
		log.Debug("text below analysis threshold, skipping", "chars", len(text))
	}

	//warm the chunk cache with the default options used by retrieval
	p.chunksFor(doc.Id, text, payload.Pages, chunker.DefaultOptions())

	doc.UpdatedAt = p.now()
	if err := p.docs.SaveDocument(jobCtx, doc); err != nil {
		return outcome(p.retryOrFail(jobCtx, job, nil, fmt.Errorf("persisting document: %w", err)))
	}
	for i := range events {
		events[i].Id = uuid.New().String()
		events[i].DocumentId = doc.Id
	}
	if err := p.docs.ReplaceTimelineEvents(jobCtx, doc.Id, events); err != nil {
		return outcome(p.retryOrFail(jobCtx, job, nil, fmt.Errorf("persisting timeline: %w", err)))
	}

	job.Status = jobModel.JobStatusCompleted
	job.LastError = ""
	job.UpdatedAt = p.now()
	if err := p.jobs.SaveJob(jobCtx, job); err != nil {
		p.logger.Error("failed to save completed job", "jobId", job.Id, "error", err)
	}
	log.Info("job completed", "events", len(events))
	return outcome(job)
}

// extractFor runs the cached extraction step for a document.
func (p *Processor) extractFor(ctx context.Context, doc docModel.Document) (*extractionPayload, error) {
	key := cache.Key(doc.Id, "extraction", nil)
	if cached, hit := p.caches.Extraction.Get(key); hit {
		metrics.CaptureCacheEvent("extraction", true)
		return cached.(*extractionPayload), nil
	}
	metrics.CaptureCacheEvent("extraction", false)

	file, err := p.files.Get(ctx, doc.FileKey)
	if err != nil {
		return nil, fmt.Errorf("loading source file: %w", err)
	}

	payload, err := p.extractBytes(ctx, doc, file)
	if err != nil {
		return nil, err
	}
	payload.Result.Text = extraction.Normalize(payload.Result.Text)
	for i := range payload.Pages {
		payload.Pages[i].Content = extraction.Normalize(payload.Pages[i].Content)
	}
	p.caches.Extraction.Set(key, payload)
	return payload, nil
}

func (p *Processor) extractBytes(ctx context.Context, doc docModel.Document, file []byte) (*extractionPayload, error) {
	switch doc.ContentType {
	case docModel.Text, docModel.Word:
		//text-bearing types bypass OCR entirely
		text, err := extraction.ReadWordLike(file, doc.Name)
		if err != nil {
			return nil, err
		}
		return &extractionPayload{
			Result: &docModel.ExtractionResult{Text: text, Provider: "native-text"},
		}, nil

	case docModel.PDF:
		//prefer the embedded text layer; OCR only scanned PDFs
		if pages, err := extraction.ReadNativePDF(file); err == nil {
			total := 0
			for _, page := range pages {
				total += len(strings.TrimSpace(page.Content))
			}
			if total >= config.MinTextLength {
				var sb strings.Builder
				for _, page := range pages {
					sb.WriteString(page.Content)
					sb.WriteString("\n\n")
				}
				return &extractionPayload{
					Result: &docModel.ExtractionResult{Text: sb.String(), Provider: "native-pdf"},
					Pages:  pages,
				}, nil
			}
		}
		result, err := p.ocr.Extract(ctx, file, "application/pdf")
		if err != nil {
			return nil, err
		}
		return &extractionPayload{Result: result}, nil

	case docModel.Image:
		result, err := p.ocr.Extract(ctx, file, mimeForImage(doc.Name))
		if err != nil {
			return nil, err
		}
		return &extractionPayload{Result: result}, nil

	default:
		//audio/video/unknown: a marker, not a failure
		return &extractionPayload{
			Result: &docModel.ExtractionResult{
				Text:     extraction.Placeholder(doc.ContentType, doc.Name),
				Provider: "none",
			},
		}, nil
	}
}

func (p *Processor) analysisFor(ctx context.Context, documentId, text string) *docModel.AnalysisResult {
	key := cache.Key(documentId, "analysis", nil)
	if cached, hit := p.caches.Analysis.Get(key); hit {
		metrics.CaptureCacheEvent("analysis", true)
		return cached.(*docModel.AnalysisResult)
	}
	metrics.CaptureCacheEvent("analysis", false)

	result := p.analyzer.Analyze(ctx, text)
	p.caches.Analysis.Set(key, result)
	return result
}

func (p *Processor) chunksFor(documentId, text string, pages []extraction.RawPage, opts chunker.Options) []docModel.Chunk {
	key := cache.Key(documentId, "chunks", opts.Map())
	if cached, hit := p.caches.Chunks.Get(key); hit {
		metrics.CaptureCacheEvent("chunks", true)
		return cached.([]docModel.Chunk)
	}
	metrics.CaptureCacheEvent("chunks", false)

	var chunks []docModel.Chunk
	if len(pages) > 0 {
		chunkerPages := make([]chunker.Page, len(pages))
		for i, page := range pages {
			chunkerPages[i] = chunker.Page{Number: page.Number, Content: page.Content}
		}
		chunks = chunker.SplitPages(chunkerPages, opts)
	} else {
		chunks = chunker.Split(text, opts)
	}
	p.caches.Chunks.Set(key, chunks)
	return chunks
}

func mimeForImage(name string) string {
	lower := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lower, ".png"):
		return "image/png"
	case strings.HasSuffix(lower, ".tif"), strings.HasSuffix(lower, ".tiff"):
		return "image/tiff"
	case strings.HasSuffix(lower, ".webp"):
		return "image/webp"
	default:
		return "image/jpeg"
	}
}
