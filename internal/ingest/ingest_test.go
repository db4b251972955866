package ingest

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/avemuri/CaseDocAPI/internal/data/store"
	"github.com/avemuri/CaseDocAPI/internal/domain/docModel"
	"github.com/avemuri/CaseDocAPI/internal/domain/jobModel"
)

type fixture struct {
	service *Service
	jobs    *store.InMemoryJobStore
	docs    *store.InMemoryDocumentStore
	files   *store.InMemoryFileStore
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	jobs := store.InitInMemoryJobStore()
	docs := store.InitInMemoryDocumentStore()
	files := store.InitInMemoryFileStore()
	docs.SetCaseOwner("case-1", "user-1")

	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	service := NewServiceWithClock(jobs, docs, docs, files, func() time.Time { return now })
	return fixture{service: service, jobs: jobs, docs: docs, files: files}
}

func (f fixture) addDocument(t *testing.T, id string, mutate func(*docModel.Document)) {
	t.Helper()
	doc := docModel.Document{
		Id:          id,
		CaseId:      "case-1",
		OwnerId:     "user-1",
		Name:        id + ".pdf",
		FileKey:     "cases/case-1/" + id,
		ContentType: docModel.PDF,
	}
	if mutate != nil {
		mutate(&doc)
	}
	if err := f.docs.SaveDocument(context.Background(), doc); err != nil {
		t.Fatalf("SaveDocument: %v", err)
	}
}

func TestEnqueue_QueuesEligibleDocuments(t *testing.T) {
	f := newFixture(t)
	f.addDocument(t, "doc-1", nil)
	f.addDocument(t, "doc-2", nil)

	result, err := f.service.Enqueue(context.Background(), "user-1", "case-1", []string{"doc-1", "doc-2"}, 3)
	if err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	if result.Queued != 2 || result.Skipped != 0 || result.AlreadyActive != 0 {
		t.Errorf("unexpected result %+v", result)
	}
	if len(result.JobIds) != 2 {
		t.Fatalf("expected 2 job ids, got %d", len(result.JobIds))
	}

	job, found := f.jobs.GetJob(context.Background(), result.JobIds[0])
	if !found {
		t.Fatal("queued job not persisted")
	}
	if job.Status != jobModel.JobStatusPending || job.Priority != 3 || job.OwnerId != "user-1" {
		t.Errorf("job fields wrong: %+v", job)
	}
}

func TestEnqueue_ForbiddenForNonOwner(t *testing.T) {
	f := newFixture(t)
	f.addDocument(t, "doc-1", nil)

	_, err := f.service.Enqueue(context.Background(), "intruder", "case-1", []string{"doc-1"}, 0)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	_, err = f.service.Enqueue(context.Background(), "user-1", "unknown-case", []string{"doc-1"}, 0)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("unknown case should be forbidden, got %v", err)
	}
}

func TestEnqueue_SkipReasons(t *testing.T) {
	f := newFixture(t)
	f.addDocument(t, "no-file", func(d *docModel.Document) { d.FileKey = "" })
	f.addDocument(t, "already-done", func(d *docModel.Document) { d.OcrProcessed = true })
	f.addDocument(t, "wrong-case", func(d *docModel.Document) { d.CaseId = "case-2" })

	result, err := f.service.Enqueue(context.Background(), "user-1", "case-1",
		[]string{"no-file", "already-done", "wrong-case", "ghost"}, 0)
	if err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	if result.Queued != 0 || result.Skipped != 4 {
		t.Fatalf("unexpected result %+v", result)
	}

	reasons := make(map[string]SkipReason)
	for _, s := range result.SkippedDocs {
		reasons[s.DocumentId] = s.Reason
	}
	want := map[string]SkipReason{
		"no-file":      SkipNoFile,
		"already-done": SkipAlreadyProcessed,
		"wrong-case":   SkipWrongCase,
		"ghost":        SkipNotFound,
	}
	for id, reason := range want {
		if reasons[id] != reason {
			t.Errorf("document %s: reason %q, want %q", id, reasons[id], reason)
		}
	}
}

func TestEnqueue_DeduplicatesActiveJobs(t *testing.T) {
	f := newFixture(t)
	f.addDocument(t, "doc-1", nil)

	first, err := f.service.Enqueue(context.Background(), "user-1", "case-1", []string{"doc-1"}, 0)
	if err != nil || first.Queued != 1 {
		t.Fatalf("first enqueue: %+v, %v", first, err)
	}

	second, err := f.service.Enqueue(context.Background(), "user-1", "case-1", []string{"doc-1"}, 0)
	if err != nil {
		t.Fatalf("second enqueue: %v", err)
	}
	if second.Queued != 0 || second.AlreadyActive != 1 {
		t.Errorf("expected dedup, got %+v", second)
	}
}

func TestEnqueue_ConcurrentRequestsQueueOnce(t *testing.T) {
	f := newFixture(t)
	f.addDocument(t, "doc-1", nil)

	const callers = 4
	start := make(chan struct{})
	results := make([]EnqueueResult, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			r, err := f.service.Enqueue(context.Background(), "user-1", "case-1", []string{"doc-1"}, 0)
			if err != nil {
				t.Errorf("Enqueue: %v", err)
				return
			}
			results[i] = r
		}()
	}
	close(start)
	wg.Wait()

	queued := 0
	for _, r := range results {
		queued += r.Queued
	}
	if queued != 1 {
		t.Errorf("%d callers queued a job, want exactly 1", queued)
	}

	jobs, err := f.jobs.ListByCase(context.Background(), "case-1", "user-1")
	if err != nil {
		t.Fatalf("ListByCase: %v", err)
	}
	active := 0
	for _, job := range jobs {
		if !job.Status.IsTerminal() {
			active++
		}
	}
	if active != 1 {
		t.Errorf("%d non-terminal jobs exist for doc-1, want exactly 1", active)
	}
}

func TestEnqueue_DuplicateIdsInOneRequest(t *testing.T) {
	f := newFixture(t)
	f.addDocument(t, "doc-1", nil)

	result, err := f.service.Enqueue(context.Background(), "user-1", "case-1",
		[]string{"doc-1", "doc-1", "doc-1"}, 0)
	if err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	if result.Queued != 1 {
		t.Errorf("repeated ids must queue once, got %d", result.Queued)
	}
}

func TestUpload_StoresFileAndDocument(t *testing.T) {
	f := newFixture(t)

	doc, err := f.service.Upload(context.Background(), "user-1", "case-1",
		"contract.pdf", "application/pdf", []byte("%PDF-1.4 data"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if doc.ContentType != docModel.PDF {
		t.Errorf("content type %q", doc.ContentType)
	}
	if doc.FileKey == "" {
		t.Fatal("no file key assigned")
	}

	data, err := f.files.Get(context.Background(), doc.FileKey)
	if err != nil || string(data) != "%PDF-1.4 data" {
		t.Errorf("blob not stored: %v", err)
	}
	if _, found := f.docs.GetDocument(context.Background(), doc.Id); !found {
		t.Error("document row not stored")
	}
}

func TestUpload_RejectsEmptyAndForeign(t *testing.T) {
	f := newFixture(t)

	if _, err := f.service.Upload(context.Background(), "intruder", "case-1", "a.pdf", "application/pdf", []byte("x")); !errors.Is(err, ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}
	if _, err := f.service.Upload(context.Background(), "user-1", "case-1", "a.pdf", "application/pdf", nil); err == nil {
		t.Error("empty upload should fail")
	}
}

func TestStatus_CountsAndOwnership(t *testing.T) {
	f := newFixture(t)
	f.addDocument(t, "doc-1", nil)
	if _, err := f.service.Enqueue(context.Background(), "user-1", "case-1", []string{"doc-1"}, 0); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}

	counts, jobs, err := f.service.Status(context.Background(), "user-1", "case-1")
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if counts.Pending != 1 || len(jobs) != 1 {
		t.Errorf("counts %+v, %d jobs", counts, len(jobs))
	}

	if _, _, err := f.service.Status(context.Background(), "intruder", "case-1"); !errors.Is(err, ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}
}
