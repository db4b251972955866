package store

import (
	"context"
	"sort"
	"sync"

	"github.com/avemuri/CaseDocAPI/internal/domain/docModel"
)

// InMemoryDocumentStore keeps documents, derived timeline rows and case
// ownership in maps. Used in tests and when no DATABASE_URL is set.
type InMemoryDocumentStore struct {
	mu         sync.RWMutex
	documents  map[string]docModel.Document
	timelines  map[string][]docModel.TimelineEvent //documentId -> rows
	caseOwners map[string]string
}

func InitInMemoryDocumentStore() *InMemoryDocumentStore {
	return &InMemoryDocumentStore{
		documents:  make(map[string]docModel.Document),
		timelines:  make(map[string][]docModel.TimelineEvent),
		caseOwners: make(map[string]string),
	}
}

func (s *InMemoryDocumentStore) SaveDocument(ctx context.Context, doc docModel.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents[doc.Id] = doc
	return nil
}

func (s *InMemoryDocumentStore) GetDocument(ctx context.Context, id string) (docModel.Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, found := s.documents[id]
	return doc, found
}

func (s *InMemoryDocumentStore) ListByCase(ctx context.Context, caseId string) ([]docModel.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var docs []docModel.Document
	for _, doc := range s.documents {
		if doc.CaseId == caseId {
			docs = append(docs, doc)
		}
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].CreatedAt.Before(docs[j].CreatedAt) })
	return docs, nil
}

func (s *InMemoryDocumentStore) ReplaceTimelineEvents(ctx context.Context, documentId string, events []docModel.TimelineEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows := make([]docModel.TimelineEvent, len(events))
	for i, ev := range events {
		ev.DocumentId = documentId
		rows[i] = ev
	}
	s.timelines[documentId] = rows
	return nil
}

func (s *InMemoryDocumentStore) ListTimelineEvents(ctx context.Context, documentId string) ([]docModel.TimelineEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]docModel.TimelineEvent(nil), s.timelines[documentId]...), nil
}

// SetCaseOwner seeds ownership; the HTTP layer normally learns this from
// the cases table.
func (s *InMemoryDocumentStore) SetCaseOwner(caseId, ownerId string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.caseOwners[caseId] = ownerId
}

func (s *InMemoryDocumentStore) CaseOwner(ctx context.Context, caseId string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	owner, found := s.caseOwners[caseId]
	return owner, found
}
