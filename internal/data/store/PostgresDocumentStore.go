package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/avemuri/CaseDocAPI/internal/domain/docModel"
	"github.com/avemuri/CaseDocAPI/pkg/logger_i"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresDocumentStore is the durable document owner for real
// deployments. Schema lives in db/schema.sql.
type PostgresDocumentStore struct {
	pool   *pgxpool.Pool
	logger *logger_i.Logger
}

func GetPostgresDocumentStore(ctx context.Context, databaseURL string) *PostgresDocumentStore {
	logger := logger_i.NewLogger("PostgresDocStore")
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		logger.Error("could not create pgx pool", "error", err)
		return nil
	}
	if err := pool.Ping(ctx); err != nil {
		logger.Error("postgres is offline", "error", err)
		pool.Close()
		return nil
	}
	logger.Info("Postgres document store init successfully")
	return &PostgresDocumentStore{pool: pool, logger: logger}
}

func (s *PostgresDocumentStore) Close() {
	s.pool.Close()
}

func (s *PostgresDocumentStore) SaveDocument(ctx context.Context, doc docModel.Document) error {
	tables, err := json.Marshal(doc.Tables)
	if err != nil {
		return fmt.Errorf("marshalling tables: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO documents (
			id, case_id, owner_id, name, file_key, content_type,
			ocr_processed, ocr_provider, extracted_text, tables,
			analyzed, summary, key_facts, favorable_findings,
			adverse_findings, action_items, failure_reason,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)
		ON CONFLICT (id) DO UPDATE SET
			ocr_processed = EXCLUDED.ocr_processed,
			ocr_provider = EXCLUDED.ocr_provider,
			extracted_text = EXCLUDED.extracted_text,
			tables = EXCLUDED.tables,
			analyzed = EXCLUDED.analyzed,
			summary = EXCLUDED.summary,
			key_facts = EXCLUDED.key_facts,
			favorable_findings = EXCLUDED.favorable_findings,
			adverse_findings = EXCLUDED.adverse_findings,
			action_items = EXCLUDED.action_items,
			failure_reason = EXCLUDED.failure_reason,
			updated_at = EXCLUDED.updated_at`,
		doc.Id, doc.CaseId, doc.OwnerId, doc.Name, doc.FileKey, doc.ContentType,
		doc.OcrProcessed, doc.OcrProvider, doc.ExtractedText, tables,
		doc.Analyzed, doc.Summary, doc.KeyFacts, doc.Favorable,
		doc.Adverse, doc.ActionItems, doc.FailureReason,
		doc.CreatedAt, doc.UpdatedAt)
	return err
}

func (s *PostgresDocumentStore) GetDocument(ctx context.Context, id string) (docModel.Document, bool) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, case_id, owner_id, name, file_key, content_type,
		       ocr_processed, ocr_provider, extracted_text, tables,
		       analyzed, summary, key_facts, favorable_findings,
		       adverse_findings, action_items, failure_reason,
		       created_at, updated_at
		FROM documents WHERE id = $1`, id)

	doc, err := scanDocument(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return docModel.Document{}, false
	}
	if err != nil {
		s.logger.Error("scanning document", "id", id, "error", err)
		return docModel.Document{}, false
	}
	return doc, true
}

func (s *PostgresDocumentStore) ListByCase(ctx context.Context, caseId string) ([]docModel.Document, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, case_id, owner_id, name, file_key, content_type,
		       ocr_processed, ocr_provider, extracted_text, tables,
		       analyzed, summary, key_facts, favorable_findings,
		       adverse_findings, action_items, failure_reason,
		       created_at, updated_at
		FROM documents WHERE case_id = $1 ORDER BY created_at`, caseId)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []docModel.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// ReplaceTimelineEvents deletes then inserts inside one transaction so a
// re-run can never leave a mix of stale and fresh rows.
func (s *PostgresDocumentStore) ReplaceTimelineEvents(ctx context.Context, documentId string, events []docModel.TimelineEvent) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`DELETE FROM timeline_events WHERE document_id = $1`, documentId); err != nil {
		return err
	}
	for _, ev := range events {
		if _, err := tx.Exec(ctx, `
			INSERT INTO timeline_events
				(id, document_id, event_date, title, description, importance, event_type)
			VALUES ($1,$2,$3,$4,$5,$6,$7)`,
			ev.Id, documentId, ev.Date, ev.Title, ev.Description, ev.Importance, ev.EventType); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (s *PostgresDocumentStore) ListTimelineEvents(ctx context.Context, documentId string) ([]docModel.TimelineEvent, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, document_id, event_date, title, description, importance, event_type
		FROM timeline_events WHERE document_id = $1 ORDER BY event_date`, documentId)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []docModel.TimelineEvent
	for rows.Next() {
		var ev docModel.TimelineEvent
		if err := rows.Scan(&ev.Id, &ev.DocumentId, &ev.Date, &ev.Title,
			&ev.Description, &ev.Importance, &ev.EventType); err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

func (s *PostgresDocumentStore) CaseOwner(ctx context.Context, caseId string) (string, bool) {
	var owner string
	err := s.pool.QueryRow(ctx,
		`SELECT owner_id FROM cases WHERE id = $1`, caseId).Scan(&owner)
	if err != nil {
		return "", false
	}
	return owner, true
}

func scanDocument(row pgx.Row) (docModel.Document, error) {
	var doc docModel.Document
	var tables []byte
	err := row.Scan(
		&doc.Id, &doc.CaseId, &doc.OwnerId, &doc.Name, &doc.FileKey, &doc.ContentType,
		&doc.OcrProcessed, &doc.OcrProvider, &doc.ExtractedText, &tables,
		&doc.Analyzed, &doc.Summary, &doc.KeyFacts, &doc.Favorable,
		&doc.Adverse, &doc.ActionItems, &doc.FailureReason,
		&doc.CreatedAt, &doc.UpdatedAt)
	if err != nil {
		return doc, err
	}
	if len(tables) > 0 {
		if err := json.Unmarshal(tables, &doc.Tables); err != nil {
			return doc, fmt.Errorf("unmarshalling tables: %w", err)
		}
	}
	return doc, nil
}
