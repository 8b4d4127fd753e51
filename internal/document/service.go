package document

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/legastream/legastream/internal/models"
	"github.com/legastream/legastream/internal/storage"
)

var ErrNotFound = errors.New("document not found")

// Service owns the document lifecycle: upload, listing, retrieval,
// deletion, status flips. Every query is scoped to the owning user, so
// one user can never see or touch another user's documents.
type Service struct {
	db    *sql.DB
	store storage.Storage
}

func NewService(db *sql.DB, store storage.Storage) *Service {
	return &Service{db: db, store: store}
}

// Upload validates the bytes, writes the file to storage, and inserts
// the document row with status uploaded.
func (s *Service) Upload(ctx context.Context, userID int64, originalName, contentType string, data []byte, maxBytes int64) (*models.Document, error) {
	if err := ValidateUpload(data, maxBytes); err != nil {
		return nil, err
	}

	safe := SanitizeFilename(originalName)
	stored := fmt.Sprintf("%d_%s", time.Now().UnixNano(), safe)

	if _, err := s.store.Save(ctx, stored, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("store upload: %w", err)
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO documents (user_id, filename, original_filename, file_size, content_type, status)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		userID, stored, safe, len(data), contentType, models.DocStatusUploaded)
	if err != nil {
		s.store.Delete(ctx, stored)
		return nil, fmt.Errorf("insert document: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("document id: %w", err)
	}
	return s.Get(ctx, userID, id)
}

func (s *Service) List(ctx context.Context, userID int64) ([]*models.Document, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, filename, original_filename, file_size, content_type, status,
		        analysis_results, created_at, updated_at
		 FROM documents WHERE user_id = ? ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var docs []*models.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

func (s *Service) Get(ctx context.Context, userID, id int64) (*models.Document, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, filename, original_filename, file_size, content_type, status,
		        analysis_results, created_at, updated_at
		 FROM documents WHERE id = ? AND user_id = ?`, id, userID)

	doc, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return doc, err
}

// Delete removes the row (entities and issues cascade) and the stored
// file. A missing file is not an error; the row is authoritative.
func (s *Service) Delete(ctx context.Context, userID, id int64) error {
	doc, err := s.Get(ctx, userID, id)
	if err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM documents WHERE id = ? AND user_id = ?`, id, userID); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}

	if err := s.store.Delete(ctx, doc.Filename); err != nil {
		return fmt.Errorf("delete stored file: %w", err)
	}
	return nil
}

// Entities lists the extracted entities for a document the user owns,
// highest confidence first.
func (s *Service) Entities(ctx context.Context, userID, documentID int64) ([]*models.Entity, error) {
	if _, err := s.Get(ctx, userID, documentID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, document_id, entity_type, entity_value, context, confidence, created_at
		 FROM entities WHERE document_id = ? ORDER BY confidence DESC, id`, documentID)
	if err != nil {
		return nil, fmt.Errorf("list entities: %w", err)
	}
	defer rows.Close()

	entities := []*models.Entity{}
	for rows.Next() {
		var e models.Entity
		if err := rows.Scan(&e.ID, &e.DocumentID, &e.Type, &e.Value, &e.Context,
			&e.Confidence, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan entity: %w", err)
		}
		entities = append(entities, &e)
	}
	return entities, rows.Err()
}

// SetStatus flips the lifecycle status for a document the user owns.
func (s *Service) SetStatus(ctx context.Context, userID, id int64, status string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE documents SET status = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND user_id = ?`, status, id, userID)
	if err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*models.Document, error) {
	var doc models.Document
	var results sql.NullString
	err := row.Scan(&doc.ID, &doc.UserID, &doc.Filename, &doc.OriginalFilename,
		&doc.FileSize, &doc.ContentType, &doc.Status, &results,
		&doc.CreatedAt, &doc.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if results.Valid && results.String != "" {
		doc.AnalysisResults = []byte(results.String)
	}
	return &doc, nil
}
