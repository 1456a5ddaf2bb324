package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/praxis-labs/recall/internal/core/domain"
	"github.com/praxis-labs/recall/internal/core/ports/driven"
)

// documentStore implements driven.DocumentStore.
type documentStore struct {
	store *Store
}

var _ driven.DocumentStore = (*documentStore)(nil)

// documentColumns is the column list shared by every document query.
const documentColumns = `id, owner_id, provider, external_id, filename, source_url,
	content_hash, file_size, status, error_message, conversation_id, created_at`

// Save stores or updates a document.
func (s *documentStore) Save(ctx context.Context, doc *domain.Document) error {
	if doc.OwnerID == "" {
		return fmt.Errorf("%w: owner id is required", domain.ErrInvalidInput)
	}
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	if doc.Status == "" {
		doc.Status = domain.StatusPending
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO documents
			(id, owner_id, provider, external_id, filename, source_url,
			 content_hash, file_size, status, error_message, conversation_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			filename = excluded.filename,
			source_url = excluded.source_url,
			content_hash = excluded.content_hash,
			file_size = excluded.file_size,
			status = excluded.status,
			error_message = excluded.error_message,
			conversation_id = excluded.conversation_id
	`, doc.ID, doc.OwnerID, nullString(doc.Provider), nullString(doc.ExternalID),
		doc.Filename, doc.SourceURL, doc.ContentHash, doc.FileSize,
		string(doc.Status), doc.ErrorMessage, doc.ConversationID, doc.CreatedAt)

	if err != nil {
		return fmt.Errorf("saving document: %w", err)
	}
	return nil
}

// Get retrieves a document by ID.
func (s *documentStore) Get(ctx context.Context, id string) (*domain.Document, error) {
	row := s.store.db.QueryRowContext(ctx,
		"SELECT "+documentColumns+" FROM documents WHERE id = ?", id)

	return scanDocument(row)
}

// GetByExternalID retrieves a document by its (owner, provider, external_id)
// idempotency key.
func (s *documentStore) GetByExternalID(
	ctx context.Context,
	ownerID, provider, externalID string,
) (*domain.Document, error) {
	row := s.store.db.QueryRowContext(ctx,
		"SELECT "+documentColumns+` FROM documents
		WHERE owner_id = ? AND provider = ? AND external_id = ?`,
		ownerID, provider, externalID)

	return scanDocument(row)
}

// List returns all of an owner's documents, newest first.
func (s *documentStore) List(ctx context.Context, ownerID string) ([]domain.Document, error) {
	rows, err := s.store.db.QueryContext(ctx,
		"SELECT "+documentColumns+` FROM documents
		WHERE owner_id = ?
		ORDER BY created_at DESC, id`,
		ownerID)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	var docs []domain.Document //nolint:prealloc // size unknown from query
	for rows.Next() {
		doc, err := scanDocumentRows(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}

	return docs, nil
}

// SetStatus updates a document's lifecycle state and error message.
func (s *documentStore) SetStatus(
	ctx context.Context,
	id string,
	status domain.DocumentStatus,
	errMsg string,
) error {
	res, err := s.store.db.ExecContext(ctx,
		"UPDATE documents SET status = ?, error_message = ? WHERE id = ?",
		string(status), errMsg, id)
	if err != nil {
		return fmt.Errorf("updating document status: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking status update: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes a document row.
func (s *documentStore) Delete(ctx context.Context, id string) error {
	_, err := s.store.db.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}
	return nil
}

// rowScanner covers *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocumentInto(sc rowScanner) (*domain.Document, error) {
	var doc domain.Document
	var provider, externalID sql.NullString
	var status string
	var createdAt sql.NullTime

	if err := sc.Scan(&doc.ID, &doc.OwnerID, &provider, &externalID,
		&doc.Filename, &doc.SourceURL, &doc.ContentHash, &doc.FileSize,
		&status, &doc.ErrorMessage, &doc.ConversationID, &createdAt); err != nil {
		return nil, err
	}

	doc.Provider = provider.String
	doc.ExternalID = externalID.String
	doc.Status = domain.DocumentStatus(status)
	if createdAt.Valid {
		doc.CreatedAt = createdAt.Time
	}

	return &doc, nil
}

// scanDocument scans a single document row.
func scanDocument(row *sql.Row) (*domain.Document, error) {
	doc, err := scanDocumentInto(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning document: %w", err)
	}
	return doc, nil
}

// scanDocumentRows scans a document from *sql.Rows.
func scanDocumentRows(rows *sql.Rows) (*domain.Document, error) {
	doc, err := scanDocumentInto(rows)
	if err != nil {
		return nil, fmt.Errorf("scanning document: %w", err)
	}
	return doc, nil
}
