package driven

import (
	"context"

	"github.com/praxis-labs/recall/internal/core/domain"
)

// DocumentStore persists Document lifecycle rows. The (owner, provider,
// external_id) tuple is unique when provider and external_id are present;
// Save upserts on that key so repeated syncs never create duplicate rows.
//
// Documents are mutated only by the sync orchestrator and the upload worker
// that own them, never by the retriever.
type DocumentStore interface {
	// Save stores or updates a document.
	Save(ctx context.Context, doc *domain.Document) error

	// Get retrieves a document by ID.
	// Returns domain.ErrNotFound when absent.
	Get(ctx context.Context, id string) (*domain.Document, error)

	// GetByExternalID retrieves a document by its idempotency key.
	// Returns domain.ErrNotFound when absent.
	GetByExternalID(ctx context.Context, ownerID, provider, externalID string) (*domain.Document, error)

	// List returns all of an owner's documents, newest first.
	List(ctx context.Context, ownerID string) ([]domain.Document, error)

	// SetStatus updates a document's lifecycle state and error message.
	SetStatus(ctx context.Context, id string, status domain.DocumentStatus, errMsg string) error

	// Delete removes a document row.
	Delete(ctx context.Context, id string) error
}
