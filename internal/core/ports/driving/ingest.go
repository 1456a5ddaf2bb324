package driving

import (
	"context"

	"github.com/praxis-labs/recall/internal/core/domain"
)

// UploadIngestor accepts raw file payloads for out-of-band ingestion.
//
// Submit only registers the document and hands the payload to a background
// worker; callers observe progress by polling document status, never by
// blocking on completion.
type UploadIngestor interface {
	// Submit registers a pending document for the payload and enqueues
	// it for processing. Returns the created document immediately.
	Submit(ctx context.Context, ownerID, filename string, payload []byte, conversationID string) (*domain.Document, error)

	// Close drains the worker pool.
	Close() error
}
