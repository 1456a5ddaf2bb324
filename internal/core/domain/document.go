package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// DocumentStatus tracks the processing lifecycle of a document.
type DocumentStatus string

// Document lifecycle states.
const (
	// StatusPending means the document has been registered but processing
	// has not started.
	StatusPending DocumentStatus = "pending"

	// StatusProcessing means text extraction or embedding is in progress.
	StatusProcessing DocumentStatus = "processing"

	// StatusCompleted means all fragments have been embedded and stored.
	StatusCompleted DocumentStatus = "completed"

	// StatusFailed means processing hit an unrecoverable error. The
	// ErrorMessage field carries the cause.
	StatusFailed DocumentStatus = "failed"
)

// Document represents one logical external object (a file, page, or issue)
// owned by exactly one principal.
//
// The tuple (OwnerID, Provider, ExternalID) is the idempotency key for
// re-sync: when Provider and ExternalID are set, at most one Document exists
// per tuple. Ad-hoc uploads have no provider or external ID.
type Document struct {
	// ID is the unique identifier (UUID).
	ID string

	// OwnerID is the principal this document belongs to. All access is
	// scoped to it.
	OwnerID string

	// Provider is the connector that produced this document
	// (e.g. "google_drive", "github", "notion"). Empty for uploads.
	Provider string

	// ExternalID is the provider-assigned identifier. Empty for uploads.
	ExternalID string

	// Filename is the human-readable display name.
	Filename string

	// SourceURL is a deep link back to the original object.
	SourceURL string

	// ContentHash is the SHA-256 of the extracted text, used to
	// short-circuit re-embedding of unchanged content.
	ContentHash string

	// FileSize is the payload size in bytes for uploads, zero otherwise.
	FileSize int64

	// Status is the current lifecycle state.
	Status DocumentStatus

	// ErrorMessage carries the failure reason when Status is failed.
	ErrorMessage string

	// ConversationID scopes the document to a conversation. Empty means
	// the document is visible to all of the owner's queries.
	ConversationID string

	// CreatedAt is when the document was first seen.
	CreatedAt time.Time
}

// HashContent returns the hex-encoded SHA-256 of the given text. It is the
// canonical content hash stored on Document rows.
func HashContent(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// IsTerminal reports whether the status is a final state.
func (s DocumentStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}
