package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrCredentialMissing indicates a connector's required credential
	// fields are absent. The sync orchestrator skips the provider; this is
	// never fatal to the owner's sync.
	ErrCredentialMissing = errors.New("credential missing")

	// ErrConnectorFetch indicates a connector failed to fetch items from
	// its source. The provider's sync aborts; sibling providers continue.
	ErrConnectorFetch = errors.New("connector fetch failed")

	// ErrExtraction indicates no text could be produced from a byte
	// payload. The document is marked failed.
	ErrExtraction = errors.New("no text extracted")

	// ErrEmbeddingService indicates the embedding service failed after all
	// retries were exhausted. Callers must not retry further.
	ErrEmbeddingService = errors.New("embedding service failed")

	// ErrDimensionMismatch indicates an embedding vector does not match
	// the configured dimension.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrUnsupportedType indicates an unknown provider or file type.
	ErrUnsupportedType = errors.New("unsupported type")
)
