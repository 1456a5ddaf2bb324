package driven

import "context"

// EmbeddingService generates fixed-dimension vector embeddings from text.
//
// The service distinguishes document-side from query-side embedding to match
// asymmetric embedding models: indexing uses the text as-is, searching
// prepends a retrieval instruction to the query before embedding.
type EmbeddingService interface {
	// Embed generates a document-side embedding (no instruction prefix).
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedQuery generates a query-side embedding with the retrieval
	// instruction prefix applied.
	EmbedQuery(ctx context.Context, text string) ([]float32, error)

	// Dimensions returns the embedding vector size (e.g. 384).
	// This must match the vector store's configured dimension.
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Close releases resources.
	Close() error
}
