package services

import (
	"context"
	"fmt"

	"github.com/praxis-labs/recall/internal/chunker"
	"github.com/praxis-labs/recall/internal/core/domain"
	"github.com/praxis-labs/recall/internal/core/ports/driven"
	"github.com/praxis-labs/recall/internal/sanitizer"
)

// Pipeline runs the ingestion steps shared by sync and uploads:
// sanitize, mask PII, chunk, then embed-and-store each chunk.
type Pipeline struct {
	splitter    *chunker.Splitter
	vectorStore driven.VectorStore
}

// NewPipeline creates an ingestion pipeline.
func NewPipeline(splitter *chunker.Splitter, vectorStore driven.VectorStore) *Pipeline {
	return &Pipeline{
		splitter:    splitter,
		vectorStore: vectorStore,
	}
}

// Process ingests one document's text for an owner and returns the number of
// fragments stored. The metadata is applied to every fragment with its chunk
// index filled in. Empty or whitespace-only text yields zero fragments and no
// error.
func (p *Pipeline) Process(
	ctx context.Context,
	ownerID, documentID, text string,
	meta domain.FragmentMetadata,
) (int, error) {
	cleaned := sanitizer.MaskPII(sanitizer.Clean(text))

	chunks := p.splitter.Split(cleaned)
	for i, chunk := range chunks {
		chunkMeta := meta
		chunkMeta.ChunkIndex = i
		if err := p.vectorStore.Insert(ctx, ownerID, documentID, chunk, chunkMeta); err != nil {
			return i, fmt.Errorf("insert chunk %d: %w", i, err)
		}
	}

	return len(chunks), nil
}
