package services

import (
	"context"
	"fmt"

	"github.com/praxis-labs/recall/internal/core/domain"
	"github.com/praxis-labs/recall/internal/core/ports/driven"
	"github.com/praxis-labs/recall/internal/core/ports/driving"
)

// Ensure Retriever implements the interface.
var _ driving.Retriever = (*Retriever)(nil)

// Retriever assembles the context bundle for one query: ranked fragments
// from similarity search plus the owner's knowledge-base statistics.
type Retriever struct {
	vectorStore driven.VectorStore
	topK        int
}

// NewRetriever creates a retriever returning up to topK fragments per query.
// A non-positive topK falls back to the store default.
func NewRetriever(vectorStore driven.VectorStore, topK int) *Retriever {
	return &Retriever{
		vectorStore: vectorStore,
		topK:        topK,
	}
}

// Retrieve runs the similarity search and attaches the owner's statistics.
// Search failures propagate; statistics degrade to a zero value inside the
// store so a stats failure never blocks retrieval.
func (r *Retriever) Retrieve(ctx context.Context, ownerID, query, conversationID string) (*domain.RetrievedContext, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("%w: owner id is required", domain.ErrInvalidInput)
	}
	if query == "" {
		return nil, fmt.Errorf("%w: query is required", domain.ErrInvalidInput)
	}

	fragments, err := r.vectorStore.Search(ctx, ownerID, query, r.topK, conversationID)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	stats, err := r.vectorStore.Stats(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("stats: %w", err)
	}

	return &domain.RetrievedContext{
		Fragments: fragments,
		Stats:     stats,
	}, nil
}
