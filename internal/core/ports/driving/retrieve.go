package driving

import (
	"context"

	"github.com/praxis-labs/recall/internal/core/domain"
)

// Retriever composes query embedding, similarity search, and knowledge-base
// statistics into a single context bundle for the downstream answer
// generator.
type Retriever interface {
	// Retrieve returns the fragments most relevant to the query, scoped
	// to the owner and optionally to a conversation, plus the owner's
	// knowledge-base statistics. Search failures propagate; statistics
	// failures degrade to a zero value.
	Retrieve(ctx context.Context, ownerID, query, conversationID string) (*domain.RetrievedContext, error)
}
