package driven

import (
	"context"

	"github.com/praxis-labs/recall/internal/core/domain"
)

// VectorStore persists fragments (text + embedding + metadata) and performs
// owner-scoped similarity search. Fragments are append-only: Insert never
// overwrites, and concurrent inserts for different fragments never conflict.
//
// Every operation is scoped to an owner. Fragments inserted for one owner are
// never visible to another, for any query.
type VectorStore interface {
	// Insert embeds the text and appends a fragment for the owner.
	Insert(ctx context.Context, ownerID, documentID, text string, meta domain.FragmentMetadata) error

	// Search embeds the query with the retrieval instruction and returns
	// up to topK fragments ranked by descending cosine similarity,
	// restricted to the owner. When conversationID is non-empty the
	// candidate set is further restricted to fragments whose conversation
	// scope is absent (global) or equal to it.
	Search(ctx context.Context, ownerID, query string, topK int, conversationID string) ([]domain.SearchResult, error)

	// HasDocument reports whether any fragment carries the given
	// file_id in its metadata, scoped to the owner. Sync uses this to
	// skip already-ingested external files.
	HasDocument(ctx context.Context, ownerID, externalFileID string) (bool, error)

	// DeleteByFileID removes all fragments whose metadata file_id
	// matches, scoped to the owner.
	DeleteByFileID(ctx context.Context, ownerID, externalFileID string) error

	// DeleteByDocumentID removes all fragments for a parent document,
	// used before re-embedding on re-sync.
	DeleteByDocumentID(ctx context.Context, ownerID, documentID string) error

	// DeleteAll removes all of an owner's fragments, optionally filtered
	// by source application. Used for full resync or disconnect flows.
	DeleteAll(ctx context.Context, ownerID, sourceApp string) error

	// Stats aggregates the owner's distinct file count, file names, and
	// total fragment count. Unlike the other methods it degrades to a
	// zero value on storage failure so retrieval is never blocked by a
	// statistics failure.
	Stats(ctx context.Context, ownerID string) (domain.KnowledgeStats, error)
}
