package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/praxis-labs/recall/internal/core/domain"
	"github.com/praxis-labs/recall/internal/core/ports/driven"
	"github.com/praxis-labs/recall/internal/logger"
)

// defaultTopK is used when the caller passes a non-positive limit.
const defaultTopK = 5

// vectorStore implements driven.VectorStore on top of the fragments table.
// Embeddings are stored as little-endian float32 blobs; similarity ranking
// happens in process over the owner's candidate rows, which keeps the store
// dependency-free at the cost of a full owner scan. Owner corpora are small
// enough (thousands of fragments) that this is not a bottleneck.
type vectorStore struct {
	store    *Store
	embedder driven.EmbeddingService
}

var _ driven.VectorStore = (*vectorStore)(nil)

// Insert embeds the text and appends a fragment for the owner.
func (s *vectorStore) Insert(
	ctx context.Context,
	ownerID, documentID, text string,
	meta domain.FragmentMetadata,
) error {
	if ownerID == "" || text == "" {
		return fmt.Errorf("%w: owner id and text are required", domain.ErrInvalidInput)
	}
	if err := meta.Validate(); err != nil {
		return fmt.Errorf("invalid fragment metadata: %w", err)
	}

	embedding, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return fmt.Errorf("embedding fragment: %w", err)
	}

	extraJSON, err := json.Marshal(meta.Extra)
	if err != nil {
		return fmt.Errorf("marshalling metadata: %w", err)
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO fragments
			(id, owner_id, document_id, content, embedding, source_app,
			 source_url, file_id, file_name, chunk_index, conversation_id,
			 metadata, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, uuid.NewString(), ownerID, nullString(documentID), text,
		float32SliceToBytes(embedding), meta.SourceApp, meta.SourceURL,
		meta.FileID, meta.FileName, meta.ChunkIndex, meta.ConversationID,
		string(extraJSON), time.Now().UTC())

	if err != nil {
		return fmt.Errorf("saving fragment: %w", err)
	}
	return nil
}

// Search embeds the query and returns up to topK fragments ranked by
// descending cosine similarity, restricted to the owner. A non-empty
// conversationID narrows candidates to global fragments or those scoped to
// that conversation.
func (s *vectorStore) Search(
	ctx context.Context,
	ownerID, query string,
	topK int,
	conversationID string,
) ([]domain.SearchResult, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("%w: owner id is required", domain.ErrInvalidInput)
	}
	if topK <= 0 {
		topK = defaultTopK
	}

	queryVec, err := s.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	sqlQuery := `
		SELECT content, source_app, source_url, embedding
		FROM fragments WHERE owner_id = ?`
	args := []any{ownerID}
	if conversationID != "" {
		sqlQuery += " AND (conversation_id = '' OR conversation_id = ?)"
		args = append(args, conversationID)
	}

	rows, err := s.store.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("querying fragments: %w", err)
	}
	defer rows.Close()

	var results []domain.SearchResult //nolint:prealloc // size unknown from query
	for rows.Next() {
		var r domain.SearchResult
		var embeddingBlob []byte
		if err := rows.Scan(&r.Text, &r.SourceApp, &r.SourceURL, &embeddingBlob); err != nil {
			return nil, fmt.Errorf("scanning fragment: %w", err)
		}
		r.Similarity = cosineSimilarity(queryVec, bytesToFloat32Slice(embeddingBlob))
		results = append(results, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating fragments: %w", err)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Similarity > results[j].Similarity
	})
	if len(results) > topK {
		results = results[:topK]
	}
	return results, nil
}

// HasDocument reports whether the owner already has fragments for the given
// external file.
func (s *vectorStore) HasDocument(ctx context.Context, ownerID, externalFileID string) (bool, error) {
	var count int
	err := s.store.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM fragments WHERE owner_id = ? AND file_id = ?",
		ownerID, externalFileID).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking document: %w", err)
	}
	return count > 0, nil
}

// DeleteByFileID removes all of the owner's fragments for an external file.
func (s *vectorStore) DeleteByFileID(ctx context.Context, ownerID, externalFileID string) error {
	_, err := s.store.db.ExecContext(ctx,
		"DELETE FROM fragments WHERE owner_id = ? AND file_id = ?",
		ownerID, externalFileID)
	if err != nil {
		return fmt.Errorf("deleting fragments by file: %w", err)
	}
	return nil
}

// DeleteByDocumentID removes all fragments for a parent document.
func (s *vectorStore) DeleteByDocumentID(ctx context.Context, ownerID, documentID string) error {
	_, err := s.store.db.ExecContext(ctx,
		"DELETE FROM fragments WHERE owner_id = ? AND document_id = ?",
		ownerID, documentID)
	if err != nil {
		return fmt.Errorf("deleting fragments by document: %w", err)
	}
	return nil
}

// DeleteAll removes all of an owner's fragments, optionally filtered by
// source application.
func (s *vectorStore) DeleteAll(ctx context.Context, ownerID, sourceApp string) error {
	sqlQuery := "DELETE FROM fragments WHERE owner_id = ?"
	args := []any{ownerID}
	if sourceApp != "" {
		sqlQuery += " AND source_app = ?"
		args = append(args, sourceApp)
	}

	if _, err := s.store.db.ExecContext(ctx, sqlQuery, args...); err != nil {
		return fmt.Errorf("deleting fragments: %w", err)
	}
	return nil
}

// Stats aggregates the owner's distinct file count, file names, and total
// fragment count. Failures degrade to a zero value so retrieval is never
// blocked by a statistics error.
func (s *vectorStore) Stats(ctx context.Context, ownerID string) (domain.KnowledgeStats, error) {
	var stats domain.KnowledgeStats

	err := s.store.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COUNT(DISTINCT CASE WHEN file_id != '' THEN file_id END)
		FROM fragments WHERE owner_id = ?`,
		ownerID).Scan(&stats.TotalChunks, &stats.FileCount)
	if err != nil {
		logger.Warn("knowledge stats unavailable for owner %s: %v", ownerID, err)
		return domain.KnowledgeStats{}, nil
	}

	rows, err := s.store.db.QueryContext(ctx, `
		SELECT DISTINCT file_name FROM fragments
		WHERE owner_id = ? AND file_name != ''
		ORDER BY file_name`,
		ownerID)
	if err != nil {
		logger.Warn("knowledge stats unavailable for owner %s: %v", ownerID, err)
		return domain.KnowledgeStats{}, nil
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			logger.Warn("knowledge stats unavailable for owner %s: %v", ownerID, err)
			return domain.KnowledgeStats{}, nil
		}
		stats.FileNames = append(stats.FileNames, name)
	}
	if err := rows.Err(); err != nil {
		logger.Warn("knowledge stats unavailable for owner %s: %v", ownerID, err)
		return domain.KnowledgeStats{}, nil
	}

	return stats, nil
}

// cosineSimilarity returns 1 - cosine distance of a and b. Mismatched or
// zero-norm vectors score 0.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
