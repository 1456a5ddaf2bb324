package cli

import (
	"bytes"
	"context"

	"github.com/praxis-labs/recall/internal/core/domain"
	"github.com/praxis-labs/recall/internal/core/ports/driving"
)

// runCommand executes the root command with the given args and captures
// output. It restores args and the owner flag afterwards.
func runCommand(args ...string) (string, error) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		ownerID = ""
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}

// mockSyncOrchestrator implements driving.SyncOrchestrator for testing.
type mockSyncOrchestrator struct {
	err    error
	synced []string
}

func (m *mockSyncOrchestrator) SyncOwner(_ context.Context, owner string) error {
	m.synced = append(m.synced, owner)
	return m.err
}

func (m *mockSyncOrchestrator) Status(_ context.Context, owner string) (*driving.SyncStatus, error) {
	return &driving.SyncStatus{OwnerID: owner, ItemsProcessed: 2, ItemsSkipped: 1}, nil
}

// mockRetriever implements driving.Retriever for testing.
type mockRetriever struct {
	result *domain.RetrievedContext
	err    error
}

func (m *mockRetriever) Retrieve(_ context.Context, _, _, _ string) (*domain.RetrievedContext, error) {
	return m.result, m.err
}

// mockUploadIngestor implements driving.UploadIngestor for testing.
type mockUploadIngestor struct {
	doc *domain.Document
	err error
}

func (m *mockUploadIngestor) Submit(_ context.Context, _, _ string, _ []byte, _ string) (*domain.Document, error) {
	return m.doc, m.err
}

func (m *mockUploadIngestor) Close() error { return nil }

// mockDocumentStore implements driven.DocumentStore for testing.
type mockDocumentStore struct {
	docs []domain.Document
	err  error
}

func (m *mockDocumentStore) Save(_ context.Context, _ *domain.Document) error { return m.err }

func (m *mockDocumentStore) Get(_ context.Context, id string) (*domain.Document, error) {
	for i := range m.docs {
		if m.docs[i].ID == id {
			return &m.docs[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockDocumentStore) GetByExternalID(_ context.Context, _, _, _ string) (*domain.Document, error) {
	return nil, domain.ErrNotFound
}

func (m *mockDocumentStore) List(_ context.Context, _ string) ([]domain.Document, error) {
	return m.docs, m.err
}

func (m *mockDocumentStore) SetStatus(_ context.Context, _ string, _ domain.DocumentStatus, _ string) error {
	return nil
}

func (m *mockDocumentStore) Delete(_ context.Context, _ string) error { return nil }

// mockVectorStore implements driven.VectorStore for testing.
type mockVectorStore struct {
	stats      domain.KnowledgeStats
	deletedApp []string
	err        error
}

func (m *mockVectorStore) Insert(_ context.Context, _, _, _ string, _ domain.FragmentMetadata) error {
	return m.err
}

func (m *mockVectorStore) Search(_ context.Context, _, _ string, _ int, _ string) ([]domain.SearchResult, error) {
	return nil, m.err
}

func (m *mockVectorStore) HasDocument(_ context.Context, _, _ string) (bool, error) {
	return false, nil
}

func (m *mockVectorStore) DeleteByFileID(_ context.Context, _, _ string) error { return nil }

func (m *mockVectorStore) DeleteByDocumentID(_ context.Context, _, _ string) error { return nil }

func (m *mockVectorStore) DeleteAll(_ context.Context, _, sourceApp string) error {
	m.deletedApp = append(m.deletedApp, sourceApp)
	return m.err
}

func (m *mockVectorStore) Stats(_ context.Context, _ string) (domain.KnowledgeStats, error) {
	return m.stats, m.err
}
