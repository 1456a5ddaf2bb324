package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praxis-labs/recall/internal/chunker"
	"github.com/praxis-labs/recall/internal/connectors"
	"github.com/praxis-labs/recall/internal/core/domain"
)

// ---- fakes shared by the service tests ----

type fakeConnector struct {
	name       string
	items      []domain.SourceItem
	err        error
	fetchCalls int
}

func (f *fakeConnector) Provider() string { return f.name }

func (f *fakeConnector) Fetch(_ context.Context, _ domain.CredentialMap) ([]domain.SourceItem, error) {
	f.fetchCalls++
	if f.err != nil {
		return nil, f.err
	}
	return f.items, nil
}

// fakeCredentials maps "owner/provider" to a credential blob. Absent keys
// return nil, the skip signal.
type fakeCredentials map[string]domain.CredentialMap

func (f fakeCredentials) Get(_ context.Context, ownerID, provider string) (domain.CredentialMap, error) {
	return f[ownerID+"/"+provider], nil
}

type fakeDocStore struct {
	mu   sync.Mutex
	seq  int
	docs map[string]*domain.Document
}

func newFakeDocStore() *fakeDocStore {
	return &fakeDocStore{docs: make(map[string]*domain.Document)}
}

func (f *fakeDocStore) Save(_ context.Context, doc *domain.Document) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if doc.OwnerID == "" {
		return domain.ErrInvalidInput
	}
	if doc.ID == "" {
		f.seq++
		doc.ID = fmt.Sprintf("doc-%d", f.seq)
	}
	if doc.Status == "" {
		doc.Status = domain.StatusPending
	}
	copied := *doc
	f.docs[doc.ID] = &copied
	return nil
}

func (f *fakeDocStore) Get(_ context.Context, id string) (*domain.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	doc, ok := f.docs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *doc
	return &copied, nil
}

func (f *fakeDocStore) GetByExternalID(_ context.Context, ownerID, provider, externalID string) (*domain.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if provider == "" || externalID == "" {
		return nil, domain.ErrNotFound
	}
	for _, doc := range f.docs {
		if doc.OwnerID == ownerID && doc.Provider == provider && doc.ExternalID == externalID {
			copied := *doc
			return &copied, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeDocStore) List(_ context.Context, ownerID string) ([]domain.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Document
	for _, doc := range f.docs {
		if doc.OwnerID == ownerID {
			out = append(out, *doc)
		}
	}
	return out, nil
}

func (f *fakeDocStore) SetStatus(_ context.Context, id string, status domain.DocumentStatus, errMsg string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	doc, ok := f.docs[id]
	if !ok {
		return domain.ErrNotFound
	}
	doc.Status = status
	doc.ErrorMessage = errMsg
	return nil
}

func (f *fakeDocStore) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.docs, id)
	return nil
}

type insertedFragment struct {
	ownerID    string
	documentID string
	text       string
	meta       domain.FragmentMetadata
}

type fakeVectorStore struct {
	mu        sync.Mutex
	fragments []insertedFragment
	inserts   int
	insertErr error

	results   []domain.SearchResult
	searchErr error
	stats     domain.KnowledgeStats
}

func (f *fakeVectorStore) Insert(_ context.Context, ownerID, documentID, text string, meta domain.FragmentMetadata) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inserts++
	if f.insertErr != nil {
		return f.insertErr
	}
	f.fragments = append(f.fragments, insertedFragment{ownerID, documentID, text, meta})
	return nil
}

func (f *fakeVectorStore) Search(_ context.Context, _, _ string, _ int, _ string) ([]domain.SearchResult, error) {
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.results, nil
}

func (f *fakeVectorStore) HasDocument(_ context.Context, ownerID, externalFileID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, fr := range f.fragments {
		if fr.ownerID == ownerID && fr.meta.FileID == externalFileID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeVectorStore) DeleteByFileID(_ context.Context, ownerID, externalFileID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fragments = deleteWhere(f.fragments, func(fr insertedFragment) bool {
		return fr.ownerID == ownerID && fr.meta.FileID == externalFileID
	})
	return nil
}

func (f *fakeVectorStore) DeleteByDocumentID(_ context.Context, ownerID, documentID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fragments = deleteWhere(f.fragments, func(fr insertedFragment) bool {
		return fr.ownerID == ownerID && fr.documentID == documentID
	})
	return nil
}

func (f *fakeVectorStore) DeleteAll(_ context.Context, ownerID, sourceApp string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fragments = deleteWhere(f.fragments, func(fr insertedFragment) bool {
		return fr.ownerID == ownerID && (sourceApp == "" || fr.meta.SourceApp == sourceApp)
	})
	return nil
}

func (f *fakeVectorStore) Stats(_ context.Context, _ string) (domain.KnowledgeStats, error) {
	return f.stats, nil
}

func deleteWhere(frs []insertedFragment, match func(insertedFragment) bool) []insertedFragment {
	kept := frs[:0]
	for _, fr := range frs {
		if !match(fr) {
			kept = append(kept, fr)
		}
	}
	return kept
}

func (f *fakeVectorStore) fragmentsFor(ownerID, documentID string) []insertedFragment {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []insertedFragment
	for _, fr := range f.fragments {
		if fr.ownerID == ownerID && fr.documentID == documentID {
			out = append(out, fr)
		}
	}
	return out
}

// ---- sync orchestrator tests ----

func driveItem(id, title, text string) domain.SourceItem {
	return domain.SourceItem{
		ExternalID: id,
		Title:      title,
		Text:       text,
		Metadata: domain.SourceMetadata{
			SourceApp: "google_drive",
			SourceURL: "https://drive.google.com/file/d/" + id,
		},
	}
}

func newTestOrchestrator(creds fakeCredentials, conns ...*fakeConnector) (*SyncOrchestrator, *fakeDocStore, *fakeVectorStore) {
	registry := connectors.NewRegistry()
	for _, c := range conns {
		registry.Register(c)
	}

	docs := newFakeDocStore()
	vectors := &fakeVectorStore{}
	pipeline := NewPipeline(chunker.New(), vectors)

	return NewSyncOrchestrator(registry, creds, docs, vectors, pipeline), docs, vectors
}

func TestSyncOwner_RequiresOwner(t *testing.T) {
	orch, _, _ := newTestOrchestrator(fakeCredentials{})

	err := orch.SyncOwner(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSyncOwner_IngestsItems(t *testing.T) {
	conn := &fakeConnector{
		name: "google_drive",
		items: []domain.SourceItem{
			driveItem("f1", "roadmap.txt", "The roadmap for next quarter."),
			driveItem("f2", "notes.txt", "Meeting notes from Monday."),
		},
	}
	creds := fakeCredentials{"alice/google_drive": {"access_token": "tok"}}
	orch, docs, vectors := newTestOrchestrator(creds, conn)

	require.NoError(t, orch.SyncOwner(context.Background(), "alice"))

	listed, err := docs.List(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, listed, 2)
	for _, doc := range listed {
		assert.Equal(t, domain.StatusCompleted, doc.Status)
		assert.Equal(t, "google_drive", doc.Provider)
		assert.NotEmpty(t, doc.ContentHash)
	}

	has, err := vectors.HasDocument(context.Background(), "alice", "f1")
	require.NoError(t, err)
	assert.True(t, has)
}

func TestSyncOwner_SecondRunSkipsUnchanged(t *testing.T) {
	conn := &fakeConnector{
		name:  "google_drive",
		items: []domain.SourceItem{driveItem("f1", "roadmap.txt", "The roadmap for next quarter.")},
	}
	creds := fakeCredentials{"alice/google_drive": {"access_token": "tok"}}
	orch, docs, vectors := newTestOrchestrator(creds, conn)

	require.NoError(t, orch.SyncOwner(context.Background(), "alice"))
	insertsAfterFirst := vectors.inserts

	require.NoError(t, orch.SyncOwner(context.Background(), "alice"))

	assert.Equal(t, insertsAfterFirst, vectors.inserts, "unchanged item must not re-embed")
	listed, err := docs.List(context.Background(), "alice")
	require.NoError(t, err)
	assert.Len(t, listed, 1, "re-sync must not duplicate document rows")
}

func TestSyncOwner_ReplacesChangedContent(t *testing.T) {
	conn := &fakeConnector{
		name:  "google_drive",
		items: []domain.SourceItem{driveItem("f1", "roadmap.txt", "original body text")},
	}
	creds := fakeCredentials{"alice/google_drive": {"access_token": "tok"}}
	orch, docs, vectors := newTestOrchestrator(creds, conn)

	require.NoError(t, orch.SyncOwner(context.Background(), "alice"))

	conn.items[0].Text = "updated body text"
	require.NoError(t, orch.SyncOwner(context.Background(), "alice"))

	listed, err := docs.List(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, listed, 1)
	doc := listed[0]
	assert.Equal(t, domain.HashContent("updated body text"), doc.ContentHash)
	assert.Equal(t, domain.StatusCompleted, doc.Status)

	frags := vectors.fragmentsFor("alice", doc.ID)
	require.Len(t, frags, 1, "stale fragments must be replaced, not accumulated")
	assert.Contains(t, frags[0].text, "updated")
}

func TestSyncOwner_SkipsProviderWithoutCredentials(t *testing.T) {
	drive := &fakeConnector{
		name:  "google_drive",
		items: []domain.SourceItem{driveItem("f1", "roadmap.txt", "text")},
	}
	github := &fakeConnector{name: "github"}
	creds := fakeCredentials{"alice/google_drive": {"access_token": "tok"}}
	orch, docs, _ := newTestOrchestrator(creds, drive, github)

	require.NoError(t, orch.SyncOwner(context.Background(), "alice"))

	assert.Equal(t, 1, drive.fetchCalls)
	assert.Equal(t, 0, github.fetchCalls, "providers without credentials are skipped")

	listed, err := docs.List(context.Background(), "alice")
	require.NoError(t, err)
	assert.Len(t, listed, 1)
}

func TestSyncOwner_ProviderFailureIsolated(t *testing.T) {
	broken := &fakeConnector{
		name: "github",
		err:  fmt.Errorf("%w: rate limited", domain.ErrConnectorFetch),
	}
	drive := &fakeConnector{
		name:  "google_drive",
		items: []domain.SourceItem{driveItem("f1", "roadmap.txt", "text")},
	}
	creds := fakeCredentials{
		"alice/github":       {"token": "tok"},
		"alice/google_drive": {"access_token": "tok"},
	}
	orch, docs, _ := newTestOrchestrator(creds, broken, drive)

	require.NoError(t, orch.SyncOwner(context.Background(), "alice"),
		"a provider failure must not fail the sync")

	listed, err := docs.List(context.Background(), "alice")
	require.NoError(t, err)
	assert.Len(t, listed, 1, "healthy providers still run")
}

func TestSyncOwner_ItemFailureIsolated(t *testing.T) {
	conn := &fakeConnector{
		name: "google_drive",
		items: []domain.SourceItem{
			{ExternalID: "bad", Title: "no provenance", Text: "text"},
			driveItem("good", "roadmap.txt", "valid item text"),
		},
	}
	creds := fakeCredentials{"alice/google_drive": {"access_token": "tok"}}
	orch, docs, _ := newTestOrchestrator(creds, conn)

	require.NoError(t, orch.SyncOwner(context.Background(), "alice"))

	listed, err := docs.List(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "good", listed[0].ExternalID)
}

func TestSyncOwner_ProcessingFailureMarksDocumentFailed(t *testing.T) {
	conn := &fakeConnector{
		name:  "google_drive",
		items: []domain.SourceItem{driveItem("f1", "roadmap.txt", "some text")},
	}
	creds := fakeCredentials{"alice/google_drive": {"access_token": "tok"}}
	orch, docs, vectors := newTestOrchestrator(creds, conn)
	vectors.insertErr = errors.New("embedding service down")

	require.NoError(t, orch.SyncOwner(context.Background(), "alice"))

	listed, err := docs.List(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, domain.StatusFailed, listed[0].Status)
	assert.Contains(t, listed[0].ErrorMessage, "embedding service down")
}

func TestStatus_IdleOwner(t *testing.T) {
	orch, _, _ := newTestOrchestrator(fakeCredentials{})

	status, err := orch.Status(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", status.OwnerID)
	assert.False(t, status.Running)
}
