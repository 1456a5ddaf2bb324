package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/praxis-labs/recall/internal/core/domain"
	"github.com/praxis-labs/recall/internal/core/ports/driven"
	"github.com/praxis-labs/recall/internal/core/ports/driving"
	"github.com/praxis-labs/recall/internal/logger"
)

// Ensure SyncOrchestrator implements the interface.
var _ driving.SyncOrchestrator = (*SyncOrchestrator)(nil)

// SyncOrchestrator drives per-owner ingestion across all registered
// providers.
//
// Failure isolation is strict: a failed item increments the error count and
// moves on to the next item; a failed provider is logged and its siblings
// still run; owners never affect each other. SyncOwner returns a non-nil
// error only when the sync as a whole could not run.
type SyncOrchestrator struct {
	registry    driven.ConnectorRegistry
	credentials driven.CredentialSource
	docStore    driven.DocumentStore
	vectorStore driven.VectorStore
	pipeline    *Pipeline

	// Status tracking
	mu          sync.RWMutex
	activeSyncs map[string]*driving.SyncStatus
}

// NewSyncOrchestrator creates a new sync orchestrator.
func NewSyncOrchestrator(
	registry driven.ConnectorRegistry,
	credentials driven.CredentialSource,
	docStore driven.DocumentStore,
	vectorStore driven.VectorStore,
	pipeline *Pipeline,
) *SyncOrchestrator {
	return &SyncOrchestrator{
		registry:    registry,
		credentials: credentials,
		docStore:    docStore,
		vectorStore: vectorStore,
		pipeline:    pipeline,
		activeSyncs: make(map[string]*driving.SyncStatus),
	}
}

// SyncOwner runs ingestion for every provider the owner has credentials for.
func (o *SyncOrchestrator) SyncOwner(ctx context.Context, ownerID string) error {
	if ownerID == "" {
		return fmt.Errorf("%w: owner id is required", domain.ErrInvalidInput)
	}

	status := &driving.SyncStatus{OwnerID: ownerID, Running: true}
	o.setStatus(ownerID, status)
	defer o.clearStatus(ownerID)

	logger.Info("Starting sync for owner %s", ownerID)

	for _, provider := range o.registry.Providers() {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := o.syncProvider(ctx, ownerID, provider, status); err != nil {
			// Provider failures are isolated; siblings still run.
			o.addErrors(status, 1)
			logger.Warn("Sync failed for owner %s provider %s: %v", ownerID, provider, err)
		}
	}

	o.mu.Lock()
	status.Running = false
	o.mu.Unlock()

	logger.Info("Sync complete for owner %s: %d processed, %d skipped, %d errors",
		ownerID, status.ItemsProcessed, status.ItemsSkipped, status.ErrorCount)
	return nil
}

// syncProvider ingests all items from one provider for one owner.
func (o *SyncOrchestrator) syncProvider(
	ctx context.Context,
	ownerID, provider string,
	status *driving.SyncStatus,
) error {
	connector, err := o.registry.Get(provider)
	if err != nil {
		return fmt.Errorf("resolve connector: %w", err)
	}

	creds, err := o.credentials.Get(ctx, ownerID, provider)
	if err != nil {
		return fmt.Errorf("get credentials: %w", err)
	}
	if creds == nil {
		// No credentials stored is the normal idle state, not an error.
		logger.Debug("Owner %s has no credentials for %s, skipping", ownerID, provider)
		return nil
	}

	items, err := connector.Fetch(ctx, creds)
	if err != nil {
		return fmt.Errorf("fetch: %w", err)
	}
	logger.Debug("Fetched %d items from %s for owner %s", len(items), provider, ownerID)

	for i := range items {
		if err := ctx.Err(); err != nil {
			return err
		}

		processed, err := o.syncItem(ctx, ownerID, provider, &items[i])
		if err != nil {
			o.addErrors(status, 1)
			logger.Warn("Failed to ingest %s item %s for owner %s: %v",
				provider, items[i].ExternalID, ownerID, err)
			continue
		}
		o.mu.Lock()
		if processed {
			status.ItemsProcessed++
		} else {
			status.ItemsSkipped++
		}
		o.mu.Unlock()
	}

	return nil
}

// syncItem ingests one fetched item, maintaining the document lifecycle row.
// It reports whether the item was processed (false means the incremental-sync
// check skipped it).
func (o *SyncOrchestrator) syncItem(
	ctx context.Context,
	ownerID, provider string,
	item *domain.SourceItem,
) (bool, error) {
	if err := item.Validate(); err != nil {
		return false, fmt.Errorf("invalid item: %w", err)
	}

	hash := domain.HashContent(item.Text)

	doc, err := o.lookupDocument(ctx, ownerID, provider, item.ExternalID)
	if err != nil {
		return false, err
	}

	if doc != nil && doc.ContentHash == hash {
		// Fragments can be missing if a previous run registered the
		// document but died before inserting; only then re-process.
		has, err := o.vectorStore.HasDocument(ctx, ownerID, item.ExternalID)
		if err != nil {
			return false, fmt.Errorf("check existing fragments: %w", err)
		}
		if has {
			logger.Debug("Unchanged %s item %s, skipping", provider, item.ExternalID)
			return false, nil
		}
	}

	if doc == nil {
		doc = &domain.Document{
			OwnerID:    ownerID,
			Provider:   provider,
			ExternalID: item.ExternalID,
		}
	}
	doc.Filename = item.Title
	doc.SourceURL = item.Metadata.SourceURL
	doc.Status = domain.StatusProcessing
	doc.ErrorMessage = ""

	if err := o.docStore.Save(ctx, doc); err != nil {
		return false, fmt.Errorf("save document: %w", err)
	}

	// Content changed (or fragments missing): clean replace before
	// re-inserting so stale fragments never linger.
	if err := o.vectorStore.DeleteByDocumentID(ctx, ownerID, doc.ID); err != nil {
		return false, o.failDocument(ctx, doc, fmt.Errorf("delete stale fragments: %w", err))
	}

	meta := domain.FragmentMetadata{
		SourceApp: item.Metadata.SourceApp,
		SourceURL: item.Metadata.SourceURL,
		FileID:    item.ExternalID,
		FileName:  item.Title,
		Extra:     item.Metadata.Extra,
	}
	if _, err := o.pipeline.Process(ctx, ownerID, doc.ID, item.Text, meta); err != nil {
		return false, o.failDocument(ctx, doc, fmt.Errorf("process: %w", err))
	}

	doc.ContentHash = hash
	doc.Status = domain.StatusCompleted
	if err := o.docStore.Save(ctx, doc); err != nil {
		return false, fmt.Errorf("complete document: %w", err)
	}
	return true, nil
}

// lookupDocument finds the document for an item's idempotency key, or nil.
// Items without a stable external ID never match.
func (o *SyncOrchestrator) lookupDocument(
	ctx context.Context,
	ownerID, provider, externalID string,
) (*domain.Document, error) {
	if externalID == "" {
		return nil, nil
	}

	doc, err := o.docStore.GetByExternalID(ctx, ownerID, provider, externalID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lookup document: %w", err)
	}
	return doc, nil
}

// failDocument marks the document failed and returns the cause.
func (o *SyncOrchestrator) failDocument(ctx context.Context, doc *domain.Document, cause error) error {
	if err := o.docStore.SetStatus(ctx, doc.ID, domain.StatusFailed, cause.Error()); err != nil {
		logger.Warn("Failed to mark document %s failed: %v", doc.ID, err)
	}
	return cause
}

// Status returns the current sync status for an owner.
func (o *SyncOrchestrator) Status(_ context.Context, ownerID string) (*driving.SyncStatus, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	if status, ok := o.activeSyncs[ownerID]; ok {
		// Return a copy to avoid race conditions
		copied := *status
		return &copied, nil
	}

	// Not running - return idle status
	return &driving.SyncStatus{OwnerID: ownerID}, nil
}

// setStatus sets the sync status for an owner.
func (o *SyncOrchestrator) setStatus(ownerID string, status *driving.SyncStatus) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.activeSyncs[ownerID] = status
}

// clearStatus removes the sync status for an owner.
func (o *SyncOrchestrator) clearStatus(ownerID string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.activeSyncs, ownerID)
}

// addErrors bumps the error count under the status lock.
func (o *SyncOrchestrator) addErrors(status *driving.SyncStatus, n int) {
	o.mu.Lock()
	status.ErrorCount += n
	o.mu.Unlock()
}
