package driving

import "context"

// SyncStatus reports progress of an owner's running sync.
type SyncStatus struct {
	// OwnerID identifies the sync.
	OwnerID string

	// Running is true while the sync is active.
	Running bool

	// ItemsProcessed counts successfully ingested items.
	ItemsProcessed int

	// ItemsSkipped counts items skipped by the incremental-sync check.
	ItemsSkipped int

	// ErrorCount counts failed items and providers.
	ErrorCount int
}

// SyncOrchestrator drives per-owner ingestion across all registered
// providers.
type SyncOrchestrator interface {
	// SyncOwner runs ingestion for every provider the owner has
	// credentials for. Providers without credentials are skipped. A
	// failure in one item or provider never aborts its siblings; the
	// returned error is non-nil only when the sync as a whole could not
	// run.
	SyncOwner(ctx context.Context, ownerID string) error

	// Status returns the current sync status for an owner.
	Status(ctx context.Context, ownerID string) (*SyncStatus, error)
}
