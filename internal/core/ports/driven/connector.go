package driven

import (
	"context"

	"github.com/praxis-labs/recall/internal/core/domain"
)

// Connector fetches items from an external data source. Each provider
// (google_drive, github, notion, gmail) implements this interface.
//
// A connector is a pure source adapter: it never persists anything. Missing
// required credential fields surface as domain.ErrCredentialMissing; network
// or API failures are wrapped in domain.ErrConnectorFetch.
type Connector interface {
	// Provider returns the provider name this connector serves.
	Provider() string

	// Fetch retrieves all items from the source using the given
	// credentials. Every returned item carries at least source_app and
	// source_url metadata.
	Fetch(ctx context.Context, creds domain.CredentialMap) ([]domain.SourceItem, error)
}

// ConnectorRegistry resolves provider names to connectors. The set of
// registered providers defines what an owner's sync iterates over.
type ConnectorRegistry interface {
	// Get returns the connector for a provider name.
	// Returns domain.ErrUnsupportedType for unknown providers.
	Get(provider string) (Connector, error)

	// Providers returns the registered provider names in registration
	// order.
	Providers() []string
}
