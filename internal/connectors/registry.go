// Package connectors wires provider connectors into a registry the sync
// orchestrator iterates over.
package connectors

import (
	"fmt"

	"github.com/praxis-labs/recall/internal/core/domain"
	"github.com/praxis-labs/recall/internal/core/ports/driven"
)

// Ensure Registry implements the interface.
var _ driven.ConnectorRegistry = (*Registry)(nil)

// Registry resolves provider names to connectors and preserves registration
// order, which defines the sync order.
type Registry struct {
	order  []string
	byName map[string]driven.Connector
}

// NewRegistry creates a registry with the given connectors. Registering the
// same provider twice replaces the earlier connector without changing its
// position.
func NewRegistry(conns ...driven.Connector) *Registry {
	r := &Registry{byName: make(map[string]driven.Connector)}
	for _, c := range conns {
		r.Register(c)
	}
	return r
}

// Register adds a connector to the registry.
func (r *Registry) Register(c driven.Connector) {
	name := c.Provider()
	if _, exists := r.byName[name]; !exists {
		r.order = append(r.order, name)
	}
	r.byName[name] = c
}

// Get returns the connector for a provider name.
func (r *Registry) Get(provider string) (driven.Connector, error) {
	c, ok := r.byName[provider]
	if !ok {
		return nil, fmt.Errorf("%w: no connector for provider %q", domain.ErrUnsupportedType, provider)
	}
	return c, nil
}

// Providers returns the registered provider names in registration order.
func (r *Registry) Providers() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}
