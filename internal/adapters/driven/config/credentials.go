package config

import (
	"context"

	"github.com/praxis-labs/recall/internal/core/domain"
	"github.com/praxis-labs/recall/internal/core/ports/driven"
)

// Ensure Credentials implements the interface.
var _ driven.CredentialSource = (*Credentials)(nil)

// Credentials serves per-(owner, provider) connector credentials from the
// loaded configuration. Owners or providers with no stored credentials
// resolve to nil, which the sync orchestrator treats as a skip.
type Credentials struct {
	byOwner map[string]map[string]map[string]string
}

// CredentialSource returns a credential source backed by this configuration.
func (c *Config) CredentialSource() *Credentials {
	return &Credentials{byOwner: c.Credentials}
}

// Get returns the credentials for an owner and provider, or nil when none
// are stored.
func (s *Credentials) Get(_ context.Context, ownerID, provider string) (domain.CredentialMap, error) {
	fields := s.byOwner[ownerID][provider]
	if len(fields) == 0 {
		return nil, nil
	}

	creds := make(domain.CredentialMap, len(fields))
	for k, v := range fields {
		creds[k] = v
	}
	return creds, nil
}
