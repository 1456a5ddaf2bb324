package driven

import (
	"context"

	"github.com/praxis-labs/recall/internal/core/domain"
)

// CredentialSource retrieves decrypted per-(owner, provider) credentials.
// Storage and encryption live outside this module; the pipeline only consumes
// the decrypted map.
type CredentialSource interface {
	// Get returns the credentials for an owner and provider, or nil when
	// none are stored. A nil map is not an error: the sync orchestrator
	// skips the provider.
	Get(ctx context.Context, ownerID, provider string) (domain.CredentialMap, error)
}
