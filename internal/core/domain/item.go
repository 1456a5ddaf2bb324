package domain

// CredentialMap is an opaque per-(owner, provider) secret blob, decrypted by
// the external credential service. The shape is provider-specific: OAuth
// access/refresh tokens, an API key plus domain, and so on. The pipeline only
// reads it; it is never persisted here.
type CredentialMap map[string]string

// Get returns the value for key, or empty string when absent.
func (c CredentialMap) Get(key string) string {
	if c == nil {
		return ""
	}
	return c[key]
}

// SourceMetadata is the provenance a connector attaches to every item.
// SourceApp and SourceURL are required; Extra carries provider-specific
// fields.
type SourceMetadata struct {
	// SourceApp identifies the producing application (e.g. "google_drive").
	SourceApp string

	// SourceURL is a deep link back to the original object.
	SourceURL string

	// Extra holds optional provider-specific fields.
	Extra map[string]string
}

// SourceItem is one raw item fetched from an external source: extracted text
// plus provenance. Connectors produce these; they never persist anything.
type SourceItem struct {
	// ExternalID is the provider-assigned identifier, used for
	// incremental sync. May be empty for sources without stable IDs.
	ExternalID string

	// Title is the human-readable display name.
	Title string

	// Text is the extracted text content.
	Text string

	// Metadata carries provenance. SourceApp and SourceURL are required.
	Metadata SourceMetadata
}

// Validate checks that the item carries the required provenance fields.
func (i *SourceItem) Validate() error {
	if i.Metadata.SourceApp == "" || i.Metadata.SourceURL == "" {
		return ErrInvalidInput
	}
	return nil
}
