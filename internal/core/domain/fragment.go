package domain

// FragmentMetadata is the typed metadata stored with every fragment.
// SourceApp is required; the optional fields scope deletion, incremental
// sync, and conversation filtering.
type FragmentMetadata struct {
	// SourceApp identifies the producing application. Required.
	SourceApp string `json:"source_app"`

	// SourceURL is a deep link back to the original object.
	SourceURL string `json:"source_url,omitempty"`

	// FileID is the external file identifier, the key for incremental
	// sync checks and per-file deletion.
	FileID string `json:"file_id,omitempty"`

	// FileName is the display name used for knowledge-base statistics.
	FileName string `json:"file_name,omitempty"`

	// ChunkIndex is the ordinal position within the parent document's
	// fragment set. Monotonically increasing, no gaps.
	ChunkIndex int `json:"chunk_index"`

	// ConversationID scopes the fragment to a conversation. Empty means
	// the fragment is global to the owner.
	ConversationID string `json:"conversation_id,omitempty"`

	// Extra holds provider-specific extension fields.
	Extra map[string]string `json:"extra,omitempty"`
}

// Validate checks the required metadata fields.
func (m *FragmentMetadata) Validate() error {
	if m.SourceApp == "" {
		return ErrInvalidInput
	}
	return nil
}

// Fragment is the unit of retrieval: a chunk of source text plus its
// embedding vector. Fragments are immutable once written and are never shared
// between owners.
type Fragment struct {
	// ID is the unique identifier (UUID).
	ID string

	// OwnerID is the principal this fragment belongs to.
	OwnerID string

	// DocumentID links to the parent Document. Empty for legacy non-file
	// sources.
	DocumentID string

	// Text is the raw chunk text.
	Text string

	// Embedding is the fixed-dimension vector representation.
	Embedding []float32

	// Metadata carries provenance and scoping fields.
	Metadata FragmentMetadata
}
