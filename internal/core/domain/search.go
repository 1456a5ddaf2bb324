package domain

// SearchResult is one ranked fragment returned from a similarity search.
type SearchResult struct {
	// Text is the fragment text.
	Text string

	// SourceApp identifies the producing application.
	SourceApp string

	// SourceURL is a deep link back to the original object.
	SourceURL string

	// Similarity is 1 - cosine distance against the query vector, in
	// [-1, 1] with higher meaning closer.
	Similarity float64
}

// KnowledgeStats aggregates what an owner has in the knowledge base. It lets
// the downstream answer generator handle meta questions such as "how many
// files do I have".
type KnowledgeStats struct {
	// FileCount is the number of distinct files.
	FileCount int

	// FileNames lists the distinct file display names.
	FileNames []string

	// TotalChunks is the total fragment count.
	TotalChunks int
}

// RetrievedContext bundles everything the answer generator needs for one
// query: the ranked fragments and the owner's knowledge-base statistics.
type RetrievedContext struct {
	Fragments []SearchResult
	Stats     KnowledgeStats
}
