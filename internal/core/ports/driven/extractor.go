package driven

// TextExtractor produces plain text from a byte payload. Format internals
// (PDF parsing, OCR) live behind this seam; the pipeline only needs the
// extract-text-from-bytes capability.
type TextExtractor interface {
	// Extensions returns the lowercase filename extensions this extractor
	// handles, without the leading dot.
	Extensions() []string

	// Extract converts the payload to plain text.
	// Returns domain.ErrExtraction when no text can be produced.
	Extract(data []byte) (string, error)
}

// ExtractorRegistry resolves filename extensions to extractors.
type ExtractorRegistry interface {
	// ForFilename returns the extractor for a filename's extension.
	// Returns domain.ErrUnsupportedType for unknown extensions.
	ForFilename(filename string) (TextExtractor, error)
}
