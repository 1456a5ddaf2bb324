package extractors

import (
	"fmt"
	"unicode/utf8"

	"github.com/praxis-labs/recall/internal/core/domain"
	"github.com/praxis-labs/recall/internal/core/ports/driven"
)

// Ensure PlainText implements the interface.
var _ driven.TextExtractor = (*PlainText)(nil)

// PlainText handles formats whose bytes already are the text.
type PlainText struct{}

// NewPlainText creates a plain-text extractor.
func NewPlainText() *PlainText {
	return &PlainText{}
}

// Extensions returns the extensions this extractor handles.
func (e *PlainText) Extensions() []string {
	return []string{"txt", "md", "csv", "log"}
}

// Extract returns the payload as a string after checking it is valid UTF-8.
func (e *PlainText) Extract(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: payload is not valid UTF-8 text", domain.ErrExtraction)
	}
	return string(data), nil
}
