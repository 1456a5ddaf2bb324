// Package extractors converts uploaded file payloads to plain text. Each
// extractor owns a set of filename extensions; the registry resolves an
// upload's extension to the extractor for it.
package extractors

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/praxis-labs/recall/internal/core/domain"
	"github.com/praxis-labs/recall/internal/core/ports/driven"
)

// Ensure Registry implements the interface.
var _ driven.ExtractorRegistry = (*Registry)(nil)

// Registry maps filename extensions to extractors.
type Registry struct {
	byExt map[string]driven.TextExtractor
}

// NewRegistry creates a registry with the given extractors. Later extractors
// win on extension collisions.
func NewRegistry(extractors ...driven.TextExtractor) *Registry {
	r := &Registry{byExt: make(map[string]driven.TextExtractor)}
	for _, e := range extractors {
		for _, ext := range e.Extensions() {
			r.byExt[strings.ToLower(ext)] = e
		}
	}
	return r
}

// DefaultRegistry returns a registry with all built-in extractors.
func DefaultRegistry() *Registry {
	return NewRegistry(NewPlainText(), NewDocx())
}

// ForFilename returns the extractor for a filename's extension.
func (r *Registry) ForFilename(filename string) (driven.TextExtractor, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if ext == "" {
		return nil, fmt.Errorf("%w: %q has no extension", domain.ErrUnsupportedType, filename)
	}

	e, ok := r.byExt[ext]
	if !ok {
		return nil, fmt.Errorf("%w: .%s", domain.ErrUnsupportedType, ext)
	}
	return e, nil
}

// SupportedExtensions lists all registered extensions, for error messages
// and CLI help.
func (r *Registry) SupportedExtensions() []string {
	exts := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		exts = append(exts, ext)
	}
	return exts
}
