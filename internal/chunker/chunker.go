// Package chunker splits cleaned text into overlapping, boundary-aware
// fragments suitable for embedding.
package chunker

import "strings"

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 1000

// DefaultOverlap is the default number of overlapping characters.
const DefaultOverlap = 100

// Splitter divides text into chunks of roughly chunkSize characters with
// overlap characters shared between adjacent chunks. Cuts prefer natural
// boundaries found in the trailing overlap window: a paragraph break first,
// then a sentence end, then any whitespace.
type Splitter struct {
	chunkSize int
	overlap   int
}

// Option configures the splitter.
type Option func(*Splitter)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(s *Splitter) {
		if size > 0 {
			s.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(s *Splitter) {
		if overlap >= 0 {
			s.overlap = overlap
		}
	}
}

// New creates a splitter with the given options.
func New(opts ...Option) *Splitter {
	s := &Splitter{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultOverlap,
	}

	for _, opt := range opts {
		opt(s)
	}

	// overlap >= chunkSize would stop the window from advancing.
	if s.overlap >= s.chunkSize {
		s.overlap = s.chunkSize - 1
	}

	return s
}

// Split divides text into ordered chunks. Empty input yields nil. The call
// is pure: no side effects, deterministic output.
func (s *Splitter) Split(text string) []string {
	if text == "" {
		return nil
	}

	textLen := len(text)
	chunks := make([]string, 0, textLen/(s.chunkSize-s.overlap)+1)

	start := 0
	for start < textLen {
		end := start + s.chunkSize
		if end >= textLen {
			end = textLen
		} else {
			end = s.adjustBoundary(text, start, end)
		}

		if chunk := strings.TrimSpace(text[start:end]); chunk != "" {
			chunks = append(chunks, chunk)
		}

		if end >= textLen {
			break
		}

		// Overlap the next window with the tail of this one.
		next := end - s.overlap
		if next <= start {
			next = end
		}
		start = next
	}

	return chunks
}

// adjustBoundary searches backward within the trailing overlap window for a
// natural cut point: a paragraph break, then a sentence-ending period
// followed by whitespace, then any whitespace. Falls back to the raw end
// when the window holds none, and never moves the cut at or before start.
func (s *Splitter) adjustBoundary(text string, start, end int) int {
	windowStart := end - s.overlap
	if windowStart < start {
		windowStart = start
	}
	window := text[windowStart:end]

	if i := strings.LastIndexByte(window, '\n'); i >= 0 {
		if cut := windowStart + i + 1; cut > start {
			return cut
		}
	}

	if i := lastSentenceEnd(window); i >= 0 {
		if cut := windowStart + i; cut > start {
			return cut
		}
	}

	if i := strings.LastIndexAny(window, " \t"); i >= 0 {
		if cut := windowStart + i + 1; cut > start {
			return cut
		}
	}

	return end
}

// lastSentenceEnd returns the index just past the last ". " style sentence
// terminator in window, or -1.
func lastSentenceEnd(window string) int {
	for i := len(window) - 1; i > 0; i-- {
		if isSpace(window[i]) && window[i-1] == '.' {
			return i + 1
		}
	}
	return -1
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}
