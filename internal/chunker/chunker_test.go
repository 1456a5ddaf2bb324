package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("default values", func(t *testing.T) {
		s := New()
		assert.Equal(t, DefaultChunkSize, s.chunkSize)
		assert.Equal(t, DefaultOverlap, s.overlap)
	})

	t.Run("custom values", func(t *testing.T) {
		s := New(WithChunkSize(500), WithOverlap(50))
		assert.Equal(t, 500, s.chunkSize)
		assert.Equal(t, 50, s.overlap)
	})

	t.Run("overlap clamped below chunk size", func(t *testing.T) {
		s := New(WithChunkSize(100), WithOverlap(150))
		assert.Less(t, s.overlap, s.chunkSize)
	})

	t.Run("zero and negative values ignored", func(t *testing.T) {
		s := New(WithChunkSize(0), WithOverlap(-1))
		assert.Equal(t, DefaultChunkSize, s.chunkSize)
		assert.Equal(t, DefaultOverlap, s.overlap)
	})
}

func TestSplitEmpty(t *testing.T) {
	s := New()
	assert.Nil(t, s.Split(""))
}

func TestSplitSmallInput(t *testing.T) {
	s := New(WithChunkSize(100), WithOverlap(20))
	chunks := s.Split("a short document")
	require.Len(t, chunks, 1)
	assert.Equal(t, "a short document", chunks[0])
}

func TestSplitUniformContent(t *testing.T) {
	// 2500 uniform characters with size 1000 and overlap 100 cut at
	// 0-1000, 900-1900, 1800-2500.
	s := New(WithChunkSize(1000), WithOverlap(100))
	chunks := s.Split(strings.Repeat("x", 2500))

	require.Len(t, chunks, 3)
	assert.Len(t, chunks[0], 1000)
	assert.Len(t, chunks[1], 1000)
	assert.Len(t, chunks[2], 700)
}

func TestSplitAdjacentChunksOverlap(t *testing.T) {
	s := New(WithChunkSize(200), WithOverlap(40))
	text := strings.Repeat("z", 1000)
	chunks := s.Split(text)
	require.Greater(t, len(chunks), 1)

	for i := 1; i < len(chunks); i++ {
		prev, cur := chunks[i-1], chunks[i]
		// The head of each chunk repeats the tail of its predecessor.
		overlap := prev[len(prev)-40:]
		assert.True(t, strings.HasPrefix(cur, overlap),
			"chunk %d does not overlap its predecessor", i)
	}
}

func TestSplitNoContentLoss(t *testing.T) {
	s := New(WithChunkSize(50), WithOverlap(10))
	text := "The quick brown fox jumps over the lazy dog. " +
		"Pack my box with five dozen liquor jugs. " +
		"How vexingly quick daft zebras jump. " +
		"Sphinx of black quartz judge my vow."

	chunks := s.Split(text)
	require.NotEmpty(t, chunks)

	// Every word of the input appears in some chunk.
	for _, word := range strings.Fields(text) {
		found := false
		for _, chunk := range chunks {
			if strings.Contains(chunk, word) {
				found = true
				break
			}
		}
		assert.True(t, found, "word %q lost during chunking", word)
	}
}

func TestSplitPrefersParagraphBreak(t *testing.T) {
	s := New(WithChunkSize(60), WithOverlap(30))
	text := strings.Repeat("a", 40) + "\n" + strings.Repeat("b", 80)

	chunks := s.Split(text)
	require.Greater(t, len(chunks), 1)
	// The first cut lands on the newline inside the lookback window.
	assert.Equal(t, strings.Repeat("a", 40), chunks[0])
}

func TestSplitPrefersSentenceEnd(t *testing.T) {
	s := New(WithChunkSize(60), WithOverlap(35))
	text := "First sentence ends here now. Second sentence continues with more words after it."

	chunks := s.Split(text)
	require.Greater(t, len(chunks), 1)
	assert.Equal(t, "First sentence ends here now.", chunks[0])
}

func TestSplitFallsBackToWhitespace(t *testing.T) {
	s := New(WithChunkSize(30), WithOverlap(10))
	text := "alphabetagamma deltaepsilonzeta etathetaiota kappalambdamu"

	chunks := s.Split(text)
	require.Greater(t, len(chunks), 1)
	for _, chunk := range chunks {
		assert.NotEmpty(t, chunk)
	}
}

func TestSplitTerminates(t *testing.T) {
	// overlap == chunkSize must not loop; New clamps it.
	s := New(WithChunkSize(10), WithOverlap(10))
	chunks := s.Split(strings.Repeat("q", 500))
	assert.NotEmpty(t, chunks)

	// Fragment count stays linear in input length.
	assert.LessOrEqual(t, len(chunks), 500)
}

func TestSplitDiscardsWhitespaceOnlyChunks(t *testing.T) {
	s := New(WithChunkSize(10), WithOverlap(2))
	chunks := s.Split("word      \n\n\n      next")
	for _, chunk := range chunks {
		assert.NotEmpty(t, strings.TrimSpace(chunk))
	}
}
