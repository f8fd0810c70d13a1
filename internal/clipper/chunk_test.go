package clipper

import (
	"strings"
	"testing"

	"tube-bite/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildTranscriptText(t *testing.T) {
	segments := []types.TranscriptSegment{
		{Start: 0, End: 2, Text: "Hi"},
		{Start: 2, End: 5, Text: "this is big"},
	}
	got := BuildTranscriptText(segments)
	assert.Equal(t, "[T=0.00s] Hi\n[T=2.00s] this is big", got)
}

func TestChunkTranscriptShortTextSingleChunk(t *testing.T) {
	chunks := ChunkTranscript("short", 6000, 500)
	require.Len(t, chunks, 1)
	assert.Equal(t, "short", chunks[0])
}

func TestChunkTranscriptSlidingWindow(t *testing.T) {
	text := strings.Repeat("abcde", 5) // 25 chars
	chunks := ChunkTranscript(text, 10, 3)

	// stride of 7: windows at 0, 7, 14, 21
	require.Len(t, chunks, 4)
	assert.Equal(t, text[0:10], chunks[0])
	assert.Equal(t, text[7:17], chunks[1])
	assert.Equal(t, text[14:24], chunks[2])
	assert.Equal(t, text[21:25], chunks[3])

	for _, c := range chunks {
		assert.NotEmpty(t, c)
		assert.LessOrEqual(t, len(c), 10)
	}
}

func TestChunkTranscriptOverlapKeepsBoundaryContext(t *testing.T) {
	text := strings.Repeat("x", 15)
	chunks := ChunkTranscript(text, 10, 3)

	require.Len(t, chunks, 3)
	// each successive chunk re-covers the last 3 chars of the previous one
	assert.Equal(t, chunks[0][7:], chunks[1][:3])
}

func TestChunkTranscriptBadParamsFallBackToDefaults(t *testing.T) {
	chunks := ChunkTranscript("hello", 0, -1)
	require.Len(t, chunks, 1)
	assert.Equal(t, "hello", chunks[0])
}

func TestChunkTranscriptEmptyInput(t *testing.T) {
	chunks := ChunkTranscript("", 10, 3)
	require.Len(t, chunks, 1)
	assert.Equal(t, "", chunks[0])
}
