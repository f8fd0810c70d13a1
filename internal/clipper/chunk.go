package clipper

import (
	"fmt"
	"strings"

	"tube-bite/internal/types"
)

const (
	DefaultChunkChars        = 6000
	DefaultChunkOverlapChars = 500
)

// BuildTranscriptText renders segments as one timestamped line each, the
// shape the detection prompt teaches the model to read.
func BuildTranscriptText(segments []types.TranscriptSegment) string {
	var sb strings.Builder
	for i, seg := range segments {
		if i > 0 {
			sb.WriteByte('\n')
		}
		fmt.Fprintf(&sb, "[T=%.2fs] %s", seg.Start, seg.Text)
	}
	return sb.String()
}

// ChunkTranscript splits a transcript into fixed-size windows with a small
// overlap so moments near a cut line appear in both neighbouring chunks.
// A transcript at or under maxChars comes back as a single chunk.
func ChunkTranscript(text string, maxChars, overlapChars int) []string {
	if maxChars <= 0 {
		maxChars = DefaultChunkChars
	}
	if overlapChars < 0 || overlapChars >= maxChars {
		overlapChars = DefaultChunkOverlapChars
		if overlapChars >= maxChars {
			overlapChars = maxChars / 10
		}
	}
	if len(text) <= maxChars {
		return []string{text}
	}

	stride := maxChars - overlapChars
	var chunks []string
	for start := 0; start < len(text); start += stride {
		end := start + maxChars
		if end > len(text) {
			end = len(text)
		}
		chunks = append(chunks, text[start:end])
	}
	return chunks
}
