package clipper

import (
	"testing"

	"tube-bite/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildWordTimelineEvenSplit(t *testing.T) {
	segments := []types.TranscriptSegment{
		{Start: 0, End: 3, Text: "one two three"},
	}
	words := BuildWordTimeline(segments, 0, 3)

	require.Len(t, words, 3)
	assert.Equal(t, "one", words[0].Text)
	assert.InDelta(t, 0.0, words[0].T0, 1e-9)
	assert.InDelta(t, 1.0, words[0].T1, 1e-9)
	assert.InDelta(t, 1.0, words[1].T0, 1e-9)
	assert.InDelta(t, 2.0, words[1].T1, 1e-9)
	assert.InDelta(t, 3.0, words[2].T1, 1e-9)
}

func TestBuildWordTimelineClipsSegmentSpan(t *testing.T) {
	segments := []types.TranscriptSegment{
		{Start: 0, End: 4, Text: "a b c d"},
	}
	// clip window covers only the middle of the segment
	words := BuildWordTimeline(segments, 1, 3)

	require.Len(t, words, 4)
	for _, w := range words {
		assert.GreaterOrEqual(t, w.T0, 1.0)
		assert.LessOrEqual(t, w.T1, 3.0)
	}
}

func TestBuildWordTimelineSkipsOutOfWindowSegments(t *testing.T) {
	segments := []types.TranscriptSegment{
		{Start: 0, End: 2, Text: "before"},
		{Start: 5, End: 7, Text: "inside words"},
		{Start: 20, End: 22, Text: "after"},
	}
	words := BuildWordTimeline(segments, 5, 7)

	require.Len(t, words, 2)
	assert.Equal(t, "inside", words[0].Text)
	assert.Equal(t, "words", words[1].Text)
}

func TestBuildWordTimelineClampsOverlappingSegments(t *testing.T) {
	segments := []types.TranscriptSegment{
		{Start: 0, End: 3, Text: "alpha beta"},
		{Start: 2.5, End: 5, Text: "gamma"},
	}
	words := BuildWordTimeline(segments, 0, 5)

	require.Len(t, words, 3)
	for i := 0; i < len(words)-1; i++ {
		assert.LessOrEqual(t, words[i].T1, words[i+1].T0+1e-9,
			"word %d bleeds into word %d", i, i+1)
	}
}

func TestCaptionEventsGroupingAndHighlight(t *testing.T) {
	segments := []types.TranscriptSegment{
		{Start: 10, End: 14, Text: "one two three four"},
	}
	words := BuildWordTimeline(segments, 10, 14)
	events := CaptionEvents(words, 10, 14, 3)

	// group 1: three words, one event per word; group 2: one word
	require.Len(t, events, 4)

	assert.Equal(t, []string{"one", "two", "three"}, events[0].Words)
	assert.Equal(t, 0, events[0].Highlight)
	assert.Equal(t, 1, events[1].Highlight)
	assert.Equal(t, 2, events[2].Highlight)

	assert.Equal(t, []string{"four"}, events[3].Words)
	assert.Equal(t, 0, events[3].Highlight)
}

func TestCaptionEventsClipRelativeCoverage(t *testing.T) {
	segments := []types.TranscriptSegment{
		{Start: 8, End: 12, Text: "spill over words"},
		{Start: 12, End: 18, Text: "and some more text here now"},
	}
	clipStart, clipEnd := 10.0, 15.0
	words := BuildWordTimeline(segments, clipStart, clipEnd)
	events := CaptionEvents(words, clipStart, clipEnd, 3)

	require.NotEmpty(t, events)
	for _, ev := range events {
		assert.GreaterOrEqual(t, ev.Start, 0.0)
		assert.LessOrEqual(t, ev.End, clipEnd-clipStart)
		assert.Less(t, ev.Start, ev.End)
	}
}

func TestCaptionEventsEmptyWindow(t *testing.T) {
	words := BuildWordTimeline(nil, 0, 10)
	assert.Empty(t, words)
	assert.Empty(t, CaptionEvents(words, 0, 10, 3))
}

func TestCaptionEventsDefaultGroupSize(t *testing.T) {
	segments := []types.TranscriptSegment{
		{Start: 0, End: 6, Text: "a b c d e f"},
	}
	words := BuildWordTimeline(segments, 0, 6)
	events := CaptionEvents(words, 0, 6, 0)

	require.Len(t, events, 6)
	assert.Len(t, events[0].Words, 3)
}
