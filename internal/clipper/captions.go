package clipper

import (
	"math"
	"sort"
	"strings"

	"tube-bite/internal/types"
)

const DefaultCaptionGroupSize = 3

// BuildWordTimeline estimates per-word timing for every transcript segment
// overlapping the clip window. Segments carry only sentence-level timing, so
// each word gets an equal share of its segment's span, clamped to the clip.
// Returned times are absolute (same clock as the transcript).
func BuildWordTimeline(segments []types.TranscriptSegment, clipStart, clipEnd float64) []types.Word {
	var words []types.Word
	for _, seg := range segments {
		if seg.End <= clipStart || seg.Start >= clipEnd {
			continue
		}
		ws := strings.Fields(seg.Text)
		if len(ws) == 0 {
			continue
		}
		s0 := math.Max(seg.Start, clipStart)
		s1 := math.Min(seg.End, clipEnd)
		if s1 <= s0 {
			continue
		}
		perWord := (s1 - s0) / float64(len(ws))
		for j, w := range ws {
			words = append(words, types.Word{
				T0:   s0 + float64(j)*perWord,
				T1:   s0 + float64(j+1)*perWord,
				Text: w,
			})
		}
	}

	sort.SliceStable(words, func(i, j int) bool { return words[i].T0 < words[j].T0 })

	// Segments can overlap slightly; never let a word outlive its successor.
	for i := 0; i < len(words)-1; i++ {
		if words[i].T1 > words[i+1].T0 {
			words[i].T1 = words[i+1].T0
		}
	}
	return words
}

// CaptionEvents groups the timeline into karaoke events: for each word group
// of groupSize, one event per word, spanning exactly that word's time with
// the whole group visible and the active word highlighted. Event times are
// clip-relative.
func CaptionEvents(words []types.Word, clipStart, clipEnd float64, groupSize int) []types.CaptionEvent {
	if groupSize <= 0 {
		groupSize = DefaultCaptionGroupSize
	}
	clipLen := clipEnd - clipStart

	var events []types.CaptionEvent
	for g0 := 0; g0 < len(words); g0 += groupSize {
		g1 := g0 + groupSize
		if g1 > len(words) {
			g1 = len(words)
		}
		group := words[g0:g1]

		texts := make([]string, len(group))
		for i, w := range group {
			texts[i] = w.Text
		}

		for i, w := range group {
			evStart := math.Max(0, w.T0-clipStart)
			evEnd := math.Min(clipLen, w.T1-clipStart)
			if evEnd <= evStart {
				continue
			}
			events = append(events, types.CaptionEvent{
				Start:     evStart,
				End:       evEnd,
				Words:     texts,
				Highlight: i,
			})
		}
	}
	return events
}
