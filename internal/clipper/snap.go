package clipper

import (
	"math"

	"tube-bite/internal/types"
)

// SnapToSegments aligns a model-proposed window to transcript boundaries so
// clips never start or end mid-sentence. The start moves to the nearest
// segment start; the end moves to the nearest segment end among segments
// that finish after the snapped start. With no usable end candidate the
// window keeps its requested end, stretched to at least five seconds.
func SnapToSegments(start, end float64, segments []types.TranscriptSegment) (float64, float64) {
	if len(segments) == 0 {
		return start, end
	}

	snappedStart := segments[0].Start
	bestDist := math.Abs(segments[0].Start - start)
	for _, seg := range segments[1:] {
		if d := math.Abs(seg.Start - start); d < bestDist {
			bestDist = d
			snappedStart = seg.Start
		}
	}

	snappedEnd := 0.0
	bestDist = math.Inf(1)
	for _, seg := range segments {
		if seg.End <= snappedStart {
			continue
		}
		if d := math.Abs(seg.End - end); d < bestDist {
			bestDist = d
			snappedEnd = seg.End
		}
	}
	if math.IsInf(bestDist, 1) {
		return snappedStart, math.Max(snappedStart+5.0, end)
	}

	return snappedStart, snappedEnd
}
