package clipper

import (
	"fmt"
	"math"
	"sort"

	"tube-bite/internal/types"
)

// Policy holds the selection knobs. Zero values fall back to the shipped
// defaults so an empty config section still behaves sanely.
type Policy struct {
	// GuardBandSec keeps selected clips at least this far apart.
	GuardBandSec float64
	// Auto-duration shaping: clips under MinClipSec are extended to
	// ExtendToSec, clips over MaxClipSec are cut at MaxClipSec.
	MinClipSec      float64
	ExtendToSec     float64
	MaxClipSec      float64
	FallbackClipSec float64
}

func DefaultPolicy() Policy {
	return Policy{
		GuardBandSec:    3,
		MinClipSec:      10,
		ExtendToSec:     15,
		MaxClipSec:      60,
		FallbackClipSec: 30,
	}
}

func (p Policy) normalized() Policy {
	d := DefaultPolicy()
	if p.GuardBandSec <= 0 {
		p.GuardBandSec = d.GuardBandSec
	}
	if p.MinClipSec <= 0 {
		p.MinClipSec = d.MinClipSec
	}
	if p.ExtendToSec <= 0 {
		p.ExtendToSec = d.ExtendToSec
	}
	if p.MaxClipSec <= 0 {
		p.MaxClipSec = d.MaxClipSec
	}
	if p.FallbackClipSec <= 0 {
		p.FallbackClipSec = d.FallbackClipSec
	}
	return p
}

// SelectClips turns raw candidates into exactly settings.NumberOfClips
// validated, non-overlapping clips ordered by start time. Candidates are
// considered best-score-first; too few survivors are topped up with evenly
// spaced fallback highlights.
func SelectClips(candidates []types.RawCandidateMoment, settings types.ClipSettings, videoDuration float64, policy Policy) []types.SelectedClip {
	policy = policy.normalized()
	want := settings.NumberOfClips
	if want <= 0 {
		want = 1
	}

	ranked := make([]types.RawCandidateMoment, len(candidates))
	copy(ranked, candidates)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].ViralScore.Float() > ranked[j].ViralScore.Float()
	})

	fixedDur, hasFixedDur := settings.FixedDuration()

	var selected []types.SelectedClip
	for _, cand := range ranked {
		start := cand.StartTime.Float()
		end := cand.EndTime.Float()

		if start < 0 || end <= start || start >= videoDuration {
			continue
		}
		end = math.Min(end, videoDuration)

		if hasFixedDur {
			end = math.Min(start+fixedDur, videoDuration)
		} else {
			switch dur := end - start; {
			case dur < policy.MinClipSec:
				end = math.Min(start+policy.ExtendToSec, videoDuration)
			case dur > policy.MaxClipSec:
				end = start + policy.MaxClipSec
			}
		}

		if overlapsAny(start, end, selected, policy.GuardBandSec) {
			continue
		}

		selected = append(selected, types.SelectedClip{
			Start:       round2(start),
			End:         round2(end),
			Title:       cand.Title,
			ViralReason: cand.ViralReason,
			ViralScore:  cand.ViralScore.Float(),
			Hook:        cand.Hook,
		})
		if len(selected) >= want {
			break
		}
	}

	if len(selected) < want {
		fill := FallbackClips(videoDuration, settings, policy, selected)
		missing := want - len(selected)
		if len(fill) > missing {
			fill = fill[:missing]
		}
		selected = append(selected, fill...)
	}

	// A video too short to hold N spaced clips exhausts the fallback grid.
	// Pad with evenly placed windows anyway so the caller always gets N.
	if len(selected) < want {
		clipDur := policy.FallbackClipSec
		if d, ok := settings.FixedDuration(); ok {
			clipDur = d
		}
		maxStart := math.Max(0, videoDuration-clipDur)
		for i := len(selected); len(selected) < want; i++ {
			start := round2(maxStart * float64(i) / float64(want))
			selected = append(selected, types.SelectedClip{
				Start:       start,
				End:         round2(math.Min(start+clipDur, videoDuration)),
				Title:       fmt.Sprintf("Highlight %d", len(selected)+1),
				ViralReason: "Selected as a highlight moment.",
				ViralScore:  0.5,
			})
		}
	}

	sort.Slice(selected, func(i, j int) bool { return selected[i].Start < selected[j].Start })
	if len(selected) > want {
		selected = selected[:want]
	}
	return selected
}

func overlapsAny(start, end float64, selected []types.SelectedClip, guard float64) bool {
	for _, s := range selected {
		if !(end+guard <= s.Start || start >= s.End+guard) {
			return true
		}
	}
	return false
}

// FallbackClips spreads highlight windows evenly across the video, skipping
// starts too close to already-taken clips. Used when the model produced
// nothing usable, or not enough.
func FallbackClips(videoDuration float64, settings types.ClipSettings, policy Policy, exclude []types.SelectedClip) []types.SelectedClip {
	policy = policy.normalized()

	clipDur := policy.FallbackClipSec
	if dur, ok := settings.FixedDuration(); ok {
		clipDur = dur
	}
	want := settings.NumberOfClips
	if want <= 0 {
		want = 1
	}

	usedStarts := make([]float64, 0, len(exclude))
	for _, c := range exclude {
		usedStarts = append(usedStarts, c.Start)
	}

	maxStart := math.Max(0, videoDuration-clipDur)
	step := maxStart / float64(want)

	var out []types.SelectedClip
	for i := 0; i < want*3 && len(out) < want; i++ {
		start := round2(math.Min(float64(i)*step/3, maxStart))
		end := round2(math.Min(start+clipDur, videoDuration))

		tooClose := false
		for _, u := range usedStarts {
			if math.Abs(start-u) < clipDur {
				tooClose = true
				break
			}
		}
		if tooClose {
			continue
		}

		out = append(out, types.SelectedClip{
			Start:       start,
			End:         end,
			Title:       fmt.Sprintf("Highlight %d", len(out)+1),
			ViralReason: "Selected as a highlight moment.",
			ViralScore:  0.5,
		})
		usedStarts = append(usedStarts, start)
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
