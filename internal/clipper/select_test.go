package clipper

import (
	"fmt"
	"testing"

	"tube-bite/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func autoSettings(n int) types.ClipSettings {
	s := types.DefaultClipSettings()
	s.NumberOfClips = n
	return s
}

func candidate(start, end, score float64, title string) types.RawCandidateMoment {
	return types.RawCandidateMoment{
		StartTime:  types.FlexFloat(start),
		EndTime:    types.FlexFloat(end),
		Title:      title,
		ViralScore: types.FlexFloat(score),
	}
}

func TestSelectClipsPicksHighestScoresFirst(t *testing.T) {
	candidates := []types.RawCandidateMoment{
		candidate(0, 20, 0.4, "low"),
		candidate(100, 120, 0.9, "high"),
		candidate(50, 70, 0.7, "mid"),
	}
	clips := SelectClips(candidates, autoSettings(2), 200, Policy{})

	require.Len(t, clips, 2)
	titles := []string{clips[0].Title, clips[1].Title}
	assert.Contains(t, titles, "high")
	assert.Contains(t, titles, "mid")
}

func TestSelectClipsRejectsInvalidWindows(t *testing.T) {
	candidates := []types.RawCandidateMoment{
		candidate(-1, 20, 0.9, "negative start"),
		candidate(30, 30, 0.9, "zero length"),
		candidate(40, 35, 0.9, "inverted"),
		candidate(500, 520, 0.9, "past the end"),
		candidate(10, 40, 0.8, "valid"),
	}
	clips := SelectClips(candidates, autoSettings(1), 100, Policy{})

	require.Len(t, clips, 1)
	assert.Equal(t, "valid", clips[0].Title)
}

func TestSelectClipsGuardBandNonOverlap(t *testing.T) {
	candidates := []types.RawCandidateMoment{
		candidate(10, 40, 0.9, "first"),
		candidate(41, 70, 0.8, "too close"), // 40+3 > 41
		candidate(43, 73, 0.7, "far enough"),
	}
	clips := SelectClips(candidates, autoSettings(2), 200, Policy{})

	require.Len(t, clips, 2)
	for i := range clips {
		for j := range clips {
			if i == j {
				continue
			}
			ok := clips[i].End+3 <= clips[j].Start || clips[j].End+3 <= clips[i].Start
			assert.True(t, ok, "clips %d and %d overlap within guard band", i, j)
		}
	}
}

func TestSelectClipsAutoDurationShaping(t *testing.T) {
	candidates := []types.RawCandidateMoment{
		candidate(0, 5, 0.9, "too short"),
		candidate(100, 180, 0.8, "too long"),
	}
	clips := SelectClips(candidates, autoSettings(2), 300, Policy{})

	require.Len(t, clips, 2)
	assert.Equal(t, 15.0, clips[0].End-clips[0].Start, "short clip extended")
	assert.Equal(t, 60.0, clips[1].End-clips[1].Start, "long clip truncated")
}

func TestSelectClipsFixedDurationForcesLength(t *testing.T) {
	settings := autoSettings(1)
	settings.Duration = "20"

	clips := SelectClips([]types.RawCandidateMoment{candidate(10, 90, 0.9, "x")}, settings, 300, Policy{})

	require.Len(t, clips, 1)
	assert.Equal(t, 20.0, clips[0].End-clips[0].Start)
}

func TestSelectClipsClampsEndToDuration(t *testing.T) {
	clips := SelectClips([]types.RawCandidateMoment{candidate(80, 200, 0.9, "x")}, autoSettings(1), 100, Policy{})

	require.Len(t, clips, 1)
	assert.LessOrEqual(t, clips[0].End, 100.0)
}

func TestSelectClipsCardinalityWithZeroCandidates(t *testing.T) {
	clips := SelectClips(nil, autoSettings(3), 120, Policy{})

	require.Len(t, clips, 3)
	for _, c := range clips {
		assert.GreaterOrEqual(t, c.Start, 0.0)
		assert.LessOrEqual(t, c.End, 120.0)
		assert.InDelta(t, 30.0, c.Duration(), 0.01)
	}
	// evenly spread over the video
	assert.Equal(t, 0.0, clips[0].Start)
	assert.Equal(t, 30.0, clips[1].Start)
	assert.Equal(t, 60.0, clips[2].Start)
}

func TestSelectClipsOrderedByStart(t *testing.T) {
	candidates := []types.RawCandidateMoment{
		candidate(150, 170, 0.9, "late"),
		candidate(10, 30, 0.8, "early"),
		candidate(80, 100, 0.7, "middle"),
	}
	clips := SelectClips(candidates, autoSettings(3), 300, Policy{})

	require.Len(t, clips, 3)
	for i := 1; i < len(clips); i++ {
		assert.Less(t, clips[i-1].Start, clips[i].Start)
	}
}

func TestSelectClipsTopsUpWithFallback(t *testing.T) {
	clips := SelectClips([]types.RawCandidateMoment{candidate(10, 40, 0.9, "only one")}, autoSettings(3), 300, Policy{})

	require.Len(t, clips, 3)
	found := false
	for _, c := range clips {
		if c.Title == "only one" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestFallbackClipsSkipUsedStarts(t *testing.T) {
	used := []types.SelectedClip{{Start: 0, End: 30}}
	clips := FallbackClips(120, autoSettings(3), Policy{}, used)

	require.NotEmpty(t, clips)
	for _, c := range clips {
		assert.GreaterOrEqual(t, c.Start, 30.0, "fallback landed on a used window")
	}
}

func TestFallbackClipsSyntheticMetadata(t *testing.T) {
	clips := FallbackClips(120, autoSettings(2), Policy{}, nil)

	require.NotEmpty(t, clips)
	for i, c := range clips {
		assert.Equal(t, fmt.Sprintf("Highlight %d", i+1), c.Title)
		assert.Equal(t, 0.5, c.ViralScore)
		assert.Empty(t, c.Hook)
	}
}

func TestSelectClipsShortVideoFallback(t *testing.T) {
	// Video shorter than the fallback duration still yields N clips.
	clips := SelectClips(nil, autoSettings(2), 20, Policy{})

	require.Len(t, clips, 2)
	for _, c := range clips {
		assert.LessOrEqual(t, c.End, 20.0)
	}
}
