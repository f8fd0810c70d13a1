package dto

import (
	"testing"
	"time"

	"tube-bite/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobToRes(t *testing.T) {
	deleted := time.Now().Add(-time.Hour)
	job := &types.ClipJob{
		JobId:          "job_x",
		SourceType:     "youtube",
		SourceName:     "https://youtu.be/dQw4w9WgXcQ",
		Status:         types.JobStatusDone,
		ProcessPercent: 100,
		Duration:       320.5,
		SettingsJson:   `{"numberOfClips":5,"aspectRatio":"1:1"}`,
		CreateTime:     1756000000,
		DeletedAt:      &deleted,
		Clips: []types.Clip{
			{ClipId: "clip_a", Title: "Opener", StartTime: 10, EndTime: 40, ViralScore: 8.5},
		},
	}

	res := JobToRes(job)
	assert.Equal(t, "job_x", res.JobId)
	assert.Equal(t, 5, res.Settings.NumberOfClips)
	assert.Equal(t, "1:1", res.Settings.AspectRatio)
	assert.Equal(t, int64(1756000000), res.CreateTime)
	assert.Equal(t, deleted.Unix(), res.DeletedAt)

	require.Len(t, res.Clips, 1)
	assert.Equal(t, "clip_a", res.Clips[0].ClipId)
	assert.Equal(t, 30.0, res.Clips[0].Duration)
	assert.Equal(t, 8.5, res.Clips[0].ViralScore)
}

func TestJobToResBadSettingsFallsBackToDefaults(t *testing.T) {
	job := &types.ClipJob{JobId: "job_y", SettingsJson: "{not json"}
	res := JobToRes(job)
	assert.Equal(t, types.DefaultClipSettings(), res.Settings)
}

func TestJobsToRes(t *testing.T) {
	jobs := []types.ClipJob{{JobId: "a"}, {JobId: "b"}}
	res := JobsToRes(jobs)
	require.Len(t, res, 2)
	assert.Equal(t, "a", res[0].JobId)
	assert.Equal(t, "b", res[1].JobId)
}
