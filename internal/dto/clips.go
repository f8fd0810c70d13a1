package dto

import (
	"encoding/json"

	"tube-bite/internal/types"

	"github.com/samber/lo"
)

// GenerateClipsReq starts a job from a YouTube or Twitch URL.
type GenerateClipsReq struct {
	Url      string             `json:"url" binding:"required"`
	Settings types.ClipSettings `json:"settings"`
}

type GenerateClipsResData struct {
	JobId string `json:"jobId"`
}

// GetJobReq fetches one job by id.
type GetJobReq struct {
	JobId string `form:"jobId" binding:"required"`
}

// ClipRes is one rendered clip as the frontend consumes it.
type ClipRes struct {
	ClipId       string  `json:"clipId"`
	Title        string  `json:"title"`
	ViralReason  string  `json:"viralReason"`
	ViralScore   float64 `json:"viralScore"`
	Hook         string  `json:"hook"`
	StartTime    float64 `json:"startTime"`
	EndTime      float64 `json:"endTime"`
	Duration     float64 `json:"duration"`
	VideoUrl     string  `json:"videoUrl"`
	ThumbnailUrl string  `json:"thumbnailUrl"`
	Subtitled    bool    `json:"subtitled"`
}

// JobRes is a job with its clips, used by both status polling and history.
type JobRes struct {
	JobId          string             `json:"jobId"`
	SourceType     string             `json:"sourceType"`
	SourceName     string             `json:"sourceName"`
	Status         int                `json:"status"`
	FailReason     string             `json:"failReason,omitempty"`
	ProcessPercent int                `json:"processPercent"`
	Duration       float64            `json:"duration"`
	PartialSuccess bool               `json:"partialSuccess"`
	Settings       types.ClipSettings `json:"settings"`
	CreateTime     int64              `json:"createTime"`
	DeletedAt      int64              `json:"deletedAt,omitempty"`
	Clips          []ClipRes          `json:"clips"`
}

// TemplateRes describes one caption style preset.
type TemplateRes struct {
	Id          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func ClipToRes(clip types.Clip) ClipRes {
	return ClipRes{
		ClipId:       clip.ClipId,
		Title:        clip.Title,
		ViralReason:  clip.ViralReason,
		ViralScore:   clip.ViralScore,
		Hook:         clip.Hook,
		StartTime:    clip.StartTime,
		EndTime:      clip.EndTime,
		Duration:     clip.EndTime - clip.StartTime,
		VideoUrl:     clip.VideoUrl,
		ThumbnailUrl: clip.ThumbnailUrl,
		Subtitled:    clip.Subtitled,
	}
}

func JobToRes(job *types.ClipJob) JobRes {
	settings := types.DefaultClipSettings()
	if job.SettingsJson != "" {
		// Stored settings win; garbage falls back to the defaults.
		_ = json.Unmarshal([]byte(job.SettingsJson), &settings)
	}

	res := JobRes{
		JobId:          job.JobId,
		SourceType:     job.SourceType,
		SourceName:     job.SourceName,
		Status:         job.Status,
		FailReason:     job.FailReason,
		ProcessPercent: job.ProcessPercent,
		Duration:       job.Duration,
		PartialSuccess: job.PartialSuccess,
		Settings:       settings,
		CreateTime:     job.CreateTime,
		Clips:          lo.Map(job.Clips, func(clip types.Clip, _ int) ClipRes { return ClipToRes(clip) }),
	}
	if job.DeletedAt != nil {
		res.DeletedAt = job.DeletedAt.Unix()
	}
	return res
}

func JobsToRes(jobs []types.ClipJob) []JobRes {
	return lo.Map(jobs, func(job types.ClipJob, _ int) JobRes { return JobToRes(&job) })
}
