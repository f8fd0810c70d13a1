package types

import "time"

// Clip job lifecycle statuses.
const (
	JobStatusQueued  = 0
	JobStatusRunning = 1
	JobStatusDone    = 2
	JobStatusFailed  = 3
)

// ClipJob is one generation request and its outcome. Trash is a soft delete:
// Deleted flips on, DeletedAt records when, and a purge sweep removes rows
// past the retention window for good.
type ClipJob struct {
	Id    int64  `gorm:"primaryKey;autoIncrement" json:"-"`
	JobId string `gorm:"uniqueIndex;size:64" json:"jobId"`
	// UserId scopes history rows. Single-user deployments leave the
	// default owner.
	UserId     string `gorm:"index;size:64" json:"-"`
	SourceType string `gorm:"size:16" json:"sourceType"` // youtube | url | upload
	SourceName string `json:"sourceName"`
	Status     int    `gorm:"index" json:"status"`
	FailReason string `json:"failReason,omitempty"`
	// ProcessPercent is coarse pipeline progress, 0-100.
	ProcessPercent int `json:"processPercent"`
	// SettingsJson is the serialized ClipSettings the job ran with.
	SettingsJson string  `gorm:"type:text" json:"-"`
	Duration     float64 `json:"duration"`
	// PartialSuccess is set when some clips failed to render but the job
	// still produced output.
	PartialSuccess bool       `json:"partialSuccess"`
	Deleted        bool       `gorm:"index" json:"-"`
	DeletedAt      *time.Time `json:"deletedAt,omitempty"`
	CreateTime     int64      `gorm:"autoCreateTime" json:"createTime"`
	UpdateTime     int64      `gorm:"autoUpdateTime" json:"updateTime"`

	Clips []Clip `gorm:"foreignKey:JobId;references:JobId" json:"clips"`
}

// Clip is one rendered output of a job.
type Clip struct {
	Id     int64  `gorm:"primaryKey;autoIncrement" json:"-"`
	ClipId string `gorm:"uniqueIndex;size:64" json:"clipId"`
	JobId  string `gorm:"index;size:64" json:"jobId"`

	Title       string  `json:"title"`
	ViralReason string  `json:"viralReason"`
	ViralScore  float64 `json:"viralScore"`
	Hook        string  `json:"hook"`
	StartTime   float64 `json:"startTime"`
	EndTime     float64 `json:"endTime"`

	VideoUrl     string `json:"videoUrl"`
	ThumbnailUrl string `json:"thumbnailUrl"`
	// Remote names are the asset-store keys, kept for later deletion.
	RemoteName      string `json:"-"`
	ThumbRemoteName string `json:"-"`
	Subtitled       bool   `json:"subtitled"`

	CreateTime int64 `gorm:"autoCreateTime" json:"createTime"`
}
