package storage

import (
	"path/filepath"
	"testing"
	"time"

	"tube-bite/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) {
	t.Helper()

	original := DB
	t.Cleanup(func() { DB = original })

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&types.ClipJob{}, &types.Clip{}))
	DB = db
}

func sampleJob(jobId string) *types.ClipJob {
	return &types.ClipJob{
		JobId:      jobId,
		SourceType: "youtube",
		SourceName: "Test Video",
		Status:     types.JobStatusDone,
		Duration:   120,
		Clips: []types.Clip{
			{ClipId: jobId + "-c1", JobId: jobId, Title: "First", StartTime: 0, EndTime: 30, VideoUrl: "/output/a.mp4"},
			{ClipId: jobId + "-c2", JobId: jobId, Title: "Second", StartTime: 60, EndTime: 90, VideoUrl: "/output/b.mp4"},
		},
	}
}

func TestSaveJobCreateAndGet(t *testing.T) {
	setupTestDB(t)

	require.NoError(t, SaveJob(sampleJob("job-1")))

	got, err := GetJob("", "job-1")
	require.NoError(t, err)
	assert.Equal(t, "Test Video", got.SourceName)
	assert.Len(t, got.Clips, 2)
}

func TestSaveJobUpsertReplacesClips(t *testing.T) {
	setupTestDB(t)

	require.NoError(t, SaveJob(sampleJob("job-1")))

	updated := sampleJob("job-1")
	updated.Status = types.JobStatusFailed
	updated.Clips = []types.Clip{
		{ClipId: "job-1-c3", JobId: "job-1", Title: "Replacement", StartTime: 10, EndTime: 40},
	}
	require.NoError(t, SaveJob(updated))

	got, err := GetJob("", "job-1")
	require.NoError(t, err)
	assert.Equal(t, types.JobStatusFailed, got.Status)
	require.Len(t, got.Clips, 1)
	assert.Equal(t, "Replacement", got.Clips[0].Title)
}

func TestGetJobNotFound(t *testing.T) {
	setupTestDB(t)

	_, err := GetJob("", "missing")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestHistoryExcludesTrash(t *testing.T) {
	setupTestDB(t)

	require.NoError(t, SaveJob(sampleJob("job-1")))
	require.NoError(t, SaveJob(sampleJob("job-2")))
	require.NoError(t, SoftDeleteJob("", "job-1"))

	history, err := GetJobHistory("", 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "job-2", history[0].JobId)

	trash, err := GetTrash("", 10)
	require.NoError(t, err)
	require.Len(t, trash, 1)
	assert.Equal(t, "job-1", trash[0].JobId)
}

func TestSoftDeleteRestoreRoundTrip(t *testing.T) {
	setupTestDB(t)

	require.NoError(t, SaveJob(sampleJob("job-1")))
	require.NoError(t, SoftDeleteJob("", "job-1"))
	assert.ErrorIs(t, SoftDeleteJob("", "job-1"), gorm.ErrRecordNotFound)

	require.NoError(t, RestoreJob("", "job-1"))
	history, err := GetJobHistory("", 10)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestPermanentDeleteReturnsClips(t *testing.T) {
	setupTestDB(t)

	require.NoError(t, SaveJob(sampleJob("job-1")))

	clips, err := PermanentDeleteJob("", "job-1")
	require.NoError(t, err)
	assert.Len(t, clips, 2)

	_, err = GetJob("", "job-1")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestMutationsScopedByOwner(t *testing.T) {
	setupTestDB(t)

	owned := sampleJob("job-1")
	owned.UserId = "alice"
	require.NoError(t, SaveJob(owned))

	// A different user cannot trash, restore or purge the job.
	assert.ErrorIs(t, SoftDeleteJob("mallory", "job-1"), gorm.ErrRecordNotFound)
	_, err := GetJob("mallory", "job-1")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	_, err = PermanentDeleteJob("mallory", "job-1")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	// The owner can.
	require.NoError(t, SoftDeleteJob("alice", "job-1"))
	assert.ErrorIs(t, RestoreJob("mallory", "job-1"), gorm.ErrRecordNotFound)
	require.NoError(t, RestoreJob("alice", "job-1"))

	clips, err := PermanentDeleteJob("alice", "job-1")
	require.NoError(t, err)
	assert.Len(t, clips, 2)
}

func TestExpiredTrashRespectsRetention(t *testing.T) {
	setupTestDB(t)

	require.NoError(t, SaveJob(sampleJob("old")))
	require.NoError(t, SaveJob(sampleJob("fresh")))
	require.NoError(t, SoftDeleteJob("", "old"))
	require.NoError(t, SoftDeleteJob("", "fresh"))

	// age the first one past retention
	past := time.Now().AddDate(0, 0, -(TrashRetentionDays + 1))
	require.NoError(t, DB.Model(&types.ClipJob{}).
		Where("job_id = ?", "old").
		Update("deleted_at", &past).Error)

	expired, err := ExpiredTrash()
	require.NoError(t, err)
	require.Len(t, expired, 1)
	assert.Equal(t, "old", expired[0].JobId)
}

func TestMarkStaleJobs(t *testing.T) {
	setupTestDB(t)

	running := sampleJob("running")
	running.Status = types.JobStatusRunning
	require.NoError(t, SaveJob(running))
	require.NoError(t, SaveJob(sampleJob("done")))

	n, err := MarkStaleJobs()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := GetJob("", "running")
	require.NoError(t, err)
	assert.Equal(t, types.JobStatusFailed, got.Status)
	assert.NotEmpty(t, got.FailReason)
}

func TestHelpersFailWithoutDB(t *testing.T) {
	original := DB
	DB = nil
	t.Cleanup(func() { DB = original })

	assert.Error(t, SaveJob(sampleJob("x")))
	_, err := GetJob("", "x")
	assert.Error(t, err)
	_, err = GetJobHistory("", 5)
	assert.Error(t, err)
}
