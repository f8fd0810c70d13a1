package storage

import (
	"errors"
	"time"

	"tube-bite/internal/types"

	"gorm.io/gorm"
)

// TrashRetentionDays is how long soft-deleted jobs stay recoverable.
const TrashRetentionDays = 10

var errDBNotInitialized = errors.New("database not initialized")

// SaveJob upserts a job by its JobId, replacing its clip rows.
func SaveJob(job *types.ClipJob) error {
	if DB == nil {
		return errDBNotInitialized
	}
	var existing types.ClipJob
	result := DB.Where("job_id = ?", job.JobId).First(&existing)

	if result.Error == nil {
		job.Id = existing.Id
		if err := DB.Where("job_id = ?", job.JobId).Delete(&types.Clip{}).Error; err != nil {
			return err
		}
		return DB.Session(&gorm.Session{FullSaveAssociations: true}).Save(job).Error
	} else if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return DB.Create(job).Error
	}
	return result.Error
}

// GetJob loads one job with its clips. A non-empty userId restricts the
// lookup to that user's jobs; internal callers pass "" for an unscoped read.
func GetJob(userId, jobId string) (*types.ClipJob, error) {
	if DB == nil {
		return nil, errDBNotInitialized
	}
	query := DB.Preload("Clips").Where("job_id = ?", jobId)
	if userId != "" {
		query = query.Where("user_id = ?", userId)
	}
	var job types.ClipJob
	if err := query.First(&job).Error; err != nil {
		return nil, err
	}
	return &job, nil
}

// GetJobHistory lists live (non-trashed) jobs for one user, newest first.
// An empty userId lists every user's jobs.
func GetJobHistory(userId string, limit int) ([]types.ClipJob, error) {
	if DB == nil {
		return nil, errDBNotInitialized
	}
	query := DB.Preload("Clips").Where("deleted = ?", false)
	if userId != "" {
		query = query.Where("user_id = ?", userId)
	}
	var jobs []types.ClipJob
	if err := query.
		Order("create_time desc").
		Limit(limit).
		Find(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

// GetTrash lists soft-deleted jobs still inside the retention window.
func GetTrash(userId string, limit int) ([]types.ClipJob, error) {
	if DB == nil {
		return nil, errDBNotInitialized
	}
	query := DB.Preload("Clips").Where("deleted = ?", true)
	if userId != "" {
		query = query.Where("user_id = ?", userId)
	}
	var jobs []types.ClipJob
	if err := query.
		Order("deleted_at desc").
		Limit(limit).
		Find(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

// SoftDeleteJob moves a job to trash. The update only touches the caller's
// own job; a jobId owned by someone else reads as not found.
func SoftDeleteJob(userId, jobId string) error {
	if DB == nil {
		return errDBNotInitialized
	}
	now := time.Now()
	query := DB.Model(&types.ClipJob{}).
		Where("job_id = ? AND deleted = ?", jobId, false)
	if userId != "" {
		query = query.Where("user_id = ?", userId)
	}
	result := query.Updates(map[string]interface{}{"deleted": true, "deleted_at": &now})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// RestoreJob brings a job back out of trash.
func RestoreJob(userId, jobId string) error {
	if DB == nil {
		return errDBNotInitialized
	}
	query := DB.Model(&types.ClipJob{}).
		Where("job_id = ? AND deleted = ?", jobId, true)
	if userId != "" {
		query = query.Where("user_id = ?", userId)
	}
	result := query.Updates(map[string]interface{}{"deleted": false, "deleted_at": nil})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// PermanentDeleteJob removes a job and its clips outright. Returns the clip
// rows that were attached so the caller can delete remote assets too. The
// job must belong to userId when one is given; otherwise ErrRecordNotFound.
func PermanentDeleteJob(userId, jobId string) ([]types.Clip, error) {
	if DB == nil {
		return nil, errDBNotInitialized
	}
	jobQuery := DB.Where("job_id = ?", jobId)
	if userId != "" {
		jobQuery = jobQuery.Where("user_id = ?", userId)
	}
	var job types.ClipJob
	if err := jobQuery.First(&job).Error; err != nil {
		return nil, err
	}
	var clips []types.Clip
	if err := DB.Where("job_id = ?", jobId).Find(&clips).Error; err != nil {
		return nil, err
	}
	if err := DB.Where("job_id = ?", jobId).Delete(&types.Clip{}).Error; err != nil {
		return nil, err
	}
	if err := DB.Where("id = ?", job.Id).Delete(&types.ClipJob{}).Error; err != nil {
		return nil, err
	}
	return clips, nil
}

// ExpiredTrash returns trashed jobs past the retention window.
func ExpiredTrash() ([]types.ClipJob, error) {
	if DB == nil {
		return nil, errDBNotInitialized
	}
	cutoff := time.Now().AddDate(0, 0, -TrashRetentionDays)
	var jobs []types.ClipJob
	if err := DB.Preload("Clips").
		Where("deleted = ? AND deleted_at < ?", true, cutoff).
		Find(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

// MarkStaleJobs fails every job still marked running. Called on startup to
// clean up work interrupted by a restart.
func MarkStaleJobs() (int64, error) {
	if DB == nil {
		return 0, errDBNotInitialized
	}
	result := DB.Model(&types.ClipJob{}).
		Where("status = ?", types.JobStatusRunning).
		Updates(map[string]interface{}{
			"status":      types.JobStatusFailed,
			"fail_reason": "Job interrupted by server restart",
		})
	return result.RowsAffected, result.Error
}
