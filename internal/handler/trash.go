package handler

import (
	"errors"

	"tube-bite/internal/dto"
	"tube-bite/internal/response"
	"tube-bite/internal/storage"
	"tube-bite/log"
	apperrors "tube-bite/pkg/errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// GetTrash lists soft-deleted jobs, most recently trashed first.
func (h *Handler) GetTrash(c *gin.Context) {
	jobs, err := storage.GetTrash(userIdFromRequest(c), historyLimit)
	if err != nil {
		response.ErrorResponse(c, apperrors.Wrap(apperrors.CodeDBError, "Cannot load trash", err))
		return
	}
	response.Success(c, dto.JobsToRes(jobs))
}

// TrashJob moves a job to the trash. Assets stay on disk until the job is
// permanently deleted or the retention sweep claims it.
func (h *Handler) TrashJob(c *gin.Context) {
	jobId := c.Param("jobId")
	if jobId == "" {
		response.ErrorResponse(c, apperrors.ErrInvalidParams)
		return
	}

	if err := storage.SoftDeleteJob(userIdFromRequest(c), jobId); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.ErrorResponse(c, apperrors.ErrNotFound)
			return
		}
		response.ErrorResponse(c, apperrors.Wrap(apperrors.CodeDBError, "Cannot trash job", err))
		return
	}
	response.Success(c, nil)
}

// RestoreJob moves a trashed job back into the history.
func (h *Handler) RestoreJob(c *gin.Context) {
	jobId := c.Param("jobId")
	if jobId == "" {
		response.ErrorResponse(c, apperrors.ErrInvalidParams)
		return
	}

	if err := storage.RestoreJob(userIdFromRequest(c), jobId); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.ErrorResponse(c, apperrors.ErrNotFound)
			return
		}
		response.ErrorResponse(c, apperrors.Wrap(apperrors.CodeDBError, "Cannot restore job", err))
		return
	}
	response.Success(c, nil)
}

// PermanentDeleteJob removes a job for good: database row, remote assets
// and local output files.
func (h *Handler) PermanentDeleteJob(c *gin.Context) {
	jobId := c.Param("jobId")
	if jobId == "" {
		response.ErrorResponse(c, apperrors.ErrInvalidParams)
		return
	}

	clips, err := storage.PermanentDeleteJob(userIdFromRequest(c), jobId)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.ErrorResponse(c, apperrors.ErrNotFound)
			return
		}
		response.ErrorResponse(c, apperrors.Wrap(apperrors.CodeDBError, "Cannot delete job", err))
		return
	}

	h.Service.RemoveJobAssets(c.Request.Context(), jobId, clips)
	log.GetLogger().Info("job permanently deleted",
		zap.String("jobId", jobId), zap.Int("clips", len(clips)))
	response.Success(c, nil)
}
