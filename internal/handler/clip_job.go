package handler

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"tube-bite/internal/appdirs"
	"tube-bite/internal/dto"
	"tube-bite/internal/response"
	"tube-bite/internal/service"
	"tube-bite/internal/storage"
	"tube-bite/internal/types"
	"tube-bite/log"
	apperrors "tube-bite/pkg/errors"
	"tube-bite/pkg/util"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const historyLimit = 200

// GenerateClips starts a job from a YouTube or Twitch URL.
func (h *Handler) GenerateClips(c *gin.Context) {
	var req dto.GenerateClipsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		log.GetLogger().Error("GenerateClips bind failed", zap.Error(err))
		response.ErrorResponse(c, apperrors.Wrap(apperrors.CodeInvalidParams, "Invalid parameters", err))
		return
	}
	if !service.IsSupportedURL(req.Url) {
		response.ErrorResponse(c, apperrors.ErrUnsupportedURL)
		return
	}

	sourceType := "url"
	if strings.Contains(req.Url, "youtu") {
		sourceType = "youtube"
	}
	h.submitJob(c, service.JobRequest{
		JobId:      service.NewJobId(),
		SourceType: sourceType,
		SourceName: req.Url,
		SourceURL:  req.Url,
		Settings:   req.Settings,
	})
}

// UploadVideo accepts a multipart video file, stores it under the upload
// root and starts a job on it.
func (h *Handler) UploadVideo(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		response.ErrorResponse(c, apperrors.Wrap(apperrors.CodeInvalidParams, "Missing upload file", err))
		return
	}

	settings := types.DefaultClipSettings()
	if raw := c.PostForm("settings"); raw != "" {
		if err = json.Unmarshal([]byte(raw), &settings); err != nil {
			response.ErrorResponse(c, apperrors.Wrap(apperrors.CodeInvalidParams, "Invalid clip settings", err))
			return
		}
	}

	uploadRoot, err := resolveUploadRoot()
	if err != nil {
		response.ErrorResponse(c, err)
		return
	}
	if err = os.MkdirAll(uploadRoot, 0o755); err != nil {
		response.ErrorResponse(c, apperrors.Wrap(apperrors.CodeFileWriteError, "Cannot create upload directory", err))
		return
	}

	// Random prefix avoids collisions between same-named uploads. The client
	// filename is untrusted and gets sanitized before touching the disk.
	savedName := uuid.NewString()[:8] + "_" + util.SanitizePathName(filepath.Base(file.Filename))
	savedPath := filepath.Join(uploadRoot, savedName)
	if err = c.SaveUploadedFile(file, savedPath); err != nil {
		response.ErrorResponse(c, apperrors.Wrap(apperrors.CodeFileWriteError, "Cannot save upload", err))
		return
	}

	h.submitJob(c, service.JobRequest{
		JobId:      service.NewJobId(),
		SourceType: "upload",
		SourceName: file.Filename,
		UploadPath: savedPath,
		Settings:   settings,
	})
}

func (h *Handler) submitJob(c *gin.Context, req service.JobRequest) {
	req.UserId = userIdFromRequest(c)
	job := &types.ClipJob{
		JobId:      req.JobId,
		UserId:     req.UserId,
		SourceType: req.SourceType,
		SourceName: req.SourceName,
		Status:     types.JobStatusQueued,
	}
	if settingsJson, err := json.Marshal(req.Settings); err == nil {
		job.SettingsJson = string(settingsJson)
	}
	if err := storage.SaveJob(job); err != nil {
		response.ErrorResponse(c, apperrors.Wrap(apperrors.CodeDBError, "Cannot record job", err))
		return
	}

	if err := h.Dispatcher.SubmitClipJob(req); err != nil {
		job.Status = types.JobStatusFailed
		job.FailReason = err.Error()
		_ = storage.SaveJob(job)
		response.ErrorResponse(c, apperrors.Wrap(apperrors.CodeUnknown, "Cannot queue job", err))
		return
	}
	response.Success(c, dto.GenerateClipsResData{JobId: req.JobId})
}

// GetJob returns one job with its clips, for status polling.
func (h *Handler) GetJob(c *gin.Context) {
	var req dto.GetJobReq
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ErrorResponse(c, apperrors.Wrap(apperrors.CodeInvalidParams, "Invalid parameters", err))
		return
	}

	job, err := storage.GetJob(userIdFromRequest(c), req.JobId)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.ErrorResponse(c, apperrors.ErrNotFound)
			return
		}
		response.ErrorResponse(c, apperrors.Wrap(apperrors.CodeDBError, "Cannot load job", err))
		return
	}
	response.Success(c, dto.JobToRes(job))
}

// GetJobHistory lists the caller's non-trashed jobs, newest first.
func (h *Handler) GetJobHistory(c *gin.Context) {
	jobs, err := storage.GetJobHistory(userIdFromRequest(c), historyLimit)
	if err != nil {
		response.ErrorResponse(c, apperrors.Wrap(apperrors.CodeDBError, "Cannot load history", err))
		return
	}
	response.Success(c, dto.JobsToRes(jobs))
}

func resolveUploadRoot() (string, error) {
	paths, err := appDirsResolver()
	if err != nil {
		return "", apperrors.Wrap(apperrors.CodeUnknown, "Cannot resolve app directories", err)
	}
	return appdirs.UploadRootFor(paths), nil
}
