package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"tube-bite/internal/service"
	"tube-bite/internal/types"
	"tube-bite/log"
)

// TaskHandlers binds queued payloads to the service pipeline.
type TaskHandlers struct {
	service *service.Service
}

func NewTaskHandlers(svc *service.Service) *TaskHandlers {
	return &TaskHandlers{service: svc}
}

func (h *TaskHandlers) HandleClipJob(ctx context.Context, t *asynq.Task) error {
	var payload ClipJobPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal clip job payload: %w", err)
	}

	settings := types.DefaultClipSettings()
	if payload.Settings != "" {
		if err := json.Unmarshal([]byte(payload.Settings), &settings); err != nil {
			return fmt.Errorf("unmarshal clip settings: %w", err)
		}
	}

	log.GetLogger().Info("processing queued clip job",
		zap.String("jobId", payload.JobId),
		zap.String("sourceType", payload.SourceType))

	return h.service.RunClipJob(ctx, service.JobRequest{
		JobId:      payload.JobId,
		UserId:     payload.UserId,
		SourceType: payload.SourceType,
		SourceName: payload.SourceName,
		SourceURL:  payload.SourceURL,
		UploadPath: payload.UploadPath,
		Settings:   settings,
	})
}

func (h *TaskHandlers) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(TypeClipJob, h.HandleClipJob)
}

// StartWorker runs the asynq worker loop. Blocks until shutdown.
func StartWorker(q *Queue, svc *service.Service) error {
	mux := asynq.NewServeMux()
	NewTaskHandlers(svc).RegisterHandlers(mux)

	log.GetLogger().Info("starting queue worker",
		zap.String("redisAddr", q.config.RedisAddr),
		zap.Int("concurrency", q.config.Concurrency))
	return q.server.Run(mux)
}
