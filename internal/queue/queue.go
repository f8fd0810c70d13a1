// Package queue provides Redis-backed background job processing using Asynq.
// It is selected over the in-memory runner when the configured queue backend
// is "redis", giving jobs retry logic and restart persistence.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"tube-bite/config"
	"tube-bite/internal/service"
	"tube-bite/log"
)

const TypeClipJob = "clip:generate"

// ClipJobPayload is the wire form of a queued job.
type ClipJobPayload struct {
	JobId      string `json:"job_id"`
	UserId     string `json:"user_id,omitempty"`
	SourceType string `json:"source_type"`
	SourceName string `json:"source_name,omitempty"`
	SourceURL  string `json:"source_url,omitempty"`
	UploadPath string `json:"upload_path,omitempty"`
	Settings   string `json:"settings"` // json-encoded types.ClipSettings
}

type Config struct {
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	Concurrency   int
}

func ConfigFromApp() Config {
	return Config{
		RedisAddr:     config.Conf.Redis.Addr,
		RedisPassword: config.Conf.Redis.Password,
		RedisDB:       config.Conf.Redis.DB,
		Concurrency:   2,
	}
}

// Queue wraps the asynq client and server for clip jobs.
type Queue struct {
	client *asynq.Client
	server *asynq.Server
	config Config
}

func NewQueue(cfg Config) *Queue {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 2
	}
	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}

	server := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: cfg.Concurrency,
		Queues: map[string]int{
			"default": 3,
			"low":     1,
		},
		RetryDelayFunc: func(n int, e error, t *asynq.Task) time.Duration {
			return time.Duration(10<<uint(n)) * time.Second
		},
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			log.GetLogger().Error("queued task failed",
				zap.String("type", task.Type()),
				zap.ByteString("payload", task.Payload()),
				zap.Error(err))
		}),
	})

	return &Queue{
		client: asynq.NewClient(redisOpt),
		server: server,
		config: cfg,
	}
}

// SubmitClipJob enqueues a job for a worker. Satisfies the same dispatcher
// contract as the in-memory runner.
func (q *Queue) SubmitClipJob(req service.JobRequest) error {
	settings, err := json.Marshal(req.Settings)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	payload := ClipJobPayload{
		JobId:      req.JobId,
		UserId:     req.UserId,
		SourceType: req.SourceType,
		SourceName: req.SourceName,
		SourceURL:  req.SourceURL,
		UploadPath: req.UploadPath,
		Settings:   string(settings),
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	task := asynq.NewTask(TypeClipJob, data,
		asynq.MaxRetry(2),
		asynq.Timeout(60*time.Minute),
		asynq.Queue("default"),
	)
	info, err := q.client.Enqueue(task)
	if err != nil {
		return fmt.Errorf("enqueue clip job: %w", err)
	}

	log.GetLogger().Info("clip job enqueued",
		zap.String("jobId", req.JobId),
		zap.String("queueId", info.ID),
		zap.String("queue", info.Queue))
	return nil
}

// Close shuts the client down and stops the server.
func (q *Queue) Close() error {
	if err := q.client.Close(); err != nil {
		return err
	}
	q.server.Shutdown()
	return nil
}
