package taskrunner

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"tube-bite/internal/service"
	"tube-bite/log"

	"go.uber.org/zap"
)

const (
	defaultQueueSize   = 64
	defaultConcurrency = 1
)

var (
	ErrRunnerStopped = errors.New("task runner stopped")
	ErrQueueFull     = errors.New("task queue is full")
)

// Config controls the in-process runner. Concurrency here is jobs in
// flight; per-clip parallelism inside a job is governed separately.
type Config struct {
	QueueSize   int
	Concurrency int
}

func DefaultConfig() Config {
	return Config{
		QueueSize:   defaultQueueSize,
		Concurrency: defaultConcurrency,
	}
}

// Runner executes clip jobs on in-memory workers. It is the queue backend
// for single-machine deployments where Redis is not available.
type Runner struct {
	service *service.Service
	queue   chan service.JobRequest

	ctx    context.Context
	cancel context.CancelFunc

	workerWg sync.WaitGroup
	closed   atomic.Bool
}

// New creates and starts a runner; workers begin pulling immediately.
func New(svc *service.Service, cfg Config) *Runner {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = defaultQueueSize
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = defaultConcurrency
	}

	ctx, cancel := context.WithCancel(context.Background())
	r := &Runner{
		service: svc,
		queue:   make(chan service.JobRequest, cfg.QueueSize),
		ctx:     ctx,
		cancel:  cancel,
	}

	for i := 0; i < cfg.Concurrency; i++ {
		r.workerWg.Add(1)
		go r.worker(i + 1)
	}
	return r
}

// SubmitClipJob queues a job. It never blocks: a full queue is an error the
// caller reports back to the client.
func (r *Runner) SubmitClipJob(req service.JobRequest) error {
	if r.closed.Load() {
		return ErrRunnerStopped
	}

	select {
	case <-r.ctx.Done():
		return ErrRunnerStopped
	case r.queue <- req:
		log.GetLogger().Info("clip job submitted",
			zap.String("jobId", req.JobId),
			zap.String("sourceType", req.SourceType))
		return nil
	default:
		return ErrQueueFull
	}
}

func (r *Runner) worker(workerID int) {
	defer r.workerWg.Done()

	for {
		select {
		case <-r.ctx.Done():
			return
		case req := <-r.queue:
			if err := r.service.RunClipJob(r.ctx, req); err != nil {
				log.GetLogger().Error("clip job failed",
					zap.Int("workerId", workerID),
					zap.String("jobId", req.JobId),
					zap.Error(err))
				continue
			}
			log.GetLogger().Info("clip job completed",
				zap.Int("workerId", workerID),
				zap.String("jobId", req.JobId))
		}
	}
}

// Pending returns the number of jobs waiting for a worker.
func (r *Runner) Pending() int {
	return len(r.queue)
}

// Close stops the workers and rejects new submissions. Jobs already in
// flight observe the cancelled context.
func (r *Runner) Close() {
	if !r.closed.CompareAndSwap(false, true) {
		return
	}
	r.cancel()
	r.workerWg.Wait()
}
