package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"tube-bite/config"
	"tube-bite/internal/deps"
	"tube-bite/internal/handler"
	"tube-bite/internal/queue"
	"tube-bite/internal/router"
	"tube-bite/internal/service"
	"tube-bite/internal/storage"
	"tube-bite/internal/taskrunner"
	"tube-bite/log"

	"github.com/gin-gonic/gin"
)

const trashSweepInterval = 6 * time.Hour

func main() {
	log.InitLogger()
	defer log.GetLogger().Sync()

	created, err := config.LoadOrCreateConfig()
	if err != nil {
		log.GetLogger().Error("cannot load config", zap.Error(err))
		os.Exit(1)
	}
	if created {
		path, _ := config.ResolveConfigPath()
		log.GetLogger().Info("default config written, fill in API credentials", zap.String("path", path))
	}

	storage.InitDB()

	// Jobs left running by a previous process can never finish.
	if count, err := storage.MarkStaleJobs(); err != nil {
		log.GetLogger().Warn("stale job cleanup failed", zap.Error(err))
	} else if count > 0 {
		log.GetLogger().Info("stale jobs marked failed", zap.Int64("count", count))
	}

	states := deps.ResolveDependencyInventory(config.Conf.Transcribe.Provider)
	deps.ApplyResolvedPaths(states)
	log.GetLogger().Info("dependency report\n" + deps.FormatDependencyReport(states))
	if missing := deps.MissingMust(states); len(missing) > 0 {
		log.GetLogger().Error("required tools missing", zap.String("tools", strings.Join(missing, ", ")))
		os.Exit(1)
	}

	svc := service.NewService()
	hub := handler.NewProgressHub()
	svc.Progress = hub.Broadcast

	dispatcher, cleanup := buildDispatcher(svc)
	defer cleanup()

	go trashSweeper(svc)

	engine := gin.Default()
	router.SetupRouter(engine, handler.NewHandler(svc, dispatcher, hub))

	addr := fmt.Sprintf("%s:%d", config.Conf.Server.Host, config.Conf.Server.Port)
	log.GetLogger().Info("server listening", zap.String("addr", addr))
	if err := engine.Run(addr); err != nil {
		log.GetLogger().Error("server stopped", zap.Error(err))
		os.Exit(1)
	}
}

// buildDispatcher picks the queue backend. Redis gets durable asynq jobs
// with a worker loop; anything else runs jobs in process.
func buildDispatcher(svc *service.Service) (handler.Dispatcher, func()) {
	if config.Conf.App.QueueBackend == "redis" {
		q := queue.NewQueue(queue.ConfigFromApp())
		go func() {
			if err := queue.StartWorker(q, svc); err != nil {
				log.GetLogger().Error("queue worker stopped", zap.Error(err))
			}
		}()
		return q, func() { _ = q.Close() }
	}

	runner := taskrunner.New(svc, taskrunner.DefaultConfig())
	return runner, runner.Close
}

// trashSweeper purges trashed jobs past the retention window, once at
// startup and then periodically.
func trashSweeper(svc *service.Service) {
	svc.PurgeExpiredTrash(context.Background())
	ticker := time.NewTicker(trashSweepInterval)
	defer ticker.Stop()
	for range ticker.C {
		svc.PurgeExpiredTrash(context.Background())
	}
}
