package taskrunner

import (
	"testing"

	"tube-bite/internal/service"
	"tube-bite/log"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestRunnerRejectsAfterClose(t *testing.T) {
	log.Logger = zap.NewNop()

	r := New(&service.Service{}, DefaultConfig())
	r.Close()

	err := r.SubmitClipJob(service.JobRequest{JobId: "job_late"})
	assert.ErrorIs(t, err, ErrRunnerStopped)
	assert.Equal(t, 0, r.Pending())
}

func TestRunnerCloseIsIdempotent(t *testing.T) {
	log.Logger = zap.NewNop()

	r := New(&service.Service{}, Config{QueueSize: 4, Concurrency: 2})
	r.Close()
	r.Close()
}
