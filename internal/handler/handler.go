package handler

import (
	"tube-bite/internal/appdirs"
	"tube-bite/internal/service"
)

var appDirsResolver = appdirs.Resolve

// Dispatcher hands a job to whichever queue backend is configured: the
// in-memory runner or the Redis queue.
type Dispatcher interface {
	SubmitClipJob(req service.JobRequest) error
}

type Handler struct {
	Service    *service.Service
	Dispatcher Dispatcher
	Progress   *ProgressHub
}

func NewHandler(svc *service.Service, dispatcher Dispatcher, hub *ProgressHub) *Handler {
	return &Handler{
		Service:    svc,
		Dispatcher: dispatcher,
		Progress:   hub,
	}
}
