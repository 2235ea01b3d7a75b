package handlers

import (
	"factory/internal/pipeline"
	"factory/internal/pkg/logger"
	"factory/internal/ports"
)

type Deps struct {
	Store      ports.RowStore
	Dispatcher *pipeline.Dispatcher
	Log        *logger.Logger

	ServiceName string
	Version     string
}

type Handler struct {
	store      ports.RowStore
	dispatcher *pipeline.Dispatcher
	log        *logger.Logger

	serviceName string
	version     string
}

func New(d Deps) *Handler {
	if d.Log == nil {
		d.Log = logger.NewDefault()
	}
	if d.ServiceName == "" {
		d.ServiceName = "factory-server"
	}
	if d.Version == "" {
		d.Version = "0.1.0"
	}
	return &Handler{
		store:       d.Store,
		dispatcher:  d.Dispatcher,
		log:         d.Log.WithComponent("httpapi"),
		serviceName: d.ServiceName,
		version:     d.Version,
	}
}
