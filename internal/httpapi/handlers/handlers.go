package handlers

import (
	"context"

	"chartsrv/internal/chart"
	"chartsrv/internal/pkg/logger"
	"chartsrv/internal/pkg/metrics"
	"chartsrv/internal/ports"
)

// ChartRenderer produces PNG bytes for a validated request.
type ChartRenderer interface {
	Render(ctx context.Context, req *chart.Request) ([]byte, error)
}

// ImagePersister stores PNG bytes and returns their public URL.
type ImagePersister interface {
	Persist(ctx context.Context, data []byte) (string, error)
}

type Deps struct {
	Renderer  ChartRenderer
	Persister ImagePersister
	Store     ports.ImageStore
	Log       *logger.Logger
	Metrics   *metrics.Metrics
}

type Handler struct {
	renderer  ChartRenderer
	persister ImagePersister
	store     ports.ImageStore
	log       *logger.Logger
	metrics   *metrics.Metrics
}

func New(d Deps) *Handler {
	log := d.Log
	if log == nil {
		log = logger.Discard()
	}
	return &Handler{
		renderer:  d.Renderer,
		persister: d.Persister,
		store:     d.Store,
		log:       log,
		metrics:   d.Metrics,
	}
}
