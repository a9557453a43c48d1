package worker

import (
	"time"

	"chartsrv/internal/pkg/logger"
	"chartsrv/internal/pkg/metrics"
	"chartsrv/internal/ports"
)

type Deps struct {
	Store    ports.ImageStore
	Interval time.Duration
	MaxAge   time.Duration
	Log      *logger.Logger
	Metrics  *metrics.Metrics

	// Now defaults to time.Now.
	Now func() time.Time
}
