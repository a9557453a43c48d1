// Package worker runs the background sweep that deletes expired images.
package worker

import (
	"context"
	"time"

	"chartsrv/internal/pkg/errors"
	"chartsrv/internal/pkg/logger"
)

type Sweeper struct {
	d   Deps
	log *logger.Logger
}

func NewSweeper(d Deps) *Sweeper {
	if d.Now == nil {
		d.Now = time.Now
	}
	log := d.Log
	if log == nil {
		log = logger.Discard()
	}
	return &Sweeper{d: d, log: log.WithComponent("sweeper")}
}

// Run sweeps once per interval until ctx is canceled. The first sweep
// happens one interval after start.
func (s *Sweeper) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.d.Interval)
	defer ticker.Stop()

	s.log.Info("image sweeper started",
		"interval", s.d.Interval.String(),
		"max_age", s.d.MaxAge.String(),
	)

	for {
		select {
		case <-ctx.Done():
			s.log.Info("image sweeper stopping")
			return ctx.Err()
		case <-ticker.C:
			startTime := time.Now()
			removed, err := s.SweepOnce(ctx)
			if err != nil {
				s.log.LogError(ctx, "image sweep skipped", err)
				continue
			}
			if removed > 0 {
				s.log.Info("removed old images",
					"count", removed,
					"duration_ms", time.Since(startTime).Milliseconds(),
				)
			}
		}
	}
}

// SweepOnce deletes every image whose modification time is more than MaxAge
// in the past. A listing failure aborts the pass; a failure on one file is
// logged and the rest continue.
func (s *Sweeper) SweepOnce(ctx context.Context) (int, error) {
	list, err := s.d.Store.ListImages(ctx)
	if err != nil {
		s.d.Metrics.IncSweepErrors()
		return 0, errors.Wrap(err, "worker.sweep", "list images")
	}

	cutoff := s.d.Now().Add(-s.d.MaxAge)
	removed := 0
	for _, img := range list {
		if ctx.Err() != nil {
			break
		}
		if !img.ModTime.Before(cutoff) {
			continue
		}
		if err := s.d.Store.DeleteImage(ctx, img.Filename); err != nil {
			s.d.Metrics.IncSweepErrors()
			s.log.WithError(err).Warn("failed to delete expired image",
				"filename", img.Filename,
			)
			continue
		}
		removed++
		s.log.Debug("deleted expired image", "filename", img.Filename)
	}

	s.d.Metrics.AddSwept(removed)
	return removed, nil
}
