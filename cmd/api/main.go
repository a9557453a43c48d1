package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"chartsrv/internal/adapters/storage/localfs"
	"chartsrv/internal/config"
	"chartsrv/internal/httpapi"
	"chartsrv/internal/images"
	"chartsrv/internal/pkg/logger"
	"chartsrv/internal/pkg/metrics"
	"chartsrv/internal/pkg/shutdown"
	"chartsrv/internal/renderer"
	"chartsrv/internal/worker"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		logger.New(logger.Config{ServiceName: "chartsrv"}).LogFatal("invalid configuration", err)
	}

	// Initialize logger
	log := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
		ServiceName: "chartsrv",
		AddSource:   cfg.LogSource,
	})

	log.Info("starting chart render service",
		"port", cfg.Port,
		"public_host", cfg.PublicHost,
		"images_dir", cfg.ImagesDir,
	)

	ctx := context.Background()

	// Initialize shutdown manager
	shutdownMgr := shutdown.NewManager(log, 30*time.Second)

	// Prepare image storage
	store := localfs.New(cfg.ImagesDir)
	if err := store.EnsureDir(); err != nil {
		log.LogFatal("failed to prepare image directory", err, "dir", cfg.ImagesDir)
	}
	log.Info("image storage ready", "provider", store.Provider(), "dir", store.Dir())

	m := metrics.New()

	// Start the cleanup sweeper
	sweepCtx, stopSweeper := context.WithCancel(ctx)
	sweeper := worker.NewSweeper(worker.Deps{
		Store:    store,
		Interval: cfg.CleanupInterval,
		MaxAge:   cfg.ImageMaxAge,
		Log:      log,
		Metrics:  m,
	})
	go func() { _ = sweeper.Run(sweepCtx) }()
	shutdownMgr.RegisterSimple("sweeper", stopSweeper)

	// Create HTTP router
	router := httpapi.NewRouter(httpapi.Deps{
		Renderer:           renderer.NewAdapter(renderer.NewGoChart()),
		Persister:          images.NewPersister(store, cfg.PublicHost),
		Store:              store,
		Log:                log,
		Metrics:            m,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	})

	// Renders have no deadline, so there is no WriteTimeout.
	server := &http.Server{
		Addr:        cfg.Addr(),
		Handler:     router,
		ReadTimeout: 30 * time.Second,
		IdleTimeout: 120 * time.Second,
	}

	// Register server shutdown
	shutdownMgr.Register("http-server", func(ctx context.Context) error {
		log.Info("shutting down HTTP server")
		return server.Shutdown(ctx)
	})

	// Start server in goroutine
	go func() {
		log.Info("HTTP server listening",
			"addr", server.Addr,
			"port", cfg.Port,
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.LogFatal("HTTP server failed", err)
		}
	}()

	// Wait for shutdown signal
	shutdownMgr.Wait(ctx)
}
