package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"chartsrv/internal/httpapi/handlers"
	"chartsrv/internal/httpkit"
	"chartsrv/internal/pkg/logger"
	"chartsrv/internal/pkg/metrics"
	"chartsrv/internal/pkg/middleware"
	"chartsrv/internal/ports"
)

type Deps struct {
	Renderer  handlers.ChartRenderer
	Persister handlers.ImagePersister
	Store     ports.ImageStore
	Log       *logger.Logger
	Metrics   *metrics.Metrics

	CORSAllowedOrigins []string
}

func NewRouter(d Deps) http.Handler {
	log := d.Log
	if log == nil {
		log = logger.Discard()
	}

	r := chi.NewRouter()

	r.Use(middleware.Recovery(log))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging(log))
	r.Use(httpkit.CORS(httpkit.CORSOptions{
		AllowedOrigins: d.CORSAllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
		MaxAgeSeconds:  600,
	}))

	h := handlers.New(handlers.Deps{
		Renderer:  d.Renderer,
		Persister: d.Persister,
		Store:     d.Store,
		Log:       log,
		Metrics:   d.Metrics,
	})

	// ---- HEALTH ----
	r.Get("/health", h.Health)

	// ---- RENDER ----
	r.Post("/render", h.Render)
	r.Post("/", h.Render)

	// ---- IMAGES ----
	r.Get("/images/{filename}", middleware.WrapHandler(log, h.StreamImage))

	// ---- METRICS ----
	if d.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(d.Metrics.Registry(), promhttp.HandlerOpts{
			ErrorLog: slog.NewLogLogger(log.Handler(), slog.LevelError),
		}))
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httpkit.WriteErr(w, http.StatusNotFound, "NOT_FOUND", "not found", nil)
	})

	return r
}
