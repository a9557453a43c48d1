package handlers

import (
	"io"
	"net/http"
	"runtime/debug"
	"time"

	"chartsrv/internal/chart"
	v0 "chartsrv/internal/contracts/render/v0"
	"chartsrv/internal/httpkit"
	"chartsrv/internal/images"
	"chartsrv/internal/pkg/errors"
	"chartsrv/internal/pkg/logger"
	"chartsrv/internal/pkg/metrics"
)

// MaxRenderBodyBytes limits the render request body.
const MaxRenderBodyBytes = 10 << 20

// BodyTooLargeMessage is returned when the body exceeds MaxRenderBodyBytes.
const BodyTooLargeMessage = "request body too large"

// Render validates the request, renders it and stores the image. Every
// outcome is an HTTP 200 with a RenderResponse body.
func (h *Handler) Render(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()
	log := h.log.FromContext(ctx)
	defer h.recoverRender(w, r)

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxRenderBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			log.Debug("render request rejected", "error", err.Error(), "limit_bytes", tooLarge.Limit)
			h.metrics.ObserveRender("none", metrics.OutcomeInvalid, time.Since(start))
			httpkit.WriteJSON(w, http.StatusOK, v0.Failure(BodyTooLargeMessage))
			return
		}
		// An unreadable body counts as absent.
		body = nil
	}

	req, err := chart.ParseRequest(body)
	if err != nil {
		if errors.IsValidation(err) {
			log.Debug("render request rejected", "error", err.Error())
		} else {
			h.log.LogError(ctx, "render request unreadable", err)
		}
		h.metrics.ObserveRender("none", metrics.OutcomeInvalid, time.Since(start))
		httpkit.WriteJSON(w, http.StatusOK, v0.Failure(errors.PublicMessage(err, chart.MissingTypeMessage)))
		return
	}

	ctx = logger.ContextWithChartType(ctx, req.Type)
	log = log.WithChartType(req.Type)
	log.Info("rendering chart")

	png, err := h.renderer.Render(ctx, req)
	if err != nil {
		h.log.LogError(ctx, "chart render failed", err, "duration_ms", time.Since(start).Milliseconds())
		h.metrics.ObserveRender(req.MetricKind(), metrics.OutcomeRenderFailed, time.Since(start))
		httpkit.WriteJSON(w, http.StatusOK, v0.Failure(errors.PublicMessage(err, v0.UnknownRenderError)))
		return
	}

	url, err := h.persister.Persist(ctx, png)
	if err != nil {
		h.log.LogError(ctx, "chart image store failed", err)
		h.metrics.ObserveRender(req.MetricKind(), metrics.OutcomeStoreFailed, time.Since(start))
		httpkit.WriteJSON(w, http.StatusOK, v0.Failure(errors.PublicMessage(err, images.StoreFailedMessage)))
		return
	}

	log.Info("chart rendered",
		"url", url,
		"bytes", len(png),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	h.metrics.ObserveRender(req.MetricKind(), metrics.OutcomeSuccess, time.Since(start))
	httpkit.WriteJSON(w, http.StatusOK, v0.Success(url))
}

// recoverRender answers a handler panic with the failure envelope so the
// render routes keep their HTTP 200 contract.
func (h *Handler) recoverRender(w http.ResponseWriter, r *http.Request) {
	rec := recover()
	if rec == nil {
		return
	}
	if rec == http.ErrAbortHandler {
		panic(rec)
	}

	h.log.FromContext(r.Context()).Error("render handler panicked",
		"panic", rec,
		"stack", string(debug.Stack()),
	)
	httpkit.WriteJSON(w, http.StatusOK, v0.Failure(v0.UnknownRenderError))
}
