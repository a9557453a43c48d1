package handlers

import (
	"net/http"

	"chartsrv/internal/httpkit"
)

// Health reports liveness only. It never touches the renderer or storage.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	httpkit.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
