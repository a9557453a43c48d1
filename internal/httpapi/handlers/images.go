package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// StreamImage serves a stored image. Missing files and names that would leave
// the image directory are 404.
func (h *Handler) StreamImage(w http.ResponseWriter, r *http.Request) error {
	filename := chi.URLParam(r, "filename")

	obj, err := h.store.OpenImage(r.Context(), filename)
	if err != nil {
		return err
	}
	defer obj.Content.Close()

	w.Header().Set("Content-Type", obj.ContentType)
	http.ServeContent(w, r, filename, obj.ModTime, obj.Content)
	return nil
}
