package api

import (
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/FawkesguyD/Love/internal/api/respond"
	"github.com/FawkesguyD/Love/internal/api/validate"
)

// MediaHandler proxies card images from the photostock service so the HTML
// card page can load them same-origin.
type MediaHandler struct {
	baseURL string
	client  *http.Client
	log     zerolog.Logger
}

func NewMediaHandler(photostockBaseURL string, timeout time.Duration, log zerolog.Logger) *MediaHandler {
	return &MediaHandler{
		baseURL: photostockBaseURL,
		client:  &http.Client{Timeout: timeout},
		log:     log,
	}
}

// ProxyImage GET /media/{filename}
func (h *MediaHandler) ProxyImage(w http.ResponseWriter, r *http.Request) {
	if h.baseURL == "" {
		http.Error(w, "Media service is not configured", http.StatusServiceUnavailable)
		return
	}

	stem, err := validate.ImageBaseName(mux.Vars(r)["filename"])
	if err != nil {
		respond.WriteValidationError(w, "Invalid filename: "+err.Error())
		return
	}

	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, h.baseURL+"/images/"+url.PathEscape(stem), nil)
	if err != nil {
		respond.WriteInternalError(w, "Failed to build upstream request")
		return
	}

	resp, err := h.client.Do(req)
	if err != nil {
		h.log.Error().Err(err).Str("filename", stem).Msg("Failed to reach photostock")
		http.Error(w, "Media service is unavailable", http.StatusServiceUnavailable)
		return
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "" {
		w.Header().Set("Content-Type", ct)
	}
	if cc := resp.Header.Get("Cache-Control"); cc != "" {
		w.Header().Set("Cache-Control", cc)
	}
	w.WriteHeader(resp.StatusCode)
	if _, err := io.Copy(w, resp.Body); err != nil {
		h.log.Warn().Err(err).Str("filename", stem).Msg("Image stream interrupted")
	}
}
