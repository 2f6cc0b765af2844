package carousel

import (
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/FawkesguyD/Love/internal/api/recovery"
	"github.com/FawkesguyD/Love/internal/api/respond"
	"github.com/FawkesguyD/Love/internal/model"
	"github.com/FawkesguyD/Love/internal/photostock"
)

const defaultRefreshSeconds = 10

var viewTemplate = template.Must(template.New("carousel").Parse(`<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8" />
<meta name="viewport" content="width=device-width, initial-scale=1" />
<title>Carousel View</title>
<style>
html, body { width: 100%; height: 100%; margin: 0; padding: 0; overflow: hidden; }
img { display: block; width: 100vw; height: 100vh; object-fit: contain; }
</style>
</head>
<body>
<img id="carousel" alt="carousel" />
<script>
const intervalMs = {{.RefreshMs}};
const image = document.getElementById("carousel");
const baseUrl = "/api/carousel?random={{.RandomValue}}";
function reload() { image.src = baseUrl + "&t=" + Date.now(); }
reload();
setInterval(reload, intervalMs);
</script>
</body>
</html>
`))

// Handler serves the carousel image and its auto-refreshing HTML page.
type Handler struct {
	svc *Service
	log zerolog.Logger
}

func NewHandler(svc *Service, log zerolog.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

// NewRouter wires the carousel routes.
func NewRouter(svc *Service, log zerolog.Logger) *mux.Router {
	router := mux.NewRouter()
	router.Use(recovery.Middleware)

	h := NewHandler(svc, log)
	router.HandleFunc("/health", h.CheckHealth).Methods("GET")
	router.HandleFunc("/carousel", h.GetCarouselImage).Methods("GET")
	router.HandleFunc("/api/carousel", h.GetCarouselImage).Methods("GET")
	router.HandleFunc("/carousel/view", h.GetCarouselView).Methods("GET")
	return router
}

// CheckHealth GET /health
func (h *Handler) CheckHealth(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetCarouselImage GET /carousel
//
// Serves the next image in the rotation. The old 'refresh' parameter moved
// to the view page and is rejected here.
func (h *Handler) GetCarouselImage(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Has("refresh") {
		respond.WriteValidationError(w, "Query parameter 'refresh' is no longer supported")
		return
	}

	useRandom, err := parseRandomMode(q.Get("random"))
	if err != nil {
		respond.WriteValidationError(w, err.Error())
		return
	}

	index, err := h.svc.Index(r.Context())
	if err != nil {
		h.writeStorageError(w, err)
		return
	}

	sel, err := h.svc.Choose(index, useRandom)
	if errors.Is(err, model.ErrNotFound) {
		respond.WriteNotFound(w, "No images available for carousel")
		return
	}
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to choose carousel image")
		respond.WriteInternalError(w, "Failed to choose carousel image")
		return
	}

	img, err := h.svc.Load(r.Context(), sel.Key)
	if errors.Is(err, model.ErrNotFound) {
		respond.WriteNotFound(w, "No images available for carousel")
		return
	}
	if err != nil {
		h.writeStorageError(w, err)
		return
	}

	mode := "sequence"
	if useRandom {
		mode = "random"
	}
	w.Header().Set("Content-Type", img.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", img.Filename))
	w.Header().Set("Cache-Control", "no-store, max-age=0")
	w.Header().Set("Pragma", "no-cache")
	w.Header().Set("X-Carousel-Mode", mode)
	w.Header().Set("X-Carousel-Image", sel.Name)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(img.Body)
}

// GetCarouselView GET /carousel/view
func (h *Handler) GetCarouselView(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	useRandom, err := parseRandomMode(q.Get("random"))
	if err != nil {
		respond.WriteValidationError(w, err.Error())
		return
	}

	refreshSeconds, err := parseRefreshSeconds(q.Get("refresh"), q.Has("refresh"))
	if err != nil {
		respond.WriteValidationError(w, err.Error())
		return
	}

	data := struct {
		RefreshMs   int
		RandomValue string
	}{
		RefreshMs:   refreshSeconds * 1000,
		RandomValue: strconv.FormatBool(useRandom),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store, max-age=0")
	w.Header().Set("Pragma", "no-cache")
	if err := viewTemplate.Execute(w, data); err != nil {
		h.log.Error().Err(err).Msg("Failed to render carousel page")
	}
}

func (h *Handler) writeStorageError(w http.ResponseWriter, err error) {
	if errors.Is(err, photostock.ErrUnavailable) {
		respond.WriteError(w, http.StatusServiceUnavailable, respond.CodeUnavailable, err.Error())
		return
	}
	h.log.Error().Err(err).Msg("Carousel storage access failed")
	respond.WriteInternalError(w, "Carousel storage access failed")
}

func parseRandomMode(raw string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "false", "0", "no":
		return false, nil
	case "true", "1", "yes":
		return true, nil
	}
	return false, fmt.Errorf("invalid 'random' value, use one of: true/false, 1/0, yes/no")
}

func parseRefreshSeconds(raw string, present bool) (int, error) {
	if !present {
		return defaultRefreshSeconds, nil
	}
	seconds, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || seconds < 1 || seconds > 3600 {
		return 0, fmt.Errorf("invalid 'refresh' value, use integer seconds between 1 and 3600")
	}
	return seconds, nil
}
