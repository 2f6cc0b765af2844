package photostock

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/FawkesguyD/Love/internal/api/recovery"
	"github.com/FawkesguyD/Love/internal/api/respond"
	"github.com/FawkesguyD/Love/internal/api/validate"
	"github.com/FawkesguyD/Love/internal/model"
)

const cacheControlValue = "public, max-age=3600"

// Handler serves image lookups over HTTP.
type Handler struct {
	svc *Service
	log zerolog.Logger
}

func NewHandler(svc *Service, log zerolog.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

// NewRouter wires the photostock routes.
func NewRouter(svc *Service, log zerolog.Logger) *mux.Router {
	router := mux.NewRouter()
	router.Use(recovery.Middleware)

	h := NewHandler(svc, log)
	router.HandleFunc("/health", h.CheckHealth).Methods("GET")
	router.HandleFunc("/images/{image}", h.GetImage).Methods("GET")
	return router
}

// CheckHealth GET /health
func (h *Handler) CheckHealth(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetImage GET /images/{image}
//
// The path segment is an image base name without extension. display=false
// switches the Content-Disposition from inline to attachment.
func (h *Handler) GetImage(w http.ResponseWriter, r *http.Request) {
	imageName, err := validate.ImageName(mux.Vars(r)["image"])
	if err != nil {
		respond.WriteValidationError(w, "Invalid 'image' name: "+err.Error())
		return
	}

	displayInline, err := parseDisplay(r.URL.Query().Get("display"))
	if err != nil {
		respond.WriteValidationError(w, err.Error())
		return
	}

	key, err := h.svc.FindKey(r.Context(), imageName)
	if err != nil {
		h.writeLookupError(w, err)
		return
	}

	img, err := h.svc.Load(r.Context(), key)
	if err != nil {
		h.writeLookupError(w, err)
		return
	}

	disposition := "inline"
	if !displayInline {
		disposition = "attachment"
	}
	w.Header().Set("Content-Type", img.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("%s; filename=%q", disposition, img.Filename))
	w.Header().Set("Cache-Control", cacheControlValue)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(img.Body)
}

func (h *Handler) writeLookupError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, model.ErrNotFound):
		respond.WriteNotFound(w, "Image not found")
	case errors.Is(err, model.ErrConflict):
		respond.WriteError(w, http.StatusConflict, respond.CodeConflict, err.Error())
	case errors.Is(err, ErrUnavailable):
		respond.WriteError(w, http.StatusServiceUnavailable, respond.CodeUnavailable, err.Error())
	default:
		h.log.Error().Err(err).Msg("Image lookup failed")
		respond.WriteInternalError(w, "Image lookup failed")
	}
}

func parseDisplay(raw string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "true", "1", "yes":
		return true, nil
	case "false", "0", "no":
		return false, nil
	}
	return false, fmt.Errorf("invalid 'display' value, use one of: true/false, 1/0, yes/no")
}
