package api

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/FawkesguyD/Love/internal/api/respond"
	"github.com/FawkesguyD/Love/internal/store"
)

// HealthHandler reports service liveness and database reachability.
type HealthHandler struct {
	store store.Store
	log   zerolog.Logger
}

func NewHealthHandler(st store.Store, log zerolog.Logger) *HealthHandler {
	return &HealthHandler{store: st, log: log}
}

// CheckHealth GET /health
//
// Returns 503 when the backing database does not answer a ping.
func (h *HealthHandler) CheckHealth(w http.ResponseWriter, r *http.Request) {
	if err := h.store.HealthPing(r.Context()); err != nil {
		h.log.Error().Err(err).Msg("Database ping failed")
		respond.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "error", "db": "down"})
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok", "db": "up"})
}
