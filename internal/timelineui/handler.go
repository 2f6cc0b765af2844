// Package timelineui serves the timeline front page. The page carries an
// inlined configuration object for the browser, a server-rendered first batch
// of moments and a fragments endpoint the page pulls further batches from as
// the visitor scrolls.
package timelineui

import (
	"encoding/json"
	"html/template"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/FawkesguyD/Love/internal/api/recovery"
	"github.com/FawkesguyD/Love/internal/api/respond"
	"github.com/FawkesguyD/Love/timeline"
)

// Config carries everything the page and its browser-side loader need.
type Config struct {
	MomentsBaseURL string
	TimerBaseURL   string
	ImageBaseURL   string

	RequestTimeoutMs    int
	CacheTTLMs          int
	MaxMoments          int
	BatchSize           int
	MaxRetries          int
	TimerSyncIntervalMs int
}

// clientConfig is the JSON object inlined into the page for the browser.
type clientConfig struct {
	APIBaseURL          string `json:"apiBaseUrl"`
	MomentsPath         string `json:"momentsPath"`
	FragmentsPath       string `json:"fragmentsPath"`
	TimerAPIURL         string `json:"timerApiUrl"`
	RequestTimeoutMs    int    `json:"requestTimeoutMs"`
	CacheTTLMs          int    `json:"cacheTtlMs"`
	MaxMoments          int    `json:"maxMoments"`
	BatchSize           int    `json:"batchSize"`
	MaxRetries          int    `json:"maxRetries"`
	TimerSyncIntervalMs int    `json:"timerSyncIntervalMs"`
}

// Handler renders the timeline shell and its incremental fragments.
type Handler struct {
	src timeline.Source
	cfg Config
	log zerolog.Logger
}

func NewHandler(src timeline.Source, cfg Config, log zerolog.Logger) *Handler {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 16
	}
	return &Handler{src: src, cfg: cfg, log: log}
}

// NewRouter wires the timeline UI endpoints.
func NewRouter(src timeline.Source, cfg Config, log zerolog.Logger) *mux.Router {
	h := NewHandler(src, cfg, log)
	r := mux.NewRouter()
	r.Use(recovery.Middleware)
	r.HandleFunc("/health", h.GetHealth).Methods(http.MethodGet)
	r.HandleFunc("/fragments", h.GetFragments).Methods(http.MethodGet)
	r.HandleFunc("/", h.GetPage).Methods(http.MethodGet)
	return r
}

func (h *Handler) GetHealth(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetPage serves the shell with the first batch rendered in. A fetch failure
// lands on the error state of the same page rather than a bare 5xx so the
// visitor gets the retry affordance.
func (h *Handler) GetPage(w http.ResponseWriter, r *http.Request) {
	reduced := r.URL.Query().Get("motion") == "reduced"

	ren := timeline.NewRenderer(h.src, timeline.Options{
		BatchSize:     h.cfg.BatchSize,
		ReducedMotion: reduced,
		Logger:        &h.log,
	})
	defer ren.Close()

	state := ren.Load(r.Context())
	total := ren.Remaining()

	var fragment template.HTML
	if state == timeline.StateLoaded {
		batch := ren.NextBatch()
		html, err := timeline.RenderBatch(batch, h.cfg.ImageBaseURL, reduced)
		if err != nil {
			h.log.Error().Err(err).Msg("failed to render first batch")
			respond.WriteInternalError(w, "Internal server error")
			return
		}
		fragment = html
	}

	cfgJSON, err := json.Marshal(clientConfig{
		APIBaseURL:          h.cfg.MomentsBaseURL,
		MomentsPath:         "/api/v1/cards",
		FragmentsPath:       "/fragments",
		TimerAPIURL:         h.cfg.TimerBaseURL + "/api/timer",
		RequestTimeoutMs:    h.cfg.RequestTimeoutMs,
		CacheTTLMs:          h.cfg.CacheTTLMs,
		MaxMoments:          h.cfg.MaxMoments,
		BatchSize:           h.cfg.BatchSize,
		MaxRetries:          h.cfg.MaxRetries,
		TimerSyncIntervalMs: h.cfg.TimerSyncIntervalMs,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("failed to encode page config")
		respond.WriteInternalError(w, "Internal server error")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err = shellTemplate.Execute(w, shellPage{
		State:      state,
		Fragment:   fragment,
		ConfigJSON: template.JS(cfgJSON),
		Total:      total,
		BatchSize:  h.cfg.BatchSize,
		Reduced:    reduced,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("failed to render timeline page")
	}
}

// GetFragments returns one batch of rendered cards starting at the given
// offset. The offset must be aligned to the batch size; past the end the
// endpoint answers 204 so the loader knows to stop.
func (h *Handler) GetFragments(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("offset")
	offset, err := strconv.Atoi(raw)
	if err != nil || offset < 0 {
		respond.WriteValidationError(w, "'offset' must be a non-negative integer")
		return
	}
	if offset%h.cfg.BatchSize != 0 {
		respond.WriteValidationError(w, "'offset' must be a multiple of the batch size")
		return
	}
	reduced := r.URL.Query().Get("motion") == "reduced"

	ren := timeline.NewRenderer(h.src, timeline.Options{
		BatchSize:     h.cfg.BatchSize,
		ReducedMotion: reduced,
		Logger:        &h.log,
	})
	defer ren.Close()

	if state := ren.Load(r.Context()); state != timeline.StateLoaded {
		if state == timeline.StateEmpty {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		respond.WriteError(w, http.StatusServiceUnavailable, respond.CodeUnavailable, "timeline source unavailable")
		return
	}

	total := ren.Remaining()
	var batch []timeline.Moment
	for skipped := 0; skipped <= offset; skipped += h.cfg.BatchSize {
		batch = ren.NextBatch()
		if batch == nil {
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}

	html, err := timeline.RenderBatch(batch, h.cfg.ImageBaseURL, reduced)
	if err != nil {
		h.log.Error().Err(err).Msg("failed to render fragment")
		respond.WriteInternalError(w, "Internal server error")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("X-Timeline-Total", strconv.Itoa(total))
	w.Header().Set("X-Timeline-Next-Offset", strconv.Itoa(offset+len(batch)))
	_, _ = w.Write([]byte(html))
}
