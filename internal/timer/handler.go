package timer

import (
	"html/template"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/FawkesguyD/Love/internal/api/recovery"
	"github.com/FawkesguyD/Love/internal/api/respond"
)

var viewTemplate = template.Must(template.New("timer").Parse(`<!doctype html>
<html lang="en" data-theme="{{.Theme}}">
<head>
<meta charset="utf-8" />
<meta name="viewport" content="width=device-width, initial-scale=1" />
<title>Timer</title>
<style>
:root { --bg: #f7f8fa; --fg: #14171a; --muted: #5f6670; --error: #b00020; }
html[data-theme="dark"] { --bg: #111319; --fg: #f1f4f8; --muted: #a7afba; --error: #ff7f96; }
html, body { width: 100%; height: 100%; margin: 0; }
body { background: var(--bg); color: var(--fg); font-family: monospace; }
.viewport { width: 100vw; height: 100vh; box-sizing: border-box; padding: 20vh 20vw; }
.timer { width: 100%; height: 100%; display: flex; align-items: center; justify-content: center; flex-direction: column; text-align: center; }
h1 { margin: 0 0 12px; font-size: clamp(20px, 2.5vw, 34px); }
.meta { margin: 0; color: var(--muted); font-size: clamp(11px, 1.2vw, 16px); }
.clock { margin: 18px 0 14px; font-size: clamp(24px, 5vw, 64px); line-height: 1.2; }
.error { margin: 10px 0 0; color: var(--error); font-size: clamp(12px, 1.3vw, 16px); }
</style>
</head>
<body>
<main class="viewport">
<section class="timer">
<h1>Timer</h1>
<p class="meta">This timer will never stop</p>
<p class="clock" id="elapsed">-</p>
<p class="error" id="error"></p>
</section>
</main>
<script>
async function refresh() {
  const errorNode = document.getElementById("error");
  try {
    const response = await fetch("/api/timer");
    if (!response.ok) { throw new Error("bad response"); }
    const payload = await response.json();
    const e = payload.elapsed;
    document.getElementById("elapsed").textContent =
      e.years + "y " + e.days + "d " + e.hours + "h " + e.minutes + "m " + e.seconds + "s";
    errorNode.textContent = "";
  } catch (_err) {
    errorNode.textContent = "error loading time";
  }
}
refresh();
setInterval(refresh, 1000);
</script>
</body>
</html>
`))

// Handler serves the elapsed time payload and its HTML page.
type Handler struct {
	svc *Service
	log zerolog.Logger
}

func NewHandler(svc *Service, log zerolog.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

// NewRouter wires the timer routes.
func NewRouter(svc *Service, log zerolog.Logger) *mux.Router {
	router := mux.NewRouter()
	router.Use(recovery.Middleware)

	h := NewHandler(svc, log)
	router.HandleFunc("/health", h.CheckHealth).Methods("GET")
	router.HandleFunc("/time", h.GetTime).Methods("GET")
	router.HandleFunc("/api/timer", h.GetTime).Methods("GET")
	router.HandleFunc("/view", h.GetView).Methods("GET")
	return router
}

// CheckHealth GET /health
func (h *Handler) CheckHealth(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetTime GET /time
func (h *Handler) GetTime(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSON(w, http.StatusOK, h.svc.Report())
}

// GetView GET /view renders the auto-refreshing timer page. Unknown themes
// fall back to light.
func (h *Handler) GetView(w http.ResponseWriter, r *http.Request) {
	theme := "light"
	if strings.EqualFold(strings.TrimSpace(r.URL.Query().Get("theme")), "dark") {
		theme = "dark"
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := viewTemplate.Execute(w, struct{ Theme string }{Theme: theme}); err != nil {
		h.log.Error().Err(err).Msg("Failed to render timer page")
	}
}
