package api

import (
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/FawkesguyD/Love/internal/api/validate"
	"github.com/FawkesguyD/Love/internal/model"
	"github.com/FawkesguyD/Love/internal/services"
)

// maxViewImages caps the standalone card gallery. Anything beyond this shows
// up as a "+N more" footer instead of a tile.
const maxViewImages = 6

var pageTemplate = template.Must(template.New("page").Parse(`<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8" />
<meta name="viewport" content="width=device-width, initial-scale=1" />
<title>{{.Title}}</title>
<style>
:root{--card-surface:#fcfcfd;--card-shadow:0 20px 50px rgba(17,24,39,.15);--muted:#6f7282;--text:#1c1d22;--gap:clamp(10px,1.6vmin,14px)}
html,body{margin:0;min-height:100%;color:var(--text)}
body{font-family:'Avenir Next','Trebuchet MS','Segoe UI',sans-serif;background:radial-gradient(circle at 14% 20%,#f4f6f8 0,#eef2f4 38%,#e8ecef 100%)}
.page{min-height:100vh;display:grid;place-items:center;padding:20px;box-sizing:border-box}
.canvas{display:grid;justify-items:center;gap:12px;width:100%}
.moment-card{width:min(70vmin,720px,calc(100vw - 30px),calc(100vh - 140px));aspect-ratio:1/1;background:var(--card-surface);border-radius:24px;padding:clamp(16px,2.7vmin,26px);box-sizing:border-box;display:grid;grid-template-rows:auto auto minmax(0,1fr);gap:var(--gap);box-shadow:var(--card-shadow);border:1px solid rgba(255,255,255,.8);overflow:hidden}
.moment-title{margin:0;font-family:'Georgia','Times New Roman',serif;font-size:clamp(30px,5.4vmin,48px);line-height:1.04;letter-spacing:-.02em;overflow-wrap:anywhere}
.date{margin:0;color:var(--muted);font-size:clamp(12px,1.5vmin,14px)}
.moment-content{min-height:0;display:grid;grid-template-rows:auto minmax(0,1fr);gap:var(--gap)}
.text{margin:0;font-size:clamp(14px,1.9vmin,18px);line-height:1.54;color:#333843;overflow:auto;max-height:7.7em;padding-right:4px;word-break:break-word}
.media-block{min-height:0;display:grid;grid-template-rows:minmax(0,1fr) auto;gap:8px}
.spiral-grid{min-height:0;height:100%;display:grid;grid-template-columns:repeat(13,minmax(0,1fr));grid-template-rows:repeat(8,minmax(0,1fr));gap:6px}
.spiral-item{margin:0;position:relative;overflow:hidden;border-radius:10px;background:#e4e8ec}
.spiral-item img{display:block;width:100%;height:100%;object-fit:cover}
.spiral-item .image-unavailable{display:grid;place-items:center;height:100%;margin:0;padding:8px;color:var(--muted);font-size:12px;background:#f3f4f6}
.spiral-item-1{grid-area:1/1/9/9}
.spiral-item-2{grid-area:1/9/6/14}
.spiral-item-3{grid-area:6/11/9/14}
.spiral-item-4{grid-area:7/9/9/11}
.spiral-item-5{grid-area:6/9/7/10}
.spiral-item-6{grid-area:6/10/7/11}
.spiral-grid.count-1 .spiral-item-1{grid-area:1/1/9/14}
.spiral-grid.count-2 .spiral-item-1{grid-area:1/1/9/9}
.spiral-grid.count-2 .spiral-item-2{grid-area:1/9/9/14}
.spiral-grid.count-3 .spiral-item-3{grid-area:6/9/9/14}
.spiral-grid.count-4 .spiral-item-4{grid-area:6/9/9/11}
.spiral-grid.count-5 .spiral-item-5{grid-area:6/9/7/11}
.gallery-more{margin:0;color:var(--muted);font-size:12px;text-align:right;letter-spacing:.01em}
.nav{display:flex;gap:12px;font-size:13px;color:var(--muted)}
.nav a{color:inherit;text-decoration:none;padding:4px 0;border-bottom:1px solid transparent}
.nav a:hover{border-color:currentColor}
.message-card{width:min(72vmin,520px,calc(100vw - 30px));background:var(--card-surface);border-radius:20px;padding:22px;box-sizing:border-box;box-shadow:var(--card-shadow)}
.message-card h1{margin:0;font-family:'Georgia','Times New Roman',serif;font-size:clamp(28px,4.6vmin,40px)}
.message-card p{margin:10px 0 0;color:#333843;font-size:16px;line-height:1.5}
@media (max-width:700px){.moment-card{width:min(92vw,calc(100vh - 132px));gap:10px}.spiral-grid{gap:5px}.nav{font-size:12px;gap:10px}}
</style>
</head>
<body>
<main class="page">
<div class="canvas">
{{if .Message}}<article class="message-card"><h1>{{.Title}}</h1><p>{{.Message}}</p></article>{{else}}<article class="moment-card" data-testid="moment-card">
<h1 class="moment-title" data-testid="moment-title">{{.Title}}</h1>
<p class="date" data-testid="moment-date">{{.DateString}}</p>
<section class="moment-content">{{if .Text}}<section class="text" data-testid="moment-text">{{.Text}}</section>{{end}}{{if .Images}}<section class="media-block"><div class="spiral-grid count-{{.Count}}" data-testid="moment-gallery">{{range .Images}}{{if .Unavailable}}<div class="spiral-item spiral-item-{{.Index}} spiral-item-unavailable"><p class="image-unavailable">image unavailable</p></div>{{else}}<figure class="spiral-item spiral-item-{{.Index}}"><img src="{{.URL}}" alt="{{.Alt}}" loading="lazy" /></figure>{{end}}{{end}}</div>{{if .HiddenCount}}<p class="gallery-more">+{{.HiddenCount}} more</p>{{end}}</section>{{end}}</section>
</article>{{end}}
<nav class="nav"><a href="/cards/view">Latest</a><a href="/cards/view?random=true">Random</a>{{if .APILink}}<a href="{{.APILink}}">Open JSON</a>{{end}}</nav>
</div>
</main>
</body>
</html>
`))

type viewImage struct {
	Index       int
	URL         string
	Alt         string
	Unavailable bool
}

type viewPage struct {
	Title       string
	Message     string
	DateString  string
	Text        template.HTML
	Images      []viewImage
	Count       int
	HiddenCount int
	APILink     string
}

// ViewHandler serves the standalone HTML card page.
type ViewHandler struct {
	svc *services.CardService
	log zerolog.Logger
}

func NewViewHandler(svc *services.CardService, log zerolog.Logger) *ViewHandler {
	return &ViewHandler{svc: svc, log: log}
}

// ViewCard GET /cards/view renders the newest card, or a random one when
// random=true.
func (h *ViewHandler) ViewCard(w http.ResponseWriter, r *http.Request) {
	useRandom, err := parseBoolQuery(r.URL.Query().Get("random"))
	if err != nil {
		h.renderMessage(w, http.StatusBadRequest, "Bad request", err.Error())
		return
	}

	var card *model.Card
	if useRandom {
		card, err = h.svc.Sample(r.Context())
	} else {
		card, err = h.svc.Latest(r.Context())
	}
	if errors.Is(err, model.ErrNotFound) {
		h.renderMessage(w, http.StatusOK, "No moments yet", "No moments yet")
		return
	}
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to load card for view")
		h.renderMessage(w, http.StatusInternalServerError, "Internal error", "Failed to load moment")
		return
	}
	h.renderCard(w, card)
}

// ViewCardByID GET /cards/view/{id}
func (h *ViewHandler) ViewCardByID(w http.ResponseWriter, r *http.Request) {
	card, err := h.svc.Get(r.Context(), mux.Vars(r)["id"])
	if errors.Is(err, model.ErrNotFound) || errors.Is(err, model.ErrValidation) {
		h.renderMessage(w, http.StatusNotFound, "Moment not found", "Moment not found")
		return
	}
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to load card for view")
		h.renderMessage(w, http.StatusInternalServerError, "Internal error", "Failed to load moment")
		return
	}
	h.renderCard(w, card)
}

func (h *ViewHandler) renderCard(w http.ResponseWriter, card *model.Card) {
	title := card.Title
	if strings.TrimSpace(title) == "" {
		title = "Untitled"
	}

	limit := len(card.Images)
	if limit > maxViewImages {
		limit = maxViewImages
	}
	images := make([]viewImage, 0, limit)
	for i, filename := range card.Images[:limit] {
		img := viewImage{Index: i + 1, Alt: fmt.Sprintf("%s image %d", title, i+1)}
		stem, err := validate.ImageBaseName(filename)
		if err != nil {
			img.Unavailable = true
		} else {
			img.URL = "/api/images/" + url.PathEscape(stem)
		}
		images = append(images, img)
	}

	count := len(images)
	if count < 1 {
		count = 1
	}

	page := viewPage{
		Title:       title,
		DateString:  card.Date.UTC().Format("2006-01-02T15:04Z"),
		Text:        textToHTML(card.Text),
		Images:      images,
		Count:       count,
		HiddenCount: len(card.Images) - limit,
		APILink:     "/api/v1/cards/" + url.PathEscape(card.ID),
	}
	h.render(w, http.StatusOK, page)
}

func (h *ViewHandler) renderMessage(w http.ResponseWriter, status int, title, message string) {
	h.render(w, status, viewPage{Title: title, Message: message})
}

func (h *ViewHandler) render(w http.ResponseWriter, status int, page viewPage) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := pageTemplate.Execute(w, page); err != nil {
		h.log.Error().Err(err).Msg("Failed to render card page")
	}
}

// textToHTML escapes the card text and turns newlines into line breaks.
func textToHTML(text *string) template.HTML {
	if text == nil || *text == "" {
		return ""
	}
	escaped := template.HTMLEscapeString(*text)
	return template.HTML(strings.ReplaceAll(escaped, "\n", "<br />"))
}

func parseBoolQuery(raw string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "false", "0", "no":
		return false, nil
	case "true", "1", "yes":
		return true, nil
	}
	return false, fmt.Errorf("invalid 'random' value, use one of: true/false, 1/0, yes/no")
}
