package timeline

import (
	"fmt"
	"html/template"
	"strings"
)

// maxVisibleImages caps how many thumbnails a card shows before the rest
// collapse behind a "+N more" badge.
const maxVisibleImages = 6

// ImageLayout is the bucket a card's image strip falls into.
type ImageLayout string

const (
	LayoutNone   ImageLayout = "none"
	LayoutSingle ImageLayout = "single"
	LayoutGrid   ImageLayout = "grid"
)

// LayoutFor buckets an image list: no images, a single hero image, or a grid
// of up to six with the overflow count for the badge.
func LayoutFor(images []string) (layout ImageLayout, visible []string, hidden int) {
	switch {
	case len(images) == 0:
		return LayoutNone, nil, 0
	case len(images) == 1:
		return LayoutSingle, images[:1], 0
	case len(images) <= maxVisibleImages:
		return LayoutGrid, images, 0
	default:
		return LayoutGrid, images[:maxVisibleImages], len(images) - maxVisibleImages
	}
}

var cardTemplate = template.Must(template.New("cards").Parse(`{{- range . -}}
<article class="moment-card{{if .ReducedMotion}} no-motion{{end}}" data-id="{{.ID}}">
  <header class="moment-head">
    <h2 class="moment-title">{{.Title}}</h2>
    <time class="moment-date" datetime="{{.DateISO}}">{{.DateISO}}</time>
  </header>
  {{- if .Text}}
  <p class="moment-text">{{.Text}}</p>
  {{- end}}
  {{- if ne .Layout "none"}}
  <div class="moment-images layout-{{.Layout}} count-{{len .Images}}">
    {{- range .Images}}
    <img src="{{.}}" alt="" loading="lazy" />
    {{- end}}
    {{- if gt .Hidden 0}}
    <span class="more-badge">{{.HiddenLabel}}</span>
    {{- end}}
  </div>
  {{- end}}
  {{- if .Tags}}
  <ul class="moment-tags">
    {{- range .Tags}}
    <li>{{.}}</li>
    {{- end}}
  </ul>
  {{- end}}
</article>
{{- end -}}`))

type cardView struct {
	ID            string
	Title         string
	Text          string
	DateISO       string
	Layout        ImageLayout
	Images        []string
	Hidden        int
	Tags          []string
	ReducedMotion bool
}

func (v cardView) HiddenLabel() string {
	return fmt.Sprintf("+%d more", v.Hidden)
}

// RenderBatch produces the HTML fragment for one batch of moments. Image
// paths are prefixed with imageBase so the markup points at the media proxy.
func RenderBatch(moments []Moment, imageBase string, reducedMotion bool) (template.HTML, error) {
	views := make([]cardView, 0, len(moments))
	for _, m := range moments {
		title := m.Title
		if title == "" {
			title = "Untitled"
		}
		layout, visible, hidden := LayoutFor(m.Images)
		urls := make([]string, 0, len(visible))
		for _, img := range visible {
			urls = append(urls, strings.TrimSuffix(imageBase, "/")+"/"+img)
		}
		views = append(views, cardView{
			ID:            m.ID,
			Title:         title,
			Text:          m.Text,
			DateISO:       m.DateISO,
			Layout:        layout,
			Images:        urls,
			Hidden:        hidden,
			Tags:          m.Tags,
			ReducedMotion: reducedMotion,
		})
	}
	var sb strings.Builder
	if err := cardTemplate.Execute(&sb, views); err != nil {
		return "", err
	}
	return template.HTML(sb.String()), nil
}
