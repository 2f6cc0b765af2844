// Package timeline turns raw moment records into a rendered, incrementally
// loaded timeline. It owns record normalization, ordering, image layout
// bucketing and the page state machine; fetching is delegated to a Source.
package timeline

import (
	"sort"
	"time"

	"github.com/FawkesguyD/Love/internal/model"
)

// Moment is the normalized shape every record is coerced into before
// rendering. DateISO and EpochMs are derived from the same instant.
type Moment struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Text       string   `json:"text"`
	DateISO    string   `json:"dateIso"`
	EpochMs    int64    `json:"epochMs"`
	Visibility string   `json:"visibility"`
	Images     []string `json:"images"`
	Tags       []string `json:"tags"`
}

// FromCard coerces a typed card into a Moment. It reports false when the
// record cannot be rendered, which means a missing id or a missing date.
func FromCard(c *model.Card) (Moment, bool) {
	if c == nil || c.ID == "" || c.Date.IsZero() {
		return Moment{}, false
	}
	m := Moment{
		ID:         c.ID,
		Title:      c.Title,
		DateISO:    c.Date.UTC().Format(time.RFC3339),
		EpochMs:    c.Date.UTC().UnixMilli(),
		Visibility: string(c.Visibility),
		Images:     append([]string(nil), c.Images...),
		Tags:       append([]string(nil), c.Tags...),
	}
	if c.Text != nil {
		m.Text = *c.Text
	}
	if m.Visibility == "" {
		m.Visibility = string(model.VisibilityPublic)
	}
	return m, true
}

// FromRecord coerces an untyped record into a Moment. It accepts both the
// "id" and the legacy "_id" key, RFC 3339 dates under "date" and already
// normalized records carrying "dateIso"/"epochMs", making the coercion
// idempotent. Records without a usable id or date report false.
func FromRecord(rec map[string]any) (Moment, bool) {
	if rec == nil {
		return Moment{}, false
	}
	id := stringField(rec, "id")
	if id == "" {
		id = stringField(rec, "_id")
	}
	if id == "" {
		return Moment{}, false
	}

	when, ok := dateOf(rec)
	if !ok {
		return Moment{}, false
	}

	m := Moment{
		ID:         id,
		Title:      stringField(rec, "title"),
		Text:       stringField(rec, "text"),
		DateISO:    when.Format(time.RFC3339),
		EpochMs:    when.UnixMilli(),
		Visibility: stringField(rec, "visibility"),
		Images:     stringSlice(rec["images"]),
		Tags:       stringSlice(rec["tags"]),
	}
	if m.Visibility == "" {
		m.Visibility = string(model.VisibilityPublic)
	}
	return m, true
}

func dateOf(rec map[string]any) (time.Time, bool) {
	if raw := stringField(rec, "date"); raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			return t.UTC(), true
		}
		return time.Time{}, false
	}
	if raw := stringField(rec, "dateIso"); raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			return t.UTC(), true
		}
		return time.Time{}, false
	}
	switch v := rec["epochMs"].(type) {
	case float64:
		return time.UnixMilli(int64(v)).UTC(), true
	case int64:
		return time.UnixMilli(v).UTC(), true
	}
	return time.Time{}, false
}

func stringField(rec map[string]any, key string) string {
	s, _ := rec[key].(string)
	return s
}

// stringSlice keeps only the string members of a decoded JSON array.
func stringSlice(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// Prepare normalizes a fetched batch for display: drafts are dropped and the
// rest is sorted by (EpochMs, ID) ascending so equal dates order the same way
// on every load.
func Prepare(cards []*model.Card) []Moment {
	moments := make([]Moment, 0, len(cards))
	for _, c := range cards {
		m, ok := FromCard(c)
		if !ok {
			continue
		}
		if m.Visibility == string(model.VisibilityDraft) {
			continue
		}
		moments = append(moments, m)
	}
	sort.Slice(moments, func(i, j int) bool {
		if moments[i].EpochMs != moments[j].EpochMs {
			return moments[i].EpochMs < moments[j].EpochMs
		}
		return moments[i].ID < moments[j].ID
	})
	return moments
}
