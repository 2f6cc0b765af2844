package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FawkesguyD/Love/internal/model"
)

func testCard(id, title string, day int) *model.Card {
	return &model.Card{
		ID:         id,
		Title:      title,
		Date:       time.Date(2026, 1, day, 12, 0, 0, 0, time.UTC),
		Images:     []string{},
		Visibility: model.VisibilityPublic,
		Tags:       []string{},
	}
}

func writePage(w http.ResponseWriter, moments []*model.Card, next string) {
	page := model.CardPage{Moments: moments}
	if next != "" {
		page.NextCursor = &next
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(page)
}

func TestFetchTimelineWalksCursorChain(t *testing.T) {
	var orders []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		orders = append(orders, q.Get("order"))
		switch q.Get("cursor") {
		case "":
			writePage(w, []*model.Card{testCard("a", "one", 1), testCard("b", "two", 2)}, "c1")
		case "c1":
			writePage(w, []*model.Card{testCard("c", "three", 3)}, "c2")
		case "c2":
			writePage(w, []*model.Card{testCard("d", "four", 4)}, "")
		default:
			t.Errorf("unexpected cursor %q", q.Get("cursor"))
		}
	}))
	defer srv.Close()

	c := New(srv.URL)
	moments, err := c.FetchTimeline(context.Background())
	require.NoError(t, err)

	require.Len(t, moments, 4)
	var ids []string
	for _, m := range moments {
		ids = append(ids, m.ID)
	}
	assert.Equal(t, []string{"a", "b", "c", "d"}, ids)
	assert.Equal(t, []string{"asc", "asc", "asc"}, orders)
}

func TestFetchTimelineStopsOnRepeatedCursor(t *testing.T) {
	var requests int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&requests, 1)
		writePage(w, []*model.Card{testCard(fmt.Sprintf("p%d", n), "page", int(n))}, "loop")
	}))
	defer srv.Close()

	c := New(srv.URL)
	moments, err := c.FetchTimeline(context.Background())
	require.NoError(t, err)

	// The repeated "loop" cursor ends the walk after the second page.
	assert.Len(t, moments, 2)
	assert.EqualValues(t, 2, atomic.LoadInt32(&requests))
}

func TestFetchTimelineTruncatesAtMaxMoments(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		base := 1
		if r.URL.Query().Get("cursor") == "more" {
			base = 5
		}
		var page []*model.Card
		for i := 0; i < 4; i++ {
			page = append(page, testCard(fmt.Sprintf("m%d", base+i), "bulk", base+i))
		}
		writePage(w, page, "more")
	}))
	defer srv.Close()

	c := New(srv.URL, WithMaxMoments(5))
	moments, err := c.FetchTimeline(context.Background())
	require.NoError(t, err)
	assert.Len(t, moments, 5)
	assert.Equal(t, "m5", moments[4].ID)
}

func TestFetchTimelineHydrationPoolIsBounded(t *testing.T) {
	const workers = 3
	var inFlight, peak int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/v1/cards/") {
			cur := atomic.AddInt32(&inFlight, 1)
			for {
				old := atomic.LoadInt32(&peak)
				if cur <= old || atomic.CompareAndSwapInt32(&peak, old, cur) {
					break
				}
			}
			time.Sleep(20 * time.Millisecond) // force lookups to overlap
			atomic.AddInt32(&inFlight, -1)

			id := strings.TrimPrefix(r.URL.Path, "/api/v1/cards/")
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(testCard(id, "hydrated "+id, 1))
			return
		}
		var page []*model.Card
		for i := 0; i < 20; i++ {
			page = append(page, &model.Card{
				ID:   fmt.Sprintf("s%02d", i),
				Date: time.Date(2026, 1, 1, 12, i, 0, 0, time.UTC),
			})
		}
		writePage(w, page, "")
	}))
	defer srv.Close()

	c := New(srv.URL, WithHydrateWorkers(workers))
	moments, err := c.FetchTimeline(context.Background())
	require.NoError(t, err)
	require.Len(t, moments, 20)
	for _, m := range moments {
		assert.Equal(t, "hydrated "+m.ID, m.Title)
	}
	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(workers),
		"concurrent lookups must stay within the worker pool")
	assert.Positive(t, atomic.LoadInt32(&peak))
}

func TestFetchTimelineHydratesSummaries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/v1/cards/") {
			id := strings.TrimPrefix(r.URL.Path, "/api/v1/cards/")
			switch id {
			case "s1":
				w.Header().Set("Content-Type", "application/json")
				_ = json.NewEncoder(w).Encode(testCard("s1", "hydrated title", 2))
			case "s2":
				http.Error(w, `{"error":{"code":"NOT_FOUND"}}`, http.StatusNotFound)
			default:
				t.Errorf("unexpected hydration lookup for %q", id)
			}
			return
		}
		summary1 := &model.Card{ID: "s1", Date: time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC)}
		summary2 := &model.Card{ID: "s2", Title: "orphan"}
		writePage(w, []*model.Card{testCard("f1", "full", 1), summary1, summary2}, "")
	}))
	defer srv.Close()

	c := New(srv.URL)
	moments, err := c.FetchTimeline(context.Background())
	require.NoError(t, err)
	require.Len(t, moments, 3)

	assert.Equal(t, "full", moments[0].Title)
	assert.Equal(t, "hydrated title", moments[1].Title)
	// The vanished record keeps its summary form.
	assert.Equal(t, "orphan", moments[2].Title)
	assert.True(t, moments[2].Date.IsZero())
}
