package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/FawkesguyD/Love/client/internal/errors"
	"github.com/FawkesguyD/Love/internal/model"
)

func TestListCardsQueryAndDecode(t *testing.T) {
	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		gotQuery = map[string]string{
			"limit":  q.Get("limit"),
			"order":  q.Get("order"),
			"cursor": q.Get("cursor"),
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"moments": [
				{"id": "a1", "title": "first", "date": "2026-01-01T12:00:00Z"},
				{"_id": "a2", "title": "second", "date": "2026-01-02T12:00:00Z"}
			],
			"nextCursor": "tok"
		}`)
	}))
	defer srv.Close()

	c := New(srv.URL)
	page, err := c.ListCards(context.Background(), ListOptions{
		Limit:  25,
		Order:  model.OrderAsc,
		Cursor: "prev",
	})
	require.NoError(t, err)

	assert.Equal(t, "25", gotQuery["limit"])
	assert.Equal(t, "asc", gotQuery["order"])
	assert.Equal(t, "prev", gotQuery["cursor"])

	require.Len(t, page.Moments, 2)
	assert.Equal(t, "a1", page.Moments[0].ID)
	// Legacy serializers emit "_id"; both spellings must land in ID.
	assert.Equal(t, "a2", page.Moments[1].ID)
	require.NotNil(t, page.NextCursor)
	assert.Equal(t, "tok", *page.NextCursor)
}

func TestGetCardRetriesServerErrors(t *testing.T) {
	var attempts int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&attempts, 1) < 3 {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(model.Card{
			ID:    "c1",
			Title: "recovered",
			Date:  time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC),
		})
	}))
	defer srv.Close()

	c := New(srv.URL, WithMaxRetries(2))
	card, err := c.GetCard(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, "recovered", card.Title)
	assert.EqualValues(t, 3, atomic.LoadInt32(&attempts))
}

func TestGetCardFailsFastOnNotFound(t *testing.T) {
	var attempts int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		http.Error(w, `{"error":{"code":"NOT_FOUND"}}`, http.StatusNotFound)
	}))
	defer srv.Close()

	c := New(srv.URL, WithMaxRetries(2))
	_, err := c.GetCard(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, errs.StatusCodeOf(err))
	assert.True(t, errs.IsIrrecoverable(err))
	assert.EqualValues(t, 1, atomic.LoadInt32(&attempts), "4xx must not be retried")
}

func TestListCardsRetryBudgetExhausted(t *testing.T) {
	var attempts int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := New(srv.URL, WithMaxRetries(2))
	_, err := c.ListCards(context.Background(), ListOptions{})
	require.Error(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, errs.StatusCodeOf(err))
	assert.EqualValues(t, 3, atomic.LoadInt32(&attempts), "initial call plus two retries")
}

func TestNewRejectsBadOptions(t *testing.T) {
	assert.Panics(t, func() { New("") })
	assert.Panics(t, func() { New("http://localhost", WithPageLimit(0)) })
	assert.Panics(t, func() { New("http://localhost", WithCacheTTL(0)) })
}
