package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FawkesguyD/Love/internal/model"
)

func TestTimelineFreshSnapshotPaintsAndRevalidates(t *testing.T) {
	var requests int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&requests, 1)
		if n == 1 {
			writePage(w, []*model.Card{testCard("old", "old snapshot", 1)}, "")
			return
		}
		writePage(w, []*model.Card{testCard("new", "new snapshot", 2)}, "")
	}))
	defer srv.Close()

	c := New(srv.URL, WithCacheTTL(time.Minute))

	first, err := c.Timeline(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "old", first[0].ID)

	// Within the TTL the snapshot paints immediately, while a background
	// revalidation keeps it current.
	second, err := c.Timeline(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "old", second[0].ID)

	require.Eventually(t, func() bool {
		snapshot, ok, _ := c.cache.read(time.Minute)
		return ok && len(snapshot) == 1 && snapshot[0].ID == "new"
	}, 2*time.Second, 10*time.Millisecond, "fresh hit should revalidate in the background")
	assert.GreaterOrEqual(t, atomic.LoadInt32(&requests), int32(2))
}

func TestTimelineExpiredSnapshotWaitsForNetwork(t *testing.T) {
	var requests int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&requests, 1)
		if n == 1 {
			writePage(w, []*model.Card{testCard("old", "old snapshot", 1)}, "")
			return
		}
		writePage(w, []*model.Card{testCard("new", "new snapshot", 2)}, "")
	}))
	defer srv.Close()

	c := New(srv.URL, WithCacheTTL(time.Minute))

	current := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	c.cache.now = func() time.Time { return current }

	first, err := c.Timeline(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "old", first[0].ID)

	// Past the TTL the snapshot is no longer trusted: the call must resolve
	// against the network and paint the refetched timeline, not the old one.
	current = current.Add(2 * time.Minute)
	refetched, err := c.Timeline(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "new", refetched[0].ID)
	assert.EqualValues(t, 2, atomic.LoadInt32(&requests))
}

func TestTimelineKeepsSnapshotWhenRefetchFails(t *testing.T) {
	var requests int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&requests, 1) == 1 {
			writePage(w, []*model.Card{testCard("keep", "survivor", 1)}, "")
			return
		}
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := New(srv.URL, WithCacheTTL(time.Minute), WithMaxRetries(0))

	current := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	c.cache.now = func() time.Time { return current }

	first, err := c.Timeline(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "keep", first[0].ID)

	// The synchronous refetch fails, so the expired snapshot is the fallback.
	current = current.Add(2 * time.Minute)
	after, err := c.Timeline(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "keep", after[0].ID, "a failed refetch must not blank the timeline")
}

func TestTimelineColdCacheFailureSurfacesError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := New(srv.URL, WithCacheTTL(time.Minute), WithMaxRetries(0))
	_, err := c.Timeline(context.Background())
	require.Error(t, err)
}
