package client

import (
	"context"
	"sync"
	"time"

	"github.com/FawkesguyD/Love/internal/model"
)

// timelineCache holds the most recent FetchTimeline result. A snapshot inside
// its TTL is served immediately while at most one background refresh runs; an
// expired snapshot is only served when a synchronous refetch fails. A failed
// refresh never evicts the snapshot that is already there.
type timelineCache struct {
	mu         sync.Mutex
	snapshot   []*model.Card
	storedAt   time.Time
	refreshing bool

	// now is swappable in tests.
	now func() time.Time
}

func (tc *timelineCache) clock() time.Time {
	if tc.now != nil {
		return tc.now()
	}
	return time.Now()
}

// read returns the cached snapshot and whether it exists and is still fresh.
func (tc *timelineCache) read(ttl time.Duration) (moments []*model.Card, ok, fresh bool) {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	if tc.snapshot == nil {
		return nil, false, false
	}
	out := make([]*model.Card, len(tc.snapshot))
	copy(out, tc.snapshot)
	return out, true, tc.clock().Sub(tc.storedAt) < ttl
}

func (tc *timelineCache) store(moments []*model.Card) {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	tc.snapshot = moments
	tc.storedAt = tc.clock()
}

// beginRefresh reports whether the caller should start a background refresh.
// Only one refresh runs at a time.
func (tc *timelineCache) beginRefresh() bool {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	if tc.refreshing {
		return false
	}
	tc.refreshing = true
	return true
}

func (tc *timelineCache) endRefresh() {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	tc.refreshing = false
}

// Timeline returns the timeline snapshot with TTL-gated revalidation. A
// snapshot younger than the TTL is returned immediately while a background
// refresh keeps it current. Once the TTL has passed the snapshot is no longer
// trusted for painting: the call blocks on a synchronous fetch and falls back
// to the expired snapshot only when that fetch fails.
func (c *Client) Timeline(ctx context.Context) ([]*model.Card, error) {
	snapshot, ok, fresh := c.cache.read(c.cacheTTL)
	if ok && fresh {
		cacheReadsTotal.WithLabelValues("fresh").Inc()
		if c.cache.beginRefresh() {
			go func() {
				defer c.cache.endRefresh()
				refreshCtx, cancel := context.WithTimeout(context.Background(), c.refreshBudget())
				defer cancel()
				moments, err := c.FetchTimeline(refreshCtx)
				if err != nil {
					return
				}
				c.cache.store(moments)
			}()
		}
		return snapshot, nil
	}

	if ok {
		cacheReadsTotal.WithLabelValues("expired").Inc()
	} else {
		cacheReadsTotal.WithLabelValues("miss").Inc()
	}
	moments, err := c.FetchTimeline(ctx)
	if err != nil {
		if ok {
			// Better an outdated timeline than a blank one.
			return snapshot, nil
		}
		return nil, err
	}
	c.cache.store(moments)
	return moments, nil
}

// refreshBudget bounds a background revalidation. The walk may need several
// pages plus hydration, so the budget is a multiple of the per-request timeout.
func (c *Client) refreshBudget() time.Duration {
	perRequest := c.rest.GetClient().Timeout
	if perRequest <= 0 {
		perRequest = defaultHTTPTimeout
	}
	return 5 * perRequest
}
