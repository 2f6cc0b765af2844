package client

import (
	"context"
	"net/http"
	"sync"

	errs "github.com/FawkesguyD/Love/client/internal/errors"
	"github.com/FawkesguyD/Love/internal/model"
)

// FetchTimeline walks the cursor chain in ascending order and returns up to
// maxMoments moments. Summary records, ones missing a title or a date, are
// upgraded through the hydration pool before the slice is returned.
//
// The walk keeps a set of cursors it has already followed; a repeated cursor
// ends the loop instead of fetching the same page forever.
func (c *Client) FetchTimeline(ctx context.Context) ([]*model.Card, error) {
	var collected []*model.Card
	cursor := ""
	seenCursors := map[string]struct{}{}

	for {
		page, err := c.ListCards(ctx, ListOptions{
			Limit:  c.pageLimit,
			Order:  model.OrderAsc,
			Cursor: cursor,
		})
		if err != nil {
			return nil, err
		}
		pagesFetchedTotal.Inc()
		collected = append(collected, page.Moments...)

		if len(collected) >= c.maxMoments {
			collected = collected[:c.maxMoments]
			break
		}
		if page.NextCursor == nil || *page.NextCursor == "" {
			break
		}
		if _, seen := seenCursors[*page.NextCursor]; seen {
			break
		}
		seenCursors[*page.NextCursor] = struct{}{}
		cursor = *page.NextCursor
	}

	c.hydrate(ctx, collected)
	return collected, nil
}

// hydrate replaces summary records in place with the full moment fetched by
// id. A moment that cannot be hydrated keeps its summary form; in particular
// a 404 means the record vanished between the listing and the lookup, and the
// summary is still worth rendering.
func (c *Client) hydrate(ctx context.Context, moments []*model.Card) {
	var pending []int
	for i, m := range moments {
		if m.ID != "" && isSummary(m) {
			pending = append(pending, i)
		}
	}
	if len(pending) == 0 {
		return
	}

	workers := c.hydrateWorkers
	if workers > len(pending) {
		workers = len(pending)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range jobs {
				full, err := c.GetCard(ctx, moments[i].ID)
				if err != nil {
					if errs.StatusCodeOf(err) == http.StatusNotFound {
						hydrationsTotal.WithLabelValues("gone").Inc()
					} else {
						hydrationsTotal.WithLabelValues("failed").Inc()
					}
					continue
				}
				moments[i] = full
				hydrationsTotal.WithLabelValues("full").Inc()
			}
		}()
	}
	for _, i := range pending {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
}

func isSummary(m *model.Card) bool {
	return m.Title == "" || m.Date.IsZero()
}
