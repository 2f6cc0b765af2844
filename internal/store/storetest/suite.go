// Package storetest exercises a compliance suite against a store.Store
// implementation. Backends run it from their own test packages.
package storetest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FawkesguyD/Love/internal/model"
	"github.com/FawkesguyD/Love/internal/store"
)

// Run exercises the card CRUD and ordered-scan contract. makeStore must
// return a clean, isolated store.
func Run(t *testing.T, makeStore func(t *testing.T) store.Store) {
	t.Helper()

	t.Run("crud", func(t *testing.T) { testCRUD(t, makeStore(t)) })
	t.Run("ordered_scan", func(t *testing.T) { testOrderedScan(t, makeStore(t)) })
	t.Run("keyset_resume", func(t *testing.T) { testKeysetResume(t, makeStore(t)) })
	t.Run("tie_break", func(t *testing.T) { testTieBreak(t, makeStore(t)) })
	t.Run("filters", func(t *testing.T) { testFilters(t, makeStore(t)) })
	t.Run("sample", func(t *testing.T) { testSample(t, makeStore(t)) })
}

func newCard(title string, date time.Time) *model.Card {
	return &model.Card{
		Title:      title,
		Date:       date,
		Images:     []string{"sunset.jpg"},
		Visibility: model.VisibilityPublic,
	}
}

func testCRUD(t *testing.T, s store.Store) {
	defer func() { _ = s.Close() }()
	ctx := context.Background()
	cards := s.Cards()

	created, err := cards.Create(ctx, newCard("First kiss", time.Date(2025, 3, 6, 18, 0, 0, 0, time.UTC)))
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	assert.Equal(t, []string{}, created.Tags)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := cards.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "First kiss", got.Title)
	assert.True(t, got.Date.Equal(created.Date))
	assert.Equal(t, []string{"sunset.jpg"}, got.Images)

	newTitle := "First kiss, updated"
	draft := model.VisibilityDraft
	updated, err := cards.Update(ctx, created.ID, model.CardPatch{
		Title:      &newTitle,
		Visibility: &draft,
		Tags:       []string{"beach"},
		TagsSet:    true,
	})
	require.NoError(t, err)
	assert.Equal(t, newTitle, updated.Title)
	assert.Equal(t, model.VisibilityDraft, updated.Visibility)
	assert.Equal(t, []string{"beach"}, updated.Tags)

	_, err = cards.Update(ctx, "missing", model.CardPatch{Title: &newTitle})
	assert.ErrorIs(t, err, model.ErrNotFound)

	require.NoError(t, cards.Delete(ctx, created.ID))
	assert.ErrorIs(t, cards.Delete(ctx, created.ID), model.ErrNotFound)

	_, err = cards.Get(ctx, created.ID)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func seedSequential(t *testing.T, cards store.Cards, n int) []*model.Card {
	t.Helper()
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	out := make([]*model.Card, 0, n)
	// Insert out of creation order so scans cannot lean on insertion order.
	for i := n - 1; i >= 0; i-- {
		c, err := cards.Create(ctx, newCard(fmt.Sprintf("moment %02d", i), base.AddDate(0, 0, i)))
		require.NoError(t, err)
		out = append(out, c)
	}
	return out
}

func testOrderedScan(t *testing.T, s store.Store) {
	defer func() { _ = s.Close() }()
	ctx := context.Background()
	cards := s.Cards()
	seedSequential(t, cards, 10)

	asc, err := cards.List(ctx, store.ListQuery{Limit: 100, Order: model.OrderAsc})
	require.NoError(t, err)
	require.Len(t, asc, 10)
	for i := 1; i < len(asc); i++ {
		assert.True(t, asc[i-1].Date.Before(asc[i].Date), "ascending order broken at %d", i)
	}

	desc, err := cards.List(ctx, store.ListQuery{Limit: 100, Order: model.OrderDesc})
	require.NoError(t, err)
	require.Len(t, desc, 10)
	for i := range desc {
		assert.Equal(t, asc[len(asc)-1-i].ID, desc[i].ID)
	}
}

func testKeysetResume(t *testing.T, s store.Store) {
	defer func() { _ = s.Close() }()
	ctx := context.Background()
	cards := s.Cards()
	seedSequential(t, cards, 9)

	var seen []string
	var after *store.Position
	for {
		page, err := cards.List(ctx, store.ListQuery{Limit: 4, Order: model.OrderAsc, After: after})
		require.NoError(t, err)
		if len(page) == 0 {
			break
		}
		for _, c := range page {
			seen = append(seen, c.ID)
		}
		last := page[len(page)-1]
		after = &store.Position{Date: last.Date, ID: last.ID}
		if len(page) < 4 {
			break
		}
	}

	require.Len(t, seen, 9)
	unique := make(map[string]struct{}, len(seen))
	for _, id := range seen {
		unique[id] = struct{}{}
	}
	assert.Len(t, unique, 9, "keyset resume must not duplicate records")
}

func testTieBreak(t *testing.T, s store.Store) {
	defer func() { _ = s.Close() }()
	ctx := context.Background()
	cards := s.Cards()
	date := time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC)

	// Insert "b" before "a": listing must still order by id.
	b := newCard("b", date)
	b.ID = "b"
	_, err := cards.Create(ctx, b)
	require.NoError(t, err)
	a := newCard("a", date)
	a.ID = "a"
	_, err = cards.Create(ctx, a)
	require.NoError(t, err)

	asc, err := cards.List(ctx, store.ListQuery{Limit: 10, Order: model.OrderAsc})
	require.NoError(t, err)
	require.Len(t, asc, 2)
	assert.Equal(t, "a", asc[0].ID)
	assert.Equal(t, "b", asc[1].ID)

	// Resuming after "a" must yield exactly "b": the cursor record itself is
	// never repeated, even on an equal date.
	rest, err := cards.List(ctx, store.ListQuery{
		Limit: 10,
		Order: model.OrderAsc,
		After: &store.Position{Date: date, ID: "a"},
	})
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Equal(t, "b", rest[0].ID)
}

func testFilters(t *testing.T, s store.Store) {
	defer func() { _ = s.Close() }()
	ctx := context.Background()
	cards := s.Cards()
	seeded := seedSequential(t, cards, 6)

	draft := model.VisibilityDraft
	_, err := cards.Update(ctx, seeded[0].ID, model.CardPatch{Visibility: &draft})
	require.NoError(t, err)

	public := model.VisibilityPublic
	got, err := cards.List(ctx, store.ListQuery{Limit: 100, Order: model.OrderAsc, Visibility: &public})
	require.NoError(t, err)
	assert.Len(t, got, 5)

	from := time.Date(2026, 1, 3, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 1, 5, 23, 59, 59, 0, time.UTC)
	got, err = cards.List(ctx, store.ListQuery{Limit: 100, Order: model.OrderAsc, From: &from, To: &to})
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func testSample(t *testing.T, s store.Store) {
	defer func() { _ = s.Close() }()
	ctx := context.Background()
	cards := s.Cards()

	_, err := cards.Sample(ctx)
	assert.ErrorIs(t, err, model.ErrNotFound)

	seeded := seedSequential(t, cards, 3)
	ids := make(map[string]struct{}, len(seeded))
	for _, c := range seeded {
		ids[c.ID] = struct{}{}
	}

	got, err := cards.Sample(ctx)
	require.NoError(t, err)
	_, ok := ids[got.ID]
	assert.True(t, ok, "sample returned an unknown card")
}
