// Package services holds the domain logic between HTTP handlers and the store.
package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-openapi/strfmt"

	"github.com/FawkesguyD/Love/internal/api/validate"
	"github.com/FawkesguyD/Love/internal/cursor"
	"github.com/FawkesguyD/Love/internal/model"
	"github.com/FawkesguyD/Love/internal/store"
)

const (
	// DefaultLimit is the page size used when the caller does not send one.
	DefaultLimit = 20
	// MaxLimit caps the page size. Out-of-range limits are clamped silently:
	// limit=500 returns at most 100 records with no error signaled.
	MaxLimit = 100
)

// ListParams are the raw, unvalidated listing inputs as received on the wire.
// Limit is nil when the caller omitted it.
type ListParams struct {
	Limit      *int
	Order      string
	Cursor     string
	From       string
	To         string
	Visibility string
}

// CreateParams are the raw inputs for card creation.
type CreateParams struct {
	Title      string
	Text       *string
	Date       string
	Images     []string
	Visibility string
	Tags       []string
}

// PatchParams are the raw inputs for a partial card update. Nil means the
// field was absent from the request body.
type PatchParams struct {
	Title      *string
	Text       *string
	Date       *string
	Images     []string
	ImagesSet  bool
	Visibility *string
	Tags       []string
	TagsSet    bool
}

// CardService implements the card listing, lookup and CRUD contract.
type CardService struct {
	store store.Store
}

// NewCardService creates a CardService over the given store.
func NewCardService(st store.Store) *CardService {
	return &CardService{store: st}
}

// List returns one page of cards matching the filters, ordered by the
// composite (date, id) key, plus a cursor when strictly more matching
// records exist beyond the last returned one.
//
// An inverted range (from > to) yields an empty page, not an error.
func (s *CardService) List(ctx context.Context, p ListParams) (*model.CardPage, error) {
	limit := DefaultLimit
	if p.Limit != nil {
		limit = clampLimit(*p.Limit)
	}

	order := model.OrderDesc
	if p.Order != "" {
		order = model.Order(p.Order)
		if !order.Valid() {
			return nil, fmt.Errorf("%w: order must be 'asc' or 'desc'", model.ErrValidation)
		}
	}

	from, err := parseDateBound(p.From, "from", false)
	if err != nil {
		return nil, err
	}
	to, err := parseDateBound(p.To, "to", true)
	if err != nil {
		return nil, err
	}

	var visibility *model.Visibility
	if p.Visibility != "" {
		v := model.Visibility(p.Visibility)
		if !v.Valid() {
			return nil, fmt.Errorf("%w: visibility must be 'draft' or 'public'", model.ErrValidation)
		}
		visibility = &v
	}

	var after *store.Position
	if p.Cursor != "" {
		date, id, cursorOrder, err := cursor.Decode(p.Cursor)
		if err != nil {
			return nil, err
		}
		if cursorOrder != order {
			return nil, fmt.Errorf("%w: cursor order does not match request order", model.ErrInvalidCursor)
		}
		after = &store.Position{Date: date, ID: id}
	}

	if from != nil && to != nil && from.After(*to) {
		return &model.CardPage{Moments: []*model.Card{}}, nil
	}

	// One extra row decides whether a next page exists.
	rows, err := s.store.Cards().List(ctx, store.ListQuery{
		Limit:      limit + 1,
		Order:      order,
		After:      after,
		From:       from,
		To:         to,
		Visibility: visibility,
	})
	if err != nil {
		return nil, fmt.Errorf("list cards: %w", err)
	}

	page := &model.CardPage{Moments: rows}
	if len(rows) > limit {
		page.Moments = rows[:limit]
		last := page.Moments[len(page.Moments)-1]
		token := cursor.Encode(last.Date, last.ID, order)
		page.NextCursor = &token
	}
	if page.Moments == nil {
		page.Moments = []*model.Card{}
	}
	return page, nil
}

// Get returns a single card by id, or model.ErrNotFound.
func (s *CardService) Get(ctx context.Context, id string) (*model.Card, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: card id is required", model.ErrValidation)
	}
	return s.store.Cards().Get(ctx, id)
}

// Create validates and persists a new card.
func (s *CardService) Create(ctx context.Context, p CreateParams) (*model.Card, error) {
	title, err := validate.Title(p.Title)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", model.ErrValidation, err)
	}
	if err := validate.Text(p.Text); err != nil {
		return nil, fmt.Errorf("%w: %s", model.ErrValidation, err)
	}
	date, err := parseCardDate(p.Date)
	if err != nil {
		return nil, err
	}
	images, err := validate.ImageFilenames(p.Images)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", model.ErrValidation, err)
	}
	tags, err := validate.Tags(p.Tags)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", model.ErrValidation, err)
	}

	visibility := model.VisibilityPublic
	if p.Visibility != "" {
		visibility = model.Visibility(p.Visibility)
		if !visibility.Valid() {
			return nil, fmt.Errorf("%w: visibility must be 'draft' or 'public'", model.ErrValidation)
		}
	}

	return s.store.Cards().Create(ctx, &model.Card{
		Title:      title,
		Text:       p.Text,
		Date:       date,
		Images:     images,
		Visibility: visibility,
		Tags:       tags,
	})
}

// Patch validates and applies a partial update. At least one field must be
// present; images, when present, must be a non-empty valid list.
func (s *CardService) Patch(ctx context.Context, id string, p PatchParams) (*model.Card, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: card id is required", model.ErrValidation)
	}

	var patch model.CardPatch

	if p.Title != nil {
		title, err := validate.Title(*p.Title)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", model.ErrValidation, err)
		}
		patch.Title = &title
	}
	if p.Text != nil {
		if err := validate.Text(p.Text); err != nil {
			return nil, fmt.Errorf("%w: %s", model.ErrValidation, err)
		}
		patch.Text = p.Text
	}
	if p.Date != nil {
		date, err := parseCardDate(*p.Date)
		if err != nil {
			return nil, err
		}
		patch.Date = &date
	}
	if p.ImagesSet {
		images, err := validate.ImageFilenames(p.Images)
		if err != nil {
			return nil, fmt.Errorf("%w: images must be a non-empty array of valid filenames: %s", model.ErrValidation, err)
		}
		patch.Images = images
	}
	if p.Visibility != nil {
		v := model.Visibility(*p.Visibility)
		if !v.Valid() {
			return nil, fmt.Errorf("%w: visibility must be 'draft' or 'public'", model.ErrValidation)
		}
		patch.Visibility = &v
	}
	if p.TagsSet {
		tags, err := validate.Tags(p.Tags)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", model.ErrValidation, err)
		}
		patch.Tags = tags
		patch.TagsSet = true
	}

	if patch.IsEmpty() {
		return nil, fmt.Errorf("%w: at least one field is required for patch", model.ErrValidation)
	}
	return s.store.Cards().Update(ctx, id, patch)
}

// Delete removes a card, or returns model.ErrNotFound.
func (s *CardService) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: card id is required", model.ErrValidation)
	}
	return s.store.Cards().Delete(ctx, id)
}

// Sample returns one random card for the standalone card view.
func (s *CardService) Sample(ctx context.Context) (*model.Card, error) {
	return s.store.Cards().Sample(ctx)
}

// Latest returns the newest card by (date, id).
func (s *CardService) Latest(ctx context.Context) (*model.Card, error) {
	rows, err := s.store.Cards().List(ctx, store.ListQuery{Limit: 1, Order: model.OrderDesc})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, model.ErrNotFound
	}
	return rows[0], nil
}

func clampLimit(limit int) int {
	if limit < 1 {
		return 1
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// parseCardDate parses an RFC3339 instant and normalizes it to UTC.
func parseCardDate(raw string) (time.Time, error) {
	dt, err := strfmt.ParseDateTime(raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date must be a valid RFC3339 timestamp", model.ErrValidation)
	}
	return time.Time(dt).UTC(), nil
}

// parseDateBound accepts either a full RFC3339 instant or a bare YYYY-MM-DD
// date. A bare date is read as UTC midnight; with endOfDay it covers the whole
// day instead, so to=2026-01-05 keeps moments from the evening of the 5th.
func parseDateBound(raw, name string, endOfDay bool) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	if dt, err := strfmt.ParseDateTime(raw); err == nil {
		t := time.Time(dt).UTC()
		return &t, nil
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		t = t.UTC()
		if endOfDay {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		return &t, nil
	}
	return nil, fmt.Errorf("%w: '%s' must be an ISO-8601 date", model.ErrValidation, name)
}
