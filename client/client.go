// Package client is the Go SDK for the moments timeline API. It wraps the
// card listing endpoints with cursor-chain fetching, summary hydration and a
// stale-while-revalidate snapshot cache.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-resty/resty/v2"

	errs "github.com/FawkesguyD/Love/client/internal/errors"
	"github.com/FawkesguyD/Love/internal/model"
)

const (
	defaultHTTPTimeout    = 6 * time.Second
	defaultPageLimit      = 100
	defaultMaxMoments     = 500
	defaultMaxRetries     = 2
	defaultHydrateWorkers = 6
	defaultCacheTTL       = 45 * time.Second
)

// Client talks to a single moments service instance.
type Client struct {
	baseURL string
	rest    *resty.Client

	pageLimit      int
	maxMoments     int
	maxRetries     int
	hydrateWorkers int
	cacheTTL       time.Duration

	cache timelineCache
}

// New constructs a Client with the specified baseURL.
// Additional options can be provided via functional arguments.
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		panic("baseURL cannot be empty")
	}

	c := &Client{
		baseURL:        baseURL,
		rest:           resty.New().SetBaseURL(baseURL).SetTimeout(defaultHTTPTimeout),
		pageLimit:      defaultPageLimit,
		maxMoments:     defaultMaxMoments,
		maxRetries:     defaultMaxRetries,
		hydrateWorkers: defaultHydrateWorkers,
		cacheTTL:       defaultCacheTTL,
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			panic(err)
		}
	}
	return c
}

// ListOptions carries the query parameters of a single listing call.
// Zero values are omitted from the request.
type ListOptions struct {
	Limit      int
	Order      model.Order
	Cursor     string
	From       string
	To         string
	Visibility string
}

// ListCards fetches one page of moments.
func (c *Client) ListCards(ctx context.Context, opts ListOptions) (*model.CardPage, error) {
	var page *model.CardPage
	err := c.doWithRetry("list_cards", func() error {
		p, err := c.listCardsOnce(ctx, opts)
		if err != nil {
			return err
		}
		page = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return page, nil
}

func (c *Client) listCardsOnce(ctx context.Context, opts ListOptions) (*model.CardPage, error) {
	req := c.rest.R().SetContext(ctx)
	if opts.Limit > 0 {
		req.SetQueryParam("limit", strconv.Itoa(opts.Limit))
	}
	if opts.Order != "" {
		req.SetQueryParam("order", string(opts.Order))
	}
	if opts.Cursor != "" {
		req.SetQueryParam("cursor", opts.Cursor)
	}
	if opts.From != "" {
		req.SetQueryParam("from", opts.From)
	}
	if opts.To != "" {
		req.SetQueryParam("to", opts.To)
	}
	if opts.Visibility != "" {
		req.SetQueryParam("visibility", opts.Visibility)
	}

	resp, err := req.Get("/api/v1/cards")
	if err != nil {
		return nil, errs.NewNetworkError("list cards", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, errs.NewHTTPError(resp.StatusCode(), string(resp.Body()), "list cards")
	}
	page, err := decodePage(resp.Body())
	if err != nil {
		return nil, &errs.ClassifiedError{Category: errs.Irrecoverable, Underlying: err}
	}
	return page, nil
}

// GetCard fetches a single moment by id.
func (c *Client) GetCard(ctx context.Context, id string) (*model.Card, error) {
	var card *model.Card
	err := c.doWithRetry("get_card", func() error {
		resp, err := c.rest.R().SetContext(ctx).Get("/api/v1/cards/" + id)
		if err != nil {
			return errs.NewNetworkError("get card", err)
		}
		if resp.StatusCode() != http.StatusOK {
			return errs.NewHTTPError(resp.StatusCode(), string(resp.Body()), "get card")
		}
		parsed, err := decodeCard(resp.Body())
		if err != nil {
			return &errs.ClassifiedError{Category: errs.Irrecoverable, Underlying: err}
		}
		card = parsed
		return nil
	})
	if err != nil {
		return nil, err
	}
	return card, nil
}

// doWithRetry runs fn with up to maxRetries immediate retries. Irrecoverable
// errors fail fast regardless of the remaining budget.
func (c *Client) doWithRetry(operation string, fn func() error) error {
	policy := backoff.WithMaxRetries(&backoff.ZeroBackOff{}, uint64(c.maxRetries))
	err := backoff.Retry(func() error {
		callErr := fn()
		if callErr == nil {
			return nil
		}
		if errs.IsIrrecoverable(callErr) {
			return backoff.Permanent(callErr)
		}
		return callErr
	}, policy)
	if err != nil {
		fetchFailuresTotal.WithLabelValues(operation).Inc()
	}
	return err
}

// wireCard accepts both the current "id" field name and the legacy "_id"
// alias some serializers still emit.
type wireCard struct {
	model.Card
	AltID string `json:"_id"`
}

func decodeCard(body []byte) (*model.Card, error) {
	var w wireCard
	if err := json.Unmarshal(body, &w); err != nil {
		return nil, fmt.Errorf("decode card: %w", err)
	}
	if w.Card.ID == "" {
		w.Card.ID = w.AltID
	}
	return &w.Card, nil
}

func decodePage(body []byte) (*model.CardPage, error) {
	var raw struct {
		Moments    []json.RawMessage `json:"moments"`
		NextCursor *string           `json:"nextCursor"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("decode page: %w", err)
	}
	page := &model.CardPage{
		Moments:    make([]*model.Card, 0, len(raw.Moments)),
		NextCursor: raw.NextCursor,
	}
	for _, item := range raw.Moments {
		card, err := decodeCard(item)
		if err != nil {
			return nil, err
		}
		page.Moments = append(page.Moments, card)
	}
	return page, nil
}
