package client

import (
	"context"
	"net/http"

	errs "github.com/FawkesguyD/Love/client/internal/errors"
	"github.com/FawkesguyD/Love/internal/model"
)

// CreateCardRequest is the payload for CreateCard. Date must be RFC 3339.
type CreateCardRequest struct {
	Title      string   `json:"title"`
	Text       string   `json:"text,omitempty"`
	Date       string   `json:"date"`
	Images     []string `json:"images,omitempty"`
	Visibility string   `json:"visibility,omitempty"`
	Tags       []string `json:"tags,omitempty"`
}

// CreateCard stores a new moment and returns the created record.
// Creation is not retried: a network failure leaves the outcome unknown and
// repeating the call could write the moment twice.
func (c *Client) CreateCard(ctx context.Context, req CreateCardRequest) (*model.Card, error) {
	resp, err := c.rest.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		Post("/api/v1/cards")
	if err != nil {
		return nil, errs.NewNetworkError("create card", err)
	}
	if resp.StatusCode() != http.StatusCreated {
		return nil, errs.NewHTTPError(resp.StatusCode(), string(resp.Body()), "create card")
	}
	return decodeCard(resp.Body())
}

// DeleteCard removes a moment by id. Deleting is idempotent on the server
// side in the sense that a repeat returns 404, so it is safe to retry.
func (c *Client) DeleteCard(ctx context.Context, id string) error {
	return c.doWithRetry("delete_card", func() error {
		resp, err := c.rest.R().SetContext(ctx).Delete("/api/v1/cards/" + id)
		if err != nil {
			return errs.NewNetworkError("delete card", err)
		}
		if resp.StatusCode() != http.StatusNoContent {
			return errs.NewHTTPError(resp.StatusCode(), string(resp.Body()), "delete card")
		}
		return nil
	})
}
