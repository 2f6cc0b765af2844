// Package cursor implements the opaque pagination token for card listings.
//
// A cursor encodes the (date, id) pair of the last record returned in a page,
// plus the scan order it was issued for. Clients must treat the token as
// opaque and only ever pass back a value previously received from the server.
package cursor

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-openapi/strfmt"

	"github.com/FawkesguyD/Love/internal/model"
)

type payload struct {
	Date  string `json:"date"`
	ID    string `json:"id"`
	Order string `json:"order"`
}

// Encode produces a URL-safe token for the position (date, id) in the given
// scan order. Date is normalized to UTC so the token round-trips exactly.
func Encode(date time.Time, id string, order model.Order) string {
	p := payload{
		Date:  date.UTC().Format(time.RFC3339Nano),
		ID:    id,
		Order: string(order),
	}
	raw, _ := json.Marshal(p)
	return base64.RawURLEncoding.EncodeToString(raw)
}

// Decode parses a token previously produced by Encode. Any input that was not
// produced by Encode fails with model.ErrInvalidCursor.
func Decode(token string) (time.Time, string, model.Order, error) {
	raw, err := base64.RawURLEncoding.DecodeString(trimPadding(token))
	if err != nil {
		return time.Time{}, "", "", fmt.Errorf("%w: not base64url", model.ErrInvalidCursor)
	}

	var p payload
	if err := json.Unmarshal(raw, &p); err != nil {
		return time.Time{}, "", "", fmt.Errorf("%w: not a cursor payload", model.ErrInvalidCursor)
	}
	if p.ID == "" {
		return time.Time{}, "", "", fmt.Errorf("%w: missing id", model.ErrInvalidCursor)
	}

	order := model.Order(p.Order)
	if !order.Valid() {
		return time.Time{}, "", "", fmt.Errorf("%w: bad order %q", model.ErrInvalidCursor, p.Order)
	}

	dt, err := strfmt.ParseDateTime(p.Date)
	if err != nil {
		return time.Time{}, "", "", fmt.Errorf("%w: bad date %q", model.ErrInvalidCursor, p.Date)
	}

	return time.Time(dt).UTC(), p.ID, order, nil
}

// trimPadding strips trailing '=' so tokens produced by padded encoders
// (the previous service generation) still decode.
func trimPadding(s string) string {
	for len(s) > 0 && s[len(s)-1] == '=' {
		s = s[:len(s)-1]
	}
	return s
}
