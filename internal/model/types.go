package model

import "time"

// Visibility controls whether a card is shown on the public timeline.
type Visibility string

const (
	VisibilityDraft  Visibility = "draft"
	VisibilityPublic Visibility = "public"
)

// Valid reports whether v is one of the known visibility values.
func (v Visibility) Valid() bool {
	return v == VisibilityDraft || v == VisibilityPublic
}

// Order is the scan direction over the (date, id) composite key.
type Order string

const (
	OrderAsc  Order = "asc"
	OrderDesc Order = "desc"
)

// Valid reports whether o is one of the known order values.
func (o Order) Valid() bool {
	return o == OrderAsc || o == OrderDesc
}

// Card is a single timeline moment.
type Card struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	Text       *string    `json:"text,omitempty"`
	Date       time.Time  `json:"date"`
	Images     []string   `json:"images"`
	Visibility Visibility `json:"visibility"`
	Tags       []string   `json:"tags"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

// CardPatch carries a partial update. Nil fields are left untouched.
type CardPatch struct {
	Title      *string
	Text       *string
	Date       *time.Time
	Images     []string
	Visibility *Visibility
	Tags       []string
	TagsSet    bool
}

// IsEmpty reports whether the patch changes nothing.
func (p CardPatch) IsEmpty() bool {
	return p.Title == nil && p.Text == nil && p.Date == nil &&
		p.Images == nil && p.Visibility == nil && !p.TagsSet
}

// ListCardsRequest captures filters for a paginated card scan.
type ListCardsRequest struct {
	Limit      int
	Order      Order
	Cursor     string
	From       *time.Time
	To         *time.Time
	Visibility *Visibility
}

// CardPage is one page of a cursor-chained listing.
type CardPage struct {
	Moments    []*Card `json:"moments"`
	NextCursor *string `json:"nextCursor"`
}
