// Package sqlite implements the card store on SQLite via modernc.org/sqlite.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/FawkesguyD/Love/internal/model"
	"github.com/FawkesguyD/Love/internal/store"
)

type sqliteStore struct {
	db *sql.DB
}

// New opens (or creates) a SQLite-backed card store at path and ensures the
// schema exists.
func New(path string) (store.Store, error) {
	db, err := Open(path)
	if err != nil {
		return nil, err
	}
	return NewWithDB(db)
}

// NewWithDB wires the store over an existing connection and ensures the schema.
func NewWithDB(db *sql.DB) (store.Store, error) {
	s := &sqliteStore{db: db}
	if err := s.ensureSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *sqliteStore) Cards() store.Cards { return &cards{db: s.db} }

func (s *sqliteStore) HealthPing(ctx context.Context) error { return s.db.PingContext(ctx) }

func (s *sqliteStore) Close() error { return s.db.Close() }

// Dates are stored as unix nanoseconds so the (date, id) composite index
// orders correctly; RFC3339 strings with variable fraction digits do not
// sort chronologically.
func (s *sqliteStore) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS cards (
    card_id      TEXT PRIMARY KEY,
    title        TEXT NOT NULL,
    body         TEXT,
    date_unix_ns INTEGER NOT NULL,
    images       TEXT NOT NULL,
    visibility   TEXT NOT NULL DEFAULT 'public',
    tags         TEXT NOT NULL DEFAULT '[]',
    created_at   INTEGER NOT NULL,
    updated_at   INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS cards_date_id ON cards(date_unix_ns, card_id);
CREATE INDEX IF NOT EXISTS cards_visibility_date_id ON cards(visibility, date_unix_ns, card_id);
`)
	return err
}

type cards struct{ db *sql.DB }

func (c *cards) Create(ctx context.Context, in *model.Card) (*model.Card, error) {
	id := in.ID
	if id == "" {
		id = uuid.New().String()
	}
	now := time.Now().UTC()

	images, err := json.Marshal(in.Images)
	if err != nil {
		return nil, err
	}
	tags, err := json.Marshal(emptyIfNil(in.Tags))
	if err != nil {
		return nil, err
	}

	_, err = c.db.ExecContext(ctx, `
        INSERT INTO cards (card_id, title, body, date_unix_ns, images, visibility, tags, created_at, updated_at)
        VALUES (?,?,?,?,?,?,?,?,?)
    `, id, in.Title, in.Text, in.Date.UTC().UnixNano(), string(images), string(in.Visibility), string(tags), now.UnixNano(), now.UnixNano())
	if err != nil {
		return nil, err
	}

	out := *in
	out.ID = id
	out.Date = in.Date.UTC()
	out.Tags = emptyIfNil(in.Tags)
	out.CreatedAt = now
	out.UpdatedAt = now
	return &out, nil
}

func (c *cards) Get(ctx context.Context, id string) (*model.Card, error) {
	row := c.db.QueryRowContext(ctx, `
        SELECT card_id, title, body, date_unix_ns, images, visibility, tags, created_at, updated_at
        FROM cards WHERE card_id = ?
    `, id)
	return scanCard(row)
}

func (c *cards) Update(ctx context.Context, id string, patch model.CardPatch) (*model.Card, error) {
	sets := []string{"updated_at = ?"}
	args := []interface{}{time.Now().UTC().UnixNano()}

	if patch.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *patch.Title)
	}
	if patch.Text != nil {
		sets = append(sets, "body = ?")
		args = append(args, *patch.Text)
	}
	if patch.Date != nil {
		sets = append(sets, "date_unix_ns = ?")
		args = append(args, patch.Date.UTC().UnixNano())
	}
	if patch.Images != nil {
		images, err := json.Marshal(patch.Images)
		if err != nil {
			return nil, err
		}
		sets = append(sets, "images = ?")
		args = append(args, string(images))
	}
	if patch.Visibility != nil {
		sets = append(sets, "visibility = ?")
		args = append(args, string(*patch.Visibility))
	}
	if patch.TagsSet {
		tags, err := json.Marshal(emptyIfNil(patch.Tags))
		if err != nil {
			return nil, err
		}
		sets = append(sets, "tags = ?")
		args = append(args, string(tags))
	}

	args = append(args, id)
	res, err := c.db.ExecContext(ctx, "UPDATE cards SET "+strings.Join(sets, ", ")+" WHERE card_id = ?", args...)
	if err != nil {
		return nil, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, model.ErrNotFound
	}
	return c.Get(ctx, id)
}

func (c *cards) Delete(ctx context.Context, id string) error {
	res, err := c.db.ExecContext(ctx, `DELETE FROM cards WHERE card_id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (c *cards) List(ctx context.Context, q store.ListQuery) ([]*model.Card, error) {
	var where []string
	var args []interface{}

	if q.From != nil {
		where = append(where, "date_unix_ns >= ?")
		args = append(args, q.From.UTC().UnixNano())
	}
	if q.To != nil {
		where = append(where, "date_unix_ns <= ?")
		args = append(args, q.To.UTC().UnixNano())
	}
	if q.Visibility != nil {
		where = append(where, "visibility = ?")
		args = append(args, string(*q.Visibility))
	}
	if q.After != nil {
		op := ">"
		if q.Order == model.OrderDesc {
			op = "<"
		}
		where = append(where, fmt.Sprintf("(date_unix_ns %s ? OR (date_unix_ns = ? AND card_id %s ?))", op, op))
		ns := q.After.Date.UTC().UnixNano()
		args = append(args, ns, ns, q.After.ID)
	}

	dir := "ASC"
	if q.Order == model.OrderDesc {
		dir = "DESC"
	}

	query := `SELECT card_id, title, body, date_unix_ns, images, visibility, tags, created_at, updated_at FROM cards`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += fmt.Sprintf(" ORDER BY date_unix_ns %s, card_id %s LIMIT ?", dir, dir)
	args = append(args, q.Limit)

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []*model.Card
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, card)
	}
	return out, rows.Err()
}

func (c *cards) Sample(ctx context.Context) (*model.Card, error) {
	row := c.db.QueryRowContext(ctx, `
        SELECT card_id, title, body, date_unix_ns, images, visibility, tags, created_at, updated_at
        FROM cards ORDER BY RANDOM() LIMIT 1
    `)
	return scanCard(row)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanCard(row rowScanner) (*model.Card, error) {
	var (
		out        model.Card
		body       sql.NullString
		dateNs     int64
		images     string
		visibility string
		tags       string
		createdNs  int64
		updatedNs  int64
	)
	err := row.Scan(&out.ID, &out.Title, &body, &dateNs, &images, &visibility, &tags, &createdNs, &updatedNs)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if body.Valid {
		out.Text = &body.String
	}
	out.Date = time.Unix(0, dateNs).UTC()
	out.Visibility = model.Visibility(visibility)
	out.CreatedAt = time.Unix(0, createdNs).UTC()
	out.UpdatedAt = time.Unix(0, updatedNs).UTC()

	if err := json.Unmarshal([]byte(images), &out.Images); err != nil {
		return nil, fmt.Errorf("card %s: bad images column: %w", out.ID, err)
	}
	if err := json.Unmarshal([]byte(tags), &out.Tags); err != nil {
		return nil, fmt.Errorf("card %s: bad tags column: %w", out.ID, err)
	}
	return &out, nil
}

func emptyIfNil(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
