// Package postgres implements the card store on PostgreSQL via the pgx
// stdlib driver. Schema is managed with embedded goose migrations.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/FawkesguyD/Love/internal/model"
	"github.com/FawkesguyD/Love/internal/store"
	"github.com/FawkesguyD/Love/internal/store/postgres/migrations"
)

// Open opens a PostgreSQL connection and verifies connectivity.
func Open(dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres DSN is empty")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// New opens a Postgres-backed card store and runs pending migrations.
func New(ctx context.Context, dsn string) (store.Store, error) {
	db, err := Open(dsn)
	if err != nil {
		return nil, err
	}
	if err := runMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}
	return &pgStore{db: db}, nil
}

// NewWithDB wires the store over an existing connection without migrating.
func NewWithDB(db *sql.DB) store.Store { return &pgStore{db: db} }

func runMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, ".")
}

type pgStore struct{ db *sql.DB }

func (s *pgStore) Cards() store.Cards { return &cards{db: s.db} }

func (s *pgStore) HealthPing(ctx context.Context) error { return s.db.PingContext(ctx) }

func (s *pgStore) Close() error { return s.db.Close() }

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
        INSERT INTO cards (card_id, title, body, date, images, visibility, tags, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$8)
    `, id, in.Title, in.Text, in.Date.UTC(), string(images), string(in.Visibility), string(tags), now)
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
        SELECT card_id, title, body, date, images, visibility, tags, created_at, updated_at
        FROM cards WHERE card_id = $1
    `, id)
	return scanCard(row)
}

func (c *cards) Update(ctx context.Context, id string, patch model.CardPatch) (*model.Card, error) {
	sets := []string{"updated_at = now()"}
	var args []interface{}
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if patch.Title != nil {
		sets = append(sets, "title = "+arg(*patch.Title))
	}
	if patch.Text != nil {
		sets = append(sets, "body = "+arg(*patch.Text))
	}
	if patch.Date != nil {
		sets = append(sets, "date = "+arg(patch.Date.UTC()))
	}
	if patch.Images != nil {
		images, err := json.Marshal(patch.Images)
		if err != nil {
			return nil, err
		}
		sets = append(sets, "images = "+arg(string(images)))
	}
	if patch.Visibility != nil {
		sets = append(sets, "visibility = "+arg(string(*patch.Visibility)))
	}
	if patch.TagsSet {
		tags, err := json.Marshal(emptyIfNil(patch.Tags))
		if err != nil {
			return nil, err
		}
		sets = append(sets, "tags = "+arg(string(tags)))
	}

	query := fmt.Sprintf(`
        UPDATE cards SET %s WHERE card_id = %s
        RETURNING card_id, title, body, date, images, visibility, tags, created_at, updated_at
    `, strings.Join(sets, ", "), arg(id))
	return scanCard(c.db.QueryRowContext(ctx, query, args...))
}

func (c *cards) Delete(ctx context.Context, id string) error {
	res, err := c.db.ExecContext(ctx, `DELETE FROM cards WHERE card_id = $1`, id)
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
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if q.From != nil {
		where = append(where, "date >= "+arg(q.From.UTC()))
	}
	if q.To != nil {
		where = append(where, "date <= "+arg(q.To.UTC()))
	}
	if q.Visibility != nil {
		where = append(where, "visibility = "+arg(string(*q.Visibility)))
	}
	if q.After != nil {
		op := ">"
		if q.Order == model.OrderDesc {
			op = "<"
		}
		// Row-value comparison uses the composite (date, card_id) index.
		where = append(where, fmt.Sprintf("(date, card_id) %s (%s, %s)", op, arg(q.After.Date.UTC()), arg(q.After.ID)))
	}

	dir := "ASC"
	if q.Order == model.OrderDesc {
		dir = "DESC"
	}

	query := `SELECT card_id, title, body, date, images, visibility, tags, created_at, updated_at FROM cards`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += fmt.Sprintf(" ORDER BY date %s, card_id %s LIMIT %s", dir, dir, arg(q.Limit))

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
        SELECT card_id, title, body, date, images, visibility, tags, created_at, updated_at
        FROM cards ORDER BY random() LIMIT 1
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
		images     string
		visibility string
		tags       string
	)
	err := row.Scan(&out.ID, &out.Title, &body, &out.Date, &images, &visibility, &tags, &out.CreatedAt, &out.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if body.Valid {
		out.Text = &body.String
	}
	out.Date = out.Date.UTC()
	out.Visibility = model.Visibility(visibility)
	out.CreatedAt = out.CreatedAt.UTC()
	out.UpdatedAt = out.UpdatedAt.UTC()

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
