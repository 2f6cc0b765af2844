// Package factory constructs the card store configured for a service binary.
package factory

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/FawkesguyD/Love/internal/config"
	"github.com/FawkesguyD/Love/internal/store"
	"github.com/FawkesguyD/Love/internal/store/postgres"
	"github.com/FawkesguyD/Love/internal/store/sqlite"
)

// NewStore opens the store selected by cfg.DBDriver. Postgres runs its
// embedded migrations before returning.
func NewStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (store.Store, error) {
	switch cfg.DBDriver {
	case "postgres":
		st, err := postgres.New(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres store: %w", err)
		}
		log.Info().Msg("Using Postgres card store")
		return st, nil
	case "sqlite":
		st, err := sqlite.New(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		log.Info().Str("path", cfg.SQLitePath).Msg("Using SQLite card store")
		return st, nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER: %s", cfg.DBDriver)
	}
}
