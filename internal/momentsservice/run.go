// Package momentsservice boots the moments HTTP service.
package momentsservice

import (
	"time"

	"github.com/FawkesguyD/Love/internal/api"
	"github.com/FawkesguyD/Love/internal/config"
	"github.com/FawkesguyD/Love/internal/factory"
	"github.com/FawkesguyD/Love/internal/platform/httpserver"
	"github.com/FawkesguyD/Love/internal/platform/logger"
)

// Run starts the moments service and blocks until shutdown or error.
func Run() error {
	log := logger.New("moments-service")

	cfg, err := config.New()
	if err != nil {
		log.Error().Err(err).Msg("Failed to load configuration")
		return err
	}

	ctx, stop := httpserver.NewContext()
	defer stop()

	st, err := factory.NewStore(ctx, cfg, log)
	if err != nil {
		log.Error().Err(err).Msg("Card store unavailable")
		return err
	}
	defer func() { _ = st.Close() }()

	requestTimeout := time.Duration(cfg.RequestTimeoutMs) * time.Millisecond
	router := api.NewRouter(st, cfg.PhotostockBaseURL, requestTimeout, log)

	server := httpserver.New(ctx, cfg.MomentsAddr(), router)
	return httpserver.Serve(ctx, server, log)
}
