// Package photostockservice boots the photostock HTTP service.
package photostockservice

import (
	"github.com/FawkesguyD/Love/internal/config"
	"github.com/FawkesguyD/Love/internal/photostock"
	"github.com/FawkesguyD/Love/internal/platform/httpserver"
	"github.com/FawkesguyD/Love/internal/platform/logger"
)

// Run starts the photostock service and blocks until shutdown or error.
func Run() error {
	log := logger.New("photostock-service")

	cfg, err := config.New()
	if err != nil {
		log.Error().Err(err).Msg("Failed to load configuration")
		return err
	}

	ctx, stop := httpserver.NewContext()
	defer stop()

	client, err := photostock.NewS3Client(ctx, cfg)
	if err != nil {
		log.Error().Err(err).Msg("Object storage unavailable")
		return err
	}

	svc := photostock.NewService(client, cfg.S3Bucket, log)
	router := photostock.NewRouter(svc, log)

	server := httpserver.New(ctx, cfg.PhotostockAddr(), router)
	return httpserver.Serve(ctx, server, log)
}
