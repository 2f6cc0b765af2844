// Package carouselservice boots the carousel HTTP service.
package carouselservice

import (
	"github.com/FawkesguyD/Love/internal/carousel"
	"github.com/FawkesguyD/Love/internal/config"
	"github.com/FawkesguyD/Love/internal/photostock"
	"github.com/FawkesguyD/Love/internal/platform/httpserver"
	"github.com/FawkesguyD/Love/internal/platform/logger"
)

// Run starts the carousel service and blocks until shutdown or error.
func Run() error {
	log := logger.New("carousel-service")

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

	store := photostock.NewService(client, cfg.S3Bucket, log)
	svc := carousel.NewService(store, log)
	router := carousel.NewRouter(svc, log)

	server := httpserver.New(ctx, cfg.CarouselAddr(), router)
	return httpserver.Serve(ctx, server, log)
}
