// Package timelineuiservice boots the timeline UI service.
package timelineuiservice

import (
	"time"

	"github.com/FawkesguyD/Love/client"
	"github.com/FawkesguyD/Love/internal/config"
	"github.com/FawkesguyD/Love/internal/platform/httpserver"
	"github.com/FawkesguyD/Love/internal/platform/logger"
	"github.com/FawkesguyD/Love/internal/timelineui"
)

// Run starts the timeline UI and blocks until shutdown or error.
func Run() error {
	log := logger.New("timeline-ui")

	cfg, err := config.New()
	if err != nil {
		log.Error().Err(err).Msg("Failed to load configuration")
		return err
	}

	ctx, stop := httpserver.NewContext()
	defer stop()

	src := client.New(cfg.MomentsBaseURL,
		client.WithHTTPTimeout(time.Duration(cfg.RequestTimeoutMs)*time.Millisecond),
		client.WithCacheTTL(time.Duration(cfg.CacheTTLMs)*time.Millisecond),
		client.WithMaxMoments(cfg.MaxMoments),
		client.WithMaxRetries(cfg.MaxRetries),
		client.WithHydrateWorkers(cfg.HydrateWorkers),
	)

	router := timelineui.NewRouter(src, timelineui.Config{
		MomentsBaseURL:      cfg.MomentsBaseURL,
		TimerBaseURL:        cfg.TimerBaseURL,
		ImageBaseURL:        cfg.MomentsBaseURL + "/api/images",
		RequestTimeoutMs:    cfg.RequestTimeoutMs,
		CacheTTLMs:          cfg.CacheTTLMs,
		MaxMoments:          cfg.MaxMoments,
		BatchSize:           cfg.BatchSize,
		MaxRetries:          cfg.MaxRetries,
		TimerSyncIntervalMs: 20000,
	}, log)

	server := httpserver.New(ctx, cfg.TimelineUIAddr(), router)
	return httpserver.Serve(ctx, server, log)
}
