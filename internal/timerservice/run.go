// Package timerservice boots the timer HTTP service.
package timerservice

import (
	"time"

	"github.com/FawkesguyD/Love/internal/config"
	"github.com/FawkesguyD/Love/internal/platform/httpserver"
	"github.com/FawkesguyD/Love/internal/platform/logger"
	"github.com/FawkesguyD/Love/internal/timer"
)

// Run starts the timer service and blocks until shutdown or error.
func Run() error {
	log := logger.New("timer-service")

	cfg, err := config.New()
	if err != nil {
		log.Error().Err(err).Msg("Failed to load configuration")
		return err
	}

	start, err := time.Parse(time.RFC3339, cfg.TimerStart)
	if err != nil {
		log.Error().Err(err).Str("timer_start", cfg.TimerStart).Msg("Invalid timer start instant")
		return err
	}

	ctx, stop := httpserver.NewContext()
	defer stop()

	router := timer.NewRouter(timer.NewService(start), log)

	server := httpserver.New(ctx, cfg.TimerAddr(), router)
	return httpserver.Serve(ctx, server, log)
}
