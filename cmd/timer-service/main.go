package main

import (
	"os"

	"github.com/rs/zerolog/log"

	"github.com/FawkesguyD/Love/internal/timerservice"
)

func main() {
	if err := timerservice.Run(); err != nil {
		log.Error().Err(err).Msg("timer-service exited with error")
		os.Exit(1)
	}
}
