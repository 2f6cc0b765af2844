package main

import (
	"os"

	"github.com/rs/zerolog/log"

	"github.com/FawkesguyD/Love/internal/timelineuiservice"
)

func main() {
	if err := timelineuiservice.Run(); err != nil {
		log.Error().Err(err).Msg("timeline-ui exited with error")
		os.Exit(1)
	}
}
