package main

import (
	"os"

	"github.com/rs/zerolog/log"

	"github.com/FawkesguyD/Love/internal/momentsservice"
)

func main() {
	if err := momentsservice.Run(); err != nil {
		log.Error().Err(err).Msg("moments-service exited with error")
		os.Exit(1)
	}
}
