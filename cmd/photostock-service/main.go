package main

import (
	"os"

	"github.com/rs/zerolog/log"

	"github.com/FawkesguyD/Love/internal/photostockservice"
)

func main() {
	if err := photostockservice.Run(); err != nil {
		log.Error().Err(err).Msg("photostock-service exited with error")
		os.Exit(1)
	}
}
