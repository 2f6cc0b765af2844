package main

import (
	"os"

	"github.com/rs/zerolog/log"

	"github.com/FawkesguyD/Love/internal/carouselservice"
)

func main() {
	if err := carouselservice.Run(); err != nil {
		log.Error().Err(err).Msg("carousel-service exited with error")
		os.Exit(1)
	}
}
