package main

import (
	"flag"

	"github.com/rs/zerolog/log"

	"github.com/mveld/ringctl/internal/logging"
	"github.com/mveld/ringctl/internal/streamd"
)

func main() {
	configPath := flag.String("config", "cmd/streamctl/config.toml", "path to streamctl config")
	flag.Parse()

	logging.ConfigureRuntime()

	cfg, err := loadServiceConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load streamctl config")
	}
	log.Info().Str("path", *configPath).Msg("loaded streamctl config")

	server, err := streamd.NewServer(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to start streamd")
	}
	if err := server.Serve(); err != nil {
		log.Fatal().Err(err).Msg("streamd stopped")
	}
}
