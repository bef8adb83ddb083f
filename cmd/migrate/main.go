package main

import (
	"os"

	"github.com/rs/zerolog"

	"github.com/donovan-vargas/recipe-app-api/config"
	"github.com/donovan-vargas/recipe-app-api/internal/database"
)

func main() {
	log := zerolog.New(os.Stdout).With().Timestamp().Str("role", "migrate").Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	db, err := database.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	if err := database.RunMigrations(db); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}
	log.Info().Msg("migrations applied")
}
