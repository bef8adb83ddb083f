package main

import (
	"context"
	"flag"
	"os"

	"github.com/rs/zerolog"

	"github.com/donovan-vargas/recipe-app-api/config"
	"github.com/donovan-vargas/recipe-app-api/internal/database"
	"github.com/donovan-vargas/recipe-app-api/internal/service"
)

func main() {
	log := zerolog.New(os.Stdout).With().Timestamp().Str("role", "createsuperuser").Logger()

	email := flag.String("email", "", "superuser email address")
	password := flag.String("password", "", "superuser password")
	flag.Parse()

	if *email == "" || *password == "" {
		log.Fatal().Msg("both -email and -password are required")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	db, err := database.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := database.RunMigrations(db); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	user, err := service.NewUserService(db).CreateSuperuser(context.Background(), *email, *password)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create superuser")
	}
	log.Info().Uint("id", user.ID).Str("email", user.Email).Msg("superuser created")
}
