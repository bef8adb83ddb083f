package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/donovan-vargas/recipe-app-api/config"
	"github.com/donovan-vargas/recipe-app-api/internal/api"
	"github.com/donovan-vargas/recipe-app-api/internal/database"
	"github.com/donovan-vargas/recipe-app-api/internal/router"
	"github.com/donovan-vargas/recipe-app-api/internal/server"
	"github.com/donovan-vargas/recipe-app-api/internal/service"
	"github.com/donovan-vargas/recipe-app-api/internal/storage"
)

func main() {
	log := zerolog.New(os.Stdout).With().Timestamp().Str("role", "api").Logger()

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

	redisClient, err := database.NewRedisClient(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	var store storage.Store
	switch cfg.StorageBackend {
	case config.StorageS3:
		store, err = storage.NewS3Store(context.Background(), cfg.S3Bucket, cfg.AWSRegion)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize S3 storage")
		}
	default:
		store = storage.NewLocalStore(cfg.MediaRoot, cfg.MediaURL)
	}

	userService := service.NewUserService(db)
	tokenService := service.NewTokenService(userService, database.NewRedisTokenStore(redisClient), cfg.TokenTTL)
	recipeService := service.NewRecipeService(db)
	imageService := service.NewImageService(recipeService, store, log)

	userHandler := api.NewUserHandler(userService, tokenService, log)
	recipeHandler := api.NewRecipeHandler(recipeService, imageService, tokenService, cfg.MaxUploadBytes, log)

	srv := server.New(cfg.Addr(), router.New(cfg, userHandler, recipeHandler, log), log)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			log.Fatal().Err(err).Msg("server error")
		}
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	if err := srv.Shutdown(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("server shutdown error")
	}
	log.Info().Msg("server stopped")
}
