package main

import (
	"context"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/gokatarajesh/trivia-api/internal/app"
	"github.com/gokatarajesh/trivia-api/internal/config"
)

const configTimeout = 10 * time.Second

func main() {
	if os.Getenv("APP_ENV") != "production" {
		if err := godotenv.Load("configs/.env"); err != nil {
			log.Warn().Err(err).Msg("configs/.env not loaded; using process environment")
		}
	}

	cfg, err := loadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// the application outlives config loading; Run owns signal handling
	ctx := context.Background()
	trivia, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("store", cfg.StoreDriver).Msg("failed to build trivia api")
	}
	if err := trivia.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("trivia api stopped with error")
	}
}

func loadConfig() (*config.App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), configTimeout)
	defer cancel()
	return config.Load(ctx)
}
