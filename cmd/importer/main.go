package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/gokatarajesh/trivia-api/internal/config"
	"github.com/gokatarajesh/trivia-api/internal/db/repository"
	"github.com/gokatarajesh/trivia-api/internal/logging"
	"github.com/gokatarajesh/trivia-api/internal/question"
	"github.com/gokatarajesh/trivia-api/internal/question/external"
)

func main() {
	var (
		amount   = flag.Int("amount", 20, "Questions to request from each source")
		category = flag.String("category", "", "Only import into this bank category (e.g. Science); empty maps each question by name")
		source   = flag.String("source", "all", "Source to import from: opentdb, triviaapi, or all")
		timeout  = flag.Duration("timeout", 30*time.Second, "Overall import timeout")
	)
	flag.Parse()

	if os.Getenv("APP_ENV") != "production" {
		_ = godotenv.Load("configs/.env")
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	logger := logging.New(cfg.Name+"-importer", cfg.Env, cfg.LogLevel)

	var store question.Store
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		pool, err := pgxpool.New(ctx, cfg.Postgres.ConnString())
		if err != nil {
			logger.Fatal().Err(err).Msg("connect postgres")
		}
		defer pool.Close()
		store = repository.NewPostgresStore(pool)
	case config.DriverSQLite:
		s, err := repository.OpenSQLite(ctx, cfg.SQLite.Path)
		if err != nil {
			logger.Fatal().Err(err).Msg("open sqlite")
		}
		defer s.Close()
		store = s
	default:
		logger.Fatal().Str("driver", cfg.StoreDriver).Msg("importing needs a persistent store (postgres or sqlite)")
	}

	var (
		opentdb question.OpenTDBSource
		trivia  question.TriviaSource
	)
	if *source == "all" || *source == "opentdb" {
		opentdb = external.NewOpenTDBClient("", nil)
	}
	if *source == "all" || *source == "triviaapi" {
		trivia = external.NewTriviaAPIClient("", os.Getenv("TRIVIA_API_KEY"), nil)
	}
	if opentdb == nil && trivia == nil {
		logger.Fatal().Str("source", *source).Msg("unknown source. Use: opentdb, triviaapi, or all")
	}

	importer := question.NewImporter(store, opentdb, trivia, logger)
	res, err := importer.Import(ctx, question.ImportOptions{Amount: *amount, Category: *category})
	if err != nil {
		logger.Fatal().Err(err).Int("imported", res.Imported).Msg("import failed")
	}
	logger.Info().Int("imported", res.Imported).Int("skipped", res.Skipped).Msg("done")
}
