package main

import (
	"context"
	"database/sql"
	"flag"
	"os"

	"inhouse-tracker/internal/constants"
	fxmodules "inhouse-tracker/internal/fx"
	"inhouse-tracker/internal/logger"
	"inhouse-tracker/internal/seed"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

func main() {
	file := flag.String("file", "fixture.json", "JSON fixture with players, games and ratings")
	flag.Parse()

	log := logger.New()

	var importer *seed.Importer
	app := fx.New(
		fxmodules.StoreModule,
		fx.Provide(seed.NewImporter),
		fx.Populate(&importer),
		fx.Invoke(closeOnStop),
		fx.NopLogger,
	)
	if err := app.Err(); err != nil {
		log.Fatal().Err(err).Msg("failed to build seed app")
	}

	startCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
	defer cancel()
	if err := app.Start(startCtx); err != nil {
		log.Fatal().Err(err).Msg("failed to start seed app")
	}

	runErr := run(context.Background(), importer, log, *file)

	stopCtx, cancelStop := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
	defer cancelStop()
	if err := app.Stop(stopCtx); err != nil {
		log.Error().Err(err).Msg("failed to stop seed app")
	}

	if runErr != nil {
		os.Exit(1)
	}
}

func closeOnStop(lc fx.Lifecycle, db *sql.DB, logger zerolog.Logger) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			if err := db.Close(); err != nil {
				logger.Warn().Err(err).Msg("error closing database connection")
				return err
			}
			return nil
		},
	})
}

func run(ctx context.Context, importer *seed.Importer, logger zerolog.Logger, path string) error {
	f, err := os.Open(path)
	if err != nil {
		logger.Error().Err(err).Str("file", path).Msg("failed to open fixture")
		return err
	}
	defer f.Close()

	fixture, err := seed.Decode(f)
	if err != nil {
		logger.Error().Err(err).Str("file", path).Msg("invalid fixture")
		return err
	}

	sum, err := importer.Import(ctx, fixture)
	if err != nil {
		logger.Error().Err(err).Str("file", path).Msg("import stopped")
		return err
	}

	logger.Info().
		Str("file", path).
		Int("players", sum.Players).
		Int("games", sum.Games).
		Int("ratings", sum.Ratings).
		Msg("seed complete")
	return nil
}
