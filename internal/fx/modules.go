package fx

import (
	"database/sql"

	"inhouse-tracker/internal/api"
	"inhouse-tracker/internal/config"
	"inhouse-tracker/internal/database"
	"inhouse-tracker/internal/db"
	"inhouse-tracker/internal/logger"
	"inhouse-tracker/internal/metrics"
	"inhouse-tracker/internal/repository"
	"inhouse-tracker/internal/server"
	"inhouse-tracker/internal/service"

	"go.uber.org/fx"
)

func ProvideQueries(sqlDB *sql.DB) *db.Queries {
	return db.New(sqlDB)
}

// StoreModule is everything needed to read and write the record store.
var StoreModule = fx.Options(
	logger.Module,
	config.Module,
	fx.Provide(database.New),
	fx.Provide(ProvideQueries),
	// repos
	fx.Provide(repository.NewPlayerRepository),
	fx.Provide(repository.NewGameRepository),
	fx.Provide(repository.NewRatingRepository),
	fx.Provide(repository.NewLastGameFinder),
)

var Module = fx.Options(
	StoreModule,
	// server names
	fx.Provide(api.NewDiscordClient),
	fx.Provide(
		fx.Annotate(api.NewServerDirectory, fx.As(new(service.ServerNamer))),
	),
	// svc
	fx.Provide(service.NewStatsService),
	fx.Provide(metrics.New),
	// server
	fx.Provide(server.NewTrackerServer),
)
