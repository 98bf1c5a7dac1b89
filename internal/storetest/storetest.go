// Package storetest builds migrated SQLite stores for tests.
package storetest

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"inhouse-tracker/internal/config"
	"inhouse-tracker/internal/database"
	"inhouse-tracker/internal/db"
	"inhouse-tracker/internal/domain"
	"inhouse-tracker/internal/repository"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type Store struct {
	DB      *sql.DB
	Queries *db.Queries
	Players *repository.PlayerRepository
	Games   *repository.GameRepository
	Ratings *repository.RatingRepository
}

func New(t testing.TB) *Store {
	t.Helper()

	cfg := &config.Config{DBPath: filepath.Join(t.TempDir(), "inhouse.db")}
	sqlDB, err := database.New(cfg, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	queries := db.New(sqlDB)
	logger := zerolog.Nop()

	return &Store{
		DB:      sqlDB,
		Queries: queries,
		Players: repository.NewPlayerRepository(sqlDB, queries, logger),
		Games:   repository.NewGameRepository(sqlDB, queries, repository.NewLastGameFinder(), logger),
		Ratings: repository.NewRatingRepository(sqlDB, queries, logger),
	}
}

// Seat is one participant of a game added through AddGame.
type Seat struct {
	PlayerID string
	Side     domain.Side
	Role     domain.Role
}

func (s *Store) AddPlayer(t testing.TB, id, name string) {
	t.Helper()
	require.NoError(t, s.Players.UpsertBatch(context.Background(), []domain.Player{{ID: id, Name: name}}))
}

func (s *Store) AddRating(t testing.TB, playerID, serverID string, role domain.Role, mmr float64) {
	t.Helper()
	require.NoError(t, s.Ratings.Upsert(context.Background(), domain.PlayerRating{
		PlayerID: playerID,
		ServerID: serverID,
		Role:     role,
		MMR:      mmr,
	}))
}

// AddGame stores a game; a nil winner leaves the result unset.
func (s *Store) AddGame(t testing.TB, serverID string, startedAt time.Time, winner *domain.Side, seats ...Seat) int64 {
	t.Helper()

	participants := make([]domain.GameParticipant, len(seats))
	for i, seat := range seats {
		participants[i] = domain.GameParticipant{PlayerID: seat.PlayerID, Side: seat.Side, Role: seat.Role}
	}

	id, err := s.Games.Create(context.Background(), domain.Game{
		ServerID:  serverID,
		StartedAt: startedAt,
		Winner:    winner,
	}, participants)
	require.NoError(t, err)
	return id
}

func Side(s domain.Side) *domain.Side {
	return &s
}
