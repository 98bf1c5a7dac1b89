package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"inhouse-tracker/internal/constants"
	"inhouse-tracker/internal/db"
	"inhouse-tracker/internal/domain"

	"github.com/rs/zerolog"
)

type PlayerRepository struct {
	queries *db.Queries
	db      *sql.DB
	logger  zerolog.Logger
}

func NewPlayerRepository(sqlDB *sql.DB, queries *db.Queries, logger zerolog.Logger) *PlayerRepository {
	return &PlayerRepository{
		queries: queries,
		db:      sqlDB,
		logger:  logger,
	}
}

func (r *PlayerRepository) Get(ctx context.Context, playerID string) (*domain.Player, error) {
	player, err := r.queries.GetPlayer(ctx, playerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("player %s: %w", playerID, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	return &domain.Player{
		ID:        player.ID,
		Name:      player.Name,
		CreatedAt: player.CreatedAt,
		UpdatedAt: player.UpdatedAt,
	}, nil
}

// UpsertBatch writes players in chunks of constants.DBBatchSize, one
// transaction per chunk. Names are refreshed; created_at is kept from the
// first insert.
func (r *PlayerRepository) UpsertBatch(ctx context.Context, players []domain.Player) error {
	for start := 0; start < len(players); start += constants.DBBatchSize {
		end := min(start+constants.DBBatchSize, len(players))
		if err := r.upsertChunk(ctx, players[start:end]); err != nil {
			return err
		}
	}

	r.logger.Debug().Int("players", len(players)).Msg("players upserted")
	return nil
}

func (r *PlayerRepository) upsertChunk(ctx context.Context, players []domain.Player) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	qtx := r.queries.WithTx(tx)
	now := time.Now().UTC()

	for _, player := range players {
		err := qtx.UpsertPlayer(ctx, db.UpsertPlayerParams{
			ID:        player.ID,
			Name:      player.Name,
			CreatedAt: now,
			UpdatedAt: now,
		})
		if err != nil {
			return fmt.Errorf("failed to upsert player %s: %w", player.ID, err)
		}
	}

	return tx.Commit()
}
