package repository

import (
	"context"
	"database/sql"
	"fmt"

	"inhouse-tracker/internal/db"
	"inhouse-tracker/internal/domain"

	"github.com/rs/zerolog"
)

type RatingRepository struct {
	queries *db.Queries
	db      *sql.DB
	logger  zerolog.Logger
}

func NewRatingRepository(sqlDB *sql.DB, queries *db.Queries, logger zerolog.Logger) *RatingRepository {
	return &RatingRepository{
		queries: queries,
		db:      sqlDB,
		logger:  logger,
	}
}

// Upsert creates the (player, server, role) rating on first use and overwrites
// the mmr afterwards. Rows are never deleted.
func (r *RatingRepository) Upsert(ctx context.Context, rating domain.PlayerRating) error {
	if !rating.Role.Valid() {
		return fmt.Errorf("%w: role %q", domain.ErrInvalidArgument, rating.Role)
	}
	return r.queries.UpsertPlayerRating(ctx, db.UpsertPlayerRatingParams{
		PlayerID: rating.PlayerID,
		ServerID: rating.ServerID,
		Role:     string(rating.Role),
		Mmr:      rating.MMR,
	})
}

// CountHigher counts ratings in the (server, role) scope with a strictly greater mmr.
func (r *RatingRepository) CountHigher(ctx context.Context, serverID string, role domain.Role, mmr float64) (int, error) {
	count, err := r.queries.CountHigherRatings(ctx, db.CountHigherRatingsParams{
		ServerID: serverID,
		Role:     string(role),
		Mmr:      mmr,
	})
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

// PlayerStats aggregates games and wins per (server, role) for one player.
// An empty serverID covers every server. Scopes without games are not returned.
func (r *RatingRepository) PlayerStats(ctx context.Context, playerID, serverID string) ([]domain.RatingStats, error) {
	rows, err := r.queries.GetPlayerRatingStats(ctx, db.GetPlayerRatingStatsParams{
		PlayerID: playerID,
		ServerID: serverID,
	})
	if err != nil {
		return nil, err
	}

	stats := make([]domain.RatingStats, len(rows))
	for i, row := range rows {
		stats[i] = toRatingStats(db.GetServerRatingStatsRow(row))
	}
	return stats, nil
}

// ServerStats returns every rated player of a server ordered by mmr descending,
// then player id and role. An empty role covers every role.
func (r *RatingRepository) ServerStats(ctx context.Context, serverID string, role domain.Role) ([]domain.RatingStats, error) {
	rows, err := r.queries.GetServerRatingStats(ctx, db.GetServerRatingStatsParams{
		ServerID: serverID,
		Role:     string(role),
	})
	if err != nil {
		return nil, err
	}

	stats := make([]domain.RatingStats, len(rows))
	for i, row := range rows {
		stats[i] = toRatingStats(row)
	}
	return stats, nil
}

func toRatingStats(row db.GetServerRatingStatsRow) domain.RatingStats {
	return domain.RatingStats{
		PlayerID:   row.PlayerID,
		PlayerName: row.PlayerName,
		ServerID:   row.ServerID,
		Role:       domain.Role(row.Role),
		MMR:        row.Mmr,
		Games:      int(row.Games),
		Wins:       int(row.Wins),
		ScopeRank:  int(row.ScopeRank),
	}
}
