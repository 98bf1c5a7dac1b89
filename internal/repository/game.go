package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"inhouse-tracker/internal/db"
	"inhouse-tracker/internal/domain"

	"github.com/rs/zerolog"
)

// LastGameFinder resolves the game a champion is saved on when no game id is given.
// It runs on the caller's transaction.
type LastGameFinder interface {
	LastGame(ctx context.Context, q *db.Queries, playerID, serverID string) (domain.GameWithParticipant, error)
}

type latestGameFinder struct{}

// NewLastGameFinder picks the player's game with the latest start time on the server.
func NewLastGameFinder() LastGameFinder {
	return latestGameFinder{}
}

func (latestGameFinder) LastGame(ctx context.Context, q *db.Queries, playerID, serverID string) (domain.GameWithParticipant, error) {
	row, err := q.GetLastPlayerGame(ctx, db.GetLastPlayerGameParams{
		PlayerID: playerID,
		ServerID: serverID,
	})
	if errors.Is(err, sql.ErrNoRows) {
		return domain.GameWithParticipant{}, fmt.Errorf("no game for player %s on server %s: %w", playerID, serverID, domain.ErrNotFound)
	}
	if err != nil {
		return domain.GameWithParticipant{}, err
	}
	return toGameWithParticipant(db.ListPlayerGamesRow(row)), nil
}

type GameRepository struct {
	queries  *db.Queries
	db       *sql.DB
	lastGame LastGameFinder
	logger   zerolog.Logger
}

func NewGameRepository(sqlDB *sql.DB, queries *db.Queries, lastGame LastGameFinder, logger zerolog.Logger) *GameRepository {
	return &GameRepository{
		queries:  queries,
		db:       sqlDB,
		lastGame: lastGame,
		logger:   logger,
	}
}

// Create stores a game and its participants atomically and returns the new game id.
func (r *GameRepository) Create(ctx context.Context, game domain.Game, participants []domain.GameParticipant) (int64, error) {
	if game.Winner != nil && !game.Winner.Valid() {
		return 0, fmt.Errorf("%w: winner %q", domain.ErrInvalidArgument, *game.Winner)
	}
	for _, p := range participants {
		if !p.Side.Valid() || !p.Role.Valid() {
			return 0, fmt.Errorf("%w: participant %s has side %q role %q", domain.ErrInvalidArgument, p.PlayerID, p.Side, p.Role)
		}
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	qtx := r.queries.WithTx(tx)

	gameID, err := qtx.CreateGame(ctx, db.CreateGameParams{
		ServerID:  game.ServerID,
		StartedAt: game.StartedAt.UTC(),
		Winner:    nullSide(game.Winner),
	})
	if err != nil {
		return 0, fmt.Errorf("failed to create game: %w", err)
	}

	for _, p := range participants {
		err := qtx.AddGameParticipant(ctx, db.AddGameParticipantParams{
			GameID:     gameID,
			PlayerID:   p.PlayerID,
			Side:       string(p.Side),
			Role:       string(p.Role),
			ChampionID: nullString(p.ChampionID),
		})
		if err != nil {
			return 0, fmt.Errorf("failed to add participant %s to game %d: %w", p.PlayerID, gameID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}

	r.logger.Debug().Int64("game_id", gameID).Str("server_id", game.ServerID).Int("participants", len(participants)).Msg("game created")
	return gameID, nil
}

// SetWinner records or corrects a game result.
func (r *GameRepository) SetWinner(ctx context.Context, gameID int64, winner domain.Side) error {
	if !winner.Valid() {
		return fmt.Errorf("%w: winner %q", domain.ErrInvalidArgument, winner)
	}
	affected, err := r.queries.SetGameWinner(ctx, db.SetGameWinnerParams{
		Winner: sql.NullString{String: string(winner), Valid: true},
		ID:     gameID,
	})
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("game %d: %w", gameID, domain.ErrNotFound)
	}
	return nil
}

// ListByPlayer returns the player's games, most recent first. An empty serverID
// covers every server.
func (r *GameRepository) ListByPlayer(ctx context.Context, playerID, serverID string, limit int) ([]domain.GameWithParticipant, error) {
	rows, err := r.queries.ListPlayerGames(ctx, db.ListPlayerGamesParams{
		PlayerID: playerID,
		ServerID: serverID,
		Limit:    int64(limit),
	})
	if err != nil {
		return nil, err
	}

	results := make([]domain.GameWithParticipant, len(rows))
	for i, row := range rows {
		results[i] = toGameWithParticipant(row)
	}
	return results, nil
}

// SetChampion saves championID on one of the player's games and returns that
// game's id. With a nil gameID the target comes from the LastGameFinder;
// otherwise the player must have played that exact game. Lookup and update
// share one transaction.
func (r *GameRepository) SetChampion(ctx context.Context, playerID, serverID string, gameID *int64, championID string) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	qtx := r.queries.WithTx(tx)

	var target domain.GameWithParticipant
	if gameID == nil {
		target, err = r.lastGame.LastGame(ctx, qtx, playerID, serverID)
		if err != nil {
			return 0, err
		}
	} else {
		row, err := qtx.GetPlayerGame(ctx, db.GetPlayerGameParams{ID: *gameID, PlayerID: playerID})
		if errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("player %s did not play game %d: %w", playerID, *gameID, domain.ErrNotFound)
		}
		if err != nil {
			return 0, err
		}
		target = toGameWithParticipant(db.ListPlayerGamesRow(row))
	}

	affected, err := qtx.SetParticipantChampion(ctx, db.SetParticipantChampionParams{
		ChampionID: sql.NullString{String: championID, Valid: true},
		GameID:     target.Game.ID,
		PlayerID:   playerID,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to set champion: %w", err)
	}
	if affected == 0 {
		return 0, fmt.Errorf("player %s did not play game %d: %w", playerID, target.Game.ID, domain.ErrNotFound)
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}

	r.logger.Info().
		Str("player_id", playerID).
		Int64("game_id", target.Game.ID).
		Str("champion_id", championID).
		Msg("champion saved")

	return target.Game.ID, nil
}

func toGameWithParticipant(row db.ListPlayerGamesRow) domain.GameWithParticipant {
	game := domain.Game{
		ID:        row.ID,
		ServerID:  row.ServerID,
		StartedAt: row.StartedAt,
	}
	if row.Winner.Valid {
		winner := domain.Side(row.Winner.String)
		game.Winner = &winner
	}

	participant := domain.GameParticipant{
		GameID:   row.ID,
		PlayerID: row.PlayerID,
		Side:     domain.Side(row.Side),
		Role:     domain.Role(row.Role),
	}
	if row.ChampionID.Valid {
		champion := row.ChampionID.String
		participant.ChampionID = &champion
	}

	return domain.GameWithParticipant{Game: game, Participant: participant}
}

func nullSide(s *domain.Side) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: string(*s), Valid: true}
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
