package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"inhouse-tracker/internal/constants"
	"inhouse-tracker/internal/domain"
	"inhouse-tracker/internal/repository"

	"github.com/rs/zerolog"
)

// ServerNamer resolves display names for servers. Implementations fall back to
// the id when no name is known.
type ServerNamer interface {
	ServerName(ctx context.Context, serverID string) string
}

type StatsService struct {
	players *repository.PlayerRepository
	ratings *repository.RatingRepository
	games   *repository.GameRepository
	names   ServerNamer
	logger  zerolog.Logger
}

func NewStatsService(
	players *repository.PlayerRepository,
	ratings *repository.RatingRepository,
	games *repository.GameRepository,
	names ServerNamer,
	logger zerolog.Logger,
) *StatsService {
	return &StatsService{players: players, ratings: ratings, games: games, names: names, logger: logger}
}

// PlayerName returns the cached display name, or the id for unknown players.
func (s *StatsService) PlayerName(ctx context.Context, playerID string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	player, err := s.players.Get(ctx, playerID)
	if errors.Is(err, domain.ErrNotFound) {
		return playerID, nil
	}
	if err != nil {
		s.logger.Error().Err(err).Str("player_id", playerID).Msg("failed to load player")
		return "", fmt.Errorf("failed to load player: %w", err)
	}
	if player.Name == "" {
		return playerID, nil
	}
	return player.Name, nil
}

// GetPlayerSummary returns one row per (server, role) the player has played,
// most played first. An empty serverID covers every server.
func (s *StatsService) GetPlayerSummary(ctx context.Context, playerID, serverID string) ([]domain.RatingRow, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	stats, err := s.ratings.PlayerStats(ctx, playerID, serverID)
	if err != nil {
		s.logger.Error().Err(err).Str("player_id", playerID).Str("server_id", serverID).Msg("failed to aggregate ratings")
		return nil, fmt.Errorf("failed to aggregate ratings: %w", err)
	}

	rows := make([]domain.RatingRow, 0, len(stats))
	for _, st := range stats {
		if st.Games <= 0 {
			continue
		}

		rows = append(rows, domain.RatingRow{
			ServerID:   st.ServerID,
			Role:       st.Role,
			Rank:       st.ScopeRank,
			MMR:        st.MMR,
			Games:      st.Games,
			Wins:       st.Wins,
			WinPercent: domain.WinPercent(st.Wins, st.Games),
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Games != rows[j].Games {
			return rows[i].Games > rows[j].Games
		}
		if rows[i].ServerID != rows[j].ServerID {
			return rows[i].ServerID < rows[j].ServerID
		}
		return rows[i].Role < rows[j].Role
	})

	s.logger.Debug().Str("player_id", playerID).Str("server_id", serverID).Int("rows", len(rows)).Msg("player summary built")
	return rows, nil
}

// GetRank is 1 + the number of ratings in the (server, role) scope with a
// strictly greater mmr.
func (s *StatsService) GetRank(ctx context.Context, serverID string, role domain.Role, mmr float64) (int, error) {
	if !role.Valid() {
		return 0, fmt.Errorf("%w: role %q", domain.ErrInvalidArgument, role)
	}
	if math.IsNaN(mmr) || math.IsInf(mmr, 0) {
		return 0, fmt.Errorf("%w: mmr must be finite", domain.ErrInvalidArgument)
	}

	higher, err := s.ratings.CountHigher(ctx, serverID, role, mmr)
	if err != nil {
		s.logger.Error().Err(err).Str("server_id", serverID).Str("role", string(role)).Msg("failed to count higher ratings")
		return 0, fmt.Errorf("failed to resolve rank: %w", err)
	}
	return higher + 1, nil
}

// GetLeaderboard lists every rated player of a server by descending mmr. A nil
// role covers all roles, in which case each (player, role) pair is its own row.
func (s *StatsService) GetLeaderboard(ctx context.Context, serverID string, role *domain.Role) (domain.Leaderboard, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	var roleFilter domain.Role
	if role != nil {
		if !role.Valid() {
			return domain.Leaderboard{}, fmt.Errorf("%w: role %q", domain.ErrInvalidArgument, *role)
		}
		roleFilter = *role
	}

	stats, err := s.ratings.ServerStats(ctx, serverID, roleFilter)
	if err != nil {
		s.logger.Error().Err(err).Str("server_id", serverID).Str("role", string(roleFilter)).Msg("failed to load server ratings")
		return domain.Leaderboard{}, fmt.Errorf("failed to load server ratings: %w", err)
	}

	board := domain.Leaderboard{ServerID: serverID, Role: role}
	if len(stats) == 0 {
		s.logger.Debug().Str("server_id", serverID).Msg("no games played yet")
		return board, nil
	}

	// A single role is a rating scope, so rows carry the same rank GetRank
	// reports. Across roles the rank is the position on the displayed list.
	ranks := make([]int, len(stats))
	if role != nil {
		for i, st := range stats {
			ranks[i] = st.ScopeRank
		}
	} else {
		mmrs := make([]float64, len(stats))
		for i, st := range stats {
			mmrs[i] = st.MMR
		}
		ranks = CompetitionRanks(mmrs)
	}
	serverName := s.names.ServerName(ctx, serverID)

	board.Rows = make([]domain.LeaderboardRow, len(stats))
	for i, st := range stats {
		board.Rows[i] = domain.LeaderboardRow{
			PlayerID:   st.PlayerID,
			PlayerName: st.PlayerName,
			ServerID:   st.ServerID,
			ServerName: serverName,
			Role:       st.Role,
			Rank:       ranks[i],
			MMR:        st.MMR,
			Games:      st.Games,
			Wins:       st.Wins,
			WinPercent: domain.WinPercent(st.Wins, st.Games),
		}
	}

	s.logger.Info().Str("server_id", serverID).Str("role", string(roleFilter)).Int("rows", len(board.Rows)).Msg("leaderboard built")
	return board, nil
}

// GetHistory returns up to limit games of the player, newest first. Limits
// outside 1..MaxHistoryLimit are clamped to MaxHistoryLimit.
func (s *StatsService) GetHistory(ctx context.Context, playerID, serverID string, limit int) ([]domain.HistoryEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	if limit <= 0 || limit > constants.MaxHistoryLimit {
		limit = constants.MaxHistoryLimit
	}

	games, err := s.games.ListByPlayer(ctx, playerID, serverID, limit)
	if err != nil {
		s.logger.Error().Err(err).Str("player_id", playerID).Str("server_id", serverID).Msg("failed to load history")
		return nil, fmt.Errorf("failed to load history: %w", err)
	}

	entries := make([]domain.HistoryEntry, len(games))
	for i, g := range games {
		entries[i] = domain.NewHistoryEntry(g)
	}

	s.logger.Debug().Str("player_id", playerID).Str("server_id", serverID).Int("games", len(entries)).Msg("history loaded")
	return entries, nil
}

// SetChampion saves the champion a player used. Without a game id the player's
// latest game on serverID is updated.
func (s *StatsService) SetChampion(ctx context.Context, playerID, championID, serverID string, gameID *int64) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	if championID == "" {
		return 0, fmt.Errorf("%w: champion is required", domain.ErrInvalidArgument)
	}
	if gameID == nil && serverID == "" {
		return 0, fmt.Errorf("%w: server is required without a game id", domain.ErrInvalidArgument)
	}

	id, err := s.games.SetChampion(ctx, playerID, serverID, gameID, championID)
	if err != nil {
		s.logger.Warn().Err(err).Str("player_id", playerID).Str("server_id", serverID).Msg("failed to set champion")
		return 0, err
	}
	return id, nil
}
