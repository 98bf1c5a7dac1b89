// Package seed loads recorded players, games and ratings from a JSON fixture.
package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"inhouse-tracker/internal/domain"
	"inhouse-tracker/internal/repository"

	"github.com/rs/zerolog"
)

type Fixture struct {
	Players []PlayerFixture `json:"players"`
	Games   []GameFixture   `json:"games"`
	Ratings []RatingFixture `json:"ratings"`
}

type PlayerFixture struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type GameFixture struct {
	ServerID     string               `json:"server_id"`
	StartedAt    time.Time            `json:"started_at"`
	Winner       string               `json:"winner"`
	Participants []ParticipantFixture `json:"participants"`
}

type ParticipantFixture struct {
	PlayerID   string  `json:"player_id"`
	Side       string  `json:"side"`
	Role       string  `json:"role"`
	ChampionID *string `json:"champion_id"`
}

type RatingFixture struct {
	PlayerID string  `json:"player_id"`
	ServerID string  `json:"server_id"`
	Role     string  `json:"role"`
	MMR      float64 `json:"mmr"`
}

type Summary struct {
	Players int
	Games   int
	Ratings int
}

func Decode(r io.Reader) (*Fixture, error) {
	var f Fixture
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to decode fixture: %w", err)
	}
	return &f, nil
}

type Importer struct {
	players *repository.PlayerRepository
	games   *repository.GameRepository
	ratings *repository.RatingRepository
	logger  zerolog.Logger
}

func NewImporter(players *repository.PlayerRepository, games *repository.GameRepository, ratings *repository.RatingRepository, logger zerolog.Logger) *Importer {
	return &Importer{players: players, games: games, ratings: ratings, logger: logger}
}

// Import writes players first, then games, then ratings. Each game is its own
// transaction, so a failure part way leaves the earlier games in place.
func (i *Importer) Import(ctx context.Context, f *Fixture) (Summary, error) {
	var sum Summary

	players := make([]domain.Player, len(f.Players))
	for n, p := range f.Players {
		players[n] = domain.Player{ID: p.ID, Name: p.Name}
	}
	if err := i.players.UpsertBatch(ctx, players); err != nil {
		return sum, fmt.Errorf("failed to import players: %w", err)
	}
	sum.Players = len(players)

	for n, g := range f.Games {
		game, participants, winner, err := g.toDomain()
		if err != nil {
			return sum, fmt.Errorf("game #%d: %w", n, err)
		}

		id, err := i.games.Create(ctx, game, participants)
		if err != nil {
			return sum, fmt.Errorf("game #%d: %w", n, err)
		}

		// results are reported once the lobby closes
		if winner != nil {
			if err := i.games.SetWinner(ctx, id, *winner); err != nil {
				return sum, fmt.Errorf("game #%d: %w", n, err)
			}
		}
		sum.Games++
	}

	for n, r := range f.Ratings {
		role, err := domain.ParseRole(r.Role)
		if err != nil {
			return sum, fmt.Errorf("rating #%d: %w", n, err)
		}
		err = i.ratings.Upsert(ctx, domain.PlayerRating{
			PlayerID: r.PlayerID,
			ServerID: r.ServerID,
			Role:     role,
			MMR:      r.MMR,
		})
		if err != nil {
			return sum, fmt.Errorf("rating #%d: %w", n, err)
		}
		sum.Ratings++
	}

	i.logger.Info().
		Int("players", sum.Players).
		Int("games", sum.Games).
		Int("ratings", sum.Ratings).
		Msg("fixture imported")

	return sum, nil
}

func (g GameFixture) toDomain() (domain.Game, []domain.GameParticipant, *domain.Side, error) {
	if g.ServerID == "" {
		return domain.Game{}, nil, nil, fmt.Errorf("%w: server_id is required", domain.ErrInvalidArgument)
	}

	var winner *domain.Side
	if g.Winner != "" {
		side, err := domain.ParseSide(g.Winner)
		if err != nil {
			return domain.Game{}, nil, nil, err
		}
		winner = &side
	}

	participants := make([]domain.GameParticipant, len(g.Participants))
	for n, p := range g.Participants {
		side, err := domain.ParseSide(p.Side)
		if err != nil {
			return domain.Game{}, nil, nil, err
		}
		role, err := domain.ParseRole(p.Role)
		if err != nil {
			return domain.Game{}, nil, nil, err
		}
		participants[n] = domain.GameParticipant{
			PlayerID:   p.PlayerID,
			Side:       side,
			Role:       role,
			ChampionID: p.ChampionID,
		}
	}

	return domain.Game{ServerID: g.ServerID, StartedAt: g.StartedAt}, participants, winner, nil
}
