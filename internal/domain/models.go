package domain

import (
	"math"
	"time"
)

type Game struct {
	ID        int64
	ServerID  string
	StartedAt time.Time
	Winner    *Side // nil until the result is reported
}

type GameParticipant struct {
	GameID     int64
	PlayerID   string
	Side       Side
	Role       Role
	ChampionID *string
}

// Won reports whether the participant was on the winning side of game.
func (p GameParticipant) Won(game Game) bool {
	return game.Winner != nil && *game.Winner == p.Side
}

type Player struct {
	ID        string
	Name      string // display hint only, the chat platform is authoritative
	CreatedAt time.Time
	UpdatedAt time.Time
}

type PlayerRating struct {
	PlayerID string
	ServerID string
	Role     Role
	MMR      float64
}

// enriched
type GameWithParticipant struct {
	Game        Game
	Participant GameParticipant
}

type GameResult string

const (
	ResultWin     GameResult = "WIN"
	ResultLoss    GameResult = "LOSS"
	ResultPending GameResult = "PENDING"
)

type HistoryEntry struct {
	GameWithParticipant
	Result GameResult
}

func NewHistoryEntry(g GameWithParticipant) HistoryEntry {
	result := ResultPending
	if g.Game.Winner != nil {
		result = ResultLoss
		if g.Participant.Won(g.Game) {
			result = ResultWin
		}
	}
	return HistoryEntry{GameWithParticipant: g, Result: result}
}

// RatingStats is one aggregated (server, role) scope as read from the store.
type RatingStats struct {
	PlayerID   string
	PlayerName string
	ServerID   string
	Role       Role
	MMR        float64
	Games      int
	Wins       int
	// 1 + ratings in the (server, role) scope with a strictly greater mmr,
	// counting ratings that have no games
	ScopeRank  int
}

type RatingRow struct {
	ServerID   string
	Role       Role
	Rank       int
	MMR        float64
	Games      int
	Wins       int
	WinPercent int
}

type LeaderboardRow struct {
	PlayerID   string
	PlayerName string
	ServerID   string
	ServerName string
	Role       Role
	Rank       int
	MMR        float64
	Games      int
	Wins       int
	WinPercent int
}

type Leaderboard struct {
	ServerID string
	Role     *Role
	Rows     []LeaderboardRow
}

func (l Leaderboard) Empty() bool {
	return len(l.Rows) == 0
}

// WinPercent truncates towards zero: 2 wins out of 3 games is 66, not 67.
func WinPercent(wins, games int) int {
	if games <= 0 {
		return 0
	}
	return wins * 100 / games
}

func RoundMMR(mmr float64) float64 {
	return math.Round(mmr*100) / 100
}
