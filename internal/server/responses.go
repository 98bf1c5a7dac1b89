package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"inhouse-tracker/internal/domain"
	"inhouse-tracker/internal/middleware"
	"inhouse-tracker/internal/paging"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
)

const (
	msgNoGamesFound    = "No games found"
	msgNoGamesPlayed   = "No games played yet"
	maxChampionBodyLen = 4096
)

type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

type ratingRowResponse struct {
	ServerID    string  `json:"server_id"`
	ServerName  string  `json:"server_name"`
	Role        string  `json:"role"`
	Rank        int     `json:"rank"`
	RankDisplay string  `json:"rank_display"`
	MMR         float64 `json:"mmr"`
	Games       int     `json:"games"`
	Wins        int     `json:"wins"`
	WinPercent  int     `json:"win_percent"`
}

type statsResponse struct {
	PlayerID   string              `json:"player_id"`
	PlayerName string              `json:"player_name"`
	Empty      bool                `json:"empty"`
	Message    string              `json:"message,omitempty"`
	Rows       []ratingRowResponse `json:"rows"`
}

type rankResponse struct {
	ServerID    string  `json:"server_id"`
	Role        string  `json:"role"`
	MMR         float64 `json:"mmr"`
	Rank        int     `json:"rank"`
	RankDisplay string  `json:"rank_display"`
}

type pageResponse[T any] struct {
	Session   string `json:"session"`
	Page      int    `json:"page"`
	PageCount int    `json:"page_count"`
	PageSize  int    `json:"page_size"`
	Total     int    `json:"total"`
	Offset    int    `json:"offset"`
	Items     []T    `json:"items"`
}

type leaderboardRowResponse struct {
	PlayerID    string  `json:"player_id"`
	PlayerName  string  `json:"player_name"`
	Role        string  `json:"role"`
	Rank        int     `json:"rank"`
	RankDisplay string  `json:"rank_display"`
	MMR         float64 `json:"mmr"`
	Games       int     `json:"games"`
	Wins        int     `json:"wins"`
	WinPercent  int     `json:"win_percent"`
}

type leaderboardResponse struct {
	ServerID   string                                `json:"server_id"`
	ServerName string                                `json:"server_name"`
	Role       string                                `json:"role,omitempty"`
	Empty      bool                                  `json:"empty"`
	Message    string                                `json:"message,omitempty"`
	Page       *pageResponse[leaderboardRowResponse] `json:"page,omitempty"`
}

type historyEntryResponse struct {
	GameID     int64     `json:"game_id"`
	ServerID   string    `json:"server_id"`
	StartedAt  time.Time `json:"started_at"`
	Side       string    `json:"side"`
	Role       string    `json:"role"`
	ChampionID *string   `json:"champion_id"`
	Result     string    `json:"result"`
}

type historyResponse struct {
	PlayerID string                              `json:"player_id"`
	ServerID string                              `json:"server_id,omitempty"`
	Empty    bool                                `json:"empty"`
	Message  string                              `json:"message,omitempty"`
	Page     *pageResponse[historyEntryResponse] `json:"page,omitempty"`
}

type championRequest struct {
	ServerID   string `json:"server_id"`
	ChampionID string `json:"champion_id"`
	GameID     *int64 `json:"game_id"`
}

type championResponse struct {
	PlayerID   string `json:"player_id"`
	GameID     int64  `json:"game_id"`
	ChampionID string `json:"champion_id"`
}

func toLeaderboardRow(row domain.LeaderboardRow) leaderboardRowResponse {
	return leaderboardRowResponse{
		PlayerID:    row.PlayerID,
		PlayerName:  row.PlayerName,
		Role:        string(row.Role),
		Rank:        row.Rank,
		RankDisplay: humanize.Ordinal(row.Rank),
		MMR:         domain.RoundMMR(row.MMR),
		Games:       row.Games,
		Wins:        row.Wins,
		WinPercent:  row.WinPercent,
	}
}

func toHistoryEntry(entry domain.HistoryEntry) historyEntryResponse {
	return historyEntryResponse{
		GameID:     entry.Game.ID,
		ServerID:   entry.Game.ServerID,
		StartedAt:  entry.Game.StartedAt,
		Side:       string(entry.Participant.Side),
		Role:       string(entry.Participant.Role),
		ChampionID: entry.Participant.ChampionID,
		Result:     string(entry.Result),
	}
}

// buildPage renders page n of pager, converting each item with convert.
func buildPage[T, R any](session string, pager *paging.Pager[T], n int, convert func(T) R) (*pageResponse[R], error) {
	items, offset, err := pager.Page(n)
	if err != nil {
		return nil, err
	}

	out := make([]R, len(items))
	for i, item := range items {
		out[i] = convert(item)
	}

	return &pageResponse[R]{
		Session:   session,
		Page:      n,
		PageCount: pager.PageCount(),
		PageSize:  pager.PageSize(),
		Total:     pager.Len(),
		Offset:    offset,
		Items:     out,
	}, nil
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		zerolog.Ctx(r.Context()).Warn().Err(err).Str("path", r.URL.Path).Msg("failed to write response")
	}
}

// writeError maps domain and paging errors to status codes. Anything
// unrecognised is logged and reported as a 500 carrying only the request id.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound),
		errors.Is(err, paging.ErrSessionNotFound),
		errors.Is(err, paging.ErrPageOutOfRange):
		status = http.StatusNotFound
	}

	if status == http.StatusInternalServerError {
		zerolog.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		writeJSON(w, r, status, errorResponse{
			Error:     "internal error",
			RequestID: middleware.GetRequestID(r.Context()),
		})
		return
	}
	writeJSON(w, r, status, errorResponse{Error: err.Error()})
}
