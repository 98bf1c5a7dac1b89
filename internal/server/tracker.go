package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"

	"inhouse-tracker/internal/config"
	"inhouse-tracker/internal/constants"
	"inhouse-tracker/internal/domain"
	"inhouse-tracker/internal/metrics"
	"inhouse-tracker/internal/middleware"
	"inhouse-tracker/internal/paging"
	"inhouse-tracker/internal/service"

	"github.com/dustin/go-humanize"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const (
	sessionKindLeaderboard = "leaderboard"
	sessionKindHistory     = "history"
)

type leaderboardSnapshot struct {
	board domain.Leaderboard
	name  string
	pages *paging.Pager[domain.LeaderboardRow]
}

type historySnapshot struct {
	playerID string
	serverID string
	pages    *paging.Pager[domain.HistoryEntry]
}

type TrackerServer struct {
	router       *chi.Mux
	stats        *service.StatsService
	names        service.ServerNamer
	db           *sql.DB
	metrics      *metrics.Metrics
	pageSize     int
	leaderboards *paging.Sessions[leaderboardSnapshot]
	histories    *paging.Sessions[historySnapshot]
	logger       zerolog.Logger
}

func NewTrackerServer(
	stats *service.StatsService,
	names service.ServerNamer,
	sqlDB *sql.DB,
	m *metrics.Metrics,
	cfg *config.Config,
	logger zerolog.Logger,
) *TrackerServer {
	s := &TrackerServer{
		router:       chi.NewRouter(),
		stats:        stats,
		names:        names,
		db:           sqlDB,
		metrics:      m,
		pageSize:     cfg.PageSize,
		leaderboards: paging.NewSessions[leaderboardSnapshot](cfg.PageSessionTTL, logger),
		histories:    paging.NewSessions[historySnapshot](cfg.PageSessionTTL, logger),
		logger:       logger,
	}
	if s.pageSize <= 0 {
		s.pageSize = constants.DefaultPageSize
	}

	s.setupRoutes()
	return s
}

func (s *TrackerServer) setupRoutes() {
	r := s.router

	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID(s.logger))
	r.Use(middleware.Observe(s.metrics))
	r.Use(chimiddleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(chimiddleware.Timeout(constants.RequestTimeout))

		r.Get("/players/{playerID}/stats", s.handlePlayerStats)
		r.Get("/players/{playerID}/history", s.handleHistory)
		r.Put("/players/{playerID}/champion", s.handleSetChampion)

		r.Get("/servers/{serverID}/rank", s.handleRank)
		r.Get("/servers/{serverID}/leaderboard", s.handleLeaderboard)

		r.Get("/leaderboard/{sessionID}/pages/{page}", s.handleLeaderboardPage)
		r.Get("/history/{sessionID}/pages/{page}", s.handleHistoryPage)
	})
}

func (s *TrackerServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// SweepSessions drops expired page sessions and refreshes the session gauges.
func (s *TrackerServer) SweepSessions() int {
	removed := s.leaderboards.Sweep() + s.histories.Sweep()
	s.metrics.SetPageSessions(sessionKindLeaderboard, s.leaderboards.Len())
	s.metrics.SetPageSessions(sessionKindHistory, s.histories.Len())
	return removed
}

func (s *TrackerServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), constants.DatabaseTimeout)
	defer cancel()

	if err := s.db.PingContext(ctx); err != nil {
		zerolog.Ctx(r.Context()).Warn().Err(err).Msg("health check failed")
		writeJSON(w, r, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *TrackerServer) handlePlayerStats(w http.ResponseWriter, r *http.Request) {
	playerID := chi.URLParam(r, "playerID")
	serverID := r.URL.Query().Get("server")

	rows, err := s.stats.GetPlayerSummary(r.Context(), playerID, serverID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	name, err := s.stats.PlayerName(r.Context(), playerID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := statsResponse{PlayerID: playerID, PlayerName: name, Rows: make([]ratingRowResponse, len(rows))}
	if len(rows) == 0 {
		resp.Empty = true
		resp.Message = msgNoGamesFound
		writeJSON(w, r, http.StatusOK, resp)
		return
	}

	names := s.resolveServerNames(r.Context(), rows)
	for i, row := range rows {
		resp.Rows[i] = ratingRowResponse{
			ServerID:    row.ServerID,
			ServerName:  names[row.ServerID],
			Role:        string(row.Role),
			Rank:        row.Rank,
			RankDisplay: humanize.Ordinal(row.Rank),
			MMR:         domain.RoundMMR(row.MMR),
			Games:       row.Games,
			Wins:        row.Wins,
			WinPercent:  row.WinPercent,
		}
	}
	writeJSON(w, r, http.StatusOK, resp)
}

// resolveServerNames looks up each distinct server of rows once, a few at a time.
func (s *TrackerServer) resolveServerNames(ctx context.Context, rows []domain.RatingRow) map[string]string {
	var ids []string
	seen := make(map[string]bool)
	for _, row := range rows {
		if !seen[row.ServerID] {
			seen[row.ServerID] = true
			ids = append(ids, row.ServerID)
		}
	}

	resolved := make([]string, len(ids))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(constants.ServerNameWorkers)
	for i, id := range ids {
		g.Go(func() error {
			resolved[i] = s.names.ServerName(gCtx, id)
			return nil
		})
	}
	g.Wait()

	names := make(map[string]string, len(ids))
	for i, id := range ids {
		names[id] = resolved[i]
	}
	return names
}

func (s *TrackerServer) handleRank(w http.ResponseWriter, r *http.Request) {
	serverID := chi.URLParam(r, "serverID")
	query := r.URL.Query()

	role, err := domain.ParseRole(query.Get("role"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	mmr, err := strconv.ParseFloat(query.Get("mmr"), 64)
	if err != nil || math.IsNaN(mmr) || math.IsInf(mmr, 0) {
		writeError(w, r, fmt.Errorf("%w: mmr must be a finite number", domain.ErrInvalidArgument))
		return
	}

	rank, err := s.stats.GetRank(r.Context(), serverID, role, mmr)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, rankResponse{
		ServerID:    serverID,
		Role:        string(role),
		MMR:         mmr,
		Rank:        rank,
		RankDisplay: humanize.Ordinal(rank),
	})
}

func (s *TrackerServer) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	serverID := chi.URLParam(r, "serverID")
	query := r.URL.Query()

	var role *domain.Role
	if v := query.Get("role"); v != "" {
		parsed, err := domain.ParseRole(v)
		if err != nil {
			writeError(w, r, err)
			return
		}
		role = &parsed
	}

	pageSize, err := s.parsePageSize(query.Get("page_size"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	board, err := s.stats.GetLeaderboard(r.Context(), serverID, role)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.metrics.LeaderboardBuilt(board.Empty())

	snapshot := leaderboardSnapshot{
		board: board,
		pages: paging.New(board.Rows, pageSize),
	}
	if board.Empty() {
		snapshot.name = s.names.ServerName(r.Context(), serverID)
	} else {
		snapshot.name = board.Rows[0].ServerName
	}
	if board.Empty() {
		writeJSON(w, r, http.StatusOK, leaderboardPage(snapshot, nil))
		return
	}

	token, err := s.leaderboards.Open(snapshot)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.metrics.SetPageSessions(sessionKindLeaderboard, s.leaderboards.Len())

	page, err := buildPage(token, snapshot.pages, 0, toLeaderboardRow)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, leaderboardPage(snapshot, page))
}

func (s *TrackerServer) handleLeaderboardPage(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "sessionID")

	n, err := parsePageNumber(chi.URLParam(r, "page"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	snapshot, err := s.leaderboards.Get(token)
	if err != nil {
		writeError(w, r, err)
		return
	}

	page, err := buildPage(token, snapshot.pages, n, toLeaderboardRow)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, leaderboardPage(snapshot, page))
}

func leaderboardPage(snapshot leaderboardSnapshot, page *pageResponse[leaderboardRowResponse]) leaderboardResponse {
	resp := leaderboardResponse{
		ServerID:   snapshot.board.ServerID,
		ServerName: snapshot.name,
		Empty:      snapshot.board.Empty(),
		Page:       page,
	}
	if snapshot.board.Role != nil {
		resp.Role = string(*snapshot.board.Role)
	}
	if resp.Empty {
		resp.Message = msgNoGamesPlayed
	}
	return resp
}

func (s *TrackerServer) handleHistory(w http.ResponseWriter, r *http.Request) {
	playerID := chi.URLParam(r, "playerID")
	query := r.URL.Query()
	serverID := query.Get("server")

	limit := 0
	if v := query.Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, r, fmt.Errorf("%w: limit must be an integer", domain.ErrInvalidArgument))
			return
		}
		limit = parsed
	}

	pageSize, err := s.parsePageSize(query.Get("page_size"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	entries, err := s.stats.GetHistory(r.Context(), playerID, serverID, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.metrics.HistoryServed(len(entries) == 0)

	snapshot := historySnapshot{
		playerID: playerID,
		serverID: serverID,
		pages:    paging.New(entries, pageSize),
	}
	if snapshot.pages.Empty() {
		writeJSON(w, r, http.StatusOK, historyPage(snapshot, nil))
		return
	}

	token, err := s.histories.Open(snapshot)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.metrics.SetPageSessions(sessionKindHistory, s.histories.Len())

	page, err := buildPage(token, snapshot.pages, 0, toHistoryEntry)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, historyPage(snapshot, page))
}

func (s *TrackerServer) handleHistoryPage(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "sessionID")

	n, err := parsePageNumber(chi.URLParam(r, "page"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	snapshot, err := s.histories.Get(token)
	if err != nil {
		writeError(w, r, err)
		return
	}

	page, err := buildPage(token, snapshot.pages, n, toHistoryEntry)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, historyPage(snapshot, page))
}

func historyPage(snapshot historySnapshot, page *pageResponse[historyEntryResponse]) historyResponse {
	resp := historyResponse{
		PlayerID: snapshot.playerID,
		ServerID: snapshot.serverID,
		Empty:    snapshot.pages.Empty(),
		Page:     page,
	}
	if resp.Empty {
		resp.Message = msgNoGamesFound
	}
	return resp
}

func (s *TrackerServer) handleSetChampion(w http.ResponseWriter, r *http.Request) {
	playerID := chi.URLParam(r, "playerID")

	var req championRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxChampionBodyLen)).Decode(&req); err != nil {
		s.metrics.ChampionAssigned("invalid")
		writeError(w, r, fmt.Errorf("%w: malformed body", domain.ErrInvalidArgument))
		return
	}

	gameID, err := s.stats.SetChampion(r.Context(), playerID, strings.TrimSpace(req.ChampionID), req.ServerID, req.GameID)
	if err != nil {
		s.metrics.ChampionAssigned(championOutcome(err))
		writeError(w, r, err)
		return
	}
	s.metrics.ChampionAssigned("ok")

	writeJSON(w, r, http.StatusOK, championResponse{
		PlayerID:   playerID,
		GameID:     gameID,
		ChampionID: strings.TrimSpace(req.ChampionID),
	})
}

func championOutcome(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		return "invalid"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	default:
		return "error"
	}
}

func (s *TrackerServer) parsePageSize(v string) (int, error) {
	if v == "" {
		return s.pageSize, nil
	}
	size, err := strconv.Atoi(v)
	if err != nil || size <= 0 || size > constants.MaxPageSize {
		return 0, fmt.Errorf("%w: page_size must be between 1 and %d", domain.ErrInvalidArgument, constants.MaxPageSize)
	}
	return size, nil
}

func parsePageNumber(v string) (int, error) {
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%w: page must be an integer", domain.ErrInvalidArgument)
	}
	return n, nil
}
