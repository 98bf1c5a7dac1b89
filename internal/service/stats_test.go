package service

import (
	"context"
	"math"
	"testing"
	"time"

	"inhouse-tracker/internal/domain"
	"inhouse-tracker/internal/storetest"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 5, 10, 19, 0, 0, 0, time.UTC)

type staticNames map[string]string

func (n staticNames) ServerName(_ context.Context, serverID string) string {
	if name, ok := n[serverID]; ok {
		return name
	}
	return serverID
}

func newStatsService(t *testing.T) (*StatsService, *storetest.Store) {
	t.Helper()
	store := storetest.New(t)
	svc := NewStatsService(store.Players, store.Ratings, store.Games, staticNames{"srvA": "Alpha League"}, zerolog.Nop())
	return svc, store
}

// seedScope plays one game per player in (server, role) and stores the given mmrs.
func seedScope(t *testing.T, store *storetest.Store, serverID string, role domain.Role, mmrs map[string]float64) {
	t.Helper()
	i := 0
	for playerID, mmr := range mmrs {
		store.AddPlayer(t, playerID, "name-"+playerID)
		store.AddRating(t, playerID, serverID, role, mmr)
		store.AddGame(t, serverID, t0.Add(time.Duration(i)*time.Minute), storetest.Side(domain.SideBlue),
			storetest.Seat{PlayerID: playerID, Side: domain.SideBlue, Role: role})
		i++
	}
}

func TestGetRank_TiesShareRank(t *testing.T) {
	svc, store := newStatsService(t)
	ctx := context.Background()
	seedScope(t, store, "srvA", domain.RoleMid, map[string]float64{"P": 1500, "Q": 1600, "R": 1500})

	rank, err := svc.GetRank(ctx, "srvA", domain.RoleMid, 1500)
	require.NoError(t, err)
	assert.Equal(t, 2, rank)

	rank, err = svc.GetRank(ctx, "srvA", domain.RoleMid, 1600)
	require.NoError(t, err)
	assert.Equal(t, 1, rank)

	rank, err = svc.GetRank(ctx, "srvA", domain.RoleTop, 1500)
	require.NoError(t, err)
	assert.Equal(t, 1, rank, "other roles are a separate scope")

	_, err = svc.GetRank(ctx, "srvA", "FEEDER", 1500)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	for _, mmr := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err = svc.GetRank(ctx, "srvA", domain.RoleMid, mmr)
		assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	}
}

func TestPlayerName(t *testing.T) {
	svc, store := newStatsService(t)
	ctx := context.Background()
	store.AddPlayer(t, "P", "pee")
	store.AddPlayer(t, "N", "")

	name, err := svc.PlayerName(ctx, "P")
	require.NoError(t, err)
	assert.Equal(t, "pee", name)

	name, err = svc.PlayerName(ctx, "N")
	require.NoError(t, err)
	assert.Equal(t, "N", name)

	name, err = svc.PlayerName(ctx, "ghost")
	require.NoError(t, err)
	assert.Equal(t, "ghost", name)
}

func TestGetPlayerSummary(t *testing.T) {
	svc, store := newStatsService(t)
	ctx := context.Background()

	seedScope(t, store, "srvA", domain.RoleMid, map[string]float64{"Q": 1600, "R": 1500})
	store.AddPlayer(t, "P", "pee")
	store.AddRating(t, "P", "srvA", domain.RoleMid, 1500)
	store.AddRating(t, "P", "srvB", domain.RoleTop, 1300)
	store.AddRating(t, "P", "srvC", domain.RoleSupport, 1700) // never played

	mid := storetest.Seat{PlayerID: "P", Side: domain.SideBlue, Role: domain.RoleMid}
	top := storetest.Seat{PlayerID: "P", Side: domain.SideRed, Role: domain.RoleTop}
	blue, red := storetest.Side(domain.SideBlue), storetest.Side(domain.SideRed)

	// srvA/MID: 3 wins out of 4
	store.AddGame(t, "srvA", t0.Add(1*time.Hour), blue, mid)
	store.AddGame(t, "srvA", t0.Add(2*time.Hour), blue, mid)
	store.AddGame(t, "srvA", t0.Add(3*time.Hour), red, mid)
	store.AddGame(t, "srvA", t0.Add(4*time.Hour), blue, mid)
	// srvB/TOP: 1 win out of 3
	store.AddGame(t, "srvB", t0.Add(1*time.Hour), red, top)
	store.AddGame(t, "srvB", t0.Add(2*time.Hour), blue, top)
	store.AddGame(t, "srvB", t0.Add(3*time.Hour), nil, top)

	rows, err := svc.GetPlayerSummary(ctx, "P", "")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, domain.RatingRow{
		ServerID: "srvA", Role: domain.RoleMid, Rank: 2, MMR: 1500, Games: 4, Wins: 3, WinPercent: 75,
	}, rows[0])
	assert.Equal(t, domain.RatingRow{
		ServerID: "srvB", Role: domain.RoleTop, Rank: 1, MMR: 1300, Games: 3, Wins: 1, WinPercent: 33,
	}, rows[1])

	for _, row := range rows {
		assert.Positive(t, row.Games)
	}

	scoped, err := svc.GetPlayerSummary(ctx, "P", "srvB")
	require.NoError(t, err)
	require.Len(t, scoped, 1)
	assert.Equal(t, "srvB", scoped[0].ServerID)
}

func TestGetPlayerSummary_NoRatings(t *testing.T) {
	svc, _ := newStatsService(t)

	rows, err := svc.GetPlayerSummary(context.Background(), "ghost", "")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestGetLeaderboard(t *testing.T) {
	svc, store := newStatsService(t)
	ctx := context.Background()

	seedScope(t, store, "srvA", domain.RoleMid, map[string]float64{"a": 1500, "b": 1600, "c": 1500, "d": 1400})
	seedScope(t, store, "srvA", domain.RoleTop, map[string]float64{"e": 1550})
	seedScope(t, store, "srvB", domain.RoleMid, map[string]float64{"f": 9000})
	// rated but never played: hidden from the board, still ahead in rank
	store.AddPlayer(t, "z", "zed")
	store.AddRating(t, "z", "srvA", domain.RoleMid, 1900)

	board, err := svc.GetLeaderboard(ctx, "srvA", nil)
	require.NoError(t, err)
	require.False(t, board.Empty())
	require.Len(t, board.Rows, 5)

	var ids []string
	var ranks []int
	for i, row := range board.Rows {
		ids = append(ids, row.PlayerID)
		ranks = append(ranks, row.Rank)
		assert.Equal(t, "Alpha League", row.ServerName)
		assert.Equal(t, 1, row.Games)
		assert.Equal(t, 100, row.WinPercent)
		if i > 0 {
			assert.GreaterOrEqual(t, board.Rows[i-1].MMR, row.MMR)
		}
	}
	assert.Equal(t, []string{"b", "e", "a", "c", "d"}, ids)
	assert.Equal(t, []int{1, 2, 3, 3, 5}, ranks)

	mid := domain.RoleMid
	midBoard, err := svc.GetLeaderboard(ctx, "srvA", &mid)
	require.NoError(t, err)
	require.Len(t, midBoard.Rows, 4)
	var midRanks []int
	for _, row := range midBoard.Rows {
		midRanks = append(midRanks, row.Rank)
		rank, err := svc.GetRank(ctx, "srvA", domain.RoleMid, row.MMR)
		require.NoError(t, err)
		assert.Equal(t, rank, row.Rank, "leaderboard ranks agree with the rank resolver")
	}
	assert.Equal(t, []int{2, 3, 3, 5}, midRanks)

	summary, err := svc.GetPlayerSummary(ctx, "a", "srvA")
	require.NoError(t, err)
	require.Len(t, summary, 1)
	assert.Equal(t, 3, summary[0].Rank)

	bad := domain.Role("CARRY")
	_, err = svc.GetLeaderboard(ctx, "srvA", &bad)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestGetLeaderboard_Empty(t *testing.T) {
	svc, _ := newStatsService(t)

	board, err := svc.GetLeaderboard(context.Background(), "srvA", nil)
	require.NoError(t, err)
	assert.True(t, board.Empty())
	assert.Equal(t, "srvA", board.ServerID)
}

func TestGetHistory(t *testing.T) {
	svc, store := newStatsService(t)
	ctx := context.Background()

	store.AddPlayer(t, "P", "pee")
	seat := storetest.Seat{PlayerID: "P", Side: domain.SideRed, Role: domain.RoleBottom}
	for i := 0; i < 120; i++ {
		server := "srvA"
		if i%4 == 0 {
			server = "srvB"
		}
		store.AddGame(t, server, t0.Add(time.Duration(i)*time.Hour), storetest.Side(domain.SideRed), seat)
	}

	all, err := svc.GetHistory(ctx, "P", "", 0)
	require.NoError(t, err)
	assert.Len(t, all, 100, "default limit")
	for i := 1; i < len(all); i++ {
		assert.True(t, all[i-1].Game.StartedAt.After(all[i].Game.StartedAt))
	}
	assert.Equal(t, domain.ResultWin, all[0].Result)

	few, err := svc.GetHistory(ctx, "P", "srvB", 5)
	require.NoError(t, err)
	require.Len(t, few, 5)
	for _, g := range few {
		assert.Equal(t, "srvB", g.Game.ServerID)
	}

	huge, err := svc.GetHistory(ctx, "P", "", 1000)
	require.NoError(t, err)
	assert.Len(t, huge, 100)

	none, err := svc.GetHistory(ctx, "nobody", "", 10)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSetChampion(t *testing.T) {
	svc, store := newStatsService(t)
	ctx := context.Background()

	store.AddPlayer(t, "P", "pee")
	store.AddPlayer(t, "Q", "queue")
	p := storetest.Seat{PlayerID: "P", Side: domain.SideBlue, Role: domain.RoleMid}
	q := storetest.Seat{PlayerID: "Q", Side: domain.SideRed, Role: domain.RoleMid}
	older := store.AddGame(t, "srvA", t0, nil, p, q)
	latest := store.AddGame(t, "srvA", t0.Add(time.Hour), nil, p, q)
	otherServer := store.AddGame(t, "srvB", t0.Add(2*time.Hour), nil, p)
	onlyQ := store.AddGame(t, "srvA", t0.Add(3*time.Hour), nil, q)

	id, err := svc.SetChampion(ctx, "P", "riven", "srvA", nil)
	require.NoError(t, err)
	assert.Equal(t, latest, id)

	id, err = svc.SetChampion(ctx, "P", "yasuo", "srvA", nil)
	require.NoError(t, err)
	assert.Equal(t, latest, id)

	id, err = svc.SetChampion(ctx, "P", "ahri", "srvA", &older)
	require.NoError(t, err)
	assert.Equal(t, older, id)

	_, err = svc.SetChampion(ctx, "P", "ahri", "srvA", &onlyQ)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	history, err := svc.GetHistory(ctx, "P", "", 10)
	require.NoError(t, err)
	champions := map[int64]*string{}
	for _, h := range history {
		champions[h.Game.ID] = h.Participant.ChampionID
	}
	require.NotNil(t, champions[latest])
	assert.Equal(t, "yasuo", *champions[latest])
	require.NotNil(t, champions[older])
	assert.Equal(t, "ahri", *champions[older])
	assert.Nil(t, champions[otherServer])

	qHistory, err := svc.GetHistory(ctx, "Q", "", 10)
	require.NoError(t, err)
	for _, h := range qHistory {
		assert.Nil(t, h.Participant.ChampionID)
	}

	_, err = svc.SetChampion(ctx, "P", "", "srvA", nil)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	_, err = svc.SetChampion(ctx, "P", "riven", "", nil)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	_, err = svc.SetChampion(ctx, "nobody", "riven", "srvA", nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
