package repository_test

import (
	"context"
	"testing"
	"time"

	"inhouse-tracker/internal/domain"
	"inhouse-tracker/internal/storetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 3, 1, 20, 0, 0, 0, time.UTC)

func TestRatingRepository_CountHigher(t *testing.T) {
	store := storetest.New(t)
	ctx := context.Background()

	for _, id := range []string{"p1", "p2", "p3", "p4"} {
		store.AddPlayer(t, id, id)
	}
	store.AddRating(t, "p1", "srvA", domain.RoleMid, 1500)
	store.AddRating(t, "p2", "srvA", domain.RoleMid, 1600)
	store.AddRating(t, "p3", "srvA", domain.RoleMid, 1500)
	store.AddRating(t, "p4", "srvA", domain.RoleTop, 1900)
	store.AddRating(t, "p4", "srvB", domain.RoleMid, 2000)

	count, err := store.Ratings.CountHigher(ctx, "srvA", domain.RoleMid, 1500)
	require.NoError(t, err)
	assert.Equal(t, 1, count, "only p2 is strictly above 1500 in srvA/MID")

	count, err = store.Ratings.CountHigher(ctx, "srvA", domain.RoleMid, 1600)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	count, err = store.Ratings.CountHigher(ctx, "srvA", domain.RoleMid, 1000)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestRatingRepository_UpsertOverwritesMMR(t *testing.T) {
	store := storetest.New(t)
	ctx := context.Background()
	store.AddPlayer(t, "p1", "one")

	store.AddRating(t, "p1", "srvA", domain.RoleMid, 1500)
	store.AddRating(t, "p1", "srvA", domain.RoleMid, 1525.5)

	count, err := store.Ratings.CountHigher(ctx, "srvA", domain.RoleMid, 1525)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	count, err = store.Ratings.CountHigher(ctx, "srvA", domain.RoleMid, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, count, "upsert must not create a second row")

	err = store.Ratings.Upsert(ctx, domain.PlayerRating{PlayerID: "p1", ServerID: "srvA", Role: "CARRY", MMR: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestRatingRepository_PlayerStats(t *testing.T) {
	store := storetest.New(t)
	ctx := context.Background()

	store.AddPlayer(t, "p1", "one")
	store.AddPlayer(t, "p2", "two")
	store.AddRating(t, "p1", "srvA", domain.RoleMid, 1500)
	store.AddRating(t, "p1", "srvA", domain.RoleTop, 1400)
	store.AddRating(t, "p1", "srvB", domain.RoleMid, 1700)
	store.AddRating(t, "p2", "srvA", domain.RoleMid, 1600)
	// rating without any game in its scope
	store.AddRating(t, "p1", "srvC", domain.RoleSupport, 1200)

	blue, red := storetest.Side(domain.SideBlue), storetest.Side(domain.SideRed)
	mid := func(side domain.Side) []storetest.Seat {
		other := domain.SideRed
		if side == domain.SideRed {
			other = domain.SideBlue
		}
		return []storetest.Seat{
			{PlayerID: "p1", Side: side, Role: domain.RoleMid},
			{PlayerID: "p2", Side: other, Role: domain.RoleMid},
		}
	}
	store.AddGame(t, "srvA", t0, blue, mid(domain.SideBlue)...)
	store.AddGame(t, "srvA", t0.Add(time.Hour), blue, mid(domain.SideBlue)...)
	store.AddGame(t, "srvA", t0.Add(2*time.Hour), red, mid(domain.SideBlue)...)
	store.AddGame(t, "srvA", t0.Add(3*time.Hour), nil, mid(domain.SideRed)...)
	store.AddGame(t, "srvA", t0.Add(4*time.Hour), red, storetest.Seat{PlayerID: "p1", Side: domain.SideRed, Role: domain.RoleTop})
	store.AddGame(t, "srvB", t0, blue, storetest.Seat{PlayerID: "p1", Side: domain.SideRed, Role: domain.RoleMid})

	stats, err := store.Ratings.PlayerStats(ctx, "p1", "")
	require.NoError(t, err)
	require.Len(t, stats, 3, "srvC/SUP has no games and must be dropped")

	byScope := map[string]domain.RatingStats{}
	for _, s := range stats {
		assert.Equal(t, "p1", s.PlayerID)
		assert.Equal(t, "one", s.PlayerName)
		byScope[s.ServerID+"/"+string(s.Role)] = s
	}

	assert.Equal(t, 4, byScope["srvA/MID"].Games)
	assert.Equal(t, 2, byScope["srvA/MID"].Wins)
	assert.Equal(t, 1500.0, byScope["srvA/MID"].MMR)
	assert.Equal(t, 1, byScope["srvA/TOP"].Games)
	assert.Equal(t, 1, byScope["srvA/TOP"].Wins)
	assert.Equal(t, 1, byScope["srvB/MID"].Games)
	assert.Equal(t, 0, byScope["srvB/MID"].Wins)
	assert.Equal(t, 2, byScope["srvA/MID"].ScopeRank)
	assert.Equal(t, 1, byScope["srvA/TOP"].ScopeRank)
	assert.Equal(t, 1, byScope["srvB/MID"].ScopeRank)

	scoped, err := store.Ratings.PlayerStats(ctx, "p1", "srvB")
	require.NoError(t, err)
	require.Len(t, scoped, 1)
	assert.Equal(t, "srvB", scoped[0].ServerID)

	none, err := store.Ratings.PlayerStats(ctx, "nobody", "")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestRatingRepository_ServerStatsOrdering(t *testing.T) {
	store := storetest.New(t)
	ctx := context.Background()

	players := map[string]float64{"a": 1500, "b": 1600, "c": 1500, "d": 1450}
	var seats []storetest.Seat
	for id, mmr := range players {
		store.AddPlayer(t, id, id)
		store.AddRating(t, id, "srvA", domain.RoleMid, mmr)
		seats = append(seats, storetest.Seat{PlayerID: id, Side: domain.SideBlue, Role: domain.RoleMid})
	}
	store.AddRating(t, "a", "srvA", domain.RoleTop, 1550)
	// no games: never listed, but outranks everyone in srvA/MID
	store.AddPlayer(t, "e", "e")
	store.AddRating(t, "e", "srvA", domain.RoleMid, 2000)

	for i, seat := range seats {
		store.AddGame(t, "srvA", t0.Add(time.Duration(i)*time.Minute), storetest.Side(domain.SideBlue), seat)
	}
	store.AddGame(t, "srvA", t0.Add(time.Hour), storetest.Side(domain.SideRed), storetest.Seat{PlayerID: "a", Side: domain.SideBlue, Role: domain.RoleTop})

	all, err := store.Ratings.ServerStats(ctx, "srvA", "")
	require.NoError(t, err)
	require.Len(t, all, 5)

	var order []string
	for i, s := range all {
		order = append(order, s.PlayerID+"/"+string(s.Role))
		if i > 0 {
			assert.GreaterOrEqual(t, all[i-1].MMR, s.MMR)
		}
	}
	assert.Equal(t, []string{"b/MID", "a/TOP", "a/MID", "c/MID", "d/MID"}, order)

	mids, err := store.Ratings.ServerStats(ctx, "srvA", domain.RoleMid)
	require.NoError(t, err)
	require.Len(t, mids, 4)
	var ranks []int
	for _, s := range mids {
		ranks = append(ranks, s.ScopeRank)
	}
	assert.Equal(t, []int{2, 3, 3, 5}, ranks)

	empty, err := store.Ratings.ServerStats(ctx, "srvZ", "")
	require.NoError(t, err)
	assert.Empty(t, empty)
}
