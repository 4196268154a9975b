package storage

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisClient(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	return client, mr
}

func TestRedisStore_SaveLoadDeleteRoom(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	store := NewRedisStore(client)
	ctx := context.Background()

	roomData := &RoomData{
		Code:     "1234",
		Password: "5678",
		State:    1,
		HostSeat: 0,
		Players: []SeatData{
			{Seat: 0, Name: "玩家A", Ready: true},
			{Seat: 1, Name: "电脑1", IsBot: true},
		},
		CreatedAt: time.Now().Unix(),
		Game:      &GameSummary{Round: 2, TeamWins: map[string]int{"A": 1, "B": 0}},
	}

	// Save
	err := store.SaveRoom(ctx, roomData.Code, roomData)
	assert.NoError(t, err)

	// Load
	loadedData, err := store.LoadRoom(ctx, roomData.Code)
	assert.NoError(t, err)
	require.NotNil(t, loadedData)
	assert.Equal(t, roomData.Code, loadedData.Code)
	assert.Equal(t, roomData.Password, loadedData.Password)
	assert.Len(t, loadedData.Players, 2)
	require.NotNil(t, loadedData.Game)
	assert.Equal(t, 2, loadedData.Game.Round)

	// Delete
	err = store.DeleteRoom(ctx, roomData.Code)
	assert.NoError(t, err)

	// Verify Delete
	loadedData, err = store.LoadRoom(ctx, roomData.Code)
	assert.NoError(t, err)
	assert.Nil(t, loadedData)
}

func TestRedisStore_Session(t *testing.T) {
	t.Parallel()

	client, mr := newTestRedisClient(t)
	defer mr.Close()
	store := NewRedisStore(client)
	ctx := context.Background()

	session := &PlayerSessionData{
		PlayerID:       "p1",
		PlayerName:     "玩家A",
		ReconnectToken: "token-1",
		RoomCode:       "1234",
		IsOnline:       true,
	}

	err := store.SaveSession(ctx, session)
	assert.NoError(t, err)

	loaded, err := store.LoadSession(ctx, "p1")
	assert.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, session.PlayerName, loaded.PlayerName)
	assert.Equal(t, session.ReconnectToken, loaded.ReconnectToken)
	assert.Equal(t, session.RoomCode, loaded.RoomCode)

	err = store.DeleteSession(ctx, "p1")
	assert.NoError(t, err)

	loaded, err = store.LoadSession(ctx, "p1")
	assert.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestLeaderboard_RecordAndRank(t *testing.T) {
	t.Parallel()

	client, mr := newTestRedisClient(t)
	defer mr.Close()
	lm := NewLeaderboardManager(client)
	ctx := context.Background()

	// p1 赢一局并拿头游，p2 输一局
	require.NoError(t, lm.RecordRoundResult(ctx, "p1", "玩家A", OutcomeWin, true))
	require.NoError(t, lm.RecordRoundResult(ctx, "p2", "玩家B", OutcomeLoss, false))

	stats, err := lm.GetPlayerStats(ctx, "p1")
	require.NoError(t, err)
	require.NotNil(t, stats)
	assert.Equal(t, 1, stats.TotalRounds)
	assert.Equal(t, 1, stats.TeamWins)
	assert.Equal(t, 1, stats.HeadFinish)
	assert.Equal(t, TeamWinScore+HeadBonus, stats.Score)
	assert.Equal(t, 1, stats.CurrentStreak)

	// 积分不会为负
	stats2, err := lm.GetPlayerStats(ctx, "p2")
	require.NoError(t, err)
	require.NotNil(t, stats2)
	assert.Equal(t, 0, stats2.Score)
	assert.Equal(t, -1, stats2.CurrentStreak)

	rank, err := lm.GetPlayerRank(ctx, "p1")
	assert.NoError(t, err)
	assert.Equal(t, int64(1), rank)

	entries, err := lm.GetLeaderboard(ctx, 0, 10)
	assert.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "p1", entries[0].PlayerID)
	assert.Equal(t, 1, entries[0].Rank)
	assert.InDelta(t, 100.0, entries[0].WinRate, 0.001)
}

func TestLeaderboard_StreakBonus(t *testing.T) {
	t.Parallel()

	client, mr := newTestRedisClient(t)
	defer mr.Close()
	lm := NewLeaderboardManager(client)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, lm.RecordRoundResult(ctx, "p1", "玩家A", OutcomeWin, false))
	}

	stats, err := lm.GetPlayerStats(ctx, "p1")
	require.NoError(t, err)
	require.NotNil(t, stats)
	assert.Equal(t, 3, stats.CurrentStreak)
	assert.Equal(t, 3, stats.MaxWinStreak)
	// 第三连胜触发加成
	assert.Equal(t, 3*TeamWinScore+StreakBonus3, stats.Score)

	// 平局不打断连胜
	require.NoError(t, lm.RecordRoundResult(ctx, "p1", "玩家A", OutcomeDraw, false))
	stats, err = lm.GetPlayerStats(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 3, stats.CurrentStreak)
	assert.Equal(t, 1, stats.Draws)

	// 落败清零连胜
	require.NoError(t, lm.RecordRoundResult(ctx, "p1", "玩家A", OutcomeLoss, false))
	stats, err = lm.GetPlayerStats(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, -1, stats.CurrentStreak)
	assert.Equal(t, 3, stats.MaxWinStreak)
}
