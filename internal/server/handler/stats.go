package handler

import (
	"context"
	"time"

	"github.com/palemoky/six-poker/internal/protocol"
	"github.com/palemoky/six-poker/internal/protocol/codec"
	"github.com/palemoky/six-poker/internal/types"
)

const (
	defaultLeaderboardLimit = 10
	maxLeaderboardLimit     = 100

	statsQueryTimeout = 3 * time.Second
)

// handleGetStats 查询自己的战绩
func (h *Handler) handleGetStats(client types.ClientInterface, _ *protocol.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), statsQueryTimeout)
	defer cancel()

	stats, err := h.deps.Leaderboard.GetPlayerStats(ctx, client.GetID())
	if err != nil {
		client.SendMessage(codec.NewErrorMessageWithText(protocol.ErrCodeUnknown, "查询战绩失败"))
		return
	}

	payload := protocol.StatsResultPayload{
		PlayerID:   client.GetID(),
		PlayerName: client.GetName(),
	}
	if stats != nil {
		payload.PlayerName = stats.PlayerName
		payload.TotalRounds = stats.TotalRounds
		payload.TeamWins = stats.TeamWins
		payload.HeadFinish = stats.HeadFinish
		payload.Score = stats.Score
	}
	client.SendMessage(codec.MustNewMessage(protocol.MsgStatsResult, payload))
}

// handleGetLeaderboard 查询排行榜片段
func (h *Handler) handleGetLeaderboard(client types.ClientInterface, msg *protocol.Message) {
	p, _ := codec.DecodePayload[protocol.GetLeaderboardPayload](msg)
	if p.Limit <= 0 {
		p.Limit = defaultLeaderboardLimit
	}
	if p.Limit > maxLeaderboardLimit {
		p.Limit = maxLeaderboardLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}

	ctx, cancel := context.WithTimeout(context.Background(), statsQueryTimeout)
	defer cancel()

	entries, err := h.deps.Leaderboard.GetLeaderboard(ctx, p.Offset, p.Limit)
	if err != nil {
		client.SendMessage(codec.NewErrorMessageWithText(protocol.ErrCodeUnknown, "查询排行榜失败"))
		return
	}

	result := make([]protocol.LeaderboardEntry, 0, len(entries))
	for _, e := range entries {
		result = append(result, protocol.LeaderboardEntry{
			Rank:       e.Rank,
			PlayerID:   e.PlayerID,
			PlayerName: e.PlayerName,
			Score:      e.Score,
			TeamWins:   e.TeamWins,
			WinRate:    e.WinRate,
		})
	}
	client.SendMessage(codec.MustNewMessage(protocol.MsgLeaderboardResult, protocol.LeaderboardResultPayload{
		Entries: result,
	}))
}

// handleGetRoomList 查询可加入的房间列表
func (h *Handler) handleGetRoomList(client types.ClientInterface, _ *protocol.Message) {
	client.SendMessage(codec.MustNewMessage(protocol.MsgRoomListResult, protocol.RoomListResultPayload{
		Rooms: h.deps.Rooms.GetRoomList(),
	}))
}
