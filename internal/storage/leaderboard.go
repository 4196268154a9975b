package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// Redis key
	playerStatsKey    = "player:stats:"
	leaderboardKey    = "leaderboard:score"
	dailyLeaderboard  = "leaderboard:daily:"
	weeklyLeaderboard = "leaderboard:weekly:"
)

// PlayerStats 玩家统计数据
type PlayerStats struct {
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`

	// 总计
	TotalRounds int `json:"total_rounds"` // 总局数
	TeamWins    int `json:"team_wins"`    // 所在队伍获胜局数
	Losses      int `json:"losses"`       // 所在队伍落败局数
	Draws       int `json:"draws"`        // 平局局数
	HeadFinish  int `json:"head_finish"`  // 拿到头游的局数

	// 积分
	Score int `json:"score"`

	// 连胜/连败
	CurrentStreak int `json:"current_streak"` // 正数为连胜，负数为连败
	MaxWinStreak  int `json:"max_win_streak"` // 最大连胜

	// 时间
	LastPlayedAt int64 `json:"last_played_at"` // 最后游戏时间
	CreatedAt    int64 `json:"created_at"`     // 首次游戏时间
}

// 积分规则
const (
	TeamWinScore  = 20  // 所在队伍获胜
	TeamLoseScore = -10 // 所在队伍落败
	DrawScore     = 5   // 平局（头游队保平）
	HeadBonus     = 8   // 头游加成

	// 连胜加成
	StreakBonus3  = 5  // 3 连胜加成
	StreakBonus5  = 10 // 5 连胜加成
	StreakBonus10 = 20 // 10 连胜加成
)

// RoundOutcome 一名玩家在一局中的结果
type RoundOutcome int

const (
	OutcomeLoss RoundOutcome = iota
	OutcomeWin
	OutcomeDraw
)

// LeaderboardEntry 排行榜条目
type LeaderboardEntry struct {
	Rank       int     `json:"rank"`
	PlayerID   string  `json:"player_id"`
	PlayerName string  `json:"player_name"`
	Score      int     `json:"score"`
	TeamWins   int     `json:"team_wins"`
	WinRate    float64 `json:"win_rate"`
}

// LeaderboardManager 排行榜管理器
type LeaderboardManager struct {
	redis *redis.Client
}

// NewLeaderboardManager 创建排行榜管理器
func NewLeaderboardManager(client *redis.Client) *LeaderboardManager {
	return &LeaderboardManager{redis: client}
}

// GetPlayerStats 获取玩家统计，不存在返回 nil
func (lm *LeaderboardManager) GetPlayerStats(ctx context.Context, playerID string) (*PlayerStats, error) {
	key := playerStatsKey + playerID
	data, err := lm.redis.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var stats PlayerStats
	if err := json.Unmarshal(data, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// SavePlayerStats 保存玩家统计
func (lm *LeaderboardManager) SavePlayerStats(ctx context.Context, stats *PlayerStats) error {
	key := playerStatsKey + stats.PlayerID
	data, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	return lm.redis.Set(ctx, key, data, 0).Err()
}

// getOrCreateStats 获取或创建玩家统计
func (lm *LeaderboardManager) getOrCreateStats(ctx context.Context, playerID, playerName string) (*PlayerStats, error) {
	stats, err := lm.GetPlayerStats(ctx, playerID)
	if err != nil {
		return nil, err
	}
	if stats == nil {
		return &PlayerStats{
			PlayerID:   playerID,
			PlayerName: playerName,
			CreatedAt:  time.Now().Unix(),
		}, nil
	}
	return stats, nil
}

// updateOutcomeStats 更新胜负统计和连胜/连败，返回基础积分变化
func updateOutcomeStats(stats *PlayerStats, outcome RoundOutcome) int {
	switch outcome {
	case OutcomeWin:
		stats.TeamWins++
		stats.CurrentStreak = max(1, stats.CurrentStreak+1)
		if stats.CurrentStreak > stats.MaxWinStreak {
			stats.MaxWinStreak = stats.CurrentStreak
		}
		return TeamWinScore
	case OutcomeDraw:
		stats.Draws++
		// 平局不打断连胜也不累积
		return DrawScore
	default:
		stats.Losses++
		stats.CurrentStreak = min(-1, stats.CurrentStreak-1)
		return TeamLoseScore
	}
}

// calculateStreakBonus 计算连胜加成
func calculateStreakBonus(streak int) int {
	switch {
	case streak >= 10:
		return StreakBonus10
	case streak >= 5:
		return StreakBonus5
	case streak >= 3:
		return StreakBonus3
	default:
		return 0
	}
}

// RecordRoundResult 记录一局结果。isHead 表示该玩家是本局头游
func (lm *LeaderboardManager) RecordRoundResult(ctx context.Context, playerID, playerName string, outcome RoundOutcome, isHead bool) error {
	stats, err := lm.getOrCreateStats(ctx, playerID, playerName)
	if err != nil {
		return err
	}

	stats.PlayerName = playerName
	stats.TotalRounds++
	stats.LastPlayedAt = time.Now().Unix()

	scoreChange := updateOutcomeStats(stats, outcome)
	if isHead {
		stats.HeadFinish++
		scoreChange += HeadBonus
	}
	scoreChange += calculateStreakBonus(stats.CurrentStreak)
	stats.Score = max(0, stats.Score+scoreChange)

	if err := lm.SavePlayerStats(ctx, stats); err != nil {
		return err
	}
	return lm.UpdateLeaderboard(ctx, stats)
}

// UpdateLeaderboard 更新总榜、日榜、周榜
func (lm *LeaderboardManager) UpdateLeaderboard(ctx context.Context, stats *PlayerStats) error {
	member := redis.Z{Score: float64(stats.Score), Member: stats.PlayerID}

	if err := lm.redis.ZAdd(ctx, leaderboardKey, member).Err(); err != nil {
		return err
	}

	today := time.Now().Format("2006-01-02")
	dailyKey := dailyLeaderboard + today
	if err := lm.redis.ZAdd(ctx, dailyKey, member).Err(); err != nil {
		return err
	}
	lm.redis.Expire(ctx, dailyKey, 48*time.Hour)

	year, week := time.Now().ISOWeek()
	weeklyKey := fmt.Sprintf("%s%d-W%02d", weeklyLeaderboard, year, week)
	if err := lm.redis.ZAdd(ctx, weeklyKey, member).Err(); err != nil {
		return err
	}
	lm.redis.Expire(ctx, weeklyKey, 8*24*time.Hour)

	return nil
}

// GetLeaderboard 获取总榜片段（从高到低）
func (lm *LeaderboardManager) GetLeaderboard(ctx context.Context, offset, limit int) ([]LeaderboardEntry, error) {
	results, err := lm.redis.ZRevRangeWithScores(ctx, leaderboardKey, int64(offset), int64(offset+limit-1)).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, 0, len(results))
	for i, result := range results {
		playerID, ok := result.Member.(string)
		if !ok {
			continue
		}

		stats, err := lm.GetPlayerStats(ctx, playerID)
		if err != nil || stats == nil {
			continue
		}

		winRate := 0.0
		if stats.TotalRounds > 0 {
			winRate = float64(stats.TeamWins) / float64(stats.TotalRounds) * 100
		}

		entries = append(entries, LeaderboardEntry{
			Rank:       offset + i + 1,
			PlayerID:   playerID,
			PlayerName: stats.PlayerName,
			Score:      int(result.Score),
			TeamWins:   stats.TeamWins,
			WinRate:    winRate,
		})
	}

	return entries, nil
}

// GetPlayerRank 获取玩家在总榜的名次，未上榜返回 -1
func (lm *LeaderboardManager) GetPlayerRank(ctx context.Context, playerID string) (int64, error) {
	rank, err := lm.redis.ZRevRank(ctx, leaderboardKey, playerID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return -1, nil
		}
		return -1, err
	}
	return rank + 1, nil // Redis 排名从 0 开始
}
