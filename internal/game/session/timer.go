package session

import (
	"fmt"
	"time"

	"github.com/palemoky/six-poker/internal/game/ai"
	"github.com/palemoky/six-poker/internal/game/card"
)

// beginTurnLocked 开启新回合：作废旧计时器，按座位类型安排驱动方式。
// 电脑和被托管的座位由评估器在延迟后代打；人类座位起超时倒计时，
// 倒计时归零将其切入托管。所有回调都要重新抢会话锁并核对回合代数，
// 与人类请求竞争时先到先得。
func (s *Session) beginTurnLocked() {
	s.turnSeq++
	s.stopTurnTimerLocked()

	if s.status != StatusPlaying {
		return
	}

	seq := s.turnSeq
	player := s.players[s.currentTurn]

	if player.IsBot || player.IsAutoPlayed {
		delay := s.timings.BotDelay
		if player.IsAutoPlayed && !player.IsBot && s.timings.HostedTimeout > 0 {
			delay = s.timings.HostedTimeout
		}
		if delay > 0 {
			s.turnDeadline = time.Now().Add(delay)
			s.turnTimer = time.AfterFunc(delay, func() { s.actForSeat(seq) })
		}
		// delay 为零时由 afterActionLocked 同步推进
		return
	}

	if s.timings.TurnTimeout > 0 {
		s.turnDeadline = time.Now().Add(s.timings.TurnTimeout)
		s.turnTimer = time.AfterFunc(s.timings.TurnTimeout, func() { s.hostSeat(seq) })
	}
}

func (s *Session) stopTurnTimerLocked() {
	if s.turnTimer != nil {
		s.turnTimer.Stop()
		s.turnTimer = nil
	}
	s.turnDeadline = time.Time{}
}

// afterActionLocked 每次状态推进后的收尾：当前回合没有计时器驱动时
// 同步跑完连续的电脑/托管回合，让全电脑的残局不依赖外部输入直接打到
// 终局。beginTurnLocked 起了计时器（延迟出牌或人类倒计时）就交给回调
func (s *Session) afterActionLocked() {
	for s.status == StatusPlaying && s.turnTimer == nil {
		player := s.players[s.currentTurn]
		if !player.IsBot && !player.IsAutoPlayed {
			return
		}
		s.autoPlayLocked(player.Seat)
		s.notifyChanged()
	}
}

// actForSeat 计时器回调：轮到的电脑或托管座位出牌
func (s *Session) actForSeat(seq int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// 回合已被人类请求推进过，本次回调作废
	if seq != s.turnSeq || s.status != StatusPlaying {
		return
	}
	s.autoPlayLocked(s.currentTurn)
	s.notifyChanged()
	s.afterActionLocked()
}

// hostSeat 计时器回调：人类座位超时，切入托管并立即代打
func (s *Session) hostSeat(seq int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if seq != s.turnSeq || s.status != StatusPlaying {
		return
	}
	player := s.players[s.currentTurn]
	player.IsAutoPlayed = true
	s.appendLog(fmt.Sprintf("%s 出牌超时，已切换为系统托管", player.Name))

	s.autoPlayLocked(player.Seat)
	s.notifyChanged()
	s.afterActionLocked()
}

// autoPlayLocked 由评估器为指定座位做一次决策并落地
func (s *Session) autoPlayLocked(seat int) {
	move := s.evaluator.ChooseMove(s.aiContextLocked(seat))

	if move == nil {
		if err := s.passLocked(seat); err == nil {
			return
		}
		// 自由出牌不允许过，兜底打出最小的一张
		move = s.smallestSingleLocked(seat)
		if move == nil {
			return
		}
	}

	ids := make([]string, len(move))
	for i, c := range move {
		ids[i] = c.ID
	}
	if err := s.playLocked(seat, ids); err != nil {
		// 评估器只产出合法牌组，这里失败说明状态已被并发推进
		return
	}
}

func (s *Session) smallestSingleLocked(seat int) []card.Card {
	hand := s.players[seat].Hand
	if len(hand) == 0 {
		return nil
	}
	lowest := hand[0]
	for _, c := range hand[1:] {
		if c.Value() < lowest.Value() {
			lowest = c
		}
	}
	return []card.Card{lowest}
}

// aiContextLocked 把当前局面整理成评估器输入
func (s *Session) aiContextLocked(seat int) ai.Context {
	seats := make([]ai.SeatView, SeatCount)
	for i, p := range s.players {
		seats[i] = ai.SeatView{
			Seat:     i,
			Team:     string(p.Team),
			Hand:     p.Hand,
			Finished: p.Finished,
		}
	}

	stats := make(map[int]ai.TurnStats, len(s.turnStats))
	for k, v := range s.turnStats {
		stats[k] = v
	}

	lastPlayer := -1
	if len(s.handHistory) > 0 && !s.freeTurnLocked() {
		lastPlayer = s.handHistory[len(s.handHistory)-1].PlayerSeat
	}

	ctx := ai.Context{
		Self:       seat,
		Seats:      seats,
		LastPlayer: lastPlayer,
		TurnStats:  stats,
	}
	if lastPlayer >= 0 {
		ctx.LastHand = s.lastHandLocked()
	}
	return ctx
}

// TurnTimeLeft 当前回合剩余时间，没有计时器时为 0
func (s *Session) TurnTimeLeft() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.turnDeadline.IsZero() {
		return 0
	}
	left := time.Until(s.turnDeadline)
	if left < 0 {
		return 0
	}
	return left
}

// SetHosted 设置或解除座位托管。解除时如果正轮到该座位，重新起满额倒计时
func (s *Session) SetHosted(seat int, hosted bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	player := s.players[seat]
	if player.IsBot || player.IsAutoPlayed == hosted {
		return
	}
	player.IsAutoPlayed = hosted

	if s.status == StatusPlaying && s.currentTurn == seat {
		s.beginTurnLocked()
	}
	s.notifyChanged()
	s.afterActionLocked()
}

// SetConnected 标记座位连接状态。断线的人类座位转入托管
func (s *Session) SetConnected(seat int, connected bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	player := s.players[seat]
	player.IsConnected = connected
	if !connected && !player.IsBot {
		player.IsAutoPlayed = true
		if s.status == StatusPlaying && s.currentTurn == seat {
			s.beginTurnLocked()
		}
	}
	s.notifyChanged()
	s.afterActionLocked()
}
