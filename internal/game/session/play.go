package session

import (
	"fmt"
	"time"

	"github.com/palemoky/six-poker/internal/apperrors"
	"github.com/palemoky/six-poker/internal/game/card"
	"github.com/palemoky/six-poker/internal/game/rule"
)

// Play 处理出牌意图。被拒绝的意图不改变任何状态，调用方重新提交即可
func (s *Session) Play(seat int, cardIDs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.playLocked(seat, cardIDs); err != nil {
		return err
	}
	s.notifyChanged()
	s.afterActionLocked()
	return nil
}

// Pass 处理过牌意图
func (s *Session) Pass(seat int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.passLocked(seat); err != nil {
		return err
	}
	s.notifyChanged()
	s.afterActionLocked()
	return nil
}

func (s *Session) playLocked(seat int, cardIDs []string) error {
	if s.status != StatusPlaying {
		return apperrors.ErrGameNotStart
	}
	if s.currentTurn != seat {
		return apperrors.ErrNotYourTurn
	}
	player := s.players[seat]

	cards, err := card.FindCardsByIDs(player.Hand, cardIDs)
	if err != nil {
		return apperrors.ErrInvalidCards
	}

	parsed, err := rule.ParseHand(cards)
	if err != nil {
		return apperrors.ErrInvalidCards
	}
	if !s.freeTurnLocked() && !rule.CanBeat(parsed, s.lastHandLocked()) {
		return apperrors.ErrCannotBeat
	}

	s.applyPlayLocked(player, parsed)
	return nil
}

func (s *Session) passLocked(seat int) error {
	if s.status != StatusPlaying {
		return apperrors.ErrGameNotStart
	}
	if s.currentTurn != seat {
		return apperrors.ErrNotYourTurn
	}
	if s.freeTurnLocked() {
		return apperrors.ErrMustPlay
	}

	s.applyPassLocked(s.players[seat])
	return nil
}

// lastHandLocked 当前一轮里最近的一次出牌，没有则返回空
func (s *Session) lastHandLocked() rule.ParsedHand {
	if len(s.handHistory) == 0 {
		return rule.ParsedHand{}
	}
	last := s.handHistory[len(s.handHistory)-1]
	return rule.ParsedHand{Type: last.Type, MainValue: last.MainValue, Cards: last.Cards}
}

// freeTurnLocked 自由出牌：一轮还没人出过，或过牌数已达门槛
func (s *Session) freeTurnLocked() bool {
	return len(s.handHistory) == 0 || s.passCount >= s.passThresholdLocked()
}

// passThresholdLocked 过牌门槛。
// 正常是 activeCount-1；若拿住牌权的人已经出完，他的离场不能让这一轮
// 转一圈就收走，场上每个人都得明确过牌，门槛变为 activeCount。
func (s *Session) passThresholdLocked() int {
	threshold := s.activeCount() - 1
	if len(s.handHistory) > 0 {
		last := s.handHistory[len(s.handHistory)-1]
		if s.players[last.PlayerSeat].Finished {
			threshold = s.activeCount()
		}
	}
	return threshold
}

func (s *Session) applyPlayLocked(player *Player, parsed rule.ParsedHand) {
	player.Hand = card.RemoveCards(player.Hand, parsed.Cards)

	s.playSeq++
	s.handHistory = append(s.handHistory, PlayedHand{
		Seq:        s.playSeq,
		PlayerSeat: player.Seat,
		PlayerName: player.Name,
		PlayerTeam: player.Team,
		Cards:      parsed.Cards,
		Type:       parsed.Type,
		MainValue:  parsed.MainValue,
		PlayedAt:   time.Now(),
	})
	s.passCount = 0

	stats := s.turnStats[player.Seat]
	stats.Plays++
	s.turnStats[player.Seat] = stats
	s.appendLog(fmt.Sprintf("%s 出了 %d 张牌（%s）", player.Name, parsed.Size(), parsed.Type))

	if len(player.Hand) == 0 && !player.Finished {
		player.Finished = true
		player.FinishOrder = len(s.winners) + 1
		s.winners = append(s.winners, player.Seat)
		if s.headFinisher == -1 {
			s.headFinisher = player.Seat
		}
		s.appendLog(fmt.Sprintf("%s 出完了全部手牌，名次 %d", player.Name, player.FinishOrder))
	}

	if s.checkRoundOverLocked() {
		return
	}

	s.advanceTurnLocked()
	s.maybeResolveTrickLocked()
	s.beginTurnLocked()
}

func (s *Session) applyPassLocked(player *Player) {
	s.passCount++
	stats := s.turnStats[player.Seat]
	stats.Passes++
	s.turnStats[player.Seat] = stats
	s.appendLog(fmt.Sprintf("%s 过牌", player.Name))

	s.advanceTurnLocked()
	s.maybeResolveTrickLocked()
	s.beginTurnLocked()
}

// advanceTurnLocked 轮到下一个还没出完的座位
func (s *Session) advanceTurnLocked() {
	for i := 0; i < SeatCount; i++ {
		s.currentTurn = (s.currentTurn + 1) % SeatCount
		if !s.players[s.currentTurn].Finished {
			return
		}
	}
}

// maybeResolveTrickLocked 过牌数到达门槛时结算一轮：
// 清空本轮出牌、过牌数归零，牌权回到最后出牌的人；
// 若那人已出完，牌权顺延给他下家的在场座位（下家继承牌权）。
// 结算后门槛条件不再满足，重复过牌不会二次结算。
func (s *Session) maybeResolveTrickLocked() {
	if len(s.handHistory) == 0 || s.passCount < s.passThresholdLocked() {
		return
	}

	last := s.handHistory[len(s.handHistory)-1]
	s.handHistory = nil
	s.passCount = 0

	if !s.players[last.PlayerSeat].Finished {
		s.currentTurn = last.PlayerSeat
	} else {
		s.currentTurn = last.PlayerSeat
		s.advanceTurnLocked()
	}

	// 新一轮开始，过牌计数重新统计
	for seat, stats := range s.turnStats {
		stats.Passes = 0
		s.turnStats[seat] = stats
	}
	s.appendLog("一轮过牌，重置牌权")
}

// checkRoundOverLocked 胜负判定：任一队三人全部出完即终局。
// 头游所在队不判负：若对方先全员出完但头游在己方，本局记平局。
func (s *Session) checkRoundOverLocked() bool {
	finished := map[Team]int{}
	for _, p := range s.players {
		if p.Finished {
			finished[p.Team]++
		}
	}
	if finished[TeamA] < 3 && finished[TeamB] < 3 {
		return false
	}

	s.status = StatusRoundOver
	s.stopTurnTimerLocked()

	winner := TeamA
	if finished[TeamB] >= 3 {
		winner = TeamB
	}

	headTeam := Team("")
	if s.headFinisher >= 0 {
		headTeam = s.players[s.headFinisher].Team
	}

	if headTeam != "" && headTeam != winner {
		s.winningTeam = ""
		s.draws++
		s.appendLog("本局结束，平局（头游队未负）")
	} else {
		s.winningTeam = winner
		s.teamWins[winner]++
		s.appendLog(fmt.Sprintf("本局结束，%s 队全员出完", winner))
	}
	s.roundComplete = true
	return true
}

// Resync 不变量被破坏时的恢复手段：当前回合停在已出完的座位上时，
// 强制推进到下一个在场座位。正常流程不会走到这里
func (s *Session) Resync() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != StatusPlaying || !s.players[s.currentTurn].Finished {
		return
	}
	s.advanceTurnLocked()
	s.beginTurnLocked()
	s.notifyChanged()
	s.afterActionLocked()
}
