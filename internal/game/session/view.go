package session

import (
	"time"

	"github.com/palemoky/six-poker/internal/game/card"
	"github.com/palemoky/six-poker/internal/protocol"
)

func toCardView(c card.Card) protocol.CardView {
	return protocol.CardView{
		ID:     c.ID,
		Suit:   c.Suit.String(),
		Rank:   c.Rank.String(),
		Value:  c.Value(),
		IsWild: c.IsWild(),
		IsRed:  c.IsRed(),
	}
}

func toCardViews(cards []card.Card) []protocol.CardView {
	views := make([]protocol.CardView, len(cards))
	for i, c := range cards {
		views[i] = toCardView(c)
	}
	return views
}

// SnapshotFor 生成 viewer 视角的状态快照。
// viewer 传 -1 表示观战者，看不到任何人的手牌内容
func (s *Session) SnapshotFor(viewer int) protocol.GameSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	players := make([]protocol.PlayerView, SeatCount)
	for i, p := range s.players {
		view := protocol.PlayerView{
			Seat:         p.Seat,
			Name:         p.Name,
			Team:         string(p.Team),
			CardCount:    len(p.Hand),
			IsBot:        p.IsBot,
			IsConnected:  p.IsConnected,
			IsAutoPlayed: p.IsAutoPlayed,
			Finished:     p.Finished,
			FinishOrder:  p.FinishOrder,
		}
		if i == viewer {
			view.Hand = toCardViews(p.Hand)
		}
		players[i] = view
	}

	history := make([]protocol.PlayedHandView, len(s.handHistory))
	for i, h := range s.handHistory {
		history[i] = protocol.PlayedHandView{
			Seq:        h.Seq,
			PlayerSeat: h.PlayerSeat,
			PlayerName: h.PlayerName,
			PlayerTeam: string(h.PlayerTeam),
			Cards:      toCardViews(h.Cards),
			HandType:   h.Type.String(),
			MainValue:  h.MainValue,
			PlayedAt:   h.PlayedAt.UnixMilli(),
		}
	}

	timeLeft := 0
	if !s.turnDeadline.IsZero() {
		if left := int(time.Until(s.turnDeadline).Seconds()); left > 0 {
			timeLeft = left
		}
	}

	winners := make([]int, len(s.winners))
	copy(winners, s.winners)
	logs := make([]string, len(s.logs))
	copy(logs, s.logs)

	return protocol.GameSnapshot{
		Status:       s.status.String(),
		CurrentTurn:  s.currentTurn,
		CurrentRound: s.currentRound,
		PassCount:    s.passCount,
		Players:      players,
		HandHistory:  history,
		Winners:      winners,
		WinningTeam:  string(s.winningTeam),
		HeadFinisher: s.headFinisher,
		TeamWins: map[string]int{
			string(TeamA): s.teamWins[TeamA],
			string(TeamB): s.teamWins[TeamB],
		},
		Draws:        s.draws,
		TurnTimeLeft: timeLeft,
		Logs:         logs,
	}
}
