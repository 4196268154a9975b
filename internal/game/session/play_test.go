package session

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/six-poker/internal/apperrors"
	"github.com/palemoky/six-poker/internal/game/ai"
	"github.com/palemoky/six-poker/internal/game/card"
)

func tc(id string, suit card.Suit, rank card.Rank) card.Card {
	return card.Card{ID: id, Suit: suit, Rank: rank}
}

// newPlayingSession 构造一桌进行中的对局，手牌和先手座位由测试指定
func newPlayingSession(hands [SeatCount][]card.Card, turn int) *Session {
	var names [SeatCount]string
	var bots [SeatCount]bool
	for i := range names {
		names[i] = fmt.Sprintf("玩家%d", i)
	}
	s := NewSession(names, bots, ai.NewEvaluator(ai.DefaultTunables()))
	s.status = StatusPlaying
	s.currentTurn = turn
	s.currentRound = 1
	for i := range s.players {
		s.players[i].Hand = hands[i]
	}
	return s
}

// fillerHand 凑数用的三张小牌，座位之间 ID 不冲突
func fillerHand(seat int) []card.Card {
	return []card.Card{
		tc(fmt.Sprintf("f%d-0", seat), card.Spade, card.Rank5),
		tc(fmt.Sprintf("f%d-1", seat), card.Club, card.Rank6),
		tc(fmt.Sprintf("f%d-2", seat), card.Diamond, card.Rank7),
	}
}

func ids(cards ...card.Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.ID
	}
	return out
}

func TestPlayValidation(t *testing.T) {
	t.Parallel()

	var hands [SeatCount][]card.Card
	for i := range hands {
		hands[i] = fillerHand(i)
	}
	big := tc("big", card.Heart, card.RankK)
	small := tc("small", card.Heart, card.Rank4)
	hands[0] = append(hands[0], big)
	hands[1] = append(hands[1], small)

	s := newPlayingSession(hands, 0)

	// 没轮到的座位出牌被拒绝
	assert.ErrorIs(t, s.Play(1, ids(small)), apperrors.ErrNotYourTurn)

	// 自由出牌阶段不允许过牌
	assert.ErrorIs(t, s.Pass(0), apperrors.ErrMustPlay)

	// 不存在的牌 ID
	assert.ErrorIs(t, s.Play(0, []string{"nope"}), apperrors.ErrInvalidCards)

	require.NoError(t, s.Play(0, ids(big)))
	assert.Equal(t, 1, s.CurrentTurn())

	// 压不过上家的 K
	assert.ErrorIs(t, s.Play(1, ids(small)), apperrors.ErrCannotBeat)

	// 有上家出牌时可以过
	require.NoError(t, s.Pass(1))
	assert.Equal(t, 2, s.CurrentTurn())
}

func TestTrickResolvesAfterFullRoundOfPasses(t *testing.T) {
	t.Parallel()

	var hands [SeatCount][]card.Card
	for i := range hands {
		hands[i] = fillerHand(i)
	}
	nine := tc("nine", card.Spade, card.Rank9)
	hands[0] = append(hands[0], nine)

	s := newPlayingSession(hands, 0)
	require.NoError(t, s.Play(0, ids(nine)))

	// 其余五人依次过牌，第五个过牌触发结算
	for seat := 1; seat < SeatCount; seat++ {
		require.NoError(t, s.Pass(seat))
	}

	assert.Equal(t, 0, s.CurrentTurn(), "牌权应回到最后出牌的人")
	assert.Empty(t, s.handHistory)
	assert.Zero(t, s.passCount)

	// 结算后进入自由出牌，牌权持有者必须出牌
	assert.ErrorIs(t, s.Pass(0), apperrors.ErrMustPlay)
}

func TestFinishedLeaderPassThresholdAndInheritance(t *testing.T) {
	t.Parallel()

	var hands [SeatCount][]card.Card
	for i := range hands {
		hands[i] = fillerHand(i)
	}
	last := tc("last", card.Spade, card.RankA)
	hands[0] = []card.Card{last} // 座位 0 只剩一张

	s := newPlayingSession(hands, 0)
	require.NoError(t, s.Play(0, ids(last)))

	assert.True(t, s.players[0].Finished)
	assert.Equal(t, 1, s.players[0].FinishOrder)
	assert.Equal(t, 0, s.headFinisher)
	assert.Equal(t, []int{0}, s.winners)
	assert.Equal(t, StatusPlaying, s.Status())

	// 牌权持有者已出完，场上五人全部过牌才结算
	for seat := 1; seat < SeatCount; seat++ {
		require.NoError(t, s.Pass(seat))
	}

	assert.Equal(t, 1, s.CurrentTurn(), "牌权应继承给出完者之后第一个在场座位")
	assert.Empty(t, s.handHistory)
	assert.ErrorIs(t, s.Pass(1), apperrors.ErrMustPlay)
}

func TestRoundOverTeamWin(t *testing.T) {
	t.Parallel()

	var hands [SeatCount][]card.Card
	for i := range hands {
		hands[i] = fillerHand(i)
	}
	lastCard := tc("last", card.Club, card.Rank8)
	hands[4] = []card.Card{lastCard}

	s := newPlayingSession(hands, 4)
	// A 队的 0、2 先后出完，头游是 0
	for _, seat := range []int{0, 2} {
		s.players[seat].Hand = nil
		s.players[seat].Finished = true
		s.players[seat].FinishOrder = len(s.winners) + 1
		s.winners = append(s.winners, seat)
	}
	s.headFinisher = 0

	require.NoError(t, s.Play(4, ids(lastCard)))

	assert.Equal(t, StatusRoundOver, s.Status())
	assert.Equal(t, TeamA, s.winningTeam)
	assert.Equal(t, map[Team]int{TeamA: 1, TeamB: 0}, s.TeamWins())
	assert.Equal(t, []int{0, 2, 4}, s.winners)
}

func TestRoundOverHeadFinisherDraw(t *testing.T) {
	t.Parallel()

	var hands [SeatCount][]card.Card
	for i := range hands {
		hands[i] = fillerHand(i)
	}
	lastCard := tc("last", card.Club, card.Rank8)
	hands[4] = []card.Card{lastCard}

	s := newPlayingSession(hands, 4)
	// 头游是 B 队的座位 1，之后 A 队的 0、2 出完
	for _, seat := range []int{1, 0, 2} {
		s.players[seat].Hand = nil
		s.players[seat].Finished = true
		s.players[seat].FinishOrder = len(s.winners) + 1
		s.winners = append(s.winners, seat)
	}
	s.headFinisher = 1

	require.NoError(t, s.Play(4, ids(lastCard)))

	// A 队三人全部出完，但头游在 B 队，判平局
	assert.Equal(t, StatusRoundOver, s.Status())
	assert.Equal(t, Team(""), s.winningTeam)
	assert.Equal(t, 1, s.draws)
	assert.Equal(t, map[Team]int{TeamA: 0, TeamB: 0}, s.TeamWins())
}

func TestSnapshotRedaction(t *testing.T) {
	t.Parallel()

	var hands [SeatCount][]card.Card
	for i := range hands {
		hands[i] = fillerHand(i)
	}
	s := newPlayingSession(hands, 0)

	snap := s.SnapshotFor(2)
	require.Len(t, snap.Players, SeatCount)
	for _, p := range snap.Players {
		assert.Equal(t, 3, p.CardCount)
		if p.Seat == 2 {
			assert.Len(t, p.Hand, 3, "观察者能看到自己的手牌")
		} else {
			assert.Empty(t, p.Hand, "其他座位的手牌内容不可见")
		}
	}

	// 观战者什么手牌都看不到
	spectator := s.SnapshotFor(-1)
	for _, p := range spectator.Players {
		assert.Empty(t, p.Hand)
	}
}

func TestStartNextRoundRequiresRoundOver(t *testing.T) {
	t.Parallel()

	var hands [SeatCount][]card.Card
	for i := range hands {
		hands[i] = fillerHand(i)
	}
	s := newPlayingSession(hands, 0)
	assert.Error(t, s.StartNextRound())
}

func TestAllBotRoundRunsToCompletion(t *testing.T) {
	t.Parallel()

	var names [SeatCount]string
	var bots [SeatCount]bool
	for i := range names {
		names[i] = fmt.Sprintf("电脑%d", i)
		bots[i] = true
	}
	s := NewSession(names, bots, ai.NewEvaluator(ai.DefaultTunables()))

	// 无计时驱动时 StartRound 同步打完整局
	s.StartRound()

	require.Equal(t, StatusRoundOver, s.Status())
	assert.GreaterOrEqual(t, len(s.winners), 3)
	assert.GreaterOrEqual(t, s.headFinisher, 0)
	assert.Equal(t, 1, s.teamWins[TeamA]+s.teamWins[TeamB]+s.draws, "每局必有胜队或平局")

	// 终局后所有出完的人手牌为空，未出完的人还有牌
	for _, p := range s.players {
		if p.Finished {
			assert.Empty(t, p.Hand)
		} else {
			assert.NotEmpty(t, p.Hand)
		}
	}

	// 队伍胜场跨局保留
	winsBefore := s.TeamWins()
	require.NoError(t, s.StartNextRound())
	require.Equal(t, StatusRoundOver, s.Status())
	assert.Equal(t, 2, s.Round())
	total := s.teamWins[TeamA] + s.teamWins[TeamB] + s.draws
	assert.Equal(t, 2, total)
	assert.GreaterOrEqual(t, s.teamWins[TeamA], winsBefore[TeamA])
	assert.GreaterOrEqual(t, s.teamWins[TeamB], winsBefore[TeamB])
}

func TestBotTurnsAdvanceWhenOnlyHumanTimerIsOn(t *testing.T) {
	t.Parallel()

	// 人类倒计时开着、电脑零延迟：电脑回合没有计时器驱动，
	// 必须在动作收尾时同步推进，否则全电脑残局会停在原地
	timings := Timings{TurnTimeout: time.Minute}

	t.Run("全电脑一局直接打到终局", func(t *testing.T) {
		t.Parallel()

		var names [SeatCount]string
		var bots [SeatCount]bool
		for i := range names {
			names[i] = fmt.Sprintf("电脑%d", i)
			bots[i] = true
		}
		s := NewSession(names, bots, ai.NewEvaluator(ai.DefaultTunables()), WithTimings(timings))

		s.StartRound()
		assert.Equal(t, StatusRoundOver, s.Status())
	})

	t.Run("推进到真人回合后起倒计时等人", func(t *testing.T) {
		t.Parallel()

		var names [SeatCount]string
		var bots [SeatCount]bool
		for i := range names {
			names[i] = fmt.Sprintf("玩家%d", i)
			bots[i] = i != 0
		}
		s := NewSession(names, bots, ai.NewEvaluator(ai.DefaultTunables()), WithTimings(timings))

		// 电脑回合同步推进，到座位 0 停下并进入倒计时
		s.StartRound()
		assert.Equal(t, StatusPlaying, s.Status())
		assert.Equal(t, 0, s.CurrentTurn())
		assert.Positive(t, s.TurnTimeLeft())
	})
}

func TestHostedSeatAutoPlaysSynchronously(t *testing.T) {
	t.Parallel()

	var hands [SeatCount][]card.Card
	for i := range hands {
		hands[i] = fillerHand(i)
	}
	s := newPlayingSession(hands, 0)

	// 托管座位 0 后立刻由系统代打（零延迟同步推进）
	s.SetHosted(0, true)
	assert.True(t, s.players[0].IsAutoPlayed)
	assert.NotEqual(t, 0, s.CurrentTurn(), "托管座位的回合应被自动推进")
	assert.Less(t, len(s.players[0].Hand), 3)

	s.SetHosted(0, false)
	assert.False(t, s.players[0].IsAutoPlayed)
}

func TestSetConnectedDisconnectEntersHosting(t *testing.T) {
	t.Parallel()

	var hands [SeatCount][]card.Card
	for i := range hands {
		hands[i] = fillerHand(i)
	}
	s := newPlayingSession(hands, 1)

	s.SetConnected(3, false)
	assert.False(t, s.players[3].IsConnected)
	assert.True(t, s.players[3].IsAutoPlayed, "断线的人类座位转入托管")

	s.SetConnected(3, true)
	assert.True(t, s.players[3].IsConnected)
}
