package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/six-poker/internal/game/card"
	"github.com/palemoky/six-poker/internal/game/rule"
)

func mk(id string, suit card.Suit, rank card.Rank) card.Card {
	return card.Card{ID: id, Suit: suit, Rank: rank}
}

func teamFor(seat int) string {
	if seat%2 == 0 {
		return "A"
	}
	return "B"
}

// newContext 构造一个六人对局的决策上下文，未指定的座位给一手不相干的牌
func newContext(self int, selfHand []card.Card) Context {
	seats := make([]SeatView, 6)
	for i := range seats {
		seats[i] = SeatView{
			Seat: i,
			Team: teamFor(i),
			Hand: []card.Card{
				mk("f1-"+string(rune('a'+i)), card.Spade, card.Rank6),
				mk("f2-"+string(rune('a'+i)), card.Heart, card.Rank8),
				mk("f3-"+string(rune('a'+i)), card.Club, card.Rank10),
			},
		}
	}
	seats[self].Hand = selfHand
	return Context{
		Self:       self,
		Seats:      seats,
		LastPlayer: -1,
		TurnStats:  make(map[int]TurnStats),
	}
}

func TestChooseMoveForcedPass(t *testing.T) {
	t.Parallel()

	e := NewEvaluator(DefaultTunables())
	hand := []card.Card{mk("a", card.Spade, card.Rank5), mk("b", card.Heart, card.Rank7)}

	last, err := rule.ParseHand([]card.Card{mk("x", card.Spade, card.RankA)})
	require.NoError(t, err)

	ctx := newContext(0, hand)
	ctx.LastHand = last
	ctx.LastPlayer = 3

	assert.Nil(t, e.ChooseMove(ctx))
}

func TestChooseMovePrefersSmallBeat(t *testing.T) {
	t.Parallel()

	e := NewEvaluator(DefaultTunables())
	hand := []card.Card{
		mk("a", card.Spade, card.Rank9),
		mk("b", card.Heart, card.RankK),
		mk("c", card.Joker, card.RankBigJoker),
	}
	last, err := rule.ParseHand([]card.Card{mk("x", card.Spade, card.Rank8)})
	require.NoError(t, err)

	ctx := newContext(0, hand)
	ctx.LastHand = last
	ctx.LastPlayer = 3

	move := e.ChooseMove(ctx)
	require.Len(t, move, 1)
	// 9、K、大王都能压 8，应选最小的 9
	assert.Equal(t, card.Rank9, move[0].Rank)
}

func TestChooseMoveDeterministic(t *testing.T) {
	t.Parallel()

	e := NewEvaluator(DefaultTunables())
	hand := []card.Card{
		mk("a", card.Spade, card.Rank5),
		mk("b", card.Heart, card.Rank5),
		mk("c", card.Club, card.Rank9),
		mk("d", card.Spade, card.Rank2),
	}

	ctx := newContext(2, hand)
	first := e.ChooseMove(ctx)
	require.NotNil(t, first)
	for i := 0; i < 10; i++ {
		again := e.ChooseMove(ctx)
		assert.Equal(t, card.IDSignature(first), card.IDSignature(again))
	}
}

func TestPreserveTeammateAllTrumpTrick(t *testing.T) {
	t.Parallel()

	e := NewEvaluator(DefaultTunables())

	// 座位 0 和座位 2 同队，座位 2 出了纯主牌对子
	trumpPair := []card.Card{mk("t1", card.Spade, card.RankA), mk("t2", card.Heart, card.RankA)}
	last, err := rule.ParseHand(trumpPair)
	require.NoError(t, err)

	selfHand := []card.Card{
		mk("a", card.Spade, card.Rank2),
		mk("b", card.Heart, card.Rank2),
		mk("c", card.Club, card.Rank9),
	}

	ctx := newContext(0, selfHand)
	ctx.LastHand = last
	ctx.LastPlayer = 2
	// 队友手牌充足，对手都不止一张牌
	ctx.Seats[2].Hand = []card.Card{
		mk("m1", card.Spade, card.Rank6), mk("m2", card.Heart, card.Rank7),
		mk("m3", card.Club, card.Rank8), mk("m4", card.Diamond, card.Rank9),
	}

	// 明明有一对 2 能压，也应让掉队友的牌权
	assert.Nil(t, e.ChooseMove(ctx))

	// 对手只剩一张时不再让牌
	ctx.Seats[1].Hand = []card.Card{mk("o1", card.Spade, card.Rank4)}
	assert.NotNil(t, e.ChooseMove(ctx))
}

func TestEndgamePressureSpendsStrongCards(t *testing.T) {
	t.Parallel()

	tunables := DefaultTunables()
	e := NewEvaluator(tunables)

	hand := []card.Card{
		mk("a", card.Spade, card.Rank9),
		mk("b", card.Heart, card.RankA),
	}
	last, err := rule.ParseHand([]card.Card{mk("x", card.Spade, card.Rank8)})
	require.NoError(t, err)

	// 对手 1 只剩一张牌，终局施压生效，依旧要压得上
	ctx := newContext(0, hand)
	ctx.LastHand = last
	ctx.LastPlayer = 1
	ctx.Seats[1].Hand = []card.Card{mk("o1", card.Spade, card.Rank4)}

	move := e.ChooseMove(ctx)
	require.Len(t, move, 1)
	assert.True(t, rule.CanBeatCards(move, last))
}

func TestRemainingHandCost(t *testing.T) {
	t.Parallel()

	hand := []card.Card{
		mk("a", card.Spade, card.Rank5),
		mk("b", card.Heart, card.Rank5),
		mk("c", card.Spade, card.Rank2),
	}

	// 打空手牌是负成本
	assert.Equal(t, -4.0, remainingHandCost(hand, hand))

	// 留下混牌比留下小牌负担更重
	keepWild := remainingHandCost(hand[:2], hand)   // 剩 2
	keepSmall := remainingHandCost(hand[2:], hand)  // 剩一对 5
	assert.Greater(t, keepWild, keepSmall)
}

func TestTrumpHelpers(t *testing.T) {
	t.Parallel()

	trumps := []card.Card{mk("a", card.Spade, card.RankA), mk("b", card.Heart, card.Rank2)}
	mixed := []card.Card{mk("c", card.Spade, card.RankA), mk("d", card.Heart, card.Rank9)}

	assert.True(t, allTrump(trumps))
	assert.True(t, anyTrump(mixed))
	assert.False(t, allTrump(mixed))
	assert.InDelta(t, 0.5, trumpRatio(mixed), 1e-9)
	assert.Zero(t, trumpRatio(nil))
}

func TestControlFollowups(t *testing.T) {
	t.Parallel()

	hand := []card.Card{
		mk("a", card.Spade, card.Rank6),
		mk("b", card.Heart, card.Rank6),
		mk("c", card.Spade, card.RankK),
		mk("d", card.Heart, card.RankK),
		mk("e", card.Club, card.RankA),
		mk("f", card.Diamond, card.RankA),
	}
	move := hand[:2] // 出一对 6
	parsed, err := rule.ParseHand(move)
	require.NoError(t, err)

	// 剩余的对 K、对 A 都能再压一对 6
	assert.Equal(t, 2, controlFollowups(move, hand, parsed))
}
