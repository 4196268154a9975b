package card

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDeck(t *testing.T) {
	t.Parallel()

	deck := NewDeck()
	require.Len(t, deck, 54)

	// ID 必须唯一
	ids := make(map[string]bool, len(deck))
	for _, c := range deck {
		assert.False(t, ids[c.ID], "duplicate id %s", c.ID)
		ids[c.ID] = true
	}

	// 混牌共 10 张：2×4 + 3×4 + 大小王
	wilds := 0
	jokers := 0
	for _, c := range deck {
		if c.IsWild() {
			wilds++
		}
		if c.Suit == Joker {
			jokers++
		}
	}
	assert.Equal(t, 10, wilds)
	assert.Equal(t, 2, jokers)
}

func TestRankOrdering(t *testing.T) {
	t.Parallel()

	// 强度严格递增：4 < 5 < ... < A < 2 < 3 < 小王 < 大王
	order := []Rank{
		Rank4, Rank5, Rank6, Rank7, Rank8, Rank9, Rank10,
		RankJ, RankQ, RankK, RankA, Rank2, Rank3, RankSmallJoker, RankBigJoker,
	}
	for i := 1; i < len(order); i++ {
		assert.Greater(t, order[i].Value(), order[i-1].Value())
	}

	// 混牌占据最高的四个档位
	for _, r := range []Rank{Rank2, Rank3, RankSmallJoker, RankBigJoker} {
		assert.True(t, r.IsWild())
		assert.Greater(t, r.Value(), RankA.Value())
	}
	for _, r := range []Rank{Rank4, Rank10, RankA} {
		assert.False(t, r.IsWild())
	}
}

func TestSortDesc(t *testing.T) {
	t.Parallel()

	hand := []Card{
		{ID: "a", Suit: Spade, Rank: Rank5},
		{ID: "b", Suit: Joker, Rank: RankBigJoker},
		{ID: "c", Suit: Heart, Rank: RankK},
	}
	SortDesc(hand)

	assert.Equal(t, RankBigJoker, hand[0].Rank)
	assert.Equal(t, RankK, hand[1].Rank)
	assert.Equal(t, Rank5, hand[2].Rank)
}

func TestFindCardsByIDs(t *testing.T) {
	t.Parallel()

	hand := []Card{
		{ID: "c1", Suit: Spade, Rank: Rank5},
		{ID: "c2", Suit: Heart, Rank: Rank5},
	}

	tests := []struct {
		name     string
		ids      []string
		hasError bool
	}{
		{name: "Found", ids: []string{"c1", "c2"}, hasError: false},
		{name: "Missing card", ids: []string{"c1", "c9"}, hasError: true},
		{name: "Duplicate id", ids: []string{"c1", "c1"}, hasError: true},
		{name: "Empty selection", ids: nil, hasError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cards, err := FindCardsByIDs(hand, tt.ids)
			if tt.hasError {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Len(t, cards, len(tt.ids))
			}
		})
	}
}

func TestRemoveCards(t *testing.T) {
	t.Parallel()

	hand := []Card{
		{ID: "c1", Suit: Spade, Rank: Rank5},
		{ID: "c2", Suit: Heart, Rank: Rank5},
		{ID: "c3", Suit: Club, Rank: Rank9},
	}

	rest := RemoveCards(hand, []Card{{ID: "c2", Suit: Heart, Rank: Rank5}})
	require.Len(t, rest, 2)
	assert.Equal(t, "c1", rest[0].ID)
	assert.Equal(t, "c3", rest[1].ID)
}

func TestIsRed(t *testing.T) {
	t.Parallel()

	assert.True(t, Card{Suit: Heart, Rank: Rank4}.IsRed())
	assert.True(t, Card{Suit: Diamond, Rank: RankQ}.IsRed())
	assert.True(t, Card{Suit: Joker, Rank: RankBigJoker}.IsRed())
	assert.False(t, Card{Suit: Spade, Rank: Rank4}.IsRed())
	assert.False(t, Card{Suit: Joker, Rank: RankSmallJoker}.IsRed())
}
