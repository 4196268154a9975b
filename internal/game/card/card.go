package card

import (
	"fmt"
	"math/rand/v2"
	"strconv"
)

// Suit 定义花色
type Suit int

// Rank 定义点数
type Rank int

const (
	Spade   Suit = iota // 黑桃
	Heart               // 红心
	Club                // 梅花
	Diamond             // 方块
	Joker               // 王牌
)

// suitSymbols 花色符号映射表
var suitSymbols = map[Suit]string{
	Spade:   "♠",
	Heart:   "♥",
	Club:    "♣",
	Diamond: "♦",
	Joker:   "",
}

func (s Suit) String() string {
	if symbol, ok := suitSymbols[s]; ok {
		return symbol
	}
	return ""
}

// 砸六家的点数排序：4 最小，依次到 A，然后 2、3、小王、大王。
// 2、3 和大小王是混牌（任意配），占据最高的四个强度档位。
const (
	Rank4 Rank = iota + 4
	Rank5
	Rank6
	Rank7
	Rank8
	Rank9
	Rank10
	RankJ // Jack
	RankQ // Queen
	RankK // King
	RankA // Ace
	Rank2
	Rank3
	RankSmallJoker // 小王
	RankBigJoker   // 大王
)

// rankNames 牌面值字符串映射表
var rankNames = map[Rank]string{
	Rank4:          "4",
	Rank5:          "5",
	Rank6:          "6",
	Rank7:          "7",
	Rank8:          "8",
	Rank9:          "9",
	Rank10:         "10",
	RankJ:          "J",
	RankQ:          "Q",
	RankK:          "K",
	RankA:          "A",
	Rank2:          "2",
	Rank3:          "3",
	RankSmallJoker: "SJ",
	RankBigJoker:   "BJ",
}

func (r Rank) String() string {
	if name, ok := rankNames[r]; ok {
		return name
	}
	return strconv.Itoa(int(r))
}

// Value 返回点数的强度值，严格单调：4 最弱，大王最强
func (r Rank) Value() int {
	return int(r)
}

// IsWild 判断点数是否为混牌（2、3、大小王可任意配）
func (r Rank) IsWild() bool {
	switch r {
	case Rank2, Rank3, RankSmallJoker, RankBigJoker:
		return true
	}
	return false
}

// Card 定义一张牌。ID 在一副牌内唯一，用于区分同点数同花色的牌
type Card struct {
	ID   string
	Suit Suit
	Rank Rank
}

// Value 返回牌的强度值
func (c Card) Value() int {
	return c.Rank.Value()
}

// IsWild 判断是否为混牌
func (c Card) IsWild() bool {
	return c.Rank.IsWild()
}

// IsRed 判断是否为红色牌（仅用于展示，不影响规则）
func (c Card) IsRed() bool {
	return c.Suit == Heart || c.Suit == Diamond || c.Rank == RankBigJoker
}

func (c Card) String() string {
	return fmt.Sprintf("%s%s", c.Suit, c.Rank)
}

// IsTrump 判断是否为主牌（A 及以上，评估器用于控制节奏）
func (c Card) IsTrump() bool {
	return c.Rank >= RankA
}

// Deck 定义一副牌
type Deck []Card

// NewDeck 生成一副 54 张的牌：4 种花色 × 13 种点数（4 到 A 加 2、3）加大小王
func NewDeck() Deck {
	deck := make(Deck, 0, 54)
	id := 0
	for s := Spade; s <= Diamond; s++ {
		for r := Rank4; r <= Rank3; r++ {
			deck = append(deck, Card{ID: "c" + strconv.Itoa(id), Suit: s, Rank: r})
			id++
		}
	}
	deck = append(deck,
		Card{ID: "c" + strconv.Itoa(id), Suit: Joker, Rank: RankSmallJoker},
		Card{ID: "c" + strconv.Itoa(id+1), Suit: Joker, Rank: RankBigJoker},
	)
	return deck
}

// Shuffle 均匀洗牌
func (d Deck) Shuffle() {
	rand.Shuffle(len(d), func(i, j int) {
		d[i], d[j] = d[j], d[i]
	})
}
