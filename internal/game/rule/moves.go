package rule

import (
	"slices"

	"github.com/palemoky/six-poker/internal/game/card"
)

// LegalMoves 枚举手牌中所有能出的牌组。
// 自由出牌（lastHand 为空）时考虑 1-4 张的所有牌型，跟牌时只考虑与上家相同的张数。
// 按点数分组生成而不是暴力枚举所有子集：合法组合要么是某一非混点数组
// 加若干混牌，要么是纯混牌，逐组枚举即可覆盖全部合法子集。
// 结果按 ID 签名去重，遍历顺序对相同输入是确定的。
func LegalMoves(hand []card.Card, lastHand ParsedHand) [][]card.Card {
	if len(hand) == 0 {
		return nil
	}

	var sizes []int
	if lastHand.IsEmpty() {
		sizes = []int{1, 2, 3, 4}
	} else {
		sizes = []int{lastHand.Size()}
	}

	var wilds []card.Card
	groups := make(map[int][]card.Card)
	for _, c := range hand {
		if c.IsWild() {
			wilds = append(wilds, c)
		} else {
			groups[c.Value()] = append(groups[c.Value()], c)
		}
	}

	// 固定遍历顺序：非混牌点数从小到大，混牌按强度从小到大
	values := make([]int, 0, len(groups))
	for v := range groups {
		values = append(values, v)
	}
	slices.Sort(values)
	slices.SortFunc(wilds, func(a, b card.Card) int { return a.Value() - b.Value() })

	var legal [][]card.Card
	seen := make(map[string]bool)
	emit := func(cards []card.Card) {
		sig := card.IDSignature(cards)
		if seen[sig] {
			return
		}
		seen[sig] = true
		legal = append(legal, cards)
	}

	for _, size := range sizes {
		if size > len(hand) {
			continue
		}

		// 单张混牌也是合法单张，走纯混牌分支
		for _, v := range values {
			group := groups[v]
			if !lastHand.IsEmpty() && v <= lastHand.MainValue {
				continue
			}
			// k-j 张本点数 + j 张混牌
			for j := 0; j < size; j++ {
				need := size - j
				if need > len(group) || j > len(wilds) {
					continue
				}
				combinations(group, need, func(base []card.Card) {
					combinations(wilds, j, func(extra []card.Card) {
						move := make([]card.Card, 0, size)
						move = append(move, base...)
						move = append(move, extra...)
						emit(move)
					})
				})
			}
		}

		// 纯混牌组合，主点数取最小混牌
		if size <= len(wilds) {
			combinations(wilds, size, func(ws []card.Card) {
				minValue := ws[0].Value()
				for _, c := range ws[1:] {
					if c.Value() < minValue {
						minValue = c.Value()
					}
				}
				if !lastHand.IsEmpty() && minValue <= lastHand.MainValue {
					return
				}
				move := make([]card.Card, size)
				copy(move, ws)
				emit(move)
			})
		}
	}

	return legal
}

// combinations 按固定顺序枚举 cards 的所有 k 张组合。
// 回调收到的切片会被复用，需要保留时必须拷贝。
func combinations(cards []card.Card, k int, fn func([]card.Card)) {
	if k == 0 {
		fn(nil)
		return
	}
	if k > len(cards) {
		return
	}

	combo := make([]card.Card, k)
	var walk func(start, depth int)
	walk = func(start, depth int) {
		if depth == k {
			fn(combo)
			return
		}
		for i := start; i <= len(cards)-(k-depth); i++ {
			combo[depth] = cards[i]
			walk(i+1, depth+1)
		}
	}
	walk(0, 0)
}

// HasLegalMove 判断手牌中是否存在能压过 lastHand 的组合
func HasLegalMove(hand []card.Card, lastHand ParsedHand) bool {
	return len(LegalMoves(hand, lastHand)) > 0
}
