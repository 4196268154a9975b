package card

import (
	"fmt"
	"slices"
)

// SortDesc 将手牌按强度从大到小排序
func SortDesc(hand []Card) {
	slices.SortFunc(hand, func(a, b Card) int {
		return b.Value() - a.Value()
	})
}

// FindCardsByIDs 根据 ID 列表从手牌中找出对应的牌，缺一张即失败
func FindCardsByIDs(hand []Card, ids []string) ([]Card, error) {
	if len(ids) == 0 {
		return nil, fmt.Errorf("未选择牌")
	}

	byID := make(map[string]Card, len(hand))
	for _, c := range hand {
		byID[c.ID] = c
	}

	result := make([]Card, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		c, ok := byID[id]
		if !ok || seen[id] {
			return nil, fmt.Errorf("手牌中没有 %s", id)
		}
		seen[id] = true
		result = append(result, c)
	}
	return result, nil
}

// RemoveCards 从手牌中按 ID 移除指定的牌
func RemoveCards(hand, toRemove []Card) []Card {
	removed := make(map[string]bool, len(toRemove))
	for _, c := range toRemove {
		removed[c.ID] = true
	}

	result := make([]Card, 0, len(hand))
	for _, c := range hand {
		if !removed[c.ID] {
			result = append(result, c)
		}
	}
	return result
}

// ContainsRank 判断手牌中是否有指定花色和点数的牌
func ContainsRank(hand []Card, suit Suit, rank Rank) bool {
	return slices.ContainsFunc(hand, func(c Card) bool {
		return c.Suit == suit && c.Rank == rank
	})
}

// IDSignature 返回一组牌排序后的 ID 签名，用于去重
func IDSignature(cards []Card) string {
	ids := make([]string, len(cards))
	for i, c := range cards {
		ids[i] = c.ID
	}
	slices.Sort(ids)
	sig := ""
	for i, id := range ids {
		if i > 0 {
			sig += ","
		}
		sig += id
	}
	return sig
}
