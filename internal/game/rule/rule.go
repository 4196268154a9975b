package rule

import (
	"fmt"

	"github.com/palemoky/six-poker/internal/game/card"
)

// HandType 定义牌型
type HandType int

const (
	Invalid HandType = iota
	Single           // 单张
	Pair             // 对子
	Triple           // 三张
	Quad             // 四张
)

// handTypeNames 牌型名称映射表
var handTypeNames = map[HandType]string{
	Single: "单张",
	Pair:   "对子",
	Triple: "三张",
	Quad:   "四张",
}

func (h HandType) String() string {
	if name, ok := handTypeNames[h]; ok {
		return name
	}
	return "无效"
}

// typeBySize 张数到牌型的映射
var typeBySize = map[int]HandType{
	1: Single,
	2: Pair,
	3: Triple,
	4: Quad,
}

// ParsedHand 解析后的一手牌，用于比较
type ParsedHand struct {
	Type      HandType
	MainValue int         // 决定大小的主点数强度
	Cards     []card.Card // 这手牌包含的卡牌
}

func (p ParsedHand) IsEmpty() bool {
	return p.Type == Invalid
}

// Size 返回这手牌的张数
func (p ParsedHand) Size() int {
	return len(p.Cards)
}

// ParseHand 解析牌型。
// 多张时所有非混牌必须同点数，混牌补足张数，主点数取非混牌的点数；
// 纯混牌组合取其中最小的混牌强度（多张混牌按最小者“冒充”）。
func ParseHand(cards []card.Card) (ParsedHand, error) {
	if len(cards) == 0 {
		return ParsedHand{}, fmt.Errorf("不能出空牌")
	}

	handType, ok := typeBySize[len(cards)]
	if !ok {
		return ParsedHand{}, fmt.Errorf("不支持的张数: %d", len(cards))
	}

	if len(cards) == 1 {
		return ParsedHand{Type: Single, MainValue: cards[0].Value(), Cards: cards}, nil
	}

	var normal []card.Card
	minWild := -1
	for _, c := range cards {
		if c.IsWild() {
			if minWild == -1 || c.Value() < minWild {
				minWild = c.Value()
			}
		} else {
			normal = append(normal, c)
		}
	}

	if len(normal) > 0 {
		main := normal[0].Value()
		for _, c := range normal[1:] {
			if c.Value() != main {
				return ParsedHand{}, fmt.Errorf("非混牌点数不一致: %v", cards)
			}
		}
		return ParsedHand{Type: handType, MainValue: main, Cards: cards}, nil
	}

	return ParsedHand{Type: handType, MainValue: minWild, Cards: cards}, nil
}

// CanBeat 判断 newHand 是否能压过 lastHand：同牌型且主点数严格更大
func CanBeat(newHand, lastHand ParsedHand) bool {
	if newHand.IsEmpty() {
		return false
	}
	if lastHand.IsEmpty() {
		return true
	}
	return newHand.Type == lastHand.Type && newHand.MainValue > lastHand.MainValue
}

// CanBeatCards 解析 cards 并判断能否压过 lastHand，解析失败视为不能
func CanBeatCards(cards []card.Card, lastHand ParsedHand) bool {
	parsed, err := ParseHand(cards)
	if err != nil {
		return false
	}
	return CanBeat(parsed, lastHand)
}
