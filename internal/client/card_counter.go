package client

import "github.com/palemoky/six-poker/internal/protocol"

// CardCounter 记牌器：跟踪还没打出的牌，按牌面值计数。
// 混牌（2、3、大小王）单独汇总，方便判断场上还剩多少张任意配
type CardCounter struct {
	remaining map[string]int
	seen      map[string]struct{} // 已扣减的牌 ID，重放历史不会重复扣
}

// 记牌器的展示顺序，从强到弱
var CounterOrder = []string{"BJ", "SJ", "3", "2", "A", "K", "Q", "J", "10", "9", "8", "7", "6", "5", "4"}

// NewCardCounter 创建并重置记牌器
func NewCardCounter() *CardCounter {
	cc := &CardCounter{}
	cc.Reset()
	return cc
}

// Reset 恢复到整副牌：普通点数各 4 张，大小王各 1 张
func (cc *CardCounter) Reset() {
	cc.remaining = make(map[string]int, len(CounterOrder))
	cc.seen = make(map[string]struct{})
	for _, rank := range CounterOrder {
		cc.remaining[rank] = 4
	}
	cc.remaining["SJ"] = 1
	cc.remaining["BJ"] = 1
}

// Deduct 扣减已打出的牌。同一张牌重复出现不会再扣
func (cc *CardCounter) Deduct(cards []protocol.CardView) {
	for _, c := range cards {
		if _, done := cc.seen[c.ID]; done {
			continue
		}
		cc.seen[c.ID] = struct{}{}
		if cc.remaining[c.Rank] > 0 {
			cc.remaining[c.Rank]--
		}
	}
}

// Remaining 某个牌面值的剩余张数
func (cc *CardCounter) Remaining(rank string) int {
	return cc.remaining[rank]
}

// WildsRemaining 场上剩余的混牌总数
func (cc *CardCounter) WildsRemaining() int {
	return cc.remaining["2"] + cc.remaining["3"] + cc.remaining["SJ"] + cc.remaining["BJ"]
}
