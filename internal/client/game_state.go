package client

import "github.com/palemoky/six-poker/internal/protocol"

// GameState 客户端本地的对局状态，由 room_state 推送驱动
type GameState struct {
	RoomCode string
	HostSeat int
	Waiting  bool
	Ready    []bool
	MySeat   int

	Snapshot protocol.GameSnapshot

	// 记牌器
	Counter *CardCounter
}

// NewGameState 创建本地对局状态
func NewGameState() *GameState {
	return &GameState{
		MySeat:  -1,
		Counter: NewCardCounter(),
	}
}

// ApplyRoomState 套用一次服务器推送
func (gs *GameState) ApplyRoomState(p protocol.RoomStatePayload) {
	// 新一局开始时重置记牌器
	if p.Game.CurrentRound != gs.Snapshot.CurrentRound {
		gs.Counter.Reset()
	}

	gs.RoomCode = p.RoomCode
	gs.HostSeat = p.HostSeat
	gs.Waiting = p.Waiting
	gs.Ready = p.Ready
	gs.Snapshot = p.Game

	for _, played := range p.Game.HandHistory {
		gs.Counter.Deduct(played.Cards)
	}
}

// MyHand 自己的手牌，观战时为空
func (gs *GameState) MyHand() []protocol.CardView {
	if gs.MySeat < 0 || gs.MySeat >= len(gs.Snapshot.Players) {
		return nil
	}
	return gs.Snapshot.Players[gs.MySeat].Hand
}

// IsMyTurn 是否轮到自己出牌
func (gs *GameState) IsMyTurn() bool {
	return gs.Snapshot.Status == "playing" && gs.MySeat >= 0 && gs.Snapshot.CurrentTurn == gs.MySeat
}

// IsHost 自己是否为房主
func (gs *GameState) IsHost() bool {
	return gs.MySeat >= 0 && gs.MySeat == gs.HostSeat
}

// LastPlayed 当前一轮最近的一次出牌，没有返回 nil
func (gs *GameState) LastPlayed() *protocol.PlayedHandView {
	if len(gs.Snapshot.HandHistory) == 0 {
		return nil
	}
	return &gs.Snapshot.HandHistory[len(gs.Snapshot.HandHistory)-1]
}

// Reset 清空对局状态
func (gs *GameState) Reset() {
	*gs = *NewGameState()
}
