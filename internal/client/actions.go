package client

import (
	"time"

	"github.com/palemoky/six-poker/internal/protocol"
	"github.com/palemoky/six-poker/internal/protocol/codec"
)

// --- 便捷方法 ---

// CreateRoom 创建房间
func (c *Client) CreateRoom(name string) error {
	return c.SendMessage(codec.MustNewMessage(protocol.MsgCreateRoom, protocol.CreateRoomPayload{
		Name: name,
	}))
}

// JoinRoom 加入房间
func (c *Client) JoinRoom(roomCode, password, name string) error {
	return c.SendMessage(codec.MustNewMessage(protocol.MsgJoinRoom, protocol.JoinRoomPayload{
		RoomCode: roomCode,
		Password: password,
		Name:     name,
	}))
}

// LeaveRoom 离开房间
func (c *Client) LeaveRoom() error {
	return c.SendMessage(codec.MustNewMessage(protocol.MsgLeaveRoom, nil))
}

// Ready 准备
func (c *Client) Ready() error {
	return c.SendMessage(codec.MustNewMessage(protocol.MsgReady, nil))
}

// CancelReady 取消准备
func (c *Client) CancelReady() error {
	return c.SendMessage(codec.MustNewMessage(protocol.MsgCancelReady, nil))
}

// SwapSeat 换座
func (c *Client) SwapSeat(targetSeat int) error {
	return c.SendMessage(codec.MustNewMessage(protocol.MsgSwapSeat, protocol.SwapSeatPayload{
		TargetSeat: targetSeat,
	}))
}

// DissolveRoom 解散房间（仅房主）
func (c *Client) DissolveRoom() error {
	return c.SendMessage(codec.MustNewMessage(protocol.MsgDissolveRoom, nil))
}

// StartGame 开始对局（仅房主）
func (c *Client) StartGame() error {
	return c.SendMessage(codec.MustNewMessage(protocol.MsgStartGame, nil))
}

// NextRound 开下一局（仅房主）
func (c *Client) NextRound() error {
	return c.SendMessage(codec.MustNewMessage(protocol.MsgNextRound, nil))
}

// PlayCards 出牌，按牌的 ID 指定
func (c *Client) PlayCards(cardIDs []string) error {
	return c.SendMessage(codec.MustNewMessage(protocol.MsgPlayCards, protocol.PlayCardsPayload{
		CardIDs: cardIDs,
	}))
}

// Pass 过牌
func (c *Client) Pass() error {
	return c.SendMessage(codec.MustNewMessage(protocol.MsgPass, nil))
}

// SetHosting 设置或取消托管
func (c *Client) SetHosting(hosted bool) error {
	return c.SendMessage(codec.MustNewMessage(protocol.MsgHosting, protocol.HostingPayload{
		Hosted: hosted,
	}))
}

// GetState 拉取当前房间状态
func (c *Client) GetState() error {
	return c.SendMessage(codec.MustNewMessage(protocol.MsgGetState, nil))
}

// SendEmote 发送互动表情，targetSeat 为 -1 表示发给全桌
func (c *Client) SendEmote(targetSeat int, content string) error {
	return c.SendMessage(codec.MustNewMessage(protocol.MsgEmote, protocol.EmotePayload{
		TargetSeat: targetSeat,
		Content:    content,
	}))
}

// GetStats 获取个人统计
func (c *Client) GetStats() error {
	return c.SendMessage(codec.MustNewMessage(protocol.MsgGetStats, nil))
}

// GetLeaderboard 获取排行榜
func (c *Client) GetLeaderboard(offset, limit int) error {
	return c.SendMessage(codec.MustNewMessage(protocol.MsgGetLeaderboard, protocol.GetLeaderboardPayload{
		Offset: offset,
		Limit:  limit,
	}))
}

// GetRoomList 获取房间列表
func (c *Client) GetRoomList() error {
	return c.SendMessage(codec.MustNewMessage(protocol.MsgGetRoomList, nil))
}

// Ping 发送心跳
func (c *Client) Ping() error {
	return c.SendMessage(codec.MustNewMessage(protocol.MsgPing, protocol.PingPayload{
		Timestamp: time.Now().UnixMilli(),
	}))
}
