package handler

import (
	"log"
	"time"

	"github.com/palemoky/six-poker/internal/apperrors"
	"github.com/palemoky/six-poker/internal/protocol"
	"github.com/palemoky/six-poker/internal/protocol/codec"
	"github.com/palemoky/six-poker/internal/types"
)

// handleReconnect 断线重连：凭令牌找回身份并重新接管座位
func (h *Handler) handleReconnect(client types.ClientInterface, msg *protocol.Message) {
	p, err := codec.DecodePayload[protocol.ReconnectPayload](msg)
	if err != nil {
		client.SendMessage(codec.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	oldID, name, roomCode, ok := h.deps.Sessions.Resume(p.Token, client.GetID())
	if !ok {
		client.SendMessage(codec.NewErrorMessageWithText(protocol.ErrCodeUnknown, "重连令牌无效或已过期"))
		return
	}

	// 恢复断线前的昵称，房间按名字兜底匹配托管座位时依赖它
	if named, canRename := client.(interface{ SetName(string) }); canRename {
		named.SetName(name)
	}

	seat := -1
	if roomCode != "" {
		if r := h.deps.Rooms.GetRoom(roomCode); r != nil {
			if s, err := r.ReconnectPlayer(oldID, client); err == nil {
				seat = s
				client.SetRoom(roomCode)
			} else {
				roomCode = ""
			}
		} else {
			roomCode = ""
		}
	}

	client.SendMessage(codec.MustNewMessage(protocol.MsgReconnected, protocol.ReconnectedPayload{
		PlayerID:   client.GetID(),
		PlayerName: name,
		RoomCode:   roomCode,
		Seat:       seat,
	}))

	if r := h.roomOf(client); r != nil {
		client.SendMessage(codec.MustNewMessage(protocol.MsgRoomState, r.StateFor(client.GetID())))
	}

	log.Printf("🔄 %s 重连成功 (房间: %s, 座位: %d)", name, roomCode, seat)
}

// handlePing 心跳，回带双方时间戳供客户端测延迟
func (h *Handler) handlePing(client types.ClientInterface, msg *protocol.Message) {
	p, _ := codec.DecodePayload[protocol.PingPayload](msg)
	client.SendMessage(codec.MustNewMessage(protocol.MsgPong, protocol.PongPayload{
		ClientTimestamp: p.Timestamp,
		ServerTimestamp: time.Now().UnixMilli(),
	}))
}

// handleGetState 拉取当前房间状态
func (h *Handler) handleGetState(client types.ClientInterface, _ *protocol.Message) {
	r := h.roomOf(client)
	if r == nil {
		h.sendError(client, apperrors.ErrNotInRoom)
		return
	}
	client.SendMessage(codec.MustNewMessage(protocol.MsgRoomState, r.StateFor(client.GetID())))
}
