package handler

import (
	"github.com/palemoky/six-poker/internal/apperrors"
	"github.com/palemoky/six-poker/internal/protocol"
	"github.com/palemoky/six-poker/internal/protocol/codec"
	"github.com/palemoky/six-poker/internal/types"
)

// handleCreateRoom 创建房间，创建者自动成为房主
func (h *Handler) handleCreateRoom(client types.ClientInterface, msg *protocol.Message) {
	if h.deps.Server.IsMaintenanceMode() {
		client.SendMessage(codec.NewErrorMessage(protocol.ErrCodeMaintenance))
		return
	}
	if client.GetRoom() != "" {
		h.deps.Rooms.LeaveRoom(client)
	}

	p, _ := codec.DecodePayload[protocol.CreateRoomPayload](msg)
	if p.Name != "" {
		if named, ok := client.(interface{ SetName(string) }); ok {
			named.SetName(p.Name)
		}
	}

	r, err := h.deps.Rooms.CreateRoom(client)
	if err != nil {
		h.sendError(client, err)
		return
	}

	client.SendMessage(codec.MustNewMessage(protocol.MsgRoomCreated, protocol.RoomCreatedPayload{
		RoomCode: r.Code,
		Password: r.Password,
		Seat:     0,
	}))
	client.SendMessage(codec.MustNewMessage(protocol.MsgRoomState, r.StateFor(client.GetID())))
}

// handleJoinRoom 按房间号和密码加入房间
func (h *Handler) handleJoinRoom(client types.ClientInterface, msg *protocol.Message) {
	if h.deps.Server.IsMaintenanceMode() {
		client.SendMessage(codec.NewErrorMessage(protocol.ErrCodeMaintenance))
		return
	}
	p, err := codec.DecodePayload[protocol.JoinRoomPayload](msg)
	if err != nil {
		client.SendMessage(codec.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}
	if client.GetRoom() != "" {
		h.deps.Rooms.LeaveRoom(client)
	}
	if p.Name != "" {
		if named, ok := client.(interface{ SetName(string) }); ok {
			named.SetName(p.Name)
		}
	}

	r, seat, spectator, err := h.deps.Rooms.JoinRoom(client, p.RoomCode, p.Password)
	if err != nil {
		h.sendError(client, err)
		return
	}

	client.SendMessage(codec.MustNewMessage(protocol.MsgRoomJoined, protocol.RoomJoinedPayload{
		RoomCode:    r.Code,
		Seat:        seat,
		IsSpectator: spectator,
	}))
	client.SendMessage(codec.MustNewMessage(protocol.MsgRoomState, r.StateFor(client.GetID())))
}

// handleLeaveRoom 离开当前房间
func (h *Handler) handleLeaveRoom(client types.ClientInterface, _ *protocol.Message) {
	if client.GetRoom() == "" {
		h.sendError(client, apperrors.ErrNotInRoom)
		return
	}
	h.deps.Rooms.LeaveRoom(client)
}

// handleReady 准备
func (h *Handler) handleReady(client types.ClientInterface, _ *protocol.Message) {
	h.setReady(client, true)
}

// handleCancelReady 取消准备
func (h *Handler) handleCancelReady(client types.ClientInterface, _ *protocol.Message) {
	h.setReady(client, false)
}

func (h *Handler) setReady(client types.ClientInterface, ready bool) {
	r := h.roomOf(client)
	if r == nil {
		h.sendError(client, apperrors.ErrNotInRoom)
		return
	}
	if err := r.SetReady(client, ready); err != nil {
		h.sendError(client, err)
	}
}

// handleSwapSeat 等待阶段换座
func (h *Handler) handleSwapSeat(client types.ClientInterface, msg *protocol.Message) {
	p, err := codec.DecodePayload[protocol.SwapSeatPayload](msg)
	if err != nil {
		client.SendMessage(codec.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}
	r := h.roomOf(client)
	if r == nil {
		h.sendError(client, apperrors.ErrNotInRoom)
		return
	}
	if err := r.SwapSeat(client, p.TargetSeat); err != nil {
		h.sendError(client, err)
	}
}

// handleDissolveRoom 房主解散房间
func (h *Handler) handleDissolveRoom(client types.ClientInterface, _ *protocol.Message) {
	if err := h.deps.Rooms.DissolveRoom(client); err != nil {
		h.sendError(client, err)
	}
}

// handleStartGame 房主开局
func (h *Handler) handleStartGame(client types.ClientInterface, _ *protocol.Message) {
	r := h.roomOf(client)
	if r == nil {
		h.sendError(client, apperrors.ErrNotInRoom)
		return
	}
	if err := r.StartGame(client); err != nil {
		h.sendError(client, err)
	}
}

// handleNextRound 房主开下一局
func (h *Handler) handleNextRound(client types.ClientInterface, _ *protocol.Message) {
	r := h.roomOf(client)
	if r == nil {
		h.sendError(client, apperrors.ErrNotInRoom)
		return
	}
	if err := r.NextRound(client); err != nil {
		h.sendError(client, err)
	}
}
