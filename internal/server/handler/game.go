package handler

import (
	"github.com/palemoky/six-poker/internal/apperrors"
	"github.com/palemoky/six-poker/internal/game/room"
	"github.com/palemoky/six-poker/internal/protocol"
	"github.com/palemoky/six-poker/internal/protocol/codec"
	"github.com/palemoky/six-poker/internal/types"
)

// seatedRoom 找到客户端的房间和座位。观战者座位为 -1，同样会被拒
func (h *Handler) seatedRoom(client types.ClientInterface) (*room.Room, int, error) {
	r := h.roomOf(client)
	if r == nil {
		return nil, -1, apperrors.ErrNotInRoom
	}
	seat := r.SeatOf(client.GetID())
	if seat < 0 {
		return nil, -1, apperrors.ErrNotInRoom
	}
	return r, seat, nil
}

// handlePlayCards 出牌
func (h *Handler) handlePlayCards(client types.ClientInterface, msg *protocol.Message) {
	p, err := codec.DecodePayload[protocol.PlayCardsPayload](msg)
	if err != nil {
		client.SendMessage(codec.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}
	r, seat, err := h.seatedRoom(client)
	if err != nil {
		h.sendError(client, err)
		return
	}
	if err := r.Game().Play(seat, p.CardIDs); err != nil {
		h.sendError(client, err)
	}
}

// handlePass 过牌
func (h *Handler) handlePass(client types.ClientInterface, _ *protocol.Message) {
	r, seat, err := h.seatedRoom(client)
	if err != nil {
		h.sendError(client, err)
		return
	}
	if err := r.Game().Pass(seat); err != nil {
		h.sendError(client, err)
	}
}

// handleHosting 设置或取消托管
func (h *Handler) handleHosting(client types.ClientInterface, msg *protocol.Message) {
	p, err := codec.DecodePayload[protocol.HostingPayload](msg)
	if err != nil {
		client.SendMessage(codec.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}
	r, seat, err := h.seatedRoom(client)
	if err != nil {
		h.sendError(client, err)
		return
	}
	r.Game().SetHosted(seat, p.Hosted)
}

// handleEmote 发送互动表情，带限速
func (h *Handler) handleEmote(client types.ClientInterface, msg *protocol.Message) {
	p, err := codec.DecodePayload[protocol.EmotePayload](msg)
	if err != nil {
		client.SendMessage(codec.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}
	if allowed, reason := h.deps.Emotes.AllowEmote(client.GetID()); !allowed {
		client.SendMessage(codec.NewErrorMessageWithText(protocol.ErrCodeRateLimit, reason))
		return
	}
	r := h.roomOf(client)
	if r == nil {
		h.sendError(client, apperrors.ErrNotInRoom)
		return
	}
	if err := r.SendEmote(client, p.TargetSeat, p.Content); err != nil {
		h.sendError(client, err)
	}
}
