package handler

import (
	"log"

	"github.com/palemoky/six-poker/internal/apperrors"
	"github.com/palemoky/six-poker/internal/game/room"
	"github.com/palemoky/six-poker/internal/protocol"
	"github.com/palemoky/six-poker/internal/protocol/codec"
	"github.com/palemoky/six-poker/internal/storage"
	"github.com/palemoky/six-poker/internal/types"
)

// SessionStore 重连会话的查询接口
type SessionStore interface {
	Resume(token, newPlayerID string) (oldID, name, roomCode string, ok bool)
}

// Deps 消息处理器的依赖集合
type Deps struct {
	Server      types.ServerInterface
	Rooms       *room.RoomManager
	Emotes      types.EmoteLimiter
	Leaderboard *storage.LeaderboardManager
	Sessions    SessionStore
}

type handlerFunc func(h *Handler, client types.ClientInterface, msg *protocol.Message)

// Handler 按消息类型分发客户端请求
type Handler struct {
	deps     Deps
	handlers map[protocol.MessageType]handlerFunc
}

// NewHandler 创建消息处理器
func NewHandler(deps Deps) *Handler {
	h := &Handler{deps: deps}
	h.handlers = map[protocol.MessageType]handlerFunc{
		// 连接
		protocol.MsgReconnect: (*Handler).handleReconnect,
		protocol.MsgPing:      (*Handler).handlePing,

		// 房间
		protocol.MsgCreateRoom:   (*Handler).handleCreateRoom,
		protocol.MsgJoinRoom:     (*Handler).handleJoinRoom,
		protocol.MsgLeaveRoom:    (*Handler).handleLeaveRoom,
		protocol.MsgReady:        (*Handler).handleReady,
		protocol.MsgCancelReady:  (*Handler).handleCancelReady,
		protocol.MsgSwapSeat:     (*Handler).handleSwapSeat,
		protocol.MsgDissolveRoom: (*Handler).handleDissolveRoom,
		protocol.MsgStartGame:    (*Handler).handleStartGame,
		protocol.MsgNextRound:    (*Handler).handleNextRound,

		// 游戏
		protocol.MsgPlayCards: (*Handler).handlePlayCards,
		protocol.MsgPass:      (*Handler).handlePass,
		protocol.MsgHosting:   (*Handler).handleHosting,
		protocol.MsgGetState:  (*Handler).handleGetState,
		protocol.MsgEmote:     (*Handler).handleEmote,

		// 统计
		protocol.MsgGetStats:       (*Handler).handleGetStats,
		protocol.MsgGetLeaderboard: (*Handler).handleGetLeaderboard,
		protocol.MsgGetRoomList:    (*Handler).handleGetRoomList,
	}
	return h
}

// HandleMessage 分发一条客户端消息。单条消息的处理不允许拖垮整条连接
func (h *Handler) HandleMessage(client types.ClientInterface, msg *protocol.Message) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("❌ 处理消息 %s panic: %v", msg.Type, r)
			client.SendMessage(codec.NewErrorMessage(protocol.ErrCodeUnknown))
		}
	}()

	fn, ok := h.handlers[msg.Type]
	if !ok {
		client.SendMessage(codec.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}
	fn(h, client, msg)
}

// sendError 把业务错误翻译成错误消息回给客户端
func (h *Handler) sendError(client types.ClientInterface, err error) {
	client.SendMessage(codec.NewErrorMessage(apperrors.CodeOf(err)))
}

// roomOf 找到客户端所在的房间，不在任何房间返回 nil
func (h *Handler) roomOf(client types.ClientInterface) *room.Room {
	if code := client.GetRoom(); code != "" {
		return h.deps.Rooms.GetRoom(code)
	}
	return nil
}
