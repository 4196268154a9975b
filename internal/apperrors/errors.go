package apperrors

import (
	"github.com/palemoky/six-poker/internal/protocol"
)

// GameError 游戏错误（房间和会话共享）
type GameError struct {
	Code    int
	Message string
}

func (e *GameError) Error() string {
	return e.Message
}

// 预定义错误
var (
	ErrRoomNotFound = &GameError{Code: protocol.ErrCodeRoomNotFound, Message: "房间不存在"}
	ErrRoomFull     = &GameError{Code: protocol.ErrCodeRoomFull, Message: "房间已满"}
	ErrNotInRoom    = &GameError{Code: protocol.ErrCodeNotInRoom, Message: "您不在房间中"}
	ErrGameStarted  = &GameError{Code: protocol.ErrCodeGameStarted, Message: "游戏已开始"}
	ErrNotHost      = &GameError{Code: protocol.ErrCodeNotHost, Message: "只有房主可以执行此操作"}
	ErrSeatTaken    = &GameError{Code: protocol.ErrCodeSeatTaken, Message: "该座位已有玩家"}
	ErrNotWaiting   = &GameError{Code: protocol.ErrCodeNotWaiting, Message: "仅可在等待阶段执行此操作"}
	ErrNotReady     = &GameError{Code: protocol.ErrCodeNotReady, Message: "还有玩家未准备"}
	ErrWrongPass    = &GameError{Code: protocol.ErrCodeWrongPass, Message: "房间密码错误"}
	ErrGameNotStart = &GameError{Code: protocol.ErrCodeGameNotStart, Message: "游戏尚未开始"}
	ErrNotYourTurn  = &GameError{Code: protocol.ErrCodeNotYourTurn, Message: "还没轮到您"}
	ErrInvalidCards = &GameError{Code: protocol.ErrCodeInvalidCards, Message: "无效的牌型"}
	ErrCannotBeat   = &GameError{Code: protocol.ErrCodeCannotBeat, Message: "您的牌压不过上家"}
	ErrMustPlay     = &GameError{Code: protocol.ErrCodeMustPlay, Message: "新一轮必须出牌"}
	ErrNotFinished  = &GameError{Code: protocol.ErrCodeNotFinished, Message: "当前对局尚未结束"}
)

// CodeOf 提取错误对应的错误码，非 GameError 一律归为未知错误
func CodeOf(err error) int {
	if ge, ok := err.(*GameError); ok {
		return ge.Code
	}
	return protocol.ErrCodeUnknown
}
