package protocol

// 错误码
const (
	ErrCodeUnknown      = 1000
	ErrCodeInvalidMsg   = 1001
	ErrCodeMaintenance  = 1002
	ErrCodeRateLimit    = 1003
	ErrCodeRoomNotFound = 2001
	ErrCodeRoomFull     = 2002
	ErrCodeNotInRoom    = 2003
	ErrCodeGameStarted  = 2004
	ErrCodeNotHost      = 2005
	ErrCodeSeatTaken    = 2006
	ErrCodeNotWaiting   = 2007
	ErrCodeNotReady     = 2008
	ErrCodeWrongPass    = 2009
	ErrCodeGameNotStart = 3001
	ErrCodeNotYourTurn  = 3002
	ErrCodeInvalidCards = 3003
	ErrCodeCannotBeat   = 3004
	ErrCodeMustPlay     = 3005
	ErrCodeNotFinished  = 3006
)

// ErrorMessages 错误码对应的消息
var ErrorMessages = map[int]string{
	ErrCodeUnknown:      "未知错误",
	ErrCodeInvalidMsg:   "无效的消息格式",
	ErrCodeMaintenance:  "服务器维护中",
	ErrCodeRateLimit:    "请求过于频繁",
	ErrCodeRoomNotFound: "房间不存在",
	ErrCodeRoomFull:     "房间已满",
	ErrCodeNotInRoom:    "您不在房间中",
	ErrCodeGameStarted:  "游戏已开始",
	ErrCodeNotHost:      "只有房主可以执行此操作",
	ErrCodeSeatTaken:    "该座位已有玩家",
	ErrCodeNotWaiting:   "仅可在等待阶段执行此操作",
	ErrCodeNotReady:     "还有玩家未准备",
	ErrCodeWrongPass:    "房间密码错误",
	ErrCodeGameNotStart: "游戏尚未开始",
	ErrCodeNotYourTurn:  "还没轮到您",
	ErrCodeInvalidCards: "无效的牌型",
	ErrCodeCannotBeat:   "您的牌压不过上家",
	ErrCodeMustPlay:     "新一轮必须出牌",
	ErrCodeNotFinished:  "当前对局尚未结束",
}
