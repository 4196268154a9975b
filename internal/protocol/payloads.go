package protocol

// --- 客户端请求 Payloads ---

// ReconnectPayload 断线重连请求
type ReconnectPayload struct {
	Token    string `json:"token"`     // 重连令牌
	PlayerID string `json:"player_id"` // 玩家 ID
}

// PingPayload 心跳请求
type PingPayload struct {
	Timestamp int64 `json:"timestamp"` // 客户端时间戳（毫秒）
}

// CreateRoomPayload 创建房间请求
type CreateRoomPayload struct {
	Name string `json:"name"` // 创建者昵称
}

// JoinRoomPayload 加入房间请求
type JoinRoomPayload struct {
	RoomCode string `json:"room_code"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// ReadyPayload 准备请求
type ReadyPayload struct {
	Ready bool `json:"ready"`
}

// SwapSeatPayload 换座请求
type SwapSeatPayload struct {
	TargetSeat int `json:"target_seat"`
}

// PlayCardsPayload 出牌请求，按牌的 ID 指定
type PlayCardsPayload struct {
	CardIDs []string `json:"card_ids"`
}

// HostingPayload 托管设置请求
type HostingPayload struct {
	Hosted bool `json:"hosted"`
}

// EmotePayload 表情请求
type EmotePayload struct {
	TargetSeat int    `json:"target_seat"` // -1 表示发给全桌
	Content    string `json:"content"`
}

// GetLeaderboardPayload 获取排行榜请求
type GetLeaderboardPayload struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// --- 服务端响应 Payloads ---

// ConnectedPayload 连接成功响应
type ConnectedPayload struct {
	PlayerID       string `json:"player_id"`
	PlayerName     string `json:"player_name"`
	ReconnectToken string `json:"reconnect_token"`
}

// ReconnectedPayload 重连成功响应
type ReconnectedPayload struct {
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
	RoomCode   string `json:"room_code,omitempty"`
	Seat       int    `json:"seat"`
}

// PongPayload 心跳响应
type PongPayload struct {
	ClientTimestamp int64 `json:"client_timestamp"`
	ServerTimestamp int64 `json:"server_timestamp"`
}

// RoomCreatedPayload 房间创建成功响应
type RoomCreatedPayload struct {
	RoomCode string `json:"room_code"`
	Password string `json:"password"`
	Seat     int    `json:"seat"`
}

// RoomJoinedPayload 加入房间成功响应
type RoomJoinedPayload struct {
	RoomCode    string `json:"room_code"`
	Seat        int    `json:"seat"`
	IsSpectator bool   `json:"is_spectator"`
}

// PlayerJoinedPayload 其他玩家加入通知
type PlayerJoinedPayload struct {
	Seat       int    `json:"seat"`
	PlayerName string `json:"player_name"`
}

// PlayerLeftPayload 玩家离开通知
type PlayerLeftPayload struct {
	Seat       int    `json:"seat"`
	PlayerName string `json:"player_name"`
}

// RoomStatePayload 房间状态推送，手牌按观察者视角脱敏。
// Emotes 为房间内最近的互动表情，重连和拉取状态时用来补齐
type RoomStatePayload struct {
	RoomCode string             `json:"room_code"`
	HostSeat int                `json:"host_seat"`
	Waiting  bool               `json:"waiting"`
	Ready    []bool             `json:"ready"`
	Emotes   []EmotePushPayload `json:"emotes,omitempty"`
	Game     GameSnapshot       `json:"game"`
}

// EmotePushPayload 表情推送
type EmotePushPayload struct {
	SenderSeat int    `json:"sender_seat"`
	TargetSeat int    `json:"target_seat"`
	Content    string `json:"content"`
	Timestamp  int64  `json:"timestamp"`
}

// RoomListItem 房间列表条目
type RoomListItem struct {
	RoomCode    string `json:"room_code"`
	PlayerCount int    `json:"player_count"`
	MaxPlayers  int    `json:"max_players"`
}

// RoomListResultPayload 房间列表响应
type RoomListResultPayload struct {
	Rooms []RoomListItem `json:"rooms"`
}

// StatsResultPayload 个人统计响应
type StatsResultPayload struct {
	PlayerID    string `json:"player_id"`
	PlayerName  string `json:"player_name"`
	TotalRounds int    `json:"total_rounds"`
	TeamWins    int    `json:"team_wins"`
	HeadFinish  int    `json:"head_finish"`
	Score       int    `json:"score"`
}

// LeaderboardEntry 排行榜条目
type LeaderboardEntry struct {
	Rank       int     `json:"rank"`
	PlayerID   string  `json:"player_id"`
	PlayerName string  `json:"player_name"`
	Score      int     `json:"score"`
	TeamWins   int     `json:"team_wins"`
	WinRate    float64 `json:"win_rate"`
}

// LeaderboardResultPayload 排行榜响应
type LeaderboardResultPayload struct {
	Entries []LeaderboardEntry `json:"entries"`
}

// ErrorPayload 错误响应
type ErrorPayload struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
