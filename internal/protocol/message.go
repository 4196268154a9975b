package protocol

import "encoding/json"

// Message 基础消息结构
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// MessageType 消息类型
type MessageType string

// 客户端 → 服务端 消息类型
const (
	// 连接操作
	MsgReconnect MessageType = "reconnect" // 断线重连
	MsgPing      MessageType = "ping"      // 心跳 ping

	// 房间操作
	MsgCreateRoom   MessageType = "create_room"   // 创建房间
	MsgJoinRoom     MessageType = "join_room"     // 加入房间
	MsgLeaveRoom    MessageType = "leave_room"    // 离开房间
	MsgReady        MessageType = "ready"         // 准备就绪
	MsgCancelReady  MessageType = "cancel_ready"  // 取消准备
	MsgSwapSeat     MessageType = "swap_seat"     // 换座
	MsgDissolveRoom MessageType = "dissolve_room" // 解散房间（仅房主）
	MsgStartGame    MessageType = "start_game"    // 开始对局（仅房主）
	MsgNextRound    MessageType = "next_round"    // 开下一局

	// 游戏操作
	MsgPlayCards MessageType = "play_cards" // 出牌
	MsgPass      MessageType = "pass"       // 过牌
	MsgHosting   MessageType = "hosting"    // 设置/取消托管
	MsgGetState  MessageType = "get_state"  // 拉取当前状态
	MsgEmote     MessageType = "emote"      // 互动表情

	// 统计
	MsgGetStats       MessageType = "get_stats"       // 获取个人统计
	MsgGetLeaderboard MessageType = "get_leaderboard" // 获取排行榜
	MsgGetRoomList    MessageType = "get_room_list"   // 获取房间列表
)

// 服务端 → 客户端 消息类型
const (
	// 连接相关
	MsgConnected     MessageType = "connected"      // 连接成功
	MsgReconnected   MessageType = "reconnected"    // 重连成功
	MsgPong          MessageType = "pong"           // 心跳 pong
	MsgPlayerOffline MessageType = "player_offline" // 玩家掉线通知
	MsgPlayerOnline  MessageType = "player_online"  // 玩家上线通知

	// 房间相关
	MsgRoomCreated  MessageType = "room_created"  // 房间创建成功
	MsgRoomJoined   MessageType = "room_joined"   // 加入房间成功
	MsgPlayerJoined MessageType = "player_joined" // 其他玩家加入
	MsgPlayerLeft   MessageType = "player_left"   // 玩家离开
	MsgRoomState    MessageType = "room_state"    // 房间/对局状态推送
	MsgEmotePush    MessageType = "emote_push"    // 表情推送

	// 统计
	MsgStatsResult       MessageType = "stats_result"       // 个人统计结果
	MsgLeaderboardResult MessageType = "leaderboard_result" // 排行榜结果
	MsgRoomListResult    MessageType = "room_list_result"   // 房间列表结果

	// 错误
	MsgError MessageType = "error" // 错误消息
)
