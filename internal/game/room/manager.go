package room

import (
	"context"
	"log"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/palemoky/six-poker/internal/apperrors"
	"github.com/palemoky/six-poker/internal/game/ai"
	"github.com/palemoky/six-poker/internal/game/session"
	"github.com/palemoky/six-poker/internal/protocol"
	"github.com/palemoky/six-poker/internal/protocol/codec"
	"github.com/palemoky/six-poker/internal/storage"
	"github.com/palemoky/six-poker/internal/types"
)

// RoomManager 房间管理器
type RoomManager struct {
	redisStore  *storage.RedisStore
	evaluator   *ai.Evaluator
	timings     session.Timings
	roomTimeout time.Duration
	rooms       map[string]*Room
	mu          sync.RWMutex

	onRoundOver func(*Room, []RoundResult)
}

// SetRoundResultHandler 设置单局结算回调，需在创建房间前调用
func (rm *RoomManager) SetRoundResultHandler(fn func(*Room, []RoundResult)) {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	rm.onRoundOver = fn
}

// dispatchRoundOver 把房间的结算转发给注册的处理器
func (rm *RoomManager) dispatchRoundOver(r *Room, results []RoundResult) {
	rm.mu.RLock()
	fn := rm.onRoundOver
	rm.mu.RUnlock()
	if fn != nil {
		fn(r, results)
	}
}

// NewRoomManager 创建房间管理器
func NewRoomManager(rs *storage.RedisStore, evaluator *ai.Evaluator, timings session.Timings, roomTimeout time.Duration) *RoomManager {
	rm := &RoomManager{
		redisStore:  rs,
		evaluator:   evaluator,
		timings:     timings,
		roomTimeout: roomTimeout,
		rooms:       make(map[string]*Room),
	}

	// 启动房间清理协程
	go rm.cleanupLoop()

	return rm
}

// CreateRoom 创建房间，创建者自动坐 0 号位
func (rm *RoomManager) CreateRoom(client types.ClientInterface) (*Room, error) {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	code := rm.generateRoomCode()
	password := randomDigits(roomPassLength)

	room := NewRoom(code, password, client, rm.evaluator, rm.timings, rm.dispatchRoundOver)
	rm.rooms[code] = room
	client.SetRoom(code)

	rm.saveRoomAsync(room)

	log.Printf("🏠 房间 %s 已创建，房主 %s", code, client.GetName())
	return room, nil
}

// JoinRoom 按房间号和密码加入房间
func (rm *RoomManager) JoinRoom(client types.ClientInterface, code, password string) (*Room, int, bool, error) {
	rm.mu.RLock()
	room, exists := rm.rooms[code]
	rm.mu.RUnlock()
	if !exists {
		return nil, -1, false, apperrors.ErrRoomNotFound
	}
	if room.Password != password {
		return nil, -1, false, apperrors.ErrWrongPass
	}

	seat, spectator, err := room.Join(client)
	if err != nil {
		return nil, -1, false, err
	}
	client.SetRoom(code)

	if spectator {
		log.Printf("👀 %s 进入房间 %s 观战", client.GetName(), code)
	} else {
		log.Printf("👤 %s 加入房间 %s，座位 %d", client.GetName(), code, seat)
	}

	rm.saveRoomAsync(room)
	return room, seat, spectator, nil
}

// LeaveRoom 离开当前房间。房间里没有真人时解散
func (rm *RoomManager) LeaveRoom(client types.ClientInterface) {
	roomCode := client.GetRoom()
	if roomCode == "" {
		return
	}

	rm.mu.RLock()
	room, exists := rm.rooms[roomCode]
	rm.mu.RUnlock()
	if !exists {
		client.SetRoom("")
		return
	}

	stillOccupied := room.Leave(client)
	client.SetRoom("")

	log.Printf("👋 %s 离开房间 %s", client.GetName(), roomCode)

	if !stillOccupied {
		rm.removeRoom(roomCode)
	} else {
		rm.saveRoomAsync(room)
	}
}

// DissolveRoom 房主解散房间
func (rm *RoomManager) DissolveRoom(client types.ClientInterface) error {
	roomCode := client.GetRoom()
	if roomCode == "" {
		return apperrors.ErrNotInRoom
	}

	rm.mu.RLock()
	room, exists := rm.rooms[roomCode]
	rm.mu.RUnlock()
	if !exists {
		return apperrors.ErrRoomNotFound
	}

	if room.SeatOf(client.GetID()) != room.HostSeat() {
		return apperrors.ErrNotHost
	}

	room.Game().AbortRound()
	room.Broadcast(codec.NewErrorMessageWithText(protocol.ErrCodeUnknown, "房主解散了房间"))
	rm.removeRoom(roomCode)
	return nil
}

// removeRoom 删除房间并同步清理 Redis
func (rm *RoomManager) removeRoom(code string) {
	rm.mu.Lock()
	room, exists := rm.rooms[code]
	delete(rm.rooms, code)
	rm.mu.Unlock()

	if !exists {
		return
	}
	room.Close()
	if rm.redisStore != nil {
		go func() { _ = rm.redisStore.DeleteRoom(context.Background(), code) }()
	}
	log.Printf("🏠 房间 %s 已解散", code)
}

// saveRoomAsync 异步保存房间快照，不阻塞游戏主流程
func (rm *RoomManager) saveRoomAsync(room *Room) {
	if rm.redisStore == nil {
		return
	}
	data := room.ToRoomData()
	go func() { _ = rm.redisStore.SaveRoom(context.Background(), room.Code, data) }()
}

// GetRoom 获取房间
func (rm *RoomManager) GetRoom(code string) *Room {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	return rm.rooms[code]
}

// GetRoomList 获取可加入的房间列表
func (rm *RoomManager) GetRoomList() []protocol.RoomListItem {
	rm.mu.RLock()
	defer rm.mu.RUnlock()

	var rooms []protocol.RoomListItem
	for code, room := range rm.rooms {
		if room.State() != RoomStateWaiting {
			continue
		}
		room.mu.RLock()
		humans := room.humanCountLocked()
		room.mu.RUnlock()
		if humans < session.SeatCount {
			rooms = append(rooms, protocol.RoomListItem{
				RoomCode:    code,
				PlayerCount: humans,
				MaxPlayers:  session.SeatCount,
			})
		}
	}
	return rooms
}

// GetRoomByClientID 找到客户端所在的房间（含观战）
func (rm *RoomManager) GetRoomByClientID(clientID string) *Room {
	rm.mu.RLock()
	defer rm.mu.RUnlock()

	for _, room := range rm.rooms {
		room.mu.RLock()
		seat := room.seatOfLocked(clientID)
		_, spectating := room.spectators[clientID]
		room.mu.RUnlock()
		if seat >= 0 || spectating {
			return room
		}
	}
	return nil
}

// GetActiveGamesCount 获取进行中的对局数量
func (rm *RoomManager) GetActiveGamesCount() int {
	rm.mu.RLock()
	defer rm.mu.RUnlock()

	count := 0
	for _, room := range rm.rooms {
		if room.State() == RoomStatePlaying {
			count++
		}
	}
	return count
}

// generateRoomCode 生成唯一房间号
func (rm *RoomManager) generateRoomCode() string {
	for {
		code := randomDigits(roomCodeLength)
		if _, exists := rm.rooms[code]; !exists {
			return code
		}
	}
}

func randomDigits(n int) string {
	digits := make([]byte, n)
	for i := range digits {
		digits[i] = roomCodeChars[rand.IntN(len(roomCodeChars))]
	}
	return string(digits)
}

// cleanupLoop 定期清理超时房间
func (rm *RoomManager) cleanupLoop() {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		rm.cleanup()
	}
}

// cleanup 清理闲置超时的等待房间
func (rm *RoomManager) cleanup() {
	now := time.Now()

	rm.mu.RLock()
	var stale []*Room
	for _, room := range rm.rooms {
		if room.State() == RoomStateWaiting && now.Sub(room.CreatedAt) > rm.roomTimeout {
			stale = append(stale, room)
		}
	}
	rm.mu.RUnlock()

	for _, room := range stale {
		room.Broadcast(codec.NewErrorMessageWithText(protocol.ErrCodeUnknown, "房间超时已关闭"))
		room.mu.RLock()
		for _, c := range room.clients {
			if c != nil {
				c.SetRoom("")
			}
		}
		room.mu.RUnlock()
		rm.removeRoom(room.Code)
		log.Printf("🏠 房间 %s 超时已清理", room.Code)
	}
}
