package server

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	// 断线后座位保留时间，超过后令牌作废
	reconnectWindow = 2 * time.Minute
	// 会话绝对过期时间
	sessionExpiry = 10 * time.Minute
	// 过期会话清理间隔
	sessionCleanupInterval = time.Minute
)

// PlayerSession 玩家的连接会话，跨连接保留身份
type PlayerSession struct {
	Token          string
	PlayerID       string
	Name           string
	RoomCode       string
	Disconnected   bool
	DisconnectedAt time.Time
	CreatedAt      time.Time
}

// SessionManager 管理重连令牌与玩家会话的映射
type SessionManager struct {
	mu       sync.Mutex
	sessions map[string]*PlayerSession // token -> session
	byPlayer map[string]string         // playerID -> token
}

// NewSessionManager 创建会话管理器并启动过期清理
func NewSessionManager() *SessionManager {
	sm := &SessionManager{
		sessions: make(map[string]*PlayerSession),
		byPlayer: make(map[string]string),
	}
	go sm.cleanupLoop()
	return sm
}

// Create 为新连接创建会话并发放令牌
func (sm *SessionManager) Create(playerID, name string) *PlayerSession {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sess := &PlayerSession{
		Token:     uuid.NewString(),
		PlayerID:  playerID,
		Name:      name,
		CreatedAt: time.Now(),
	}
	sm.sessions[sess.Token] = sess
	sm.byPlayer[playerID] = sess.Token
	return sess
}

// MarkDisconnected 标记玩家断线，记录断线时所在的房间
func (sm *SessionManager) MarkDisconnected(playerID, roomCode string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	token, ok := sm.byPlayer[playerID]
	if !ok {
		return
	}
	if sess, ok := sm.sessions[token]; ok {
		sess.Disconnected = true
		sess.DisconnectedAt = time.Now()
		sess.RoomCode = roomCode
	}
}

// Resume 用令牌找回断线前的身份。成功后会话绑定到新连接的 ID。
// 返回断线前的玩家 ID、昵称和所在房间
func (sm *SessionManager) Resume(token, newPlayerID string) (oldID, name, roomCode string, ok bool) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sess, exists := sm.sessions[token]
	if !exists {
		return "", "", "", false
	}
	if sess.Disconnected && time.Since(sess.DisconnectedAt) > reconnectWindow {
		return "", "", "", false
	}

	oldID = sess.PlayerID
	delete(sm.byPlayer, oldID)
	sess.PlayerID = newPlayerID
	sess.Disconnected = false
	sm.byPlayer[newPlayerID] = token

	return oldID, sess.Name, sess.RoomCode, true
}

// Remove 删除玩家会话（显式退出时）
func (sm *SessionManager) Remove(playerID string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if token, ok := sm.byPlayer[playerID]; ok {
		delete(sm.sessions, token)
		delete(sm.byPlayer, playerID)
	}
}

// Count 当前会话数量
func (sm *SessionManager) Count() int {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return len(sm.sessions)
}

// cleanupLoop 定期清理过期会话
func (sm *SessionManager) cleanupLoop() {
	ticker := time.NewTicker(sessionCleanupInterval)
	defer ticker.Stop()

	for range ticker.C {
		sm.cleanup()
	}
}

func (sm *SessionManager) cleanup() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	now := time.Now()
	for token, sess := range sm.sessions {
		expired := now.Sub(sess.CreatedAt) > sessionExpiry && sess.Disconnected
		staleDisconnect := sess.Disconnected && now.Sub(sess.DisconnectedAt) > reconnectWindow
		if expired || staleDisconnect {
			delete(sm.sessions, token)
			delete(sm.byPlayer, sess.PlayerID)
		}
	}
}
