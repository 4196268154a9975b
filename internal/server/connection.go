package server

import (
	"fmt"
	"log"
	"net/http"

	"github.com/google/uuid"

	"github.com/palemoky/six-poker/internal/protocol"
	"github.com/palemoky/six-poker/internal/protocol/codec"
	"github.com/palemoky/six-poker/internal/types"
)

// handleWebSocket 处理新连接：限流、鉴源、升级、注册、起读写协程
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if s.IsMaintenanceMode() {
		http.Error(w, "服务器维护中", http.StatusServiceUnavailable)
		return
	}

	if !s.originChecker.Allowed(r) {
		log.Printf("🚫 拒绝来源 %s 的连接 (IP: %s)", r.Header.Get("Origin"), GetClientIP(r))
		http.Error(w, "来源不被允许", http.StatusForbidden)
		return
	}

	// 信号量非阻塞获取，满了直接拒绝
	select {
	case s.semaphore <- struct{}{}:
	default:
		log.Printf("🚫 连接数已达上限 %d，拒绝 %s", s.maxConnections, GetClientIP(r))
		http.Error(w, "服务器繁忙", http.StatusServiceUnavailable)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		<-s.semaphore
		log.Printf("❌ WebSocket 升级失败: %v", err)
		return
	}

	client := NewClient(uuid.NewString(), GenerateNickname(), conn, s)
	s.RegisterClient(client.ID, client)

	// 连接即发放重连令牌，断线后凭令牌找回身份
	sess := s.sessionManager.Create(client.ID, client.GetName())
	client.SendMessage(codec.MustNewMessage(protocol.MsgConnected, protocol.ConnectedPayload{
		PlayerID:       client.ID,
		PlayerName:     client.GetName(),
		ReconnectToken: sess.Token,
	}))

	go client.writePump()
	go client.readPump()

	log.Printf("🔗 %s 已连接 (在线: %d)", client.GetName(), s.GetOnlineCount())
}

// handleDisconnect 连接断开后的清理。座位保留给重连，真正的离座由显式请求触发
func (s *Server) handleDisconnect(c *Client) {
	c.Close()
	<-s.semaphore

	s.UnregisterClient(c.ID)
	s.messageLimiter.RemoveClient(c.ID)
	s.emoteLimiter.RemoveClient(c.ID)

	roomCode := c.GetRoom()
	s.sessionManager.MarkDisconnected(c.ID, roomCode)

	if roomCode != "" {
		if room := s.roomManager.GetRoom(roomCode); room != nil {
			room.NotifyPlayerOffline(c)
		}
	}

	log.Printf("🔌 %s 已断开 (在线: %d)", c.GetName(), s.GetOnlineCount())
}

// handleHealth 健康检查接口
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"status":"ok","online":%d,"games":%d}`,
		s.GetOnlineCount(), s.roomManager.GetActiveGamesCount())
}

// RegisterClient 注册客户端
func (s *Server) RegisterClient(id string, client types.ClientInterface) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	if c, ok := client.(*Client); ok {
		s.clients[id] = c
	}
}

// UnregisterClient 注销客户端
func (s *Server) UnregisterClient(id string) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	delete(s.clients, id)
}

// GetClientByID 按 ID 查找客户端
func (s *Server) GetClientByID(id string) types.ClientInterface {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()
	if c, ok := s.clients[id]; ok {
		return c
	}
	return nil
}

// GetOnlineCount 在线连接数
func (s *Server) GetOnlineCount() int {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()
	return len(s.clients)
}

// Broadcast 向所有在线客户端发送消息
func (s *Server) Broadcast(msg *protocol.Message) {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()
	for _, c := range s.clients {
		c.SendMessage(msg)
	}
}
