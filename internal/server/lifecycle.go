package server

import (
	"log"
	"runtime"
	"time"

	"github.com/palemoky/six-poker/internal/protocol"
	"github.com/palemoky/six-poker/internal/protocol/codec"
)

// monitorStats 定期输出运行指标
func (s *Server) monitorStats() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		var m runtime.MemStats
		runtime.ReadMemStats(&m)
		log.Printf("📊 在线: %d | 对局中: %d | 会话: %d | Goroutines: %d | 内存: %dMB",
			s.GetOnlineCount(),
			s.roomManager.GetActiveGamesCount(),
			s.sessionManager.Count(),
			runtime.NumGoroutine(),
			m.Alloc/1024/1024,
		)
	}
}

// IsMaintenanceMode 是否处于维护模式
func (s *Server) IsMaintenanceMode() bool {
	s.maintenanceMu.RLock()
	defer s.maintenanceMu.RUnlock()
	return s.maintenanceMode
}

// SetMaintenanceMode 设置维护模式。开启后拒绝新连接，并通知在线玩家
func (s *Server) SetMaintenanceMode(enabled bool) {
	s.maintenanceMu.Lock()
	s.maintenanceMode = enabled
	s.maintenanceMu.Unlock()

	if enabled {
		log.Println("🔧 维护模式已开启，停止接受新连接")
		s.Broadcast(codec.NewErrorMessage(protocol.ErrCodeMaintenance))
	} else {
		log.Println("✅ 维护模式已关闭")
	}
}

// GracefulShutdown 优雅停机：先拒新、再通知、最后断开所有连接
func (s *Server) GracefulShutdown(timeout time.Duration) {
	log.Println("🛑 开始优雅停机...")
	s.SetMaintenanceMode(true)

	deadline := time.After(timeout)
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-deadline:
			log.Printf("⏰ 停机等待超时，强制断开剩余 %d 个连接", s.GetOnlineCount())
			s.closeAllClients()
			return
		case <-ticker.C:
			if s.roomManager.GetActiveGamesCount() == 0 {
				log.Println("✅ 所有对局已结束，断开连接")
				s.closeAllClients()
				return
			}
		}
	}
}

func (s *Server) closeAllClients() {
	s.clientsMu.RLock()
	clients := make([]*Client, 0, len(s.clients))
	for _, c := range s.clients {
		clients = append(clients, c)
	}
	s.clientsMu.RUnlock()

	for _, c := range clients {
		c.Close()
	}

	if err := s.redis.Close(); err != nil {
		log.Printf("⚠️ 关闭 Redis 连接失败: %v", err)
	}
	log.Println("👋 服务器已停止")
}
