package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"runtime"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"

	"github.com/palemoky/six-poker/internal/config"
	"github.com/palemoky/six-poker/internal/game/ai"
	"github.com/palemoky/six-poker/internal/game/room"
	"github.com/palemoky/six-poker/internal/game/session"
	"github.com/palemoky/six-poker/internal/server/handler"
	"github.com/palemoky/six-poker/internal/storage"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // 来源校验在 handleWebSocket 里按配置做
	},
}

// Server WebSocket 服务器
type Server struct {
	config         *config.Config
	redis          *redis.Client
	redisStore     *storage.RedisStore
	leaderboard    *storage.LeaderboardManager
	roomManager    *room.RoomManager
	sessionManager *SessionManager
	clients        map[string]*Client
	clientsMu      sync.RWMutex
	handler        *handler.Handler

	originChecker  *OriginChecker
	messageLimiter *MessageRateLimiter
	emoteLimiter   *EmoteRateLimiter

	// 连接控制
	maxConnections int
	semaphore      chan struct{} // 信号量控制并发连接数

	// 维护模式
	maintenanceMode bool
	maintenanceMu   sync.RWMutex
}

// NewServer 创建服务器实例
func NewServer(cfg *config.Config) (*Server, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis 连接失败: %w", err)
	}

	s := &Server{
		config:         cfg,
		redis:          rdb,
		redisStore:     storage.NewRedisStore(rdb),
		leaderboard:    storage.NewLeaderboardManager(rdb),
		clients:        make(map[string]*Client),
		sessionManager: NewSessionManager(),
		originChecker:  NewOriginChecker(cfg.Security.AllowedOrigins),
		messageLimiter: NewMessageRateLimiter(20),
		emoteLimiter: NewEmoteRateLimiter(
			cfg.Security.EmoteLimit.MaxPerMinute,
			cfg.Security.EmoteLimit.CooldownDuration(),
		),
		maxConnections: cfg.Server.MaxConnections,
		semaphore:      make(chan struct{}, cfg.Server.MaxConnections),
	}

	timings := session.Timings{
		TurnTimeout:   cfg.Game.TurnTimeoutDuration(),
		HostedTimeout: cfg.Game.HostedTimeoutDuration(),
		BotDelay:      cfg.Game.BotDelayDuration(),
	}
	evaluator := ai.NewEvaluator(cfg.AI)
	s.roomManager = room.NewRoomManager(s.redisStore, evaluator, timings, cfg.Game.RoomTimeoutDuration())
	s.roomManager.SetRoundResultHandler(s.recordRoundResults)

	s.handler = handler.NewHandler(handler.Deps{
		Server:      s,
		Rooms:       s.roomManager,
		Emotes:      s.emoteLimiter,
		Leaderboard: s.leaderboard,
		Sessions:    s.sessionManager,
	})

	return s, nil
}

// recordRoundResults 把一局结果落到排行榜。失败只记日志，不影响对局
func (s *Server) recordRoundResults(r *room.Room, results []room.RoundResult) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	for _, res := range results {
		if err := s.leaderboard.RecordRoundResult(ctx, res.PlayerID, res.Name, res.Outcome, res.IsHead); err != nil {
			log.Printf("记录玩家 %s 战绩失败: %v", res.Name, err)
		}
	}
	log.Printf("🏆 房间 %s 第 %d 局战绩已入榜", r.Code, r.Game().Round())
}

// Start 启动服务器
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)

	http.HandleFunc("/ws", s.handleWebSocket)
	http.HandleFunc("/health", s.handleHealth)

	go s.monitorStats()

	log.Printf("🚀 服务器启动在 ws://%s/ws (CPU核心数: %d)", addr, runtime.NumCPU())
	server := &http.Server{
		Addr:              addr,
		Handler:           nil,
		ReadHeaderTimeout: 10 * time.Second, // 防止 Slowloris 攻击
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return server.ListenAndServe()
}
