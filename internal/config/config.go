package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/palemoky/six-poker/internal/game/ai"
)

// Config 服务端配置
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Redis    RedisConfig    `yaml:"redis"`
	Game     GameConfig     `yaml:"game"`
	Security SecurityConfig `yaml:"security"`
	AI       ai.Tunables    `yaml:"ai"`
}

// ServerConfig WebSocket 服务器配置
type ServerConfig struct {
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	MaxConnections int    `yaml:"max_connections"`
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// GameConfig 游戏配置
type GameConfig struct {
	TurnTimeout   int `yaml:"turn_timeout"`   // 出牌超时（秒）
	HostedTimeout int `yaml:"hosted_timeout"` // 托管座位出牌延迟（秒）
	BotDelayMs    int `yaml:"bot_delay_ms"`   // 电脑思考延迟（毫秒）
	RoomTimeout   int `yaml:"room_timeout"`   // 房间等待超时（分钟）
}

// SecurityConfig 安全配置
type SecurityConfig struct {
	AllowedOrigins []string         `yaml:"allowed_origins"`
	EmoteLimit     EmoteLimitConfig `yaml:"emote_limit"`
}

// EmoteLimitConfig 表情速率限制
type EmoteLimitConfig struct {
	MaxPerMinute int `yaml:"max_per_minute"`
	Cooldown     int `yaml:"cooldown"` // 触发限制后的冷却（秒）
}

// TurnTimeoutDuration 返回出牌超时时长
func (c *GameConfig) TurnTimeoutDuration() time.Duration {
	return time.Duration(c.TurnTimeout) * time.Second
}

// HostedTimeoutDuration 返回托管座位的出牌延迟
func (c *GameConfig) HostedTimeoutDuration() time.Duration {
	return time.Duration(c.HostedTimeout) * time.Second
}

// BotDelayDuration 返回电脑思考延迟
func (c *GameConfig) BotDelayDuration() time.Duration {
	return time.Duration(c.BotDelayMs) * time.Millisecond
}

// RoomTimeoutDuration 返回房间等待超时时长
func (c *GameConfig) RoomTimeoutDuration() time.Duration {
	return time.Duration(c.RoomTimeout) * time.Minute
}

// CooldownDuration 返回表情限制冷却时长
func (c *EmoteLimitConfig) CooldownDuration() time.Duration {
	return time.Duration(c.Cooldown) * time.Second
}

// Load 加载配置文件。文件里省略的键保持默认值，
// AI 权重同理，只覆盖写了的项
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default 返回默认配置
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:           "0.0.0.0",
			Port:           1786,
			MaxConnections: 4096,
		},
		Redis: RedisConfig{
			Addr: "localhost:6379",
		},
		Game: GameConfig{
			TurnTimeout:   30,
			HostedTimeout: 2,
			BotDelayMs:    800,
			RoomTimeout:   10,
		},
		Security: SecurityConfig{
			EmoteLimit: EmoteLimitConfig{
				MaxPerMinute: 20,
				Cooldown:     10,
			},
		},
		AI: ai.DefaultTunables(),
	}
}
