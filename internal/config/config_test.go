package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/six-poker/internal/game/ai"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0o600))
	return configPath
}

func TestLoad_ValidConfig(t *testing.T) {
	t.Parallel()

	content := `
server:
  host: "127.0.0.1"
  port: 8080
  max_connections: 5000

redis:
  addr: "redis:6379"
  password: "secret"
  db: 1

game:
  turn_timeout: 60
  hosted_timeout: 3
  bot_delay_ms: 500
  room_timeout: 15

security:
  allowed_origins:
    - "http://localhost:3000"
  emote_limit:
    max_per_minute: 10
    cooldown: 30
`
	cfg, err := Load(writeConfig(t, content))
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 5000, cfg.Server.MaxConnections)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	assert.Equal(t, "secret", cfg.Redis.Password)
	assert.Equal(t, 1, cfg.Redis.DB)
	assert.Equal(t, 60*time.Second, cfg.Game.TurnTimeoutDuration())
	assert.Equal(t, 3*time.Second, cfg.Game.HostedTimeoutDuration())
	assert.Equal(t, 500*time.Millisecond, cfg.Game.BotDelayDuration())
	assert.Equal(t, 15*time.Minute, cfg.Game.RoomTimeoutDuration())
	assert.Len(t, cfg.Security.AllowedOrigins, 1)
	assert.Equal(t, 30*time.Second, cfg.Security.EmoteLimit.CooldownDuration())
}

func TestLoad_AppliesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load(writeConfig(t, `{}`))
	require.NoError(t, err)

	def := Default()
	assert.Equal(t, def.Server.Host, cfg.Server.Host)
	assert.Equal(t, def.Server.Port, cfg.Server.Port)
	assert.Equal(t, def.Redis.Addr, cfg.Redis.Addr)
	assert.Equal(t, def.Game.TurnTimeout, cfg.Game.TurnTimeout)
	assert.Equal(t, ai.DefaultTunables(), cfg.AI)
}

func TestLoad_PartialAIOverride(t *testing.T) {
	t.Parallel()

	content := `
ai:
  response_success_bonus: 7.5
`
	cfg, err := Load(writeConfig(t, content))
	require.NoError(t, err)

	def := ai.DefaultTunables()
	assert.InDelta(t, 7.5, cfg.AI.ResponseSuccessBonus, 0.001)
	// 未覆盖的权重保持默认
	assert.InDelta(t, def.LeadStrengthWeight, cfg.AI.LeadStrengthWeight, 0.001)
}

func TestLoad_FileNotFound(t *testing.T) {
	t.Parallel()

	cfg, err := Load("/nonexistent/path/config.yaml")
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoad_InvalidYAML(t *testing.T) {
	t.Parallel()

	cfg, err := Load(writeConfig(t, "invalid: yaml: :::"))
	assert.Error(t, err)
	assert.Nil(t, cfg)
}
