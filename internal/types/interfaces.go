package types

import (
	"github.com/palemoky/six-poker/internal/protocol"
)

// ServerInterface 定义服务器接口（用于打破循环依赖）
type ServerInterface interface {
	IsMaintenanceMode() bool
	GetOnlineCount() int
	GetClientByID(id string) ClientInterface
	RegisterClient(id string, client ClientInterface)
	UnregisterClient(id string)
}

// ClientInterface 定义客户端接口
type ClientInterface interface {
	GetID() string
	GetName() string
	GetRoom() string
	SetRoom(code string)
	SendMessage(msg *protocol.Message)
	Close()
}

// EmoteLimiter 表情速率限制器接口
type EmoteLimiter interface {
	AllowEmote(clientID string) (allowed bool, reason string)
	RemoveClient(clientID string)
}
