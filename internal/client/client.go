package client

import (
	"encoding/json"
	"errors"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/palemoky/six-poker/internal/protocol"
	"github.com/palemoky/six-poker/internal/protocol/codec"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	// 心跳检测间隔
	heartbeatInterval = 5 * time.Second
	// 最大重连次数
	maxReconnectAttempts = 5
	// 重连间隔
	reconnectInterval = 2 * time.Second
)

// Client WebSocket 客户端，维护与服务器的长连接并在断线后自动重连
type Client struct {
	ServerURL string
	conn      *websocket.Conn
	send      chan []byte
	receive   chan *protocol.Message
	done      chan struct{}

	PlayerID       string
	PlayerName     string
	ReconnectToken string // 重连令牌

	// 网络延迟（毫秒）
	latency atomic.Int64

	// 回调
	OnMessage   func(*protocol.Message) // 消息回调
	OnError     func(error)             // 错误回调
	OnClose     func()                  // 关闭回调
	OnReconnect func()                  // 重连成功回调

	mu             sync.RWMutex
	closed         bool
	reconnecting   atomic.Bool
	reconnectCount int
}

// NewClient 创建客户端
func NewClient(serverURL string) *Client {
	return &Client{
		ServerURL: serverURL,
		send:      make(chan []byte, 256),
		receive:   make(chan *protocol.Message, 256),
		done:      make(chan struct{}),
	}
}

// Connect 连接服务器并启动读写协程
func (c *Client) Connect() error {
	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}

	conn, _, err := dialer.Dial(c.ServerURL, nil)
	if err != nil {
		return err
	}
	c.conn = conn

	go c.readPump()
	go c.writePump()
	return nil
}

// readPump 从服务器读取消息
func (c *Client) readPump() {
	defer func() {
		// 持有令牌的连接断开后先尝试重连
		if c.ReconnectToken != "" && !c.reconnecting.Load() {
			go c.tryReconnect()
		} else {
			c.Close()
			if c.OnClose != nil {
				c.OnClose()
			}
		}
	}()

	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg protocol.Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				if c.OnError != nil {
					c.OnError(err)
				}
			}
			return
		}

		c.trackIdentity(&msg)

		if c.OnMessage != nil {
			c.OnMessage(&msg)
		}

		select {
		case c.receive <- &msg:
		default:
		}
	}
}

// trackIdentity 从连接层消息里更新身份、令牌和延迟
func (c *Client) trackIdentity(msg *protocol.Message) {
	switch msg.Type {
	case protocol.MsgConnected:
		var payload protocol.ConnectedPayload
		if err := json.Unmarshal(msg.Payload, &payload); err == nil {
			c.PlayerID = payload.PlayerID
			c.PlayerName = payload.PlayerName
			c.ReconnectToken = payload.ReconnectToken
		}
	case protocol.MsgReconnected:
		c.reconnecting.Store(false)
		c.reconnectCount = 0
		var payload protocol.ReconnectedPayload
		if err := json.Unmarshal(msg.Payload, &payload); err == nil {
			c.PlayerID = payload.PlayerID
			c.PlayerName = payload.PlayerName
		}
		if c.OnReconnect != nil {
			c.OnReconnect()
		}
	case protocol.MsgPong:
		var payload protocol.PongPayload
		if err := json.Unmarshal(msg.Payload, &payload); err == nil {
			c.latency.Store(time.Now().UnixMilli() - payload.ClientTimestamp)
		}
	}
}

// writePump 向服务器写入消息并定期发送 ping
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			return
		}
	}
}

// SendMessage 发送消息
func (c *Client) SendMessage(msg *protocol.Message) error {
	c.mu.RLock()
	if c.closed {
		c.mu.RUnlock()
		return errors.New("连接已关闭")
	}
	c.mu.RUnlock()

	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	select {
	case c.send <- data:
		return nil
	default:
		return errors.New("发送缓冲区已满")
	}
}

// Receive 接收消息（阻塞）
func (c *Client) Receive() (*protocol.Message, error) {
	select {
	case msg := <-c.receive:
		return msg, nil
	case <-c.done:
		return nil, errors.New("连接已关闭")
	}
}

// ReceiveWithTimeout 带超时接收消息
func (c *Client) ReceiveWithTimeout(timeout time.Duration) (*protocol.Message, error) {
	select {
	case msg := <-c.receive:
		return msg, nil
	case <-time.After(timeout):
		return nil, errors.New("接收超时")
	case <-c.done:
		return nil, errors.New("连接已关闭")
	}
}

// Close 关闭连接
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		c.closed = true
		close(c.done)
		if c.conn != nil {
			_ = c.conn.Close()
		}
	}
}

// IsConnected 是否已连接
func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return !c.closed && c.conn != nil
}

// GetLatency 当前延迟（毫秒）
func (c *Client) GetLatency() int64 {
	return c.latency.Load()
}

// IsReconnecting 是否正在重连
func (c *Client) IsReconnecting() bool {
	return c.reconnecting.Load()
}

// StartHeartbeat 启动心跳协程
func (c *Client) StartHeartbeat() {
	go func() {
		ticker := time.NewTicker(heartbeatInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if c.IsConnected() {
					_ = c.Ping()
				}
			case <-c.done:
				return
			}
		}
	}()
}

// tryReconnect 自动重连，按固定间隔重试
func (c *Client) tryReconnect() {
	if !c.reconnecting.CompareAndSwap(false, true) {
		return
	}

	for c.reconnectCount < maxReconnectAttempts {
		c.reconnectCount++
		log.Printf("🔄 尝试重连 (%d/%d)...", c.reconnectCount, maxReconnectAttempts)

		time.Sleep(reconnectInterval)

		dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
		conn, _, err := dialer.Dial(c.ServerURL, nil)
		if err != nil {
			log.Printf("重连失败: %v", err)
			continue
		}

		c.mu.Lock()
		c.conn = conn
		c.closed = false
		c.send = make(chan []byte, 256)
		c.done = make(chan struct{})
		c.mu.Unlock()

		go c.readPump()
		go c.writePump()

		// 等服务器下发新身份后再提交旧令牌
		time.Sleep(100 * time.Millisecond)
		if err := c.Reconnect(); err != nil {
			log.Printf("发送重连请求失败: %v", err)
			_ = c.conn.Close()
			continue
		}

		log.Printf("✅ 重连成功")
		return
	}

	log.Printf("❌ 重连失败，已达最大尝试次数")
	c.reconnecting.Store(false)
	c.Close()
	if c.OnClose != nil {
		c.OnClose()
	}
}

// Reconnect 发送重连请求
func (c *Client) Reconnect() error {
	if c.ReconnectToken == "" {
		return errors.New("没有重连令牌")
	}
	return c.SendMessage(codec.MustNewMessage(protocol.MsgReconnect, protocol.ReconnectPayload{
		Token:    c.ReconnectToken,
		PlayerID: c.PlayerID,
	}))
}
