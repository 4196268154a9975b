package server

import (
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/palemoky/six-poker/internal/protocol"
	"github.com/palemoky/six-poker/internal/protocol/codec"
)

const (
	// 写超时
	writeWait = 10 * time.Second
	// pong 等待时间
	pongWait = 60 * time.Second
	// ping 间隔（必须小于 pongWait）
	pingPeriod = (pongWait * 9) / 10
	// 最大消息大小
	maxMessageSize = 4096
	// 发送缓冲区大小
	sendBufferSize = 256
)

// Client 一条 WebSocket 连接上的玩家
type Client struct {
	ID   string
	Name string

	conn   *websocket.Conn
	server *Server
	send   chan *protocol.Message

	mu        sync.RWMutex
	room      string
	closeOnce sync.Once
	closed    chan struct{}
}

// NewClient 创建客户端
func NewClient(id, name string, conn *websocket.Conn, server *Server) *Client {
	return &Client{
		ID:     id,
		Name:   name,
		conn:   conn,
		server: server,
		send:   make(chan *protocol.Message, sendBufferSize),
		closed: make(chan struct{}),
	}
}

// GetID 返回客户端 ID
func (c *Client) GetID() string { return c.ID }

// GetName 返回昵称
func (c *Client) GetName() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Name
}

// SetName 设置昵称（重连恢复身份时使用）
func (c *Client) SetName(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Name = name
}

// GetRoom 返回所在房间号，不在房间为空串
func (c *Client) GetRoom() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.room
}

// SetRoom 设置所在房间号
func (c *Client) SetRoom(code string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.room = code
}

// SendMessage 向客户端发送消息。非阻塞，缓冲区满视为连接已死，直接断开
func (c *Client) SendMessage(msg *protocol.Message) {
	select {
	case <-c.closed:
		return
	default:
	}

	select {
	case c.send <- msg:
	default:
		log.Printf("⚠️ 客户端 %s 发送缓冲区已满，断开连接", c.Name)
		c.Close()
	}
}

// Close 关闭连接
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.closed)
		_ = c.conn.Close()
	})
}

// readPump 从连接读取消息并分发给处理器
func (c *Client) readPump() {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("❌ readPump panic: %v", r)
		}
		c.server.handleDisconnect(c)
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg protocol.Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				log.Printf("⚠️ 客户端 %s 连接异常: %v", c.Name, err)
			}
			return
		}

		if !c.server.messageLimiter.Allow(c.ID) {
			c.SendMessage(codec.NewErrorMessage(protocol.ErrCodeRateLimit))
			continue
		}

		c.server.handler.HandleMessage(c, &msg)
	}
}

// writePump 把待发消息写到连接，并定期发送 ping
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case <-c.closed:
			return
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
