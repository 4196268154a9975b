//go:build !production

package room

import (
	"sync"

	"github.com/palemoky/six-poker/internal/protocol"
)

// FakeClient 测试用客户端，记录收到的消息
type FakeClient struct {
	ID   string
	Name string

	mu       sync.Mutex
	room     string
	messages []*protocol.Message
	closed   bool
}

func NewFakeClient(id, name string) *FakeClient {
	return &FakeClient{ID: id, Name: name}
}

func (c *FakeClient) GetID() string { return c.ID }

func (c *FakeClient) GetName() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Name
}

func (c *FakeClient) SetName(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Name = name
}

func (c *FakeClient) GetRoom() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.room
}

func (c *FakeClient) SetRoom(code string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.room = code
}

func (c *FakeClient) SendMessage(msg *protocol.Message) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append(c.messages, msg)
}

func (c *FakeClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

// Messages 收到的全部消息的副本
func (c *FakeClient) Messages() []*protocol.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*protocol.Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// LastOfType 最近一条指定类型的消息，没有返回 nil
func (c *FakeClient) LastOfType(msgType protocol.MessageType) *protocol.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := len(c.messages) - 1; i >= 0; i-- {
		if c.messages[i].Type == msgType {
			return c.messages[i]
		}
	}
	return nil
}

// AddRoomForTest 添加房间用于测试
func (rm *RoomManager) AddRoomForTest(room *Room) {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	rm.rooms[room.Code] = room
}
