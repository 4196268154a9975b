package codec

import (
	"encoding/json"
	"fmt"

	"github.com/palemoky/six-poker/internal/protocol"
)

// NewMessage 构造一条带负载的消息
func NewMessage(msgType protocol.MessageType, payload any) (*protocol.Message, error) {
	msg := &protocol.Message{Type: msgType}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("序列化消息负载失败: %w", err)
		}
		msg.Payload = data
	}
	return msg, nil
}

// MustNewMessage 构造消息，负载序列化失败直接 panic。
// 只用于服务端自己定义的 payload 类型，它们总是可序列化的
func MustNewMessage(msgType protocol.MessageType, payload any) *protocol.Message {
	msg, err := NewMessage(msgType, payload)
	if err != nil {
		panic(err)
	}
	return msg
}

// NewErrorMessage 按错误码构造错误消息，消息文案取自预定义表
func NewErrorMessage(code int) *protocol.Message {
	text, ok := protocol.ErrorMessages[code]
	if !ok {
		text = protocol.ErrorMessages[protocol.ErrCodeUnknown]
	}
	return MustNewMessage(protocol.MsgError, protocol.ErrorPayload{Code: code, Message: text})
}

// NewErrorMessageWithText 按错误码和自定义文案构造错误消息
func NewErrorMessageWithText(code int, text string) *protocol.Message {
	return MustNewMessage(protocol.MsgError, protocol.ErrorPayload{Code: code, Message: text})
}

// DecodePayload 解析消息负载
func DecodePayload[T any](msg *protocol.Message) (T, error) {
	var payload T
	if len(msg.Payload) == 0 {
		return payload, nil
	}
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return payload, fmt.Errorf("解析消息负载失败: %w", err)
	}
	return payload, nil
}
