package server

import (
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// OriginChecker 按白名单校验 WebSocket 握手来源。
// 白名单为空表示允许任意来源（本地开发、桌面客户端）
type OriginChecker struct {
	allowed map[string]struct{}
}

// NewOriginChecker 创建来源校验器
func NewOriginChecker(origins []string) *OriginChecker {
	oc := &OriginChecker{allowed: make(map[string]struct{}, len(origins))}
	for _, o := range origins {
		oc.allowed[strings.TrimRight(o, "/")] = struct{}{}
	}
	return oc
}

// Allowed 判断请求来源是否可接受
func (oc *OriginChecker) Allowed(r *http.Request) bool {
	if len(oc.allowed) == 0 {
		return true
	}
	origin := r.Header.Get("Origin")
	if origin == "" {
		// 非浏览器客户端不带 Origin
		return true
	}
	_, ok := oc.allowed[strings.TrimRight(origin, "/")]
	return ok
}

// GetClientIP 提取客户端真实 IP，优先代理头
func GetClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		return strings.TrimSpace(parts[0])
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// MessageRateLimiter 按客户端限制每秒消息数，滑动窗口计数
type MessageRateLimiter struct {
	mu        sync.Mutex
	maxPerSec int
	history   map[string][]time.Time
}

// NewMessageRateLimiter 创建消息限速器
func NewMessageRateLimiter(maxPerSec int) *MessageRateLimiter {
	return &MessageRateLimiter{
		maxPerSec: maxPerSec,
		history:   make(map[string][]time.Time),
	}
}

// Allow 判断该客户端此刻是否允许再发一条消息
func (l *MessageRateLimiter) Allow(clientID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	cutoff := now.Add(-time.Second)

	times := l.history[clientID]
	kept := times[:0]
	for _, t := range times {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}

	if len(kept) >= l.maxPerSec {
		l.history[clientID] = kept
		return false
	}
	l.history[clientID] = append(kept, now)
	return true
}

// RemoveClient 清理客户端的限速记录
func (l *MessageRateLimiter) RemoveClient(clientID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.history, clientID)
}

// EmoteRateLimiter 表情限速：每分钟上限 + 触顶后的冷却期
type EmoteRateLimiter struct {
	mu           sync.Mutex
	maxPerMinute int
	cooldown     time.Duration
	history      map[string][]time.Time
	coolingUntil map[string]time.Time
}

// NewEmoteRateLimiter 创建表情限速器
func NewEmoteRateLimiter(maxPerMinute int, cooldown time.Duration) *EmoteRateLimiter {
	return &EmoteRateLimiter{
		maxPerMinute: maxPerMinute,
		cooldown:     cooldown,
		history:      make(map[string][]time.Time),
		coolingUntil: make(map[string]time.Time),
	}
}

// AllowEmote 判断是否允许发表情，拒绝时附带原因
func (l *EmoteRateLimiter) AllowEmote(clientID string) (bool, string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	if until, ok := l.coolingUntil[clientID]; ok {
		if now.Before(until) {
			remain := int(until.Sub(now).Seconds()) + 1
			return false, fmt.Sprintf("表情发送过于频繁，请 %d 秒后再试", remain)
		}
		delete(l.coolingUntil, clientID)
	}

	cutoff := now.Add(-time.Minute)
	times := l.history[clientID]
	kept := times[:0]
	for _, t := range times {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}

	if len(kept) >= l.maxPerMinute {
		l.history[clientID] = kept
		l.coolingUntil[clientID] = now.Add(l.cooldown)
		return false, fmt.Sprintf("表情发送过于频繁，请 %d 秒后再试", int(l.cooldown.Seconds()))
	}
	l.history[clientID] = append(kept, now)
	return true, ""
}

// RemoveClient 清理客户端的表情限速记录
func (l *EmoteRateLimiter) RemoveClient(clientID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.history, clientID)
	delete(l.coolingUntil, clientID)
}
