package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionManager_CreateAndResume(t *testing.T) {
	t.Parallel()

	sm := NewSessionManager()
	sess := sm.Create("p1", "玩家一")
	require.NotEmpty(t, sess.Token)

	sm.MarkDisconnected("p1", "1234")

	oldID, name, roomCode, ok := sm.Resume(sess.Token, "p2")
	require.True(t, ok)
	assert.Equal(t, "p1", oldID)
	assert.Equal(t, "玩家一", name)
	assert.Equal(t, "1234", roomCode)

	// 会话已绑定到新 ID，旧 ID 的断线标记不再生效
	sm.MarkDisconnected("p1", "")
	_, _, code, ok := sm.Resume(sess.Token, "p3")
	assert.True(t, ok)
	assert.Equal(t, "1234", code)
}

func TestSessionManager_InvalidToken(t *testing.T) {
	t.Parallel()

	sm := NewSessionManager()
	_, _, _, ok := sm.Resume("no-such-token", "p1")
	assert.False(t, ok)
}

func TestSessionManager_Remove(t *testing.T) {
	t.Parallel()

	sm := NewSessionManager()
	sess := sm.Create("p1", "玩家一")
	assert.Equal(t, 1, sm.Count())

	sm.Remove("p1")
	assert.Equal(t, 0, sm.Count())

	_, _, _, ok := sm.Resume(sess.Token, "p2")
	assert.False(t, ok)
}
