package handler_test

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/six-poker/internal/game/ai"
	"github.com/palemoky/six-poker/internal/game/room"
	"github.com/palemoky/six-poker/internal/game/session"
	"github.com/palemoky/six-poker/internal/protocol"
	"github.com/palemoky/six-poker/internal/protocol/codec"
	"github.com/palemoky/six-poker/internal/server/handler"
	"github.com/palemoky/six-poker/internal/storage"
	"github.com/palemoky/six-poker/internal/types"
)

type fakeServer struct {
	maintenance bool
}

func (s *fakeServer) IsMaintenanceMode() bool                         { return s.maintenance }
func (s *fakeServer) GetOnlineCount() int                             { return 0 }
func (s *fakeServer) GetClientByID(string) types.ClientInterface      { return nil }
func (s *fakeServer) RegisterClient(string, types.ClientInterface)    {}
func (s *fakeServer) UnregisterClient(string)                         {}

type fakeEmoteLimiter struct {
	allowed bool
	reason  string
}

func (l *fakeEmoteLimiter) AllowEmote(string) (bool, string) { return l.allowed, l.reason }
func (l *fakeEmoteLimiter) RemoveClient(string)              {}

type fakeSessions struct {
	oldID    string
	name     string
	roomCode string
	ok       bool
}

func (s *fakeSessions) Resume(_, _ string) (string, string, string, bool) {
	return s.oldID, s.name, s.roomCode, s.ok
}

type testEnv struct {
	handler     *handler.Handler
	rooms       *room.RoomManager
	server      *fakeServer
	emotes      *fakeEmoteLimiter
	sessions    *fakeSessions
	leaderboard *storage.LeaderboardManager
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	env := &testEnv{
		rooms:       room.NewRoomManager(nil, ai.NewEvaluator(ai.DefaultTunables()), session.Timings{}, 0),
		server:      &fakeServer{},
		emotes:      &fakeEmoteLimiter{allowed: true},
		sessions:    &fakeSessions{},
		leaderboard: storage.NewLeaderboardManager(rdb),
	}
	env.handler = handler.NewHandler(handler.Deps{
		Server:      env.server,
		Rooms:       env.rooms,
		Emotes:      env.emotes,
		Leaderboard: env.leaderboard,
		Sessions:    env.sessions,
	})
	return env
}

func send(t *testing.T, h *handler.Handler, c types.ClientInterface, msgType protocol.MessageType, payload any) {
	t.Helper()
	msg, err := codec.NewMessage(msgType, payload)
	require.NoError(t, err)
	h.HandleMessage(c, msg)
}

func lastError(t *testing.T, c *room.FakeClient) *protocol.ErrorPayload {
	t.Helper()
	msg := c.LastOfType(protocol.MsgError)
	if msg == nil {
		return nil
	}
	p, err := codec.DecodePayload[protocol.ErrorPayload](msg)
	require.NoError(t, err)
	return &p
}

func TestHandleMessage_UnknownType(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	c := room.NewFakeClient("c1", "测试玩家")

	env.handler.HandleMessage(c, &protocol.Message{Type: "no_such_type"})

	errPayload := lastError(t, c)
	require.NotNil(t, errPayload)
	assert.Equal(t, protocol.ErrCodeInvalidMsg, errPayload.Code)
}

func TestCreateAndJoinRoom(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	host := room.NewFakeClient("host", "房主")
	send(t, env.handler, host, protocol.MsgCreateRoom, protocol.CreateRoomPayload{})

	created := host.LastOfType(protocol.MsgRoomCreated)
	require.NotNil(t, created)
	cp, err := codec.DecodePayload[protocol.RoomCreatedPayload](created)
	require.NoError(t, err)
	assert.Equal(t, 0, cp.Seat)
	assert.Len(t, cp.RoomCode, 4)
	assert.NotEmpty(t, host.GetRoom())

	// 第二个玩家凭房间号和密码加入
	guest := room.NewFakeClient("guest", "访客")
	send(t, env.handler, guest, protocol.MsgJoinRoom, protocol.JoinRoomPayload{
		RoomCode: cp.RoomCode,
		Password: cp.Password,
	})

	joined := guest.LastOfType(protocol.MsgRoomJoined)
	require.NotNil(t, joined)
	jp, err := codec.DecodePayload[protocol.RoomJoinedPayload](joined)
	require.NoError(t, err)
	assert.Equal(t, 1, jp.Seat)
	assert.False(t, jp.IsSpectator)
}

func TestJoinRoom_WrongPassword(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	host := room.NewFakeClient("host", "房主")
	send(t, env.handler, host, protocol.MsgCreateRoom, protocol.CreateRoomPayload{})
	cp, err := codec.DecodePayload[protocol.RoomCreatedPayload](host.LastOfType(protocol.MsgRoomCreated))
	require.NoError(t, err)

	guest := room.NewFakeClient("guest", "访客")
	send(t, env.handler, guest, protocol.MsgJoinRoom, protocol.JoinRoomPayload{
		RoomCode: cp.RoomCode,
		Password: "0000" + cp.Password, // 必然错误
	})

	errPayload := lastError(t, guest)
	require.NotNil(t, errPayload)
	assert.Equal(t, protocol.ErrCodeWrongPass, errPayload.Code)
	assert.Empty(t, guest.GetRoom())
}

func TestCreateRoom_MaintenanceMode(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.server.maintenance = true

	c := room.NewFakeClient("c1", "玩家")
	send(t, env.handler, c, protocol.MsgCreateRoom, protocol.CreateRoomPayload{})

	errPayload := lastError(t, c)
	require.NotNil(t, errPayload)
	assert.Equal(t, protocol.ErrCodeMaintenance, errPayload.Code)
}

func TestStartGameAndGetState(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	host := room.NewFakeClient("host", "房主")
	send(t, env.handler, host, protocol.MsgCreateRoom, protocol.CreateRoomPayload{})

	send(t, env.handler, host, protocol.MsgStartGame, nil)
	send(t, env.handler, host, protocol.MsgGetState, nil)

	stateMsg := host.LastOfType(protocol.MsgRoomState)
	require.NotNil(t, stateMsg)
	sp, err := codec.DecodePayload[protocol.RoomStatePayload](stateMsg)
	require.NoError(t, err)
	assert.False(t, sp.Waiting)
	assert.Equal(t, "playing", sp.Game.Status)
	// 自己的手牌可见
	assert.Len(t, sp.Game.Players[0].Hand, session.HandSize)
}

func TestStartGame_GuestNotReady(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	host := room.NewFakeClient("host", "房主")
	send(t, env.handler, host, protocol.MsgCreateRoom, protocol.CreateRoomPayload{})
	cp, err := codec.DecodePayload[protocol.RoomCreatedPayload](host.LastOfType(protocol.MsgRoomCreated))
	require.NoError(t, err)

	guest := room.NewFakeClient("guest", "访客")
	send(t, env.handler, guest, protocol.MsgJoinRoom, protocol.JoinRoomPayload{
		RoomCode: cp.RoomCode,
		Password: cp.Password,
	})

	send(t, env.handler, host, protocol.MsgStartGame, nil)
	errPayload := lastError(t, host)
	require.NotNil(t, errPayload)
	assert.Equal(t, protocol.ErrCodeNotReady, errPayload.Code)

	// 访客准备后可以开局
	send(t, env.handler, guest, protocol.MsgReady, nil)
	send(t, env.handler, host, protocol.MsgStartGame, nil)
	r := env.rooms.GetRoom(cp.RoomCode)
	require.NotNil(t, r)
	assert.Equal(t, room.RoomStatePlaying, r.State())
}

func TestPlayCards_NotInRoom(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	c := room.NewFakeClient("c1", "玩家")
	send(t, env.handler, c, protocol.MsgPlayCards, protocol.PlayCardsPayload{CardIDs: []string{"x"}})

	errPayload := lastError(t, c)
	require.NotNil(t, errPayload)
	assert.Equal(t, protocol.ErrCodeNotInRoom, errPayload.Code)
}

func TestEmote_RateLimited(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.emotes.allowed = false
	env.emotes.reason = "太快了"

	host := room.NewFakeClient("host", "房主")
	send(t, env.handler, host, protocol.MsgCreateRoom, protocol.CreateRoomPayload{})
	send(t, env.handler, host, protocol.MsgEmote, protocol.EmotePayload{TargetSeat: -1, Content: "👍"})

	errPayload := lastError(t, host)
	require.NotNil(t, errPayload)
	assert.Equal(t, protocol.ErrCodeRateLimit, errPayload.Code)
	assert.Equal(t, "太快了", errPayload.Message)
}

func TestEmote_Broadcast(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	host := room.NewFakeClient("host", "房主")
	send(t, env.handler, host, protocol.MsgCreateRoom, protocol.CreateRoomPayload{})
	send(t, env.handler, host, protocol.MsgEmote, protocol.EmotePayload{TargetSeat: 2, Content: "加油"})

	pushed := host.LastOfType(protocol.MsgEmotePush)
	require.NotNil(t, pushed)
	ep, err := codec.DecodePayload[protocol.EmotePushPayload](pushed)
	require.NoError(t, err)
	assert.Equal(t, 0, ep.SenderSeat)
	assert.Equal(t, 2, ep.TargetSeat)
	assert.Equal(t, "加油", ep.Content)
}

func TestReconnect_InvalidToken(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	c := room.NewFakeClient("c1", "玩家")
	send(t, env.handler, c, protocol.MsgReconnect, protocol.ReconnectPayload{Token: "bad"})

	errPayload := lastError(t, c)
	require.NotNil(t, errPayload)
	assert.Nil(t, c.LastOfType(protocol.MsgReconnected))
}

func TestReconnect_RestoresIdentity(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.sessions.ok = true
	env.sessions.oldID = "old-id"
	env.sessions.name = "老玩家"

	c := room.NewFakeClient("new-id", "随机昵称")
	send(t, env.handler, c, protocol.MsgReconnect, protocol.ReconnectPayload{Token: "tok"})

	msg := c.LastOfType(protocol.MsgReconnected)
	require.NotNil(t, msg)
	rp, err := codec.DecodePayload[protocol.ReconnectedPayload](msg)
	require.NoError(t, err)
	assert.Equal(t, "老玩家", rp.PlayerName)
	assert.Equal(t, "老玩家", c.GetName())
	assert.Equal(t, -1, rp.Seat)
}

func TestGetLeaderboard(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	require.NoError(t, env.leaderboard.RecordRoundResult(t.Context(), "p1", "排头兵", storage.OutcomeWin, true))

	c := room.NewFakeClient("c1", "玩家")
	send(t, env.handler, c, protocol.MsgGetLeaderboard, protocol.GetLeaderboardPayload{})

	msg := c.LastOfType(protocol.MsgLeaderboardResult)
	require.NotNil(t, msg)
	lp, err := codec.DecodePayload[protocol.LeaderboardResultPayload](msg)
	require.NoError(t, err)
	require.Len(t, lp.Entries, 1)
	assert.Equal(t, "排头兵", lp.Entries[0].PlayerName)
	assert.Equal(t, 1, lp.Entries[0].Rank)
}

func TestGetStats_NewPlayer(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	c := room.NewFakeClient("fresh", "新人")
	send(t, env.handler, c, protocol.MsgGetStats, nil)

	msg := c.LastOfType(protocol.MsgStatsResult)
	require.NotNil(t, msg)
	sp, err := codec.DecodePayload[protocol.StatsResultPayload](msg)
	require.NoError(t, err)
	assert.Equal(t, "fresh", sp.PlayerID)
	assert.Zero(t, sp.TotalRounds)
}

func TestGetRoomList(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	host := room.NewFakeClient("host", "房主")
	send(t, env.handler, host, protocol.MsgCreateRoom, protocol.CreateRoomPayload{})

	c := room.NewFakeClient("c1", "玩家")
	send(t, env.handler, c, protocol.MsgGetRoomList, nil)

	msg := c.LastOfType(protocol.MsgRoomListResult)
	require.NotNil(t, msg)
	lp, err := codec.DecodePayload[protocol.RoomListResultPayload](msg)
	require.NoError(t, err)
	require.Len(t, lp.Rooms, 1)
	assert.Equal(t, 1, lp.Rooms[0].PlayerCount)
	assert.Equal(t, session.SeatCount, lp.Rooms[0].MaxPlayers)
}
