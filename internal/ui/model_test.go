package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/six-poker/internal/protocol"
	"github.com/palemoky/six-poker/internal/protocol/codec"
)

func testRoomState(t *testing.T) *protocol.Message {
	t.Helper()
	players := make([]protocol.PlayerView, 6)
	for i := range players {
		team := "A"
		if i%2 == 1 {
			team = "B"
		}
		players[i] = protocol.PlayerView{
			Seat:        i,
			Name:        "玩家" + string(rune('0'+i)),
			Team:        team,
			CardCount:   9,
			IsBot:       i != 0,
			IsConnected: i == 0,
		}
	}
	players[0].Hand = []protocol.CardView{
		{ID: "c1", Suit: "♥", Rank: "4", Value: 4, IsRed: true},
		{ID: "c2", Suit: "♠", Rank: "K", Value: 13},
		{ID: "c3", Suit: "", Rank: "BJ", Value: 18, IsWild: true, IsRed: true},
	}

	return codec.MustNewMessage(protocol.MsgRoomState, protocol.RoomStatePayload{
		RoomCode: "4321",
		HostSeat: 0,
		Waiting:  false,
		Ready:    make([]bool, 6),
		Game: protocol.GameSnapshot{
			Status:       "playing",
			CurrentTurn:  0,
			CurrentRound: 1,
			Players:      players,
			TeamWins:     map[string]int{"A": 0, "B": 0},
		},
	})
}

func newTableModel(t *testing.T) *Model {
	t.Helper()
	m := NewModel("ws://test/ws")
	m.screen = screenTable
	m.game.MySeat = 0
	m.applyServerMessage(testRoomState(t))
	return m
}

func TestApplyRoomState(t *testing.T) {
	t.Parallel()

	m := newTableModel(t)
	assert.Equal(t, "4321", m.game.RoomCode)
	assert.Equal(t, 0, m.game.MySeat)
	assert.True(t, m.game.IsMyTurn())
	assert.Len(t, m.game.MyHand(), 3)
}

func TestGameViewRendersTable(t *testing.T) {
	t.Parallel()

	m := newTableModel(t)
	view := m.View()

	assert.Contains(t, view, "房间 4321")
	assert.Contains(t, view, "第 1 局")
	assert.Contains(t, view, "我的手牌")
	assert.Contains(t, view, "记牌器")
	assert.Contains(t, view, "BJ")
}

func TestCardSelection(t *testing.T) {
	t.Parallel()

	m := newTableModel(t)

	// 光标移到第二张并选中
	m.handleKey(tea.KeyMsg{Type: tea.KeyRight})
	m.handleKey(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	assert.True(t, m.selected["c2"])

	ids := m.selectedIDs()
	require.Len(t, ids, 1)
	assert.Equal(t, "c2", ids[0])

	// 再按一次取消选中
	m.handleKey(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	assert.False(t, m.selected["c2"])
}

func TestErrorMessageShown(t *testing.T) {
	t.Parallel()

	m := newTableModel(t)
	m.applyServerMessage(codec.MustNewMessage(protocol.MsgError, protocol.ErrorPayload{
		Code:    protocol.ErrCodeNotYourTurn,
		Message: "还没轮到您",
	}))

	assert.Contains(t, m.View(), "还没轮到您")
}

func TestLobbyView(t *testing.T) {
	t.Parallel()

	m := NewModel("ws://test/ws")
	m.screen = screenLobby
	view := m.View()

	assert.Contains(t, view, "砸六家")
	assert.Contains(t, view, "创建房间")
	assert.Contains(t, view, "排行榜")
}

func TestWaitingViewShowsSeats(t *testing.T) {
	t.Parallel()

	m := NewModel("ws://test/ws")
	m.screen = screenTable
	m.game.MySeat = 0

	msg := codec.MustNewMessage(protocol.MsgRoomState, protocol.RoomStatePayload{
		RoomCode: "8888",
		HostSeat: 0,
		Waiting:  true,
		Ready:    []bool{false, true, false, false, false, false},
		Game: protocol.GameSnapshot{
			Status: "waiting",
			Players: []protocol.PlayerView{
				{Seat: 0, Name: "房主", Team: "A"},
				{Seat: 1, Name: "小明", Team: "B"},
			},
		},
	})
	m.applyServerMessage(msg)

	view := m.View()
	assert.Contains(t, view, "等待开局")
	assert.Contains(t, view, "房主")
	assert.Contains(t, view, "已准备")
	assert.True(t, strings.Contains(view, "s 开局"), "房主应看到开局入口")
}

func TestRenderCardsMarksSelection(t *testing.T) {
	t.Parallel()

	cards := []protocol.CardView{
		{ID: "a", Suit: "♠", Rank: "7"},
		{ID: "b", Suit: "♥", Rank: "A", IsRed: true},
	}
	out := renderCards(cards, 1, map[string]bool{"a": true})

	assert.Contains(t, out, "◆") // 选中标记
	assert.Contains(t, out, "▲") // 光标标记
	assert.Contains(t, out, "♠7")
	assert.Contains(t, out, "♥A")
}
