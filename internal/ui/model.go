package ui

import (
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/palemoky/six-poker/internal/client"
	"github.com/palemoky/six-poker/internal/protocol"
	"github.com/palemoky/six-poker/internal/sound"
)

// screen 当前界面
type screen int

const (
	screenConnecting screen = iota
	screenLobby
	screenJoinInput
	screenTable
	screenLeaderboard
	screenStats
)

// --- tea.Msg ---

// serverMsg 服务器推送的一条消息
type serverMsg struct{ msg *protocol.Message }

// connectedMsg 连接建立成功
type connectedMsg struct{}

// connFailedMsg 连接失败
type connFailedMsg struct{ err error }

// connClosedMsg 连接彻底断开（重连也失败了）
type connClosedMsg struct{}

// tickMsg 每秒刷新倒计时
type tickMsg struct{}

// Model 在线客户端的 bubbletea 模型
type Model struct {
	serverURL string
	net       *client.Client
	game      *client.GameState
	sound     *sound.SoundManager

	screen screen
	width  int
	height int

	input textinput.Model

	// 手牌光标与选择
	cursor   int
	selected map[string]bool // 选中的牌 ID

	leaderboard []protocol.LeaderboardEntry
	stats       protocol.StatsResultPayload

	// 上一次快照的状态，用于触发音效
	wasMyTurn  bool
	lastStatus string

	err  string
	info string
}

// NewModel 创建在线客户端模型
func NewModel(serverURL string) *Model {
	input := textinput.New()
	input.CharLimit = 32
	input.Width = 30

	sm := sound.NewSoundManager()
	_ = sm.Init()

	return &Model{
		serverURL: serverURL,
		net:       client.NewClient(serverURL),
		game:      client.NewGameState(),
		sound:     sm,
		screen:    screenConnecting,
		input:     input,
		selected:  make(map[string]bool),
	}
}

// Init 连接服务器
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.connectCmd(), tickCmd())
}

// connectCmd 建立 WebSocket 连接
func (m *Model) connectCmd() tea.Cmd {
	return func() tea.Msg {
		if err := m.net.Connect(); err != nil {
			return connFailedMsg{err: err}
		}
		m.net.StartHeartbeat()
		return connectedMsg{}
	}
}

// listenCmd 等待下一条服务器消息
func (m *Model) listenCmd() tea.Cmd {
	return func() tea.Msg {
		msg, err := m.net.Receive()
		if err != nil {
			return connClosedMsg{}
		}
		return serverMsg{msg: msg}
	}
}

// 倒计时刷新间隔
const tickInterval = time.Second

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

// mySeat 当前自己的座位，观战为 -1
func (m *Model) mySeat() int {
	return m.game.MySeat
}

// resolveMySeat 从快照里定位自己的座位。
// 对局中只有自己的座位带手牌；等待阶段按昵称匹配（换座后座位号会变）
func (m *Model) resolveMySeat() {
	players := m.game.Snapshot.Players
	for _, p := range players {
		if p.Hand != nil {
			m.game.MySeat = p.Seat
			return
		}
	}
	for _, p := range players {
		if !p.IsBot && p.Name == m.net.PlayerName {
			m.game.MySeat = p.Seat
			return
		}
	}
}
