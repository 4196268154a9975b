package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/palemoky/six-poker/internal/protocol"
	"github.com/palemoky/six-poker/internal/protocol/codec"
	"github.com/palemoky/six-poker/internal/sound"
)

// Update 处理输入和服务器消息
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case connectedMsg:
		m.screen = screenLobby
		return m, m.listenCmd()

	case connFailedMsg:
		m.err = "连接服务器失败: " + msg.err.Error()
		return m, nil

	case connClosedMsg:
		m.err = "与服务器的连接已断开"
		m.screen = screenLobby
		return m, nil

	case tickMsg:
		// 出牌倒计时每秒刷新一次
		return m, tickCmd()

	case serverMsg:
		m.applyServerMessage(msg.msg)
		return m, m.listenCmd()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

// applyServerMessage 套用一条服务器消息到本地状态
func (m *Model) applyServerMessage(msg *protocol.Message) {
	switch msg.Type {
	case protocol.MsgRoomCreated:
		if p, err := codec.DecodePayload[protocol.RoomCreatedPayload](msg); err == nil {
			m.game.Reset()
			m.game.MySeat = p.Seat
			m.game.RoomCode = p.RoomCode
			m.info = "房间 " + p.RoomCode + " 已创建，密码 " + p.Password
			m.screen = screenTable
		}

	case protocol.MsgRoomJoined:
		if p, err := codec.DecodePayload[protocol.RoomJoinedPayload](msg); err == nil {
			m.game.Reset()
			m.game.MySeat = p.Seat
			m.game.RoomCode = p.RoomCode
			if p.IsSpectator {
				m.info = "对局进行中，进入观战"
			} else {
				m.info = ""
			}
			m.err = ""
			m.screen = screenTable
		}

	case protocol.MsgRoomState:
		if p, err := codec.DecodePayload[protocol.RoomStatePayload](msg); err == nil {
			m.game.ApplyRoomState(p)
			m.resolveMySeat()
			m.clampCursor()
			m.playStateSounds()
		}

	case protocol.MsgPlayerJoined:
		if p, err := codec.DecodePayload[protocol.PlayerJoinedPayload](msg); err == nil {
			m.info = p.PlayerName + " 加入了房间"
		}

	case protocol.MsgPlayerLeft:
		if p, err := codec.DecodePayload[protocol.PlayerLeftPayload](msg); err == nil {
			m.info = p.PlayerName + " 离开了房间"
		}

	case protocol.MsgPlayerOffline:
		if p, err := codec.DecodePayload[protocol.PlayerLeftPayload](msg); err == nil {
			m.info = p.PlayerName + " 掉线了，系统托管代打"
		}

	case protocol.MsgPlayerOnline:
		if p, err := codec.DecodePayload[protocol.PlayerJoinedPayload](msg); err == nil {
			m.info = p.PlayerName + " 回来了"
		}

	case protocol.MsgEmotePush:
		if p, err := codec.DecodePayload[protocol.EmotePushPayload](msg); err == nil {
			m.info = m.emoteLine(p)
			m.sound.Play(sound.EffectEmote)
		}

	case protocol.MsgLeaderboardResult:
		if p, err := codec.DecodePayload[protocol.LeaderboardResultPayload](msg); err == nil {
			m.leaderboard = p.Entries
			m.screen = screenLeaderboard
		}

	case protocol.MsgStatsResult:
		if p, err := codec.DecodePayload[protocol.StatsResultPayload](msg); err == nil {
			m.stats = p
			m.screen = screenStats
		}

	case protocol.MsgError:
		if p, err := codec.DecodePayload[protocol.ErrorPayload](msg); err == nil {
			m.err = p.Message
		}
	}
}

// playStateSounds 按状态变化触发音效
func (m *Model) playStateSounds() {
	status := m.game.Snapshot.Status

	if myTurn := m.game.IsMyTurn(); myTurn && !m.wasMyTurn {
		m.sound.Play(sound.EffectYourTurn)
		m.wasMyTurn = true
	} else if !myTurn {
		m.wasMyTurn = false
	}

	if status == "round_over" && m.lastStatus == "playing" {
		switch {
		case m.game.Snapshot.WinningTeam == "":
			m.sound.Play(sound.EffectDraw)
		case m.myTeam() == m.game.Snapshot.WinningTeam:
			m.sound.Play(sound.EffectWin)
		default:
			m.sound.Play(sound.EffectLose)
		}
	}
	if status == "playing" && m.lastStatus != "playing" {
		m.sound.Play(sound.EffectDeal)
	}
	m.lastStatus = status
}

// myTeam 自己的队伍，观战为空
func (m *Model) myTeam() string {
	seat := m.mySeat()
	if seat < 0 || seat >= len(m.game.Snapshot.Players) {
		return ""
	}
	return m.game.Snapshot.Players[seat].Team
}

func (m *Model) emoteLine(p protocol.EmotePushPayload) string {
	players := m.game.Snapshot.Players
	sender := "某人"
	if p.SenderSeat >= 0 && p.SenderSeat < len(players) {
		sender = players[p.SenderSeat].Name
	}
	if p.TargetSeat < 0 || p.TargetSeat >= len(players) {
		return sender + ": " + p.Content
	}
	return sender + " 对 " + players[p.TargetSeat].Name + ": " + p.Content
}

// handleKey 按界面分发按键
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		m.net.Close()
		return m, tea.Quit
	}

	switch m.screen {
	case screenLobby:
		return m.handleLobbyKey(msg)
	case screenJoinInput:
		return m.handleJoinInputKey(msg)
	case screenTable:
		return m.handleTableKey(msg)
	case screenLeaderboard, screenStats:
		m.screen = screenLobby
		return m, nil
	}
	return m, nil
}

func (m *Model) handleLobbyKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.err = ""
	switch msg.String() {
	case "1", "c":
		_ = m.net.CreateRoom("")
	case "2", "j":
		m.input.SetValue("")
		m.input.Placeholder = "房间号 密码"
		m.input.Focus()
		m.screen = screenJoinInput
	case "3", "l":
		_ = m.net.GetLeaderboard(0, 10)
	case "4", "s":
		_ = m.net.GetStats()
	case "q", "esc":
		m.net.Close()
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) handleJoinInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		fields := strings.Fields(m.input.Value())
		if len(fields) != 2 {
			m.err = "格式：房间号 密码（空格分隔）"
			return m, nil
		}
		_ = m.net.JoinRoom(fields[0], fields[1], "")
		return m, nil
	case tea.KeyEsc:
		m.screen = screenLobby
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleTableKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.game.Waiting {
		return m.handleWaitingKey(msg)
	}
	return m.handlePlayingKey(msg)
}

// handleWaitingKey 等待阶段：准备、换座、开局
func (m *Model) handleWaitingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.err = ""
	switch key := msg.String(); key {
	case "r":
		if m.isReady() {
			_ = m.net.CancelReady()
		} else {
			_ = m.net.Ready()
		}
	case "s":
		_ = m.net.StartGame()
	case "d":
		_ = m.net.DissolveRoom()
		m.leaveTable()
	case "0", "1", "2", "3", "4", "5":
		_ = m.net.SwapSeat(int(key[0] - '0'))
	case "q", "esc":
		_ = m.net.LeaveRoom()
		m.leaveTable()
	}
	return m, nil
}

// handlePlayingKey 对局中：选牌、出牌、过牌、托管
func (m *Model) handlePlayingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	hand := m.game.MyHand()

	switch msg.String() {
	case "left":
		if m.cursor > 0 {
			m.cursor--
		}
	case "right":
		if m.cursor < len(hand)-1 {
			m.cursor++
		}
	case " ":
		if m.cursor < len(hand) {
			id := hand[m.cursor].ID
			if m.selected[id] {
				delete(m.selected, id)
			} else {
				m.selected[id] = true
			}
		}
	case "enter":
		ids := m.selectedIDs()
		if len(ids) == 0 {
			m.err = "请先用空格选牌"
			return m, nil
		}
		m.err = ""
		_ = m.net.PlayCards(ids)
		m.sound.Play(sound.EffectPlay)
		m.selected = make(map[string]bool)
	case "p":
		m.err = ""
		_ = m.net.Pass()
		m.sound.Play(sound.EffectPass)
	case "h":
		_ = m.net.SetHosting(!m.isHosted())
	case "e":
		_ = m.net.SendEmote(-1, "👍")
	case "n":
		if m.game.Snapshot.Status == "round_over" {
			_ = m.net.NextRound()
		}
	case "q", "esc":
		_ = m.net.LeaveRoom()
		m.leaveTable()
	}
	return m, nil
}

// leaveTable 回到大厅并清空桌面状态
func (m *Model) leaveTable() {
	m.game.Reset()
	m.selected = make(map[string]bool)
	m.cursor = 0
	m.screen = screenLobby
}

// selectedIDs 按手牌顺序收集选中的牌
func (m *Model) selectedIDs() []string {
	var ids []string
	for _, c := range m.game.MyHand() {
		if m.selected[c.ID] {
			ids = append(ids, c.ID)
		}
	}
	return ids
}

// clampCursor 手牌变短后把光标拉回范围内
func (m *Model) clampCursor() {
	if n := len(m.game.MyHand()); m.cursor >= n && n > 0 {
		m.cursor = n - 1
	} else if n == 0 {
		m.cursor = 0
	}
}

func (m *Model) isReady() bool {
	seat := m.mySeat()
	return seat >= 0 && seat < len(m.game.Ready) && m.game.Ready[seat]
}

func (m *Model) isHosted() bool {
	seat := m.mySeat()
	players := m.game.Snapshot.Players
	return seat >= 0 && seat < len(players) && players[seat].IsAutoPlayed
}
