package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/palemoky/six-poker/internal/protocol"
)

// View 渲染当前界面
func (m *Model) View() string {
	var body string
	switch m.screen {
	case screenConnecting:
		body = m.connectingView()
	case screenLobby:
		body = m.lobbyView()
	case screenJoinInput:
		body = m.joinInputView()
	case screenTable:
		body = m.tableView()
	case screenLeaderboard:
		body = m.leaderboardView()
	case screenStats:
		body = m.statsView()
	}
	return docStyle.Render(body)
}

func (m *Model) connectingView() string {
	if m.err != "" {
		return errorStyle.Render(m.err)
	}
	return "🔌 正在连接服务器..."
}

func (m *Model) lobbyView() string {
	var sb strings.Builder

	sb.WriteString(titleStyle("🃏 砸六家"))
	sb.WriteString("\n\n")

	if m.net.PlayerName != "" {
		sb.WriteString(fmt.Sprintf("欢迎, %s!  延迟: %dms\n\n", m.net.PlayerName, m.net.GetLatency()))
	}

	sb.WriteString(boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		"请选择:",
		"",
		"  1. 创建房间",
		"  2. 加入房间",
		"  3. 排行榜",
		"  4. 我的战绩",
		"",
		dimStyle.Render("  q 退出"),
	)))
	sb.WriteString("\n")

	m.appendStatus(&sb)
	return sb.String()
}

func (m *Model) joinInputView() string {
	var sb strings.Builder
	sb.WriteString(titleStyle("加入房间"))
	sb.WriteString("\n\n")
	sb.WriteString(m.input.View())
	sb.WriteString("\n\n")
	sb.WriteString(dimStyle.Render("回车确认，Esc 返回"))
	m.appendStatus(&sb)
	return sb.String()
}

// tableView 牌桌：等待阶段显示座位和准备状态，对局中显示完整桌面
func (m *Model) tableView() string {
	if m.game.Waiting {
		return m.waitingView()
	}
	return m.gameView()
}

func (m *Model) waitingView() string {
	var sb strings.Builder
	sb.WriteString(titleStyle(fmt.Sprintf("房间 %s（等待开局）", m.game.RoomCode)))
	sb.WriteString("\n\n")

	for _, p := range m.game.Snapshot.Players {
		marker := "  "
		if p.Seat == m.mySeat() {
			marker = "▶ "
		}
		line := fmt.Sprintf("%s[%d] %s%s", marker, p.Seat, m.seatIcons(p), p.Name)
		if p.Seat < len(m.game.Ready) && m.game.Ready[p.Seat] && !p.IsBot {
			line += infoStyle.Render("  已准备")
		}
		sb.WriteString(teamStyle(p.Team).Render(line))
		sb.WriteString(dimStyle.Render(fmt.Sprintf("  (%s 队)", p.Team)))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	help := "r 准备/取消  0-5 换到电脑座位  q 离开"
	if m.game.IsHost() {
		help = "s 开局  d 解散房间  " + help
	}
	sb.WriteString(dimStyle.Render(help))

	m.appendStatus(&sb)
	return sb.String()
}

func (m *Model) gameView() string {
	var sb strings.Builder
	snap := m.game.Snapshot

	header := fmt.Sprintf("房间 %s  第 %d 局  A队 %d : %d B队",
		m.game.RoomCode, snap.CurrentRound, snap.TeamWins["A"], snap.TeamWins["B"])
	if snap.Draws > 0 {
		header += fmt.Sprintf("  平局 %d", snap.Draws)
	}
	sb.WriteString(titleStyle(header))
	sb.WriteString("\n\n")

	// 各座位
	for _, p := range snap.Players {
		sb.WriteString(m.seatLine(p))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	// 桌面上最近的出牌
	if last := m.game.LastPlayed(); last != nil {
		sb.WriteString(fmt.Sprintf("%s 出了: %s  %s\n",
			last.PlayerName, renderCards(last.Cards, -1, nil), dimStyle.Render(last.HandType)))
	} else if snap.Status == "playing" {
		sb.WriteString(dimStyle.Render("新一轮，自由出牌\n"))
	}
	sb.WriteString("\n")

	// 自己的手牌
	if hand := m.game.MyHand(); len(hand) > 0 {
		sb.WriteString("我的手牌:\n")
		sb.WriteString(renderCards(hand, m.cursor, m.selected))
		sb.WriteString("\n\n")
	}

	// 记牌器
	sb.WriteString(m.counterLine())
	sb.WriteString("\n")

	// 结算
	if snap.Status == "round_over" {
		sb.WriteString(m.roundOverLine())
		sb.WriteString("\n")
	}

	sb.WriteString(dimStyle.Render(m.gameHelp()))
	m.appendStatus(&sb)
	return sb.String()
}

func (m *Model) seatLine(p protocol.PlayerView) string {
	marker := "  "
	if p.Seat == m.game.Snapshot.CurrentTurn && m.game.Snapshot.Status == "playing" {
		marker = turnStyle.Render("▶ ")
	}

	var line string
	if p.Finished {
		head := ""
		if p.FinishOrder == 1 {
			head = HeadIcon + " "
		}
		line = fmt.Sprintf("[%d] %s%-8s %s队 %s第%d个出完", p.Seat, m.seatIcons(p), p.Name, p.Team, head, p.FinishOrder)
	} else {
		line = fmt.Sprintf("[%d] %s%-8s %s队 剩 %2d 张", p.Seat, m.seatIcons(p), p.Name, p.Team, p.CardCount)
	}
	if p.Seat == m.game.Snapshot.CurrentTurn && m.game.Snapshot.Status == "playing" && m.game.Snapshot.TurnTimeLeft > 0 {
		line += dimStyle.Render(fmt.Sprintf("  ⏱ %ds", m.game.Snapshot.TurnTimeLeft))
	}
	return marker + teamStyle(p.Team).Render(line)
}

// seatIcons 座位状态角标
func (m *Model) seatIcons(p protocol.PlayerView) string {
	var icons string
	if p.Seat == m.game.HostSeat {
		icons += HostIcon
	}
	if p.IsBot {
		icons += BotIcon
	} else if !p.IsConnected {
		icons += OfflineIcon
	} else if p.IsAutoPlayed {
		icons += HostedIcon
	}
	if icons != "" {
		icons += " "
	}
	return icons
}

// counterLine 记牌器：剩余混牌与大牌
func (m *Model) counterLine() string {
	cc := m.game.Counter
	var parts []string
	for _, rank := range []string{"BJ", "SJ", "3", "2", "A", "K"} {
		parts = append(parts, fmt.Sprintf("%s×%d", rank, cc.Remaining(rank)))
	}
	return dimStyle.Render(fmt.Sprintf("记牌器  混牌剩 %d | %s", cc.WildsRemaining(), strings.Join(parts, " ")))
}

func (m *Model) roundOverLine() string {
	snap := m.game.Snapshot
	if snap.WinningTeam == "" {
		return infoStyle.Render("本局平局（头游队保平）")
	}
	if snap.WinningTeam == m.myTeam() {
		return infoStyle.Render(fmt.Sprintf("🎉 %s 队获胜！", snap.WinningTeam))
	}
	return errorStyle.Render(fmt.Sprintf("%s 队获胜", snap.WinningTeam))
}

func (m *Model) gameHelp() string {
	if m.game.Snapshot.Status == "round_over" {
		if m.game.IsHost() {
			return "n 下一局  q 离开"
		}
		return "等待房主开下一局  q 离开"
	}
	if m.game.IsMyTurn() {
		return "←/→ 移动  空格 选牌  回车 出牌  p 过  h 托管  e 表情  q 离开"
	}
	return "等待其他玩家...  h 托管  e 表情  q 离开"
}

// renderCards 渲染一排牌。cursor 为光标位置（-1 不显示），selected 为选中的牌 ID
func renderCards(cards []protocol.CardView, cursor int, selected map[string]bool) string {
	if len(cards) == 0 {
		return dimStyle.Render("(无)")
	}

	var top, mid, bottom []string
	for i, c := range cards {
		style := blackCardStyle
		if c.IsWild {
			style = wildCardStyle
		} else if c.IsRed {
			style = redCardStyle
		}

		face := c.Suit + c.Rank
		cell := style.Render(fmt.Sprintf(" %-3s ", face))

		markTop, markBottom := "     ", "     "
		if selected != nil && selected[c.ID] {
			markTop = selectedStyle.Render("  ◆  ")
		}
		if i == cursor {
			markBottom = selectedStyle.Render("  ▲  ")
		}
		top = append(top, markTop)
		mid = append(mid, cell)
		bottom = append(bottom, markBottom)
	}

	if cursor < 0 {
		return strings.Join(mid, " ")
	}
	return strings.Join(top, " ") + "\n" + strings.Join(mid, " ") + "\n" + strings.Join(bottom, " ")
}

func (m *Model) leaderboardView() string {
	var sb strings.Builder
	sb.WriteString(titleStyle("🏆 排行榜 TOP 10"))
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("─", 50) + "\n")
	sb.WriteString(fmt.Sprintf("%-4s %-12s %8s %6s %8s\n", "排名", "玩家", "积分", "胜场", "胜率"))
	sb.WriteString(strings.Repeat("─", 50) + "\n")

	for _, e := range m.leaderboard {
		rankIcon := fmt.Sprintf("%2d.", e.Rank)
		switch e.Rank {
		case 1:
			rankIcon = "🥇"
		case 2:
			rankIcon = "🥈"
		case 3:
			rankIcon = "🥉"
		}
		sb.WriteString(fmt.Sprintf("%-4s %-12s %8d %6d %7.1f%%\n",
			rankIcon, truncateName(e.PlayerName, 10), e.Score, e.TeamWins, e.WinRate))
	}

	sb.WriteString("\n")
	sb.WriteString(dimStyle.Render("按任意键返回"))
	return sb.String()
}

func (m *Model) statsView() string {
	s := m.stats
	var sb strings.Builder
	sb.WriteString(titleStyle("📊 我的战绩"))
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("─", 40) + "\n")

	winRate := 0.0
	if s.TotalRounds > 0 {
		winRate = float64(s.TeamWins) / float64(s.TotalRounds) * 100
	}
	sb.WriteString(fmt.Sprintf("积分: %d\n", s.Score))
	sb.WriteString(fmt.Sprintf("总局数: %d  胜: %d  胜率: %.1f%%\n", s.TotalRounds, s.TeamWins, winRate))
	sb.WriteString(fmt.Sprintf("头游次数: %d\n", s.HeadFinish))

	sb.WriteString("\n")
	sb.WriteString(dimStyle.Render("按任意键返回"))
	return sb.String()
}

// appendStatus 追加错误和提示行
func (m *Model) appendStatus(sb *strings.Builder) {
	if m.err != "" {
		sb.WriteString("\n")
		sb.WriteString(errorStyle.Render(m.err))
	}
	if m.info != "" {
		sb.WriteString("\n")
		sb.WriteString(infoStyle.Render(m.info))
	}
}

// truncateName 按显示宽度截断昵称
func truncateName(name string, maxLen int) string {
	runes := []rune(name)
	if len(runes) <= maxLen {
		return name
	}
	return string(runes[:maxLen-1]) + "…"
}
