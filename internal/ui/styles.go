package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// 座位图标
const (
	HostIcon    = "👑"
	BotIcon     = "🤖"
	OfflineIcon = "🔌"
	HostedIcon  = "💤"
	HeadIcon    = "🥇"
)

// Lipgloss 样式
var (
	docStyle   = lipgloss.NewStyle().Margin(1, 2)
	titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("228")).Bold(true).Render
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder())
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	infoStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	redCardStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#CD0000")).Background(lipgloss.Color("#FFFFFF")).Bold(true)
	blackCardStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("#FFFFFF")).Bold(true)
	wildCardStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8860B")).Background(lipgloss.Color("#FFFFD0")).Bold(true)

	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("228")).Bold(true)
	turnStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	teamAStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	teamBStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("213"))
)

// teamStyle 按队伍取样式
func teamStyle(team string) lipgloss.Style {
	if team == "A" {
		return teamAStyle
	}
	return teamBStyle
}
