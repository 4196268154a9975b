package main

import (
	"flag"
	"fmt"
	"log"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/palemoky/six-poker/internal/logger"
	"github.com/palemoky/six-poker/internal/ui"
)

func main() {
	serverAddr := flag.String("server", "localhost:1786", "服务器地址")
	flag.Parse()

	// 终端被 TUI 占用，日志落到文件
	if err := logger.Init(); err == nil {
		defer logger.Close()
	}

	serverURL := fmt.Sprintf("ws://%s/ws", *serverAddr)
	model := ui.NewModel(serverURL)

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Fatalf("启动客户端时出错: %v", err)
	}
}
