package logger

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime/debug"
	"time"
)

// 日志文件超过该大小后轮转
const maxLogSize = 10 * 1024 * 1024

var (
	debugLog *os.File
	logPath  string
)

// Init 初始化文件日志。TUI 占用终端时标准库日志全部落到文件
func Init() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("获取用户目录失败: %w", err)
	}

	logDir := filepath.Join(homeDir, ".six-poker")
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return fmt.Errorf("创建日志目录失败: %w", err)
	}

	logPath = filepath.Join(logDir, "debug.log")
	debugLog, err = os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("打开日志文件失败: %w", err)
	}

	if info, err := debugLog.Stat(); err == nil && info.Size() > maxLogSize {
		_ = debugLog.Close()
		backupPath := filepath.Join(logDir, fmt.Sprintf("debug.log.%d", time.Now().Unix()))
		_ = os.Rename(logPath, backupPath)
		debugLog, err = os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("轮转日志文件失败: %w", err)
		}
	}

	log.SetOutput(debugLog)
	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds | log.Lshortfile)

	LogInfo("日志已初始化: %s", logPath)
	return nil
}

// Close 关闭日志文件
func Close() {
	if debugLog != nil {
		_ = debugLog.Close()
	}
}

// LogInfo 记录一条 info 日志
func LogInfo(format string, args ...any) {
	log.Printf("[INFO] "+format, args...)
}

// LogError 记录一条 error 日志
func LogError(format string, args ...any) {
	log.Printf("[ERROR] "+format, args...)
}

// LogPanic 记录 panic 和堆栈
func LogPanic(r any) {
	log.Printf("[PANIC] %v\n%s", r, debug.Stack())
}

// GetLogPath 当前日志文件路径
func GetLogPath() string {
	return logPath
}
