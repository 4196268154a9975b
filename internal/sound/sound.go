//go:build !ci

package sound

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/wav"
)

// 游戏音效名，对应 assets/sounds 下的文件名（不含扩展名）
const (
	EffectDeal     = "deal"      // 发牌
	EffectPlay     = "play"      // 出牌
	EffectPass     = "pass"      // 过牌
	EffectYourTurn = "your_turn" // 轮到自己
	EffectWin      = "win"       // 本局获胜
	EffectLose     = "lose"      // 本局落败
	EffectDraw     = "draw"      // 平局
	EffectEmote    = "emote"     // 收到表情
)

// SoundManager 音效管理器，启动时把音效文件解码进内存
type SoundManager struct {
	buffers map[string]*beep.Buffer
	enabled bool
}

func NewSoundManager() *SoundManager {
	return &SoundManager{
		buffers: make(map[string]*beep.Buffer),
		enabled: false,
	}
}

// Init 初始化扬声器并加载音效。音效目录不存在不算错误
func (sm *SoundManager) Init() error {
	sampleRate := beep.SampleRate(44100)
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return fmt.Errorf("初始化扬声器失败: %w", err)
	}
	sm.enabled = true

	return sm.loadSoundFiles(sampleRate)
}

// loadSoundFiles 加载 assets/sounds 下的全部音效文件
func (sm *SoundManager) loadSoundFiles(sampleRate beep.SampleRate) error {
	soundDir := "assets/sounds"
	files, err := os.ReadDir(soundDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("读取音效目录失败: %w", err)
	}

	for _, file := range files {
		if file.IsDir() {
			continue
		}
		name := file.Name()
		ext := strings.ToLower(filepath.Ext(name))
		baseName := strings.TrimSuffix(name, filepath.Ext(name))

		if ext != ".mp3" && ext != ".wav" {
			continue
		}

		// 单个文件坏了不影响其他音效
		_ = sm.loadSoundFile(soundDir, name, baseName, ext, sampleRate)
	}

	return nil
}

// loadSoundFile 解码单个音效文件到内存缓冲
func (sm *SoundManager) loadSoundFile(soundDir, name, baseName, ext string, sampleRate beep.SampleRate) error {
	path := filepath.Join(soundDir, name)
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	var streamer beep.StreamSeekCloser
	var format beep.Format

	switch ext {
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	case ".wav":
		streamer, format, err = wav.Decode(f)
	}
	if err != nil {
		return err
	}
	defer func() { _ = streamer.Close() }()

	var resampled beep.Streamer = streamer
	if format.SampleRate != sampleRate {
		resampled = beep.Resample(4, format.SampleRate, sampleRate, streamer)
	}

	buffer := beep.NewBuffer(beep.Format{
		SampleRate:  sampleRate,
		NumChannels: 2,
		Precision:   4,
	})
	buffer.Append(resampled)

	sm.buffers[baseName] = buffer
	return nil
}

// Play 播放一个音效。未加载的音效静默忽略
func (sm *SoundManager) Play(name string) {
	if !sm.enabled {
		return
	}

	buffer, ok := sm.buffers[name]
	if !ok {
		return
	}
	speaker.Play(buffer.Streamer(0, buffer.Len()))
}

func (sm *SoundManager) Close() {
	sm.enabled = false
}
