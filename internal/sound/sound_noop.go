//go:build ci

package sound

// 游戏音效名，与正常构建保持一致
const (
	EffectDeal     = "deal"
	EffectPlay     = "play"
	EffectPass     = "pass"
	EffectYourTurn = "your_turn"
	EffectWin      = "win"
	EffectLose     = "lose"
	EffectDraw     = "draw"
	EffectEmote    = "emote"
)

// SoundManager CI 构建下的空实现
type SoundManager struct{}

func NewSoundManager() *SoundManager {
	return &SoundManager{}
}

func (sm *SoundManager) Init() error {
	return nil
}

func (sm *SoundManager) Play(name string) {
	// No-op
}

func (sm *SoundManager) Close() {
	// No-op
}
