package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/palemoky/six-poker/internal/apperrors"
	"github.com/palemoky/six-poker/internal/game/ai"
	"github.com/palemoky/six-poker/internal/game/card"
	"github.com/palemoky/six-poker/internal/game/rule"
)

// Team 队伍标识
type Team string

const (
	TeamA Team = "A"
	TeamB Team = "B"

	// SeatCount 固定六个座位
	SeatCount = 6

	// HandSize 每人发 9 张，6 × 9 = 54 正好一副牌
	HandSize = 9
)

// TeamForSeat 座位到队伍的固定映射：0、2、4 为 A 队，1、3、5 为 B 队
func TeamForSeat(seat int) Team {
	if seat%2 == 0 {
		return TeamA
	}
	return TeamB
}

// Status 对局状态
type Status int

const (
	StatusWaiting Status = iota
	StatusPlaying
	StatusRoundOver
)

var statusNames = map[Status]string{
	StatusWaiting:   "waiting",
	StatusPlaying:   "playing",
	StatusRoundOver: "round_over",
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "unknown"
}

// Player 对局中的一个座位
type Player struct {
	Seat         int
	Name         string
	Team         Team
	Hand         []card.Card
	IsBot        bool
	IsConnected  bool
	IsAutoPlayed bool // 超时被系统托管，与 IsBot 无关
	Finished     bool
	FinishOrder  int // 第几个出完，1 起计，未出完为 0
}

// PlayedHand 一次出牌的不可变快照。
// 名字和队伍在出牌时落地，之后改名换座不会影响历史记录。
type PlayedHand struct {
	Seq        int
	PlayerSeat int
	PlayerName string
	PlayerTeam Team
	Cards      []card.Card
	Type       rule.HandType
	MainValue  int
	PlayedAt   time.Time
}

// Timings 对局相关的时间参数，零值表示关闭对应的计时器
type Timings struct {
	TurnTimeout   time.Duration // 正常回合倒计时
	HostedTimeout time.Duration // 被托管后的短倒计时
	BotDelay      time.Duration // 电脑出牌前的思考延迟
}

// Session 一桌六人对局，所有变更都在 mu 之内串行执行。
// 人类请求、超时回调、电脑出牌抢同一把锁，先到先得，
// 输的一方拿到的是推进后的状态，通常会被按非本回合拒绝。
type Session struct {
	mu sync.Mutex

	players [SeatCount]*Player
	status  Status

	currentTurn int
	handHistory []PlayedHand // 当前未结算一轮的全部出牌，旧的在前
	passCount   int          // 自上次出牌以来的连续过牌数
	playSeq     int

	winners       []int // 按出完顺序记录座位
	currentRound  int
	teamWins      map[Team]int
	draws         int
	headFinisher  int  // 头游座位，-1 表示还没有
	winningTeam   Team // 本轮胜队，平局为空
	roundComplete bool // 本局是否正常打完（中止的不算）

	turnStats map[int]ai.TurnStats

	timings      Timings
	turnTimer    *time.Timer
	turnDeadline time.Time
	turnSeq      int // 回合代数，旧计时器回调据此失效

	evaluator *ai.Evaluator
	onChange  func() // 每次被接受的变更之后触发，用于向观察者推送

	logs []string
}

// Option 会话可选配置
type Option func(*Session)

// WithTimings 设置时间参数
func WithTimings(t Timings) Option {
	return func(s *Session) { s.timings = t }
}

// WithOnChange 设置状态变更回调
func WithOnChange(fn func()) Option {
	return func(s *Session) { s.onChange = fn }
}

// NewSession 创建一桌对局。names 与 bots 按座位对应
func NewSession(names [SeatCount]string, bots [SeatCount]bool, evaluator *ai.Evaluator, opts ...Option) *Session {
	s := &Session{
		status:       StatusWaiting,
		teamWins:     map[Team]int{TeamA: 0, TeamB: 0},
		headFinisher: -1,
		turnStats:    make(map[int]ai.TurnStats),
		evaluator:    evaluator,
	}
	for i := range s.players {
		s.players[i] = &Player{
			Seat:        i,
			Name:        names[i],
			Team:        TeamForSeat(i),
			IsBot:       bots[i],
			IsConnected: !bots[i],
		}
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// StartRound 洗牌发牌并进入出牌阶段。
// 每人 9 张，按强度降序持牌，红桃 4 的持有者先手（满副牌必有，兜底 0 号位）。
func (s *Session) StartRound() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.startRoundLocked()
	s.notifyChanged()
	s.afterActionLocked()
}

func (s *Session) startRoundLocked() {
	deck := card.NewDeck()
	deck.Shuffle()

	starter := 0
	for i, p := range s.players {
		hand := make([]card.Card, HandSize)
		copy(hand, deck[i*HandSize:(i+1)*HandSize])
		card.SortDesc(hand)
		p.Hand = hand
		p.Finished = false
		p.FinishOrder = 0
		if card.ContainsRank(hand, card.Heart, card.Rank4) {
			starter = i
		}
	}

	s.status = StatusPlaying
	s.currentTurn = starter
	s.handHistory = nil
	s.passCount = 0
	s.winners = nil
	s.headFinisher = -1
	s.winningTeam = ""
	s.roundComplete = false
	s.currentRound++
	s.turnStats = make(map[int]ai.TurnStats)
	s.appendLog(fmt.Sprintf("第 %d 局开始，%s 持有红桃4先手", s.currentRound, s.players[starter].Name))
	s.beginTurnLocked()
}

// StartNextRound 重新发牌开下一局，累计的队伍胜场保留
func (s *Session) StartNextRound() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != StatusRoundOver {
		return fmt.Errorf("当前对局尚未结束")
	}
	s.startRoundLocked()
	s.notifyChanged()
	s.afterActionLocked()
	return nil
}

// Status 返回当前对局状态
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// CurrentTurn 返回当前回合座位
func (s *Session) CurrentTurn() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentTurn
}

// Round 返回当前局数
func (s *Session) Round() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentRound
}

// TeamWins 返回累计队伍胜场
func (s *Session) TeamWins() map[Team]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return map[Team]int{TeamA: s.teamWins[TeamA], TeamB: s.teamWins[TeamB]}
}

// Draws 返回累计平局数
func (s *Session) Draws() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draws
}

// RoundResult 一局正常结束后的结算信息。
// ok 为 false 表示本局尚未打完或被中止；平局时 winner 为空，draw 为 true
type RoundResult struct {
	Round        int
	Winner       Team
	Draw         bool
	HeadFinisher int
}

// Result 返回最近一局的结算结果，只对正常打完的一局有效
func (s *Session) Result() (RoundResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != StatusRoundOver || !s.roundComplete {
		return RoundResult{}, false
	}
	return RoundResult{
		Round:        s.currentRound,
		Winner:       s.winningTeam,
		Draw:         s.winningTeam == "",
		HeadFinisher: s.headFinisher,
	}, true
}

// SetSeat 重新指派一个座位：真人入座或还给电脑。
// 出牌阶段座位归属不可变，此时入座走观战
func (s *Session) SetSeat(seat int, name string, isBot bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status == StatusPlaying {
		return apperrors.ErrGameStarted
	}
	p := s.players[seat]
	p.Name = name
	p.IsBot = isBot
	p.IsConnected = !isBot
	p.IsAutoPlayed = false
	s.notifyChanged()
	return nil
}

// AbortRound 强制中止进行中的一局，不计任何队伍的胜负
func (s *Session) AbortRound() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != StatusPlaying {
		return
	}
	s.status = StatusRoundOver
	s.stopTurnTimerLocked()
	s.appendLog("本局被中止，不计胜负")
	s.notifyChanged()
}

// activeCount 尚未出完牌的人数
func (s *Session) activeCount() int {
	count := 0
	for _, p := range s.players {
		if !p.Finished {
			count++
		}
	}
	return count
}

// appendLog 追加一条房间日志，只保留最近 50 条
func (s *Session) appendLog(line string) {
	s.logs = append(s.logs, line)
	if len(s.logs) > 50 {
		s.logs = s.logs[len(s.logs)-50:]
	}
}

func (s *Session) notifyChanged() {
	if s.onChange != nil {
		s.onChange()
	}
}
