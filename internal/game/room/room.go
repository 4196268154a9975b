package room

import (
	"fmt"
	"sync"
	"time"

	"github.com/palemoky/six-poker/internal/game/ai"
	"github.com/palemoky/six-poker/internal/game/session"
	"github.com/palemoky/six-poker/internal/protocol"
	"github.com/palemoky/six-poker/internal/protocol/codec"
	"github.com/palemoky/six-poker/internal/storage"
	"github.com/palemoky/six-poker/internal/types"
)

const (
	roomCodeLength = 4            // 房间号长度
	roomPassLength = 4            // 房间密码长度
	roomCodeChars  = "0123456789" // 房间号字符集

	maxEmotes = 30 // 房间内保留的最近表情条数
)

// Emote 一条互动表情
type Emote struct {
	SenderSeat int
	TargetSeat int // -1 表示发给全桌
	Content    string
	SentAt     time.Time
}

// RoundResult 一名真人玩家的单局结算，用于排行榜入账
type RoundResult struct {
	PlayerID string
	Name     string
	Outcome  storage.RoundOutcome
	IsHead   bool
}

// Room 一张六人桌。真人不满的座位由电脑补齐，
// 对局内的规则全部由 session 负责，这里只管人、座位和广播
type Room struct {
	Code      string
	Password  string
	CreatedAt time.Time

	mu         sync.RWMutex
	state      RoomState
	hostSeat   int
	names      [session.SeatCount]string
	bots       [session.SeatCount]bool
	clients    [session.SeatCount]types.ClientInterface
	ready      [session.SeatCount]bool
	spectators map[string]types.ClientInterface
	emotes     []Emote

	session *session.Session

	onRoundOver   func(*Room, []RoundResult)
	recordedRound int // 已入账的最后一局局号，防止重复结算

	stateCh  chan struct{}
	stopCh   chan struct{}
	stopOnce sync.Once
}

func botName(seat int) string {
	return fmt.Sprintf("电脑%d", seat)
}

// NewRoom 创建房间，创建者坐 0 号位并担任房主，其余座位由电脑补齐
func NewRoom(code, password string, host types.ClientInterface, evaluator *ai.Evaluator, timings session.Timings, onRoundOver func(*Room, []RoundResult)) *Room {
	r := &Room{
		Code:        code,
		Password:    password,
		CreatedAt:   time.Now(),
		state:       RoomStateWaiting,
		hostSeat:    0,
		spectators:  make(map[string]types.ClientInterface),
		onRoundOver: onRoundOver,
		stateCh:     make(chan struct{}, 1),
		stopCh:      make(chan struct{}),
	}

	var names [session.SeatCount]string
	var bots [session.SeatCount]bool
	names[0] = host.GetName()
	r.clients[0] = host
	for i := 1; i < session.SeatCount; i++ {
		names[i] = botName(i)
		bots[i] = true
	}
	r.names = names
	r.bots = bots

	r.session = session.NewSession(names, bots, evaluator,
		session.WithTimings(timings),
		session.WithOnChange(r.signalState),
	)

	go r.pushLoop()
	return r
}

// Game 房间承载的对局
func (r *Room) Game() *session.Session {
	return r.session
}

// State 当前房间状态
func (r *Room) State() RoomState {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state
}

// HostSeat 当前房主座位
func (r *Room) HostSeat() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.hostSeat
}

// SeatOf 查找客户端的座位，观战或不在房间返回 -1
func (r *Room) SeatOf(clientID string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.seatOfLocked(clientID)
}

func (r *Room) seatOfLocked(clientID string) int {
	for seat, c := range r.clients {
		if c != nil && c.GetID() == clientID {
			return seat
		}
	}
	return -1
}

// humanCountLocked 在座的真人数量
func (r *Room) humanCountLocked() int {
	count := 0
	for _, c := range r.clients {
		if c != nil {
			count++
		}
	}
	return count
}

// Close 停止房间的推送协程
func (r *Room) Close() {
	r.stopOnce.Do(func() { close(r.stopCh) })
}

// signalState 请求一次状态推送。非阻塞，连续变更会被合并
func (r *Room) signalState() {
	select {
	case r.stateCh <- struct{}{}:
	default:
	}
}

// pushLoop 串行消费状态推送请求
func (r *Room) pushLoop() {
	for {
		select {
		case <-r.stopCh:
			return
		case <-r.stateCh:
			r.BroadcastState()
			r.maybeSettleRound()
		}
	}
}

// maybeSettleRound 一局正常打完后做一次性结算回调。
// 同一局只会入账一次，被中止的对局不会产生结算
func (r *Room) maybeSettleRound() {
	res, ok := r.session.Result()
	if !ok || r.onRoundOver == nil {
		return
	}

	r.mu.Lock()
	if r.recordedRound >= res.Round {
		r.mu.Unlock()
		return
	}
	r.recordedRound = res.Round

	results := make([]RoundResult, 0, session.SeatCount)
	for seat, c := range r.clients {
		if c == nil || r.bots[seat] {
			continue
		}
		outcome := storage.OutcomeDraw
		if !res.Draw {
			if session.TeamForSeat(seat) == res.Winner {
				outcome = storage.OutcomeWin
			} else {
				outcome = storage.OutcomeLoss
			}
		}
		results = append(results, RoundResult{
			PlayerID: c.GetID(),
			Name:     r.names[seat],
			Outcome:  outcome,
			IsHead:   seat == res.HeadFinisher,
		})
	}
	r.mu.Unlock()

	if len(results) > 0 {
		r.onRoundOver(r, results)
	}
}

// Broadcast 向全部在座真人和观战者发送消息
func (r *Room) Broadcast(msg *protocol.Message) {
	r.mu.RLock()
	targets := r.allClientsLocked()
	r.mu.RUnlock()

	for _, c := range targets {
		c.SendMessage(msg)
	}
}

// BroadcastExcept 向除指定客户端外的所有人发送消息
func (r *Room) BroadcastExcept(clientID string, msg *protocol.Message) {
	r.mu.RLock()
	targets := r.allClientsLocked()
	r.mu.RUnlock()

	for _, c := range targets {
		if c.GetID() != clientID {
			c.SendMessage(msg)
		}
	}
}

func (r *Room) allClientsLocked() []types.ClientInterface {
	targets := make([]types.ClientInterface, 0, session.SeatCount+len(r.spectators))
	for _, c := range r.clients {
		if c != nil {
			targets = append(targets, c)
		}
	}
	for _, c := range r.spectators {
		targets = append(targets, c)
	}
	return targets
}

// recentEmotesLocked 最近的互动表情，按发送顺序
func (r *Room) recentEmotesLocked() []protocol.EmotePushPayload {
	if len(r.emotes) == 0 {
		return nil
	}
	views := make([]protocol.EmotePushPayload, len(r.emotes))
	for i, e := range r.emotes {
		views[i] = protocol.EmotePushPayload{
			SenderSeat: e.SenderSeat,
			TargetSeat: e.TargetSeat,
			Content:    e.Content,
			Timestamp:  e.SentAt.UnixMilli(),
		}
	}
	return views
}

// BroadcastState 按观察者视角把当前状态推给每个人。
// 手牌脱敏由 session 的快照层保证
func (r *Room) BroadcastState() {
	r.mu.RLock()
	code := r.Code
	host := r.hostSeat
	waiting := r.state == RoomStateWaiting
	ready := r.ready
	emotes := r.recentEmotesLocked()
	clients := r.clients
	spectators := make([]types.ClientInterface, 0, len(r.spectators))
	for _, c := range r.spectators {
		spectators = append(spectators, c)
	}
	r.mu.RUnlock()

	for seat, c := range clients {
		if c == nil {
			continue
		}
		c.SendMessage(codec.MustNewMessage(protocol.MsgRoomState, protocol.RoomStatePayload{
			RoomCode: code,
			HostSeat: host,
			Waiting:  waiting,
			Ready:    ready[:],
			Emotes:   emotes,
			Game:     r.session.SnapshotFor(seat),
		}))
	}

	if len(spectators) > 0 {
		msg := codec.MustNewMessage(protocol.MsgRoomState, protocol.RoomStatePayload{
			RoomCode: code,
			HostSeat: host,
			Waiting:  waiting,
			Ready:    ready[:],
			Emotes:   emotes,
			Game:     r.session.SnapshotFor(-1),
		})
		for _, c := range spectators {
			c.SendMessage(msg)
		}
	}
}

// StateFor 单个观察者视角的房间状态（拉取模式用）
func (r *Room) StateFor(clientID string) protocol.RoomStatePayload {
	r.mu.RLock()
	seat := r.seatOfLocked(clientID)
	payload := protocol.RoomStatePayload{
		RoomCode: r.Code,
		HostSeat: r.hostSeat,
		Waiting:  r.state == RoomStateWaiting,
		Ready:    append([]bool(nil), r.ready[:]...),
		Emotes:   r.recentEmotesLocked(),
	}
	r.mu.RUnlock()

	payload.Game = r.session.SnapshotFor(seat)
	return payload
}
