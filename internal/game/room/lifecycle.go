package room

import (
	"time"

	"github.com/palemoky/six-poker/internal/apperrors"
	"github.com/palemoky/six-poker/internal/game/session"
	"github.com/palemoky/six-poker/internal/protocol"
	"github.com/palemoky/six-poker/internal/protocol/codec"
	"github.com/palemoky/six-poker/internal/types"
)

// Join 加入房间。等待阶段占一个电脑座位，满员或对局已开始转观战
func (r *Room) Join(client types.ClientInterface) (seat int, spectator bool, err error) {
	r.mu.Lock()

	if r.state == RoomStateWaiting {
		for s := 0; s < session.SeatCount; s++ {
			if r.bots[s] {
				r.bots[s] = false
				r.names[s] = client.GetName()
				r.clients[s] = client
				r.ready[s] = false
				r.mu.Unlock()

				// 座位指派同步进 session，失败说明状态已变，回滚为观战
				if err := r.session.SetSeat(s, client.GetName(), false); err != nil {
					r.mu.Lock()
					r.bots[s] = true
					r.names[s] = botName(s)
					r.clients[s] = nil
					r.spectators[client.GetID()] = client
					r.mu.Unlock()
					return -1, true, nil
				}

				r.BroadcastExcept(client.GetID(), codec.MustNewMessage(protocol.MsgPlayerJoined, protocol.PlayerJoinedPayload{
					Seat:       s,
					PlayerName: client.GetName(),
				}))
				r.signalState()
				return s, false, nil
			}
		}
		r.mu.Unlock()
		return -1, false, apperrors.ErrRoomFull
	}

	r.spectators[client.GetID()] = client
	r.mu.Unlock()
	r.signalState()
	return -1, true, nil
}

// Leave 离开房间。等待阶段座位还给电脑；对局中座位转系统托管，
// 房主离场会中止当前一局。返回值表示房间里是否还有真人
func (r *Room) Leave(client types.ClientInterface) (stillOccupied bool) {
	id := client.GetID()

	r.mu.Lock()
	if _, ok := r.spectators[id]; ok {
		delete(r.spectators, id)
		r.mu.Unlock()
		return true
	}

	seat := r.seatOfLocked(id)
	if seat < 0 {
		humans := r.humanCountLocked()
		r.mu.Unlock()
		return humans > 0
	}

	name := r.names[seat]
	r.clients[seat] = nil
	r.ready[seat] = false
	wasHost := seat == r.hostSeat
	playing := r.state == RoomStatePlaying

	if playing {
		if wasHost {
			r.session.AbortRound()
		}
		// 座位保留给断线重连，由系统托管代打
		r.session.SetConnected(seat, false)
	} else {
		r.bots[seat] = true
		r.names[seat] = botName(seat)
		_ = r.session.SetSeat(seat, botName(seat), true)
	}

	if wasHost {
		r.migrateHostLocked()
	}
	humans := r.humanCountLocked()
	r.mu.Unlock()

	r.Broadcast(codec.MustNewMessage(protocol.MsgPlayerLeft, protocol.PlayerLeftPayload{
		Seat:       seat,
		PlayerName: name,
	}))
	r.signalState()
	return humans > 0
}

// migrateHostLocked 房主让位给座位号最小的真人
func (r *Room) migrateHostLocked() {
	for s, c := range r.clients {
		if c != nil {
			r.hostSeat = s
			return
		}
	}
}

// SwapSeat 等待阶段换到一个电脑座位
func (r *Room) SwapSeat(client types.ClientInterface, target int) error {
	if target < 0 || target >= session.SeatCount {
		return apperrors.ErrSeatTaken
	}

	r.mu.Lock()
	if r.state != RoomStateWaiting {
		r.mu.Unlock()
		return apperrors.ErrNotWaiting
	}
	seat := r.seatOfLocked(client.GetID())
	if seat < 0 {
		r.mu.Unlock()
		return apperrors.ErrNotInRoom
	}
	if !r.bots[target] {
		r.mu.Unlock()
		return apperrors.ErrSeatTaken
	}

	r.bots[target] = false
	r.names[target] = client.GetName()
	r.clients[target] = client
	r.ready[target] = r.ready[seat]

	r.bots[seat] = true
	r.names[seat] = botName(seat)
	r.clients[seat] = nil
	r.ready[seat] = false

	if r.hostSeat == seat {
		r.hostSeat = target
	}
	// 在锁内同步进 session，开局请求插不进花名册和对局之间
	_ = r.session.SetSeat(target, client.GetName(), false)
	_ = r.session.SetSeat(seat, botName(seat), true)
	r.mu.Unlock()

	r.signalState()
	return nil
}

// SetReady 设置准备状态
func (r *Room) SetReady(client types.ClientInterface, ready bool) error {
	r.mu.Lock()
	seat := r.seatOfLocked(client.GetID())
	if seat < 0 {
		r.mu.Unlock()
		return apperrors.ErrNotInRoom
	}
	if r.state != RoomStateWaiting {
		r.mu.Unlock()
		return apperrors.ErrNotWaiting
	}
	r.ready[seat] = ready
	r.mu.Unlock()

	r.signalState()
	return nil
}

// StartGame 房主开局。除房主外所有在座真人必须已准备
func (r *Room) StartGame(client types.ClientInterface) error {
	r.mu.Lock()
	seat := r.seatOfLocked(client.GetID())
	if seat < 0 {
		r.mu.Unlock()
		return apperrors.ErrNotInRoom
	}
	if seat != r.hostSeat {
		r.mu.Unlock()
		return apperrors.ErrNotHost
	}
	if r.state != RoomStateWaiting {
		r.mu.Unlock()
		return apperrors.ErrGameStarted
	}
	for s, c := range r.clients {
		if c != nil && s != r.hostSeat && !r.ready[s] {
			r.mu.Unlock()
			return apperrors.ErrNotReady
		}
	}
	r.state = RoomStatePlaying
	r.mu.Unlock()

	r.session.StartRound()
	return nil
}

// NextRound 房主开下一局
func (r *Room) NextRound(client types.ClientInterface) error {
	r.mu.RLock()
	seat := r.seatOfLocked(client.GetID())
	host := r.hostSeat
	r.mu.RUnlock()

	if seat < 0 {
		return apperrors.ErrNotInRoom
	}
	if seat != host {
		return apperrors.ErrNotHost
	}
	if err := r.session.StartNextRound(); err != nil {
		return apperrors.ErrNotFinished
	}
	return nil
}

// SendEmote 发送互动表情并广播。观战者和电脑座位不能发
func (r *Room) SendEmote(client types.ClientInterface, targetSeat int, content string) error {
	r.mu.Lock()
	seat := r.seatOfLocked(client.GetID())
	if seat < 0 {
		r.mu.Unlock()
		return apperrors.ErrNotInRoom
	}
	emote := Emote{
		SenderSeat: seat,
		TargetSeat: targetSeat,
		Content:    content,
		SentAt:     time.Now(),
	}
	r.emotes = append(r.emotes, emote)
	if len(r.emotes) > maxEmotes {
		r.emotes = r.emotes[len(r.emotes)-maxEmotes:]
	}
	r.mu.Unlock()

	r.Broadcast(codec.MustNewMessage(protocol.MsgEmotePush, protocol.EmotePushPayload{
		SenderSeat: emote.SenderSeat,
		TargetSeat: emote.TargetSeat,
		Content:    emote.Content,
		Timestamp:  emote.SentAt.UnixMilli(),
	}))
	return nil
}

// ReconnectPlayer 断线的玩家重新接管自己的座位
func (r *Room) ReconnectPlayer(oldID string, client types.ClientInterface) (seat int, err error) {
	r.mu.Lock()
	seat = -1
	for s, c := range r.clients {
		if c != nil && c.GetID() == oldID {
			seat = s
			break
		}
	}
	// 对局中离开的座位 client 已清空，按名字兜底找托管座位
	if seat < 0 {
		for s := range r.clients {
			if r.clients[s] == nil && !r.bots[s] && r.names[s] == client.GetName() {
				seat = s
				break
			}
		}
	}
	if seat < 0 {
		r.mu.Unlock()
		return -1, apperrors.ErrNotInRoom
	}
	r.clients[seat] = client
	r.names[seat] = client.GetName()
	r.mu.Unlock()

	r.session.SetConnected(seat, true)
	r.session.SetHosted(seat, false)

	r.BroadcastExcept(client.GetID(), codec.MustNewMessage(protocol.MsgPlayerOnline, protocol.PlayerJoinedPayload{
		Seat:       seat,
		PlayerName: client.GetName(),
	}))
	r.signalState()
	return seat, nil
}

// NotifyPlayerOffline 标记座位掉线并通知其他人。座位转系统托管
func (r *Room) NotifyPlayerOffline(client types.ClientInterface) {
	r.mu.RLock()
	seat := r.seatOfLocked(client.GetID())
	r.mu.RUnlock()
	if seat < 0 {
		return
	}

	r.session.SetConnected(seat, false)
	r.BroadcastExcept(client.GetID(), codec.MustNewMessage(protocol.MsgPlayerOffline, protocol.PlayerLeftPayload{
		Seat:       seat,
		PlayerName: client.GetName(),
	}))
}
