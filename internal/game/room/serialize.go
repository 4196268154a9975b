package room

import (
	"github.com/palemoky/six-poker/internal/game/session"
	"github.com/palemoky/six-poker/internal/storage"
)

// ToRoomData 把房间骨架转换为可序列化的快照。
// 进行中的牌局只存进度摘要，手牌不落盘
func (r *Room) ToRoomData() *storage.RoomData {
	r.mu.RLock()
	data := &storage.RoomData{
		Code:      r.Code,
		Password:  r.Password,
		State:     int(r.state),
		HostSeat:  r.hostSeat,
		Players:   make([]storage.SeatData, 0, session.SeatCount),
		CreatedAt: r.CreatedAt.Unix(),
	}
	for seat := 0; seat < session.SeatCount; seat++ {
		data.Players = append(data.Players, storage.SeatData{
			Seat:  seat,
			Name:  r.names[seat],
			IsBot: r.bots[seat],
			Ready: r.ready[seat],
		})
	}
	playing := r.state == RoomStatePlaying
	r.mu.RUnlock()

	if playing {
		wins := r.session.TeamWins()
		data.Game = &storage.GameSummary{
			Round: r.session.Round(),
			TeamWins: map[string]int{
				string(session.TeamA): wins[session.TeamA],
				string(session.TeamB): wins[session.TeamB],
			},
			Draws: r.session.Draws(),
		}
	}
	return data
}
