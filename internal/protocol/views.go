package protocol

// CardView 对外可见的一张牌
type CardView struct {
	ID     string `json:"id"`
	Suit   string `json:"suit"`
	Rank   string `json:"rank"`
	Value  int    `json:"value"`
	IsWild bool   `json:"is_wild"`
	IsRed  bool   `json:"is_red"`
}

// PlayerView 对外可见的一个座位。
// 非观察者本人的手牌只暴露张数，不暴露内容
type PlayerView struct {
	Seat         int        `json:"seat"`
	Name         string     `json:"name"`
	Team         string     `json:"team"`
	CardCount    int        `json:"card_count"`
	Hand         []CardView `json:"hand,omitempty"`
	IsBot        bool       `json:"is_bot"`
	IsConnected  bool       `json:"is_connected"`
	IsAutoPlayed bool       `json:"is_auto_played"`
	Finished     bool       `json:"finished"`
	FinishOrder  int        `json:"finish_order,omitempty"`
}

// PlayedHandView 一次出牌的历史记录
type PlayedHandView struct {
	Seq        int        `json:"seq"`
	PlayerSeat int        `json:"player_seat"`
	PlayerName string     `json:"player_name"`
	PlayerTeam string     `json:"player_team"`
	Cards      []CardView `json:"cards"`
	HandType   string     `json:"hand_type"`
	MainValue  int        `json:"main_value"`
	PlayedAt   int64      `json:"played_at"`
}

// GameSnapshot 某个观察者视角下的完整对局状态
type GameSnapshot struct {
	Status       string           `json:"status"`
	CurrentTurn  int              `json:"current_turn"`
	CurrentRound int              `json:"current_round"`
	PassCount    int              `json:"pass_count"`
	Players      []PlayerView     `json:"players"`
	HandHistory  []PlayedHandView `json:"hand_history"`
	Winners      []int            `json:"winners"`
	WinningTeam  string           `json:"winning_team,omitempty"`
	HeadFinisher int              `json:"head_finisher"`
	TeamWins     map[string]int   `json:"team_wins"`
	Draws        int              `json:"draws"`
	TurnTimeLeft int              `json:"turn_time_left"` // 秒
	Logs         []string         `json:"logs"`
}
