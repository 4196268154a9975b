package ai

import (
	"math"

	"github.com/palemoky/six-poker/internal/game/card"
	"github.com/palemoky/six-poker/internal/game/rule"
)

// Tunables 评估器的启发式参数。
// 这些数值决定的是 AI 水平而不是游戏规则，全部可配置。
type Tunables struct {
	LeadStrengthWeight float64 `yaml:"lead_strength_weight"`
	HandCostWeight     float64 `yaml:"hand_cost_weight"`
	HighImpactBonus    float64 `yaml:"high_impact_bonus"`
	MultiCardLeadBonus float64 `yaml:"multi_card_lead_bonus"`
	RepeatedPassBonus  float64 `yaml:"repeated_pass_bonus"`
	FollowupLeadWeight float64 `yaml:"followup_lead_weight"`

	// 主牌保留策略
	TrumpRichRatio      float64 `yaml:"trump_rich_ratio"`
	TrumpScarcePenalty  float64 `yaml:"trump_scarce_penalty"`
	TrumpRichPenalty    float64 `yaml:"trump_rich_penalty"`
	AllTrumpLeadRatio   float64 `yaml:"all_trump_lead_ratio"`
	AllTrumpLeadBonus   float64 `yaml:"all_trump_lead_bonus"`
	ResponseTrumpScarce float64 `yaml:"response_trump_scarce"`
	ResponseTrumpRich   float64 `yaml:"response_trump_rich"`

	// 跟牌
	ResponseSuccessBonus   float64 `yaml:"response_success_bonus"`
	OverkillPenaltyWeight  float64 `yaml:"overkill_penalty_weight"`
	FollowupResponseWeight float64 `yaml:"followup_response_weight"`
	NoFollowupPenalty      float64 `yaml:"no_followup_penalty"`
	PressureThreshold      int     `yaml:"pressure_threshold"`
	PressureBonus          float64 `yaml:"pressure_bonus"`
	PressureMultiCard      float64 `yaml:"pressure_multi_card"`
	LeaderPlaysThreshold   int     `yaml:"leader_plays_threshold"`
	LeaderPlaysBonus       float64 `yaml:"leader_plays_bonus"`

	// 队友配合
	TeammateCoverBonus   float64 `yaml:"teammate_cover_bonus"`
	SupportThreshold     int     `yaml:"support_threshold"`
	TeamSupportBonus     float64 `yaml:"team_support_bonus"`
	SupportMultiCard     float64 `yaml:"support_multi_card"`
	TrumpOverTeammate    float64 `yaml:"trump_over_teammate"`
	CriticalHandSize     int     `yaml:"critical_hand_size"`
	OpponentSafeMinCards int     `yaml:"opponent_safe_min_cards"`
}

// DefaultTunables 返回默认参数
func DefaultTunables() Tunables {
	return Tunables{
		LeadStrengthWeight: 1.6,
		HandCostWeight:     0.45,
		HighImpactBonus:    2.4,
		MultiCardLeadBonus: 0.8,
		RepeatedPassBonus:  0.5,
		FollowupLeadWeight: 1.35,

		TrumpRichRatio:      0.45,
		TrumpScarcePenalty:  3.0,
		TrumpRichPenalty:    0.8,
		AllTrumpLeadRatio:   0.6,
		AllTrumpLeadBonus:   2.0,
		ResponseTrumpScarce: 2.0,
		ResponseTrumpRich:   0.6,

		ResponseSuccessBonus:   5.0,
		OverkillPenaltyWeight:  0.2,
		FollowupResponseWeight: 1.2,
		NoFollowupPenalty:      0.8,
		PressureThreshold:      2,
		PressureBonus:          2.2,
		PressureMultiCard:      0.6,
		LeaderPlaysThreshold:   3,
		LeaderPlaysBonus:       0.6,

		TeammateCoverBonus:   1.8,
		SupportThreshold:     2,
		TeamSupportBonus:     1.8,
		SupportMultiCard:     0.4,
		TrumpOverTeammate:    2.0,
		CriticalHandSize:     2,
		OpponentSafeMinCards: 1,
	}
}

// SeatView 评估器可见的一个座位
type SeatView struct {
	Seat     int
	Team     string
	Hand     []card.Card
	Finished bool
}

// TurnStats 本轮内某座位的出牌与过牌次数
type TurnStats struct {
	Plays  int
	Passes int
}

// Context 一次决策的完整输入，由状态机填充
type Context struct {
	Self       int
	Seats      []SeatView      // 按座位顺序的全部六家
	LastHand   rule.ParsedHand // 当前牌权，空表示自由出牌
	LastPlayer int             // 出了 LastHand 的座位，-1 表示无
	TurnStats  map[int]TurnStats
}

func (c Context) self() SeatView {
	return c.Seats[c.Self]
}

// Evaluator 启发式出牌评估器
type Evaluator struct {
	tunables Tunables
}

// NewEvaluator 创建评估器
func NewEvaluator(t Tunables) *Evaluator {
	return &Evaluator{tunables: t}
}

// ChooseMove 为当前座位选择一手牌，返回 nil 表示过牌。
// 无合法牌组时强制过牌；队友用纯主牌拿住牌权且不危急时主动让牌；
// 否则逐个候选打分取最高，平分时按生成顺序取先者，保证可复现。
func (e *Evaluator) ChooseMove(ctx Context) []card.Card {
	self := ctx.self()
	legal := rule.LegalMoves(self.Hand, ctx.LastHand)
	if len(legal) == 0 {
		return nil
	}

	teammateLeft := e.teammateCardsLeft(ctx)
	opponentLeft := e.opponentCardsLeft(ctx)

	if e.shouldPreserveTeammateTrick(ctx, opponentLeft) {
		return nil
	}

	var best []card.Card
	bestScore := math.Inf(-1)
	for _, move := range legal {
		var score float64
		if ctx.LastHand.IsEmpty() {
			score = e.scoreLead(move, self.Hand, ctx)
		} else {
			score = e.scoreResponse(move, self.Hand, ctx, opponentLeft)
			if e.teammateCanCover(ctx, move) {
				score += e.tunables.TeammateCoverBonus
			}
		}
		score += e.teamSupportAdjustment(ctx, move, teammateLeft)

		if score > bestScore {
			bestScore = score
			best = move
		}
	}
	return best
}

// shouldPreserveTeammateTrick 队友用纯主牌拿住牌权时的让牌判断。
// 队友手牌告急或对手只剩最后一张时不让，其余情况直接过牌保住队友的牌权。
func (e *Evaluator) shouldPreserveTeammateTrick(ctx Context, opponentLeft []int) bool {
	if ctx.LastHand.IsEmpty() || ctx.LastPlayer < 0 {
		return false
	}
	last := ctx.Seats[ctx.LastPlayer]
	self := ctx.self()
	if last.Seat == self.Seat || last.Team != self.Team {
		return false
	}
	if !allTrump(ctx.LastHand.Cards) {
		return false
	}

	teammateCritical := len(last.Hand) <= e.tunables.CriticalHandSize
	opponentsSafe := len(opponentLeft) > 0 && minInt(opponentLeft) > e.tunables.OpponentSafeMinCards
	return teammateCritical || opponentsSafe
}

// scoreLead 自由出牌打分
func (e *Evaluator) scoreLead(move, hand []card.Card, ctx Context) float64 {
	t := e.tunables
	parsed, err := rule.ParseHand(move)
	if err != nil {
		return math.Inf(-1)
	}

	score := cardStrength(parsed) * t.LeadStrengthWeight
	score -= remainingHandCost(move, hand) * t.HandCostWeight

	if isHighImpact(parsed) {
		score += t.HighImpactBonus
	}
	if parsed.Type == rule.Triple || parsed.Type == rule.Quad {
		score += t.MultiCardLeadBonus
	}
	for _, stats := range ctx.TurnStats {
		if stats.Passes >= 2 {
			score += t.RepeatedPassBonus
			break
		}
	}

	// 主牌尽量后置，除非主牌很多可抢头游
	ratio := trumpRatio(hand)
	if anyTrump(move) {
		if ratio < t.TrumpRichRatio {
			score -= t.TrumpScarcePenalty
		} else {
			score -= t.TrumpRichPenalty
		}
	}
	if ratio >= t.AllTrumpLeadRatio && allTrump(move) {
		score += t.AllTrumpLeadBonus
	}

	score += float64(controlFollowups(move, hand, parsed)) * t.FollowupLeadWeight
	return score
}

// scoreResponse 跟牌打分
func (e *Evaluator) scoreResponse(move, hand []card.Card, ctx Context, opponentLeft []int) float64 {
	t := e.tunables
	parsed, err := rule.ParseHand(move)
	if err != nil {
		return math.Inf(-1)
	}

	var score float64
	if rule.CanBeat(parsed, ctx.LastHand) {
		score += t.ResponseSuccessBonus
	}
	score -= remainingHandCost(move, hand) * t.HandCostWeight

	// 小管大：能用小牌压就不动大牌
	score -= cardStrength(parsed) * t.OverkillPenaltyWeight

	followups := controlFollowups(move, hand, parsed)
	score += float64(followups) * t.FollowupResponseWeight
	if followups == 0 {
		score -= t.NoFollowupPenalty
	}

	if anyTrump(move) {
		if trumpRatio(hand) < t.TrumpRichRatio {
			score -= t.ResponseTrumpScarce
		} else {
			score -= t.ResponseTrumpRich
		}
	}

	// 终局施压：对手牌快出完时舍得用大牌封路
	if len(opponentLeft) > 0 && minInt(opponentLeft) <= t.PressureThreshold {
		score += t.PressureBonus
		if len(move) > 1 {
			score += t.PressureMultiCard
		}
	}

	if ctx.LastPlayer >= 0 {
		if stats, ok := ctx.TurnStats[ctx.LastPlayer]; ok && stats.Plays >= t.LeaderPlaysThreshold {
			score += t.LeaderPlaysBonus
		}
	}
	return score
}

// teamSupportAdjustment 队友手牌告急时的配合加减分
func (e *Evaluator) teamSupportAdjustment(ctx Context, move []card.Card, teammateLeft int) float64 {
	t := e.tunables
	if teammateLeft == 0 || teammateLeft > t.SupportThreshold {
		return 0
	}

	score := t.TeamSupportBonus
	if len(move) > 1 {
		score += t.SupportMultiCard
	}

	// 队友快走完时少用主牌压队友，控节奏让队友先走
	if !ctx.LastHand.IsEmpty() && ctx.LastPlayer >= 0 && ctx.LastPlayer != ctx.Self {
		last := ctx.Seats[ctx.LastPlayer]
		if last.Team == ctx.self().Team && anyTrump(move) {
			score -= t.TrumpOverTeammate
		}
	}
	return score
}

// teammateCanCover 判断是否有队友能在之后压过这手牌
func (e *Evaluator) teammateCanCover(ctx Context, move []card.Card) bool {
	parsed, err := rule.ParseHand(move)
	if err != nil {
		return false
	}
	self := ctx.self()
	for _, seat := range ctx.Seats {
		if seat.Finished || seat.Seat == self.Seat || seat.Team != self.Team {
			continue
		}
		if hasFollowup(seat.Hand, parsed) {
			return true
		}
	}
	return false
}

func (e *Evaluator) teammateCardsLeft(ctx Context) int {
	self := ctx.self()
	left := 0
	for _, seat := range ctx.Seats {
		if seat.Finished || seat.Seat == self.Seat || seat.Team != self.Team {
			continue
		}
		if left == 0 || len(seat.Hand) < left {
			left = len(seat.Hand)
		}
	}
	return left
}

func (e *Evaluator) opponentCardsLeft(ctx Context) []int {
	self := ctx.self()
	var left []int
	for _, seat := range ctx.Seats {
		if seat.Finished || seat.Team == self.Team {
			continue
		}
		left = append(left, len(seat.Hand))
	}
	return left
}

// --- 打分基础量 ---

// cardStrength 一手牌的原始强度：主点数加每张牌的小额加成
func cardStrength(parsed rule.ParsedHand) float64 {
	return float64(parsed.MainValue) + float64(parsed.Size())*0.4
}

// remainingHandCost 出掉 move 之后剩余手牌的负担。
// 剩牌点数越高、散点越多、压着的混牌越多，负担越重；打空手牌是负成本。
func remainingHandCost(move, hand []card.Card) float64 {
	remaining := card.RemoveCards(hand, move)
	if len(remaining) == 0 {
		return -4.0
	}

	var valueCost float64
	var wildPenalty float64
	values := make(map[int]bool)
	for _, c := range remaining {
		valueCost += float64(c.Value()+1) / 4
		if c.IsWild() {
			wildPenalty += 2
		}
		values[c.Value()] = true
	}
	return valueCost + wildPenalty + float64(len(values))*0.8
}

// isHighImpact 四张或含混牌的组合，早出可以清掉危险牌
func isHighImpact(parsed rule.ParsedHand) bool {
	if parsed.Type == rule.Quad {
		return true
	}
	for _, c := range parsed.Cards {
		if c.IsWild() {
			return true
		}
	}
	return false
}

func anyTrump(move []card.Card) bool {
	for _, c := range move {
		if c.IsTrump() {
			return true
		}
	}
	return false
}

func allTrump(move []card.Card) bool {
	for _, c := range move {
		if !c.IsTrump() {
			return false
		}
	}
	return len(move) > 0
}

func trumpRatio(hand []card.Card) float64 {
	if len(hand) == 0 {
		return 0
	}
	trumps := 0
	for _, c := range hand {
		if c.IsTrump() {
			trumps++
		}
	}
	return float64(trumps) / float64(len(hand))
}

// controlFollowups 出掉 move 后，剩余手牌中还能以同样牌型压过它的点数组数量
func controlFollowups(move, hand []card.Card, parsed rule.ParsedHand) int {
	remaining := card.RemoveCards(hand, move)
	if len(remaining) == 0 {
		return 0
	}
	return countFollowupGroups(remaining, parsed)
}

// hasFollowup 判断手牌中是否存在能压过 parsed 的同型组合
func hasFollowup(hand []card.Card, parsed rule.ParsedHand) bool {
	return countFollowupGroups(hand, parsed) > 0
}

func countFollowupGroups(hand []card.Card, parsed rule.ParsedHand) int {
	groups := make(map[int][]card.Card)
	for _, c := range hand {
		groups[c.Value()] = append(groups[c.Value()], c)
	}

	count := 0
	for v, cards := range groups {
		if v <= parsed.MainValue || len(cards) < parsed.Size() {
			continue
		}
		candidate, err := rule.ParseHand(cards[:parsed.Size()])
		if err == nil && candidate.Type == parsed.Type {
			count++
		}
	}
	return count
}

func minInt(values []int) int {
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}
