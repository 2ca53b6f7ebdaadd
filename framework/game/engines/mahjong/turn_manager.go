package mahjong

import (
	"sync"
)

type TurnState int

const (
	StateNotStarted    TurnState = iota // 等待开始
	StatePlayerTurn                     // 等待摸牌
	StateAfterDraw                      // 等待出牌、立直、暗杠、自摸
	StateRiichiDraw                     // 立直后等待摸牌
	StateRiichiDiscard                  // 立直后等待摸切
	StateGameOver                       // 对局结束
)

func (s TurnState) String() string {
	switch s {
	case StateNotStarted:
		return "not_started"
	case StatePlayerTurn:
		return "player_turn"
	case StateAfterDraw:
		return "after_draw"
	case StateRiichiDraw:
		return "riichi_draw"
	case StateRiichiDiscard:
		return "riichi_discard"
	case StateGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// IsRiichi 是否处于立直子状态
func (s TurnState) IsRiichi() bool {
	return s == StateRiichiDraw || s == StateRiichiDiscard
}

// AwaitingDraw 手牌 13-3q 张，等待摸牌
func (s TurnState) AwaitingDraw() bool {
	return s == StatePlayerTurn || s == StateRiichiDraw
}

// AwaitingDiscard 手牌 14-3q 张，等待出牌
func (s TurnState) AwaitingDiscard() bool {
	return s == StateAfterDraw || s == StateRiichiDiscard
}

type Action string

const (
	ActionStart   Action = "start"
	ActionDraw    Action = "draw"
	ActionDiscard Action = "discard"
	ActionRiichi  Action = "riichi"
	ActionQuad    Action = "concealed_quad"
	ActionWin     Action = "declare_win"
	ActionReset   Action = "reset"
)

// permitted 各动作允许的起始状态
var permitted = map[Action][]TurnState{
	ActionStart:   {StateNotStarted},
	ActionDraw:    {StatePlayerTurn, StateRiichiDraw},
	ActionDiscard: {StateAfterDraw, StateRiichiDiscard},
	ActionRiichi:  {StateAfterDraw, StateRiichiDiscard},
	ActionQuad:    {StateAfterDraw},
	ActionWin:     {StateAfterDraw, StateRiichiDiscard},
}

type TurnManager struct {
	Turn  int       // 当前巡目，开局为 1，每次出牌 +1
	State TurnState // 当前回合状态

	sync.RWMutex
}

// NewTurnManager 创建新的回合管理器
func NewTurnManager() *TurnManager {
	return &TurnManager{State: StateNotStarted}
}

// Permits 当前状态是否允许该动作，reset 任何时候都允许
func (tm *TurnManager) Permits(action Action) bool {
	tm.RLock()
	defer tm.RUnlock()

	if action == ActionReset {
		return true
	}
	for _, s := range permitted[action] {
		if s == tm.State {
			return true
		}
	}
	return false
}

// Require 不允许时返回 ActionError
func (tm *TurnManager) Require(action Action) error {
	if tm.Permits(action) {
		return nil
	}
	state := tm.GetState()
	return newActionError(action, state, ErrInvalidState, "")
}

// GetState 获取当前回合状态
func (tm *TurnManager) GetState() TurnState {
	tm.RLock()
	defer tm.RUnlock()

	return tm.State
}

// SetState 设置回合状态
func (tm *TurnManager) SetState(state TurnState) {
	tm.Lock()
	defer tm.Unlock()

	tm.State = state
}

// GetTurn 获取当前巡目
func (tm *TurnManager) GetTurn() int {
	tm.RLock()
	defer tm.RUnlock()

	return tm.Turn
}

// NextTurn 进入下一巡
func (tm *TurnManager) NextTurn() int {
	tm.Lock()
	defer tm.Unlock()

	tm.Turn++
	return tm.Turn
}

// Begin 开局
func (tm *TurnManager) Begin() {
	tm.Lock()
	defer tm.Unlock()

	tm.Turn = 1
	tm.State = StatePlayerTurn
}

// Reset 回到初始状态
func (tm *TurnManager) Reset() {
	tm.Lock()
	defer tm.Unlock()

	tm.Turn = 0
	tm.State = StateNotStarted
}
