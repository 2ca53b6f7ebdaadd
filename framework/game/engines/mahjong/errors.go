package mahjong

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidState  = errors.New("invalid state transition")
	ErrTileNotInHand = errors.New("tile not in hand")
	ErrIllegalRiichi = errors.New("illegal riichi")
	ErrTsumogiri     = errors.New("only the drawn tile may be discarded during riichi")
	ErrIllegalQuad   = errors.New("illegal concealed quad")
	ErrWallExhausted = errors.New("wall exhausted")
)

var (
	ErrInvalidTile   = errors.New("invalid tile")
	ErrHandFull      = errors.New("hand is full")
	ErrWallEmpty     = errors.New("live wall is empty")
	ErrDeadWallEmpty = errors.New("dead wall is empty")
	ErrInvalidWall   = errors.New("invalid wall composition")
)

// ActionError 动作被拒绝时返回，携带动作与当时的状态
type ActionError struct {
	Action Action
	State  TurnState
	Err    error
	Detail string
}

func (e *ActionError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s rejected in %s: %v", e.Action, e.State, e.Err)
	}
	return fmt.Sprintf("%s rejected in %s: %v: %s", e.Action, e.State, e.Err, e.Detail)
}

func (e *ActionError) Unwrap() error {
	return e.Err
}

func newActionError(action Action, state TurnState, err error, format string, args ...any) *ActionError {
	detail := format
	if len(args) > 0 {
		detail = fmt.Sprintf(format, args...)
	}
	return &ActionError{Action: action, State: state, Err: err, Detail: detail}
}

// IsWallExhausted 流局是正常的终局结果，调用方据此区分
func IsWallExhausted(err error) bool {
	return errors.Is(err, ErrWallExhausted)
}
