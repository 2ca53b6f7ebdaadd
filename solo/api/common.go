package api

import (
	"errors"
	stdhttp "net/http"
	"time"

	"soumahjong/common/http"
	"soumahjong/framework/game"
	"soumahjong/framework/game/engines/mahjong"
)

// 引擎拒绝动作时的错误码
const (
	CodeInvalidState  = 20001
	CodeTileNotInHand = 20002
	CodeIllegalRiichi = 20003
	CodeTsumogiri     = 20004
	CodeIllegalQuad   = 20005
)

// PingHandler ping 检查
func PingHandler(c *http.Context) error {
	c.Success(map[string]interface{}{
		"message":   "pong",
		"timestamp": time.Now().Unix(),
		"service":   "solo",
	})
	return nil
}

// writeError 把会话层与引擎错误翻译成统一响应，未知错误交给外层按 500 处理
func writeError(c *http.Context, err error) error {
	switch {
	case errors.Is(err, game.ErrSessionNotFound):
		c.NotFound("会话不存在")
	case errors.Is(err, game.ErrTooManySessions):
		c.Fail(stdhttp.StatusTooManyRequests, http.CodeTooMany, "会话数量已达上限")
	case errors.Is(err, mahjong.ErrInvalidTile):
		c.BadRequest(err.Error())
	case errors.Is(err, mahjong.ErrTileNotInHand):
		c.Fail(stdhttp.StatusConflict, CodeTileNotInHand, err.Error())
	case errors.Is(err, mahjong.ErrIllegalRiichi):
		c.Fail(stdhttp.StatusConflict, CodeIllegalRiichi, err.Error())
	case errors.Is(err, mahjong.ErrTsumogiri):
		c.Fail(stdhttp.StatusConflict, CodeTsumogiri, err.Error())
	case errors.Is(err, mahjong.ErrIllegalQuad):
		c.Fail(stdhttp.StatusConflict, CodeIllegalQuad, err.Error())
	case errors.Is(err, mahjong.ErrInvalidState):
		c.Fail(stdhttp.StatusConflict, CodeInvalidState, err.Error())
	default:
		return err
	}
	return nil
}
