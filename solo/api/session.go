package api

import (
	"errors"
	"io"

	"soumahjong/common/http"
	"soumahjong/framework/game"
	"soumahjong/framework/game/engines/mahjong"
)

type SessionHandler struct {
	sessions *game.SessionManager
}

func NewSessionHandler(sessions *game.SessionManager) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

type tileRequest struct {
	Tile   string `json:"tile"`
	Riichi bool   `json:"riichi"`
}

type actionResponse struct {
	Result interface{}      `json:"result,omitempty"`
	Info   mahjong.GameInfo `json:"info"`
}

// run 在会话锁内执行 fn，并附带执行后的快照
func (h *SessionHandler) run(c *http.Context, fn func(eg *mahjong.SoloEngine) (interface{}, error)) error {
	s, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	var resp actionResponse
	var actionErr error
	_ = s.Do(func(eg *mahjong.SoloEngine) error {
		resp.Result, actionErr = fn(eg)
		resp.Info = eg.Info()
		return nil
	})
	if actionErr != nil {
		return writeError(c, actionErr)
	}
	c.Success(resp)
	return nil
}

func (h *SessionHandler) Create(c *http.Context) error {
	s, err := h.sessions.Create()
	if err != nil {
		return writeError(c, err)
	}
	var info mahjong.GameInfo
	_ = s.Do(func(eg *mahjong.SoloEngine) error {
		info = eg.Info()
		return nil
	})
	c.Success(map[string]interface{}{"id": s.ID, "info": info})
	return nil
}

func (h *SessionHandler) Get(c *http.Context) error {
	return h.run(c, func(eg *mahjong.SoloEngine) (interface{}, error) {
		return nil, nil
	})
}

func (h *SessionHandler) Delete(c *http.Context) error {
	if err := h.sessions.Remove(c.Param("id")); err != nil {
		return writeError(c, err)
	}
	c.Success(nil)
	return nil
}

func (h *SessionHandler) Start(c *http.Context) error {
	return h.run(c, func(eg *mahjong.SoloEngine) (interface{}, error) {
		return eg.Start()
	})
}

// Draw 流局不是错误，返回 exhausted
func (h *SessionHandler) Draw(c *http.Context) error {
	return h.run(c, func(eg *mahjong.SoloEngine) (interface{}, error) {
		res, err := eg.Draw()
		if mahjong.IsWallExhausted(err) {
			return map[string]bool{"exhausted": true}, nil
		}
		return res, err
	})
}

func (h *SessionHandler) Discard(c *http.Context) error {
	req, ok := bindTile(c)
	if !ok {
		return nil
	}
	return h.run(c, func(eg *mahjong.SoloEngine) (interface{}, error) {
		return eg.Discard(req.tile, req.Riichi)
	})
}

func (h *SessionHandler) Quad(c *http.Context) error {
	req, ok := bindTile(c)
	if !ok {
		return nil
	}
	return h.run(c, func(eg *mahjong.SoloEngine) (interface{}, error) {
		return eg.ConcealedQuad(req.tile)
	})
}

// Win 请求体为空或不传 tile 时使用最新摸的牌
func (h *SessionHandler) Win(c *http.Context) error {
	var req tileRequest
	if err := c.BindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.BadRequest("请求参数错误")
		return nil
	}
	tile := mahjong.TileNull
	if req.Tile != "" {
		t, err := mahjong.ParseTile(req.Tile)
		if err != nil {
			return writeError(c, err)
		}
		tile = t
	}
	return h.run(c, func(eg *mahjong.SoloEngine) (interface{}, error) {
		return eg.DeclareWin(tile)
	})
}

func (h *SessionHandler) Reset(c *http.Context) error {
	return h.run(c, func(eg *mahjong.SoloEngine) (interface{}, error) {
		eg.Reset()
		return nil, nil
	})
}

func (h *SessionHandler) Waits(c *http.Context) error {
	return h.run(c, func(eg *mahjong.SoloEngine) (interface{}, error) {
		waits, ukeire := eg.Waits()
		return map[string]interface{}{
			"waits":          waits,
			"ukeire":         ukeire,
			"riichiDiscards": eg.RiichiDiscards(),
			"quadCandidates": eg.QuadCandidates(),
		}, nil
	})
}

func (h *SessionHandler) History(c *http.Context) error {
	return h.run(c, func(eg *mahjong.SoloEngine) (interface{}, error) {
		return eg.History(), nil
	})
}

type parsedTile struct {
	tileRequest
	tile mahjong.Tile
}

func bindTile(c *http.Context) (parsedTile, bool) {
	var req parsedTile
	if err := c.BindJSON(&req.tileRequest); err != nil {
		c.BadRequest("请求参数错误")
		return req, false
	}
	t, err := mahjong.ParseTile(req.Tile)
	if err != nil {
		c.BadRequest(err.Error())
		return req, false
	}
	req.tile = t
	return req, true
}
