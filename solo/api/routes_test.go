package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	shttp "soumahjong/common/http"
	"soumahjong/framework/game"
	"soumahjong/framework/game/engines/mahjong"
)

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type actionBody struct {
	Result json.RawMessage  `json:"result"`
	Info   mahjong.GameInfo `json:"info"`
}

// 九莲宝灯配牌，第 14 张为 5
func newTestServer(t *testing.T, maxSessions int) *shttp.HttpServer {
	t.Helper()
	front := []mahjong.Tile{1, 1, 1, 2, 3, 4, 5, 6, 7, 8, 9, 9, 9, 5}
	factory := func(string) *mahjong.SoloEngine {
		wall, err := mahjong.NewStackedWall(front, nil)
		if err != nil {
			t.Fatalf("stacked wall: %v", err)
		}
		return mahjong.NewSoloEngine(nil, wall, nil)
	}
	s := shttp.NewHttpServer(shttp.WithMode("test"))
	RegisterRoutes(s, game.NewSessionManager(factory, maxSessions))
	return s
}

func call(t *testing.T, s *shttp.HttpServer, method, path string, body interface{}) (int, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if raw, ok := body.(string); ok {
		buf.WriteString(raw)
	} else if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.GetEngine().ServeHTTP(w, req)
	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("%s %s: decode %q: %v", method, path, w.Body.String(), err)
	}
	return w.Code, env
}

func createSession(t *testing.T, s *shttp.HttpServer) string {
	t.Helper()
	code, env := call(t, s, http.MethodPost, "/api/v1/sessions", nil)
	if code != http.StatusOK {
		t.Fatalf("create: status %d", code)
	}
	var data struct {
		ID   string           `json:"id"`
		Info mahjong.GameInfo `json:"info"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode create: %v", err)
	}
	if data.ID == "" || data.Info.State != "not_started" {
		t.Fatalf("unexpected create response %s", env.Data)
	}
	return data.ID
}

func decodeAction(t *testing.T, env envelope) actionBody {
	t.Helper()
	var body actionBody
	if err := json.Unmarshal(env.Data, &body); err != nil {
		t.Fatalf("decode action: %v", err)
	}
	return body
}

func TestPing(t *testing.T) {
	s := newTestServer(t, 0)
	code, env := call(t, s, http.MethodGet, "/ping", nil)
	if code != http.StatusOK || env.Code != shttp.CodeSuccess {
		t.Fatalf("ping: status %d code %d", code, env.Code)
	}
}

func TestSessionWinFlow(t *testing.T) {
	s := newTestServer(t, 0)
	id := createSession(t, s)
	base := "/api/v1/sessions/" + id

	code, env := call(t, s, http.MethodPost, base+"/start", nil)
	if code != http.StatusOK {
		t.Fatalf("start: status %d %s", code, env.Message)
	}
	if info := decodeAction(t, env).Info; info.HandSize != 13 || info.State != "player_turn" {
		t.Fatalf("unexpected info after start: %+v", info)
	}

	code, env = call(t, s, http.MethodPost, base+"/draw", nil)
	if code != http.StatusOK {
		t.Fatalf("draw: status %d %s", code, env.Message)
	}
	var drawn mahjong.DrawResult
	if err := json.Unmarshal(decodeAction(t, env).Result, &drawn); err != nil {
		t.Fatalf("decode draw: %v", err)
	}
	if drawn.Tile != 5 || !drawn.CanWin {
		t.Fatalf("expected winning draw of 5, got %+v", drawn)
	}

	code, env = call(t, s, http.MethodGet, base+"/waits", nil)
	if code != http.StatusOK {
		t.Fatalf("waits: status %d", code)
	}

	code, env = call(t, s, http.MethodPost, base+"/win", nil)
	if code != http.StatusOK {
		t.Fatalf("win: status %d %s", code, env.Message)
	}
	if info := decodeAction(t, env).Info; !info.IsWinner || info.State != "game_over" || info.WinningTile != 5 {
		t.Fatalf("unexpected info after win: %+v", info)
	}

	code, env = call(t, s, http.MethodPost, base+"/draw", nil)
	if code != http.StatusConflict || env.Code != CodeInvalidState {
		t.Fatalf("draw after game over: status %d code %d", code, env.Code)
	}

	code, env = call(t, s, http.MethodGet, base+"/history", nil)
	if code != http.StatusOK {
		t.Fatalf("history: status %d", code)
	}
	var history []mahjong.ActionRecord
	if err := json.Unmarshal(decodeAction(t, env).Result, &history); err != nil {
		t.Fatalf("decode history: %v", err)
	}
	if len(history) != 3 {
		t.Fatalf("expected start/draw/win records, got %d", len(history))
	}
}

func TestSessionErrors(t *testing.T) {
	s := newTestServer(t, 1)
	id := createSession(t, s)
	base := "/api/v1/sessions/" + id

	tests := []struct {
		name   string
		method string
		path   string
		body   interface{}
		status int
		code   int
	}{
		{"unknown session", http.MethodGet, "/api/v1/sessions/nope", nil, http.StatusNotFound, shttp.CodeNotFound},
		{"session limit", http.MethodPost, "/api/v1/sessions", nil, http.StatusTooManyRequests, shttp.CodeTooMany},
		{"draw before start", http.MethodPost, base + "/draw", nil, http.StatusConflict, CodeInvalidState},
		{"bad tile", http.MethodPost, base + "/discard", map[string]string{"tile": "x"}, http.StatusBadRequest, shttp.CodeInvalidParam},
		{"missing body", http.MethodPost, base + "/quad", nil, http.StatusBadRequest, shttp.CodeInvalidParam},
		{"malformed win body", http.MethodPost, base + "/win", "{", http.StatusBadRequest, shttp.CodeInvalidParam},
		{"bad win tile", http.MethodPost, base + "/win", map[string]string{"tile": "0"}, http.StatusBadRequest, shttp.CodeInvalidParam},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, env := call(t, s, tt.method, tt.path, tt.body)
			if status != tt.status || env.Code != tt.code {
				t.Fatalf("expected %d/%d, got %d/%d (%s)", tt.status, tt.code, status, env.Code, env.Message)
			}
		})
	}

	if code, _ := call(t, s, http.MethodPost, base+"/start", nil); code != http.StatusOK {
		t.Fatalf("start: status %d", code)
	}
	if code, _ := call(t, s, http.MethodPost, base+"/draw", nil); code != http.StatusOK {
		t.Fatalf("draw: status %d", code)
	}
	status, env := call(t, s, http.MethodPost, base+"/quad", map[string]string{"tile": "2"})
	if status != http.StatusConflict || env.Code != CodeIllegalQuad {
		t.Fatalf("quad without four copies: %d/%d", status, env.Code)
	}

	if code, _ := call(t, s, http.MethodDelete, base, nil); code != http.StatusOK {
		t.Fatalf("delete: status %d", code)
	}
	if code, _ := call(t, s, http.MethodGet, base, nil); code != http.StatusNotFound {
		t.Fatalf("deleted session should be gone, got %d", code)
	}
}

func TestDrawUntilExhausted(t *testing.T) {
	s := newTestServer(t, 0)
	base := "/api/v1/sessions/" + createSession(t, s)
	if code, _ := call(t, s, http.MethodPost, base+"/start", nil); code != http.StatusOK {
		t.Fatalf("start: status %d", code)
	}

	draws := 0
	for i := 0; i < mahjong.TotalTiles; i++ {
		code, env := call(t, s, http.MethodPost, base+"/draw", nil)
		if code != http.StatusOK {
			t.Fatalf("draw %d: status %d %s", i, code, env.Message)
		}
		body := decodeAction(t, env)
		var probe struct {
			Exhausted bool         `json:"exhausted"`
			Tile      mahjong.Tile `json:"tile"`
		}
		if err := json.Unmarshal(body.Result, &probe); err != nil {
			t.Fatalf("decode draw: %v", err)
		}
		if probe.Exhausted {
			if body.Info.State != "game_over" || body.Info.IsWinner {
				t.Fatalf("unexpected info after exhaustion: %+v", body.Info)
			}
			break
		}
		draws++
		if code, env := call(t, s, http.MethodPost, base+"/discard", map[string]interface{}{"tile": probe.Tile.String()}); code != http.StatusOK {
			t.Fatalf("discard: status %d %s", code, env.Message)
		}
	}
	if want := mahjong.TotalTiles - mahjong.DeadWallSize - mahjong.InitialHand; draws != want {
		t.Fatalf("expected %d draws before exhaustion, got %d", want, draws)
	}
}
