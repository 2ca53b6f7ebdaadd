package game

import (
	"sync"
	"time"

	"soumahjong/framework/game/engines/mahjong"
)

// Session 一局单人游戏，引擎只通过 Do 访问
type Session struct {
	ID        string
	CreatedAt time.Time

	engine     *mahjong.SoloEngine
	lastActive time.Time
	mu         sync.Mutex
}

func newSession(id string, engine *mahjong.SoloEngine) *Session {
	now := time.Now()
	return &Session{
		ID:         id,
		CreatedAt:  now,
		engine:     engine,
		lastActive: now,
	}
}

// Do 独占引擎执行 fn，命令与查询都走这里
func (s *Session) Do(fn func(eg *mahjong.SoloEngine) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastActive = time.Now()
	return fn(s.engine)
}

// LastActive 最近一次访问时间
func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.lastActive
}
