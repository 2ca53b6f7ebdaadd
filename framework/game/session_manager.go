package game

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"soumahjong/common/log"
	"soumahjong/framework/game/engines"
	"soumahjong/framework/game/engines/mahjong"

	"github.com/google/uuid"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrTooManySessions = errors.New("too many sessions")
)

// EngineFactory 为新会话创建引擎
type EngineFactory func(sessionID string) *mahjong.SoloEngine

// NewEngineFactory 所有会话共享 searcher；seed 非 0 时第 n 个会话使用 seed+n，便于复现
func NewEngineFactory(searcher *mahjong.Searcher, seed int64, diag func(sessionID string) engines.Diagnostics) EngineFactory {
	var created int64
	return func(sessionID string) *mahjong.SoloEngine {
		n := atomic.AddInt64(&created, 1)
		src := time.Now().UnixNano()
		if seed != 0 {
			src = seed + n - 1
		}
		var d engines.Diagnostics
		if diag != nil {
			d = diag(sessionID)
		}
		wall := mahjong.NewWall(rand.New(rand.NewSource(src)))
		return mahjong.NewSoloEngine(searcher, wall, d)
	}
}

// SessionManager 会话管理器
type SessionManager struct {
	sessions    map[string]*Session // sessionID -> Session
	factory     EngineFactory
	maxSessions int
	mu          sync.RWMutex
}

// NewSessionManager maxSessions <= 0 表示不限制
func NewSessionManager(factory EngineFactory, maxSessions int) *SessionManager {
	return &SessionManager{
		sessions:    make(map[string]*Session),
		factory:     factory,
		maxSessions: maxSessions,
	}
}

// Create 创建会话，引擎处于 not_started
func (sm *SessionManager) Create() (*Session, error) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.maxSessions > 0 && len(sm.sessions) >= sm.maxSessions {
		return nil, fmt.Errorf("%w: limit %d", ErrTooManySessions, sm.maxSessions)
	}
	id := uuid.NewString()
	s := newSession(id, sm.factory(id))
	sm.sessions[id] = s
	log.Info("创建会话: %s，当前会话数: %d", id, len(sm.sessions))
	return s, nil
}

func (sm *SessionManager) Get(id string) (*Session, error) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	s, ok := sm.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return s, nil
}

func (sm *SessionManager) Remove(id string) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if _, ok := sm.sessions[id]; !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	delete(sm.sessions, id)
	log.Info("删除会话: %s，当前会话数: %d", id, len(sm.sessions))
	return nil
}

// RemoveIdle 清理超过 idle 未访问的会话，返回清理数量
func (sm *SessionManager) RemoveIdle(idle time.Duration) int {
	deadline := time.Now().Add(-idle)

	sm.mu.Lock()
	defer sm.mu.Unlock()

	removed := 0
	for id, s := range sm.sessions {
		if s.LastActive().Before(deadline) {
			delete(sm.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		log.Info("清理空闲会话 %d 个，当前会话数: %d", removed, len(sm.sessions))
	}
	return removed
}

// Limit 会话上限，0 表示不限制
func (sm *SessionManager) Limit() int {
	return sm.maxSessions
}

func (sm *SessionManager) Count() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	return len(sm.sessions)
}

// IDs 按创建时间排序
func (sm *SessionManager) IDs() []string {
	sm.mu.RLock()
	list := make([]*Session, 0, len(sm.sessions))
	for _, s := range sm.sessions {
		list = append(list, s)
	}
	sm.mu.RUnlock()

	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
	ids := make([]string, 0, len(list))
	for _, s := range list {
		ids = append(ids, s.ID)
	}
	return ids
}
