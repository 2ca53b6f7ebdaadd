package mahjong

import (
	"sync"
)

// Hand9 索子计数数组，下标为点数-1
type Hand9 [RankCount]uint8

type Candidate struct {
	Discard Tile   // 打出的牌
	Waits   []Tile // 听哪些牌
	Ukeire  int    // 有效张数
}

// Memo 搜索结果缓存，要求并发安全
type Memo interface {
	Get(key string) (interface{}, bool)
	Set(key string, value interface{}) bool
}

// mapMemo 默认缓存，不淘汰
type mapMemo struct {
	mu sync.RWMutex
	m  map[string]interface{}
}

func newMapMemo() *mapMemo {
	return &mapMemo{m: make(map[string]interface{}, 4096)}
}

func (c *mapMemo) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.m[key]
	return v, ok
}

func (c *mapMemo) Set(key string, value interface{}) bool {
	c.mu.Lock()
	c.m[key] = value
	c.mu.Unlock()
	return true
}

type Searcher struct {
	memo Memo
}

// NewSearcher memo 为 nil 时使用进程内 map
func NewSearcher(memo Memo) *Searcher {
	if memo == nil {
		memo = newMapMemo()
	}
	return &Searcher{memo: memo}
}

// IsWinning 14 张是否和牌
func (s *Searcher) IsWinning(hand *Hand) bool {
	return s.IsAgariAll(hand.Counts(), 0)
}

// Shanten 手牌向听数：-1 和牌，0 听牌
func (s *Searcher) Shanten(hand *Hand) int {
	return s.ShantenAll(hand.Counts(), 0)
}

// DiscardCandidates 弃牌后听牌的选择，是否允许立直由引擎层判断
func (s *Searcher) DiscardCandidates(h14 Hand9, fixedMelds int, live Hand9) []Candidate {
	var out []Candidate
	for i := 0; i < RankCount; i++ {
		if h14[i] == 0 {
			continue
		}
		h13 := h14
		h13[i]--
		if s.ShantenAll(h13, fixedMelds) != 0 {
			continue
		}
		waits, ukeire := s.Waits(h13, fixedMelds, live)
		out = append(out, Candidate{
			Discard: Tile(i + 1),
			Waits:   waits,
			Ukeire:  ukeire,
		})
	}
	return out
}

// Waits 枚举活牌堆中还有的、能和牌的牌 + 计算进张
func (s *Searcher) Waits(h13 Hand9, fixedMelds int, live Hand9) ([]Tile, int) {
	key := "w" + h13.keyWithFixedMelds(fixedMelds)
	var all []Tile
	if v, ok := s.memo.Get(key); ok {
		all = v.([]Tile)
	} else {
		for t := 0; t < RankCount; t++ {
			if h13[t] >= CopiesOfRank {
				continue
			}
			work := h13
			work[t]++
			if s.IsAgariAll(work, fixedMelds) {
				all = append(all, Tile(t+1))
			}
		}
		s.memo.Set(key, append([]Tile(nil), all...))
	}

	var waits []Tile
	ukeire := 0
	for _, t := range all {
		if n := int(live[t.index()]); n > 0 {
			waits = append(waits, t)
			ukeire += n
		}
	}
	return waits, ukeire
}

// IsAgariAll 是否和牌，fixedMelds 为暗杠数
func (s *Searcher) IsAgariAll(h Hand9, fixedMelds int) bool {
	key := "a" + h.keyWithFixedMelds(fixedMelds)
	if v, ok := s.memo.Get(key); ok {
		return v.(bool)
	}
	ok := IsAgari(h, fixedMelds)
	s.memo.Set(key, ok)
	return ok
}

// IsAgari 张数必须为 14-3*fixedMelds，七对子只在无杠时成立
func IsAgari(h Hand9, fixedMelds int) bool {
	if fixedMelds < 0 || fixedMelds > MaxMelds {
		return false
	}
	if h.Total() != MaxHandSize-3*fixedMelds {
		return false
	}
	if IsAgariNormal(h, fixedMelds) {
		return true
	}
	return fixedMelds == 0 && IsAgariChiitoi(h)
}

// IsAgariNormal 普通牌型是否和牌，核心思想，找雀头、组面子
func IsAgariNormal(h Hand9, fixedMelds int) bool {
	need := MaxMelds - fixedMelds // 需要组成的面子数
	if need < 0 {
		return false
	}

	for j := 0; j < RankCount; j++ {
		if h[j] < 2 {
			continue
		}
		work := h
		work[j] -= 2
		if canFormMelds(&work, need) {
			return true
		}
	}
	return false
}

// IsAgariChiitoi 七对子：恰好 7 种牌各 2 张
func IsAgariChiitoi(h Hand9) bool {
	pairs := 0
	for i := 0; i < RankCount; i++ {
		switch h[i] {
		case 0:
		case 2:
			pairs++
		default:
			return false
		}
	}
	return pairs == 7
}

func canFormMelds(h *Hand9, need int) bool {
	if need == 0 {
		for i := 0; i < RankCount; i++ {
			if (*h)[i] != 0 {
				return false
			}
		}
		return true
	}

	i := h.first()
	if i == -1 {
		return false
	}
	// 刻子
	if (*h)[i] >= 3 {
		(*h)[i] -= 3
		if canFormMelds(h, need-1) {
			(*h)[i] += 3
			return true
		}
		(*h)[i] += 3
	}
	// 顺子
	if i+2 < RankCount && (*h)[i+1] > 0 && (*h)[i+2] > 0 {
		(*h)[i]--
		(*h)[i+1]--
		(*h)[i+2]--
		ok := canFormMelds(h, need-1)
		(*h)[i]++
		(*h)[i+1]++
		(*h)[i+2]++
		if ok {
			return true
		}
	}

	return false
}

// -------------- 基础工具：转换与 key --------------

func Hand9FromTiles(tiles []Tile) Hand9 {
	var h Hand9
	for _, t := range tiles {
		if t.Valid() {
			h[t.index()]++
		}
	}
	return h
}

func (h Hand9) Total() int {
	n := 0
	for _, c := range h {
		n += int(c)
	}
	return n
}

// Tiles 展开为有序牌列
func (h Hand9) Tiles() []Tile {
	out := make([]Tile, 0, h.Total())
	for i, c := range h {
		for k := uint8(0); k < c; k++ {
			out = append(out, Tile(i+1))
		}
	}
	return out
}

func (h *Hand9) first() int {
	for k := 0; k < RankCount; k++ {
		if (*h)[k] > 0 {
			return k
		}
	}
	return -1
}

func (h Hand9) keyWithFixedMelds(fixedMelds int) string {
	var b [RankCount + 1]byte
	for i := 0; i < RankCount; i++ {
		b[i] = byte(h[i])
	}
	b[RankCount] = byte(fixedMelds)
	return string(b[:])
}

// ShantenAll 向听数，fixedMelds 为已完成的暗杠数
func (s *Searcher) ShantenAll(h Hand9, fixedMelds int) int {
	key := "s" + h.keyWithFixedMelds(fixedMelds)
	if v, ok := s.memo.Get(key); ok {
		return v.(int)
	}

	var best int
	if s.IsAgariAll(h, fixedMelds) {
		best = -1
	} else {
		best = ShantenNormal(h, fixedMelds)
		if fixedMelds == 0 {
			if v := ShantenChiitoi(h); v < best {
				best = v
			}
		}
	}

	s.memo.Set(key, best)
	return best
}

// ShantenChiitoi 七对子向听数
func ShantenChiitoi(h Hand9) int {
	total := h.Total()
	if total == 0 {
		return 6
	}
	pairs := 0
	singles := 0
	for i := 0; i < RankCount; i++ {
		pairs += int(h[i] / 2)
		if h[i]%2 == 1 {
			singles++
		}
	}
	if pairs > 7 {
		pairs = 7
	}
	sh := 6 - pairs
	if total == InitialHand {
		if pairs == 6 && singles == 1 {
			sh = 0
		} else if pairs >= 6 {
			sh = 1
		}
	}
	if sh < 0 {
		sh = 0
	}
	return sh
}

// ShantenNormal 一般型向听数，未和牌时不小于 0
func ShantenNormal(h Hand9, fixedMelds int) int {
	best := 8 // 一般型最差上界
	work := h
	dfsNormalShanten(&work, fixedMelds, 0, 0, &best)
	if best < 0 {
		best = 0
	}
	return best
}

// dfsNormalShanten 普通牌型向听数搜索 m：当前已经形成的面子数(包含 fixedMelds)、p：雀头数（0/1）、t：搭子数（taatsu）、best：全局最小向听
func dfsNormalShanten(h *Hand9, m int, p int, t int, best *int) {
	if m > MaxMelds {
		return
	}

	// 搭子数上限为 4-m
	t2 := t
	if limit := MaxMelds - m; t2 > limit {
		t2 = limit
	}

	sh := 8 - 2*m - t2 - p
	if sh < *best {
		*best = sh
	}

	i := h.first()
	if i == -1 {
		return
	}

	if (*h)[i] >= 3 {
		(*h)[i] -= 3
		dfsNormalShanten(h, m+1, p, t, best)
		(*h)[i] += 3
	}

	if i+2 < RankCount && (*h)[i+1] > 0 && (*h)[i+2] > 0 {
		(*h)[i]--
		(*h)[i+1]--
		(*h)[i+2]--
		dfsNormalShanten(h, m+1, p, t, best)
		(*h)[i]++
		(*h)[i+1]++
		(*h)[i+2]++
	}

	if p == 0 && (*h)[i] >= 2 {
		(*h)[i] -= 2
		dfsNormalShanten(h, m, 1, t, best)
		(*h)[i] += 2
	}

	// 对子也可以作为搭子（双碰）
	if (*h)[i] >= 2 {
		(*h)[i] -= 2
		dfsNormalShanten(h, m, p, t+1, best)
		(*h)[i] += 2
	}

	if i+1 < RankCount && (*h)[i+1] > 0 {
		(*h)[i]--
		(*h)[i+1]--
		dfsNormalShanten(h, m, p, t+1, best)
		(*h)[i]++
		(*h)[i+1]++
	}

	if i+2 < RankCount && (*h)[i+2] > 0 {
		(*h)[i]--
		(*h)[i+2]--
		dfsNormalShanten(h, m, p, t+1, best)
		(*h)[i]++
		(*h)[i+2]++
	}

	(*h)[i]--
	dfsNormalShanten(h, m, p, t, best)
	(*h)[i]++
}
