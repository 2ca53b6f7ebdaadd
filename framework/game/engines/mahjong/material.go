package mahjong

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"
)

const (
	MinRank      = 1
	MaxRank      = 9
	RankCount    = 9  // 索子 1-9
	CopiesOfRank = 6  // 每种牌 6 张
	TotalTiles   = 54 // RankCount * CopiesOfRank
	DeadWallSize = 4  // 岭上牌
	InitialHand  = 13 // 配牌张数
	MaxHandSize  = 14
	MaxMelds     = 4 // 标准和牌形的面子数
)

// Tile 索子牌，值即点数 1-9
type Tile uint8

// TileNull 表示“没有牌”
const TileNull Tile = 0

func (t Tile) Valid() bool {
	return t >= MinRank && t <= MaxRank
}

func (t Tile) Rank() int {
	return int(t)
}

// IsTerminal 幺九牌
func (t Tile) IsTerminal() bool {
	return t == MinRank || t == MaxRank
}

// IsMiddle 中张牌 2-8
func (t Tile) IsMiddle() bool {
	return t > MinRank && t < MaxRank
}

func (t Tile) index() int {
	return int(t) - 1
}

func (t Tile) String() string {
	if !t.Valid() {
		return "?"
	}
	return strconv.Itoa(int(t)) + "索"
}

// MarshalJSON 编码为数字，[]Tile 输出为数字数组
func (t Tile) MarshalJSON() ([]byte, error) {
	return strconv.AppendInt(nil, int64(t), 10), nil
}

// ParseTile 接受 "5"、"5s"、"5索"
func ParseTile(s string) (Tile, error) {
	raw := strings.TrimSpace(s)
	raw = strings.TrimSuffix(raw, "索")
	raw = strings.TrimSuffix(strings.ToLower(raw), "s")
	n, err := strconv.Atoi(raw)
	if err != nil || n < MinRank || n > MaxRank {
		return TileNull, fmt.Errorf("%w: %q", ErrInvalidTile, s)
	}
	return Tile(n), nil
}

// Wall 牌山：活牌堆 + 岭上牌
type Wall struct {
	liveWall []Tile // 活牌，从头部摸牌
	deadWall []Tile // 岭上牌，开杠后补牌
	rng      *rand.Rand
}

// NewWall 创建并洗好牌山，rng 为 nil 时按时间播种
func NewWall(rng *rand.Rand) *Wall {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	w := &Wall{rng: rng}
	w.Reset()
	return w
}

// NewStackedWall 构造确定的牌山：front 最先被摸到，其余牌按点数升序排在后面；
// 岭上牌不足 4 张时从剩余的最大点数补齐
func NewStackedWall(front []Tile, deadWall []Tile) (*Wall, error) {
	if len(deadWall) > DeadWallSize {
		return nil, fmt.Errorf("%w: dead wall has %d tiles", ErrInvalidWall, len(deadWall))
	}
	var remain Hand9
	for i := range remain {
		remain[i] = CopiesOfRank
	}
	take := func(tiles []Tile) error {
		for _, t := range tiles {
			if !t.Valid() {
				return fmt.Errorf("%w: %w", ErrInvalidWall, ErrInvalidTile)
			}
			if remain[t.index()] == 0 {
				return fmt.Errorf("%w: more than %d copies of %s", ErrInvalidWall, CopiesOfRank, t)
			}
			remain[t.index()]--
		}
		return nil
	}
	if err := take(front); err != nil {
		return nil, err
	}
	if err := take(deadWall); err != nil {
		return nil, err
	}

	dead := append(make([]Tile, 0, DeadWallSize), deadWall...)
	for i := RankCount - 1; i >= 0 && len(dead) < DeadWallSize; {
		if remain[i] == 0 {
			i--
			continue
		}
		remain[i]--
		dead = append(dead, Tile(i+1))
	}

	live := append(make([]Tile, 0, TotalTiles-DeadWallSize), front...)
	for i, c := range remain {
		for k := uint8(0); k < c; k++ {
			live = append(live, Tile(i+1))
		}
	}

	return &Wall{
		liveWall: live,
		deadWall: dead,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}, nil
}

// Reset 重新生成 54 张牌并洗牌，前 4 张作为岭上牌
func (w *Wall) Reset() {
	tiles := make([]Tile, 0, TotalTiles)
	for rank := Tile(MinRank); rank <= MaxRank; rank++ {
		for i := 0; i < CopiesOfRank; i++ {
			tiles = append(tiles, rank)
		}
	}
	// inside-out Fisher-Yates
	shuffled := make([]Tile, len(tiles))
	for i, t := range tiles {
		j := w.rng.Intn(i + 1)
		if j != i {
			shuffled[i] = shuffled[j]
		}
		shuffled[j] = t
	}
	w.deadWall = append(w.deadWall[:0], shuffled[:DeadWallSize]...)
	w.liveWall = append(w.liveWall[:0], shuffled[DeadWallSize:]...)
}

// Draw 从活牌堆摸一张
func (w *Wall) Draw() (Tile, error) {
	if len(w.liveWall) == 0 {
		return TileNull, ErrWallEmpty
	}
	t := w.liveWall[0]
	w.liveWall = w.liveWall[1:]
	return t, nil
}

// DrawN 一次摸 n 张，不足时不摸
func (w *Wall) DrawN(n int) ([]Tile, error) {
	if n < 0 || n > len(w.liveWall) {
		return nil, fmt.Errorf("%w: want %d, live %d", ErrWallEmpty, n, len(w.liveWall))
	}
	tiles := append([]Tile(nil), w.liveWall[:n]...)
	w.liveWall = w.liveWall[n:]
	return tiles, nil
}

// DrawReplacement 岭上补牌
func (w *Wall) DrawReplacement() (Tile, error) {
	if len(w.deadWall) == 0 {
		return TileNull, ErrDeadWallEmpty
	}
	t := w.deadWall[0]
	w.deadWall = w.deadWall[1:]
	return t, nil
}

// DrawSpecific 从活牌堆中取出指定的牌，调试用
func (w *Wall) DrawSpecific(tile Tile) (Tile, error) {
	for i, t := range w.liveWall {
		if t == tile {
			w.liveWall = append(w.liveWall[:i], w.liveWall[i+1:]...)
			return t, nil
		}
	}
	return TileNull, fmt.Errorf("%w: %s not in live wall", ErrWallEmpty, tile)
}

// Peek 查看下一张，不摸
func (w *Wall) Peek() (Tile, bool) {
	if len(w.liveWall) == 0 {
		return TileNull, false
	}
	return w.liveWall[0], true
}

func (w *Wall) Has(tile Tile) bool {
	return w.Count(tile) > 0
}

// Count 活牌堆中某种牌的剩余张数
func (w *Wall) Count(tile Tile) int {
	n := 0
	for _, t := range w.liveWall {
		if t == tile {
			n++
		}
	}
	return n
}

// Distribution 活牌堆的计数数组
func (w *Wall) Distribution() Hand9 {
	var h Hand9
	for _, t := range w.liveWall {
		h[t.index()]++
	}
	return h
}

func (w *Wall) LiveCount() int {
	return len(w.liveWall)
}

func (w *Wall) DeadWallCount() int {
	return len(w.deadWall)
}

// DrawnCount 已离开牌山的张数
func (w *Wall) DrawnCount() int {
	return TotalTiles - len(w.liveWall) - len(w.deadWall)
}

func (w *Wall) IsEmpty() bool {
	return len(w.liveWall) == 0
}
