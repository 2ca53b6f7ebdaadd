package mahjong

import (
	"fmt"
	"sort"
	"strings"
)

// Hand 手牌，始终按点数升序
type Hand struct {
	tiles []Tile
}

func NewHand(tiles ...Tile) (*Hand, error) {
	h := &Hand{tiles: make([]Tile, 0, MaxHandSize)}
	for _, t := range tiles {
		if err := h.Add(t); err != nil {
			return nil, err
		}
	}
	return h, nil
}

// Add 插入到有序位置
func (h *Hand) Add(tile Tile) error {
	if !tile.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidTile, tile)
	}
	if len(h.tiles) >= MaxHandSize {
		return ErrHandFull
	}
	i := sort.Search(len(h.tiles), func(i int) bool { return h.tiles[i] > tile })
	h.tiles = append(h.tiles, TileNull)
	copy(h.tiles[i+1:], h.tiles[i:])
	h.tiles[i] = tile
	return nil
}

// Remove 移除一张
func (h *Hand) Remove(tile Tile) error {
	i := sort.Search(len(h.tiles), func(i int) bool { return h.tiles[i] >= tile })
	if i == len(h.tiles) || h.tiles[i] != tile {
		return fmt.Errorf("%w: %s", ErrTileNotInHand, tile)
	}
	h.tiles = append(h.tiles[:i], h.tiles[i+1:]...)
	return nil
}

func (h *Hand) Has(tile Tile) bool {
	return h.Count(tile) > 0
}

func (h *Hand) Count(tile Tile) int {
	if !tile.Valid() {
		return 0
	}
	return int(h.Counts()[tile.index()])
}

func (h *Hand) Size() int {
	return len(h.tiles)
}

// Tiles 返回副本
func (h *Hand) Tiles() []Tile {
	return append([]Tile(nil), h.tiles...)
}

// Unique 去重后的点数，升序
func (h *Hand) Unique() []Tile {
	out := make([]Tile, 0, RankCount)
	for i, t := range h.tiles {
		if i == 0 || t != h.tiles[i-1] {
			out = append(out, t)
		}
	}
	return out
}

func (h *Hand) Counts() Hand9 {
	return Hand9FromTiles(h.tiles)
}

func (h *Hand) Clone() *Hand {
	c := &Hand{tiles: make([]Tile, len(h.tiles), MaxHandSize)}
	copy(c.tiles, h.tiles)
	return c
}

func (h *Hand) Clear() {
	h.tiles = h.tiles[:0]
}

func (h *Hand) Equal(o *Hand) bool {
	if h.Size() != o.Size() {
		return false
	}
	for i := range h.tiles {
		if h.tiles[i] != o.tiles[i] {
			return false
		}
	}
	return true
}

// String 形如 "1123索"
func (h *Hand) String() string {
	return FormatTiles(h.tiles)
}

// FormatTiles 紧凑写法，例如 "1359索"，空切片返回 "-"
func FormatTiles(tiles []Tile) string {
	if len(tiles) == 0 {
		return "-"
	}
	var b strings.Builder
	for _, t := range tiles {
		b.WriteByte(byte('0' + t))
	}
	b.WriteString("索")
	return b.String()
}
