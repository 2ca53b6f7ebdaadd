package mahjong

import (
	"testing"
)

// ts 把 "1112345678999" 解析为牌列
func ts(s string) []Tile {
	out := make([]Tile, 0, len(s))
	for _, r := range s {
		out = append(out, Tile(r-'0'))
	}
	return out
}

func h9(s string) Hand9 {
	return Hand9FromTiles(ts(s))
}

func newStackedEngine(t *testing.T, front string, dead string) *SoloEngine {
	t.Helper()
	wall, err := NewStackedWall(ts(front), ts(dead))
	if err != nil {
		t.Fatalf("NewStackedWall: %v", err)
	}
	return NewSoloEngine(NewSearcher(nil), wall, nil)
}

func containsTile(tiles []Tile, want Tile) bool {
	for _, t := range tiles {
		if t == want {
			return true
		}
	}
	return false
}
