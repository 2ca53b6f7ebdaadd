package mahjong

// PlayerImage 玩家在本局中的全部状态
type PlayerImage struct {
	Hand        *Hand     // 手中的牌
	DiscardPile []Tile    // 弃牌堆
	Quads       [][4]Tile // 暗杠
	IsRiichi    bool      // 是否立直
	RiichiTurn  int       // 立直宣言的巡目
	NewestTile  Tile      // 最新摸的牌，TileNull 表示没有
	IsWinner    bool      // 是否和牌
	WinningTile Tile      // 和了牌
}

// NewPlayerImage 创建玩家游戏状态实例
func NewPlayerImage() *PlayerImage {
	return &PlayerImage{
		Hand:        &Hand{tiles: make([]Tile, 0, MaxHandSize)},
		DiscardPile: make([]Tile, 0, TotalTiles),
		Quads:       make([][4]Tile, 0, MaxMelds),
	}
}

// Reset 清空本局状态
func (p *PlayerImage) Reset() {
	p.Hand.Clear()
	p.DiscardPile = p.DiscardPile[:0]
	p.Quads = p.Quads[:0]
	p.IsRiichi = false
	p.RiichiTurn = 0
	p.NewestTile = TileNull
	p.IsWinner = false
	p.WinningTile = TileNull
}

// SetNewestTile 设置最新摸的牌
func (p *PlayerImage) SetNewestTile(tile Tile) {
	p.NewestTile = tile
}

// GetNewestTile 获取最新摸的牌
func (p *PlayerImage) GetNewestTile() (Tile, bool) {
	return p.NewestTile, p.NewestTile != TileNull
}

// AddDiscard 记录弃牌
func (p *PlayerImage) AddDiscard(tile Tile) {
	p.DiscardPile = append(p.DiscardPile, tile)
}

// AddQuad 记录暗杠
func (p *PlayerImage) AddQuad(tile Tile) {
	p.Quads = append(p.Quads, [4]Tile{tile, tile, tile, tile})
}

// QuadCount 暗杠数，即固定面子数
func (p *PlayerImage) QuadCount() int {
	return len(p.Quads)
}

// ExpectedHandSize 等待摸牌时 13-3q，等待出牌时 14-3q
func (p *PlayerImage) ExpectedHandSize(afterDraw bool) int {
	n := InitialHand - 3*p.QuadCount()
	if afterDraw {
		n++
	}
	return n
}

// Discards 弃牌副本
func (p *PlayerImage) Discards() []Tile {
	return append([]Tile(nil), p.DiscardPile...)
}

// QuadTiles 暗杠副本
func (p *PlayerImage) QuadTiles() [][4]Tile {
	return append([][4]Tile(nil), p.Quads...)
}
