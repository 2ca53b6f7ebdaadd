package mahjong

import (
	"fmt"
	"time"

	"soumahjong/framework/game/engines"
)

/*
	单人索子引擎
	状态机：
		NotStarted -start-> PlayerTurn -draw-> AfterDraw -discard-> PlayerTurn
		AfterDraw -kan-> AfterDraw（岭上补牌后仍需出牌）
		AfterDraw -discard+riichi-> RiichiDraw -draw-> RiichiDiscard -discard-> RiichiDraw
		AfterDraw / RiichiDiscard -tsumo-> GameOver
		PlayerTurn / RiichiDraw -draw（牌山已空）-> GameOver
	所有动作要么完整生效，要么不改变任何状态（流局除外）
*/

type StartResult struct {
	Hand    []Tile `json:"hand"`
	Shanten int    `json:"shanten"`
}

type DrawResult struct {
	Tile      Tile `json:"tile"`
	CanWin    bool `json:"canWin"`
	Shanten   int  `json:"shanten"`
	LiveCount int  `json:"liveCount"`
}

type DiscardResult struct {
	Tile    Tile   `json:"tile"`
	Riichi  bool   `json:"riichi"`
	Turn    int    `json:"turn"`
	Shanten int    `json:"shanten"`
	Waits   []Tile `json:"waits"`
	Ukeire  int    `json:"ukeire"`
}

type QuadResult struct {
	Tile        Tile `json:"tile"`
	Replacement Tile `json:"replacement"`
	CanWin      bool `json:"canWin"`
	Shanten     int  `json:"shanten"`
}

type WinResult struct {
	Tile   Tile   `json:"tile"`
	Turn   int    `json:"turn"`
	Riichi bool   `json:"riichi"`
	Quads  int    `json:"quads"`
	Hand   []Tile `json:"hand"`
}

// ActionRecord 本局内成功执行的动作，不持久化
type ActionRecord struct {
	Sequence int       `json:"sequence"`
	Action   Action    `json:"action"`
	Tile     Tile      `json:"tile,omitempty"`
	Turn     int       `json:"turn"`
	At       time.Time `json:"at"`
}

// GameInfo 对局快照
type GameInfo struct {
	Engine        string    `json:"engine"`
	State         string    `json:"state"`
	Turn          int       `json:"turn"`
	Hand          []Tile    `json:"hand"`
	HandText      string    `json:"handText"`
	HandSize      int       `json:"handSize"`
	LastDrawn     Tile      `json:"lastDrawn,omitempty"`
	Discards      []Tile    `json:"discards"`
	Quads         [][4]Tile `json:"quads"`
	IsRiichi      bool      `json:"isRiichi"`
	RiichiTurn    int       `json:"riichiTurn,omitempty"`
	LiveCount     int       `json:"liveCount"`
	DeadWallCount int       `json:"deadWallCount"`
	Shanten       int       `json:"shanten"`
	CanWin        bool      `json:"canWin"`
	IsWinner      bool      `json:"isWinner"`
	WinningTile   Tile      `json:"winningTile,omitempty"`
}

type SoloEngine struct {
	Searcher    *Searcher    // 和牌 / 向听搜索，可在引擎间共享
	Wall        *Wall        // 牌山
	Player      *PlayerImage // 玩家状态
	TurnManager *TurnManager // 回合管理

	diag    engines.Diagnostics
	history []ActionRecord
}

// NewSoloEngine searcher/wall/diag 均可为 nil
func NewSoloEngine(searcher *Searcher, wall *Wall, diag engines.Diagnostics) *SoloEngine {
	if searcher == nil {
		searcher = NewSearcher(nil)
	}
	if wall == nil {
		wall = NewWall(nil)
	}
	return &SoloEngine{
		Searcher:    searcher,
		Wall:        wall,
		Player:      NewPlayerImage(),
		TurnManager: NewTurnManager(),
		diag:        engines.OrNop(diag),
	}
}

// ---------------- 命令 ----------------

// Start 配牌 13 张
func (eg *SoloEngine) Start() (*StartResult, error) {
	if err := eg.TurnManager.Require(ActionStart); err != nil {
		return nil, eg.reject(err)
	}
	tiles, err := eg.Wall.DrawN(InitialHand)
	if err != nil {
		return nil, eg.reject(newActionError(ActionStart, eg.State(), err, ""))
	}
	for _, t := range tiles {
		// 空手牌加 13 张不会失败
		_ = eg.Player.Hand.Add(t)
	}
	eg.TurnManager.Begin()
	eg.record(ActionStart, TileNull)
	eg.diag.Info("开局，配牌: %s", eg.Player.Hand)
	eg.dump()

	return &StartResult{Hand: eg.Player.Hand.Tiles(), Shanten: eg.Shanten()}, nil
}

// Draw 摸牌，牌山已空时流局
func (eg *SoloEngine) Draw() (*DrawResult, error) {
	if err := eg.TurnManager.Require(ActionDraw); err != nil {
		return nil, eg.reject(err)
	}
	state := eg.State()
	if want := eg.Player.ExpectedHandSize(false); eg.Player.Hand.Size() != want {
		return nil, eg.reject(newActionError(ActionDraw, state, ErrInvalidState,
			"hand has %d tiles, want %d", eg.Player.Hand.Size(), want))
	}
	if eg.Wall.IsEmpty() {
		eg.TurnManager.SetState(StateGameOver)
		eg.diag.Info("牌山已空，流局，巡目: %d", eg.Turn())
		eg.dump()
		return nil, newActionError(ActionDraw, state, ErrWallExhausted, "")
	}

	tile, err := eg.Wall.Draw()
	if err != nil {
		return nil, eg.reject(newActionError(ActionDraw, state, err, ""))
	}
	_ = eg.Player.Hand.Add(tile)
	eg.Player.SetNewestTile(tile)
	if state == StateRiichiDraw {
		eg.TurnManager.SetState(StateRiichiDiscard)
	} else {
		eg.TurnManager.SetState(StateAfterDraw)
	}
	eg.record(ActionDraw, tile)
	eg.diag.Info("摸牌: %s", tile)
	eg.dump()

	return &DrawResult{
		Tile:      tile,
		CanWin:    eg.CanWin(),
		Shanten:   eg.Shanten(),
		LiveCount: eg.Wall.LiveCount(),
	}, nil
}

// Discard 出牌，declareRiichi 为 true 时同时宣言立直
func (eg *SoloEngine) Discard(tile Tile, declareRiichi bool) (*DiscardResult, error) {
	action := ActionDiscard
	if declareRiichi {
		action = ActionRiichi
	}
	if err := eg.TurnManager.Require(action); err != nil {
		return nil, eg.reject(err)
	}
	state := eg.State()
	if !eg.Player.Hand.Has(tile) {
		return nil, eg.reject(newActionError(action, state, ErrTileNotInHand, "%s", tile))
	}
	if state.IsRiichi() {
		if declareRiichi {
			return nil, eg.reject(newActionError(action, state, ErrIllegalRiichi, "riichi already declared"))
		}
		if tile != eg.Player.NewestTile {
			return nil, eg.reject(newActionError(action, state, ErrTsumogiri,
				"drawn %s, got %s", eg.Player.NewestTile, tile))
		}
	}
	if declareRiichi {
		work := eg.Player.Hand.Counts()
		work[tile.index()]--
		if sh := eg.Searcher.ShantenAll(work, eg.Player.QuadCount()); sh != 0 {
			return nil, eg.reject(newActionError(action, state, ErrIllegalRiichi,
				"shanten after discarding %s is %d", tile, sh))
		}
	}

	_ = eg.Player.Hand.Remove(tile)
	eg.Player.AddDiscard(tile)
	eg.Player.SetNewestTile(TileNull)
	if declareRiichi {
		eg.Player.IsRiichi = true
		eg.Player.RiichiTurn = eg.Turn()
	}
	eg.record(action, tile)
	eg.TurnManager.NextTurn()
	if eg.Player.IsRiichi {
		eg.TurnManager.SetState(StateRiichiDraw)
	} else {
		eg.TurnManager.SetState(StatePlayerTurn)
	}
	if declareRiichi {
		eg.diag.Info("立直，打出: %s", tile)
	} else {
		eg.diag.Info("出牌: %s", tile)
	}
	eg.dump()

	waits, ukeire := eg.Waits()
	return &DiscardResult{
		Tile:    tile,
		Riichi:  declareRiichi,
		Turn:    eg.Turn(),
		Shanten: eg.Shanten(),
		Waits:   waits,
		Ukeire:  ukeire,
	}, nil
}

// DeclareWin 自摸和了，tile 为 TileNull 时取最新摸的牌
func (eg *SoloEngine) DeclareWin(tile Tile) (*WinResult, error) {
	if err := eg.TurnManager.Require(ActionWin); err != nil {
		return nil, eg.reject(err)
	}
	state := eg.State()
	if tile == TileNull {
		tile = eg.Player.NewestTile
	}
	if !eg.Player.Hand.Has(tile) {
		return nil, eg.reject(newActionError(ActionWin, state, ErrTileNotInHand, "%s", tile))
	}
	if !eg.CanWin() {
		return nil, eg.reject(newActionError(ActionWin, state, ErrInvalidState, "hand %s is not complete", eg.Player.Hand))
	}

	eg.Player.IsWinner = true
	eg.Player.WinningTile = tile
	eg.TurnManager.SetState(StateGameOver)
	eg.record(ActionWin, tile)
	eg.diag.Info("自摸和了: %s，手牌: %s，巡目: %d", tile, eg.Player.Hand, eg.Turn())
	eg.dump()

	return &WinResult{
		Tile:   tile,
		Turn:   eg.Turn(),
		Riichi: eg.Player.IsRiichi,
		Quads:  eg.Player.QuadCount(),
		Hand:   eg.Player.Hand.Tiles(),
	}, nil
}

// ConcealedQuad 暗杠并从岭上补牌，之后仍需出牌
func (eg *SoloEngine) ConcealedQuad(tile Tile) (*QuadResult, error) {
	state := eg.State()
	if state.IsRiichi() {
		return nil, eg.reject(newActionError(ActionQuad, state, ErrIllegalQuad, "riichi declared"))
	}
	if err := eg.TurnManager.Require(ActionQuad); err != nil {
		return nil, eg.reject(err)
	}
	if n := eg.Player.Hand.Count(tile); n != 4 {
		return nil, eg.reject(newActionError(ActionQuad, state, ErrIllegalQuad, "%d copies of %s in hand", n, tile))
	}
	if eg.Wall.DeadWallCount() == 0 {
		return nil, eg.reject(newActionError(ActionQuad, state, ErrIllegalQuad, "dead wall is empty"))
	}

	replacement, err := eg.Wall.DrawReplacement()
	if err != nil {
		return nil, eg.reject(newActionError(ActionQuad, state, ErrIllegalQuad, "%v", err))
	}
	for i := 0; i < 4; i++ {
		_ = eg.Player.Hand.Remove(tile)
	}
	eg.Player.AddQuad(tile)
	_ = eg.Player.Hand.Add(replacement)
	eg.Player.SetNewestTile(replacement)
	eg.record(ActionQuad, tile)
	eg.diag.Info("暗杠: %s，岭上补牌: %s", tile, replacement)
	eg.dump()

	return &QuadResult{
		Tile:        tile,
		Replacement: replacement,
		CanWin:      eg.CanWin(),
		Shanten:     eg.Shanten(),
	}, nil
}

// Reset 任何状态下都可以重新开始，牌山重新洗牌
func (eg *SoloEngine) Reset() {
	eg.Player.Reset()
	eg.Wall.Reset()
	eg.TurnManager.Reset()
	eg.history = nil
	eg.diag.Info("重置对局")
}

// ---------------- 查询 ----------------

func (eg *SoloEngine) State() TurnState {
	return eg.TurnManager.GetState()
}

func (eg *SoloEngine) Turn() int {
	return eg.TurnManager.GetTurn()
}

// Hand 手牌副本，升序
func (eg *SoloEngine) Hand() []Tile {
	return eg.Player.Hand.Tiles()
}

func (eg *SoloEngine) IsRiichi() bool {
	return eg.Player.IsRiichi
}

func (eg *SoloEngine) Discards() []Tile {
	return eg.Player.Discards()
}

func (eg *SoloEngine) Quads() [][4]Tile {
	return eg.Player.QuadTiles()
}

// LastDrawn 最新摸的牌，出牌后清空
func (eg *SoloEngine) LastDrawn() (Tile, bool) {
	return eg.Player.GetNewestTile()
}

func (eg *SoloEngine) LiveCount() int {
	return eg.Wall.LiveCount()
}

func (eg *SoloEngine) DeadWallCount() int {
	return eg.Wall.DeadWallCount()
}

// Shanten 当前手牌向听数，暗杠计为已完成面子
func (eg *SoloEngine) Shanten() int {
	return eg.Searcher.ShantenAll(eg.Player.Hand.Counts(), eg.Player.QuadCount())
}

// Waits 等待摸牌时，活牌堆中能和牌的牌及进张数
func (eg *SoloEngine) Waits() ([]Tile, int) {
	if !eg.State().AwaitingDraw() || eg.Player.Hand.Size() != eg.Player.ExpectedHandSize(false) {
		return nil, 0
	}
	return eg.Searcher.Waits(eg.Player.Hand.Counts(), eg.Player.QuadCount(), eg.Wall.Distribution())
}

// CanWin 等待出牌且手牌完整
func (eg *SoloEngine) CanWin() bool {
	if !eg.State().AwaitingDiscard() || eg.Player.Hand.Size() != eg.Player.ExpectedHandSize(true) {
		return false
	}
	return eg.Searcher.IsAgariAll(eg.Player.Hand.Counts(), eg.Player.QuadCount())
}

// IsWinningNow 同 CanWin
func (eg *SoloEngine) IsWinningNow() bool {
	return eg.CanWin()
}

func (eg *SoloEngine) CanDraw() bool {
	return eg.State().AwaitingDraw() && !eg.Wall.IsEmpty()
}

func (eg *SoloEngine) CanDiscard() bool {
	return eg.State().AwaitingDiscard()
}

func (eg *SoloEngine) CanRiichi() bool {
	return len(eg.RiichiDiscards()) > 0
}

func (eg *SoloEngine) CanQuad() bool {
	return len(eg.QuadCandidates()) > 0
}

func (eg *SoloEngine) IsGameOver() bool {
	return eg.State() == StateGameOver
}

func (eg *SoloEngine) IsWinner() bool {
	return eg.Player.IsWinner
}

func (eg *SoloEngine) WinningTile() (Tile, bool) {
	return eg.Player.WinningTile, eg.Player.IsWinner
}

// QuadCandidates 可以暗杠的牌
func (eg *SoloEngine) QuadCandidates() []Tile {
	if eg.State() != StateAfterDraw || eg.Wall.DeadWallCount() == 0 {
		return nil
	}
	var out []Tile
	counts := eg.Player.Hand.Counts()
	for i, c := range counts {
		if c == 4 {
			out = append(out, Tile(i+1))
		}
	}
	return out
}

// RiichiCandidates 立直打法：打出后听牌的牌、听牌与进张
func (eg *SoloEngine) RiichiCandidates() []Candidate {
	if eg.State() != StateAfterDraw {
		return nil
	}
	return eg.Searcher.DiscardCandidates(eg.Player.Hand.Counts(), eg.Player.QuadCount(), eg.Wall.Distribution())
}

// RiichiDiscards 现在可以立直宣言打出的牌
func (eg *SoloEngine) RiichiDiscards() []Tile {
	cands := eg.RiichiCandidates()
	if len(cands) == 0 {
		return nil
	}
	out := make([]Tile, 0, len(cands))
	for _, c := range cands {
		out = append(out, c.Discard)
	}
	return out
}

// PossibleDiscards 立直后只能摸切
func (eg *SoloEngine) PossibleDiscards() []Tile {
	switch eg.State() {
	case StateAfterDraw:
		return eg.Player.Hand.Unique()
	case StateRiichiDiscard:
		return []Tile{eg.Player.NewestTile}
	default:
		return nil
	}
}

// History 本局动作记录副本
func (eg *SoloEngine) History() []ActionRecord {
	return append([]ActionRecord(nil), eg.history...)
}

func (eg *SoloEngine) Info() GameInfo {
	return GameInfo{
		Engine:        engines.SOLO_SOUZU_ENGINE.String(),
		State:         eg.State().String(),
		Turn:          eg.Turn(),
		Hand:          eg.Player.Hand.Tiles(),
		HandText:      eg.Player.Hand.String(),
		HandSize:      eg.Player.Hand.Size(),
		LastDrawn:     eg.Player.NewestTile,
		Discards:      eg.Player.Discards(),
		Quads:         eg.Player.QuadTiles(),
		IsRiichi:      eg.Player.IsRiichi,
		RiichiTurn:    eg.Player.RiichiTurn,
		LiveCount:     eg.Wall.LiveCount(),
		DeadWallCount: eg.Wall.DeadWallCount(),
		Shanten:       eg.Shanten(),
		CanWin:        eg.CanWin(),
		IsWinner:      eg.Player.IsWinner,
		WinningTile:   eg.Player.WinningTile,
	}
}

// ---------------- 内部 ----------------

func (eg *SoloEngine) record(action Action, tile Tile) {
	eg.history = append(eg.history, ActionRecord{
		Sequence: len(eg.history) + 1,
		Action:   action,
		Tile:     tile,
		Turn:     eg.Turn(),
		At:       time.Now(),
	})
}

func (eg *SoloEngine) reject(err error) error {
	eg.diag.Warn("%v", err)
	return err
}

func (eg *SoloEngine) dump() {
	eg.diag.Debug("%s", eg.describe())
}

func (eg *SoloEngine) describe() string {
	return fmt.Sprintf("state=%s turn=%d hand=%s quads=%d discards=%d live=%d dead=%d shanten=%d riichi=%t",
		eg.State(), eg.Turn(), eg.Player.Hand, eg.Player.QuadCount(), len(eg.Player.DiscardPile),
		eg.Wall.LiveCount(), eg.Wall.DeadWallCount(), eg.Shanten(), eg.Player.IsRiichi)
}
