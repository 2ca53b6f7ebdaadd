package mahjong

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"
)

type recorder struct {
	debug, info, warn []string
}

func (r *recorder) Debug(format string, args ...any) { r.debug = append(r.debug, fmt.Sprintf(format, args...)) }
func (r *recorder) Info(format string, args ...any) { r.info = append(r.info, fmt.Sprintf(format, args...)) }
func (r *recorder) Warn(format string, args ...any) { r.warn = append(r.warn, fmt.Sprintf(format, args...)) }

func mustStart(t *testing.T, eg *SoloEngine) {
	t.Helper()
	if _, err := eg.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
}

func mustDraw(t *testing.T, eg *SoloEngine) *DrawResult {
	t.Helper()
	res, err := eg.Draw()
	if err != nil {
		t.Fatalf("Draw: %v", err)
	}
	return res
}

func checkConservation(t *testing.T, eg *SoloEngine) {
	t.Helper()
	inPlay := eg.Player.Hand.Size() + len(eg.Discards()) + 4*len(eg.Quads())
	if eg.Wall.DrawnCount() != inPlay {
		t.Fatalf("drawn %d tiles but %d are in play", eg.Wall.DrawnCount(), inPlay)
	}
}

func TestStartDealsThirteen(t *testing.T) {
	eg := NewSoloEngine(nil, NewWall(rand.New(rand.NewSource(9))), nil)
	if eg.State() != StateNotStarted {
		t.Fatalf("expected not_started, got %s", eg.State())
	}
	res, err := eg.Start()
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if len(res.Hand) != InitialHand || eg.Player.Hand.Size() != InitialHand {
		t.Fatalf("expected 13 tiles, got %d", len(res.Hand))
	}
	if eg.State() != StatePlayerTurn || eg.Turn() != 1 {
		t.Fatalf("expected player_turn turn 1, got %s turn %d", eg.State(), eg.Turn())
	}
	if eg.LiveCount() != TotalTiles-DeadWallSize-InitialHand {
		t.Fatalf("unexpected live count %d", eg.LiveCount())
	}
	checkConservation(t, eg)

	if _, err := eg.Start(); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("second Start expected ErrInvalidState, got %v", err)
	}
}

func TestInvalidTransitions(t *testing.T) {
	eg := newStackedEngine(t, "1111222233334", "")

	if _, err := eg.Draw(); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("draw before start expected ErrInvalidState, got %v", err)
	}
	mustStart(t, eg)
	if _, err := eg.Discard(1, false); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("discard before draw expected ErrInvalidState, got %v", err)
	}
	if _, err := eg.DeclareWin(TileNull); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("win before draw expected ErrInvalidState, got %v", err)
	}
	if _, err := eg.ConcealedQuad(1); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("quad before draw expected ErrInvalidState, got %v", err)
	}

	mustDraw(t, eg)
	before := eg.Hand()
	_, err := eg.Discard(9, false)
	if err == nil {
		t.Fatalf("expected discard of a missing tile to fail, hand %v", before)
	}
	var ae *ActionError
	if !errors.As(err, &ae) || ae.Action != ActionDiscard || ae.State != StateAfterDraw {
		t.Fatalf("expected ActionError for discard in after_draw, got %#v", err)
	}
	if eg.State() != StateAfterDraw || len(eg.Hand()) != len(before) {
		t.Fatalf("failed discard changed state")
	}
}

func TestIllegalRiichiAndQuad(t *testing.T) {
	// 1111 3 5555 7 999 + 2：打 2 后仍是一向听
	eg := newStackedEngine(t, "11113555579992", "")
	mustStart(t, eg)
	if res := mustDraw(t, eg); res.Tile != 2 {
		t.Fatalf("expected to draw 2, got %s", res.Tile)
	}

	_, err := eg.Discard(2, true)
	if !errors.Is(err, ErrIllegalRiichi) {
		t.Fatalf("expected ErrIllegalRiichi, got %v", err)
	}
	if eg.Player.Hand.Size() != MaxHandSize || eg.State() != StateAfterDraw || eg.IsRiichi() || len(eg.Discards()) != 0 {
		t.Fatalf("failed riichi changed state: %+v", eg.Info())
	}
	if containsTile(eg.RiichiDiscards(), 2) {
		t.Fatalf("2 must not be listed as a riichi discard")
	}

	cands := eg.QuadCandidates()
	if len(cands) != 2 || cands[0] != 1 || cands[1] != 5 {
		t.Fatalf("expected quad candidates [1 5], got %v", cands)
	}

	_, err = eg.ConcealedQuad(9)
	if !errors.Is(err, ErrIllegalQuad) {
		t.Fatalf("quad with three copies expected ErrIllegalQuad, got %v", err)
	}
	if eg.Player.Hand.Size() != MaxHandSize || eg.DeadWallCount() != DeadWallSize {
		t.Fatalf("failed quad changed hand or dead wall")
	}

	res, err := eg.ConcealedQuad(5)
	if err != nil {
		t.Fatalf("ConcealedQuad(5): %v", err)
	}
	if res.Replacement != 9 {
		t.Fatalf("expected replacement 9, got %s", res.Replacement)
	}
	if last, ok := eg.LastDrawn(); !ok || last != 9 {
		t.Fatalf("replacement should be the last drawn tile, got %v", last)
	}
	if eg.State() != StateAfterDraw || eg.Player.Hand.Size() != 11 || eg.DeadWallCount() != DeadWallSize-1 {
		t.Fatalf("unexpected state after quad: %+v", eg.Info())
	}
	if eg.Player.Hand.Has(5) || len(eg.Quads()) != 1 || eg.Quads()[0] != [4]Tile{5, 5, 5, 5} {
		t.Fatalf("quad not recorded: %v", eg.Quads())
	}
	checkConservation(t, eg)

	if _, err := eg.Discard(2, false); err != nil {
		t.Fatalf("Discard(2): %v", err)
	}
	if eg.State() != StatePlayerTurn || eg.Player.Hand.Size() != 10 || eg.Turn() != 2 {
		t.Fatalf("unexpected state after discard: %+v", eg.Info())
	}
	if res := mustDraw(t, eg); res.Tile != 1 {
		t.Fatalf("expected to draw 1, got %s", res.Tile)
	}
	if eg.Player.Hand.Size() != 11 {
		t.Fatalf("hand with one quad should hold 11 tiles after draw, got %d", eg.Player.Hand.Size())
	}
	checkConservation(t, eg)
}

func TestRiichiFlow(t *testing.T) {
	// 九莲宝灯听牌 + 5
	eg := newStackedEngine(t, "11123456789995", "")
	mustStart(t, eg)
	if res := mustDraw(t, eg); res.Tile != 5 || !res.CanWin {
		t.Fatalf("expected to draw 5 into a complete hand, got %+v", res)
	}
	if !eg.CanRiichi() || !containsTile(eg.RiichiDiscards(), 5) {
		t.Fatalf("expected riichi by discarding 5, got %v", eg.RiichiDiscards())
	}

	res, err := eg.Discard(5, true)
	if err != nil {
		t.Fatalf("riichi discard: %v", err)
	}
	if !res.Riichi || eg.State() != StateRiichiDraw || !eg.IsRiichi() || eg.Player.RiichiTurn != 1 {
		t.Fatalf("unexpected riichi state: %+v", eg.Info())
	}
	// 9 全部在手里或岭上
	if containsTile(res.Waits, 9) || len(res.Waits) != 8 {
		t.Fatalf("expected waits 1-8, got %v", res.Waits)
	}

	if d := mustDraw(t, eg); d.Tile != 1 || !d.CanWin {
		t.Fatalf("expected to draw winning 1, got %+v", d)
	}
	if eg.State() != StateRiichiDiscard {
		t.Fatalf("expected riichi_discard, got %s", eg.State())
	}
	if got := eg.PossibleDiscards(); len(got) != 1 || got[0] != 1 {
		t.Fatalf("only the drawn tile may be discarded, got %v", got)
	}

	if _, err := eg.Discard(2, false); !errors.Is(err, ErrTsumogiri) {
		t.Fatalf("expected ErrTsumogiri, got %v", err)
	}
	if _, err := eg.Discard(1, true); !errors.Is(err, ErrIllegalRiichi) {
		t.Fatalf("second riichi expected ErrIllegalRiichi, got %v", err)
	}
	if _, err := eg.ConcealedQuad(1); !errors.Is(err, ErrIllegalQuad) {
		t.Fatalf("quad in riichi expected ErrIllegalQuad, got %v", err)
	}
	if eg.Player.Hand.Size() != MaxHandSize || eg.State() != StateRiichiDiscard {
		t.Fatalf("rejected actions changed state")
	}

	if _, err := eg.Discard(1, false); err != nil {
		t.Fatalf("tsumogiri: %v", err)
	}
	if eg.State() != StateRiichiDraw {
		t.Fatalf("expected riichi_draw, got %s", eg.State())
	}

	mustDraw(t, eg)
	win, err := eg.DeclareWin(TileNull)
	if err != nil {
		t.Fatalf("DeclareWin: %v", err)
	}
	if win.Tile != 1 || !win.Riichi || win.Turn != 3 {
		t.Fatalf("unexpected win result %+v", win)
	}
	if !eg.IsGameOver() || !eg.IsWinner() {
		t.Fatalf("expected game over with winner")
	}
	if tile, ok := eg.WinningTile(); !ok || tile != 1 {
		t.Fatalf("expected winning tile 1, got %v", tile)
	}
	if _, err := eg.Draw(); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("draw after game over expected ErrInvalidState, got %v", err)
	}
}

func TestQuadReplacementWin(t *testing.T) {
	eg := newStackedEngine(t, "11112345679988", "8")
	mustStart(t, eg)
	mustDraw(t, eg)
	if eg.CanWin() {
		t.Fatalf("hand %v should not be complete before the quad", eg.Hand())
	}

	res, err := eg.ConcealedQuad(1)
	if err != nil {
		t.Fatalf("ConcealedQuad: %v", err)
	}
	if res.Replacement != 8 || !res.CanWin || res.Shanten != -1 {
		t.Fatalf("expected replacement-draw win, got %+v", res)
	}
	win, err := eg.DeclareWin(8)
	if err != nil {
		t.Fatalf("DeclareWin: %v", err)
	}
	if win.Quads != 1 || len(win.Hand) != 11 {
		t.Fatalf("unexpected win result %+v", win)
	}
	checkConservation(t, eg)
}

func TestDeclareWinRequiresCompleteHand(t *testing.T) {
	eg := newStackedEngine(t, "11113555579992", "")
	mustStart(t, eg)
	mustDraw(t, eg)
	if _, err := eg.DeclareWin(2); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
	if _, err := eg.DeclareWin(8); !errors.Is(err, ErrTileNotInHand) {
		t.Fatalf("expected ErrTileNotInHand, got %v", err)
	}
	if eg.IsGameOver() || eg.IsWinner() {
		t.Fatalf("failed win changed state")
	}
}

func TestWallExhaustion(t *testing.T) {
	eg := NewSoloEngine(nil, NewWall(rand.New(rand.NewSource(5))), nil)
	mustStart(t, eg)

	draws := 0
	for eg.CanDraw() {
		res := mustDraw(t, eg)
		if _, err := eg.Discard(res.Tile, false); err != nil {
			t.Fatalf("Discard: %v", err)
		}
		draws++
		checkConservation(t, eg)
	}
	if draws != TotalTiles-DeadWallSize-InitialHand {
		t.Fatalf("expected %d draws, got %d", TotalTiles-DeadWallSize-InitialHand, draws)
	}

	_, err := eg.Draw()
	if !IsWallExhausted(err) {
		t.Fatalf("expected wall exhausted, got %v", err)
	}
	var ae *ActionError
	if !errors.As(err, &ae) || ae.Action != ActionDraw || ae.State != StatePlayerTurn {
		t.Fatalf("expected ActionError from player_turn, got %#v", err)
	}
	if !eg.IsGameOver() || eg.IsWinner() {
		t.Fatalf("expected game over without winner, state %s", eg.State())
	}
	if eg.Turn() != draws+1 || len(eg.Discards()) != draws {
		t.Fatalf("unexpected turn %d / discards %d", eg.Turn(), len(eg.Discards()))
	}
}

func TestWaitsAfterStart(t *testing.T) {
	eg := newStackedEngine(t, "1112345678999", "5555")
	mustStart(t, eg)
	waits, ukeire := eg.Waits()
	if len(waits) != RankCount {
		t.Fatalf("expected 9 waits, got %v", waits)
	}
	if ukeire != eg.LiveCount() {
		t.Fatalf("every live tile completes nine gates, expected %d, got %d", eg.LiveCount(), ukeire)
	}

	mustDraw(t, eg)
	if w, _ := eg.Waits(); w != nil {
		t.Fatalf("waits are only defined while awaiting a draw, got %v", w)
	}
}

func TestResetFromAnyState(t *testing.T) {
	eg := newStackedEngine(t, "11123456789995", "")
	mustStart(t, eg)
	mustDraw(t, eg)
	if _, err := eg.Discard(5, true); err != nil {
		t.Fatalf("Discard: %v", err)
	}

	eg.Reset()
	if eg.State() != StateNotStarted || eg.Turn() != 0 {
		t.Fatalf("expected not_started turn 0, got %s %d", eg.State(), eg.Turn())
	}
	if len(eg.Hand()) != 0 || len(eg.Discards()) != 0 || len(eg.Quads()) != 0 || eg.IsRiichi() || len(eg.History()) != 0 {
		t.Fatalf("reset left state behind: %+v", eg.Info())
	}
	if eg.LiveCount() != TotalTiles-DeadWallSize || eg.DeadWallCount() != DeadWallSize {
		t.Fatalf("wall not reset: live %d dead %d", eg.LiveCount(), eg.DeadWallCount())
	}
	mustStart(t, eg)
	checkConservation(t, eg)
}

func TestHistoryAndInfo(t *testing.T) {
	eg := newStackedEngine(t, "11123456789995", "")
	mustStart(t, eg)
	mustDraw(t, eg)
	if _, err := eg.Discard(5, false); err != nil {
		t.Fatalf("Discard: %v", err)
	}

	history := eg.History()
	want := []Action{ActionStart, ActionDraw, ActionDiscard}
	if len(history) != len(want) {
		t.Fatalf("expected %d records, got %d", len(want), len(history))
	}
	for i, rec := range history {
		if rec.Action != want[i] || rec.Sequence != i+1 {
			t.Fatalf("record %d: %+v", i, rec)
		}
	}
	if history[2].Tile != 5 || history[2].Turn != 1 {
		t.Fatalf("discard record should carry tile and turn, got %+v", history[2])
	}

	info := eg.Info()
	if info.State != "player_turn" || info.Turn != 2 || info.HandSize != InitialHand || info.Shanten != 0 {
		t.Fatalf("unexpected info %+v", info)
	}
	if info.HandText != "1112345678999索" || len(info.Discards) != 1 {
		t.Fatalf("unexpected info %+v", info)
	}
}

func TestDiagnosticsAreInjected(t *testing.T) {
	rec := &recorder{}
	wall, _ := NewStackedWall(ts("1112345678999"), nil)
	eg := NewSoloEngine(nil, wall, rec)

	mustStart(t, eg)
	if _, err := eg.Discard(1, false); err == nil {
		t.Fatalf("expected rejection")
	}
	if len(rec.info) == 0 || len(rec.debug) == 0 {
		t.Fatalf("expected info and debug output, got %+v", rec)
	}
	if len(rec.warn) != 1 {
		t.Fatalf("expected one warning for the rejection, got %v", rec.warn)
	}
}

func TestTurnStatePredicates(t *testing.T) {
	tm := NewTurnManager()
	if !tm.Permits(ActionStart) || tm.Permits(ActionDraw) || !tm.Permits(ActionReset) {
		t.Fatalf("unexpected permissions in not_started")
	}
	tm.Begin()
	if tm.GetTurn() != 1 || !tm.GetState().AwaitingDraw() {
		t.Fatalf("Begin should enter player_turn with turn 1")
	}
	tm.SetState(StateRiichiDiscard)
	if !tm.GetState().IsRiichi() || !tm.GetState().AwaitingDiscard() || tm.Permits(ActionQuad) {
		t.Fatalf("unexpected predicates in riichi_discard")
	}
	if err := tm.Require(ActionStart); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
	tm.Reset()
	if tm.GetState() != StateNotStarted || tm.GetTurn() != 0 {
		t.Fatalf("Reset did not restore the manager")
	}
}

func TestRiichiOnPairWait(t *testing.T) {
	// 11 333 555 777 99 摸 6，打 6 后双碰听 1 和 9
	eg := newStackedEngine(t, "11333555777996", "")
	mustStart(t, eg)
	if got := eg.Shanten(); got != 0 {
		t.Fatalf("dealt hand should be tenpai, got shanten %d", got)
	}
	if res := mustDraw(t, eg); res.Tile != 6 || res.CanWin {
		t.Fatalf("expected to draw a dead 6, got %+v", res)
	}
	if !eg.CanRiichi() || !containsTile(eg.RiichiDiscards(), 6) {
		t.Fatalf("expected riichi by discarding 6, got %v", eg.RiichiDiscards())
	}

	res, err := eg.Discard(6, true)
	if err != nil {
		t.Fatalf("riichi discard: %v", err)
	}
	if !res.Riichi || res.Shanten != 0 || eg.State() != StateRiichiDraw {
		t.Fatalf("unexpected riichi result %+v in %s", res, eg.State())
	}
	// 剩下的 9 都在岭上
	if len(res.Waits) != 1 || res.Waits[0] != 1 || res.Ukeire != 4 {
		t.Fatalf("expected live wait on 1 only, got %v (%d)", res.Waits, res.Ukeire)
	}
	if d := mustDraw(t, eg); d.Tile != 1 || !d.CanWin {
		t.Fatalf("expected to draw winning 1, got %+v", d)
	}
}
