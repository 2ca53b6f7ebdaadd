package app

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"soumahjong/framework/game/engines/mahjong"
)

const helpText = `命令:
  start            配牌
  draw             摸牌
  discard <tile>   出牌
  riichi <tile>    立直并出牌
  kan <tile>       暗杠
  tsumo            自摸和了
  waits            听牌 / 可立直打法 / 可暗杠
  status           当前局面
  history          动作记录
  reset            重新开始
  help             帮助
  quit             退出`

type command func(eg *mahjong.SoloEngine, arg string, out io.Writer) error

var commands = map[string]command{
	"start":   cmdStart,
	"draw":    cmdDraw,
	"discard": func(eg *mahjong.SoloEngine, arg string, out io.Writer) error { return cmdDiscard(eg, arg, false, out) },
	"riichi":  func(eg *mahjong.SoloEngine, arg string, out io.Writer) error { return cmdDiscard(eg, arg, true, out) },
	"kan":     cmdQuad,
	"tsumo":   cmdWin,
	"waits":   cmdWaits,
	"status":  cmdStatus,
	"history": cmdHistory,
	"reset":   cmdReset,
}

// Play 逐行读取命令驱动一局，quit 或输入结束时返回
func Play(ctx context.Context, eg *mahjong.SoloEngine, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	fmt.Fprintln(out, "输入 help 查看命令")
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		name, arg := strings.ToLower(fields[0]), ""
		if len(fields) > 1 {
			arg = fields[1]
		}
		switch name {
		case "quit", "exit":
			return nil
		case "help":
			fmt.Fprintln(out, helpText)
			continue
		}
		cmd, ok := commands[name]
		if !ok {
			fmt.Fprintf(out, "未知命令: %s\n", name)
			continue
		}
		if err := cmd(eg, arg, out); err != nil {
			fmt.Fprintf(out, "错误: %v\n", err)
		}
	}
}

func cmdStart(eg *mahjong.SoloEngine, _ string, out io.Writer) error {
	res, err := eg.Start()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "配牌: %s 向听: %d\n", mahjong.FormatTiles(res.Hand), res.Shanten)
	return nil
}

func cmdDraw(eg *mahjong.SoloEngine, _ string, out io.Writer) error {
	res, err := eg.Draw()
	if mahjong.IsWallExhausted(err) {
		fmt.Fprintln(out, "牌山已空，流局")
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "摸牌: %s 手牌: %s 向听: %d 余牌: %d\n", res.Tile, eg.Player.Hand, res.Shanten, res.LiveCount)
	if res.CanWin {
		fmt.Fprintln(out, "可以自摸 (tsumo)")
	}
	return nil
}

func cmdDiscard(eg *mahjong.SoloEngine, arg string, riichi bool, out io.Writer) error {
	tile, err := mahjong.ParseTile(arg)
	if err != nil {
		return err
	}
	res, err := eg.Discard(tile, riichi)
	if err != nil {
		return err
	}
	if res.Riichi {
		fmt.Fprintf(out, "立直，打出: %s\n", res.Tile)
	} else {
		fmt.Fprintf(out, "打出: %s\n", res.Tile)
	}
	fmt.Fprintf(out, "手牌: %s 向听: %d\n", eg.Player.Hand, res.Shanten)
	if len(res.Waits) > 0 {
		fmt.Fprintf(out, "听牌: %s (%d 枚)\n", mahjong.FormatTiles(res.Waits), res.Ukeire)
	}
	return nil
}

func cmdQuad(eg *mahjong.SoloEngine, arg string, out io.Writer) error {
	tile, err := mahjong.ParseTile(arg)
	if err != nil {
		return err
	}
	res, err := eg.ConcealedQuad(tile)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "暗杠: %s 岭上: %s 手牌: %s 向听: %d\n", res.Tile, res.Replacement, eg.Player.Hand, res.Shanten)
	if res.CanWin {
		fmt.Fprintln(out, "可以自摸 (tsumo)")
	}
	return nil
}

func cmdWin(eg *mahjong.SoloEngine, _ string, out io.Writer) error {
	res, err := eg.DeclareWin(mahjong.TileNull)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "自摸和了: %s 手牌: %s 巡目: %d\n", res.Tile, mahjong.FormatTiles(res.Hand), res.Turn)
	return nil
}

func cmdWaits(eg *mahjong.SoloEngine, _ string, out io.Writer) error {
	if eg.CanDraw() {
		waits, ukeire := eg.Waits()
		fmt.Fprintf(out, "听牌: %s (%d 枚)\n", mahjong.FormatTiles(waits), ukeire)
		return nil
	}
	if eg.CanRiichi() {
		for _, c := range eg.RiichiCandidates() {
			fmt.Fprintf(out, "立直打 %s 听 %s (%d 枚)\n", c.Discard, mahjong.FormatTiles(c.Waits), c.Ukeire)
		}
	}
	if quads := eg.QuadCandidates(); len(quads) > 0 {
		fmt.Fprintf(out, "可暗杠: %s\n", mahjong.FormatTiles(quads))
	}
	fmt.Fprintf(out, "向听: %d\n", eg.Shanten())
	return nil
}

func cmdStatus(eg *mahjong.SoloEngine, _ string, out io.Writer) error {
	info := eg.Info()
	fmt.Fprintf(out, "状态: %s 巡目: %d 手牌: %s 向听: %d\n", info.State, info.Turn, info.HandText, info.Shanten)
	fmt.Fprintf(out, "牌河: %s 暗杠: %d 立直: %t 余牌: %d 岭上: %d\n",
		mahjong.FormatTiles(info.Discards), len(info.Quads), info.IsRiichi, info.LiveCount, info.DeadWallCount)
	if info.IsWinner {
		fmt.Fprintf(out, "和了牌: %s\n", info.WinningTile)
	}
	return nil
}

func cmdHistory(eg *mahjong.SoloEngine, _ string, out io.Writer) error {
	for _, r := range eg.History() {
		if r.Tile.Valid() {
			fmt.Fprintf(out, "%d. [%d] %s %s\n", r.Sequence, r.Turn, r.Action, r.Tile)
		} else {
			fmt.Fprintf(out, "%d. [%d] %s\n", r.Sequence, r.Turn, r.Action)
		}
	}
	return nil
}

func cmdReset(eg *mahjong.SoloEngine, _ string, out io.Writer) error {
	eg.Reset()
	fmt.Fprintln(out, "已重置，输入 start 开局")
	return nil
}
