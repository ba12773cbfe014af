package calc

import (
	"github.com/zintix-labs/reelspin/sdk/buf"
	"github.com/zintix-labs/reelspin/spec"
)

// Execute 逐線計算派彩。
//
// 只有 index < maxLines 的線可以派彩；派彩 = betPerLine * 單位賠率 * storage 帶入的倍數。
// 是否中線只看倍數前的金額，倍數為 0 時中線仍會列出，派彩為 0。
// 本局盤面的免費旋轉只寫入 ExitStorage，不影響本局派彩。
func Execute(maxLines int, betPerLine int, ms *spec.MachineSetting, grid *buf.Grid, mask [][]int, storage *buf.Storage) *buf.Result {
	res := buf.NewResult()
	res.Grid = grid
	mult := storage.Multiplier()
	wild, hasWild := ms.WildIndex()

	for i, ss := range mask {
		if i >= maxLines {
			break
		}
		sym, combo, wc := evalLine(ss, wild, hasWild)
		base := betPerLine * ms.Prize(sym, combo)
		if base == 0 {
			continue
		}
		res.AddLine(buf.LineWin{
			Index: i,
			Combo: combo,
			Prize: base * mult,
			WC:    wc,
			SS:    ss,
		})
	}

	res.ExitStorage = Digest(storage, grid)
	return res
}

// evalLine 回傳連線的基準圖標、由左起連續長度與其中的百搭數。
//
// 基準圖標為第一個非百搭圖標；整條都是百搭時基準就是百搭本身。
func evalLine(ss []int, wild int, hasWild bool) (sym int, combo int, wc int) {
	if len(ss) == 0 {
		return -1, 0, 0
	}
	sym = ss[0]
	if hasWild {
		for _, s := range ss {
			sym = s
			if s != wild {
				break
			}
		}
	}
	for _, s := range ss {
		switch {
		case hasWild && s == wild:
			combo++
			wc++
		case s == sym:
			combo++
		default:
			return sym, combo, wc
		}
	}
	return sym, combo, wc
}
