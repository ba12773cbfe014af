// Copyright 2025 Zintix Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package calc

import (
	"reflect"
	"testing"

	"github.com/zintix-labs/reelspin/sdk/buf"
	"github.com/zintix-labs/reelspin/spec"
)

func mustInit(t *testing.T, ms *spec.MachineSetting) *spec.MachineSetting {
	t.Helper()
	if err := ms.Init(); err != nil {
		t.Fatalf("init setting: %v", err)
	}
	return ms
}

func gridOf(rows ...[]int) *buf.Grid {
	return &buf.Grid{Symbols: rows, FreeSpin: buf.FreeSpin{Multiplier: 1}}
}

func single(t *testing.T) *spec.MachineSetting {
	return mustInit(t, &spec.MachineSetting{
		GameName:   "single",
		Rows:       1,
		Reels:      [][]int{{1}, {1}, {1}},
		Lines:      [][]int{{0, 0, 0}},
		PrizeTable: map[int][]int{0: {0, 0, 5}},
	})
}

func wildSetting(t *testing.T) *spec.MachineSetting {
	return mustInit(t, &spec.MachineSetting{
		GameName: "wild",
		Rows:     3,
		Reels:    [][]int{{1, 1, 1, 1}, {1, 1, 1, 1}, {1, 1, 1, 1}},
		Lines:    [][]int{{0, 0, 0}, {1, 1, 1}, {2, 2, 2}, {0, 1, 2}},
		PrizeTable: map[int][]int{
			0: {0, 2, 10},
			1: {0, 1, 4},
			2: {0, 0, 50},
		},
		Wild: &spec.WildSetting{Index: 2},
	})
}

func TestConcreteScenario(t *testing.T) {
	ms := single(t)
	grid := gridOf([]int{0, 0, 0})
	mask := Mask(ms, grid)
	if !reflect.DeepEqual(mask, [][]int{{0, 0, 0}}) {
		t.Fatalf("unexpected mask %v", mask)
	}

	res := Execute(1, 2, ms, grid, mask, nil)
	if res.Prize != 10 {
		t.Fatalf("expected prize 10, got %d", res.Prize)
	}
	want := []buf.LineWin{{Index: 0, Combo: 3, Prize: 10, WC: 0, SS: []int{0, 0, 0}}}
	if !reflect.DeepEqual(res.Lines, want) {
		t.Fatalf("unexpected lines %+v", res.Lines)
	}
	if res.ExitStorage.FreeSpin == nil || *res.ExitStorage.FreeSpin != (buf.FreeSpin{Multiplier: 1}) {
		t.Fatalf("unexpected exit storage %+v", res.ExitStorage.FreeSpin)
	}
}

func TestMaskProjection(t *testing.T) {
	ms := wildSetting(t)
	grid := gridOf(
		[]int{0, 1, 2},
		[]int{3, 0, 1},
		[]int{2, 3, 0},
	)
	want := [][]int{{0, 1, 2}, {3, 0, 1}, {2, 3, 0}, {0, 0, 0}}
	if got := Mask(ms, grid); !reflect.DeepEqual(got, want) {
		t.Fatalf("want %v got %v", want, got)
	}
}

func TestEvalLine(t *testing.T) {
	cases := []struct {
		name    string
		ss      []int
		hasWild bool
		sym     int
		combo   int
		wc      int
	}{
		{"no wild full", []int{1, 1, 1}, false, 1, 3, 0},
		{"no wild break", []int{1, 1, 0}, false, 1, 2, 0},
		{"no wild treats 2 as plain", []int{2, 1, 1}, false, 2, 1, 0},
		{"leading wild", []int{2, 0, 0}, true, 0, 3, 1},
		{"wild in middle", []int{0, 2, 0}, true, 0, 3, 1},
		{"wild then break", []int{2, 1, 0}, true, 1, 2, 1},
		{"all wild", []int{2, 2, 2}, true, 2, 3, 3},
		{"no resume after break", []int{0, 1, 0}, true, 0, 1, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sym, combo, wc := evalLine(tc.ss, 2, tc.hasWild)
			if sym != tc.sym || combo != tc.combo || wc != tc.wc {
				t.Fatalf("want (%d,%d,%d) got (%d,%d,%d)", tc.sym, tc.combo, tc.wc, sym, combo, wc)
			}
		})
	}
}

func TestAllWildLine(t *testing.T) {
	ms := wildSetting(t)
	grid := gridOf(
		[]int{2, 2, 2},
		[]int{3, 3, 3},
		[]int{3, 3, 3},
	)
	res := Execute(4, 1, ms, grid, Mask(ms, grid), nil)
	if len(res.Lines) != 1 {
		t.Fatalf("expected one line, got %+v", res.Lines)
	}
	lw := res.Lines[0]
	if lw.Combo != 3 || lw.WC != 3 || lw.Prize != 50 {
		t.Fatalf("unexpected all-wild line %+v", lw)
	}
}

func TestMaxLinesBoundary(t *testing.T) {
	ms := wildSetting(t)
	grid := gridOf(
		[]int{0, 0, 0},
		[]int{1, 1, 1},
		[]int{0, 0, 0},
	)
	mask := Mask(ms, grid)

	all := Execute(4, 1, ms, grid, mask, nil)
	if all.Prize != 10+4+10 {
		t.Fatalf("expected 24 over all lines, got %d", all.Prize)
	}
	two := Execute(2, 1, ms, grid, mask, nil)
	if two.Prize != 14 || len(two.Lines) != 2 {
		t.Fatalf("expected only lines 0,1 to pay, got %+v", two.Lines)
	}
	for _, lw := range two.Lines {
		if lw.Index >= 2 {
			t.Fatalf("line %d must not pay", lw.Index)
		}
	}
	none := Execute(0, 1, ms, grid, mask, nil)
	if none.Prize != 0 || len(none.Lines) != 0 {
		t.Fatalf("maxLines 0 must pay nothing")
	}
}

func TestMissingPrizeEntry(t *testing.T) {
	ms := wildSetting(t)
	grid := gridOf(
		[]int{3, 3, 3},
		[]int{0, 1, 0},
		[]int{3, 3, 0},
	)
	res := Execute(4, 1, ms, grid, Mask(ms, grid), nil)
	if res.Prize != 0 || len(res.Lines) != 0 {
		t.Fatalf("expected no pay, got %+v", res)
	}
}

func TestStorageMultiplier(t *testing.T) {
	ms := single(t)
	grid := gridOf([]int{0, 0, 0})
	mask := Mask(ms, grid)

	st := &buf.Storage{FreeSpin: &buf.FreeSpin{Multiplier: 3, Total: 2}}
	res := Execute(1, 2, ms, grid, mask, st)
	if res.Prize != 30 || res.Lines[0].Prize != 30 {
		t.Fatalf("expected 30, got %+v", res)
	}
	if res.ExitStorage.FreeSpin.Total != 1 || res.ExitStorage.FreeSpin.Multiplier != 1 {
		t.Fatalf("unexpected exit storage %+v", res.ExitStorage.FreeSpin)
	}

	zero := &buf.Storage{FreeSpin: &buf.FreeSpin{Multiplier: 0, Total: 1}}
	res = Execute(1, 2, ms, grid, mask, zero)
	if res.Prize != 0 || len(res.Lines) != 1 {
		t.Fatalf("multiplier 0 must keep the matched line at 0, got %+v", res)
	}
	if l := res.Lines[0]; l.Index != 0 || l.Combo != 3 || l.Prize != 0 {
		t.Fatalf("unexpected zero-multiplier line %+v", l)
	}
	if st.FreeSpin.Total != 2 {
		t.Fatalf("input storage must not be mutated")
	}
}

func TestDigestArithmetic(t *testing.T) {
	award := func(total, mult, syms int) *buf.Grid {
		return &buf.Grid{FreeSpin: buf.FreeSpin{Multiplier: mult, Symbols: syms, Total: total}}
	}
	cases := []struct {
		name string
		prev *buf.Storage
		grid *buf.Grid
		want buf.FreeSpin
	}{
		{"nil prev no award", nil, award(0, 1, 0), buf.FreeSpin{Multiplier: 1}},
		{"nil free spin", &buf.Storage{}, award(0, 1, 1), buf.FreeSpin{Multiplier: 1, Symbols: 1}},
		{"first award", nil, award(10, 2, 3), buf.FreeSpin{Multiplier: 2, Symbols: 3, Total: 10}},
		{"consume one", &buf.Storage{FreeSpin: &buf.FreeSpin{Multiplier: 2, Total: 10}}, award(0, 1, 0), buf.FreeSpin{Multiplier: 1, Total: 9}},
		{"retrigger", &buf.Storage{FreeSpin: &buf.FreeSpin{Multiplier: 2, Total: 4}}, award(5, 3, 3), buf.FreeSpin{Multiplier: 3, Symbols: 3, Total: 8}},
		{"last one", &buf.Storage{FreeSpin: &buf.FreeSpin{Total: 1}}, award(0, 1, 0), buf.FreeSpin{Multiplier: 1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Digest(tc.prev, tc.grid)
			if got.FreeSpin == nil || *got.FreeSpin != tc.want {
				t.Fatalf("want %+v got %+v", tc.want, got.FreeSpin)
			}
		})
	}
}

func TestDigestChain(t *testing.T) {
	awards := []int{3, 0, 0, 2, 0, 0, 0, 0}
	var st *buf.Storage
	expect := 0
	for i, a := range awards {
		next := Digest(st, &buf.Grid{FreeSpin: buf.FreeSpin{Multiplier: 1, Total: a}})
		consumed := 0
		if expect > 0 {
			consumed = 1
		}
		expect = expect + a - consumed
		if next.FreeSpin.Total != expect {
			t.Fatalf("step %d: want %d got %d", i, expect, next.FreeSpin.Total)
		}
		st = &next
	}
	if expect != 0 {
		t.Fatalf("chain should drain to 0, got %d", expect)
	}
}

func TestDelayedMultiplier(t *testing.T) {
	ms := single(t)
	// 第一局盤面觸發 x4，但本局仍以 x1 派彩
	trigger := gridOf([]int{0, 0, 0})
	trigger.FreeSpin = buf.FreeSpin{Multiplier: 4, Symbols: 3, Total: 2}
	first := Execute(1, 1, ms, trigger, Mask(ms, trigger), nil)
	if first.Prize != 5 {
		t.Fatalf("trigger spin must use multiplier 1, got %d", first.Prize)
	}

	plain := gridOf([]int{0, 0, 0})
	second := Execute(1, 1, ms, plain, Mask(ms, plain), &first.ExitStorage)
	if second.Prize != 20 {
		t.Fatalf("next spin must use multiplier 4, got %d", second.Prize)
	}
	if second.ExitStorage.FreeSpin.Multiplier != 1 || second.ExitStorage.FreeSpin.Total != 1 {
		t.Fatalf("unexpected exit storage %+v", second.ExitStorage.FreeSpin)
	}
}
