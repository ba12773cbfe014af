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

package gen

import (
	"errors"
	"testing"

	"github.com/zintix-labs/reelspin/errs"
	"github.com/zintix-labs/reelspin/sdk/core"
	"github.com/zintix-labs/reelspin/sdk/sampler"
	"github.com/zintix-labs/reelspin/spec"
)

func intPtr(v int) *int { return &v }

// 三軸 [1,1,1,1]：抽到 k 就是圖標 k-1
func newSetting(t *testing.T, rows int, fs *spec.FreeSpinSetting) *spec.MachineSetting {
	t.Helper()
	ms := &spec.MachineSetting{
		GameName:   "gen_test",
		Rows:       rows,
		Reels:      [][]int{{1, 1, 1, 1}, {1, 1, 1, 1}, {1, 1, 1, 1}},
		Lines:      [][]int{{0, 0, 0}},
		PrizeTable: map[int][]int{0: {0, 0, 5}},
		FreeSpin:   fs,
	}
	if err := ms.Init(); err != nil {
		t.Fatalf("init setting: %v", err)
	}
	return ms
}

func mustGenerator(t *testing.T, ms *spec.MachineSetting) *GridGenerator {
	t.Helper()
	g, err := NewGridGenerator(ms, sampler.BuildCache(ms.Reels))
	if err != nil {
		t.Fatalf("new generator: %v", err)
	}
	return g
}

func mustScript(t *testing.T, draws ...int) *core.Script {
	t.Helper()
	s, err := core.NewScript(draws...)
	if err != nil {
		t.Fatalf("script: %v", err)
	}
	return s
}

func TestGenerateShapeAndOrder(t *testing.T) {
	ms := newSetting(t, 2, nil)
	g := mustGenerator(t, ms)
	rs := mustScript(t, 1, 2, 3, 4, 1, 2)

	grid, err := g.Generate(rs)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	want := [][]int{{0, 1, 2}, {3, 0, 1}}
	if len(grid.Symbols) != len(want) {
		t.Fatalf("rows: want %d got %d", len(want), len(grid.Symbols))
	}
	for r := range want {
		for c := range want[r] {
			if grid.Symbols[r][c] != want[r][c] {
				t.Fatalf("cell (%d,%d): want %d got %d", r, c, want[r][c], grid.Symbols[r][c])
			}
		}
	}
	if rs.Used() != 6 {
		t.Fatalf("expected one draw per cell, got %d", rs.Used())
	}
	if grid.FreeSpin.Multiplier != 1 || grid.FreeSpin.Total != 0 || grid.FreeSpin.Symbols != 0 {
		t.Fatalf("expected neutral free spin, got %+v", grid.FreeSpin)
	}
}

// maxRecorder 記下每次 Draw 收到的上限，一律回傳 1
type maxRecorder struct{ maxes []int }

func (m *maxRecorder) Draw(max int) int {
	m.maxes = append(m.maxes, max)
	return 1
}

func TestGenerateDrawsWithReelTotals(t *testing.T) {
	ms := &spec.MachineSetting{
		GameName:   "gen_totals",
		Rows:       2,
		Reels:      [][]int{{1, 1}, {2, 3, 5}, {7}},
		Lines:      [][]int{{0, 0, 0}},
		PrizeTable: map[int][]int{0: {0, 0, 5}},
	}
	if err := ms.Init(); err != nil {
		t.Fatalf("init setting: %v", err)
	}
	cache := sampler.BuildCache(ms.Reels)
	g := mustGenerator(t, ms)
	rec := &maxRecorder{}
	if _, err := g.Generate(rec); err != nil {
		t.Fatalf("generate: %v", err)
	}
	want := []int{2, 10, 7, 2, 10, 7}
	if len(rec.maxes) != len(want) {
		t.Fatalf("expected %d draws, got %d", len(want), len(rec.maxes))
	}
	for i, w := range want {
		if rec.maxes[i] != w || cache.Total(i%3) != w {
			t.Fatalf("draw %d: want max %d got %d", i, w, rec.maxes[i])
		}
	}
}

func TestGenerateScatterCount(t *testing.T) {
	fs := &spec.FreeSpinSetting{
		Index: 3,
		Conditions: []spec.FreeSpinCondition{
			{Count: 2, Total: 5, Multiply: intPtr(3)},
			{Count: 3, Total: 8},
			{Count: 4, Total: 4, Multiply: intPtr(0)},
			{Count: 5, Total: 0, Multiply: intPtr(9)},
		},
	}
	ms := newSetting(t, 3, fs)
	g := mustGenerator(t, ms)

	cases := []struct {
		name  string
		draws []int
		want  [3]int // multiplier, symbols, total
	}{
		{"none", []int{1, 2, 3, 1, 2, 3, 1, 2, 3}, [3]int{1, 0, 0}},
		{"one unmatched", []int{4, 2, 3, 1, 2, 3, 1, 2, 3}, [3]int{1, 1, 0}},
		{"two anywhere", []int{4, 1, 1, 1, 1, 1, 1, 1, 4}, [3]int{3, 2, 5}},
		{"three default multiply", []int{4, 1, 1, 1, 4, 1, 1, 1, 4}, [3]int{1, 3, 8}},
		{"four explicit zero", []int{4, 4, 1, 1, 4, 1, 1, 1, 4}, [3]int{0, 4, 4}},
		{"five total zero", []int{4, 4, 4, 1, 4, 1, 1, 1, 4}, [3]int{1, 5, 0}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			grid, err := g.Generate(mustScript(t, tc.draws...))
			if err != nil {
				t.Fatalf("generate: %v", err)
			}
			got := [3]int{grid.FreeSpin.Multiplier, grid.FreeSpin.Symbols, grid.FreeSpin.Total}
			if got != tc.want {
				t.Fatalf("want %v got %v", tc.want, got)
			}
			if grid.Count(fs.Index) != grid.FreeSpin.Symbols {
				t.Fatalf("scatter count mismatch")
			}
		})
	}
}

func TestGenerateBadDraw(t *testing.T) {
	ms := newSetting(t, 1, nil)
	g := mustGenerator(t, ms)

	_, err := g.Generate(mustScript(t, 1, 9, 1))
	if err == nil {
		t.Fatalf("expected selection error")
	}
	var se *sampler.SelectionError
	if !errors.As(err, &se) {
		t.Fatalf("expected SelectionError, got %v", err)
	}
	if se.Reel != 1 || se.Draw != 9 {
		t.Fatalf("unexpected error detail: %+v", se)
	}
	if !errs.IsFatal(err) {
		t.Fatalf("selection error must be fatal")
	}
}

func TestNewGridGeneratorCacheMismatch(t *testing.T) {
	ms := newSetting(t, 1, nil)
	if _, err := NewGridGenerator(ms, sampler.WeightCache{4, 4}); err == nil {
		t.Fatalf("expected cache length error")
	}
}
