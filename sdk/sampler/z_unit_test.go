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

package sampler

import (
	"errors"
	"math"
	"testing"

	"github.com/zintix-labs/reelspin/errs"
)

func TestBuildCache(t *testing.T) {
	reels := [][]int{{1, 2, 3}, {0, 5}, {7}}
	cache := BuildCache(reels)
	if len(cache) != len(reels) {
		t.Fatalf("cache length %d != reels %d", len(cache), len(reels))
	}
	want := []int{6, 5, 7}
	for i, w := range want {
		if cache[i] != w {
			t.Fatalf("reel %d: expected %d, got %d", i, w, cache[i])
		}
	}
	if cache.Total(9) != 0 || cache.Total(-1) != 0 {
		t.Fatalf("out of range total must be 0")
	}
}

func TestSelectBoundaries(t *testing.T) {
	weights := []int{2, 0, 3, 1}
	total := Sum(weights)
	for draw := 1; draw <= total; draw++ {
		idx, err := Select(0, weights, draw)
		if err != nil {
			t.Fatalf("draw %d: unexpected error %v", draw, err)
		}
		upTo := Sum(weights[:idx+1])
		before := Sum(weights[:idx])
		if upTo < draw || before >= draw {
			t.Fatalf("draw %d resolved to %d (cum %d, prev %d)", draw, idx, upTo, before)
		}
	}
	cases := map[int]int{1: 0, 2: 0, 3: 2, 5: 2, 6: 3}
	for draw, want := range cases {
		if got, _ := Select(0, weights, draw); got != want {
			t.Fatalf("draw %d: expected %d, got %d", draw, want, got)
		}
	}
}

func TestSelectOutOfRange(t *testing.T) {
	for _, draw := range []int{0, -3, 7} {
		_, err := Select(2, []int{2, 0, 3, 1}, draw)
		if err == nil {
			t.Fatalf("draw %d: expected error", draw)
		}
		var se *SelectionError
		if !errors.As(err, &se) {
			t.Fatalf("draw %d: expected SelectionError, got %v", draw, err)
		}
		if se.Reel != 2 || se.Draw != draw {
			t.Fatalf("unexpected error payload: %+v", se)
		}
		if !errs.IsFatal(err) {
			t.Fatalf("selection error must be fatal")
		}
	}
	if _, err := Select(0, []int{0, 0}, 1); err == nil {
		t.Fatalf("zero-weight reel must not resolve")
	}
}

func TestDistribute(t *testing.T) {
	arr := [][]float64{make([]float64, 2), make([]float64, 4), {}}
	out := Distribute(arr, 0, 12)
	// 第 0 組上界 4、第 1 組上界 8
	want := [][]float64{{0, 2}, {0, 2, 4, 6}, {}}
	for i := range want {
		for j := range want[i] {
			if math.Abs(out[i][j]-want[i][j]) > 1e-9 {
				t.Fatalf("arr[%d][%d]: expected %v, got %v", i, j, want[i][j], out[i][j])
			}
		}
	}
}

func TestRamp(t *testing.T) {
	reels := [][]int{{1, 1}, {1, 1, 1, 1}, {5}}
	out := Ramp(reels, 0, 12)
	want := [][]int{{1, 3}, {1, 3, 5, 7}, {5}}
	for i := range want {
		for j := range want[i] {
			if out[i][j] != want[i][j] {
				t.Fatalf("reel %d symbol %d: expected %d, got %d", i, j, want[i][j], out[i][j])
			}
		}
	}
	if reels[1][3] != 1 {
		t.Fatalf("input weights must not be mutated")
	}
	same := Ramp(reels, 3, 1)
	same[0][0] = 9
	if same[1][3] != 1 || reels[0][0] != 1 {
		t.Fatalf("inverted range must return an untouched copy")
	}
}
