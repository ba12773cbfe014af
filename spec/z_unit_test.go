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

package spec

import (
	"strings"
	"testing"
)

const classicYAML = `
game_name: classic
game_id: 7
rows: 3
reels:
  - [5, 3, 1, 1]
  - [5, 3, 1, 1]
  - [5, 3, 1, 1]
lines:
  - [1, 1, 1]
  - [0, 0, 0]
prize_table:
  0: [0, 0, 5]
  1: [0, 2, 10]
wild:
  index: 2
free_spin:
  index: 3
  conditions:
    - count: 3
      total: 10
    - count: 2
      total: 3
      multiply: 0
`

func TestGetMachineSettingByYAML(t *testing.T) {
	ms, err := GetMachineSettingByYAML([]byte(classicYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ms.Ready() || ms.ReelCount != 3 || ms.LineCount != 2 || ms.GameID != 7 {
		t.Fatalf("unexpected setting: %+v", ms)
	}
	if idx, ok := ms.WildIndex(); !ok || idx != 2 {
		t.Fatalf("unexpected wild: %d %v", idx, ok)
	}
	c, ok := ms.FreeSpin.Match(3)
	if !ok || c.Total != 10 || c.Multiplier() != 1 {
		t.Fatalf("count 3 should default multiply to 1: %+v", c)
	}
	c, ok = ms.FreeSpin.Match(2)
	if !ok || c.Multiplier() != 0 {
		t.Fatalf("explicit multiply 0 must stay 0: %+v", c)
	}
	if _, ok := ms.FreeSpin.Match(1); ok {
		t.Fatalf("count 1 should not match")
	}
}

func TestGetMachineSettingByJSON(t *testing.T) {
	raw := `{"game_name":"tiny","game_id":1,"rows":1,"reels":[[1],[1],[1]],"lines":[[0,0,0]],"prize_table":{"0":[0,0,5]}}`
	ms, err := GetMachineSettingByJSON([]byte(raw))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ms.Wild != nil || ms.FreeSpin != nil {
		t.Fatalf("optional features should stay nil")
	}
	if got := ms.Prize(0, 3); got != 5 {
		t.Fatalf("expected prize 5, got %d", got)
	}
	if got := ms.Prize(0, 4); got != 0 {
		t.Fatalf("sparse combo should pay 0, got %d", got)
	}
	if got := ms.Prize(9, 1); got != 0 {
		t.Fatalf("unknown symbol should pay 0, got %d", got)
	}
}

func TestStrictDecoding(t *testing.T) {
	if _, err := GetMachineSettingByYAML([]byte(classicYAML + "\nunknown_field: 1\n")); err == nil {
		t.Fatalf("expected yaml unknown field error")
	}
	raw := `{"game_name":"tiny","rows":1,"reels":[[1]],"lines":[[0]],"prize_table":{},"extra":1}`
	if _, err := GetMachineSettingByJSON([]byte(raw)); err == nil {
		t.Fatalf("expected json unknown field error")
	}
}

func TestInvalidSettings(t *testing.T) {
	base := func() *MachineSetting {
		return &MachineSetting{
			GameName:   "bad",
			Rows:       2,
			Reels:      [][]int{{1, 1}, {1, 1}},
			Lines:      [][]int{{0, 1}},
			PrizeTable: map[int][]int{0: {0, 1}},
		}
	}
	cases := map[string]func(ms *MachineSetting){
		"rows":        func(ms *MachineSetting) { ms.Rows = 0 },
		"empty reels": func(ms *MachineSetting) { ms.Reels = nil },
		"zero reel":   func(ms *MachineSetting) { ms.Reels[1] = []int{0, 0} },
		"negative":    func(ms *MachineSetting) { ms.Reels[0][0] = -1 },
		"line length": func(ms *MachineSetting) { ms.Lines = [][]int{{0}} },
		"line row":    func(ms *MachineSetting) { ms.Lines = [][]int{{0, 2}} },
		"empty lines": func(ms *MachineSetting) { ms.Lines = nil },
		"neg prize":   func(ms *MachineSetting) { ms.PrizeTable[0] = []int{-1} },
		"wild index":  func(ms *MachineSetting) { ms.Wild = &WildSetting{Index: -1} },
		"dup condition": func(ms *MachineSetting) {
			ms.FreeSpin = &FreeSpinSetting{Index: 1, Conditions: []FreeSpinCondition{{Count: 2, Total: 1}, {Count: 2, Total: 3}}}
		},
		"zero count": func(ms *MachineSetting) {
			ms.FreeSpin = &FreeSpinSetting{Index: 1, Conditions: []FreeSpinCondition{{Count: 0, Total: 1}}}
		},
	}
	for name, mutate := range cases {
		ms := base()
		mutate(ms)
		if err := ms.Init(); err == nil {
			t.Fatalf("%s: expected error", name)
		} else if !strings.Contains(err.Error(), "fatal") {
			t.Fatalf("%s: expected fatal level, got %v", name, err)
		}
	}
	if err := base().Init(); err != nil {
		t.Fatalf("base setting should be valid: %v", err)
	}
}
