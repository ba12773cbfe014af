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

// Package spec 定義機台設定（MachineSetting）的資料結構、載入與檢查。
//
// 設定一律先解碼再呼叫 Init()：Init 負責推導欄位並拒絕所有會讓抽樣或算分失敗的設定，
// 通過 Init 的設定在執行期間視為唯讀，可被任意數量的 Spin 同時共用。
package spec

import (
	"fmt"

	"github.com/zintix-labs/reelspin/errs"
)

// GID 遊戲機台編號（Catalog 內唯一）
type GID uint

// MachineSetting 描述一台線獎機台。
//
// Fields:
//   - Rows: 盤面列數
//   - Reels: 每一軸的圖標權重，索引即圖標 id
//   - Lines: 連線表，每條線為「每軸取第幾列」
//   - PrizeTable: 圖標 id -> 以 (連線長度-1) 索引的賠率
//   - Wild / FreeSpin: 可選功能，nil 代表機台沒有該功能
type MachineSetting struct {
	GameName   string           `yaml:"game_name"   json:"game_name"`
	GameID     GID              `yaml:"game_id"     json:"game_id"`
	Rows       int              `yaml:"rows"        json:"rows"`
	Reels      [][]int          `yaml:"reels"       json:"reels"`
	Lines      [][]int          `yaml:"lines"       json:"lines"`
	PrizeTable map[int][]int    `yaml:"prize_table" json:"prize_table"`
	Wild       *WildSetting     `yaml:"wild"        json:"wild,omitempty"`
	FreeSpin   *FreeSpinSetting `yaml:"free_spin"   json:"free_spin,omitempty"`
	ReelCount  int              `yaml:"-"           json:"-"`
	LineCount  int              `yaml:"-"           json:"-"`
	initFlag   bool
}

// Init 檢查不合法的設定並推導欄位；重複呼叫無副作用。
func (ms *MachineSetting) Init() error {
	if ms.initFlag {
		return nil
	}
	if err := ms.valid(); err != nil {
		return err
	}
	if ms.FreeSpin != nil {
		if err := ms.FreeSpin.Init(); err != nil {
			return errs.Wrap(err, fmt.Sprintf("game_name: %s free_spin", ms.GameName))
		}
	}
	ms.ReelCount = len(ms.Reels)
	ms.LineCount = len(ms.Lines)
	ms.initFlag = true
	return nil
}

// Ready 回報設定是否已通過 Init
func (ms *MachineSetting) Ready() bool {
	return ms != nil && ms.initFlag
}

func (ms *MachineSetting) valid() error {
	if ms.GameName == "" {
		return errs.NewFatal("game_name required")
	}
	if ms.Rows < 1 {
		return errs.Fatalf("game_name: %s err: rows must > 0, got %d", ms.GameName, ms.Rows)
	}
	if len(ms.Reels) == 0 {
		return errs.Fatalf("game_name: %s err: empty reels", ms.GameName)
	}
	for reel, weights := range ms.Reels {
		if len(weights) == 0 {
			return errs.Fatalf("game_name: %s err: reel %d has no symbols", ms.GameName, reel)
		}
		total := 0
		for _, w := range weights {
			if w < 0 {
				return errs.Fatalf("game_name: %s err: reel %d has negative weight %d", ms.GameName, reel, w)
			}
			total += w
		}
		// 總權重為 0 的軸無法抽樣
		if total == 0 {
			return errs.Fatalf("game_name: %s err: reel %d total weight is 0", ms.GameName, reel)
		}
	}
	if len(ms.Lines) == 0 {
		return errs.Fatalf("game_name: %s err: empty lines", ms.GameName)
	}
	for i, line := range ms.Lines {
		if len(line) != len(ms.Reels) {
			return errs.Fatalf("game_name: %s err: line %d has %d cells, want %d", ms.GameName, i, len(line), len(ms.Reels))
		}
		for reel, row := range line {
			if row < 0 || row >= ms.Rows {
				return errs.Fatalf("game_name: %s err: line %d reel %d row %d out of [0,%d)", ms.GameName, i, reel, row, ms.Rows)
			}
		}
	}
	for sym, prizes := range ms.PrizeTable {
		if sym < 0 {
			return errs.Fatalf("game_name: %s err: negative symbol id %d in prize_table", ms.GameName, sym)
		}
		for _, p := range prizes {
			if p < 0 {
				return errs.Fatalf("game_name: %s err: symbol %d has negative prize %d", ms.GameName, sym, p)
			}
		}
	}
	if ms.Wild != nil && ms.Wild.Index < 0 {
		return errs.Fatalf("game_name: %s err: wild index must >= 0", ms.GameName)
	}
	return nil
}

// WildIndex 回傳百搭圖標；未設定百搭時 ok 為 false。
func (ms *MachineSetting) WildIndex() (idx int, ok bool) {
	if ms.Wild == nil {
		return -1, false
	}
	return ms.Wild.Index, true
}

// Prize 回傳 symbol 連 combo 顆的單位賠率；表內沒有對應項目視為 0。
func (ms *MachineSetting) Prize(symbol int, combo int) int {
	prizes, ok := ms.PrizeTable[symbol]
	if !ok || combo < 1 || combo > len(prizes) {
		return 0
	}
	return prizes[combo-1]
}
