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

// Package buf 定義一局 Spin 在各階段之間傳遞的資料結構：
// Grid（盤面）、Storage（跨局保存的免費旋轉狀態）與 Result（本局結果）。
package buf

import (
	"bytes"
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// FreeSpin 免費旋轉狀態。
//
//   - Multiplier：生效中的派彩倍數
//   - Symbols：盤面上 Scatter 圖標總數（不看連線）
//   - Total：尚欠玩家的免費旋轉次數
type FreeSpin struct {
	Multiplier int `json:"multiplier" yaml:"multiplier"`
	Symbols    int `json:"symbols"    yaml:"symbols"`
	Total      int `json:"total"      yaml:"total"`
}

// freeSpinFields 與 FreeSpin 相同欄位，但沒有自訂解碼，避免遞迴
type freeSpinFields FreeSpin

// UnmarshalJSON 沒帶 multiplier 時為 1；明確給 0 則保留 0。未知欄位拒絕。
func (f *FreeSpin) UnmarshalJSON(b []byte) error {
	v := freeSpinFields{Multiplier: 1}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&v); err != nil {
		return err
	}
	*f = FreeSpin(v)
	return nil
}

// UnmarshalYAML 與 UnmarshalJSON 相同的缺省規則
func (f *FreeSpin) UnmarshalYAML(n *yaml.Node) error {
	v := freeSpinFields{Multiplier: 1}
	if err := n.Decode(&v); err != nil {
		return err
	}
	*f = FreeSpin(v)
	return nil
}

// Grid 一局的盤面，Symbols 為 rows x reels。產生後不再修改。
type Grid struct {
	Symbols  [][]int  `json:"symbols"`
	FreeSpin FreeSpin `json:"free_spin"`
}

// NewGrid 配置 rows x reels 的空盤面，FreeSpin 為中性值 {1, 0, 0}。
func NewGrid(rows int, reels int) *Grid {
	cells := make([]int, rows*reels)
	symbols := make([][]int, rows)
	for row := range symbols {
		symbols[row] = cells[row*reels : (row+1)*reels : (row+1)*reels]
	}
	return &Grid{
		Symbols:  symbols,
		FreeSpin: FreeSpin{Multiplier: 1},
	}
}

// Count 回傳盤面上 symbol 出現的次數
func (g *Grid) Count(symbol int) int {
	n := 0
	for _, row := range g.Symbols {
		for _, s := range row {
			if s == symbol {
				n++
			}
		}
	}
	return n
}
