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

import "github.com/zintix-labs/reelspin/errs"

// WildSetting 百搭圖標：在連線中可替代任何圖標
type WildSetting struct {
	Index int `yaml:"index" json:"index"`
}

// FreeSpinSetting 免費旋轉（Scatter）設定。
//
// 盤面上 Index 圖標的總數（不看連線）等於某個 Condition.Count 時，
// 下一局起獲得 Total 次免費旋轉並套用 Multiply 倍數。
type FreeSpinSetting struct {
	Index      int                 `yaml:"index"      json:"index"`
	Conditions []FreeSpinCondition `yaml:"conditions" json:"conditions"`
	byCount    map[int]int
	initFlag   bool
}

// FreeSpinCondition Multiply 缺省時為 1；明確設定 0 代表該獎項倍數為 0。
type FreeSpinCondition struct {
	Count    int  `yaml:"count"    json:"count"`
	Total    int  `yaml:"total"    json:"total"`
	Multiply *int `yaml:"multiply" json:"multiply,omitempty"`
}

// Init 檢查條件並建立 count 查表
func (fs *FreeSpinSetting) Init() error {
	if fs.initFlag {
		return nil
	}
	if fs.Index < 0 {
		return errs.NewFatal("free spin index must >= 0")
	}
	fs.byCount = make(map[int]int, len(fs.Conditions))
	for i, c := range fs.Conditions {
		if c.Count < 1 {
			return errs.Fatalf("condition %d: count must > 0", i)
		}
		if c.Total < 0 {
			return errs.Fatalf("condition %d: total must >= 0", i)
		}
		if c.Multiply != nil && *c.Multiply < 0 {
			return errs.Fatalf("condition %d: multiply must >= 0", i)
		}
		if _, dup := fs.byCount[c.Count]; dup {
			return errs.Fatalf("condition %d: duplicate count %d", i, c.Count)
		}
		fs.byCount[c.Count] = i
	}
	fs.initFlag = true
	return nil
}

// Match 找出 count 完全相等的條件
func (fs *FreeSpinSetting) Match(count int) (FreeSpinCondition, bool) {
	if fs.byCount != nil {
		i, ok := fs.byCount[count]
		if !ok {
			return FreeSpinCondition{}, false
		}
		return fs.Conditions[i], true
	}
	for _, c := range fs.Conditions {
		if c.Count == count {
			return c, true
		}
	}
	return FreeSpinCondition{}, false
}

// Multiplier 回傳本條件的倍數，缺省為 1
func (c FreeSpinCondition) Multiplier() int {
	if c.Multiply == nil {
		return 1
	}
	return *c.Multiply
}
