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

package buf

const capLineGrow int = 8

// LineWin 單條中獎線
//
//   - Index：連線編號
//   - Combo：連續相同（含百搭）的長度
//   - Prize：已套用押注與倍數的派彩
//   - WC：連線中的百搭數
//   - SS：該線的圖標序列
type LineWin struct {
	Index int   `json:"index"`
	Combo int   `json:"combo"`
	Prize int   `json:"prize"`
	WC    int   `json:"wc"`
	SS    []int `json:"ss"`
}

// Result 一局結果。Lines 只包含派彩非 0 的線。
type Result struct {
	Prize       int       `json:"prize"`
	Lines       []LineWin `json:"lines"`
	ExitStorage Storage   `json:"exit_storage"`
	Grid        *Grid     `json:"grid,omitempty"`
}

func NewResult() *Result {
	return &Result{Lines: make([]LineWin, 0, capLineGrow)}
}

// AddLine 累加派彩並記錄中獎線
func (r *Result) AddLine(lw LineWin) {
	r.Prize += lw.Prize
	r.Lines = append(r.Lines, lw)
}

// Triggered 回報本局盤面是否獲得新的免費旋轉
func (r *Result) Triggered() bool {
	return r.Grid != nil && r.Grid.FreeSpin.Total > 0
}
