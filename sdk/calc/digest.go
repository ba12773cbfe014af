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

import "github.com/zintix-labs/reelspin/sdk/buf"

// Digest 合併上一局的 Storage 與本局盤面，產生要帶到下一局的 Storage。
//
// total = 上局欠的次數 + 本局新獲得 - (上局有欠 ? 1 : 0)，不做下限截斷。
// multiplier 與 symbols 取自本局盤面，所以倍數從下一局開始生效。
func Digest(prev *buf.Storage, grid *buf.Grid) buf.Storage {
	current := prev.Owed()
	consumed := 0
	if current > 0 {
		consumed = 1
	}
	next := buf.FreeSpin{Multiplier: 1}
	if grid != nil {
		next.Multiplier = grid.FreeSpin.Multiplier
		next.Symbols = grid.FreeSpin.Symbols
		next.Total = grid.FreeSpin.Total
	}
	next.Total += current - consumed
	return buf.Storage{FreeSpin: &next}
}
