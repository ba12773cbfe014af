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

// Package calc 將盤面投影成連線並計算派彩，最後消化出下一局的 Storage。
package calc

import (
	"github.com/zintix-labs/reelspin/sdk/buf"
	"github.com/zintix-labs/reelspin/spec"
)

// Mask 依連線表把盤面投影成每條線的圖標序列：mask[i][reel] = grid[lines[i][reel]][reel]
func Mask(ms *spec.MachineSetting, grid *buf.Grid) [][]int {
	reels := len(ms.Reels)
	flat := make([]int, len(ms.Lines)*reels)
	mask := make([][]int, len(ms.Lines))
	for i, line := range ms.Lines {
		ss := flat[i*reels : (i+1)*reels : (i+1)*reels]
		for reel, row := range line {
			ss[reel] = grid.Symbols[row][reel]
		}
		mask[i] = ss
	}
	return mask
}
