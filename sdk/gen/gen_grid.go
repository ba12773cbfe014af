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

// Package gen 依照機台設定的滾輪權重產生盤面。
package gen

import (
	"github.com/zintix-labs/reelspin/errs"
	"github.com/zintix-labs/reelspin/sdk/buf"
	"github.com/zintix-labs/reelspin/sdk/core"
	"github.com/zintix-labs/reelspin/sdk/sampler"
	"github.com/zintix-labs/reelspin/spec"
)

// GridGenerator 保存產生盤面所需的唯讀狀態，可在多個 goroutine 間共用。
type GridGenerator struct {
	ms    *spec.MachineSetting
	cache sampler.WeightCache
	// scatter 設定（沒有免費旋轉時 fs 為 nil）
	fs *spec.FreeSpinSetting
}

// NewGridGenerator 檢查 cache 與滾輪數一致後建立生成器
func NewGridGenerator(ms *spec.MachineSetting, cache sampler.WeightCache) (*GridGenerator, error) {
	if ms == nil {
		return nil, errs.NewFatal("machine setting is nil")
	}
	if len(cache) != len(ms.Reels) {
		return nil, errs.Fatalf("weight cache has %d entries for %d reels", len(cache), len(ms.Reels))
	}
	return &GridGenerator{ms: ms, cache: cache, fs: ms.FreeSpin}, nil
}

// Generate 逐列（row-major）填滿 rows x reels 盤面，並統計整個盤面的 scatter 數量。
//
// 取樣失敗代表設定或 cache 有誤，直接回傳 Fatal 錯誤，不回傳部分盤面。
func (g *GridGenerator) Generate(rs core.RandomSource) (*buf.Grid, error) {
	rows := g.ms.Rows
	reels := len(g.ms.Reels)
	grid := buf.NewGrid(rows, reels)

	scatter := -1
	if g.fs != nil {
		scatter = g.fs.Index
	}
	count := 0

	for row := 0; row < rows; row++ {
		for reel := 0; reel < reels; reel++ {
			sym, err := sampler.Select(reel, g.ms.Reels[reel], rs.Draw(g.cache.Total(reel)))
			if err != nil {
				return nil, err
			}
			grid.Symbols[row][reel] = sym
			if sym == scatter {
				count++
			}
		}
	}

	grid.FreeSpin = buf.FreeSpin{Multiplier: 1, Symbols: count}
	if count > 0 {
		if cond, ok := g.fs.Match(count); ok && cond.Total != 0 {
			grid.FreeSpin.Total = cond.Total
			grid.FreeSpin.Multiplier = cond.Multiplier()
		}
	}
	return grid, nil
}
