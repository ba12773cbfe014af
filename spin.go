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

package reelspin

import (
	"github.com/zintix-labs/reelspin/errs"
	"github.com/zintix-labs/reelspin/sdk/buf"
	"github.com/zintix-labs/reelspin/sdk/calc"
	"github.com/zintix-labs/reelspin/sdk/core"
	"github.com/zintix-labs/reelspin/sdk/gen"
	"github.com/zintix-labs/reelspin/sdk/sampler"
	"github.com/zintix-labs/reelspin/spec"
)

// Spin 執行一局：產生盤面 -> 投影連線 -> 算分 -> 結算 storage。
//
//   - ms 必須已通過 Init；cache 由 sampler.BuildCache(ms.Reels) 取得。
//   - storage 為上一局的 ExitStorage，nil 視為首局；函式不會修改它。
//   - 取樣失敗（SelectionError）時回傳 Fatal 錯誤，不回傳部分結果。
func Spin(maxLines int, betPerLine int, ms *spec.MachineSetting, cache sampler.WeightCache, rs core.RandomSource, storage *buf.Storage) (*buf.Result, error) {
	if !ms.Ready() {
		return nil, errs.NewFatal("machine setting is not initialized")
	}
	if rs == nil {
		return nil, errs.NewFatal("random source is nil")
	}
	g, err := gen.NewGridGenerator(ms, cache)
	if err != nil {
		return nil, err
	}
	return spinWith(g, maxLines, betPerLine, ms, rs, storage)
}

func spinWith(g *gen.GridGenerator, maxLines int, betPerLine int, ms *spec.MachineSetting, rs core.RandomSource, storage *buf.Storage) (*buf.Result, error) {
	grid, err := g.Generate(rs)
	if err != nil {
		return nil, err
	}
	mask := calc.Mask(ms, grid)
	return calc.Execute(maxLines, betPerLine, ms, grid, mask, storage), nil
}
