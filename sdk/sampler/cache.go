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

// WeightCache 記錄每一軸的權重總和，長度等於軸數。
//
// 由設定檔計算一次後，所有 Spin 共用（唯讀）。總和為 0 的軸無法抽樣。
type WeightCache []int

// BuildCache 逐軸加總權重。
func BuildCache(reels [][]int) WeightCache {
	cache := make(WeightCache, len(reels))
	for reel, weights := range reels {
		cache[reel] = Sum(weights)
	}
	return cache
}

// Total 回傳指定軸的權重總和；越界回傳 0。
func (wc WeightCache) Total(reel int) int {
	if reel < 0 || reel >= len(wc) {
		return 0
	}
	return wc[reel]
}
