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

import "math"

// Distribute 把 [min,max] 的區間切成 len(arr) 段遞增的等距刻度，就地覆寫後回傳 arr。
//
// 第 i 組（共 n 組）的上界為 (max-min)/n*(i+1)，組內第 j 個值為 j*上界/len(arr[i])。
// 常用於產生線性遞增的權重坡度；空組保持不變。
func Distribute[T Floaters](arr [][]T, min, max T) [][]T {
	n := T(len(arr))
	span := max - min
	for i := range arr {
		if len(arr[i]) == 0 {
			continue
		}
		innerMax := span / n * T(i+1)
		step := innerMax / T(len(arr[i]))
		for j := range arr[i] {
			arr[i][j] = T(j) * step
		}
	}
	return arr
}

// Ramp 在每軸權重上疊加 Distribute(min,max) 產生的線性坡度（四捨五入取整），回傳新的權重表。
//
// 後面的軸坡度較陡，軸內越後面的圖標加得越多；min > max 時原樣複製。
func Ramp(reels [][]int, min, max float64) [][]int {
	out := make([][]int, len(reels))
	ramp := make([][]float64, len(reels))
	for i, weights := range reels {
		out[i] = append([]int(nil), weights...)
		ramp[i] = make([]float64, len(weights))
	}
	if min > max {
		return out
	}
	Distribute(ramp, min, max)
	for i := range out {
		for j, d := range ramp[i] {
			out[i][j] += int(math.Round(d))
		}
	}
	return out
}
