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

// Package sampler 提供轉輪的加權抽樣工具。
//
// 抽樣本身不持有亂數：呼叫端先以 WeightCache 取得每軸權重總和 T，
// 再從外部亂數來源取得 [1,T] 的整數，最後交給 Select 做逆累積分布（inverse-CDF）查找。
//
// 本檔案定義套件內共用的泛型約束。
package sampler

// Integers 定義所有底層實現為整數型別的集合
type Integers interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 | ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// Floaters 定義所有底層實現為浮點數型別的集合
type Floaters interface {
	~float32 | ~float64
}

// Sum 回傳切片總和
func Sum[T Integers | Floaters](src []T) T {
	var s T
	for _, v := range src {
		s += v
	}
	return s
}
