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

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/zintix-labs/reelspin/errs"
)

// SelectionError 表示一次加權抽樣無法落在任何圖標上。
//
// 在設定與 WeightCache 一致時不可能發生；一旦出現代表設定或快取損毀，
// 本局結果不可信，必須整局失敗。
type SelectionError struct {
	Reel    int
	Weights []int
	Draw    int
}

func (e *SelectionError) Error() string {
	ws := make([]string, len(e.Weights))
	for i, w := range e.Weights {
		ws[i] = strconv.Itoa(w)
	}
	return fmt.Sprintf("could not select a symbol in reel %d between %s using %d", e.Reel, strings.Join(ws, "|"), e.Draw)
}

// Select 沿著權重累加，回傳第一個「累積和 >= draw」的索引。
//
// 權重 w 在 [1,T] 中佔一段寬度 w 的連續區間，draw 必須是 [1,T] 的整數。
// draw < 1 或超過總和時回傳包裝 *SelectionError 的 Fatal 錯誤。
func Select(reel int, weights []int, draw int) (int, error) {
	if draw >= 1 {
		acc := 0
		for i, w := range weights {
			acc += w
			if acc >= draw {
				return i, nil
			}
		}
	}
	return -1, errs.Wrap(&SelectionError{Reel: reel, Weights: weights, Draw: draw}, "reel selection failed")
}
