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

package core

import "github.com/zintix-labs/reelspin/errs"

// RandomSource 是轉輪抽樣唯一需要的亂數合約：
// Draw(max) 回傳 [1,max] 的均勻整數，max >= 1。
type RandomSource interface {
	Draw(max int) int
}

// Script 依序回放固定的抽樣值，用於測試與重現指定盤面。
//
// 值用完後會從頭循環；Script 不檢查值是否落在 [1,max]，
// 越界值由抽樣端以 SelectionError 回報。
type Script struct {
	draws []int
	pos   int
	used  int
}

// NewScript 建立回放序列；draws 不可為空。
func NewScript(draws ...int) (*Script, error) {
	if len(draws) == 0 {
		return nil, errs.NewWarn("script requires at least one draw")
	}
	return &Script{draws: append([]int(nil), draws...)}, nil
}

func (s *Script) Draw(int) int {
	v := s.draws[s.pos]
	s.used++
	s.pos++
	if s.pos == len(s.draws) {
		s.pos = 0
	}
	return v
}

// Used 回傳累計的抽樣次數。
func (s *Script) Used() int {
	return s.used
}
