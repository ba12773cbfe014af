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

// Storage 跨局保存的狀態，由呼叫端負責持久化並在下一局帶回。
//
// nil Storage 或 nil FreeSpin 都是合法的中性狀態（首局、或機台沒有免費旋轉）。
type Storage struct {
	FreeSpin *FreeSpin `json:"free_spin,omitempty" yaml:"free_spin,omitempty"`
}

// Multiplier 回傳本局要套用的倍數；沒有 FreeSpin 時為 1。
func (s *Storage) Multiplier() int {
	if s == nil || s.FreeSpin == nil {
		return 1
	}
	return s.FreeSpin.Multiplier
}

// Owed 回傳進入本局前尚欠的免費旋轉次數
func (s *Storage) Owed() int {
	if s == nil || s.FreeSpin == nil {
		return 0
	}
	return s.FreeSpin.Total
}

// Clone 深拷貝，避免兩局共用同一個 *FreeSpin
func (s *Storage) Clone() *Storage {
	if s == nil {
		return nil
	}
	out := &Storage{}
	if s.FreeSpin != nil {
		fs := *s.FreeSpin
		out.FreeSpin = &fs
	}
	return out
}
