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

// Package core 提供 reelspin 的亂數核心。
//
// 核心流程只依賴 RandomSource（Draw 回傳 [1,max] 的均勻整數），
// Core 則把可快照/還原的 PRNG 包成 RandomSource，讓機台可以回放任意一局。
package core

import (
	"crypto/rand"
	"math"
	"math/big"

	"github.com/zintix-labs/reelspin/errs"
)

// PRNG 定義 Core 所需的亂數來源，需同時支援取樣與狀態保存/還原。
type PRNG interface {
	RAND
	Restorable
}

// Restorable 定義可快照與還原的狀態介面。
type Restorable interface {
	// Snapshot 回傳可用於還原的序列化狀態。
	Snapshot() ([]byte, error)
	// Restore 依序列化狀態還原 PRNG 內部狀態。
	Restore([]byte) error
}

// RAND 定義核心亂數取樣能力。
//
// bounded 取樣（UintN / IntN）交由各 PRNG 自行實作，
// 32-bit 輸出的產生器與 64-bit 輸出的產生器各自有最合適的無偏拒絕取樣路徑。
type RAND interface {
	// Uint64 回傳非負 uint64 亂數。
	Uint64() uint64
	// Float64 回傳 [0,1) 的浮點亂數。
	Float64() float64
	// UintN 回傳 [0,max) 的 uint 亂數，若 max == 0 回傳 0。
	UintN(uint) uint
	// IntN 回傳 [0,max) 的 int 亂數，若 max <= 0 回傳 -1。
	IntN(int) int
}

// PRNGFactory 以 seed 建立 PRNG。
//
// 合約：同一實作、同一版本下 New(seed) 必須是決定性的，
// 相同 seed 產生相同的初始狀態與輸出序列（回放、審計、模擬派生都依賴這一點）。
type PRNGFactory interface {
	New(int64) PRNG
}

// DefaultPRNG 產生 PCG64
type DefaultPRNG struct{}

func (d *DefaultPRNG) New(seed int64) PRNG {
	return newPCG64WithSeed(seed)
}

func Default() *DefaultPRNG {
	return &DefaultPRNG{}
}

// PCG32Factory 產生 PCG32，適合 32-bit 目標平台。
type PCG32Factory struct{}

func (f *PCG32Factory) New(seed int64) PRNG {
	return newPCG32WithSeed(seed)
}

// Core 封裝 PRNG，並實作 RandomSource。
type Core struct {
	PRNG
}

// New 允許使用外部自實現的 PRNG 建立 Core。
func New(rng PRNG) *Core {
	return &Core{rng}
}

// Draw 回傳 [1,max] 的均勻整數；max < 1 時回傳 0（抽樣端會視為越界）。
func (c *Core) Draw(max int) int {
	if max < 1 {
		return 0
	}
	return c.IntN(max) + 1
}

// CryptoSeed 以 crypto/rand 產生 [0, MaxInt64) 的 seed，對外服務用以避免可預測的 RNG 起點。
func CryptoSeed() (int64, error) {
	seed, err := rand.Int(rand.Reader, big.NewInt(math.MaxInt64))
	if err != nil {
		return 0, errs.Wrap(err, "new crypto seed error in go std lib")
	}
	return seed.Int64(), nil
}
