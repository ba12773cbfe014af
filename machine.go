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
	"sync"

	"github.com/zintix-labs/reelspin/dto"
	"github.com/zintix-labs/reelspin/errs"
	"github.com/zintix-labs/reelspin/sdk/buf"
	"github.com/zintix-labs/reelspin/sdk/core"
	"github.com/zintix-labs/reelspin/sdk/gen"
	"github.com/zintix-labs/reelspin/sdk/sampler"
	"github.com/zintix-labs/reelspin/spec"
)

// Machine 封裝一台「可對外提供 Spin」的線獎機台。
//
// Machine 是 Spin 管線的外殼：
//   - 對外：提供 Spin 入口（HTTP/模擬器通常只操作 Machine）。
//   - 對內：持有唯讀的 MachineSetting、WeightCache，以及可快照的 RNG（Core）。
//
// 並發語意：
//   - 設定與 cache 可被多台 Machine 共用；RNG 狀態則屬於單一 Machine，由 mu 保護。
//   - 要併發，由上層建立多台 Machine（MachinePool / Simulator）。
//
// Storage 不存在 Machine 內：上一局的 exit_storage 由呼叫端保存並在下一局帶回。
type Machine struct {
	gameName string               // 遊戲名稱（觀測/日誌、請求比對）
	gameId   spec.GID             // 遊戲 ID（Catalog 內唯一）
	ms       *spec.MachineSetting // 已 Init 的唯讀設定
	cache    sampler.WeightCache  // 每軸總權重
	gen      *gen.GridGenerator   // 盤面產生器（唯讀，可共用）
	core     *core.Core           // RNG 核心（PRNG + Snapshot/Restore 合約）
	mu       sync.Mutex           // 保護 core 狀態一致性
	initseed int64                // 出生 seed（便於追溯；完整重現請用 Snapshot/Restore）
}

// newMachine 以 crypto/rand 產生的 seed 建立 Machine，避免對外服務的 RNG 可被預測。
func newMachine(ms *spec.MachineSetting, cf core.PRNGFactory) (*Machine, error) {
	seed, err := core.CryptoSeed()
	if err != nil {
		return nil, err
	}
	return newMachineWithSeed(ms, cf, seed)
}

// newMachineWithSeed 以指定 seed 建立 Machine；同一份設定 + 同一個 seed 會得到一致的盤面序列。
func newMachineWithSeed(ms *spec.MachineSetting, cf core.PRNGFactory, seed int64) (*Machine, error) {
	if cf == nil {
		return nil, errs.NewFatal("prng factory required")
	}
	if ms == nil {
		return nil, errs.NewFatal("machine setting is nil")
	}
	if err := ms.Init(); err != nil {
		return nil, err
	}
	cache := sampler.BuildCache(ms.Reels)
	g, err := gen.NewGridGenerator(ms, cache)
	if err != nil {
		return nil, err
	}
	m := &Machine{
		gameName: ms.GameName,
		gameId:   ms.GameID,
		ms:       ms,
		cache:    cache,
		gen:      g,
		core:     core.New(cf.New(seed)),
		initseed: seed,
	}
	return m, nil
}

// Spin 為主要公開入口，會驗證請求、執行一局並回傳對外結果。
//
// 若請求帶了 start_b64u，本局會從該快照起跑，結束後 RNG 回到機台原本的狀態；
// 回應一律帶回本局的 start/after 快照，供審計與回放。
func (m *Machine) Spin(r *dto.SpinRequest) (dto.SpinResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// 1. 校驗請求合法性
	if err := m.valid(r); err != nil {
		return dto.SpinResult{}, err
	}
	replay, err := r.StartSnap()
	if err != nil {
		return dto.SpinResult{}, err
	}

	// 2. start snapshot
	startsnap, err := m.SnapshotCore()
	if err != nil {
		return dto.SpinResult{}, errs.NewFatal("before snapshot error " + err.Error())
	}
	rem := startsnap
	if len(replay) != 0 {
		if err := m.RestoreCore(replay); err != nil {
			return dto.SpinResult{}, errs.NewWarn("restore core err " + err.Error())
		}
		startsnap = replay
	}
	rollback := func() error {
		if len(replay) == 0 {
			return nil
		}
		if err := m.RestoreCore(rem); err != nil {
			return errs.NewFatal("restore core back err " + err.Error())
		}
		return nil
	}

	// 3. 跑一局
	res, err := spinWith(m.gen, r.MaxLines, r.BetPerLine, m.ms, m.core, r.Storage)
	if err != nil {
		if e := rollback(); e != nil {
			return dto.SpinResult{}, e
		}
		return dto.SpinResult{}, err
	}

	// 4. after snapshot
	aftersnap, err := m.SnapshotCore()
	if err != nil {
		if e := m.RestoreCore(rem); e != nil {
			return dto.SpinResult{}, errs.NewFatal("fall back err " + e.Error())
		}
		return dto.SpinResult{}, errs.NewWarn("after snapshot error " + err.Error())
	}

	// 5. 回放局要把 RNG 還回去
	if err := rollback(); err != nil {
		return dto.SpinResult{}, err
	}

	meta := dto.SpinMeta{
		GameName:   m.gameName,
		GameID:     m.gameId,
		MaxLines:   r.MaxLines,
		BetPerLine: r.BetPerLine,
		Entry:      r.Storage,
		StartSnap:  startsnap,
		AfterSnap:  aftersnap,
	}
	return dto.NewSpinResultDTO(meta, res)
}

// SpinInternal 直接取得內部 Result；用於模擬器或測試。
//
// 跳過請求檢查與快照，呼叫端自行保證參數合法。與 Spin 共用 mu，可跨 goroutine 呼叫。
func (m *Machine) SpinInternal(maxLines int, betPerLine int, storage *buf.Storage) (*buf.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return spinWith(m.gen, maxLines, betPerLine, m.ms, m.core, storage)
}

func (m *Machine) valid(req *dto.SpinRequest) error {
	if req == nil {
		return errs.NewWarn("spin request is nil")
	}
	if m.gameId != req.GameId {
		return errs.NewWarn("game id is not matched")
	}
	if m.gameName != req.GameName {
		return errs.NewWarn("game name is not matched")
	}
	if req.MaxLines < 1 || req.MaxLines > m.ms.LineCount {
		return errs.Warnf("max lines out of range [1,%d], got %d", m.ms.LineCount, req.MaxLines)
	}
	if req.BetPerLine < 1 {
		return errs.Warnf("bet per line must > 0, got %d", req.BetPerLine)
	}
	if fs := req.Storage; fs != nil && fs.FreeSpin != nil {
		if fs.FreeSpin.Total < 0 || fs.FreeSpin.Multiplier < 0 || fs.FreeSpin.Symbols < 0 {
			return errs.NewWarn("storage values must not be negative")
		}
	}
	return nil
}

// GameName 回傳機台的遊戲名稱
func (m *Machine) GameName() string {
	return m.gameName
}

// GameID 回傳機台的遊戲 ID
func (m *Machine) GameID() spec.GID {
	return m.gameId
}

// InitSeed 回傳出生 seed
func (m *Machine) InitSeed() int64 {
	return m.initseed
}

// SnapshotCore 取得 Core 狀態暫存。
func (m *Machine) SnapshotCore() ([]byte, error) {
	return m.core.Snapshot()
}

// RestoreCore 恢復 Core 狀態暫存。
func (m *Machine) RestoreCore(src []byte) error {
	return m.core.Restore(src)
}
