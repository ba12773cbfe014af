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

// Package reelspin 提供線獎機台的 Spin 管線，以及建立機台、模擬器與服務 runtime 的組裝入口。
//
// 單局管線（Spin）只依賴三樣東西：
//  1. MachineSetting：已 Init 的唯讀機台設定（滾輪權重、連線表、賠率、百搭、免費旋轉）。
//  2. WeightCache：每軸總權重，由 sampler.BuildCache 取得。
//  3. RandomSource：Draw(max) 回傳 [1,max] 的均勻整數。
//
// 上一局的 Storage 由呼叫端保存並帶回；管線本身不持有任何跨局狀態。
//
// Reelspin 則把設定來源（fs.FS）與 PRNG 工廠組裝在一起：
//   - 後端服務：BuildRuntime 建出每款遊戲一個 MachinePool 的 SlotRuntime。
//   - 模擬器：NewSimulator 建出可平行模擬的 Simulator。
package reelspin

import (
	"io/fs"

	"github.com/zintix-labs/reelspin/catalog"
	"github.com/zintix-labs/reelspin/errs"
	"github.com/zintix-labs/reelspin/sdk/core"
	"github.com/zintix-labs/reelspin/spec"
)

// Configs 用來把一或多個設定檔來源（fs.FS）打包成 New() 需要的參數。
//
// 可以是 go:embed 編進 binary 的設定，也可以是本機開發用的 os.DirFS。
// Reelspin 不解析路徑：只依賴 fs.FS + ConfigName（檔名）取得設定內容。
func Configs(cfgs ...fs.FS) []fs.FS {
	return cfgs
}

// Reelspin 是組裝器與執行入口。
//
// 使用流程分兩階段：
//   - 註冊階段：建立 catalog、掃描設定、檢查重複。
//   - 執行階段：Freeze 之後依遊戲 ID 產生 Machine / Simulator / SlotRuntime。
//
// Catalog 的 ID 唯一性只保證在同一個 Reelspin instance 內。
//
//	rs, _ := reelspin.NewAuto(core.Default(), reelspin.Configs(cfgFS))
//	m, _ := rs.NewMachine(1001)
//	out, _ := m.Spin(req)
type Reelspin struct {
	cat *catalog.Catalog
	cf  core.PRNGFactory
	sum []catalog.Summary
}

// New 建立一個 Reelspin instance（尚未註冊任何遊戲）。
//
// cf 不能為 nil；cfgs 至少一個。
func New(cf core.PRNGFactory, cfgs []fs.FS) (*Reelspin, error) {
	if cf == nil {
		return nil, errs.NewFatal("prng factory required")
	}
	if len(cfgs) == 0 {
		return nil, errs.NewFatal("configs required")
	}
	cata, err := catalog.New(cfgs...)
	if err != nil {
		return nil, err
	}
	return &Reelspin{cat: cata, cf: cf}, nil
}

// NewAuto 建立 Reelspin，註冊所有設定檔後直接 Freeze 進入執行階段。
func NewAuto(cf core.PRNGFactory, cfgs []fs.FS) (*Reelspin, error) {
	rs, err := New(cf, cfgs)
	if err != nil {
		return nil, err
	}
	if err := rs.RegisterAll(); err != nil {
		return nil, err
	}
	rs.Freeze()
	return rs, nil
}

func (r *Reelspin) Register(ents ...catalog.Entry) error {
	return r.cat.Register(ents...)
}

// RegisterAll 掃描所有設定檔來源，以設定檔內宣告的 game_id/game_name 批次註冊。
//
// 任一檔案解析或檢查失敗就整批放棄，不會留下註冊一半的 catalog。
func (r *Reelspin) RegisterAll() error {
	entries, err := r.cat.Discover()
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return errs.NewFatal("no config files found to register")
	}
	return r.cat.Register(entries...)
}

func (r *Reelspin) Freeze() {
	r.cat.Freeze()
}

func (r *Reelspin) EntryById(id spec.GID) (catalog.Entry, bool) {
	return r.cat.GetByID(id)
}

func (r *Reelspin) EntryByName(name string) (catalog.Entry, bool) {
	return r.cat.GetByName(name)
}

func (r *Reelspin) IDs() []spec.GID {
	return r.cat.IDs()
}

func (r *Reelspin) All() []catalog.Entry {
	return r.cat.All()
}

// Summary 回傳所有已註冊機台的摘要（依 gid 排序）；只在 Freeze 之後可用，結果會快取。
func (r *Reelspin) Summary() ([]catalog.Summary, error) {
	if !r.cat.IsFrozen() {
		return nil, errs.NewFatal("catalog is not frozen yet")
	}
	if r.sum != nil {
		return r.sum, nil
	}
	ids := r.cat.IDs()
	cs := make([]catalog.Summary, 0, len(ids))
	for _, id := range ids {
		ent, _ := r.cat.GetByID(id)
		ms, err := r.cat.MachineSettingById(id)
		if err != nil {
			return nil, errs.Wrap(err, "parse machine setting failed")
		}
		cs = append(cs, catalog.NewSummary(ent, ms))
	}
	r.sum = cs
	return r.sum, nil
}

// MachineSetting 回傳 gid 對應的設定（每次重新解析，呼叫端可自由修改）。
func (r *Reelspin) MachineSetting(id spec.GID) (*spec.MachineSetting, error) {
	if !r.cat.IsFrozen() {
		return nil, errs.NewFatal("catalog is not frozen yet")
	}
	return r.cat.MachineSettingById(id)
}

// NewMachine 依 gid 建立一台 Machine，seed 由 crypto/rand 產生。
func (r *Reelspin) NewMachine(id spec.GID) (*Machine, error) {
	ms, err := r.MachineSetting(id)
	if err != nil {
		return nil, err
	}
	return newMachine(ms, r.cf)
}

// NewMachineWithSeed 與 NewMachine 相同，但由呼叫端指定初始 seed（可重現）。
func (r *Reelspin) NewMachineWithSeed(id spec.GID, seed int64) (*Machine, error) {
	ms, err := r.MachineSetting(id)
	if err != nil {
		return nil, err
	}
	return newMachineWithSeed(ms, r.cf, seed)
}

func (r *Reelspin) NewSimulator(id spec.GID) (*Simulator, error) {
	seed, err := core.CryptoSeed()
	if err != nil {
		return nil, err
	}
	return r.NewSimulatorWithSeed(id, seed)
}

func (r *Reelspin) NewSimulatorWithSeed(id spec.GID, seed int64) (*Simulator, error) {
	ms, err := r.MachineSetting(id)
	if err != nil {
		return nil, err
	}
	return newSimulatorWithSeed(ms, r.cf, seed)
}

// NewSimulatorByJSON 以呼叫端提供的設定（例如調整過的滾輪權重）建立模擬器。
//
// 設定的 game_id/game_name 必須對應 catalog 內同一款遊戲。
func (r *Reelspin) NewSimulatorByJSON(raw []byte, seed int64) (*Simulator, error) {
	if !r.cat.IsFrozen() {
		return nil, errs.NewFatal("catalog is not frozen yet")
	}
	cfg, err := spec.GetMachineSettingByJSON(raw)
	if err != nil {
		return nil, err
	}
	return r.NewSimulatorBySetting(cfg, seed)
}

func (r *Reelspin) NewSimulatorByYAML(raw []byte, seed int64) (*Simulator, error) {
	if !r.cat.IsFrozen() {
		return nil, errs.NewFatal("catalog is not frozen yet")
	}
	cfg, err := spec.GetMachineSettingByYAML(raw)
	if err != nil {
		return nil, err
	}
	return r.NewSimulatorBySetting(cfg, seed)
}

// NewSimulatorBySetting 以已解析的設定建立模擬器，呼叫端可先調整權重再交給這裡。
func (r *Reelspin) NewSimulatorBySetting(cfg *spec.MachineSetting, seed int64) (*Simulator, error) {
	if !r.cat.IsFrozen() {
		return nil, errs.NewFatal("catalog is not frozen yet")
	}
	if cfg == nil {
		return nil, errs.NewWarn("machine setting is nil")
	}
	if err := r.validCfg(cfg); err != nil {
		return nil, err
	}
	return newSimulatorWithSeed(cfg, r.cf, seed)
}

func (r *Reelspin) validCfg(cfg *spec.MachineSetting) error {
	ent, ok := r.cat.GetByID(cfg.GameID)
	if !ok {
		return errs.NewWarn("gid not exist")
	}
	ent2, ok := r.cat.GetByName(cfg.GameName)
	if !ok {
		return errs.NewWarn("game name not exist")
	}
	if ent.GID != ent2.GID {
		return errs.NewWarn("game id is not matched game name")
	}
	return nil
}

// BuildRuntime Freeze catalog 後為每款遊戲建立 poolSize 台機台。
//
// 任一遊戲建立失敗就整體失敗，已建好的池會被關閉。
func (r *Reelspin) BuildRuntime(poolSize int) (*SlotRuntime, error) {
	r.Freeze()

	ids := r.cat.IDs()
	if len(ids) == 0 {
		return nil, errs.NewFatal("no games registered")
	}

	rt := &SlotRuntime{
		rs:       r,
		pools:    make(map[spec.GID]*MachinePool, len(ids)),
		ids:      ids,
		done:     make(chan struct{}),
		poolSize: max(1, poolSize),
	}
	rt.reason.Store("")

	cleanup := func() {
		for _, mp := range rt.pools {
			mp.closeWithReason("build_failed")
		}
	}
	for _, id := range ids {
		ms, err := r.cat.MachineSettingById(id)
		if err != nil {
			cleanup()
			return nil, err
		}
		seed, err := core.CryptoSeed()
		if err != nil {
			cleanup()
			return nil, err
		}
		mp, err := newMachinePool(rt.poolSize, ms, r.cf, seed)
		if err != nil {
			cleanup()
			return nil, err
		}
		rt.pools[id] = mp
	}
	return rt, nil
}
