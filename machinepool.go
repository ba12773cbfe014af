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
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/zintix-labs/reelspin/dto"
	"github.com/zintix-labs/reelspin/errs"
	"github.com/zintix-labs/reelspin/sdk/core"
	"github.com/zintix-labs/reelspin/spec"
)

const brokenBacklog = 100

// 關閉原因
const (
	reasonClosed      = "closed"
	reasonOverwhelmed = "overwhelmed_by_failures"
	reasonRebuild     = "rebuild_failed"
)

// MachinePool 管理單一遊戲的機台：
//   - idle：可借出的健康機台
//   - broken：panic 或 Fatal 後不可信的機台，留待排查，不再上線
//
// 每淘汰一台就立刻以新 seed 補一台，維持容量。broken 滿代表連續故障，池會自行關閉。
type MachinePool struct {
	ms    *spec.MachineSetting
	cf    core.PRNGFactory
	seeds *seedMaker
	size  int

	idle   chan *Machine
	broken chan *Machine

	done      chan struct{}
	closeOnce sync.Once
	reason    atomic.Value // string
	atClose   atomic.Pointer[PoolSnapshot]

	inflight atomic.Int32
	served   atomic.Int64 // 成功回傳的局數
	warns    atomic.Int64 // 請求錯誤（機台仍健康）
	rebuild  atomic.Int32
	panics   atomic.Int32
	fatals   atomic.Int32
}

// PoolSnapshot 關閉瞬間的池狀態，事後排查用
type PoolSnapshot struct {
	Inflight  int `json:"inflight"`
	Available int `json:"available"`
	Broken    int `json:"broken"`
}

// newMachinePool 預先上架 n 台（至少 1 台）機台；各台 seed 由 seed 派生，互不重複。
func newMachinePool(n int, ms *spec.MachineSetting, cf core.PRNGFactory, seed int64) (*MachinePool, error) {
	if ms == nil {
		return nil, errs.NewFatal("machine setting is nil")
	}
	if err := ms.Init(); err != nil {
		return nil, err
	}
	n = max(1, n)
	p := &MachinePool{
		ms:     ms,
		cf:     cf,
		seeds:  newSeedMaker(seed),
		size:   n,
		idle:   make(chan *Machine, n),
		broken: make(chan *Machine, brokenBacklog),
		done:   make(chan struct{}),
	}
	p.reason.Store("")
	for range n {
		m, err := p.build()
		if err != nil {
			return nil, err
		}
		p.idle <- m
	}
	return p, nil
}

func (p *MachinePool) build() (*Machine, error) {
	return newMachineWithSeed(p.ms, p.cf, p.seeds.next())
}

func (p *MachinePool) Close() {
	p.closeWithReason(reasonClosed)
}

func (p *MachinePool) Closed() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}

// closeWithReason 只有第一次呼叫生效
func (p *MachinePool) closeWithReason(reason string) {
	p.closeOnce.Do(func() {
		if reason == "" {
			reason = reasonClosed
		}
		p.reason.Store(reason)
		p.atClose.Store(&PoolSnapshot{
			Inflight:  int(p.inflight.Load()),
			Available: len(p.idle),
			Broken:    len(p.broken),
		})
		close(p.done)
	})
}

func (p *MachinePool) ClosedReason() string {
	s, _ := p.reason.Load().(string)
	return s
}

// borrow 取得一台閒置機台；已關閉或 ctx 結束時回錯誤。
func (p *MachinePool) borrow(ctx context.Context) (*Machine, error) {
	// select 在多個 case 同時就緒時隨機挑選，先檢查才能保證已取消的請求不會被執行
	if p.Closed() {
		return nil, errs.NewFatal("machine pool closed: " + p.ClosedReason())
	}
	if err := ctx.Err(); err != nil {
		return nil, errs.Wrap(err, "spin canceled/timeout")
	}
	select {
	case <-p.done:
		return nil, errs.NewFatal("machine pool closed: " + p.ClosedReason())
	case <-ctx.Done():
		return nil, errs.Wrap(ctx.Err(), "spin canceled/timeout")
	case m := <-p.idle:
		if m == nil {
			return nil, errs.NewFatal("machine pool got nil machine")
		}
		p.inflight.Add(1)
		return m, nil
	}
}

// giveBack 健康機台歸還；已關閉則直接丟棄
func (p *MachinePool) giveBack(m *Machine) {
	select {
	case <-p.done:
	case p.idle <- m:
	}
}

// retire 淘汰 m 並補上一台新機；失敗時池已關閉，回傳的錯誤取代原錯誤。
func (p *MachinePool) retire(m *Machine) error {
	select {
	case p.broken <- m:
	default:
		p.closeWithReason(reasonOverwhelmed)
		return errs.NewFatal("machine pool overwhelmed by failures")
	}
	fresh, err := p.build()
	p.rebuild.Add(1)
	if err != nil {
		p.closeWithReason(reasonRebuild)
		return errs.Wrap(err, fmt.Sprintf("machine %s can not build", p.ms.GameName))
	}
	p.giveBack(fresh)
	return nil
}

// Spin 借一台機台執行請求。
//
// panic 與 Fatal 代表機台狀態不可信，淘汰並補機；Warn 類請求錯誤不影響機台。
func (p *MachinePool) Spin(ctx context.Context, req *dto.SpinRequest) (out dto.SpinResult, err error) {
	m, err := p.borrow(ctx)
	if err != nil {
		return out, err
	}

	defer func() {
		p.inflight.Add(-1)
		panicked := false
		if r := recover(); r != nil {
			panicked = true
			p.panics.Add(1)
			err = errs.NewFatal(fmt.Sprintf("machine %s panic : %v", m.gameName, r))
		}
		switch {
		case p.Closed():
			// 關閉後不歸還也不補機
		case panicked || errs.IsFatal(err):
			if !panicked {
				p.fatals.Add(1)
			}
			if e := p.retire(m); e != nil {
				err = e
			}
		default:
			if err != nil {
				p.warns.Add(1)
			} else {
				p.served.Add(1)
			}
			p.giveBack(m)
		}
	}()

	out, err = m.Spin(req)
	return
}

func (p *MachinePool) PoolSize() int { return p.size }

// MachinePoolMetrics 拉取式觀測快照，不綁任何 telemetry SDK。
//
// Available/BrokenBacklog 取自 len(chan)，高併發下為近似值。AtClose 在關閉前為 nil。
type MachinePoolMetrics struct {
	GameName      string        `json:"game_name"`
	GameID        spec.GID      `json:"game_id"`
	PoolSize      int           `json:"pool_size"`
	Available     int           `json:"available"`
	Inflight      int           `json:"inflight"`
	BrokenBacklog int           `json:"broken_backlog"`
	Served        int64         `json:"served"`
	Warns         int64         `json:"warns"`
	Rebuild       int           `json:"rebuild"`
	Panics        int           `json:"panics"`
	Fatals        int           `json:"fatals"`
	Closed        bool          `json:"closed"`
	CloseReason   string        `json:"close_reason"`
	AtClose       *PoolSnapshot `json:"at_close,omitempty"`
}

func (p *MachinePool) Metrics() MachinePoolMetrics {
	return MachinePoolMetrics{
		GameName:      p.ms.GameName,
		GameID:        p.ms.GameID,
		PoolSize:      p.size,
		Available:     len(p.idle),
		Inflight:      int(p.inflight.Load()),
		BrokenBacklog: len(p.broken),
		Served:        p.served.Load(),
		Warns:         p.warns.Load(),
		Rebuild:       int(p.rebuild.Load()),
		Panics:        int(p.panics.Load()),
		Fatals:        int(p.fatals.Load()),
		Closed:        p.Closed(),
		CloseReason:   p.ClosedReason(),
		AtClose:       p.atClose.Load(),
	}
}
