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
	"sync"
	"sync/atomic"

	"github.com/zintix-labs/reelspin/catalog"
	"github.com/zintix-labs/reelspin/dto"
	"github.com/zintix-labs/reelspin/errs"
	"github.com/zintix-labs/reelspin/spec"
)

// SlotRuntime 是對外服務的執行期入口：每款遊戲一個 MachinePool，依 gid 路由。
type SlotRuntime struct {
	// build-time 來源（只讀引用）
	rs *Reelspin

	// data-plane：關鍵主池（每個遊戲一個 pool）
	pools map[spec.GID]*MachinePool
	ids   []spec.GID // 固定順序，用於觀測/列舉（來自 cat.IDs()）

	// lifecycle
	done      chan struct{}
	closeOnce sync.Once
	closed    atomic.Bool
	reason    atomic.Value // string

	poolSize int // 每個遊戲的池大小
}

// Spin 依 req.GameId 找到對應的機台池並執行一局。
func (rt *SlotRuntime) Spin(ctx context.Context, req *dto.SpinRequest) (dto.SpinResult, error) {
	if req == nil {
		return dto.SpinResult{}, errs.NewWarn("spin request is nil")
	}
	select {
	case <-ctx.Done():
		// 如果通知取消
		return dto.SpinResult{}, errs.Wrap(ctx.Err(), "spin canceled/timeout")
	case <-rt.done:
		// done is the source of truth; keep a fast boolean for cheap reads/telemetry.
		rt.closed.Store(true)
		return dto.SpinResult{}, errs.NewFatal("slot runtime closed: " + rt.ClosedReason())
	default:
	}

	mp, ok := rt.pools[req.GameId]
	if !ok {
		return dto.SpinResult{}, errs.NewWarn("game id not found")
	}

	// pool 自己會處理 done / close / rebuild / metrics
	return mp.Spin(ctx, req)
}

// Close transitions the runtime into a closed state. It is safe to call multiple times.
func (rt *SlotRuntime) Close() {
	rt.closeWithReason("closed")
}

// closeWithReason closes the runtime and records the reason (written once).
func (rt *SlotRuntime) closeWithReason(reason string) {
	rt.closeOnce.Do(func() {
		if reason == "" {
			reason = "closed"
		}
		rt.reason.Store(reason)
		rt.closed.Store(true)
		close(rt.done)
		for _, id := range rt.ids {
			rt.pools[id].closeWithReason(reason)
		}
	})
}

// Closed reports whether the runtime has been closed.
func (rt *SlotRuntime) Closed() bool {
	return rt.closed.Load()
}

func (rt *SlotRuntime) ClosedReason() string {
	if v := rt.reason.Load(); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// IDs 回傳 runtime 服務中的遊戲 ID（遞增排序）。
func (rt *SlotRuntime) IDs() []spec.GID {
	return append([]spec.GID(nil), rt.ids...)
}

// PoolSize 回傳每款遊戲的機台數
func (rt *SlotRuntime) PoolSize() int {
	return rt.poolSize
}

// Summary 回傳 runtime 內所有機台的摘要
func (rt *SlotRuntime) Summary() ([]catalog.Summary, error) {
	return rt.rs.Summary()
}

// Metrics 依 gid 順序回傳每個機台池的觀測快照。
func (rt *SlotRuntime) Metrics() []MachinePoolMetrics {
	out := make([]MachinePoolMetrics, 0, len(rt.ids))
	for _, id := range rt.ids {
		out = append(out, rt.pools[id].Metrics())
	}
	return out
}
