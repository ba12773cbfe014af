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

// Package demo 提供內嵌示範機台（demo_configs）的快速組裝入口。
package demo

import (
	"github.com/zintix-labs/reelspin"
	"github.com/zintix-labs/reelspin/catalog"
	"github.com/zintix-labs/reelspin/demo/demo_configs"
	"github.com/zintix-labs/reelspin/errs"
	"github.com/zintix-labs/reelspin/sdk/core"
	"github.com/zintix-labs/reelspin/server/logger"
	"github.com/zintix-labs/reelspin/server/svrcfg"
)

func New() (*catalog.Catalog, error) {
	return catalog.New(demo_configs.FS)
}

// NewReelspin 註冊全部示範機台並凍結
func NewReelspin() (*reelspin.Reelspin, error) {
	return reelspin.NewAuto(core.Default(), reelspin.Configs(demo_configs.FS))
}

// NewServerConfig 以環境變數（缺省值）與示範機台組出 SvrCfg。
func NewServerConfig() (*svrcfg.SvrCfg, error) {
	e, err := svrcfg.ParseEnv()
	if err != nil {
		return nil, err
	}
	mode, err := svrcfg.ParseLogMode(e.LogMode)
	if err != nil {
		return nil, err
	}
	rs, err := NewReelspin()
	if err != nil {
		return nil, errs.Wrap(err, "new reelspin failed")
	}
	return &svrcfg.SvrCfg{
		Log:         logger.NewDefaultAsyncLogger(mode),
		Addr:        e.Addr,
		SlotBufSize: e.PoolSize,
		CORSOrigins: e.CORSOrigins,
		SpinTimeout: e.SpinTimeout,
		Reelspin:    rs,
	}, nil
}
