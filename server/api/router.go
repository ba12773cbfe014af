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

package api

import (
	"log/slog"

	"github.com/zintix-labs/reelspin"
	v1 "github.com/zintix-labs/reelspin/server/api/v1"
	"github.com/zintix-labs/reelspin/server/netsvr"
	"github.com/zintix-labs/reelspin/server/netsvr/middleware"
	"github.com/zintix-labs/reelspin/server/svrcfg"
)

// RegisterRoutes 建立 SlotRuntime 並註冊 middleware 與所有路由。
//
// 回傳的 runtime 由呼叫端負責 Close；註冊失敗時 runtime 已被關閉。
func RegisterRoutes(svr netsvr.NetSvr, sCfg *svrcfg.SvrCfg) (*reelspin.SlotRuntime, error) {
	rt, err := sCfg.Reelspin.BuildRuntime(sCfg.SlotBufSize)
	if err != nil {
		return nil, err
	}
	registerMiddleware(svr, sCfg)                  // 1. 註冊 middleware
	if err := registerIndex(svr, rt); err != nil { // 2. 註冊主頁
		rt.Close()
		return nil, err
	}
	if err := registerV1API(svr, sCfg, rt); err != nil { // 3. 註冊 v1 api
		rt.Close()
		return nil, err
	}
	return rt, nil
}

// 註冊 middleware，順序即包覆順序（最外層在前）
func registerMiddleware(svr netsvr.NetSvr, sCfg *svrcfg.SvrCfg) {
	svr.Use(middleware.RequestID)
	svr.Use(middleware.AccessLog(sCfg.Log))
	svr.Use(middleware.Recover)
	svr.Use(middleware.CORS(sCfg.CORSOrigins))
	svr.Use(middleware.Compression)
}

// 註冊主頁
func registerIndex(svr netsvr.NetSvr, rt *reelspin.SlotRuntime) error {
	h, err := newIndexHandler(rt)
	if err != nil {
		return err
	}
	svr.Get("/", h.Index)
	return nil
}

// 註冊 v1 api
func registerV1API(svr netsvr.NetSvr, sCfg *svrcfg.SvrCfg, rt *reelspin.SlotRuntime) error {
	log := sCfg.Log
	if log == nil {
		log = slog.Default()
	}
	sp, err := v1.NewSpinHandler(rt, log, sCfg.SpinTimeout)
	if err != nil {
		return err
	}
	sm, err := v1.NewSimHandler(sCfg.Reelspin)
	if err != nil {
		return err
	}
	rh, err := v1.NewRuntimeHandler(rt)
	if err != nil {
		return err
	}
	svr.Group("/v1", func(vOne netsvr.NetRouter) {
		vOne.GetPost("/spin", sp.Spin)
		vOne.GetPost("/sim", sm.Sim)
		vOne.GetPost("/simplayer", sm.SimPlayers)
		vOne.Post("/simbycfg", sm.SimByCfg)

		vOne.Get("/machines", rh.Machines)
		vOne.Get("/metrics", rh.Metrics)
	})
	return nil
}
