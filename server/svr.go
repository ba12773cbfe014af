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

// Package server 把 Reelspin 組裝成 HTTP 服務。
package server

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/zintix-labs/reelspin/errs"
	"github.com/zintix-labs/reelspin/server/api"
	"github.com/zintix-labs/reelspin/server/app"
	"github.com/zintix-labs/reelspin/server/netsvr"
	"github.com/zintix-labs/reelspin/server/svrcfg"
)

// Run 以內建的 chi server 啟動服務，阻塞直到收到停止訊號。
//
// 所有依賴（logger、Reelspin、位址）都由 SvrCfg 注入，這裡不讀檔也不讀環境變數。
func Run(sCfg *svrcfg.SvrCfg) error {
	if err := sCfg.Vaild(); err != nil {
		// logger 可能不可用，直接寫 stderr
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	return run(sCfg, netsvr.NewChiServer(sCfg.Addr))
}

// RunWithSvr 與 Run 相同，但由呼叫端注入自訂的 NetSvr（其他 router、listener 或 TLS 設定）。
func RunWithSvr(sCfg *svrcfg.SvrCfg, svr netsvr.NetSvr) error {
	if err := sCfg.Vaild(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	if svr == nil {
		err := errs.NewFatal("svr is required")
		sCfg.Log.Error(err.Error())
		return err
	}
	if s, ok := svr.(*netsvr.ChiAdapter); ok && !s.Ready() {
		err := errs.NewFatal("default server is not ready")
		sCfg.Log.Error(err.Error())
		return err
	}
	return run(sCfg, svr)
}

func run(sCfg *svrcfg.SvrCfg, svr netsvr.NetSvr) error {
	rt, err := api.RegisterRoutes(svr, sCfg)
	if err != nil {
		sCfg.Log.Error("register routes", slog.Any("err", err))
		return err
	}
	defer rt.Close()

	sCfg.Log.Info("[reelspin] listening", slog.String("addr", svr.Address()), slog.Any("games", rt.IDs()))
	if err := app.NewWith(svr).WithLogger(sCfg.Log).Run(); err != nil {
		sCfg.Log.Error("app stopped", slog.Any("err", err))
		return err
	}
	return nil
}
