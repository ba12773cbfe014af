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

package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/zintix-labs/reelspin/demo"
	"github.com/zintix-labs/reelspin/server"
	"github.com/zintix-labs/reelspin/server/logger"
	"github.com/zintix-labs/reelspin/server/svrcfg"
)

// reelspin HTTP server，載入內嵌示範機台。
// flag 預設值取自環境變數（REELSPIN_*），flag 優先。
func main() {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := server.Run(cfg); err != nil {
		os.Exit(1)
	}
}

func loadConfig() (*svrcfg.SvrCfg, error) {
	e, err := svrcfg.ParseEnv()
	if err != nil {
		return nil, err
	}
	flag.StringVar(&e.Addr, "addr", e.Addr, "listen address")
	flag.StringVar(&e.LogMode, "log-mode", e.LogMode, "log mode: dev|prod|silence")
	flag.IntVar(&e.PoolSize, "buf", e.PoolSize, "number of machine instances per game (1..10)")
	flag.DurationVar(&e.SpinTimeout, "spin-timeout", e.SpinTimeout, "timeout of a single spin request")
	flag.Parse()

	mode, err := svrcfg.ParseLogMode(e.LogMode)
	if err != nil {
		return nil, err
	}
	log, _ := logger.NewAsync(4096, mode)

	rs, err := demo.NewReelspin()
	if err != nil {
		return nil, err
	}
	return &svrcfg.SvrCfg{
		Log:         log,
		Addr:        e.Addr,
		SlotBufSize: e.PoolSize,
		CORSOrigins: e.CORSOrigins,
		SpinTimeout: e.SpinTimeout,
		Reelspin:    rs,
	}, nil
}
