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

// Package svrcfg 定義 HTTP 服務啟動所需的依賴與環境設定。
package svrcfg

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/zintix-labs/reelspin"
	"github.com/zintix-labs/reelspin/errs"
	"github.com/zintix-labs/reelspin/server/logger"
)

// Env 由環境變數讀入的服務設定；cmd/svr 的 flag 會以這裡的值為預設。
type Env struct {
	Addr        string        `env:"REELSPIN_ADDR"         envDefault:":5808"`
	LogMode     string        `env:"REELSPIN_LOG_MODE"     envDefault:"dev"`
	PoolSize    int           `env:"REELSPIN_POOL_SIZE"    envDefault:"1"`
	CORSOrigins []string      `env:"REELSPIN_CORS_ORIGINS" envDefault:"*" envSeparator:","`
	SpinTimeout time.Duration `env:"REELSPIN_SPIN_TIMEOUT" envDefault:"5s"`
}

// ParseEnv 讀取環境變數
func ParseEnv() (Env, error) {
	var e Env
	if err := env.Parse(&e); err != nil {
		return Env{}, errs.Wrap(err, "parse env")
	}
	return e, nil
}

// ParseLogMode 把 dev/prod/silence 轉成 logger.LogMode。
func ParseLogMode(s string) (logger.LogMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "dev":
		return logger.ModeDev, nil
	case "prod":
		return logger.ModeProd, nil
	case "silence":
		return logger.ModeSilence, nil
	default:
		return logger.ModeDev, errs.NewWarn(fmt.Sprintf("unknown log mode %q (dev|prod|silence)", s))
	}
}

type SvrCfg struct {
	Log         *slog.Logger
	Addr        string        // 監聽位址，空值使用預設 :5808
	SlotBufSize int           // 每款遊戲的機台數
	CORSOrigins []string      // 允許的來源，空值代表 *
	SpinTimeout time.Duration // 單局 Spin 的逾時
	Reelspin    *reelspin.Reelspin
}

func (sc *SvrCfg) Vaild() error {
	if sc.Log != nil {
		if ah, ok := sc.Log.Handler().(*logger.AsyncHandler); ok && !ah.Ready() {
			return errs.NewFatal("nil default log handler: async handler is nil")
		}
	} else {
		sc.Log, _ = logger.NewAsync(1024, logger.ModeDev)
	}

	// 1 <= SlotBufSize <= 10，控制常駐機台數
	sc.SlotBufSize = max(1, sc.SlotBufSize)
	sc.SlotBufSize = min(10, sc.SlotBufSize)
	if sc.SpinTimeout <= 0 {
		sc.SpinTimeout = 5 * time.Second
	}
	if len(sc.CORSOrigins) == 0 {
		sc.CORSOrigins = []string{"*"}
	}
	if sc.Reelspin == nil {
		return errs.NewFatal("reelspin is required")
	}
	return nil
}
