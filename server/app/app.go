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

// Package app 提供應用程式生命週期管理（App），負責統一啟動與關閉多個 Component。
package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"
)

const defaultShutdownTimeout = 5 * time.Second

// App 啟動所有註冊的 Component，並在收到 OS 信號、ctx 結束或任一 Component 返回時協調優雅關閉。
type App struct {
	comps   []Component
	log     *slog.Logger
	timeout time.Duration
}

// New 建立一個新的 App 實例。
func New() *App { return &App{timeout: defaultShutdownTimeout} }

// NewWith 建立 App 並直接註冊多個 Component。
func NewWith(comps ...Component) *App {
	app := New()
	for _, c := range comps {
		app.Register(c)
	}
	return app
}

// Register 將一個 Component 註冊到 App 中，該 Component 將在 Run 時被管理。
func (a *App) Register(c Component) {
	a.comps = append(a.comps, c)
}

// WithLogger 設定關閉過程的 logger；nil 代表不記錄。
func (a *App) WithLogger(log *slog.Logger) *App {
	a.log = log
	return a
}

// WithShutdownTimeout 設定優雅關閉的期限
func (a *App) WithShutdownTimeout(d time.Duration) *App {
	if d > 0 {
		a.timeout = d
	}
	return a
}

// Run 以背景 context 執行，見 RunContext。
func (a *App) Run() error {
	return a.RunContext(context.Background())
}

// RunContext 並行啟動所有 Component（每個 Run 都應阻塞到元件停止），並阻塞直到：
//   - 收到 SIGINT/SIGTERM 或 ctx 結束：優雅關閉並回傳 nil。
//   - 任一 Component 返回：優雅關閉並回傳該錯誤（http.ErrServerClosed 視為正常）。
func (a *App) RunContext(ctx context.Context) error {
	errCh := make(chan error, len(a.comps))
	for _, c := range a.comps {
		go func(c Component) {
			errCh <- c.Run()
		}(c)
	}

	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case <-sigCtx.Done():
		a.gracefulShutdown()
		return nil
	case err := <-errCh:
		a.gracefulShutdown()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// gracefulShutdown 在期限內依序呼叫所有 Component.Shutdown。
func (a *App) gracefulShutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
	defer cancel()
	for _, c := range a.comps {
		err := c.Shutdown(ctx)
		if a.log == nil {
			continue
		}
		if err != nil {
			a.log.Error("component shutdown failed", slog.String("component", nameOf(c)), slog.Any("err", err))
			continue
		}
		a.log.Info("component stopped", slog.String("component", nameOf(c)))
	}
}
