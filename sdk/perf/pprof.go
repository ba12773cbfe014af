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

// Package perf 包裝 runtime/pprof，讓 CLI 以 -p 切換 profiling。
package perf

import (
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"

	"github.com/zintix-labs/reelspin/errs"
)

// DefaultDir pprof 檔案寫入路徑
const DefaultDir = "build/profiling"

// Mode 可用的 profiling 模式
type Mode string

const (
	ModeNone   Mode = ""
	ModeCPU    Mode = "cpu"
	ModeHeap   Mode = "heap"
	ModeAllocs Mode = "allocs"
)

// ParseMode 未知模式回 Warn
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeNone, ModeCPU, ModeHeap, ModeAllocs:
		return m, nil
	}
	return ModeNone, errs.Warnf("unknown pprof mode %q (cpu|heap|allocs)", s)
}

// Run 依模式執行 exe，並把 profile 寫到 dir（空值為 DefaultDir）。
//
// exe 的錯誤優先回傳；cpu 模式下 profile 仍會正常收尾。
func Run(exe func() error, mode Mode, dir string) error {
	if mode == ModeNone {
		return exe()
	}
	if dir == "" {
		dir = DefaultDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errs.Wrap(err, "create pprof dir")
	}
	path := filepath.Join(dir, string(mode)+".pprof")

	switch mode {
	case ModeCPU:
		return cpu(exe, path)
	case ModeHeap:
		if err := exe(); err != nil {
			return err
		}
		// 拍快照前先 GC，只留 live objects
		runtime.GC()
		return writeProfile("heap", path)
	case ModeAllocs:
		if err := exe(); err != nil {
			return err
		}
		return writeProfile("allocs", path)
	}
	return errs.Warnf("unknown pprof mode %q", mode)
}

func cpu(exe func() error, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errs.Wrap(err, "create "+path)
	}
	defer f.Close()
	if err := pprof.StartCPUProfile(f); err != nil {
		return errs.Wrap(err, "start cpu profile")
	}
	defer pprof.StopCPUProfile()
	return exe()
}

func writeProfile(name string, path string) error {
	prof := pprof.Lookup(name)
	if prof == nil {
		return errs.Fatalf("no %s profile", name)
	}
	f, err := os.Create(path)
	if err != nil {
		return errs.Wrap(err, "create "+path)
	}
	defer f.Close()
	if err := prof.WriteTo(f, 0); err != nil {
		return errs.Wrap(err, "write "+name+" profile")
	}
	return nil
}
