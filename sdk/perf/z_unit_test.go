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

package perf

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/zintix-labs/reelspin/errs"
)

func TestParseMode(t *testing.T) {
	for _, s := range []string{"", "cpu", "heap", "allocs"} {
		if m, err := ParseMode(s); err != nil || string(m) != s {
			t.Fatalf("ParseMode(%q)=%q,%v", s, m, err)
		}
	}
	if _, err := ParseMode("block"); errs.LevelOf(err) != errs.Warn {
		t.Fatalf("unknown mode must be warn, got %v", err)
	}
}

func TestRunWritesProfile(t *testing.T) {
	for _, m := range []Mode{ModeCPU, ModeHeap, ModeAllocs} {
		dir := t.TempDir()
		ran := false
		if err := Run(func() error { ran = true; return nil }, m, dir); err != nil {
			t.Fatalf("%s: %v", m, err)
		}
		if !ran {
			t.Fatalf("%s: exe not called", m)
		}
		if _, err := os.Stat(filepath.Join(dir, string(m)+".pprof")); err != nil {
			t.Fatalf("%s: profile missing: %v", m, err)
		}
	}
}

func TestRunReturnsExeError(t *testing.T) {
	want := errors.New("sim failed")
	if err := Run(func() error { return want }, ModeHeap, t.TempDir()); !errors.Is(err, want) {
		t.Fatalf("got %v", err)
	}
	if err := Run(func() error { return want }, ModeNone, ""); !errors.Is(err, want) {
		t.Fatalf("got %v", err)
	}
}
