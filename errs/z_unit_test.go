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

package errs

import (
	"errors"
	"io"
	"strings"
	"testing"
)

func TestWrapKeepsLevel(t *testing.T) {
	base := NewWarn("bad request")
	w := Wrap(base, "decode failed")
	if w.ErrLv != Warn {
		t.Fatalf("expected warn level, got %s", w.ErrLv)
	}
	if !errors.Is(w, base) {
		t.Fatalf("expected wrapped error to match cause")
	}
}

func TestWrapForeignIsFatal(t *testing.T) {
	w := Wrap(io.ErrUnexpectedEOF, "read failed")
	if w.ErrLv != Fatal {
		t.Fatalf("expected fatal level, got %s", w.ErrLv)
	}
	if !IsFatal(w) {
		t.Fatalf("IsFatal should report true")
	}
	if !strings.Contains(w.Error(), "unexpected EOF") {
		t.Fatalf("cause missing from message: %s", w.Error())
	}
}

func TestLevelOf(t *testing.T) {
	if LevelOf(nil) != None {
		t.Fatalf("nil should be None")
	}
	if LevelOf(NewLog("x")) != Log {
		t.Fatalf("expected log level")
	}
	if e, ok := AsErr(Wrap(NewWarn("inner"), "outer")); !ok || e.Message != "outer" {
		t.Fatalf("AsErr should find outer *E, got %+v", e)
	}
}

func TestWithExtra(t *testing.T) {
	e := Wrap(NewWarn("bad bet"), "spin").WithExtra("req_id=abc")
	if e.ErrLv != Warn || !strings.Contains(e.Error(), "extra: req_id=abc") {
		t.Fatalf("unexpected %v", e)
	}
}
