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

package logger

import (
	"bytes"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

type lockedBuffer struct {
	mu sync.Mutex
	b  bytes.Buffer
}

func (l *lockedBuffer) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.b.Write(p)
}

func (l *lockedBuffer) String() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.b.String()
}

func TestAsyncHandlerDrainsOnClose(t *testing.T) {
	out := &lockedBuffer{}
	ah := NewAsyncHandler(buildHandler(ModeProd, out), 64)
	log := slog.New(ah)
	for i := 0; i < 10; i++ {
		log.Info("spin", slog.Int("i", i))
	}
	ah.Close()
	if n := strings.Count(out.String(), `"msg":"spin"`); n+int(ah.Dropped()) != 10 {
		t.Fatalf("written %d dropped %d, want 10 total", n, ah.Dropped())
	}
	log.Info("after close")
	if strings.Contains(out.String(), "after close") {
		t.Fatalf("closed handler must drop new records")
	}
	ah.Close()
}

func TestModeLevels(t *testing.T) {
	var buf bytes.Buffer
	NewWithWriter(ModeProd, &buf).Debug("hidden")
	if buf.Len() != 0 {
		t.Fatalf("prod mode must not emit debug")
	}
	NewWithWriter(ModeDev, &buf).Debug("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Fatalf("dev mode must emit debug")
	}
	if ModeSilence.String() != "silence" {
		t.Fatalf("unexpected mode name")
	}
}
