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

package recorder

import (
	"testing"

	"github.com/zintix-labs/reelspin/sdk/buf"
)

func result(prize int, awarded int, owedAfter int) *buf.Result {
	r := buf.NewResult()
	r.Prize = prize
	r.Grid = &buf.Grid{FreeSpin: buf.FreeSpin{Multiplier: 1, Total: awarded}}
	r.ExitStorage = buf.Storage{FreeSpin: &buf.FreeSpin{Multiplier: 1, Total: owedAfter}}
	return r
}

func TestRecordPaidAndFree(t *testing.T) {
	s, err := NewSpinRecorder("demo", 1, 5, 2, 0)
	if err != nil {
		t.Fatalf("new recorder: %v", err)
	}
	s.Record(result(0, 3, 3), false) // 付費局觸發
	s.Record(result(20, 0, 2), true) // 免費局
	s.Record(result(0, 0, 1), true)  // 免費局
	s.Record(result(10, 0, 0), true) // 最後一次免費
	s.Record(result(5, 0, 0), false) // 回到付費

	b := s.Basic
	if b.TotalBet != 20 || b.Rounds != 5 || b.FreeRounds != 3 || b.Trigger != 1 {
		t.Fatalf("unexpected basic record %+v", b)
	}
	if b.BaseWin != 5 || b.FreeWin != 30 || b.TotalWin != 35 {
		t.Fatalf("unexpected wins %+v", b)
	}

	rep := s.Done()
	if rep.Summary.RTP != 35.0/20.0 {
		t.Fatalf("unexpected RTP %.4f", rep.Summary.RTP)
	}
	if rep.Summary.NoWinRounds != 2 || rep.Summary.TriggerRate != 0.2 {
		t.Fatalf("unexpected summary %+v", rep.Summary)
	}
}

func TestMergeSpinRecorder(t *testing.T) {
	a, _ := NewSpinRecorder("demo", 1, 5, 2, 0)
	b, _ := NewSpinRecorder("demo", 1, 5, 2, 0)
	a.Record(result(10, 0, 0), false)
	b.Record(result(0, 0, 0), false)
	b.Record(result(30, 0, 0), true)

	m, err := MergeSpinRecorder([]*SpinRecorder{a, b})
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if m.Basic.Rounds != 3 || m.Basic.TotalWin != 40 || m.Basic.TotalBet != 20 {
		t.Fatalf("unexpected merge %+v", m.Basic)
	}
	sum := 0
	for _, c := range m.Dist.TotalWinCollect {
		sum += c
	}
	if sum != 3 {
		t.Fatalf("distribution must cover every round, got %d", sum)
	}

	c, _ := NewSpinRecorder("demo", 1, 1, 2, 0)
	if _, err := MergeSpinRecorder([]*SpinRecorder{a, c}); err == nil {
		t.Fatalf("expected error for different bet")
	}
}

func TestPlayerSession(t *testing.T) {
	s, _ := NewSpinRecorder("demo", 1, 1, 1, 2)
	if !s.CanAfford(false) {
		t.Fatalf("player starts with 2 bets")
	}
	if s.RecordWithPlayer(result(0, 0, 0), false) {
		t.Fatalf("balance 1 must keep playing")
	}
	if !s.RecordWithPlayer(result(0, 0, 0), false) {
		t.Fatalf("balance 0 must bust")
	}
	if !s.Player.Bust || s.CanAfford(false) || !s.CanAfford(true) {
		t.Fatalf("unexpected player state %+v", s.Player)
	}

	rich, _ := NewSpinRecorder("demo", 1, 1, 1, 2)
	if !rich.RecordWithPlayer(result(10, 0, 0), false) || !rich.Player.Cashout {
		t.Fatalf("balance 11 >= 6 must cash out")
	}

	owed, _ := NewSpinRecorder("demo", 1, 1, 1, 1)
	if owed.RecordWithPlayer(result(0, 5, 5), false) {
		t.Fatalf("player with owed free spins must stay")
	}
}

func TestNewSpinRecorderInvalid(t *testing.T) {
	if _, err := NewSpinRecorder("demo", 1, 0, 1, 0); err == nil {
		t.Fatalf("expected error for zero lines")
	}
	if _, err := NewSpinRecorder("demo", 1, 1, 1, -1); err == nil {
		t.Fatalf("expected error for negative init bets")
	}
}
