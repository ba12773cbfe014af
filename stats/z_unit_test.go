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

package stats_test

import (
	"bytes"
	"encoding/json"
	"io"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/zintix-labs/reelspin/stats"
)

// buildStatReport 以付費局贏分列表建立報表，全部視為 base win。
func buildStatReport(betUnit int, wins []int) *stats.StatReport {
	L := len(stats.Buckets.WinBucketStr())
	bucket := stats.Buckets.GetBucketByBetUnit(betUnit)
	twc := make([]int, L)

	var totalWin, totalWinSq int
	for _, w := range wins {
		twc[bucket.Index(w)]++
		totalWin += w
		totalWinSq += w * w
	}

	bu := float64(betUnit)
	report := &stats.StatReport{
		Summary: &stats.SummaryReport{
			GameName:    "TestGame",
			MaxLines:    betUnit,
			BetPerLine:  1,
			BetUnit:     betUnit,
			TotalBet:    betUnit * len(wins),
			TotalWin:    totalWin,
			BaseWin:     totalWin,
			NoWinRounds: twc[0],
			Rounds:      len(wins),
		},
		Mult: &stats.MultReport{
			TotalWinMult:      float64(totalWin) / bu,
			BaseWinMult:       float64(totalWin) / bu,
			TotalWinMultSqSum: float64(totalWinSq) / (bu * bu),
			BaseWinMultSqSum:  float64(totalWinSq) / (bu * bu),
		},
		Dist: &stats.DistReport{
			WinBucket:       stats.Buckets.WinBucketStr(),
			TotalWinCollect: twc,
			BaseWinCollect:  append([]int(nil), twc...),
			FreeWinCollect:  make([]int, L),
		},
		Player: &stats.PlayerReport{},
	}
	return report
}

func TestStatReportCoreMetrics(t *testing.T) {
	bu := 40
	rep := buildStatReport(bu, []int{bu, 2 * bu, 0})
	rep.Done()

	wantRTP := float64(3*bu) / float64(3*bu)
	if got := rep.Rtp(); math.Abs(got-wantRTP) > 1e-12 {
		t.Fatalf("RTP got %.12f want %.12f", got, wantRTP)
	}

	// 贏倍樣本 1, 2, 0
	mean := 1.0
	variance := ((1-mean)*(1-mean) + (2-mean)*(2-mean) + (0-mean)*(0-mean)) / 2
	if got := rep.Std(); math.Abs(got-math.Sqrt(variance)) > 1e-12 {
		t.Fatalf("Std got %.12f want %.12f", got, math.Sqrt(variance))
	}
	if got := rep.Cv(); math.Abs(got-math.Sqrt(variance)/wantRTP) > 1e-12 {
		t.Fatalf("CV got %.12f", got)
	}

	ci := rep.Summary.RtpCI
	se := math.Sqrt(variance) / math.Sqrt(3)
	if math.Abs(ci.Hi-(wantRTP+1.959963984540054*se)) > 1e-9 {
		t.Fatalf("unexpected CI %+v", ci)
	}
	if math.Abs(rep.Summary.HitRate-2.0/3.0) > 1e-12 {
		t.Fatalf("hit rate got %.6f", rep.Summary.HitRate)
	}
	if !rep.Player.Alive {
		t.Fatalf("player without bust or cashout must be alive")
	}
}

func TestWinBucketIndex(t *testing.T) {
	b := stats.Buckets.GetBucketByBetUnit(10)
	cases := map[int]int{
		0:       0,
		1:       1,
		9:       1,
		10:      2,
		49:      3,
		50:      4,
		19999:   11,
		20000:   12,
		99999:   12,
		100000:  13,
		1 << 30: 13,
	}
	for win, want := range cases {
		if got := b.Index(win); got != want {
			t.Fatalf("win %d: want bucket %d got %d", win, want, got)
		}
	}
	if stats.Buckets.GetBucketByBetUnit(10) != b {
		t.Fatalf("bucket must be cached per bet unit")
	}
}

func TestRenders(t *testing.T) {
	rep := buildStatReport(10, []int{0, 10, 20})

	var js bytes.Buffer
	if err := rep.WriteWith(&js, &stats.JsonStatReportRender{}); err != nil {
		t.Fatalf("json render: %v", err)
	}
	var back map[string]any
	if err := json.Unmarshal(js.Bytes(), &back); err != nil {
		t.Fatalf("json output invalid: %v", err)
	}

	var ym bytes.Buffer
	if err := rep.WriteWith(&ym, &stats.YAMLStatReportRender{}); err != nil {
		t.Fatalf("yaml render: %v", err)
	}
	if !strings.Contains(ym.String(), "winbucket: [") {
		t.Fatalf("expected flow style list in yaml:\n%s", ym.String())
	}

	var zs bytes.Buffer
	if err := rep.WriteWith(&zs, &stats.ZstdRender{}); err != nil {
		t.Fatalf("zstd render: %v", err)
	}
	dec, err := zstd.NewReader(&zs)
	if err != nil {
		t.Fatalf("zstd reader: %v", err)
	}
	defer dec.Close()
	raw, err := io.ReadAll(dec)
	if err != nil {
		t.Fatalf("zstd read: %v", err)
	}
	if !bytes.Equal(raw, js.Bytes()) {
		t.Fatalf("zstd payload differs from json render")
	}

	var table bytes.Buffer
	rep.Fprint(&table, 1500*time.Millisecond)
	if !strings.Contains(table.String(), "TestGame") || !strings.Contains(table.String(), "Total RTP") {
		t.Fatalf("unexpected table:\n%s", table.String())
	}
}

func TestEstimatorRtpAndSession(t *testing.T) {
	reports := make([]*stats.StatReport, 0, 100)
	bu := 100
	for i := 0; i < 100; i++ {
		reports = append(reports, buildStatReport(bu, []int{i}))
	}

	est := stats.EstimatorPlayerExp(reports)
	var median, p90 float64
	for _, q := range est.Rtp.Quantiles {
		switch q.Q {
		case 0.5:
			median = q.Hat
		case 0.9:
			p90 = q.Hat
		}
		if q.CI.Lo > q.Hat || q.CI.Hi < q.Hat {
			t.Fatalf("quantile %.2f: hat %.3f outside CI %+v", q.Q, q.Hat, q.CI)
		}
	}
	if math.Abs(median-0.5) > 0.05 {
		t.Fatalf("median RTP expected ~0.5, got %.3f", median)
	}
	if math.Abs(p90-0.9) > 0.05 {
		t.Fatalf("P90 RTP expected ~0.9, got %.3f", p90)
	}
	if est.Rtp.Below[len(est.Rtp.Below)-1].Hat != 1 {
		t.Fatalf("every player has RTP <= 100%%")
	}

	samples := make([]*stats.StatReport, 10)
	for i := range samples {
		r := buildStatReport(bu, []int{0})
		switch {
		case i < 3:
			r.Player.Bust = true
		case i < 5:
			r.Player.Cashout = true
		}
		r.Summary.Trigger = i % 4
		samples[i] = r
	}
	est2 := stats.EstimatorPlayerExp(samples)
	if est2.Session.Bust.Hat != 0.3 || est2.Session.Cashout.Hat != 0.2 || est2.Session.Alive.Hat != 0.5 {
		t.Fatalf("unexpected session stat %+v", est2.Session)
	}
	if est2.Trigger.Zero.Hat != 0.3 || est2.Trigger.More.Hat != 0.2 {
		t.Fatalf("unexpected trigger stat %+v", est2.Trigger)
	}
	if est2.Bucket[0].Hat != 1 {
		t.Fatalf("every player hit the no-win bucket")
	}

	var out bytes.Buffer
	est2.Fprint(&out)
	if !strings.Contains(out.String(), "Session Outcome") {
		t.Fatalf("unexpected output:\n%s", out.String())
	}
}
