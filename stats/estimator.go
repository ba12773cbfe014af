package stats

import (
	"fmt"
	"io"
	"os"
	"slices"

	"gonum.org/v1/gonum/stat/distuv"
)

const confidence = 0.95

var (
	expQuantiles  = []float64{0.10, 1.0 / 3.0, 0.50, 2.0 / 3.0, 0.90}
	rtpThresholds = []float64{0.30, 0.50, 0.70, 1.00}
)

// EstimatorPlayers 玩家體驗評估（每位玩家一份 StatReport）
//
//   - Rtp：玩家 RTP 的分位數，以及 RTP 不超過門檻的玩家比例
//   - Trigger：每位玩家觸發免費旋轉 0/1/2/3+ 次的比例
//   - Bucket：每個贏倍區間「至少中過一次」的玩家比例
//   - Session：破產、贏滿離場、打完的比例
type EstimatorPlayers struct {
	Players int           `json:"Players"`
	Rtp     RtpStat       `json:"Rtp"`
	Trigger EventCount    `json:"Trigger"`
	Bucket  []BucketShare `json:"Bucket"`
	Session SessionStat   `json:"Session"`
}

// PointStat 點估計與信賴區間
type PointStat struct {
	Hat float64 `json:"Hat"`
	CI  CI      `json:"CI"`
}

type RtpStat struct {
	Quantiles []QuantileStat  `json:"Quantiles"`
	Below     []ThresholdStat `json:"Below"`
}

// QuantileStat 第 Q 分位玩家的 RTP
type QuantileStat struct {
	Q float64 `json:"Q"`
	PointStat
}

// ThresholdStat RTP <= Rtp 的玩家比例
type ThresholdStat struct {
	Rtp float64 `json:"Rtp"`
	PointStat
}

type EventCount struct {
	Zero PointStat `json:"Zero"`
	One  PointStat `json:"One"`
	Two  PointStat `json:"Two"`
	More PointStat `json:"More"`
}

type BucketShare struct {
	Label string `json:"Label"`
	PointStat
}

type SessionStat struct {
	Bust    PointStat `json:"Bust"`
	Cashout PointStat `json:"Cashout"`
	Alive   PointStat `json:"Alive"`
}

// EstimatorPlayerExp 彙整每位玩家的報表
func EstimatorPlayerExp(sts []*StatReport) *EstimatorPlayers {
	n := len(sts)
	out := &EstimatorPlayers{Players: n}
	if n == 0 {
		return out
	}

	rtp := make([]float64, n)
	for i, s := range sts {
		s.Done()
		rtp[i] = s.Rtp()
	}
	slices.Sort(rtp)

	for _, q := range expQuantiles {
		lo, hi := quantileCI(rtp, q, confidence)
		out.Rtp.Quantiles = append(out.Rtp.Quantiles, QuantileStat{
			Q:         q,
			PointStat: PointStat{Hat: quantilePoint(rtp, q), CI: CI{Lo: lo, Hi: hi}},
		})
	}
	for _, x := range rtpThresholds {
		k := 0
		for _, v := range rtp {
			if v <= x {
				k++
			}
		}
		out.Rtp.Below = append(out.Rtp.Below, ThresholdStat{Rtp: x, PointStat: share(k, n)})
	}

	out.Trigger = countEvents(sts, func(s *StatReport) int { return s.Summary.Trigger })

	labels := Buckets.WinBucketStr()
	out.Bucket = make([]BucketShare, len(labels))
	for bi, label := range labels {
		k := 0
		for _, s := range sts {
			if bi < len(s.Dist.TotalWinCollect) && s.Dist.TotalWinCollect[bi] > 0 {
				k++
			}
		}
		out.Bucket[bi] = BucketShare{Label: label, PointStat: share(k, n)}
	}

	var bust, cash, alive int
	for _, s := range sts {
		if s.Player == nil {
			continue
		}
		switch {
		case s.Player.Bust:
			bust++
		case s.Player.Cashout:
			cash++
		default:
			alive++
		}
	}
	out.Session = SessionStat{
		Bust:    share(bust, n),
		Cashout: share(cash, n),
		Alive:   share(alive, n),
	}
	return out
}

func countEvents(sts []*StatReport, get func(*StatReport) int) EventCount {
	var c [4]int
	for _, s := range sts {
		c[min(get(s), 3)]++
	}
	n := len(sts)
	return EventCount{Zero: share(c[0], n), One: share(c[1], n), Two: share(c[2], n), More: share(c[3], n)}
}

func share(k, n int) PointStat {
	hat, ci := proportionCICP(k, n, confidence)
	return PointStat{Hat: hat, CI: ci}
}

// proportionCICP Clopper–Pearson 精確區間（n 次中 k 次成功）
func proportionCICP(k int, n int, conf float64) (float64, CI) {
	if n == 0 {
		return 0, CI{Lo: 0, Hi: 1}
	}
	alpha := 1 - conf
	ci := CI{Lo: 0, Hi: 1}
	if k > 0 {
		ci.Lo = distuv.Beta{Alpha: float64(k), Beta: float64(n - k + 1)}.Quantile(alpha / 2)
	}
	if k < n {
		ci.Hi = distuv.Beta{Alpha: float64(k + 1), Beta: float64(n - k)}.Quantile(1 - alpha/2)
	}
	return float64(k) / float64(n), ci
}

// quantileCI 以 order statistic 的秩反推第 q 分位的區間；sorted 須已排序。
func quantileCI(sorted []float64, q, conf float64) (float64, float64) {
	n := len(sorted)
	if n == 0 {
		return 0, 0
	}
	if n == 1 {
		return sorted[0], sorted[0]
	}
	alpha := 1 - conf
	k := min(max(int(q*float64(n)), 1), n-1)
	pLo := distuv.Beta{Alpha: float64(k), Beta: float64(n - k + 1)}.Quantile(alpha / 2)
	pHi := distuv.Beta{Alpha: float64(k + 1), Beta: float64(n - k)}.Quantile(1 - alpha/2)

	li := clampIdx(int(pLo*float64(n)), n)
	ui := clampIdx(int(pHi*float64(n))-1, n)
	return sorted[li], sorted[ui]
}

// quantilePoint 最近秩法；sorted 須已排序。
func quantilePoint(sorted []float64, q float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	return sorted[clampIdx(int(q*float64(n)), n)]
}

func clampIdx(i, n int) int {
	return min(max(i, 0), n-1)
}

func (est *EstimatorPlayers) Out() {
	est.Fprint(os.Stdout)
}

// Fprint 以表格輸出評估結果
func (est *EstimatorPlayers) Fprint(w io.Writer) {
	keys := []string{}
	msg := map[string]string{}
	add := func(k, v string) {
		keys = append(keys, k)
		msg[k] = v
	}

	for _, q := range est.Rtp.Quantiles {
		add(fmt.Sprintf("P%.0f RTP", q.Q*100), fmtHatCI(q.PointStat))
	}
	for _, b := range est.Rtp.Below {
		add(fmt.Sprintf("RTP <= %.0f%%", b.Rtp*100), fmtHatCI(b.PointStat))
	}
	fmt.Fprintln(w, fmtTable(fmt.Sprintf("Players (%d)", est.Players), keys, msg))

	keys, msg = keys[:0], map[string]string{}
	add("0 times", fmtHatCI(est.Trigger.Zero))
	add("1 time", fmtHatCI(est.Trigger.One))
	add("2 times", fmtHatCI(est.Trigger.Two))
	add("3+ times", fmtHatCI(est.Trigger.More))
	fmt.Fprintln(w, fmtTable("Free Spin Triggers", keys, msg))

	keys, msg = keys[:0], map[string]string{}
	for _, b := range est.Bucket {
		add(b.Label, fmtHatCI(b.PointStat))
	}
	fmt.Fprintln(w, fmtTable("Hit At Least Once", keys, msg))

	keys, msg = keys[:0], map[string]string{}
	add("Bust", fmtHatCI(est.Session.Bust))
	add("Cashout", fmtHatCI(est.Session.Cashout))
	add("Alive", fmtHatCI(est.Session.Alive))
	fmt.Fprintln(w, fmtTable("Session Outcome", keys, msg))
}

func fmtPct(x float64) string {
	return fmt.Sprintf("%.2f%%", x*100)
}

func fmtHatCI(p PointStat) string {
	return fmt.Sprintf("%s [%s, %s]", fmtPct(p.Hat), fmtPct(p.CI.Lo), fmtPct(p.CI.Hi))
}
