// Package stats 把模擬紀錄整理成報表：RTP、信賴區間、波動、命中率與贏倍分布。
package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/zintix-labs/reelspin/spec"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gonum.org/v1/gonum/stat/distuv"
)

var lang language.Tag = language.English

// 95% 雙尾 z 值
var z975 = distuv.UnitNormal.Quantile(0.975)

// 信賴區間
type CI struct {
	Lo float64 `json:"Lo"`
	Hi float64 `json:"Hi"`
}

// StatReport 機台統計報告
type StatReport struct {
	Summary *SummaryReport `json:"Summary"`
	Mult    *MultReport    `json:"Mult"`
	Dist    *DistReport    `json:"Dist"`
	Player  *PlayerReport  `json:"Player,omitzero"`
	isDone  bool
}

// SummaryReport
//
// BetUnit = MaxLines * BetPerLine，是一次付費 Spin 的扣款；免費局不計入 TotalBet。
type SummaryReport struct {
	GameName    string   `json:"GameName"`
	GameId      spec.GID `json:"GameId"`
	MaxLines    int      `json:"MaxLines"`
	BetPerLine  int      `json:"BetPerLine"`
	BetUnit     int      `json:"BetUnit"`
	TotalBet    int      `json:"TotalBet"`
	TotalWin    int      `json:"TotalWin"`
	BaseWin     int      `json:"BaseWin"`
	FreeWin     int      `json:"FreeWin"`
	RTP         float64  `json:"RTP"`
	RtpCI       CI       `json:"RtpCI"`
	Std         float64  `json:"Std"`
	Cv          float64  `json:"Cv"`
	Trigger     int      `json:"Trigger"`
	TriggerRate float64  `json:"TriggerRate"`
	FreeRounds  int      `json:"FreeRounds"`
	NoWinRounds int      `json:"NoWinRounds"`
	HitRate     float64  `json:"HitRate"`
	Rounds      int      `json:"Rounds"`
}

// MultReport 贏倍統計（以 BetUnit 為 1 倍）
type MultReport struct {
	TotalWinMult      float64 `json:"TotalWinMult"`
	BaseWinMult       float64 `json:"BaseWinMult"`
	FreeWinMult       float64 `json:"FreeWinMult"`
	TotalWinMultSqSum float64 `json:"TotalWinMultSqSum"` // 平方和
	BaseWinMultSqSum  float64 `json:"BaseWinMultSqSum"`  // 平方和
	FreeWinMultSqSum  float64 `json:"FreeWinMultSqSum"`  // 平方和
}

// DistReport 贏倍區間落點統計
type DistReport struct {
	WinBucket       []string  `json:"WinBucket"`
	TotalWinCollect []int     `json:"TotalWinCollect"`
	BaseWinCollect  []int     `json:"BaseWinCollect"`
	FreeWinCollect  []int     `json:"FreeWinCollect"`
	TotalWinDist    []float64 `json:"TotalWinDist"`
	BaseWinDist     []float64 `json:"BaseWinDist"`
	FreeWinDist     []float64 `json:"FreeWinDist"`
}

// PlayerReport 玩家統計，僅 SimPlayers 會填入
type PlayerReport struct {
	InitBalance int  `json:"InitBalance"`
	Balance     int  `json:"Balance"`
	MaxBalance  int  `json:"MaxBalance"`
	MinBalance  int  `json:"MinBalance"`
	Bust        bool `json:"Bust"`
	Cashout     bool `json:"Cashout"`
	Alive       bool `json:"Alive"`
}

// Done 把累積的整數紀錄換算成最終統計，只會計算一次。
func (s *StatReport) Done() {
	if s.isDone {
		return
	}
	s.Summary.RTP = s.Rtp()
	s.Summary.RtpCI = s.Ci()
	s.Summary.Std = s.Std()
	s.Summary.Cv = s.Cv()
	if s.Summary.Rounds > 0 {
		rf := float64(s.Summary.Rounds)
		s.Summary.TriggerRate = float64(s.Summary.Trigger) / rf
		s.Summary.HitRate = 1.0 - float64(s.Summary.NoWinRounds)/rf
	}
	if s.Player != nil {
		s.Player.Alive = !(s.Player.Bust || s.Player.Cashout)
	}
	s.isDone = true
}

// Rtp 回傳整體 RTP（總派彩 / 總扣款）
func (s *StatReport) Rtp() float64 {
	if s.Summary.Rounds == 0 || s.Summary.TotalBet == 0 {
		return 0
	}
	return float64(s.Summary.TotalWin) / float64(s.Summary.TotalBet)
}

// Std 回傳單局贏倍的樣本標準差
func (s *StatReport) Std() float64 {
	if s.Summary.Rounds < 2 || s.Summary.BetUnit == 0 {
		return 0
	}
	n := float64(s.Summary.Rounds)
	sum := s.Mult.TotalWinMult
	variance := (s.Mult.TotalWinMultSqSum - sum*sum/n) / (n - 1)
	return math.Sqrt(max(variance, 0))
}

// Cv 回傳變異係數
func (s *StatReport) Cv() float64 {
	rtp := s.Rtp()
	if rtp <= 0 {
		return 0
	}
	return s.Std() / rtp
}

// Ci 回傳 RTP 的 95% 常態近似信賴區間
func (s *StatReport) Ci() CI {
	rtp := s.Rtp()
	se := 0.0
	if s.Summary.Rounds > 1 {
		se = s.Std() / math.Sqrt(float64(s.Summary.Rounds))
	}
	return CI{
		Lo: max(rtp-z975*se, 0.0),
		Hi: rtp + z975*se,
	}
}

func (s *StatReport) WriteWith(w io.Writer, rep StatReportRender) error {
	s.Done()
	return rep.Write(w, s)
}

// StdOut 印出用時與摘要表
func (s *StatReport) StdOut(ut time.Duration) {
	s.Fprint(os.Stdout, ut)
}

func (s *StatReport) Fprint(w io.Writer, ut time.Duration) {
	s.Done()
	fmt.Fprint(w, formatDuration(ut, s.Summary.Rounds))
	keys, msg := s.fmtBasic()
	fmt.Fprintln(w, fmtTable(s.Summary.GameName, keys, msg))
}

func formatDuration(d time.Duration, spins int) string {
	p := message.NewPrinter(lang)
	if d < 0 {
		d = -d
	}
	sec := d.Seconds()
	if sec <= 0 {
		sec = 1e-9
	}
	sps := int(float64(spins) / sec)
	if sec < 60.0 {
		return p.Sprintf("used: %.2f seconds\nsps : %d spins/sec\n", sec, sps)
	}
	h, m, ss := int(d.Hours()), int(d.Minutes())%60, int(d.Seconds())%60
	if h == 0 {
		return p.Sprintf("used: %dm %ds\nsps : %d spins/sec\n", m, ss, sps)
	}
	return p.Sprintf("used: %dh:%dm:%ds\nsps : %d spins/sec\n", h, m, ss, sps)
}

func (s *StatReport) fmtBasic() ([]string, map[string]string) {
	p := message.NewPrinter(lang)
	sm := s.Summary
	rows := [][2]string{
		{"Game Name", sm.GameName},
		{"Game ID", fmt.Sprintf("%d", sm.GameId)},
		{"Lines x Bet", p.Sprintf("%d x %d", sm.MaxLines, sm.BetPerLine)},
		{"Total Rounds", p.Sprintf("%d", sm.Rounds)},
		{"Free Rounds", p.Sprintf("%d", sm.FreeRounds)},
		{"Total RTP", p.Sprintf("%.2f %%", 100.0*sm.RTP)},
		{"RTP 95% CI", p.Sprintf("[%.2f%%,%.2f%%]", 100.0*sm.RtpCI.Lo, 100.0*sm.RtpCI.Hi)},
		{"Total Bet", p.Sprintf("%d", sm.TotalBet)},
		{"Total Win", p.Sprintf("%d", sm.TotalWin)},
		{"Base Win", p.Sprintf("%d", sm.BaseWin)},
		{"Free Win", p.Sprintf("%d", sm.FreeWin)},
		{"Hit Rate", p.Sprintf("%.2f %%", 100.0*sm.HitRate)},
		{"Trigger", p.Sprintf("%d", sm.Trigger)},
		{"Trigger Rate", p.Sprintf("1 in %.1f", safeInv(sm.TriggerRate))},
		{"STD", p.Sprintf("%.3f", sm.Std)},
		{"CV", p.Sprintf("%.3f", sm.Cv)},
	}
	keys := make([]string, len(rows))
	msg := make(map[string]string, len(rows))
	for i, r := range rows {
		keys[i] = r[0]
		msg[r[0]] = r[1]
	}
	return keys, msg
}

func safeInv(x float64) float64 {
	if x <= 0 {
		return 0
	}
	return 1 / x
}

func fmtTable(title string, keys []string, msg map[string]string) string {
	maxKeyLen, maxValLen := 0, 0
	for _, k := range keys {
		maxKeyLen = max(maxKeyLen, runewidth.StringWidth(k))
		maxValLen = max(maxValLen, runewidth.StringWidth(msg[k]))
	}
	maxKeyLen += 2
	maxValLen += 2

	totalInner := maxKeyLen + maxValLen + 1
	titleW := runewidth.StringWidth(title)
	if titleW > totalInner {
		maxValLen += titleW - totalInner
		totalInner = titleW
	}
	left := (totalInner - titleW) / 2
	right := totalInner - titleW - left

	var sb strings.Builder
	divider := "+" + strings.Repeat("-", maxKeyLen) + "+" + strings.Repeat("-", maxValLen) + "+\n"
	sb.WriteString("+" + strings.Repeat("-", totalInner) + "+\n")
	sb.WriteString("|" + blank(left) + title + blank(right) + "|\n")
	sb.WriteString(divider)
	for _, k := range keys {
		v := msg[k]
		sb.WriteString("| " + k + blank(maxKeyLen-2-runewidth.StringWidth(k)))
		sb.WriteString(" | " + v + blank(maxValLen-2-runewidth.StringWidth(v)) + " |\n")
	}
	sb.WriteString(divider)
	return sb.String()
}

func blank(w int) string {
	if w < 1 {
		return ""
	}
	return strings.Repeat(" ", w)
}
