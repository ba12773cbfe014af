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

// Package recorder 在模擬過程中累積每一局的整數紀錄，最後輸出 stats.StatReport。
package recorder

import (
	"fmt"

	"github.com/zintix-labs/reelspin/errs"
	"github.com/zintix-labs/reelspin/sdk/buf"
	"github.com/zintix-labs/reelspin/spec"
	"github.com/zintix-labs/reelspin/stats"
)

// SpinRecorder 遊戲紀錄員
//
// 付費局扣 BetUnit（MaxLines * BetPerLine）並把派彩計為 BaseWin；
// 進入時 storage 仍欠免費旋轉的局不扣款，派彩計為 FreeWin。
type SpinRecorder struct {
	GameName   string
	GameId     spec.GID
	MaxLines   int
	BetPerLine int
	BetUnit    int
	InitBets   int
	Basic      *BasicRecord
	Dist       *DistRecord
	Player     *PlayerRecord
}

// BasicRecord 基本遊戲資料紀錄
type BasicRecord struct {
	TotalBet      int
	TotalWin      int
	BaseWin       int
	FreeWin       int
	TotalWinSqSum int // 平方和
	BaseWinSqSum  int // 平方和
	FreeWinSqSum  int // 平方和
	Trigger       int
	FreeRounds    int
	Rounds        int
}

// DistRecord 贏分區間落點
type DistRecord struct {
	Bucket          *stats.WinBucket
	TotalWinCollect []int
	BaseWinCollect  []int
	FreeWinCollect  []int
}

// PlayerRecord 玩家資金（以 BetUnit * InitBets 起始，3 倍本金離場）
type PlayerRecord struct {
	leaveLine   int
	InitBalance int
	Balance     int
	MaxBalance  int
	MinBalance  int
	Bust        bool
	Cashout     bool
}

func NewSpinRecorder(name string, id spec.GID, maxLines int, betPerLine int, initBets int) (*SpinRecorder, error) {
	if maxLines < 1 || betPerLine < 1 {
		return nil, errs.NewWarn(fmt.Sprintf("max lines and bet per line must > 0, got %d x %d", maxLines, betPerLine))
	}
	if initBets < 0 {
		return nil, errs.NewWarn(fmt.Sprintf("init bets must not negative integer, got: %d", initBets))
	}
	bu := maxLines * betPerLine
	s := &SpinRecorder{
		GameName:   name,
		GameId:     id,
		MaxLines:   maxLines,
		BetPerLine: betPerLine,
		BetUnit:    bu,
		InitBets:   initBets,
		Basic:      new(BasicRecord),
		Dist:       newDistRecord(bu),
		Player:     newPlayerRecord(bu, initBets),
	}
	return s, nil
}

// MergeSpinRecorder 合併多個同條件的紀錄員（SimMP / SimPlayers 的機台總表）
func MergeSpinRecorder(r []*SpinRecorder) (*SpinRecorder, error) {
	if len(r) == 0 {
		return nil, errs.NewWarn("merge spin record err : empty input")
	}
	r0 := r[0]
	s, err := NewSpinRecorder(r0.GameName, r0.GameId, r0.MaxLines, r0.BetPerLine, r0.InitBets)
	if err != nil {
		return nil, err
	}
	for _, v := range r {
		if v.GameName != r0.GameName || v.GameId != r0.GameId {
			return nil, errs.NewFatal("merge spin record err : different game")
		}
		if v.BetUnit != r0.BetUnit || v.MaxLines != r0.MaxLines {
			return nil, errs.NewFatal("merge spin record err : different bet")
		}
		if v.InitBets != r0.InitBets {
			return nil, errs.NewFatal("merge spin record err : different init bets")
		}
		b := s.Basic
		b.TotalBet += v.Basic.TotalBet
		b.TotalWin += v.Basic.TotalWin
		b.BaseWin += v.Basic.BaseWin
		b.FreeWin += v.Basic.FreeWin
		b.TotalWinSqSum += v.Basic.TotalWinSqSum
		b.BaseWinSqSum += v.Basic.BaseWinSqSum
		b.FreeWinSqSum += v.Basic.FreeWinSqSum
		b.Trigger += v.Basic.Trigger
		b.FreeRounds += v.Basic.FreeRounds
		b.Rounds += v.Basic.Rounds

		for i := range v.Dist.TotalWinCollect {
			s.Dist.TotalWinCollect[i] += v.Dist.TotalWinCollect[i]
			s.Dist.BaseWinCollect[i] += v.Dist.BaseWinCollect[i]
			s.Dist.FreeWinCollect[i] += v.Dist.FreeWinCollect[i]
		}
	}
	return s, nil
}

// Record 以單局結果更新統計；free 表示本局在消耗免費旋轉。
func (s *SpinRecorder) Record(res *buf.Result, free bool) {
	s.recordBasic(res, free)
	s.recordDist(res, free)
}

// CanAfford 回報玩家是否付得起下一局；免費局永遠可以玩。
func (s *SpinRecorder) CanAfford(free bool) bool {
	return free || s.Player.Balance >= s.BetUnit
}

// RecordWithPlayer 在 Record 之外更新玩家資金，回傳玩家是否離場。
func (s *SpinRecorder) RecordWithPlayer(res *buf.Result, free bool) bool {
	s.Record(res, free)
	return s.recordPlayer(res, free)
}

func (s *SpinRecorder) Done() *stats.StatReport {
	bu := float64(s.BetUnit)
	bb := bu * bu
	b := s.Basic

	report := &stats.StatReport{
		Summary: &stats.SummaryReport{
			GameName:    s.GameName,
			GameId:      s.GameId,
			MaxLines:    s.MaxLines,
			BetPerLine:  s.BetPerLine,
			BetUnit:     s.BetUnit,
			TotalBet:    b.TotalBet,
			TotalWin:    b.TotalWin,
			BaseWin:     b.BaseWin,
			FreeWin:     b.FreeWin,
			Trigger:     b.Trigger,
			FreeRounds:  b.FreeRounds,
			NoWinRounds: s.Dist.TotalWinCollect[0],
			Rounds:      b.Rounds,
		},
		Mult: &stats.MultReport{
			TotalWinMult:      float64(b.TotalWin) / bu,
			BaseWinMult:       float64(b.BaseWin) / bu,
			FreeWinMult:       float64(b.FreeWin) / bu,
			TotalWinMultSqSum: float64(b.TotalWinSqSum) / bb,
			BaseWinMultSqSum:  float64(b.BaseWinSqSum) / bb,
			FreeWinMultSqSum:  float64(b.FreeWinSqSum) / bb,
		},
		Dist: &stats.DistReport{
			WinBucket:       stats.Buckets.WinBucketStr(),
			TotalWinCollect: append([]int(nil), s.Dist.TotalWinCollect...),
			BaseWinCollect:  append([]int(nil), s.Dist.BaseWinCollect...),
			FreeWinCollect:  append([]int(nil), s.Dist.FreeWinCollect...),
			TotalWinDist:    dist(s.Dist.TotalWinCollect, b.Rounds),
			BaseWinDist:     dist(s.Dist.BaseWinCollect, b.Rounds),
			FreeWinDist:     dist(s.Dist.FreeWinCollect, b.Rounds),
		},
		Player: &stats.PlayerReport{
			InitBalance: s.Player.InitBalance,
			Balance:     s.Player.Balance,
			MaxBalance:  s.Player.MaxBalance,
			MinBalance:  s.Player.MinBalance,
			Bust:        s.Player.Bust,
			Cashout:     s.Player.Cashout,
		},
	}
	report.Done()
	return report
}

func dist(collect []int, rounds int) []float64 {
	out := make([]float64, len(collect))
	if rounds == 0 {
		return out
	}
	rf := float64(rounds)
	for i, c := range collect {
		out[i] = float64(c) / rf
	}
	return out
}

func (s *SpinRecorder) recordBasic(res *buf.Result, free bool) {
	w := res.Prize
	b := s.Basic
	b.TotalWin += w
	b.TotalWinSqSum += w * w
	if free {
		b.FreeWin += w
		b.FreeWinSqSum += w * w
		b.FreeRounds++
	} else {
		b.TotalBet += s.BetUnit
		b.BaseWin += w
		b.BaseWinSqSum += w * w
	}
	if res.Triggered() {
		b.Trigger++
	}
	b.Rounds++
}

func (s *SpinRecorder) recordDist(res *buf.Result, free bool) {
	d := s.Dist
	w := res.Prize
	d.TotalWinCollect[d.Bucket.Index(w)]++
	if free {
		d.FreeWinCollect[d.Bucket.Index(w)]++
		d.BaseWinCollect[0]++
	} else {
		d.BaseWinCollect[d.Bucket.Index(w)]++
		d.FreeWinCollect[0]++
	}
}

func (s *SpinRecorder) recordPlayer(res *buf.Result, free bool) bool {
	p := s.Player
	if !free {
		p.Balance -= s.BetUnit
	}
	p.Balance += res.Prize
	p.MaxBalance = max(p.MaxBalance, p.Balance)
	p.MinBalance = min(p.MinBalance, p.Balance)

	// 還欠免費旋轉時不離場
	if res.ExitStorage.Owed() > 0 {
		return false
	}
	if p.Balance < s.BetUnit {
		p.Bust = true
		return true
	}
	if p.Balance >= p.leaveLine {
		p.Cashout = true
		return true
	}
	return false
}

func newDistRecord(bu int) *DistRecord {
	n := len(stats.Buckets.WinBucketStr())
	return &DistRecord{
		Bucket:          stats.Buckets.GetBucketByBetUnit(bu),
		TotalWinCollect: make([]int, n),
		BaseWinCollect:  make([]int, n),
		FreeWinCollect:  make([]int, n),
	}
}

func newPlayerRecord(bu int, initBets int) *PlayerRecord {
	b := bu * initBets
	return &PlayerRecord{
		InitBalance: b,
		Balance:     b,
		MaxBalance:  b,
		MinBalance:  b,
		leaveLine:   3 * b,
	}
}
