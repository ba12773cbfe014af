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

package reelspin

import (
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/zintix-labs/reelspin/errs"
	"github.com/zintix-labs/reelspin/recorder"
	"github.com/zintix-labs/reelspin/sdk/buf"
	"github.com/zintix-labs/reelspin/sdk/core"
	"github.com/zintix-labs/reelspin/spec"
	"github.com/zintix-labs/reelspin/stats"
)

const capPrepare int = 100

// Simulator 用於大量模擬同一款遊戲，可建立多台機台並平行紀錄統計。
//
// 每台機台各自串接 Storage：上一局的 ExitStorage 就是下一局的入場狀態，
// 入場時仍欠免費旋轉的局不扣押注。
type Simulator struct {
	GameName  string                   // 遊戲名稱
	GameId    spec.GID                 // 遊戲 ID
	initBets  int                      // 玩家帶入的資金（以 BetUnit 為單位）
	ms        *spec.MachineSetting     // 已 Init 的設定
	cf        core.PRNGFactory         // 亂數生成器
	initSeed  int64                    // 初始種子
	seedmaker *seedMaker               // 種子生成器
	mBuf      []*Machine               // 併發執行機台實例
	rBuf      []*recorder.SpinRecorder // 併發遊戲紀錄員
	sBuf      []*stats.StatReport      // 併發統計結果報表(僅Players需要)
}

func newSimulatorWithSeed(ms *spec.MachineSetting, cf core.PRNGFactory, seed int64) (*Simulator, error) {
	m, err := newMachineWithSeed(ms, cf, seed)
	if err != nil {
		return nil, err
	}
	s := &Simulator{
		GameName:  ms.GameName,
		GameId:    ms.GameID,
		initBets:  0,
		ms:        ms,
		cf:        cf,
		initSeed:  seed,
		seedmaker: newSeedMaker(seed),
		mBuf:      make([]*Machine, 1, capPrepare),
		rBuf:      make([]*recorder.SpinRecorder, 0, capPrepare),
		sBuf:      make([]*stats.StatReport, 0, capPrepare),
	}
	s.mBuf[0] = m
	return s, nil
}

// InitSeed 回傳模擬器的初始種子（第一台機台的 seed）
func (s *Simulator) InitSeed() int64 {
	return s.initSeed
}

func (s *Simulator) validBet(maxLines int, betPerLine int) error {
	if maxLines < 1 || maxLines > s.ms.LineCount {
		return errs.Warnf("max lines out of range [1,%d], got %d", s.ms.LineCount, maxLines)
	}
	if betPerLine < 1 {
		return errs.Warnf("bet per line must > 0, got %d", betPerLine)
	}
	return nil
}

// Sim 單線模擬器：以一台機台連續跑 rounds 局（含免費局）並回傳統計結果與用時。
func (s *Simulator) Sim(maxLines int, betPerLine int, rounds int, showpb bool) (*stats.StatReport, time.Duration, error) {
	defer s.reset()
	if err := s.validBet(maxLines, betPerLine); err != nil {
		return nil, 0, err
	}
	if rounds < 1 {
		return nil, 0, errs.NewWarn("round must > 0")
	}
	r, err := recorder.NewSpinRecorder(s.GameName, s.GameId, maxLines, betPerLine, s.initBets)
	if err != nil {
		return nil, 0, err
	}
	s.rBuf = append(s.rBuf, r)

	bar := pb.StartNew(rounds)
	if !showpb {
		bar.SetWriter(io.Discard)
	}
	if err := runRounds(s.mBuf[0], r, maxLines, betPerLine, rounds, bar); err != nil {
		bar.Finish()
		return nil, 0, err
	}
	used := time.Since(bar.StartTime())
	bar.Finish()

	return r.Done(), used, nil
}

// SimMP 平行執行 mp 台機台，每台跑 rounds 局，合併統計結果後回傳統計結果與用時。
func (s *Simulator) SimMP(maxLines int, betPerLine int, rounds int, mp int, showpb bool) (*stats.StatReport, time.Duration, error) {
	defer s.reset()
	if mp <= 0 {
		return nil, 0, errs.NewWarn("workers must > 0")
	}
	if err := s.validBet(maxLines, betPerLine); err != nil {
		return nil, 0, err
	}
	if rounds < 1 {
		return nil, 0, errs.NewWarn("round must > 0")
	}
	if err := s.prepareMachines(mp); err != nil {
		return nil, 0, err
	}
	for len(s.rBuf) < mp {
		r, err := recorder.NewSpinRecorder(s.GameName, s.GameId, maxLines, betPerLine, s.initBets)
		if err != nil {
			return nil, 0, err
		}
		s.rBuf = append(s.rBuf, r)
	}

	errBuf := make([]error, mp)
	wg := new(sync.WaitGroup)
	wg.Add(mp)
	bar := pb.StartNew(rounds * mp)
	if !showpb {
		bar.SetWriter(io.Discard)
	}
	for i := 0; i < mp; i++ {
		go func(i int) {
			defer wg.Done()
			errBuf[i] = runRounds(s.mBuf[i], s.rBuf[i], maxLines, betPerLine, rounds, bar)
		}(i)
	}
	wg.Wait()
	used := time.Since(bar.StartTime())
	bar.Finish()
	for _, err := range errBuf {
		if err != nil {
			return nil, 0, err
		}
	}

	st, err := recorder.MergeSpinRecorder(s.rBuf)
	if err != nil {
		return nil, 0, err
	}
	return st.Done(), used, nil
}

// SimPlayers 模擬多個玩家各自帶入 initBets 個 BetUnit 的遊戲歷程，並產出機台報表與玩家報表。
//
// 玩家在付不起下一局、或資金達到離場線時結束；還欠免費旋轉時不會離場。
func (s *Simulator) SimPlayers(mp int, players int, initBets int, maxLines int, betPerLine int, rounds int, showpb bool) (*stats.StatReport, *stats.EstimatorPlayers, time.Duration, error) {
	defer s.reset()
	if players < 1 || initBets < 1 || rounds < 1 || mp < 1 {
		return nil, nil, 0, errs.NewWarn("invalid param")
	}
	if err := s.validBet(maxLines, betPerLine); err != nil {
		return nil, nil, 0, err
	}
	s.initBets = initBets

	if err := s.prepareMachines(mp); err != nil {
		return nil, nil, 0, err
	}

	// 準備玩家
	s.sBuf = make([]*stats.StatReport, players)
	for len(s.rBuf) < players {
		r, err := recorder.NewSpinRecorder(s.GameName, s.GameId, maxLines, betPerLine, s.initBets)
		if err != nil {
			return nil, nil, 0, err
		}
		s.rBuf = append(s.rBuf, r)
	}
	// 緩衝 channel 讓玩家依序被機台領走
	jobs := make(chan *recorder.SpinRecorder, 2048)
	errBuf := make([]error, mp)

	wg := new(sync.WaitGroup)
	wg.Add(mp)

	bar := pb.StartNew(players)
	if !showpb {
		bar.SetWriter(io.Discard)
	}
	for w := 0; w < mp; w++ {
		go func(w int) {
			defer wg.Done()
			errBuf[w] = play(s.mBuf[w], jobs, maxLines, betPerLine, rounds, bar)
		}(w)
	}
	for _, j := range s.rBuf {
		jobs <- j
	}
	close(jobs) // 玩家送完，通知機台不會再有新玩家
	wg.Wait()
	used := time.Since(bar.StartTime())
	bar.Finish()
	for _, err := range errBuf {
		if err != nil {
			return nil, nil, 0, err
		}
	}

	// 機台基準報表
	record, err := recorder.MergeSpinRecorder(s.rBuf)
	if err != nil {
		return nil, nil, 0, err
	}
	st := record.Done()

	// 玩家分析報表
	for i, r := range s.rBuf {
		s.sBuf[i] = r.Done()
	}
	est := stats.EstimatorPlayerExp(s.sBuf)
	return st, est, used, nil
}

func (s *Simulator) prepareMachines(mp int) error {
	for len(s.mBuf) < mp {
		m, err := newMachineWithSeed(s.ms, s.cf, s.seedmaker.next())
		if err != nil {
			return err
		}
		s.mBuf = append(s.mBuf, m)
	}
	return nil
}

// runRounds 以同一台機台連續跑 rounds 局，Storage 逐局串接。
func runRounds(m *Machine, r *recorder.SpinRecorder, maxLines int, betPerLine int, rounds int, bar *pb.ProgressBar) error {
	var st *buf.Storage
	for i := 0; i < rounds; i++ {
		free := st.Owed() > 0
		res, err := m.SpinInternal(maxLines, betPerLine, st)
		if err != nil {
			return err
		}
		r.Record(res, free)
		st = &res.ExitStorage
		bar.Increment()
	}
	return nil
}

// play 讓機台逐一服務玩家；每位玩家從首局（無 Storage）開始。
func play(m *Machine, jobs <-chan *recorder.SpinRecorder, maxLines int, betPerLine int, rounds int, bar *pb.ProgressBar) error {
	var failed error
	for j := range jobs {
		if failed != nil {
			// 仍需把 channel 讀完，避免送件端阻塞
			continue
		}
		var st *buf.Storage
		for range rounds {
			free := st.Owed() > 0
			if !j.CanAfford(free) {
				break
			}
			res, err := m.SpinInternal(maxLines, betPerLine, st)
			if err != nil {
				failed = err
				break
			}
			st = &res.ExitStorage
			if j.RecordWithPlayer(res, free) {
				break
			}
		}
		bar.Increment()
	}
	return failed
}

func (s *Simulator) reset() {
	s.rBuf = s.rBuf[:0]
	s.sBuf = s.sBuf[:0]
	s.initBets = 0
}

const mask63 = uint64(1<<63) - 1

type seedMaker struct {
	state atomic.Uint64 // always in [0, 2^63)
}

func newSeedMaker(seed int64) *seedMaker {
	s := &seedMaker{}
	s.state.Store(uint64(seed) & mask63)
	return s
}

// state 走全週期（不重複），再用可逆 mix63 打散
//
// 注意：此方法可能在併發環境下被多 goroutines 同時呼叫（例如 SimMP / SimPlayers）。
// 因此 state 的推進必須是原子的：
//   - 使用 CAS（Compare-And-Swap）迴圈確保每次呼叫都會取得唯一的下一個 state。
//   - 回傳值使用推進後的 state 經 mix63 打散後的結果。
func (s *seedMaker) next() int64 {
	for {
		old := s.state.Load()                                            // always masked
		next := (old*6364136223846793005 + 1442695040888963407) & mask63 // full-period LCG mod 2^63
		if s.state.CompareAndSwap(old, next) {
			return int64(mix63(next)) // 一定非負
		}
	}
}

// mix63：只用「可逆」的 bit 操作 + 乘奇數（mod 2^63）
func mix63(x uint64) uint64 {
	x &= mask63
	x ^= x >> 30
	x = (x * 0xBF58476D1CE4E5B9) & mask63 // 乘奇數 ⇒ mod 2^63 可逆
	x ^= x >> 27
	x = (x * 0x94D049BB133111EB) & mask63
	x ^= x >> 31
	return x & mask63
}
