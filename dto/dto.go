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

// Package dto 定義對外（HTTP/JSON）的請求與回應格式。
package dto

import (
	"github.com/google/uuid"
	"github.com/zintix-labs/reelspin/corefmt"
	"github.com/zintix-labs/reelspin/errs"
	"github.com/zintix-labs/reelspin/sdk/buf"
	"github.com/zintix-labs/reelspin/spec"
)

type SpinResult struct {
	RoundID     string       `json:"round_id"`     // 本局唯一編號
	GameName    string       `json:"game"`         // 遊戲名稱
	GameID      spec.GID     `json:"gid"`          // 遊戲編號
	MaxLines    int          `json:"max_lines"`    // 開啟線數
	BetPerLine  int          `json:"bet_per_line"` // 每線押注
	TotalBet    int          `json:"total_bet"`    // 本局實際扣款（免費局為 0）
	FreeRound   bool         `json:"free_round"`   // 本局是否消耗一次免費旋轉
	Prize       int          `json:"prize"`        // 總派彩
	Grid        [][]int      `json:"grid"`         // 盤面
	GridFS      buf.FreeSpin `json:"grid_free_spin"`
	Lines       []LineWinDTO `json:"lines"`
	ExitStorage buf.Storage  `json:"exit_storage"` // 下一局要帶回的 storage
	State       SpinState    `json:"spin_state"`
}

type LineWinDTO struct {
	Index int   `json:"index"`
	Combo int   `json:"combo"`
	Prize int   `json:"prize"`
	WC    int   `json:"wc"`
	SS    []int `json:"ss"`
}

type SpinState struct {
	StartCoreSnapB64U string `json:"start_b64u"` // 必回
	AfterCoreSnapB64U string `json:"after_b64u"` // 必回
}

// SpinMeta 組裝 DTO 需要、但不在 buf.Result 裡的資訊
type SpinMeta struct {
	GameName   string
	GameID     spec.GID
	MaxLines   int
	BetPerLine int
	Entry      *buf.Storage // 進入本局時的 storage
	StartSnap  []byte
	AfterSnap  []byte
}

// TotalBet 回傳本局扣款；進入本局時仍欠免費旋轉則不扣款。
func (m SpinMeta) TotalBet() int {
	if m.Entry.Owed() > 0 {
		return 0
	}
	return m.MaxLines * m.BetPerLine
}

// NewSpinResultDTO 把內部結果轉成對外格式；所有切片都會複製，不與 buf.Result 共用。
func NewSpinResultDTO(meta SpinMeta, res *buf.Result) (SpinResult, error) {
	if res == nil {
		return SpinResult{}, errs.NewWarn("spin result is nil")
	}
	out := SpinResult{
		RoundID:    uuid.NewString(),
		GameName:   meta.GameName,
		GameID:     meta.GameID,
		MaxLines:   meta.MaxLines,
		BetPerLine: meta.BetPerLine,
		TotalBet:   meta.TotalBet(),
		FreeRound:  meta.Entry.Owed() > 0,
		Prize:      res.Prize,
		Lines:      make([]LineWinDTO, len(res.Lines)),
		State: SpinState{
			StartCoreSnapB64U: corefmt.EncodeBase64URL(meta.StartSnap),
			AfterCoreSnapB64U: corefmt.EncodeBase64URL(meta.AfterSnap),
		},
	}
	if res.Grid != nil {
		out.Grid = make([][]int, len(res.Grid.Symbols))
		for i, row := range res.Grid.Symbols {
			out.Grid[i] = append([]int(nil), row...)
		}
		out.GridFS = res.Grid.FreeSpin
	}
	for i, lw := range res.Lines {
		out.Lines[i] = LineWinDTO{
			Index: lw.Index,
			Combo: lw.Combo,
			Prize: lw.Prize,
			WC:    lw.WC,
			SS:    append([]int(nil), lw.SS...),
		}
	}
	if st := res.ExitStorage.Clone(); st != nil {
		out.ExitStorage = *st
	}
	return out, nil
}
