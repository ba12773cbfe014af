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

package dto

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/zintix-labs/reelspin/corefmt"
	"github.com/zintix-labs/reelspin/errs"
	"github.com/zintix-labs/reelspin/sdk/buf"
	"github.com/zintix-labs/reelspin/spec"
)

// SpinRequest 對外的 Spin 請求。
//
// Storage 由呼叫端保存並原樣帶回（上一局回應的 exit_storage）；缺省視為首局。
type SpinRequest struct {
	UID        string       `json:"uid"`                   // 唯一識別碼
	GameName   string       `json:"game"`                  // 要玩的遊戲
	GameId     spec.GID     `json:"gid"`                   // 遊戲機台編號
	MaxLines   int          `json:"max_lines"`             // 本局開啟的線數
	BetPerLine int          `json:"bet_per_line"`          // 每線押注
	Storage    *buf.Storage `json:"storage,omitempty"`     // 上一局的 exit_storage
	StartState *StartState  `json:"start_state,omitempty"` // 可選：回放/續玩用的 RNG 起點
}

// StartState 由業務端帶入的 RNG 起點（可選）。
//
//   - 缺省：新局，引擎自行取樣並在回應回傳 start/after。
//   - start_b64u 有值：從該快照還原 RNG 跑完本局後，再回到機台原本的 RNG 狀態。
//
// 請求端只允許提供 start；after 只出現在回應。
type StartState struct {
	StartCoreSnapB64U string `json:"start_b64u,omitempty"`
}

func (ss *StartState) HasPayload() bool {
	return ss != nil && ss.StartCoreSnapB64U != ""
}

// StartSnap 解碼回放快照；沒有帶時回傳 nil。
func (sr *SpinRequest) StartSnap() ([]byte, error) {
	if !sr.StartState.HasPayload() {
		return nil, nil
	}
	snap, err := corefmt.DecodeBase64URL(sr.StartState.StartCoreSnapB64U)
	if err != nil {
		return nil, errs.Wrap(err, "core snap decode failed")
	}
	return snap, nil
}

// DecodeSpinRequest 會把 HTTP 請求解碼成 SpinRequest。
//
// 支援：
//   - GET：query string（uid/game/gid/max_lines/bet_per_line/fs_total/fs_mult/fs_symbols/start_b64u）。
//     任一 fs_* 出現時才建立 Storage。
//   - POST：JSON body，未知欄位直接拒絕，body 上限 1MiB。
//
// 這裡只做解碼與型別轉換；GID 是否存在由 Runtime 決定。
func DecodeSpinRequest(r *http.Request) (*SpinRequest, error) {
	if r == nil {
		return nil, errs.NewWarn("nil request")
	}

	req := new(SpinRequest)

	switch r.Method {
	case http.MethodGet:
		q := r.URL.Query()
		req.UID = q.Get("uid")
		req.GameName = q.Get("game")

		if s := q.Get("gid"); s != "" {
			u, err := strconv.ParseUint(s, 10, 0)
			if err != nil {
				return nil, errs.NewWarn(fmt.Sprintf("invalid gid: %v", err))
			}
			req.GameId = spec.GID(u)
		}

		ints := []struct {
			key string
			dst *int
		}{
			{"max_lines", &req.MaxLines},
			{"bet_per_line", &req.BetPerLine},
		}
		for _, it := range ints {
			if s := q.Get(it.key); s != "" {
				v, err := strconv.Atoi(s)
				if err != nil {
					return nil, errs.NewWarn(fmt.Sprintf("invalid %s: %v", it.key, err))
				}
				*it.dst = v
			}
		}

		fs := buf.FreeSpin{Multiplier: 1}
		hasFS := false
		fsFields := []struct {
			key string
			dst *int
		}{
			{"fs_total", &fs.Total},
			{"fs_mult", &fs.Multiplier},
			{"fs_symbols", &fs.Symbols},
		}
		for _, it := range fsFields {
			if s := q.Get(it.key); s != "" {
				v, err := strconv.Atoi(s)
				if err != nil {
					return nil, errs.NewWarn(fmt.Sprintf("invalid %s: %v", it.key, err))
				}
				*it.dst = v
				hasFS = true
			}
		}
		if hasFS {
			req.Storage = &buf.Storage{FreeSpin: &fs}
		}

		if s := q.Get("start_b64u"); s != "" {
			req.StartState = &StartState{StartCoreSnapB64U: s}
		}
		return req, nil

	case http.MethodPost:
		const maxBody = 1 << 20
		body := io.LimitReader(r.Body, maxBody)
		dec := json.NewDecoder(body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(req); err != nil {
			return nil, errs.NewWarn("invalid json: " + err.Error())
		}
		return req, nil

	default:
		return nil, errs.NewWarn("method not allowed")
	}
}
