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

// Package httperr 負責 HTTP 邊界層的錯誤分級映射與 JSON 回應。
package httperr

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/zintix-labs/reelspin/errs"
)

// StatusCode 將錯誤映射成 HTTP status code。
//
//   - ctx timeout/cancel → 504/408
//   - errs.Warn         → 400
//   - errs.Fatal        → 500
//
// 放在 server/* 讓核心 errs 不依賴 net/http。
func StatusCode(err error) int {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusRequestTimeout
	}

	var e *errs.E
	if errors.As(err, &e) && e.ErrLv == errs.Warn {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

type errorBody struct {
	Error  string `json:"error"`
	Level  string `json:"level,omitempty"`
	Status int    `json:"status"`
}

// Errs 依錯誤分級寫回 JSON 錯誤訊息：{"error": ..., "level": ..., "status": ...}
func Errs(w http.ResponseWriter, err error) {
	if err == nil {
		return
	}
	status := StatusCode(err)
	body := errorBody{Error: err.Error(), Status: status}
	if lv := errs.LevelOf(err); lv != errs.None {
		body.Level = lv.String()
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// JSON 以 200 寫回 v
func JSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	// header 已送出，編碼失敗也無法再改 status
	_ = json.NewEncoder(w).Encode(v)
}

// Log 只記錄值得關注的錯誤：逾時類走 Warn，5xx 走 Error，一般 400 不記。
func Log(log *slog.Logger, msg string, err error) {
	if err == nil || log == nil {
		return
	}
	status := StatusCode(err)
	switch {
	case status == http.StatusRequestTimeout || status == http.StatusGatewayTimeout:
		log.Warn(msg, slog.Any("err", err), slog.Int("status", status))
	case status >= 500:
		log.Error(msg, slog.Any("err", err), slog.Int("status", status))
	}
}
