package v1

import (
	"encoding/json"
	"net/http"

	"github.com/zintix-labs/reelspin/errs"
	"github.com/zintix-labs/reelspin/sdk/sampler"
	"github.com/zintix-labs/reelspin/server/httperr"
	"github.com/zintix-labs/reelspin/spec"
)

const maxCfgBytes = 5 << 20

// SimByCfg 以呼叫端提供的 JSON 機台設定模擬（例如試算調整過的滾輪權重）。
//
// 設定的 game_id/game_name 必須是已註冊的遊戲；設定錯誤一律回 400。
// 帶 ramp 時先在權重上疊加 [min,max] 的線性坡度再模擬。
func (sh *SimHandler) SimByCfg(w http.ResponseWriter, r *http.Request) {
	type simByCfgRequest struct {
		MaxLines   int             `json:"max_lines"`
		BetPerLine int             `json:"bet_per_line"`
		Rounds     int             `json:"round"`
		Setting    json.RawMessage `json:"cfg"`
		Seed       *int64          `json:"seed,omitempty"`
		Ramp       *struct {
			Min float64 `json:"min"`
			Max float64 `json:"max"`
		} `json:"ramp,omitempty"`
	}

	req := &simByCfgRequest{BetPerLine: 1}
	if err := decodeJSON(w, r, maxCfgBytes, req); err != nil {
		httperr.Errs(w, err)
		return
	}
	if len(req.Setting) == 0 {
		httperr.Errs(w, errs.NewWarn("cfg is required"))
		return
	}
	if req.Rounds < 1 || req.Rounds > maxSimRounds {
		httperr.Errs(w, errs.NewWarn("round must be between 1 to 1,000,000"))
		return
	}
	seed, err := seedOrRandom(req.Seed)
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	if req.Ramp != nil && (req.Ramp.Min < 0 || req.Ramp.Min > req.Ramp.Max) {
		httperr.Errs(w, errs.NewWarn("ramp must satisfy 0 <= min <= max"))
		return
	}
	// 設定是呼叫端帶來的，解析或檢查失敗都算請求錯誤
	ms, err := spec.GetMachineSettingByJSON(req.Setting)
	if err != nil {
		httperr.Errs(w, errs.Wrap(errs.NewWarn(err.Error()), "invalid cfg"))
		return
	}
	if req.Ramp != nil {
		ms.Reels = sampler.Ramp(ms.Reels, req.Ramp.Min, req.Ramp.Max)
	}
	sim, err := sh.rs.NewSimulatorBySetting(ms, seed)
	if err != nil {
		httperr.Errs(w, errs.Wrap(errs.NewWarn(err.Error()), "invalid cfg"))
		return
	}
	result, _, err := sim.Sim(req.MaxLines, req.BetPerLine, req.Rounds, false)
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	httperr.JSON(w, result)
}
