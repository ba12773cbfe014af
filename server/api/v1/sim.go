package v1

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/zintix-labs/reelspin"
	"github.com/zintix-labs/reelspin/errs"
	"github.com/zintix-labs/reelspin/server/httperr"
	"github.com/zintix-labs/reelspin/spec"
	"github.com/zintix-labs/reelspin/stats"
)

const (
	maxSimRounds    = 1000000
	maxPlayers      = 100000
	maxPlayerRounds = 15000
	playerWorkers   = 4
)

type SimHandler struct {
	rs *reelspin.Reelspin
}

func NewSimHandler(rs *reelspin.Reelspin) (*SimHandler, error) {
	if rs == nil {
		return nil, errs.NewFatal("reelspin is required")
	}
	return &SimHandler{rs: rs}, nil
}

// simRequest /v1/sim 的參數（GET query 或 POST JSON）
type simRequest struct {
	GID        spec.GID `json:"gid"`
	MaxLines   int      `json:"max_lines"`
	BetPerLine int      `json:"bet_per_line"`
	Round      int      `json:"round"`
	Seed       *int64   `json:"seed,omitempty"`
	Format     string   `json:"format,omitempty"` // json | yaml | zstd
}

func (req *simRequest) valid(rs *reelspin.Reelspin) error {
	if _, ok := rs.EntryById(req.GID); !ok {
		return errs.NewWarn("gid not found")
	}
	if req.Round < 1 || req.Round > maxSimRounds {
		return errs.NewWarn("round must be between 1 to 1,000,000")
	}
	switch req.Format {
	case "", "json", "yaml", "zstd":
		return nil
	}
	return errs.Warnf("unknown format %q (json|yaml|zstd)", req.Format)
}

// Sim 單機台模擬；json 回 {stats, used_ms}，yaml/zstd 直接回渲染後的報表。
func (sh *SimHandler) Sim(w http.ResponseWriter, q *http.Request) {
	req := &simRequest{BetPerLine: 1}
	if q.Method == http.MethodGet {
		qr := newQueryReader(q)
		var gid uint64
		qr.Uint("gid", &gid, true)
		qr.Int("max_lines", &req.MaxLines, true)
		qr.Int("bet_per_line", &req.BetPerLine, false)
		qr.Int("round", &req.Round, true)
		qr.Seed(&req.Seed)
		qr.String("format", &req.Format)
		if qr.err != nil {
			httperr.Errs(w, qr.err)
			return
		}
		req.GID = spec.GID(gid)
	} else if err := decodeJSON(w, q, maxBodyBytes, req); err != nil {
		httperr.Errs(w, err)
		return
	}
	if err := req.valid(sh.rs); err != nil {
		httperr.Errs(w, err)
		return
	}
	seed, err := seedOrRandom(req.Seed)
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	sim, err := sh.rs.NewSimulatorWithSeed(req.GID, seed)
	if err != nil {
		httperr.Errs(w, errs.Wrap(err, fmt.Sprintf("build simulator err: %d", req.GID)))
		return
	}
	st, used, err := sim.Sim(req.MaxLines, req.BetPerLine, req.Round, false)
	if err != nil {
		httperr.Errs(w, errs.Wrap(err, "simulate err"))
		return
	}
	w.Header().Set("X-Sim-Seed", strconv.FormatInt(seed, 10))

	var render stats.StatReportRender
	switch req.Format {
	case "yaml":
		render = &stats.YAMLStatReportRender{}
		w.Header().Set("Content-Type", "application/yaml")
	case "zstd":
		render = &stats.ZstdRender{}
		w.Header().Set("Content-Type", "application/zstd")
	default:
		type simResponse struct {
			Stats    *stats.StatReport `json:"stats"`
			Seed     int64             `json:"seed"`
			UsedTime int64             `json:"used_ms"`
		}
		httperr.JSON(w, simResponse{Stats: st, Seed: seed, UsedTime: used.Milliseconds()})
		return
	}
	// 先渲染到記憶體，避免寫到一半才失敗
	var b bytes.Buffer
	if err := st.WriteWith(&b, render); err != nil {
		httperr.Errs(w, errs.Wrap(err, "render report err"))
		return
	}
	w.Header().Set("X-Used-Ms", strconv.FormatInt(used.Milliseconds(), 10))
	_, _ = w.Write(b.Bytes())
}

// SimPlayers 多玩家模擬，回傳機台報表與玩家估計。
func (sh *SimHandler) SimPlayers(w http.ResponseWriter, r *http.Request) {
	type simPlayerRequest struct {
		GID        spec.GID `json:"gid"`
		Player     int      `json:"player"`
		Bets       int      `json:"bets"`
		MaxLines   int      `json:"max_lines"`
		BetPerLine int      `json:"bet_per_line"`
		Round      int      `json:"round"`
		Seed       *int64   `json:"seed,omitempty"`
	}
	type simPlayerResponse struct {
		StatsReport *stats.StatReport       `json:"stats"`
		Estimator   *stats.EstimatorPlayers `json:"est"`
		Seed        int64                   `json:"seed"`
		UsedTime    int64                   `json:"used_ms"`
	}

	req := &simPlayerRequest{BetPerLine: 1}
	if r.Method == http.MethodGet {
		qr := newQueryReader(r)
		var gid uint64
		qr.Uint("gid", &gid, true)
		qr.Int("player", &req.Player, true)
		qr.Int("bets", &req.Bets, true)
		qr.Int("max_lines", &req.MaxLines, true)
		qr.Int("bet_per_line", &req.BetPerLine, false)
		qr.Int("round", &req.Round, true)
		qr.Seed(&req.Seed)
		if qr.err != nil {
			httperr.Errs(w, qr.err)
			return
		}
		req.GID = spec.GID(gid)
	} else if err := decodeJSON(w, r, maxBodyBytes, req); err != nil {
		httperr.Errs(w, err)
		return
	}

	if _, ok := sh.rs.EntryById(req.GID); !ok {
		httperr.Errs(w, errs.NewWarn("gid not found"))
		return
	}
	if req.Player < 1 || req.Player > maxPlayers {
		httperr.Errs(w, errs.NewWarn("player must be between 1 and 100,000"))
		return
	}
	if req.Bets < 1 {
		httperr.Errs(w, errs.NewWarn("bets must be at least 1"))
		return
	}
	if req.Round < 1 || req.Round > maxPlayerRounds {
		httperr.Errs(w, errs.NewWarn("round must be between 1 and 15,000"))
		return
	}
	seed, err := seedOrRandom(req.Seed)
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	sim, err := sh.rs.NewSimulatorWithSeed(req.GID, seed)
	if err != nil {
		httperr.Errs(w, errs.Wrap(err, fmt.Sprintf("build simulator err: %d", req.GID)))
		return
	}
	st, est, used, err := sim.SimPlayers(playerWorkers, req.Player, req.Bets, req.MaxLines, req.BetPerLine, req.Round, false)
	if err != nil {
		httperr.Errs(w, errs.Wrap(err, fmt.Sprintf("simulator err: %d", req.GID)))
		return
	}
	httperr.JSON(w, &simPlayerResponse{
		StatsReport: st,
		Estimator:   est,
		Seed:        seed,
		UsedTime:    used.Milliseconds(),
	})
}
