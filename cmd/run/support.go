package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/zintix-labs/reelspin/demo"
	"github.com/zintix-labs/reelspin/errs"
	"github.com/zintix-labs/reelspin/sdk/core"
	"github.com/zintix-labs/reelspin/sdk/perf"
	"github.com/zintix-labs/reelspin/spec"
	"github.com/zintix-labs/reelspin/stats"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	maxPlayers      = 100000
	maxPlayerSpins  = 15000
	defaultGameId   = 1001
	defaultBets     = 200
	defaultSpins    = 10000000
	defaultBetLevel = 1
)

var cfg *config = new(config)

type config struct {
	name      string
	id        spec.GID
	worker    int
	player    int
	bets      int
	spins     int
	lines     int
	bet       int
	seed      int64
	pprofmode perf.Mode
	out       string
}

type gidFlag struct{ p *spec.GID }

func (f gidFlag) String() string {
	if f.p == nil {
		return ""
	}
	return fmt.Sprint(uint(*f.p))
}

func (f gidFlag) Set(s string) error {
	u, err := strconv.ParseUint(s, 10, 0)
	if err != nil {
		return err
	}
	*f.p = spec.GID(uint(u))
	return nil
}

func bindVar() error {
	var pm string
	cfg.id = defaultGameId
	flag.Var(gidFlag{&cfg.id}, "game", "target game id")
	flag.IntVar(&cfg.worker, "worker", 1, "number of workers")
	flag.IntVar(&cfg.player, "player", 1, "number of players")
	flag.IntVar(&cfg.bets, "bets", defaultBets, "initial balance of each player, in total bets")
	flag.IntVar(&cfg.spins, "spins", defaultSpins, "spins per worker (or per player)")
	flag.IntVar(&cfg.lines, "lines", 0, "lines played, 0 means all lines of the game")
	flag.IntVar(&cfg.bet, "bet", defaultBetLevel, "bet per line")
	flag.Int64Var(&cfg.seed, "seed", -1, "int64 seed for random number generator")
	flag.StringVar(&pm, "p", "", "pprof: '', cpu, heap, allocs")
	flag.StringVar(&cfg.out, "o", "", "write the report to file (.json, .yaml, .zst)")
	flag.Parse()

	mode, err := perf.ParseMode(pm)
	if err != nil {
		return err
	}
	cfg.pprofmode = mode

	// 非法 seed 改用 crypto/rand
	if cfg.seed < 1 {
		seed, err := core.CryptoSeed()
		if err != nil {
			return err
		}
		cfg.seed = seed
	}
	return cfg.valid()
}

// 解析並分支要執行的模擬器
func executeSimulator() error {
	rs, err := demo.NewReelspin()
	if err != nil {
		return err
	}
	s, err := rs.NewSimulatorWithSeed(cfg.id, cfg.seed)
	if err != nil {
		return err
	}
	ent, _ := rs.EntryById(cfg.id)
	cfg.name = ent.Name
	if cfg.lines == 0 {
		ms, err := rs.MachineSetting(cfg.id)
		if err != nil {
			return err
		}
		cfg.lines = len(ms.Lines)
	}

	p := message.NewPrinter(language.English)
	banner := color.New(color.FgGreen, color.Bold)

	var st *stats.StatReport
	switch {
	case cfg.player == 1 && cfg.worker == 1: // 純機台，單線程
		banner.Println(p.Sprintf("[GAME:%s] [LINES:%d] [BET:%d] [SPINS:%d] [SEED:%d]", cfg.name, cfg.lines, cfg.bet, cfg.spins, cfg.seed))
		res, used, err := s.Sim(cfg.lines, cfg.bet, cfg.spins, true)
		if err != nil {
			return err
		}
		res.StdOut(used)
		st = res
	case cfg.player == 1: // 純機台，併發
		banner.Println(p.Sprintf("[WORKERS:%d] [GAME:%s] [LINES:%d] [BET:%d] [SPINS:%d] [SEED:%d]", cfg.worker, cfg.name, cfg.lines, cfg.bet, cfg.worker*cfg.spins, cfg.seed))
		res, used, err := s.SimMP(cfg.lines, cfg.bet, cfg.spins, cfg.worker, true)
		if err != nil {
			return err
		}
		res.StdOut(used)
		st = res
	default: // 多玩家體驗
		banner.Println(p.Sprintf("[WORKERS:%d] [GAME:%s] [PLAYERS:%d BALANCE:%d LINES:%d BET:%d SPINS:%d] [SEED:%d]", cfg.worker, cfg.name, cfg.player, cfg.bets, cfg.lines, cfg.bet, cfg.spins, cfg.seed))
		res, est, used, err := s.SimPlayers(cfg.worker, cfg.player, cfg.bets, cfg.lines, cfg.bet, cfg.spins, true)
		if err != nil {
			return err
		}
		res.StdOut(used)
		est.Out()
		st = res
	}
	if cfg.out != "" {
		if err := writeReport(cfg.out, st); err != nil {
			return err
		}
		color.New(color.FgCyan).Printf("report written to %s\n", cfg.out)
	}
	return nil
}

// writeReport 依副檔名選擇輸出格式
func writeReport(path string, st *stats.StatReport) error {
	var render stats.StatReportRender
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		render = &stats.JsonStatReportRender{}
	case ".yaml", ".yml":
		render = &stats.YAMLStatReportRender{}
	case ".zst":
		render = &stats.ZstdRender{}
	default:
		return errs.Warnf("unsupported report extension %q (.json|.yaml|.zst)", filepath.Ext(path))
	}
	f, err := os.Create(path)
	if err != nil {
		return errs.Wrap(err, "create report")
	}
	if err := st.WriteWith(f, render); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (cfg *config) valid() error {
	p := message.NewPrinter(language.English)
	warn := color.New(color.FgYellow)

	if cfg.worker < 1 {
		return errs.NewWarn("value err : workers must > 0")
	}
	if cfg.player < 1 {
		return errs.NewWarn("value err : player must > 0")
	}
	if cfg.player > maxPlayers {
		warn.Println(p.Sprintf("too much players: %d resized to 100k players", cfg.player))
		cfg.player = maxPlayers
	}
	// 模擬玩家時，玩家帶入資金不能 < 1
	if cfg.player > 1 && cfg.bets < 1 {
		return errs.NewWarn("value err : balance must >= 1")
	}
	if cfg.spins < 1 {
		return errs.NewWarn("value err : spins must > 0")
	}
	if cfg.lines < 0 {
		return errs.NewWarn("value err : lines must >= 0")
	}
	if cfg.bet < 1 {
		return errs.NewWarn("value err : bet must > 0")
	}
	// 15000 轉約十小時，再長就等同長局數機台模擬
	if cfg.player > 1 && cfg.spins > maxPlayerSpins {
		warn.Println(p.Sprintf("too much spins for each players : %d resized to 15k spins for each player", cfg.spins))
		cfg.spins = maxPlayerSpins
	}
	if cfg.out != "" {
		if _, err := os.Stat(filepath.Dir(cfg.out)); err != nil {
			return errs.Warnf("output dir of %s not found", cfg.out)
		}
	}
	return nil
}
