package main

import (
	"fmt"
	"os"

	"github.com/zintix-labs/reelspin/sdk/perf"
)

// 模擬器入口，例：go run ./cmd/run -game 1001 -spins 1000000 -worker 4
func main() {
	if err := bindVar(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if err := perf.Run(executeSimulator, cfg.pprofmode, ""); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
