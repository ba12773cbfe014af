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

package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

var errTestsFailed = errors.New("tests finished with errors")

// lineFilter 回傳 false 表示該行不輸出
type lineFilter func(line string) bool

func cleanCache() error {
	cmd := exec.Command("go", "clean", "-testcache")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("go clean -testcache failed: %w", err)
	}
	return nil
}

// goStream 執行 go 指令，合併 stdout/stderr 後逐行著色輸出
func goStream(keep lineFilter, args ...string) error {
	cmd := exec.Command("go", args...)
	out, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}
	cmd.Stderr = cmd.Stdout
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start go %s: %w", args[0], err)
	}
	sc := bufio.NewScanner(out)
	for sc.Scan() {
		line := sc.Text()
		if keep != nil && !keep(line) {
			continue
		}
		switch {
		case strings.HasPrefix(line, "ok"):
			PrintGreen(line)
		case strings.HasPrefix(line, "FAIL"), strings.HasPrefix(line, "--- FAIL"):
			PrintRed(line)
		default:
			fmt.Println(line)
		}
	}
	if err := sc.Err(); err != nil {
		PrintYellow("scanner error: " + err.Error())
	}
	if err := cmd.Wait(); err != nil {
		return errTestsFailed
	}
	return nil
}

// 只留 ok/FAIL 與編譯錯誤，不然過濾太乾淨會看不出為什麼沒反應
func summaryOnly(line string) bool {
	return strings.HasPrefix(line, "ok") ||
		strings.HasPrefix(line, "FAIL") ||
		strings.Contains(line, "build failed") ||
		strings.Contains(line, "setup failed")
}

func skipNoTests(line string) bool {
	return !strings.Contains(line, "[no test files]")
}

func runTest() error {
	PrintGreen("running tests")
	if err := cleanCache(); err != nil {
		return err
	}
	return goStream(summaryOnly, "test", "./...")
}

func runTestAll() error {
	PrintGreen("running tests (all with coverage)")
	if err := cleanCache(); err != nil {
		return err
	}
	return goStream(nil, "test", "./...", "-cover")
}

func runTestDetail() error {
	PrintGreen("running tests (detail)")
	if err := cleanCache(); err != nil {
		return err
	}
	return goStream(skipNoTests, "test", "./...", "-v", "-count=1")
}

func runBench() error {
	PrintGreen("running benchmarks")
	return goStream(skipNoTests, "test", "-run", "^$", "-bench", ".", "-benchmem", "./...")
}
