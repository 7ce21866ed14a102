package main

import (
	"bufio"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// filterMode 輸出過濾方式
type filterMode uint8

const (
	filterNone    filterMode = iota // 原樣輸出
	filterSummary                   // 等同 grep -E '^(ok|FAIL)'，另外保留編譯錯誤
	filterDetail                    // 等同 grep -v '\[no test files\]'
)

// runTask 依序執行 go clean -testcache（需要時）與 go <args>
func runTask(name string, t task) error {
	PrintGreen("running " + name)

	if t.clean {
		cleanCmd := exec.Command("go", "clean", "-testcache")
		cleanCmd.Stdout = os.Stdout
		cleanCmd.Stderr = os.Stderr
		if err := cleanCmd.Run(); err != nil {
			return fmt.Errorf("go clean -testcache: %w", err)
		}
	}

	cmd := exec.Command("go", t.args...)
	if t.mode == filterNone {
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		return cmd.Run()
	}

	// 把 stdout/stderr 合併，模擬 "2>&1"
	stdoutPipe, err := cmd.StdoutPipe()
	if err != nil {
		return err
	}
	cmd.Stderr = cmd.Stdout
	if err := cmd.Start(); err != nil {
		return err
	}

	scanner := bufio.NewScanner(stdoutPipe)
	for scanner.Scan() {
		printLine(scanner.Text(), t.mode)
	}
	if err := scanner.Err(); err != nil {
		PrintRed(fmt.Sprintf("scanner error: %v", err))
	}
	return cmd.Wait()
}

func printLine(line string, mode filterMode) {
	switch {
	case strings.HasPrefix(line, "ok"):
		PrintGreen(line)
	case strings.HasPrefix(line, "FAIL"):
		PrintRed(line)
	case mode == filterSummary:
		// grep 過濾太乾淨會看不出為什麼沒反應，嚴重錯誤仍要印
		if strings.Contains(line, "build failed") || strings.Contains(line, "setup failed") {
			PrintRed(line)
		}
	case strings.Contains(line, "[no test files]"):
	default:
		fmt.Println(line)
	}
}
