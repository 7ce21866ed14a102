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
	"fmt"
	"os"
	"sort"
)

// task 一個開發用指令
type task struct {
	desc  string
	clean bool     // 執行前 go clean -testcache
	args  []string // go 子指令與參數
	mode  filterMode
}

var tasks = map[string]task{
	"test": {
		desc:  "short tests, ok/FAIL lines only (moment tests skipped)",
		clean: true,
		args:  []string{"test", "./...", "-short", "-cover", "-count=1"},
		mode:  filterSummary,
	},
	"test-all": {
		desc:  "all tests with coverage, including moment tests",
		clean: true,
		args:  []string{"test", "./...", "-cover"},
		mode:  filterNone,
	},
	"test-detail": {
		desc:  "verbose tests without [no test files] lines",
		clean: true,
		args:  []string{"test", "./...", "-v", "-count=1"},
		mode:  filterDetail,
	},
	"moment": {
		desc: "moment / normality tests of the three samplers",
		args: []string{"test", ".", "-run", "Moments", "-v", "-count=1"},
		mode: filterDetail,
	},
	"eval": {
		desc: "evaluate the chunked scalar sampler from the command line",
		args: []string{"run", "./cmd/run", "-variant", "scalar", "-n", "1e15", "-p", "0.1,0.2,0.3,0.4", "-batches", "20"},
		mode: filterNone,
	},
}

func main() {
	exeCmd()
}

func exeCmd() {
	// 如果沒有送任何參數進來，我們告訴用戶需要帶上 task
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	name := os.Args[1] // 取第一個參數 (os.Args[0] 是執行檔本身)
	t, ok := tasks[name]
	if !ok {
		PrintYellow(fmt.Sprintf("Unknown task: %s", name))
		usage()
		os.Exit(1)
	}
	if err := runTask(name, t); err != nil {
		PrintRed(fmt.Sprintf("\n%s finished with errors: %v\n", name, err))
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("Usage: go run ./scripts [task]")
	names := make([]string, 0, len(tasks))
	for n := range tasks {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		fmt.Printf("  %-12s %s\n", n, tasks[n].desc)
	}
}
