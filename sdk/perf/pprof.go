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

package perf

import (
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"

	"github.com/zintix-labs/multinom/errs"
)

// DefaultDir pprof 檔案預設寫入路徑
const DefaultDir = "build/profiling"

// Mode profiling 種類
const (
	ModeNone   = ""
	ModeCPU    = "cpu"
	ModeHeap   = "heap"
	ModeAllocs = "allocs"
)

// RunPProf 依 mode 包住 exe 執行 profiling，檔案寫到 dir/<mode>.pprof。
//
// mode 為空字串時直接執行；未知的 mode 回傳錯誤且不執行 exe。
func RunPProf(exe func() error, mode string, dir string) error {
	switch mode {
	case ModeNone:
		return exe()
	case ModeCPU:
		return PProfCPU(exe, dir)
	case ModeHeap:
		return PProfHeap(exe, dir)
	case ModeAllocs:
		return PProfAllocs(exe, dir)
	default:
		return errs.Warnf("pprof: unknown mode %q (want cpu, heap or allocs)", mode)
	}
}

// PProfCPU 在 exe 執行期間做 CPU profiling。
//
// 可以作性能分析，也可以拿來做構建時給pgo的優化blueprint
//
// Usage like:
//
//	go run ./cmd/run -pprof cpu
func PProfCPU(exe func() error, dir string) error {
	f, err := create(dir, ModeCPU)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := pprof.StartCPUProfile(f); err != nil {
		return errs.Wrap(err, "pprof: start cpu profile")
	}
	defer pprof.StopCPUProfile()

	return exe()
}

// PProfHeap 會在 exe() 執行完後，寫出一次 Heap Snapshot（in-use memory）。
// 寫出前呼叫一次 runtime.GC()，讓快照貼近最新的 live objects。
func PProfHeap(exe func() error, dir string) error {
	if err := exe(); err != nil {
		return err
	}
	runtime.GC()

	f, err := create(dir, ModeHeap)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := pprof.WriteHeapProfile(f); err != nil {
		return errs.Wrap(err, "pprof: write heap profile")
	}
	return nil
}

// PProfAllocs 會在 exe() 後寫出「累積配置」(allocs) Profile，
// 需要搭配 -alloc_space / -alloc_objects 指標查看。
func PProfAllocs(exe func() error, dir string) error {
	if err := exe(); err != nil {
		return err
	}

	f, err := create(dir, ModeAllocs)
	if err != nil {
		return err
	}
	defer f.Close()
	if prof := pprof.Lookup("allocs"); prof != nil {
		if err := prof.WriteTo(f, 0); err != nil {
			return errs.Wrap(err, "pprof: write allocs profile")
		}
	}
	return nil
}

func create(dir, mode string) (*os.File, error) {
	if dir == "" {
		dir = DefaultDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errs.Wrap(err, "pprof: mkdir")
	}
	f, err := os.Create(filepath.Join(dir, mode+".pprof"))
	if err != nil {
		return nil, errs.Wrap(err, "pprof: create "+mode+".pprof")
	}
	return f, nil
}
