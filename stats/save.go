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

package stats

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/zintix-labs/multinom/errs"
)

// ZstdExt 以 zstd 壓縮輸出的副檔名
const ZstdExt = ".zst"

// SaveReport 將報告寫入 path。
//
// 格式依去掉 .zst 之後的副檔名決定（.json 或 .yaml/.yml）；以 .zst 結尾時整份內容以 zstd 壓縮。
func SaveReport(path string, r *MomentReport) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errs.Wrap(err, "save: mkdir output dir")
		}
	}
	base := path
	compress := strings.HasSuffix(strings.ToLower(path), ZstdExt)
	if compress {
		base = path[:len(path)-len(ZstdExt)]
	}
	rep := RenderByExt(filepath.Ext(base))

	f, err := os.Create(path)
	if err != nil {
		return errs.Wrap(err, "save: create report file")
	}
	defer func() { _ = f.Close() }()

	if !compress {
		if err := r.WriteWith(f, rep); err != nil {
			return errs.Wrap(err, "save: write report")
		}
		return f.Close()
	}

	zw, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return errs.Wrap(err, "save: create zstd writer")
	}
	if err := r.WriteWith(zw, rep); err != nil {
		_ = zw.Close()
		return errs.Wrap(err, "save: write report")
	}
	if err := zw.Close(); err != nil {
		return errs.Wrap(err, "save: close zstd writer")
	}
	if err := f.Close(); err != nil {
		return errs.Wrap(err, "save: close report file")
	}
	return nil
}
