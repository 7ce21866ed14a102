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
	"io"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/zintix-labs/multinom/errs"
)

// DrawFunc 以 Layout 的參數抽一次，回傳與 Layout.Pis 相同排列的計數
type DrawFunc func() ([]int64, error)

// Evaluate 動差檢驗：跑 batches 個批次，每批次抽 sampleSize 次。
//
// 每批次對所有 cell 的標準化平均誤差與變異數誤差各做一次常態性檢定，
// min(p_mean, p_var) >= alpha 時該批次通過。抽樣錯誤會直接中止並回傳。
//
// 回傳報告與用時。
func Evaluate(draw DrawFunc, layout Layout, sampleSize, batches int, alpha float64, showpb bool) (*MomentReport, time.Duration, error) {
	if draw == nil {
		return nil, 0, errs.NewWarn("stats: nil draw function")
	}
	if err := layout.Valid(); err != nil {
		return nil, 0, err
	}
	if batches < 1 {
		return nil, 0, errs.ValueRangef("stats: batches must > 0, got %d", batches)
	}
	if !(alpha > 0 && alpha < 1) {
		return nil, 0, errs.ValueRangef("stats: alpha must be in (0,1), got %v", alpha)
	}

	rep := &MomentReport{
		Summary: &SummaryReport{
			Categories: layout.Categories(),
			Trials:     layout.Trials(),
			SampleSize: sampleSize,
			Batches:    batches,
			Alpha:      alpha,
		},
		Batch: &BatchReport{
			MeanPValue: make([]float64, 0, batches),
			VarPValue:  make([]float64, 0, batches),
			Passed:     make([]bool, 0, batches),
		},
	}

	bar := pb.New(batches * sampleSize)
	if !showpb {
		bar.SetWriter(io.Discard)
	}
	bar.Start()
	for b := 0; b < batches; b++ {
		col, err := NewCollector(layout, sampleSize)
		if err != nil {
			bar.Finish()
			return nil, 0, err
		}
		for i := 0; i < sampleSize; i++ {
			xs, err := draw()
			if err != nil {
				bar.Finish()
				return nil, 0, errs.Wrap(err, "stats: draw failed")
			}
			if err := col.Add(xs); err != nil {
				bar.Finish()
				return nil, 0, err
			}
			bar.Increment()
		}
		zm, zv, skipped := col.Errors()
		pm := pvalueOrZero(zm)
		pv := pvalueOrZero(zv)

		rep.Batch.MeanPValue = append(rep.Batch.MeanPValue, pm)
		rep.Batch.VarPValue = append(rep.Batch.VarPValue, pv)
		rep.Batch.Passed = append(rep.Batch.Passed, min(pm, pv) >= alpha)
		rep.Summary.SkippedCells = skipped
		rep.Summary.Violations += col.Violations()
		rep.Summary.Draws += col.Size()
	}
	used := time.Since(bar.StartTime())
	bar.Finish()

	rep.Done()
	return rep, used, nil
}

func pvalueOrZero(z []float64) float64 {
	_, p, err := NormalTest(z)
	if err != nil {
		return 0
	}
	return p
}
