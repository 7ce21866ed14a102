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
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"
)

// 信賴區間
type CI struct {
	Lo float64 `json:"Lo"`
	Hi float64 `json:"Hi"`
}

// PointStat 點估計 回傳 估計值 以及信賴區間
type PointStat struct {
	Hat float64 `json:"Hat"`
	CI  CI      `json:"CI"`
}

// ============================================================
// ** 內部統計函數 **
// ============================================================

// Clopper–Pearson exact CI for binomial proportion (k successes out of n)
func proportionCICP(k int, n int, confidence float64) (pHat float64, ci CI) {
	if n == 0 {
		return 0, CI{0, 1}
	}
	alpha := 1 - confidence
	pHat = float64(k) / float64(n)

	// Beta PPF 映射，處理邊界
	if k == 0 {
		ci.Lo = 0
	} else {
		b := distuv.Beta{Alpha: float64(k), Beta: float64(n - k + 1)}
		ci.Lo = b.Quantile(alpha / 2)
	}
	if k == n {
		ci.Hi = 1
	} else {
		b := distuv.Beta{Alpha: float64(k + 1), Beta: float64(n - k)}
		ci.Hi = b.Quantile(1 - alpha/2)
	}
	return
}

// 第 q 分位的點估計與 CI：把 order statistic 的秩視為二項，以 Beta 反推 p 範圍，再轉回樣本索引。
func quantileStat(data []float64, q, confidence float64) PointStat {
	n := len(data)
	if n == 0 {
		return PointStat{}
	}
	cp := make([]float64, n)
	copy(cp, data)
	sort.Float64s(cp)

	// 最近秩法
	idx := min(max(int(q*float64(n)), 0), n-1)
	if n == 1 {
		return PointStat{Hat: cp[0], CI: CI{cp[0], cp[0]}}
	}

	alpha := 1 - confidence
	k := min(max(int(q*float64(n)), 1), n-1)
	bLo := distuv.Beta{Alpha: float64(k), Beta: float64(n - k + 1)}
	bHi := distuv.Beta{Alpha: float64(k + 1), Beta: float64(n - k)}
	li := min(max(int(bLo.Quantile(alpha/2)*float64(n)), 0), n-1)
	ui := int(bHi.Quantile(1-alpha/2) * float64(n))
	if ui > 0 {
		ui -= 1
	}
	ui = min(max(ui, 0), n-1)
	return PointStat{Hat: cp[idx], CI: CI{Lo: cp[li], Hi: cp[ui]}}
}

// ============================================================
// ** 輸出函數 **
// ============================================================

func fmtPct01(x float64) string {
	return fmt.Sprintf("%.2f%%", x*100)
}

func fmtHatCIpct01(hat float64, ci CI) string {
	return fmt.Sprintf("%s [%s, %s]", fmtPct01(hat), fmtPct01(ci.Lo), fmtPct01(ci.Hi))
}

func fmtHatCI(ps PointStat) string {
	return fmt.Sprintf("%.4f [%.4f, %.4f]", ps.Hat, ps.CI.Lo, ps.CI.Hi)
}
