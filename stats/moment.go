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
	"math"

	"github.com/zintix-labs/multinom/errs"
	"gonum.org/v1/gonum/stat"
)

// ============================================================
// ** 理論動差 **
// ============================================================

// Mean 多項分布單一類別計數的期望值 n·p
func Mean(n int64, p float64) float64 {
	return float64(n) * p
}

// Variance 多項分布單一類別計數的變異數 n·p(1-p)
func Variance(n int64, p float64) float64 {
	return float64(n) * p * (1 - p)
}

// FourthCentral 單一類別計數的四階中心動差 n·p(1-p)(3p²(2-n)+3p(n-2)+1)
func FourthCentral(n int64, p float64) float64 {
	nf := float64(n)
	return nf * p * (1 - p) * (3*p*p*(2-nf) + 3*p*(nf-2) + 1)
}

// StderrMean 樣本平均數的標準誤
func StderrMean(variance float64, size int) float64 {
	return math.Sqrt(variance / float64(size))
}

// StderrVar 樣本變異數的標準誤（需要四階中心動差）
func StderrVar(variance, mu4 float64, size int) float64 {
	s := float64(size)
	return math.Sqrt((mu4 - (s-3)/(s-1)*variance*variance) / s)
}

// ============================================================
// ** 抽樣收集 **
// ============================================================

// Layout 一組多項分布參數的攤平表示。
//
// N 為 M 個試驗的次數；Pis 以類別優先攤平，長度 K*M，第 i 類第 j 個試驗位於 Pis[i*M+j]。
type Layout struct {
	N   []int64   `json:"N"`
	Pis []float64 `json:"Pis"`
}

// Trials 試驗數 M
func (l Layout) Trials() int { return len(l.N) }

// Categories 類別數 K
func (l Layout) Categories() int {
	if len(l.N) == 0 {
		return 0
	}
	return len(l.Pis) / len(l.N)
}

// Valid 檢查 Pis 的長度是 N 的整數倍
func (l Layout) Valid() error {
	if len(l.N) == 0 || len(l.Pis) == 0 || len(l.Pis)%len(l.N) != 0 {
		return errs.ShapeMismatchf("stats: layout needs K*M probabilities for M trials, got %d for %d", len(l.Pis), len(l.N))
	}
	return nil
}

// Collector 收集同一組參數的重複抽樣，並記錄守恆違規。
//
// 抽樣結果以 cell（類別 × 試驗）為單位存放，cells[c][s] 為第 s 次抽樣在 cell c 的計數。
type Collector struct {
	layout     Layout
	cells      [][]float64
	size       int
	violations int
}

// NewCollector 建立可容納 sampleSize 次抽樣的收集器
func NewCollector(layout Layout, sampleSize int) (*Collector, error) {
	if err := layout.Valid(); err != nil {
		return nil, err
	}
	if sampleSize < 4 {
		return nil, errs.ValueRangef("stats: sample size must be at least 4, got %d", sampleSize)
	}
	cells := make([][]float64, len(layout.Pis))
	for c := range cells {
		cells[c] = make([]float64, 0, sampleSize)
	}
	return &Collector{layout: layout, cells: cells}, nil
}

// Add 紀錄一次抽樣。xs 的排列與 Layout.Pis 相同。
//
// 任何試驗的計數出現負值，或沿類別加總不等於 N，都記為一次違規。
func (c *Collector) Add(xs []int64) error {
	if len(xs) != len(c.cells) {
		return errs.ShapeMismatchf("stats: draw has %d cells, layout has %d", len(xs), len(c.cells))
	}
	m := c.layout.Trials()
	k := c.layout.Categories()
	for j := 0; j < m; j++ {
		var sum int64
		neg := false
		for i := 0; i < k; i++ {
			x := xs[i*m+j]
			neg = neg || x < 0
			sum += x
		}
		if neg || sum != c.layout.N[j] {
			c.violations++
		}
	}
	for i, x := range xs {
		c.cells[i] = append(c.cells[i], float64(x))
	}
	c.size++
	return nil
}

// Size 已收集的抽樣次數
func (c *Collector) Size() int { return c.size }

// Violations 守恆違規次數
func (c *Collector) Violations() int { return c.violations }

// Errors 回傳每個 cell 的標準化誤差：
//
//	zMean = (樣本平均 - n·p) / StderrMean
//	zVar  = (樣本變異數 - n·p(1-p)) / StderrVar
//
// 樣本變異數為母體變異數（除以樣本數）。理論變異數為 0 的 cell（p 為 0 或 1）沒有資訊，略過。
func (c *Collector) Errors() (zMean, zVar []float64, skipped int) {
	m := c.layout.Trials()
	for idx, xs := range c.cells {
		n := c.layout.N[idx%m]
		p := c.layout.Pis[idx]
		v := Variance(n, p)
		if !(v > 0) || len(xs) == 0 {
			skipped++
			continue
		}
		mean, sv := stat.PopMeanVariance(xs, nil)
		zMean = append(zMean, (mean-Mean(n, p))/StderrMean(v, len(xs)))
		zVar = append(zVar, (sv-v)/StderrVar(v, FourthCentral(n, p), len(xs)))
	}
	return zMean, zVar, skipped
}
