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
	"gonum.org/v1/gonum/stat/distuv"
)

// MinNormalTestSize 偏態檢定需要至少 8 筆樣本
const MinNormalTestSize = 8

// NormalTest D'Agostino–Pearson K² 常態性檢定。
//
// 將樣本偏態與峰度各自轉換成近似標準常態的 Z 值，K² = Zs² + Zk² 在常態假設下服從 χ²(2)。
// 回傳 K² 與 p 值；p 值越小越不像常態。
func NormalTest(x []float64) (k2, pvalue float64, err error) {
	zs, err := skewTest(x)
	if err != nil {
		return 0, 0, err
	}
	zk, err := kurtosisTest(x)
	if err != nil {
		return 0, 0, err
	}
	k2 = zs*zs + zk*zk
	if math.IsNaN(k2) {
		return 0, 0, errs.ValueRangef("stats: normal test statistic is NaN")
	}
	return k2, distuv.ChiSquared{K: 2}.Survival(k2), nil
}

// 母體（有偏）中心動差
func centralMoments(x []float64) (m2, m3, m4 float64, err error) {
	if len(x) < MinNormalTestSize {
		return 0, 0, 0, errs.ValueRangef("stats: normal test needs at least %d samples, got %d", MinNormalTestSize, len(x))
	}
	m2 = stat.Moment(2, x, nil)
	if !(m2 > 0) {
		return 0, 0, 0, errs.ValueRangef("stats: normal test on constant data")
	}
	return m2, stat.Moment(3, x, nil), stat.Moment(4, x, nil), nil
}

func skewTest(x []float64) (float64, error) {
	m2, m3, _, err := centralMoments(x)
	if err != nil {
		return 0, err
	}
	n := float64(len(x))
	b2 := m3 / math.Pow(m2, 1.5)

	y := b2 * math.Sqrt((n+1)*(n+3)/(6*(n-2)))
	beta2 := 3 * (n*n + 27*n - 70) * (n + 1) * (n + 3) / ((n - 2) * (n + 5) * (n + 7) * (n + 9))
	w2 := -1 + math.Sqrt(2*(beta2-1))
	delta := 1 / math.Sqrt(0.5*math.Log(w2))
	alpha := math.Sqrt(2 / (w2 - 1))
	if y == 0 {
		y = 1
	}
	ya := y / alpha
	return delta * math.Log(ya+math.Sqrt(ya*ya+1)), nil
}

func kurtosisTest(x []float64) (float64, error) {
	m2, _, m4, err := centralMoments(x)
	if err != nil {
		return 0, err
	}
	n := float64(len(x))
	b2 := m4 / (m2 * m2)

	e := 3 * (n - 1) / (n + 1)
	varb2 := 24 * n * (n - 2) * (n - 3) / ((n + 1) * (n + 1) * (n + 3) * (n + 5))
	z := (b2 - e) / math.Sqrt(varb2)

	sqrtBeta1 := 6 * (n*n - 5*n + 2) / ((n + 7) * (n + 9)) * math.Sqrt(6*(n+3)*(n+5)/(n*(n-2)*(n-3)))
	a := 6 + 8/sqrtBeta1*(2/sqrtBeta1+math.Sqrt(1+4/(sqrtBeta1*sqrtBeta1)))
	term1 := 1 - 2/(9*a)
	denom := 1 + z*math.Sqrt(2/(a-4))
	if denom == 0 {
		return 0, errs.ValueRangef("stats: kurtosis test is undefined for this sample")
	}
	term2 := math.Copysign(math.Cbrt((1-2/a)/math.Abs(denom)), denom)
	return (term1 - term2) / math.Sqrt(2/(9*a)), nil
}
