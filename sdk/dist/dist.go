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

// Package dist 提供「精確」離散與連續亂數原語：二項、Poisson、常態、多項。
//
// 前三者直接使用 gonum stat/distuv，並以 *core.Core 為亂數來源；
// 多項分布以條件二項鏈（chain rule）組合而成，最後一個類別吸收剩餘量。
//
// 這些原語只在各自的安全範圍內被視為精確（二項約 2e9 次試驗、多項約 1e9 次）；
// 範圍的判斷屬於上層抽樣器的責任，本包不做檢查。
package dist

import (
	"math"

	"github.com/zintix-labs/multinom/sdk/core"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"
)

// Binomial 抽一次 Binomial(n, p)。
//
// n <= 0 或 p <= 0 回傳 0；p >= 1 回傳 n。結果保證落在 [0,n]。
func Binomial(c *core.Core, n int64, p float64) int64 {
	switch {
	case n <= 0 || !(p > 0):
		return 0
	case p >= 1:
		return n
	}
	x := int64(distuv.Binomial{N: float64(n), P: p, Src: c}.Rand())
	return min(max(x, 0), n)
}

// Poisson 抽一次 Poisson(lambda)；lambda <= 0 回傳 0。
func Poisson(c *core.Core, lambda float64) int64 {
	if !(lambda > 0) {
		return 0
	}
	return int64(distuv.Poisson{Lambda: lambda, Src: c}.Rand())
}

// Normal 抽一次 Normal(mu, sigma)；sigma <= 0 時退化為 mu。
func Normal(c *core.Core, mu, sigma float64) float64 {
	if !(sigma > 0) {
		return mu
	}
	return distuv.Normal{Mu: mu, Sigma: sigma, Src: c}.Rand()
}

// Multinomial 抽一次 Multinomial(n, ps)，結果寫入 dst（長度不足時重新配置）並回傳。
//
// ps 不需要事先正規化：以 ps 的總和作為初始剩餘機率。
// 除最後一個類別外逐一抽條件二項，最後一個類別吸收剩餘次數，故加總恆等於 n（n <= 0 時全為 0）。
func Multinomial(c *core.Core, n int64, ps []float64, dst []int64) []int64 {
	k := len(ps)
	if cap(dst) < k {
		dst = make([]int64, k)
	}
	dst = dst[:k]
	clear(dst)
	if k == 0 || n <= 0 {
		return dst
	}

	remain := n
	pRemain := floats.Sum(ps)
	for i := 0; i < k-1 && remain > 0; i++ {
		q := 1.0
		if pRemain > 0 {
			q = ps[i] / pRemain
		}
		x := Binomial(c, remain, q)
		dst[i] = x
		remain -= x
		pRemain -= ps[i]
	}
	dst[k-1] += remain
	return dst
}

// NormalCount 抽一次 Normal(mean, std)，向零截斷為整數（與 int64(x) 相同語意）。
//
// 回傳值未經任何上下界限制；NaN 回傳 0。超出 int64 範圍時飽和。
func NormalCount(c *core.Core, mean, std float64) int64 {
	x := Normal(c, mean, std)
	switch {
	case math.IsNaN(x):
		return 0
	case x >= math.MaxInt64:
		return math.MaxInt64
	case x <= math.MinInt64:
		return math.MinInt64
	}
	return int64(x)
}
