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

package multinom

import (
	"math"

	"github.com/zintix-labs/multinom/errs"
	"github.com/zintix-labs/multinom/nd"
	"github.com/zintix-labs/multinom/sdk/dist"
)

// Regime 二項抽樣所採用的方法
type Regime uint8

const (
	// RegimeExact n 在精確產生器範圍內，直接精確抽樣
	RegimeExact Regime = iota
	// RegimePoisson n 超出範圍且 n*p 小（稀有事件），以 Poisson(n*p) 近似
	RegimePoisson
	// RegimeNormal n 超出範圍且 n*p 大，以 Normal(n*p, sqrt(n*p*(1-p))) 近似
	RegimeNormal
)

func (r Regime) String() string {
	switch r {
	case RegimeExact:
		return "exact"
	case RegimePoisson:
		return "poisson"
	case RegimeNormal:
		return "normal"
	default:
		return "unknown"
	}
}

// SelectRegime 依量級選擇二項抽樣方法。
//
//	n <= exactLimit          → RegimeExact
//	n*p <  poissonMean       → RegimePoisson
//	otherwise                → RegimeNormal
func SelectRegime(n int64, p float64, exactLimit int64, poissonMean float64) Regime {
	if n <= exactLimit {
		return RegimeExact
	}
	if float64(n)*p < poissonMean {
		return RegimePoisson
	}
	return RegimeNormal
}

// ApproxBinomial 抽一次 Binomial(n, p)，n 可超出精確產生器範圍。
//
// n <= ExactBinomialLimit 時完全委派給精確產生器，與 dist.Binomial 使用相同的亂數序列。
// 超出時整個 n 交給近似：Poisson 或常態（向零截斷），結果截斷在 [0, n]。
// 不檢查 p 的範圍，呼叫端保證 p ∈ [0,1]。
func (s *Sampler) ApproxBinomial(n int64, p float64) int64 {
	switch SelectRegime(n, p, s.cfg.ExactBinomialLimit, s.cfg.PoissonMeanThreshold) {
	case RegimeExact:
		return dist.Binomial(s.c, n, p)
	case RegimePoisson:
		return s.clampCount("approximate_binomial/poisson", dist.Poisson(s.c, float64(n)*p), n)
	default:
		mean := float64(n) * p
		std := math.Sqrt(max(0, mean*(1-p)))
		return s.clampCount("approximate_binomial/normal", dist.NormalCount(s.c, mean, std), n)
	}
}

// ApproximateBinomial 逐元素抽 Binomial(N, P)。
//
// P 的形狀必須與 N 相同，或只有一個元素（廣播到所有 N）；否則回傳 errs.ErrShapeMismatch。
// 結果形狀與 N 相同。
func (s *Sampler) ApproximateBinomial(n *nd.Array[int64], p *nd.Array[float64]) (*nd.Array[int64], error) {
	if n == nil || p == nil {
		return nil, errs.ShapeMismatchf("approximate_binomial: nil N or P")
	}
	broadcast := p.Size() == 1
	if !broadcast && !p.Shape().Equal(n.Shape()) {
		return nil, errs.ShapeMismatchf("approximate_binomial: P %s cannot broadcast to N %s", p.Shape(), n.Shape())
	}

	out := nd.Zeros[int64](n.Shape()...)
	s.approxBinomialRow(out.Data(), n.Data(), p.Data(), broadcast)
	return out, nil
}

// approxBinomialRow 對整列試驗做一次近似二項抽樣，結果寫入 dst。
func (s *Sampler) approxBinomialRow(dst, n []int64, p []float64, broadcast bool) {
	for j, nj := range n {
		pj := p[0]
		if !broadcast {
			pj = p[j]
		}
		dst[j] = s.ApproxBinomial(nj, pj)
	}
}
