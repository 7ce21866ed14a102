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
	"github.com/zintix-labs/multinom/errs"
	"github.com/zintix-labs/multinom/nd"
	"github.com/zintix-labs/multinom/sdk/dist"
	"gonum.org/v1/gonum/floats"
)

// ArrayMultinomial 逐元素抽多項分布：第 j 個試驗使用 N[j] 與 Pis[:, j]。
//
// 每個類別步驟都使用精確二項產生器，因此 N 必須落在 32-bit 安全範圍內。
// 回傳與 Pis 同形狀的計數，沿第 0 軸加總恰好等於 N。
//
// checks 為 false 時跳過值域檢查，並假設每個試驗的機率總和為 1：
// Pis 的最後一列不會被讀取（最後一個類別吸收剩餘次數）。
func (s *Sampler) ArrayMultinomial(n *nd.Array[int32], pis *nd.Array[float64], checks bool) (*nd.Array[int32], error) {
	return arrayMultinomial(s, n, pis, checks, func(dst, remain []int64, q []float64) {
		for j := range dst {
			dst[j] = dist.Binomial(s.c, remain[j], q[j])
		}
	})
}

// ArrayMultinomialInt64 與 ArrayMultinomial 相同，但每個類別步驟改用 ApproxBinomial，
// 可接受超出精確產生器範圍的 N（int64）。
func (s *Sampler) ArrayMultinomialInt64(n *nd.Array[int64], pis *nd.Array[float64], checks bool) (*nd.Array[int64], error) {
	return arrayMultinomial(s, n, pis, checks, func(dst, remain []int64, q []float64) {
		s.approxBinomialRow(dst, remain, q, false)
	})
}

// rowBinomial 對整列試驗抽條件二項：dst[j] ~ Binomial(remain[j], q[j])
type rowBinomial func(dst, remain []int64, q []float64)

// arrayMultinomial 條件二項鏈（chain rule）：
//
//	for i in 0..K-2:
//	    X[i]        = CB(N_remain, Pis[i] / prob_remain)
//	    N_remain   -= X[i]
//	    prob_remain -= Pis[i]
//	X[K-1] = N_remain
//
// 每一步都對整列試驗操作。
func arrayMultinomial[T nd.Integers](s *Sampler, n *nd.Array[T], pis *nd.Array[float64], checks bool, cb rowBinomial) (*nd.Array[T], error) {
	if checks {
		if err := CheckWithTolerance(n, pis, s.cfg.SumTolerance); err != nil {
			return nil, err
		}
	}
	k, err := checkLayout(n, pis)
	if err != nil {
		return nil, errs.Wrap(err, "array_multinomial: layout")
	}

	m := n.Size()
	out := nd.Zeros[T](pis.Shape()...)

	remain := make([]int64, m)
	for j, v := range n.Data() {
		remain[j] = int64(v)
	}
	probRemain := make([]float64, m)
	for j := range probRemain {
		probRemain[j] = 1
	}
	q := make([]float64, m)
	draw := make([]int64, m)

	for i := 0; i < k-1; i++ {
		row := pis.Row(i)
		conditional(q, row, probRemain)
		cb(draw, remain, q)

		xs := out.Row(i)
		for j, x := range draw {
			xs[j] = T(x)
			remain[j] -= x
		}
		floats.Sub(probRemain, row)
	}

	last := out.Row(k - 1)
	for j, r := range remain {
		last[j] = T(r)
	}
	return out, nil
}

// conditional 計算條件機率 q = p / prob_remain，並限制在 [0,1]。
//
// prob_remain 經過多次相減會留下浮點殘差；機率為 0 的類別一律得 0，
// prob_remain <= 0 時（殘差或未驗證的輸入）當作 1，讓目前類別吸收全部剩餘次數。
func conditional(q, p, probRemain []float64) {
	for j := range q {
		switch {
		case p[j] == 0:
			q[j] = 0
		case !(probRemain[j] > 0):
			q[j] = 1
		default:
			q[j] = min(max(p[j]/probRemain[j], 0), 1)
		}
	}
}
