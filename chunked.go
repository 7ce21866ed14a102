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
	"cmp"
	"math"
	"slices"
	"sort"

	"github.com/zintix-labs/multinom/errs"
	"github.com/zintix-labs/multinom/nd"
	"github.com/zintix-labs/multinom/sdk/dist"
	"gonum.org/v1/gonum/floats"
)

// MultinomialInt64 對單一試驗抽一次多項分布，N 可達 int64 範圍。
//
// N <= ExactMultinomialLimit（預設 1e9）時直接委派給精確多項產生器。
//
// 超出時採分塊抽樣：
//  1. 依機率由小到大排序類別（穩定排序），保留排列以便還原。
//  2. 反覆找出最大的前綴 [li..ri]，使其期望計數 N_remaining * q 仍 <= 上限，
//     其中 q = 該前綴機率 / 尚未處理的機率。只以常態近似「落入前綴的總次數」這個切割點，
//     前綴內部再用精確多項抽樣分配。
//  3. 找不到至少含兩個類別的前綴時，剩下的類別逐一以常態近似條件二項，最後一個類別吸收剩餘。
//  4. 還原排列，輸出順序與輸入相同。
//
// 近似誤差只出現在切割點，且計數截斷在 [0, N_remaining]，加總恆等於 N。
func (s *Sampler) MultinomialInt64(n int64, pis []float64, checks bool) ([]int64, error) {
	if checks {
		pa, err := nd.FromSlice(pis, len(pis))
		if err != nil {
			return nil, err
		}
		if err := CheckWithTolerance(nd.Scalar(n), pa, s.cfg.SumTolerance); err != nil {
			return nil, err
		}
	}
	k := len(pis)
	if k == 0 {
		return nil, errs.ShapeMismatchf("multinomial_int64: at least one category is required")
	}

	limit := s.cfg.ExactMultinomialLimit
	if n <= limit {
		s.log.Debug("multinomial fast path", "n", n, "k", k)
		return dist.Multinomial(s.c, n, pis, nil), nil
	}

	// 1. 由小到大排序；order[r] 為排序後第 r 個類別的原始索引
	order := make([]int, k)
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int { return cmp.Compare(pis[a], pis[b]) })

	sorted := make([]float64, k)
	for r, i := range order {
		sorted[r] = pis[i]
	}
	cum := floats.CumSum(make([]float64, k), sorted)
	total := cum[k-1]

	counts := make([]int64, k)
	remaining := n
	done := 0.0
	li := 0

	// 2. 分塊
	for li < k {
		pRemain := total - done
		ri := s.largestExactPrefix(cum, li, remaining, done, pRemain)
		if ri <= li {
			break
		}
		pCut := cum[ri] - done

		var nLeft int64
		if ri == k-1 {
			nLeft = remaining
		} else {
			q := min(max(pCut/pRemain, 0), 1)
			mean := float64(remaining) * q
			std := math.Sqrt(max(0, mean*(1-q)))
			nLeft = s.clampCount("multinomial_int64/chunk", dist.NormalCount(s.c, mean, std), remaining)
		}
		s.log.Debug("multinomial chunk", "li", li, "ri", ri, "p_cut", pCut, "n_left", nLeft, "n_remaining", remaining)

		if nLeft > 0 && pCut > 0 {
			dist.Multinomial(s.c, nLeft, sorted[li:ri+1], counts[li:ri+1])
		} else if nLeft > 0 {
			// 前綴機率全為 0 卻被分到次數（只可能來自未驗證輸入）：留給剩餘類別
			nLeft = 0
		}
		remaining -= nLeft
		done = cum[ri]
		li = ri + 1
	}

	// 3. 逐類別常態近似
	if li < k {
		pRemain := total - done
		for i := li; i < k-1; i++ {
			q := 0.0
			if pRemain > 0 {
				q = min(max(sorted[i]/pRemain, 0), 1)
			}
			mean := float64(remaining) * q
			std := math.Sqrt(max(0, mean*(1-q)))
			x := s.clampCount("multinomial_int64/tail", dist.NormalCount(s.c, mean, std), remaining)
			counts[i] = x
			remaining -= x
			pRemain -= sorted[i]
		}
		counts[k-1] = remaining
	} else {
		// 所有類別都在分塊中處理完；正常情況 remaining 已為 0
		counts[k-1] += remaining
	}

	// 4. 還原原始順序
	out := make([]int64, k)
	for r, i := range order {
		out[i] = counts[r]
	}
	return out, nil
}

// largestExactPrefix 回傳最大的索引 ri（ri >= li-1），使得
//
//	remaining * (cum[ri] - done) / pRemain <= ExactMultinomialLimit
//
// 也就是「從 li 到 ri 的類別，期望計數仍可精確抽樣」。cum 非遞減，因此滿足條件的索引構成前綴，
// 以二分搜尋找出邊界；沒有任何索引 >= li 滿足時回傳 li-1。
func (s *Sampler) largestExactPrefix(cum []float64, li int, remaining int64, done, pRemain float64) int {
	limit := float64(s.cfg.ExactMultinomialLimit)
	n := float64(remaining)
	if !(pRemain > 0) {
		// 未處理的機率已耗盡：所有剩餘類別的期望計數皆為 0
		return len(cum) - 1
	}
	fits := func(i int) bool {
		return n*((cum[i]-done)/pRemain) <= limit
	}
	// 第一個不滿足條件的位置
	first := li + sort.Search(len(cum)-li, func(i int) bool { return !fits(li + i) })
	return first - 1
}
