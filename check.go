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

	"github.com/zintix-labs/multinom/config"
	"github.com/zintix-labs/multinom/errs"
	"github.com/zintix-labs/multinom/nd"
	"gonum.org/v1/gonum/floats"
)

// Check 以預設容許誤差（1e-13）檢查多項分布參數。
func Check[T nd.Integers](n *nd.Array[T], pis *nd.Array[float64]) error {
	return CheckWithTolerance(n, pis, config.DefaultSumTolerance)
}

// CheckWithTolerance 檢查多項分布參數，依序：
//  1. 所有機率必須 >= 0（NaN 視為不合法）→ errs.ErrValueRange
//  2. 沿類別軸（第 0 軸）的機率總和與 1 的絕對差必須 <= tol → errs.ErrValueRange
//  3. pis 的形狀去掉第 0 軸後必須與 n 的形狀完全相同 → errs.ErrShapeMismatch
//
// 純函式，不修改輸入。
func CheckWithTolerance[T nd.Integers](n *nd.Array[T], pis *nd.Array[float64], tol float64) error {
	if n == nil || pis == nil {
		return errs.ShapeMismatchf("check: nil N or Pis")
	}
	if pis.Ndim() == 0 {
		return errs.ShapeMismatchf("check: Pis must have a leading category axis, got shape %s", pis.Shape())
	}

	for i, p := range pis.Data() {
		if !(p >= 0) {
			return errs.ValueRangef("check: all probabilities must be 0 or positive, got %v at flat index %d", p, i)
		}
	}

	inner := pis.Inner()
	total := make([]float64, inner.Size())
	for i := 0; i < pis.Len0(); i++ {
		floats.Add(total, pis.Row(i))
	}
	for j, s := range total {
		if math.Abs(s-1) > tol {
			return errs.ValueRangef("check: probabilities of a multinomial must sum to 1, trial %d sums to %.17g", j, s)
		}
	}

	if !inner.Equal(n.Shape()) {
		return errs.ShapeMismatchf("check: Pis must be the shape of N plus one leading axis, got Pis %s for N %s", pis.Shape(), n.Shape())
	}
	return nil
}

// checkLayout 只做 O(1) 的結構檢查：pis 的大小必須是 K × n 的大小。
//
// 即使呼叫端關閉 checks，也必須通過此檢查才能安全地以 Row 索引。
func checkLayout[T nd.Integers](n *nd.Array[T], pis *nd.Array[float64]) (k int, err error) {
	if n == nil || pis == nil {
		return 0, errs.ShapeMismatchf("nil N or Pis")
	}
	k = pis.Len0()
	if pis.Ndim() == 0 || k == 0 || pis.Size() != k*n.Size() {
		return 0, errs.ShapeMismatchf("Pis %s does not carry one leading axis over N %s", pis.Shape(), n.Shape())
	}
	return k, nil
}
