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
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zintix-labs/multinom/nd"
	"github.com/zintix-labs/multinom/stats"
)

const (
	momentSampleSize = 400
	momentBatches    = 30
	momentAlpha      = 0.05
	momentPassRate   = 0.6
)

// momentShape 一維或二維，試驗數至少 4
func momentShape(r *rand.Rand) []int {
	if r.IntN(2) == 0 {
		return []int{4 + r.IntN(6)}
	}
	return []int{2 + r.IntN(3), 2 + r.IntN(3)}
}

func layoutOf(n []int64, pis *nd.Array[float64]) stats.Layout {
	return stats.Layout{N: n, Pis: pis.Data()}
}

func widen[T nd.Integers](xs []T) []int64 {
	out := make([]int64, len(xs))
	for i, x := range xs {
		out[i] = int64(x)
	}
	return out
}

func assertMoments(t *testing.T, variant string, draw stats.DrawFunc, l stats.Layout) {
	t.Helper()
	rep, _, err := stats.Evaluate(draw, l, momentSampleSize, momentBatches, momentAlpha, false)
	require.NoError(t, err)
	rep.Summary.Variant = variant
	assert.Zero(t, rep.Summary.Violations)
	assert.GreaterOrEqual(t, rep.PassRate(), momentPassRate, "\n%s", rep.Table())
}

func TestMomentsArrayMultinomial(t *testing.T) {
	if testing.Short() {
		t.Skip("moment test is slow")
	}
	r := rand.New(rand.NewPCG(2018, 27))
	s := newSampler(t, 71)

	shape := momentShape(r)
	k := 5 + r.IntN(5)
	n := nd.Zeros[int32](shape...)
	for j := range n.Data() {
		n.Data()[j] = int32(100 + r.IntN(9900))
	}
	pis := randomArrayProbs(r, k, shape...)
	require.NoError(t, Check(n, pis))

	draw := func() ([]int64, error) {
		xs, err := s.ArrayMultinomial(n, pis, false)
		if err != nil {
			return nil, err
		}
		return widen(xs.Data()), nil
	}
	assertMoments(t, "array_multinomial", draw, layoutOf(widen(n.Data()), pis))
}

func TestMomentsArrayMultinomialInt64(t *testing.T) {
	if testing.Short() {
		t.Skip("moment test is slow")
	}
	r := rand.New(rand.NewPCG(2018, 28))
	s := newSampler(t, 72)

	shape := momentShape(r)
	k := 5 + r.IntN(5)
	n := nd.Zeros[int64](shape...)
	for j := range n.Data() {
		n.Data()[j] = int64(math.Pow10(r.IntN(9))) * 1e7
	}
	pis := randomArrayProbs(r, k, shape...)
	require.NoError(t, Check(n, pis))

	draw := func() ([]int64, error) {
		xs, err := s.ArrayMultinomialInt64(n, pis, false)
		if err != nil {
			return nil, err
		}
		return xs.Data(), nil
	}
	assertMoments(t, "array_multinomial_int64", draw, layoutOf(n.Data(), pis))
}

func TestMomentsMultinomialInt64(t *testing.T) {
	if testing.Short() {
		t.Skip("moment test is slow")
	}
	r := rand.New(rand.NewPCG(2018, 29))
	s := newSampler(t, 73)

	for _, n := range []int64{1e7, 1e11, 1e15} {
		k := 20 + r.IntN(31)
		ps := randomProbs(r, k)
		draw := func() ([]int64, error) {
			return s.MultinomialInt64(n, ps, false)
		}
		assertMoments(t, "multinomial_int64", draw, stats.Layout{N: []int64{n}, Pis: ps})
	}
}
