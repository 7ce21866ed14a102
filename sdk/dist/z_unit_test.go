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

package dist

import (
	"math"
	"testing"

	"github.com/zintix-labs/multinom/sdk/core"
)

func TestBinomialEdges(t *testing.T) {
	c := core.NewWithSeed(nil, 1)
	if got := Binomial(c, 0, 0.5); got != 0 {
		t.Fatalf("n=0 want 0, got %d", got)
	}
	if got := Binomial(c, -5, 0.5); got != 0 {
		t.Fatalf("n<0 want 0, got %d", got)
	}
	if got := Binomial(c, 100, 0); got != 0 {
		t.Fatalf("p=0 want 0, got %d", got)
	}
	if got := Binomial(c, 100, 1); got != 100 {
		t.Fatalf("p=1 want n, got %d", got)
	}
	if got := Binomial(c, 100, 1+1e-12); got != 100 {
		t.Fatalf("p>1 want n, got %d", got)
	}
	if got := Binomial(c, 100, math.NaN()); got != 0 {
		t.Fatalf("p=NaN want 0, got %d", got)
	}
}

func TestBinomialMean(t *testing.T) {
	c := core.NewWithSeed(nil, 2)
	const (
		n    = 1_000_000_000
		p    = 0.3
		runs = 2000
	)
	sum := 0.0
	for i := 0; i < runs; i++ {
		x := Binomial(c, n, p)
		if x < 0 || x > n {
			t.Fatalf("draw out of range: %d", x)
		}
		sum += float64(x)
	}
	mean := sum / runs
	se := math.Sqrt(n*p*(1-p)) / math.Sqrt(runs)
	if math.Abs(mean-n*p) > 5*se {
		t.Fatalf("mean %.1f too far from %.1f (se %.1f)", mean, n*p, se)
	}
}

func TestPoissonAndNormal(t *testing.T) {
	c := core.NewWithSeed(nil, 3)
	if got := Poisson(c, 0); got != 0 {
		t.Fatalf("lambda=0 want 0, got %d", got)
	}
	if got := Normal(c, 12.5, 0); got != 12.5 {
		t.Fatalf("sigma=0 want mu, got %v", got)
	}
	if got := NormalCount(c, -3.7, 0); got != -3 {
		t.Fatalf("truncation toward zero want -3, got %d", got)
	}
	if got := NormalCount(c, 1e30, 0); got != math.MaxInt64 {
		t.Fatalf("saturation want MaxInt64, got %d", got)
	}

	sum := 0.0
	const runs = 5000
	for i := 0; i < runs; i++ {
		sum += float64(Poisson(c, 40))
	}
	if m := sum / runs; math.Abs(m-40) > 5*math.Sqrt(40.0/runs) {
		t.Fatalf("poisson mean %.3f too far from 40", m)
	}
}

func TestMultinomialConservation(t *testing.T) {
	c := core.NewWithSeed(nil, 4)
	ps := []float64{0.1, 0.2, 0.3, 0.4}
	var buf []int64
	for _, n := range []int64{0, 1, 7, 1000, 999_999_999} {
		buf = Multinomial(c, n, ps, buf)
		var s int64
		for _, x := range buf {
			if x < 0 {
				t.Fatalf("negative count %v", buf)
			}
			s += x
		}
		if s != n {
			t.Fatalf("sum %d != n %d (%v)", s, n, buf)
		}
	}

	// 未正規化的機率同樣成立（以總和為分母）
	out := Multinomial(c, 1000, []float64{2, 0, 2}, nil)
	if out[1] != 0 || out[0]+out[2] != 1000 {
		t.Fatalf("unexpected draw %v", out)
	}

	// 單一類別
	if out := Multinomial(c, 5, []float64{1}, nil); out[0] != 5 {
		t.Fatalf("single category want [5], got %v", out)
	}
	if out := Multinomial(c, 5, nil, nil); len(out) != 0 {
		t.Fatalf("no category want empty, got %v", out)
	}
}

func TestDeterministicStream(t *testing.T) {
	c1 := core.NewWithSeed(nil, 5)
	c2 := core.NewWithSeed(nil, 5)
	for i := 0; i < 50; i++ {
		if Binomial(c1, 5000, 0.37) != Binomial(c2, 5000, 0.37) {
			t.Fatalf("binomial stream diverged at %d", i)
		}
	}
}
