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

package core

import (
	"encoding"
	r2 "math/rand/v2"

	"github.com/zintix-labs/multinom/errs"
	"gonum.org/v1/gonum/mathext/prng"
)

// source 是引擎需要的最小能力：64-bit 輸出加上二進位狀態序列化。
type source interface {
	r2.Source
	encoding.BinaryMarshaler
	encoding.BinaryUnmarshaler
}

// engine 把任一 source 包成 PRNG。
//
// bounded 取樣與 Float64 交給 math/rand/v2 的 *Rand（無偏、53-bit 精度）。
type engine struct {
	src source
	rnd *r2.Rand
}

func newEngine(src source) *engine {
	return &engine{src: src, rnd: r2.New(src)}
}

// Uint64 回傳 uint64 亂數
func (e *engine) Uint64() uint64 {
	return e.src.Uint64()
}

// Float64 產出 [0,1) float64（53bits精度）
func (e *engine) Float64() float64 {
	return e.rnd.Float64()
}

// UintN 產出[0,n) 的uint整數，若 max == 0 回傳 0
func (e *engine) UintN(max uint) uint {
	if max == 0 {
		return 0
	}
	return e.rnd.UintN(max)
}

// IntN 產出[0,n) 的整數，若 max <= 0 回傳 -1
func (e *engine) IntN(max int) int {
	if max <= 0 {
		return -1
	}
	return e.rnd.IntN(max)
}

// Snapshot 取得當下內部狀態
func (e *engine) Snapshot() ([]byte, error) {
	b, err := e.src.MarshalBinary()
	if err != nil {
		return nil, errs.Wrap(err, "core: snapshot failed")
	}
	return b, nil
}

// Restore 恢復內部狀態
func (e *engine) Restore(data []byte) error {
	if err := e.src.UnmarshalBinary(data); err != nil {
		return errs.Wrap(err, "core: restore failed")
	}
	return nil
}

// newPCG64WithSeed 以指定 seed 建立 PCG 引擎；seed 先經 splitmix64 展開成兩個 64-bit 狀態。
func newPCG64WithSeed(seed int64) *engine {
	x := uint64(seed) ^ (0x9e3779b97f4a7c15)
	hi := splitmix64(x)
	lo := splitmix64(x ^ 0xDA942042E4DD58B5)
	return newEngine(r2.NewPCG(hi, lo))
}

// newMT19937WithSeed 以指定 seed 建立 MT19937 引擎（gonum 只使用 seed 的低 32 bits）。
func newMT19937WithSeed(seed int64) *engine {
	mt := prng.NewMT19937()
	mt.Seed(uint64(seed))
	return newEngine(mt)
}

// splitmix64 將輸入值混洗成新的 64-bit 狀態，用於種子展開。
func splitmix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}
