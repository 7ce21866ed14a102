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

// Package core 提供抽樣所使用的亂數來源把手（handle）。
//
// 所有抽樣函式都必須顯式接收 *Core，不使用任何全域亂數狀態：
//   - 相同引擎、相同 seed 必須得到相同輸出序列（可重現）。
//   - *Core 不是 goroutine-safe；要併發使用時以 Fork 為每個執行緒派生獨立來源。
//
// *Core 滿足 math/rand/v2 的 rand.Source，可直接作為 gonum distuv 分布的 Src。
package core

import (
	"strings"

	"github.com/zintix-labs/multinom/errs"
)

// PRNG 定義 Core 所需的亂數來源，需同時支援取樣與狀態保存/還原。
type PRNG interface {
	RAND
	Restorable
}

// Restorable 定義可快照與還原的狀態介面。
type Restorable interface {
	// Snapshot 回傳可用於還原的序列化狀態。
	Snapshot() ([]byte, error)
	// Restore 依序列化狀態還原 PRNG 內部狀態。
	Restore([]byte) error
}

// RAND 定義核心亂數取樣能力。
type RAND interface {
	// Uint64 回傳 uint64 亂數。
	Uint64() uint64
	// Float64 回傳 [0,1) 的浮點亂數（53-bit 精度）。
	Float64() float64
	// UintN 回傳 [0,max) 的 uint 亂數，若 max == 0 回傳 0。
	UintN(uint) uint
	// IntN 回傳 [0,max) 的 int 亂數，若 max <= 0 回傳 -1。
	IntN(int) int
}

type PRNGFactory interface {
	// New 以指定 seed 建立新的 PRNG。
	//
	// 合約：在同一個實作與同一個版本下，New(seed) 必須是決定性的，
	// 相同的 seed 必須產生相同的初始內部狀態與輸出序列。
	New(int64) PRNG
	// Name 回傳引擎名稱（設定檔中的 engine 欄位）。
	Name() string
}

// 引擎名稱
const (
	EnginePCG64   = "pcg64"
	EngineMT19937 = "mt19937"
)

// DefaultPRNG 預設引擎：PCG（math/rand/v2）
type DefaultPRNG struct{}

// New 滿足合約
func (d *DefaultPRNG) New(seed int64) PRNG {
	return newPCG64WithSeed(seed)
}

func (d *DefaultPRNG) Name() string { return EnginePCG64 }

func Default() *DefaultPRNG {
	return &DefaultPRNG{}
}

// MT19937PRNG 以 gonum mathext/prng 的 MT19937 為引擎（與 numpy 舊版 RandomState 同族）。
type MT19937PRNG struct{}

func (m *MT19937PRNG) New(seed int64) PRNG {
	return newMT19937WithSeed(seed)
}

func (m *MT19937PRNG) Name() string { return EngineMT19937 }

// FactoryByName 依名稱取得引擎工廠；空字串視為預設引擎。
func FactoryByName(name string) (PRNGFactory, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", EnginePCG64:
		return Default(), nil
	case EngineMT19937:
		return &MT19937PRNG{}, nil
	default:
		return nil, errs.Fatalf("core: unknown prng engine %q", name)
	}
}

// Core 封裝 PRNG，並記錄建立時的 seed 與工廠，供 Fork 派生獨立來源。
type Core struct {
	PRNG
	seed    int64
	factory PRNGFactory
}

// New 允許使用外部自實現的 PRNG 建立 Core。
//
// 以此方式建立的 Core 不知道自己的 seed；Fork 時會先從 rng 取一個值作為派生基底。
func New(rng PRNG) *Core {
	return &Core{PRNG: rng}
}

// NewWithSeed 以工廠與 seed 建立 Core；f 為 nil 時使用預設引擎。
func NewWithSeed(f PRNGFactory, seed int64) *Core {
	if f == nil {
		f = Default()
	}
	return &Core{PRNG: f.New(seed), seed: seed, factory: f}
}

// Seed 回傳建立時的 seed（以 New 建立者為 0）。
func (c *Core) Seed() int64 { return c.seed }

// Engine 回傳引擎名稱；以 New 建立、來源未知時回傳空字串。
func (c *Core) Engine() string {
	if c.factory == nil {
		return ""
	}
	return c.factory.Name()
}

// Fork 派生第 stream 條獨立亂數來源。
//
// 同一個 Core 以相同 stream 派生出的序列永遠相同；不同 stream 互不相關。
// 派生不會消耗 c 的亂數狀態（以 New 建立者除外）。
func (c *Core) Fork(stream uint64) *Core {
	f := c.factory
	base := c.seed
	if f == nil {
		f = Default()
		base = int64(c.Uint64())
	}
	return NewWithSeed(f, DeriveSeed(base, stream))
}

// DeriveSeed 由基底 seed 與 stream 編號派生子 seed（splitmix64 兩次混洗）。
func DeriveSeed(base int64, stream uint64) int64 {
	x := splitmix64(uint64(base) ^ 0x9e3779b97f4a7c15)
	return int64(splitmix64(x + stream*0xbf58476d1ce4e5b9))
}
