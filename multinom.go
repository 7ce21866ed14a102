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

// Package multinom 提供試驗次數 N 可達 ~1e18 的多項 / 二項抽樣，並保證類別計數加總恰好等於 N。
//
// 精確的離散亂數產生器只在有限範圍內可信（二項約 2e9、多項約 1e9）。
// 本包在範圍內直接委派給精確產生器，超出範圍時：
//   - 二項：依 n*p 大小改用 Poisson 或常態近似（ApproximateBinomial）。
//   - 批次多項：以條件二項鏈逐類別抽樣，最後一個類別吸收剩餘量（ArrayMultinomial / ArrayMultinomialInt64）。
//   - 單一試驗多項：遞迴切出「仍可精確抽樣」的最大機率前綴，只近似切割點（MultinomialInt64）。
//
// 無論近似誤差多大，最後一個類別永遠吸收剩餘量，所以「加總 == N」對每一次試驗都嚴格成立。
//
// 使用方式：
//
//	s, _ := multinom.NewWithSeed(42)
//	xs, err := s.MultinomialInt64(1_000_000_000_000, []float64{0.2, 0.3, 0.5}, true)
//
// Sampler 持有亂數來源，不是 goroutine-safe；併發時請以 Fork 為每個 goroutine 派生獨立的 Sampler。
package multinom

import (
	"log/slog"

	"github.com/zintix-labs/multinom/config"
	"github.com/zintix-labs/multinom/errs"
	"github.com/zintix-labs/multinom/logger"
	"github.com/zintix-labs/multinom/sdk/core"
)

// Sampler 是抽樣入口：持有亂數把手、數值設定與 logger。
type Sampler struct {
	c   *core.Core
	cfg config.Config
	log *slog.Logger

	// 常態 / Poisson 近似被截斷到合法範圍的次數
	clamped uint64
}

// Option 調整 Sampler 的組裝參數
type Option func(*Sampler)

// WithConfig 指定數值設定；零值欄位會在 New 時補為預設值。
func WithConfig(cfg config.Config) Option {
	return func(s *Sampler) { s.cfg = cfg }
}

// WithLogger 注入 logger；nil 視為靜默。
func WithLogger(l *slog.Logger) Option {
	return func(s *Sampler) {
		if l != nil {
			s.log = l
		}
	}
}

// New 以既有的亂數把手建立 Sampler。
func New(c *core.Core, opts ...Option) (*Sampler, error) {
	if c == nil {
		return nil, errs.NewFatal("multinom: core is required")
	}
	s := &Sampler{
		c:   c,
		cfg: config.Default(),
		log: logger.Silent(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.cfg.Valid(); err != nil {
		return nil, errs.Wrap(err, "multinom: invalid config")
	}
	return s, nil
}

// NewWithSeed 以設定中的引擎（預設 pcg64）與指定 seed 建立 Sampler。
func NewWithSeed(seed int64, opts ...Option) (*Sampler, error) {
	probe := &Sampler{cfg: config.Default()}
	for _, opt := range opts {
		opt(probe)
	}
	if err := probe.cfg.Valid(); err != nil {
		return nil, errs.Wrap(err, "multinom: invalid config")
	}
	f, err := core.FactoryByName(probe.cfg.Engine)
	if err != nil {
		return nil, err
	}
	return New(core.NewWithSeed(f, seed), opts...)
}

// Fork 派生使用第 stream 條獨立亂數來源的 Sampler，設定與 logger 相同。
func (s *Sampler) Fork(stream uint64) *Sampler {
	return &Sampler{
		c:   s.c.Fork(stream),
		cfg: s.cfg,
		log: s.log.With("stream", stream),
	}
}

// Core 回傳亂數把手
func (s *Sampler) Core() *core.Core { return s.c }

// Config 回傳生效中的設定（已補齊預設值）
func (s *Sampler) Config() config.Config { return s.cfg }

// Clamped 回傳近似抽樣被截斷到 [0, n] 的累計次數。
func (s *Sampler) Clamped() uint64 { return s.clamped }

// clampCount 將近似抽樣的結果限制在 [0, hi]。
//
// 常態近似在極端尾端可能給出負數或超過剩餘量的計數；此時截斷並記錄一筆 WARN。
func (s *Sampler) clampCount(op string, x, hi int64) int64 {
	switch {
	case x < 0:
		s.clamped++
		s.log.Warn("approximate draw clamped", "op", op, "raw", x, "bound", int64(0))
		return 0
	case x > hi:
		s.clamped++
		s.log.Warn("approximate draw clamped", "op", op, "raw", x, "bound", hi)
		return hi
	}
	return x
}
