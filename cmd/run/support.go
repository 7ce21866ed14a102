package main

import (
	"crypto/rand"
	"flag"
	"log"
	"math"
	"math/big"
	"os"
	"strconv"
	"strings"

	"github.com/zintix-labs/multinom"
	"github.com/zintix-labs/multinom/config"
	"github.com/zintix-labs/multinom/errs"
	"github.com/zintix-labs/multinom/logger"
	"github.com/zintix-labs/multinom/nd"
	"github.com/zintix-labs/multinom/stats"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	variantArray   = "array"
	variantArray64 = "array64"
	variantScalar  = "scalar"
)

var cfg *runConfig = new(runConfig)

type runConfig struct {
	variant   string
	n         string
	p         string
	samples   int
	batches   int
	alpha     float64
	seed      int64
	cfgPath   string
	out       string
	logmode   string
	pprofmode string
}

func bindVar() {
	// 綁定 Flag 到本地變數的指標 (&)
	flag.StringVar(&cfg.variant, "variant", variantArray64, "sampler: array, array64, scalar")
	flag.StringVar(&cfg.n, "n", "500,1000000000000", "trial counts, comma separated (one value for scalar)")
	flag.StringVar(&cfg.p, "p", "0.3,0.3;0.7,0.7", "probabilities: ';' between categories, ',' between trials (scalar: one comma list)")
	flag.IntVar(&cfg.samples, "samples", 1000, "draws per batch")
	flag.IntVar(&cfg.batches, "batches", 100, "number of batches")
	flag.Float64Var(&cfg.alpha, "alpha", 0.05, "normality test significance level")
	flag.Int64Var(&cfg.seed, "seed", -1, "int64 seed for random number generator")
	flag.StringVar(&cfg.cfgPath, "cfg", "", "sampler config file (yaml or json)")
	flag.StringVar(&cfg.out, "out", "", "report output path: .yaml, .json, optional .zst suffix")
	flag.StringVar(&cfg.logmode, "log", "prod", "log mode: dev, prod, silence")
	flag.StringVar(&cfg.pprofmode, "pprof", "", "pprof: '', cpu, heap, allocs")

	flag.Parse()

	// given seed illeagel -> default seed
	if cfg.seed < 1 {
		seed, err := rand.Int(rand.Reader, big.NewInt(math.MaxInt64))
		if err != nil {
			log.Fatal(err)
		}
		cfg.seed = seed.Int64()
	}
}

// 這裡解析參數並分支要檢驗的抽樣器
func executeEvaluation() error {
	if err := cfg.valid(); err != nil {
		return err
	}
	mode, err := logger.ParseMode(cfg.logmode)
	if err != nil {
		return err
	}
	conf, err := loadConfig(cfg.cfgPath)
	if err != nil {
		return err
	}
	s, err := multinom.NewWithSeed(cfg.seed,
		multinom.WithConfig(conf),
		multinom.WithLogger(logger.NewDefaultLogger(mode)),
	)
	if err != nil {
		return err
	}

	draw, layout, err := buildDraw(s, cfg.variant, cfg.n, cfg.p)
	if err != nil {
		return err
	}

	// 至此確保可執行
	green := "\033[1;32m"
	reset := "\033[0m"
	p := message.NewPrinter(language.English)
	p.Printf("%s[VARIANT:%s] [ENGINE:%s] [SEED:%d] [K:%d M:%d] [SAMPLES:%d x %d]%s\n",
		green, cfg.variant, s.Core().Engine(), cfg.seed, layout.Categories(), layout.Trials(), cfg.samples, cfg.batches, reset)

	rep, used, err := stats.Evaluate(draw, layout, cfg.samples, cfg.batches, cfg.alpha, true)
	if err != nil {
		return err
	}
	rep.Summary.Variant = cfg.variant
	rep.Summary.Clamped = s.Clamped()
	rep.StdOut(used)

	if cfg.out != "" {
		if err := stats.SaveReport(cfg.out, rep); err != nil {
			return err
		}
		p.Printf("report saved: %s\n", cfg.out)
	}
	if rep.Summary.Violations > 0 {
		return errs.Fatalf("conservation violated %d times", rep.Summary.Violations)
	}
	return nil
}

func (c *runConfig) valid() error {
	switch c.variant {
	case variantArray, variantArray64, variantScalar:
	default:
		return errs.Warnf("value err : unknown variant %q", c.variant)
	}
	if c.samples < 4 {
		return errs.NewWarn("value err : samples must >= 4")
	}
	if c.batches < 1 {
		return errs.NewWarn("value err : batches must > 0")
	}
	if !(c.alpha > 0 && c.alpha < 1) {
		return errs.NewWarn("value err : alpha must be in (0,1)")
	}
	return nil
}

func loadConfig(path string) (config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return config.Config{}, errs.Wrap(err, "read config file")
	}
	return config.Load(data)
}

// buildDraw 解析 -n / -p，回傳對應抽樣器的 DrawFunc 與攤平後的 Layout
func buildDraw(s *multinom.Sampler, variant, nFlag, pFlag string) (stats.DrawFunc, stats.Layout, error) {
	ns, err := parseCounts(nFlag)
	if err != nil {
		return nil, stats.Layout{}, err
	}

	if variant == variantScalar {
		if len(ns) != 1 {
			return nil, stats.Layout{}, errs.Warnf("value err : scalar variant takes one trial count, got %d", len(ns))
		}
		ps, err := parseFloats(pFlag)
		if err != nil {
			return nil, stats.Layout{}, err
		}
		pa, err := nd.FromSlice(ps, len(ps))
		if err != nil {
			return nil, stats.Layout{}, err
		}
		if err := multinom.CheckWithTolerance(nd.Scalar(ns[0]), pa, s.Config().SumTolerance); err != nil {
			return nil, stats.Layout{}, err
		}
		draw := func() ([]int64, error) { return s.MultinomialInt64(ns[0], ps, false) }
		return draw, stats.Layout{N: ns, Pis: ps}, nil
	}

	pis, err := parseMatrix(pFlag, len(ns))
	if err != nil {
		return nil, stats.Layout{}, err
	}
	layout := stats.Layout{N: ns, Pis: pis.Data()}

	if variant == variantArray64 {
		n := nd.Vector(ns)
		if err := multinom.CheckWithTolerance(n, pis, s.Config().SumTolerance); err != nil {
			return nil, stats.Layout{}, err
		}
		draw := func() ([]int64, error) {
			xs, err := s.ArrayMultinomialInt64(n, pis, false)
			if err != nil {
				return nil, err
			}
			return xs.Data(), nil
		}
		return draw, layout, nil
	}

	n32 := make([]int32, len(ns))
	for j, v := range ns {
		if v > math.MaxInt32 {
			return nil, stats.Layout{}, errs.Warnf("value err : array variant needs N <= %d, got %d (use array64)", math.MaxInt32, v)
		}
		n32[j] = int32(v)
	}
	n := nd.Vector(n32)
	if err := multinom.CheckWithTolerance(n, pis, s.Config().SumTolerance); err != nil {
		return nil, stats.Layout{}, err
	}
	out := make([]int64, pis.Size())
	draw := func() ([]int64, error) {
		xs, err := s.ArrayMultinomial(n, pis, false)
		if err != nil {
			return nil, err
		}
		for i, x := range xs.Data() {
			out[i] = int64(x)
		}
		return out, nil
	}
	return draw, layout, nil
}

// parseCounts 解析逗號分隔的試驗次數，接受 1e12 這類科學記號（必須是非負整數）
func parseCounts(s string) ([]int64, error) {
	fields := splitList(s, ",")
	if len(fields) == 0 {
		return nil, errs.NewWarn("value err : -n is empty")
	}
	out := make([]int64, len(fields))
	for i, f := range fields {
		if v, err := strconv.ParseInt(f, 10, 64); err == nil {
			out[i] = v
		} else {
			x, ferr := strconv.ParseFloat(f, 64)
			if ferr != nil || x != math.Trunc(x) || x >= math.MaxInt64 {
				return nil, errs.Warnf("value err : bad trial count %q", f)
			}
			out[i] = int64(x)
		}
		if out[i] < 0 {
			return nil, errs.Warnf("value err : trial count must >= 0, got %d", out[i])
		}
	}
	return out, nil
}

func parseFloats(s string) ([]float64, error) {
	fields := splitList(s, ",")
	if len(fields) == 0 {
		return nil, errs.NewWarn("value err : -p is empty")
	}
	out := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, errs.Warnf("value err : bad probability %q", f)
		}
		out[i] = v
	}
	return out, nil
}

// parseMatrix 解析 "p00,p01;p10,p11"：每個 ';' 區段是一個類別，區段內每個 ',' 對應一個試驗。
// 區段只有一個值時廣播到所有試驗。
func parseMatrix(s string, m int) (*nd.Array[float64], error) {
	rows := splitList(s, ";")
	if len(rows) == 0 {
		return nil, errs.NewWarn("value err : -p is empty")
	}
	out := nd.Zeros[float64](len(rows), m)
	for i, row := range rows {
		vs, err := parseFloats(row)
		if err != nil {
			return nil, err
		}
		switch len(vs) {
		case 1:
			for j := range out.Row(i) {
				out.Row(i)[j] = vs[0]
			}
		case m:
			copy(out.Row(i), vs)
		default:
			return nil, errs.ShapeMismatchf("value err : category %d has %d probabilities for %d trials", i, len(vs), m)
		}
	}
	return out, nil
}

func splitList(s, sep string) []string {
	var out []string
	for _, f := range strings.Split(s, sep) {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
