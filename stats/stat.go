package stats

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var lang language.Tag = language.English

// MomentReport 動差檢驗報告
type MomentReport struct {
	Summary *SummaryReport `json:"Summary"`
	Batch   *BatchReport   `json:"Batch"`
	isDone  bool
}

// SummaryReport 檢驗摘要
type SummaryReport struct {
	Variant      string    `json:"Variant" yaml:"Variant"`
	Categories   int       `json:"Categories" yaml:"Categories"`
	Trials       int       `json:"Trials" yaml:"Trials"`
	SampleSize   int       `json:"SampleSize" yaml:"SampleSize"`
	Batches      int       `json:"Batches" yaml:"Batches"`
	Alpha        float64   `json:"Alpha" yaml:"Alpha"`
	Draws        int       `json:"Draws" yaml:"Draws"`
	Passed       int       `json:"Passed" yaml:"Passed"`
	PassRate     PointStat `json:"PassRate" yaml:"PassRate"`
	MeanPMedian  PointStat `json:"MeanPMedian" yaml:"MeanPMedian"`
	VarPMedian   PointStat `json:"VarPMedian" yaml:"VarPMedian"`
	SkippedCells int       `json:"SkippedCells" yaml:"SkippedCells"`
	Violations   int       `json:"Violations" yaml:"Violations"`
	Clamped      uint64    `json:"Clamped" yaml:"Clamped"`
}

// BatchReport 每個批次的常態性檢定結果
//
// 檢定無法進行的批次（樣本不足、資料為常數）p 值記為 0，視為未通過
type BatchReport struct {
	MeanPValue []float64 `json:"MeanPValue" yaml:"MeanPValue"`
	VarPValue  []float64 `json:"VarPValue" yaml:"VarPValue"`
	Passed     []bool    `json:"Passed" yaml:"Passed"`
}

// ============================================================
// ** 公開方法 **
// ============================================================

// Done 由批次結果計算通過率與 p 值中位數（含 95% CI），只計算一次。
func (r *MomentReport) Done() {
	if r.isDone {
		return
	}
	passed := 0
	for _, ok := range r.Batch.Passed {
		if ok {
			passed++
		}
	}
	r.Summary.Passed = passed
	hat, ci := proportionCICP(passed, len(r.Batch.Passed), 0.95)
	r.Summary.PassRate = PointStat{Hat: hat, CI: ci}
	r.Summary.MeanPMedian = quantileStat(r.Batch.MeanPValue, 0.5, 0.95)
	r.Summary.VarPMedian = quantileStat(r.Batch.VarPValue, 0.5, 0.95)
	r.isDone = true
}

// PassRate 通過率（通過批次 / 總批次）
func (r *MomentReport) PassRate() float64 {
	r.Done()
	return r.Summary.PassRate.Hat
}

func (r *MomentReport) WriteWith(w io.Writer, rep MomentReportRender) error {
	r.Done()
	return rep.Write(w, r)
}

// StdOut 印出用時與摘要表
func (r *MomentReport) StdOut(ut time.Duration) {
	r.Done()
	formatDuration(ut, r.Summary.Draws)
	fmt.Println(r.Table())
}

// Table 摘要表字串
func (r *MomentReport) Table() string {
	r.Done()
	sk, sm := r.fmtBasic()
	return fmtTable(r.Summary.Variant, sk, sm)
}

// ============================================================
// ** 內部方法 **
// ============================================================

func formatDuration(d time.Duration, draws int) {
	p := message.NewPrinter(lang)
	if d < 0 {
		d = -d
	}
	sec := d.Seconds()
	if sec <= 0 {
		sec = 1e-9
	}
	dps := int(float64(draws) / sec)
	if sec < 60.0 {
		p.Printf("used: %.2f seconds\ndps : %d draws/sec\n", sec, dps)
		return
	}
	s := int(d.Seconds()) % 60
	m := int(d.Minutes()) % 60
	h := int(d.Hours())
	if h == 0 {
		p.Printf("used: %dm %ds\ndps : %d draws/sec\n", m, s, dps)
		return
	}
	p.Printf("used: %dh:%dm:%ds\ndps : %d draws/sec\n", h, m, s, dps)
}

func (r *MomentReport) fmtBasic() ([]string, map[string]string) {
	p := message.NewPrinter(lang)
	s := r.Summary
	basic := map[string]string{
		"Variant":       p.Sprintf("%s", s.Variant),
		"Categories":    p.Sprintf("%d", s.Categories),
		"Trials":        p.Sprintf("%d", s.Trials),
		"Sample Size":   p.Sprintf("%d", s.SampleSize),
		"Batches":       p.Sprintf("%d", s.Batches),
		"Total Draws":   p.Sprintf("%d", s.Draws),
		"Alpha":         p.Sprintf("%.3f", s.Alpha),
		"Passed":        p.Sprintf("%d", s.Passed),
		"Pass Rate":     fmtHatCIpct01(s.PassRate.Hat, s.PassRate.CI),
		"Mean p Median": fmtHatCI(s.MeanPMedian),
		"Var p Median":  fmtHatCI(s.VarPMedian),
		"Skipped Cells": p.Sprintf("%d", s.SkippedCells),
		"Violations":    p.Sprintf("%d", s.Violations),
		"Clamped":       p.Sprintf("%d", s.Clamped),
	}
	keys := []string{"Variant", "Categories", "Trials", "Sample Size", "Batches", "Total Draws", "Alpha", "Passed", "Pass Rate", "Mean p Median", "Var p Median", "Skipped Cells", "Violations", "Clamped"}
	return keys, basic
}

func fmtTable(title string, keys []string, msg map[string]string) string {
	p := message.NewPrinter(lang)
	maxKeyLen := 0
	maxValLen := 0
	for k, m := range msg {
		if w := runewidth.StringWidth(k); w > maxKeyLen {
			maxKeyLen = w
		}
		if w := runewidth.StringWidth(m); w > maxValLen {
			maxValLen = w
		}
	}
	maxKeyLen += 2
	maxValLen += 2

	totalInner := maxKeyLen + maxValLen + 1
	titleW := runewidth.StringWidth(title)
	if titleW > totalInner {
		maxValLen += titleW - totalInner
		totalInner = titleW
	}

	divider := "+" + strings.Repeat("-", maxKeyLen) + "+" + strings.Repeat("-", maxValLen) + "+\n"
	top := "+" + strings.Repeat("-", totalInner) + "+\n"

	left := (totalInner - titleW) / 2
	right := totalInner - titleW - left

	var b strings.Builder
	b.WriteString(top)
	b.WriteString(p.Sprintf("|%s%s%s|\n", blank(left), title, blank(right)))
	b.WriteString(divider)
	for _, k := range keys {
		b.WriteString(p.Sprintf("| %s%s | %s%s |\n", k, blank(maxKeyLen-2-runewidth.StringWidth(k)), msg[k], blank(maxValLen-2-runewidth.StringWidth(msg[k]))))
	}
	b.WriteString(divider)
	return b.String()
}

func blank(w int) string {
	if w < 1 {
		return ""
	}
	return strings.Repeat(" ", w)
}
