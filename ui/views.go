package ui

import (
	"fmt"
	"html/template"
	"math"

	"qrnglab/adapters/quantum"
	"qrnglab/app"
	"qrnglab/domain/qrng"
)

// Chart canvas geometry shared by the histogram and CDF panels
const (
	chartWidth  = 520.0
	chartHeight = 300.0
	chartPad    = 36.0
)

// PageData feeds the index template
type PageData struct {
	MinWidth      int
	MaxWidth      int
	DefaultWidth  int
	MinSamples    int
	MaxSamples    int
	DefaultCount  int
	WidthOptions  []int
	Result        *ResultView
	Recent        []qrng.RunRecord
	Docs          template.HTML
	ErrorMessage  string
	HistoryActive bool
}

// ResultView is the render model for one finished run
type ResultView struct {
	RunID          string
	Source         string
	Width          int
	Report         qrng.UniformityReport
	UniformLabel   string
	UniformClass   string
	MeanDeviation  float64
	MeanDevPct     float64
	Histogram      HistogramView
	CDF            CDFView
	CircuitLines   []string
	CircuitSummary string
	Preview        []qrng.Sample
	DurationMs     int64
}

// HistogramView holds precomputed SVG geometry for the frequency chart
type HistogramView struct {
	Width     float64
	Height    float64
	Bars      []Bar
	ExpectedY float64
	MaxCount  int
}

// Bar is one SVG rect of the histogram
type Bar struct {
	X     float64
	Y     float64
	W     float64
	H     float64
	Value int
	Count int
}

// CDFView holds the empirical CDF polyline
type CDFView struct {
	Width  float64
	Height float64
	Points string
}

// newResultView precomputes everything the template needs, chart
// geometry included, so the HTML stays logic-free
func newResultView(result *app.RunResult) *ResultView {
	report := result.Report

	view := &ResultView{
		RunID:      result.RunID.String(),
		Source:     result.Source,
		Width:      int(result.Width),
		Report:     report,
		DurationMs: result.Duration.Milliseconds(),
	}

	if report.ConsistentWithUniform() {
		view.UniformLabel = "Consistent with uniform"
		view.UniformClass = "uniform"
	} else {
		view.UniformLabel = "Non-uniform"
		view.UniformClass = "non-uniform"
	}

	view.MeanDeviation = math.Abs(report.Mean - report.TheoreticalMean)
	if report.TheoreticalMean != 0 {
		view.MeanDevPct = view.MeanDeviation / report.TheoreticalMean * 100
	}

	view.Histogram = buildHistogram(result.Table, report.ExpectedFreq)
	view.CDF = buildCDF(result.Table, report.SampleSize)

	if circuit, err := quantum.NewCircuit(result.Width); err == nil {
		view.CircuitLines = circuit.Describe()
		view.CircuitSummary = circuit.Summary()
	}

	preview := result.Samples.Values
	if len(preview) > 50 {
		preview = preview[:50]
	}
	view.Preview = preview

	return view
}

func buildHistogram(table qrng.FrequencyTable, expected float64) HistogramView {
	states := len(table.Counts)
	maxCount := 0
	for _, c := range table.Counts {
		if c > maxCount {
			maxCount = c
		}
	}
	ceiling := math.Max(float64(maxCount), expected) * 1.1
	if ceiling == 0 {
		ceiling = 1
	}

	plotW := chartWidth - 2*chartPad
	plotH := chartHeight - 2*chartPad
	slot := plotW / float64(states)
	barW := slot * 0.8

	bars := make([]Bar, states)
	for value, count := range table.Counts {
		h := float64(count) / ceiling * plotH
		bars[value] = Bar{
			X:     chartPad + float64(value)*slot + (slot-barW)/2,
			Y:     chartHeight - chartPad - h,
			W:     barW,
			H:     h,
			Value: value,
			Count: count,
		}
	}

	return HistogramView{
		Width:     chartWidth,
		Height:    chartHeight,
		Bars:      bars,
		ExpectedY: chartHeight - chartPad - expected/ceiling*plotH,
		MaxCount:  maxCount,
	}
}

// buildCDF derives the empirical CDF from the frequency table; the
// discrete range keeps the polyline short regardless of sample count
func buildCDF(table qrng.FrequencyTable, total int) CDFView {
	if total == 0 {
		return CDFView{Width: chartWidth, Height: chartHeight}
	}

	states := len(table.Counts)
	plotW := chartWidth - 2*chartPad
	plotH := chartHeight - 2*chartPad

	points := fmt.Sprintf("%.1f,%.1f", chartPad, chartHeight-chartPad)
	cumulative := 0
	for value, count := range table.Counts {
		cumulative += count
		x := chartPad + (float64(value)+1)/float64(states)*plotW
		y := chartHeight - chartPad - float64(cumulative)/float64(total)*plotH
		points += fmt.Sprintf(" %.1f,%.1f", x, y)
	}

	return CDFView{
		Width:  chartWidth,
		Height: chartHeight,
		Points: points,
	}
}
