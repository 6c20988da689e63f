package qrng

import (
	"qrnglab/domain/core"
)

// Supported parameter bounds. Width is capped at 8 so the value range
// (2^n states) stays small enough to chart per-value frequencies.
const (
	MinWidth = 2
	MaxWidth = 8

	MinSampleCount = 1
	MaxSampleCount = 100000
)

// Width is the number of random bits drawn per sample
type Width int

// Validate checks the width against the supported range
func (w Width) Validate() error {
	if w < MinWidth || w > MaxWidth {
		return core.NewWidthError(int(w), MinWidth, MaxWidth)
	}
	return nil
}

// States returns the number of possible values, 2^n
func (w Width) States() int {
	return 1 << uint(w)
}

// MaxValue returns the largest representable sample, 2^n - 1
func (w Width) MaxValue() int {
	return w.States() - 1
}

// TheoreticalMean returns the mean of a uniform distribution over the range
func (w Width) TheoreticalMean() float64 {
	return float64(w.MaxValue()) / 2
}

// ValidateSampleCount checks a requested sample count against the bounds
func ValidateSampleCount(count int) error {
	if count < MinSampleCount || count > MaxSampleCount {
		return core.NewSampleCountError(count, MinSampleCount, MaxSampleCount)
	}
	return nil
}

// Sample is one n-bit draw converted to its unsigned decimal value
type Sample int

// SampleSet is an ordered sequence of samples collected at a single width.
// Order reflects draw order; analysis ignores it but the UI preview keeps it.
type SampleSet struct {
	Width  Width    `json:"width"`
	Values []Sample `json:"values"`
}

// NewSampleSet creates an empty sample set with capacity for count draws
func NewSampleSet(width Width, count int) SampleSet {
	return SampleSet{
		Width:  width,
		Values: make([]Sample, 0, count),
	}
}

// Len returns the number of samples
func (s SampleSet) Len() int {
	return len(s.Values)
}

// Float64s returns the sample values as float64 for the stats libraries
func (s SampleSet) Float64s() []float64 {
	out := make([]float64, len(s.Values))
	for i, v := range s.Values {
		out[i] = float64(v)
	}
	return out
}

// FrequencyTable maps every value in [0, 2^n - 1] to its observed count.
// Counts is dense: index == value, zero-count values included so the
// chi-square degrees of freedom stay correct.
type FrequencyTable struct {
	Width  Width `json:"width"`
	Counts []int `json:"counts"`
}

// Total returns the sum of all counts
func (t FrequencyTable) Total() int {
	total := 0
	for _, c := range t.Counts {
		total += c
	}
	return total
}

// NonzeroValues returns how many values were observed at least once
func (t FrequencyTable) NonzeroValues() int {
	n := 0
	for _, c := range t.Counts {
		if c > 0 {
			n++
		}
	}
	return n
}

// UniformityReport is the read-only summary of one analysis pass.
// StdDev is the population standard deviation (n denominator), matching
// the convention documented for this pipeline. Computed once per sample
// set and never mutated.
type UniformityReport struct {
	SampleSize      int     `json:"sample_size"`
	Mean            float64 `json:"mean"`
	TheoreticalMean float64 `json:"theoretical_mean"`
	StdDev          float64 `json:"std_dev"`
	Min             int     `json:"min"`
	Max             int     `json:"max"`
	UniqueValues    int     `json:"unique_values"`
	PossibleValues  int     `json:"possible_values"`
	ExpectedFreq    float64 `json:"expected_freq"`
	ChiSquare       float64 `json:"chi_square"`
	DegreesFreedom  int     `json:"degrees_freedom"`
	PValue          float64 `json:"p_value"`
}

// ConsistentWithUniform applies the conventional p > 0.05 reading.
// Reporting convention only; nothing in the pipeline gates on it.
func (r UniformityReport) ConsistentWithUniform() bool {
	return r.PValue > 0.05
}
