package qrng

import (
	"math"
	"testing"
)

func TestWidthValidate(t *testing.T) {
	for w := MinWidth; w <= MaxWidth; w++ {
		if err := Width(w).Validate(); err != nil {
			t.Errorf("width %d should be valid: %v", w, err)
		}
	}
	for _, w := range []int{-1, 0, 1, 9, 64} {
		if err := Width(w).Validate(); err == nil {
			t.Errorf("width %d should be rejected", w)
		}
	}
}

func TestWidthDerivedQuantities(t *testing.T) {
	cases := []struct {
		width  Width
		states int
		mean   float64
	}{
		{2, 4, 1.5},
		{3, 8, 3.5},
		{4, 16, 7.5},
		{8, 256, 127.5},
	}
	for _, tc := range cases {
		if got := tc.width.States(); got != tc.states {
			t.Errorf("width %d: States() = %d, want %d", tc.width, got, tc.states)
		}
		if got := tc.width.MaxValue(); got != tc.states-1 {
			t.Errorf("width %d: MaxValue() = %d, want %d", tc.width, got, tc.states-1)
		}
		if got := tc.width.TheoreticalMean(); math.Abs(got-tc.mean) > 1e-12 {
			t.Errorf("width %d: TheoreticalMean() = %f, want %f", tc.width, got, tc.mean)
		}
	}
}

func TestValidateSampleCount(t *testing.T) {
	for _, n := range []int{MinSampleCount, 500, 5000, MaxSampleCount} {
		if err := ValidateSampleCount(n); err != nil {
			t.Errorf("count %d should be valid: %v", n, err)
		}
	}
	for _, n := range []int{0, -1, MaxSampleCount + 1} {
		if err := ValidateSampleCount(n); err == nil {
			t.Errorf("count %d should be rejected", n)
		}
	}
}

func TestFrequencyTableTotals(t *testing.T) {
	table := FrequencyTable{Width: 2, Counts: []int{3, 0, 5, 2}}

	if got := table.Total(); got != 10 {
		t.Errorf("Total() = %d, want 10", got)
	}
	if got := table.NonzeroValues(); got != 3 {
		t.Errorf("NonzeroValues() = %d, want 3", got)
	}
}

func TestConsistentWithUniform(t *testing.T) {
	report := UniformityReport{PValue: 0.42}
	if !report.ConsistentWithUniform() {
		t.Error("p = 0.42 should be consistent with uniform")
	}
	report.PValue = 0.05
	if report.ConsistentWithUniform() {
		t.Error("p = 0.05 sits on the threshold and should not pass")
	}
	report.PValue = 0.0001
	if report.ConsistentWithUniform() {
		t.Error("p = 0.0001 should not be consistent with uniform")
	}
}
