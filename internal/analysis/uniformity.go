package analysis

import (
	"fmt"

	"qrnglab/domain/core"
	"qrnglab/domain/qrng"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat/distuv"
)

// Analyze computes descriptive statistics and the chi-square
// goodness-of-fit test against the uniform distribution.
//
// StdDev is the population standard deviation (n denominator). The
// p-value is the upper-tail probability of the chi-square statistic
// with 2^n - 1 degrees of freedom. The p-value is reported, never
// enforced: a non-uniform sample set is a valid result.
func Analyze(samples qrng.SampleSet, table qrng.FrequencyTable) (qrng.UniformityReport, error) {
	if samples.Len() == 0 {
		return qrng.UniformityReport{}, core.ErrEmptySampleSet
	}
	if err := samples.Width.Validate(); err != nil {
		return qrng.UniformityReport{}, err
	}
	if table.Width != samples.Width || len(table.Counts) != samples.Width.States() {
		return qrng.UniformityReport{}, fmt.Errorf("%w: table has %d entries, width %d needs %d",
			core.ErrTableMismatch, len(table.Counts), samples.Width, samples.Width.States())
	}
	if table.Total() != samples.Len() {
		return qrng.UniformityReport{}, fmt.Errorf("%w: table total %d != sample count %d",
			core.ErrTableMismatch, table.Total(), samples.Len())
	}

	data := samples.Float64s()

	mean, err := stats.Mean(data)
	if err != nil {
		return qrng.UniformityReport{}, err
	}
	stdDev, err := stats.StandardDeviationPopulation(data)
	if err != nil {
		return qrng.UniformityReport{}, err
	}
	minVal, err := stats.Min(data)
	if err != nil {
		return qrng.UniformityReport{}, err
	}
	maxVal, err := stats.Max(data)
	if err != nil {
		return qrng.UniformityReport{}, err
	}

	states := samples.Width.States()
	expected := float64(samples.Len()) / float64(states)

	// Every value has a table entry and |samples| > 0, so expected > 0
	// and no division-by-zero case arises.
	chiSquare := 0.0
	for _, count := range table.Counts {
		diff := float64(count) - expected
		chiSquare += diff * diff / expected
	}

	df := states - 1
	chiDist := distuv.ChiSquared{K: float64(df)}
	pValue := chiDist.Survival(chiSquare)

	return qrng.UniformityReport{
		SampleSize:      samples.Len(),
		Mean:            mean,
		TheoreticalMean: samples.Width.TheoreticalMean(),
		StdDev:          stdDev,
		Min:             int(minVal),
		Max:             int(maxVal),
		UniqueValues:    table.NonzeroValues(),
		PossibleValues:  states,
		ExpectedFreq:    expected,
		ChiSquare:       chiSquare,
		DegreesFreedom:  df,
		PValue:          pValue,
	}, nil
}
