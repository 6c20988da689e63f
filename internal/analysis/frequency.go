package analysis

import (
	"fmt"

	"qrnglab/domain/core"
	"qrnglab/domain/qrng"
)

// Aggregate reduces a sample set into per-value counts across the full
// value range. Values never drawn still get a zero entry so the
// chi-square degrees of freedom come out right.
func Aggregate(samples qrng.SampleSet) (qrng.FrequencyTable, error) {
	if err := samples.Width.Validate(); err != nil {
		return qrng.FrequencyTable{}, err
	}

	table := qrng.FrequencyTable{
		Width:  samples.Width,
		Counts: make([]int, samples.Width.States()),
	}
	for _, v := range samples.Values {
		if v < 0 || int(v) > samples.Width.MaxValue() {
			return qrng.FrequencyTable{}, fmt.Errorf("%w: sample %d outside [0, %d]",
				core.ErrTableMismatch, v, samples.Width.MaxValue())
		}
		table.Counts[v]++
	}
	return table, nil
}
