package analysis

import (
	"context"

	"qrnglab/domain/qrng"
	"qrnglab/ports"
)

// Collector assembles sample sets by repeatedly drawing from a bit
// source. Each draw is independent; a failed draw aborts the run with
// no partial sample set.
type Collector struct {
	source ports.BitSource
}

// NewCollector creates a collector over the given bit source
func NewCollector(source ports.BitSource) *Collector {
	return &Collector{source: source}
}

// Source returns the name of the underlying bit source
func (c *Collector) Source() string {
	return c.source.Name()
}

// Collect draws exactly count samples of the given width, in call
// order. The returned set always has length count and every value in
// [0, 2^n - 1], or the error from the first failed draw.
func (c *Collector) Collect(ctx context.Context, width qrng.Width, count int) (qrng.SampleSet, error) {
	if err := width.Validate(); err != nil {
		return qrng.SampleSet{}, err
	}
	if err := qrng.ValidateSampleCount(count); err != nil {
		return qrng.SampleSet{}, err
	}

	set := qrng.NewSampleSet(width, count)
	for i := 0; i < count; i++ {
		bits, err := c.source.Draw(ctx, width)
		if err != nil {
			return qrng.SampleSet{}, err
		}
		set.Values = append(set.Values, qrng.Sample(bits.Uint()))
	}
	return set, nil
}
