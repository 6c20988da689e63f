package testkit

import (
	"context"
	"errors"
	"math/rand"
	"sync"

	"qrnglab/domain/core"
	"qrnglab/domain/qrng"
	"qrnglab/ports"
)

// SeededSource is a deterministic fair-bit source over math/rand.
// It substitutes for the quantum simulator in tests and demo runs so
// the statistical pipeline can be exercised with reproducible draws.
type SeededSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSeededSource creates a deterministic source from a seed
func NewSeededSource(seed int64) *SeededSource {
	return &SeededSource{rng: rand.New(rand.NewSource(seed))}
}

// Name identifies the source in logs and run records
func (s *SeededSource) Name() string {
	return "seeded"
}

// Draw produces one uniform n-bit value from the seeded stream
func (s *SeededSource) Draw(ctx context.Context, width qrng.Width) (ports.Bits, error) {
	if err := width.Validate(); err != nil {
		return ports.Bits{}, err
	}
	s.mu.Lock()
	value := uint64(s.rng.Intn(width.States()))
	s.mu.Unlock()
	return ports.Bits{Width: width, Value: value}, nil
}

// ConstantSource always returns the same value. Used to drive the
// analyzer into its strongly non-uniform regime.
type ConstantSource struct {
	Value uint64
}

func (s *ConstantSource) Name() string { return "constant" }

func (s *ConstantSource) Draw(ctx context.Context, width qrng.Width) (ports.Bits, error) {
	if err := width.Validate(); err != nil {
		return ports.Bits{}, err
	}
	return ports.Bits{Width: width, Value: s.Value & uint64(width.MaxValue())}, nil
}

// ErrBackendDown is the failure injected by FailingSource
var ErrBackendDown = errors.New("backend unavailable")

// FailingSource succeeds for the first Succeed draws, then fails every
// call. Exercises the no-partial-results guarantee.
type FailingSource struct {
	Succeed int
	calls   int
	inner   *SeededSource
}

// NewFailingSource creates a source that fails after n successful draws
func NewFailingSource(succeed int) *FailingSource {
	return &FailingSource{Succeed: succeed, inner: NewSeededSource(1)}
}

func (s *FailingSource) Name() string { return "failing" }

func (s *FailingSource) Draw(ctx context.Context, width qrng.Width) (ports.Bits, error) {
	s.calls++
	if s.calls > s.Succeed {
		return ports.Bits{}, core.NewSourceError("failing", ErrBackendDown)
	}
	return s.inner.Draw(ctx, width)
}

// FixedSequenceSource replays a fixed list of values, cycling when
// exhausted. Used for the closed-form scenario tests.
type FixedSequenceSource struct {
	Values []uint64
	next   int
}

func (s *FixedSequenceSource) Name() string { return "fixed" }

func (s *FixedSequenceSource) Draw(ctx context.Context, width qrng.Width) (ports.Bits, error) {
	if err := width.Validate(); err != nil {
		return ports.Bits{}, err
	}
	if len(s.Values) == 0 {
		return ports.Bits{}, core.NewSourceError("fixed", errors.New("no values configured"))
	}
	v := s.Values[s.next%len(s.Values)]
	s.next++
	return ports.Bits{Width: width, Value: v & uint64(width.MaxValue())}, nil
}

// SampleSetOf builds a sample set directly from literal values
func SampleSetOf(width qrng.Width, values ...int) qrng.SampleSet {
	set := qrng.NewSampleSet(width, len(values))
	for _, v := range values {
		set.Values = append(set.Values, qrng.Sample(v))
	}
	return set
}
