package analysis

import (
	"context"
	"errors"
	"testing"

	"qrnglab/domain/core"
	"qrnglab/domain/qrng"
	"qrnglab/internal/testkit"
	"qrnglab/ports"
)

// collectWith is the shared fixture for the aggregation and analysis
// tests
func collectWith(t *testing.T, source ports.BitSource, width qrng.Width, count int) qrng.SampleSet {
	t.Helper()
	set, err := NewCollector(source).Collect(context.Background(), width, count)
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}
	return set
}

func TestCollect_LengthAndRange(t *testing.T) {
	collector := NewCollector(testkit.NewSeededSource(7))

	for width := qrng.MinWidth; width <= qrng.MaxWidth; width++ {
		w := qrng.Width(width)
		set, err := collector.Collect(context.Background(), w, 500)
		if err != nil {
			t.Fatalf("Collect failed for width %d: %v", width, err)
		}

		if set.Len() != 500 {
			t.Errorf("width %d: got %d samples, want 500", width, set.Len())
		}
		for i, v := range set.Values {
			if v < 0 || int(v) > w.MaxValue() {
				t.Fatalf("width %d: sample %d = %d outside [0, %d]", width, i, v, w.MaxValue())
			}
		}
	}
}

func TestCollect_RejectsInvalidWidth(t *testing.T) {
	collector := NewCollector(testkit.NewSeededSource(1))

	for _, width := range []int{0, 1, 9, -3} {
		_, err := collector.Collect(context.Background(), qrng.Width(width), 10)
		if !errors.Is(err, core.ErrInvalidWidth) {
			t.Errorf("width %d: expected ErrInvalidWidth, got %v", width, err)
		}
	}
}

func TestCollect_RejectsInvalidCount(t *testing.T) {
	collector := NewCollector(testkit.NewSeededSource(1))

	for _, count := range []int{0, -1, qrng.MaxSampleCount + 1} {
		_, err := collector.Collect(context.Background(), 4, count)
		if !errors.Is(err, core.ErrInvalidSampleCount) {
			t.Errorf("count %d: expected ErrInvalidSampleCount, got %v", count, err)
		}
	}
}

func TestCollect_SourceFailureAbortsRun(t *testing.T) {
	// Source dies after 5 draws; no partial sample set may escape
	collector := NewCollector(testkit.NewFailingSource(5))

	set, err := collector.Collect(context.Background(), 4, 100)
	if err == nil {
		t.Fatal("expected failure when the source dies mid-run")
	}
	if !core.IsSourceFailure(err) {
		t.Errorf("expected SourceFailure classification, got %v", err)
	}
	if !errors.Is(err, testkit.ErrBackendDown) {
		t.Errorf("expected the backend error to propagate unmodified, got %v", err)
	}
	if set.Len() != 0 {
		t.Errorf("expected no partial sample set, got %d samples", set.Len())
	}
}

func TestCollect_PreservesDrawOrder(t *testing.T) {
	source := &testkit.FixedSequenceSource{Values: []uint64{3, 1, 2, 0}}
	collector := NewCollector(source)

	set, err := collector.Collect(context.Background(), 2, 8)
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}

	want := []qrng.Sample{3, 1, 2, 0, 3, 1, 2, 0}
	for i, v := range set.Values {
		if v != want[i] {
			t.Fatalf("position %d: got %d, want %d", i, v, want[i])
		}
	}
}
