package app

import (
	"context"
	"sort"

	"qrnglab/domain/qrng"
	"qrnglab/ports"

	"golang.org/x/sync/errgroup"
)

// SweepService runs the pipeline at several widths concurrently. Each
// width gets its own pipeline instance so no table or report is
// aliased across runs.
type SweepService struct {
	source ports.BitSource
	runs   ports.RunRepository
}

// NewSweepService creates a sweep service over a shared bit source
func NewSweepService(source ports.BitSource, runs ports.RunRepository) *SweepService {
	return &SweepService{source: source, runs: runs}
}

// Sweep collects and analyzes count samples at every requested width.
// All-or-nothing: the first failing width cancels the rest and the
// sweep returns only the error.
func (s *SweepService) Sweep(ctx context.Context, widths []qrng.Width, count int) ([]*RunResult, error) {
	for _, w := range widths {
		if err := w.Validate(); err != nil {
			return nil, err
		}
	}
	if err := qrng.ValidateSampleCount(count); err != nil {
		return nil, err
	}

	results := make([]*RunResult, len(widths))
	g, gctx := errgroup.WithContext(ctx)
	for i, width := range widths {
		g.Go(func() error {
			pipeline := NewPipelineService(s.source, s.runs)
			result, err := pipeline.Run(gctx, width, count)
			if err != nil {
				return err
			}
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Width < results[j].Width
	})
	return results, nil
}
