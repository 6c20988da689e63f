package app

import (
	"context"
	"time"

	"qrnglab/domain/core"
	"qrnglab/domain/qrng"
	"qrnglab/internal"
	"qrnglab/internal/analysis"
	"qrnglab/ports"
)

// PipelineService runs the full sampling-and-uniformity pipeline:
// collect -> aggregate -> analyze. One pass, no retries; either a
// complete result is produced or the run fails as a whole.
type PipelineService struct {
	collector *analysis.Collector
	runs      ports.RunRepository // optional, nil disables history
	logger    *internal.Logger
}

// RunResult bundles everything one run produces. SampleSet, table and
// report are owned by this run; nothing is shared across runs.
type RunResult struct {
	RunID    core.RunID            `json:"run_id"`
	Width    qrng.Width            `json:"width"`
	Source   string                `json:"source"`
	Samples  qrng.SampleSet        `json:"samples"`
	Table    qrng.FrequencyTable   `json:"table"`
	Report   qrng.UniformityReport `json:"report"`
	Duration time.Duration         `json:"duration_ns"`
}

// NewPipelineService creates the pipeline over a bit source. runs may
// be nil when no history store is configured.
func NewPipelineService(source ports.BitSource, runs ports.RunRepository) *PipelineService {
	return &PipelineService{
		collector: analysis.NewCollector(source),
		runs:      runs,
		logger:    internal.DefaultLogger,
	}
}

// Run executes one collect-and-analyze pass
func (s *PipelineService) Run(ctx context.Context, width qrng.Width, count int) (*RunResult, error) {
	start := time.Now()
	runID := core.NewRunID()

	samples, err := s.collector.Collect(ctx, width, count)
	if err != nil {
		return nil, err
	}

	table, err := analysis.Aggregate(samples)
	if err != nil {
		return nil, err
	}

	report, err := analysis.Analyze(samples, table)
	if err != nil {
		return nil, err
	}

	duration := time.Since(start)
	s.logger.Info("run %s: width=%d samples=%d chi2=%.4f p=%.4f (%.1fms)",
		runID, width, count, report.ChiSquare, report.PValue,
		float64(duration.Nanoseconds())/1e6)

	result := &RunResult{
		RunID:    runID,
		Width:    width,
		Source:   s.collector.Source(),
		Samples:  samples,
		Table:    table,
		Report:   report,
		Duration: duration,
	}

	// History is ancillary: a failed save never fails the run.
	if s.runs != nil {
		record := qrng.NewRunRecord(runID, result.Source, report, width, duration.Milliseconds())
		if err := s.runs.SaveRun(ctx, record); err != nil {
			s.logger.Warn("run %s: history save failed: %v", runID, err)
		}
	}

	return result, nil
}

// History lists recent run records, newest first. Returns nil without
// a configured repository.
func (s *PipelineService) History(ctx context.Context, limit int) ([]qrng.RunRecord, error) {
	if s.runs == nil {
		return nil, nil
	}
	return s.runs.ListRuns(ctx, limit)
}

// GetRun fetches one persisted run record
func (s *PipelineService) GetRun(ctx context.Context, id core.RunID) (*qrng.RunRecord, error) {
	if s.runs == nil {
		return nil, core.ErrRunNotFound
	}
	return s.runs.GetRun(ctx, id)
}
