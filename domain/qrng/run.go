package qrng

import (
	"qrnglab/domain/core"
)

// RunRecord is the persisted summary of one collect-and-analyze run.
// Raw samples are not stored; the record is what the history views and
// the API list endpoints serve.
type RunRecord struct {
	ID             core.RunID     `db:"id" json:"id"`
	Width          Width          `db:"width" json:"width"`
	SampleCount    int            `db:"sample_count" json:"sample_count"`
	Source         string         `db:"source" json:"source"`
	Mean           float64        `db:"mean" json:"mean"`
	StdDev         float64        `db:"std_dev" json:"std_dev"`
	MinValue       int            `db:"min_value" json:"min_value"`
	MaxValue       int            `db:"max_value" json:"max_value"`
	UniqueValues   int            `db:"unique_values" json:"unique_values"`
	ChiSquare      float64        `db:"chi_square" json:"chi_square"`
	DegreesFreedom int            `db:"degrees_freedom" json:"degrees_freedom"`
	PValue         float64        `db:"p_value" json:"p_value"`
	DurationMs     int64          `db:"duration_ms" json:"duration_ms"`
	CreatedAt      core.Timestamp `db:"created_at" json:"created_at"`
}

// NewRunRecord builds a record from a finished run
func NewRunRecord(id core.RunID, source string, report UniformityReport, width Width, durationMs int64) RunRecord {
	return RunRecord{
		ID:             id,
		Width:          width,
		SampleCount:    report.SampleSize,
		Source:         source,
		Mean:           report.Mean,
		StdDev:         report.StdDev,
		MinValue:       report.Min,
		MaxValue:       report.Max,
		UniqueValues:   report.UniqueValues,
		ChiSquare:      report.ChiSquare,
		DegreesFreedom: report.DegreesFreedom,
		PValue:         report.PValue,
		DurationMs:     durationMs,
		CreatedAt:      core.Now(),
	}
}
