package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"qrnglab/domain/core"
	"qrnglab/domain/qrng"
	"qrnglab/ports"

	"github.com/jmoiron/sqlx"
)

const schema = `
CREATE TABLE IF NOT EXISTS qrng_runs (
	id              TEXT PRIMARY KEY,
	width           INT NOT NULL,
	sample_count    INT NOT NULL,
	source          TEXT NOT NULL,
	mean            DOUBLE PRECISION NOT NULL,
	std_dev         DOUBLE PRECISION NOT NULL,
	min_value       INT NOT NULL,
	max_value       INT NOT NULL,
	unique_values   INT NOT NULL,
	chi_square      DOUBLE PRECISION NOT NULL,
	degrees_freedom INT NOT NULL,
	p_value         DOUBLE PRECISION NOT NULL,
	duration_ms     BIGINT NOT NULL,
	created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// RunRepositoryImpl implements ports.RunRepository for PostgreSQL
type RunRepositoryImpl struct {
	db *sqlx.DB
}

// NewRunRepository creates a PostgreSQL run repository, ensuring the
// schema exists
func NewRunRepository(db *sqlx.DB) (ports.RunRepository, error) {
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to ensure qrng_runs schema: %w", err)
	}
	return &RunRepositoryImpl{db: db}, nil
}

// SaveRun inserts one finished run summary
func (r *RunRepositoryImpl) SaveRun(ctx context.Context, record qrng.RunRecord) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO qrng_runs (id, width, sample_count, source, mean, std_dev, min_value, max_value,
			unique_values, chi_square, degrees_freedom, p_value, duration_ms, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`, record.ID.String(), record.Width, record.SampleCount, record.Source, record.Mean,
		record.StdDev, record.MinValue, record.MaxValue, record.UniqueValues,
		record.ChiSquare, record.DegreesFreedom, record.PValue, record.DurationMs,
		record.CreatedAt.Time())
	return err
}

// GetRun retrieves a run summary by ID
func (r *RunRepositoryImpl) GetRun(ctx context.Context, id core.RunID) (*qrng.RunRecord, error) {
	var row runRow
	err := r.db.GetContext(ctx, &row, `
		SELECT id, width, sample_count, source, mean, std_dev, min_value, max_value,
			unique_values, chi_square, degrees_freedom, p_value, duration_ms, created_at
		FROM qrng_runs
		WHERE id = $1
	`, id.String())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrRunNotFound
	}
	if err != nil {
		return nil, err
	}
	record := row.toRecord()
	return &record, nil
}

// ListRuns returns the most recent run summaries, newest first
func (r *RunRepositoryImpl) ListRuns(ctx context.Context, limit int) ([]qrng.RunRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	var rows []runRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT id, width, sample_count, source, mean, std_dev, min_value, max_value,
			unique_values, chi_square, degrees_freedom, p_value, duration_ms, created_at
		FROM qrng_runs
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	records := make([]qrng.RunRecord, len(rows))
	for i, row := range rows {
		records[i] = row.toRecord()
	}
	return records, nil
}

// runRow flattens the domain record for sqlx scanning
type runRow struct {
	ID             string       `db:"id"`
	Width          int          `db:"width"`
	SampleCount    int          `db:"sample_count"`
	Source         string       `db:"source"`
	Mean           float64      `db:"mean"`
	StdDev         float64      `db:"std_dev"`
	MinValue       int          `db:"min_value"`
	MaxValue       int          `db:"max_value"`
	UniqueValues   int          `db:"unique_values"`
	ChiSquare      float64      `db:"chi_square"`
	DegreesFreedom int          `db:"degrees_freedom"`
	PValue         float64      `db:"p_value"`
	DurationMs     int64        `db:"duration_ms"`
	CreatedAt      sql.NullTime `db:"created_at"`
}

func (row runRow) toRecord() qrng.RunRecord {
	record := qrng.RunRecord{
		ID:             core.RunID(row.ID),
		Width:          qrng.Width(row.Width),
		SampleCount:    row.SampleCount,
		Source:         row.Source,
		Mean:           row.Mean,
		StdDev:         row.StdDev,
		MinValue:       row.MinValue,
		MaxValue:       row.MaxValue,
		UniqueValues:   row.UniqueValues,
		ChiSquare:      row.ChiSquare,
		DegreesFreedom: row.DegreesFreedom,
		PValue:         row.PValue,
		DurationMs:     row.DurationMs,
	}
	if row.CreatedAt.Valid {
		record.CreatedAt = core.NewTimestamp(row.CreatedAt.Time)
	}
	return record
}
