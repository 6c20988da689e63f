package ports

import (
	"context"

	"qrnglab/domain/core"
	"qrnglab/domain/qrng"
)

// RunRepository persists run summaries for the history views.
// Implementations must not share mutable state across runs; each record
// is written once and never updated.
type RunRepository interface {
	SaveRun(ctx context.Context, record qrng.RunRecord) error
	GetRun(ctx context.Context, id core.RunID) (*qrng.RunRecord, error)
	ListRuns(ctx context.Context, limit int) ([]qrng.RunRecord, error)
}
