package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/shiftwise/payroll_engine/internal/core/domain"
)

// RunReader defines read operations for payroll run data
type RunReader interface {
	// FindRunByID retrieves a specific run by its unique identifier.
	FindRunByID(ctx context.Context, runID string) (*domain.PayrollRun, error)

	// FindRunByIDForUpdate retrieves a run within tx while holding a row-level
	// lock, serializing concurrent generation/edit of the same run.
	FindRunByIDForUpdate(ctx context.Context, tx pgx.Tx, runID string) (*domain.PayrollRun, error)

	// ListRuns retrieves a paginated list of runs using token-based pagination,
	// ordered by pay date then creation time. It returns the runs, a token for
	// the next page, and an error.
	ListRuns(ctx context.Context, limit int, nextToken *string) ([]domain.PayrollRun, *string, error)
}

// RunWriter defines write operations for payroll run data
type RunWriter interface {
	// SaveRun persists a new payroll run.
	SaveRun(ctx context.Context, run domain.PayrollRun) error

	// UpdateRun updates all mutable run fields (status, totals, provenance).
	UpdateRun(ctx context.Context, run domain.PayrollRun) error

	// UpdateRunInTx is UpdateRun inside an existing transaction.
	UpdateRunInTx(ctx context.Context, tx pgx.Tx, run domain.PayrollRun) error

	// DeleteRun removes a run together with its items and their deductions.
	// Callers must ensure the run is still in draft.
	DeleteRun(ctx context.Context, runID string) error
}

// RunRepositoryFacade combines all run-related repository interfaces
type RunRepositoryFacade interface {
	RunReader
	RunWriter
}

// RunRepositoryWithTx extends RunRepositoryFacade with transaction capabilities
type RunRepositoryWithTx interface {
	RunRepositoryFacade
	TransactionManager
}
