package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shiftwise/payroll_engine/internal/apperrors"
	"github.com/shiftwise/payroll_engine/internal/core/domain"
	portsrepo "github.com/shiftwise/payroll_engine/internal/core/ports/repositories"
	"github.com/shiftwise/payroll_engine/internal/models"
	"github.com/shiftwise/payroll_engine/internal/utils/mapping"
	"github.com/shiftwise/payroll_engine/internal/utils/pagination"
)

const runColumns = `run_id, reference_code, period_start, period_end, pay_date, currency_code, status,
	total_workers, total_shifts, gross_amount, total_deductions, total_taxes, net_amount,
	approver_id, approved_at, processed_at,
	created_at, created_by, last_updated_at, last_updated_by`

// PgxRunRepository implements run persistence using pgx.
type PgxRunRepository struct {
	BaseRepository
}

// NewPgxRunRepository creates a new PgxRunRepository.
func NewPgxRunRepository(pool *pgxpool.Pool) *PgxRunRepository {
	return &PgxRunRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.RunRepositoryWithTx = (*PgxRunRepository)(nil)

// SaveRun persists a new payroll run.
func (r *PgxRunRepository) SaveRun(ctx context.Context, run domain.PayrollRun) error {
	model := mapping.ToModelPayrollRun(run)
	query := `
		INSERT INTO payroll_runs (` + runColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20);
	`
	_, err := r.Pool.Exec(ctx, query,
		model.RunID,
		model.ReferenceCode,
		model.PeriodStart,
		model.PeriodEnd,
		model.PayDate,
		model.CurrencyCode,
		model.Status,
		model.TotalWorkers,
		model.TotalShifts,
		model.GrossAmount,
		model.TotalDeductions,
		model.TotalTaxes,
		model.NetAmount,
		model.ApproverID,
		model.ApprovedAt,
		model.ProcessedAt,
		model.CreatedAt,
		model.CreatedBy,
		model.LastUpdatedAt,
		model.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: run reference %s", apperrors.ErrDuplicate, run.ReferenceCode)
		}
		return fmt.Errorf("failed to insert payroll run %s: %w", run.RunID, err)
	}
	return nil
}

// FindRunByID retrieves a specific run by its unique identifier.
func (r *PgxRunRepository) FindRunByID(ctx context.Context, runID string) (*domain.PayrollRun, error) {
	query := `SELECT ` + runColumns + ` FROM payroll_runs WHERE run_id = $1;`
	return r.scanRunRow(r.Pool.QueryRow(ctx, query, runID), runID)
}

// FindRunByIDForUpdate retrieves a run within tx while holding a row lock.
func (r *PgxRunRepository) FindRunByIDForUpdate(ctx context.Context, tx pgx.Tx, runID string) (*domain.PayrollRun, error) {
	query := `SELECT ` + runColumns + ` FROM payroll_runs WHERE run_id = $1 FOR UPDATE;`
	return r.scanRunRow(tx.QueryRow(ctx, query, runID), runID)
}

// ListRuns retrieves a paginated list of runs ordered by pay date descending
// then creation time descending, using token-based keyset pagination.
func (r *PgxRunRepository) ListRuns(ctx context.Context, limit int, nextToken *string) ([]domain.PayrollRun, *string, error) {
	args := []interface{}{}
	query := `SELECT ` + runColumns + ` FROM payroll_runs`

	if nextToken != nil && *nextToken != "" {
		payDate, createdAt, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: invalid pagination token: %w", apperrors.ErrValidation, err)
		}
		query += ` WHERE (pay_date, created_at) < ($1, $2)`
		args = append(args, payDate, createdAt)
	}

	// Fetch one extra row to detect whether another page exists.
	args = append(args, limit+1)
	query += fmt.Sprintf(` ORDER BY pay_date DESC, created_at DESC LIMIT $%d;`, len(args))

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query payroll runs: %w", err)
	}
	defer rows.Close()

	runs := []domain.PayrollRun{}
	for rows.Next() {
		model, err := scanRun(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan payroll run row: %w", err)
		}
		runs = append(runs, mapping.ToDomainPayrollRun(model))
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to iterate payroll run rows: %w", err)
	}

	var token *string
	if len(runs) > limit {
		runs = runs[:limit]
		last := runs[len(runs)-1]
		encoded := pagination.EncodeToken(last.PayDate, last.CreatedAt)
		token = &encoded
	}
	return runs, token, nil
}

// UpdateRun updates all mutable run fields.
func (r *PgxRunRepository) UpdateRun(ctx context.Context, run domain.PayrollRun) error {
	return r.updateRun(ctx, r.Pool, run)
}

// UpdateRunInTx is UpdateRun inside an existing transaction.
func (r *PgxRunRepository) UpdateRunInTx(ctx context.Context, tx pgx.Tx, run domain.PayrollRun) error {
	return r.updateRun(ctx, tx, run)
}

type execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

func (r *PgxRunRepository) updateRun(ctx context.Context, db execer, run domain.PayrollRun) error {
	model := mapping.ToModelPayrollRun(run)
	query := `
		UPDATE payroll_runs SET
			status = $2,
			total_workers = $3,
			total_shifts = $4,
			gross_amount = $5,
			total_deductions = $6,
			total_taxes = $7,
			net_amount = $8,
			approver_id = $9,
			approved_at = $10,
			processed_at = $11,
			last_updated_at = $12,
			last_updated_by = $13
		WHERE run_id = $1;
	`
	tag, err := db.Exec(ctx, query,
		model.RunID,
		model.Status,
		model.TotalWorkers,
		model.TotalShifts,
		model.GrossAmount,
		model.TotalDeductions,
		model.TotalTaxes,
		model.NetAmount,
		model.ApproverID,
		model.ApprovedAt,
		model.ProcessedAt,
		model.LastUpdatedAt,
		model.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update payroll run %s: %w", run.RunID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteRun removes a run together with its items and their deductions.
func (r *PgxRunRepository) DeleteRun(ctx context.Context, runID string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	deductionQuery := `
		DELETE FROM payroll_deductions
		WHERE item_id IN (SELECT item_id FROM payroll_items WHERE run_id = $1);
	`
	if _, err := tx.Exec(ctx, deductionQuery, runID); err != nil {
		return fmt.Errorf("failed to delete deductions for run %s: %w", runID, err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM payroll_items WHERE run_id = $1;`, runID); err != nil {
		return fmt.Errorf("failed to delete items for run %s: %w", runID, err)
	}
	tag, err := tx.Exec(ctx, `DELETE FROM payroll_runs WHERE run_id = $1;`, runID)
	if err != nil {
		return fmt.Errorf("failed to delete payroll run %s: %w", runID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return r.Commit(ctx, tx)
}

func (r *PgxRunRepository) scanRunRow(row pgx.Row, runID string) (*domain.PayrollRun, error) {
	model, err := scanRun(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: run %s", apperrors.ErrNotFound, runID)
		}
		return nil, fmt.Errorf("failed to find payroll run %s: %w", runID, err)
	}
	run := mapping.ToDomainPayrollRun(model)
	return &run, nil
}

func scanRun(row pgx.Row) (models.PayrollRun, error) {
	var m models.PayrollRun
	err := row.Scan(
		&m.RunID,
		&m.ReferenceCode,
		&m.PeriodStart,
		&m.PeriodEnd,
		&m.PayDate,
		&m.CurrencyCode,
		&m.Status,
		&m.TotalWorkers,
		&m.TotalShifts,
		&m.GrossAmount,
		&m.TotalDeductions,
		&m.TotalTaxes,
		&m.NetAmount,
		&m.ApproverID,
		&m.ApprovedAt,
		&m.ProcessedAt,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}
