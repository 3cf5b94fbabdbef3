package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shiftwise/payroll_engine/internal/apperrors"
	"github.com/shiftwise/payroll_engine/internal/core/domain"
	portsrepo "github.com/shiftwise/payroll_engine/internal/core/ports/repositories"
	"github.com/shiftwise/payroll_engine/internal/models"
	"github.com/shiftwise/payroll_engine/internal/utils/mapping"
)

const itemColumns = `item_id, run_id, worker_id, shift_id, assignment_id, item_type, status, description,
	hours, rate, gross_amount, deduction_total, tax_withheld, net_amount,
	transfer_id, payment_reference, paid_at, failure_reason,
	created_at, created_by, last_updated_at, last_updated_by`

const deductionColumns = `deduction_id, item_id, deduction_type, description, amount, is_tax, rate_pct,
	created_at, created_by, last_updated_at, last_updated_by`

// PgxItemRepository implements item and deduction ledger persistence using
// pgx. Items own their deductions.
type PgxItemRepository struct {
	BaseRepository
}

// NewPgxItemRepository creates a new PgxItemRepository.
func NewPgxItemRepository(pool *pgxpool.Pool) *PgxItemRepository {
	return &PgxItemRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ItemRepositoryWithTx = (*PgxItemRepository)(nil)

// FindItemByID retrieves a single item.
func (r *PgxItemRepository) FindItemByID(ctx context.Context, itemID string) (*domain.PayrollItem, error) {
	query := `SELECT ` + itemColumns + ` FROM payroll_items WHERE item_id = $1;`
	model, err := scanItem(r.Pool.QueryRow(ctx, query, itemID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: item %s", apperrors.ErrNotFound, itemID)
		}
		return nil, fmt.Errorf("failed to find item %s: %w", itemID, err)
	}
	item := mapping.ToDomainPayrollItem(model)
	return &item, nil
}

// FindItemsByRunID retrieves all items of a run, ordered by worker then
// creation time.
func (r *PgxItemRepository) FindItemsByRunID(ctx context.Context, runID string) ([]domain.PayrollItem, error) {
	query := `SELECT ` + itemColumns + ` FROM payroll_items WHERE run_id = $1 ORDER BY worker_id, created_at, item_id;`
	rows, err := r.Pool.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query items for run %s: %w", runID, err)
	}
	return collectItems(rows)
}

// FindItemsByRunIDForUpdate is FindItemsByRunID inside tx with row locks.
func (r *PgxItemRepository) FindItemsByRunIDForUpdate(ctx context.Context, tx pgx.Tx, runID string) ([]domain.PayrollItem, error) {
	query := `SELECT ` + itemColumns + ` FROM payroll_items WHERE run_id = $1 ORDER BY worker_id, created_at, item_id FOR UPDATE;`
	rows, err := tx.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query items for run %s: %w", runID, err)
	}
	return collectItems(rows)
}

// FindPaidAssignmentIDs returns the given assignment IDs already referenced
// by an item of a run that has left the draft state.
func (r *PgxItemRepository) FindPaidAssignmentIDs(ctx context.Context, tx pgx.Tx, assignmentIDs []string) (map[string]bool, error) {
	paid := make(map[string]bool)
	if len(assignmentIDs) == 0 {
		return paid, nil
	}
	query := `
		SELECT DISTINCT i.assignment_id
		FROM payroll_items i
		JOIN payroll_runs r ON r.run_id = i.run_id
		WHERE i.assignment_id = ANY($1) AND r.status <> $2;
	`
	rows, err := tx.Query(ctx, query, assignmentIDs, models.RunDraft)
	if err != nil {
		return nil, fmt.Errorf("failed to query paid assignments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var assignmentID string
		if err := rows.Scan(&assignmentID); err != nil {
			return nil, fmt.Errorf("failed to scan paid assignment row: %w", err)
		}
		paid[assignmentID] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate paid assignment rows: %w", err)
	}
	return paid, nil
}

// SaveItemsInTx batch-inserts items within an existing transaction.
func (r *PgxItemRepository) SaveItemsInTx(ctx context.Context, tx pgx.Tx, items []domain.PayrollItem) error {
	if len(items) == 0 {
		return nil
	}
	query := `
		INSERT INTO payroll_items (` + itemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22);
	`
	batch := &pgx.Batch{}
	for i := range items {
		m := mapping.ToModelPayrollItem(items[i])
		batch.Queue(query,
			m.ItemID,
			m.RunID,
			m.WorkerID,
			m.ShiftID,
			m.AssignmentID,
			m.Type,
			m.Status,
			m.Description,
			m.Hours,
			m.Rate,
			m.GrossAmount,
			m.DeductionTotal,
			m.TaxWithheld,
			m.NetAmount,
			m.TransferID,
			m.PaymentReference,
			m.PaidAt,
			m.FailureReason,
			m.CreatedAt,
			m.CreatedBy,
			m.LastUpdatedAt,
			m.LastUpdatedBy,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to execute item insert batch: %w", err)
	}
	return nil
}

// UpdateItem persists a single item's mutable fields and payment metadata.
func (r *PgxItemRepository) UpdateItem(ctx context.Context, item domain.PayrollItem) error {
	m := mapping.ToModelPayrollItem(item)
	query := `
		UPDATE payroll_items SET
			status = $2,
			transfer_id = $3,
			payment_reference = $4,
			paid_at = $5,
			failure_reason = $6,
			last_updated_at = $7,
			last_updated_by = $8
		WHERE item_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query,
		m.ItemID,
		m.Status,
		m.TransferID,
		m.PaymentReference,
		m.PaidAt,
		m.FailureReason,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update item %s: %w", item.ItemID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// PromoteItemsStatusInTx bulk-transitions all items of a run from one status
// to another.
func (r *PgxItemRepository) PromoteItemsStatusInTx(ctx context.Context, tx pgx.Tx, runID string, from, to domain.ItemStatus, updatedBy string) error {
	query := `
		UPDATE payroll_items SET
			status = $3,
			last_updated_at = NOW(),
			last_updated_by = $4
		WHERE run_id = $1 AND status = $2;
	`
	if _, err := tx.Exec(ctx, query, runID, models.ItemStatus(from), models.ItemStatus(to), updatedBy); err != nil {
		return fmt.Errorf("failed to promote items for run %s: %w", runID, err)
	}
	return nil
}

// DeleteItemInTx removes one item. Its deductions must be deleted first.
func (r *PgxItemRepository) DeleteItemInTx(ctx context.Context, tx pgx.Tx, itemID string) error {
	tag, err := tx.Exec(ctx, `DELETE FROM payroll_items WHERE item_id = $1;`, itemID)
	if err != nil {
		return fmt.Errorf("failed to delete item %s: %w", itemID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteItemsByRunIDInTx removes all items of a run and their deductions.
func (r *PgxItemRepository) DeleteItemsByRunIDInTx(ctx context.Context, tx pgx.Tx, runID string) error {
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
	return nil
}

// FindDeductionsByItemIDs retrieves deductions for multiple items, grouped by
// item ID.
func (r *PgxItemRepository) FindDeductionsByItemIDs(ctx context.Context, itemIDs []string) (map[string][]domain.PayrollDeduction, error) {
	result := make(map[string][]domain.PayrollDeduction)
	if len(itemIDs) == 0 {
		return result, nil
	}
	query := `SELECT ` + deductionColumns + ` FROM payroll_deductions WHERE item_id = ANY($1) ORDER BY item_id, created_at, deduction_id;`
	rows, err := r.Pool.Query(ctx, query, itemIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query deductions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var m models.PayrollDeduction
		err := rows.Scan(
			&m.DeductionID,
			&m.ItemID,
			&m.Type,
			&m.Description,
			&m.Amount,
			&m.IsTax,
			&m.RatePct,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan deduction row: %w", err)
		}
		result[m.ItemID] = append(result[m.ItemID], mapping.ToDomainPayrollDeduction(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate deduction rows: %w", err)
	}
	return result, nil
}

// SaveDeductionsInTx batch-inserts deduction ledger entries.
func (r *PgxItemRepository) SaveDeductionsInTx(ctx context.Context, tx pgx.Tx, deductions []domain.PayrollDeduction) error {
	if len(deductions) == 0 {
		return nil
	}
	query := `
		INSERT INTO payroll_deductions (` + deductionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	batch := &pgx.Batch{}
	for i := range deductions {
		m := mapping.ToModelPayrollDeduction(deductions[i])
		batch.Queue(query,
			m.DeductionID,
			m.ItemID,
			m.Type,
			m.Description,
			m.Amount,
			m.IsTax,
			m.RatePct,
			m.CreatedAt,
			m.CreatedBy,
			m.LastUpdatedAt,
			m.LastUpdatedBy,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to execute deduction insert batch: %w", err)
	}
	return nil
}

// DeleteDeductionsByItemIDInTx clears an item's ledger ahead of a re-add.
func (r *PgxItemRepository) DeleteDeductionsByItemIDInTx(ctx context.Context, tx pgx.Tx, itemID string) error {
	if _, err := tx.Exec(ctx, `DELETE FROM payroll_deductions WHERE item_id = $1;`, itemID); err != nil {
		return fmt.Errorf("failed to delete deductions for item %s: %w", itemID, err)
	}
	return nil
}

func scanItem(row pgx.Row) (models.PayrollItem, error) {
	var m models.PayrollItem
	err := row.Scan(
		&m.ItemID,
		&m.RunID,
		&m.WorkerID,
		&m.ShiftID,
		&m.AssignmentID,
		&m.Type,
		&m.Status,
		&m.Description,
		&m.Hours,
		&m.Rate,
		&m.GrossAmount,
		&m.DeductionTotal,
		&m.TaxWithheld,
		&m.NetAmount,
		&m.TransferID,
		&m.PaymentReference,
		&m.PaidAt,
		&m.FailureReason,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func collectItems(rows pgx.Rows) ([]domain.PayrollItem, error) {
	defer rows.Close()
	items := []domain.PayrollItem{}
	for rows.Next() {
		model, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item row: %w", err)
		}
		items = append(items, mapping.ToDomainPayrollItem(model))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate item rows: %w", err)
	}
	return items, nil
}
