package providers

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shiftwise/payroll_engine/internal/core/domain"
	portsproviders "github.com/shiftwise/payroll_engine/internal/core/ports/providers"
)

// PgxShiftSource implements ShiftSource over the shift subsystem's read model
// table. The payroll engine only reads it; the shift subsystem owns writes.
type PgxShiftSource struct {
	pool *pgxpool.Pool
}

// NewPgxShiftSource creates a shift source backed by the shared database.
func NewPgxShiftSource(pool *pgxpool.Pool) *PgxShiftSource {
	return &PgxShiftSource{pool: pool}
}

var _ portsproviders.ShiftSource = (*PgxShiftSource)(nil)

// ListCompletedAssignments returns completed, payable assignments whose shift
// date falls within [periodStart, periodEnd].
func (s *PgxShiftSource) ListCompletedAssignments(ctx context.Context, periodStart, periodEnd time.Time) ([]domain.CompletedAssignment, error) {
	query := `
		SELECT assignment_id, shift_id, worker_id, shift_date, hours_worked, overtime_hours,
		       pay_amount, finalized_rate, base_rate
		FROM shift_assignments
		WHERE status = 'COMPLETED' AND shift_date BETWEEN $1 AND $2
		ORDER BY worker_id, shift_date, assignment_id;
	`
	rows, err := s.pool.Query(ctx, query, periodStart, periodEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to query completed assignments: %w", err)
	}
	defer rows.Close()

	assignments := []domain.CompletedAssignment{}
	for rows.Next() {
		var a domain.CompletedAssignment
		err := rows.Scan(
			&a.AssignmentID,
			&a.ShiftID,
			&a.WorkerID,
			&a.ShiftDate,
			&a.HoursWorked,
			&a.OvertimeHours,
			&a.PayAmount,
			&a.FinalizedRate,
			&a.BaseRate,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan assignment row: %w", err)
		}
		assignments = append(assignments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate assignment rows: %w", err)
	}
	return assignments, nil
}
