package providers

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shiftwise/payroll_engine/internal/apperrors"
	portsproviders "github.com/shiftwise/payroll_engine/internal/core/ports/providers"
)

// PgxWorkerDirectory implements WorkerDirectory over the worker subsystem's
// payout method read model.
type PgxWorkerDirectory struct {
	pool *pgxpool.Pool
}

// NewPgxWorkerDirectory creates a worker directory backed by the shared
// database.
func NewPgxWorkerDirectory(pool *pgxpool.Pool) *PgxWorkerDirectory {
	return &PgxWorkerDirectory{pool: pool}
}

var _ portsproviders.WorkerDirectory = (*PgxWorkerDirectory)(nil)

// HasValidPayoutMethod reports whether the worker has an active payout
// destination configured.
func (d *PgxWorkerDirectory) HasValidPayoutMethod(ctx context.Context, workerID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM worker_payout_methods WHERE worker_id = $1 AND is_active);`
	var valid bool
	if err := d.pool.QueryRow(ctx, query, workerID).Scan(&valid); err != nil {
		return false, fmt.Errorf("failed to check payout method for worker %s: %w", workerID, err)
	}
	return valid, nil
}

// PayoutDestination returns the opaque destination token for the worker's
// active payout method.
func (d *PgxWorkerDirectory) PayoutDestination(ctx context.Context, workerID string) (string, error) {
	query := `
		SELECT destination_token FROM worker_payout_methods
		WHERE worker_id = $1 AND is_active
		ORDER BY last_updated_at DESC
		LIMIT 1;
	`
	var token string
	if err := d.pool.QueryRow(ctx, query, workerID).Scan(&token); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", fmt.Errorf("%w: worker %s", apperrors.ErrInvalidPayoutMethod, workerID)
		}
		return "", fmt.Errorf("failed to find payout destination for worker %s: %w", workerID, err)
	}
	return token, nil
}
