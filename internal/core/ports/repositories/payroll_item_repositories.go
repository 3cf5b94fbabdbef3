package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/shiftwise/payroll_engine/internal/core/domain"
)

// ItemReader defines read operations for payroll item data
type ItemReader interface {
	// FindItemByID retrieves a single item.
	FindItemByID(ctx context.Context, itemID string) (*domain.PayrollItem, error)

	// FindItemsByRunID retrieves all items of a run, ordered by worker then
	// creation time.
	FindItemsByRunID(ctx context.Context, runID string) ([]domain.PayrollItem, error)

	// FindItemsByRunIDForUpdate is FindItemsByRunID inside tx with row locks.
	FindItemsByRunIDForUpdate(ctx context.Context, tx pgx.Tx, runID string) ([]domain.PayrollItem, error)

	// FindPaidAssignmentIDs returns, out of the given assignment IDs, the ones
	// already referenced by an item belonging to a run that has left the draft
	// state. Those assignments must not be paid again.
	FindPaidAssignmentIDs(ctx context.Context, tx pgx.Tx, assignmentIDs []string) (map[string]bool, error)
}

// ItemWriter defines write operations for payroll item data
type ItemWriter interface {
	// SaveItemsInTx batch-inserts items within an existing transaction.
	SaveItemsInTx(ctx context.Context, tx pgx.Tx, items []domain.PayrollItem) error

	// UpdateItem persists a single item's mutable fields and payment metadata.
	// Used per item by the payment executor so progress survives interruption.
	UpdateItem(ctx context.Context, item domain.PayrollItem) error

	// PromoteItemsStatusInTx bulk-transitions all items of a run from one
	// status to another (pending -> approved on run approval).
	PromoteItemsStatusInTx(ctx context.Context, tx pgx.Tx, runID string, from, to domain.ItemStatus, updatedBy string) error

	// DeleteItemInTx removes one item. Its deductions must be deleted first.
	DeleteItemInTx(ctx context.Context, tx pgx.Tx, itemID string) error

	// DeleteItemsByRunIDInTx removes all items of a run and their deductions.
	// Used for idempotent regeneration of draft runs.
	DeleteItemsByRunIDInTx(ctx context.Context, tx pgx.Tx, runID string) error
}

// DeductionReader defines read operations for the deduction ledger
type DeductionReader interface {
	// FindDeductionsByItemIDs retrieves deductions for multiple items, grouped
	// by item ID.
	FindDeductionsByItemIDs(ctx context.Context, itemIDs []string) (map[string][]domain.PayrollDeduction, error)
}

// DeductionWriter defines write operations for the deduction ledger
type DeductionWriter interface {
	// SaveDeductionsInTx batch-inserts deduction entries. The ledger is
	// append-only: recalculation deletes and re-adds.
	SaveDeductionsInTx(ctx context.Context, tx pgx.Tx, deductions []domain.PayrollDeduction) error

	// DeleteDeductionsByItemIDInTx clears an item's ledger ahead of a re-add.
	DeleteDeductionsByItemIDInTx(ctx context.Context, tx pgx.Tx, itemID string) error
}

// ItemRepositoryFacade combines all item-related repository interfaces.
// Items own their deductions, so both live behind the same repository.
type ItemRepositoryFacade interface {
	ItemReader
	ItemWriter
	DeductionReader
	DeductionWriter
}

// ItemRepositoryWithTx extends ItemRepositoryFacade with transaction capabilities
type ItemRepositoryWithTx interface {
	ItemRepositoryFacade
	TransactionManager
}
