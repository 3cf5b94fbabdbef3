// Package providers declares the boundary interfaces of the external
// subsystems the payroll core consumes: shift history, worker payout
// directory, tax jurisdiction lookup, the money-movement provider and
// notification dispatch. They are implemented elsewhere; the core only
// depends on these contracts.
package providers

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/shiftwise/payroll_engine/internal/core/domain"
)

// ShiftSource exposes the shift/assignment data store.
type ShiftSource interface {
	// ListCompletedAssignments returns completed, payable shift assignments
	// whose shift date falls within [periodStart, periodEnd].
	ListCompletedAssignments(ctx context.Context, periodStart, periodEnd time.Time) ([]domain.CompletedAssignment, error)
}

// WorkerDirectory answers payout-method questions about workers.
type WorkerDirectory interface {
	// HasValidPayoutMethod reports whether the worker has a usable payout
	// destination configured.
	HasValidPayoutMethod(ctx context.Context, workerID string) (bool, error)

	// PayoutDestination returns the opaque destination token passed to the
	// payment provider.
	PayoutDestination(ctx context.Context, workerID string) (string, error)
}

// TaxRateSource resolves a worker's effective withholding rate from their tax
// jurisdiction.
type TaxRateSource interface {
	// EffectiveTaxRate returns the percentage rate and whether the
	// jurisdiction could be resolved. An unresolved lookup triggers the
	// configured default rate.
	EffectiveTaxRate(ctx context.Context, workerID string) (decimal.Decimal, bool, error)
}

// TransferRequest is the wire contract of a payment transfer call.
type TransferRequest struct {
	AmountMinorUnits int64
	CurrencyCode     string
	DestinationToken string
	// IdempotencyKey is stable per (run reference, item); the provider must
	// treat a repeated key as the same transfer.
	IdempotencyKey string
	Metadata       map[string]string
}

// TransferResult is the provider's acknowledgement of a transfer.
type TransferResult struct {
	TransferID string
}

// PaymentProvider moves money to a worker's payout destination.
type PaymentProvider interface {
	// Transfer executes one payment. Once issued the call is awaited to
	// completion or provider-reported failure; there is no client-side abort.
	Transfer(ctx context.Context, req TransferRequest) (*TransferResult, error)
}

// Notifier delivers fire-and-forget payroll events. Implementations must not
// let delivery failures surface as run or item failures; callers log and
// swallow returned errors.
type Notifier interface {
	PayrollReadyForApproval(ctx context.Context, runID string) error
	PaystubAvailable(ctx context.Context, runID, workerID string) error
	PaymentProcessed(ctx context.Context, itemID string) error
}
