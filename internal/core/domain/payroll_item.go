package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ItemType classifies a payroll item as a closed enum so that an unhandled
// type is a compile-time switch omission rather than a stray string.
type ItemType string

const (
	ItemRegular       ItemType = "REGULAR"
	ItemOvertime      ItemType = "OVERTIME"
	ItemBonus         ItemType = "BONUS"
	ItemReimbursement ItemType = "REIMBURSEMENT"
	ItemAdjustment    ItemType = "ADJUSTMENT"
)

// DeductionExempt reports whether items of this type bypass the deduction and
// tax calculation. Reimbursements are paid out in full.
func (t ItemType) DeductionExempt() bool {
	return t == ItemReimbursement
}

// ItemStatus indicates where an item is in its payment lifecycle.
type ItemStatus string

const (
	ItemPending  ItemStatus = "PENDING"
	ItemApproved ItemStatus = "APPROVED"
	ItemPaid     ItemStatus = "PAID"
	// ItemFailed is recoverable: the item is retried by reprocessing the run,
	// never by resurrecting a replacement item.
	ItemFailed ItemStatus = "FAILED"
)

// PayrollItem is one compensable unit within a run, tied to a worker and
// optionally to the shift assignment it was generated from.
type PayrollItem struct {
	ItemID   string `json:"itemID"` // Primary key (UUID)
	RunID    string `json:"runID"`  // FK -> PayrollRun.RunID
	WorkerID string `json:"workerID"`

	// Source references; nil for manual, bonus and adjustment items. A given
	// (shift, assignment) pair may source items in at most one non-draft run.
	ShiftID      *string `json:"shiftID,omitempty"`
	AssignmentID *string `json:"assignmentID,omitempty"`

	Type        ItemType   `json:"type"`
	Status      ItemStatus `json:"status"`
	Description string     `json:"description"`

	Hours       decimal.Decimal `json:"hours"`
	Rate        decimal.Decimal `json:"rate"`
	GrossAmount decimal.Decimal `json:"grossAmount"`
	// DeductionTotal and TaxWithheld are derived from the deduction ledger.
	// NetAmount = GrossAmount - DeductionTotal - TaxWithheld, clamped at the
	// deduction stage so it is never negative.
	DeductionTotal decimal.Decimal `json:"deductionTotal"`
	TaxWithheld    decimal.Decimal `json:"taxWithheld"`
	NetAmount      decimal.Decimal `json:"netAmount"`

	// Payment metadata, populated only on transition to PAID.
	TransferID       *string    `json:"transferID,omitempty"`
	PaymentReference *string    `json:"paymentReference,omitempty"`
	PaidAt           *time.Time `json:"paidAt,omitempty"`
	FailureReason    *string    `json:"failureReason,omitempty"`

	AuditFields

	// Deductions are loaded on demand; nil means not loaded.
	Deductions []PayrollDeduction `json:"deductions,omitempty"`
}

// IsActive reports whether the item still counts toward payment. Failed items
// stay on the run for audit but are re-attempted, not resurrected.
func (i *PayrollItem) IsActive() bool {
	return i.Status != ItemFailed
}
