package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ItemType mirrors domain.ItemType at the persistence layer.
type ItemType string

const (
	ItemRegular       ItemType = "REGULAR"
	ItemOvertime      ItemType = "OVERTIME"
	ItemBonus         ItemType = "BONUS"
	ItemReimbursement ItemType = "REIMBURSEMENT"
	ItemAdjustment    ItemType = "ADJUSTMENT"
)

// ItemStatus mirrors domain.ItemStatus at the persistence layer.
type ItemStatus string

const (
	ItemPending  ItemStatus = "PENDING"
	ItemApproved ItemStatus = "APPROVED"
	ItemPaid     ItemStatus = "PAID"
	ItemFailed   ItemStatus = "FAILED"
)

// PayrollItem is the database representation of a payroll line item.
type PayrollItem struct {
	ItemID   string `db:"item_id"`
	RunID    string `db:"run_id"`
	WorkerID string `db:"worker_id"`

	ShiftID      *string `db:"shift_id"`      // Nullable for manual items
	AssignmentID *string `db:"assignment_id"` // Nullable for manual items

	Type        ItemType   `db:"item_type"`
	Status      ItemStatus `db:"status"`
	Description string     `db:"description"`

	Hours          decimal.Decimal `db:"hours"`
	Rate           decimal.Decimal `db:"rate"`
	GrossAmount    decimal.Decimal `db:"gross_amount"`
	DeductionTotal decimal.Decimal `db:"deduction_total"`
	TaxWithheld    decimal.Decimal `db:"tax_withheld"`
	NetAmount      decimal.Decimal `db:"net_amount"`

	TransferID       *string    `db:"transfer_id"`
	PaymentReference *string    `db:"payment_reference"`
	PaidAt           *time.Time `db:"paid_at"`
	FailureReason    *string    `db:"failure_reason"`

	AuditFields
}
