package domain

import "github.com/shopspring/decimal"

// DeductionType classifies an itemized subtraction from an item's gross pay.
type DeductionType string

const (
	DeductionPlatformFee      DeductionType = "PLATFORM_FEE"
	DeductionTax              DeductionType = "TAX"
	DeductionGarnishment      DeductionType = "GARNISHMENT"
	DeductionAdvanceRepayment DeductionType = "ADVANCE_REPAYMENT"
	DeductionOther            DeductionType = "OTHER"
)

// PayrollDeduction is one entry in an item's append-only deduction ledger.
// Recalculation deletes and re-adds entries rather than mutating them, so the
// calculation basis at the time it ran stays auditable.
type PayrollDeduction struct {
	DeductionID string        `json:"deductionID"` // Primary key (UUID)
	ItemID      string        `json:"itemID"`      // FK -> PayrollItem.ItemID
	Type        DeductionType `json:"type"`
	Description string        `json:"description"`
	// Amount is rounded to currency minor-unit precision at creation time so
	// that ledger sums are exact.
	Amount decimal.Decimal `json:"amount"`
	// IsTax selects whether the amount counts into the item's TaxWithheld
	// rather than its DeductionTotal.
	IsTax bool `json:"isTax"`
	// RatePct records the percentage used, when the amount was
	// percentage-derived.
	RatePct *decimal.Decimal `json:"ratePct,omitempty"`

	AuditFields
}
