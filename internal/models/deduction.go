package models

import "github.com/shopspring/decimal"

// DeductionType mirrors domain.DeductionType at the persistence layer.
type DeductionType string

const (
	DeductionPlatformFee      DeductionType = "PLATFORM_FEE"
	DeductionTax              DeductionType = "TAX"
	DeductionGarnishment      DeductionType = "GARNISHMENT"
	DeductionAdvanceRepayment DeductionType = "ADVANCE_REPAYMENT"
	DeductionOther            DeductionType = "OTHER"
)

// PayrollDeduction is the database representation of one deduction ledger entry.
// Rows are append-only; recalculation deletes and re-inserts.
type PayrollDeduction struct {
	DeductionID string           `db:"deduction_id"`
	ItemID      string           `db:"item_id"`
	Type        DeductionType    `db:"deduction_type"`
	Description string           `db:"description"`
	Amount      decimal.Decimal  `db:"amount"`
	IsTax       bool             `db:"is_tax"`
	RatePct     *decimal.Decimal `db:"rate_pct"` // Nullable, set when percentage-derived

	AuditFields
}
