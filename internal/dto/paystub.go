package dto

import "github.com/shopspring/decimal"

// PaystubEarning is one earnings line on a worker's paystub.
type PaystubEarning struct {
	ItemID      string          `json:"itemID"`
	Type        string          `json:"type"`
	Description string          `json:"description"`
	ShiftID     *string         `json:"shiftID,omitempty"`
	Hours       decimal.Decimal `json:"hours"`
	Rate        decimal.Decimal `json:"rate"`
	GrossAmount decimal.Decimal `json:"grossAmount"`
	NetAmount   decimal.Decimal `json:"netAmount"`
	Status      string          `json:"status"`
}

// PaystubDeductionTotal aggregates one deduction type across a worker's items.
type PaystubDeductionTotal struct {
	Type   string          `json:"type"`
	Amount decimal.Decimal `json:"amount"`
}

// PaystubResponse aggregates everything one worker earned and owed within a
// run. Summed across all workers of a run it reconciles exactly with the
// run-level totals.
type PaystubResponse struct {
	RunID         string `json:"runID"`
	ReferenceCode string `json:"referenceCode"`
	PeriodStart   string `json:"periodStart"`
	PeriodEnd     string `json:"periodEnd"`
	PayDate       string `json:"payDate"`
	CurrencyCode  string `json:"currencyCode"`
	WorkerID      string `json:"workerID"`

	Earnings   []PaystubEarning        `json:"earnings"`
	Deductions []PaystubDeductionTotal `json:"deductions"`

	TotalGross      decimal.Decimal `json:"totalGross"`
	TotalDeductions decimal.Decimal `json:"totalDeductions"`
	TotalTaxes      decimal.Decimal `json:"totalTaxes"`
	TotalNet        decimal.Decimal `json:"totalNet"`
}
