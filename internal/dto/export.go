package dto

import "github.com/shopspring/decimal"

// ExportFormat selects the serialization of a run export.
type ExportFormat string

const (
	ExportCSV  ExportFormat = "csv"
	ExportJSON ExportFormat = "json"
)

// Valid reports whether the format is supported.
func (f ExportFormat) Valid() bool {
	return f == ExportCSV || f == ExportJSON
}

// ExportRow is one item line of a run export. The csv tags drive the gocsv
// serialization; the same rows marshal to JSON for the structured format.
type ExportRow struct {
	ReferenceCode  string          `csv:"run_reference" json:"runReference"`
	WorkerID       string          `csv:"worker_id" json:"workerID"`
	ShiftID        string          `csv:"shift_id" json:"shiftID,omitempty"`
	ItemType       string          `csv:"item_type" json:"itemType"`
	Status         string          `csv:"status" json:"status"`
	Description    string          `csv:"description" json:"description"`
	Hours          decimal.Decimal `csv:"hours" json:"hours"`
	Rate           decimal.Decimal `csv:"rate" json:"rate"`
	GrossAmount    decimal.Decimal `csv:"gross_amount" json:"grossAmount"`
	DeductionTotal decimal.Decimal `csv:"deductions" json:"deductions"`
	TaxWithheld    decimal.Decimal `csv:"tax_withheld" json:"taxWithheld"`
	NetAmount      decimal.Decimal `csv:"net_amount" json:"netAmount"`
}

// ExportSummary is the total row appended to every export. It carries the
// same aggregates as the paystub aggregation so the two reconcile.
type ExportSummary struct {
	TotalItems      int             `csv:"total_items" json:"totalItems"`
	TotalWorkers    int             `csv:"total_workers" json:"totalWorkers"`
	GrossAmount     decimal.Decimal `csv:"gross_amount" json:"grossAmount"`
	TotalDeductions decimal.Decimal `csv:"total_deductions" json:"totalDeductions"`
	TotalTaxes      decimal.Decimal `csv:"total_taxes" json:"totalTaxes"`
	NetAmount       decimal.Decimal `csv:"net_amount" json:"netAmount"`
}

// RunExport is the structured (JSON) export payload.
type RunExport struct {
	RunID         string        `json:"runID"`
	ReferenceCode string        `json:"referenceCode"`
	CurrencyCode  string        `json:"currencyCode"`
	Status        string        `json:"status"`
	Rows          []ExportRow   `json:"rows"`
	Summary       ExportSummary `json:"summary"`
}
