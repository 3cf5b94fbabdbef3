package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// RunStatus mirrors domain.RunStatus at the persistence layer.
type RunStatus string

const (
	RunDraft           RunStatus = "DRAFT"
	RunPendingApproval RunStatus = "PENDING_APPROVAL"
	RunApproved        RunStatus = "APPROVED"
	RunProcessing      RunStatus = "PROCESSING"
	RunCompleted       RunStatus = "COMPLETED"
	RunFailed          RunStatus = "FAILED"
)

// PayrollRun is the database representation of a payroll run.
type PayrollRun struct {
	RunID         string    `db:"run_id"`
	ReferenceCode string    `db:"reference_code"` // Unique
	PeriodStart   time.Time `db:"period_start"`
	PeriodEnd     time.Time `db:"period_end"`
	PayDate       time.Time `db:"pay_date"`
	CurrencyCode  string    `db:"currency_code"`
	Status        RunStatus `db:"status"`

	TotalWorkers    int             `db:"total_workers"`
	TotalShifts     int             `db:"total_shifts"`
	GrossAmount     decimal.Decimal `db:"gross_amount"`
	TotalDeductions decimal.Decimal `db:"total_deductions"`
	TotalTaxes      decimal.Decimal `db:"total_taxes"`
	NetAmount       decimal.Decimal `db:"net_amount"`

	ApproverID  *string    `db:"approver_id"` // Nullable until approved
	ApprovedAt  *time.Time `db:"approved_at"`
	ProcessedAt *time.Time `db:"processed_at"`

	AuditFields
}
