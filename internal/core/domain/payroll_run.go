package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RunStatus indicates where a payroll run is in its lifecycle.
type RunStatus string

const (
	RunDraft           RunStatus = "DRAFT"
	RunPendingApproval RunStatus = "PENDING_APPROVAL"
	RunApproved        RunStatus = "APPROVED"
	RunProcessing      RunStatus = "PROCESSING"
	RunCompleted       RunStatus = "COMPLETED"
	RunFailed          RunStatus = "FAILED"
)

// runTransitions is the closed transition table of the run state machine.
// Processing may transition to itself so that a resumed ProcessRun call is a
// legal no-op transition.
var runTransitions = map[RunStatus][]RunStatus{
	RunDraft:           {RunPendingApproval},
	RunPendingApproval: {RunApproved},
	RunApproved:        {RunProcessing},
	RunProcessing:      {RunProcessing, RunCompleted, RunFailed},
}

// CanTransitionTo reports whether the state machine permits moving from the
// current status to the target status.
func (s RunStatus) CanTransitionTo(target RunStatus) bool {
	for _, next := range runTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// IsEditable reports whether structural edits (generate, add or remove items)
// are allowed. Only draft runs are editable.
func (s RunStatus) IsEditable() bool {
	return s == RunDraft
}

// PayrollRun is the batch aggregate: one pay period with its collection of
// items, derived run-level totals and a lifecycle status.
type PayrollRun struct {
	RunID         string    `json:"runID"`         // Primary key (UUID)
	ReferenceCode string    `json:"referenceCode"` // Unique human-readable reference (PR-YYYYMM-XXXX)
	PeriodStart   time.Time `json:"periodStart"`
	PeriodEnd     time.Time `json:"periodEnd"`
	PayDate       time.Time `json:"payDate"`
	CurrencyCode  string    `json:"currencyCode"`
	Status        RunStatus `json:"status"`

	// Derived aggregates. Always recomputed from the constituent items via
	// RecalculateTotals, never hand-edited.
	TotalWorkers    int             `json:"totalWorkers"`
	TotalShifts     int             `json:"totalShifts"`
	GrossAmount     decimal.Decimal `json:"grossAmount"`
	TotalDeductions decimal.Decimal `json:"totalDeductions"`
	TotalTaxes      decimal.Decimal `json:"totalTaxes"`
	NetAmount       decimal.Decimal `json:"netAmount"`

	// Approval/processing provenance. CreatedBy (in AuditFields) is the creator.
	ApproverID  *string    `json:"approverID,omitempty"`
	ApprovedAt  *time.Time `json:"approvedAt,omitempty"`
	ProcessedAt *time.Time `json:"processedAt,omitempty"`

	AuditFields

	// Items are loaded on demand; nil means not loaded.
	Items []PayrollItem `json:"items,omitempty"`
}

// RecalculateTotals recomputes the run aggregates from the given items.
// Idempotent; must be called after any item or deduction mutation and before
// any state transition that depends on totals.
func (r *PayrollRun) RecalculateTotals(items []PayrollItem) {
	workers := make(map[string]struct{})
	shifts := make(map[string]struct{})
	gross := decimal.Zero
	deductions := decimal.Zero
	taxes := decimal.Zero
	net := decimal.Zero

	for _, item := range items {
		workers[item.WorkerID] = struct{}{}
		if item.ShiftID != nil {
			shifts[*item.ShiftID] = struct{}{}
		}
		gross = gross.Add(item.GrossAmount)
		deductions = deductions.Add(item.DeductionTotal)
		taxes = taxes.Add(item.TaxWithheld)
		net = net.Add(item.NetAmount)
	}

	r.TotalWorkers = len(workers)
	r.TotalShifts = len(shifts)
	r.GrossAmount = gross
	r.TotalDeductions = deductions
	r.TotalTaxes = taxes
	r.NetAmount = net
}
