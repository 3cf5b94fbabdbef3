package services

import (
	"context"

	"github.com/shiftwise/payroll_engine/internal/core/domain"
	"github.com/shiftwise/payroll_engine/internal/dto"
)

// RunReaderSvc defines read operations for payroll runs
type RunReaderSvc interface {
	// GetRunByID retrieves a run, including its items and their deductions.
	GetRunByID(ctx context.Context, runID string) (*domain.PayrollRun, error)

	// ListRuns retrieves a paginated list of runs.
	ListRuns(ctx context.Context, params dto.ListRunsParams) (*dto.ListRunsResponse, error)
}

// RunWriterSvc defines lifecycle operations for payroll runs
type RunWriterSvc interface {
	// CreateRun creates a new draft run for a pay period.
	CreateRun(ctx context.Context, req dto.CreateRunRequest, creatorUserID string) (*domain.PayrollRun, error)

	// DeleteRun removes a draft run and everything it owns. Runs that have
	// left draft are never deleted.
	DeleteRun(ctx context.Context, runID string, requestingUserID string) error

	// SubmitForApproval moves a non-empty draft run to pending approval.
	SubmitForApproval(ctx context.Context, runID string, requestingUserID string) (*domain.PayrollRun, error)

	// ApproveRun moves a pending run to approved, snapshotting the approver,
	// and bulk-promotes its items. Separation of duties is enforced unless
	// self-approval is configured on.
	ApproveRun(ctx context.Context, runID string, approverUserID string) (*domain.PayrollRun, error)
}

// RunItemEditorSvc defines structural edits, permitted only while a run is draft
type RunItemEditorSvc interface {
	// AddManualItem appends a manual item (bonus, reimbursement, adjustment)
	// to a draft run and recalculates totals.
	AddManualItem(ctx context.Context, runID string, req dto.AddManualItemRequest, requestingUserID string) (*domain.PayrollItem, error)

	// RemoveItem removes an item from a draft run and recalculates totals.
	RemoveItem(ctx context.Context, runID string, itemID string, requestingUserID string) error
}

// RunSvcFacade combines all run-related service interfaces
type RunSvcFacade interface {
	RunReaderSvc
	RunWriterSvc
	RunItemEditorSvc
}

// GenerationSvc materializes payroll items from completed shift assignments.
type GenerationSvc interface {
	// GenerateItems rebuilds a draft run's items from the period's completed,
	// unpaid assignments, annotates deductions and recalculates totals.
	// Regeneration is idempotent.
	GenerateItems(ctx context.Context, runID string, requestingUserID string) (*domain.PayrollRun, error)
}

// PaymentSvc drives per-item payment execution.
type PaymentSvc interface {
	// ProcessRun pays the approved items of a run, tolerating per-item
	// failure, and rolls the run status up from the aggregate outcome. It
	// returns a summary rather than an error for partial failures.
	ProcessRun(ctx context.Context, runID string, requestingUserID string) (*dto.ProcessRunSummary, error)
}

// ReportingSvc serves paystubs and run exports.
type ReportingSvc interface {
	// Paystub aggregates one worker's items and deductions within a run.
	Paystub(ctx context.Context, runID string, workerID string) (*dto.PaystubResponse, error)

	// Export serializes the full run in the requested format (csv or json).
	Export(ctx context.Context, runID string, format dto.ExportFormat) ([]byte, string, error)
}

// EventDispatcherSvc drains outbox events after the producing operation has
// committed. Delivery failures are logged and swallowed.
type EventDispatcherSvc interface {
	Dispatch(ctx context.Context, events []domain.Event)
}

// ServiceContainer holds instances of all the application services.
// This is the main entry point for accessing service functionality and
// is used throughout the application, particularly in the handlers.
type ServiceContainer struct {
	Run        RunSvcFacade
	Generation GenerationSvc
	Payment    PaymentSvc
	Reporting  ReportingSvc
	Events     EventDispatcherSvc
}
