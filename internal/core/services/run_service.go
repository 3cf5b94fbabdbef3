package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/shiftwise/payroll_engine/internal/apperrors"
	"github.com/shiftwise/payroll_engine/internal/core/domain"
	"github.com/shiftwise/payroll_engine/internal/core/ports/providers"
	portsrepo "github.com/shiftwise/payroll_engine/internal/core/ports/repositories"
	portssvc "github.com/shiftwise/payroll_engine/internal/core/ports/services"
	"github.com/shiftwise/payroll_engine/internal/dto"
	"github.com/shiftwise/payroll_engine/internal/utils/paycalc"
	"github.com/shiftwise/payroll_engine/internal/utils/payref"
)

var (
	ErrPeriodOrder    = errors.New("period end must not precede period start")
	ErrPayDateInRange = errors.New("pay date must not precede period end")
	ErrItemNotInRun   = errors.New("item does not belong to this run")
)

const defaultListLimit = 20
const maxListLimit = 100

// runService provides payroll run lifecycle and structural edit operations.
type runService struct {
	BaseService
	runRepo    portsrepo.RunRepositoryWithTx
	itemRepo   portsrepo.ItemRepositoryWithTx
	calculator *deductionCalculator
	events     portssvc.EventDispatcherSvc
	settings   Settings
}

// NewRunService creates a new run service.
func NewRunService(runRepo portsrepo.RunRepositoryWithTx, itemRepo portsrepo.ItemRepositoryWithTx, taxRates providers.TaxRateSource, events portssvc.EventDispatcherSvc, settings Settings) portssvc.RunSvcFacade {
	return &runService{
		runRepo:    runRepo,
		itemRepo:   itemRepo,
		calculator: newDeductionCalculator(taxRates, settings),
		events:     events,
		settings:   settings,
	}
}

var _ portssvc.RunSvcFacade = (*runService)(nil)

// CreateRun creates a new draft run for a pay period.
func (s *runService) CreateRun(ctx context.Context, req dto.CreateRunRequest, creatorUserID string) (*domain.PayrollRun, error) {
	if req.PeriodEnd.Before(req.PeriodStart) {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, ErrPeriodOrder)
	}
	if req.PayDate.Before(req.PeriodEnd) {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, ErrPayDateInRange)
	}

	reference, err := payref.NewRunReference(req.PeriodStart)
	if err != nil {
		return nil, fmt.Errorf("failed to generate run reference: %w", err)
	}

	now := time.Now()
	run := domain.PayrollRun{
		RunID:           uuid.NewString(),
		ReferenceCode:   reference,
		PeriodStart:     req.PeriodStart,
		PeriodEnd:       req.PeriodEnd,
		PayDate:         req.PayDate,
		CurrencyCode:    req.CurrencyCode,
		Status:          domain.RunDraft,
		GrossAmount:     decimal.Zero,
		TotalDeductions: decimal.Zero,
		TotalTaxes:      decimal.Zero,
		NetAmount:       decimal.Zero,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.runRepo.SaveRun(ctx, run); err != nil {
		s.LogError(ctx, err, "failed to save payroll run", "runID", run.RunID)
		return nil, fmt.Errorf("failed to save payroll run: %w", err)
	}

	s.LogInfo(ctx, "payroll run created", "runID", run.RunID, "reference", run.ReferenceCode)
	return &run, nil
}

// GetRunByID retrieves a run with its items and their deductions attached.
func (s *runService) GetRunByID(ctx context.Context, runID string) (*domain.PayrollRun, error) {
	run, err := s.runRepo.FindRunByID(ctx, runID)
	if err != nil {
		return nil, err
	}

	items, err := s.itemRepo.FindItemsByRunID(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to load items for run %s: %w", runID, err)
	}
	if err := s.attachDeductions(ctx, items); err != nil {
		return nil, err
	}
	run.Items = items
	return run, nil
}

// ListRuns retrieves a paginated list of runs.
func (s *runService) ListRuns(ctx context.Context, params dto.ListRunsParams) (*dto.ListRunsResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	runs, nextToken, err := s.runRepo.ListRuns(ctx, limit, params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "failed to list payroll runs")
		return nil, fmt.Errorf("failed to list payroll runs: %w", err)
	}

	resp := dto.ListRunsResponse{
		Runs:      make([]dto.RunResponse, 0, len(runs)),
		NextToken: nextToken,
	}
	for i := range runs {
		resp.Runs = append(resp.Runs, dto.ToRunResponse(&runs[i]))
	}
	return &resp, nil
}

// DeleteRun removes a draft run and everything it owns.
func (s *runService) DeleteRun(ctx context.Context, runID string, requestingUserID string) error {
	run, err := s.runRepo.FindRunByID(ctx, runID)
	if err != nil {
		return err
	}
	if !run.Status.IsEditable() {
		return fmt.Errorf("%w: run %s is %s", apperrors.ErrRunNotEditable, runID, run.Status)
	}

	if err := s.runRepo.DeleteRun(ctx, runID); err != nil {
		s.LogError(ctx, err, "failed to delete payroll run", "runID", runID)
		return fmt.Errorf("failed to delete payroll run: %w", err)
	}

	s.LogInfo(ctx, "payroll run deleted", "runID", runID, "deletedBy", requestingUserID)
	return nil
}

// SubmitForApproval moves a non-empty draft run to pending approval. Totals
// are recalculated under the run lock so the approval snapshot is exact.
func (s *runService) SubmitForApproval(ctx context.Context, runID string, requestingUserID string) (*domain.PayrollRun, error) {
	tx, err := s.runRepo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer s.runRepo.Rollback(ctx, tx)

	run, err := s.runRepo.FindRunByIDForUpdate(ctx, tx, runID)
	if err != nil {
		return nil, err
	}
	if !run.Status.CanTransitionTo(domain.RunPendingApproval) {
		return nil, fmt.Errorf("%w: cannot submit run in status %s", apperrors.ErrInvalidState, run.Status)
	}

	items, err := s.itemRepo.FindItemsByRunIDForUpdate(ctx, tx, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to load items for run %s: %w", runID, err)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: run %s", apperrors.ErrEmptyPayroll, runID)
	}

	now := time.Now()
	run.RecalculateTotals(items)
	run.Status = domain.RunPendingApproval
	run.LastUpdatedAt = now
	run.LastUpdatedBy = requestingUserID

	if err := s.runRepo.UpdateRunInTx(ctx, tx, *run); err != nil {
		s.LogError(ctx, err, "failed to update run on submit", "runID", runID)
		return nil, fmt.Errorf("failed to update run: %w", err)
	}
	if err := s.runRepo.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.LogInfo(ctx, "payroll run submitted for approval", "runID", runID, "submittedBy", requestingUserID, "netAmount", run.NetAmount.String())
	s.events.Dispatch(ctx, []domain.Event{{
		Kind:  domain.EventReadyForApproval,
		RunID: runID,
	}})

	run.Items = items
	return run, nil
}

// ApproveRun moves a pending run to approved and bulk-promotes its items.
func (s *runService) ApproveRun(ctx context.Context, runID string, approverUserID string) (*domain.PayrollRun, error) {
	tx, err := s.runRepo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer s.runRepo.Rollback(ctx, tx)

	run, err := s.runRepo.FindRunByIDForUpdate(ctx, tx, runID)
	if err != nil {
		return nil, err
	}
	if !run.Status.CanTransitionTo(domain.RunApproved) {
		return nil, fmt.Errorf("%w: cannot approve run in status %s", apperrors.ErrInvalidState, run.Status)
	}
	if !s.settings.AllowSelfApproval && run.CreatedBy == approverUserID {
		return nil, fmt.Errorf("%w: run %s", apperrors.ErrSelfApproval, runID)
	}

	now := time.Now()
	run.Status = domain.RunApproved
	run.ApproverID = &approverUserID
	run.ApprovedAt = &now
	run.LastUpdatedAt = now
	run.LastUpdatedBy = approverUserID

	if err := s.itemRepo.PromoteItemsStatusInTx(ctx, tx, runID, domain.ItemPending, domain.ItemApproved, approverUserID); err != nil {
		s.LogError(ctx, err, "failed to promote items on approval", "runID", runID)
		return nil, fmt.Errorf("failed to promote items: %w", err)
	}
	if err := s.runRepo.UpdateRunInTx(ctx, tx, *run); err != nil {
		s.LogError(ctx, err, "failed to update run on approval", "runID", runID)
		return nil, fmt.Errorf("failed to update run: %w", err)
	}
	if err := s.runRepo.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.LogInfo(ctx, "payroll run approved", "runID", runID, "approverID", approverUserID)
	return run, nil
}

// AddManualItem appends a manual item to a draft run and recalculates totals.
func (s *runService) AddManualItem(ctx context.Context, runID string, req dto.AddManualItemRequest, requestingUserID string) (*domain.PayrollItem, error) {
	tx, err := s.runRepo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer s.runRepo.Rollback(ctx, tx)

	run, err := s.runRepo.FindRunByIDForUpdate(ctx, tx, runID)
	if err != nil {
		return nil, err
	}
	if !run.Status.IsEditable() {
		return nil, fmt.Errorf("%w: run %s is %s", apperrors.ErrRunNotEditable, runID, run.Status)
	}

	now := time.Now()
	item := domain.PayrollItem{
		ItemID:      uuid.NewString(),
		RunID:       runID,
		WorkerID:    req.WorkerID,
		Type:        req.Type,
		Status:      domain.ItemPending,
		Description: req.Description,
		Hours:       req.Hours,
		Rate:        req.Rate,
		GrossAmount: paycalc.RoundMoney(req.Amount),
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     requestingUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: requestingUserID,
		},
	}
	deductions := s.calculator.Calculate(ctx, &item, now, requestingUserID)

	if err := s.itemRepo.SaveItemsInTx(ctx, tx, []domain.PayrollItem{item}); err != nil {
		s.LogError(ctx, err, "failed to save manual item", "runID", runID)
		return nil, fmt.Errorf("failed to save item: %w", err)
	}
	if err := s.itemRepo.SaveDeductionsInTx(ctx, tx, deductions); err != nil {
		s.LogError(ctx, err, "failed to save item deductions", "runID", runID, "itemID", item.ItemID)
		return nil, fmt.Errorf("failed to save deductions: %w", err)
	}

	if err := s.recalculateAndUpdateRun(ctx, tx, run, requestingUserID, now); err != nil {
		return nil, err
	}
	if err := s.runRepo.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.LogInfo(ctx, "manual item added", "runID", runID, "itemID", item.ItemID, "type", string(item.Type), "netAmount", item.NetAmount.String())
	item.Deductions = deductions
	return &item, nil
}

// RemoveItem removes an item from a draft run and recalculates totals.
func (s *runService) RemoveItem(ctx context.Context, runID string, itemID string, requestingUserID string) error {
	tx, err := s.runRepo.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer s.runRepo.Rollback(ctx, tx)

	run, err := s.runRepo.FindRunByIDForUpdate(ctx, tx, runID)
	if err != nil {
		return err
	}
	if !run.Status.IsEditable() {
		return fmt.Errorf("%w: run %s is %s", apperrors.ErrRunNotEditable, runID, run.Status)
	}

	item, err := s.itemRepo.FindItemByID(ctx, itemID)
	if err != nil {
		return err
	}
	if item.RunID != runID {
		return fmt.Errorf("%w: %w", apperrors.ErrNotFound, ErrItemNotInRun)
	}

	if err := s.itemRepo.DeleteDeductionsByItemIDInTx(ctx, tx, itemID); err != nil {
		s.LogError(ctx, err, "failed to delete item deductions", "runID", runID, "itemID", itemID)
		return fmt.Errorf("failed to delete item deductions: %w", err)
	}
	if err := s.itemRepo.DeleteItemInTx(ctx, tx, itemID); err != nil {
		s.LogError(ctx, err, "failed to delete item", "runID", runID, "itemID", itemID)
		return fmt.Errorf("failed to delete item: %w", err)
	}

	now := time.Now()
	if err := s.recalculateAndUpdateRun(ctx, tx, run, requestingUserID, now); err != nil {
		return err
	}
	if err := s.runRepo.Commit(ctx, tx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.LogInfo(ctx, "item removed from run", "runID", runID, "itemID", itemID, "removedBy", requestingUserID)
	return nil
}

// recalculateAndUpdateRun re-reads the run's items inside tx, recomputes the
// run totals and persists them. Must be called before commit by every
// structural edit.
func (s *runService) recalculateAndUpdateRun(ctx context.Context, tx pgx.Tx, run *domain.PayrollRun, userID string, now time.Time) error {
	items, err := s.itemRepo.FindItemsByRunIDForUpdate(ctx, tx, run.RunID)
	if err != nil {
		return fmt.Errorf("failed to reload items for run %s: %w", run.RunID, err)
	}
	run.RecalculateTotals(items)
	run.LastUpdatedAt = now
	run.LastUpdatedBy = userID
	if err := s.runRepo.UpdateRunInTx(ctx, tx, *run); err != nil {
		s.LogError(ctx, err, "failed to update run totals", "runID", run.RunID)
		return fmt.Errorf("failed to update run totals: %w", err)
	}
	return nil
}

func (s *runService) attachDeductions(ctx context.Context, items []domain.PayrollItem) error {
	if len(items) == 0 {
		return nil
	}
	itemIDs := make([]string, 0, len(items))
	for i := range items {
		itemIDs = append(itemIDs, items[i].ItemID)
	}
	byItem, err := s.itemRepo.FindDeductionsByItemIDs(ctx, itemIDs)
	if err != nil {
		return fmt.Errorf("failed to load deductions: %w", err)
	}
	for i := range items {
		items[i].Deductions = byItem[items[i].ItemID]
	}
	return nil
}
