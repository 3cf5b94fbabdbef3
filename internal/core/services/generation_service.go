package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shiftwise/payroll_engine/internal/apperrors"
	"github.com/shiftwise/payroll_engine/internal/core/domain"
	"github.com/shiftwise/payroll_engine/internal/core/ports/providers"
	portsrepo "github.com/shiftwise/payroll_engine/internal/core/ports/repositories"
	portssvc "github.com/shiftwise/payroll_engine/internal/core/ports/services"
	"github.com/shiftwise/payroll_engine/internal/utils/paycalc"
)

// generationService materializes payroll items from completed shift
// assignments. Regeneration of a draft run is idempotent: existing generated
// items are replaced wholesale under the run lock.
type generationService struct {
	BaseService
	runRepo    portsrepo.RunRepositoryWithTx
	itemRepo   portsrepo.ItemRepositoryWithTx
	shifts     providers.ShiftSource
	calculator *deductionCalculator
	settings   Settings
}

// NewGenerationService creates a new generation service.
func NewGenerationService(runRepo portsrepo.RunRepositoryWithTx, itemRepo portsrepo.ItemRepositoryWithTx, shifts providers.ShiftSource, taxRates providers.TaxRateSource, settings Settings) portssvc.GenerationSvc {
	return &generationService{
		runRepo:    runRepo,
		itemRepo:   itemRepo,
		shifts:     shifts,
		calculator: newDeductionCalculator(taxRates, settings),
		settings:   settings,
	}
}

var _ portssvc.GenerationSvc = (*generationService)(nil)

// GenerateItems rebuilds a draft run's items from the period's completed,
// unpaid assignments.
func (s *generationService) GenerateItems(ctx context.Context, runID string, requestingUserID string) (*domain.PayrollRun, error) {
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

	assignments, err := s.shifts.ListCompletedAssignments(ctx, run.PeriodStart, run.PeriodEnd)
	if err != nil {
		s.LogError(ctx, err, "failed to list completed assignments", "runID", runID)
		return nil, fmt.Errorf("failed to list completed assignments: %w", err)
	}

	// Replace any previously generated items so regeneration converges on the
	// current assignment data instead of accumulating duplicates.
	if err := s.itemRepo.DeleteItemsByRunIDInTx(ctx, tx, runID); err != nil {
		s.LogError(ctx, err, "failed to clear existing items", "runID", runID)
		return nil, fmt.Errorf("failed to clear existing items: %w", err)
	}

	assignmentIDs := make([]string, 0, len(assignments))
	for i := range assignments {
		assignmentIDs = append(assignmentIDs, assignments[i].AssignmentID)
	}
	alreadyPaid, err := s.itemRepo.FindPaidAssignmentIDs(ctx, tx, assignmentIDs)
	if err != nil {
		s.LogError(ctx, err, "failed to check paid assignments", "runID", runID)
		return nil, fmt.Errorf("failed to check paid assignments: %w", err)
	}

	now := time.Now()
	var items []domain.PayrollItem
	var deductions []domain.PayrollDeduction
	for i := range assignments {
		a := assignments[i]
		if alreadyPaid[a.AssignmentID] {
			s.LogInfo(ctx, "assignment already in another run, skipping", "runID", runID, "assignmentID", a.AssignmentID)
			continue
		}
		if !a.HoursWorked.IsPositive() {
			s.LogWarn(ctx, "assignment has no recorded hours, skipping", "runID", runID, "assignmentID", a.AssignmentID)
			continue
		}
		if a.ShiftDate.Before(run.PeriodStart) || a.ShiftDate.After(run.PeriodEnd) {
			s.LogWarn(ctx, "assignment shift date outside pay period, skipping", "runID", runID, "assignmentID", a.AssignmentID)
			continue
		}

		rate, err := paycalc.ResolveRate(a)
		if err != nil {
			s.LogWarn(ctx, "no usable pay rate for assignment, skipping", "runID", runID, "assignmentID", a.AssignmentID, "error", err.Error())
			continue
		}

		regularHours, overtimeHours := paycalc.SplitOvertime(a.HoursWorked, a.OvertimeHours)
		if regularHours.IsPositive() {
			item := s.newGeneratedItem(run, a, domain.ItemRegular, regularHours, rate, now, requestingUserID)
			deductions = append(deductions, s.calculator.Calculate(ctx, &item, now, requestingUserID)...)
			items = append(items, item)
		}
		if overtimeHours.IsPositive() {
			overtimeRate := paycalc.RoundMoney(rate.Mul(s.settings.OvertimeMultiplier))
			item := s.newGeneratedItem(run, a, domain.ItemOvertime, overtimeHours, overtimeRate, now, requestingUserID)
			deductions = append(deductions, s.calculator.Calculate(ctx, &item, now, requestingUserID)...)
			items = append(items, item)
		}
	}

	if err := s.itemRepo.SaveItemsInTx(ctx, tx, items); err != nil {
		s.LogError(ctx, err, "failed to save generated items", "runID", runID)
		return nil, fmt.Errorf("failed to save generated items: %w", err)
	}
	if err := s.itemRepo.SaveDeductionsInTx(ctx, tx, deductions); err != nil {
		s.LogError(ctx, err, "failed to save generated deductions", "runID", runID)
		return nil, fmt.Errorf("failed to save generated deductions: %w", err)
	}

	run.RecalculateTotals(items)
	run.LastUpdatedAt = now
	run.LastUpdatedBy = requestingUserID
	if err := s.runRepo.UpdateRunInTx(ctx, tx, *run); err != nil {
		s.LogError(ctx, err, "failed to update run totals after generation", "runID", runID)
		return nil, fmt.Errorf("failed to update run totals: %w", err)
	}
	if err := s.runRepo.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.LogInfo(ctx, "payroll items generated", "runID", runID,
		"assignments", len(assignments), "items", len(items),
		"workers", run.TotalWorkers, "grossAmount", run.GrossAmount.String())
	run.Items = items
	return run, nil
}

func (s *generationService) newGeneratedItem(run *domain.PayrollRun, a domain.CompletedAssignment, itemType domain.ItemType, hours, rate decimal.Decimal, now time.Time, userID string) domain.PayrollItem {
	shiftID := a.ShiftID
	assignmentID := a.AssignmentID
	description := fmt.Sprintf("Shift pay for %s", a.ShiftDate.Format("2006-01-02"))
	if itemType == domain.ItemOvertime {
		description = fmt.Sprintf("Overtime pay for %s", a.ShiftDate.Format("2006-01-02"))
	}
	return domain.PayrollItem{
		ItemID:       uuid.NewString(),
		RunID:        run.RunID,
		WorkerID:     a.WorkerID,
		ShiftID:      &shiftID,
		AssignmentID: &assignmentID,
		Type:         itemType,
		Status:       domain.ItemPending,
		Description:  description,
		Hours:        hours,
		Rate:         rate,
		GrossAmount:  paycalc.RoundMoney(hours.Mul(rate)),
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
}
