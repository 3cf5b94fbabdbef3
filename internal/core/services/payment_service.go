package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shiftwise/payroll_engine/internal/apperrors"
	"github.com/shiftwise/payroll_engine/internal/core/domain"
	"github.com/shiftwise/payroll_engine/internal/core/ports/providers"
	portsrepo "github.com/shiftwise/payroll_engine/internal/core/ports/repositories"
	portssvc "github.com/shiftwise/payroll_engine/internal/core/ports/services"
	"github.com/shiftwise/payroll_engine/internal/dto"
	"github.com/shiftwise/payroll_engine/internal/utils/paycalc"
	"github.com/shiftwise/payroll_engine/internal/utils/payref"
)

// paymentService drives per-item payment execution for an approved run.
// Items are grouped by worker; groups run concurrently up to the configured
// bound while items within a group stay strictly sequential, so one worker
// never sees two in-flight transfers.
type paymentService struct {
	BaseService
	runRepo  portsrepo.RunRepositoryWithTx
	itemRepo portsrepo.ItemRepositoryWithTx
	workers  providers.WorkerDirectory
	payments providers.PaymentProvider
	events   portssvc.EventDispatcherSvc
	settings Settings
}

// NewPaymentService creates a new payment service.
func NewPaymentService(runRepo portsrepo.RunRepositoryWithTx, itemRepo portsrepo.ItemRepositoryWithTx, workers providers.WorkerDirectory, payments providers.PaymentProvider, events portssvc.EventDispatcherSvc, settings Settings) portssvc.PaymentSvc {
	return &paymentService{
		runRepo:  runRepo,
		itemRepo: itemRepo,
		workers:  workers,
		payments: payments,
		events:   events,
		settings: settings,
	}
}

var _ portssvc.PaymentSvc = (*paymentService)(nil)

// groupOutcome accumulates the result of paying one worker's items.
type groupOutcome struct {
	successful int
	failed     int
	skipped    int
	errors     []dto.ItemError
	events     []domain.Event
}

// ProcessRun pays the items of an approved (or partially processed) run.
// Per-item failures are recorded on the item and reported in the summary; the
// run status rolls up from the aggregate outcome.
func (s *paymentService) ProcessRun(ctx context.Context, runID string, requestingUserID string) (*dto.ProcessRunSummary, error) {
	run, err := s.markProcessing(ctx, runID, requestingUserID)
	if err != nil {
		return nil, err
	}

	items, err := s.itemRepo.FindItemsByRunID(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to load items for run %s: %w", runID, err)
	}

	groups := groupByWorker(items)
	workerIDs := make([]string, 0, len(groups))
	for workerID := range groups {
		workerIDs = append(workerIDs, workerID)
	}
	sort.Strings(workerIDs)

	concurrency := s.settings.PaymentConcurrency
	if concurrency < 1 {
		concurrency = 1
	}

	outcomes := make([]groupOutcome, len(workerIDs))
	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup
	for i, workerID := range workerIDs {
		wg.Add(1)
		go func(slot int, workerID string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			outcomes[slot] = s.payWorkerItems(ctx, run, workerID, groups[workerID], requestingUserID)
		}(i, workerID)
	}
	wg.Wait()

	summary := &dto.ProcessRunSummary{
		RunID: runID,
		Total: len(items),
	}
	var events []domain.Event
	paidWorkers := make(map[string]bool)
	for i, outcome := range outcomes {
		summary.Successful += outcome.successful
		summary.Failed += outcome.failed
		summary.Skipped += outcome.skipped
		summary.Errors = append(summary.Errors, outcome.errors...)
		events = append(events, outcome.events...)
		if outcome.successful > 0 {
			paidWorkers[workerIDs[i]] = true
		}
	}

	finalStatus := rollUpStatus(summary)
	if finalStatus == domain.RunCompleted {
		for _, workerID := range workerIDs {
			if paidWorkers[workerID] {
				events = append(events, domain.Event{
					Kind:     domain.EventPaystubAvailable,
					RunID:    runID,
					WorkerID: workerID,
				})
			}
		}
	}

	if finalStatus != run.Status {
		now := time.Now()
		run.Status = finalStatus
		run.LastUpdatedAt = now
		run.LastUpdatedBy = requestingUserID
		if err := s.runRepo.UpdateRun(ctx, *run); err != nil {
			s.LogError(ctx, err, "failed to persist final run status", "runID", runID, "status", string(finalStatus))
			return nil, fmt.Errorf("failed to update run status: %w", err)
		}
	}
	summary.RunStatus = string(finalStatus)

	s.LogInfo(ctx, "payment pass finished", "runID", runID,
		"status", string(finalStatus), "successful", summary.Successful,
		"failed", summary.Failed, "skipped", summary.Skipped)
	s.events.Dispatch(ctx, events)
	return summary, nil
}

// markProcessing transitions the run to processing and stamps ProcessedAt on
// the first pass. Reprocessing an already processing run is permitted so a
// partially failed pass can be resumed.
func (s *paymentService) markProcessing(ctx context.Context, runID string, userID string) (*domain.PayrollRun, error) {
	tx, err := s.runRepo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer s.runRepo.Rollback(ctx, tx)

	run, err := s.runRepo.FindRunByIDForUpdate(ctx, tx, runID)
	if err != nil {
		return nil, err
	}
	if !run.Status.CanTransitionTo(domain.RunProcessing) {
		return nil, fmt.Errorf("%w: cannot process run in status %s", apperrors.ErrInvalidState, run.Status)
	}

	now := time.Now()
	run.Status = domain.RunProcessing
	if run.ProcessedAt == nil {
		run.ProcessedAt = &now
	}
	run.LastUpdatedAt = now
	run.LastUpdatedBy = userID
	if err := s.runRepo.UpdateRunInTx(ctx, tx, *run); err != nil {
		return nil, fmt.Errorf("failed to mark run processing: %w", err)
	}
	if err := s.runRepo.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return run, nil
}

// payWorkerItems settles one worker's items sequentially. Each item outcome
// is persisted immediately so progress survives interruption mid-run.
func (s *paymentService) payWorkerItems(ctx context.Context, run *domain.PayrollRun, workerID string, items []domain.PayrollItem, userID string) groupOutcome {
	var out groupOutcome
	for i := range items {
		item := items[i]
		switch item.Status {
		case domain.ItemPaid:
			out.skipped++
			continue
		case domain.ItemApproved, domain.ItemFailed:
			// Approved items are paid; failed ones are re-attempted.
		default:
			out.skipped++
			s.LogWarn(ctx, "item not payable, skipping", "runID", run.RunID, "itemID", item.ItemID, "status", string(item.Status))
			continue
		}

		if item.NetAmount.LessThan(s.settings.MinimumPayout) {
			out.skipped++
			s.LogInfo(ctx, "net amount below minimum payout, skipping", "runID", run.RunID, "itemID", item.ItemID, "netAmount", item.NetAmount.String())
			continue
		}

		if err := s.payItem(ctx, run, &item, userID); err != nil {
			out.failed++
			out.errors = append(out.errors, dto.ItemError{
				ItemID:   item.ItemID,
				WorkerID: workerID,
				Reason:   err.Error(),
			})
			s.LogWarn(ctx, "item payment failed", "runID", run.RunID, "itemID", item.ItemID, "workerID", workerID, "error", err.Error())
			continue
		}
		out.successful++
		out.events = append(out.events, domain.Event{
			Kind:   domain.EventPaymentProcessed,
			RunID:  run.RunID,
			ItemID: item.ItemID,
		})
	}
	return out
}

// payItem executes a single transfer and persists the resulting item state.
// The returned error is the per-item failure reason; it never aborts the run.
func (s *paymentService) payItem(ctx context.Context, run *domain.PayrollRun, item *domain.PayrollItem, userID string) error {
	now := time.Now()
	fail := func(reason error) error {
		msg := reason.Error()
		item.Status = domain.ItemFailed
		item.FailureReason = &msg
		item.LastUpdatedAt = now
		item.LastUpdatedBy = userID
		if err := s.itemRepo.UpdateItem(ctx, *item); err != nil {
			s.LogError(ctx, err, "failed to persist item failure", "itemID", item.ItemID)
		}
		return reason
	}

	valid, err := s.workers.HasValidPayoutMethod(ctx, item.WorkerID)
	if err != nil {
		return fail(fmt.Errorf("payout method check failed: %w", err))
	}
	if !valid {
		return fail(fmt.Errorf("%w: worker %s", apperrors.ErrInvalidPayoutMethod, item.WorkerID))
	}
	destination, err := s.workers.PayoutDestination(ctx, item.WorkerID)
	if err != nil {
		return fail(fmt.Errorf("payout destination lookup failed: %w", err))
	}

	result, err := s.payments.Transfer(ctx, providers.TransferRequest{
		AmountMinorUnits: paycalc.MinorUnits(item.NetAmount),
		CurrencyCode:     run.CurrencyCode,
		DestinationToken: destination,
		IdempotencyKey:   payref.IdempotencyKey(run.ReferenceCode, item.ItemID),
		Metadata: map[string]string{
			"runID":    run.RunID,
			"itemID":   item.ItemID,
			"workerID": item.WorkerID,
		},
	})
	if err != nil {
		return fail(fmt.Errorf("transfer failed: %w", err))
	}

	reference, err := payref.NewPaymentReference()
	if err != nil {
		return fail(fmt.Errorf("failed to generate payment reference: %w", err))
	}

	item.Status = domain.ItemPaid
	item.TransferID = &result.TransferID
	item.PaymentReference = &reference
	item.PaidAt = &now
	item.FailureReason = nil
	item.LastUpdatedAt = now
	item.LastUpdatedBy = userID
	if err := s.itemRepo.UpdateItem(ctx, *item); err != nil {
		// The transfer went through; surfacing this as an item failure would
		// double-pay on retry were it not for the idempotency key.
		s.LogError(ctx, err, "failed to persist paid item", "itemID", item.ItemID, "transferID", result.TransferID)
		return fmt.Errorf("transfer succeeded but item update failed: %w", err)
	}
	return nil
}

func groupByWorker(items []domain.PayrollItem) map[string][]domain.PayrollItem {
	groups := make(map[string][]domain.PayrollItem, len(items))
	for i := range items {
		groups[items[i].WorkerID] = append(groups[items[i].WorkerID], items[i])
	}
	return groups
}

// rollUpStatus derives the run status from a pass's aggregate outcome:
// completed when something succeeded and nothing failed, failed when
// everything attempted failed, otherwise the run stays processing.
func rollUpStatus(summary *dto.ProcessRunSummary) domain.RunStatus {
	switch {
	case summary.Failed == 0 && summary.Successful > 0:
		return domain.RunCompleted
	case summary.Failed > 0 && summary.Successful == 0:
		return domain.RunFailed
	default:
		return domain.RunProcessing
	}
}
