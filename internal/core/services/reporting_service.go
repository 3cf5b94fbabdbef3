package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"

	"github.com/shiftwise/payroll_engine/internal/apperrors"
	"github.com/shiftwise/payroll_engine/internal/core/domain"
	portsrepo "github.com/shiftwise/payroll_engine/internal/core/ports/repositories"
	portssvc "github.com/shiftwise/payroll_engine/internal/core/ports/services"
	"github.com/shiftwise/payroll_engine/internal/dto"
)

const dateFormat = "2006-01-02"

// paystubDeductionOrder fixes the ordering of deduction totals on a paystub
// so repeated renders of the same run are stable.
var paystubDeductionOrder = []domain.DeductionType{
	domain.DeductionPlatformFee,
	domain.DeductionTax,
	domain.DeductionGarnishment,
	domain.DeductionAdvanceRepayment,
	domain.DeductionOther,
}

// reportingService serves worker paystubs and run exports. Reports are
// read-only projections over the run's persisted items and ledger.
type reportingService struct {
	BaseService
	runRepo  portsrepo.RunRepositoryWithTx
	itemRepo portsrepo.ItemRepositoryWithTx
}

// NewReportingService creates a new reporting service.
func NewReportingService(runRepo portsrepo.RunRepositoryWithTx, itemRepo portsrepo.ItemRepositoryWithTx) portssvc.ReportingSvc {
	return &reportingService{runRepo: runRepo, itemRepo: itemRepo}
}

var _ portssvc.ReportingSvc = (*reportingService)(nil)

// Paystub aggregates one worker's items and deductions within a run.
func (s *reportingService) Paystub(ctx context.Context, runID string, workerID string) (*dto.PaystubResponse, error) {
	run, err := s.runRepo.FindRunByID(ctx, runID)
	if err != nil {
		return nil, err
	}
	items, err := s.itemRepo.FindItemsByRunID(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to load items for run %s: %w", runID, err)
	}

	var workerItems []domain.PayrollItem
	for i := range items {
		if items[i].WorkerID == workerID {
			workerItems = append(workerItems, items[i])
		}
	}
	if len(workerItems) == 0 {
		return nil, fmt.Errorf("%w: worker %s has no items in run %s", apperrors.ErrNotFound, workerID, runID)
	}

	itemIDs := make([]string, 0, len(workerItems))
	for i := range workerItems {
		itemIDs = append(itemIDs, workerItems[i].ItemID)
	}
	deductionsByItem, err := s.itemRepo.FindDeductionsByItemIDs(ctx, itemIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load deductions: %w", err)
	}

	stub := &dto.PaystubResponse{
		RunID:           run.RunID,
		ReferenceCode:   run.ReferenceCode,
		PeriodStart:     run.PeriodStart.Format(dateFormat),
		PeriodEnd:       run.PeriodEnd.Format(dateFormat),
		PayDate:         run.PayDate.Format(dateFormat),
		CurrencyCode:    run.CurrencyCode,
		WorkerID:        workerID,
		TotalGross:      decimal.Zero,
		TotalDeductions: decimal.Zero,
		TotalTaxes:      decimal.Zero,
		TotalNet:        decimal.Zero,
	}

	deductionTotals := make(map[domain.DeductionType]decimal.Decimal)
	for i := range workerItems {
		item := workerItems[i]
		stub.Earnings = append(stub.Earnings, dto.PaystubEarning{
			ItemID:      item.ItemID,
			Type:        string(item.Type),
			Description: item.Description,
			ShiftID:     item.ShiftID,
			Hours:       item.Hours,
			Rate:        item.Rate,
			GrossAmount: item.GrossAmount,
			NetAmount:   item.NetAmount,
			Status:      string(item.Status),
		})
		stub.TotalGross = stub.TotalGross.Add(item.GrossAmount)
		stub.TotalDeductions = stub.TotalDeductions.Add(item.DeductionTotal)
		stub.TotalTaxes = stub.TotalTaxes.Add(item.TaxWithheld)
		stub.TotalNet = stub.TotalNet.Add(item.NetAmount)

		for _, d := range deductionsByItem[item.ItemID] {
			deductionTotals[d.Type] = deductionTotals[d.Type].Add(d.Amount)
		}
	}

	for _, dedType := range paystubDeductionOrder {
		if amount, ok := deductionTotals[dedType]; ok {
			stub.Deductions = append(stub.Deductions, dto.PaystubDeductionTotal{
				Type:   string(dedType),
				Amount: amount,
			})
		}
	}
	return stub, nil
}

// Export serializes the full run in the requested format. It returns the
// payload bytes and the matching content type.
func (s *reportingService) Export(ctx context.Context, runID string, format dto.ExportFormat) ([]byte, string, error) {
	if !format.Valid() {
		return nil, "", fmt.Errorf("%w: unsupported export format %q", apperrors.ErrValidation, format)
	}

	run, err := s.runRepo.FindRunByID(ctx, runID)
	if err != nil {
		return nil, "", err
	}
	items, err := s.itemRepo.FindItemsByRunID(ctx, runID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load items for run %s: %w", runID, err)
	}

	rows := make([]dto.ExportRow, 0, len(items))
	workers := make(map[string]bool)
	for i := range items {
		item := items[i]
		workers[item.WorkerID] = true
		row := dto.ExportRow{
			ReferenceCode:  run.ReferenceCode,
			WorkerID:       item.WorkerID,
			ItemType:       string(item.Type),
			Status:         string(item.Status),
			Description:    item.Description,
			Hours:          item.Hours,
			Rate:           item.Rate,
			GrossAmount:    item.GrossAmount,
			DeductionTotal: item.DeductionTotal,
			TaxWithheld:    item.TaxWithheld,
			NetAmount:      item.NetAmount,
		}
		if item.ShiftID != nil {
			row.ShiftID = *item.ShiftID
		}
		rows = append(rows, row)
	}

	summary := dto.ExportSummary{
		TotalItems:      len(items),
		TotalWorkers:    len(workers),
		GrossAmount:     run.GrossAmount,
		TotalDeductions: run.TotalDeductions,
		TotalTaxes:      run.TotalTaxes,
		NetAmount:       run.NetAmount,
	}

	switch format {
	case dto.ExportJSON:
		payload := dto.RunExport{
			RunID:         run.RunID,
			ReferenceCode: run.ReferenceCode,
			CurrencyCode:  run.CurrencyCode,
			Status:        string(run.Status),
			Rows:          rows,
			Summary:       summary,
		}
		data, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return nil, "", fmt.Errorf("failed to marshal export: %w", err)
		}
		return data, "application/json", nil
	default:
		rowsCSV, err := gocsv.MarshalString(&rows)
		if err != nil {
			return nil, "", fmt.Errorf("failed to marshal export rows: %w", err)
		}
		summaryCSV, err := gocsv.MarshalString(&[]dto.ExportSummary{summary})
		if err != nil {
			return nil, "", fmt.Errorf("failed to marshal export summary: %w", err)
		}
		var b strings.Builder
		b.WriteString(rowsCSV)
		b.WriteString("\n")
		b.WriteString(summaryCSV)
		return []byte(b.String()), "text/csv", nil
	}
}
