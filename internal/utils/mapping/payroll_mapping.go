package mapping

import (
	"github.com/shiftwise/payroll_engine/internal/core/domain"
	"github.com/shiftwise/payroll_engine/internal/models"
)

// ToModelPayrollRun converts a domain PayrollRun to a model PayrollRun
func ToModelPayrollRun(d domain.PayrollRun) models.PayrollRun {
	return models.PayrollRun{
		RunID:           d.RunID,
		ReferenceCode:   d.ReferenceCode,
		PeriodStart:     d.PeriodStart,
		PeriodEnd:       d.PeriodEnd,
		PayDate:         d.PayDate,
		CurrencyCode:    d.CurrencyCode,
		Status:          models.RunStatus(d.Status),
		TotalWorkers:    d.TotalWorkers,
		TotalShifts:     d.TotalShifts,
		GrossAmount:     d.GrossAmount,
		TotalDeductions: d.TotalDeductions,
		TotalTaxes:      d.TotalTaxes,
		NetAmount:       d.NetAmount,
		ApproverID:      d.ApproverID,
		ApprovedAt:      d.ApprovedAt,
		ProcessedAt:     d.ProcessedAt,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainPayrollRun converts a model PayrollRun to a domain PayrollRun
func ToDomainPayrollRun(m models.PayrollRun) domain.PayrollRun {
	return domain.PayrollRun{
		RunID:           m.RunID,
		ReferenceCode:   m.ReferenceCode,
		PeriodStart:     m.PeriodStart,
		PeriodEnd:       m.PeriodEnd,
		PayDate:         m.PayDate,
		CurrencyCode:    m.CurrencyCode,
		Status:          domain.RunStatus(m.Status),
		TotalWorkers:    m.TotalWorkers,
		TotalShifts:     m.TotalShifts,
		GrossAmount:     m.GrossAmount,
		TotalDeductions: m.TotalDeductions,
		TotalTaxes:      m.TotalTaxes,
		NetAmount:       m.NetAmount,
		ApproverID:      m.ApproverID,
		ApprovedAt:      m.ApprovedAt,
		ProcessedAt:     m.ProcessedAt,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelPayrollItem converts a domain PayrollItem to a model PayrollItem
func ToModelPayrollItem(d domain.PayrollItem) models.PayrollItem {
	return models.PayrollItem{
		ItemID:           d.ItemID,
		RunID:            d.RunID,
		WorkerID:         d.WorkerID,
		ShiftID:          d.ShiftID,
		AssignmentID:     d.AssignmentID,
		Type:             models.ItemType(d.Type),
		Status:           models.ItemStatus(d.Status),
		Description:      d.Description,
		Hours:            d.Hours,
		Rate:             d.Rate,
		GrossAmount:      d.GrossAmount,
		DeductionTotal:   d.DeductionTotal,
		TaxWithheld:      d.TaxWithheld,
		NetAmount:        d.NetAmount,
		TransferID:       d.TransferID,
		PaymentReference: d.PaymentReference,
		PaidAt:           d.PaidAt,
		FailureReason:    d.FailureReason,
		AuditFields:      ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainPayrollItem converts a model PayrollItem to a domain PayrollItem
func ToDomainPayrollItem(m models.PayrollItem) domain.PayrollItem {
	return domain.PayrollItem{
		ItemID:           m.ItemID,
		RunID:            m.RunID,
		WorkerID:         m.WorkerID,
		ShiftID:          m.ShiftID,
		AssignmentID:     m.AssignmentID,
		Type:             domain.ItemType(m.Type),
		Status:           domain.ItemStatus(m.Status),
		Description:      m.Description,
		Hours:            m.Hours,
		Rate:             m.Rate,
		GrossAmount:      m.GrossAmount,
		DeductionTotal:   m.DeductionTotal,
		TaxWithheld:      m.TaxWithheld,
		NetAmount:        m.NetAmount,
		TransferID:       m.TransferID,
		PaymentReference: m.PaymentReference,
		PaidAt:           m.PaidAt,
		FailureReason:    m.FailureReason,
		AuditFields:      ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelPayrollDeduction converts a domain PayrollDeduction to a model PayrollDeduction
func ToModelPayrollDeduction(d domain.PayrollDeduction) models.PayrollDeduction {
	return models.PayrollDeduction{
		DeductionID: d.DeductionID,
		ItemID:      d.ItemID,
		Type:        models.DeductionType(d.Type),
		Description: d.Description,
		Amount:      d.Amount,
		IsTax:       d.IsTax,
		RatePct:     d.RatePct,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainPayrollDeduction converts a model PayrollDeduction to a domain PayrollDeduction
func ToDomainPayrollDeduction(m models.PayrollDeduction) domain.PayrollDeduction {
	return domain.PayrollDeduction{
		DeductionID: m.DeductionID,
		ItemID:      m.ItemID,
		Type:        domain.DeductionType(m.Type),
		Description: m.Description,
		Amount:      m.Amount,
		IsTax:       m.IsTax,
		RatePct:     m.RatePct,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}
