package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shiftwise/payroll_engine/internal/core/domain"
	"github.com/shiftwise/payroll_engine/internal/core/ports/providers"
	"github.com/shiftwise/payroll_engine/internal/utils/paycalc"
)

// deductionCalculator builds the deduction ledger for a payroll item and
// settles its deduction, tax and net amounts from the gross amount.
type deductionCalculator struct {
	BaseService
	taxRates providers.TaxRateSource
	settings Settings
}

func newDeductionCalculator(taxRates providers.TaxRateSource, settings Settings) *deductionCalculator {
	return &deductionCalculator{taxRates: taxRates, settings: settings}
}

// Calculate mutates item's DeductionTotal, TaxWithheld and NetAmount and
// returns the ledger entries backing them. Exempt item types get a net equal
// to gross and an empty ledger.
func (c *deductionCalculator) Calculate(ctx context.Context, item *domain.PayrollItem, now time.Time, userID string) []domain.PayrollDeduction {
	item.DeductionTotal = decimal.Zero
	item.TaxWithheld = decimal.Zero
	if item.Type.DeductionExempt() {
		item.NetAmount = item.GrossAmount
		return nil
	}

	audit := domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     userID,
		LastUpdatedAt: now,
		LastUpdatedBy: userID,
	}

	var entries []domain.PayrollDeduction

	feeRate := paycalc.ClampRatePct(c.settings.PlatformFeeRate)
	fee := paycalc.PercentOf(item.GrossAmount, feeRate)
	if fee.IsPositive() {
		entries = append(entries, domain.PayrollDeduction{
			DeductionID: uuid.NewString(),
			ItemID:      item.ItemID,
			Type:        domain.DeductionPlatformFee,
			Description: fmt.Sprintf("Platform fee (%s%%)", feeRate.String()),
			Amount:      fee,
			IsTax:       false,
			RatePct:     &feeRate,
			AuditFields: audit,
		})
		item.DeductionTotal = item.DeductionTotal.Add(fee)
	}

	taxRate := c.resolveTaxRate(ctx, item.WorkerID)
	// Tax applies to the gross after non-tax deductions.
	taxable := item.GrossAmount.Sub(item.DeductionTotal)
	tax := paycalc.PercentOf(taxable, taxRate)
	if tax.IsPositive() {
		entries = append(entries, domain.PayrollDeduction{
			DeductionID: uuid.NewString(),
			ItemID:      item.ItemID,
			Type:        domain.DeductionTax,
			Description: fmt.Sprintf("Withholding tax (%s%%)", taxRate.String()),
			Amount:      tax,
			IsTax:       true,
			RatePct:     &taxRate,
			AuditFields: audit,
		})
		item.TaxWithheld = tax
	}

	item.NetAmount = item.GrossAmount.Sub(item.DeductionTotal).Sub(item.TaxWithheld)
	if item.NetAmount.IsNegative() {
		item.NetAmount = decimal.Zero
	}
	return entries
}

func (c *deductionCalculator) resolveTaxRate(ctx context.Context, workerID string) decimal.Decimal {
	rate, found, err := c.taxRates.EffectiveTaxRate(ctx, workerID)
	if err != nil {
		c.LogWarn(ctx, "tax rate lookup failed, using default rate", "workerID", workerID, "error", err.Error())
		return paycalc.ClampRatePct(c.settings.DefaultTaxRate)
	}
	if !found {
		c.LogWarn(ctx, "no tax rate resolved for worker, using default rate", "workerID", workerID, "defaultRatePct", c.settings.DefaultTaxRate.String())
		return paycalc.ClampRatePct(c.settings.DefaultTaxRate)
	}
	return paycalc.ClampRatePct(rate)
}
