// Package paycalc holds the pure payroll arithmetic shared by the generator,
// the deduction calculator and the payment executor, so the same rounding and
// clamping rules apply everywhere money is derived.
package paycalc

import (
	"fmt"

	"github.com/shiftwise/payroll_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// moneyPlaces is the currency minor-unit precision. Amounts are rounded here
// at the point of creation, not deferred to display time, so ledger sums are
// exact.
const moneyPlaces = 2

var oneHundred = decimal.NewFromInt(100)

// RoundMoney rounds an amount to currency minor-unit precision.
func RoundMoney(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(moneyPlaces)
}

// ClampRatePct bounds a percentage input to [0, 100].
func ClampRatePct(ratePct decimal.Decimal) decimal.Decimal {
	if ratePct.IsNegative() {
		return decimal.Zero
	}
	if ratePct.GreaterThan(oneHundred) {
		return oneHundred
	}
	return ratePct
}

// PercentOf computes ratePct percent of amount, with the rate clamped to
// [0, 100] and the result rounded to minor units. Because the rate is bounded
// by 100%, the result never exceeds the amount, which is what keeps net pay
// non-negative by construction.
func PercentOf(amount, ratePct decimal.Decimal) decimal.Decimal {
	return RoundMoney(amount.Mul(ClampRatePct(ratePct)).Div(oneHundred))
}

// ResolveRate determines the hourly rate for a completed assignment, in
// priority order: an explicit pay amount recorded on the assignment divided by
// hours worked, the shift's finalized rate, the shift's base rate.
func ResolveRate(a domain.CompletedAssignment) (decimal.Decimal, error) {
	if a.PayAmount != nil && a.PayAmount.IsPositive() {
		if !a.HoursWorked.IsPositive() {
			return decimal.Zero, fmt.Errorf("assignment %s has a pay amount but no worked hours", a.AssignmentID)
		}
		return a.PayAmount.Div(a.HoursWorked), nil
	}
	if a.FinalizedRate != nil && a.FinalizedRate.IsPositive() {
		return *a.FinalizedRate, nil
	}
	if a.BaseRate.IsPositive() {
		return a.BaseRate, nil
	}
	return decimal.Zero, fmt.Errorf("no usable rate for assignment %s", a.AssignmentID)
}

// SplitOvertime separates total worked hours into regular and overtime
// portions. Overtime is capped at the total so bad upstream data cannot
// produce negative regular hours.
func SplitOvertime(hoursWorked, overtimeHours decimal.Decimal) (regular, overtime decimal.Decimal) {
	if overtimeHours.IsNegative() {
		overtimeHours = decimal.Zero
	}
	if overtimeHours.GreaterThan(hoursWorked) {
		overtimeHours = hoursWorked
	}
	return hoursWorked.Sub(overtimeHours), overtimeHours
}

// MinorUnits converts a monetary amount to integer minor units (cents) for
// the payment provider wire format.
func MinorUnits(amount decimal.Decimal) int64 {
	return RoundMoney(amount).Mul(oneHundred).IntPart()
}
