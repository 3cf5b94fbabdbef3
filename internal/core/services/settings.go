package services

import "github.com/shopspring/decimal"

// Settings carries the payroll policy knobs the services need. Values come
// from the platform configuration and are fixed for the process lifetime.
type Settings struct {
	PlatformFeeRate    decimal.Decimal // percentage, e.g. 10 means 10%
	DefaultTaxRate     decimal.Decimal // percentage fallback when no worker rate exists
	OvertimeMultiplier decimal.Decimal // e.g. 1.5
	MinimumPayout      decimal.Decimal // net amounts below this are not transferred
	AllowSelfApproval  bool
	CurrencyCode       string
	PaymentConcurrency int // worker groups paid in parallel
}
