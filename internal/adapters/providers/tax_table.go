package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/shopspring/decimal"

	portsproviders "github.com/shiftwise/payroll_engine/internal/core/ports/providers"
)

// StaticTaxTable implements TaxRateSource from an in-memory worker -> rate
// map. Workers absent from the table report as unresolved, which makes the
// calculator fall back to the configured default rate.
type StaticTaxTable struct {
	rates map[string]decimal.Decimal
}

// NewStaticTaxTable creates a tax table from the given rates.
func NewStaticTaxTable(rates map[string]decimal.Decimal) *StaticTaxTable {
	if rates == nil {
		rates = map[string]decimal.Decimal{}
	}
	return &StaticTaxTable{rates: rates}
}

// LoadTaxTable reads a JSON file of worker id to percentage rate. An empty
// path yields an empty table.
func LoadTaxTable(path string) (*StaticTaxTable, error) {
	if path == "" {
		return NewStaticTaxTable(nil), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tax table %s: %w", path, err)
	}
	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid tax table %s: %w", path, err)
	}
	rates := make(map[string]decimal.Decimal, len(raw))
	for workerID, rate := range raw {
		d, err := decimal.NewFromString(rate)
		if err != nil {
			return nil, fmt.Errorf("invalid tax rate %q for worker %s: %w", rate, workerID, err)
		}
		rates[workerID] = d
	}
	return NewStaticTaxTable(rates), nil
}

var _ portsproviders.TaxRateSource = (*StaticTaxTable)(nil)

// EffectiveTaxRate returns the worker's rate and whether it was resolved.
func (t *StaticTaxTable) EffectiveTaxRate(_ context.Context, workerID string) (decimal.Decimal, bool, error) {
	rate, ok := t.rates[workerID]
	return rate, ok, nil
}
