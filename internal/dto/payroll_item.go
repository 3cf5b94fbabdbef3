package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/shiftwise/payroll_engine/internal/core/domain"
)

// AddManualItemRequest defines the payload for adding a manual line item to a
// draft run. Amount is required; hours and rate are optional annotations for
// hour-based adjustments.
type AddManualItemRequest struct {
	WorkerID    string          `json:"workerID" binding:"required"`
	Type        domain.ItemType `json:"type" binding:"required,oneof=BONUS REIMBURSEMENT ADJUSTMENT"`
	Description string          `json:"description" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required,positivedecimal"`
	Hours       decimal.Decimal `json:"hours"`
	Rate        decimal.Decimal `json:"rate"`
}

// DeductionResponse defines the data returned for one deduction ledger entry.
type DeductionResponse struct {
	DeductionID string           `json:"deductionID"`
	Type        string           `json:"type"`
	Description string           `json:"description"`
	Amount      decimal.Decimal  `json:"amount"`
	IsTax       bool             `json:"isTax"`
	RatePct     *decimal.Decimal `json:"ratePct,omitempty"`
}

// ItemResponse defines the data returned for a payroll item.
type ItemResponse struct {
	ItemID       string  `json:"itemID"`
	WorkerID     string  `json:"workerID"`
	ShiftID      *string `json:"shiftID,omitempty"`
	AssignmentID *string `json:"assignmentID,omitempty"`
	Type         string  `json:"type"`
	Status       string  `json:"status"`
	Description  string  `json:"description"`

	Hours          decimal.Decimal `json:"hours"`
	Rate           decimal.Decimal `json:"rate"`
	GrossAmount    decimal.Decimal `json:"grossAmount"`
	DeductionTotal decimal.Decimal `json:"deductionTotal"`
	TaxWithheld    decimal.Decimal `json:"taxWithheld"`
	NetAmount      decimal.Decimal `json:"netAmount"`

	TransferID       *string    `json:"transferID,omitempty"`
	PaymentReference *string    `json:"paymentReference,omitempty"`
	PaidAt           *time.Time `json:"paidAt,omitempty"`
	FailureReason    *string    `json:"failureReason,omitempty"`

	Deductions []DeductionResponse `json:"deductions,omitempty"`
}

// ToDeductionResponse converts a domain.PayrollDeduction to a DeductionResponse DTO.
func ToDeductionResponse(d *domain.PayrollDeduction) DeductionResponse {
	return DeductionResponse{
		DeductionID: d.DeductionID,
		Type:        string(d.Type),
		Description: d.Description,
		Amount:      d.Amount,
		IsTax:       d.IsTax,
		RatePct:     d.RatePct,
	}
}

// ToItemResponse converts a domain.PayrollItem to an ItemResponse DTO.
func ToItemResponse(i *domain.PayrollItem) ItemResponse {
	resp := ItemResponse{
		ItemID:           i.ItemID,
		WorkerID:         i.WorkerID,
		ShiftID:          i.ShiftID,
		AssignmentID:     i.AssignmentID,
		Type:             string(i.Type),
		Status:           string(i.Status),
		Description:      i.Description,
		Hours:            i.Hours,
		Rate:             i.Rate,
		GrossAmount:      i.GrossAmount,
		DeductionTotal:   i.DeductionTotal,
		TaxWithheld:      i.TaxWithheld,
		NetAmount:        i.NetAmount,
		TransferID:       i.TransferID,
		PaymentReference: i.PaymentReference,
		PaidAt:           i.PaidAt,
		FailureReason:    i.FailureReason,
	}
	for j := range i.Deductions {
		resp.Deductions = append(resp.Deductions, ToDeductionResponse(&i.Deductions[j]))
	}
	return resp
}

// ToItemResponses converts a slice of domain.PayrollItem to []ItemResponse.
func ToItemResponses(items []domain.PayrollItem) []ItemResponse {
	responses := make([]ItemResponse, len(items))
	for i := range items {
		responses[i] = ToItemResponse(&items[i])
	}
	return responses
}
