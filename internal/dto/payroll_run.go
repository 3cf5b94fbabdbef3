package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/shiftwise/payroll_engine/internal/core/domain"
)

// CreateRunRequest defines the payload for creating a draft payroll run.
type CreateRunRequest struct {
	PeriodStart  time.Time `json:"periodStart" binding:"required"`
	PeriodEnd    time.Time `json:"periodEnd" binding:"required"`
	PayDate      time.Time `json:"payDate" binding:"required"`
	CurrencyCode string    `json:"currencyCode" binding:"required,uppercase,len=3"`
}

// RunResponse defines the data returned for a payroll run.
type RunResponse struct {
	RunID         string `json:"runID"`
	ReferenceCode string `json:"referenceCode"`
	PeriodStart   string `json:"periodStart"`
	PeriodEnd     string `json:"periodEnd"`
	PayDate       string `json:"payDate"`
	CurrencyCode  string `json:"currencyCode"`
	Status        string `json:"status"`

	TotalWorkers    int             `json:"totalWorkers"`
	TotalShifts     int             `json:"totalShifts"`
	GrossAmount     decimal.Decimal `json:"grossAmount"`
	TotalDeductions decimal.Decimal `json:"totalDeductions"`
	TotalTaxes      decimal.Decimal `json:"totalTaxes"`
	NetAmount       decimal.Decimal `json:"netAmount"`

	ApproverID  *string    `json:"approverID,omitempty"`
	ApprovedAt  *time.Time `json:"approvedAt,omitempty"`
	ProcessedAt *time.Time `json:"processedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	CreatedBy   string     `json:"createdBy"`

	Items []ItemResponse `json:"items,omitempty"`
}

const dateFormat = "2006-01-02"

// ToRunResponse converts a domain.PayrollRun to a RunResponse DTO.
func ToRunResponse(r *domain.PayrollRun) RunResponse {
	resp := RunResponse{
		RunID:           r.RunID,
		ReferenceCode:   r.ReferenceCode,
		PeriodStart:     r.PeriodStart.Format(dateFormat),
		PeriodEnd:       r.PeriodEnd.Format(dateFormat),
		PayDate:         r.PayDate.Format(dateFormat),
		CurrencyCode:    r.CurrencyCode,
		Status:          string(r.Status),
		TotalWorkers:    r.TotalWorkers,
		TotalShifts:     r.TotalShifts,
		GrossAmount:     r.GrossAmount,
		TotalDeductions: r.TotalDeductions,
		TotalTaxes:      r.TotalTaxes,
		NetAmount:       r.NetAmount,
		ApproverID:      r.ApproverID,
		ApprovedAt:      r.ApprovedAt,
		ProcessedAt:     r.ProcessedAt,
		CreatedAt:       r.CreatedAt,
		CreatedBy:       r.CreatedBy,
	}
	if r.Items != nil {
		resp.Items = ToItemResponses(r.Items)
	}
	return resp
}

// ListRunsParams holds parameters for listing payroll runs.
type ListRunsParams struct {
	Limit     int     `form:"limit"`
	NextToken *string `form:"nextToken"`
}

// ListRunsResponse is the paginated list payload.
type ListRunsResponse struct {
	Runs      []RunResponse `json:"runs"`
	NextToken *string       `json:"nextToken,omitempty"`
}
