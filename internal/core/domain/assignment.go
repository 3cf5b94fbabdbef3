package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CompletedAssignment is the read model handed over by the external shift
// subsystem: one completed, payable shift assignment. Workers and shifts are
// referenced here, never owned.
type CompletedAssignment struct {
	AssignmentID  string          `json:"assignmentID"`
	ShiftID       string          `json:"shiftID"`
	WorkerID      string          `json:"workerID"`
	ShiftDate     time.Time       `json:"shiftDate"`
	HoursWorked   decimal.Decimal `json:"hoursWorked"`
	OvertimeHours decimal.Decimal `json:"overtimeHours"`

	// Rate inputs in resolution priority order: an explicit pay amount recorded
	// on the assignment, the shift's finalized rate, the shift's base rate.
	PayAmount     *decimal.Decimal `json:"payAmount,omitempty"`
	FinalizedRate *decimal.Decimal `json:"finalizedRate,omitempty"`
	BaseRate      decimal.Decimal  `json:"baseRate"`
}
