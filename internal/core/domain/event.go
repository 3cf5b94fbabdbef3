package domain

// EventKind identifies an outbound notification event.
type EventKind string

const (
	EventReadyForApproval EventKind = "payroll.ready_for_approval"
	EventPaystubAvailable EventKind = "payroll.paystub_available"
	EventPaymentProcessed EventKind = "payroll.payment_processed"
)

// Event is an outbox entry produced by a payroll operation. Operations return
// their events instead of dispatching inline; a dispatcher drains them after
// the transaction commits so delivery failures never affect run or item state.
type Event struct {
	Kind     EventKind
	RunID    string
	WorkerID string // set for paystub events
	ItemID   string // set for payment events
}
