package services

import (
	"context"

	"github.com/shiftwise/payroll_engine/internal/core/domain"
	"github.com/shiftwise/payroll_engine/internal/core/ports/providers"
	portssvc "github.com/shiftwise/payroll_engine/internal/core/ports/services"
)

// eventDispatcher forwards outbox events to the notifier after the producing
// operation has committed. Delivery failures are logged and swallowed so a
// notification outage never rolls back payroll state.
type eventDispatcher struct {
	BaseService
	notifier providers.Notifier
}

// NewEventDispatcher creates a new event dispatcher.
func NewEventDispatcher(notifier providers.Notifier) portssvc.EventDispatcherSvc {
	return &eventDispatcher{notifier: notifier}
}

var _ portssvc.EventDispatcherSvc = (*eventDispatcher)(nil)

func (s *eventDispatcher) Dispatch(ctx context.Context, events []domain.Event) {
	for _, event := range events {
		var err error
		switch event.Kind {
		case domain.EventReadyForApproval:
			err = s.notifier.PayrollReadyForApproval(ctx, event.RunID)
		case domain.EventPaystubAvailable:
			err = s.notifier.PaystubAvailable(ctx, event.RunID, event.WorkerID)
		case domain.EventPaymentProcessed:
			err = s.notifier.PaymentProcessed(ctx, event.ItemID)
		default:
			s.LogWarn(ctx, "unknown event kind, dropping", "kind", string(event.Kind))
			continue
		}
		if err != nil {
			s.LogWarn(ctx, "event delivery failed", "kind", string(event.Kind), "runID", event.RunID, "error", err.Error())
		}
	}
}
