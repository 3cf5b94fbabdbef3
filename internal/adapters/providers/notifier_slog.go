package providers

import (
	"context"
	"log/slog"

	"github.com/shiftwise/payroll_engine/internal/core/ports/providers"
)

// SlogNotifier emits payroll events as structured log records. It stands in
// for a real notification bus; consumers tail the log stream.
type SlogNotifier struct {
	logger *slog.Logger
}

// NewSlogNotifier creates a notifier that writes to the given logger.
func NewSlogNotifier(logger *slog.Logger) *SlogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogNotifier{logger: logger}
}

var _ providers.Notifier = (*SlogNotifier)(nil)

func (n *SlogNotifier) PayrollReadyForApproval(ctx context.Context, runID string) error {
	n.logger.InfoContext(ctx, "payroll ready for approval", "event", "payroll.ready_for_approval", "runID", runID)
	return nil
}

func (n *SlogNotifier) PaystubAvailable(ctx context.Context, runID, workerID string) error {
	n.logger.InfoContext(ctx, "paystub available", "event", "payroll.paystub_available", "runID", runID, "workerID", workerID)
	return nil
}

func (n *SlogNotifier) PaymentProcessed(ctx context.Context, itemID string) error {
	n.logger.InfoContext(ctx, "payment processed", "event", "payroll.payment_processed", "itemID", itemID)
	return nil
}
