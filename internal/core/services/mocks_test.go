package services_test

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/shiftwise/payroll_engine/internal/core/domain"
	"github.com/shiftwise/payroll_engine/internal/core/ports/providers"
	portsrepo "github.com/shiftwise/payroll_engine/internal/core/ports/repositories"
)

// stubTx is a no-op pgx.Tx handed out by the mocked Begin.
type stubTx struct{}

var _ pgx.Tx = (*stubTx)(nil)

func (t *stubTx) Begin(ctx context.Context) (pgx.Tx, error) { return t, nil }
func (t *stubTx) Commit(ctx context.Context) error          { return nil }
func (t *stubTx) Rollback(ctx context.Context) error        { return nil }
func (t *stubTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (t *stubTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (t *stubTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (t *stubTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (t *stubTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}
func (t *stubTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (t *stubTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row { return nil }
func (t *stubTx) Conn() *pgx.Conn                                               { return nil }

// --- Mock RunRepository ---

type MockRunRepository struct {
	mock.Mock
}

var _ portsrepo.RunRepositoryWithTx = (*MockRunRepository)(nil)

func (m *MockRunRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockRunRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockRunRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockRunRepository) FindRunByID(ctx context.Context, runID string) (*domain.PayrollRun, error) {
	args := m.Called(ctx, runID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PayrollRun), args.Error(1)
}

func (m *MockRunRepository) FindRunByIDForUpdate(ctx context.Context, tx pgx.Tx, runID string) (*domain.PayrollRun, error) {
	args := m.Called(ctx, tx, runID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PayrollRun), args.Error(1)
}

func (m *MockRunRepository) ListRuns(ctx context.Context, limit int, nextToken *string) ([]domain.PayrollRun, *string, error) {
	args := m.Called(ctx, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedToken = &tokenVal
	}
	return args.Get(0).([]domain.PayrollRun), returnedToken, args.Error(2)
}

func (m *MockRunRepository) SaveRun(ctx context.Context, run domain.PayrollRun) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

func (m *MockRunRepository) UpdateRun(ctx context.Context, run domain.PayrollRun) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

func (m *MockRunRepository) UpdateRunInTx(ctx context.Context, tx pgx.Tx, run domain.PayrollRun) error {
	args := m.Called(ctx, tx, run)
	return args.Error(0)
}

func (m *MockRunRepository) DeleteRun(ctx context.Context, runID string) error {
	args := m.Called(ctx, runID)
	return args.Error(0)
}

// --- Mock ItemRepository ---

type MockItemRepository struct {
	mock.Mock
}

var _ portsrepo.ItemRepositoryWithTx = (*MockItemRepository)(nil)

func (m *MockItemRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockItemRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockItemRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockItemRepository) FindItemByID(ctx context.Context, itemID string) (*domain.PayrollItem, error) {
	args := m.Called(ctx, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PayrollItem), args.Error(1)
}

func (m *MockItemRepository) FindItemsByRunID(ctx context.Context, runID string) ([]domain.PayrollItem, error) {
	args := m.Called(ctx, runID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PayrollItem), args.Error(1)
}

func (m *MockItemRepository) FindItemsByRunIDForUpdate(ctx context.Context, tx pgx.Tx, runID string) ([]domain.PayrollItem, error) {
	args := m.Called(ctx, tx, runID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PayrollItem), args.Error(1)
}

func (m *MockItemRepository) FindPaidAssignmentIDs(ctx context.Context, tx pgx.Tx, assignmentIDs []string) (map[string]bool, error) {
	args := m.Called(ctx, tx, assignmentIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]bool), args.Error(1)
}

func (m *MockItemRepository) SaveItemsInTx(ctx context.Context, tx pgx.Tx, items []domain.PayrollItem) error {
	args := m.Called(ctx, tx, items)
	return args.Error(0)
}

func (m *MockItemRepository) UpdateItem(ctx context.Context, item domain.PayrollItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockItemRepository) PromoteItemsStatusInTx(ctx context.Context, tx pgx.Tx, runID string, from, to domain.ItemStatus, updatedBy string) error {
	args := m.Called(ctx, tx, runID, from, to, updatedBy)
	return args.Error(0)
}

func (m *MockItemRepository) DeleteItemInTx(ctx context.Context, tx pgx.Tx, itemID string) error {
	args := m.Called(ctx, tx, itemID)
	return args.Error(0)
}

func (m *MockItemRepository) DeleteItemsByRunIDInTx(ctx context.Context, tx pgx.Tx, runID string) error {
	args := m.Called(ctx, tx, runID)
	return args.Error(0)
}

func (m *MockItemRepository) FindDeductionsByItemIDs(ctx context.Context, itemIDs []string) (map[string][]domain.PayrollDeduction, error) {
	args := m.Called(ctx, itemIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string][]domain.PayrollDeduction), args.Error(1)
}

func (m *MockItemRepository) SaveDeductionsInTx(ctx context.Context, tx pgx.Tx, deductions []domain.PayrollDeduction) error {
	args := m.Called(ctx, tx, deductions)
	return args.Error(0)
}

func (m *MockItemRepository) DeleteDeductionsByItemIDInTx(ctx context.Context, tx pgx.Tx, itemID string) error {
	args := m.Called(ctx, tx, itemID)
	return args.Error(0)
}

// --- Mock providers ---

type MockShiftSource struct {
	mock.Mock
}

var _ providers.ShiftSource = (*MockShiftSource)(nil)

func (m *MockShiftSource) ListCompletedAssignments(ctx context.Context, periodStart, periodEnd time.Time) ([]domain.CompletedAssignment, error) {
	args := m.Called(ctx, periodStart, periodEnd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CompletedAssignment), args.Error(1)
}

type MockWorkerDirectory struct {
	mock.Mock
}

var _ providers.WorkerDirectory = (*MockWorkerDirectory)(nil)

func (m *MockWorkerDirectory) HasValidPayoutMethod(ctx context.Context, workerID string) (bool, error) {
	args := m.Called(ctx, workerID)
	return args.Bool(0), args.Error(1)
}

func (m *MockWorkerDirectory) PayoutDestination(ctx context.Context, workerID string) (string, error) {
	args := m.Called(ctx, workerID)
	return args.String(0), args.Error(1)
}

type MockTaxRateSource struct {
	mock.Mock
}

var _ providers.TaxRateSource = (*MockTaxRateSource)(nil)

func (m *MockTaxRateSource) EffectiveTaxRate(ctx context.Context, workerID string) (decimal.Decimal, bool, error) {
	args := m.Called(ctx, workerID)
	return args.Get(0).(decimal.Decimal), args.Bool(1), args.Error(2)
}

type MockPaymentProvider struct {
	mock.Mock
}

var _ providers.PaymentProvider = (*MockPaymentProvider)(nil)

func (m *MockPaymentProvider) Transfer(ctx context.Context, req providers.TransferRequest) (*providers.TransferResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*providers.TransferResult), args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

var _ providers.Notifier = (*MockNotifier)(nil)

func (m *MockNotifier) PayrollReadyForApproval(ctx context.Context, runID string) error {
	args := m.Called(ctx, runID)
	return args.Error(0)
}

func (m *MockNotifier) PaystubAvailable(ctx context.Context, runID, workerID string) error {
	args := m.Called(ctx, runID, workerID)
	return args.Error(0)
}

func (m *MockNotifier) PaymentProcessed(ctx context.Context, itemID string) error {
	args := m.Called(ctx, itemID)
	return args.Error(0)
}
