package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/shiftwise/payroll_engine/internal/apperrors"
	"github.com/shiftwise/payroll_engine/internal/core/domain"
	portssvc "github.com/shiftwise/payroll_engine/internal/core/ports/services"
	"github.com/shiftwise/payroll_engine/internal/core/services"
)

type GenerationServiceTestSuite struct {
	suite.Suite
	mockRunRepo  *MockRunRepository
	mockItemRepo *MockItemRepository
	mockShifts   *MockShiftSource
	mockTaxRates *MockTaxRateSource
	service      portssvc.GenerationSvc
	userID       string
	run          *domain.PayrollRun
}

func (suite *GenerationServiceTestSuite) SetupTest() {
	suite.mockRunRepo = new(MockRunRepository)
	suite.mockItemRepo = new(MockItemRepository)
	suite.mockShifts = new(MockShiftSource)
	suite.mockTaxRates = new(MockTaxRateSource)
	suite.userID = uuid.NewString()
	suite.service = services.NewGenerationService(suite.mockRunRepo, suite.mockItemRepo, suite.mockShifts, suite.mockTaxRates, testSettings())

	suite.run = &domain.PayrollRun{
		RunID:         uuid.NewString(),
		ReferenceCode: "PR-202508-AAAA",
		PeriodStart:   time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC),
		PeriodEnd:     time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC),
		PayDate:       time.Date(2025, 8, 20, 0, 0, 0, 0, time.UTC),
		CurrencyCode:  "USD",
		Status:        domain.RunDraft,
	}
}

func (suite *GenerationServiceTestSuite) expectTx() {
	tx := &stubTx{}
	suite.mockRunRepo.On("Begin", mock.Anything).Return(tx, nil).Once()
	suite.mockRunRepo.On("Rollback", mock.Anything, tx).Return(nil).Maybe()
	suite.mockRunRepo.On("Commit", mock.Anything, tx).Return(nil).Maybe()
}

func (suite *GenerationServiceTestSuite) assignment(workerID string, hours, overtime float64) domain.CompletedAssignment {
	return domain.CompletedAssignment{
		AssignmentID:  uuid.NewString(),
		ShiftID:       uuid.NewString(),
		WorkerID:      workerID,
		ShiftDate:     time.Date(2025, 8, 5, 0, 0, 0, 0, time.UTC),
		HoursWorked:   decimal.NewFromFloat(hours),
		OvertimeHours: decimal.NewFromFloat(overtime),
		BaseRate:      decimal.NewFromInt(20),
	}
}

func (suite *GenerationServiceTestSuite) TestGenerateItems_OvertimeSplit() {
	ctx := context.Background()
	// 10 hours at $20 with 2 overtime hours: 8h regular = $160, 2h at
	// $30 (1.5x) = $60.
	assignment := suite.assignment("worker-1", 10, 2)

	suite.expectTx()
	suite.mockRunRepo.On("FindRunByIDForUpdate", mock.Anything, mock.Anything, suite.run.RunID).Return(suite.run, nil).Once()
	suite.mockShifts.On("ListCompletedAssignments", mock.Anything, suite.run.PeriodStart, suite.run.PeriodEnd).Return([]domain.CompletedAssignment{assignment}, nil).Once()
	suite.mockItemRepo.On("DeleteItemsByRunIDInTx", mock.Anything, mock.Anything, suite.run.RunID).Return(nil).Once()
	suite.mockItemRepo.On("FindPaidAssignmentIDs", mock.Anything, mock.Anything, []string{assignment.AssignmentID}).Return(map[string]bool{}, nil).Once()
	suite.mockTaxRates.On("EffectiveTaxRate", mock.Anything, "worker-1").Return(decimal.NewFromInt(5), true, nil).Twice()

	var savedItems []domain.PayrollItem
	suite.mockItemRepo.On("SaveItemsInTx", mock.Anything, mock.Anything, mock.AnythingOfType("[]domain.PayrollItem")).Run(func(args mock.Arguments) {
		savedItems = args.Get(2).([]domain.PayrollItem)
	}).Return(nil).Once()
	suite.mockItemRepo.On("SaveDeductionsInTx", mock.Anything, mock.Anything, mock.AnythingOfType("[]domain.PayrollDeduction")).Return(nil).Once()
	suite.mockRunRepo.On("UpdateRunInTx", mock.Anything, mock.Anything, mock.AnythingOfType("domain.PayrollRun")).Return(nil).Once()

	run, err := suite.service.GenerateItems(ctx, suite.run.RunID, suite.userID)

	suite.Require().NoError(err)
	suite.Require().Len(savedItems, 2)

	regular, overtime := savedItems[0], savedItems[1]
	suite.Equal(domain.ItemRegular, regular.Type)
	suite.True(regular.Hours.Equal(decimal.NewFromInt(8)))
	suite.True(regular.Rate.Equal(decimal.NewFromInt(20)))
	suite.True(regular.GrossAmount.Equal(decimal.NewFromInt(160)))

	suite.Equal(domain.ItemOvertime, overtime.Type)
	suite.True(overtime.Hours.Equal(decimal.NewFromInt(2)))
	suite.True(overtime.Rate.Equal(decimal.NewFromInt(30)))
	suite.True(overtime.GrossAmount.Equal(decimal.NewFromInt(60)))

	suite.True(run.GrossAmount.Equal(decimal.NewFromInt(220)))
	suite.Equal(1, run.TotalWorkers)
	suite.Equal(1, run.TotalShifts, "regular and overtime items share the shift")
}

func (suite *GenerationServiceTestSuite) TestGenerateItems_FeeAndTax() {
	ctx := context.Background()
	// 8 hours at $20 = $160 gross; 10% fee = $16; 5% tax on $144 = $7.20;
	// net $136.80.
	assignment := suite.assignment("worker-1", 8, 0)

	suite.expectTx()
	suite.mockRunRepo.On("FindRunByIDForUpdate", mock.Anything, mock.Anything, suite.run.RunID).Return(suite.run, nil).Once()
	suite.mockShifts.On("ListCompletedAssignments", mock.Anything, suite.run.PeriodStart, suite.run.PeriodEnd).Return([]domain.CompletedAssignment{assignment}, nil).Once()
	suite.mockItemRepo.On("DeleteItemsByRunIDInTx", mock.Anything, mock.Anything, suite.run.RunID).Return(nil).Once()
	suite.mockItemRepo.On("FindPaidAssignmentIDs", mock.Anything, mock.Anything, mock.Anything).Return(map[string]bool{}, nil).Once()
	suite.mockTaxRates.On("EffectiveTaxRate", mock.Anything, "worker-1").Return(decimal.NewFromInt(5), true, nil).Once()

	var savedItems []domain.PayrollItem
	var savedDeductions []domain.PayrollDeduction
	suite.mockItemRepo.On("SaveItemsInTx", mock.Anything, mock.Anything, mock.AnythingOfType("[]domain.PayrollItem")).Run(func(args mock.Arguments) {
		savedItems = args.Get(2).([]domain.PayrollItem)
	}).Return(nil).Once()
	suite.mockItemRepo.On("SaveDeductionsInTx", mock.Anything, mock.Anything, mock.AnythingOfType("[]domain.PayrollDeduction")).Run(func(args mock.Arguments) {
		savedDeductions = args.Get(2).([]domain.PayrollDeduction)
	}).Return(nil).Once()
	suite.mockRunRepo.On("UpdateRunInTx", mock.Anything, mock.Anything, mock.AnythingOfType("domain.PayrollRun")).Return(nil).Once()

	_, err := suite.service.GenerateItems(ctx, suite.run.RunID, suite.userID)

	suite.Require().NoError(err)
	suite.Require().Len(savedItems, 1)
	item := savedItems[0]
	suite.True(item.GrossAmount.Equal(decimal.NewFromInt(160)))
	suite.True(item.DeductionTotal.Equal(decimal.NewFromInt(16)))
	suite.True(item.TaxWithheld.Equal(decimal.NewFromFloat(7.20)))
	suite.True(item.NetAmount.Equal(decimal.NewFromFloat(136.80)))

	suite.Require().Len(savedDeductions, 2)
	suite.Equal(domain.DeductionPlatformFee, savedDeductions[0].Type)
	suite.False(savedDeductions[0].IsTax)
	suite.True(savedDeductions[0].Amount.Equal(decimal.NewFromInt(16)))
	suite.Equal(domain.DeductionTax, savedDeductions[1].Type)
	suite.True(savedDeductions[1].IsTax)
	suite.True(savedDeductions[1].Amount.Equal(decimal.NewFromFloat(7.20)))
}

func (suite *GenerationServiceTestSuite) TestGenerateItems_SkipsPaidAndUnusable() {
	ctx := context.Background()
	paid := suite.assignment("worker-1", 8, 0)
	zeroHours := suite.assignment("worker-2", 0, 0)
	noRate := suite.assignment("worker-3", 8, 0)
	noRate.BaseRate = decimal.Zero
	good := suite.assignment("worker-4", 4, 0)

	all := []domain.CompletedAssignment{paid, zeroHours, noRate, good}
	ids := []string{paid.AssignmentID, zeroHours.AssignmentID, noRate.AssignmentID, good.AssignmentID}

	suite.expectTx()
	suite.mockRunRepo.On("FindRunByIDForUpdate", mock.Anything, mock.Anything, suite.run.RunID).Return(suite.run, nil).Once()
	suite.mockShifts.On("ListCompletedAssignments", mock.Anything, suite.run.PeriodStart, suite.run.PeriodEnd).Return(all, nil).Once()
	suite.mockItemRepo.On("DeleteItemsByRunIDInTx", mock.Anything, mock.Anything, suite.run.RunID).Return(nil).Once()
	suite.mockItemRepo.On("FindPaidAssignmentIDs", mock.Anything, mock.Anything, ids).Return(map[string]bool{paid.AssignmentID: true}, nil).Once()
	suite.mockTaxRates.On("EffectiveTaxRate", mock.Anything, "worker-4").Return(decimal.Zero, false, nil).Once()

	var savedItems []domain.PayrollItem
	suite.mockItemRepo.On("SaveItemsInTx", mock.Anything, mock.Anything, mock.AnythingOfType("[]domain.PayrollItem")).Run(func(args mock.Arguments) {
		savedItems = args.Get(2).([]domain.PayrollItem)
	}).Return(nil).Once()
	suite.mockItemRepo.On("SaveDeductionsInTx", mock.Anything, mock.Anything, mock.AnythingOfType("[]domain.PayrollDeduction")).Return(nil).Once()
	suite.mockRunRepo.On("UpdateRunInTx", mock.Anything, mock.Anything, mock.AnythingOfType("domain.PayrollRun")).Return(nil).Once()

	_, err := suite.service.GenerateItems(ctx, suite.run.RunID, suite.userID)

	suite.Require().NoError(err)
	suite.Require().Len(savedItems, 1)
	suite.Equal("worker-4", savedItems[0].WorkerID)
	suite.Require().NotNil(savedItems[0].AssignmentID)
	suite.Equal(good.AssignmentID, *savedItems[0].AssignmentID)
}

func (suite *GenerationServiceTestSuite) TestGenerateItems_RegenerationReplacesItems() {
	ctx := context.Background()
	assignment := suite.assignment("worker-1", 8, 0)

	suite.expectTx()
	suite.mockRunRepo.On("FindRunByIDForUpdate", mock.Anything, mock.Anything, suite.run.RunID).Return(suite.run, nil).Once()
	suite.mockShifts.On("ListCompletedAssignments", mock.Anything, suite.run.PeriodStart, suite.run.PeriodEnd).Return([]domain.CompletedAssignment{assignment}, nil).Once()
	suite.mockItemRepo.On("DeleteItemsByRunIDInTx", mock.Anything, mock.Anything, suite.run.RunID).Return(nil).Once()
	suite.mockItemRepo.On("FindPaidAssignmentIDs", mock.Anything, mock.Anything, mock.Anything).Return(map[string]bool{}, nil).Once()
	suite.mockTaxRates.On("EffectiveTaxRate", mock.Anything, "worker-1").Return(decimal.NewFromInt(5), true, nil).Once()
	suite.mockItemRepo.On("SaveItemsInTx", mock.Anything, mock.Anything, mock.AnythingOfType("[]domain.PayrollItem")).Return(nil).Once()
	suite.mockItemRepo.On("SaveDeductionsInTx", mock.Anything, mock.Anything, mock.AnythingOfType("[]domain.PayrollDeduction")).Return(nil).Once()
	suite.mockRunRepo.On("UpdateRunInTx", mock.Anything, mock.Anything, mock.AnythingOfType("domain.PayrollRun")).Return(nil).Once()

	_, err := suite.service.GenerateItems(ctx, suite.run.RunID, suite.userID)

	suite.Require().NoError(err)
	// Existing items are cleared before the rebuild so regeneration is
	// idempotent rather than additive.
	suite.mockItemRepo.AssertCalled(suite.T(), "DeleteItemsByRunIDInTx", mock.Anything, mock.Anything, suite.run.RunID)
}

func (suite *GenerationServiceTestSuite) TestGenerateItems_NotEditable() {
	ctx := context.Background()
	suite.run.Status = domain.RunApproved

	suite.expectTx()
	suite.mockRunRepo.On("FindRunByIDForUpdate", mock.Anything, mock.Anything, suite.run.RunID).Return(suite.run, nil).Once()

	run, err := suite.service.GenerateItems(ctx, suite.run.RunID, suite.userID)

	suite.Require().Error(err)
	suite.Nil(run)
	suite.ErrorIs(err, apperrors.ErrRunNotEditable)
	suite.mockShifts.AssertNotCalled(suite.T(), "ListCompletedAssignments", mock.Anything, mock.Anything, mock.Anything)
}

func TestGenerationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(GenerationServiceTestSuite))
}
