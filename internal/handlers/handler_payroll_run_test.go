package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/shiftwise/payroll_engine/internal/apperrors"
	"github.com/shiftwise/payroll_engine/internal/core/domain"
	portssvc "github.com/shiftwise/payroll_engine/internal/core/ports/services"
	"github.com/shiftwise/payroll_engine/internal/dto"
	"github.com/shiftwise/payroll_engine/internal/handlers"
	"github.com/shiftwise/payroll_engine/internal/platform/config"
)

// --- Mock RunService ---
type MockRunService struct {
	mock.Mock
}

func (m *MockRunService) CreateRun(ctx context.Context, req dto.CreateRunRequest, creatorUserID string) (*domain.PayrollRun, error) {
	args := m.Called(ctx, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PayrollRun), args.Error(1)
}
func (m *MockRunService) GetRunByID(ctx context.Context, runID string) (*domain.PayrollRun, error) {
	args := m.Called(ctx, runID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PayrollRun), args.Error(1)
}
func (m *MockRunService) ListRuns(ctx context.Context, params dto.ListRunsParams) (*dto.ListRunsResponse, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListRunsResponse), args.Error(1)
}
func (m *MockRunService) DeleteRun(ctx context.Context, runID string, requestingUserID string) error {
	args := m.Called(ctx, runID, requestingUserID)
	return args.Error(0)
}
func (m *MockRunService) SubmitForApproval(ctx context.Context, runID string, requestingUserID string) (*domain.PayrollRun, error) {
	args := m.Called(ctx, runID, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PayrollRun), args.Error(1)
}
func (m *MockRunService) ApproveRun(ctx context.Context, runID string, requestingUserID string) (*domain.PayrollRun, error) {
	args := m.Called(ctx, runID, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PayrollRun), args.Error(1)
}
func (m *MockRunService) AddManualItem(ctx context.Context, runID string, req dto.AddManualItemRequest, requestingUserID string) (*domain.PayrollItem, error) {
	args := m.Called(ctx, runID, req, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PayrollItem), args.Error(1)
}
func (m *MockRunService) RemoveItem(ctx context.Context, runID string, itemID string, requestingUserID string) error {
	args := m.Called(ctx, runID, itemID, requestingUserID)
	return args.Error(0)
}

var _ portssvc.RunSvcFacade = (*MockRunService)(nil)

// --- Mock GenerationService ---
type MockGenerationService struct {
	mock.Mock
}

func (m *MockGenerationService) GenerateItems(ctx context.Context, runID string, requestingUserID string) (*domain.PayrollRun, error) {
	args := m.Called(ctx, runID, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PayrollRun), args.Error(1)
}

var _ portssvc.GenerationSvc = (*MockGenerationService)(nil)

// --- Mock PaymentService ---
type MockPaymentService struct {
	mock.Mock
}

func (m *MockPaymentService) ProcessRun(ctx context.Context, runID string, requestingUserID string) (*dto.ProcessRunSummary, error) {
	args := m.Called(ctx, runID, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ProcessRunSummary), args.Error(1)
}

var _ portssvc.PaymentSvc = (*MockPaymentService)(nil)

// --- Mock ReportingService ---
type MockReportingService struct {
	mock.Mock
}

func (m *MockReportingService) Paystub(ctx context.Context, runID string, workerID string) (*dto.PaystubResponse, error) {
	args := m.Called(ctx, runID, workerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.PaystubResponse), args.Error(1)
}
func (m *MockReportingService) Export(ctx context.Context, runID string, format dto.ExportFormat) ([]byte, string, error) {
	args := m.Called(ctx, runID, format)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).([]byte), args.String(1), args.Error(2)
}

var _ portssvc.ReportingSvc = (*MockReportingService)(nil)

// --- Test Suite ---
type PayrollRunHandlerTestSuite struct {
	suite.Suite
	router        *gin.Engine
	mockRun       *MockRunService
	mockGenerate  *MockGenerationService
	mockPayment   *MockPaymentService
	mockReporting *MockReportingService
	userID        string
}

func (suite *PayrollRunHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.Require().NoError(dto.RegisterValidations())
	suite.router = gin.New()
	suite.userID = uuid.NewString()

	suite.mockRun = new(MockRunService)
	suite.mockGenerate = new(MockGenerationService)
	suite.mockPayment = new(MockPaymentService)
	suite.mockReporting = new(MockReportingService)

	cfg := &config.Config{ProcessRateLimit: "100-M"}
	services := &portssvc.ServiceContainer{
		Run:        suite.mockRun,
		Generation: suite.mockGenerate,
		Payment:    suite.mockPayment,
		Reporting:  suite.mockReporting,
	}
	suite.Require().NoError(handlers.RegisterRoutes(suite.router, cfg, services))
}

func (suite *PayrollRunHandlerTestSuite) doRequest(method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		suite.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", suite.userID)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func sampleRun() *domain.PayrollRun {
	return &domain.PayrollRun{
		RunID:         uuid.NewString(),
		ReferenceCode: "PR-202508-F00D",
		PeriodStart:   time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC),
		PeriodEnd:     time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC),
		PayDate:       time.Date(2025, 8, 20, 0, 0, 0, 0, time.UTC),
		CurrencyCode:  "USD",
		Status:        domain.RunDraft,
		AuditFields:   domain.AuditFields{CreatedAt: time.Now()},
	}
}

func (suite *PayrollRunHandlerTestSuite) TestCreateRun_Success() {
	run := sampleRun()
	suite.mockRun.On("CreateRun", mock.Anything, mock.AnythingOfType("dto.CreateRunRequest"), suite.userID).Return(run, nil).Once()

	w := suite.doRequest(http.MethodPost, "/api/v1/payroll-runs", gin.H{
		"periodStart":  "2025-08-01T00:00:00Z",
		"periodEnd":    "2025-08-15T00:00:00Z",
		"payDate":      "2025-08-20T00:00:00Z",
		"currencyCode": "USD",
	})

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.RunResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(run.RunID, resp.RunID)
	suite.Equal("PR-202508-F00D", resp.ReferenceCode)
	suite.Equal("DRAFT", resp.Status)
	suite.mockRun.AssertExpectations(suite.T())
}

func (suite *PayrollRunHandlerTestSuite) TestCreateRun_InvalidCurrency() {
	w := suite.doRequest(http.MethodPost, "/api/v1/payroll-runs", gin.H{
		"periodStart":  "2025-08-01T00:00:00Z",
		"periodEnd":    "2025-08-15T00:00:00Z",
		"payDate":      "2025-08-20T00:00:00Z",
		"currencyCode": "usd",
	})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockRun.AssertNotCalled(suite.T(), "CreateRun", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PayrollRunHandlerTestSuite) TestCreateRun_MissingIdentity() {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/payroll-runs", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *PayrollRunHandlerTestSuite) TestGetRun_NotFound() {
	runID := uuid.NewString()
	suite.mockRun.On("GetRunByID", mock.Anything, runID).Return(nil, fmt.Errorf("%w: run %s", apperrors.ErrNotFound, runID)).Once()

	w := suite.doRequest(http.MethodGet, "/api/v1/payroll-runs/"+runID, nil)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *PayrollRunHandlerTestSuite) TestSubmitRun_EmptyRunBadRequest() {
	runID := uuid.NewString()
	suite.mockRun.On("SubmitForApproval", mock.Anything, runID, suite.userID).Return(nil, fmt.Errorf("%w: run has no items", apperrors.ErrEmptyPayroll)).Once()

	w := suite.doRequest(http.MethodPost, "/api/v1/payroll-runs/"+runID+"/submit", nil)

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *PayrollRunHandlerTestSuite) TestApproveRun_SelfApprovalForbidden() {
	runID := uuid.NewString()
	suite.mockRun.On("ApproveRun", mock.Anything, runID, suite.userID).Return(nil, fmt.Errorf("%w: approver created this run", apperrors.ErrSelfApproval)).Once()

	w := suite.doRequest(http.MethodPost, "/api/v1/payroll-runs/"+runID+"/approve", nil)

	suite.Equal(http.StatusForbidden, w.Code)
}

func (suite *PayrollRunHandlerTestSuite) TestGenerateItems_Success() {
	run := sampleRun()
	run.TotalWorkers = 3
	run.TotalShifts = 7
	run.GrossAmount = decimal.RequireFromString("1234.56")
	suite.mockGenerate.On("GenerateItems", mock.Anything, run.RunID, suite.userID).Return(run, nil).Once()

	w := suite.doRequest(http.MethodPost, "/api/v1/payroll-runs/"+run.RunID+"/generate", nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.RunResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(3, resp.TotalWorkers)
	suite.Equal(7, resp.TotalShifts)
	suite.True(resp.GrossAmount.Equal(decimal.RequireFromString("1234.56")))
}

func (suite *PayrollRunHandlerTestSuite) TestProcessRun_ReturnsSummary() {
	runID := uuid.NewString()
	summary := &dto.ProcessRunSummary{
		RunID:      runID,
		Total:      5,
		Successful: 4,
		Failed:     1,
		RunStatus:  string(domain.RunProcessing),
		Errors: []dto.ItemError{
			{ItemID: uuid.NewString(), WorkerID: "worker-3", Reason: "worker has no valid payout method"},
		},
	}
	suite.mockPayment.On("ProcessRun", mock.Anything, runID, suite.userID).Return(summary, nil).Once()

	w := suite.doRequest(http.MethodPost, "/api/v1/payroll-runs/"+runID+"/process", nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ProcessRunSummary
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(4, resp.Successful)
	suite.Equal(1, resp.Failed)
	suite.Require().Len(resp.Errors, 1)
	suite.Equal("worker-3", resp.Errors[0].WorkerID)
}

func (suite *PayrollRunHandlerTestSuite) TestProcessRun_WrongStateConflict() {
	runID := uuid.NewString()
	suite.mockPayment.On("ProcessRun", mock.Anything, runID, suite.userID).Return(nil, fmt.Errorf("%w: cannot process run in status DRAFT", apperrors.ErrInvalidState)).Once()

	w := suite.doRequest(http.MethodPost, "/api/v1/payroll-runs/"+runID+"/process", nil)

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *PayrollRunHandlerTestSuite) TestAddItem_Success() {
	runID := uuid.NewString()
	item := &domain.PayrollItem{
		ItemID:      uuid.NewString(),
		RunID:       runID,
		WorkerID:    "worker-1",
		Type:        domain.ItemBonus,
		Status:      domain.ItemPending,
		Description: "August referral bonus",
		GrossAmount: decimal.NewFromInt(160),
		NetAmount:   decimal.RequireFromString("136.80"),
	}
	suite.mockRun.On("AddManualItem", mock.Anything, runID, mock.AnythingOfType("dto.AddManualItemRequest"), suite.userID).Return(item, nil).Once()

	w := suite.doRequest(http.MethodPost, "/api/v1/payroll-runs/"+runID+"/items", gin.H{
		"workerID":    "worker-1",
		"type":        "BONUS",
		"description": "August referral bonus",
		"amount":      "160",
	})

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.ItemResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(item.ItemID, resp.ItemID)
	suite.True(resp.NetAmount.Equal(decimal.RequireFromString("136.80")))
}

func (suite *PayrollRunHandlerTestSuite) TestAddItem_RejectsNegativeAmount() {
	runID := uuid.NewString()

	w := suite.doRequest(http.MethodPost, "/api/v1/payroll-runs/"+runID+"/items", gin.H{
		"workerID":    "worker-1",
		"type":        "BONUS",
		"description": "bad bonus",
		"amount":      "-5",
	})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockRun.AssertNotCalled(suite.T(), "AddManualItem", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PayrollRunHandlerTestSuite) TestRemoveItem_NoContent() {
	runID := uuid.NewString()
	itemID := uuid.NewString()
	suite.mockRun.On("RemoveItem", mock.Anything, runID, itemID, suite.userID).Return(nil).Once()

	w := suite.doRequest(http.MethodDelete, "/api/v1/payroll-runs/"+runID+"/items/"+itemID, nil)

	suite.Equal(http.StatusNoContent, w.Code)
	suite.mockRun.AssertExpectations(suite.T())
}

func (suite *PayrollRunHandlerTestSuite) TestExport_SetsDisposition() {
	runID := uuid.NewString()
	suite.mockReporting.On("Export", mock.Anything, runID, dto.ExportCSV).Return([]byte("run_reference,worker_id\n"), "text/csv", nil).Once()

	w := suite.doRequest(http.MethodGet, "/api/v1/payroll-runs/"+runID+"/export", nil)

	suite.Equal(http.StatusOK, w.Code)
	suite.Equal("text/csv", w.Header().Get("Content-Type"))
	suite.Contains(w.Header().Get("Content-Disposition"), "attachment")
	suite.Contains(w.Header().Get("Content-Disposition"), ".csv")
}

func (suite *PayrollRunHandlerTestSuite) TestPaystub_Success() {
	runID := uuid.NewString()
	stub := &dto.PaystubResponse{
		RunID:      runID,
		WorkerID:   "worker-1",
		TotalGross: decimal.NewFromInt(220),
		TotalNet:   decimal.RequireFromString("188.10"),
	}
	suite.mockReporting.On("Paystub", mock.Anything, runID, "worker-1").Return(stub, nil).Once()

	w := suite.doRequest(http.MethodGet, "/api/v1/payroll-runs/"+runID+"/paystubs/worker-1", nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.PaystubResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("worker-1", resp.WorkerID)
	suite.True(resp.TotalNet.Equal(decimal.RequireFromString("188.10")))
}

func TestPayrollRunHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(PayrollRunHandlerTestSuite))
}
