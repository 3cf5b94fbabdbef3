package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/shiftwise/payroll_engine/internal/core/ports/services"
	"github.com/shiftwise/payroll_engine/internal/dto"
	"github.com/shiftwise/payroll_engine/internal/middleware"
)

// payrollRunHandler handles HTTP requests for the payroll run lifecycle.
type payrollRunHandler struct {
	runService        portssvc.RunSvcFacade
	generationService portssvc.GenerationSvc
	paymentService    portssvc.PaymentSvc
}

func newPayrollRunHandler(runService portssvc.RunSvcFacade, generationService portssvc.GenerationSvc, paymentService portssvc.PaymentSvc) *payrollRunHandler {
	return &payrollRunHandler{
		runService:        runService,
		generationService: generationService,
		paymentService:    paymentService,
	}
}

// registerPayrollRunRoutes registers the run lifecycle routes. The processing
// route additionally sits behind the rate limiter.
func registerPayrollRunRoutes(group *gin.RouterGroup, h *payrollRunHandler, processLimiter gin.HandlerFunc) {
	runs := group.Group("/payroll-runs")
	runs.POST("", h.createRun)
	runs.GET("", h.listRuns)
	runs.GET("/:runID", h.getRun)
	runs.DELETE("/:runID", h.deleteRun)

	runs.POST("/:runID/generate", h.generateItems)
	runs.POST("/:runID/submit", h.submitRun)
	runs.POST("/:runID/approve", h.approveRun)
	runs.POST("/:runID/process", processLimiter, h.processRun)

	runs.POST("/:runID/items", h.addItem)
	runs.DELETE("/:runID/items/:itemID", h.removeItem)
}

func (h *payrollRunHandler) createRun(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for createRun", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	run, err := h.runService.CreateRun(c.Request.Context(), req, creatorUserID)
	if err != nil {
		respondError(c, logger, err, "Failed to create payroll run")
		return
	}

	logger.Info("Payroll run created", slog.String("run_id", run.RunID), slog.String("reference", run.ReferenceCode))
	c.JSON(http.StatusCreated, dto.ToRunResponse(run))
}

func (h *payrollRunHandler) listRuns(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListRunsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	resp, err := h.runService.ListRuns(c.Request.Context(), params)
	if err != nil {
		respondError(c, logger, err, "Failed to list payroll runs")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *payrollRunHandler) getRun(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	runID := c.Param("runID")

	run, err := h.runService.GetRunByID(c.Request.Context(), runID)
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve payroll run")
		return
	}
	c.JSON(http.StatusOK, dto.ToRunResponse(run))
}

func (h *payrollRunHandler) deleteRun(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	runID := c.Param("runID")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.runService.DeleteRun(c.Request.Context(), runID, userID); err != nil {
		respondError(c, logger, err, "Failed to delete payroll run")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *payrollRunHandler) generateItems(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	runID := c.Param("runID")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	run, err := h.generationService.GenerateItems(c.Request.Context(), runID, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to generate payroll items")
		return
	}

	logger.Info("Payroll items generated", slog.String("run_id", runID), slog.Int("items", len(run.Items)))
	c.JSON(http.StatusOK, dto.ToRunResponse(run))
}

func (h *payrollRunHandler) submitRun(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	runID := c.Param("runID")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	run, err := h.runService.SubmitForApproval(c.Request.Context(), runID, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to submit payroll run")
		return
	}
	c.JSON(http.StatusOK, dto.ToRunResponse(run))
}

func (h *payrollRunHandler) approveRun(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	runID := c.Param("runID")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	run, err := h.runService.ApproveRun(c.Request.Context(), runID, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to approve payroll run")
		return
	}

	logger.Info("Payroll run approved", slog.String("run_id", runID), slog.String("approver_id", userID))
	c.JSON(http.StatusOK, dto.ToRunResponse(run))
}

func (h *payrollRunHandler) processRun(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	runID := c.Param("runID")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	summary, err := h.paymentService.ProcessRun(c.Request.Context(), runID, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to process payroll run")
		return
	}

	logger.Info("Payroll run processed",
		slog.String("run_id", runID),
		slog.String("status", summary.RunStatus),
		slog.Int("successful", summary.Successful),
		slog.Int("failed", summary.Failed),
		slog.Int("skipped", summary.Skipped))
	c.JSON(http.StatusOK, summary)
}

func (h *payrollRunHandler) addItem(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	runID := c.Param("runID")

	var req dto.AddManualItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for addItem", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	item, err := h.runService.AddManualItem(c.Request.Context(), runID, req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to add item")
		return
	}
	c.JSON(http.StatusCreated, dto.ToItemResponse(item))
}

func (h *payrollRunHandler) removeItem(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	runID := c.Param("runID")
	itemID := c.Param("itemID")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.runService.RemoveItem(c.Request.Context(), runID, itemID, userID); err != nil {
		respondError(c, logger, err, "Failed to remove item")
		return
	}
	c.Status(http.StatusNoContent)
}
