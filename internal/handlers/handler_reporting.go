package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/shiftwise/payroll_engine/internal/core/ports/services"
	"github.com/shiftwise/payroll_engine/internal/dto"
	"github.com/shiftwise/payroll_engine/internal/middleware"
)

// reportingHandler handles paystub and export requests.
type reportingHandler struct {
	reportingService portssvc.ReportingSvc
}

func newReportingHandler(reportingService portssvc.ReportingSvc) *reportingHandler {
	return &reportingHandler{reportingService: reportingService}
}

func registerReportingRoutes(group *gin.RouterGroup, h *reportingHandler) {
	runs := group.Group("/payroll-runs")
	runs.GET("/:runID/paystubs/:workerID", h.getPaystub)
	runs.GET("/:runID/export", h.exportRun)
}

func (h *reportingHandler) getPaystub(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	runID := c.Param("runID")
	workerID := c.Param("workerID")

	stub, err := h.reportingService.Paystub(c.Request.Context(), runID, workerID)
	if err != nil {
		respondError(c, logger, err, "Failed to build paystub")
		return
	}
	c.JSON(http.StatusOK, stub)
}

func (h *reportingHandler) exportRun(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	runID := c.Param("runID")
	format := dto.ExportFormat(c.DefaultQuery("format", string(dto.ExportCSV)))

	payload, contentType, err := h.reportingService.Export(c.Request.Context(), runID, format)
	if err != nil {
		respondError(c, logger, err, "Failed to export payroll run")
		return
	}

	filename := fmt.Sprintf("payroll_run_%s.%s", runID, format)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, payload)
}
