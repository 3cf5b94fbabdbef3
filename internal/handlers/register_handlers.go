package handlers

import (
	"github.com/gin-gonic/gin"

	portssvc "github.com/shiftwise/payroll_engine/internal/core/ports/services"
	"github.com/shiftwise/payroll_engine/internal/middleware"
	"github.com/shiftwise/payroll_engine/internal/platform/config"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) error {
	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})
	r.GET("/", getHome)

	return setupAPIV1Routes(r, cfg, services)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to the entity
// route registrations. Identity comes from the gateway-verified X-User-ID
// header; the processing route carries an extra rate limit.
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) error {
	processLimiter, err := middleware.NewProcessLimiter(cfg.ProcessRateLimit)
	if err != nil {
		return err
	}

	v1 := r.Group("/api/v1", middleware.IdentityMiddleware())

	runHandler := newPayrollRunHandler(services.Run, services.Generation, services.Payment)
	registerPayrollRunRoutes(v1, runHandler, middleware.RateLimit(processLimiter))
	registerReportingRoutes(v1, newReportingHandler(services.Reporting))
	return nil
}
