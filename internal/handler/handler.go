package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	metricsPkg "formgate/internal/metrics"
	"formgate/internal/service"
	"formgate/internal/sweeper"
)

// Handlers contains all HTTP handlers
type Handlers struct {
	db      *gorm.DB
	intake  *service.IntakeService
	sweeper *sweeper.Sweeper
	metrics *metricsPkg.Metrics
}

// NewHandlers creates new HTTP handlers
func NewHandlers(db *gorm.DB, intake *service.IntakeService, sweeper *sweeper.Sweeper, metrics *metricsPkg.Metrics) *Handlers {
	return &Handlers{
		db:      db,
		intake:  intake,
		sweeper: sweeper,
		metrics: metrics,
	}
}

// SetupRoutes sets up all HTTP routes
func (h *Handlers) SetupRoutes(router *gin.Engine) {
	router.GET("/healthz", h.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v1")
	{
		api.POST("/forms/:id/submissions", h.CreateSubmission)

		api.GET("/forms", h.GetForms)
		api.POST("/forms", h.CreateForm)
		api.GET("/forms/:id", h.GetForm)
		api.PUT("/forms/:id", h.UpdateForm)
		api.DELETE("/forms/:id", h.DeleteForm)
		api.PATCH("/forms/:id/activate", h.ActivateForm)
		api.PATCH("/forms/:id/deactivate", h.DeactivateForm)

		api.GET("/submissions", h.GetSubmissions)
		api.GET("/submissions/:id", h.GetSubmission)

		api.GET("/email-logs", h.GetEmailLogs)
	}
}

// HealthCheck handles health check requests
func (h *Handlers) HealthCheck(c *gin.Context) {
	response := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Database:  "ok",
		Sweeper:   "stopped",
	}

	if err := h.db.Raw("SELECT 1").Error; err != nil {
		response.Status = "error"
		response.Database = "error"
		logrus.Errorf("Database health check failed: %v", err)
	}

	if h.sweeper != nil && h.sweeper.IsRunning() {
		response.Sweeper = "running"
	}

	statusCode := http.StatusOK
	if response.Status == "error" {
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, response)
}
