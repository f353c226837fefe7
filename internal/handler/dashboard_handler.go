package handler

import (
	"net/http"
	"time"

	"github.com/Solomon-mithra/CRM-backend/internal/repository"
	"github.com/Solomon-mithra/CRM-backend/pkg/logger"
	"github.com/Solomon-mithra/CRM-backend/prometheus"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// DashboardHandler serves the aggregate pipeline statistics
type DashboardHandler struct {
	dashboard *repository.DashboardAggregator
}

// NewDashboardHandler creates a dashboard handler
func NewDashboardHandler(dashboard *repository.DashboardAggregator) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// Statistics returns the dashboard aggregates computed as of now
func (h *DashboardHandler) Statistics(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.DashboardRequestCounter.Inc()

	defer prometheus.TrackDBOperation("query")(time.Now())
	stats, err := h.dashboard.Stats()
	if err != nil {
		log.Error("Failed to compute dashboard statistics", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to compute statistics"})
	}

	return c.JSON(http.StatusOK, stats)
}
