package handler

import (
	"net/http"

	"github.com/Solomon-mithra/CRM-backend/pkg/database"
	"github.com/labstack/echo/v4"
)

// Root handles the welcome endpoint
func Root(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Welcome to the Real Estate CRM API",
	})
}

// HealthCheck handles the health check endpoint
func HealthCheck(c echo.Context) error {
	if err := database.HealthCheck(); err != nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{
			"status":  "unhealthy",
			"service": "crm-backend",
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"status":  "healthy",
		"service": "crm-backend",
	})
}
