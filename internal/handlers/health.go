package handlers

import (
	"net/http"
	"time"

	"bridgeanchor/internal/models"

	"github.com/labstack/echo/v4"
)

// HealthHandler handles basic health check requests
// @Summary Liveness check
// @Tags health
// @Produce json
// @Success 200 {object} models.HealthResponse
// @Router /healthz [get]
func HealthHandler(version string) echo.HandlerFunc {
	return func(c echo.Context) error {
		response := models.HealthResponse{
			Status:    "healthy",
			Timestamp: time.Now().UTC(),
			Version:   version,
		}

		return c.JSON(http.StatusOK, response)
	}
}

// apiEndpoints is advertised by the API root banner.
var apiEndpoints = map[string]string{
	"POST /api/analytics":          "record an analytics event",
	"GET /api/analytics/dashboard": "aggregated analytics",
	"POST /api/chat":               "chat with BridgeAnchor",
}

// RootHandler serves the API banner with the active chat provider
// @Summary Service banner
// @Tags health
// @Produce json
// @Success 200 {object} models.ServiceInfo
// @Router /api/ [get]
func RootHandler(version, chatProvider string) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, models.ServiceInfo{
			Service:      "BridgeAnchor API",
			Version:      version,
			Status:       "running",
			ChatProvider: chatProvider,
			Endpoints:    apiEndpoints,
		})
	}
}
