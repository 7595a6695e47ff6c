package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"bridgeanchor/internal/analytics"
	"bridgeanchor/internal/metrics"
	"bridgeanchor/internal/models"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// Error texts returned to analytics clients
const (
	errRecordAnalytics   = "Failed to record analytics"
	errGenerateDashboard = "Failed to generate dashboard data"
)

// IngestHandler appends one analytics event to the store
// @Summary Record an analytics event
// @Description Stores an arbitrary JSON object as one analytics event, stamped with receivedAt
// @Tags analytics
// @Accept json
// @Produce json
// @Param event body object true "Analytics event"
// @Success 200 {object} models.AnalyticsAck
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/analytics [post]
func IngestHandler(store *analytics.Store, collector *metrics.Collector, logger zerolog.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		// The body is decoded regardless of Content-Type.
		body, err := io.ReadAll(c.Request().Body)
		if err != nil {
			logger.Error().Err(err).Msg("Failed to read analytics body")
			return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: errRecordAnalytics})
		}

		var fields map[string]json.RawMessage
		if err := json.Unmarshal(body, &fields); err != nil {
			logger.Warn().Err(err).Msg("Rejected analytics body that is not a JSON object")
			return c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: errRecordAnalytics})
		}

		record, err := store.Append(fields)
		if err != nil {
			if errors.Is(err, analytics.ErrInvalidEvent) {
				logger.Warn().Err(err).Msg("Rejected analytics event")
				return c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: errRecordAnalytics})
			}
			logger.Error().Err(err).Msg("Failed to record analytics event")
			return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: errRecordAnalytics})
		}

		collector.RecordEvent(record.Event.Type, store.Len())
		logger.Debug().
			Str("eventType", record.Event.Type).
			Str("sessionId", record.Event.SessionID).
			Msg("Analytics event recorded")

		return c.JSON(http.StatusOK, models.AnalyticsAck{Success: true})
	}
}

// DashboardSource produces the aggregated dashboard payload.
type DashboardSource interface {
	Dashboard(opts analytics.Options) (*models.DashboardResponse, error)
}

// DashboardHandler aggregates the whole store into the dashboard payload
// @Summary Analytics dashboard
// @Description Recomputes session rollups, event and topic counts, feedback and summary statistics on every call
// @Tags analytics
// @Produce json
// @Success 200 {object} models.DashboardResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/analytics/dashboard [get]
func DashboardHandler(source DashboardSource, opts analytics.Options, collector *metrics.Collector, logger zerolog.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		dashboard, err := source.Dashboard(opts)
		if err != nil {
			collector.RecordDashboard("error")
			logger.Error().Err(err).Msg("Failed to generate dashboard data")
			return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: errGenerateDashboard})
		}

		collector.RecordDashboard("success")
		return c.JSON(http.StatusOK, dashboard)
	}
}
