package handlers

import (
	"errors"
	"net/http"
	"time"

	"bridgeanchor/internal/chat"
	"bridgeanchor/internal/metrics"
	"bridgeanchor/internal/models"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// ChatHandler forwards a conversation to the configured LLM provider
// @Summary Chat with BridgeAnchor
// @Description Sends the conversation with the system prompt upstream and relays the reply. Every failure returns the same retry message.
// @Tags chat
// @Accept json
// @Produce json
// @Param request body models.ChatRequest true "Conversation"
// @Success 200 {object} models.ChatResponse
// @Failure 400 {object} models.ChatResponse
// @Failure 500 {object} models.ChatResponse
// @Router /api/chat [post]
func ChatHandler(svc *chat.Service, collector *metrics.Collector, logger zerolog.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()

		var req models.ChatRequest
		if err := c.Bind(&req); err != nil {
			collector.RecordChat("invalid_request", time.Since(start))
			logger.Warn().Err(err).Msg("Invalid chat request body")
			return c.JSON(http.StatusBadRequest, models.ChatResponse{Error: chat.FallbackReply})
		}

		reply, err := svc.Reply(c.Request().Context(), req.Messages)
		outcome := chat.Outcome(err)
		collector.RecordChat(outcome, time.Since(start))

		if err != nil {
			logger.Error().
				Err(err).
				Str("provider", svc.Provider()).
				Str("outcome", outcome).
				Int("messages", len(req.Messages)).
				Msg("Chat request failed")

			status := http.StatusInternalServerError
			if errors.Is(err, chat.ErrEmptyConversation) {
				status = http.StatusBadRequest
			}
			return c.JSON(status, models.ChatResponse{Error: chat.FallbackReply})
		}

		return c.JSON(http.StatusOK, models.ChatResponse{Message: reply})
	}
}
