package models

import "time"

// HealthResponse represents a basic health check response
// @Description Health check response
type HealthResponse struct {
	Status    string    `json:"status" example:"healthy"`                 // Health status
	Timestamp time.Time `json:"timestamp" example:"2023-01-01T00:00:00Z"` // Timestamp of the check
	Version   string    `json:"version" example:"1.0.0"`                  // Application version
}

// ServiceInfo is the banner served at the API root
// @Description Service banner
type ServiceInfo struct {
	Service      string            `json:"service" example:"BridgeAnchor API"`
	Version      string            `json:"version" example:"1.0.0"`
	Status       string            `json:"status" example:"running"`
	ChatProvider string            `json:"chatProvider" example:"anthropic"` // Upstream LLM provider name
	Endpoints    map[string]string `json:"endpoints"`                        // Route -> purpose
}

// ChatMessage represents a single message in a conversation
// @Description Single message in a conversation
type ChatMessage struct {
	Role    string `json:"role" example:"user"`         // Message role (user, assistant)
	Content string `json:"content" example:"Hi there!"` // Message text
}

// ChatRequest represents the request body for the chat endpoint
// @Description Chat request payload
type ChatRequest struct {
	Messages []ChatMessage `json:"messages"` // Conversation so far, oldest first
}

// ChatResponse represents the response from the chat endpoint
// @Description Chat response payload
type ChatResponse struct {
	Message string `json:"message,omitempty" example:"Hey! How's your day going?"` // Generated reply
	Error   string `json:"error,omitempty" example:""`                             // Fixed retry message on failure
}
