package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Anthropic defaults
const (
	DefaultAnthropicBaseURL = "https://api.anthropic.com"
	DefaultAnthropicVersion = "2023-06-01"
	DefaultAnthropicModel   = "claude-3-haiku-20240307"
)

// maxErrorBody bounds how much of an error response is kept for logging.
const maxErrorBody = 4096

// AnthropicConfig configures the Messages API client.
type AnthropicConfig struct {
	APIKey     string
	BaseURL    string
	Model      string
	Version    string // anthropic-version header
	HTTPClient *http.Client
}

// Anthropic talks to the Anthropic Messages API.
type Anthropic struct {
	cfg    AnthropicConfig
	client *http.Client
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	System    string             `json:"system,omitempty"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

type anthropicResponse struct {
	ID         string                  `json:"id"`
	Type       string                  `json:"type"`
	Role       string                  `json:"role"`
	Model      string                  `json:"model"`
	Content    []anthropicContentBlock `json:"content"`
	StopReason string                  `json:"stop_reason"`
}

type anthropicErrorResponse struct {
	Type  string `json:"type"`
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// NewAnthropic creates an Anthropic client. Empty fields take the defaults;
// an empty APIKey is allowed and reported by Configured.
func NewAnthropic(cfg AnthropicConfig) *Anthropic {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultAnthropicBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Version == "" {
		cfg.Version = DefaultAnthropicVersion
	}
	if cfg.Model == "" {
		cfg.Model = DefaultAnthropicModel
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{}
	}

	return &Anthropic{cfg: cfg, client: client}
}

// Name returns the provider name
func (a *Anthropic) Name() string {
	return "anthropic"
}

// Configured reports whether an API key is set
func (a *Anthropic) Configured() bool {
	return a.cfg.APIKey != ""
}

// Complete sends the conversation to /v1/messages and joins the text blocks of the reply.
func (a *Anthropic) Complete(ctx context.Context, req Request) (string, error) {
	if !a.Configured() {
		return "", ErrNotConfigured
	}

	payload := anthropicRequest{
		Model:     a.cfg.Model,
		MaxTokens: req.MaxTokens,
		System:    req.System,
		Messages:  make([]anthropicMessage, 0, len(req.Messages)),
	}
	for _, msg := range req.Messages {
		payload.Messages = append(payload.Messages, anthropicMessage{Role: msg.Role, Content: msg.Content})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode anthropic request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.cfg.BaseURL+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build anthropic request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", a.cfg.APIKey)
	httpReq.Header.Set("anthropic-version", a.cfg.Version)

	resp, err := a.client.Do(httpReq)
	if err != nil {
		return "", &UpstreamError{Provider: a.Name(), Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		upstream := &UpstreamError{
			Provider:   a.Name(),
			StatusCode: resp.StatusCode,
			Body:       string(raw),
		}
		var apiErr anthropicErrorResponse
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Error.Message != "" {
			upstream.Cause = fmt.Errorf("%s: %s", apiErr.Error.Type, apiErr.Error.Message)
		}
		return "", upstream
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &UpstreamError{Provider: a.Name(), StatusCode: resp.StatusCode, Cause: err}
	}

	var decoded anthropicResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return "", &ResponseError{Provider: a.Name(), Message: err.Error(), Raw: string(raw)}
	}

	var text strings.Builder
	for _, block := range decoded.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		return "", &ResponseError{Provider: a.Name(), Message: "no text content", Raw: string(raw)}
	}

	return text.String(), nil
}
