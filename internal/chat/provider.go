package chat

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"bridgeanchor/internal/config"
)

// Conversation roles understood by every provider
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one turn of the conversation sent upstream.
type Message struct {
	Role    string
	Content string
}

// Request is a single completion call.
type Request struct {
	System    string
	Messages  []Message
	MaxTokens int
}

// Provider sends one conversation to an LLM and returns the reply text.
type Provider interface {
	Name() string
	// Configured reports whether the credential is present. It is checked
	// per call, never at boot.
	Configured() bool
	Complete(ctx context.Context, req Request) (string, error)
}

// NewProvider builds the provider selected by CHAT_PROVIDER
func NewProvider(cfg *config.Config) (Provider, error) {
	httpClient := &http.Client{}
	if cfg.ChatTimeout > 0 {
		httpClient.Timeout = time.Duration(cfg.ChatTimeout) * time.Second
	}

	switch cfg.ChatProvider {
	case config.ProviderAnthropic:
		return NewAnthropic(AnthropicConfig{
			APIKey:     cfg.ClaudeAPIKey,
			BaseURL:    cfg.ClaudeBaseURL,
			Model:      cfg.ClaudeModel,
			Version:    cfg.ClaudeAPIVersion,
			HTTPClient: httpClient,
		}), nil
	case config.ProviderOpenAI:
		return NewOpenAI(OpenAIConfig{
			APIKey:     cfg.OpenAIKey,
			BaseURL:    cfg.OpenAIBaseURL,
			Model:      cfg.OpenAIModel,
			HTTPClient: httpClient,
		}), nil
	default:
		return nil, fmt.Errorf("unknown chat provider %q", cfg.ChatProvider)
	}
}
