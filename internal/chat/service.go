package chat

import (
	"context"
	"strings"

	"bridgeanchor/internal/models"
)

// DefaultMaxTokens bounds the reply length when none is configured.
const DefaultMaxTokens = 500

// Service forwards conversations to a provider with a fixed system prompt.
type Service struct {
	provider  Provider
	prompt    string
	maxTokens int
}

// NewService creates a new chat service
func NewService(provider Provider, prompt string, maxTokens int) *Service {
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	return &Service{
		provider:  provider,
		prompt:    prompt,
		maxTokens: maxTokens,
	}
}

// Provider returns the name of the upstream provider
func (s *Service) Provider() string {
	return s.provider.Name()
}

// Reply makes a single upstream call for the conversation. There is no retry.
func (s *Service) Reply(ctx context.Context, messages []models.ChatMessage) (string, error) {
	if !s.provider.Configured() {
		return "", ErrNotConfigured
	}
	if len(messages) == 0 {
		return "", ErrEmptyConversation
	}

	conversation := make([]Message, 0, len(messages))
	for _, msg := range messages {
		conversation = append(conversation, Message{
			Role:    NormalizeRole(msg.Role),
			Content: msg.Content,
		})
	}

	return s.provider.Complete(ctx, Request{
		System:    s.prompt,
		Messages:  conversation,
		MaxTokens: s.maxTokens,
	})
}

// NormalizeRole maps client role names onto user and assistant.
func NormalizeRole(role string) string {
	switch strings.ToLower(strings.TrimSpace(role)) {
	case "assistant", "bot", "ai":
		return RoleAssistant
	default:
		return RoleUser
	}
}
