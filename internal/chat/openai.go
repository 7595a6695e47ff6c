package chat

import (
	"context"
	"errors"
	"net/http"

	"github.com/sashabaranov/go-openai"
)

// OpenAIConfig configures the OpenAI-compatible client.
type OpenAIConfig struct {
	APIKey     string
	BaseURL    string // Empty uses the library default
	Model      string
	HTTPClient *http.Client
}

// OpenAI talks to any OpenAI-compatible chat completions endpoint.
type OpenAI struct {
	client *openai.Client
	model  string
}

// NewOpenAI creates an OpenAI client. With no API key the client stays
// unconfigured and every call fails with ErrNotConfigured.
func NewOpenAI(cfg OpenAIConfig) *OpenAI {
	model := cfg.Model
	if model == "" {
		model = openai.GPT4oMini
	}

	o := &OpenAI{model: model}
	if cfg.APIKey == "" {
		return o
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	if cfg.HTTPClient != nil {
		clientConfig.HTTPClient = cfg.HTTPClient
	}
	o.client = openai.NewClientWithConfig(clientConfig)

	return o
}

// Name returns the provider name
func (o *OpenAI) Name() string {
	return "openai"
}

// Configured reports whether an API key is set
func (o *OpenAI) Configured() bool {
	return o.client != nil
}

// Complete sends the conversation as a chat completion, system prompt first.
func (o *OpenAI) Complete(ctx context.Context, req Request) (string, error) {
	if !o.Configured() {
		return "", ErrNotConfigured
	}

	messages := make([]openai.ChatCompletionMessage, 0, len(req.Messages)+1)
	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}
	for _, msg := range req.Messages {
		role := openai.ChatMessageRoleUser
		if msg.Role == RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: msg.Content})
	}

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     o.model,
		Messages:  messages,
		MaxTokens: req.MaxTokens,
	})
	if err != nil {
		return "", o.upstreamError(err)
	}

	if len(resp.Choices) == 0 {
		return "", &ResponseError{Provider: o.Name(), Message: "no choices returned"}
	}
	content := resp.Choices[0].Message.Content
	if content == "" {
		return "", &ResponseError{Provider: o.Name(), Message: "empty message content"}
	}

	return content, nil
}

func (o *OpenAI) upstreamError(err error) error {
	upstream := &UpstreamError{Provider: o.Name(), Cause: err}

	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		upstream.StatusCode = apiErr.HTTPStatusCode
		upstream.Body = apiErr.Message
	case errors.As(err, &reqErr):
		upstream.StatusCode = reqErr.HTTPStatusCode
	}

	return upstream
}
