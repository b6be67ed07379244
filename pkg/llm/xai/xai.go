// Package xai provides the xAI provider implementation. The xAI API is
// OpenAI-compatible, so the adapter is built on the openai-go client pointed
// at the xAI endpoint.
package xai

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/pagesage/pagesage/pkg/llm"
)

const (
	// DefaultBaseURL is the xAI API base URL.
	DefaultBaseURL = "https://api.x.ai/v1"

	// DefaultModel is used when no model is configured.
	DefaultModel = "grok-beta"

	systemPrompt = "You are a helpful assistant."
)

// Provider implements llm.Provider against the xAI chat completions API.
// xAI models are text-only; image handling is the registry's concern.
type Provider struct {
	client openai.Client
	model  string
}

// ProviderOption is a function that configures a Provider.
type ProviderOption func(*config)

type config struct {
	baseURL string
	model   string
}

// WithModel sets the model to use for completions.
func WithModel(model string) ProviderOption {
	return func(c *config) {
		if model != "" {
			c.model = model
		}
	}
}

// WithBaseURL sets a custom base URL, used by tests and proxied deployments.
func WithBaseURL(baseURL string) ProviderOption {
	return func(c *config) {
		if baseURL != "" {
			c.baseURL = baseURL
		}
	}
}

// NewProvider creates a new xAI provider with the given API key.
//
// If apiKey is empty, it will attempt to read from the XAI_API_KEY
// environment variable. The default model is "grok-beta".
func NewProvider(apiKey string, opts ...ProviderOption) (*Provider, error) {
	if apiKey == "" {
		apiKey = os.Getenv("XAI_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("xAI API key is required (provide via parameter or XAI_API_KEY environment variable)")
	}

	cfg := config{baseURL: DefaultBaseURL, model: DefaultModel}
	for _, opt := range opts {
		opt(&cfg)
	}

	client := openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithBaseURL(cfg.baseURL),
	)
	return &Provider{client: client, model: cfg.model}, nil
}

// Name returns the backend identifier.
func (p *Provider) Name() string { return "xai" }

// Complete sends the prompt as a chat completion and returns the first
// choice's message content.
func (p *Provider) Complete(ctx context.Context, prompt string) (string, error) {
	if prompt == "" {
		return "", llm.ErrEmptyPrompt
	}

	resp, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(prompt),
		},
		Model:       p.model,
		Temperature: openai.Float(0),
	})
	if err != nil {
		return "", translateError(p.Name(), err)
	}

	if len(resp.Choices) == 0 {
		return "", &llm.MalformedError{Provider: p.Name(), Detail: "no choices in response"}
	}
	choice := resp.Choices[0]
	if choice.FinishReason == "content_filter" {
		return "", &llm.RejectedError{Provider: p.Name(), Reason: choice.FinishReason}
	}
	if choice.Message.Content == "" {
		return "", &llm.MalformedError{Provider: p.Name(), Detail: "choice has no message content"}
	}
	return choice.Message.Content, nil
}

// translateError maps openai-go client errors onto the package taxonomy. A
// 4xx carrying a policy or filter message is an explicit refusal; everything
// else is a transport-level failure.
func translateError(provider string, err error) error {
	var apierr *openai.Error
	if errors.As(err, &apierr) && apierr.StatusCode >= 400 && apierr.StatusCode < 500 {
		msg := strings.ToLower(apierr.Error())
		if strings.Contains(msg, "content_filter") || strings.Contains(msg, "policy") || strings.Contains(msg, "safety") {
			return &llm.RejectedError{Provider: provider, Reason: apierr.Error()}
		}
	}
	return llm.Unavailable(provider, err)
}
