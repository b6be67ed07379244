// Package perplexity provides the Perplexity provider implementation. The
// Perplexity API is OpenAI-compatible, so the adapter is built on the
// openai-go client pointed at the Perplexity endpoint.
package perplexity

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
	// DefaultBaseURL is the Perplexity API base URL.
	DefaultBaseURL = "https://api.perplexity.ai"

	// DefaultModel is used when no model is configured.
	DefaultModel = "llama-3.1-sonar-small-128k-online"

	systemPrompt = "Be precise and concise."
)

// Provider implements llm.Provider against the Perplexity chat completions
// API. Perplexity models are text-only; image handling is the registry's
// concern.
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

// NewProvider creates a new Perplexity provider with the given API key.
//
// If apiKey is empty, it will attempt to read from the PERPLEXITY_API_KEY
// environment variable.
func NewProvider(apiKey string, opts ...ProviderOption) (*Provider, error) {
	if apiKey == "" {
		apiKey = os.Getenv("PERPLEXITY_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("perplexity API key is required (provide via parameter or PERPLEXITY_API_KEY environment variable)")
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
func (p *Provider) Name() string { return "perplexity" }

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
		Temperature: openai.Float(0.2),
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
