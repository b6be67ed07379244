// Package gemini provides the Google Gemini provider implementation, the
// only vision-capable backend.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/pagesage/pagesage/pkg/llm"
	"github.com/pagesage/pagesage/pkg/types"
)

const (
	// DefaultBaseURL is the default Gemini API base URL.
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

	// DefaultModel is used when no model is configured.
	DefaultModel = "gemini-1.5-flash"
)

// generationConfig tunes response generation.
var generationConfig = genConfig{
	Temperature:     0.7,
	TopK:            40,
	TopP:            0.95,
	MaxOutputTokens: 2048,
}

// safetySettings block medium-and-above harmful content in every category.
var safetySettings = []safetySetting{
	{Category: "HARM_CATEGORY_HARASSMENT", Threshold: "BLOCK_MEDIUM_AND_ABOVE"},
	{Category: "HARM_CATEGORY_HATE_SPEECH", Threshold: "BLOCK_MEDIUM_AND_ABOVE"},
	{Category: "HARM_CATEGORY_SEXUALLY_EXPLICIT", Threshold: "BLOCK_MEDIUM_AND_ABOVE"},
	{Category: "HARM_CATEGORY_DANGEROUS_CONTENT", Threshold: "BLOCK_MEDIUM_AND_ABOVE"},
}

// Provider implements llm.VisionProvider against the Gemini generateContent
// API.
type Provider struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
	model      string
}

// ProviderOption is a function that configures a Provider.
type ProviderOption func(*Provider)

// WithModel sets the model to use for completions.
func WithModel(model string) ProviderOption {
	return func(p *Provider) {
		if model != "" {
			p.model = model
		}
	}
}

// WithBaseURL sets a custom base URL, used by tests and proxied deployments.
func WithBaseURL(baseURL string) ProviderOption {
	return func(p *Provider) {
		if baseURL != "" {
			p.baseURL = baseURL
		}
	}
}

// WithHTTPClient sets the HTTP client used for requests. Transport-level
// timeouts belong to this client; the provider adds none of its own.
func WithHTTPClient(client *http.Client) ProviderOption {
	return func(p *Provider) {
		if client != nil {
			p.httpClient = client
		}
	}
}

// NewProvider creates a new Gemini provider with the given API key.
//
// If apiKey is empty, it will attempt to read from the GEMINI_API_KEY
// environment variable. The default model is "gemini-1.5-flash".
func NewProvider(apiKey string, opts ...ProviderOption) (*Provider, error) {
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required (provide via parameter or GEMINI_API_KEY environment variable)")
	}

	p := &Provider{
		httpClient: &http.Client{},
		apiKey:     apiKey,
		baseURL:    DefaultBaseURL,
		model:      DefaultModel,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Name returns the backend identifier.
func (p *Provider) Name() string { return "gemini" }

// Complete sends a text-only prompt to the Gemini API.
func (p *Provider) Complete(ctx context.Context, prompt string) (string, error) {
	return p.generate(ctx, prompt, nil)
}

// CompleteWithImages sends a multi-modal prompt. Each image is attached as an
// inline payload tagged with its media type; image parts precede the text
// part in the request ordering.
func (p *Provider) CompleteWithImages(ctx context.Context, prompt string, images []types.EncodedImage) (string, error) {
	if len(images) == 0 {
		return "", fmt.Errorf("gemini: images must not be empty; use Complete for text-only prompts")
	}
	return p.generate(ctx, prompt, images)
}

// request/response shapes for the generateContent endpoint.

type genConfig struct {
	Temperature     float64 `json:"temperature"`
	TopK            int     `json:"topK"`
	TopP            float64 `json:"topP"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type safetySetting struct {
	Category  string `json:"category"`
	Threshold string `json:"threshold"`
}

type inlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type generateRequest struct {
	Contents         []content       `json:"contents"`
	GenerationConfig genConfig       `json:"generationConfig"`
	SafetySettings   []safetySetting `json:"safetySettings"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback"`
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (p *Provider) generate(ctx context.Context, prompt string, images []types.EncodedImage) (string, error) {
	if prompt == "" {
		return "", llm.ErrEmptyPrompt
	}

	parts := make([]part, 0, len(images)+1)
	for _, img := range images {
		parts = append(parts, part{InlineData: &inlineData{
			MimeType: img.MediaType(),
			Data:     img.Payload(),
		}})
	}
	parts = append(parts, part{Text: prompt})

	reqBody := generateRequest{
		Contents:         []content{{Parts: parts}},
		GenerationConfig: generationConfig,
		SafetySettings:   safetySettings,
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("gemini: failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", p.baseURL, p.model, p.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("gemini: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", llm.Unavailable(p.Name(), err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", llm.Unavailable(p.Name(), err)
	}

	var parsed generateResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", &llm.MalformedError{Provider: p.Name(), Detail: err.Error()}
	}

	if resp.StatusCode != http.StatusOK {
		if parsed.Error.Message != "" {
			return "", llm.Unavailable(p.Name(), fmt.Errorf("status %d: %s", resp.StatusCode, parsed.Error.Message))
		}
		return "", llm.Unavailable(p.Name(), fmt.Errorf("status %d", resp.StatusCode))
	}

	if reason := parsed.PromptFeedback.BlockReason; reason != "" {
		return "", &llm.RejectedError{Provider: p.Name(), Reason: reason}
	}
	if len(parsed.Candidates) == 0 {
		return "", &llm.MalformedError{Provider: p.Name(), Detail: "no candidates in response"}
	}
	candidate := parsed.Candidates[0]
	if candidate.FinishReason == "SAFETY" {
		return "", &llm.RejectedError{Provider: p.Name(), Reason: candidate.FinishReason}
	}
	if len(candidate.Content.Parts) == 0 || candidate.Content.Parts[0].Text == "" {
		return "", &llm.MalformedError{Provider: p.Name(), Detail: "candidate has no text content"}
	}

	return candidate.Content.Parts[0].Text, nil
}
