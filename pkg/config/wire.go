package config

import (
	"fmt"

	"github.com/pagesage/pagesage/pkg/llm"
	"github.com/pagesage/pagesage/pkg/llm/gemini"
	"github.com/pagesage/pagesage/pkg/llm/perplexity"
	"github.com/pagesage/pagesage/pkg/llm/xai"
)

// BuildRegistry constructs the three provider adapters from the configuration
// and registers them. Providers without a usable API key are skipped; at least
// one must construct, and the default selection is applied when its provider
// is available.
func BuildRegistry(cfg *Config) (*llm.Registry, error) {
	registry := llm.NewRegistry()

	if p, err := newGemini(cfg.Provider(ProviderGemini)); err == nil {
		registry.Register(ProviderGemini, p)
	}
	if p, err := newXAI(cfg.Provider(ProviderXAI)); err == nil {
		registry.Register(ProviderXAI, p)
	}
	if p, err := newPerplexity(cfg.Provider(ProviderPerplexity)); err == nil {
		registry.Register(ProviderPerplexity, p)
	}

	if len(registry.IDs()) == 0 {
		return nil, fmt.Errorf("config: no provider has a usable API key")
	}

	// A configured default whose provider did not construct is not fatal;
	// the first registered provider stays active instead.
	if cfg.DefaultProvider != "" {
		_ = registry.Select(cfg.DefaultProvider)
	}
	return registry, nil
}

func newGemini(pc ProviderConfig) (llm.Provider, error) {
	var opts []gemini.ProviderOption
	if pc.Model != "" {
		opts = append(opts, gemini.WithModel(pc.Model))
	}
	if pc.BaseURL != "" {
		opts = append(opts, gemini.WithBaseURL(pc.BaseURL))
	}
	return gemini.NewProvider(pc.APIKey, opts...)
}

func newXAI(pc ProviderConfig) (llm.Provider, error) {
	var opts []xai.ProviderOption
	if pc.Model != "" {
		opts = append(opts, xai.WithModel(pc.Model))
	}
	if pc.BaseURL != "" {
		opts = append(opts, xai.WithBaseURL(pc.BaseURL))
	}
	return xai.NewProvider(pc.APIKey, opts...)
}

func newPerplexity(pc ProviderConfig) (llm.Provider, error) {
	var opts []perplexity.ProviderOption
	if pc.Model != "" {
		opts = append(opts, perplexity.WithModel(pc.Model))
	}
	if pc.BaseURL != "" {
		opts = append(opts, perplexity.WithBaseURL(pc.BaseURL))
	}
	return perplexity.NewProvider(pc.APIKey, opts...)
}
