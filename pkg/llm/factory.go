package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/helmcode/gbp-pulse/pkg/config"
)

// Provider represents the LLM provider type
type Provider string

const (
	ProviderGemini Provider = "gemini"
	ProviderClaude Provider = "claude"
	ProviderOpenAI Provider = "openai"
)

// Providers returns the supported providers
func Providers() []Provider {
	return []Provider{ProviderGemini, ProviderClaude, ProviderOpenAI}
}

// New creates an LLM instance from the llm section of the configuration.
// Empty model names fall back to each provider's defaults.
func New(ctx context.Context, cfg config.LLMConfig) (LLM, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key for provider %q is not set", cfg.Provider)
	}

	switch Provider(strings.ToLower(cfg.Provider)) {
	case ProviderGemini, "":
		model, fast := withDefaults(cfg, "gemini-2.5-pro", "gemini-2.5-flash")
		return NewGeminiWithModel(ctx, cfg.APIKey, model, fast)

	case ProviderClaude:
		model, fast := withDefaults(cfg, "claude-sonnet-4-20250514", "claude-3-5-haiku-latest")
		c := NewClaudeWithModel(cfg.APIKey, model, fast)
		c.client.Timeout = timeout(cfg.Timeout)
		return c, nil

	case ProviderOpenAI:
		model, fast := withDefaults(cfg, "gpt-4o", "gpt-4o-mini")
		o := NewOpenAIWithModel(cfg.APIKey, model, fast)
		o.client.Timeout = timeout(cfg.Timeout)
		return o, nil

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s (supported: gemini, claude, openai)", cfg.Provider)
	}
}

func withDefaults(cfg config.LLMConfig, model, fast string) (string, string) {
	if cfg.Model != "" {
		model = cfg.Model
	}
	if cfg.FastModel != "" {
		fast = cfg.FastModel
	}
	return model, fast
}

func timeout(d time.Duration) time.Duration {
	if d <= 0 {
		return 60 * time.Second
	}
	return d
}
