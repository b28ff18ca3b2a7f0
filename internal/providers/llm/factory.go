package llm

import (
	"context"
	"fmt"

	"github.com/LucaLucareli/assessor/internal/config"
	"github.com/LucaLucareli/assessor/internal/core"
	"github.com/LucaLucareli/assessor/pkg/retry"
)

// NewProvider builds the configured collaborator and wraps it in the
// backoff retrier. Everything downstream sees a plain core.AIProvider.
func NewProvider(cfg *config.AppConfig) (core.AIProvider, error) {
	var provider core.AIProvider

	switch cfg.LLMProvider {
	case "openrouter":
		if cfg.OpenRouterAPIKey == "" {
			return nil, fmt.Errorf("OPENROUTER_API_KEY is required for the openrouter provider")
		}
		provider = NewOpenRouter(cfg.OpenRouterAPIKey, cfg.Model)
	case "ollama":
		provider = NewOllama(cfg.OllamaBaseURL, cfg.OllamaAPIKey, cfg.Model)
	case "custom":
		if cfg.CustomOpenAIBaseURL == "" {
			return nil, fmt.Errorf("CUSTOM_OPENAI_BASE_URL is required for the custom provider")
		}
		provider = NewOpenAICompatible(OpenAICompatibleConfig{
			BaseURL:    cfg.CustomOpenAIBaseURL,
			APIKey:     cfg.CustomOpenAIAPIKey,
			Model:      cfg.Model,
			AuthHeader: "Authorization",
			AuthPrefix: "Bearer ",
		})
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", cfg.LLMProvider)
	}

	return &retryingProvider{
		inner:   provider,
		retrier: retry.NewDefaultRetrier(),
	}, nil
}

type retryingProvider struct {
	inner   core.AIProvider
	retrier *retry.Retrier
}

func (r *retryingProvider) Chat(ctx context.Context, history []core.Message, tools []core.Tool) (core.Message, error) {
	var msg core.Message
	err := r.retrier.Do(ctx, func() error {
		var err error
		msg, err = r.inner.Chat(ctx, history, tools)
		return err
	})
	return msg, err
}
