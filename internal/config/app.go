package config

import (
	"context"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/LucaLucareli/assessor/pkg/log"
)

type AppConfig struct {
	RuntimePath string `env:"ASSESSOR_RUNTIME_PATH" envDefault:".assessor"`

	// LLM collaborator selection
	LLMProvider string `env:"LLM_PROVIDER" envDefault:"openrouter"`
	Model       string `env:"LLM_MODEL" envDefault:"google/gemini-2.5-flash"`

	OpenRouterAPIKey    string `env:"OPENROUTER_API_KEY"`
	OllamaBaseURL       string `env:"OLLAMA_BASE_URL" envDefault:"http://localhost:11434"`
	OllamaAPIKey        string `env:"OLLAMA_API_KEY"`
	CustomOpenAIBaseURL string `env:"CUSTOM_OPENAI_BASE_URL"`
	CustomOpenAIAPIKey  string `env:"CUSTOM_OPENAI_API_KEY"`

	// How many history turns each stage sees.
	HistoryWindow int `env:"HISTORY_WINDOW" envDefault:"30"`

	// Tool-call rounds a specialist may run before giving up.
	MaxToolRounds int `env:"MAX_TOOL_ROUNDS" envDefault:"8"`
}

func NewAppConfig(ctx context.Context) *AppConfig {
	c := &AppConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse app config")
	}
	return c
}

func (c AppConfig) GetRuntimePath() string {
	return c.RuntimePath
}

func (c AppConfig) GetDatabasePath() string {
	return filepath.Join(c.RuntimePath, "assessor.db")
}

func (c AppConfig) GetFAQPath() string {
	return filepath.Join(c.RuntimePath, "FAQ.md")
}
