package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	// Core
	DatabaseURL   string `env:"DATABASE_URL,required"`
	OpenRouterKey string `env:"OPENROUTER_API_KEY,required"`

	// Environment name; anything other than "prod" enables the LLM call log.
	Env string `env:"ENV" envDefault:"dev"`

	// Server
	Port int `env:"PORT" envDefault:"3001"`

	// Text-extraction reader service prefix. Set empty to fetch pages
	// directly and extract the article body locally.
	ReaderURL string `env:"READER_URL" envDefault:"https://r.jina.ai/"`

	// LLM
	Model       string `env:"OPENROUTER_MODEL" envDefault:"openai/gpt-4o-mini"`
	LLMStoreDir string `env:"LLM_STORE_DIR" envDefault:"./llm_store"`

	// Rate limiting (per IP)
	RateLimitPerMinute int `env:"RATE_LIMIT_PER_MINUTE" envDefault:"60"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// LLMStoreEnabled reports whether LLM calls should be recorded on disk.
func (c *Config) LLMStoreEnabled() bool {
	return c.Env != "prod"
}
