package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	BotToken string `envconfig:"BOT_TOKEN" required:"true"`

	NewsAPIKey      string        `envconfig:"NEWSAPI_KEY" required:"true"`
	NewsAPIURL      string        `envconfig:"NEWSAPI_URL" default:"https://newsapi.org"`
	ProviderTimeout time.Duration `envconfig:"PROVIDER_TIMEOUT" default:"5s"`

	DBPath       string        `envconfig:"DB_PATH" default:"./data/mediamonitor.db"`
	SeenStore    string        `envconfig:"SEEN_STORE" default:"bbolt"` // bbolt|memory
	SeenDBPath   string        `envconfig:"SEEN_DB_PATH" default:"./data/seen.db"`
	SeenTTL      time.Duration `envconfig:"SEEN_TTL" default:"0"` // 0 = keep forever
	TickInterval time.Duration `envconfig:"TICK_INTERVAL" default:"60s"`
	MaxPerPoll   int           `envconfig:"MAX_PER_POLL" default:"3"`
	PromptTTL    time.Duration `envconfig:"PROMPT_TTL" default:"0"` // 0 = never expire

	OpenAIKey    string `envconfig:"OPENAI_KEY" default:""`
	OpenAIPrompt string `envconfig:"OPENAI_PROMPT" default:"Write a short digest of these saved news items."`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`  // debug|info|warn|error
	HTTPAddr string `envconfig:"HTTP_ADDR" default:":8080"` // healthz
}

// Load reads environment variables into Config.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
