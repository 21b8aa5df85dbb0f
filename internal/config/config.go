package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config is the environment surface of the bot. Only the Telegram
// token is mandatory: a missing provider key disables that feature and
// surfaces as a classified configuration error when the feature is
// used, never as a startup crash.
type Config struct {
	TelegramToken string

	GeminiAPIKey string
	GeminiModel  string

	OpenAIAPIKey string
	OpenAIModel  string

	// GenProvider selects the generative backend: "gemini" (default)
	// or "openai".
	GenProvider string

	NewsAPIKey string

	// RedisAddr switches the cache medium from the local directory to
	// Redis when set.
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	CacheDir string

	HTTPTimeout time.Duration
}

func Load() (*Config, error) {
	cfg := &Config{
		TelegramToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		GeminiAPIKey:  os.Getenv("GEMINI_API_KEY"),
		GeminiModel:   os.Getenv("GEMINI_MODEL"),
		OpenAIAPIKey:  os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:   os.Getenv("OPENAI_MODEL"),
		GenProvider:   os.Getenv("GENAI_PROVIDER"),
		NewsAPIKey:    os.Getenv("NEWS_API_KEY"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		CacheDir:      os.Getenv("CACHE_DIR"),
		HTTPTimeout:   10 * time.Second,
	}

	if cfg.GenProvider == "" {
		cfg.GenProvider = "gemini"
	}
	if cfg.GenProvider != "gemini" && cfg.GenProvider != "openai" {
		return nil, fmt.Errorf("unknown GENAI_PROVIDER %q", cfg.GenProvider)
	}
	if cfg.CacheDir == "" {
		cfg.CacheDir = ".cache"
	}
	if db := os.Getenv("REDIS_DB"); db != "" {
		n, err := strconv.Atoi(db)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_DB %q: %w", db, err)
		}
		cfg.RedisDB = n
	}

	if cfg.TelegramToken == "" {
		return nil, errors.New("TELEGRAM_BOT_TOKEN is required")
	}
	return cfg, nil
}
