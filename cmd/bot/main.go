package main

import (
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"coinpulse-bot/internal/advisor"
	"coinpulse-bot/internal/bot"
	"coinpulse-bot/internal/cache"
	"coinpulse-bot/internal/config"
	"coinpulse-bot/internal/market"
	"coinpulse-bot/internal/news"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logrus.Warn("no .env file, relying on process environment")
	}
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatal(err)
	}

	var medium cache.Medium
	if cfg.RedisAddr != "" {
		medium = cache.NewRedisMedium(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		logrus.WithField("addr", cfg.RedisAddr).Info("cache medium: redis")
	} else {
		dirMedium, err := cache.NewDirMedium(cfg.CacheDir)
		if err != nil {
			logrus.Fatal(err)
		}
		medium = dirMedium
		logrus.WithField("dir", cfg.CacheDir).Info("cache medium: directory")
	}
	store := cache.NewStore(medium)

	marketClient := market.NewClient(store, cfg.HTTPTimeout)
	newsClient := news.NewClient(cfg.NewsAPIKey, cfg.HTTPTimeout)

	var gen advisor.Generator
	switch cfg.GenProvider {
	case "openai":
		gen = advisor.NewOpenAIGenerator(cfg.OpenAIAPIKey, cfg.OpenAIModel)
	default:
		gen = advisor.NewGeminiGenerator(cfg.GeminiAPIKey, cfg.GeminiModel, cfg.HTTPTimeout)
	}
	if err := gen.Ready(); err != nil {
		logrus.WithField("provider", gen.Name()).Warn("generative API key not set, /analyze will be unavailable")
	}
	pipeline := advisor.NewPipeline(marketClient, gen)

	b, err := bot.New(cfg.TelegramToken, marketClient, newsClient, pipeline)
	if err != nil {
		logrus.Fatal(err)
	}
	b.Start()
}
