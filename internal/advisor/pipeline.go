package advisor

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"coinpulse-bot/internal/models"
	"coinpulse-bot/internal/providers"
)

// HistoryWindowDays is the trend window the prompt describes.
const HistoryWindowDays = 7

// User-facing messages for pipeline failures. One line per failure, no
// automatic retry; the user re-invokes.
const (
	FallbackMessage          = "❌ Could not fetch recommendation. Please try again later."
	NoRecommendationMessage  = "❌ No recommendation returned. Try again later."
	rateLimitMessagePrefixed = "❌ Rate limit reached. Please try again in a minute."
)

// HistoryFetcher is the slice of the market client the pipeline needs.
type HistoryFetcher interface {
	FetchHistory(ctx context.Context, coinID string, days int) ([]models.HistoryPoint, error)
}

// Result is the parsed recommendation: the model's prose, passed
// through verbatim. Transient, never persisted.
type Result struct {
	Text string
}

// Pipeline runs fetch → analyze → compose → generate for one coin,
// strictly in that order. Any stage failure stops the run and comes
// back classified; FailureMessage maps it to one user-facing line.
type Pipeline struct {
	history HistoryFetcher
	gen     Generator
}

func NewPipeline(history HistoryFetcher, gen Generator) *Pipeline {
	return &Pipeline{history: history, gen: gen}
}

func (p *Pipeline) Recommend(ctx context.Context, coin *models.Coin) (*Result, error) {
	// Configuration is checked up front so a missing key fails before
	// any network call, including the history fetch.
	if err := p.gen.Ready(); err != nil {
		return nil, fmt.Errorf("generator: %w", err)
	}

	history, err := p.history.FetchHistory(ctx, coin.ID, HistoryWindowDays)
	if err != nil {
		return nil, fmt.Errorf("fetch history: %w", err)
	}

	trend, err := AnalyzeTrend(history)
	if err != nil {
		return nil, fmt.Errorf("analyze: %w", err)
	}

	prompt := ComposePrompt(coin, trend)

	logrus.WithFields(logrus.Fields{
		"coin":     coin.ID,
		"provider": p.gen.Name(),
		"trend":    trend.Direction,
		"change":   trend.ChangePercent,
	}).Info("requesting recommendation")

	text, err := p.gen.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}
	return &Result{Text: text}, nil
}

// FailureMessage maps a Recommend error to the single line shown to
// the user.
func FailureMessage(err error) string {
	switch {
	case errors.Is(err, providers.ErrRateLimited):
		return rateLimitMessagePrefixed
	case errors.Is(err, providers.ErrMalformedResponse):
		return NoRecommendationMessage
	case errors.Is(err, providers.ErrMissingCredentials),
		errors.Is(err, providers.ErrInvalidInput):
		return "❌ " + providers.UserMessage(err)
	default:
		return FallbackMessage
	}
}
