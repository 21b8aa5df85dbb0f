package advisor

import (
	"fmt"
	"math"
	"strings"

	"coinpulse-bot/internal/models"
	"coinpulse-bot/internal/providers"
)

// PromptVersion identifies the frozen template below. The wording is a
// contract: the model is asked for exactly these five labeled sections,
// and changing a word changes pipeline output. Bump the version with
// any edit.
const PromptVersion = "v1"

const promptTemplate = `You are an expert cryptocurrency analyst and trading advisor. Your goal is to provide a clear, structured, and actionable recommendation for a retail trader. Analyze the following coin:

1. Recommendation: Buy, Sell, or Hold
2. Rationale: Explain why this recommendation makes sense in simple, trader-friendly terms
3. Trend Analysis: Comment on the recent price trend, 7-day price movement, and short-term volatility
4. Risk Assessment: Mention potential risks, market conditions, or news that could impact the coin
5. Actionable Tip: Suggest entry points, exit points, or waiting periods (do not give financial advice)

Coin Details:
- Name: %s (%s)
- Current Price: $%s
- 24h Price Change: %s%%
- Market Cap: $%s
- 7-Day Trend: %s (%.2f%% change)
- 7-Day Price Movement: Started at $%.2f, ended at $%.2f`

// TrendSummary is the analysis stage's output: the window's endpoints
// and the derived direction and change.
type TrendSummary struct {
	Direction     string // "upward" or "downward"
	ChangePercent float64
	FirstPrice    float64
	LastPrice     float64
}

// AnalyzeTrend derives the trend from the first and last points of a
// price series. A window with fewer than two points, or a zero baseline
// price, is an input-validation failure, not a crash.
func AnalyzeTrend(history []models.HistoryPoint) (*TrendSummary, error) {
	if len(history) < 2 {
		return nil, fmt.Errorf("%w: need at least two history points, got %d",
			providers.ErrInvalidInput, len(history))
	}

	first := history[0].Price
	last := history[len(history)-1].Price
	if first == 0 {
		return nil, fmt.Errorf("%w: zero baseline price", providers.ErrInvalidInput)
	}

	direction := "downward"
	if last > first {
		direction = "upward"
	}
	change := (last - first) / first * 100
	change = math.Round(change*100) / 100

	return &TrendSummary{
		Direction:     direction,
		ChangePercent: change,
		FirstPrice:    first,
		LastPrice:     last,
	}, nil
}

// ComposePrompt renders the frozen template. Deterministic: the same
// snapshot and trend always produce the same prompt. Metrics the
// provider did not report render as "N/A", never as zero.
func ComposePrompt(coin *models.Coin, trend *TrendSummary) string {
	return fmt.Sprintf(promptTemplate,
		coin.Name,
		strings.ToUpper(coin.Symbol),
		optionalMetric(coin.CurrentPrice),
		optionalMetric(coin.PriceChangePct24h),
		optionalMetric(coin.MarketCap),
		trend.Direction,
		trend.ChangePercent,
		trend.FirstPrice,
		trend.LastPrice,
	)
}

func optionalMetric(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.2f", *v)
}
