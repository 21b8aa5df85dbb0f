package bot

import (
	"fmt"
	"strings"
	"time"

	"coinpulse-bot/internal/models"
)

func formatDashboard(coins []models.Coin, stats *models.GlobalStats) string {
	var sections []string
	sections = append(sections, "💹 CRYPTO MARKET DASHBOARD")

	if stats != nil {
		sections = append(sections, fmt.Sprintf(`🌍 Global:
- Market Cap: %s
- 24h Volume: %s
- BTC Dominance: %.2f%%
- ETH Dominance: %.2f%%`,
			formatBigNumber(stats.TotalMarketCap[dashboardCurrency]),
			formatBigNumber(stats.TotalVolume[dashboardCurrency]),
			stats.Dominance["btc"],
			stats.Dominance["eth"]))
	}

	var lines []string
	for i, coin := range coins {
		lines = append(lines, formatCoinLine(i+1, coin))
	}
	sections = append(sections, strings.Join(lines, "\n"))

	timestamp := time.Now().UTC().Format("2006-01-02 15:04 UTC")
	sections = append(sections, "📊 Updated: "+timestamp)

	return strings.Join(sections, "\n\n")
}

func formatCoinLine(rank int, coin models.Coin) string {
	indicator := "➖"
	if coin.PriceChangePct24h != nil {
		if *coin.PriceChangePct24h > 0 {
			indicator = "🟢"
		} else if *coin.PriceChangePct24h < 0 {
			indicator = "🔴"
		}
	}

	return fmt.Sprintf(`#%d %s (%s) | 💰 %s (%s%s) | 📈 Vol: %s | 💎 MC: %s`,
		rank,
		coin.Name,
		strings.ToUpper(coin.Symbol),
		formatPrice(coin.CurrentPrice),
		indicator,
		formatPct(coin.PriceChangePct24h),
		formatValue(coin.TotalVolume),
		formatValue(coin.MarketCap))
}

func formatNews(articles []models.Article, hasMore bool) string {
	if len(articles) == 0 {
		return "No more news right now. Try again later."
	}

	shown := articles
	if len(shown) > newsPerReply {
		shown = shown[:newsPerReply]
	}

	var lines []string
	lines = append(lines, "📰 Latest Crypto News")
	for _, a := range shown {
		date := a.PubDate
		if parsed, err := time.Parse("2006-01-02 15:04:05", a.PubDate); err == nil {
			date = parsed.Format("Jan 2, 2006")
		}
		lines = append(lines, fmt.Sprintf("• %s\n  %s (%s)\n  %s", a.Title, a.SourceID, date, a.Link))
	}
	if hasMore {
		lines = append(lines, "Send /news again for more.")
	}
	return strings.Join(lines, "\n\n")
}

func formatCandleSummary(coinID string, days int, candles []models.OHLCPoint) string {
	if len(candles) == 0 {
		return fmt.Sprintf("No chart data available for %s.", coinID)
	}

	high := candles[0].High
	low := candles[0].Low
	for _, c := range candles {
		if c.High > high {
			high = c.High
		}
		if c.Low < low {
			low = c.Low
		}
	}
	first := candles[0]
	last := candles[len(candles)-1]

	return fmt.Sprintf(`🕯 %s — %dD candles (%d total)

- Open:  $%.2f (%s)
- Close: $%.2f (%s)
- High:  $%.2f
- Low:   $%.2f`,
		coinID, days, len(candles),
		first.Open, candleDate(first),
		last.Close, candleDate(last),
		high, low)
}

func candleDate(c models.OHLCPoint) string {
	return time.UnixMilli(c.Timestamp).UTC().Format("Jan 2, 2006")
}

func formatValue(value *float64) string {
	if value == nil {
		return "N/A"
	}
	if *value >= 1e9 {
		return fmt.Sprintf("%.2f B", *value/1e9)
	}
	if *value >= 1e6 {
		return fmt.Sprintf("%.2f M", *value/1e6)
	}
	return fmt.Sprintf("%.2f", *value)
}

func formatBigNumber(value float64) string {
	v := value
	return formatValue(&v)
}

func formatPrice(price *float64) string {
	if price == nil {
		return "N/A"
	}
	return fmt.Sprintf("$%.4f", *price)
}

func formatPct(pct *float64) string {
	if pct == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.2f%%", *pct)
}
