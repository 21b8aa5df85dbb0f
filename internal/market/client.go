package market

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"coinpulse-bot/internal/cache"
	"coinpulse-bot/internal/chart"
	"coinpulse-bot/internal/models"
	"coinpulse-bot/internal/providers"
)

const (
	coingeckoBaseURL   = "https://api.coingecko.com/api/v3"
	coinrankingBaseURL = "https://api.coinranking.com/v2"

	// CoinGecko's free tier allows roughly 30 calls per minute.
	requestsPerSecond = 0.5
	burstSize         = 5
)

// Cache TTLs per data type. Dashboard views tolerate ten minutes of
// staleness; the ranked universe only backs name search, so a day is
// plenty.
const (
	TTLMarkets = 10 * time.Minute
	TTLGlobal  = 10 * time.Minute
	TTLOHLC    = 10 * time.Minute
	TTLRanked  = 24 * time.Hour
)

// Client fetches market data from CoinGecko (markets, global stats,
// candles) and Coinranking (detail, history), fronted by a TTL cache.
// Every operation computes its cache key from its parameters, so
// identical requests share an entry and different parameters never
// collide.
type Client struct {
	httpClient *http.Client
	cache      *cache.Store
	limiter    *rate.Limiter

	geckoURL   string
	rankingURL string
}

func NewClient(store *cache.Store, timeout time.Duration) *Client {
	return &Client{
		httpClient: providers.SharedHTTPClient(timeout),
		cache:      store,
		limiter:    rate.NewLimiter(rate.Limit(requestsPerSecond), burstSize),
		geckoURL:   coingeckoBaseURL,
		rankingURL: coinrankingBaseURL,
	}
}

// FetchMarkets returns one page of coins in rank order. Cached for
// TTLMarkets under a key that includes page and page size.
func (c *Client) FetchMarkets(ctx context.Context, currency string, page, perPage int) ([]models.Coin, error) {
	key := fmt.Sprintf("coins_%s_%d_%d", currency, perPage, page)
	if raw, ok := c.cache.Get(ctx, key, TTLMarkets); ok {
		var coins []models.Coin
		if err := json.Unmarshal(raw, &coins); err == nil {
			return coins, nil
		}
	}

	coins, err := c.fetchMarketsPage(ctx, currency, page, perPage)
	if err != nil {
		return nil, err
	}
	c.put(ctx, key, coins)
	return coins, nil
}

// FetchGlobalStats returns market-wide totals and dominance shares.
func (c *Client) FetchGlobalStats(ctx context.Context, currency string) (*models.GlobalStats, error) {
	key := "global_" + currency
	if raw, ok := c.cache.Get(ctx, key, TTLGlobal); ok {
		var stats models.GlobalStats
		if err := json.Unmarshal(raw, &stats); err == nil {
			return &stats, nil
		}
	}

	endpoint := "/global"
	var resp struct {
		Data models.GlobalStats `json:"data"`
	}
	if err := c.getJSON(ctx, c.geckoURL+endpoint, &resp); err != nil {
		return nil, providers.NewError("coingecko", endpoint, err)
	}
	c.put(ctx, key, resp.Data)
	return &resp.Data, nil
}

// FetchCoinDetail returns a live snapshot with description. Detail
// views trade quota for freshness, so this is never cached.
func (c *Client) FetchCoinDetail(ctx context.Context, coinID string) (*models.Coin, error) {
	endpoint := fmt.Sprintf("/coin/%s", coinID)
	var resp struct {
		Data struct {
			Coin rankingCoin `json:"coin"`
		} `json:"data"`
	}
	if err := c.getJSON(ctx, c.rankingURL+endpoint, &resp); err != nil {
		return nil, providers.NewError("coinranking", endpoint, err)
	}
	coin, err := resp.Data.Coin.normalize()
	if err != nil {
		return nil, providers.NewError("coinranking", endpoint, err)
	}
	return coin, nil
}

// FetchHistory returns the coin's price series over the given window,
// ascending by time. Never cached, same freshness reasoning as detail.
func (c *Client) FetchHistory(ctx context.Context, coinID string, days int) ([]models.HistoryPoint, error) {
	endpoint := fmt.Sprintf("/coin/%s/history", coinID)
	query := url.Values{}
	query.Set("timePeriod", fmt.Sprintf("%dd", days))

	var resp struct {
		Data struct {
			History []struct {
				Price     string `json:"price"`
				Timestamp int64  `json:"timestamp"`
			} `json:"history"`
		} `json:"data"`
	}
	if err := c.getJSON(ctx, c.rankingURL+endpoint+"?"+query.Encode(), &resp); err != nil {
		return nil, providers.NewError("coinranking", endpoint, err)
	}

	points := make([]models.HistoryPoint, 0, len(resp.Data.History))
	for _, h := range resp.Data.History {
		if h.Price == "" {
			// The provider reports gaps as null prices.
			continue
		}
		price, err := strconv.ParseFloat(h.Price, 64)
		if err != nil {
			return nil, providers.NewError("coinranking", endpoint,
				fmt.Errorf("%w: price %q", providers.ErrMalformedResponse, h.Price))
		}
		points = append(points, models.HistoryPoint{Timestamp: h.Timestamp, Price: price})
	}

	// Coinranking delivers newest-first; every consumer here expects
	// ascending time.
	sort.Slice(points, func(i, j int) bool { return points[i].Timestamp < points[j].Timestamp })
	return points, nil
}

// FetchOHLC returns candles for the selected range. Cached for TTLOHLC
// per (coin, currency, days), so each range tab caches independently.
func (c *Client) FetchOHLC(ctx context.Context, coinID, currency string, days int) ([]models.OHLCPoint, error) {
	key := fmt.Sprintf("chart_%s_%s_%d", coinID, currency, days)
	if raw, ok := c.cache.Get(ctx, key, TTLOHLC); ok {
		var points []models.OHLCPoint
		if err := json.Unmarshal(raw, &points); err == nil {
			return points, nil
		}
	}

	endpoint := fmt.Sprintf("/coins/%s/ohlc", coinID)
	query := url.Values{}
	query.Set("vs_currency", currency)
	query.Set("days", strconv.Itoa(days))

	var raw [][]float64
	if err := c.getJSON(ctx, c.geckoURL+endpoint+"?"+query.Encode(), &raw); err != nil {
		return nil, providers.NewError("coingecko", endpoint, err)
	}
	points, err := chart.ToCandlesticks(raw)
	if err != nil {
		return nil, providers.NewError("coingecko", endpoint, err)
	}
	c.put(ctx, key, points)
	return points, nil
}

// FetchAllRanked assembles the top maxPages*perPage coins by fetching
// pages strictly in order 1..maxPages. Pages must land in rank order
// and a missing page would corrupt the ranking, so any page failure
// fails the whole operation with nothing cached. The assembled result
// is cached as one unit for TTLRanked.
func (c *Client) FetchAllRanked(ctx context.Context, maxPages, perPage int) ([]models.Coin, error) {
	key := fmt.Sprintf("ranked_coins_%dx%d", perPage, maxPages)
	if raw, ok := c.cache.Get(ctx, key, TTLRanked); ok {
		var coins []models.Coin
		if err := json.Unmarshal(raw, &coins); err == nil {
			return coins, nil
		}
	}

	var all []models.Coin
	for page := 1; page <= maxPages; page++ {
		coins, err := c.fetchMarketsPage(ctx, "usd", page, perPage)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", page, err)
		}
		all = append(all, coins...)
	}
	logrus.WithFields(logrus.Fields{"pages": maxPages, "coins": len(all)}).Info("ranked universe refreshed")

	c.put(ctx, key, all)
	return all, nil
}

func (c *Client) fetchMarketsPage(ctx context.Context, currency string, page, perPage int) ([]models.Coin, error) {
	endpoint := "/coins/markets"
	query := url.Values{}
	query.Set("vs_currency", currency)
	query.Set("order", "market_cap_desc")
	query.Set("per_page", strconv.Itoa(perPage))
	query.Set("page", strconv.Itoa(page))
	query.Set("sparkline", "true")

	var coins []models.Coin
	if err := c.getJSON(ctx, c.geckoURL+endpoint+"?"+query.Encode(), &coins); err != nil {
		return nil, providers.NewError("coingecko", endpoint, err)
	}
	return coins, nil
}

func (c *Client) getJSON(ctx context.Context, rawURL string, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", providers.DefaultUserAgent())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return providers.ClassifyStatus(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", providers.ErrMalformedResponse, err)
	}
	return nil
}

// put caches v under key; a value that cannot be marshaled is skipped,
// the fetch result is still returned to the caller.
func (c *Client) put(ctx context.Context, key string, v interface{}) {
	raw, err := json.Marshal(v)
	if err != nil {
		logrus.WithField("key", key).WithError(err).Warn("skipping cache write")
		return
	}
	c.cache.Set(ctx, key, raw)
}
