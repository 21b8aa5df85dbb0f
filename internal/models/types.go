package models

// Coin is a point-in-time market snapshot. Optional metrics are
// pointers: providers return null for figures they do not track, and
// "no data" must stay distinguishable from an actual zero.
type Coin struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
	Image  string `json:"image"`

	CurrentPrice      *float64 `json:"current_price"`
	MarketCap         *float64 `json:"market_cap"`
	TotalVolume       *float64 `json:"total_volume"`
	CirculatingSupply *float64 `json:"circulating_supply"`
	PriceChangePct24h *float64 `json:"price_change_percentage_24h"`

	// Description is only populated by detail lookups.
	Description string `json:"description,omitempty"`
}

// GlobalStats aggregates the whole market, keyed by currency (or coin
// symbol for dominance percentages).
type GlobalStats struct {
	TotalMarketCap map[string]float64 `json:"total_market_cap"`
	TotalVolume    map[string]float64 `json:"total_volume"`
	Dominance      map[string]float64 `json:"market_cap_percentage"`
}

// HistoryPoint is one sample of a coin's price series, ordered by
// ascending Timestamp (unix seconds).
type HistoryPoint struct {
	Timestamp int64   `json:"timestamp"`
	Price     float64 `json:"price"`
}

// OHLCPoint is one candle. Timestamp is unix milliseconds, as the
// provider delivers it.
type OHLCPoint struct {
	Timestamp int64   `json:"timestamp"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
}

// Article is one news item from the news feed.
type Article struct {
	Title       string `json:"title"`
	Link        string `json:"link"`
	Description string `json:"description"`
	PubDate     string `json:"pubDate"`
	ImageURL    string `json:"image_url"`
	SourceID    string `json:"source_id"`
}

// Float returns a pointer to v. Convenience for building snapshots.
func Float(v float64) *float64 { return &v }
