package market

import (
	"fmt"
	"strconv"

	"coinpulse-bot/internal/models"
	"coinpulse-bot/internal/providers"
)

// rankingCoin is the Coinranking detail payload. All numeric fields
// arrive as strings; null decodes to the empty string.
type rankingCoin struct {
	UUID        string `json:"uuid"`
	Name        string `json:"name"`
	Symbol      string `json:"symbol"`
	IconURL     string `json:"iconUrl"`
	Price       string `json:"price"`
	MarketCap   string `json:"marketCap"`
	Volume24h   string `json:"24hVolume"`
	Change      string `json:"change"`
	Description string `json:"description"`
}

func (rc rankingCoin) normalize() (*models.Coin, error) {
	coin := &models.Coin{
		ID:          rc.UUID,
		Name:        rc.Name,
		Symbol:      rc.Symbol,
		Image:       rc.IconURL,
		Description: rc.Description,
	}

	fields := []struct {
		raw string
		dst **float64
	}{
		{rc.Price, &coin.CurrentPrice},
		{rc.MarketCap, &coin.MarketCap},
		{rc.Volume24h, &coin.TotalVolume},
		{rc.Change, &coin.PriceChangePct24h},
	}
	for _, f := range fields {
		value, err := optionalNumber(f.raw)
		if err != nil {
			return nil, err
		}
		*f.dst = value
	}
	return coin, nil
}

// optionalNumber parses a string-encoded metric. Absent metrics map to
// nil, never to zero, so "0%" stays distinguishable from "no data".
func optionalNumber(s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	value, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: numeric field %q", providers.ErrMalformedResponse, s)
	}
	return &value, nil
}
