package chart

import (
	"fmt"
	"time"

	"coinpulse-bot/internal/models"
	"coinpulse-bot/internal/providers"
)

// LineSeries is a chart-ready price line: one label and one value per
// input point, in input order.
type LineSeries struct {
	Labels []string
	Values []float64
}

// ToLineSeries maps a price history onto date labels and values,
// preserving order and length.
func ToLineSeries(history []models.HistoryPoint) LineSeries {
	series := LineSeries{
		Labels: make([]string, len(history)),
		Values: make([]float64, len(history)),
	}
	for i, point := range history {
		series.Labels[i] = time.Unix(point.Timestamp, 0).UTC().Format("Jan 2, 2006")
		series.Values[i] = point.Price
	}
	return series
}

// ToCandlesticks maps raw [timestamp, open, high, low, close] tuples
// positionally onto candles: 1:1, order-preserving, no aggregation. A
// tuple with the wrong arity rejects the whole batch.
func ToCandlesticks(raw [][]float64) ([]models.OHLCPoint, error) {
	points := make([]models.OHLCPoint, len(raw))
	for i, tuple := range raw {
		if len(tuple) != 5 {
			return nil, fmt.Errorf("%w: candle %d has %d fields, want 5",
				providers.ErrMalformedResponse, i, len(tuple))
		}
		points[i] = models.OHLCPoint{
			Timestamp: int64(tuple[0]),
			Open:      tuple[1],
			High:      tuple[2],
			Low:       tuple[3],
			Close:     tuple[4],
		}
	}
	return points, nil
}
