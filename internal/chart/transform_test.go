package chart

import (
	"errors"
	"testing"

	"coinpulse-bot/internal/models"
	"coinpulse-bot/internal/providers"
)

func TestToCandlesticks_PositionalMappingPreservesOrder(t *testing.T) {
	raw := [][]float64{
		{1000, 10, 12, 9, 11},
		{2000, 11, 13, 10, 12},
	}

	points, err := ToCandlesticks(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []models.OHLCPoint{
		{Timestamp: 1000, Open: 10, High: 12, Low: 9, Close: 11},
		{Timestamp: 2000, Open: 11, High: 13, Low: 10, Close: 12},
	}
	if len(points) != len(want) {
		t.Fatalf("expected %d points, got %d", len(want), len(points))
	}
	for i := range want {
		if points[i] != want[i] {
			t.Errorf("point %d: expected %+v, got %+v", i, want[i], points[i])
		}
	}
}

func TestToCandlesticks_WrongArityRejectsBatch(t *testing.T) {
	raw := [][]float64{
		{1000, 10, 12, 9, 11},
		{2000, 11, 13}, // four fields missing one
	}

	_, err := ToCandlesticks(raw)
	if err == nil {
		t.Fatal("expected error for 3-field tuple")
	}
	if !errors.Is(err, providers.ErrMalformedResponse) {
		t.Errorf("expected malformed-response classification, got %v", err)
	}
}

func TestToCandlesticks_EmptyInput(t *testing.T) {
	points, err := ToCandlesticks(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(points) != 0 {
		t.Errorf("expected empty result, got %d points", len(points))
	}
}

func TestToLineSeries_OneLabelAndValuePerPoint(t *testing.T) {
	history := []models.HistoryPoint{
		{Timestamp: 1717200000, Price: 100.5}, // 2024-06-01 UTC
		{Timestamp: 1717286400, Price: 101.25},
	}

	series := ToLineSeries(history)

	if len(series.Labels) != 2 || len(series.Values) != 2 {
		t.Fatalf("expected 2 labels and 2 values, got %d/%d", len(series.Labels), len(series.Values))
	}
	if series.Labels[0] != "Jun 1, 2024" {
		t.Errorf("expected label Jun 1, 2024, got %q", series.Labels[0])
	}
	if series.Labels[1] != "Jun 2, 2024" {
		t.Errorf("expected label Jun 2, 2024, got %q", series.Labels[1])
	}
	// Input order preserved.
	if series.Values[0] != 100.5 || series.Values[1] != 101.25 {
		t.Errorf("values out of order: %v", series.Values)
	}
}

func TestToLineSeries_Empty(t *testing.T) {
	series := ToLineSeries(nil)
	if len(series.Labels) != 0 || len(series.Values) != 0 {
		t.Errorf("expected empty series, got %+v", series)
	}
}
