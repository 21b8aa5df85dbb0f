package advisor

import (
	"context"
	"errors"
	"strings"
	"testing"

	"coinpulse-bot/internal/models"
	"coinpulse-bot/internal/providers"
)

type stubHistory struct {
	points []models.HistoryPoint
	err    error
	calls  int
}

func (s *stubHistory) FetchHistory(_ context.Context, _ string, _ int) ([]models.HistoryPoint, error) {
	s.calls++
	return s.points, s.err
}

type stubGenerator struct {
	reply    string
	err      error
	notReady error
	calls    int
	prompt   string
}

func (s *stubGenerator) Name() string { return "stub" }

func (s *stubGenerator) Ready() error { return s.notReady }

func (s *stubGenerator) Generate(_ context.Context, prompt string) (string, error) {
	s.calls++
	s.prompt = prompt
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

func testCoin() *models.Coin {
	return &models.Coin{
		ID:           "bitcoin",
		Name:         "Bitcoin",
		Symbol:       "btc",
		CurrentPrice: models.Float(50000),
	}
}

func TestRecommend_HappyPath(t *testing.T) {
	history := &stubHistory{points: []models.HistoryPoint{
		{Timestamp: 1, Price: 100},
		{Timestamp: 2, Price: 110},
	}}
	gen := &stubGenerator{reply: "Recommendation: Hold."}

	result, err := NewPipeline(history, gen).Recommend(context.Background(), testCoin())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Text != "Recommendation: Hold." {
		t.Errorf("model prose must pass through verbatim, got %q", result.Text)
	}
	if gen.calls != 1 {
		t.Errorf("expected one generate call, got %d", gen.calls)
	}
	if !strings.Contains(gen.prompt, "7-Day Trend: upward (10.00% change)") {
		t.Errorf("prompt missing trend summary: %q", gen.prompt)
	}
}

func TestRecommend_ZeroBaselineFailsBeforeGenerativeCall(t *testing.T) {
	history := &stubHistory{points: []models.HistoryPoint{
		{Timestamp: 1, Price: 0},
		{Timestamp: 2, Price: 50},
	}}
	gen := &stubGenerator{reply: "should never be asked"}

	_, err := NewPipeline(history, gen).Recommend(context.Background(), testCoin())
	if !errors.Is(err, providers.ErrInvalidInput) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if gen.calls != 0 {
		t.Errorf("generative endpoint must not be called, got %d calls", gen.calls)
	}
}

func TestRecommend_FetchFailureStopsPipeline(t *testing.T) {
	history := &stubHistory{err: errors.New("boom")}
	gen := &stubGenerator{}

	_, err := NewPipeline(history, gen).Recommend(context.Background(), testCoin())
	if err == nil {
		t.Fatal("expected error")
	}
	if gen.calls != 0 {
		t.Errorf("no stage may run after a failed fetch, got %d generate calls", gen.calls)
	}
}

func TestRecommend_UnconfiguredGeneratorShortCircuits(t *testing.T) {
	history := &stubHistory{points: []models.HistoryPoint{{Timestamp: 1, Price: 1}, {Timestamp: 2, Price: 2}}}
	gen := &stubGenerator{notReady: providers.ErrMissingCredentials}

	_, err := NewPipeline(history, gen).Recommend(context.Background(), testCoin())
	if !errors.Is(err, providers.ErrMissingCredentials) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if history.calls != 0 {
		t.Errorf("missing key must fail before any network call, history fetched %d times", history.calls)
	}
	if gen.calls != 0 {
		t.Errorf("generate must not be called, got %d", gen.calls)
	}
}

func TestRecommend_GenerateFailurePropagatesClassified(t *testing.T) {
	history := &stubHistory{points: []models.HistoryPoint{{Timestamp: 1, Price: 1}, {Timestamp: 2, Price: 2}}}
	gen := &stubGenerator{err: providers.NewError("gemini", "/models/x:generateContent",
		providers.ErrMalformedResponse)}

	_, err := NewPipeline(history, gen).Recommend(context.Background(), testCoin())
	if !errors.Is(err, providers.ErrMalformedResponse) {
		t.Fatalf("expected malformed-response classification, got %v", err)
	}
}

func TestFailureMessage_MapsClassifiedErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"malformed", providers.ErrMalformedResponse, NoRecommendationMessage},
		{"rate limit", providers.ErrRateLimited, rateLimitMessagePrefixed},
		{"generic", errors.New("connection refused"), FallbackMessage},
	}
	for _, tc := range cases {
		if got := FailureMessage(tc.err); got != tc.want {
			t.Errorf("%s: expected %q, got %q", tc.name, tc.want, got)
		}
	}
}
