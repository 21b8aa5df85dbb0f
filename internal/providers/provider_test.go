package providers

import (
	"errors"
	"fmt"
	"testing"
)

func TestError_UnwrapsToSentinel(t *testing.T) {
	err := NewError("coingecko", "/coins/markets", ErrRateLimited)

	if !errors.Is(err, ErrRateLimited) {
		t.Error("wrapped sentinel must survive errors.Is")
	}

	var provErr *Error
	if !errors.As(err, &provErr) {
		t.Fatal("expected *Error")
	}
	if provErr.Provider != "coingecko" || provErr.Endpoint != "/coins/markets" {
		t.Errorf("context lost: %+v", provErr)
	}
}

func TestError_SurvivesFurtherWrapping(t *testing.T) {
	err := fmt.Errorf("page 3: %w", NewError("coingecko", "/coins/markets", ErrRateLimited))
	if !errors.Is(err, ErrRateLimited) {
		t.Error("classification must survive fmt.Errorf wrapping")
	}
}

func TestUserMessage_OneLinePerClass(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{ErrRateLimited, "Rate limit reached. Please try again in a minute."},
		{ErrMissingCredentials, "This feature is not configured. Ask the operator to set the API key."},
		{ErrMalformedResponse, "The data provider returned an unexpected response. Try again later."},
		{ErrInvalidInput, "Not enough data to run this analysis."},
		{errors.New("dial tcp: timeout"), "Failed to load data. Please try again later."},
	}
	for _, tc := range cases {
		if got := UserMessage(NewError("x", "/y", tc.err)); got != tc.want {
			t.Errorf("for %v: expected %q, got %q", tc.err, tc.want, got)
		}
	}
}
