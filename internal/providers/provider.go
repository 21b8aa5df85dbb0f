package providers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Common errors. Every data-fetching component classifies its failures
// into one of these (wrapped with context) so callers can pick the
// right user-facing message without inspecting provider internals.
var (
	ErrRateLimited        = errors.New("rate limited by provider")
	ErrMalformedResponse  = errors.New("malformed provider response")
	ErrMissingCredentials = errors.New("missing API credentials")
	ErrInvalidInput       = errors.New("invalid input")
)

// Error wraps a failure with context about the provider and endpoint
type Error struct {
	Provider string
	Endpoint string
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("provider=%s endpoint=%s: %v", e.Provider, e.Endpoint, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a new provider error with context
func NewError(provider, endpoint string, err error) error {
	return &Error{
		Provider: provider,
		Endpoint: endpoint,
		Err:      err,
	}
}

// ClassifyStatus converts a non-200 HTTP response into a classified
// error. The body is truncated so a misbehaving provider cannot flood
// the logs.
func ClassifyStatus(resp *http.Response) error {
	if resp.StatusCode == http.StatusTooManyRequests {
		return ErrRateLimited
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return fmt.Errorf("HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
}

// UserMessage maps a classified error to the one short line shown to
// the user. Anything unclassified reads as a generic load failure.
func UserMessage(err error) string {
	switch {
	case errors.Is(err, ErrRateLimited):
		return "Rate limit reached. Please try again in a minute."
	case errors.Is(err, ErrMissingCredentials):
		return "This feature is not configured. Ask the operator to set the API key."
	case errors.Is(err, ErrMalformedResponse):
		return "The data provider returned an unexpected response. Try again later."
	case errors.Is(err, ErrInvalidInput):
		return "Not enough data to run this analysis."
	default:
		return "Failed to load data. Please try again later."
	}
}

// SharedHTTPClient returns a shared HTTP client with appropriate settings
func SharedHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}

// DefaultUserAgent returns a user agent string for the bot
func DefaultUserAgent() string {
	return "coinpulse-bot/1.0"
}
