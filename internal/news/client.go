package news

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"coinpulse-bot/internal/models"
	"coinpulse-bot/internal/providers"
)

const (
	baseURL = "https://newsdata.io/api/1"

	defaultQuery = "cryptocurrency OR bitcoin OR ethereum"
)

// Client fetches crypto news pages. The client is stateless: the caller
// keeps the continuation token and its accumulated article list, so a
// failed page load never loses what was already shown. News is never
// cached, freshness dominates quota here.
type Client struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
}

func NewClient(apiKey string, timeout time.Duration) *Client {
	return &Client{
		httpClient: providers.SharedHTTPClient(timeout),
		apiKey:     apiKey,
		baseURL:    baseURL,
	}
}

// Page is one slice of the feed plus the provider-issued token for the
// next one. An empty NextToken means the feed is exhausted.
type Page struct {
	Articles  []models.Article
	NextToken string
}

// FetchNews loads one page. Pass the previous page's NextToken to
// continue, or "" to start from the top.
func (c *Client) FetchNews(ctx context.Context, continuation string) (*Page, error) {
	endpoint := "/news"
	if c.apiKey == "" {
		return nil, providers.NewError("newsdata", endpoint, providers.ErrMissingCredentials)
	}

	query := url.Values{}
	query.Set("apikey", c.apiKey)
	query.Set("q", defaultQuery)
	query.Set("language", "en")
	query.Set("country", "us")
	if continuation != "" {
		query.Set("page", continuation)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return nil, providers.NewError("newsdata", endpoint, err)
	}
	req.Header.Set("User-Agent", providers.DefaultUserAgent())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, providers.NewError("newsdata", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, providers.NewError("newsdata", endpoint, providers.ClassifyStatus(resp))
	}

	var payload struct {
		Results  []models.Article `json:"results"`
		NextPage string           `json:"nextPage"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, providers.NewError("newsdata", endpoint,
			fmt.Errorf("%w: %v", providers.ErrMalformedResponse, err))
	}

	return &Page{Articles: payload.Results, NextToken: payload.NextPage}, nil
}
