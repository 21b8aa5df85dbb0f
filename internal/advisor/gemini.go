package advisor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"coinpulse-bot/internal/providers"
)

const (
	geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

	DefaultGeminiModel = "gemini-2.0-flash"
)

// GeminiGenerator calls the Gemini generateContent endpoint. The key is
// sent in the X-goog-api-key header, never in the URL.
type GeminiGenerator struct {
	httpClient *http.Client
	apiKey     string
	model      string
	baseURL    string
}

func NewGeminiGenerator(apiKey, model string, timeout time.Duration) *GeminiGenerator {
	if model == "" {
		model = DefaultGeminiModel
	}
	return &GeminiGenerator{
		httpClient: providers.SharedHTTPClient(timeout),
		apiKey:     apiKey,
		model:      model,
		baseURL:    geminiBaseURL,
	}
}

func (g *GeminiGenerator) Name() string { return "gemini" }

func (g *GeminiGenerator) Ready() error {
	if g.apiKey == "" {
		return providers.NewError(g.Name(), g.endpoint(), providers.ErrMissingCredentials)
	}
	return nil
}

func (g *GeminiGenerator) endpoint() string {
	return fmt.Sprintf("/models/%s:generateContent", g.model)
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Generate sends the prompt and extracts the first candidate's first
// text part. Any other response shape is a malformed-response failure,
// never a raw decode panic.
func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	endpoint := g.endpoint()
	if err := g.Ready(); err != nil {
		return "", err
	}

	body, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
	})
	if err != nil {
		return "", providers.NewError(g.Name(), endpoint, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+endpoint, bytes.NewReader(body))
	if err != nil {
		return "", providers.NewError(g.Name(), endpoint, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-goog-api-key", g.apiKey)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", providers.NewError(g.Name(), endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", providers.NewError(g.Name(), endpoint, providers.ClassifyStatus(resp))
	}

	var out geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", providers.NewError(g.Name(), endpoint,
			fmt.Errorf("%w: %v", providers.ErrMalformedResponse, err))
	}
	if len(out.Candidates) == 0 ||
		len(out.Candidates[0].Content.Parts) == 0 ||
		out.Candidates[0].Content.Parts[0].Text == "" {
		return "", providers.NewError(g.Name(), endpoint,
			fmt.Errorf("%w: no candidate text", providers.ErrMalformedResponse))
	}
	return out.Candidates[0].Content.Parts[0].Text, nil
}
