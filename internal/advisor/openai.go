package advisor

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	openai "github.com/sashabaranov/go-openai"

	"coinpulse-bot/internal/providers"
)

const openaiEndpoint = "/chat/completions"

// OpenAIGenerator is the alternate backend, selected with
// GENAI_PROVIDER=openai. Same prompt, same plain-text contract.
type OpenAIGenerator struct {
	client *openai.Client
	apiKey string
	model  string
}

func NewOpenAIGenerator(apiKey, model string) *OpenAIGenerator {
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAIGenerator{
		client: openai.NewClient(apiKey),
		apiKey: apiKey,
		model:  model,
	}
}

func (g *OpenAIGenerator) Name() string { return "openai" }

func (g *OpenAIGenerator) Ready() error {
	if g.apiKey == "" {
		return providers.NewError(g.Name(), openaiEndpoint, providers.ErrMissingCredentials)
	}
	return nil
}

func (g *OpenAIGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if err := g.Ready(); err != nil {
		return "", err
	}

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == http.StatusTooManyRequests {
			return "", providers.NewError(g.Name(), openaiEndpoint, providers.ErrRateLimited)
		}
		return "", providers.NewError(g.Name(), openaiEndpoint, err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", providers.NewError(g.Name(), openaiEndpoint,
			fmt.Errorf("%w: no completion choices", providers.ErrMalformedResponse))
	}
	return resp.Choices[0].Message.Content, nil
}
