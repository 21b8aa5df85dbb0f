package advisor

import "context"

// Generator produces free-form text for a prompt. Implementations wrap
// exactly one generative-text provider.
type Generator interface {
	Name() string
	// Ready reports whether the provider is usable. A not-ready
	// generator lets the pipeline fail before any network traffic.
	Ready() error
	Generate(ctx context.Context, prompt string) (string, error)
}
