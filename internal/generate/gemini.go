package generate

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// Generator produces one unit of content from a prompt. The quota ledger
// gates every call; implementations carry no quota logic.
type Generator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

type GeminiClient struct {
	client *genai.Client
	model  string
}

type GeminiClientOption = func(c *GeminiClient) error

func NewGeminiClient(opts ...GeminiClientOption) (*GeminiClient, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create AI client: %w", err)
	}
	gc := GeminiClient{
		client: client,
		model:  "gemini-2.5-flash",
	}
	for _, opt := range opts {
		if err := opt(&gc); err != nil {
			return nil, fmt.Errorf("failed to apply options: %w", err)
		}
	}
	return &gc, nil
}

func WithModel(model string) GeminiClientOption {
	return func(c *GeminiClient) error {
		c.model = model
		return nil
	}
}

func (g *GeminiClient) GenerateContent(ctx context.Context, prompt string) (string, error) {
	result, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	return result.Text(), nil
}
