package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"stanbrief/internal/config"
)

// DefaultPerplexityModel is the online search model used when none is
// configured.
const DefaultPerplexityModel = "sonar"

// PerplexityClient generates briefings via Perplexity's chat completions
// endpoint. Perplexity performs live web search on every call, so there is
// no separate grounding flag; Options.Grounding is ignored.
type PerplexityClient struct {
	client *openai.Client
	model  string
}

// NewPerplexityClient creates a Perplexity-backed provider from
// configuration. The OpenAI client is pointed at Perplexity's base URL;
// the wire protocol is identical.
func NewPerplexityClient(cfg config.PerplexityConfig) (*PerplexityClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("perplexity API key is required. Set PERPLEXITY_API_KEY or ai.perplexity.api_key in config.\nGet your API key from: https://www.perplexity.ai/settings/api")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.perplexity.ai"
	}
	model := cfg.Model
	if model == "" {
		model = DefaultPerplexityModel
	}

	client := openai.NewClient(
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(baseURL),
	)

	return &PerplexityClient{
		client: &client,
		model:  model,
	}, nil
}

// Name returns the provider name used in logs and error values.
func (c *PerplexityClient) Name() string { return "perplexity" }

// Generate runs a single chat completion against Perplexity.
func (c *PerplexityClient) Generate(ctx context.Context, promptText string, opts Options) (*Result, error) {
	model := opts.Model
	if model == "" {
		model = c.model
	}

	params := openai.ChatCompletionNewParams{
		Model: model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(promptText),
		},
	}
	if opts.Temperature > 0 {
		params.Temperature = openai.Float(float64(opts.Temperature))
	}
	if opts.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(opts.MaxTokens))
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return nil, &ProviderError{Provider: c.Name(), StatusCode: apiErr.StatusCode, Body: apiErr.Message}
		}
		return nil, &TransportError{Provider: c.Name(), Err: err}
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return nil, &ProviderError{Provider: c.Name(), StatusCode: 200, Body: "empty response from model"}
	}

	return &Result{Text: resp.Choices[0].Message.Content}, nil
}
