package llm

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"

	"stanbrief/internal/config"
	"stanbrief/internal/logger"
)

// DefaultGeminiModel is used when no model is configured.
const DefaultGeminiModel = "gemini-2.0-flash"

// GeminiClient generates briefings via the Gemini API, optionally with the
// Google Search grounding tool attached so the model can pull in live web
// results.
type GeminiClient struct {
	modelName string
	gClient   *genai.Client
}

// NewGeminiClient creates a Gemini-backed provider from configuration.
func NewGeminiClient(ctx context.Context, cfg config.GeminiConfig) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required. Set GEMINI_API_KEY or ai.gemini.api_key in config.\nGet your API key from: https://aistudio.google.com/app/apikey")
	}

	modelName := cfg.Model
	if modelName == "" {
		modelName = DefaultGeminiModel
	}

	gClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{
		modelName: modelName,
		gClient:   gClient,
	}, nil
}

// Name returns the provider name used in logs and error values.
func (c *GeminiClient) Name() string { return "gemini" }

// Generate runs a single completion. When opts.Grounding is set, the Google
// Search tool is attached and any grounding metadata the model produced is
// surfaced on the result.
func (c *GeminiClient) Generate(ctx context.Context, promptText string, opts Options) (*Result, error) {
	modelName := opts.Model
	if modelName == "" {
		modelName = c.modelName
	}

	contents := []*genai.Content{{
		Parts: []*genai.Part{{Text: promptText}},
		Role:  "user",
	}}

	genCfg := &genai.GenerateContentConfig{}
	if opts.Temperature > 0 {
		genCfg.Temperature = genai.Ptr(opts.Temperature)
	}
	if opts.MaxTokens > 0 {
		genCfg.MaxOutputTokens = opts.MaxTokens
	}
	if opts.Grounding {
		genCfg.Tools = []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}}
	}

	resp, err := c.gClient.Models.GenerateContent(ctx, modelName, contents, genCfg)
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			return nil, &ProviderError{Provider: c.Name(), StatusCode: apiErr.Code, Body: apiErr.Message}
		}
		return nil, &TransportError{Provider: c.Name(), Err: err}
	}

	text := resp.Text()
	if text == "" {
		return nil, &ProviderError{Provider: c.Name(), StatusCode: 200, Body: "empty response from model"}
	}

	result := &Result{Text: text}
	if len(resp.Candidates) > 0 && resp.Candidates[0].GroundingMetadata != nil {
		gm := resp.Candidates[0].GroundingMetadata
		result.Grounding = &Grounding{
			WebSearchQueries: gm.WebSearchQueries,
			SourceCount:      len(gm.GroundingChunks),
		}
		logger.Debug("Search grounding activated",
			"model", modelName,
			"queries", len(gm.WebSearchQueries),
			"sources", len(gm.GroundingChunks),
		)
	} else if opts.Grounding {
		logger.Warn("No grounding metadata found, search may not have activated", "model", modelName)
	}

	return result, nil
}
