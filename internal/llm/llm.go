// Package llm wraps the generative providers used for briefing generation:
// Gemini (with optional Google Search grounding) and Perplexity (OpenAI
// compatible chat completions). Clients return raw text; turning that text
// into structured topics is the recovery package's job.
package llm

import "context"

// Options control a single generation call.
type Options struct {
	Model       string  // Model override; empty uses the client's configured model
	Temperature float32 // Sampling temperature (0.0 to 1.0)
	MaxTokens   int32   // Maximum number of tokens to generate
	Grounding   bool    // Attach the web search grounding tool (Gemini only)
}

// Grounding describes the web-search metadata a grounded Gemini call
// returns. Perplexity performs search implicitly and returns none.
type Grounding struct {
	WebSearchQueries []string // Queries the model issued during grounding
	SourceCount      int      // Number of grounding chunks attached to the answer
}

// Result is a raw completion plus optional grounding metadata.
type Result struct {
	Text      string     // Raw text completion, expected (not guaranteed) to contain JSON
	Grounding *Grounding // Present only when search grounding activated
}

// Provider is a generative backend capable of producing a briefing
// completion for a prompt. Implementations do not retry; callers decide
// whether a failure is retried, degraded, or surfaced.
type Provider interface {
	Name() string
	Generate(ctx context.Context, prompt string, opts Options) (*Result, error)
}
