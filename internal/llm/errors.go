package llm

import "fmt"

// ProviderError is a non-2xx response from an LLM API. It is not retried
// here; the briefing generator converts it into a synthetic "unavailable"
// topic so batch runs keep moving.
type ProviderError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s API error: status %d: %s", e.Provider, e.StatusCode, e.Body)
}

// TransportError is a network-level failure (DNS, connect, timeout) before
// any HTTP status was received.
type TransportError struct {
	Provider string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s transport error: %v", e.Provider, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
