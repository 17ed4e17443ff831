// Package llm provides the text-generation clients used by the parser agent.
package llm

import "context"

// Provider identifies a text-generation backend.
type Provider string

const (
	// ProviderGemini selects the Google Gemini backend.
	ProviderGemini Provider = "gemini"
	// ProviderGroq selects the Groq chat-completions backend.
	ProviderGroq Provider = "groq"
)

// Client defines the single capability the agent needs from a model backend.
// Implementations interact with an external text-generation service.
type Client interface {
	// Generate sends a prompt and returns the model's text response.
	Generate(ctx context.Context, prompt string) (string, error)

	// Provider reports which backend this client talks to.
	Provider() Provider
}

// Options carries the generation parameters shared by all backends.
type Options struct {
	Model       string
	Temperature float64
	MaxTokens   int
}
