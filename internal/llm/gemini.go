package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/jadhavsanket-07/Bank-Statement-Parser-Agent/internal/agenterror"
	"github.com/jadhavsanket-07/Bank-Statement-Parser-Agent/internal/logging"
)

// GeminiClient implements Client against the Google Gemini API.
type GeminiClient struct {
	client *genai.Client
	model  *genai.GenerativeModel
	log    logging.Logger
}

// NewGeminiClient creates a Gemini-backed client. It fails fast when the API
// key is absent.
func NewGeminiClient(ctx context.Context, apiKey string, opts Options, log logging.Logger) (*GeminiClient, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, &agenterror.ConfigError{
			Setting: "GEMINI_API_KEY",
			Reason:  "environment variable not set",
		}
	}
	if log == nil {
		log = logging.NewLogrusAdapter("info", "text")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(opts.Model)
	model.SetTemperature(float32(opts.Temperature))
	model.SetMaxOutputTokens(int32(opts.MaxTokens))

	return &GeminiClient{
		client: client,
		model:  model,
		log:    log,
	}, nil
}

// Provider reports which backend this client talks to.
func (c *GeminiClient) Provider() Provider {
	return ProviderGemini
}

// Generate sends the prompt and returns the concatenated text parts of the
// first candidate.
func (c *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", &agenterror.GenerationError{Provider: string(ProviderGemini), Err: err}
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil ||
		len(resp.Candidates[0].Content.Parts) == 0 {
		return "", &agenterror.GenerationError{
			Provider: string(ProviderGemini),
			Err:      fmt.Errorf("no response candidates"),
		}
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}

	return b.String(), nil
}

// Close releases the underlying API client.
func (c *GeminiClient) Close() error {
	return c.client.Close()
}
