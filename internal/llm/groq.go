package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jadhavsanket-07/Bank-Statement-Parser-Agent/internal/agenterror"
	"github.com/jadhavsanket-07/Bank-Statement-Parser-Agent/internal/logging"
)

const groqBaseURL = "https://api.groq.com"

// maxErrorBodyBytes bounds how much of an error response body gets read.
const maxErrorBodyBytes = 2048

// GroqClient implements Client against Groq's OpenAI-compatible
// chat-completions API.
type GroqClient struct {
	baseURL string
	apiKey  string
	opts    Options
	client  *http.Client
	log     logging.Logger
}

// NewGroqClient creates a Groq-backed client. It fails fast when the API key
// is absent.
func NewGroqClient(apiKey string, opts Options, log logging.Logger) (*GroqClient, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, &agenterror.ConfigError{
			Setting: "GROQ_API_KEY",
			Reason:  "environment variable not set",
		}
	}
	if log == nil {
		log = logging.NewLogrusAdapter("info", "text")
	}

	return &GroqClient{
		baseURL: groqBaseURL,
		apiKey:  apiKey,
		opts:    opts,
		client: &http.Client{
			Timeout: 120 * time.Second,
		},
		log: log,
	}, nil
}

// Provider reports which backend this client talks to.
func (c *GroqClient) Provider() Provider {
	return ProviderGroq
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Generate sends the prompt as a single user message and returns the first
// choice's content.
func (c *GroqClient) Generate(ctx context.Context, prompt string) (string, error) {
	payload := chatCompletionRequest{
		Model:       c.opts.Model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: c.opts.Temperature,
		MaxTokens:   c.opts.MaxTokens,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", &agenterror.GenerationError{Provider: string(ProviderGroq), Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/openai/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", &agenterror.GenerationError{Provider: string(ProviderGroq), Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", &agenterror.GenerationError{Provider: string(ProviderGroq), Err: err}
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.log.WithError(cerr).Warn("failed to close response body")
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return "", &agenterror.GenerationError{
			Provider: string(ProviderGroq),
			Err:      fmt.Errorf("chat completion failed: %s: %s", resp.Status, strings.TrimSpace(string(snippet))),
		}
	}

	var parsed chatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", &agenterror.GenerationError{Provider: string(ProviderGroq), Err: err}
	}
	if len(parsed.Choices) == 0 {
		return "", &agenterror.GenerationError{
			Provider: string(ProviderGroq),
			Err:      fmt.Errorf("empty choices in response"),
		}
	}

	return parsed.Choices[0].Message.Content, nil
}
