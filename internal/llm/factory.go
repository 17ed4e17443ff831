package llm

import (
	"context"
	"fmt"

	"github.com/jadhavsanket-07/Bank-Statement-Parser-Agent/internal/agenterror"
	"github.com/jadhavsanket-07/Bank-Statement-Parser-Agent/internal/config"
	"github.com/jadhavsanket-07/Bank-Statement-Parser-Agent/internal/logging"
)

// New constructs the Client selected by the configuration. Selection happens
// once here; an unsupported provider or a missing credential is a fatal
// configuration error raised before any iteration begins.
func New(ctx context.Context, cfg *config.Config, log logging.Logger) (Client, error) {
	switch Provider(cfg.LLM.Provider) {
	case ProviderGemini:
		return NewGeminiClient(ctx, cfg.LLM.GeminiAPIKey, Options{
			Model:       cfg.LLM.GeminiModel,
			Temperature: cfg.LLM.Temperature,
			MaxTokens:   cfg.LLM.MaxTokens,
		}, log)
	case ProviderGroq:
		return NewGroqClient(cfg.LLM.GroqAPIKey, Options{
			Model:       cfg.LLM.GroqModel,
			Temperature: cfg.LLM.Temperature,
			MaxTokens:   cfg.LLM.MaxTokens,
		}, log)
	default:
		return nil, &agenterror.ConfigError{
			Setting: "llm.provider",
			Reason:  fmt.Sprintf("provider %q not supported", cfg.LLM.Provider),
		}
	}
}
