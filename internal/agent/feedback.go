package agent

import (
	"context"
	"fmt"

	"github.com/jadhavsanket-07/Bank-Statement-Parser-Agent/internal/llm"
	"github.com/jadhavsanket-07/Bank-Statement-Parser-Agent/internal/logging"
)

// FeedbackSynthesizer turns a failing verification into remediation guidance
// for the next generation attempt.
type FeedbackSynthesizer struct {
	llm llm.Client
	log logging.Logger
}

// NewFeedbackSynthesizer creates a FeedbackSynthesizer.
func NewFeedbackSynthesizer(client llm.Client, log logging.Logger) *FeedbackSynthesizer {
	if log == nil {
		log = logging.NewLogrusAdapter("info", "text")
	}
	return &FeedbackSynthesizer{llm: client, log: log}
}

// Synthesize asks the model for actionable debugging steps. A model failure
// yields empty feedback; the next attempt simply runs without it.
func (f *FeedbackSynthesizer) Synthesize(ctx context.Context, s *Session, testOutput string) string {
	prompt := fmt.Sprintf(`You are a debugging expert. Analyze this test failure and provide specific, actionable feedback.
BANK: %s
ITERATION: %d
GENERATED PARSER CODE:
%s

TEST OUTPUT:
%s

Please provide actionable steps to fix the parser code so it passes the tests.
`, s.TargetBank, s.Iteration, s.GeneratedCode, testOutput)

	feedback, err := f.llm.Generate(ctx, prompt)
	if err != nil {
		f.log.WithError(err).Warn("feedback generation failed",
			logging.Field{Key: logging.FieldProvider, Value: string(f.llm.Provider())},
			logging.Field{Key: logging.FieldIteration, Value: s.Iteration})
		return ""
	}
	return feedback
}
