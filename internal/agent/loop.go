package agent

import (
	"context"

	"github.com/jadhavsanket-07/Bank-Statement-Parser-Agent/internal/logging"
)

// VerifyResult is the outcome of one verification attempt.
type VerifyResult struct {
	Passed  bool
	Skipped bool
	Output  string
}

// Verifier executes a session's generated code against the sample pair.
type Verifier interface {
	Verify(ctx context.Context, s *Session) VerifyResult
}

// CodeGenerator produces candidate parser code for a session.
type CodeGenerator interface {
	Synthesize(ctx context.Context, s *Session) string
}

// FeedbackGenerator produces remediation guidance from a failing test output.
type FeedbackGenerator interface {
	Synthesize(ctx context.Context, s *Session, testOutput string) string
}

// Loop owns the iteration state machine: generate, verify, and on failure
// feed back, up to the session's iteration budget. Execution is strictly
// sequential; the only blocking external work is the verifier's subprocess.
type Loop struct {
	generator CodeGenerator
	feedback  FeedbackGenerator
	verifier  Verifier
	log       logging.Logger
}

// NewLoop wires the loop's collaborators.
func NewLoop(generator CodeGenerator, feedback FeedbackGenerator, verifier Verifier, log logging.Logger) *Loop {
	if log == nil {
		log = logging.NewLogrusAdapter("info", "text")
	}
	return &Loop{
		generator: generator,
		feedback:  feedback,
		verifier:  verifier,
		log:       log,
	}
}

// Run executes the loop until the first passing verification or until the
// iteration budget is exhausted. The loop condition is re-evaluated before
// each cycle; success short-circuits immediately with the counter unchanged,
// failure synthesizes feedback and increments the counter.
func (l *Loop) Run(ctx context.Context, s *Session) Status {
	for s.Iteration < s.MaxIterations && !s.ParserReady {
		l.log.Info("starting iteration",
			logging.Field{Key: logging.FieldTarget, Value: s.TargetBank},
			logging.Field{Key: logging.FieldIteration, Value: s.Iteration + 1})

		s.GeneratedCode = l.generator.Synthesize(ctx, s)

		result := l.verifier.Verify(ctx, s)
		s.TestResults = result.Output

		if result.Passed {
			s.ParserReady = true
			if result.Skipped {
				l.log.Warn("verification skipped: sample input or reference missing",
					logging.Field{Key: logging.FieldTarget, Value: s.TargetBank})
			} else {
				l.log.Info("parser passed all tests",
					logging.Field{Key: logging.FieldTarget, Value: s.TargetBank},
					logging.Field{Key: logging.FieldIteration, Value: s.Iteration})
			}
			break
		}

		l.log.Info("verification failed, analyzing feedback",
			logging.Field{Key: logging.FieldTarget, Value: s.TargetBank},
			logging.Field{Key: logging.FieldIteration, Value: s.Iteration})

		s.ErrorFeedback = l.feedback.Synthesize(ctx, s, result.Output)
		s.Iteration++
	}

	if s.ParserReady {
		return StatusSucceeded
	}
	return StatusExhausted
}
