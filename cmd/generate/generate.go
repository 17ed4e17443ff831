// Package generate implements the parser generation command, the main
// entry point of the agent.
package generate

import (
	"fmt"
	"io"
	"time"

	"github.com/jadhavsanket-07/Bank-Statement-Parser-Agent/internal/agent"
	"github.com/jadhavsanket-07/Bank-Statement-Parser-Agent/internal/analyzer"
	"github.com/jadhavsanket-07/Bank-Statement-Parser-Agent/internal/config"
	"github.com/jadhavsanket-07/Bank-Statement-Parser-Agent/internal/llm"
	"github.com/jadhavsanket-07/Bank-Statement-Parser-Agent/internal/logging"
	"github.com/jadhavsanket-07/Bank-Statement-Parser-Agent/internal/pdfextract"
	"github.com/jadhavsanket-07/Bank-Statement-Parser-Agent/internal/verifier"

	"github.com/spf13/cobra"
)

var (
	targetBank    string
	pdfPath       string
	csvPath       string
	provider      string
	maxIterations int
	outputDir     string
)

// Cmd represents the generate command
var Cmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a statement parser for a target bank",
	Long: `Generate a Go parser for a bank's statement PDF. The agent prompts the
configured model for parser code, verifies it against the reference CSV,
and iterates on failures until the parser matches or the iteration
budget is exhausted.`,
	RunE: generateFunc,
}

func init() {
	Cmd.Flags().StringVarP(&targetBank, "target", "t", "", "Target bank identifier (e.g. icici)")
	Cmd.Flags().StringVarP(&pdfPath, "pdf", "p", "", "Sample statement PDF")
	Cmd.Flags().StringVarP(&csvPath, "csv", "c", "", "Reference CSV with the expected output")
	Cmd.Flags().StringVar(&provider, "provider", "", "Model provider: gemini or groq (default from config)")
	Cmd.Flags().IntVar(&maxIterations, "max-iterations", 0, "Iteration budget (default from config)")
	Cmd.Flags().StringVar(&outputDir, "output-dir", "", "Directory for generated parser files (default from config)")

	_ = Cmd.MarkFlagRequired("target")
	_ = Cmd.MarkFlagRequired("pdf")
	_ = Cmd.MarkFlagRequired("csv")
}

func generateFunc(cmd *cobra.Command, args []string) error {
	cfg, err := config.InitializeConfig()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	applyFlagOverrides(cfg)

	// The agent's logger follows log.level/log.format from config rather
	// than the process-wide default.
	logger := logging.NewLogrusAdapter(cfg.Log.Level, cfg.Log.Format)

	ctx := cmd.Context()

	client, err := llm.New(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("creating model client: %w", err)
	}
	if closer, ok := client.(io.Closer); ok {
		defer func() {
			if cerr := closer.Close(); cerr != nil {
				logger.WithError(cerr).Warn("failed to close model client")
			}
		}()
	}

	docAnalyzer := analyzer.New(pdfextract.NewRealExtractor(), logger)
	generator := agent.NewParserSynthesizer(client, docAnalyzer, logger)
	feedback := agent.NewFeedbackSynthesizer(client, logger)
	runner := verifier.New(cfg.Agent.OutputDir, "",
		time.Duration(cfg.Agent.VerifyTimeoutSeconds)*time.Second, logger)
	loop := agent.NewLoop(generator, feedback, runner, logger)

	session := agent.NewSession(targetBank, pdfPath, csvPath, cfg.Agent.MaxIterations)

	logger.Info("Starting parser generation",
		logging.Field{Key: logging.FieldTarget, Value: targetBank},
		logging.Field{Key: logging.FieldProvider, Value: cfg.LLM.Provider})

	status := loop.Run(ctx, session)

	switch status {
	case agent.StatusSucceeded:
		cmd.Printf("Parser generated: %s\n", runner.ParserPath(targetBank))
		return nil
	case agent.StatusExhausted:
		return fmt.Errorf("no passing parser after %d iterations; last attempt kept at %s",
			session.MaxIterations, runner.ParserPath(targetBank))
	default:
		return fmt.Errorf("generation stopped in unexpected state %s", status)
	}
}

// applyFlagOverrides lets command flags win over config file and env values.
func applyFlagOverrides(cfg *config.Config) {
	if provider != "" {
		cfg.LLM.Provider = provider
	}
	if maxIterations > 0 {
		cfg.Agent.MaxIterations = maxIterations
	}
	if outputDir != "" {
		cfg.Agent.OutputDir = outputDir
	}
}
