// Package analyze implements the standalone document preview command.
package analyze

import (
	"encoding/json"
	"fmt"

	"github.com/jadhavsanket-07/Bank-Statement-Parser-Agent/cmd/root"
	"github.com/jadhavsanket-07/Bank-Statement-Parser-Agent/internal/analyzer"
	"github.com/jadhavsanket-07/Bank-Statement-Parser-Agent/internal/pdfextract"

	"github.com/spf13/cobra"
)

var pdfPath string

// Cmd represents the analyze command
var Cmd = &cobra.Command{
	Use:   "analyze",
	Short: "Preview the structure of a statement PDF",
	Long: `Analyze a statement PDF and print the bounded preview the agent embeds
in generation prompts: page count, page dimensions, sampled text and
detected table regions.`,
	RunE: analyzeFunc,
}

func init() {
	Cmd.Flags().StringVarP(&pdfPath, "pdf", "p", "", "Statement PDF to analyze")
	_ = Cmd.MarkFlagRequired("pdf")
}

func analyzeFunc(cmd *cobra.Command, args []string) error {
	logger := root.GetLogrusAdapter()

	docAnalyzer := analyzer.New(pdfextract.NewRealExtractor(), logger)
	analysis := docAnalyzer.Analyze(pdfPath)

	out, err := json.MarshalIndent(analysis, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding analysis: %w", err)
	}
	cmd.Println(string(out))

	if analysis.Err != "" {
		return fmt.Errorf("document could not be read: %s", analysis.Err)
	}
	return nil
}
