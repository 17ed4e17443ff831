// Package parse implements the ICICI statement conversion command.
package parse

import (
	"fmt"

	"github.com/jadhavsanket-07/Bank-Statement-Parser-Agent/cmd/root"
	"github.com/jadhavsanket-07/Bank-Statement-Parser-Agent/internal/iciciparser"

	"github.com/spf13/cobra"
)

var (
	inputPath  string
	outputPath string
)

// Cmd represents the parse command
var Cmd = &cobra.Command{
	Use:   "parse",
	Short: "Convert an ICICI statement PDF to CSV",
	Long:  `Parse an ICICI bank statement PDF with the built-in reference parser and write the transactions as CSV.`,
	RunE:  parseFunc,
}

func init() {
	Cmd.Flags().StringVarP(&inputPath, "input", "i", "", "ICICI statement PDF")
	Cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output CSV file")
	_ = Cmd.MarkFlagRequired("input")
	_ = Cmd.MarkFlagRequired("output")
}

func parseFunc(cmd *cobra.Command, args []string) error {
	logger := root.GetLogrusAdapter()

	transactions, err := iciciparser.ParseFile(inputPath, logger)
	if err != nil {
		return fmt.Errorf("parsing statement: %w", err)
	}

	if err := iciciparser.WriteCSVFile(outputPath, transactions, logger); err != nil {
		return fmt.Errorf("writing CSV: %w", err)
	}

	cmd.Printf("Wrote %d transactions to %s\n", len(transactions), outputPath)
	return nil
}
