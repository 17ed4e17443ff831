// Package root contains the root command for the application
package root

import (
	"github.com/jadhavsanket-07/Bank-Statement-Parser-Agent/internal/config"
	"github.com/jadhavsanket-07/Bank-Statement-Parser-Agent/internal/logging"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	// Log is the shared logger instance for commands
	Log = logrus.New()

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "bank-statement-agent",
		Short: "An agent that generates bank statement parsers from sample PDF/CSV pairs.",
		Long: `bank-statement-agent drives an LLM to write a Go parser for a bank's
statement PDF, checks the parser's output against a reference CSV, and
feeds failures back to the model until the parser matches or the
iteration budget runs out.`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to bank-statement-agent!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Initialize and configure logging
			config.LoadEnv()
			Log = config.ConfigureLogging()
		},
	}
)

// GetLogrusAdapter returns the shared logger wrapped in the logging facade.
func GetLogrusAdapter() logging.Logger {
	return logging.NewLogrusAdapterFromLogger(Log)
}

// Init initializes the root command and all flags
func Init() {
	Cmd.SilenceUsage = true
}
