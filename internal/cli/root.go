// Package cli wires the elmgo command tree.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/elmgo-ml/elmgo/pkg/log"
)

var rootCmd = &cobra.Command{
	Use:   "elmgo",
	Short: "Train and run extreme learning machines",
	Long: `elmgo trains extreme learning machines on CSV data, optionally tuning
the hidden weights with a metaheuristic (GA, PSO or DE), and runs fitted
models for prediction.

Configuration is resolved from defaults, then the YAML file given with
--config, then ELMGO_* environment variables.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level, _ := cmd.Flags().GetString("log-level")
		log.SetupLogger(level)
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "path to a YAML config file")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
}

// Execute runs the command tree. Errors are reported by cobra, the caller
// only decides the exit code.
func Execute() error {
	return rootCmd.Execute()
}
