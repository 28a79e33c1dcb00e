package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global flags
	verbose bool
	output  string

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "dsfuse",
	Short: "dsfuse - Dempster-Shafer evidence fusion",
	Long: `dsfuse combines evidential sources under Dempster-Shafer theory.

Sources are DASS documents (JSON or YAML): a frame of discernment and one
basic belief assignment per source. Subcommands combine sources under a
chosen rule, query belief and plausibility, apply reliability discounting,
and generate random evidence for benchmarking.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", "", "Write the result document here instead of stdout")

	rootCmd.AddCommand(combineCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(discountCmd)
	rootCmd.AddCommand(generateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
