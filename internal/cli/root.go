// Package cli provides the command-line interface for Lakeline.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/lakeline-labs/lakeline/internal/cli/commands"
	"github.com/lakeline-labs/lakeline/internal/config"
	"github.com/spf13/cobra"
)

var cfgFile string

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "lakeline",
		Short: "Lakeline - Workshop Lakehouse Pipeline",
		Long: `Lakeline transforms raw workshop extracts (customers, work orders,
parts sales) into a conformed star schema on DuckDB, evaluates data-quality
rules against the modeled output, and records run history.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip config loading for help and completion commands
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			cfg, err := config.Load(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}

			level := slog.LevelInfo
			if cfg.Verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

			ctx := context.WithValue(cmd.Context(), commands.ConfigKey{}, cfg)
			ctx = context.WithValue(ctx, commands.LoggerKey{}, logger)
			cmd.SetContext(ctx)

			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
Built with Go and DuckDB
`)

	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./lakeline.yaml)")
	rootCmd.PersistentFlags().String("sources-dir", "", "Path to the raw CSV sources directory")
	rootCmd.PersistentFlags().String("output-dir", "", "Path to the gold/dq output directory")
	rootCmd.PersistentFlags().String("database", "", "Path to DuckDB database (empty for in-memory)")
	rootCmd.PersistentFlags().String("state", "", "Path to the run-history database")
	rootCmd.PersistentFlags().String("env", "", "Environment name recorded on runs")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose output")

	// Subcommands
	rootCmd.AddCommand(commands.NewRunCommand())
	rootCmd.AddCommand(commands.NewRunsCommand())
	rootCmd.AddCommand(commands.NewDQCommand())
	rootCmd.AddCommand(commands.NewVersionCommand(Version))

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
