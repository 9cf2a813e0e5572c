// Package commands implements the lakeline subcommands.
package commands

import (
	"context"
	"log/slog"

	"github.com/lakeline-labs/lakeline/internal/config"
)

// ConfigKey is the context key under which the root command stores the
// loaded configuration.
type ConfigKey struct{}

// LoggerKey is the context key under which the root command stores the
// structured logger.
type LoggerKey struct{}

// GetConfig retrieves the config from the command context.
func GetConfig(ctx context.Context) *config.Config {
	if c, ok := ctx.Value(ConfigKey{}).(*config.Config); ok {
		return c
	}
	return &config.Config{
		SourcesDir:  config.DefaultSourcesDir,
		OutputDir:   config.DefaultOutputDir,
		StatePath:   config.DefaultStateFile,
		Environment: config.DefaultEnv,
	}
}

// GetLogger retrieves the logger from the command context.
func GetLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(LoggerKey{}).(*slog.Logger); ok {
		return l
	}
	return slog.New(slog.DiscardHandler)
}
