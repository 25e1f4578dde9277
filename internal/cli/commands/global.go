package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/chatstat/internal/logging"
	"github.com/ccollicutt/chatstat/pkg/config"
)

// ExitCode is set by commands to indicate the result
var ExitCode = 0

// GlobalOptions holds the persistent flags shared by every command.
type GlobalOptions struct {
	ConfigFile string
	LogLevel   string
	LogFormat  string
}

// AddFlags registers the persistent flags on the root command.
func (g *GlobalOptions) AddFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVarP(&g.ConfigFile, "config", "c", "", "Configuration file (defaults apply when omitted)")
	cmd.PersistentFlags().StringVar(&g.LogLevel, "log-level", "info", "Log level (debug|info|warn|error)")
	cmd.PersistentFlags().StringVar(&g.LogFormat, "log-format", logging.FormatAuto, "Log format (auto|text|json)")
}

// setup builds the logger and loads the configuration for a command run.
func (g *GlobalOptions) setup(cmd *cobra.Command) (context.Context, *config.Config, *slog.Logger, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	logger, err := logging.New(cmd.ErrOrStderr(), g.LogLevel, g.LogFormat)
	if err != nil {
		return nil, nil, nil, err
	}

	cfg, err := config.Load(ctx, g.ConfigFile)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("loading config: %w", err)
	}
	logger.Debug("configuration loaded",
		"config_file", g.ConfigFile,
		"stop_words", len(cfg.ResolvedStopWords()),
		"webhooks", len(cfg.Webhooks))

	return ctx, cfg, logger, nil
}
