package commands

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ccollicutt/chatstat/pkg/analyzer"
	"github.com/ccollicutt/chatstat/pkg/config"
	"github.com/ccollicutt/chatstat/pkg/output"
	"github.com/ccollicutt/chatstat/pkg/parser"
	"github.com/ccollicutt/chatstat/pkg/webhook"
)

// AnalyzeOptions holds command-line options for the analyze command.
type AnalyzeOptions struct {
	Output   string
	User     string
	Timezone string
	Verbose  bool
	Quiet    bool
	Workers  int

	// Webhook options
	WebhookURL     string
	WebhookToken   string
	WebhookTrigger string
}

// NewAnalyzeCommand creates the analyze command.
func NewAnalyzeCommand(g *GlobalOptions) *cobra.Command {
	opts := &AnalyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze <export>...",
		Short: "Compute chat statistics for WhatsApp exports",
		Long: `Analyze one or more exported WhatsApp chats (.txt) and print statistics.

Reports:
  - Message, word, media and link counts
  - Most busy users and their share (Overall only)
  - Most common words (stop words and media placeholders removed)
  - Monthly and daily timelines
  - Weekday and month activity, weekday x hour heatmap

Each file is analyzed as its own session. Glob patterns are expanded.

Exit codes:
  0 - Every export contained messages
  1 - At least one export contained no recognizable messages
  2 - Configuration or runtime error`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, args, g, opts)
		},
	}

	// Flags
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json)")
	cmd.Flags().StringVarP(&opts.User, "user", "u", analyzer.Overall, "Restrict statistics to one sender")
	cmd.Flags().StringVar(&opts.Timezone, "timezone", "UTC", "IANA time zone the export's times are read in")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Include daily timeline, heatmap and run metadata")
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "Summary only, no details")
	cmd.Flags().IntVar(&opts.Workers, "workers", runtime.NumCPU(), "Number of exports analyzed in parallel")

	// Webhook flags
	cmd.Flags().StringVar(&opts.WebhookURL, "webhook-url", "", "Webhook endpoint URL")
	cmd.Flags().StringVar(&opts.WebhookToken, "webhook-token", "", "Bearer token for webhook auth")
	cmd.Flags().StringVar(&opts.WebhookTrigger, "webhook-trigger", string(config.WebhookTriggerOnMessages),
		"When to fire webhook (on_messages|always|never)")

	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string, g *GlobalOptions, opts *AnalyzeOptions) error {
	ctx, cfg, logger, err := g.setup(cmd)
	if err != nil {
		return err
	}

	formatter, err := output.NewFormatter(opts.Output, output.FormatOptions{
		Verbose: opts.Verbose,
		Quiet:   opts.Quiet,
	})
	if err != nil {
		return err
	}

	loc, err := time.LoadLocation(opts.Timezone)
	if err != nil {
		return fmt.Errorf("invalid timezone %q: %w", opts.Timezone, err)
	}

	files, err := parser.ExpandGlobs(args)
	if err != nil {
		return fmt.Errorf("expanding exports: %w", err)
	}

	p := parser.New(parser.WithLogger(logger), parser.WithLocation(loc))
	a := analyzer.FromConfig(cfg, analyzer.WithLogger(logger))

	reports, err := analyzeFiles(ctx, files, p, a, opts, g.ConfigFile, logger)
	if err != nil {
		return err
	}

	// Output reports in file order
	out := cmd.OutOrStdout()
	for _, report := range reports {
		if err := formatter.Format(ctx, report, out); err != nil {
			return fmt.Errorf("formatting output: %w", err)
		}
	}

	// Send webhooks (errors logged but don't fail analysis)
	for _, report := range reports {
		sendWebhooks(ctx, cfg, opts, report, logger)
	}

	// Set exit code based on results
	for _, report := range reports {
		if !report.HasMessages() {
			logger.Warn("export contained no recognizable messages", "file", report.Metadata.Source)
			ExitCode = 1
		}
	}

	return nil
}

// analyzeFiles runs one isolated session per export, in parallel.
// The returned reports follow the order of files.
func analyzeFiles(ctx context.Context, files []string, p *parser.Parser, a *analyzer.Analyzer,
	opts *AnalyzeOptions, configFile string, logger *slog.Logger) ([]*output.Report, error) {
	reports := make([]*output.Report, len(files))

	group, ctx := errgroup.WithContext(ctx)
	if opts.Workers > 0 {
		group.SetLimit(opts.Workers)
	}

	for i, file := range files {
		i, file := i, file
		group.Go(func() error {
			raw, err := parser.ReadFile(file)
			if err != nil {
				return err
			}

			msgs, stats := p.ParseWithStats(raw)
			logger.Debug("export parsed",
				"file", file,
				"messages", stats.Messages,
				"notifications", stats.Notifications,
				"invalid_timestamps", stats.InvalidTimestamps)

			if opts.User != analyzer.Overall && !hasSender(msgs, opts.User) {
				logger.Warn("user not found in export", "file", file, "user", opts.User)
			}

			result, err := a.Analyze(ctx, opts.User, msgs)
			if err != nil {
				return fmt.Errorf("analyzing %s: %w", file, err)
			}

			reports[i] = output.NewReport(result, file, stats, configFile)
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

func hasSender(msgs []parser.Message, user string) bool {
	for i := range msgs {
		if msgs[i].Sender == user {
			return true
		}
	}
	return false
}

// sendWebhooks sends the report to all configured webhooks whose trigger
// matches. Errors are logged but don't fail the analysis.
func sendWebhooks(ctx context.Context, cfg *config.Config, opts *AnalyzeOptions, report *output.Report, logger *slog.Logger) {
	var targets []config.WebhookConfig
	for _, wh := range collectWebhooks(cfg, opts) {
		if shouldFireWebhook(wh.Trigger, report.HasMessages()) {
			targets = append(targets, wh)
		}
	}

	if len(targets) == 0 {
		return
	}

	client := webhook.NewClient(webhook.WithLogger(logger))
	if err := client.SendAll(ctx, report, webhook.FromConfig(targets)); err != nil {
		logger.Warn("webhook delivery failed",
			"file", report.Metadata.Source,
			"session_id", report.Metadata.SessionID,
			"error", err)
	}
}

// collectWebhooks merges config file webhooks with CLI webhook.
func collectWebhooks(cfg *config.Config, opts *AnalyzeOptions) []config.WebhookConfig {
	webhooks := make([]config.WebhookConfig, 0, len(cfg.Webhooks)+1)

	// Add config file webhooks
	webhooks = append(webhooks, cfg.Webhooks...)

	// Add CLI webhook if specified
	if opts.WebhookURL != "" {
		trigger := config.WebhookTrigger(opts.WebhookTrigger)
		if trigger == "" {
			trigger = config.WebhookTriggerOnMessages
		}

		webhooks = append(webhooks, config.WebhookConfig{
			Name:    "cli",
			URL:     opts.WebhookURL,
			Token:   opts.WebhookToken,
			Trigger: trigger,
			Timeout: config.DefaultWebhookTimeout,
		})
	}

	return webhooks
}

// shouldFireWebhook determines if a webhook should fire based on trigger
// and whether the export held any messages.
func shouldFireWebhook(trigger config.WebhookTrigger, hasMessages bool) bool {
	switch trigger {
	case config.WebhookTriggerAlways:
		return true
	case config.WebhookTriggerNever:
		return false
	case config.WebhookTriggerOnMessages:
		return hasMessages
	default:
		// Default to on_messages
		return hasMessages
	}
}
