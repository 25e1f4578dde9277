package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/chatstat/pkg/config"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <config-file>",
		Short: "Validate a configuration file",
		Long: `Validate a chatstat configuration file without running analysis.

Checks:
  - YAML syntax
  - Field constraints (top_users, top_words, media_placeholder)
  - Stop-word file readability
  - Webhook URLs, triggers and timeouts`,
		Args: cobra.ExactArgs(1),
		RunE: runValidate,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	configPath := args[0]
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	w := cmd.OutOrStdout()

	fmt.Fprintf(w, "Validating %s...\n", configPath)

	cfg, err := config.Load(ctx, configPath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	stopSource := "built-in list"
	if cfg.StopWordsFile != "" {
		stopSource = cfg.StopWordsFile
	}

	fmt.Fprintf(w, "\nConfiguration valid!\n")
	fmt.Fprintf(w, "  Media placeholder: %q\n", cfg.MediaPlaceholder)
	fmt.Fprintf(w, "  Stop words:        %d (%s", len(cfg.ResolvedStopWords()), stopSource)
	if len(cfg.StopWords) > 0 {
		fmt.Fprintf(w, " + %d inline", len(cfg.StopWords))
	}
	fmt.Fprintln(w, ")")
	fmt.Fprintf(w, "  Top users:         %d\n", cfg.TopUsers)
	fmt.Fprintf(w, "  Top words:         %d\n", cfg.TopWords)
	fmt.Fprintf(w, "  Webhooks:          %d\n", len(cfg.Webhooks))

	for i, wh := range cfg.Webhooks {
		name := wh.Name
		if name == "" {
			name = wh.URL
		}
		auth := ""
		if wh.Token != "" {
			auth = ", bearer token"
		}
		fmt.Fprintf(w, "    %d. %s [%s, %s%s]\n", i+1, name, wh.Trigger, wh.Timeout, auth)
		if strings.HasPrefix(wh.URL, "http://") {
			fmt.Fprintf(w, "       Warning: %s is not using TLS\n", wh.URL)
		}
	}

	return nil
}
