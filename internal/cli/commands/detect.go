package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/chatstat/pkg/config"
	"github.com/ccollicutt/chatstat/pkg/detector"
)

// DetectOptions holds command-line options for the detect command.
type DetectOptions struct {
	Output      string
	SampleSize  int
	ShowAll     bool
	WriteConfig string
}

// NewDetectCommand creates the detect command.
func NewDetectCommand() *cobra.Command {
	opts := &DetectOptions{}

	cmd := &cobra.Command{
		Use:   "detect <export>",
		Short: "Detect the message prefix layout of a chat export",
		Long: `Inspect an exported chat to identify its message prefix layout.

Samples lines from the file and tests them against known WhatsApp export
layouts. Reports the detected layout, whether chatstat can parse it, and
what the sample says about day/month ordering.

Supported:
  - Android 12-hour exports with day-first dates (13/02/23, 9:41 pm - )

Recognized but not supported:
  - 24-hour clocks, 4-digit years, month-first dates
  - Dotted dates (13.02.23) and bracketed iOS exports

Optionally generates a starter config with --write-config.

Example:
  chatstat detect chat.txt
  chatstat detect --sample 500 chat.txt
  chatstat detect -w chatstat.yaml chat.txt

Exit codes:
  0 - Layout is supported
  1 - Layout is not supported or not recognized
  2 - Runtime error`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDetect(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json)")
	cmd.Flags().IntVarP(&opts.SampleSize, "sample", "n", 200, "Number of lines to sample")
	cmd.Flags().BoolVar(&opts.ShowAll, "all", false, "Show all detected layouts, not just the best match")
	cmd.Flags().StringVarP(&opts.WriteConfig, "write-config", "w", "", "Write starter config to file (will not overwrite)")

	return cmd
}

func runDetect(cmd *cobra.Command, args []string, opts *DetectOptions) error {
	exportFile := args[0]
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out := cmd.OutOrStdout()

	// Check file exists
	if _, err := os.Stat(exportFile); os.IsNotExist(err) {
		return fmt.Errorf("chat export not found: %s", exportFile)
	}

	d := detector.New(detector.WithSampleSize(opts.SampleSize))

	result, err := d.DetectFromFile(ctx, exportFile)
	if err != nil {
		return fmt.Errorf("detection failed: %w", err)
	}

	// Write config file if requested
	if opts.WriteConfig != "" {
		if err := writeStarterConfig(out, result, exportFile, opts.WriteConfig); err != nil {
			return err
		}
	}

	if !result.Supported() {
		ExitCode = 1
	}

	switch opts.Output {
	case "json":
		return outputDetectJSON(out, result, exportFile, opts)
	default:
		return outputDetectText(out, result, exportFile, opts)
	}
}

func outputDetectText(w io.Writer, result *detector.DetectionResult, exportFile string, opts *DetectOptions) error {
	fmt.Fprintln(w, "=== Export Format Detection ===")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "File: %s\n", exportFile)
	fmt.Fprintf(w, "Lines sampled: %d\n", result.SampledLines)
	fmt.Fprintf(w, "Message lines: %d\n", result.PrefixLines)
	fmt.Fprintln(w)

	if !result.HasMatch() {
		fmt.Fprintln(w, "No export layout detected.")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Tip: Export the chat from WhatsApp with \"Export chat\" > \"Without media\".")
		fmt.Fprintln(w, "Message lines should start like: 13/02/23, 9:41 pm - Name: text")
		return nil
	}

	best := result.BestMatch()
	fmt.Fprintf(w, "Detected Layout: %s\n", best.Format.Name)
	fmt.Fprintf(w, "Confidence: %.1f%% (%d message lines parsed)\n", best.Confidence*100, best.MatchCount)
	if best.Format.Supported {
		fmt.Fprintln(w, "Supported: yes")
	} else {
		fmt.Fprintln(w, "Supported: no")
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Sample match:\n  %s\n", truncate(best.SampleLine, 120))
	fmt.Fprintf(w, "Parsed as: %s\n", best.ParsedTime.Format("2006-01-02 15:04 Monday"))
	fmt.Fprintln(w)

	if result.AmbiguityNote != "" {
		fmt.Fprintf(w, "Note: %s\n", result.AmbiguityNote)
		fmt.Fprintln(w)
	}

	if best.Format.Supported {
		fmt.Fprintf(w, "Next: chatstat analyze %s\n", exportFile)
		fmt.Fprintln(w)
	} else {
		fmt.Fprintln(w, "chatstat expects day-first dates, a 2-digit year and a 12-hour clock.")
		fmt.Fprintln(w, "Messages in this layout would be skipped or left undated.")
		fmt.Fprintln(w)
	}

	// Show alternatives if requested
	if opts.ShowAll && len(result.Matches) > 1 {
		fmt.Fprintln(w, "--- Alternative layouts detected ---")
		for i, m := range result.Matches[1:] {
			fmt.Fprintf(w, "%d. %s (%.1f%% confidence)\n", i+2, m.Format.Name, m.Confidence*100)
			fmt.Fprintf(w, "   pattern: '%s'\n", m.Format.PatternStr)
			fmt.Fprintf(w, "   layouts: %s\n", strings.Join(m.Format.Layouts, " | "))
		}
		fmt.Fprintln(w)
	}

	return nil
}

// JSONMatch represents a layout match in JSON output.
type JSONMatch struct {
	Name       string   `json:"name"`
	Pattern    string   `json:"pattern"`
	Layouts    []string `json:"layouts"`
	Confidence float64  `json:"confidence"`
	MatchCount int      `json:"match_count"`
	SampleLine string   `json:"sample_line"`
	Supported  bool     `json:"supported"`
	Ambiguous  bool     `json:"ambiguous,omitempty"`
}

// JSONOutput represents the full JSON output.
type JSONOutput struct {
	File          string      `json:"file"`
	Supported     bool        `json:"supported"`
	Matches       []JSONMatch `json:"matches"`
	SampledLines  int         `json:"sampled_lines"`
	PrefixLines   int         `json:"prefix_lines"`
	AmbiguityNote string      `json:"ambiguity_note,omitempty"`
}

func outputDetectJSON(w io.Writer, result *detector.DetectionResult, exportFile string, opts *DetectOptions) error {
	out := JSONOutput{
		File:          exportFile,
		Supported:     result.Supported(),
		SampledLines:  result.SampledLines,
		PrefixLines:   result.PrefixLines,
		AmbiguityNote: result.AmbiguityNote,
		Matches:       make([]JSONMatch, 0),
	}

	matches := result.Matches
	if !opts.ShowAll && len(matches) > 1 {
		matches = matches[:1] // Only show best match
	}

	for _, m := range matches {
		out.Matches = append(out.Matches, JSONMatch{
			Name:       m.Format.Name,
			Pattern:    m.Format.PatternStr,
			Layouts:    m.Format.Layouts,
			Confidence: m.Confidence,
			MatchCount: m.MatchCount,
			SampleLine: m.SampleLine,
			Supported:  m.Format.Supported,
			Ambiguous:  m.Format.Ambiguous,
		})
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

// writeStarterConfig generates a starter config file for a supported export.
func writeStarterConfig(w io.Writer, result *detector.DetectionResult, exportFile, configPath string) error {
	// Check if file already exists
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("config file already exists: %s (will not overwrite)", configPath)
	}

	if !result.Supported() {
		return fmt.Errorf("cannot generate config: %s is not in a supported export layout", exportFile)
	}

	content := generateStarterConfig(exportFile, result.BestMatch())

	// #nosec G306 - config file doesn't need restrictive permissions
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Fprintf(w, "Wrote starter config to: %s\n\n", configPath)
	return nil
}

// generateStarterConfig creates a YAML config template.
func generateStarterConfig(exportFile string, match *detector.FormatMatch) string {
	return fmt.Sprintf(`# chatstat configuration
# Generated by: chatstat detect %s
# Detected layout: %s (%.0f%% confidence)

# Text WhatsApp writes in place of an attachment in exports "without media".
media_placeholder: %q

# Stop words: a file with whitespace-separated words ('#' starts a comment
# line). The built-in English and Hinglish list is used when omitted.
# stop_words_file: stop_hinglish.txt

# Extra stop words merged with the list above.
stop_words: []

top_users: %d
top_words: %d

# Post every report as JSON:
# webhooks:
#   - name: dashboard
#     url: https://example.com/hooks/chatstat
#     token: ${CHATSTAT_WEBHOOK_TOKEN}
#     trigger: on_messages   # on_messages | always | never
#     timeout: 10s
`, exportFile, match.Format.Name, match.Confidence*100,
		config.DefaultMediaPlaceholder,
		config.DefaultTopUsers,
		config.DefaultTopWords)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
