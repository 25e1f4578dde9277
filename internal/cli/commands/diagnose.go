package commands

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/ccollicutt/chatstat/pkg/analyzer"
	"github.com/ccollicutt/chatstat/pkg/config"
	"github.com/ccollicutt/chatstat/pkg/detector"
	"github.com/ccollicutt/chatstat/pkg/parser"
)

// DiagnoseOptions holds options for the diagnose command
type DiagnoseOptions struct {
	Verbose bool
}

// DiagnosticResult represents the result of a single diagnostic check
type DiagnosticResult struct {
	Check    string
	Status   string // "ok", "warning", "error"
	Message  string
	Details  []string
	Suggests []string
}

// NewDiagnoseCommand creates the diagnose command
func NewDiagnoseCommand(g *GlobalOptions) *cobra.Command {
	opts := &DiagnoseOptions{}

	cmd := &cobra.Command{
		Use:   "diagnose <export>",
		Short: "Diagnose why an export yields unexpected statistics",
		Long: `Diagnose common problems with a chat export and the configuration.

This command checks:
- Export file existence, size and encoding markers
- Configuration file (--config) syntax and constraints
- Message prefix layout of the export
- Parse results: messages, notifications, undated records
- Webhook configuration (and connectivity with -v)

Example:
  chatstat diagnose chat.txt
  chatstat --config chatstat.yaml diagnose -v chat.txt`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return runDiagnose(ctx, cmd.OutOrStdout(), args[0], g.ConfigFile, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Show detailed diagnostic output")

	return cmd
}

func runDiagnose(ctx context.Context, w io.Writer, exportPath, configPath string, opts *DiagnoseOptions) error {
	results := []DiagnosticResult{}

	// 1. Check export file
	result := checkExportExists(exportPath)
	results = append(results, result)
	if result.Status == "error" {
		printDiagnostics(w, results, opts)
		return nil
	}

	// 2. Load configuration
	cfg, result := checkConfig(ctx, configPath)
	results = append(results, result)
	if result.Status == "error" {
		printDiagnostics(w, results, opts)
		return nil
	}

	// 3. Check message prefix layout
	results = append(results, checkExportLayout(ctx, exportPath, opts))

	// 4. Parse the export
	results = append(results, checkParse(exportPath, cfg, opts))

	// 5. Check webhooks
	results = append(results, checkWebhooks(ctx, cfg, opts)...)

	printDiagnostics(w, results, opts)
	return nil
}

func checkExportExists(path string) DiagnosticResult {
	result := DiagnosticResult{
		Check: "Export File",
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		result.Status = "error"
		result.Message = fmt.Sprintf("Export file not found: %s", path)
		result.Suggests = []string{
			"Check the file path is correct",
			"In WhatsApp use More > Export chat > Without media to create the .txt export",
		}
		return result
	}
	if err != nil {
		result.Status = "error"
		result.Message = fmt.Sprintf("Cannot access export file: %v", err)
		result.Suggests = []string{"Check file permissions"}
		return result
	}
	if info.IsDir() {
		result.Status = "error"
		result.Message = "Path is a directory, not a file"
		result.Suggests = []string{"Unzip the export and point chatstat at the .txt file inside"}
		return result
	}
	if info.Size() == 0 {
		result.Status = "error"
		result.Message = "Export file is empty"
		return result
	}
	if info.Size() > parser.MaxExportSize {
		result.Status = "error"
		result.Message = fmt.Sprintf("Export file is %s, above the %s limit",
			humanize.IBytes(uint64(info.Size())), humanize.IBytes(parser.MaxExportSize))
		return result
	}

	result.Status = "ok"
	result.Message = fmt.Sprintf("Found: %s (%s)", path, humanize.IBytes(uint64(info.Size())))
	return result
}

func checkConfig(ctx context.Context, path string) (*config.Config, DiagnosticResult) {
	result := DiagnosticResult{
		Check: "Configuration",
	}

	cfg, err := config.Load(ctx, path)
	if err != nil {
		result.Status = "error"
		result.Message = fmt.Sprintf("Failed to load config: %v", err)
		if strings.Contains(err.Error(), "yaml") {
			result.Suggests = []string{
				"Check YAML syntax - ensure proper indentation (use spaces, not tabs)",
			}
		}
		return nil, result
	}

	result.Status = "ok"
	if path == "" {
		result.Message = "No config file given, using built-in defaults"
	} else {
		result.Message = fmt.Sprintf("Loaded %s", path)
	}
	result.Details = []string{
		fmt.Sprintf("Media placeholder: %q", cfg.MediaPlaceholder),
		fmt.Sprintf("Stop words: %d", len(cfg.ResolvedStopWords())),
		fmt.Sprintf("Webhooks: %d", len(cfg.Webhooks)),
	}
	return cfg, result
}

func checkExportLayout(ctx context.Context, path string, opts *DiagnoseOptions) DiagnosticResult {
	result := DiagnosticResult{
		Check: "Export Layout",
	}

	detection, err := detector.New().DetectFromFile(ctx, path)
	if err != nil {
		result.Status = "error"
		result.Message = fmt.Sprintf("Cannot sample export: %v", err)
		return result
	}

	best := detection.BestMatch()
	switch {
	case best == nil:
		result.Status = "error"
		result.Message = fmt.Sprintf("No known message layout in %d sampled lines", detection.SampledLines)
		result.Suggests = []string{
			"Lines should start like: 13/02/23, 9:41 pm - Name: text",
			"Run 'chatstat detect --all <export>' for details",
		}
	case !best.Format.Supported:
		result.Status = "error"
		result.Message = fmt.Sprintf("Layout %q is not supported", best.Format.Name)
		result.Details = []string{fmt.Sprintf("Sample: %s", truncate(best.SampleLine, 80))}
		result.Suggests = []string{
			"Re-export with a day-first locale and a 12-hour clock",
		}
	default:
		result.Status = "ok"
		result.Message = fmt.Sprintf("%s (%.0f%% of message lines)", best.Format.Name, best.Confidence*100)
		if opts.Verbose {
			result.Details = []string{fmt.Sprintf("Sample: %s", truncate(best.SampleLine, 80))}
		}
	}

	if detection.AmbiguityNote != "" {
		result.Details = append(result.Details, detection.AmbiguityNote)
		if result.Status == "ok" {
			result.Status = "warning"
		}
	}

	return result
}

func checkParse(path string, cfg *config.Config, opts *DiagnoseOptions) DiagnosticResult {
	result := DiagnosticResult{
		Check: "Parse",
	}

	raw, err := parser.ReadFile(path)
	if err != nil {
		result.Status = "error"
		result.Message = err.Error()
		return result
	}

	msgs, stats := parser.New().ParseWithStats(raw)
	if stats.Messages == 0 {
		result.Status = "error"
		result.Message = "No messages recognized"
		result.Suggests = []string{"Check the Export Layout result above"}
		return result
	}

	senders := parser.Senders(msgs)
	media := analyzer.FromConfig(cfg).FetchStats(analyzer.Overall, msgs).Media

	result.Status = "ok"
	result.Message = fmt.Sprintf("%s messages from %d senders",
		humanize.Comma(int64(stats.Messages)), len(senders))
	result.Details = []string{
		fmt.Sprintf("Group notifications: %d", stats.Notifications),
		fmt.Sprintf("Undated messages: %d", stats.InvalidTimestamps),
		fmt.Sprintf("Media placeholders: %d", media),
		fmt.Sprintf("Preamble skipped: %d bytes", stats.PreambleBytes),
	}
	if opts.Verbose {
		result.Details = append(result.Details, fmt.Sprintf("Senders: %s", strings.Join(senders, ", ")))
	}

	if stats.InvalidTimestamps > 0 {
		result.Status = "warning"
		result.Message += fmt.Sprintf(", %d without a usable timestamp", stats.InvalidTimestamps)
		result.Suggests = append(result.Suggests,
			"Undated messages are counted but left out of timelines and activity maps")
	}
	if media == 0 && stats.Messages > 50 {
		result.Suggests = append(result.Suggests, fmt.Sprintf(
			"No %q found; set media_placeholder if your export uses another language", cfg.MediaPlaceholder))
	}

	return result
}

func printDiagnostics(w io.Writer, results []DiagnosticResult, opts *DiagnoseOptions) {
	fmt.Fprintln(w, "=== chatstat Diagnostics ===")
	fmt.Fprintln(w)

	okCount := 0
	warnCount := 0
	errCount := 0

	for _, r := range results {
		// Status icon
		var icon string
		switch r.Status {
		case "ok":
			icon = "PASS"
			okCount++
		case "warning":
			icon = "WARN"
			warnCount++
		case "error":
			icon = "FAIL"
			errCount++
		}

		fmt.Fprintf(w, "[%s] %s\n", icon, r.Check)
		fmt.Fprintf(w, "    %s\n", r.Message)

		if opts.Verbose || r.Status != "ok" {
			for _, d := range r.Details {
				fmt.Fprintf(w, "      - %s\n", d)
			}
		}

		for _, s := range r.Suggests {
			fmt.Fprintf(w, "      Hint: %s\n", s)
		}

		fmt.Fprintln(w)
	}

	// Summary
	fmt.Fprintln(w, "---")
	fmt.Fprintf(w, "Summary: %d passed, %d warnings, %d errors\n", okCount, warnCount, errCount)

	if errCount > 0 {
		fmt.Fprintln(w, "\nFix the errors above before running analysis.")
		ExitCode = 1
	} else if warnCount > 0 {
		fmt.Fprintln(w, "\nThe export is usable but has warnings.")
	} else {
		fmt.Fprintln(w, "\nThe export looks good!")
	}
}

func checkWebhooks(ctx context.Context, cfg *config.Config, opts *DiagnoseOptions) []DiagnosticResult {
	results := []DiagnosticResult{}

	for _, wh := range cfg.Webhooks {
		name := wh.Name
		if name == "" {
			name = wh.URL
		}

		result := DiagnosticResult{
			Check:   fmt.Sprintf("Webhook: %s", name),
			Status:  "ok",
			Message: fmt.Sprintf("Trigger: %s", wh.Trigger),
		}

		if strings.HasPrefix(wh.URL, "http://") {
			result.Status = "warning"
			result.Details = append(result.Details, "URL does not use TLS; the report contains chat content")
		}
		if opts.Verbose {
			result.Details = append(result.Details,
				fmt.Sprintf("URL: %s", wh.URL),
				fmt.Sprintf("Timeout: %s", wh.Timeout))
			if wh.Token != "" {
				result.Details = append(result.Details, "Token: configured")
			}
		}

		results = append(results, result)
	}

	// Optionally test webhook connectivity
	if opts.Verbose {
		for _, wh := range cfg.Webhooks {
			name := wh.Name
			if name == "" {
				name = wh.URL
			}

			result := checkWebhookConnectivity(ctx, wh)
			result.Check = fmt.Sprintf("Webhook Connectivity: %s", name)
			results = append(results, result)
		}
	}

	return results
}

func checkWebhookConnectivity(ctx context.Context, wh config.WebhookConfig) DiagnosticResult {
	result := DiagnosticResult{}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	// Just do a HEAD request to check if the endpoint is reachable
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, wh.URL, nil)
	if err != nil {
		result.Status = "warning"
		result.Message = fmt.Sprintf("Cannot create request: %v", err)
		return result
	}

	if wh.Token != "" {
		req.Header.Set("Authorization", "Bearer "+wh.Token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		result.Status = "warning"
		result.Message = fmt.Sprintf("Cannot connect: %v", err)
		result.Suggests = []string{
			"Check if the webhook URL is correct",
			"Verify network connectivity",
		}
		return result
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 400 {
		result.Status = "ok"
		result.Message = fmt.Sprintf("Reachable (status %d)", resp.StatusCode)
	} else {
		result.Status = "warning"
		result.Message = fmt.Sprintf("Reachable but returned status %d", resp.StatusCode)
		result.Suggests = []string{
			"The endpoint may require POST method (will work during actual webhook send)",
			"Check authentication if using a token",
		}
	}

	return result
}
