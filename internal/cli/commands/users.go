package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/chatstat/pkg/analyzer"
	"github.com/ccollicutt/chatstat/pkg/parser"
)

// UsersOptions holds command-line options for the users command.
type UsersOptions struct {
	Output string
}

// NewUsersCommand creates the users command.
func NewUsersCommand(g *GlobalOptions) *cobra.Command {
	opts := &UsersOptions{}

	cmd := &cobra.Command{
		Use:   "users <export>",
		Short: "List the users that can be selected for analysis",
		Long: `List the selectable users of an export: "Overall" followed by every
sender in sorted order. Group notifications are not a user.

Example:
  chatstat users chat.txt
  chatstat analyze --user "$(chatstat users chat.txt | sed -n 2p)" chat.txt`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUsers(cmd, args[0], g, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json)")

	return cmd
}

func runUsers(cmd *cobra.Command, path string, g *GlobalOptions, opts *UsersOptions) error {
	_, _, logger, err := g.setup(cmd)
	if err != nil {
		return err
	}

	raw, err := parser.ReadFile(path)
	if err != nil {
		return err
	}

	msgs := parser.New(parser.WithLogger(logger)).Parse(raw)
	users := analyzer.UserOptions(msgs)

	if len(msgs) == 0 {
		logger.Warn("export contained no recognizable messages", "file", path)
		ExitCode = 1
	}

	out := cmd.OutOrStdout()
	switch opts.Output {
	case "json":
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(users)
	case "text":
		return writeLines(out, users)
	default:
		return fmt.Errorf("unknown output format %q (use text or json)", opts.Output)
	}
}

// writeLines prints one entry per line.
func writeLines(w io.Writer, lines []string) error {
	for _, l := range lines {
		if _, err := fmt.Fprintln(w, l); err != nil {
			return err
		}
	}
	return nil
}
