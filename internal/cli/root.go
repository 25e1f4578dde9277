// Package cli provides the command-line interface for chatstat.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/chatstat/internal/cli/commands"
	"github.com/ccollicutt/chatstat/internal/cli/plugins"
)

// Execute runs the root command and returns the exit code.
func Execute() int {
	return run(os.Args[1:])
}

func run(args []string) int {
	rootCmd := NewRootCommand()

	// An unknown first word may name a plugin
	if name, ok := pluginCandidate(rootCmd, args); ok {
		pluginPath, err := plugins.FindPlugin(name)
		if err == nil {
			return plugins.Execute(pluginPath, args[1:])
		}
		if errors.Is(err, plugins.ErrPluginNotFound) {
			_, _ = fmt.Fprintln(os.Stderr, plugins.FormatNotFoundError(name))
			return 2
		}
	}

	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		// Print error to stderr (SilenceErrors prevents Cobra from doing this)
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2 // Configuration or runtime error
	}
	return commands.ExitCode
}

// pluginCandidate returns the first argument if it is not a flag and not a
// built-in command.
func pluginCandidate(rootCmd *cobra.Command, args []string) (string, bool) {
	if len(args) == 0 {
		return "", false
	}
	name := args[0]
	if name == "" || name[0] == '-' {
		return "", false
	}
	return name, !isBuiltinCommand(rootCmd, name)
}

// isBuiltinCommand checks if a command name is a built-in cobra command.
func isBuiltinCommand(rootCmd *cobra.Command, name string) bool {
	for _, cmd := range rootCmd.Commands() {
		if cmd.Name() == name || cmd.HasAlias(name) {
			return true
		}
	}
	// Also check for special commands like help and completion
	return name == "help" || name == "completion"
}

// NewRootCommand creates the root cobra command.
func NewRootCommand() *cobra.Command {
	global := &commands.GlobalOptions{}

	rootCmd := &cobra.Command{
		Use:   "chatstat",
		Short: "Statistics for exported WhatsApp chats",
		Long: `chatstat reads exported WhatsApp chats and reports who talks, what they
say and when.

It computes:
  - Message, word, media and link counts per user or overall
  - The busiest users and their share of the conversation
  - Most common words, with English and Hinglish stop words removed
  - Monthly and daily timelines, weekday and month activity, hourly heatmap

PLUGINS:
  chatstat supports plugins for extended functionality. Plugins are standalone
  binaries named chatstat-<command> that are automatically discovered and invoked.

  Plugin locations (searched in order):
    1. Same directory as the chatstat binary
    2. ~/.chatstat/plugins/
    3. Anywhere in PATH

  Known plugins:
    wordcloud    Render the word-cloud surface of 'analyze -o json' as an image
    dashboard    Serve analysis reports in a local web dashboard`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	global.AddFlags(rootCmd)

	// Add subcommands
	rootCmd.AddCommand(commands.NewAnalyzeCommand(global))
	rootCmd.AddCommand(commands.NewUsersCommand(global))
	rootCmd.AddCommand(commands.NewDetectCommand())
	rootCmd.AddCommand(commands.NewDiagnoseCommand(global))
	rootCmd.AddCommand(commands.NewValidateCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	return rootCmd
}
