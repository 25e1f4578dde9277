package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/chatstat/internal/logging"
)

const sampleExport = `Messages and calls are end-to-end encrypted.
13/02/23, 9:15 am - Alice created group "Trip"
13/02/23, 9:16 am - Alice: Hello everyone, the plan is ready
13/02/23, 9:20 am - Bob: check https://maps.example.com
14/02/23, 11:45 pm - Bob: <Media omitted>
1/3/23, 12:05 am - Carol: plan looks good
`

// writeExport writes content to name inside dir and returns the path.
func writeExport(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

// resetExitCode clears the global exit code before and after a test.
func resetExitCode(t *testing.T) {
	t.Helper()
	ExitCode = 0
	t.Cleanup(func() { ExitCode = 0 })
}

func testGlobals() *GlobalOptions {
	return &GlobalOptions{LogLevel: "error", LogFormat: logging.FormatText}
}

// execute runs cmd with args and returns its stdout.
func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}
