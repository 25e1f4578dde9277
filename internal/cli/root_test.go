package cli

import (
	"testing"
)

func TestNewRootCommand_Subcommands(t *testing.T) {
	root := NewRootCommand()

	for _, name := range []string{"analyze", "users", "detect", "diagnose", "validate", "version"} {
		if !isBuiltinCommand(root, name) {
			t.Errorf("subcommand %q not registered", name)
		}
	}

	for _, flag := range []string{"config", "log-level", "log-format"} {
		if root.PersistentFlags().Lookup(flag) == nil {
			t.Errorf("persistent flag --%s not registered", flag)
		}
	}
}

func TestPluginCandidate(t *testing.T) {
	root := NewRootCommand()

	tests := []struct {
		name     string
		args     []string
		wantName string
		wantOK   bool
	}{
		{"no args", nil, "", false},
		{"flag first", []string{"--config", "x.yaml", "analyze"}, "", false},
		{"builtin", []string{"analyze", "chat.txt"}, "analyze", false},
		{"help", []string{"help"}, "help", false},
		{"completion", []string{"completion", "bash"}, "completion", false},
		{"plugin", []string{"wordcloud", "report.json"}, "wordcloud", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, ok := pluginCandidate(root, tt.args)
			if ok != tt.wantOK {
				t.Errorf("pluginCandidate() ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && name != tt.wantName {
				t.Errorf("pluginCandidate() name = %q, want %q", name, tt.wantName)
			}
		})
	}
}

func TestRun_Version(t *testing.T) {
	if code := run([]string{"version"}); code != 0 {
		t.Errorf("run(version) = %d, want 0", code)
	}
}

func TestRun_UnknownPlugin(t *testing.T) {
	t.Setenv("CHATSTAT_PLUGIN_DIR", t.TempDir())
	t.Setenv("PATH", t.TempDir())

	if code := run([]string{"no-such-plugin"}); code != 2 {
		t.Errorf("run(no-such-plugin) = %d, want 2", code)
	}
}

func TestRun_CommandError(t *testing.T) {
	if code := run([]string{"validate", "/nonexistent/chatstat.yaml"}); code != 2 {
		t.Errorf("run(validate missing) = %d, want 2", code)
	}
}
