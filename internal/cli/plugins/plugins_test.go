package plugins

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestFindPlugin_NotFound(t *testing.T) {
	t.Setenv(EnvPluginDir, t.TempDir())

	_, err := FindPlugin("nonexistent-plugin-xyz")
	if !errors.Is(err, ErrPluginNotFound) {
		t.Errorf("expected ErrPluginNotFound, got %v", err)
	}
}

func TestFindPlugin_RejectsPaths(t *testing.T) {
	for _, name := range []string{"", "../evil", `a\b`} {
		if _, err := FindPlugin(name); !errors.Is(err, ErrPluginNotFound) {
			t.Errorf("FindPlugin(%q) error = %v, want ErrPluginNotFound", name, err)
		}
	}
}

func TestFindPlugin_InPluginsDir(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("executable bit not meaningful on windows")
	}

	pluginsDir := t.TempDir()
	t.Setenv(EnvPluginDir, pluginsDir)

	// Create a fake plugin
	pluginPath := filepath.Join(pluginsDir, "chatstat-testplugin")
	if err := os.WriteFile(pluginPath, []byte("#!/bin/sh\necho test"), 0755); err != nil {
		t.Fatalf("failed to create test plugin: %v", err)
	}

	found, err := FindPlugin("testplugin")
	if err != nil {
		t.Errorf("expected to find plugin, got error: %v", err)
	}
	if found != pluginPath {
		t.Errorf("expected %s, got %s", pluginPath, found)
	}
}

func TestExecute_ExitCode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script plugins need a unix shell")
	}

	dir := t.TempDir()
	script := filepath.Join(dir, "chatstat-exit")
	body := "#!/bin/sh\n[ -n \"$" + EnvBinary + "\" ] || exit 9\nexit $1\n"
	if err := os.WriteFile(script, []byte(body), 0755); err != nil {
		t.Fatalf("failed to create script: %v", err)
	}

	if code := Execute(script, []string{"0"}); code != 0 {
		t.Errorf("Execute() = %d, want 0", code)
	}
	if code := Execute(script, []string{"3"}); code != 3 {
		t.Errorf("Execute() = %d, want 3", code)
	}
}

func TestUserPluginDir(t *testing.T) {
	t.Setenv(EnvPluginDir, "/opt/chatstat/plugins")
	dir, err := UserPluginDir()
	if err != nil || dir != "/opt/chatstat/plugins" {
		t.Errorf("UserPluginDir() = %q, %v", dir, err)
	}

	t.Setenv(EnvPluginDir, "")
	dir, err = UserPluginDir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}
	if !strings.HasSuffix(dir, filepath.Join(".chatstat", "plugins")) {
		t.Errorf("UserPluginDir() = %q", dir)
	}
}

func TestFormatNotFoundError_KnownPlugin(t *testing.T) {
	err := FormatNotFoundError("wordcloud")

	if !strings.Contains(err, "available as a plugin") {
		t.Error("expected error to mention plugin availability")
	}
	if !strings.Contains(err, "chatstat-wordcloud") {
		t.Error("expected error to mention chatstat-wordcloud")
	}
	if !strings.Contains(err, KnownPlugins["wordcloud"]) {
		t.Error("expected error to describe the plugin")
	}
}

func TestFormatNotFoundError_UnknownPlugin(t *testing.T) {
	err := FormatNotFoundError("unknown")

	if !strings.Contains(err, `unknown command "unknown"`) {
		t.Error("expected error to name the command")
	}
	if !strings.Contains(err, "chatstat-unknown") {
		t.Error("expected error to mention chatstat-unknown")
	}
	if strings.Contains(err, "available as a plugin") {
		t.Error("should not mention plugin availability for unknown plugins")
	}
}

func TestIsExecutable(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("executable bit not meaningful on windows")
	}

	tmpDir := t.TempDir()

	nonExec := filepath.Join(tmpDir, "nonexec")
	if err := os.WriteFile(nonExec, []byte("test"), 0644); err != nil {
		t.Fatalf("failed to create file: %v", err)
	}
	if isExecutable(nonExec) {
		t.Error("non-executable file should not be detected as executable")
	}

	exec := filepath.Join(tmpDir, "exec")
	if err := os.WriteFile(exec, []byte("test"), 0755); err != nil {
		t.Fatalf("failed to create file: %v", err)
	}
	if !isExecutable(exec) {
		t.Error("executable file should be detected as executable")
	}

	if isExecutable(tmpDir) {
		t.Error("directory should not be detected as executable")
	}

	if isExecutable(filepath.Join(tmpDir, "nonexistent")) {
		t.Error("non-existent file should not be detected as executable")
	}
}

func TestKnownPlugins(t *testing.T) {
	for _, name := range []string{"wordcloud", "dashboard"} {
		if _, ok := KnownPlugins[name]; !ok {
			t.Errorf("expected %q to be in KnownPlugins", name)
		}
	}
}
