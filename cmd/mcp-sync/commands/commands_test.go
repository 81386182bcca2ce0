package commands

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"

	"github.com/ztripez/mcp-sync/internal/paths"
)

// executeCommand runs the root command with args and captures its output.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	viper.Reset()

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return buf.String(), err
}

func TestTemplateCommand(t *testing.T) {
	t.Setenv(paths.ConfigDirEnv, t.TempDir())

	out, err := executeCommand(t, "template")
	if err != nil {
		t.Fatalf("template error = %v", err)
	}
	for _, want := range []string{"mcpServers", "filesystem", "custom-server", "API_KEY"} {
		if !strings.Contains(out, want) {
			t.Errorf("template output missing %q:\n%s", want, out)
		}
	}
}

func TestInitCommand(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(paths.ConfigDirEnv, dir)

	out, err := executeCommand(t, "init")
	if err != nil {
		t.Fatalf("init error = %v", err)
	}
	if !strings.Contains(out, filepath.Join(dir, "global.json")) {
		t.Errorf("init output missing global config path:\n%s", out)
	}
}

func TestServerAddListRemove(t *testing.T) {
	t.Setenv(paths.ConfigDirEnv, t.TempDir())

	if _, err := executeCommand(t, "server", "add", "fs", "npx", "server-fs"); err != nil {
		t.Fatalf("server add error = %v", err)
	}

	// Duplicate add without --force fails with a suggestion-carrying error.
	if _, err := executeCommand(t, "server", "add", "fs", "npx", "server-fs"); err == nil {
		t.Error("duplicate server add should fail")
	}

	out, err := executeCommand(t, "server", "list")
	if err != nil {
		t.Fatalf("server list error = %v", err)
	}
	if !strings.Contains(out, "fs: npx server-fs") {
		t.Errorf("server list missing entry:\n%s", out)
	}

	if _, err := executeCommand(t, "server", "remove", "fs"); err != nil {
		t.Fatalf("server remove error = %v", err)
	}
	out, err = executeCommand(t, "server", "list")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out, "fs: npx") {
		t.Errorf("removed server still listed:\n%s", out)
	}
}

func TestLocationAddList(t *testing.T) {
	confDir := t.TempDir()
	t.Setenv(paths.ConfigDirEnv, confDir)

	target := filepath.Join(t.TempDir(), "tool.json")
	if _, err := executeCommand(t, "location", "add", target, "--name", "my-tool"); err != nil {
		t.Fatalf("location add error = %v", err)
	}

	// Re-adding the same path fails.
	if _, err := executeCommand(t, "location", "add", target); err == nil {
		t.Error("duplicate location add should fail")
	}

	out, err := executeCommand(t, "location", "list")
	if err != nil {
		t.Fatalf("location list error = %v", err)
	}
	if !strings.Contains(out, "my-tool") {
		t.Errorf("location list missing registration:\n%s", out)
	}

	if _, err := executeCommand(t, "location", "remove", target); err != nil {
		t.Fatalf("location remove error = %v", err)
	}
}

func TestSyncConflictingScopeFlags(t *testing.T) {
	t.Setenv(paths.ConfigDirEnv, t.TempDir())

	if _, err := executeCommand(t, "sync", "--global-only", "--project-only"); err == nil {
		t.Error("sync with both scope flags should fail")
	}
	// Reset for later tests.
	syncGlobalOnly = false
	syncProjectOnly = false
}

func TestClientInfoUnknown(t *testing.T) {
	t.Setenv(paths.ConfigDirEnv, t.TempDir())

	if _, err := executeCommand(t, "client", "info", "no-such-client"); err == nil {
		t.Error("client info for unknown id should fail")
	}
}
