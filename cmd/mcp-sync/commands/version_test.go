package commands

import (
	"runtime"
	"strings"
	"testing"

	"github.com/ztripez/mcp-sync/internal/paths"
)

func TestVersionCommand(t *testing.T) {
	t.Setenv(paths.ConfigDirEnv, t.TempDir())

	out, err := executeCommand(t, "version")
	if err != nil {
		t.Fatalf("version error = %v", err)
	}

	for _, want := range []string{
		"mcp-sync version " + Version,
		"commit: " + Commit,
		"built:  " + Date,
		"go:     " + runtime.Version(),
	} {
		if !strings.Contains(out, want) {
			t.Errorf("version output missing %q:\n%s", want, out)
		}
	}
}

func TestVersionCommandMetadata(t *testing.T) {
	if versionCmd.Use != "version" {
		t.Errorf("versionCmd.Use = %q, want %q", versionCmd.Use, "version")
	}
	if versionCmd.Short == "" {
		t.Error("versionCmd.Short should not be empty")
	}
}
