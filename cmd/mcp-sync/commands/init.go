package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ztripez/mcp-sync/internal/config"
	"github.com/ztripez/mcp-sync/internal/errors"
	"github.com/ztripez/mcp-sync/internal/mcp"
	"github.com/ztripez/mcp-sync/internal/paths"
	"github.com/ztripez/mcp-sync/pkg/fileutil"
)

var initProject bool

func init() {
	initCmd.Flags().BoolVar(&initProject, "project", false,
		"create a .mcp.json in the current directory instead")
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the mcp-sync config directory",
	Long: `Create the config directory with an empty global server config and a
default config.yaml. With --project, create an empty .mcp.json in the
current directory instead.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()

	if initProject {
		path := paths.ProjectConfigPath("")
		if _, err := os.Stat(path); err == nil {
			return errors.NewUserError(errors.Newf("%s already exists", path),
				"Edit the existing file instead")
		}
		if err := writeEmptyServerConfig(path); err != nil {
			return errors.NewSystemError(err, "Check directory permissions")
		}
		fmt.Fprintf(out, "Created %s\n", path)
		return nil
	}

	if err := paths.EnsureDir(paths.ConfigDir(), 0); err != nil {
		return errors.NewSystemError(err, "Check directory permissions")
	}

	globalPath := paths.GlobalConfigPath()
	if _, err := os.Stat(globalPath); os.IsNotExist(err) {
		if err := writeEmptyServerConfig(globalPath); err != nil {
			return errors.NewSystemError(err, "Check directory permissions")
		}
		fmt.Fprintf(out, "Created %s\n", globalPath)
	} else {
		dimColor.Fprintf(out, "%s already exists\n", globalPath)
	}

	cfgPath, err := config.WriteDefault()
	if err != nil {
		dimColor.Fprintf(out, "%s already exists\n", cfgPath)
	} else {
		fmt.Fprintf(out, "Created %s\n", cfgPath)
	}

	fmt.Fprintln(out, "\nNext steps:")
	fmt.Fprintln(out, "  mcp-sync server add <name> <command> [args...]")
	fmt.Fprintln(out, "  mcp-sync sync")
	return nil
}

// writeEmptyServerConfig writes a config file with an empty server map.
func writeEmptyServerConfig(path string) error {
	doc := map[string]any{mcp.DefaultServersKey: map[string]any{}}
	return fileutil.AtomicWriteJSON(path, doc)
}
