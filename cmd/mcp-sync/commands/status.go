package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ztripez/mcp-sync/internal/errors"
	"github.com/ztripez/mcp-sync/internal/mcp"
)

func init() {
	rootCmd.AddCommand(statusCmd)
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show servers across all tiers and locations",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, _ []string) error {
	a, err := buildApp()
	if err != nil {
		return err
	}

	st, err := a.syncer.Status(a.resolveLocations())
	if err != nil {
		return errors.NewConfigError(err)
	}

	out := cmd.OutOrStdout()

	boldColor.Fprintln(out, "Global servers:")
	printServerSet(cmd, st.Global)

	boldColor.Fprintln(out, "\nProject servers:")
	if a.store.HasProject() {
		printServerSet(cmd, st.Project)
	} else {
		dimColor.Fprintln(out, "  (no .mcp.json in this directory)")
	}

	boldColor.Fprintln(out, "\nLocations:")
	if len(st.Locations) == 0 {
		dimColor.Fprintln(out, "  (none discovered or registered)")
	}
	for _, ls := range st.Locations {
		if ls.Err != nil {
			removeColor.Fprintf(out, "  %s: error: %v\n", locationLabel(ls.Location), ls.Err)
			continue
		}
		fmt.Fprintf(out, "  %s: %d server(s)", locationLabel(ls.Location), len(ls.Servers))
		if ls.Managed != nil {
			dimColor.Fprintf(out, ", %d managed", len(ls.Managed))
		}
		fmt.Fprintln(out)
		for _, name := range ls.Servers.Names() {
			dimColor.Fprintf(out, "    %s: %s\n", name, describeServer(ls.Servers[name]))
		}
	}
	return nil
}

func printServerSet(cmd *cobra.Command, set mcp.ServerSet) {
	out := cmd.OutOrStdout()
	if len(set) == 0 {
		dimColor.Fprintln(out, "  (none)")
		return
	}
	for _, name := range set.Names() {
		fmt.Fprintf(out, "  %s: %s\n", name, describeServer(set[name]))
	}
}
