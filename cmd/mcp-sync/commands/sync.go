package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ztripez/mcp-sync/internal/errors"
	"github.com/ztripez/mcp-sync/internal/syncer"
)

var (
	syncDryRun      bool
	syncGlobalOnly  bool
	syncProjectOnly bool
	syncLocation    string
)

func init() {
	syncCmd.Flags().BoolVar(&syncDryRun, "dry-run", false,
		"show what would change without writing anything")
	syncCmd.Flags().BoolVar(&syncGlobalOnly, "global-only", false,
		"sync only the global tier")
	syncCmd.Flags().BoolVar(&syncProjectOnly, "project-only", false,
		"sync only the project tier")
	syncCmd.Flags().StringVar(&syncLocation, "location", "",
		"sync a single location (path or name)")
	rootCmd.AddCommand(syncCmd)
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Sync MCP servers to all discovered tools",
	Long: `Reconcile every discovered and registered tool config against the
source of truth (global config overlaid with the project .mcp.json).

Entries you added to a tool by hand are preserved. Entries a previous
sync wrote are removed when the source no longer defines them. Files
are backed up before writing and restored if the write fails.`,
	Example: `  mcp-sync sync
  mcp-sync sync --dry-run
  mcp-sync sync --global-only
  mcp-sync sync --location ~/.cursor/mcp.json`,
	Args: cobra.NoArgs,
	RunE: runSync,
}

func runSync(cmd *cobra.Command, _ []string) error {
	if syncGlobalOnly && syncProjectOnly {
		return errors.NewUserError(errors.New("conflicting scope flags"),
			"Use either --global-only or --project-only, not both")
	}

	a, err := buildApp()
	if err != nil {
		return err
	}

	report, err := a.syncer.Sync(a.resolveLocations(), syncer.Options{
		DryRun:      syncDryRun,
		GlobalOnly:  syncGlobalOnly,
		ProjectOnly: syncProjectOnly,
		Location:    syncLocation,
	})
	if err != nil {
		return errors.NewConfigError(err)
	}

	out := cmd.OutOrStdout()
	if len(report.Reports) == 0 {
		fmt.Fprintln(out, "No sync locations found.")
		return nil
	}

	for _, lr := range report.Reports {
		switch lr.Outcome {
		case syncer.OutcomeUnchanged:
			dimColor.Fprintf(out, "%s: up to date\n", locationLabel(lr.Location))
		case syncer.OutcomeFailed:
			removeColor.Fprintf(out, "%s: failed: %v\n", locationLabel(lr.Location), lr.Err)
			if lr.RolledBack {
				dimColor.Fprintln(out, "  restored from backup")
			}
		case syncer.OutcomePartial:
			updateColor.Fprintf(out, "%s: partially applied\n", locationLabel(lr.Location))
			for _, er := range lr.Entries {
				if er.Err != nil {
					removeColor.Fprintf(out, "  %s %s failed: %v\n", er.Action, er.Name, er.Err)
				}
			}
		default:
			boldColor.Fprintf(out, "%s:\n", locationLabel(lr.Location))
			printMergeResult(out, lr.Result)
		}
	}

	sum := report.Summary()
	if report.DryRun {
		fmt.Fprintf(out, "\nDry run: %d location(s) would change (%d added, %d updated, %d removed).\n",
			sum.Changed, sum.Added, sum.Updated, sum.Removed)
	} else {
		fmt.Fprintf(out, "\nSynced: %d location(s) changed (%d added, %d updated, %d removed), %d failed.\n",
			sum.Changed, sum.Added, sum.Updated, sum.Removed, sum.Failed)
	}

	if sum.Failed > 0 {
		return errors.NewSystemError(errors.Newf("%d location(s) failed", sum.Failed),
			"Re-run with -v for details")
	}
	return nil
}
