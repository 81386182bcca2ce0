package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ztripez/mcp-sync/internal/errors"
	"github.com/ztripez/mcp-sync/internal/syncer"
)

var (
	diffGlobalOnly  bool
	diffProjectOnly bool
	diffLocation    string
)

func init() {
	diffCmd.Flags().BoolVar(&diffGlobalOnly, "global-only", false,
		"diff only the global tier")
	diffCmd.Flags().BoolVar(&diffProjectOnly, "project-only", false,
		"diff only the project tier")
	diffCmd.Flags().StringVar(&diffLocation, "location", "",
		"diff a single location (path or name)")
	rootCmd.AddCommand(diffCmd)
}

var diffCmd = &cobra.Command{
	Use:   "diff",
	Short: "Show what sync would change",
	Long: `Compute the diff between the source of truth and every location
without writing anything. Equivalent to sync --dry-run.`,
	Args: cobra.NoArgs,
	RunE: runDiff,
}

func runDiff(cmd *cobra.Command, _ []string) error {
	if diffGlobalOnly && diffProjectOnly {
		return errors.NewUserError(errors.New("conflicting scope flags"),
			"Use either --global-only or --project-only, not both")
	}

	a, err := buildApp()
	if err != nil {
		return err
	}

	report, err := a.syncer.Sync(a.resolveLocations(), syncer.Options{
		DryRun:      true,
		GlobalOnly:  diffGlobalOnly,
		ProjectOnly: diffProjectOnly,
		Location:    diffLocation,
	})
	if err != nil {
		return errors.NewConfigError(err)
	}

	out := cmd.OutOrStdout()
	if len(report.Reports) == 0 {
		fmt.Fprintln(out, "No sync locations found.")
		return nil
	}

	var pending int
	for _, lr := range report.Reports {
		switch {
		case lr.Outcome == syncer.OutcomeFailed:
			removeColor.Fprintf(out, "%s: cannot read: %v\n", locationLabel(lr.Location), lr.Err)
		case lr.Changed():
			boldColor.Fprintf(out, "%s:\n", locationLabel(lr.Location))
			printMergeResult(out, lr.Result)
			for _, c := range lr.Result.Conflicts {
				dimColor.Fprintf(out, "  ! %s overridden by %s value\n", c.Name, c.Resolution)
			}
			pending++
		default:
			dimColor.Fprintf(out, "%s: up to date\n", locationLabel(lr.Location))
		}
	}

	if pending == 0 {
		fmt.Fprintln(out, "\nEverything is in sync.")
	} else {
		fmt.Fprintf(out, "\n%d location(s) would change. Run 'mcp-sync sync' to apply.\n", pending)
	}
	return nil
}
