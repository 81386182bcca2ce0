package commands

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/ztripez/mcp-sync/internal/cli/prompt"
	"github.com/ztripez/mcp-sync/internal/errors"
	"github.com/ztripez/mcp-sync/internal/logging"
	"github.com/ztripez/mcp-sync/internal/syncer"
)

var (
	vacuumAuto         string
	vacuumSkipExisting bool
)

func init() {
	vacuumCmd.Flags().StringVar(&vacuumAuto, "auto-resolve", "",
		"resolve conflicts without prompting: first, last")
	vacuumCmd.Flags().BoolVar(&vacuumSkipExisting, "skip-existing", false,
		"never touch servers already defined in the global config")
	rootCmd.AddCommand(vacuumCmd)
}

var vacuumCmd = &cobra.Command{
	Use:   "vacuum",
	Short: "Import existing server configs into the global config",
	Long: `Scan every discovered and registered location and pull its server
entries into the global config. When two locations define the same
name differently you are asked which to keep, unless --auto-resolve picks
for you.`,
	Example: `  mcp-sync vacuum
  mcp-sync vacuum --auto-resolve first
  mcp-sync vacuum --skip-existing`,
	Args: cobra.NoArgs,
	RunE: runVacuum,
}

func runVacuum(cmd *cobra.Command, _ []string) error {
	a, err := buildApp()
	if err != nil {
		return err
	}

	var resolver syncer.Resolver
	switch vacuumAuto {
	case "":
		resolver = interactiveResolver(cmd)
	case "first":
		resolver = syncer.KeepFirst
	case "last":
		resolver = syncer.KeepLast
	default:
		return errors.NewUserError(errors.Newf("invalid --auto-resolve value %q", vacuumAuto),
			"Use --auto-resolve first or --auto-resolve last")
	}

	result, err := a.syncer.Vacuum(a.resolveLocations(), resolver, vacuumSkipExisting)
	if err != nil {
		return errors.NewConfigError(err)
	}

	out := cmd.OutOrStdout()
	if len(result.Imported) == 0 {
		fmt.Fprintln(out, "Nothing to import.")
	} else {
		boldColor.Fprintf(out, "Imported %d server(s):\n", len(result.Imported))
		names := make([]string, 0, len(result.Imported))
		for name := range result.Imported {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			addColor.Fprintf(out, "  + %s", name)
			dimColor.Fprintf(out, "  from %s\n", result.Imported[name])
		}
	}

	for _, c := range result.Conflicts {
		updateColor.Fprintf(out, "  ! %s: kept %s, rejected %s\n",
			c.Name, c.ChosenSource, c.RejectedSource)
	}
	if len(result.Skipped) > 0 {
		dimColor.Fprintf(out, "  = %d already defined, skipped\n", len(result.Skipped))
	}
	for path, err := range result.Errors {
		removeColor.Fprintf(out, "  x %s: %v\n", path, err)
	}
	return nil
}

// interactiveResolver asks the user which value to keep. With a TTY the
// fuzzy finder is used; otherwise a numbered prompt on stdin.
func interactiveResolver(cmd *cobra.Command) syncer.Resolver {
	return func(name string, existing, candidate syncer.Candidate) (bool, error) {
		options := []string{
			fmt.Sprintf("%s: %s", existing.Source, describeServer(existing.Server)),
			fmt.Sprintf("%s: %s", candidate.Source, describeServer(candidate.Server)),
		}

		var idx int
		var err error
		if isInteractive() {
			idx, err = prompt.FuzzySelect(options, nil)
		} else {
			sel := prompt.NewSelector(cmd.InOrStdin(), cmd.OutOrStdout())
			idx, err = sel.Pick(fmt.Sprintf("Found %q in multiple locations:", name), options)
		}
		if err != nil {
			return false, err
		}
		return idx == 1, nil
	}
}

// isInteractive reports whether stdin and stdout are both terminals.
func isInteractive() bool {
	return logging.IsTTY(os.Stdin) && logging.IsTTY(os.Stdout)
}
