package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ztripez/mcp-sync/internal/location"
)

func init() {
	rootCmd.AddCommand(scanCmd)
}

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Discover AI tools installed on this machine",
	Long: `Probe the client catalog against this machine: file clients whose
config file exists and CLI clients whose binary responds. Manually
registered locations are listed as well.`,
	Args: cobra.NoArgs,
	RunE: runScan,
}

func runScan(cmd *cobra.Command, _ []string) error {
	a, err := buildApp()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	locations := a.resolveLocations()
	if len(locations) == 0 {
		fmt.Fprintln(out, "No MCP-capable tools found.")
		return nil
	}

	var auto, manual int
	for _, loc := range locations {
		marker := "auto"
		if loc.Type == location.TypeManual {
			marker = "manual"
			manual++
		} else {
			auto++
		}

		name := loc.ClientName
		if name == "" {
			name = loc.Name
		}
		boldColor.Fprintf(out, "%s", name)
		fmt.Fprintf(out, " [%s]", marker)
		if loc.IsCLI() {
			updateColor.Fprint(out, " (cli-managed)")
		}
		fmt.Fprintln(out)
		dimColor.Fprintf(out, "  %s\n", loc.Path)
	}

	fmt.Fprintf(out, "\nFound %d location(s): %d discovered, %d registered.\n",
		len(locations), auto, manual)
	return nil
}
