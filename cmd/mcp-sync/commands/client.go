package commands

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/ztripez/mcp-sync/internal/client"
	"github.com/ztripez/mcp-sync/internal/errors"
	"github.com/ztripez/mcp-sync/internal/location"
	"github.com/ztripez/mcp-sync/internal/paths"
)

func init() {
	clientCmd.AddCommand(clientListCmd)
	clientCmd.AddCommand(clientInfoCmd)
	rootCmd.AddCommand(clientCmd)
}

var clientCmd = &cobra.Command{
	Use:   "client",
	Short: "Inspect the known client catalog",
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

var clientListCmd = &cobra.Command{
	Use:   "list",
	Short: "List known clients and whether they are installed",
	Args:  cobra.NoArgs,
	RunE:  runClientList,
}

func runClientList(cmd *cobra.Command, _ []string) error {
	a, err := buildApp()
	if err != nil {
		return err
	}

	found := make(map[string]bool)
	for _, loc := range client.NewDiscoverer(a.catalog, client.WithLogger(a.logger)).Discover() {
		found[loc.ClientID] = true
	}

	out := cmd.OutOrStdout()
	boldColor.Fprintln(out, "Known clients:")
	for _, id := range a.catalog.IDs() {
		c := a.catalog[id]
		fmt.Fprintf(out, "  %s: %s - ", id, c.Name)
		if found[id] {
			addColor.Fprintln(out, "found")
		} else {
			dimColor.Fprintln(out, "not found")
		}
		if c.Description != "" {
			dimColor.Fprintf(out, "    %s\n", c.Description)
		}
	}
	return nil
}

var clientInfoCmd = &cobra.Command{
	Use:   "info <client-id>",
	Short: "Show a client's catalog definition",
	Args:  cobra.ExactArgs(1),
	RunE:  runClientInfo,
}

func runClientInfo(cmd *cobra.Command, args []string) error {
	a, err := buildApp()
	if err != nil {
		return err
	}

	c, ok := a.catalog[args[0]]
	if !ok {
		return errors.NewUserError(errors.Newf("unknown client %q", args[0]),
			"Run 'mcp-sync client list' to see known clients")
	}

	out := cmd.OutOrStdout()
	boldColor.Fprintf(out, "%s (%s)\n", c.Name, c.ID)
	if c.Description != "" {
		fmt.Fprintln(out, c.Description)
	}

	if c.IsCLI() {
		fmt.Fprintln(out, "\nManaged through its own CLI:")
		keys := make([]string, 0, len(c.CLICommands))
		for k := range c.CLICommands {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(out, "  %s: %s\n", k, c.CLICommands[k])
		}
		return nil
	}

	fmt.Fprintln(out, "\nConfig paths:")
	for _, goos := range []string{"darwin", "linux", "windows"} {
		tmpl := c.PathTemplate(goos)
		if tmpl == "" {
			continue
		}
		fmt.Fprintf(out, "  %s: %s", goos, tmpl)
		dimColor.Fprintf(out, " -> %s", paths.ExpandTemplate(tmpl))
		fmt.Fprintln(out)
	}
	if c.Format == location.FormatTOML {
		fmt.Fprintf(out, "Format: toml (servers key %q)\n", c.ServersKey)
	}
	return nil
}
