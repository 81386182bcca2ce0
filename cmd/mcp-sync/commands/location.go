package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ztripez/mcp-sync/internal/errors"
	"github.com/ztripez/mcp-sync/internal/location"
	"github.com/ztripez/mcp-sync/internal/paths"
)

var (
	locationAddName   string
	locationAddFormat string
	locationAddKey    string
	locationAddScope  string
)

func init() {
	locationAddCmd.Flags().StringVar(&locationAddName, "name", "",
		"friendly alias for the location (default: file stem)")
	locationAddCmd.Flags().StringVar(&locationAddFormat, "format", location.FormatJSON,
		"config file format: json, toml")
	locationAddCmd.Flags().StringVar(&locationAddKey, "servers-key", "",
		`key of the server map in the file (default "mcpServers", dotted paths allowed)`)
	locationAddCmd.Flags().StringVar(&locationAddScope, "scope", location.ScopeGlobal,
		"tier this location belongs to: global, project")

	locationCmd.AddCommand(locationAddCmd)
	locationCmd.AddCommand(locationRemoveCmd)
	locationCmd.AddCommand(locationListCmd)
	rootCmd.AddCommand(locationCmd)
}

var locationCmd = &cobra.Command{
	Use:   "location",
	Short: "Manage manually registered sync locations",
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

var locationAddCmd = &cobra.Command{
	Use:   "add <path>",
	Short: "Register a config file as a sync target",
	Example: `  mcp-sync location add ~/.config/some-tool/mcp.json
  mcp-sync location add ~/.some-tool/config.toml --format toml --servers-key mcp_servers`,
	Args: cobra.ExactArgs(1),
	RunE: runLocationAdd,
}

func runLocationAdd(cmd *cobra.Command, args []string) error {
	switch locationAddFormat {
	case location.FormatJSON, location.FormatTOML:
	default:
		return errors.NewUserError(errors.Newf("invalid --format %q", locationAddFormat),
			"Use json or toml")
	}

	a, err := buildApp()
	if err != nil {
		return err
	}

	loc := location.Location{
		Path:       paths.ExpandTemplate(args[0]),
		Name:       locationAddName,
		Format:     locationAddFormat,
		ServersKey: locationAddKey,
		Scope:      locationAddScope,
	}
	if err := a.registry.Add(loc); err != nil {
		if errors.Is(err, location.ErrDuplicateLocation) {
			return errors.NewUserError(err, "Run 'mcp-sync location list' to see registrations")
		}
		return errors.NewConfigError(err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Registered %s\n", loc.Path)
	return nil
}

var locationRemoveCmd = &cobra.Command{
	Use:   "remove <path>",
	Short: "Unregister a sync target",
	Args:  cobra.ExactArgs(1),
	RunE:  runLocationRemove,
}

func runLocationRemove(cmd *cobra.Command, args []string) error {
	a, err := buildApp()
	if err != nil {
		return err
	}

	path := paths.ExpandTemplate(args[0])
	if err := a.registry.Remove(path); err != nil {
		if errors.Is(err, location.ErrLocationNotRegistered) {
			return errors.NewUserError(err, "Run 'mcp-sync location list' to see registrations")
		}
		return errors.NewConfigError(err)
	}

	// Drop the managed-names record too; an unregistered location is no
	// longer ours to clean up.
	a.state.Forget(path)
	if err := a.state.Save(); err != nil {
		return errors.NewConfigError(err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Unregistered %s\n", path)
	return nil
}

var locationListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all sync locations",
	Args:  cobra.NoArgs,
	RunE:  runLocationList,
}

func runLocationList(cmd *cobra.Command, _ []string) error {
	a, err := buildApp()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	locations := a.resolveLocations()
	if len(locations) == 0 {
		fmt.Fprintln(out, "No locations discovered or registered.")
		return nil
	}

	for _, loc := range locations {
		fmt.Fprintf(out, "%s", locationLabel(loc))
		dimColor.Fprintf(out, " [%s", loc.Type)
		if loc.IsCLI() {
			dimColor.Fprint(out, ", cli")
		} else if loc.EffectiveFormat() != location.FormatJSON {
			dimColor.Fprintf(out, ", %s", loc.EffectiveFormat())
		}
		dimColor.Fprintln(out, "]")
	}
	return nil
}
