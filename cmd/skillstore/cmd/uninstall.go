package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/skillstore/skillstore/internal/core"
)

var uninstallCmd = &cobra.Command{
	Use:   "uninstall <slug>",
	Short: "Remove an installed skill",
	Long: `Remove a skill from agent skill directories, the canonical store and
the lock file.

Without --agents the skill is unlinked from every agent that has it.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps(cmd)
		if err != nil {
			return err
		}

		opts := core.UninstallOptions{Cwd: d.cwd}
		opts.Global, _ = cmd.Flags().GetBool("global")
		if ids := splitList(flagString(cmd, "agents")); len(ids) > 0 {
			if err := validateAgentIDs(d.registry, ids); err != nil {
				return err
			}
			opts.Agents = d.registry.ByIDs(ids)
		}

		res, err := d.service.Uninstall(args[0], opts)
		if err != nil {
			return err
		}

		rep := d.reporter(cmd)
		rep.Success(fmt.Sprintf("Uninstalled %s", args[0]))
		if len(res.Removed) > 0 {
			rep.Info("Unlinked from " + joinStrings(res.Removed))
		}
		if len(res.Failed) > 0 {
			rep.Warn("Could not unlink from " + joinStrings(res.Failed))
		}
		if res.Canonical.Err != nil {
			rep.Warn(fmt.Sprintf("Canonical copy left at %s: %v", res.Canonical.Path, res.Canonical.Err))
		}
		return nil
	},
}

func init() {
	uninstallCmd.Flags().String("agents", "", "Comma-separated agent ids to unlink from (default: all)")
	uninstallCmd.Flags().BoolP("global", "g", false, "Use the agents' global skill directories")
	uninstallCmd.Flags().StringP("dir", "d", "", "Project directory (default: current directory)")
	rootCmd.AddCommand(uninstallCmd)
}
