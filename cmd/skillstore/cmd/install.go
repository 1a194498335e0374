package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/skillstore/skillstore/internal/core"
	"github.com/skillstore/skillstore/internal/core/agent"
	"github.com/skillstore/skillstore/internal/tui"
)

var installCmd = &cobra.Command{
	Use:   "install <skill>",
	Short: "Install a skill from the marketplace",
	Long: `Install a single skill from the marketplace.

The skill manifest is signature-checked and the archive hash-checked before
anything is written. The skill is unpacked into ~/.agents/skills/<slug> and
linked into each selected agent's skill directory.

Agents are chosen with --agents, --all or --pick. Without those flags the
agents in settings.defaultAgents are used, or else every detected agent.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps(cmd)
		if err != nil {
			return err
		}
		opts, err := installOptions(cmd, d)
		if err != nil {
			return err
		}

		rep := d.reporter(cmd)
		if opts.SkipSignature {
			rep.Warn("Signature verification skipped")
		}

		res, err := d.service.InstallSkill(cmd.Context(), args[0], opts)
		if err != nil {
			return err
		}

		if res.DryRun {
			rep.Info(fmt.Sprintf("Would install %s@%s to %s for %s",
				res.Slug, res.Version, res.CanonicalPath, describeAgents(opts.Agents)))
			return nil
		}
		if len(opts.Agents) == 0 {
			rep.Warn("No agents selected; the skill is only in the canonical store")
		}
		rep.Box(fmt.Sprintf("Installed %s@%s", res.Slug, res.Version), []string{
			res.CanonicalPath,
			tui.RenderInstall(res.Install),
		})
		return nil
	},
}

// installOptions reads the flags shared by install and plugin install.
func installOptions(cmd *cobra.Command, d *deps) (core.InstallOptions, error) {
	agents, err := resolveAgents(cmd, d)
	if err != nil {
		return core.InstallOptions{}, err
	}
	global, _ := cmd.Flags().GetBool("global")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	skipSig, _ := cmd.Flags().GetBool("skip-signature")
	overwrite, _ := cmd.Flags().GetBool("overwrite")
	return core.InstallOptions{
		Agents:        agents,
		Global:        global,
		Cwd:           d.cwd,
		Overwrite:     overwrite,
		SkipSignature: skipSig,
		DryRun:        dryRun,
	}, nil
}

func addInstallFlags(cmd *cobra.Command) {
	addAgentFlags(cmd)
	cmd.Flags().Bool("dry-run", false, "Verify the manifest and show what would be installed")
	cmd.Flags().Bool("skip-signature", false, "Do not verify the manifest signature")
}

func describeAgents(agents []agent.Agent) string {
	if len(agents) == 0 {
		return "no agents"
	}
	return joinStrings(agent.IDsOf(agents))
}

func init() {
	addInstallFlags(installCmd)
	rootCmd.AddCommand(installCmd)
}
