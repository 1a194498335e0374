package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/skillstore/skillstore/internal/core/api"
	"github.com/skillstore/skillstore/internal/tui"
)

var pluginCmd = &cobra.Command{
	Use:   "plugin",
	Short: "Install and browse plugins",
	Long: `A plugin is a bundle of skills published together. Installing a plugin
downloads every skill it contains, a few at a time.`,
}

var pluginInstallCmd = &cobra.Command{
	Use:   "install <slug>",
	Short: "Install every skill of a plugin",
	Long: `Install every skill of a plugin.

Skills download concurrently in small batches. A skill that fails to download
or whose content hash does not match is reported and skipped; the others are
still installed. Skills already in the canonical store are kept unless
--overwrite is given.`,
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
		opts.Progress = rep

		res, err := d.service.InstallPlugin(cmd.Context(), args[0], opts)
		if err != nil && res == nil {
			return err
		}

		if opts.DryRun {
			rep.Info(fmt.Sprintf("Would install %d skills from %s@%s for %s",
				res.Download.Total, res.Plugin.Slug, res.Plugin.Version, describeAgents(opts.Agents)))
			return nil
		}
		for _, inst := range res.Installs {
			rep.Box(inst.Slug, []string{tui.RenderInstall(inst)})
		}
		if err != nil {
			return err
		}
		if res.Download.Failed > 0 {
			return fmt.Errorf("%d of %d skills failed to install", res.Download.Failed, res.Download.Total)
		}
		return nil
	},
}

var pluginListCmd = &cobra.Command{
	Use:   "list",
	Short: "List plugins in the marketplace",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps(cmd)
		if err != nil {
			return err
		}
		list, err := d.client.FetchPluginList(cmd.Context(), listOptions(cmd))
		if err != nil {
			return err
		}
		return printPlugins(cmd.OutOrStdout(), list.Plugins, list.Pagination)
	},
}

func addListFlags(cmd *cobra.Command) {
	cmd.Flags().String("type", "", "Filter by plugin type")
	cmd.Flags().String("pricing", "", "Filter by pricing (e.g. free, paid)")
	cmd.Flags().Int("limit", 0, "Results per page")
	cmd.Flags().Int("page", 0, "Page number")
}

func listOptions(cmd *cobra.Command) api.ListOptions {
	limit, _ := cmd.Flags().GetInt("limit")
	page, _ := cmd.Flags().GetInt("page")
	return api.ListOptions{
		Type:    flagString(cmd, "type"),
		Pricing: flagString(cmd, "pricing"),
		Limit:   limit,
		Page:    page,
	}
}

func printPlugins(out io.Writer, plugins []api.PluginInfo, page api.Pagination) error {
	if len(plugins) == 0 {
		fmt.Fprintln(out, "No plugins found.")
		return nil
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "Slug\tVersion\tSkills\tPricing\tDescription")
	for _, p := range plugins {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n", p.Slug, p.Version, p.SkillCount, p.Pricing, tui.Truncate(p.Description, 60))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if page.TotalPages > 1 {
		fmt.Fprintf(out, "\nPage %d of %d (%d plugins)\n", page.Page, page.TotalPages, page.Total)
	}
	return nil
}

func init() {
	addInstallFlags(pluginInstallCmd)
	pluginInstallCmd.Flags().Bool("overwrite", false, "Replace skills already in the canonical store")
	addListFlags(pluginListCmd)
	pluginCmd.AddCommand(pluginInstallCmd, pluginListCmd)
	rootCmd.AddCommand(pluginCmd)
}
