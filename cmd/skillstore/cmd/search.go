package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/skillstore/skillstore/internal/core/api"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search marketplace plugins",
	Long: `Search marketplace plugins. Filters are applied by the marketplace; the
optional query further narrows one page of results by slug, name or
description.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps(cmd)
		if err != nil {
			return err
		}

		list, err := d.client.FetchPluginList(cmd.Context(), listOptions(cmd))
		if err != nil {
			return err
		}

		plugins := list.Plugins
		if len(args) == 1 {
			plugins = filterPlugins(plugins, args[0])
		}
		return printPlugins(cmd.OutOrStdout(), plugins, list.Pagination)
	},
}

// filterPlugins keeps plugins whose slug, name or description contains
// query, ignoring case.
func filterPlugins(plugins []api.PluginInfo, query string) []api.PluginInfo {
	q := strings.ToLower(query)
	var out []api.PluginInfo
	for _, p := range plugins {
		if strings.Contains(strings.ToLower(p.Slug), q) ||
			strings.Contains(strings.ToLower(p.Name), q) ||
			strings.Contains(strings.ToLower(p.Description), q) {
			out = append(out, p)
		}
	}
	return out
}

func init() {
	addListFlags(searchCmd)
	rootCmd.AddCommand(searchCmd)
}
