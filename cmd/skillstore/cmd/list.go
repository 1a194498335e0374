package cmd

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/skillstore/skillstore/internal/core/installer"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List installed skills",
	Long: `List skills in the canonical store (~/.agents/skills) with their
version, lock status and the agents they are linked into.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps(cmd)
		if err != nil {
			return err
		}

		global, _ := cmd.Flags().GetBool("global")
		skills, err := d.service.List(installer.PathOptions{Global: global, Cwd: d.cwd})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
			data, err := json.MarshalIndent(skills, "", "  ")
			if err != nil {
				return fmt.Errorf("marshaling JSON: %w", err)
			}
			fmt.Fprintln(out, string(data))
			return nil
		}

		if len(skills) == 0 {
			fmt.Fprintln(out, "No skills installed.")
			return nil
		}

		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "Skill\tVersion\tLocked\tAgents")
		for _, s := range skills {
			locked := "no"
			if s.Locked {
				locked = "yes"
			}
			agents := joinStrings(s.Agents)
			if agents == "" {
				agents = "-"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", s.Slug, orDash(s.Version), locked, agents)
		}
		return w.Flush()
	},
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func init() {
	listCmd.Flags().Bool("json", false, "Output as JSON")
	listCmd.Flags().BoolP("global", "g", false, "Check the agents' global skill directories")
	listCmd.Flags().StringP("dir", "d", "", "Project directory (default: current directory)")
	rootCmd.AddCommand(listCmd)
}
