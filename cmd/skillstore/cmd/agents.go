package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var agentsCmd = &cobra.Command{
	Use:   "agents",
	Short: "List supported agents",
	Long: `List the agents skillstore can install skills into, with their project
and global skill directories.

Use --detected to show only agents found on this machine.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps(cmd)
		if err != nil {
			return err
		}

		onlyDetected, _ := cmd.Flags().GetBool("detected")
		agents := d.registry.All()
		if onlyDetected {
			agents = d.registry.DetectInstalled()
			if len(agents) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No agents detected.")
				return nil
			}
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tName\tProject\tGlobal\tDetected")
		for _, a := range agents {
			detected := "no"
			if a.DetectInstalled() {
				detected = "yes"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", a.ID, a.Name, a.ProjectPath, a.GlobalPath, detected)
		}
		return w.Flush()
	},
}

func init() {
	agentsCmd.Flags().Bool("detected", false, "Show only agents installed on this machine")
	rootCmd.AddCommand(agentsCmd)
}
