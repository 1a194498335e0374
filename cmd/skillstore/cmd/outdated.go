package cmd

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var outdatedCmd = &cobra.Command{
	Use:   "outdated",
	Short: "Show skills with available updates",
	Long: `Compare the version of each skill in the lock file with the latest
version in the marketplace.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps(cmd)
		if err != nil {
			return err
		}

		updates, checkErr := d.service.Outdated(cmd.Context())
		if checkErr != nil {
			d.reporter(cmd).Warn(fmt.Sprintf("Some skills could not be checked: %v", checkErr))
		}

		out := cmd.OutOrStdout()
		if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
			data, err := json.MarshalIndent(updates, "", "  ")
			if err != nil {
				return fmt.Errorf("marshaling JSON: %w", err)
			}
			fmt.Fprintln(out, string(data))
			return nil
		}

		if len(updates) == 0 {
			fmt.Fprintln(out, "Lock file has no skills.")
			return nil
		}

		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "Skill\tInstalled\tAvailable\tStatus")
		count := 0
		for _, u := range updates {
			status := "up to date"
			if u.HasUpdate {
				status = "update available"
				count++
			}
			name := u.Slug
			if u.Plugin != "" {
				name += " (" + u.Plugin + ")"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", name, orDash(u.Installed), orDash(u.Available), status)
		}
		if err := w.Flush(); err != nil {
			return err
		}

		if count > 0 {
			fmt.Fprintf(out, "\n%d skill(s) can be updated. Run 'skillstore install <skill>' to update.\n", count)
		}
		return nil
	},
}

func init() {
	outdatedCmd.Flags().Bool("json", false, "Output as JSON")
	rootCmd.AddCommand(outdatedCmd)
}
