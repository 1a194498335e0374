package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/skillstore/skillstore/internal/core/api"
)

// reportCmd is called by agent hooks after a skill runs. Delivery problems
// are printed but do not fail the command.
var reportCmd = &cobra.Command{
	Use:    "report <skill>",
	Short:  "Send a skill usage event",
	Hidden: true,
	Args:   cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps(cmd)
		if err != nil {
			return err
		}

		event := flagString(cmd, "event")
		switch event {
		case api.EventInvoked, api.EventCompleted, api.EventFailed:
		default:
			return fmt.Errorf("unknown event %q (want %s, %s or %s)",
				event, api.EventInvoked, api.EventCompleted, api.EventFailed)
		}
		failed, _ := cmd.Flags().GetBool("failed")

		res := d.service.ReportTelemetry(cmd.Context(), api.TelemetryEvent{
			SkillSlug: args[0],
			EventType: event,
			Success:   !failed && event != api.EventFailed,
			ToolName:  flagString(cmd, "tool"),
		})
		if !res.Success {
			fmt.Fprintf(cmd.OutOrStdout(), "telemetry not sent: %s\n", res.Error)
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), "telemetry sent")
		return nil
	},
}

func init() {
	reportCmd.Flags().String("event", api.EventInvoked, "Event type: invoked, completed or failed")
	reportCmd.Flags().Bool("failed", false, "Mark the event as unsuccessful")
	reportCmd.Flags().String("tool", "", "Name of the tool that ran the skill")
	rootCmd.AddCommand(reportCmd)
}
