package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/skillstore/skillstore/internal/core/agent"
	"github.com/skillstore/skillstore/internal/tui"
)

// resolveTargetDir resolves the --dir flag or falls back to cwd.
func resolveTargetDir(cmd *cobra.Command) (string, error) {
	dir, _ := cmd.Flags().GetString("dir")
	if dir != "" {
		return dir, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting current directory: %w", err)
	}
	return cwd, nil
}

// splitList parses a comma-separated flag value, dropping empty items.
func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// isTerminal reports whether w is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// addAgentFlags adds the agent selection and placement flags to a command.
func addAgentFlags(cmd *cobra.Command) {
	cmd.Flags().String("agents", "", "Comma-separated agent ids (e.g. claude-code,cursor)")
	cmd.Flags().Bool("all", false, "Use every supported agent")
	cmd.Flags().Bool("pick", false, "Choose agents interactively")
	cmd.Flags().BoolP("global", "g", false, "Use the agents' global skill directories")
	cmd.Flags().StringP("dir", "d", "", "Project directory (default: current directory)")
	cmd.MarkFlagsMutuallyExclusive("agents", "all", "pick")
}

// validateAgentIDs rejects ids the registry does not know.
func validateAgentIDs(reg *agent.Registry, ids []string) error {
	var unknown []string
	for _, id := range ids {
		if !reg.IsValidID(id) {
			unknown = append(unknown, id)
		}
	}
	if len(unknown) > 0 {
		return fmt.Errorf("%w: %s (valid agents: %s)",
			agent.ErrNotFound, strings.Join(unknown, ", "), strings.Join(reg.IDs(), ", "))
	}
	return nil
}

// resolveAgents picks the target agents from --agents, --all or --pick.
// Without any of them it uses settings.defaultAgents, then the agents
// detected on this machine.
func resolveAgents(cmd *cobra.Command, d *deps) ([]agent.Agent, error) {
	reg := d.registry

	if ids := splitList(flagString(cmd, "agents")); len(ids) > 0 {
		if err := validateAgentIDs(reg, ids); err != nil {
			return nil, err
		}
		return reg.ByIDs(ids), nil
	}
	if all, _ := cmd.Flags().GetBool("all"); all {
		return reg.All(), nil
	}

	var defaults []agent.Agent
	if len(d.settings.DefaultAgents) > 0 {
		if err := validateAgentIDs(reg, d.settings.DefaultAgents); err != nil {
			return nil, fmt.Errorf("settings.defaultAgents: %w", err)
		}
		defaults = reg.ByIDs(d.settings.DefaultAgents)
	}
	detected := reg.DetectInstalled()
	if defaults == nil {
		defaults = detected
	}

	if pick, _ := cmd.Flags().GetBool("pick"); pick {
		if !isTerminal(cmd.OutOrStdout()) {
			return nil, errors.New("--pick needs an interactive terminal")
		}
		return tui.PickAgents(cmd.InOrStdin(), cmd.OutOrStdout(), reg.All(),
			agent.IDsOf(defaults), agent.IDsOf(detected))
	}
	return defaults, nil
}

func flagString(cmd *cobra.Command, name string) string {
	v, _ := cmd.Flags().GetString(name)
	return v
}

// joinStrings concatenates string slices with ", " separator.
func joinStrings(ss []string) string {
	return strings.Join(ss, ", ")
}
