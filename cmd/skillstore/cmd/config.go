package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/skillstore/skillstore/internal/core"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Long: `Print the effective configuration: the config file merged with
environment overrides and defaults.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps(cmd)
		if err != nil {
			return err
		}
		rt := d.runtime
		telemetry := "on"
		if !rt.Telemetry {
			telemetry = "off"
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "config file\t%s\n", d.config.ConfigPath())
		fmt.Fprintf(w, "apiUrl\t%s\n", rt.APIURL)
		fmt.Fprintf(w, "timeout\t%s\n", rt.Timeout)
		fmt.Fprintf(w, "maxConcurrent\t%d\n", rt.MaxConcurrent)
		fmt.Fprintf(w, "logLevel\t%s\n", strings.ToLower(rt.LogLevel.String()))
		fmt.Fprintf(w, "telemetry\t%s\n", telemetry)
		fmt.Fprintf(w, "defaultAgents\t%s\n", orDash(joinStrings(rt.DefaultAgents)))
		return w.Flush()
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a configuration value",
	Long: `Change a value in the config file.

Keys: apiUrl, timeout, maxConcurrent, logLevel, logFormat,
telemetry (on/off), defaultAgents (comma-separated agent ids).`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps(cmd)
		if err != nil {
			return err
		}
		cfg, err := d.config.Load()
		if err != nil {
			return err
		}

		key, value := args[0], args[1]
		switch key {
		case "apiUrl":
			cfg.APIURL = value
		case "timeout":
			cfg.Timeout = value
		case "maxConcurrent":
			n, err := strconv.Atoi(value)
			if err != nil || n <= 0 {
				return fmt.Errorf("maxConcurrent must be a positive integer, got %q", value)
			}
			cfg.MaxConcurrent = n
		case "logLevel":
			cfg.LogLevel = value
		case "logFormat":
			cfg.LogFormat = value
		case "telemetry":
			on, err := parseSwitch(value)
			if err != nil {
				return err
			}
			cfg.Settings.DisableTelemetry = !on
		case "defaultAgents":
			ids := splitList(value)
			if err := validateAgentIDs(d.registry, ids); err != nil {
				return err
			}
			cfg.Settings.DefaultAgents = ids
		default:
			return fmt.Errorf("unknown config key %q", key)
		}

		// Reject values the next run could not load.
		if _, err := cfg.Resolve(func(string) string { return "" }); err != nil {
			return err
		}
		if err := d.config.Save(cfg); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Set %s in %s\n", key, d.config.ConfigPath())
		return nil
	},
}

func parseSwitch(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on", "true", "yes", "1":
		return true, nil
	case "off", "false", "no", "0":
		return false, nil
	}
	return false, fmt.Errorf("expected on or off, got %q", s)
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), core.NewConfigManager().ConfigPath())
	},
}

func init() {
	configCmd.AddCommand(configShowCmd, configSetCmd, configPathCmd)
	rootCmd.AddCommand(configCmd)
}
