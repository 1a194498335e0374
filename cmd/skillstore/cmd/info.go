package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/skillstore/skillstore/internal/tui"
)

const readmeWidth = 80

var infoCmd = &cobra.Command{
	Use:   "info <slug>",
	Short: "Show details of a skill or plugin",
	Long: `Show marketplace details of a skill, or of a plugin with --plugin.
The readme is rendered as markdown.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps(cmd)
		if err != nil {
			return err
		}

		var title, readme string
		var lines []string
		if plugin, _ := cmd.Flags().GetBool("plugin"); plugin {
			p, err := d.client.FetchPluginInfo(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			title = fmt.Sprintf("%s@%s", p.Slug, orDash(p.Version))
			lines = appendField(lines, "Name", p.Name)
			lines = appendField(lines, "Author", p.Author)
			lines = appendField(lines, "Type", p.Type)
			lines = appendField(lines, "Pricing", p.Pricing)
			if p.SkillCount > 0 {
				lines = appendField(lines, "Skills", fmt.Sprint(p.SkillCount))
			}
			lines = appendField(lines, "Description", p.Description)
			readme = p.Readme
		} else {
			s, err := d.client.FetchSkillInfo(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			title = fmt.Sprintf("%s@%s", s.Slug, orDash(s.Version))
			lines = appendField(lines, "Name", s.Name)
			lines = appendField(lines, "Author", s.Author)
			lines = appendField(lines, "Plugin", s.PluginSlug)
			lines = appendField(lines, "Tags", strings.Join(s.Tags, ", "))
			lines = appendField(lines, "Description", s.Description)
			readme = s.Readme
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, tui.RenderBox(title, lines))
		if readme == "" {
			return nil
		}
		rendered, err := tui.RenderMarkdown(readme, readmeWidth, isTerminal(out))
		if err != nil {
			d.logger.Debug("markdown rendering failed", "error", err)
			rendered = readme
		}
		fmt.Fprintln(out, tui.RenderSection("readme"))
		fmt.Fprint(out, rendered)
		return nil
	},
}

func appendField(lines []string, label, value string) []string {
	if value == "" {
		return lines
	}
	return append(lines, label+": "+value)
}

func init() {
	infoCmd.Flags().Bool("plugin", false, "Look up a plugin instead of a skill")
	rootCmd.AddCommand(infoCmd)
}
