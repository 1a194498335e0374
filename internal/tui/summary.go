package tui

import (
	"fmt"
	"strings"

	"github.com/skillstore/skillstore/internal/core/download"
	"github.com/skillstore/skillstore/internal/core/installer"
)

// RenderSummary describes a finished download batch: one headline and a line
// per failed skill.
func RenderSummary(s download.Summary) string {
	var b strings.Builder
	head := fmt.Sprintf("Downloaded %d of %d skills", s.Success, s.Total)
	var extra []string
	if s.Failed > 0 {
		extra = append(extra, fmt.Sprintf("%d failed", s.Failed))
	}
	if s.Skipped > 0 {
		extra = append(extra, fmt.Sprintf("%d skipped", s.Skipped))
	}
	if len(extra) > 0 {
		head += " (" + strings.Join(extra, ", ") + ")"
	}

	switch {
	case s.Failed > 0:
		b.WriteString(warningStyle.Render(glyphWarning + " " + head))
	default:
		b.WriteString(successStyle.Render(glyphSuccess + " " + head))
	}
	for _, r := range s.Results {
		if r.Status == download.StatusFailed {
			b.WriteString("\n  ")
			b.WriteString(errorStyle.Render(glyphError + " " + r.Slug + ": " + r.Error))
		}
	}
	return b.String()
}

// RenderResult is the single line for one download result.
func RenderResult(r download.Result) string {
	switch r.Status {
	case download.StatusSuccess:
		return successStyle.Render(glyphSuccess) + " " + r.Slug
	case download.StatusSkipped:
		return mutedStyle.Render(glyphSkipped+" "+r.Slug) + mutedStyle.Render(" (skipped)")
	default:
		return errorStyle.Render(glyphError) + " " + r.Slug + ": " + r.Error
	}
}

// RenderInstall lists where a skill was linked, one line per agent.
func RenderInstall(r installer.InstallResult) string {
	lines := make([]string, 0, len(r.Agents))
	for _, a := range r.Agents {
		switch {
		case !a.Success:
			msg := "failed"
			if a.Err != nil {
				msg = a.Err.Error()
			}
			lines = append(lines, errorStyle.Render(glyphError)+" "+a.AgentID+": "+msg)
		case a.SymlinkFailed:
			lines = append(lines, warningStyle.Render(glyphWarning)+" "+a.AgentID+
				mutedStyle.Render(" (link failed, canonical copy still installed)"))
		case a.Mode == installer.ModeCanonical:
			lines = append(lines, successStyle.Render(glyphSuccess)+" "+a.AgentID+mutedStyle.Render(" (reads canonical store)"))
		default:
			lines = append(lines, successStyle.Render(glyphSuccess)+" "+a.AgentID+" "+mutedStyle.Render(a.Path))
		}
	}
	if len(lines) == 0 {
		return mutedStyle.Render("no agents selected")
	}
	return strings.Join(lines, "\n")
}

// RenderBox frames lines under a title.
func RenderBox(title string, lines []string) string {
	body := titleStyle.Render(title)
	if len(lines) > 0 {
		body += "\n" + strings.Join(lines, "\n")
	}
	return boxStyle.Render(body)
}

// RenderSection renders a muted section label.
func RenderSection(label string) string {
	return sectionHeaderStyle.Render(strings.ToUpper(label))
}
