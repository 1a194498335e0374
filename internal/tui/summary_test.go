package tui

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/skillstore/skillstore/internal/core/download"
	"github.com/skillstore/skillstore/internal/core/installer"
)

func sampleSummary() download.Summary {
	return download.Summary{
		Total: 3, Success: 1, Failed: 1, Skipped: 1,
		Results: []download.Result{
			{Slug: "pdf", Status: download.StatusSuccess, Path: "/x/pdf/SKILL.md"},
			{Slug: "xlsx", Status: download.StatusFailed, Error: "Content hash verification failed"},
			{Slug: "docx", Status: download.StatusSkipped},
		},
	}
}

func TestRenderSummary(t *testing.T) {
	out := RenderSummary(sampleSummary())
	for _, want := range []string{
		"Downloaded 1 of 3 skills (1 failed, 1 skipped)",
		"xlsx: Content hash verification failed",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("RenderSummary() missing %q in:\n%s", want, out)
		}
	}
	if strings.Contains(out, "docx") {
		t.Errorf("skipped skills should not be listed:\n%s", out)
	}
}

func TestRenderSummary_AllGood(t *testing.T) {
	out := RenderSummary(download.Summary{Total: 2, Success: 2})
	if !strings.Contains(out, "Downloaded 2 of 2 skills") || strings.Contains(out, "(") {
		t.Errorf("RenderSummary() = %q", out)
	}
}

func TestRenderInstall(t *testing.T) {
	r := installer.InstallResult{Agents: []installer.AgentResult{
		{AgentID: "claude-code", Success: true, Mode: installer.ModeSymlink, Path: "/p/.claude/skills/pdf"},
		{AgentID: "cursor", Success: true, SymlinkFailed: true},
		{AgentID: "amp", Success: true, Mode: installer.ModeCanonical},
		{AgentID: "codex", Err: errors.New("permission denied")},
	}}
	out := RenderInstall(r)
	for _, want := range []string{
		"claude-code /p/.claude/skills/pdf",
		"cursor (link failed, canonical copy still installed)",
		"amp (reads canonical store)",
		"codex: permission denied",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("RenderInstall() missing %q in:\n%s", want, out)
		}
	}
	if got := RenderInstall(installer.InstallResult{}); !strings.Contains(got, "no agents selected") {
		t.Errorf("RenderInstall(empty) = %q", got)
	}
}

func TestRenderBox(t *testing.T) {
	out := RenderBox("pdf 1.2.0", []string{"line one", "line two"})
	for _, want := range []string{"pdf 1.2.0", "line one", "line two"} {
		if !strings.Contains(out, want) {
			t.Errorf("RenderBox() missing %q in:\n%s", want, out)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("abcdefgh", 5); got != "abcd…" {
		t.Errorf("Truncate() = %q, want %q", got, "abcd…")
	}
	if got := Truncate("abc", 0); got != "abc" {
		t.Errorf("Truncate(width 0) = %q, want unchanged", got)
	}
}

func TestPlainReporter(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(&buf, false)

	r.Start("Installing docs-kit", 3)
	for _, res := range sampleSummary().Results {
		r.Advance(res)
	}
	r.Complete(sampleSummary())
	r.Success("done")
	r.Warn("careful")
	r.Error("bad")
	r.Info("fyi")

	out := buf.String()
	for _, want := range []string{
		"Installing docs-kit (3)",
		"[1/3] ✓ pdf",
		"[2/3] ✗ xlsx: Content hash verification failed",
		"[3/3] - docx (skipped)",
		"Downloaded 1 of 3 skills",
		"✓ done", "! careful", "✗ bad", "• fyi",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestProgressModel(t *testing.T) {
	m := newProgressModel("Installing", 2)
	if m.percent() != 0 {
		t.Errorf("percent() = %v, want 0", m.percent())
	}

	next, cmd := m.Update(advanceMsg{result: download.Result{Slug: "pdf", Status: download.StatusFailed, Error: "x"}})
	m = next.(progressModel)
	if m.done != 1 || m.failed != 1 {
		t.Errorf("done=%d failed=%d, want 1/1", m.done, m.failed)
	}
	if cmd == nil {
		t.Error("advance should schedule toast dismissal")
	}
	view := m.View()
	if !strings.Contains(view, "1/2") || !strings.Contains(view, "1 failed") || !strings.Contains(view, "pdf: x") {
		t.Errorf("View() = %q", view)
	}

	next, cmd = m.Update(completeMsg{summary: download.Summary{Total: 2}})
	m = next.(progressModel)
	if !m.closed || cmd == nil {
		t.Error("complete should close the program")
	}
	if m.View() != "" {
		t.Errorf("closed View() = %q, want empty", m.View())
	}

	if newProgressModel("x", 0).percent() != 1 {
		t.Error("empty batch should read as complete")
	}
}
