package core

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/skillstore/skillstore/internal/core/agent"
	"github.com/skillstore/skillstore/internal/core/installer"
	"github.com/skillstore/skillstore/internal/core/lock"
)

func writeSkill(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "SKILL.md"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestParseSkillMd(t *testing.T) {
	dir := t.TempDir()
	writeSkill(t, dir, `---
name: pdf
description: Read and fill PDF forms
metadata:
  author: docs-team
  version: 1.2.0
---

# PDF
`)

	md, err := ParseSkillMd(filepath.Join(dir, "SKILL.md"))
	if err != nil {
		t.Fatalf("ParseSkillMd() error: %v", err)
	}
	if md.Name != "pdf" {
		t.Errorf("Name = %q, want %q", md.Name, "pdf")
	}
	if md.Metadata.Version != "1.2.0" {
		t.Errorf("Version = %q, want %q", md.Metadata.Version, "1.2.0")
	}
	if md.Metadata.Author != "docs-team" {
		t.Errorf("Author = %q, want %q", md.Metadata.Author, "docs-team")
	}
}

func TestParseSkillMd_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"empty", ""},
		{"no frontmatter", "# Just markdown\n"},
		{"missing name", "---\ndescription: x\n---\n"},
		{"bad yaml", "---\nname: [unclosed\n---\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeSkill(t, dir, tt.content)
			if _, err := ParseSkillMd(filepath.Join(dir, "SKILL.md")); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestScanner_Scan(t *testing.T) {
	home := t.TempDir()
	project := t.TempDir()
	paths := NewPaths(home)
	reg := agent.NewRegistryWithEnv(home, func(string) string { return "" })
	inst := installer.New(installer.Options{CanonicalRoot: paths.CanonicalRoot, Cwd: project})

	writeSkill(t, filepath.Join(paths.CanonicalRoot, "pdf"), "---\nname: PDF Tools\nmetadata:\n  version: 0.9.0\n---\n")
	writeSkill(t, filepath.Join(paths.CanonicalRoot, "xlsx"), "plain body without frontmatter\n")
	if err := os.MkdirAll(filepath.Join(paths.CanonicalRoot, ".staging-123"), 0o755); err != nil {
		t.Fatal(err)
	}

	claude, _ := reg.Get("claude-code")
	if r := inst.SymlinkToAgent("pdf", claude, installer.PathOptions{}); !r.Success {
		t.Fatalf("SymlinkToAgent() failed: %v", r.Err)
	}

	entries := map[string]lock.Entry{
		"pdf": {Slug: "pdf", Version: "1.0.0", InstalledAt: "2026-01-01T00:00:00Z"},
	}
	skills, err := NewScanner(inst, reg.All()).Scan(entries, installer.PathOptions{})
	if err != nil {
		t.Fatalf("Scan() error: %v", err)
	}
	if len(skills) != 2 {
		t.Fatalf("got %d skills, want 2: %+v", len(skills), skills)
	}

	pdf := skills[0]
	if pdf.Slug != "pdf" || pdf.Name != "PDF Tools" {
		t.Errorf("pdf = %+v", pdf)
	}
	if !pdf.Locked || pdf.Version != "1.0.0" {
		t.Errorf("lock data not joined: %+v", pdf)
	}
	if len(pdf.Agents) != 1 || pdf.Agents[0] != "claude-code" {
		t.Errorf("Agents = %v, want [claude-code]", pdf.Agents)
	}

	xlsx := skills[1]
	if xlsx.Name != "xlsx" || xlsx.Locked {
		t.Errorf("xlsx = %+v", xlsx)
	}
}

func TestScanner_MissingRoot(t *testing.T) {
	inst := installer.New(installer.Options{CanonicalRoot: filepath.Join(t.TempDir(), "none")})
	skills, err := NewScanner(inst, nil).Scan(nil, installer.PathOptions{})
	if err != nil {
		t.Fatalf("Scan() error: %v", err)
	}
	if len(skills) != 0 {
		t.Errorf("got %d skills, want 0", len(skills))
	}
}
