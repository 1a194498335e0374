package installer

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/skillstore/skillstore/internal/core/agent"
)

func testAgents(t *testing.T, home string, ids ...string) []agent.Agent {
	t.Helper()
	r := agent.NewRegistryWithEnv(home, func(string) string { return "" })
	agents := r.ByIDs(ids)
	if len(agents) != len(ids) {
		t.Fatalf("unknown agent in %v", ids)
	}
	return agents
}

func newTestInstaller(t *testing.T) (*Installer, string, string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("symlink tests require a POSIX filesystem")
	}
	home := t.TempDir()
	project := t.TempDir()
	inst := New(Options{
		CanonicalRoot: filepath.Join(home, ".agents", "skills"),
		Cwd:           project,
		Linker:        SymlinkLinker{},
	})
	return inst, home, project
}

// failingLinker fails for paths under a given agent directory.
type failingLinker struct {
	failFor string
}

func (f failingLinker) Mode() Mode { return ModeSymlink }

func (f failingLinker) Link(target, path string) error {
	if filepath.Base(filepath.Dir(filepath.Dir(path))) == f.failFor {
		return os.ErrPermission
	}
	return SymlinkLinker{}.Link(target, path)
}

func assertSymlinkTo(t *testing.T, linkPath, target string) {
	t.Helper()
	info, err := os.Lstat(linkPath)
	if err != nil {
		t.Fatalf("link not created: %v", err)
	}
	if info.Mode()&os.ModeSymlink == 0 {
		t.Fatalf("expected %s to be a symlink", linkPath)
	}
	resolved, err := filepath.EvalSymlinks(linkPath)
	if err != nil {
		t.Fatalf("resolving link: %v", err)
	}
	want, _ := filepath.EvalSymlinks(target)
	if resolved != want {
		t.Errorf("link resolves to %q, want %q", resolved, want)
	}
}

func TestPaths(t *testing.T) {
	inst, home, project := newTestInstaller(t)
	claude := testAgents(t, home, "claude-code")[0]

	if got, want := inst.CanonicalPath("../evil"), filepath.Join(home, ".agents", "skills", "evil"); got != want {
		t.Errorf("CanonicalPath = %q, want %q", got, want)
	}
	if got, want := inst.AgentPath("pdf", claude, PathOptions{}), filepath.Join(project, ".claude", "skills", "pdf"); got != want {
		t.Errorf("project AgentPath = %q, want %q", got, want)
	}
	if got, want := inst.AgentPath("pdf", claude, PathOptions{Global: true}), filepath.Join(home, ".claude", "skills", "pdf"); got != want {
		t.Errorf("global AgentPath = %q, want %q", got, want)
	}
	other := t.TempDir()
	if got, want := inst.AgentPath("pdf", claude, PathOptions{Cwd: other}), filepath.Join(other, ".claude", "skills", "pdf"); got != want {
		t.Errorf("cwd AgentPath = %q, want %q", got, want)
	}
}

func TestEnsureCanonicalDir_Idempotent(t *testing.T) {
	inst, _, _ := newTestInstaller(t)

	dir, err := inst.EnsureCanonicalDir("pdf")
	if err != nil {
		t.Fatalf("EnsureCanonicalDir() error: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "SKILL.md"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := inst.EnsureCanonicalDir("pdf"); err != nil {
		t.Fatalf("second EnsureCanonicalDir() error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "SKILL.md")); err != nil {
		t.Error("existing content removed by EnsureCanonicalDir")
	}
	if !inst.IsSkillInCanonical("pdf") {
		t.Error("IsSkillInCanonical = false")
	}
}

func TestSymlinkToAgent_Fresh(t *testing.T) {
	inst, home, _ := newTestInstaller(t)
	cursor := testAgents(t, home, "cursor")[0]
	_, _ = inst.EnsureCanonicalDir("pdf")

	res := inst.SymlinkToAgent("pdf", cursor, PathOptions{})
	if !res.Success || res.SymlinkFailed {
		t.Fatalf("unexpected result: %+v", res)
	}
	if res.Mode != ModeSymlink {
		t.Errorf("mode = %q, want symlink", res.Mode)
	}
	assertSymlinkTo(t, res.Path, inst.CanonicalPath("pdf"))

	// Relative link, like the rest of the project tree.
	dest, _ := os.Readlink(res.Path)
	if filepath.IsAbs(dest) {
		t.Errorf("expected relative symlink, got %q", dest)
	}
}

func TestSymlinkToAgent_AlreadyCorrect(t *testing.T) {
	inst, home, _ := newTestInstaller(t)
	cursor := testAgents(t, home, "cursor")[0]
	_, _ = inst.EnsureCanonicalDir("pdf")

	first := inst.SymlinkToAgent("pdf", cursor, PathOptions{})
	before, _ := os.Lstat(first.Path)

	second := inst.SymlinkToAgent("pdf", cursor, PathOptions{})
	if !second.Success || second.SymlinkFailed {
		t.Fatalf("unexpected result: %+v", second)
	}
	after, _ := os.Lstat(second.Path)
	if !os.SameFile(before, after) {
		t.Error("correct link was recreated instead of left alone")
	}
}

func TestSymlinkToAgent_WrongTarget(t *testing.T) {
	inst, home, project := newTestInstaller(t)
	cursor := testAgents(t, home, "cursor")[0]
	_, _ = inst.EnsureCanonicalDir("pdf")

	elsewhere := t.TempDir()
	linkPath := filepath.Join(project, ".cursor", "skills", "pdf")
	_ = os.MkdirAll(filepath.Dir(linkPath), 0o755)
	if err := os.Symlink(elsewhere, linkPath); err != nil {
		t.Fatal(err)
	}

	res := inst.SymlinkToAgent("pdf", cursor, PathOptions{})
	if !res.Success || res.SymlinkFailed {
		t.Fatalf("unexpected result: %+v", res)
	}
	assertSymlinkTo(t, linkPath, inst.CanonicalPath("pdf"))
	if _, err := os.Stat(elsewhere); err != nil {
		t.Error("old link target should not be deleted")
	}
}

func TestSymlinkToAgent_ReplacesDirectory(t *testing.T) {
	inst, home, project := newTestInstaller(t)
	cursor := testAgents(t, home, "cursor")[0]
	_, _ = inst.EnsureCanonicalDir("pdf")

	linkPath := filepath.Join(project, ".cursor", "skills", "pdf")
	_ = os.MkdirAll(filepath.Join(linkPath, "nested"), 0o755)
	_ = os.WriteFile(filepath.Join(linkPath, "nested", "old.md"), []byte("old"), 0o644)

	res := inst.SymlinkToAgent("pdf", cursor, PathOptions{})
	if !res.Success || res.SymlinkFailed {
		t.Fatalf("unexpected result: %+v", res)
	}
	assertSymlinkTo(t, linkPath, inst.CanonicalPath("pdf"))
}

func TestSymlinkToAgent_ReplacesFile(t *testing.T) {
	inst, home, project := newTestInstaller(t)
	cursor := testAgents(t, home, "cursor")[0]
	_, _ = inst.EnsureCanonicalDir("pdf")

	linkPath := filepath.Join(project, ".cursor", "skills", "pdf")
	_ = os.MkdirAll(filepath.Dir(linkPath), 0o755)
	_ = os.WriteFile(linkPath, []byte("stray file"), 0o644)

	res := inst.SymlinkToAgent("pdf", cursor, PathOptions{})
	if !res.Success {
		t.Fatalf("unexpected result: %+v", res)
	}
	assertSymlinkTo(t, linkPath, inst.CanonicalPath("pdf"))
}

func TestSymlinkToAgent_CircularLink(t *testing.T) {
	inst, home, project := newTestInstaller(t)
	cursor := testAgents(t, home, "cursor")[0]
	_, _ = inst.EnsureCanonicalDir("pdf")

	linkPath := filepath.Join(project, ".cursor", "skills", "pdf")
	_ = os.MkdirAll(filepath.Dir(linkPath), 0o755)
	if err := os.Symlink(linkPath, linkPath); err != nil {
		t.Fatal(err)
	}

	res := inst.SymlinkToAgent("pdf", cursor, PathOptions{})
	if !res.Success || res.SymlinkFailed {
		t.Fatalf("unexpected result: %+v", res)
	}
	assertSymlinkTo(t, linkPath, inst.CanonicalPath("pdf"))
}

func TestSymlinkToAgent_LinkFailureIsNonFatal(t *testing.T) {
	inst, home, _ := newTestInstaller(t)
	inst.linker = failingLinker{failFor: ".cursor"}
	cursor := testAgents(t, home, "cursor")[0]

	_, _ = inst.EnsureCanonicalDir("pdf")
	res := inst.SymlinkToAgent("pdf", cursor, PathOptions{})
	if !res.Success {
		t.Error("link failure should still report success")
	}
	if !res.SymlinkFailed {
		t.Error("expected SymlinkFailed")
	}
	if !errors.Is(res.Err, os.ErrPermission) {
		t.Errorf("Err = %v, want permission error", res.Err)
	}
}

func TestInstallToAgents(t *testing.T) {
	inst, home, project := newTestInstaller(t)
	inst.linker = failingLinker{failFor: ".cursor"}
	agents := testAgents(t, home, "cursor", "claude-code")

	res := inst.InstallToAgents("skill-x", agents, PathOptions{})
	if !res.Success {
		t.Errorf("expected overall success, got %+v", res)
	}
	if res.SuccessCount != 2 || res.FailCount != 0 {
		t.Errorf("counts = %d/%d, want 2/0", res.SuccessCount, res.FailCount)
	}
	if len(res.Agents) != 2 {
		t.Fatalf("len(agents) = %d, want 2", len(res.Agents))
	}
	if !res.Agents[0].SymlinkFailed {
		t.Error("cursor should be flagged SymlinkFailed")
	}
	if res.Agents[1].SymlinkFailed {
		t.Error("claude-code should not be flagged SymlinkFailed")
	}
	if !inst.IsSkillInCanonical("skill-x") {
		t.Error("canonical dir not created")
	}
	assertSymlinkTo(t, filepath.Join(project, ".claude", "skills", "skill-x"), inst.CanonicalPath("skill-x"))
}

func TestInstallToAgents_Empty(t *testing.T) {
	inst, _, _ := newTestInstaller(t)
	res := inst.InstallToAgents("skill-x", nil, PathOptions{})
	if res.Success {
		t.Error("empty agent list must not report success")
	}
	if res.SuccessCount != 0 || res.FailCount != 0 {
		t.Errorf("counts = %d/%d, want 0/0", res.SuccessCount, res.FailCount)
	}
}

func TestInstallToAgents_Global(t *testing.T) {
	inst, home, _ := newTestInstaller(t)
	claude := testAgents(t, home, "claude-code")

	res := inst.InstallToAgents("pdf", claude, PathOptions{Global: true})
	if !res.Success {
		t.Fatalf("unexpected result: %+v", res)
	}
	assertSymlinkTo(t, filepath.Join(home, ".claude", "skills", "pdf"), inst.CanonicalPath("pdf"))
	if !inst.IsSkillInstalledForAgent("pdf", claude[0], PathOptions{Global: true}) {
		t.Error("IsSkillInstalledForAgent(global) = false")
	}
	if inst.IsSkillInstalledForAgent("pdf", claude[0], PathOptions{}) {
		t.Error("IsSkillInstalledForAgent(project) = true, want false")
	}
}

func TestSymlinkToAgent_AgentReadsCanonical(t *testing.T) {
	home := t.TempDir()
	if runtime.GOOS == "windows" {
		t.Skip("symlink tests require a POSIX filesystem")
	}
	// With the project root at home, amp's project path is the canonical root.
	inst := New(Options{CanonicalRoot: filepath.Join(home, ".agents", "skills"), Cwd: home, Linker: SymlinkLinker{}})
	amp := testAgents(t, home, "amp")[0]
	dir, _ := inst.EnsureCanonicalDir("pdf")
	_ = os.WriteFile(filepath.Join(dir, "SKILL.md"), []byte("body"), 0o644)

	res := inst.SymlinkToAgent("pdf", amp, PathOptions{})
	if !res.Success || res.Mode != ModeCanonical {
		t.Fatalf("unexpected result: %+v", res)
	}
	if _, err := os.Stat(filepath.Join(dir, "SKILL.md")); err != nil {
		t.Error("canonical content was removed")
	}
}

func TestSymlinkToAgent_AgentDirLinkedToCanonicalRoot(t *testing.T) {
	inst, home, _ := newTestInstaller(t)
	claude := testAgents(t, home, "claude-code")[0]

	dir, err := inst.EnsureCanonicalDir("pdf")
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "SKILL.md"), []byte("body"), 0o644); err != nil {
		t.Fatal(err)
	}
	// ~/.claude/skills -> ~/.agents/skills
	if err := os.MkdirAll(filepath.Join(home, ".claude"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(inst.CanonicalRoot(), filepath.Join(home, ".claude", "skills")); err != nil {
		t.Fatal(err)
	}

	res := inst.SymlinkToAgent("pdf", claude, PathOptions{Global: true})
	if !res.Success || res.Mode != ModeCanonical {
		t.Fatalf("unexpected result: %+v", res)
	}

	info, err := os.Lstat(dir)
	if err != nil {
		t.Fatalf("canonical dir: %v", err)
	}
	if info.Mode()&os.ModeSymlink != 0 {
		t.Fatal("canonical dir was replaced by a symlink")
	}
	data, err := os.ReadFile(filepath.Join(home, ".claude", "skills", "pdf", "SKILL.md"))
	if err != nil {
		t.Fatalf("reading through agent dir: %v", err)
	}
	if string(data) != "body" {
		t.Errorf("SKILL.md = %q, want %q", data, "body")
	}

	rm := inst.RemoveSkill("pdf", []agent.Agent{claude}, PathOptions{Global: true})
	if len(rm.Removed) != 1 || len(rm.Failed) != 0 {
		t.Errorf("RemoveSkill = %+v", rm)
	}
	if _, err := os.Lstat(filepath.Join(home, ".claude", "skills")); err != nil {
		t.Errorf("agent skills link was removed: %v", err)
	}
}

func TestRemoveSkill(t *testing.T) {
	inst, home, project := newTestInstaller(t)
	agents := testAgents(t, home, "cursor", "claude-code")
	inst.InstallToAgents("pdf", agents, PathOptions{})

	res := inst.RemoveSkill("pdf", agents, PathOptions{})
	if len(res.Removed) != 2 || len(res.Failed) != 0 {
		t.Errorf("removed=%v failed=%v", res.Removed, res.Failed)
	}
	if res.Canonical.Err != nil {
		t.Errorf("canonical cleanup error: %v", res.Canonical.Err)
	}
	for _, p := range []string{
		filepath.Join(project, ".cursor", "skills", "pdf"),
		filepath.Join(project, ".claude", "skills", "pdf"),
		inst.CanonicalPath("pdf"),
	} {
		if _, err := os.Lstat(p); !os.IsNotExist(err) {
			t.Errorf("%s still exists", p)
		}
	}
}

func TestRemoveSkill_PartialFailure(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root ignores directory permissions")
	}
	inst, home, project := newTestInstaller(t)
	agents := testAgents(t, home, "cursor", "claude-code")
	inst.InstallToAgents("pdf", agents, PathOptions{})

	// Make cursor's skill dir read-only so the link cannot be removed.
	cursorDir := filepath.Join(project, ".cursor", "skills")
	if err := os.Chmod(cursorDir, 0o555); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chmod(cursorDir, 0o755) })

	res := inst.RemoveSkill("pdf", agents, PathOptions{})
	if len(res.Failed) != 1 || res.Failed[0] != "cursor" {
		t.Errorf("failed = %v, want [cursor]", res.Failed)
	}
	if len(res.Removed) != 1 || res.Removed[0] != "claude-code" {
		t.Errorf("removed = %v, want [claude-code]", res.Removed)
	}
}

func TestNewLinker(t *testing.T) {
	if NewLinker("windows").Mode() != ModeJunction {
		t.Error("expected junctions on windows")
	}
	for _, goos := range []string{"linux", "darwin", "freebsd"} {
		if NewLinker(goos).Mode() != ModeSymlink {
			t.Errorf("expected symlinks on %s", goos)
		}
	}
}
