// Package installer places skills in the canonical store and links them into
// each agent's skill directory.
//
// A skill has exactly one canonical copy under the canonical root. Agents get
// a symlink (a junction on Windows) pointing at it, never a duplicate.
package installer

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/skillstore/skillstore/internal/core/agent"
)

// Installer links canonical skills into agent directories.
type Installer struct {
	canonicalRoot string
	cwd           string
	linker        Linker
	logger        *slog.Logger
}

// Options configures an Installer.
type Options struct {
	CanonicalRoot string       // e.g. ~/.agents/skills
	Cwd           string       // project root for non-global installs; defaults to os.Getwd
	Linker        Linker       // defaults to DefaultLinker()
	Logger        *slog.Logger // defaults to a discarding logger
}

// New creates an Installer.
func New(opts Options) *Installer {
	if opts.Linker == nil {
		opts.Linker = DefaultLinker()
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Installer{
		canonicalRoot: opts.CanonicalRoot,
		cwd:           opts.Cwd,
		linker:        opts.Linker,
		logger:        opts.Logger,
	}
}

// PathOptions selects where an agent's copy of a skill lives.
type PathOptions struct {
	Global bool   // use the agent's global skill directory
	Cwd    string // project root override for non-global installs
}

// AgentResult is the outcome of linking one skill into one agent.
type AgentResult struct {
	AgentID       string `json:"agentId"`
	Path          string `json:"path"`
	Success       bool   `json:"success"`
	Mode          Mode   `json:"mode"`
	SymlinkFailed bool   `json:"symlinkFailed,omitempty"`
	Err           error  `json:"-"`
}

// InstallResult aggregates AgentResults for one skill.
type InstallResult struct {
	Slug         string        `json:"slug"`
	Agents       []AgentResult `json:"agents"`
	SuccessCount int           `json:"successCount"`
	FailCount    int           `json:"failCount"`
	Success      bool          `json:"success"`
}

// RemoveResult records which agent links were removed.
type RemoveResult struct {
	Removed   []string      `json:"removed"`
	Failed    []string      `json:"failed"`
	Canonical CleanupResult `json:"-"`
}

// CleanupResult is the outcome of a best-effort cleanup. Callers may ignore it.
type CleanupResult struct {
	Path string
	Err  error
}

// CanonicalRoot returns the canonical store root.
func (inst *Installer) CanonicalRoot() string { return inst.canonicalRoot }

// CanonicalPath returns the canonical directory for slug.
func (inst *Installer) CanonicalPath(slug string) string {
	return filepath.Join(inst.canonicalRoot, SanitizeSlug(slug))
}

// AgentPath returns where agent expects to find slug.
func (inst *Installer) AgentPath(slug string, a agent.Agent, opts PathOptions) string {
	if opts.Global {
		return filepath.Join(a.GlobalPath, SanitizeSlug(slug))
	}
	return filepath.Join(inst.projectRoot(opts), a.ProjectPath, SanitizeSlug(slug))
}

func (inst *Installer) projectRoot(opts PathOptions) string {
	if opts.Cwd != "" {
		return opts.Cwd
	}
	if inst.cwd != "" {
		return inst.cwd
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return cwd
}

// EnsureCanonicalDir creates the canonical directory for slug if needed and
// returns its path.
func (inst *Installer) EnsureCanonicalDir(slug string) (string, error) {
	dir := inst.CanonicalPath(slug)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating canonical dir: %w", err)
	}
	return dir, nil
}

// SymlinkToAgent links the canonical directory of slug into agent's skill
// directory, repairing whatever is already at the agent path. A failed link
// is reported as a successful result with SymlinkFailed set: the canonical
// copy stays usable.
func (inst *Installer) SymlinkToAgent(slug string, a agent.Agent, opts PathOptions) AgentResult {
	target := inst.CanonicalPath(slug)
	linkPath := inst.AgentPath(slug, a, opts)
	res := AgentResult{AgentID: a.ID, Path: linkPath, Mode: inst.linker.Mode()}

	if isCanonicalPath(linkPath, target) {
		res.Mode = ModeCanonical
		res.Success = true
		return res
	}

	if err := os.MkdirAll(filepath.Dir(linkPath), 0o755); err != nil {
		res.Err = fmt.Errorf("creating skill dir for %s: %w", a.Name, err)
		return res
	}

	linked, err := inst.prepareLinkPath(linkPath, target)
	if err != nil {
		res.Err = err
		return res
	}
	if linked {
		res.Success = true
		return res
	}

	res.Success = true
	if err := inst.linker.Link(target, linkPath); err != nil {
		inst.logger.Warn("link failed, canonical copy still usable",
			"agent", a.ID, "path", linkPath, "error", err)
		res.SymlinkFailed = true
		res.Err = err
	}
	return res
}

// prepareLinkPath clears linkPath so a link to target can be created. It
// reports linked=true when linkPath already resolves to target.
func (inst *Installer) prepareLinkPath(linkPath, target string) (linked bool, err error) {
	info, err := os.Lstat(linkPath)
	switch Classify(err) {
	case FSNone:
	case FSNotFound:
		return false, nil
	case FSCircularLink:
		return false, forceRemove(linkPath)
	default:
		return false, fmt.Errorf("inspecting %s: %w", linkPath, err)
	}

	if info.Mode()&os.ModeSymlink == 0 && !isJunction(info) {
		if err := os.RemoveAll(linkPath); err != nil {
			return false, fmt.Errorf("removing %s: %w", linkPath, err)
		}
		return false, nil
	}

	if real, err := filepath.EvalSymlinks(target); err == nil {
		target = real
	}
	resolved, err := filepath.EvalSymlinks(linkPath)
	switch Classify(err) {
	case FSNone:
		if samePath(resolved, target) {
			return true, nil
		}
	case FSCircularLink:
		inst.logger.Debug("replacing circular link", "path", linkPath)
	}
	return false, forceRemove(linkPath)
}

// IsSkillInstalledForAgent reports whether the agent path for slug exists.
func (inst *Installer) IsSkillInstalledForAgent(slug string, a agent.Agent, opts PathOptions) bool {
	_, err := os.Stat(inst.AgentPath(slug, a, opts))
	return err == nil
}

// IsSkillInCanonical reports whether the canonical directory for slug exists.
func (inst *Installer) IsSkillInCanonical(slug string) bool {
	_, err := os.Stat(inst.CanonicalPath(slug))
	return err == nil
}

// InstallToAgents ensures the canonical directory exists and links it into
// every agent. Success requires at least one agent and no failed result.
func (inst *Installer) InstallToAgents(slug string, agents []agent.Agent, opts PathOptions) InstallResult {
	res := InstallResult{Slug: slug, Agents: make([]AgentResult, 0, len(agents))}

	if _, err := inst.EnsureCanonicalDir(slug); err != nil {
		inst.logger.Error("canonical directory unavailable", "slug", slug, "error", err)
		for _, a := range agents {
			res.Agents = append(res.Agents, AgentResult{AgentID: a.ID, Mode: inst.linker.Mode(), Err: err})
			res.FailCount++
		}
		return res
	}

	for _, a := range agents {
		r := inst.SymlinkToAgent(slug, a, opts)
		if r.Success {
			res.SuccessCount++
		} else {
			res.FailCount++
		}
		res.Agents = append(res.Agents, r)
	}

	res.Success = len(agents) > 0 && res.FailCount == 0
	return res
}

// RemoveSkill removes slug from every agent and then, best effort, from the
// canonical store. One agent failing does not stop the others.
func (inst *Installer) RemoveSkill(slug string, agents []agent.Agent, opts PathOptions) RemoveResult {
	var res RemoveResult
	canonical := inst.CanonicalPath(slug)

	for _, a := range agents {
		p := inst.AgentPath(slug, a, opts)
		if isCanonicalPath(p, canonical) {
			res.Removed = append(res.Removed, a.ID)
			continue
		}
		if err := forceRemove(p); err != nil {
			inst.logger.Warn("removing agent link", "agent", a.ID, "path", p, "error", err)
			res.Failed = append(res.Failed, a.ID)
			continue
		}
		res.Removed = append(res.Removed, a.ID)
	}

	res.Canonical = inst.RemoveCanonical(slug)
	return res
}

// RemoveCanonical deletes the canonical directory for slug. Failure leaves a
// stale directory that the next install repairs.
func (inst *Installer) RemoveCanonical(slug string) CleanupResult {
	p := inst.CanonicalPath(slug)
	err := os.RemoveAll(p)
	if err != nil {
		inst.logger.Debug("canonical cleanup failed", "path", p, "error", err)
	}
	return CleanupResult{Path: p, Err: err}
}

// forceRemove removes path whatever it is, treating "already gone" as success.
func forceRemove(path string) error {
	if err := os.RemoveAll(path); err != nil && Classify(err) != FSNotFound {
		return err
	}
	return nil
}

func samePath(a, b string) bool {
	return filepath.Clean(a) == filepath.Clean(b)
}

// isCanonicalPath reports whether the agent path p names the canonical
// directory itself, either literally or because a parent directory of p is a
// symlink into the canonical root (e.g. ~/.claude/skills -> ~/.agents/skills).
// The last element of p is not resolved: a link there is an ordinary install.
func isCanonicalPath(p, canonical string) bool {
	if samePath(p, canonical) {
		return true
	}
	return samePath(resolveParent(p), resolveParent(canonical))
}

// resolveParent resolves symlinks in the directory part of p. Unresolvable
// parents are left as they are.
func resolveParent(p string) string {
	dir, base := filepath.Split(filepath.Clean(p))
	if real, err := filepath.EvalSymlinks(dir); err == nil {
		dir = real
	}
	return filepath.Join(dir, base)
}

// isJunction reports whether info describes a Windows mount point. Lstat
// reports junctions as irregular files rather than symlinks.
func isJunction(info os.FileInfo) bool {
	return info.Mode()&os.ModeIrregular != 0
}
