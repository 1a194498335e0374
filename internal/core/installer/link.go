package installer

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// Mode names the kind of link used to expose a canonical skill to an agent.
type Mode string

const (
	ModeSymlink   Mode = "symlink"
	ModeJunction  Mode = "junction"
	ModeCanonical Mode = "canonical" // agent reads the canonical directory itself
)

// Linker creates a directory link at path pointing to target.
type Linker interface {
	Link(target, path string) error
	Mode() Mode
}

// NewLinker returns the Linker for the given GOOS value: junctions on Windows,
// symlinks elsewhere.
func NewLinker(goos string) Linker {
	if goos == "windows" {
		return JunctionLinker{}
	}
	return SymlinkLinker{}
}

// DefaultLinker returns the Linker for the running platform.
func DefaultLinker() Linker {
	return NewLinker(runtime.GOOS)
}

// SymlinkLinker creates relative symbolic links.
type SymlinkLinker struct{}

func (SymlinkLinker) Mode() Mode { return ModeSymlink }

func (SymlinkLinker) Link(target, path string) error {
	rel, err := filepath.Rel(filepath.Dir(path), target)
	if err != nil {
		rel = target
	}
	return os.Symlink(rel, path)
}

// JunctionLinker creates NTFS directory junctions. Junctions need no special
// privilege, unlike symlinks on Windows, but must use absolute targets.
type JunctionLinker struct{}

func (JunctionLinker) Mode() Mode { return ModeJunction }

func (JunctionLinker) Link(target, path string) error {
	abs, err := filepath.Abs(target)
	if err != nil {
		return fmt.Errorf("resolving junction target: %w", err)
	}
	out, err := exec.Command("cmd", "/c", "mklink", "/J", path, abs).CombinedOutput()
	if err != nil {
		return fmt.Errorf("mklink /J: %s: %w", strings.TrimSpace(string(out)), err)
	}
	return nil
}
