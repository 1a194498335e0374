package core

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/skillstore/skillstore/internal/core/lock"
)

// Paths locates the on-disk shared state under a home directory.
type Paths struct {
	Home          string
	CanonicalRoot string // ~/.agents/skills
	LockFile      string // ~/.agents/.skill-lock.json
}

// NewPaths derives Paths from home.
func NewPaths(home string) Paths {
	agents := filepath.Join(home, ".agents")
	return Paths{
		Home:          home,
		CanonicalRoot: filepath.Join(agents, "skills"),
		LockFile:      filepath.Join(agents, lock.FileName),
	}
}

// DefaultPaths derives Paths from the current user's home directory.
func DefaultPaths() (Paths, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Paths{}, fmt.Errorf("getting home directory: %w", err)
	}
	return NewPaths(home), nil
}
