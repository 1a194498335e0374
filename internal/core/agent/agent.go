// Package agent defines the catalog of AI coding agents skillstore can
// install skills into.
//
// An Agent knows where it reads skills from inside a project and inside the
// user's home directory, and how to tell whether it is installed on this
// machine. The catalog is static: a Registry is built once from it and never
// mutated.
package agent

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotFound is returned when an agent id is not in the registry.
var ErrNotFound = errors.New("agent not found")

// Agent describes one supported coding agent and its skill directory
// conventions.
type Agent struct {
	ID          string // machine name: "claude-code", "cursor"
	Name        string // display name: "Claude Code", "Cursor"
	ProjectPath string // project-relative skill directory (e.g. ".claude/skills")
	GlobalPath  string // absolute global skill directory (e.g. "/home/me/.claude/skills")

	detectPaths []string // absolute paths whose presence means the agent is installed
}

// DetectInstalled reports whether the agent appears to be installed on this
// machine. It only checks for the existence of the agent's home paths.
func (a Agent) DetectInstalled() bool {
	for _, p := range a.detectPaths {
		if pathExists(p) {
			return true
		}
	}
	return false
}

// DetectPaths returns the expanded paths checked by DetectInstalled.
func (a Agent) DetectPaths() []string {
	return append([]string(nil), a.detectPaths...)
}

// Registry is an ordered, immutable set of agents.
type Registry struct {
	agents []Agent
	byID   map[string]int
}

// NewRegistry builds the registry from the built-in catalog, resolving home
// relative paths against home and environment references against the
// process environment.
func NewRegistry(home string) *Registry {
	return NewRegistryWithEnv(home, os.Getenv)
}

// NewRegistryWithEnv is NewRegistry with an explicit environment lookup.
// Useful for testing.
func NewRegistryWithEnv(home string, getenv func(string) string) *Registry {
	exp := expander{home: home, getenv: getenv}
	r := &Registry{byID: make(map[string]int, len(catalog))}
	for _, def := range catalog {
		a := Agent{
			ID:          def.id,
			Name:        def.name,
			ProjectPath: def.projectPath,
			GlobalPath:  exp.expand(def.globalPath),
		}
		for _, p := range def.detectPaths {
			a.detectPaths = append(a.detectPaths, exp.expand(p))
		}
		r.byID[a.ID] = len(r.agents)
		r.agents = append(r.agents, a)
	}
	return r
}

// Default builds a registry rooted at the current user's home directory.
func Default() (*Registry, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("getting home directory: %w", err)
	}
	return NewRegistry(home), nil
}

// All returns every agent in registry order.
func (r *Registry) All() []Agent {
	return append([]Agent(nil), r.agents...)
}

// IDs returns the agent ids in registry order.
func (r *Registry) IDs() []string {
	ids := make([]string, len(r.agents))
	for i, a := range r.agents {
		ids[i] = a.ID
	}
	return ids
}

// IsValidID reports whether id names a registered agent.
func (r *Registry) IsValidID(id string) bool {
	_, ok := r.byID[id]
	return ok
}

// Get returns the agent with the given id.
func (r *Registry) Get(id string) (Agent, error) {
	i, ok := r.byID[id]
	if !ok {
		return Agent{}, fmt.Errorf("%w: %q; available: %s", ErrNotFound, id, strings.Join(r.IDs(), ", "))
	}
	return r.agents[i], nil
}

// ByIDs resolves ids to agents, silently dropping unknown ids. Callers that
// need strict validation check IsValidID first.
func (r *Registry) ByIDs(ids []string) []Agent {
	result := make([]Agent, 0, len(ids))
	for _, id := range ids {
		if i, ok := r.byID[id]; ok {
			result = append(result, r.agents[i])
		}
	}
	return result
}

// DetectInstalled returns the agents installed on this machine, in registry
// order.
func (r *Registry) DetectInstalled() []Agent {
	var detected []Agent
	for _, a := range r.agents {
		if a.DetectInstalled() {
			detected = append(detected, a)
		}
	}
	return detected
}

// IDsOf returns the ids of the given agents.
func IDsOf(agents []Agent) []string {
	ids := make([]string, len(agents))
	for i, a := range agents {
		ids[i] = a.ID
	}
	return ids
}

// NamesOf returns the display names of the given agents.
func NamesOf(agents []Agent) []string {
	names := make([]string, len(agents))
	for i, a := range agents {
		names[i] = a.Name
	}
	return names
}

// expander resolves ~, $XDG_CONFIG and $VAR references in catalog paths.
type expander struct {
	home   string
	getenv func(string) string
}

func (e expander) expand(p string) string {
	if strings.Contains(p, "$XDG_CONFIG") {
		xdgConfig := e.getenv("XDG_CONFIG_HOME")
		if xdgConfig == "" {
			xdgConfig = filepath.Join(e.home, ".config")
		}
		p = strings.ReplaceAll(p, "$XDG_CONFIG", xdgConfig)
	}

	// Other variables fall back to the catalog default when unset,
	// written as ${VAR:-~/.default}.
	if strings.Contains(p, "$") {
		p = os.Expand(p, func(key string) string {
			name, fallback, hasFallback := strings.Cut(key, ":-")
			if v := e.getenv(name); v != "" {
				return v
			}
			if hasFallback {
				return fallback
			}
			return ""
		})
	}

	if strings.HasPrefix(p, "~/") {
		p = filepath.Join(e.home, p[2:])
	} else if p == "~" {
		p = e.home
	}
	return filepath.Clean(p)
}

func pathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
