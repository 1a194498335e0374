package core

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/skillstore/skillstore/internal/core/agent"
	"github.com/skillstore/skillstore/internal/core/installer"
	"github.com/skillstore/skillstore/internal/core/lock"
)

const skillFileName = "SKILL.md"

// Scanner lists the skills in the canonical store.
type Scanner struct {
	inst   *installer.Installer
	agents []agent.Agent
}

// NewScanner creates a Scanner that checks link status for agents.
func NewScanner(inst *installer.Installer, agents []agent.Agent) *Scanner {
	return &Scanner{inst: inst, agents: agents}
}

// Scan reads every skill directory under the canonical root, joining it with
// its lock entry and the agents that can see it. Skills without parseable
// frontmatter are listed under their directory name. Output is sorted by slug.
func (s *Scanner) Scan(entries map[string]lock.Entry, opts installer.PathOptions) ([]InstalledSkill, error) {
	root := s.inst.CanonicalRoot()
	dirEntries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading skills directory: %w", err)
	}

	var skills []InstalledSkill
	for _, entry := range dirEntries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		slug := entry.Name()
		skillPath := filepath.Join(root, slug)

		sk := InstalledSkill{Slug: slug, Name: slug, Path: skillPath}
		if md, err := ParseSkillMd(filepath.Join(skillPath, skillFileName)); err == nil {
			sk.Name = md.Name
			sk.Description = md.Description
			sk.Version = md.Metadata.Version
			sk.Author = md.Metadata.Author
		}
		if e, ok := entries[slug]; ok {
			sk.Locked = true
			sk.InstalledAt = e.InstalledAt
			if e.Version != "" {
				sk.Version = e.Version
			}
		}
		sk.Agents = s.agentsForSkill(slug, opts)
		skills = append(skills, sk)
	}

	sort.Slice(skills, func(i, j int) bool { return skills[i].Slug < skills[j].Slug })
	return skills, nil
}

// agentsForSkill returns the ids of agents whose skill directory holds slug.
// Agents sharing one directory are all reported.
func (s *Scanner) agentsForSkill(slug string, opts installer.PathOptions) []string {
	var ids []string
	for _, a := range s.agents {
		if s.inst.IsSkillInstalledForAgent(slug, a, opts) {
			ids = append(ids, a.ID)
		}
	}
	return ids
}

// ParseSkillMd reads and parses the YAML frontmatter from a SKILL.md file.
func ParseSkillMd(path string) (*SkillMetadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)

	if !scanner.Scan() {
		return nil, fmt.Errorf("empty file: %s", path)
	}
	if strings.TrimSpace(scanner.Text()) != "---" {
		return nil, fmt.Errorf("no frontmatter in %s", path)
	}

	var frontmatter strings.Builder
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "---" {
			break
		}
		frontmatter.WriteString(line)
		frontmatter.WriteString("\n")
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var metadata SkillMetadata
	if err := yaml.Unmarshal([]byte(frontmatter.String()), &metadata); err != nil {
		return nil, fmt.Errorf("parsing frontmatter in %s: %w", path, err)
	}
	if metadata.Name == "" {
		return nil, fmt.Errorf("SKILL.md missing name field: %s", path)
	}
	return &metadata, nil
}
