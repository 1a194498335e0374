// Package core composes the skill installer: configuration, the canonical
// store scanner, and the Service that commands drive.
// It has zero UI dependencies and is independently testable.
package core

// Config represents the skillstore configuration stored at
// $XDG_CONFIG_HOME/skillstore/config.json. The file may contain comments and
// trailing commas.
type Config struct {
	APIURL        string   `json:"apiUrl,omitempty"`
	Timeout       string   `json:"timeout,omitempty"` // Go duration, e.g. "30s"
	MaxConcurrent int      `json:"maxConcurrent,omitempty"`
	LogLevel      string   `json:"logLevel,omitempty"`
	LogFormat     string   `json:"logFormat,omitempty"` // "text" or "json"
	Settings      Settings `json:"settings"`
}

// Settings holds user preferences.
type Settings struct {
	DisableTelemetry bool     `json:"disableTelemetry"`
	DefaultAgents    []string `json:"defaultAgents,omitempty"` // used when no agents are selected explicitly
}

// InstalledSkill is a skill found in the canonical store.
type InstalledSkill struct {
	Slug        string   `json:"slug"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Version     string   `json:"version,omitempty"`
	Author      string   `json:"author,omitempty"`
	Path        string   `json:"path"`   // canonical directory
	Agents      []string `json:"agents"` // ids of agents whose skill dir has this skill
	Locked      bool     `json:"locked"` // recorded in the lock file
	InstalledAt string   `json:"installedAt,omitempty"`
}

// SkillMetadata is the YAML frontmatter parsed from a SKILL.md file.
type SkillMetadata struct {
	Name        string               `yaml:"name"`
	Description string               `yaml:"description"`
	License     string               `yaml:"license,omitempty"`
	Metadata    SkillMetadataDetails `yaml:"metadata,omitempty"`
}

// SkillMetadataDetails holds optional metadata fields from SKILL.md frontmatter.
type SkillMetadataDetails struct {
	Author  string `yaml:"author,omitempty"`
	Version string `yaml:"version,omitempty"`
}
