// Package manifest defines signed plugin and skill manifests and verifies
// them before anything they reference is downloaded.
//
// Verification is structural first (version, required fields) and
// cryptographic second (HMAC-SHA256 over the canonical JSON form). Failures
// carry deliberately generic messages.
package manifest

import "encoding/json"

// SupportedVersion is the only manifest format version accepted.
const SupportedVersion = "1.0"

// PluginManifest is a signed description of a plugin and its skills.
type PluginManifest struct {
	Version     string     `json:"version"`
	Plugin      PluginInfo `json:"plugin"`
	Skills      []Skill    `json:"skills"`
	Signature   string     `json:"signature,omitempty"`
	GeneratedAt string     `json:"generatedAt,omitempty"`

	raw []byte
}

// UnmarshalJSON decodes m and keeps a copy of data for signature checks.
func (m *PluginManifest) UnmarshalJSON(data []byte) error {
	type plain PluginManifest
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*m = PluginManifest(p)
	m.raw = append([]byte(nil), data...)
	return nil
}

// Raw returns the document m was decoded from, or nil if m was built in code.
func (m *PluginManifest) Raw() []byte { return m.raw }

// PluginInfo identifies the plugin a manifest describes.
type PluginInfo struct {
	Slug        string `json:"slug"`
	Name        string `json:"name,omitempty"`
	Version     string `json:"version,omitempty"`
	Description string `json:"description,omitempty"`
}

// Skill is one downloadable skill listed in a plugin manifest.
type Skill struct {
	Slug        string `json:"slug"`
	Name        string `json:"name,omitempty"`
	ContentHash string `json:"contentHash,omitempty"`
	DownloadURL string `json:"downloadUrl"`
}

// SkillManifest is a signed description of a single skill archive.
type SkillManifest struct {
	Version     string    `json:"version"`
	Skill       SkillInfo `json:"skill"`
	ZipHash     string    `json:"zipHash,omitempty"`
	DownloadURL string    `json:"downloadUrl"`
	Signature   string    `json:"signature,omitempty"`
	GeneratedAt string    `json:"generatedAt,omitempty"`

	raw []byte
}

// UnmarshalJSON decodes m and keeps a copy of data for signature checks.
func (m *SkillManifest) UnmarshalJSON(data []byte) error {
	type plain SkillManifest
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*m = SkillManifest(p)
	m.raw = append([]byte(nil), data...)
	return nil
}

// Raw returns the document m was decoded from, or nil if m was built in code.
func (m *SkillManifest) Raw() []byte { return m.raw }

// SkillInfo identifies the skill a SkillManifest describes.
type SkillInfo struct {
	Slug    string `json:"slug"`
	Name    string `json:"name,omitempty"`
	Version string `json:"version,omitempty"`
}
