// Package lock persists the record of installed skills.
//
// The lock file is a cache of installer state: it can always be rebuilt from
// the canonical store, so a missing, corrupt, or outdated lock file reads as
// empty instead of failing.
package lock

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	// CurrentVersion is the lock file format version. Files carrying any other
	// version are discarded on read.
	CurrentVersion = 1

	// FileName is the lock file name under the ~/.agents directory.
	FileName = ".skill-lock.json"

	// SourceSkillstore marks entries installed from the skillstore marketplace.
	SourceSkillstore = "skillstore"
)

// Entry records one installed skill. Skills installed as part of a plugin
// carry the plugin slug and are versioned with the plugin.
type Entry struct {
	Slug        string `json:"slug"`
	Version     string `json:"version"`
	Plugin      string `json:"plugin,omitempty"`
	ZipHash     string `json:"zipHash"`
	Source      string `json:"source"`
	InstalledAt string `json:"installedAt"`
	UpdatedAt   string `json:"updatedAt"`
}

// Lock is the on-disk lock document.
type Lock struct {
	Version int              `json:"version"`
	Skills  map[string]Entry `json:"skills"`
}

// Empty returns a lock with no entries at the current version.
func Empty() *Lock {
	return &Lock{Version: CurrentVersion, Skills: map[string]Entry{}}
}

// Store reads and writes a lock file at a fixed path.
//
// Each mutating call is an unsynchronized read-modify-write. Two processes
// updating the same lock file concurrently can lose an update.
type Store struct {
	path string
	now  func() time.Time
}

// NewStore creates a Store for the lock file at path.
func NewStore(path string) *Store {
	return &Store{path: path, now: time.Now}
}

// Path returns the lock file path.
func (s *Store) Path() string { return s.path }

// SetClock overrides the time source used for timestamps. Useful for testing.
func (s *Store) SetClock(now func() time.Time) { s.now = now }

// Read loads the lock file. A missing file, invalid JSON, or a version other
// than CurrentVersion yields an empty lock.
func (s *Store) Read() *Lock {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return Empty()
	}

	var lf Lock
	if err := json.Unmarshal(data, &lf); err != nil {
		return Empty()
	}
	if lf.Version != CurrentVersion {
		return Empty()
	}
	if lf.Skills == nil {
		lf.Skills = map[string]Entry{}
	}
	return &lf
}

// Write saves the lock file as indented JSON, creating parent directories as
// needed. The write goes through a temp file and a rename so readers never
// see a partial document.
func (s *Store) Write(lf *Lock) error {
	if lf.Skills == nil {
		lf.Skills = map[string]Entry{}
	}

	data, err := json.MarshalIndent(lf, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling lock file: %w", err)
	}
	data = append(data, '\n')

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating lock directory: %w", err)
	}

	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("writing lock file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("saving lock file: %w", err)
	}
	return nil
}

// Add upserts an entry. When the slug is already locked, the original
// InstalledAt is kept and every other field is replaced; UpdatedAt is always
// set to now.
func (s *Store) Add(entry Entry) error {
	lf := s.Read()
	now := s.now().UTC().Format(time.RFC3339)

	if existing, ok := lf.Skills[entry.Slug]; ok {
		entry.InstalledAt = existing.InstalledAt
	}
	if entry.InstalledAt == "" {
		entry.InstalledAt = now
	}
	if entry.Source == "" {
		entry.Source = SourceSkillstore
	}
	entry.UpdatedAt = now

	lf.Skills[entry.Slug] = entry
	return s.Write(lf)
}

// Remove deletes the entry for slug. It reports whether an entry existed and
// only writes the file when one was removed.
func (s *Store) Remove(slug string) (bool, error) {
	lf := s.Read()
	if _, ok := lf.Skills[slug]; !ok {
		return false, nil
	}
	delete(lf.Skills, slug)
	if err := s.Write(lf); err != nil {
		return false, err
	}
	return true, nil
}

// Get returns the entry for slug.
func (s *Store) Get(slug string) (Entry, bool) {
	e, ok := s.Read().Skills[slug]
	return e, ok
}

// List returns all entries in no particular order.
func (s *Store) List() []Entry {
	lf := s.Read()
	entries := make([]Entry, 0, len(lf.Skills))
	for _, e := range lf.Skills {
		entries = append(entries, e)
	}
	return entries
}

// IsLocked reports whether slug has an entry.
func (s *Store) IsLocked(slug string) bool {
	_, ok := s.Get(slug)
	return ok
}

// Count returns the number of entries.
func (s *Store) Count() int {
	return len(s.Read().Skills)
}
