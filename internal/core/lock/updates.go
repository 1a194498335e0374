package lock

import (
	"sort"
	"strings"

	"golang.org/x/mod/semver"
)

// UpdateInfo holds update status for a single locked skill.
type UpdateInfo struct {
	Slug      string `json:"slug"`
	Plugin    string `json:"plugin,omitempty"`
	Installed string `json:"installed"`
	Available string `json:"available"`
	HasUpdate bool   `json:"hasUpdate"`
}

// CheckUpdates compares each entry's version against the latest known version
// for its slug. Entries without a known latest version are reported with
// Available equal to Installed. Results are sorted by slug.
func CheckUpdates(entries []Entry, latest map[string]string) []UpdateInfo {
	results := make([]UpdateInfo, 0, len(entries))
	for _, e := range entries {
		available, ok := latest[e.Slug]
		if !ok || available == "" {
			available = e.Version
		}
		results = append(results, UpdateInfo{
			Slug:      e.Slug,
			Plugin:    e.Plugin,
			Installed: e.Version,
			Available: available,
			HasUpdate: isNewer(available, e.Version),
		})
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].Slug < results[j].Slug
	})
	return results
}

// isNewer reports whether candidate is a newer version than current. Versions
// that are not valid semver are compared for inequality only.
func isNewer(candidate, current string) bool {
	c, cur := canonicalSemver(candidate), canonicalSemver(current)
	if semver.IsValid(c) && semver.IsValid(cur) {
		return semver.Compare(c, cur) > 0
	}
	return candidate != current
}

func canonicalSemver(v string) string {
	v = strings.TrimSpace(v)
	if v != "" && !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	return v
}
