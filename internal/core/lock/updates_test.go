package lock

import "testing"

func TestCheckUpdates(t *testing.T) {
	entries := []Entry{
		{Slug: "b-skill", Version: "1.0.0"},
		{Slug: "a-skill", Version: "1.2.0"},
		{Slug: "c-skill", Version: "2.0.0"},
		{Slug: "d-skill", Version: "nightly"},
	}
	latest := map[string]string{
		"a-skill": "1.10.0",
		"b-skill": "1.0.0",
		"c-skill": "1.9.9",
		"d-skill": "nightly-2",
	}

	results := CheckUpdates(entries, latest)
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}

	want := map[string]bool{
		"a-skill": true,  // 1.10.0 > 1.2.0 (numeric, not lexical)
		"b-skill": false, // same
		"c-skill": false, // older remote
		"d-skill": true,  // non-semver, differs
	}
	for i, r := range results {
		if i > 0 && results[i-1].Slug > r.Slug {
			t.Errorf("results not sorted: %q before %q", results[i-1].Slug, r.Slug)
		}
		if r.HasUpdate != want[r.Slug] {
			t.Errorf("%s: HasUpdate = %v, want %v", r.Slug, r.HasUpdate, want[r.Slug])
		}
	}
}

func TestCheckUpdates_UnknownRemote(t *testing.T) {
	results := CheckUpdates([]Entry{{Slug: "x", Version: "1.0.0"}}, nil)
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].HasUpdate {
		t.Error("expected no update when remote version is unknown")
	}
	if results[0].Available != "1.0.0" {
		t.Errorf("Available = %q, want installed version", results[0].Available)
	}
}

func TestCheckUpdates_CarriesPlugin(t *testing.T) {
	results := CheckUpdates(
		[]Entry{{Slug: "pdf", Version: "2.0.0", Plugin: "docs-kit"}},
		map[string]string{"pdf": "2.1.0"},
	)
	if results[0].Plugin != "docs-kit" || !results[0].HasUpdate {
		t.Errorf("result = %+v", results[0])
	}
}
