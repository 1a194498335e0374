// Package download fetches the skills of a verified plugin manifest into a
// local directory with bounded concurrency.
package download

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/skillstore/skillstore/internal/core/installer"
	"github.com/skillstore/skillstore/internal/core/manifest"
)

// DefaultMaxConcurrent is used when Config.MaxConcurrent is not positive.
const DefaultMaxConcurrent = 5

// SkillFile is the file each downloaded skill body is written to.
const SkillFile = "SKILL.md"

// ErrHashMismatch is recorded when a body does not match its content hash.
var ErrHashMismatch = errors.New("Content hash verification failed")

// Config holds run-wide settings.
type Config struct {
	InstallDir    string
	MaxConcurrent int
	DryRun        bool
}

// Options holds per-call settings.
type Options struct {
	Overwrite  bool
	VerifyHash bool
	Progress   Progress // may be nil
}

// Fetcher retrieves a skill body by download URL. *api.Client satisfies it.
type Fetcher interface {
	DownloadSkill(ctx context.Context, downloadURL string) (string, error)
}

// Progress receives one Advance per skill, in completion order, and a single
// Complete at the end. Calls are serialized.
type Progress interface {
	Advance(Result)
	Complete(Summary)
}

// Status is the outcome of one skill.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
)

// Result is the outcome of downloading one skill.
type Result struct {
	Slug   string `json:"slug"`
	Status Status `json:"status"`
	Path   string `json:"path,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Success reports whether the skill was written.
func (r Result) Success() bool { return r.Status == StatusSuccess }

// Skipped reports whether the skill was left alone (dry run or already present).
func (r Result) Skipped() bool { return r.Status == StatusSkipped }

// MarshalJSON adds the success and skipped flags next to status.
func (r Result) MarshalJSON() ([]byte, error) {
	type plain Result
	return json.Marshal(struct {
		plain
		Success bool `json:"success"`
		Skipped bool `json:"skipped,omitempty"`
	}{plain(r), r.Success(), r.Skipped()})
}

// Summary aggregates a run. Results are in input order.
type Summary struct {
	Total   int      `json:"total"`
	Success int      `json:"success"`
	Failed  int      `json:"failed"`
	Skipped int      `json:"skipped"`
	Results []Result `json:"results"`
}

// Path returns where slug's body is written under dir.
func Path(dir, slug string) string {
	return filepath.Join(dir, installer.SanitizeSlug(slug), SkillFile)
}

// DownloadAll downloads skills in batches of cfg.MaxConcurrent. Each batch
// runs concurrently and finishes before the next starts. A failing skill is
// recorded in its Result and never stops the run.
func DownloadAll(ctx context.Context, cfg Config, fetcher Fetcher, skills []manifest.Skill, opts Options) Summary {
	limit := cfg.MaxConcurrent
	if limit <= 0 {
		limit = DefaultMaxConcurrent
	}

	results := make([]Result, len(skills))
	var mu sync.Mutex
	advance := func(r Result) {
		if opts.Progress == nil {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		opts.Progress.Advance(r)
	}

	for start := 0; start < len(skills); start += limit {
		end := min(start+limit, len(skills))

		var g errgroup.Group
		for i := start; i < end; i++ {
			g.Go(func() error {
				results[i] = downloadOne(ctx, cfg, fetcher, skills[i], opts)
				advance(results[i])
				return nil
			})
		}
		_ = g.Wait()
	}

	summary := Summary{Total: len(skills), Results: results}
	for _, r := range results {
		switch r.Status {
		case StatusSuccess:
			summary.Success++
		case StatusFailed:
			summary.Failed++
		case StatusSkipped:
			summary.Skipped++
		}
	}
	if opts.Progress != nil {
		opts.Progress.Complete(summary)
	}
	return summary
}

func downloadOne(ctx context.Context, cfg Config, fetcher Fetcher, skill manifest.Skill, opts Options) (res Result) {
	res = Result{Slug: skill.Slug}
	defer func() {
		if r := recover(); r != nil {
			res.Status = StatusFailed
			res.Path = ""
			if err, ok := r.(error); ok {
				res.Error = err.Error()
			} else {
				res.Error = "Unknown error"
			}
		}
	}()

	if cfg.DryRun {
		res.Status = StatusSkipped
		return res
	}

	dest := Path(cfg.InstallDir, skill.Slug)
	if !opts.Overwrite {
		if _, err := os.Stat(dest); err == nil {
			res.Status = StatusSkipped
			res.Path = dest
			return res
		}
	}

	body, err := fetcher.DownloadSkill(ctx, skill.DownloadURL)
	if err != nil {
		return failed(res, err)
	}

	if opts.VerifyHash && skill.ContentHash != "" && !manifest.VerifyContentHash([]byte(body), skill.ContentHash) {
		return failed(res, ErrHashMismatch)
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return failed(res, fmt.Errorf("creating skill dir: %w", err))
	}
	if err := os.WriteFile(dest, []byte(body), 0o644); err != nil {
		return failed(res, fmt.Errorf("writing skill: %w", err))
	}

	res.Status = StatusSuccess
	res.Path = dest
	return res
}

func failed(res Result, err error) Result {
	res.Status = StatusFailed
	res.Error = err.Error()
	return res
}
