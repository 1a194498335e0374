package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/skillstore/skillstore/internal/core/agent"
	"github.com/skillstore/skillstore/internal/core/api"
	"github.com/skillstore/skillstore/internal/core/download"
	"github.com/skillstore/skillstore/internal/core/installer"
	"github.com/skillstore/skillstore/internal/core/lock"
	"github.com/skillstore/skillstore/internal/core/manifest"
)

var (
	// ErrNotInstalled is returned when uninstalling a skill that is neither
	// locked nor present in the canonical store.
	ErrNotInstalled = errors.New("skill is not installed")

	// ErrZipHashMismatch is returned when a downloaded archive does not match
	// its manifest hash.
	ErrZipHashMismatch = errors.New("Zip hash verification failed")

	// ErrTelemetryDisabled is reported instead of sending telemetry.
	ErrTelemetryDisabled = errors.New("telemetry disabled")
)

// Marketplace is the part of the API the Service uses. *api.Client
// satisfies it.
type Marketplace interface {
	download.Fetcher
	FetchManifest(ctx context.Context, slug string) (*manifest.PluginManifest, error)
	FetchSkillManifest(ctx context.Context, slug string) (*manifest.SkillManifest, error)
	FetchPluginInfo(ctx context.Context, slug string) (*api.PluginInfo, error)
	FetchSkillInfo(ctx context.Context, slug string) (*api.SkillInfo, error)
	DownloadSkillZip(ctx context.Context, slug string) ([]byte, error)
	ReportInstallation(ctx context.Context, slug, method string) error
	ReportSkillInstall(ctx context.Context, slug string, report api.SkillInstallReport) error
	ReportSkillTelemetry(ctx context.Context, ev api.TelemetryEvent) api.TelemetryResult
}

// ServiceOptions wires a Service. Zero Linker and Logger fall back to
// defaults.
type ServiceOptions struct {
	Runtime  Runtime
	Paths    Paths
	Registry *agent.Registry
	Client   Marketplace
	Linker   installer.Linker
	Cwd      string
	Logger   *slog.Logger
}

// Service runs install, uninstall, list and update flows over the
// components.
type Service struct {
	rt       Runtime
	paths    Paths
	registry *agent.Registry
	client   Marketplace
	lock     *lock.Store
	inst     *installer.Installer
	logger   *slog.Logger
}

// NewService creates a Service.
func NewService(opts ServiceOptions) *Service {
	if opts.Logger == nil {
		opts.Logger = DiscardLogger()
	}
	return &Service{
		rt:       opts.Runtime,
		paths:    opts.Paths,
		registry: opts.Registry,
		client:   opts.Client,
		lock:     lock.NewStore(opts.Paths.LockFile),
		inst: installer.New(installer.Options{
			CanonicalRoot: opts.Paths.CanonicalRoot,
			Cwd:           opts.Cwd,
			Linker:        opts.Linker,
			Logger:        opts.Logger,
		}),
		logger: opts.Logger,
	}
}

// Lock returns the lock store.
func (s *Service) Lock() *lock.Store { return s.lock }

// Installer returns the installer.
func (s *Service) Installer() *installer.Installer { return s.inst }

// Registry returns the agent registry.
func (s *Service) Registry() *agent.Registry { return s.registry }

// InstallOptions configures InstallSkill and InstallPlugin.
type InstallOptions struct {
	Agents        []agent.Agent
	Global        bool
	Cwd           string
	Overwrite     bool // replace skills that already exist in the canonical store
	SkipSignature bool
	DryRun        bool
	Progress      download.Progress
}

func (o InstallOptions) pathOptions() installer.PathOptions {
	return installer.PathOptions{Global: o.Global, Cwd: o.Cwd}
}

func (o InstallOptions) agentIDs() []string {
	return agent.IDsOf(o.Agents)
}

// SkillInstallResult is the outcome of InstallSkill.
type SkillInstallResult struct {
	Slug          string
	Version       string
	CanonicalPath string
	DryRun        bool
	Install       installer.InstallResult
}

// InstallSkill installs one skill from its signed manifest and zip archive.
// The manifest and archive are verified before anything is written.
func (s *Service) InstallSkill(ctx context.Context, slug string, opts InstallOptions) (*SkillInstallResult, error) {
	m, err := s.client.FetchSkillManifest(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("fetching manifest for %s: %w", slug, err)
	}
	if res := manifest.VerifySkillManifest(m, s.verifyOptions(opts)); !res.Valid {
		return nil, fmt.Errorf("verifying manifest for %s: %w", slug, res.Err)
	}

	slug = m.Skill.Slug
	result := &SkillInstallResult{
		Slug:          slug,
		Version:       m.Skill.Version,
		CanonicalPath: s.inst.CanonicalPath(slug),
		DryRun:        opts.DryRun,
	}
	if opts.DryRun {
		return result, nil
	}

	data, err := s.client.DownloadSkillZip(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("downloading %s: %w", slug, err)
	}
	zipHash := m.ZipHash
	if zipHash == "" {
		zipHash = manifest.ContentHash(data)
		s.logger.Warn("manifest has no zip hash, archive not verified", "skill", slug)
	} else if !manifest.VerifyDigest(data, zipHash) {
		return nil, fmt.Errorf("%s: %w", slug, ErrZipHashMismatch)
	}

	if err := s.replaceCanonical(slug, data); err != nil {
		return nil, fmt.Errorf("installing %s: %w", slug, err)
	}

	result.Install = s.inst.InstallToAgents(slug, opts.Agents, opts.pathOptions())

	if err := s.lock.Add(lock.Entry{Slug: slug, Version: m.Skill.Version, ZipHash: zipHash}); err != nil {
		return result, fmt.Errorf("updating lock file: %w", err)
	}

	if s.rt.Telemetry {
		report := api.SkillInstallReport{Agents: opts.agentIDs()}
		if err := s.client.ReportSkillInstall(ctx, slug, report); err != nil {
			s.logger.Debug("install report not delivered", "skill", slug, "error", err)
		}
	}
	return result, nil
}

// replaceCanonical extracts data next to the canonical directory and swaps
// it in, so a failed extraction leaves the previous copy intact.
func (s *Service) replaceCanonical(slug string, data []byte) error {
	if err := os.MkdirAll(s.paths.CanonicalRoot, 0o755); err != nil {
		return fmt.Errorf("creating canonical root: %w", err)
	}
	staging, err := os.MkdirTemp(s.paths.CanonicalRoot, ".staging-*")
	if err != nil {
		return fmt.Errorf("creating staging dir: %w", err)
	}
	defer func() { _ = os.RemoveAll(staging) }()

	if err := extractSkillZip(data, staging); err != nil {
		return err
	}

	dest := s.inst.CanonicalPath(slug)
	if err := os.RemoveAll(dest); err != nil {
		return fmt.Errorf("removing previous copy: %w", err)
	}
	if err := os.Rename(staging, dest); err != nil {
		return fmt.Errorf("moving skill into place: %w", err)
	}
	return nil
}

// PluginInstallResult is the outcome of InstallPlugin.
type PluginInstallResult struct {
	Plugin   manifest.PluginInfo
	Download download.Summary
	Installs []installer.InstallResult
}

// InstallPlugin installs every skill of a plugin. Skills that fail to
// download are reported in the summary; the rest are linked and locked.
func (s *Service) InstallPlugin(ctx context.Context, slug string, opts InstallOptions) (*PluginInstallResult, error) {
	m, err := s.client.FetchManifest(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("fetching manifest for %s: %w", slug, err)
	}
	if res := manifest.Verify(m, s.verifyOptions(opts)); !res.Valid {
		return nil, fmt.Errorf("verifying manifest for %s: %w", slug, res.Err)
	}

	if st, ok := opts.Progress.(batchStarter); ok {
		st.Start("Installing "+pluginTitle(m.Plugin), len(m.Skills))
	}
	summary := download.DownloadAll(ctx, download.Config{
		InstallDir:    s.paths.CanonicalRoot,
		MaxConcurrent: s.rt.MaxConcurrent,
		DryRun:        opts.DryRun,
	}, s.client, m.Skills, download.Options{
		Overwrite:  opts.Overwrite,
		VerifyHash: true,
		Progress:   opts.Progress,
	})

	result := &PluginInstallResult{Plugin: m.Plugin, Download: summary}
	if opts.DryRun {
		return result, nil
	}

	var lockErrs []error
	for i, r := range summary.Results {
		// Skipped-but-present skills are linked too so that new agents pick them up.
		if r.Status == download.StatusFailed || r.Path == "" {
			continue
		}
		result.Installs = append(result.Installs, s.inst.InstallToAgents(r.Slug, opts.Agents, opts.pathOptions()))
		if r.Status != download.StatusSuccess {
			continue
		}
		entry := lock.Entry{
			Slug:    r.Slug,
			Version: m.Plugin.Version,
			Plugin:  m.Plugin.Slug,
			ZipHash: m.Skills[i].ContentHash,
		}
		if err := s.lock.Add(entry); err != nil {
			lockErrs = append(lockErrs, err)
		}
	}

	if summary.Success > 0 && s.rt.Telemetry {
		if err := s.client.ReportInstallation(ctx, m.Plugin.Slug, api.DefaultInstallMethod); err != nil {
			s.logger.Debug("install report not delivered", "plugin", m.Plugin.Slug, "error", err)
		}
	}

	if err := errors.Join(lockErrs...); err != nil {
		return result, fmt.Errorf("updating lock file: %w", err)
	}
	return result, nil
}

// batchStarter is implemented by progress sinks that want the batch size
// before the first result.
type batchStarter interface {
	Start(title string, total int)
}

func pluginTitle(p manifest.PluginInfo) string {
	if p.Name != "" {
		return p.Name
	}
	return p.Slug
}

func (s *Service) verifyOptions(opts InstallOptions) manifest.VerifyOptions {
	return manifest.VerifyOptions{SkipSignature: opts.SkipSignature, Key: s.rt.VerifyKey}
}

// UninstallOptions configures Uninstall.
type UninstallOptions struct {
	Agents []agent.Agent // nil means every registered agent
	Global bool
	Cwd    string
}

// Uninstall removes slug from agents, the canonical store and the lock file.
func (s *Service) Uninstall(slug string, opts UninstallOptions) (installer.RemoveResult, error) {
	slug = installer.SanitizeSlug(slug)
	if !s.lock.IsLocked(slug) && !s.inst.IsSkillInCanonical(slug) {
		return installer.RemoveResult{}, fmt.Errorf("%s: %w", slug, ErrNotInstalled)
	}

	agents := opts.Agents
	if agents == nil {
		agents = s.registry.All()
	}
	pathOpts := installer.PathOptions{Global: opts.Global, Cwd: opts.Cwd}

	// Only agents that actually have something at their path are touched.
	var present []agent.Agent
	for _, a := range agents {
		if pathExists(s.inst.AgentPath(slug, a, pathOpts)) {
			present = append(present, a)
		}
	}

	res := s.inst.RemoveSkill(slug, present, pathOpts)
	for _, a := range present {
		cleanupEmptyDir(filepath.Dir(s.inst.AgentPath(slug, a, pathOpts)))
	}

	if _, err := s.lock.Remove(slug); err != nil {
		return res, fmt.Errorf("updating lock file: %w", err)
	}
	return res, nil
}

// List returns every skill in the canonical store with its lock and link
// status.
func (s *Service) List(opts installer.PathOptions) ([]InstalledSkill, error) {
	entries := s.lock.Read().Skills
	return NewScanner(s.inst, s.registry.All()).Scan(entries, opts)
}

// Outdated compares locked versions with the marketplace. Plugin skills are
// checked against their plugin's version, once per plugin. Entries the
// marketplace no longer knows are skipped; other lookup failures are joined
// into the returned error alongside the results that did resolve.
func (s *Service) Outdated(ctx context.Context) ([]lock.UpdateInfo, error) {
	entries := s.lock.List()
	latest := make(map[string]string, len(entries))
	plugins := make(map[string]string)
	checked := make(map[string]bool)

	var errs []error
	for _, e := range entries {
		if e.Plugin != "" {
			if !checked[e.Plugin] {
				checked[e.Plugin] = true
				info, err := s.client.FetchPluginInfo(ctx, e.Plugin)
				switch {
				case errors.Is(err, api.ErrNotFound):
					s.logger.Warn("plugin no longer in marketplace", "plugin", e.Plugin)
				case err != nil:
					errs = append(errs, fmt.Errorf("%s: %w", e.Plugin, err))
				default:
					plugins[e.Plugin] = info.Version
				}
			}
			if v, ok := plugins[e.Plugin]; ok {
				latest[e.Slug] = v
			}
			continue
		}

		info, err := s.client.FetchSkillInfo(ctx, e.Slug)
		switch {
		case errors.Is(err, api.ErrNotFound):
			s.logger.Warn("skill no longer in marketplace", "skill", e.Slug)
		case err != nil:
			errs = append(errs, fmt.Errorf("%s: %w", e.Slug, err))
		default:
			latest[e.Slug] = info.Version
		}
	}
	return lock.CheckUpdates(entries, latest), errors.Join(errs...)
}

// ReportTelemetry sends a skill invocation event unless telemetry is
// disabled. It never fails.
func (s *Service) ReportTelemetry(ctx context.Context, ev api.TelemetryEvent) api.TelemetryResult {
	if !s.rt.Telemetry {
		return api.TelemetryResult{Error: ErrTelemetryDisabled.Error()}
	}
	return s.client.ReportSkillTelemetry(ctx, ev)
}
