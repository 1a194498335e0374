package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/skillstore/skillstore/internal/core/manifest"
)

// FetchManifest returns the signed manifest of a plugin. The manifest is not
// verified here.
func (c *Client) FetchManifest(ctx context.Context, slug string) (*manifest.PluginManifest, error) {
	var m manifest.PluginManifest
	if err := c.getJSON(ctx, KindPlugin, c.endpoint("/plugins/%s/manifest", url.PathEscape(slug)), &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// FetchPluginInfo returns marketplace details for a plugin.
func (c *Client) FetchPluginInfo(ctx context.Context, slug string) (*PluginInfo, error) {
	var env envelope[PluginInfo]
	if err := c.getJSON(ctx, KindPlugin, c.endpoint("/plugins/%s", url.PathEscape(slug)), &env); err != nil {
		return nil, err
	}
	return &env.Data, nil
}

// FetchPluginList returns one page of plugins.
func (c *Client) FetchPluginList(ctx context.Context, opts ListOptions) (*PluginList, error) {
	q := url.Values{}
	if opts.Type != "" {
		q.Set("type", opts.Type)
	}
	if opts.Pricing != "" {
		q.Set("pricing", opts.Pricing)
	}
	if opts.Limit > 0 {
		q.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.Page > 0 {
		q.Set("page", strconv.Itoa(opts.Page))
	}
	u := c.endpoint("/plugins")
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	var env envelope[[]PluginInfo]
	if err := c.getJSON(ctx, KindPlugin, u, &env); err != nil {
		return nil, err
	}
	list := &PluginList{Plugins: env.Data}
	if env.Pagination != nil {
		list.Pagination = *env.Pagination
	}
	return list, nil
}

// ReportInstallation records a plugin install. An empty method reports
// DefaultInstallMethod.
func (c *Client) ReportInstallation(ctx context.Context, slug, method string) error {
	if method == "" {
		method = DefaultInstallMethod
	}
	return c.post(ctx, KindPlugin, c.endpoint("/plugins/%s/install", url.PathEscape(slug)), installReport{Method: method})
}

// DownloadSkill fetches a skill body from a manifest download URL, which may
// be relative to the site root.
func (c *Client) DownloadSkill(ctx context.Context, downloadURL string) (string, error) {
	u := ResolveDownloadURL(c.baseURL, downloadURL)
	data, err := c.do(ctx, KindPlugin, http.MethodGet, u, nil, 2*c.timeout)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ReportSkillTelemetry sends an invocation event. Failures of any kind are
// returned in the result, never as an error.
func (c *Client) ReportSkillTelemetry(ctx context.Context, ev TelemetryEvent) TelemetryResult {
	err := c.post(ctx, KindPlugin, c.endpoint("/telemetry/effectiveness"), ev)
	if err != nil {
		c.logger.Debug("telemetry not delivered", "skill", ev.SkillSlug, "error", err)
		return TelemetryResult{Error: err.Error()}
	}
	return TelemetryResult{Success: true}
}

// ReportSkillInstall records a single-skill install.
func (c *Client) ReportSkillInstall(ctx context.Context, slug string, report SkillInstallReport) error {
	if report.Method == "" {
		report.Method = DefaultInstallMethod
	}
	return c.post(ctx, KindSkill, c.endpoint("/skills/%s/install", url.PathEscape(slug)), report)
}
