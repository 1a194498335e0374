package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/skillstore/skillstore/internal/core/manifest"
)

// FetchSkillInfo returns marketplace details for a skill.
func (c *Client) FetchSkillInfo(ctx context.Context, slug string) (*SkillInfo, error) {
	var env envelope[SkillInfo]
	if err := c.getJSON(ctx, KindSkill, c.endpoint("/skills/%s", url.PathEscape(slug)), &env); err != nil {
		return nil, err
	}
	return &env.Data, nil
}

// FetchSkillManifest returns the signed manifest of a single skill.
func (c *Client) FetchSkillManifest(ctx context.Context, slug string) (*manifest.SkillManifest, error) {
	var m manifest.SkillManifest
	if err := c.getJSON(ctx, KindSkill, c.endpoint("/skills/%s/manifest", url.PathEscape(slug)), &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// DownloadSkillZip fetches a skill's zip archive.
func (c *Client) DownloadSkillZip(ctx context.Context, slug string) ([]byte, error) {
	return c.do(ctx, KindSkill, http.MethodGet, c.endpoint("/skills/%s/download", url.PathEscape(slug)), nil, 2*c.timeout)
}
