package manifest

import (
	"errors"
	"fmt"
	"strings"

	digest "github.com/opencontainers/go-digest"
)

// Verification errors. Signature failures share one message whatever the
// cause.
var (
	ErrUnsupportedVersion = errors.New("Unsupported manifest version")
	ErrMissingPluginSlug  = errors.New("Missing plugin slug in manifest")
	ErrMissingSkillSlug   = errors.New("Missing skill slug in manifest")
	ErrMissingDownloadURL = errors.New("Missing download URL in manifest")
	ErrNoSkills           = errors.New("Manifest contains no skills")
	ErrInvalidSkillEntry  = errors.New("Invalid skill entry")
	ErrNoSignature        = errors.New("Manifest has no signature")
	ErrSignatureMismatch  = errors.New("Signature verification failed")
)

// Result is the outcome of a verification.
type Result struct {
	Valid bool
	Err   error
}

// Error returns the failure message, or "" for a valid result.
func (r Result) Error() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

func fail(err error) Result { return Result{Err: err} }

// VerifyOptions controls Verify.
type VerifyOptions struct {
	SkipSignature bool
	Key           string // verification key; empty uses the built-in key
}

func (o VerifyOptions) key() string {
	if o.Key != "" {
		return o.Key
	}
	return builtinVerifyKey
}

// Verify checks a plugin manifest. Checks run in a fixed order and the first
// failure wins: version, plugin slug, skill list, each skill entry, and
// finally the signature unless SkipSignature is set.
func Verify(m *PluginManifest, opts VerifyOptions) Result {
	if m.Version != SupportedVersion {
		return fail(ErrUnsupportedVersion)
	}
	if m.Plugin.Slug == "" {
		return fail(ErrMissingPluginSlug)
	}
	if len(m.Skills) == 0 {
		return fail(ErrNoSkills)
	}
	for i, s := range m.Skills {
		if s.Slug == "" || s.DownloadURL == "" {
			name := s.Slug
			if name == "" {
				name = s.Name
			}
			return fail(fmt.Errorf("%w at index %d (%q)", ErrInvalidSkillEntry, i, name))
		}
	}
	if opts.SkipSignature {
		return Result{Valid: true}
	}
	return VerifySignature(m, opts.key())
}

// VerifySkillManifest checks a skill manifest in the same order as Verify.
func VerifySkillManifest(m *SkillManifest, opts VerifyOptions) Result {
	if m.Version != SupportedVersion {
		return fail(ErrUnsupportedVersion)
	}
	if m.Skill.Slug == "" {
		return fail(ErrMissingSkillSlug)
	}
	if m.DownloadURL == "" {
		return fail(ErrMissingDownloadURL)
	}
	if opts.SkipSignature {
		return Result{Valid: true}
	}
	return VerifySkillSignature(m, opts.key())
}

// ContentHash returns the lowercase hex SHA-256 of content.
func ContentHash(content []byte) string {
	return digest.SHA256.FromBytes(content).Encoded()
}

// VerifyContentHash reports whether content's SHA-256 matches expected,
// comparing only up to the shorter of the two lengths so that shortened
// reference hashes verify. The comparison is case-sensitive. A short prefix
// is weak evidence; an empty expected hash never matches.
func VerifyContentHash(content []byte, expected string) bool {
	if expected == "" {
		return false
	}
	actual := ContentHash(content)
	n := min(len(actual), len(expected))
	return actual[:n] == expected[:n]
}

// VerifyDigest checks content against a "sha256:<hex>" digest string or a bare
// hex hash.
func VerifyDigest(content []byte, expected string) bool {
	return VerifyContentHash(content, strings.TrimPrefix(expected, digest.SHA256.String()+":"))
}
