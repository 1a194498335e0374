package installer

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	maxSlugLength = 255
	fallbackSlug  = "unnamed-skill"
)

// slugStripper removes path separators, drive/stream separators and NUL bytes.
var slugStripper = strings.NewReplacer("/", "", "\\", "", ":", "", "\x00", "")

// SanitizeSlug turns an untrusted skill slug into a safe directory name.
// Every path built by the installer goes through it.
//
// The result never contains a path separator, colon or NUL byte, never starts
// with a dot or whitespace, is at most 255 bytes, and is never empty.
// SanitizeSlug(SanitizeSlug(s)) == SanitizeSlug(s).
func SanitizeSlug(name string) string {
	name = slugStripper.Replace(name)
	name = strings.TrimLeftFunc(name, func(r rune) bool {
		return r == '.' || unicode.IsSpace(r)
	})
	name = strings.TrimRightFunc(name, unicode.IsSpace)

	if len(name) > maxSlugLength {
		cut := maxSlugLength
		for cut > 0 && !utf8.RuneStart(name[cut]) {
			cut--
		}
		name = strings.TrimRightFunc(name[:cut], unicode.IsSpace)
	}

	if name == "" {
		return fallbackSlug
	}
	return name
}
