package report

import (
	"regexp"
	"strings"
)

var (
	slugInvalidRe = regexp.MustCompile(`[^a-z0-9\-_\x{4e00}-\x{9fff}]+`)
	dashRunRe     = regexp.MustCompile(`-{2,}`)
)

// Slugify converts a title to a URL-friendly slug: lowercase, with runs
// of disallowed characters collapsed to single dashes. CJK characters are
// kept. An empty result falls back to "note".
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = slugInvalidRe.ReplaceAllString(s, "-")
	s = dashRunRe.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return "note"
	}
	return s
}

// NormalizeTag lowercases a tag, strips leading # markers, and applies
// the same character rules as Slugify. Empty tags normalise to "".
func NormalizeTag(tag string) string {
	tag = strings.ToLower(strings.TrimSpace(tag))
	tag = strings.TrimLeft(tag, "#")
	tag = slugInvalidRe.ReplaceAllString(tag, "-")
	tag = dashRunRe.ReplaceAllString(tag, "-")
	return strings.Trim(tag, "-")
}
