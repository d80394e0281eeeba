package report

import (
	"sort"
	"strings"
)

// Meta holds the title, slug, and tags recovered from model output.
type Meta struct {
	Title string
	Slug  string
	Tags  []string
}

// ExtractMeta recovers report metadata from raw model output and returns
// it together with the cleaned body. The model is asked to lead with a
// frontmatter block; when it does, that wins. Otherwise leading "Title:"
// and "Tags:" lines and the first H1 are used as fallbacks.
func ExtractMeta(text string) (Meta, string) {
	var meta Meta

	fm, body := SplitFrontmatter([]byte(text))
	if fm != nil {
		meta.Title = FrontmatterString(fm, "title")
		meta.Slug = FrontmatterString(fm, "slug")
		meta.Tags = FrontmatterTags(fm)
	}

	heurTitle, heurTags, cleaned := stripLeadingMetaLines(body)
	if meta.Title == "" {
		meta.Title = heurTitle
	}
	if len(meta.Tags) == 0 {
		meta.Tags = heurTags
	}

	if meta.Slug == "" && meta.Title != "" {
		meta.Slug = Slugify(meta.Title)
	}
	if meta.Slug == "" {
		meta.Slug = "daily-report"
	}

	meta.Tags = dedupeSorted(meta.Tags)
	return meta, cleaned
}

// stripLeadingMetaLines consumes leading single-line "Title:" and "Tags:"
// fields the model may emit instead of frontmatter, and falls back to the
// first H1 for the title and an early "Tags:" line for tags.
func stripLeadingMetaLines(text string) (title string, tags []string, cleaned string) {
	lines := strings.Split(text, "\n")

	consumed := 0
	limit := min(len(lines), 6)
scan:
	for i := 0; i < limit; i++ {
		line := lines[i]
		lower := strings.ToLower(line)
		switch {
		case strings.HasPrefix(lower, "title:"):
			title = strings.TrimSpace(line[len("title:"):])
			consumed++
		case strings.HasPrefix(lower, "tags:"):
			tags = parseTagLine(line[len("tags:"):])
			consumed++
		default:
			break scan
		}
	}
	lines = lines[consumed:]

	if title == "" {
		for _, line := range lines {
			if strings.HasPrefix(line, "# ") {
				title = strings.TrimSpace(line[2:])
				break
			}
		}
	}
	if len(tags) == 0 {
		n := min(len(lines), 12)
		for _, line := range lines[:n] {
			if strings.HasPrefix(strings.ToLower(line), "tags:") {
				tags = parseTagLine(line[len("tags:"):])
				break
			}
		}
	}

	return title, tags, strings.TrimLeft(strings.Join(lines, "\n"), "\n")
}

func parseTagLine(raw string) []string {
	raw = strings.Trim(strings.TrimSpace(raw), "[]")
	var tags []string
	for _, part := range strings.Split(raw, ",") {
		if t := NormalizeTag(part); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

func dedupeSorted(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	var out []string
	for _, t := range tags {
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
