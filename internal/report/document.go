// Package report models generated report documents: Markdown files with a
// YAML frontmatter block carrying provenance.
package report

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Document is a generated report. Once written it is never patched in
// place; regeneration rewrites the file wholesale.
type Document struct {
	Title       string    `yaml:"title"`
	Slug        string    `yaml:"slug"`
	Date        string    `yaml:"date"`
	SourceType  string    `yaml:"source_type"`
	SourceID    string    `yaml:"source_id"`
	InputHash   string    `yaml:"input_hash"`
	GeneratedAt time.Time `yaml:"generated_at"`
	Tags        []string  `yaml:"tags,flow"`
	Body        string    `yaml:"-"`
}

// Render serializes the document as frontmatter followed by the body.
func (d *Document) Render() ([]byte, error) {
	front, err := yaml.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("encoding frontmatter: %w", err)
	}

	var b bytes.Buffer
	b.WriteString("---\n")
	b.Write(front)
	b.WriteString("---\n\n")
	b.WriteString(d.Body)
	if !strings.HasSuffix(d.Body, "\n") {
		b.WriteString("\n")
	}
	return b.Bytes(), nil
}

// Filename returns the document's file name, "YYYY-MM-DD-<slug>.md".
func (d *Document) Filename() string {
	return fmt.Sprintf("%s-%s.md", d.Date, d.Slug)
}

// SplitFrontmatter separates a YAML frontmatter block (between leading
// --- delimiters) from the Markdown body. If no frontmatter is found, or
// the block is not valid YAML, the entire content is body.
func SplitFrontmatter(data []byte) (map[string]any, string) {
	const delim = "---"
	trimmed := bytes.TrimLeft(data, "\n\r")

	if !bytes.HasPrefix(trimmed, []byte(delim)) {
		return nil, string(data)
	}

	rest := trimmed[len(delim):]
	idx := bytes.Index(rest, []byte("\n"+delim))
	if idx < 0 {
		return nil, string(data)
	}

	yamlBlock := rest[:idx]
	afterDelim := rest[idx+1+len(delim):]
	body := strings.TrimLeft(string(afterDelim), "\n\r")

	var fm map[string]any
	if err := yaml.Unmarshal(yamlBlock, &fm); err != nil {
		return nil, string(data)
	}
	return fm, body
}

// FrontmatterString returns the named frontmatter field as a trimmed
// string, with surrounding quotes removed.
func FrontmatterString(fm map[string]any, key string) string {
	if fm == nil {
		return ""
	}
	v, ok := fm[key]
	if !ok || v == nil {
		return ""
	}
	if t, ok := v.(time.Time); ok {
		return t.Format(time.RFC3339)
	}
	s := strings.TrimSpace(fmt.Sprintf("%v", v))
	s = strings.Trim(s, `"'`)
	return s
}

// FrontmatterTags returns the tags field normalised to a string slice.
// Both YAML lists and bracketed string forms are accepted.
func FrontmatterTags(fm map[string]any) []string {
	if fm == nil {
		return nil
	}
	raw, ok := fm["tags"]
	if !ok || raw == nil {
		return nil
	}

	var out []string
	switch v := raw.(type) {
	case []any:
		for _, item := range v {
			if t := NormalizeTag(fmt.Sprintf("%v", item)); t != "" {
				out = append(out, t)
			}
		}
	case string:
		cleaned := strings.Trim(strings.TrimSpace(v), "[]")
		for _, part := range strings.Split(cleaned, ",") {
			if t := NormalizeTag(part); t != "" {
				out = append(out, t)
			}
		}
	}
	return out
}
